package auth

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash must not equal the plaintext")
	}

	if err := VerifyPassword("correct horse battery staple", hash); err != nil {
		t.Errorf("expected matching password to verify: %v", err)
	}
	if err := VerifyPassword("wrong password", hash); err == nil {
		t.Error("expected mismatched password to fail verification")
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	first, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	second, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	if first == second {
		t.Error("expected different salts to produce different hashes")
	}
}

func TestSessionDataIsAdmin(t *testing.T) {
	admin := &SessionData{UserID: "u1", Role: "ADMIN"}
	if !admin.IsAdmin() {
		t.Error("expected ADMIN role to report IsAdmin")
	}

	for _, role := range []string{"USER", "MODERATOR", ""} {
		sess := &SessionData{UserID: "u2", Role: role}
		if sess.IsAdmin() {
			t.Errorf("expected role %q not to report IsAdmin", role)
		}
	}
}
