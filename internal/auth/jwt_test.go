package auth

import (
	"strings"
	"testing"
)

func TestGenerateAndValidateToken(t *testing.T) {
	InitializeJWT("test-secret")

	token, err := GenerateToken("01HZXW0001TESTUSER0000000", "alice", "USER", true)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}

	if claims.UserID != "01HZXW0001TESTUSER0000000" {
		t.Errorf("expected user ID to round-trip, got %q", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("expected username alice, got %q", claims.Username)
	}
	if claims.Role != "USER" {
		t.Errorf("expected role USER, got %q", claims.Role)
	}
	if !claims.Verified {
		t.Error("expected verified claim to round-trip")
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	InitializeJWT("first-secret")
	token, err := GenerateToken("user-1", "alice", "USER", true)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	InitializeJWT("second-secret")
	if _, err := ValidateToken(token); err == nil {
		t.Error("expected validation to fail with a different secret")
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	InitializeJWT("test-secret")

	if _, err := ValidateToken("not.a.token"); err == nil {
		t.Error("expected validation to fail for garbage input")
	}
}

func TestValidateToken_TamperedPayload(t *testing.T) {
	InitializeJWT("test-secret")
	token, err := GenerateToken("user-1", "alice", "USER", false)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected three token segments, got %d", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	if _, err := ValidateToken(tampered); err == nil {
		t.Error("expected validation to fail for a tampered payload")
	}
}

func TestGenerateToken_RequiresSecret(t *testing.T) {
	InitializeJWT("")
	defer InitializeJWT("test-secret")

	if _, err := GenerateToken("user-1", "alice", "USER", false); err == nil {
		t.Error("expected token generation to fail without a secret")
	}
}
