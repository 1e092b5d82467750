package commands

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/progtrack-dev/progtrack/internal/cli/auth"
	"github.com/progtrack-dev/progtrack/internal/cli/session"
	"github.com/progtrack-dev/progtrack/internal/cli/userconfig"
)

// memTokenStore holds tokens in memory so tests never touch the keyring
type memTokenStore struct {
	tokens map[string]string
}

func (m *memTokenStore) SaveToken(serverHost, token string) error {
	m.tokens[serverHost] = token
	return nil
}

func (m *memTokenStore) LoadToken(serverHost string) (string, error) {
	return m.tokens[serverHost], nil
}

func (m *memTokenStore) DeleteToken(serverHost string) error {
	delete(m.tokens, serverHost)
	return nil
}

// memProfileStore holds the profile in memory
type memProfileStore struct {
	profile *userconfig.Profile
}

func (m *memProfileStore) SaveProfile(p *userconfig.Profile) error {
	m.profile = p
	return nil
}

func (m *memProfileStore) LoadProfile() (*userconfig.Profile, error) {
	return m.profile, nil
}

func (m *memProfileStore) DeleteProfile() error {
	m.profile = nil
	return nil
}

var _ auth.TokenStore = (*memTokenStore)(nil)
var _ userconfig.ProfileStore = (*memProfileStore)(nil)

// sessionWithUser builds a rehydrated session for the given role
func sessionWithUser(t *testing.T, role string) *session.Store {
	t.Helper()

	user, err := json.Marshal(map[string]any{
		"username": "alice",
		"role":     role,
		"verified": true,
	})
	if err != nil {
		t.Fatal(err)
	}

	tokens := &memTokenStore{tokens: map[string]string{"localhost:8080": "token"}}
	profiles := &memProfileStore{profile: &userconfig.Profile{User: user}}

	return session.New("http://localhost:8080",
		session.WithTokenStore(tokens),
		session.WithProfileStore(profiles),
	)
}

func anonymousSession(t *testing.T) *session.Store {
	t.Helper()
	return session.New("http://localhost:8080",
		session.WithTokenStore(&memTokenStore{tokens: map[string]string{}}),
		session.WithProfileStore(&memProfileStore{}),
	)
}

func TestEnsureAuth(t *testing.T) {
	if err := ensureAuth(sessionWithUser(t, "USER"), "/program/create"); err != nil {
		t.Errorf("expected signed-in user to pass, got: %v", err)
	}

	err := ensureAuth(anonymousSession(t), "/program/create")
	if err == nil {
		t.Fatal("expected anonymous user to be rejected")
	}
	if !strings.Contains(err.Error(), "progtrack login") {
		t.Errorf("expected the error to point at the login command, got: %v", err)
	}
}

func TestEnsureAdmin(t *testing.T) {
	if err := ensureAdmin(sessionWithUser(t, "ADMIN"), "/admin/program/edit/7"); err != nil {
		t.Errorf("expected admin to pass, got: %v", err)
	}

	err := ensureAdmin(sessionWithUser(t, "USER"), "/admin/program/edit/7")
	if err == nil {
		t.Fatal("expected non-admin to be rejected")
	}
	if !strings.Contains(err.Error(), "administrator") {
		t.Errorf("expected a privileges message, got: %v", err)
	}

	err = ensureAdmin(anonymousSession(t), "/admin/program/edit/7")
	if err == nil {
		t.Fatal("expected anonymous user to be rejected")
	}
	if !strings.Contains(err.Error(), "progtrack login") {
		t.Errorf("expected the error to point at the login command, got: %v", err)
	}
}

func TestEnsureGuest(t *testing.T) {
	if err := ensureGuest(anonymousSession(t), "/auth/login"); err != nil {
		t.Errorf("expected anonymous user to pass, got: %v", err)
	}

	err := ensureGuest(sessionWithUser(t, "USER"), "/auth/login")
	if err == nil {
		t.Fatal("expected signed-in user to be rejected")
	}
	if !strings.Contains(err.Error(), "alice") {
		t.Errorf("expected the error to name the signed-in user, got: %v", err)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" beginner, Intermediate ,,advanced ")
	want := []string{"BEGINNER", "INTERMEDIATE", "ADVANCED"}
	if len(got) != len(want) {
		t.Fatalf("splitList() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitList()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
