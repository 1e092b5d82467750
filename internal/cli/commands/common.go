package commands

import (
	"fmt"

	"github.com/progtrack-dev/progtrack/internal/cli/config"
	"github.com/progtrack-dev/progtrack/internal/cli/guard"
	"github.com/progtrack-dev/progtrack/internal/cli/session"
)

// newSession resolves the server URL and builds the session store bound
// to it, rehydrating any persisted login. This is common logic used by
// most commands.
func newSession(serverFlag string) (*session.Store, error) {
	serverURL, err := config.ResolveServerURL(serverFlag)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve server: %w\nRun 'progtrack init' to create a configuration file", err)
	}

	return session.New(serverURL), nil
}

// ensureAuth fails unless a user is signed in
func ensureAuth(sess *session.Store, target string) error {
	if d := guard.RequireAuth(sess, target); !d.Allowed {
		return fmt.Errorf("you are not logged in (run 'progtrack login' first)")
	}
	return nil
}

// ensureAdmin fails unless a signed-in administrator
func ensureAdmin(sess *session.Store, target string) error {
	d := guard.RequireAdmin(sess, target)
	if d.Allowed {
		return nil
	}
	if !sess.IsAuthenticated() {
		return fmt.Errorf("you are not logged in (run 'progtrack login' first)")
	}
	return fmt.Errorf("this command requires administrator privileges")
}

// ensureGuest fails when a user is already signed in
func ensureGuest(sess *session.Store, target string) error {
	if d := guard.RequireGuest(sess, target); !d.Allowed {
		user := sess.CurrentUser()
		return fmt.Errorf("already logged in as %s (run 'progtrack logout' first)", user.Username)
	}
	return nil
}
