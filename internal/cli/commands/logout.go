package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(server)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server URL (overrides config)")

	return cmd
}

func runLogout(server string) error {
	sess, err := newSession(server)
	if err != nil {
		return err
	}

	// Logout is idempotent; signing out twice is not an error
	wasAuthenticated := sess.IsAuthenticated()
	sess.Logout()

	if wasAuthenticated {
		fmt.Println("✓ Logged out.")
	} else {
		fmt.Println("Not logged in.")
	}

	return nil
}
