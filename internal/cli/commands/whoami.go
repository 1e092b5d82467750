package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	var server string
	var remote bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami(server, remote)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server URL (overrides config)")
	cmd.Flags().BoolVar(&remote, "remote", false, "Fetch the profile from the server instead of the local session")

	return cmd
}

func runWhoami(server string, remote bool) error {
	sess, err := newSession(server)
	if err != nil {
		return err
	}

	if err := ensureAuth(sess, "/profile"); err != nil {
		return err
	}

	user := sess.CurrentUser()
	if remote {
		// Round-trips the token; an expired session is evicted here
		user, err = sess.API().Me()
		if err != nil {
			if !sess.IsAuthenticated() {
				return fmt.Errorf("session expired, run 'progtrack login' again")
			}
			return err
		}
	}

	fmt.Printf("Logged in to %s as:\n", sess.API().BaseURL())
	fmt.Printf("  Username: %s\n", user.Username)
	fmt.Printf("  Email:    %s\n", user.Email)
	fmt.Printf("  Name:     %s\n", user.FullName)
	fmt.Printf("  Role:     %s\n", user.Role)
	if !user.Verified {
		fmt.Println("  Email not verified yet.")
	}

	return nil
}
