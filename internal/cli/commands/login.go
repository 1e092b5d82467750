package commands

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var server, user, password string
	var rememberMe bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with a ProgTrack server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(server, user, password, rememberMe)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server URL (overrides config)")
	cmd.Flags().StringVar(&user, "user", "", "Email or username (or set PROGTRACK_USER)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set PROGTRACK_PASSWORD, will prompt if not provided)")
	cmd.Flags().BoolVar(&rememberMe, "remember-me", true, "Keep the session across restarts")

	return cmd
}

func runLogin(server, user, password string, rememberMe bool) error {
	// Check for environment variables (useful for CI/CD)
	if user == "" {
		user = os.Getenv("PROGTRACK_USER")
	}
	if password == "" {
		password = os.Getenv("PROGTRACK_PASSWORD")
	}

	if user == "" {
		return fmt.Errorf("email or username is required (use --user flag or PROGTRACK_USER env var)")
	}

	sess, err := newSession(server)
	if err != nil {
		return err
	}

	if err := ensureGuest(sess, "/auth/login"); err != nil {
		return err
	}

	// Prompt for password if not provided via flag or env var
	if password == "" {
		// Check if stdin is a terminal (not piped)
		if term.IsTerminal(int(syscall.Stdin)) {
			fmt.Print("Password: ")
			bytePassword, err := term.ReadPassword(int(syscall.Stdin))
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = string(bytePassword)
			fmt.Println() // New line after password input
		} else {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or PROGTRACK_PASSWORD env var)")
		}
	}

	fmt.Printf("Logging in to %s...\n", sess.API().BaseURL())

	userInfo, err := sess.Login(user, password, rememberMe)
	if err != nil {
		return fmt.Errorf("login failed: %s", sess.State().Err)
	}

	fmt.Println("✓ Login successful!")
	fmt.Printf("  User: %s (%s)\n", userInfo.FullName, userInfo.Email)
	if userInfo.Role != "USER" {
		fmt.Printf("  Role: %s\n", userInfo.Role)
	}

	return nil
}
