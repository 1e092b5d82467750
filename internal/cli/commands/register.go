package commands

import (
	"fmt"
	"syscall"

	"github.com/progtrack-dev/progtrack/internal/cli/client"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewRegisterCmd creates the register command
func NewRegisterCmd() *cobra.Command {
	var server, username, email, password, firstName, lastName string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new ProgTrack account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(server, username, email, password, firstName, lastName)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server URL (overrides config)")
	cmd.Flags().StringVar(&username, "username", "", "Username for the new account")
	cmd.Flags().StringVar(&email, "email", "", "Email address for the new account")
	cmd.Flags().StringVar(&password, "password", "", "Password (will prompt if not provided)")
	cmd.Flags().StringVar(&firstName, "first-name", "", "First name (optional)")
	cmd.Flags().StringVar(&lastName, "last-name", "", "Last name (optional)")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("email")

	return cmd
}

func runRegister(server, username, email, password, firstName, lastName string) error {
	sess, err := newSession(server)
	if err != nil {
		return err
	}

	if err := ensureGuest(sess, "/auth/register"); err != nil {
		return err
	}

	if password == "" {
		if !term.IsTerminal(int(syscall.Stdin)) {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag)")
		}
		fmt.Print("Password: ")
		bytePassword, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Println()
		fmt.Print("Confirm password: ")
		byteConfirm, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Println()
		if string(bytePassword) != string(byteConfirm) {
			return fmt.Errorf("passwords do not match")
		}
		password = string(bytePassword)
	}

	resp, err := sess.Register(client.RegisterRequest{
		Username:  username,
		Email:     email,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
	})
	if err != nil {
		return fmt.Errorf("registration failed: %s", sess.State().Err)
	}

	fmt.Println("✓ Account created!")
	if resp.VerificationEmailSent {
		fmt.Printf("  A verification email was sent to %s.\n", resp.Email)
		fmt.Println("  Verify it with: progtrack verify <token>")
	} else {
		fmt.Println("  The verification email could not be sent.")
		fmt.Printf("  Request a new one with: progtrack resend-verification --email %s\n", email)
	}

	return nil
}
