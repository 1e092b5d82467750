package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "verify <token>",
		Short: "Confirm an email address with a verification token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(server, args[0])
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server URL (overrides config)")

	return cmd
}

func runVerify(server, token string) error {
	sess, err := newSession(server)
	if err != nil {
		return err
	}

	resp, err := sess.VerifyEmail(token)
	if err != nil {
		return fmt.Errorf("verification failed: %s", sess.State().Err)
	}

	fmt.Println("✓ " + resp.Message)
	if resp.Email != "" {
		fmt.Printf("  You can now log in as %s.\n", resp.Email)
	}

	return nil
}

// NewResendVerificationCmd creates the resend-verification command
func NewResendVerificationCmd() *cobra.Command {
	var server, email string

	cmd := &cobra.Command{
		Use:   "resend-verification",
		Short: "Request a fresh verification email",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResendVerification(server, email)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server URL (overrides config)")
	cmd.Flags().StringVar(&email, "email", "", "Email address of the unverified account")
	cmd.MarkFlagRequired("email")

	return cmd
}

func runResendVerification(server, email string) error {
	sess, err := newSession(server)
	if err != nil {
		return err
	}

	resp, err := sess.ResendVerification(email)
	if err != nil {
		return fmt.Errorf("request failed: %s", sess.State().Err)
	}

	fmt.Println("✓ " + resp.Message)
	return nil
}
