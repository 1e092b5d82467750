package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDeleteCmd creates the delete command
func NewDeleteCmd() *cobra.Command {
	var server string
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <program-id>",
		Short: "Remove a training program from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(server, args[0], force)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server URL (overrides config)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")

	return cmd
}

func runDelete(server, programID string, force bool) error {
	sess, err := newSession(server)
	if err != nil {
		return err
	}

	if err := ensureAdmin(sess, "/admin/program/delete/"+programID); err != nil {
		return err
	}

	program, err := sess.API().GetProgram(programID)
	if err != nil {
		return err
	}

	if !force {
		confirmed, err := promptYesNo(fmt.Sprintf("Delete program %q?", program.Title))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := sess.API().DeleteProgram(programID); err != nil {
		if !sess.IsAuthenticated() {
			return fmt.Errorf("session expired, run 'progtrack login' again")
		}
		return fmt.Errorf("failed to delete program: %w", err)
	}

	fmt.Printf("✓ Deleted %q.\n", program.Title)
	return nil
}
