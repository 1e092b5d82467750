package commands

import (
	"fmt"

	"github.com/progtrack-dev/progtrack/internal/cli/config"
	"github.com/spf13/cobra"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init <server-url>",
		Short: "Point the CLI at a ProgTrack server",
		Args:  cobra.ExactArgs(1),
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	serverURL := args[0]

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	cfg.ServerURL = serverURL
	if err := config.Save(cfg); err != nil {
		return err
	}

	configPath, err := config.GetConfigPath()
	if err != nil {
		return err
	}

	fmt.Printf("✓ Saved server %s to %s\n", serverURL, configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Run 'progtrack register' to create an account, or")
	fmt.Println("  2. Run 'progtrack login' to authenticate")

	return nil
}
