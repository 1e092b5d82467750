package commands

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	var server string
	var withPlan bool

	cmd := &cobra.Command{
		Use:   "show <program-id>",
		Short: "Show a program's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(server, args[0], withPlan)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server URL (overrides config)")
	cmd.Flags().BoolVar(&withPlan, "plan", false, "Include the weekly training plan")

	return cmd
}

func runShow(server, programID string, withPlan bool) error {
	sess, err := newSession(server)
	if err != nil {
		return err
	}

	program, err := sess.API().GetProgram(programID)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", program.Title)
	fmt.Printf("%s\n\n", program.Description)
	fmt.Printf("  Levels:      %s\n", strings.Join(program.Levels, ", "))
	fmt.Printf("  Goals:       %s\n", strings.Join(program.Goals, ", "))
	fmt.Printf("  Equipment:   %s\n", program.Equipment)
	fmt.Printf("  Length:      %d weeks\n", program.ProgramLength)
	fmt.Printf("  Per workout: %d minutes\n", program.TimePerWorkout)
	fmt.Printf("  Exercises:   %d\n", program.TotalExercises)
	fmt.Printf("  Created by:  %s\n", program.CreatorDisplayName)

	if !withPlan {
		return nil
	}

	plan, err := sess.API().GetWeeklyPlan(programID)
	if err != nil {
		return err
	}

	fmt.Println("\nWeekly plan:")
	if len(plan.Entries) == 0 {
		fmt.Println("  (no plan published)")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, entry := range plan.Entries {
		fmt.Fprintf(w, "  %s\t%s\n", entry.DayOfWeek, entry.Content)
	}
	w.Flush()

	return nil
}
