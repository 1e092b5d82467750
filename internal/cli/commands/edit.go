package commands

import (
	"fmt"

	"github.com/progtrack-dev/progtrack/internal/cli/client"
	"github.com/spf13/cobra"
)

// NewEditCmd creates the edit command
func NewEditCmd() *cobra.Command {
	var server, title, description, equipment string
	var levels, goals []string
	var programLength, timePerWorkout, totalExercises int

	cmd := &cobra.Command{
		Use:   "edit <program-id>",
		Short: "Update an existing training program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, server, args[0], client.ProgramRequest{
				Title:          title,
				Description:    description,
				Levels:         levels,
				Goals:          goals,
				Equipment:      equipment,
				ProgramLength:  programLength,
				TimePerWorkout: timePerWorkout,
				TotalExercises: totalExercises,
			})
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server URL (overrides config)")
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringSliceVar(&levels, "level", nil, "Experience level (repeatable)")
	cmd.Flags().StringSliceVar(&goals, "goal", nil, "Training goal (repeatable)")
	cmd.Flags().StringVar(&equipment, "equipment", "", "Required equipment")
	cmd.Flags().IntVar(&programLength, "length", 0, "Program length in weeks")
	cmd.Flags().IntVar(&timePerWorkout, "time-per-workout", 0, "Minutes per workout")
	cmd.Flags().IntVar(&totalExercises, "exercises", 0, "Total number of exercises")

	return cmd
}

func runEdit(cmd *cobra.Command, server, programID string, req client.ProgramRequest) error {
	sess, err := newSession(server)
	if err != nil {
		return err
	}

	if err := ensureAdmin(sess, "/admin/program/edit/"+programID); err != nil {
		return err
	}

	// Start from the current program so unset flags keep their values
	current, err := sess.API().GetProgram(programID)
	if err != nil {
		return err
	}
	merged := mergeProgram(cmd, *current, req)

	updated, err := sess.API().UpdateProgram(programID, merged)
	if err != nil {
		if !sess.IsAuthenticated() {
			return fmt.Errorf("session expired, run 'progtrack login' again")
		}
		return fmt.Errorf("failed to update program: %w", err)
	}

	fmt.Println("✓ Program updated!")
	fmt.Printf("  ID:    %s\n", updated.ID)
	fmt.Printf("  Title: %s\n", updated.Title)

	return nil
}

func mergeProgram(cmd *cobra.Command, current client.Program, req client.ProgramRequest) client.ProgramRequest {
	merged := client.ProgramRequest{
		Title:          current.Title,
		Description:    current.Description,
		Levels:         current.Levels,
		Goals:          current.Goals,
		Equipment:      current.Equipment,
		ProgramLength:  current.ProgramLength,
		TimePerWorkout: current.TimePerWorkout,
		TotalExercises: current.TotalExercises,
	}

	if cmd.Flags().Changed("title") {
		merged.Title = req.Title
	}
	if cmd.Flags().Changed("description") {
		merged.Description = req.Description
	}
	if cmd.Flags().Changed("level") {
		merged.Levels = req.Levels
	}
	if cmd.Flags().Changed("goal") {
		merged.Goals = req.Goals
	}
	if cmd.Flags().Changed("equipment") {
		merged.Equipment = req.Equipment
	}
	if cmd.Flags().Changed("length") {
		merged.ProgramLength = req.ProgramLength
	}
	if cmd.Flags().Changed("time-per-workout") {
		merged.TimePerWorkout = req.TimePerWorkout
	}
	if cmd.Flags().Changed("exercises") {
		merged.TotalExercises = req.TotalExercises
	}

	return merged
}
