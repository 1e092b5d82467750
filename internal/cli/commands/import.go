package commands

import (
	"fmt"
	"os"

	"github.com/progtrack-dev/progtrack/internal/cli/client"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// importFile is the YAML document accepted by the import command
type importFile struct {
	Programs []importProgram `yaml:"programs"`
}

type importProgram struct {
	Title          string          `yaml:"title"`
	Description    string          `yaml:"description"`
	Levels         []string        `yaml:"levels"`
	Goals          []string        `yaml:"goals"`
	Equipment      string          `yaml:"equipment"`
	ProgramLength  int             `yaml:"programLength"`
	TimePerWorkout int             `yaml:"timePerWorkout"`
	TotalExercises int             `yaml:"totalExercises"`
	WeeklyPlan     []importPlanDay `yaml:"weeklyPlan"`
}

type importPlanDay struct {
	Day     string `yaml:"day"`
	Content string `yaml:"content"`
}

// NewImportCmd creates the import command
func NewImportCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Bulk-create programs from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(server, args[0])
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server URL (overrides config)")

	return cmd
}

func runImport(server, path string) error {
	sess, err := newSession(server)
	if err != nil {
		return err
	}

	if err := ensureAuth(sess, "/program/create"); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc importFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(doc.Programs) == 0 {
		return fmt.Errorf("%s contains no programs", path)
	}

	created := 0
	for _, p := range doc.Programs {
		req := client.ProgramRequest{
			Title:          p.Title,
			Description:    p.Description,
			Levels:         p.Levels,
			Goals:          p.Goals,
			Equipment:      p.Equipment,
			ProgramLength:  p.ProgramLength,
			TimePerWorkout: p.TimePerWorkout,
			TotalExercises: p.TotalExercises,
		}
		for _, day := range p.WeeklyPlan {
			req.WeeklyPlan = append(req.WeeklyPlan, client.PlanDayEntry{
				DayOfWeek: day.Day,
				Content:   day.Content,
			})
		}

		program, err := sess.API().CreateProgram(req)
		if err != nil {
			if !sess.IsAuthenticated() {
				return fmt.Errorf("session expired after %d programs, run 'progtrack login' again", created)
			}
			return fmt.Errorf("failed to create %q (after %d created): %w", p.Title, created, err)
		}

		fmt.Printf("✓ %s (%s)\n", program.Title, program.ID)
		created++
	}

	fmt.Printf("\nImported %d program(s).\n", created)
	return nil
}
