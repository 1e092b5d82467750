package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/progtrack-dev/progtrack/internal/cli/client"
	"github.com/spf13/cobra"
)

var planDays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// NewCreateCmd creates the create command
func NewCreateCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new training program interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(server)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server URL (overrides config)")

	return cmd
}

func runCreate(server string) error {
	sess, err := newSession(server)
	if err != nil {
		return err
	}

	if err := ensureAuth(sess, "/program/create"); err != nil {
		return err
	}

	req, err := promptProgram()
	if err != nil {
		return err
	}

	program, err := sess.API().CreateProgram(*req)
	if err != nil {
		if !sess.IsAuthenticated() {
			return fmt.Errorf("session expired, run 'progtrack login' again")
		}
		return fmt.Errorf("failed to create program: %w", err)
	}

	fmt.Println("✓ Program created!")
	fmt.Printf("  ID:    %s\n", program.ID)
	fmt.Printf("  Title: %s\n", program.Title)

	return nil
}

func promptProgram() (*client.ProgramRequest, error) {
	req := &client.ProgramRequest{}

	title, err := promptText("Title", true)
	if err != nil {
		return nil, err
	}
	req.Title = title

	description, err := promptText("Description", true)
	if err != nil {
		return nil, err
	}
	req.Description = description

	levels, err := promptText("Levels (comma-separated, e.g. BEGINNER,INTERMEDIATE)", true)
	if err != nil {
		return nil, err
	}
	req.Levels = splitList(levels)

	goals, err := promptText("Goals (comma-separated, e.g. STRENGTH,HYPERTROPHY)", true)
	if err != nil {
		return nil, err
	}
	req.Goals = splitList(goals)

	equipment, err := promptText("Equipment", false)
	if err != nil {
		return nil, err
	}
	req.Equipment = equipment

	req.ProgramLength, err = promptInt("Program length (weeks)")
	if err != nil {
		return nil, err
	}
	req.TimePerWorkout, err = promptInt("Time per workout (minutes)")
	if err != nil {
		return nil, err
	}
	req.TotalExercises, err = promptInt("Total exercises")
	if err != nil {
		return nil, err
	}

	addPlan, err := promptYesNo("Add a weekly plan?")
	if err != nil {
		return nil, err
	}
	if addPlan {
		for _, day := range planDays {
			content, err := promptText(day+" (empty to skip)", false)
			if err != nil {
				return nil, err
			}
			if content == "" {
				continue
			}
			req.WeeklyPlan = append(req.WeeklyPlan, client.PlanDayEntry{
				DayOfWeek: day,
				Content:   content,
			})
		}
	}

	return req, nil
}

func promptText(label string, required bool) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if required && strings.TrimSpace(input) == "" {
				return fmt.Errorf("value is required")
			}
			return nil
		},
	}

	value, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("prompt cancelled: %w", err)
	}
	return strings.TrimSpace(value), nil
}

func promptInt(label string) (int, error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			n, err := strconv.Atoi(strings.TrimSpace(input))
			if err != nil || n <= 0 {
				return fmt.Errorf("enter a positive number")
			}
			return nil
		},
	}

	value, err := prompt.Run()
	if err != nil {
		return 0, fmt.Errorf("prompt cancelled: %w", err)
	}
	return strconv.Atoi(strings.TrimSpace(value))
}

func promptYesNo(label string) (bool, error) {
	prompt := promptui.Select{
		Label: label,
		Items: []string{"No", "Yes"},
	}

	index, _, err := prompt.Run()
	if err != nil {
		return false, fmt.Errorf("prompt cancelled: %w", err)
	}
	return index == 1, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, strings.ToUpper(trimmed))
		}
	}
	return out
}
