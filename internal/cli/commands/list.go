package commands

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/progtrack-dev/progtrack/internal/cli/client"
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var server, equipment, level, goal string
	var maxDuration int

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List training programs in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(server, client.SearchParams{
				Equipment:   equipment,
				Level:       level,
				Goal:        goal,
				MaxDuration: maxDuration,
			})
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server URL (overrides config)")
	cmd.Flags().StringVar(&equipment, "equipment", "", "Filter by required equipment")
	cmd.Flags().StringVar(&level, "level", "", "Filter by experience level")
	cmd.Flags().StringVar(&goal, "goal", "", "Filter by training goal")
	cmd.Flags().IntVar(&maxDuration, "max-duration", 0, "Maximum minutes per workout")

	return cmd
}

func runList(server string, params client.SearchParams) error {
	sess, err := newSession(server)
	if err != nil {
		return err
	}

	// The catalog is public; no login required
	var programs []client.Program
	if params == (client.SearchParams{}) {
		programs, err = sess.API().ListPrograms()
	} else {
		programs, err = sess.API().SearchPrograms(params)
	}
	if err != nil {
		return err
	}

	if len(programs) == 0 {
		fmt.Println("No programs found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tLEVELS\tGOALS\tWEEKS\tMIN/WORKOUT\tBY")
	fmt.Fprintln(w, "──\t─────\t──────\t─────\t─────\t───────────\t──")

	for _, p := range programs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			p.ID,
			p.Title,
			strings.Join(p.Levels, ","),
			strings.Join(p.Goals, ","),
			p.ProgramLength,
			p.TimePerWorkout,
			p.CreatorDisplayName,
		)
	}

	w.Flush()

	return nil
}
