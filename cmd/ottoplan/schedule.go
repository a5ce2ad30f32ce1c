package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/ottoplan/internal/display"
)

func scheduleCmd(a *app) *cobra.Command {
	var (
		asJSON    bool
		width     int
		structure bool
	)

	cmd := &cobra.Command{
		Use:   "schedule <file|recipe-id>",
		Short: "Print the timeline for a recipe",
		Long: `Print the timeline for a recipe file (.yaml, .yml or .json) or a
built-in recipe. Steps are classified into prep, cook, passive and cleanup
work and placed so waiting time overlaps hands-on work.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sched, err := a.schedule(cmd.Context(), args[0], structure)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(sched)
			}
			if width <= 0 {
				width = display.TermWidth()
			}
			fmt.Fprint(out, display.Render(sched, width))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the schedule as JSON")
	cmd.Flags().IntVar(&width, "width", 0, "chart width in columns (default: terminal width)")
	cmd.Flags().BoolVar(&structure, "structure", false, "structure raw instructions with the OpenAI API first")
	return cmd
}
