package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/ottoplan/internal/display"
)

func classifyCmd(a *app) *cobra.Command {
	var structure bool

	cmd := &cobra.Command{
		Use:   "classify <file|recipe-id>",
		Short: "Show how each step is categorized and timed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := a.load(ctx, args[0])
			if err != nil {
				return err
			}
			if r, err = a.prepare(ctx, r, structure); err != nil {
				return err
			}

			c := a.engine.Classifier()
			rows := make([][]string, 0, len(r.Steps)+len(r.Instructions))
			for _, s := range c.Steps(r) {
				rows = append(rows, []string{
					s.ID,
					s.Category.String(),
					fmt.Sprintf("%g", s.Duration),
					strings.Join(s.Dependencies, ", "),
					s.Label,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, display.Table([]string{"ID", "CATEGORY", "MIN", "AFTER", "STEP"}, rows))

			if tools := c.CleanupTools(c.Tools(r)); len(tools) > 0 {
				fmt.Fprintf(out, "wash afterwards: %s\n", strings.Join(tools, ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&structure, "structure", false, "structure raw instructions with the OpenAI API first")
	return cmd
}
