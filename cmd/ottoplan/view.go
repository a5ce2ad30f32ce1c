package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/ottoplan/internal/display"
	"github.com/hammamikhairi/ottoplan/internal/domain"
)

func viewCmd(a *app) *cobra.Command {
	var structure bool

	cmd := &cobra.Command{
		Use:   "view <file|recipe-id>",
		Short: "Walk through a schedule interactively, ticking off steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sched, err := a.schedule(ctx, args[0], structure)
			if err != nil {
				return err
			}

			log := a.log.Named("view")
			v := display.NewViewer(sched, log, display.WithToggleHook(func(s domain.Step) {
				log.Debug("step %s completed=%t", s.ID, s.Completed)
			}))
			final, err := v.Run(ctx)
			if err != nil {
				return err
			}

			done := 0
			steps := final.Steps()
			for _, s := range steps {
				if s.Completed {
					done++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d steps done.\n", done, len(steps))
			return nil
		},
	}

	cmd.Flags().BoolVar(&structure, "structure", false, "structure raw instructions with the OpenAI API first")
	return cmd
}
