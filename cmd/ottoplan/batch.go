package main

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hammamikhairi/ottoplan/internal/display"
	"github.com/hammamikhairi/ottoplan/internal/domain"
)

func batchCmd(a *app) *cobra.Command {
	var (
		jobs      int
		structure bool
	)

	cmd := &cobra.Command{
		Use:   "batch <file|recipe-id>...",
		Short: "Schedule several recipes and compare the time saved",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if jobs <= 0 {
				jobs = runtime.NumCPU()
			}

			results := make([]*domain.Schedule, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(jobs)
			for i, arg := range args {
				g.Go(func() error {
					sched, err := a.schedule(ctx, arg, structure)
					if err != nil {
						return fmt.Errorf("%s: %w", arg, err)
					}
					results[i] = sched
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			rows := make([][]string, len(results))
			for i, s := range results {
				name := s.RecipeName
				if name == "" {
					name = filepath.Base(args[i])
				}
				saved := "-"
				if s.Saved() > 0 && s.SequentialTime > 0 {
					saved = fmt.Sprintf("%.1f min (%.0f%%)", s.Saved(), 100*s.Saved()/s.SequentialTime)
				}
				rows[i] = []string{
					name,
					s.Mode.String(),
					fmt.Sprintf("%d", len(s.Steps())),
					fmt.Sprintf("%.1f", s.TotalTime),
					fmt.Sprintf("%.1f", s.SequentialTime),
					saved,
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), display.Table(
				[]string{"RECIPE", "MODE", "STEPS", "TOTAL", "ONE AT A TIME", "SAVES"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "recipes to schedule at once (default: number of CPUs)")
	cmd.Flags().BoolVar(&structure, "structure", false, "structure raw instructions with the OpenAI API first")
	return cmd
}
