package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/ottoplan/internal/display"
	"github.com/hammamikhairi/ottoplan/internal/watch"
)

func watchCmd(a *app) *cobra.Command {
	var (
		debounce  time.Duration
		structure bool
		noClear   bool
	)

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-render a recipe file's timeline every time it is saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			redraw := func(ctx context.Context, path string) {
				if !noClear {
					fmt.Fprint(out, ansi.EraseEntireScreen+ansi.CursorHomePosition)
				}
				renderFile(ctx, a, out, path, structure)
			}

			w, err := watch.New(args, redraw, a.log.Named("watch"), watch.WithDebounce(debounce))
			if err != nil {
				return err
			}
			redraw(ctx, args[0])
			return w.Run(ctx)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "wait this long after the last write before re-rendering")
	cmd.Flags().BoolVar(&structure, "structure", false, "structure raw instructions with the OpenAI API first")
	cmd.Flags().BoolVar(&noClear, "no-clear", false, "append each render instead of clearing the screen")
	return cmd
}

// renderFile prints the timeline for path, or the error that stopped it.
// Errors do not end the watch: the next save gets another try.
func renderFile(ctx context.Context, a *app, out io.Writer, path string, structure bool) {
	sched, err := a.schedule(ctx, path, structure)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	fmt.Fprint(out, display.Render(sched, display.TermWidth()))
	fmt.Fprintf(out, "\nwatching %s (ctrl+c to stop)\n", path)
}
