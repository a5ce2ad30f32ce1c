// ottoplan plans recipe steps on a shared timeline so waiting time overlaps
// hands-on work.
//
// Usage:
//
//	ottoplan schedule rustic-bread
//	ottoplan schedule my-recipe.yaml --json
//	ottoplan view chicken-alfredo
//	ottoplan batch recipes/*.yaml
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// run executes one command line. Resources opened during setup are released
// even when the command fails.
func run(ctx context.Context, args []string, out io.Writer) (err error) {
	a := &app{}
	defer func() { err = errors.Join(err, a.close()) }()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(out)
	return root.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "ottoplan",
		Short:         "Plan recipe steps so passive time overlaps hands-on work",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.envFile, "env-file", "", "load settings from this file instead of .env")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "off, normal or verbose (env OTTOPLAN_LOG_LEVEL)")
	pf.StringVar(&a.flags.logFile, "log-file", "", "write logs to this file instead of stderr (env OTTOPLAN_LOG_FILE)")
	pf.StringVar(&a.flags.mode, "mode", "", "auto, heuristic or graph (env OTTOPLAN_MODE)")
	pf.StringVar(&a.flags.keywords, "keywords", "", "YAML keyword rules merged over the built-ins (env OTTOPLAN_KEYWORDS)")
	pf.StringVar(&a.flags.cacheDir, "cache-dir", "", "persist schedules in a badger database here (env OTTOPLAN_CACHE_DIR)")

	root.AddCommand(scheduleCmd(a))
	root.AddCommand(classifyCmd(a))
	root.AddCommand(listCmd(a))
	root.AddCommand(viewCmd(a))
	root.AddCommand(batchCmd(a))
	root.AddCommand(watchCmd(a))
	return root
}
