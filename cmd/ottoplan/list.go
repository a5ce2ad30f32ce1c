package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/ottoplan/internal/display"
	"github.com/hammamikhairi/ottoplan/internal/domain"
)

func listCmd(a *app) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List built-in recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				recipes []domain.RecipeSummary
				err     error
			)
			if search != "" {
				recipes, err = a.source.Search(cmd.Context(), search)
			} else {
				recipes, err = a.source.List(cmd.Context())
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(recipes) == 0 {
				fmt.Fprintln(out, "No recipes found.")
				return nil
			}

			rows := make([][]string, len(recipes))
			for i, r := range recipes {
				rows[i] = []string{r.ID, r.Name, strings.Join(r.Tags, ", ")}
			}
			fmt.Fprintln(out, display.Table([]string{"ID", "NAME", "TAGS"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "only show recipes matching this text")
	return cmd
}
