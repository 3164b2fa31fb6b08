package main

import (
	"errors"
	"fmt"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/foodgramapp/foodgram-server/internal/service"
)

func newReindexCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the full-text search index from the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			injector, err := g.open()
			if err != nil {
				return err
			}
			defer func() { _ = injector.Shutdown() }()

			search := do.MustInvoke[*service.SearchService](injector)
			if !search.Enabled() {
				return errors.New("search is disabled in the configuration")
			}
			n, err := search.Reindex(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d recipes\n", n)
			return nil
		},
	}
}
