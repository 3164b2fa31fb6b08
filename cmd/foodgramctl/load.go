package main

import (
	"fmt"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/foodgramapp/foodgram-server/internal/seed"
	"github.com/foodgramapp/foodgram-server/internal/service"
)

func newLoadCmd(g *globalFlags) *cobra.Command {
	load := &cobra.Command{
		Use:   "load",
		Short: "Load reference data",
		Long: `Load ingredients or tags from a CSV, YAML or JSON file.

Rows that already exist are left untouched, so loading is safe to repeat.`,
	}

	load.AddCommand(&cobra.Command{
		Use:     "ingredients <file>",
		Short:   "Load ingredients (CSV rows: name,unit)",
		Example: "  foodgramctl load ingredients data/ingredients.csv",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			injector, err := g.open()
			if err != nil {
				return err
			}
			defer func() { _ = injector.Shutdown() }()

			ingredients := do.MustInvoke[*service.IngredientService](injector)
			res, err := seed.LoadIngredients(cmd.Context(), args[0], ingredients)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ingredients: %d created, %d already present\n", res.Created, res.Existing)
			return nil
		},
	})

	load.AddCommand(&cobra.Command{
		Use:     "tags <file>",
		Short:   "Load tags (CSV rows: name[,color[,slug]])",
		Example: "  foodgramctl load tags data/tags.yaml",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			injector, err := g.open()
			if err != nil {
				return err
			}
			defer func() { _ = injector.Shutdown() }()

			tags := do.MustInvoke[*service.TagService](injector)
			res, err := seed.LoadTags(cmd.Context(), args[0], tags)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tags: %d created, %d already present\n", res.Created, res.Existing)
			return nil
		},
	})

	return load
}
