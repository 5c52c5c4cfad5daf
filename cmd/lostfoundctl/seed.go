package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campusfound/lostfound-backend/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the embedded seed data",
	Long: `Load the embedded seed data. Each step can be repeated safely.

Available subcommands:
  templates - upsert the default notification templates
  catalog   - create missing categories, locations and banners
  vouchers  - create missing vouchers
  all       - run every step in order`,
}

type seedStep struct {
	name string
	run  func(*seed.Seeder, context.Context) (seed.Counts, error)
}

var seedSteps = []seedStep{
	{name: "templates", run: (*seed.Seeder).SeedTemplates},
	{name: "catalog", run: (*seed.Seeder).SeedCatalog},
	{name: "vouchers", run: (*seed.Seeder).SeedVouchers},
}

func init() {
	for _, step := range seedSteps {
		step := step
		seedCmd.AddCommand(&cobra.Command{
			Use:   step.name,
			Short: "Seed " + step.name,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runSeedStep(cmd, step)
			},
		})
	}
	seedCmd.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "Run every seed step",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, step := range seedSteps {
				if err := runSeedStep(cmd, step); err != nil {
					return err
				}
			}
			return nil
		},
	})
}

func runSeedStep(cmd *cobra.Command, step seedStep) error {
	counts, err := step.run(env.services.Seeder, cmd.Context())
	if err != nil {
		return fmt.Errorf("seed %s: %w", step.name, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", step.name, counts)
	return nil
}
