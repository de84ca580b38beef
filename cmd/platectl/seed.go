// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tomtom215/platepicker/internal/app"
	"github.com/tomtom215/platepicker/internal/seed"
)

type seedCmd struct {
	Root *rootCmd
	Opts seed.Options
}

func newSeedCmd(root *rootCmd) *cobra.Command {
	s := seedCmd{Root: root, Opts: seed.DefaultOptions()}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seeds MongoDB with demo users and interactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := s.Root.config()
			if err != nil {
				return err
			}
			db, err := app.OpenDatabase(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close(context.Background()) }()

			report, err := seed.New(db.Users(), db.Interactions()).Run(cmd.Context(), s.Opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printSuccess(out, "Seeded %d users and %d interaction logs", report.Users, report.Interactions)
			printField(out, "restaurants", report.Restaurants)
			printField(out, "synthetic ids", report.Synthetic)
			return nil
		},
	}
	cmd.Flags().StringVar(&s.Opts.CSVPath, "csv", s.Opts.CSVPath, "Catalog CSV providing restaurant ids")
	cmd.Flags().IntVar(&s.Opts.Users, "users", s.Opts.Users, "Number of users")
	cmd.Flags().IntVar(&s.Opts.Likes, "likes", s.Opts.Likes, "Likes per user")
	cmd.Flags().IntVar(&s.Opts.Total, "total", s.Opts.Total, "Interactions per user")
	cmd.Flags().Int64Var(&s.Opts.Seed, "seed", s.Opts.Seed, "Random seed")
	return cmd
}
