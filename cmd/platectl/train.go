// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/platepicker/internal/app"
	"github.com/tomtom215/platepicker/internal/recommend"
)

type trainCFCmd struct {
	Root    *rootCmd
	Factors int
	Reg     float64
	Iters   int
}

func newTrainCFCmd(root *rootCmd) *cobra.Command {
	t := trainCFCmd{Root: root}
	cmd := &cobra.Command{
		Use:   "train-cf",
		Short: "Trains the ALS model from the interaction log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := t.Root.config()
			if err != nil {
				return err
			}
			if cfg.Recommend.ModelPath == "" {
				return errors.New("RECOMMEND_MODEL_PATH is empty, nowhere to store the model")
			}
			if t.Factors > 0 {
				cfg.Recommend.ALS.Factors = t.Factors
			}
			if t.Iters > 0 {
				cfg.Recommend.ALS.Iterations = t.Iters
			}
			if cmd.Flags().Changed("reg") {
				cfg.Recommend.ALS.Regularization = t.Reg
			}

			db, err := app.OpenDatabase(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close(context.Background()) }()
			store, err := app.OpenModelStore(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rcfg := app.EngineConfig(cfg)
			if err := rcfg.Validate(); err != nil {
				return err
			}
			meta, err := recommend.NewTrainer(db.Interactions(), store, nil, rcfg).Train(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printSuccess(out, "Trained CF model v%d", meta.Version)
			printField(out, "interactions", meta.InteractionCount)
			printField(out, "users", meta.UserCount)
			printField(out, "items", meta.ItemCount)
			printField(out, "duration", time.Duration(meta.TrainingDurationMS)*time.Millisecond)
			printField(out, "stored in", cfg.Recommend.ModelPath)
			return nil
		},
	}
	cmd.Flags().IntVar(&t.Factors, "factors", 0, "Latent factors (default CF_ALS_FACTORS)")
	cmd.Flags().Float64Var(&t.Reg, "reg", 0, "L2 regularization (default CF_ALS_REGULARIZATION)")
	cmd.Flags().IntVar(&t.Iters, "iters", 0, "ALS iterations (default CF_ALS_ITERATIONS)")
	return cmd
}
