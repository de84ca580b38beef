// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package main

import (
	"github.com/spf13/cobra"

	"github.com/tomtom215/platepicker/internal/foody"
)

type extractFoodyCmd struct {
	HTML string
	Out  string
}

func newExtractFoodyCmd(_ *rootCmd) *cobra.Command {
	e := extractFoodyCmd{
		HTML: "data/foody_page1.html",
		Out:  "data/foody_page1.csv",
	}
	cmd := &cobra.Command{
		Use:   "extract-foody",
		Short: "Extracts restaurants from a saved Foody listing page into CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := foody.Extract(e.HTML, e.Out)
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Extracted %d restaurants into %s", n, e.Out)
			return nil
		},
	}
	cmd.Flags().StringVar(&e.HTML, "html", e.HTML, "Saved listing page")
	cmd.Flags().StringVar(&e.Out, "out", e.Out, "CSV output path")
	return cmd
}
