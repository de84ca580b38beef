// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/tomtom215/platepicker/internal/app"
	"github.com/tomtom215/platepicker/internal/recommend"
)

type askCmd struct {
	Root  *rootCmd
	Lat   float64
	Lng   float64
	User  string
	TopK  int
	Plain bool
}

func newAskCmd(root *rootCmd) *cobra.Command {
	a := askCmd{Root: root}
	cmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Runs the recommendation pipeline once and prints the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.Root.config()
			if err != nil {
				return err
			}
			application, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = application.Close() }()

			req := recommend.Request{
				Message: strings.Join(args, " "),
				UserID:  a.User,
				TopK:    a.TopK,
			}
			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lng") {
				req.Lat, req.Lng = &a.Lat, &a.Lng
			}
			res, err := application.Engine.Run(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().Float64Var(&a.Lat, "lat", 0, "Latitude of the user")
	cmd.Flags().Float64Var(&a.Lng, "lng", 0, "Longitude of the user")
	cmd.Flags().StringVar(&a.User, "user", "", "User id for collaborative filtering")
	cmd.Flags().IntVar(&a.TopK, "top-k", 0, "Number of restaurants (default RECOMMEND_TOP_K)")
	cmd.Flags().BoolVar(&a.Plain, "plain", false, "Print the answer without terminal styling")
	return cmd
}

func (a *askCmd) render(w io.Writer, res *recommend.Result) error {
	if a.Plain {
		_, err := fmt.Fprintln(w, res.Answer)
		return err
	}
	out, err := glamour.Render(res.Answer, "dark")
	if err != nil {
		return fmt.Errorf("render answer: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
