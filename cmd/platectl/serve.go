// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package main

import (
	"github.com/spf13/cobra"

	"github.com/tomtom215/platepicker/internal/app"
	"github.com/tomtom215/platepicker/internal/logging"
)

func newServeCmd(root *rootCmd) *cobra.Command {
	var addrPort int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Runs the web server until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.config()
			if err != nil {
				return err
			}
			if addrPort > 0 {
				cfg.Server.Port = addrPort
			}
			application, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := application.Close(); err != nil {
					logging.Error().Err(err).Msg("Error during shutdown")
				}
			}()
			return application.Serve(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&addrPort, "port", 0, "Override HTTP_PORT")
	return cmd
}
