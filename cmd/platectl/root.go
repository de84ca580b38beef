// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tomtom215/platepicker/internal/config"
	"github.com/tomtom215/platepicker/internal/logging"
)

// rootCmd carries state shared by subcommands. Configuration is loaded on
// first use so that offline commands work without a valid environment.
type rootCmd struct {
	loadConfig func() (*config.Config, error)
	cfg        *config.Config
	logLevel   string
}

func newRootCmd() *cobra.Command {
	r := &rootCmd{loadConfig: config.Load}
	return r.command()
}

func (r *rootCmd) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "platectl",
		Short:         "PlatePicker operations tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&r.logLevel, "log-level", "", "Override LOG_LEVEL")

	cmd.AddCommand(
		newExtractFoodyCmd(r),
		newIngestCmd(r),
		newSeedCmd(r),
		newTrainCFCmd(r),
		newAskCmd(r),
		newServeCmd(r),
	)
	return cmd
}

// config loads and caches the configuration and initializes logging.
func (r *rootCmd) config() (*config.Config, error) {
	if r.cfg != nil {
		return r.cfg, nil
	}
	cfg, err := r.loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	level := cfg.Logging.Level
	if r.logLevel != "" {
		level = r.logLevel
	}
	logging.Init(logging.Config{
		Level:     level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	r.cfg = cfg
	return cfg, nil
}

var (
	successColor = color.New(color.FgGreen, color.Bold)
	labelColor   = color.New(color.FgCyan)
)

func printSuccess(w io.Writer, format string, args ...interface{}) {
	successColor.Fprintf(w, "✓ "+format+"\n", args...)
}

func printField(w io.Writer, label string, value interface{}) {
	labelColor.Fprintf(w, "  %-14s", label+":")
	fmt.Fprintln(w, value)
}
