// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

// Command platectl is the PlatePicker operations tool: catalog extraction and
// ingestion, demo data, offline CF training, one-shot queries and the server.
//
//	platectl extract-foody --html data/foody_page1.html --out data/foody_page1.csv
//	platectl ingest --csv data/foody_page1.csv
//	platectl seed
//	platectl train-cf --factors 64 --iters 20
//	platectl ask "bún bò gần đây dưới 50k"
//	platectl serve
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
