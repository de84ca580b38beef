// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package main

import (
	"github.com/spf13/cobra"

	"github.com/tomtom215/platepicker/internal/ingest"
	"github.com/tomtom215/platepicker/internal/llm"
	"github.com/tomtom215/platepicker/internal/vectorstore"
)

type ingestCmd struct {
	Root       *rootCmd
	CSV        string
	Path       string
	Collection string
}

func newIngestCmd(root *rootCmd) *cobra.Command {
	i := ingestCmd{Root: root}
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Embeds the restaurant CSV into the vector store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := i.Root.config()
			if err != nil {
				return err
			}
			if err := cfg.RequireLLM(); err != nil {
				return err
			}
			if i.Path != "" {
				cfg.VectorStore.Path = i.Path
			}
			if i.Collection != "" {
				cfg.VectorStore.Collection = i.Collection
			}
			csv := cfg.Ingest.CSVPath
			if i.CSV != "" {
				csv = i.CSV
			}

			client, err := llm.New(&cfg.LLM)
			if err != nil {
				return err
			}
			embed := ingest.Throttle(ingest.NewLimiter(&cfg.Ingest), client.EmbeddingFunc())
			store, err := vectorstore.Open(&cfg.VectorStore, embed)
			if err != nil {
				return err
			}

			report, err := ingest.New(store, &cfg.Ingest).Run(cmd.Context(), csv)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printSuccess(out, "Ingested %s into %s/%s", csv, cfg.VectorStore.Path, cfg.VectorStore.Collection)
			printField(out, "rows", report.Rows)
			printField(out, "ingested", report.Ingested)
			printField(out, "skipped", report.Skipped)
			printField(out, "documents", store.Count())
			printField(out, "duration", report.Duration.Round(1e6))
			return nil
		},
	}
	cmd.Flags().StringVar(&i.CSV, "csv", "", "CSV to ingest (default INGEST_CSV_PATH)")
	cmd.Flags().StringVar(&i.Path, "path", "", "Vector store directory (default VECTORSTORE_PATH)")
	cmd.Flags().StringVar(&i.Collection, "collection", "", "Collection name (default VECTORSTORE_COLLECTION)")
	return cmd
}
