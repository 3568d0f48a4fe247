// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sysrev-engine/internal/search"
	"github.com/pdiddy/sysrev-engine/internal/store"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search academic databases for records",
	Long: `Search runs the configured queries against PubMed, Scopus, and Web of
Science, standardizes the results into one record schema, and saves them as
the project's raw snapshot. A database that fails is reported as a warning;
the remaining sources still contribute records.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadPipelineConfig(cmd)

		clients, err := search.Clients(cfg.Search)
		if err != nil {
			return err
		}

		out, err := search.Search(cmd.Context(), clients, cfg.Search, os.Stderr)
		if err != nil {
			return err
		}
		if len(out.Records) == 0 {
			return fmt.Errorf("no records retrieved")
		}

		s, err := openProjectStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.SaveRecords(cmd.Context(), cfg.Project.Name, store.StageRaw, out.Records); err != nil {
			return err
		}

		fmt.Printf("saved raw snapshot: %d records", len(out.Records))
		if len(out.ClientErrors) > 0 {
			fmt.Printf(" (%d sources failed)", len(out.ClientErrors))
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
