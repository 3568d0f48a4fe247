// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sysrev-engine/internal/dedup"
	"github.com/pdiddy/sysrev-engine/internal/store"
	"github.com/pdiddy/sysrev-engine/pkg/types"
)

var dedupCmd = &cobra.Command{
	Use:   "dedup",
	Short: "Remove duplicate records from the raw snapshot",
	Long: `Dedup collapses duplicates in the raw snapshot, first on shared external
identifiers (DOI, PMID, EID, WoS UID), then on fuzzy title similarity. The
survivors become the dedup snapshot and the run statistics are written to
dedup_stats.json in the data directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadPipelineConfig(cmd)

		s, err := openProjectStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		records, err := s.LoadRecords(cmd.Context(), cfg.Project.Name, store.StageRaw)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return fmt.Errorf("no raw snapshot: run search first")
		}

		threshold, _ := cmd.Flags().GetInt("fuzzy-threshold")
		if threshold <= 0 {
			threshold = cfg.Dedup.FuzzyThreshold
		}

		survivors, removed := dedup.Deduplicate(records, threshold)
		if err := s.SaveRecords(cmd.Context(), cfg.Project.Name, store.StageDedup, survivors); err != nil {
			return err
		}

		stats := types.DedupStats{Before: len(records), Removed: removed, After: len(survivors)}
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding dedup stats: %w", err)
		}
		statsPath := filepath.Join(cfg.Project.DataDir, "dedup_stats.json")
		if err := os.WriteFile(statsPath, data, 0o644); err != nil {
			return fmt.Errorf("writing dedup stats: %w", err)
		}

		fmt.Printf("removed %d duplicates, %d records remain\n", removed, len(survivors))
		return nil
	},
}

func init() {
	dedupCmd.Flags().Int("fuzzy-threshold", 0, "title similarity cutoff 1-100 (default: from config)")
	rootCmd.AddCommand(dedupCmd)
}
