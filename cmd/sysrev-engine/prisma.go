// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sysrev-engine/internal/report"
	"github.com/pdiddy/sysrev-engine/internal/store"
)

var prismaCmd = &cobra.Command{
	Use:   "prisma",
	Short: "Report PRISMA 2020 flow counts",
	Long: `Prisma derives the PRISMA 2020 flow counts from the saved snapshots:
identified, deduplicated, screened, excluded, included. Boxes the pipeline
cannot know (register searches, retrieval failures, exclusion reasons) can be
supplied in a YAML overrides file. The summary is printed as a table and
written to prisma_counts.json in the data directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadPipelineConfig(cmd)

		s, err := openProjectStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		raw, err := s.LoadRecords(cmd.Context(), cfg.Project.Name, store.StageRaw)
		if err != nil {
			return err
		}
		dedup, err := s.LoadRecords(cmd.Context(), cfg.Project.Name, store.StageDedup)
		if err != nil {
			return err
		}
		screened, err := s.LoadScreened(cmd.Context(), cfg.Project.Name)
		if err != nil {
			return err
		}

		counts := report.InferCounts(raw, dedup, screened)

		var overrides report.Overrides
		if path, _ := cmd.Flags().GetString("overrides"); path != "" {
			overrides, err = report.LoadOverrides(path)
			if err != nil {
				return err
			}
		}
		flow := overrides.Apply(counts)

		flow.Render(os.Stdout)

		path, err := flow.SaveJSON(cfg.Project.DataDir)
		if err != nil {
			return err
		}
		fmt.Printf("saved %s\n", path)
		return nil
	},
}

func init() {
	prismaCmd.Flags().String("overrides", "", "YAML file with manual PRISMA counts and exclusion reasons")
	rootCmd.AddCommand(prismaCmd)
}
