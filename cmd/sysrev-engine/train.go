// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sysrev-engine/internal/model"
	"github.com/pdiddy/sysrev-engine/internal/store"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the relevance classifier from labeled records",
	Long: `Train fits the probabilistic relevance classifier on the project's labeled
records (import labels first with the labels command). The model artifact is
written to the data directory along with a held-out evaluation report. Use
the artifact with "screen --mode model".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadPipelineConfig(cmd)

		s, err := openProjectStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		records, err := s.LoadRecords(cmd.Context(), cfg.Project.Name, store.StageDedup)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return fmt.Errorf("no dedup snapshot: run dedup first")
		}

		labels, err := s.LoadLabels(cmd.Context(), cfg.Project.Name)
		if err != nil {
			return err
		}
		if len(labels) == 0 {
			return fmt.Errorf("no labels: import them with the labels command")
		}

		m, report, err := model.Train(records, labels)
		if err != nil {
			return err
		}

		modelPath := cfg.Screening.ModelPath
		if modelPath == "" {
			modelPath = filepath.Join(cfg.Project.DataDir, "model.json")
		}
		if err := m.Save(modelPath); err != nil {
			return err
		}

		fmt.Printf("model trained on %d records, saved to %s\n", m.TrainExamples, modelPath)
		if report.HasOverlap() {
			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding evaluation report: %w", err)
			}
			fmt.Printf("held-out evaluation:\n%s\n", out)
		} else {
			fmt.Println(report.Note)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(trainCmd)
}
