// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sysrev-engine/internal/metrics"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Evaluate screening decisions against imported labels",
	Long: `Metrics joins the screened snapshot with the imported labels on record ID
and reports confusion-matrix statistics: precision, recall, F1, and the
number needed to read. The report is printed and written to metrics.json in
the data directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadPipelineConfig(cmd)

		s, err := openProjectStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		screened, err := s.LoadScreened(cmd.Context(), cfg.Project.Name)
		if err != nil {
			return err
		}
		if len(screened) == 0 {
			return fmt.Errorf("no screened snapshot: run screen first")
		}

		labels, err := s.LoadLabels(cmd.Context(), cfg.Project.Name)
		if err != nil {
			return err
		}
		if len(labels) == 0 {
			return fmt.Errorf("no labels: import them with the labels command")
		}

		report := metrics.Evaluate(screened, labels)
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}

		path := filepath.Join(cfg.Project.DataDir, "metrics.json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}

		fmt.Printf("%s\n", data)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}
