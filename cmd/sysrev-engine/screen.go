// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sysrev-engine/internal/model"
	"github.com/pdiddy/sysrev-engine/internal/screen"
	"github.com/pdiddy/sysrev-engine/internal/store"
	"github.com/pdiddy/sysrev-engine/pkg/types"
)

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Classify deduplicated records as relevant or not",
	Long: `Screen applies the pre-screening filters (language allow-list, publication
type exclusions) to the dedup snapshot and classifies what remains. Rule mode
matches the configured include/exclude keywords; model mode scores each
record with a trained classifier and applies the decision threshold.
Re-running replaces the screened snapshot.`,
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

		filtered := screen.Filter(records, cfg.Filters)
		if dropped := len(records) - len(filtered); dropped > 0 {
			fmt.Printf("filters dropped %d records\n", dropped)
		}

		classifier, err := buildClassifier(cmd, cfg)
		if err != nil {
			return err
		}

		screened := screen.Screen(filtered, classifier)
		if err := s.SaveScreened(cmd.Context(), cfg.Project.Name, screened); err != nil {
			return err
		}

		relevant := 0
		for _, r := range screened {
			if r.Relevant {
				relevant++
			}
		}
		fmt.Printf("screened %d records (%s mode): %d relevant\n", len(screened), classifier.Mode(), relevant)
		return nil
	},
}

func buildClassifier(cmd *cobra.Command, cfg types.PipelineConfig) (screen.Classifier, error) {
	mode, _ := cmd.Flags().GetString("mode")
	switch types.ScreenMode(mode) {
	case types.ScreenModeRule:
		return screen.NewRuleClassifier(cfg.Screening)
	case types.ScreenModeModel:
		if cfg.Screening.ModelPath == "" {
			return nil, fmt.Errorf("model screening requires screening.model_path: train a model first")
		}
		m, err := model.Load(cfg.Screening.ModelPath)
		if err != nil {
			return nil, err
		}
		threshold := cfg.Screening.Threshold
		if v, _ := cmd.Flags().GetFloat64("threshold"); cmd.Flags().Changed("threshold") {
			threshold = v
		}
		return screen.NewModelClassifier(m, threshold)
	default:
		return nil, fmt.Errorf("unknown screening mode %q: use rule or model", mode)
	}
}

func init() {
	screenCmd.Flags().String("mode", "rule", "screening mode: rule or model")
	screenCmd.Flags().Float64("threshold", 0.5, "model-mode decision threshold in [0,1]")
	rootCmd.AddCommand(screenCmd)
}
