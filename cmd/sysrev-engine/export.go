// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sysrev-engine/internal/export"
	"github.com/pdiddy/sysrev-engine/internal/store"
	"github.com/pdiddy/sysrev-engine/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export snapshots to CSV, Parquet, or YAML",
	Long: `Export writes the saved snapshots (raw, dedup, screened) as tabular files
named results_<stage>.<format> in the export directory. All formats share the
same flat column layout; screening columns are zero-valued for unscreened
stages.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadPipelineConfig(cmd)

		format := cfg.Export.Format
		if v, _ := cmd.Flags().GetString("format"); cmd.Flags().Changed("format") {
			format = types.ExportFormat(v)
		}

		s, err := openProjectStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := os.MkdirAll(cfg.Export.Dir, 0o755); err != nil {
			return fmt.Errorf("creating export directory: %w", err)
		}

		exported := 0
		for _, stage := range []store.Stage{store.StageRaw, store.StageDedup} {
			records, err := s.LoadRecords(cmd.Context(), cfg.Project.Name, stage)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				continue
			}
			path := exportPath(cfg.Export.Dir, stage, format)
			if err := export.Write(path, format, export.RecordRows(records)); err != nil {
				return err
			}
			fmt.Printf("wrote %s (%d records)\n", path, len(records))
			exported++
		}

		screened, err := s.LoadScreened(cmd.Context(), cfg.Project.Name)
		if err != nil {
			return err
		}
		if len(screened) > 0 {
			path := exportPath(cfg.Export.Dir, store.StageScreened, format)
			if err := export.Write(path, format, export.ScreenedRows(screened)); err != nil {
				return err
			}
			fmt.Printf("wrote %s (%d records)\n", path, len(screened))
			exported++
		}

		if exported == 0 {
			return fmt.Errorf("nothing to export: run search first")
		}
		return nil
	},
}

func exportPath(dir string, stage store.Stage, format types.ExportFormat) string {
	return filepath.Join(dir, fmt.Sprintf("results_%s.%s", stage, export.Extension(format)))
}

func init() {
	exportCmd.Flags().String("format", "csv", "export format: csv, parquet, or yaml")
	rootCmd.AddCommand(exportCmd)
}
