// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sysrev-engine/pkg/types"
)

var labelsCmd = &cobra.Command{
	Use:   "labels <labels.csv>",
	Short: "Import ground-truth relevance labels",
	Long: `Labels imports a CSV of ground-truth decisions into the project. The file
needs a record_id column and a label column holding 1 (relevant) or 0 (not
relevant). Imported labels merge with existing ones; a record labeled twice
keeps the newer value.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadPipelineConfig(cmd)

		labels, err := readLabelsCSV(args[0])
		if err != nil {
			return err
		}
		if len(labels) == 0 {
			return fmt.Errorf("no labels found in %s", args[0])
		}

		s, err := openProjectStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.SaveLabels(cmd.Context(), cfg.Project.Name, labels); err != nil {
			return err
		}
		fmt.Printf("imported %d labels\n", len(labels))
		return nil
	},
}

// readLabelsCSV parses a labels file with record_id and label columns. Extra
// columns are ignored; column order does not matter.
func readLabelsCSV(path string) (types.LabelSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening labels file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading labels header: %w", err)
	}

	idCol, labelCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case "record_id":
			idCol = i
		case "label":
			labelCol = i
		}
	}
	if idCol < 0 || labelCol < 0 {
		return nil, fmt.Errorf("labels file needs record_id and label columns, got %v", header)
	}

	labels := make(types.LabelSet)
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading labels row: %w", err)
		}
		recordID := strings.TrimSpace(row[idCol])
		if recordID == "" {
			continue
		}
		label, err := strconv.Atoi(strings.TrimSpace(row[labelCol]))
		if err != nil || (label != 0 && label != 1) {
			return nil, fmt.Errorf("line %d: label must be 0 or 1, got %q", line, row[labelCol])
		}
		labels[recordID] = label
	}
	return labels, nil
}

func init() {
	rootCmd.AddCommand(labelsCmd)
}
