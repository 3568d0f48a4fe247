// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes record snapshots to tabular files. CSV, Parquet, and
// YAML share one flat row layout so a snapshot exported in any format carries
// the same columns in the same order.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/parquet-go/parquet-go"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sysrev-engine/pkg/types"
)

// Row is one exported record. Screening columns are zero-valued when the
// snapshot being exported has not been screened.
type Row struct {
	RecordID    string `parquet:"record_id" yaml:"record_id"`
	Source      string `parquet:"source" yaml:"source"`
	Title       string `parquet:"title" yaml:"title"`
	Abstract    string `parquet:"abstract" yaml:"abstract"`
	Authors     string `parquet:"authors" yaml:"authors"`
	Journal     string `parquet:"journal" yaml:"journal"`
	Year        int    `parquet:"year" yaml:"year"`
	Language    string `parquet:"language" yaml:"language"`
	PubTypes    string `parquet:"pub_types" yaml:"pub_types"`
	DOI         string `parquet:"doi" yaml:"doi"`
	PMID        string `parquet:"pmid" yaml:"pmid"`
	EID         string `parquet:"eid" yaml:"eid"`
	WOSUID      string `parquet:"wos_uid" yaml:"wos_uid"`
	Query       string `parquet:"query" yaml:"query"`
	RetrievedAt string `parquet:"retrieved_at" yaml:"retrieved_at"`

	ScreenMode       string  `parquet:"screen_mode" yaml:"screen_mode"`
	ScreenScore      float64 `parquet:"screen_score" yaml:"screen_score"`
	ScreenIncludeHit bool    `parquet:"screen_include_hit" yaml:"screen_include_hit"`
	ScreenExcludeHit bool    `parquet:"screen_exclude_hit" yaml:"screen_exclude_hit"`
	ScreenRelevant   bool    `parquet:"screen_relevant" yaml:"screen_relevant"`
}

var columns = []string{
	"record_id", "source", "title", "abstract", "authors", "journal", "year",
	"language", "pub_types", "doi", "pmid", "eid", "wos_uid", "query",
	"retrieved_at",
	"screen_mode", "screen_score", "screen_include_hit", "screen_exclude_hit",
	"screen_relevant",
}

func recordRow(r types.Record) Row {
	retrieved := ""
	if !r.RetrievedAt.IsZero() {
		retrieved = r.RetrievedAt.UTC().Format(time.RFC3339)
	}
	return Row{
		RecordID:    r.RecordID,
		Source:      r.Source,
		Title:       r.Title,
		Abstract:    r.Abstract,
		Authors:     r.Authors,
		Journal:     r.Journal,
		Year:        r.Year,
		Language:    r.Language,
		PubTypes:    r.PubTypes,
		DOI:         r.DOI,
		PMID:        r.PMID,
		EID:         r.EID,
		WOSUID:      r.WOSUID,
		Query:       r.Query,
		RetrievedAt: retrieved,
	}
}

func screenedRow(s types.ScreenedRecord) Row {
	row := recordRow(s.Record)
	row.ScreenMode = string(s.Mode)
	row.ScreenScore = s.Score
	row.ScreenIncludeHit = s.IncludeHit
	row.ScreenExcludeHit = s.ExcludeHit
	row.ScreenRelevant = s.Relevant
	return row
}

// RecordRows converts a plain record snapshot for export.
func RecordRows(records []types.Record) []Row {
	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = recordRow(r)
	}
	return rows
}

// ScreenedRows converts a screened snapshot for export.
func ScreenedRows(screened []types.ScreenedRecord) []Row {
	rows := make([]Row, len(screened))
	for i, s := range screened {
		rows[i] = screenedRow(s)
	}
	return rows
}

// Write writes the rows to path in the given format.
func Write(path string, format types.ExportFormat, rows []Row) error {
	switch format {
	case types.ExportCSV:
		return writeCSV(path, rows)
	case types.ExportParquet:
		return writeParquet(path, rows)
	case types.ExportYAML:
		return writeYAML(path, rows)
	default:
		return fmt.Errorf("unknown export format %q: use csv, parquet, or yaml", format)
	}
}

// Extension returns the file extension for the format, without the dot.
func Extension(format types.ExportFormat) string {
	return string(format)
}

func writeCSV(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range rows {
		fields := []string{
			r.RecordID, r.Source, r.Title, r.Abstract, r.Authors, r.Journal,
			strconv.Itoa(r.Year), r.Language, r.PubTypes, r.DOI, r.PMID,
			r.EID, r.WOSUID, r.Query, r.RetrievedAt,
			r.ScreenMode,
			strconv.FormatFloat(r.ScreenScore, 'g', -1, 64),
			strconv.FormatBool(r.ScreenIncludeHit),
			strconv.FormatBool(r.ScreenExcludeHit),
			strconv.FormatBool(r.ScreenRelevant),
		}
		if err := w.Write(fields); err != nil {
			return fmt.Errorf("writing row %s: %w", r.RecordID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing export file: %w", err)
	}
	return f.Close()
}

func writeParquet(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	w := parquet.NewGenericWriter[Row](f)
	if _, err := w.Write(rows); err != nil {
		return fmt.Errorf("writing parquet rows: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing parquet writer: %w", err)
	}
	return f.Close()
}

func writeYAML(path string, rows []Row) error {
	data, err := yaml.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encoding rows: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}
	return nil
}
