// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report builds the PRISMA 2020 flow summary from saved pipeline
// stages. Counts derivable from the data are inferred; the rest come from an
// optional overrides file, the same way reviewers fill in the manual boxes of
// the flow diagram.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sysrev-engine/pkg/types"
)

// Flow is a complete PRISMA flow summary: the box counts plus the
// report-exclusion reasons rendered next to the eligibility box.
type Flow struct {
	Counts  types.PrismaCounts `json:"counts" yaml:"counts"`
	Reasons map[string]int     `json:"reasons" yaml:"reasons"`
}

// InferCounts derives the PRISMA counts from the saved stages. Boxes that
// have no data-derivable value (registers, automatic removals, retrieval
// failures, meta-analysis inclusion) stay 0 and are meant to be overridden.
func InferCounts(raw, dedup []types.Record, screened []types.ScreenedRecord) types.PrismaCounts {
	identified := len(raw)
	afterDedup := len(dedup)
	removedDuplicates := identified - afterDedup
	if removedDuplicates < 0 {
		removedDuplicates = 0
	}

	var included int
	for _, s := range screened {
		if s.Relevant {
			included++
		}
	}

	return types.PrismaCounts{
		IdentifiedDatabases: identified,
		RemovedDuplicates:   removedDuplicates,
		RecordsScreened:     afterDedup,
		RecordsExcluded:     len(screened) - included,
		ReportsSought:       included,
		ReportsAssessed:     included,
		StudiesIncluded:     included,
	}
}

// Overrides holds manual corrections to the inferred counts. Only fields
// present in the overrides file replace inferred values; absent fields leave
// the inference untouched.
type Overrides struct {
	IdentifiedDatabases *int `yaml:"identified_databases"`
	IdentifiedRegisters *int `yaml:"identified_registers"`
	RemovedDuplicates   *int `yaml:"removed_duplicates"`
	RemovedAutomatic    *int `yaml:"removed_automatic"`
	RemovedOther        *int `yaml:"removed_other"`
	RecordsScreened     *int `yaml:"records_screened"`
	RecordsExcluded     *int `yaml:"records_excluded"`
	ReportsSought       *int `yaml:"reports_sought"`
	ReportsNotRetrieved *int `yaml:"reports_not_retrieved"`
	ReportsAssessed     *int `yaml:"reports_assessed"`
	StudiesIncluded     *int `yaml:"studies_included"`
	StudiesIncludedMeta *int `yaml:"studies_included_meta"`

	// Reasons maps exclusion reason to count for the "reports excluded"
	// box.
	Reasons map[string]int `yaml:"reports_excluded_reasons"`
}

// LoadOverrides reads a PRISMA overrides YAML file.
func LoadOverrides(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Overrides{}, fmt.Errorf("reading overrides file: %w", err)
	}
	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return Overrides{}, fmt.Errorf("parsing overrides file %s: %w", path, err)
	}
	return o, nil
}

// Apply merges the overrides into the counts and returns the flow.
func (o Overrides) Apply(counts types.PrismaCounts) Flow {
	set := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	set(&counts.IdentifiedDatabases, o.IdentifiedDatabases)
	set(&counts.IdentifiedRegisters, o.IdentifiedRegisters)
	set(&counts.RemovedDuplicates, o.RemovedDuplicates)
	set(&counts.RemovedAutomatic, o.RemovedAutomatic)
	set(&counts.RemovedOther, o.RemovedOther)
	set(&counts.RecordsScreened, o.RecordsScreened)
	set(&counts.RecordsExcluded, o.RecordsExcluded)
	set(&counts.ReportsSought, o.ReportsSought)
	set(&counts.ReportsNotRetrieved, o.ReportsNotRetrieved)
	set(&counts.ReportsAssessed, o.ReportsAssessed)
	set(&counts.StudiesIncluded, o.StudiesIncluded)
	set(&counts.StudiesIncludedMeta, o.StudiesIncludedMeta)

	return Flow{Counts: counts, Reasons: o.Reasons}
}

// SaveJSON writes the flow summary as prisma_counts.json in the given
// directory and returns the file path.
func (f Flow) SaveJSON(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, "prisma_counts.json")
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding flow summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing flow summary: %w", err)
	}
	return path, nil
}

// Render writes the flow summary as a two-column table, one row per PRISMA
// box, followed by the exclusion reasons when present.
func (f Flow) Render(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"PRISMA 2020", "Count"})
	rows := []struct {
		label string
		value int
	}{
		{"Records identified (databases)", f.Counts.IdentifiedDatabases},
		{"Records identified (registers)", f.Counts.IdentifiedRegisters},
		{"Duplicates removed", f.Counts.RemovedDuplicates},
		{"Removed by automation", f.Counts.RemovedAutomatic},
		{"Removed for other reasons", f.Counts.RemovedOther},
		{"Records screened", f.Counts.RecordsScreened},
		{"Records excluded", f.Counts.RecordsExcluded},
		{"Reports sought for retrieval", f.Counts.ReportsSought},
		{"Reports not retrieved", f.Counts.ReportsNotRetrieved},
		{"Reports assessed for eligibility", f.Counts.ReportsAssessed},
		{"Studies included in review", f.Counts.StudiesIncluded},
		{"Studies included in meta-analysis", f.Counts.StudiesIncludedMeta},
	}
	for _, r := range rows {
		t.AppendRow(table.Row{r.label, r.value})
	}
	t.Render()

	if len(f.Reasons) == 0 {
		return
	}
	reasons := table.NewWriter()
	reasons.SetOutputMirror(w)
	reasons.AppendHeader(table.Row{"Reports excluded, reason", "Count"})
	keys := make([]string, 0, len(f.Reasons))
	for k := range f.Reasons {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		reasons.AppendRow(table.Row{k, f.Reasons[k]})
	}
	reasons.Render()
}
