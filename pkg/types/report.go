// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Report holds confusion-matrix statistics computed by joining screening
// decisions against ground-truth labels.
type Report struct {
	// Note is set instead of the statistics when screened records and labels
	// share no record IDs.
	Note string `json:"note,omitempty" yaml:"note,omitempty"`

	// Evaluated is the number of records in the inner join.
	Evaluated int `json:"evaluated" yaml:"evaluated"`

	TP int `json:"tp" yaml:"tp"`
	FP int `json:"fp" yaml:"fp"`
	FN int `json:"fn" yaml:"fn"`
	TN int `json:"tn" yaml:"tn"`

	// Precision, Recall and F1 default to 0.0 when their denominators are
	// zero; they are always finite.
	Precision float64 `json:"precision" yaml:"precision"`
	Recall    float64 `json:"recall" yaml:"recall"`
	F1        float64 `json:"f1" yaml:"f1"`

	// NNR is the number needed to read (1/precision), 0 when precision is 0.
	// Any meaningful value is >= 1, so 0 unambiguously means "undefined".
	NNR float64 `json:"nnr,omitempty" yaml:"nnr,omitempty"`
}

// HasOverlap reports whether the evaluation joined at least one record.
func (r Report) HasOverlap() bool {
	return r.Evaluated > 0
}

// DedupStats summarizes one deduplication run.
type DedupStats struct {
	Before  int `json:"before" yaml:"before"`
	Removed int `json:"duplicates_removed" yaml:"duplicates_removed"`
	After   int `json:"after" yaml:"after"`
}

// PrismaCounts holds the box values for a PRISMA 2020 flow summary.
// Zero-valued fields render as 0; report.InferCounts fills the derivable ones.
type PrismaCounts struct {
	IdentifiedDatabases int `json:"identified_databases" yaml:"identified_databases"`
	IdentifiedRegisters int `json:"identified_registers" yaml:"identified_registers"`
	RemovedDuplicates   int `json:"removed_duplicates" yaml:"removed_duplicates"`
	RemovedAutomatic    int `json:"removed_automatic" yaml:"removed_automatic"`
	RemovedOther        int `json:"removed_other" yaml:"removed_other"`
	RecordsScreened     int `json:"records_screened" yaml:"records_screened"`
	RecordsExcluded     int `json:"records_excluded" yaml:"records_excluded"`
	ReportsSought       int `json:"reports_sought" yaml:"reports_sought"`
	ReportsNotRetrieved int `json:"reports_not_retrieved" yaml:"reports_not_retrieved"`
	ReportsAssessed     int `json:"reports_assessed" yaml:"reports_assessed"`
	StudiesIncluded     int `json:"studies_included" yaml:"studies_included"`
	StudiesIncludedMeta int `json:"studies_included_meta" yaml:"studies_included_meta"`
}
