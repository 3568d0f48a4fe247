// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the sysrev-engine pipeline:
// bibliographic records, screening decisions, ground-truth labels, and the
// evaluation report. All stages exchange these types; none of them mutates a
// record it did not create.
package types

import (
	"strings"
	"time"
)

// ExternalIDFields lists the external-identifier fields of a Record in the
// priority order used for identity resolution and exact-key deduplication.
var ExternalIDFields = []string{"doi", "pmid", "eid", "wos_uid"}

// Record is one bibliographic entry as returned by a source search client.
// Records are immutable once their RecordID is resolved; later stages drop
// records or attach screening output, they never edit these fields.
type Record struct {
	// RecordID is the stable identifier, derived deterministically from the
	// record content (external ID or normalized-title hash). Never random.
	RecordID string `json:"record_id" yaml:"record_id"`

	// Source is the origin tag (e.g. "pubmed", "scopus", "wos").
	Source string `json:"source" yaml:"source"`

	// Title is the article title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the article abstract, empty when the source has none.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Authors is the author list joined with "; " in source order.
	Authors string `json:"authors" yaml:"authors"`

	// Journal is the publication venue title.
	Journal string `json:"journal" yaml:"journal"`

	// Year is the publication year, 0 when unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Language is the primary article language as reported by the source.
	Language string `json:"language" yaml:"language"`

	// PubTypes is the publication type list joined with "; ".
	PubTypes string `json:"pub_types" yaml:"pub_types"`

	// External identifiers, any of which may be empty.
	DOI    string `json:"doi" yaml:"doi"`
	PMID   string `json:"pmid" yaml:"pmid"`
	EID    string `json:"eid" yaml:"eid"`
	WOSUID string `json:"wos_uid" yaml:"wos_uid"`

	// Query is the search string that retrieved this record.
	Query string `json:"query" yaml:"query"`

	// RetrievedAt is the UTC time the record was fetched.
	RetrievedAt time.Time `json:"retrieved_at" yaml:"retrieved_at"`
}

// FirstExternalID returns the name and trimmed value of the first non-empty
// external identifier in priority order (doi, pmid, eid, wos_uid). Both
// return values are empty when the record carries no external identifier.
func (r Record) FirstExternalID() (field, value string) {
	for _, f := range ExternalIDFields {
		var v string
		switch f {
		case "doi":
			v = r.DOI
		case "pmid":
			v = r.PMID
		case "eid":
			v = r.EID
		case "wos_uid":
			v = r.WOSUID
		}
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return f, trimmed
		}
	}
	return "", ""
}

// ScreenMode identifies which classifier variant produced a screening decision.
type ScreenMode string

const (
	ScreenModeRule  ScreenMode = "rule"
	ScreenModeModel ScreenMode = "model"
)

// Screening holds the classification output attached to a record. Re-running
// classification replaces the whole struct; fields are never merged.
type Screening struct {
	// Mode records the classifier variant.
	Mode ScreenMode `json:"screen_mode" yaml:"screen_mode"`

	// Score is the relevance score. Rule mode restricts it to {0.0, 1.0};
	// model mode reports the predicted probability of the positive class.
	Score float64 `json:"screen_score" yaml:"screen_score"`

	// IncludeHit reports whether the include criteria matched.
	IncludeHit bool `json:"screen_include_hit" yaml:"screen_include_hit"`

	// ExcludeHit reports whether the exclude criteria matched. Always false
	// in model mode.
	ExcludeHit bool `json:"screen_exclude_hit" yaml:"screen_exclude_hit"`

	// Relevant is the final inclusion decision.
	Relevant bool `json:"screen_relevant" yaml:"screen_relevant"`
}

// ScreenedRecord is a record with its screening decision. Both embedded
// structs serialize flat, matching the tabular column layout of exports.
type ScreenedRecord struct {
	Record    `yaml:",inline"`
	Screening `yaml:",inline"`
}

// LabelSet maps record IDs to binary ground-truth labels
// (1 = relevant, 0 = not relevant).
type LabelSet map[string]int
