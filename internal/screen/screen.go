// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package screen classifies deduplicated records as relevant or not.
// Two classifier variants share one decision schema: a keyword-rule
// classifier and a probabilistic-model classifier. Both are pure; screening
// never modifies the input records.
package screen

import (
	"strings"

	"github.com/pdiddy/sysrev-engine/pkg/types"
)

// Classifier produces a screening decision for a single record.
type Classifier interface {
	Mode() types.ScreenMode
	Classify(rec types.Record) types.Screening
}

// Screen applies the classifier to every record and returns the screened
// set. Re-screening replaces decisions wholesale; nothing is merged.
func Screen(records []types.Record, c Classifier) []types.ScreenedRecord {
	screened := make([]types.ScreenedRecord, len(records))
	for i, r := range records {
		screened[i] = types.ScreenedRecord{
			Record:    r,
			Screening: c.Classify(r),
		}
	}
	return screened
}

// Filter applies the pre-screening record filters: a language allow-list
// (case-insensitive equality) and a publication-type exclusion list
// (case-insensitive substring against the pub_types field).
func Filter(records []types.Record, cfg types.FilterConfig) []types.Record {
	kept := make([]types.Record, 0, len(records))
	for _, r := range records {
		if len(cfg.Languages) > 0 && !languageAllowed(r.Language, cfg.Languages) {
			continue
		}
		if pubTypeExcluded(r.PubTypes, cfg.PubTypesExclude) {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

func languageAllowed(lang string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(lang, a) {
			return true
		}
	}
	return false
}

func pubTypeExcluded(pubTypes string, excluded []string) bool {
	if pubTypes == "" {
		return false
	}
	lower := strings.ToLower(pubTypes)
	for _, e := range excluded {
		if e == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(e)) {
			return true
		}
	}
	return false
}
