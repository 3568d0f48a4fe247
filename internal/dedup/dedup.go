// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedup collapses duplicate bibliographic records. Detection runs in
// two passes: exact matching on external identifiers, then fuzzy matching of
// normalized titles within prefix buckets. The fuzzy pass is a blocking
// heuristic, not a transitive clustering: a chain of near-duplicates whose
// ends fall below the threshold stays split. Downstream duplicate counts are
// validated against exactly this behavior, so keep it.
package dedup

import (
	"sort"
	"strings"
	"unicode"

	"github.com/pdiddy/sysrev-engine/internal/identify"
	"github.com/pdiddy/sysrev-engine/pkg/types"
)

// DefaultFuzzyThreshold is the inclusive similarity cutoff used when the
// caller passes a non-positive threshold.
const DefaultFuzzyThreshold = 95

// blockPrefixLen is the number of leading runes of the normalized title used
// as the bucket key. Only records sharing a prefix are compared pairwise.
const blockPrefixLen = 20

// Deduplicate returns the records that survive duplicate removal and the
// number removed. Survivors come back sorted by (normalized title, source);
// within a duplicate group the record earliest in that order wins.
//
// Records that carry an external identifier are collapsed on the first
// non-empty one (doi, pmid, eid, wos_uid); identifier-less records pass the
// exact pass untouched. The fuzzy pass then compares normalized titles with
// TokenSetRatio and drops the later record of any pair scoring at or above
// fuzzyThreshold. A record already marked duplicate is never compared again.
func Deduplicate(records []types.Record, fuzzyThreshold int) ([]types.Record, int) {
	before := len(records)
	if before == 0 {
		return []types.Record{}, 0
	}
	if fuzzyThreshold <= 0 {
		fuzzyThreshold = DefaultFuzzyThreshold
	}

	survivors := exactPass(records)
	survivors = fuzzyPass(survivors, fuzzyThreshold)
	return survivors, before - len(survivors)
}

// exactPass keeps the first record per external-identifier key, in input
// order. Records with no external identifier are kept unconditionally.
func exactPass(records []types.Record) []types.Record {
	seen := make(map[string]struct{}, len(records))
	kept := make([]types.Record, 0, len(records))
	for _, r := range records {
		if _, key := r.FirstExternalID(); key != "" {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		kept = append(kept, r)
	}
	return kept
}

// fuzzyPass sorts records by (normalized title, source), buckets them by
// title prefix, and drops the later member of every within-bucket pair whose
// similarity reaches the threshold.
func fuzzyPass(records []types.Record, threshold int) []types.Record {
	type entry struct {
		rec  types.Record
		norm string
	}

	entries := make([]entry, len(records))
	for i, r := range records {
		entries[i] = entry{rec: r, norm: NormalizeTitle(r.Title)}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].norm != entries[j].norm {
			return entries[i].norm < entries[j].norm
		}
		return entries[i].rec.Source < entries[j].rec.Source
	})

	buckets := make(map[string][]int)
	for i, e := range entries {
		// Records without a usable title carry no duplicate evidence.
		if e.norm == "" {
			continue
		}
		key := blockKey(e.norm)
		buckets[key] = append(buckets[key], i)
	}

	dropped := make([]bool, len(entries))
	for _, idxs := range buckets {
		for i := 0; i < len(idxs); i++ {
			if dropped[idxs[i]] {
				continue
			}
			for j := i + 1; j < len(idxs); j++ {
				if dropped[idxs[j]] {
					continue
				}
				if TokenSetRatio(entries[idxs[i]].norm, entries[idxs[j]].norm) >= threshold {
					dropped[idxs[j]] = true
				}
			}
		}
	}

	kept := make([]types.Record, 0, len(entries))
	for i, e := range entries {
		if !dropped[i] {
			kept = append(kept, e.rec)
		}
	}
	return kept
}

// NormalizeTitle lowercases, collapses whitespace, and strips every rune
// that is not a letter, digit, or space.
func NormalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range identify.NormalizeText(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func blockKey(norm string) string {
	runes := []rune(norm)
	if len(runes) > blockPrefixLen {
		runes = runes[:blockPrefixLen]
	}
	return string(runes)
}
