// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"testing"

	"github.com/pdiddy/sysrev-engine/pkg/types"
)

func TestDeduplicateExactKey(t *testing.T) {
	records := []types.Record{
		{DOI: "10.1/x", Title: "A"},
		{DOI: "10.1/x", Title: "A duplicate"},
	}

	out, removed := Deduplicate(records, 95)
	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	// First record in input order wins.
	if out[0].Title != "A" {
		t.Errorf("survivor title = %q, want %q", out[0].Title, "A")
	}
}

func TestDeduplicateExactKeyPriorityOrder(t *testing.T) {
	// Identical pmid values collapse even when other identifiers differ.
	records := []types.Record{
		{PMID: "12345", EID: "2-s2.0-111", Title: "First"},
		{PMID: "12345", EID: "2-s2.0-222", Title: "Second"},
	}
	out, removed := Deduplicate(records, 95)
	if len(out) != 1 || removed != 1 {
		t.Fatalf("got %d survivors, %d removed; want 1, 1", len(out), removed)
	}
}

func TestDeduplicateKeylessRecordsUntouchedByExactPass(t *testing.T) {
	records := []types.Record{
		{Title: "Completely unrelated topic one"},
		{Title: "An entirely different subject two"},
	}
	out, removed := Deduplicate(records, 95)
	if len(out) != 2 || removed != 0 {
		t.Errorf("got %d survivors, %d removed; want 2, 0", len(out), removed)
	}
}

func TestDeduplicateFuzzyTitle(t *testing.T) {
	records := []types.Record{
		{Title: "Deep learning for cancer detection"},
		{Title: "deep learning for cancer detection "},
	}

	out, removed := Deduplicate(records, 90)
	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
}

func TestDeduplicateEmptyInput(t *testing.T) {
	out, removed := Deduplicate(nil, 95)
	if len(out) != 0 || removed != 0 {
		t.Errorf("got %d survivors, %d removed; want 0, 0", len(out), removed)
	}
}

func TestDeduplicateAllDuplicates(t *testing.T) {
	records := []types.Record{
		{Title: "Attention is all you need", Source: "pubmed"},
		{Title: "Attention Is All You Need!", Source: "scopus"},
		{Title: "attention is all you need", Source: "wos"},
	}
	out, removed := Deduplicate(records, 95)
	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want exactly one survivor", len(out))
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
}

func TestDeduplicateIdempotent(t *testing.T) {
	records := []types.Record{
		{DOI: "10.1/x", Title: "A"},
		{DOI: "10.1/x", Title: "A again"},
		{Title: "Deep learning for cancer detection"},
		{Title: "deep learning for cancer detection"},
		{Title: "Something else entirely different"},
	}

	first, removed1 := Deduplicate(records, 90)
	second, removed2 := Deduplicate(first, 90)

	if removed1 != 2 {
		t.Errorf("first pass removed = %d, want 2", removed1)
	}
	if removed2 != 0 {
		t.Errorf("second pass removed = %d, want 0", removed2)
	}
	if len(second) != len(first) {
		t.Fatalf("second pass changed survivor count: %d vs %d", len(second), len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("survivor %d changed across passes", i)
		}
	}
}

func TestDeduplicateMonotonicity(t *testing.T) {
	records := []types.Record{
		{Title: "systematic review of alpha beta gamma delta"},
		{Title: "systematic review of alpha beta gamma zeta"},
		{Title: "systematic review of machine learning methods"},
	}

	var prevRemoved = len(records)
	for _, threshold := range []int{50, 70, 90, 95, 100} {
		out, removed := Deduplicate(records, threshold)
		if len(out) > len(records) {
			t.Fatalf("threshold %d: output larger than input", threshold)
		}
		if removed != len(records)-len(out) {
			t.Errorf("threshold %d: removed = %d, want %d", threshold, removed, len(records)-len(out))
		}
		// Raising the threshold never removes more records.
		if removed > prevRemoved {
			t.Errorf("threshold %d removed %d, more than looser threshold removed %d", threshold, removed, prevRemoved)
		}
		prevRemoved = removed
	}
}

func TestDeduplicateChainNotTransitive(t *testing.T) {
	// t1~t2 and t2~t3 reach the threshold, t1~t3 does not. Because t2 is
	// dropped against t1 and never compared again, t3 survives.
	records := []types.Record{
		{Title: "systematic review of alpha beta gamma delta"},
		{Title: "systematic review of alpha beta gamma zeta"},
		{Title: "systematic review of alpha beta gamma zeta eta"},
	}

	if r := TokenSetRatio(NormalizeTitle(records[0].Title), NormalizeTitle(records[1].Title)); r < 95 {
		t.Fatalf("fixture broken: ratio(t1,t2) = %d, want >= 95", r)
	}
	if r := TokenSetRatio(NormalizeTitle(records[1].Title), NormalizeTitle(records[2].Title)); r < 95 {
		t.Fatalf("fixture broken: ratio(t2,t3) = %d, want >= 95", r)
	}
	if r := TokenSetRatio(NormalizeTitle(records[0].Title), NormalizeTitle(records[2].Title)); r >= 95 {
		t.Fatalf("fixture broken: ratio(t1,t3) = %d, want < 95", r)
	}

	out, removed := Deduplicate(records, 95)
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2 (chain must not merge transitively)", len(out))
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
}

func TestDeduplicateBlockingSkipsDifferentPrefixes(t *testing.T) {
	// Identical token sets, but the normalized titles diverge inside the
	// first 20 characters, so blocking keeps them in separate buckets.
	records := []types.Record{
		{Title: "zebra methodology for cancer screening review"},
		{Title: "methodology zebra for cancer screening review"},
	}
	out, removed := Deduplicate(records, 95)
	if len(out) != 2 || removed != 0 {
		t.Errorf("got %d survivors, %d removed; blocking should prevent this comparison", len(out), removed)
	}
}

func TestDeduplicateUntitledRecordsNotMerged(t *testing.T) {
	records := []types.Record{
		{Source: "pubmed"},
		{Source: "scopus"},
	}
	out, removed := Deduplicate(records, 95)
	if len(out) != 2 || removed != 0 {
		t.Errorf("got %d survivors, %d removed; untitled records carry no duplicate evidence", len(out), removed)
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Attention Is All You Need!", "attention is all you need"},
		{"  BERT: Pre-training  ", "bert pretraining"},
		{"COVID-19 (2020)", "covid19 2020"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeTitle(tt.input); got != tt.want {
				t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
