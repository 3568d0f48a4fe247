// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screen

import (
	"testing"

	"github.com/pdiddy/sysrev-engine/pkg/types"
)

func ruleClassifier(t *testing.T, cfg types.ScreeningConfig) *RuleClassifier {
	t.Helper()
	c, err := NewRuleClassifier(cfg)
	if err != nil {
		t.Fatalf("NewRuleClassifier: %v", err)
	}
	return c
}

func TestRuleClassifierIncludeAndExcludeBothHit(t *testing.T) {
	c := ruleClassifier(t, types.ScreeningConfig{
		IncludeKeywords: []string{"cancer"},
		ExcludeKeywords: []string{"review"},
	})

	got := c.Classify(types.Record{Title: "A review of cancer treatments"})
	if !got.IncludeHit {
		t.Error("include_hit = false, want true")
	}
	if !got.ExcludeHit {
		t.Error("exclude_hit = false, want true")
	}
	if got.Relevant {
		t.Error("relevant = true, want false when an exclude keyword hits")
	}
	if got.Score != 1.0 {
		t.Errorf("score = %v, want 1.0 on include hit", got.Score)
	}
	if got.Mode != types.ScreenModeRule {
		t.Errorf("mode = %q, want %q", got.Mode, types.ScreenModeRule)
	}
}

func TestRuleClassifierCaseInsensitive(t *testing.T) {
	c := ruleClassifier(t, types.ScreeningConfig{
		IncludeKeywords: []string{"CANCER"},
	})
	got := c.Classify(types.Record{Title: "Advances in cancer immunotherapy"})
	if !got.Relevant {
		t.Error("uppercase keyword should match lowercase title")
	}
}

func TestRuleClassifierMatchesAbstract(t *testing.T) {
	c := ruleClassifier(t, types.ScreeningConfig{
		IncludeKeywords: []string{"randomized"},
	})
	rec := types.Record{
		Title:    "Outcomes of early mobilization",
		Abstract: "We conducted a randomized controlled trial of 200 patients.",
	}
	if got := c.Classify(rec); !got.IncludeHit {
		t.Error("keyword in abstract should count as an include hit")
	}
}

func TestRuleClassifierEmptyIncludeListAdmitsEverything(t *testing.T) {
	c := ruleClassifier(t, types.ScreeningConfig{})
	got := c.Classify(types.Record{Title: "Anything at all"})
	if !got.IncludeHit || !got.Relevant {
		t.Errorf("empty include list: got include_hit=%v relevant=%v, want true/true",
			got.IncludeHit, got.Relevant)
	}
	if got.ExcludeHit {
		t.Error("empty exclude list must never hit")
	}
}

func TestRuleClassifierAllLogic(t *testing.T) {
	c := ruleClassifier(t, types.ScreeningConfig{
		IncludeKeywords: []string{"cancer", "screening"},
		IncludeLogic:    types.LogicAll,
	})

	tests := []struct {
		title string
		want  bool
	}{
		{"Cancer screening programs in Europe", true},
		{"Cancer incidence trends", false},
		{"Screening for depression", false},
	}
	for _, tt := range tests {
		if got := c.Classify(types.Record{Title: tt.title}); got.IncludeHit != tt.want {
			t.Errorf("title %q: include_hit = %v, want %v", tt.title, got.IncludeHit, tt.want)
		}
	}
}

func TestRuleClassifierAllLogicSplitAcrossFieldsDoesNotMatch(t *testing.T) {
	// "all" applies per field: one keyword in the title and the other only in
	// the abstract is not a hit.
	c := ruleClassifier(t, types.ScreeningConfig{
		IncludeKeywords: []string{"cancer", "screening"},
		IncludeLogic:    types.LogicAll,
	})
	rec := types.Record{
		Title:    "Population cancer registries",
		Abstract: "Screening uptake was not measured.",
	}
	if got := c.Classify(rec); got.IncludeHit {
		t.Error("keywords split across title and abstract should not satisfy all-logic")
	}
}

func TestRuleClassifierSubstringSemantics(t *testing.T) {
	// Keywords match inside longer words; "rat" hits "stratified".
	c := ruleClassifier(t, types.ScreeningConfig{
		IncludeKeywords: []string{"rat"},
	})
	if got := c.Classify(types.Record{Title: "A stratified sampling design"}); !got.IncludeHit {
		t.Error("substring match expected")
	}
}

func TestRuleClassifierDuplicateKeywordsCollapse(t *testing.T) {
	// Repeated keywords must not break all-logic counting.
	c := ruleClassifier(t, types.ScreeningConfig{
		IncludeKeywords: []string{"cancer", "Cancer", " cancer "},
		IncludeLogic:    types.LogicAll,
	})
	if got := c.Classify(types.Record{Title: "cancer epidemiology"}); !got.IncludeHit {
		t.Error("duplicate keywords should collapse to one pattern")
	}
}

func TestRuleClassifierScoreZeroWhenNoIncludeHit(t *testing.T) {
	c := ruleClassifier(t, types.ScreeningConfig{
		IncludeKeywords: []string{"cancer"},
	})
	got := c.Classify(types.Record{Title: "Cardiac surgery outcomes"})
	if got.Score != 0.0 {
		t.Errorf("score = %v, want 0.0", got.Score)
	}
	if got.Relevant {
		t.Error("relevant = true, want false")
	}
}

func TestNewRuleClassifierRejectsUnknownLogic(t *testing.T) {
	_, err := NewRuleClassifier(types.ScreeningConfig{IncludeLogic: "most"})
	if err == nil {
		t.Fatal("expected an error for unknown include logic")
	}
	_, err = NewRuleClassifier(types.ScreeningConfig{ExcludeLogic: "none"})
	if err == nil {
		t.Fatal("expected an error for unknown exclude logic")
	}
}
