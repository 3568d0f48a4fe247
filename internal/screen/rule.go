// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screen

import (
	"fmt"
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/pdiddy/sysrev-engine/internal/identify"
	"github.com/pdiddy/sysrev-engine/pkg/types"
)

// RuleClassifier screens records by keyword containment. A keyword list
// matches a record when it matches the normalized title or the normalized
// abstract under its logic ("any" member or "all" members). An empty include
// list admits every record; an empty exclude list rejects none.
type RuleClassifier struct {
	include      *keywordMatcher
	exclude      *keywordMatcher
	includeLogic types.KeywordLogic
	excludeLogic types.KeywordLogic
}

// NewRuleClassifier builds a rule classifier from the screening settings.
// Logic values default to "any"; anything other than "any"/"all" is a
// configuration error.
func NewRuleClassifier(cfg types.ScreeningConfig) (*RuleClassifier, error) {
	includeLogic, err := normalizeLogic(cfg.IncludeLogic)
	if err != nil {
		return nil, fmt.Errorf("include_logic: %w", err)
	}
	excludeLogic, err := normalizeLogic(cfg.ExcludeLogic)
	if err != nil {
		return nil, fmt.Errorf("exclude_logic: %w", err)
	}

	return &RuleClassifier{
		include:      newKeywordMatcher(cfg.IncludeKeywords),
		exclude:      newKeywordMatcher(cfg.ExcludeKeywords),
		includeLogic: includeLogic,
		excludeLogic: excludeLogic,
	}, nil
}

// Mode returns the classifier variant tag.
func (c *RuleClassifier) Mode() types.ScreenMode { return types.ScreenModeRule }

// Classify evaluates the include and exclude keyword lists against the
// record's title and abstract independently, OR-ing the two fields.
func (c *RuleClassifier) Classify(rec types.Record) types.Screening {
	includeHit := true
	if c.include != nil {
		includeHit = c.include.matchesRecord(rec, c.includeLogic)
	}

	excludeHit := false
	if c.exclude != nil {
		excludeHit = c.exclude.matchesRecord(rec, c.excludeLogic)
	}

	score := 0.0
	if includeHit {
		score = 1.0
	}

	return types.Screening{
		Mode:       types.ScreenModeRule,
		Score:      score,
		IncludeHit: includeHit,
		ExcludeHit: excludeHit,
		Relevant:   includeHit && !excludeHit,
	}
}

func normalizeLogic(logic types.KeywordLogic) (types.KeywordLogic, error) {
	switch logic {
	case "":
		return types.LogicAny, nil
	case types.LogicAny, types.LogicAll:
		return logic, nil
	default:
		return "", fmt.Errorf("unknown keyword logic %q: use %q or %q", logic, types.LogicAny, types.LogicAll)
	}
}

// keywordMatcher finds a fixed set of lowercased keywords in text using an
// Aho-Corasick automaton: one pass over the text regardless of how many
// keywords the list holds, with plain substring semantics.
type keywordMatcher struct {
	matcher  *ahocorasick.Matcher
	keywords []string
}

// newKeywordMatcher returns nil for a list with no usable keywords, which
// callers treat as "list not configured".
func newKeywordMatcher(keywords []string) *keywordMatcher {
	normalized := make([]string, 0, len(keywords))
	seen := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		k := strings.ToLower(strings.TrimSpace(kw))
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		normalized = append(normalized, k)
	}
	if len(normalized) == 0 {
		return nil
	}
	return &keywordMatcher{
		matcher:  ahocorasick.NewStringMatcher(normalized),
		keywords: normalized,
	}
}

// matchesRecord reports whether the list matches the record's title or
// abstract under the given logic.
func (m *keywordMatcher) matchesRecord(rec types.Record, logic types.KeywordLogic) bool {
	return m.matchesText(rec.Title, logic) || m.matchesText(rec.Abstract, logic)
}

func (m *keywordMatcher) matchesText(text string, logic types.KeywordLogic) bool {
	hits := m.matcher.Match([]byte(identify.NormalizeText(text)))
	if logic == types.LogicAll {
		return len(hits) == len(m.keywords)
	}
	return len(hits) > 0
}
