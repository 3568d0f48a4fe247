// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"math"
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

// TokenSetRatio scores the similarity of two strings on a 0-100 scale,
// independent of word order. Each string is reduced to its sorted set of
// whitespace-delimited tokens; the score is the best normalized Levenshtein
// similarity among the joined intersection and the two intersection+remainder
// combinations. The function is symmetric, and equal token sets score 100.
func TokenSetRatio(a, b string) int {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 100
	}

	common, restA, restB := partitionTokens(ta, tb)

	sect := strings.Join(common, " ")
	combined1 := joinNonEmpty(sect, strings.Join(restA, " "))
	combined2 := joinNonEmpty(sect, strings.Join(restB, " "))

	best := similarity(combined1, combined2)
	if s := similarity(sect, combined1); s > best {
		best = s
	}
	if s := similarity(sect, combined2); s > best {
		best = s
	}
	return best
}

// similarity is the normalized Levenshtein similarity of two strings,
// 0-100, with 100 reserved for equal strings.
func similarity(a, b string) int {
	if a == b {
		return 100
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 100
	}
	dist := levenshtein.Distance(a, b, levenshtein.NewParams())
	return int(math.Round(100 * (1 - float64(dist)/float64(longest))))
}

// tokenSet returns the sorted unique tokens of s.
func tokenSet(s string) []string {
	fields := strings.Fields(s)
	seen := make(map[string]struct{}, len(fields))
	tokens := fields[:0]
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	sort.Strings(tokens)
	return tokens
}

// partitionTokens splits two sorted token sets into the shared tokens and
// each side's remainder. All three results stay sorted.
func partitionTokens(a, b []string) (common, restA, restB []string) {
	inB := make(map[string]struct{}, len(b))
	for _, t := range b {
		inB[t] = struct{}{}
	}
	inCommon := make(map[string]struct{})
	for _, t := range a {
		if _, ok := inB[t]; ok {
			common = append(common, t)
			inCommon[t] = struct{}{}
		} else {
			restA = append(restA, t)
		}
	}
	for _, t := range b {
		if _, ok := inCommon[t]; !ok {
			restB = append(restB, t)
		}
	}
	return common, restA, restB
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}
