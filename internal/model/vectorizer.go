// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package model

import (
	"math"
	"sort"
	"strings"

	"github.com/pdiddy/sysrev-engine/internal/identify"
)

// Vectorizer maps text to sparse TF-IDF vectors over a fixed vocabulary of
// unigrams and bigrams. The vocabulary and document frequencies are learned
// once from the training corpus and serialized with the model.
type Vectorizer struct {
	// Vocabulary maps term to feature index. Indices are assigned in sorted
	// term order so fitting the same corpus always yields the same layout.
	Vocabulary map[string]int `json:"vocabulary"`

	// IDF holds the smoothed inverse document frequency per feature index.
	IDF []float64 `json:"idf"`
}

// FitVectorizer learns vocabulary and IDF weights from the corpus.
// IDF uses the smoothed form ln((1+n)/(1+df)) + 1, so terms appearing in
// every document still carry weight 1 rather than vanishing.
func FitVectorizer(corpus []string) *Vectorizer {
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, term := range tokenize(text) {
			if _, dup := seen[term]; dup {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	v := &Vectorizer{
		Vocabulary: make(map[string]int, len(terms)),
		IDF:        make([]float64, len(terms)),
	}
	n := float64(len(corpus))
	for i, term := range terms {
		v.Vocabulary[term] = i
		v.IDF[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return v
}

// Transform returns the L2-normalized TF-IDF vector for the text as a sparse
// index-to-weight map. Terms outside the vocabulary are ignored.
func (v *Vectorizer) Transform(text string) map[int]float64 {
	counts := make(map[int]float64)
	for _, term := range tokenize(text) {
		if idx, ok := v.Vocabulary[term]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return counts
	}

	var sumSq float64
	for idx, tf := range counts {
		w := tf * v.IDF[idx]
		counts[idx] = w
		sumSq += w * w
	}
	norm := math.Sqrt(sumSq)
	for idx := range counts {
		counts[idx] /= norm
	}
	return counts
}

// NumFeatures returns the vocabulary size.
func (v *Vectorizer) NumFeatures() int { return len(v.IDF) }

// tokenize lowercases and splits on whitespace after stripping punctuation,
// then emits unigrams plus adjacent-word bigrams joined with a space.
func tokenize(text string) []string {
	var clean strings.Builder
	for _, r := range identify.NormalizeText(text) {
		if isWordRune(r) || r == ' ' {
			clean.WriteRune(r)
		} else {
			clean.WriteRune(' ')
		}
	}
	words := strings.Fields(clean.String())

	terms := make([]string, 0, 2*len(words))
	terms = append(terms, words...)
	for i := 0; i+1 < len(words); i++ {
		terms = append(terms, words[i]+" "+words[i+1])
	}
	return terms
}

func isWordRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r > 127
}
