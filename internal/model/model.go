// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package model trains and applies the probabilistic relevance classifier:
// a TF-IDF representation of title plus abstract fed into logistic
// regression. Models are trained from labeled records, evaluated on a
// held-out split, and serialized as a JSON artifact.
package model

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pdiddy/sysrev-engine/internal/metrics"
	"github.com/pdiddy/sysrev-engine/pkg/types"
)

// holdoutEvery reserves one in five labeled records per class for the
// held-out evaluation split.
const holdoutEvery = 5

// Model is a trained relevance classifier. It satisfies the screening
// package's Model interface through PredictProba.
type Model struct {
	Vectorizer *Vectorizer    `json:"vectorizer"`
	Logistic   *logisticModel `json:"logistic"`

	// TrainedAt and TrainExamples describe the training run, for the
	// project status output.
	TrainedAt     time.Time `json:"trained_at"`
	TrainExamples int       `json:"train_examples"`
}

// PredictProba returns the predicted probability that the text describes a
// relevant record.
func (m *Model) PredictProba(text string) float64 {
	return m.Logistic.predict(m.Vectorizer.Transform(text))
}

// Train fits a classifier on the records that have a label, holding out
// every fifth record of each class for evaluation. The returned report is
// computed on the held-out split; when the corpus is too small to hold
// anything out, it carries a note instead.
//
// Training needs at least one relevant and one irrelevant labeled record.
func Train(records []types.Record, labels types.LabelSet) (*Model, types.Report, error) {
	var texts []string
	var ys []int
	var ids []string
	for _, r := range records {
		label, ok := labels[r.RecordID]
		if !ok {
			continue
		}
		texts = append(texts, r.Title+" "+r.Abstract)
		y := 0
		if label == 1 {
			y = 1
		}
		ys = append(ys, y)
		ids = append(ids, r.RecordID)
	}

	if len(texts) == 0 {
		return nil, types.Report{}, fmt.Errorf("no labeled records to train on")
	}
	pos := 0
	for _, y := range ys {
		pos += y
	}
	if pos == 0 || pos == len(ys) {
		return nil, types.Report{}, fmt.Errorf("training requires both relevant and irrelevant labels, got %d relevant of %d", pos, len(ys))
	}

	trainIdx, holdIdx := stratifiedSplit(ys)

	trainTexts := make([]string, len(trainIdx))
	for i, idx := range trainIdx {
		trainTexts[i] = texts[idx]
	}
	vectorizer := FitVectorizer(trainTexts)

	vectors := make([]map[int]float64, len(trainIdx))
	trainYs := make([]int, len(trainIdx))
	for i, idx := range trainIdx {
		vectors[i] = vectorizer.Transform(texts[idx])
		trainYs[i] = ys[idx]
	}

	m := &Model{
		Vectorizer:    vectorizer,
		Logistic:      fitLogistic(vectors, trainYs, vectorizer.NumFeatures()),
		TrainedAt:     time.Now().UTC(),
		TrainExamples: len(trainIdx),
	}

	report := holdoutReport(m, texts, ys, ids, holdIdx)
	return m, report, nil
}

// stratifiedSplit partitions indices into train and holdout sets, taking
// every fifth member of each class in input order. Classes with fewer than
// holdoutEvery members stay entirely in the training set.
func stratifiedSplit(ys []int) (train, holdout []int) {
	counts := map[int]int{}
	for i, y := range ys {
		counts[y]++
		if counts[y]%holdoutEvery == 0 {
			holdout = append(holdout, i)
		} else {
			train = append(train, i)
		}
	}
	return train, holdout
}

func holdoutReport(m *Model, texts []string, ys []int, ids []string, holdIdx []int) types.Report {
	if len(holdIdx) == 0 {
		return types.Report{Note: "corpus too small for a held-out evaluation split"}
	}
	screened := make([]types.ScreenedRecord, len(holdIdx))
	held := make(types.LabelSet, len(holdIdx))
	for i, idx := range holdIdx {
		score := m.PredictProba(texts[idx])
		screened[i] = types.ScreenedRecord{
			Record: types.Record{RecordID: ids[idx]},
			Screening: types.Screening{
				Mode:     types.ScreenModeModel,
				Score:    score,
				Relevant: score >= 0.5,
			},
		}
		held[ids[idx]] = ys[idx]
	}
	return metrics.Evaluate(screened, held)
}

// Save writes the model artifact as indented JSON.
func (m *Model) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing model artifact: %w", err)
	}
	return nil
}

// Load reads a model artifact written by Save.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model artifact: %w", err)
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding model artifact %s: %w", path, err)
	}
	if m.Vectorizer == nil || m.Logistic == nil {
		return nil, fmt.Errorf("model artifact %s is incomplete", path)
	}
	return &m, nil
}
