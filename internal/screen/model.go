// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screen

import (
	"fmt"

	"github.com/pdiddy/sysrev-engine/pkg/types"
)

// Model predicts the probability that a text describes a relevant record.
type Model interface {
	PredictProba(text string) float64
}

// ModelClassifier screens records with a trained probabilistic model and a
// decision threshold.
type ModelClassifier struct {
	model     Model
	threshold float64
}

// NewModelClassifier wires a trained model to a decision threshold in [0,1].
// A nil model is a configuration error, not a fallback to rule mode.
func NewModelClassifier(model Model, threshold float64) (*ModelClassifier, error) {
	if model == nil {
		return nil, fmt.Errorf("model screening requires a trained model: train one or switch to rule mode")
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("threshold %v out of range [0, 1]", threshold)
	}
	return &ModelClassifier{model: model, threshold: threshold}, nil
}

// Mode returns the classifier variant tag.
func (c *ModelClassifier) Mode() types.ScreenMode { return types.ScreenModeModel }

// Classify scores the record's title and abstract and compares the predicted
// probability against the threshold (inclusive). IncludeHit mirrors the
// decision so rule and model output share one schema; ExcludeHit stays false.
func (c *ModelClassifier) Classify(rec types.Record) types.Screening {
	score := c.model.PredictProba(rec.Title + " " + rec.Abstract)
	relevant := score >= c.threshold
	return types.Screening{
		Mode:       types.ScreenModeModel,
		Score:      score,
		IncludeHit: relevant,
		ExcludeHit: false,
		Relevant:   relevant,
	}
}
