// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package model

import "math"

// logistic-regression training parameters. Full-batch gradient descent with a
// fixed iteration count keeps training deterministic for a given corpus.
const (
	trainEpochs  = 300
	learningRate = 0.5
	l2Penalty    = 1e-4
)

// logisticModel is a binary logistic-regression classifier over sparse
// feature vectors.
type logisticModel struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// fitLogistic trains weights on the vectors and binary labels using balanced
// class weights, so the minority class is not drowned out by skewed
// screening corpora.
func fitLogistic(vectors []map[int]float64, labels []int, numFeatures int) *logisticModel {
	m := &logisticModel{Weights: make([]float64, numFeatures)}
	n := len(vectors)
	if n == 0 || numFeatures == 0 {
		return m
	}

	var pos int
	for _, y := range labels {
		if y == 1 {
			pos++
		}
	}
	neg := n - pos

	// Balanced weighting: each class contributes half the total loss.
	posWeight, negWeight := 1.0, 1.0
	if pos > 0 && neg > 0 {
		posWeight = float64(n) / (2 * float64(pos))
		negWeight = float64(n) / (2 * float64(neg))
	}

	grad := make([]float64, numFeatures)
	for epoch := 0; epoch < trainEpochs; epoch++ {
		for i := range grad {
			grad[i] = l2Penalty * m.Weights[i]
		}
		var biasGrad float64

		for i, vec := range vectors {
			y := 0.0
			w := negWeight
			if labels[i] == 1 {
				y = 1.0
				w = posWeight
			}
			err := w * (m.predict(vec) - y)
			for idx, val := range vec {
				grad[idx] += err * val / float64(n)
			}
			biasGrad += err / float64(n)
		}

		for i := range m.Weights {
			m.Weights[i] -= learningRate * grad[i]
		}
		m.Bias -= learningRate * biasGrad
	}
	return m
}

// predict returns the probability of the positive class.
func (m *logisticModel) predict(vec map[int]float64) float64 {
	z := m.Bias
	for idx, val := range vec {
		z += m.Weights[idx] * val
	}
	return sigmoid(z)
}

func sigmoid(z float64) float64 {
	// Clamp to keep exp from overflowing on extreme margins.
	if z > 35 {
		return 1
	}
	if z < -35 {
		return 0
	}
	return 1 / (1 + math.Exp(-z))
}
