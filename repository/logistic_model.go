package repository

import (
	"fmt"
	"math"
	"slices"

	"github.com/rotisserie/eris"
)

// LogisticModel is a binary logistic regression exported from the training
// pipeline: one coefficient per named feature plus an intercept.
type LogisticModel struct {
	Version      string    `json:"version" yaml:"version"`
	Features     []string  `json:"features" yaml:"features"`
	Coefficients []float64 `json:"coefficients" yaml:"coefficients"`
	Intercept    float64   `json:"intercept" yaml:"intercept"`
	Threshold    float64   `json:"threshold" yaml:"threshold"`
}

const defaultThreshold = 0.5

// Validate checks that the artifact is internally consistent and fills in
// the default decision threshold.
func (m *LogisticModel) Validate() error {
	if len(m.Features) == 0 {
		return eris.New("model: no features")
	}
	if len(m.Features) != len(m.Coefficients) {
		return eris.Errorf("model: %d features but %d coefficients", len(m.Features), len(m.Coefficients))
	}
	seen := make(map[string]bool, len(m.Features))
	for _, name := range m.Features {
		if seen[name] {
			return eris.Errorf("model: duplicate feature %q", name)
		}
		seen[name] = true
	}
	for i, w := range m.Coefficients {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return eris.Errorf("model: coefficient %d (%s) is not finite", i, m.Features[i])
		}
	}
	if math.IsNaN(m.Intercept) || math.IsInf(m.Intercept, 0) {
		return eris.New("model: intercept is not finite")
	}
	if m.Threshold == 0 {
		m.Threshold = defaultThreshold
	}
	if m.Threshold <= 0 || m.Threshold >= 1 {
		return eris.Errorf("model: threshold %v outside (0, 1)", m.Threshold)
	}
	return nil
}

func (m *LogisticModel) FeatureNames() []string {
	return slices.Clone(m.Features)
}

func (m *LogisticModel) PredictProbability(values []float64) (float64, error) {
	if len(values) != len(m.Coefficients) {
		return 0, fmt.Errorf("model: got %d values, want %d", len(values), len(m.Coefficients))
	}
	z := m.Intercept
	for i, x := range values {
		z += m.Coefficients[i] * x
	}
	return sigmoid(z), nil
}

func (m *LogisticModel) Predict(values []float64) (int, error) {
	p, err := m.PredictProbability(values)
	if err != nil {
		return 0, err
	}
	if p >= m.Threshold {
		return 1, nil
	}
	return 0, nil
}

// sigmoid is evaluated in the form that cannot overflow for large |z|.
func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
