package repository

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModel() *LogisticModel {
	return &LogisticModel{
		Version:      "test",
		Features:     []string{"a", "b"},
		Coefficients: []float64{2, -1},
		Intercept:    -0.5,
	}
}

func TestLogisticModel_Validate(t *testing.T) {
	m := testModel()
	require.NoError(t, m.Validate())
	assert.Equal(t, 0.5, m.Threshold)

	tests := []struct {
		name   string
		mutate func(*LogisticModel)
	}{
		{"no features", func(m *LogisticModel) { m.Features, m.Coefficients = nil, nil }},
		{"length mismatch", func(m *LogisticModel) { m.Coefficients = []float64{1} }},
		{"duplicate feature", func(m *LogisticModel) { m.Features = []string{"a", "a"} }},
		{"nan coefficient", func(m *LogisticModel) { m.Coefficients[1] = math.NaN() }},
		{"infinite intercept", func(m *LogisticModel) { m.Intercept = math.Inf(-1) }},
		{"threshold too high", func(m *LogisticModel) { m.Threshold = 1 }},
		{"negative threshold", func(m *LogisticModel) { m.Threshold = -0.2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testModel()
			tt.mutate(m)
			assert.Error(t, m.Validate())
		})
	}
}

func TestLogisticModel_Predict(t *testing.T) {
	m := testModel()
	require.NoError(t, m.Validate())

	// z = -0.5 + 2*1 - 1*1 = 0.5
	p, err := m.PredictProbability([]float64{1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 1/(1+math.Exp(-0.5)), p, 1e-12)

	label, err := m.Predict([]float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, 1, label)

	label, err = m.Predict([]float64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, 0, label)

	_, err = m.Predict([]float64{1})
	assert.Error(t, err)
}

func TestLogisticModel_ThresholdApplies(t *testing.T) {
	m := testModel()
	m.Threshold = 0.9
	require.NoError(t, m.Validate())

	label, err := m.Predict([]float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, 0, label)
}

func TestSigmoid_Extremes(t *testing.T) {
	assert.Equal(t, 0.5, sigmoid(0))
	assert.InDelta(t, 1, sigmoid(1000), 1e-12)
	assert.InDelta(t, 0, sigmoid(-1000), 1e-12)
	assert.False(t, math.IsNaN(sigmoid(-1000)))
}

func TestLogisticModel_FeatureNamesIsACopy(t *testing.T) {
	m := testModel()
	names := m.FeatureNames()
	names[0] = "changed"
	assert.Equal(t, "a", m.Features[0])
}
