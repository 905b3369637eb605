package service

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-risk/domain"
)

func encodeDefault(t *testing.T) domain.FeatureVector {
	t.Helper()
	v, err := newTestEncoder(t).Encode(domain.DefaultProfile())
	require.NoError(t, err)
	return v
}

func TestClassify_Labels(t *testing.T) {
	vector := encodeDefault(t)

	result, err := NewRiskClassifier(newStubScorer(1, 0.73)).Classify(vector)
	require.NoError(t, err)
	assert.Equal(t, domain.LabelDefault, result.Label)
	assert.Equal(t, 0.73, result.Probability)
	assert.InDelta(t, 0.73, result.Confidence(), 1e-9)

	result, err = NewRiskClassifier(newStubScorer(0, 0.19)).Classify(vector)
	require.NoError(t, err)
	assert.Equal(t, domain.LabelNoDefault, result.Label)
	assert.InDelta(t, 0.81, result.Confidence(), 1e-9)
	assert.InDelta(t, 0.19, result.Complement(), 1e-9)
}

func TestClassify_Deterministic(t *testing.T) {
	vector := encodeDefault(t)
	classifier := NewRiskClassifier(newStubScorer(0, 0.37))

	first, err := classifier.Classify(vector)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := classifier.Classify(vector)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestClassify_DimensionMismatch(t *testing.T) {
	scorer := newStubScorer(0, 0.2)
	scorer.names = scorer.names[:10]

	_, err := NewRiskClassifier(scorer).Classify(encodeDefault(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSchemaMismatch))
	assert.Equal(t, "vector", domain.FieldOf(err))
	assert.Zero(t, scorer.calls.Load())
}

func TestClassify_ColumnMismatch(t *testing.T) {
	scorer := newStubScorer(0, 0.2)
	scorer.names[3] = "FICO"

	_, err := NewRiskClassifier(scorer).Classify(encodeDefault(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSchemaMismatch))
	assert.Equal(t, "CreditScore", domain.FieldOf(err))
}

func TestClassify_MalformedOutput(t *testing.T) {
	tests := []struct {
		name        string
		label       int
		probability float64
		field       string
	}{
		{"probability above one", 1, 1.2, "probability"},
		{"negative probability", 0, -0.1, "probability"},
		{"nan probability", 0, math.NaN(), "probability"},
		{"unknown class", 2, 0.5, "label"},
	}
	vector := encodeDefault(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRiskClassifier(newStubScorer(tt.label, tt.probability)).Classify(vector)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrSchemaMismatch))
			assert.Equal(t, tt.field, domain.FieldOf(err))
		})
	}
}

func TestClassify_ScorerError(t *testing.T) {
	scorer := newStubScorer(0, 0.2)
	scorer.err = errors.New("boom")

	_, err := NewRiskClassifier(scorer).Classify(encodeDefault(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, "internal", domain.KindOf(err))
}

func TestClassify_Unavailable(t *testing.T) {
	vector := encodeDefault(t)

	_, err := NewRiskClassifier(nil).Classify(vector)
	assert.True(t, errors.Is(err, domain.ErrModelUnavailable))

	unavailable := NewUnavailableClassifier(errors.New("open models/v1.json: no such file"))
	_, err = unavailable.Classify(vector)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrModelUnavailable))
	assert.Contains(t, err.Error(), "no such file")

	assert.NoError(t, NewRiskClassifier(newStubScorer(0, 0.1)).Available())
}
