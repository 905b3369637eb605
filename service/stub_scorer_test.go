package service

import (
	"errors"
	"slices"
	"sync/atomic"

	"loan-risk/domain"
)

// stubScorer returns fixed outputs and counts calls.
type stubScorer struct {
	names       []string
	label       int
	probability float64
	err         error
	calls       atomic.Int64
}

func newStubScorer(label int, probability float64) *stubScorer {
	return &stubScorer{
		names:       slices.Clone(domain.SchemaV1.Columns),
		label:       label,
		probability: probability,
	}
}

func (s *stubScorer) FeatureNames() []string { return slices.Clone(s.names) }

func (s *stubScorer) Predict(values []float64) (int, error) {
	s.calls.Add(1)
	if s.err != nil {
		return 0, s.err
	}
	if len(values) != len(s.names) {
		return 0, errors.New("stub: wrong length")
	}
	return s.label, nil
}

func (s *stubScorer) PredictProbability(values []float64) (float64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.probability, nil
}
