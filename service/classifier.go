package service

import (
	"fmt"
	"math"

	"github.com/rotisserie/eris"

	"loan-risk/domain"
)

// Scorer is the pre-trained scoring artifact. Implementations are read-only
// after loading and may be shared by concurrent callers.
type Scorer interface {
	// FeatureNames lists the input columns in the order the model expects.
	FeatureNames() []string
	// Predict returns 1 for the default class and 0 otherwise.
	Predict(values []float64) (int, error)
	// PredictProbability returns the probability of the default class.
	PredictProbability(values []float64) (float64, error)
}

// RiskClassifier validates vectors against the scoring artifact and
// normalizes its output.
type RiskClassifier struct {
	scorer  Scorer
	loadErr error
}

func NewRiskClassifier(scorer Scorer) *RiskClassifier {
	return &RiskClassifier{scorer: scorer}
}

// NewUnavailableClassifier is used when the artifact failed to load at
// startup. Every call reports ErrModelUnavailable with the load failure.
func NewUnavailableClassifier(loadErr error) *RiskClassifier {
	return &RiskClassifier{loadErr: loadErr}
}

// Available reports ErrModelUnavailable when no artifact is loaded.
func (c *RiskClassifier) Available() error {
	if c == nil || c.scorer == nil {
		if c != nil && c.loadErr != nil {
			return eris.Wrapf(domain.ErrModelUnavailable, "classify: artifact failed to load: %v", c.loadErr)
		}
		return eris.Wrap(domain.ErrModelUnavailable, "classify: no artifact loaded")
	}
	return nil
}

// Classify scores vector. It never retries: a failure here is a deployment
// problem, not a transient one.
func (c *RiskClassifier) Classify(vector domain.FeatureVector) (domain.PredictionResult, error) {
	if err := c.Available(); err != nil {
		return domain.PredictionResult{}, err
	}

	expected := c.scorer.FeatureNames()
	if vector.Len() != len(expected) {
		return domain.PredictionResult{}, domain.NewFieldError(domain.ErrSchemaMismatch, "vector",
			fmt.Sprintf("vector has %d columns, model expects %d", vector.Len(), len(expected)))
	}
	for i, name := range vector.Columns() {
		if name != expected[i] {
			return domain.PredictionResult{}, domain.NewFieldError(domain.ErrSchemaMismatch, name,
				fmt.Sprintf("column %d is %q, model expects %q", i, name, expected[i]))
		}
	}

	values := vector.Values()
	label, err := c.scorer.Predict(values)
	if err != nil {
		return domain.PredictionResult{}, eris.Wrap(err, "classify: predict")
	}
	probability, err := c.scorer.PredictProbability(values)
	if err != nil {
		return domain.PredictionResult{}, eris.Wrap(err, "classify: predict probability")
	}
	if math.IsNaN(probability) || probability < 0 || probability > 1 {
		return domain.PredictionResult{}, domain.NewFieldError(domain.ErrSchemaMismatch, "probability",
			fmt.Sprintf("model returned %v, want a value in [0, 1]", probability))
	}

	result := domain.PredictionResult{Probability: probability}
	switch label {
	case 1:
		result.Label = domain.LabelDefault
	case 0:
		result.Label = domain.LabelNoDefault
	default:
		return domain.PredictionResult{}, domain.NewFieldError(domain.ErrSchemaMismatch, "label",
			fmt.Sprintf("model returned class %d, want 0 or 1", label))
	}
	return result, nil
}
