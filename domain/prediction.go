package domain

type RiskLabel string

const (
	LabelDefault   RiskLabel = "default"
	LabelNoDefault RiskLabel = "no-default"
)

// PredictionResult holds the classifier's label and the probability of the
// default class.
type PredictionResult struct {
	Label       RiskLabel `json:"label"`
	Probability float64   `json:"probability"`
}

// Confidence is the probability of the reported label.
func (p PredictionResult) Confidence() float64 {
	if p.Label == LabelDefault {
		return p.Probability
	}
	return 1 - p.Probability
}

// Complement is the probability of the label that was not reported.
func (p PredictionResult) Complement() float64 {
	return 1 - p.Confidence()
}

func (p PredictionResult) IsDefault() bool {
	return p.Label == LabelDefault
}
