package domain

import "time"

// Field is one label/value pair of the applicant summary.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CreditComparison places the applicant's credit score against the
// benchmark the lender considers good.
type CreditComparison struct {
	Score      int `json:"score"`
	Benchmark  int `json:"benchmark"`
	Difference int `json:"difference"`
}

// Report is the composed, renderer-agnostic result of one assessment. Text
// fields are already sanitized for renderers with restricted character sets.
type Report struct {
	ID             string           `json:"id"`
	GeneratedAt    time.Time        `json:"generated_at"`
	Title          string           `json:"title"`
	SchemaVersion  string           `json:"schema_version"`
	Verdict        string           `json:"verdict"`
	Confidence     float64          `json:"confidence"`
	PredictionText string           `json:"prediction_text"`
	RepaymentText  string           `json:"repayment_text"`
	CreditText     string           `json:"credit_text"`
	Credit         CreditComparison `json:"credit"`
	Prediction     PredictionResult `json:"prediction"`
	Plan           RepaymentPlan    `json:"plan"`
	Applicant      []Field          `json:"applicant"`
}

// Lookup returns the applicant value stored under name.
func (r Report) Lookup(name string) (string, bool) {
	for _, f := range r.Applicant {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}
