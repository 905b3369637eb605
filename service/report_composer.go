package service

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"loan-risk/domain"
)

// ReportComposer turns an assessment into a renderer-agnostic report.
type ReportComposer struct {
	currencySymbol string
	schemaVersion  string
	sanitizer      *Sanitizer
	now            func() time.Time
	newID          func() string
}

// NewReportComposer builds a composer that renders amounts with
// currencySymbol (for example "€"). The symbol is replaced by its ISO code
// during sanitization.
func NewReportComposer(currencySymbol, schemaVersion string) *ReportComposer {
	return &ReportComposer{
		currencySymbol: currencySymbol,
		schemaVersion:  schemaVersion,
		sanitizer:      NewSanitizer(),
		now:            func() time.Time { return time.Now().UTC() },
		newID:          func() string { return uuid.New().String() },
	}
}

// Compose assembles the report.
func (c *ReportComposer) Compose(
	profile domain.ApplicantProfile,
	prediction domain.PredictionResult,
	plan domain.RepaymentPlan,
) (domain.Report, error) {
	if prediction.Label != domain.LabelDefault && prediction.Label != domain.LabelNoDefault {
		return domain.Report{}, domain.NewFieldError(domain.ErrSchemaMismatch, "label",
			fmt.Sprintf("unknown label %q", prediction.Label))
	}
	if math.IsNaN(prediction.Probability) || prediction.Probability < 0 || prediction.Probability > 1 {
		return domain.Report{}, domain.NewFieldError(domain.ErrSchemaMismatch, "probability",
			fmt.Sprintf("%v is outside [0, 1]", prediction.Probability))
	}

	confidence := prediction.Confidence()

	var verdict, predictionText string
	if prediction.IsDefault() {
		verdict = "Likely to default"
		predictionText = fmt.Sprintf("⚠️ Risk: Likely to DEFAULT (Confidence: %.2f)", confidence)
	} else {
		verdict = "Not likely to default"
		predictionText = fmt.Sprintf("✅ Safe: Not Likely to Default (Confidence: %.2f)", confidence)
	}

	repaymentText := fmt.Sprintf("Monthly Repayment: %s\nTotal Repayment: %s over %d months",
		formatMoney(c.currencySymbol, plan.MonthlyPayment),
		formatMoney(c.currencySymbol, plan.TotalPayment),
		plan.TermMonths,
	)

	credit := domain.CreditComparison{
		Score:      profile.CreditScore,
		Benchmark:  CreditScoreBenchmark,
		Difference: profile.CreditScore - CreditScoreBenchmark,
	}

	return domain.Report{
		ID:             c.newID(),
		GeneratedAt:    c.now(),
		Title:          ReportTitle,
		SchemaVersion:  c.schemaVersion,
		Verdict:        verdict,
		Confidence:     confidence,
		PredictionText: c.sanitizer.Sanitize(predictionText),
		RepaymentText:  c.sanitizer.Sanitize(repaymentText),
		CreditText:     creditText(credit),
		Credit:         credit,
		Prediction:     prediction,
		Plan:           plan,
		Applicant:      c.applicantFields(profile),
	}, nil
}

// applicantFields lists the profile in its declared field order.
func (c *ReportComposer) applicantFields(p domain.ApplicantProfile) []domain.Field {
	fields := make([]domain.Field, 0, 17)
	if p.Reference != "" {
		fields = append(fields, domain.Field{Name: "Reference", Value: p.Reference})
	}
	fields = append(fields,
		domain.Field{Name: "Age", Value: strconv.Itoa(p.Age)},
		domain.Field{Name: "Income", Value: formatNumber(p.Income)},
		domain.Field{Name: "Loan Amount", Value: formatNumber(p.LoanAmount)},
		domain.Field{Name: "Credit Score", Value: strconv.Itoa(p.CreditScore)},
		domain.Field{Name: "Months Employed", Value: strconv.Itoa(p.MonthsEmployed)},
		domain.Field{Name: "Number of Credit Lines", Value: strconv.Itoa(p.NumCreditLines)},
		domain.Field{Name: "Interest Rate (%)", Value: formatNumber(p.InterestRate)},
		domain.Field{Name: "Loan Term (months)", Value: strconv.Itoa(p.LoanTerm)},
		domain.Field{Name: "DTI Ratio", Value: formatNumber(p.DTIRatio)},
		domain.Field{Name: "Education", Value: string(p.Education)},
		domain.Field{Name: "Employment Type", Value: string(p.EmploymentType)},
		domain.Field{Name: "Marital Status", Value: string(p.MaritalStatus)},
		domain.Field{Name: "Has Mortgage", Value: string(p.HasMortgage)},
		domain.Field{Name: "Has Dependents", Value: string(p.HasDependents)},
		domain.Field{Name: "Loan Purpose", Value: string(p.LoanPurpose)},
		domain.Field{Name: "Has Co-Signer", Value: string(p.HasCoSigner)},
	)

	for i := range fields {
		fields[i].Value = c.sanitizer.Sanitize(fields[i].Value)
	}
	return fields
}

func creditText(c domain.CreditComparison) string {
	var position string
	switch {
	case c.Difference > 0:
		position = fmt.Sprintf("%d above", c.Difference)
	case c.Difference < 0:
		position = fmt.Sprintf("%d below", -c.Difference)
	default:
		position = "at"
	}
	return fmt.Sprintf("Credit Score: %d (%s the benchmark of %d)", c.Score, position, c.Benchmark)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
