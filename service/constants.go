package service

const (
	MinTermMonths = 1

	// Candidate terms offered when the caller does not list any; they span
	// the 12..120 month range of the input surface.
	DefaultAlternativeStep = 12
	DefaultAlternativeMin  = 12
	DefaultAlternativeMax  = 120
	MaxAlternatives        = 60

	ReportTitle = "Loan Default Prediction Report"

	// CreditScoreBenchmark is the score the report compares applicants to.
	CreditScoreBenchmark = 700
)

// Assessment stages, used to label errors, logs and metrics.
const (
	StageEncode   = "encode"
	StageClassify = "classify"
	StageAmortize = "amortize"
	StageCompose  = "compose"
)
