package domain

type LoanInput struct {
	Amount       float64 `json:"amount"`
	InterestRate float64 `json:"interest_rate"`
	TermMonths   int     `json:"term_months"`
}

// RepaymentPlan is a fixed-installment schedule. MonthlyPayment is the
// installment in cents; the totals are derived from it.
type RepaymentPlan struct {
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalPayment   float64 `json:"total_payment"`
	TotalInterest  float64 `json:"total_interest"`
	TermMonths     int     `json:"term_months"`
}

// AlternativesInput asks for repayment plans of the same loan under other
// terms.
type AlternativesInput struct {
	Amount       float64 `json:"amount"`
	InterestRate float64 `json:"interest_rate"`
	Terms        []int   `json:"terms,omitempty"`
}

type RepaymentAlternative struct {
	TermMonths     int     `json:"term_months"`
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalPayment   float64 `json:"total_payment"`
	TotalInterest  float64 `json:"total_interest"`
}

type AlternativesResult struct {
	LowestPaymentTerm  int                    `json:"lowest_payment_term"`
	LowestInterestTerm int                    `json:"lowest_interest_term"`
	Alternatives       []RepaymentAlternative `json:"alternatives"`
}
