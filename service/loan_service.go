package service

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"loan-risk/domain"
)

type LoanService struct{}

func NewLoanService() *LoanService {
	return &LoanService{}
}

// CalculateLoan computes the repayment plan for input.
func (s *LoanService) CalculateLoan(input domain.LoanInput) (domain.RepaymentPlan, error) {
	return s.ComputeSchedule(input.Amount, input.InterestRate, input.TermMonths)
}

// ComputeSchedule returns the fixed monthly installment that amortizes
// principal over termMonths at annualRatePercent.
//
// The annuity factor is evaluated at full precision; the installment is
// rounded to cents once, as it is the amount actually paid each month, and
// the totals are derived from it in decimal arithmetic.
func (s *LoanService) ComputeSchedule(
	principal float64,
	annualRatePercent float64,
	termMonths int,
) (domain.RepaymentPlan, error) {
	if err := validateLoanTerms(principal, annualRatePercent, termMonths); err != nil {
		return domain.RepaymentPlan{}, err
	}

	n := float64(termMonths)
	monthlyRate := annualRatePercent / 100 / 12

	// 1-(1+r)^-n, evaluated without cancellation for rates close to zero.
	factor := -math.Expm1(-n * math.Log1p(monthlyRate))

	var payment float64
	if monthlyRate == 0 || factor == 0 {
		payment = principal / n
	} else {
		payment = principal * monthlyRate / factor
	}
	if math.IsNaN(payment) || math.IsInf(payment, 0) {
		return domain.RepaymentPlan{}, domain.NewFieldError(domain.ErrInvalidLoanTerms, "loan_amount",
			fmt.Sprintf("installment for %v over %d months is not representable", principal, termMonths))
	}

	installment := decimal.NewFromFloat(payment).Round(2)
	total := installment.Mul(decimal.NewFromInt(int64(termMonths)))
	interest := total.Sub(decimal.NewFromFloat(principal))

	return domain.RepaymentPlan{
		MonthlyPayment: installment.InexactFloat64(),
		TotalPayment:   total.InexactFloat64(),
		TotalInterest:  interest.InexactFloat64(),
		TermMonths:     termMonths,
	}, nil
}

func validateLoanTerms(principal, annualRatePercent float64, termMonths int) error {
	switch {
	case math.IsNaN(principal) || math.IsInf(principal, 0) || principal <= 0:
		return domain.NewFieldError(domain.ErrInvalidLoanTerms, "loan_amount",
			fmt.Sprintf("must be positive, got %v", principal))
	case math.IsNaN(annualRatePercent) || math.IsInf(annualRatePercent, 0) || annualRatePercent < 0:
		return domain.NewFieldError(domain.ErrInvalidLoanTerms, "interest_rate",
			fmt.Sprintf("must not be negative, got %v", annualRatePercent))
	case termMonths < MinTermMonths:
		return domain.NewFieldError(domain.ErrInvalidLoanTerms, "loan_term",
			fmt.Sprintf("must be positive, got %d", termMonths))
	}
	return nil
}

