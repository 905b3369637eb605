package http

import (
	"fmt"

	"loan-risk/domain"
)

// Request limits of the public API. The calculation itself accepts any
// finite positive terms; these bound what one anonymous request may ask for.
const (
	maxLoanAmount   = 1_000_000_000.0
	maxInterestRate = 1000.0 // percent per year
	maxTermMonths   = 600
)

func checkLoanLimits(amount, interestRate float64, termMonths int) error {
	switch {
	case amount > maxLoanAmount:
		return domain.NewFieldError(domain.ErrInvalidLoanTerms, "loan_amount",
			fmt.Sprintf("exceeds the maximum of %.2f", maxLoanAmount))
	case interestRate > maxInterestRate:
		return domain.NewFieldError(domain.ErrInvalidLoanTerms, "interest_rate",
			fmt.Sprintf("exceeds the maximum of %.2f%%", maxInterestRate))
	case termMonths > maxTermMonths:
		return domain.NewFieldError(domain.ErrInvalidLoanTerms, "loan_term",
			fmt.Sprintf("exceeds the maximum of %d months", maxTermMonths))
	}
	return nil
}

func checkProfileLimits(p domain.ApplicantProfile) error {
	return checkLoanLimits(p.LoanAmount, p.InterestRate, p.LoanTerm)
}

func checkAlternativesLimits(input domain.AlternativesInput) error {
	if err := checkLoanLimits(input.Amount, input.InterestRate, 0); err != nil {
		return err
	}
	for _, term := range input.Terms {
		if err := checkLoanLimits(input.Amount, input.InterestRate, term); err != nil {
			return err
		}
	}
	return nil
}
