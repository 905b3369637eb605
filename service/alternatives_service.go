package service

import (
	"fmt"
	"slices"

	"github.com/rotisserie/eris"

	"loan-risk/domain"
)

// AlternativesService shows how the repayment of one loan changes with the
// term, so an applicant can compare options next to their assessment.
type AlternativesService struct {
	loanService *LoanService
}

func NewAlternativesService(loanService *LoanService) *AlternativesService {
	return &AlternativesService{loanService: loanService}
}

func defaultTerms() []int {
	terms := make([]int, 0, (DefaultAlternativeMax-DefaultAlternativeMin)/DefaultAlternativeStep+1)
	for t := DefaultAlternativeMin; t <= DefaultAlternativeMax; t += DefaultAlternativeStep {
		terms = append(terms, t)
	}
	return terms
}

// Compare computes a plan for every requested term. Terms are deduplicated
// and returned in ascending order.
func (s *AlternativesService) Compare(
	input domain.AlternativesInput,
) (domain.AlternativesResult, error) {
	terms := input.Terms
	if len(terms) == 0 {
		terms = defaultTerms()
	}
	if len(terms) > MaxAlternatives {
		return domain.AlternativesResult{}, domain.NewFieldError(domain.ErrInvalidLoanTerms, "terms",
			fmt.Sprintf("at most %d terms may be compared", MaxAlternatives))
	}
	terms = slices.Clone(terms)
	slices.Sort(terms)
	terms = slices.Compact(terms)

	result := domain.AlternativesResult{
		Alternatives: make([]domain.RepaymentAlternative, 0, len(terms)),
	}

	var lowestPayment, lowestInterest *domain.RepaymentPlan
	for _, term := range terms {
		plan, err := s.loanService.ComputeSchedule(input.Amount, input.InterestRate, term)
		if err != nil {
			return domain.AlternativesResult{}, eris.Wrapf(err, "alternatives: term %d", term)
		}

		if lowestPayment == nil || plan.MonthlyPayment < lowestPayment.MonthlyPayment {
			p := plan
			lowestPayment = &p
		}
		if lowestInterest == nil || plan.TotalInterest < lowestInterest.TotalInterest {
			p := plan
			lowestInterest = &p
		}

		result.Alternatives = append(result.Alternatives, domain.RepaymentAlternative{
			TermMonths:     term,
			MonthlyPayment: plan.MonthlyPayment,
			TotalPayment:   plan.TotalPayment,
			TotalInterest:  plan.TotalInterest,
		})
	}

	result.LowestPaymentTerm = lowestPayment.TermMonths
	result.LowestInterestTerm = lowestInterest.TermMonths
	return result, nil
}
