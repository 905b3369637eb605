package http

import (
	"net/http"

	"loan-risk/domain"
	"loan-risk/service"
)

type LoanHandler struct {
	service *service.LoanService
}

func NewLoanHandler(service *service.LoanService) *LoanHandler {
	return &LoanHandler{service: service}
}

// CalculateLoan returns the repayment plan for a loan.
func (h *LoanHandler) CalculateLoan(w http.ResponseWriter, r *http.Request) {
	var input domain.LoanInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if err := checkLoanLimits(input.Amount, input.InterestRate, input.TermMonths); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.CalculateLoan(input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
