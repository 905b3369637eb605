package http

import (
	"net/http"

	"loan-risk/domain"
	"loan-risk/service"
)

type AlternativesHandler struct {
	service *service.AlternativesService
}

func NewAlternativesHandler(service *service.AlternativesService) *AlternativesHandler {
	return &AlternativesHandler{service: service}
}

func (h *AlternativesHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var input domain.AlternativesInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if err := checkAlternativesLimits(input); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.Compare(input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
