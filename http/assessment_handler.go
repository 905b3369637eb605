package http

import (
	"net/http"

	"loan-risk/domain"
	"loan-risk/service"
)

type AssessmentHandler struct {
	service *service.AssessmentService
}

func NewAssessmentHandler(service *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{service: service}
}

// Assess scores one applicant profile and returns the composed report.
func (h *AssessmentHandler) Assess(w http.ResponseWriter, r *http.Request) {
	var profile domain.ApplicantProfile
	if !decodeJSON(w, r, &profile) {
		return
	}
	if err := checkProfileLimits(profile); err != nil {
		writeError(w, err)
		return
	}

	report, err := h.service.Assess(profile)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// Health reports 503 while the scoring artifact is unavailable.
func (h *AssessmentHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ready(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
