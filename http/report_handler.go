package http

import (
	"bytes"
	"mime"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"loan-risk/domain"
	"loan-risk/notify"
	"loan-risk/render"
	"loan-risk/service"
)

const emailSubject = "Loan Default Prediction Report"

// ReportHandler hands assessment reports to the renderers and the mail
// transport.
type ReportHandler struct {
	assessments *service.AssessmentService
	advisor     *service.AdvisorService
	mailer      notify.Mailer
	metrics     *service.Metrics
}

func NewReportHandler(
	assessments *service.AssessmentService,
	advisor *service.AdvisorService,
	mailer notify.Mailer,
	metrics *service.Metrics,
) *ReportHandler {
	return &ReportHandler{
		assessments: assessments,
		advisor:     advisor,
		mailer:      mailer,
		metrics:     metrics,
	}
}

type emailRequest struct {
	Email   string                  `json:"email"`
	Format  string                  `json:"format,omitempty"`
	Profile domain.ApplicantProfile `json:"profile"`
}

type emailResponse struct {
	Status   string `json:"status"`
	ReportID string `json:"report_id"`
	To       string `json:"to"`
}

// Download assesses the posted profile and returns the rendered report as
// an attachment. The format comes from the "format" query parameter.
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	renderer, err := render.ForFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var profile domain.ApplicantProfile
	if !decodeJSON(w, r, &profile) {
		return
	}
	if err := checkProfileLimits(profile); err != nil {
		writeError(w, err)
		return
	}

	report, err := h.assessments.Assess(profile)
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, report); err != nil {
		zap.L().Error("render report", zap.String("report_id", report.ID), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": render.FileName(renderer, report),
	}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		zap.L().Warn("write report", zap.String("report_id", report.ID), zap.Error(err))
	}
}

// Email assesses the profile, renders the report and mails it once. Delivery
// failures are returned to the caller as 502 without retrying.
func (h *ReportHandler) Email(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	to, err := notify.ValidateAddress(req.Email)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "please enter a valid email address", Field: "email"})
		return
	}
	renderer, err := render.ForFormat(req.Format)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: "format"})
		return
	}
	if err := checkProfileLimits(req.Profile); err != nil {
		writeError(w, err)
		return
	}

	report, err := h.assessments.Assess(req.Profile)
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, report); err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	err = h.mailer.Send(r.Context(), notify.Message{
		To:      to,
		Subject: emailSubject,
		Body:    "Attached is your loan prediction report.\n\n" + h.advisor.Explain(r.Context(), report),
		Attachments: []notify.Attachment{{
			FileName:    render.FileName(renderer, report),
			ContentType: renderer.ContentType(),
			Data:        buf.Bytes(),
		}},
	})
	h.metrics.ObserveNotification(err)
	if err != nil {
		zap.L().Warn("email report", zap.String("report_id", report.ID), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to send email: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, emailResponse{Status: "sent", ReportID: report.ID, To: to})
}
