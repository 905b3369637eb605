package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-risk/domain"
	"loan-risk/notify"
	"loan-risk/repository"
	"loan-risk/service"
)

type stubMailer struct {
	mu   sync.Mutex
	sent []notify.Message
	err  error
}

func (m *stubMailer) Send(_ context.Context, msg notify.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type testServer struct {
	handler http.Handler
	mailer  *stubMailer
	limiter *RateLimiter
}

type serverOptions struct {
	modelErr          error
	requestsPerMinute int
	burst             int
}

func newTestServer(t *testing.T, opts serverOptions) *testServer {
	t.Helper()

	reg := prometheus.NewRegistry()
	metrics := service.NewMetrics(reg)

	encoder, err := service.NewFeatureEncoder(domain.SchemaV1)
	require.NoError(t, err)

	classifier := service.NewUnavailableClassifier(opts.modelErr)
	if opts.modelErr == nil {
		model, err := repository.NewFileModelRepository(filepath.Join("..", "models", "loan_default_v1.json")).Load()
		require.NoError(t, err)
		classifier = service.NewRiskClassifier(model)
	}

	loans := service.NewLoanService()
	assessments := service.NewAssessmentService(encoder, classifier, loans,
		service.NewReportComposer("€", domain.SchemaV1.Version), metrics)
	mailer := &stubMailer{}

	limiter := NewRateLimiter(opts.requestsPerMinute, opts.burst)
	t.Cleanup(limiter.Stop)

	handler := NewRouter(Handlers{
		Assessment:   NewAssessmentHandler(assessments),
		Loan:         NewLoanHandler(loans),
		Alternatives: NewAlternativesHandler(service.NewAlternativesService(loans)),
		Report:       NewReportHandler(assessments, service.NewAdvisorService(service.AdvisorConfig{}), mailer, metrics),
		Metrics:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}, limiter)

	return &testServer{handler: handler, mailer: mailer, limiter: limiter}
}

func (s *testServer) do(method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestAssess_OK(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	rec := srv.do(http.MethodPost, "/loan/assess", domain.DefaultProfile())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var report domain.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, "Loan Default Prediction Report", report.Title)
	assert.Equal(t, domain.LabelNoDefault, report.Prediction.Label)
	assert.True(t, strings.HasPrefix(report.PredictionText, "Safe: Not Likely to Default (Confidence: "))
	assert.Equal(t, "Monthly Repayment: EUR 322.67\nTotal Repayment: EUR 11616.12 over 36 months", report.RepaymentText)
	assert.Equal(t, 36, report.Plan.TermMonths)
}

func TestAssess_BadBody(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	for _, body := range []string{"{", `{"age": "thirty"}`, `{"salary": 1}`} {
		rec := srv.do(http.MethodPost, "/loan/assess", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Contains(t, decodeError(t, rec).Error, "invalid request body")
	}
}

func TestAssess_UnknownCategory(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	p := domain.DefaultProfile()
	p.LoanPurpose = "Vacation"
	rec := srv.do(http.MethodPost, "/loan/assess", p)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "schema_mismatch", resp.Kind)
	assert.Equal(t, "loan_purpose", resp.Field)
}

func TestAssess_InvalidLoanTerms(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	p := domain.DefaultProfile()
	p.LoanAmount = 0
	rec := srv.do(http.MethodPost, "/loan/assess", p)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "invalid_loan_terms", resp.Kind)
	assert.Equal(t, "loan_amount", resp.Field)
}

func TestAssess_ModelUnavailable(t *testing.T) {
	srv := newTestServer(t, serverOptions{modelErr: errors.New("artifact missing")})

	rec := srv.do(http.MethodPost, "/loan/assess", domain.DefaultProfile())
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "model_unavailable", decodeError(t, rec).Kind)

	rec = srv.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"unavailable"`)
}

func TestHealth_OK(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	rec := srv.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	srv.do(http.MethodPost, "/loan/assess", domain.DefaultProfile())

	rec := srv.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `loanrisk_assessments_total{outcome="no-default"} 1`)
}

func TestCalculateLoan(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	rec := srv.do(http.MethodPost, "/loan/calculate", domain.LoanInput{Amount: 12000, InterestRate: 0, TermMonths: 12})
	require.Equal(t, http.StatusOK, rec.Code)
	var plan domain.RepaymentPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Equal(t, 1000.0, plan.MonthlyPayment)
	assert.Equal(t, 12000.0, plan.TotalPayment)

	rec = srv.do(http.MethodPost, "/loan/calculate", domain.LoanInput{Amount: 1000, InterestRate: 5})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "loan_term", decodeError(t, rec).Field)
}

func TestAlternatives(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	rec := srv.do(http.MethodPost, "/loan/alternatives", domain.AlternativesInput{Amount: 10000, InterestRate: 10})
	require.Equal(t, http.StatusOK, rec.Code)
	var result domain.AlternativesResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Len(t, result.Alternatives, 10)
	assert.Equal(t, 120, result.LowestPaymentTerm)
	assert.Equal(t, 12, result.LowestInterestTerm)
}

func TestReportDownload(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	rec := srv.do(http.MethodPost, "/loan/report?format=text", domain.DefaultProfile())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/plain; charset=us-ascii", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment; filename=loan_report_")
	assert.Contains(t, rec.Body.String(), "Monthly Repayment: EUR 322.67")
	assert.NotContains(t, rec.Body.String(), "€")

	rec = srv.do(http.MethodPost, "/loan/report?format=xlsx", domain.DefaultProfile())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

func TestReportDownload_BadFormat(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	rec := srv.do(http.MethodPost, "/loan/report?format=pdf", domain.DefaultProfile())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportEmail(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	rec := srv.do(http.MethodPost, "/loan/report/email", map[string]any{
		"email":   "Applicant <applicant@example.com>",
		"profile": domain.DefaultProfile(),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp emailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "sent", resp.Status)
	assert.Equal(t, "applicant@example.com", resp.To)

	require.Len(t, srv.mailer.sent, 1)
	msg := srv.mailer.sent[0]
	assert.Equal(t, "applicant@example.com", msg.To)
	assert.Equal(t, "Loan Default Prediction Report", msg.Subject)
	assert.True(t, strings.HasPrefix(msg.Body, "Attached is your loan prediction report.\n\n"))
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "loan_report_"+resp.ReportID[:8]+".txt", msg.Attachments[0].FileName)
}

func TestReportEmail_InvalidAddress(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	rec := srv.do(http.MethodPost, "/loan/report/email", map[string]any{
		"email":   "not-an-address",
		"profile": domain.DefaultProfile(),
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "please enter a valid email address", resp.Error)
	assert.Equal(t, "email", resp.Field)
	assert.Empty(t, srv.mailer.sent)
}

func TestReportEmail_TransportFailure(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	srv.mailer.err = errors.New("dial tcp: connection refused")

	rec := srv.do(http.MethodPost, "/loan/report/email", map[string]any{
		"email":   "applicant@example.com",
		"format":  "xlsx",
		"profile": domain.DefaultProfile(),
	})
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, decodeError(t, rec).Error, "failed to send email: dial tcp: connection refused")
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, serverOptions{requestsPerMinute: 1, burst: 2})

	for i := 0; i < 2; i++ {
		rec := srv.do(http.MethodPost, "/loan/calculate", domain.LoanInput{Amount: 1000, InterestRate: 5, TermMonths: 12})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := srv.do(http.MethodPost, "/loan/calculate", domain.LoanInput{Amount: 1000, InterestRate: 5, TermMonths: 12})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate limit exceeded", decodeError(t, rec).Error)

	// Health checks are not limited.
	rec = srv.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	rec := srv.do(http.MethodGet, "/loan/assess", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestLimits(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	p := domain.DefaultProfile()
	p.LoanAmount = 2e9
	rec := srv.do(http.MethodPost, "/loan/assess", p)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "loan_amount", decodeError(t, rec).Field)

	rec = srv.do(http.MethodPost, "/loan/calculate", domain.LoanInput{Amount: 1000, InterestRate: 5000, TermMonths: 12})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "interest_rate", decodeError(t, rec).Field)

	rec = srv.do(http.MethodPost, "/loan/alternatives", domain.AlternativesInput{Amount: 1000, InterestRate: 5, Terms: []int{12, 720}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "loan_term", decodeError(t, rec).Field)

	rec = srv.do(http.MethodPost, "/loan/report?format=text", p)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
