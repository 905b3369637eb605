package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Handlers groups the endpoint handlers mounted by NewRouter.
type Handlers struct {
	Assessment   *AssessmentHandler
	Loan         *LoanHandler
	Alternatives *AlternativesHandler
	Report       *ReportHandler
	Metrics      http.Handler
}

// NewRouter mounts the API. Every /loan route is rate limited per client.
func NewRouter(h Handlers, limiter *RateLimiter) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.Assessment.Health)
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}

	r.Route("/loan", func(r chi.Router) {
		r.Use(RateLimitMiddleware(limiter))
		r.Post("/assess", h.Assessment.Assess)
		r.Post("/calculate", h.Loan.CalculateLoan)
		r.Post("/alternatives", h.Alternatives.Compare)
		r.Post("/report", h.Report.Download)
		r.Post("/report/email", h.Report.Email)
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
