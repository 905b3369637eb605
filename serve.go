package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpLayer "loan-risk/http"
	"loan-risk/notify"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the assessment HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		a, err := newApp(cfg, reg)
		if err != nil {
			return err
		}
		defer a.Close()

		mailer := notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})

		rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
		defer rateLimiter.Stop()

		router := httpLayer.NewRouter(httpLayer.Handlers{
			Assessment:   httpLayer.NewAssessmentHandler(a.assessments),
			Loan:         httpLayer.NewLoanHandler(a.loans),
			Alternatives: httpLayer.NewAlternativesHandler(a.alternatives),
			Report:       httpLayer.NewReportHandler(a.assessments, a.advisor, mailer, a.metrics),
			Metrics:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		}, rateLimiter)

		port := cfg.Server.Port
		if servePort != 0 {
			port = servePort
		}

		server := &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      router,
			ReadTimeout:  secs(cfg.Server.ReadTimeoutSecs),
			WriteTimeout: 2 * secs(cfg.Server.ReadTimeoutSecs),
			IdleTimeout:  secs(cfg.Server.IdleTimeoutSecs),
		}

		serverErr := make(chan error, 1)
		go func() {
			zap.L().Info("server listening", zap.Int("port", port))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
		}()

		select {
		case err := <-serverErr:
			return fmt.Errorf("start server: %w", err)
		case <-ctx.Done():
			zap.L().Info("shutting down server")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}

		zap.L().Info("server exited")
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
}

func secs(n int) time.Duration {
	return time.Duration(n) * time.Second
}
