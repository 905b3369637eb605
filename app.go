package main

import (
	"context"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"loan-risk/config"
	"loan-risk/domain"
	"loan-risk/repository"
	"loan-risk/service"
)

const cachePingTimeout = 2 * time.Second

// app is the wired assessment pipeline shared by the CLI commands.
type app struct {
	loans        *service.LoanService
	alternatives *service.AlternativesService
	assessments  *service.AssessmentService
	advisor      *service.AdvisorService
	metrics      *service.Metrics
	closers      []io.Closer
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			zap.L().Warn("close", zap.Error(err))
		}
	}
}

// newApp wires the pipeline. A scoring artifact that fails to load does not
// stop startup; the service then refuses every assessment until restarted
// with a valid artifact.
func newApp(cfg *config.Config, reg prometheus.Registerer) (*app, error) {
	a := &app{metrics: service.NewMetrics(reg)}

	encoder, err := service.NewFeatureEncoder(domain.SchemaV1)
	if err != nil {
		return nil, err
	}

	var classifier *service.RiskClassifier
	model, err := repository.NewFileModelRepository(cfg.Model.Path).Load()
	if err != nil {
		zap.L().Error("scoring artifact unavailable, assessments disabled",
			zap.String("path", cfg.Model.Path),
			zap.Error(err),
		)
		classifier = service.NewUnavailableClassifier(err)
	} else {
		classifier = service.NewRiskClassifier(a.withCache(cfg.Cache, model))
	}

	a.loans = service.NewLoanService()
	a.alternatives = service.NewAlternativesService(a.loans)
	a.assessments = service.NewAssessmentService(
		encoder,
		classifier,
		a.loans,
		service.NewReportComposer(cfg.Report.CurrencySymbol, encoder.Schema().Version),
		a.metrics,
	)
	a.advisor = service.NewAdvisorService(service.AdvisorConfig{
		Enabled: cfg.Advisor.Enabled,
		APIURL:  cfg.Advisor.APIURL,
		APIKey:  cfg.Advisor.APIKey,
		Model:   cfg.Advisor.Model,
		Timeout: secs(cfg.Advisor.TimeoutSecs),
	})
	return a, nil
}

func (a *app) withCache(cc config.CacheConfig, model *repository.LogisticModel) service.Scorer {
	var cache repository.CacheRepository
	switch cc.Driver {
	case "redis":
		rc := repository.NewRedisCache(cc.RedisAddr, cc.Prefix, cc.TTL())
		a.closers = append(a.closers, rc)
		ctx, cancel := context.WithTimeout(context.Background(), cachePingTimeout)
		if err := rc.Ping(ctx); err != nil {
			zap.L().Warn("redis unreachable, scores will be computed uncached until it recovers",
				zap.String("addr", cc.RedisAddr),
				zap.Error(err),
			)
		}
		cancel()
		cache = rc
	case "memory":
		cache = repository.NewMemoryCache()
	default:
		return model
	}
	zap.L().Info("score cache enabled", zap.String("driver", cc.Driver))
	return repository.NewCachedScorer(model, cache, model.Version, a.metrics.ObserveCache)
}
