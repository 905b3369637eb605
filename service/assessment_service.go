package service

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"loan-risk/domain"
)

// AssessmentService runs the full pipeline for one applicant: encode and
// classify the profile, amortize the requested loan, compose the report.
//
// It holds no mutable state; the scoring artifact behind the classifier is
// read-only, so one service may serve concurrent requests.
type AssessmentService struct {
	encoder     *FeatureEncoder
	classifier  *RiskClassifier
	loanService *LoanService
	composer    *ReportComposer
	metrics     *Metrics
}

func NewAssessmentService(
	encoder *FeatureEncoder,
	classifier *RiskClassifier,
	loanService *LoanService,
	composer *ReportComposer,
	metrics *Metrics,
) *AssessmentService {
	return &AssessmentService{
		encoder:     encoder,
		classifier:  classifier,
		loanService: loanService,
		composer:    composer,
		metrics:     metrics,
	}
}

// Ready reports ErrModelUnavailable while no scoring artifact is loaded.
func (s *AssessmentService) Ready() error {
	return s.classifier.Available()
}

// Assess produces the report for profile. Errors keep their kind
// (domain.ErrSchemaMismatch, domain.ErrModelUnavailable,
// domain.ErrInvalidLoanTerms) and are wrapped with the failing stage.
func (s *AssessmentService) Assess(profile domain.ApplicantProfile) (domain.Report, error) {
	start := time.Now()

	report, stage, err := s.assess(profile)
	if err != nil {
		kind := domain.KindOf(err)
		s.metrics.observeAssessment("error", time.Since(start))
		s.metrics.observeError(stage, kind)
		zap.L().Warn("assessment failed",
			zap.String("stage", stage),
			zap.String("kind", kind),
			zap.String("field", domain.FieldOf(err)),
			zap.Error(err),
		)
		return domain.Report{}, err
	}

	s.metrics.observeAssessment(string(report.Prediction.Label), time.Since(start))
	zap.L().Info("assessment complete",
		zap.String("report_id", report.ID),
		zap.String("label", string(report.Prediction.Label)),
		zap.Float64("confidence", report.Confidence),
		zap.Int("term_months", report.Plan.TermMonths),
		zap.Duration("elapsed", time.Since(start)),
	)
	return report, nil
}

func (s *AssessmentService) assess(profile domain.ApplicantProfile) (domain.Report, string, error) {
	// Refuse before doing any work when the artifact is missing.
	if err := s.classifier.Available(); err != nil {
		return domain.Report{}, StageClassify, err
	}

	vector, err := s.encoder.Encode(profile)
	if err != nil {
		return domain.Report{}, StageEncode, eris.Wrap(err, "assess: encode")
	}
	prediction, err := s.classifier.Classify(vector)
	if err != nil {
		return domain.Report{}, StageClassify, eris.Wrap(err, "assess: classify")
	}

	// Amortization only needs the loan terms; it does not depend on the
	// prediction.
	loan := profile.LoanInput()
	plan, err := s.loanService.ComputeSchedule(loan.Amount, loan.InterestRate, loan.TermMonths)
	if err != nil {
		return domain.Report{}, StageAmortize, eris.Wrap(err, "assess: amortize")
	}

	report, err := s.composer.Compose(profile, prediction, plan)
	if err != nil {
		return domain.Report{}, StageCompose, eris.Wrap(err, "assess: compose")
	}
	return report, StageCompose, nil
}
