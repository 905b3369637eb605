package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"loan-risk/domain"
)

// AdvisorConfig configures the optional LLM explanation of a report.
type AdvisorConfig struct {
	Enabled bool
	APIURL  string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// AdvisorService writes a short plain-language explanation of a report for
// the applicant. Without an API key it falls back to a fixed template.
type AdvisorService struct {
	cfg        AdvisorConfig
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

const advisorSystemPrompt = "You are a loan officer explaining an automated default-risk assessment to an applicant. " +
	"Be factual and neutral, quote the numbers you are given, do not invent new figures, and do not use emoji."

func NewAdvisorService(cfg AdvisorConfig) *AdvisorService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	cfg.Enabled = cfg.Enabled && cfg.APIKey != "" && cfg.APIURL != ""

	return &AdvisorService{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:     "advisor",
			Interval: 60 * time.Second,
			Timeout:  60 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
	}
}

func (s *AdvisorService) Enabled() bool { return s.cfg.Enabled }

// Explain returns the explanation for report. It never fails: errors from
// the LLM are logged and the fallback text is used instead.
func (s *AdvisorService) Explain(ctx context.Context, report domain.Report) string {
	if !s.cfg.Enabled {
		return s.fallbackExplanation(report)
	}

	prompt := fmt.Sprintf(`Explain this loan default-risk assessment in 3-4 sentences.

Assessment: %s
Confidence: %.2f
%s

Mention what the confidence means, restate the monthly and total repayment, and suggest that a longer term lowers the monthly payment but raises total interest.`,
		report.Verdict, report.Confidence, report.RepaymentText)

	out, err := s.breaker.Execute(func() (interface{}, error) {
		return s.callLLM(ctx, prompt)
	})
	if err != nil {
		zap.L().Warn("advisor: falling back to template", zap.String("report_id", report.ID), zap.Error(err))
		return s.fallbackExplanation(report)
	}
	return out.(string)
}

func (s *AdvisorService) callLLM(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: s.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: advisorSystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens: 300,
	})
	if err != nil {
		return "", eris.Wrap(err, "advisor: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return "", eris.Wrap(err, "advisor: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "advisor: call api")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", eris.Errorf("advisor: api status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", eris.Wrap(err, "advisor: decode response")
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", eris.New("advisor: empty response")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func (s *AdvisorService) fallbackExplanation(report domain.Report) string {
	var outlook string
	if report.Prediction.IsDefault() {
		outlook = fmt.Sprintf("The model considers this application likely to default, with a confidence of %.2f. "+
			"A co-signer, a smaller amount or a lower debt-to-income ratio would usually improve the outcome.",
			report.Confidence)
	} else {
		outlook = fmt.Sprintf("The model considers this application not likely to default, with a confidence of %.2f.",
			report.Confidence)
	}

	return fmt.Sprintf("%s\n\n%s\n\nA longer term lowers the monthly payment but increases the total interest paid.",
		outlook, report.RepaymentText)
}
