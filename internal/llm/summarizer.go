package llm

import (
	"context"
	"fmt"

	"github.com/karvelis/attestor/internal/model"
	"github.com/karvelis/attestor/internal/worker"
)

// Summarizer wraps a provider with strict citation enforcement and per-
// endpoint rate limiting. Its output is attached to the report as an annex
// and never influences any score.
type Summarizer struct {
	provider Provider
	config   Config
	limiter  *worker.Limiter
}

// NewSummarizer creates a summarizer from the configured provider.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	rps := config.RatePerSec
	if rps <= 0 {
		rps = 1
	}
	return &Summarizer{
		provider: provider,
		config:   config,
		limiter:  worker.NewLimiter(rps, 1),
	}, nil
}

// IsEnabled reports whether a provider is configured.
func (s *Summarizer) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// GenerateNarrative produces the narrative annex for a finished report.
// Citation leaks (statement ids outside the allowlist) are recorded as
// warnings, never silently dropped.
func (s *Summarizer) GenerateNarrative(ctx context.Context, report model.Report) (*model.NarrativeSummary, error) {
	if !s.IsEnabled() {
		return nil, nil
	}

	if err := s.limiter.Wait(ctx, s.provider.Name()); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	allowlist := make([]string, 0, len(report.Statements))
	allowed := make(map[string]bool, len(report.Statements))
	for _, stmt := range report.Statements {
		allowlist = append(allowlist, stmt.ID)
		allowed[stmt.ID] = true
	}

	resp, err := s.provider.Narrate(ctx, NarrateRequest{
		Report:       report,
		StatementIDs: allowlist,
		Model:        s.config.Model,
		MaxTokens:    s.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("narrate: %w", err)
	}

	summary := &model.NarrativeSummary{
		Enabled:        true,
		Provider:       s.provider.Name(),
		Model:          resp.Model,
		StrictCitation: s.config.StrictCitation,
		NarrativeMD:    resp.Narrative,
	}

	if s.config.StrictCitation {
		for _, id := range resp.CitedIDs {
			if !allowed[id] {
				summary.Warnings = append(summary.Warnings,
					fmt.Sprintf("citation leak: %s is not an ingested statement", id))
			}
		}
	}

	return summary, nil
}
