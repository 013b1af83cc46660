package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/karvelis/attestor/internal/model"
)

// Provider generates a narrative over a finished forensic report. The
// narrative is an annex: it never feeds back into any score.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Narrate generates a narrative with strict statement-citation mode
	Narrate(ctx context.Context, req NarrateRequest) (*NarrateResponse, error)

	// IsAvailable checks if the provider is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// NarrateRequest is the input for narrative generation.
type NarrateRequest struct {
	// Report is the completed analysis to narrate
	Report model.Report

	// StatementIDs is the STRICT allowlist of statement ids the narrative
	// may cite. The model cannot reference any statement outside this list.
	StatementIDs []string

	// Prompt overrides the default prompt when non-empty
	Prompt string

	// Model is the provider-specific model name
	Model string

	// MaxTokens bounds the response length
	MaxTokens int
}

// NarrateResponse is the generated narrative plus citation accounting.
type NarrateResponse struct {
	Narrative  string
	CitedIDs   []string // Statement ids the model actually cited
	Model      string
	TokensUsed int
}

// Config holds narrative provider configuration.
type Config struct {
	Provider       string // "openai", "ollama", "" = disabled
	Model          string
	APIKey         string
	BaseURL        string
	Timeout        int // seconds
	StrictCitation bool
	MaxTokens      int
	RatePerSec     float64
}

// ConfigFromModel maps the application config onto the provider config.
func ConfigFromModel(cfg model.LLMConfig) Config {
	return Config{
		Provider:       cfg.Provider,
		Model:          cfg.Model,
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		Timeout:        cfg.TimeoutSec,
		StrictCitation: cfg.StrictCitation,
		MaxTokens:      cfg.MaxTokens,
		RatePerSec:     cfg.RatePerSec,
	}
}

// BuildPrompt constructs the default narrative prompt with strict citation
// mode.
func BuildPrompt(report model.Report, statementIDs []string) string {
	prompt := fmt.Sprintf(`You are narrating an Attestor forensic analysis. Attestor measures how statements contradict each other and how liability apportions - it NEVER asserts guilt or truth.

CRITICAL RULES:
1. You MUST ONLY cite statement ids from this allowed list:
%s

2. DO NOT infer, speculate, or reference statements outside this list.
3. If the findings are thin, say so explicitly.
4. Describe findings, not verdicts. Use phrases like:
   - "Statement X contradicts statement Y because..."
   - "The liability score reflects N contradictions..."
5. Never say "guilty", "innocent", "lying" - only describe the findings.

Analysis Summary:
- Case: %s
- Entities: %d
- Statements: %d
- Contradictions: %d
- Behavioral patterns: %d

Top findings:
`, joinIDs(statementIDs), report.CaseID, len(report.Entities), len(report.Statements), len(report.Contradictions), len(report.Patterns))

	for i, c := range report.Contradictions {
		if i >= 3 {
			break
		}
		prompt += fmt.Sprintf("- [%s/%s] %s\n", c.Type, c.Severity, c.Description)
	}

	prompt += "\nProvide a 3-5 sentence narrative of the findings, citing statement ids in [brackets]."
	return prompt
}

func joinIDs(ids []string) string {
	if len(ids) == 0 {
		return "(no statements available)"
	}
	return strings.Join(ids, "\n")
}
