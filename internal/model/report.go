package model

import "time"

// Report represents the complete Attestor forensic analysis for one case
type Report struct {
	CaseID     string    `json:"case_id"`
	SourceIDs  []string  `json:"source_ids"` // Evidence files that were ingested
	AnalyzedAt time.Time `json:"analyzed_at"`

	Statements     []Statement               `json:"statements"`
	Entities       []Entity                  `json:"entities"`
	Aliases        []ResolvedAlias           `json:"aliases,omitempty"`
	Unresolved     []UnresolvedMention       `json:"unresolved,omitempty"`
	Contradictions []Contradiction           `json:"contradictions"`
	Patterns       []BehavioralPattern       `json:"patterns"`
	Timeline       TimelineSummary           `json:"timeline"`
	Scores         map[string]LiabilityScore `json:"scores"` // Keyed by entity id

	Custody []CustodyLogEntry `json:"custody,omitempty"` // Ledger snapshot at report time

	Principles Principles `json:"principles"` // Core principles applied

	LLM *NarrativeSummary `json:"llm,omitempty"` // Optional LLM narrative (never affects scores)
}

// Principles documents the guarantees this report was produced under
type Principles struct {
	Deterministic bool `json:"deterministic"`  // Same inputs always produce the same findings
	Transparent   bool `json:"transparent"`    // Every score traceable to raw counts
	TamperEvident bool `json:"tamper_evident"` // Every action recorded in the custody chain
}

// DefaultPrinciples returns the standard Attestor principles
func DefaultPrinciples() Principles {
	return Principles{
		Deterministic: true,
		Transparent:   true,
		TamperEvident: true,
	}
}

// NarrativeSummary contains an optional LLM-generated narrative.
// CRITICAL: it never affects scoring and is clearly separated.
type NarrativeSummary struct {
	Enabled        bool     `json:"enabled"`
	Provider       string   `json:"provider,omitempty"` // openai, ollama
	Model          string   `json:"model,omitempty"`
	StrictCitation bool     `json:"strict_citation"`        // Statement-id allowlist enforced
	NarrativeMD    string   `json:"narrative_md,omitempty"` // Markdown narrative
	Warnings       []string `json:"warnings,omitempty"`     // E.g. citation leaks detected
}
