package model

// LiabilityScore is a 0-100 deterministic measure of an entity's apportioned
// responsibility. The overall score is the weighted sum of the five
// sub-scores, clamped to [0,100]. It is a pure function of the current
// contradiction/behavioral/timeline state: same state in, same score out.
type LiabilityScore struct {
	EntityID string  `json:"entity_id"`
	Overall  float64 `json:"overall"` // Weighted sum, clamped to [0,100]

	Contradiction            float64 `json:"contradiction"`             // From severity-weighted contradiction counts
	Behavioral               float64 `json:"behavioral"`                // From distinct flagged pattern count
	EvidenceContribution     float64 `json:"evidence_contribution"`     // Penalizes withheld, rewards provided evidence
	ChronologicalConsistency float64 `json:"chronological_consistency"` // Penalizes TEMPORAL contradictions
	CausalResponsibility     float64 `json:"causal_responsibility"`     // Rewards initiators and financial beneficiaries

	Breakdown ScoreBreakdown `json:"breakdown"` // Raw counts justifying the sub-scores
}

// ScoreBreakdown exposes the raw counts behind each sub-score so that every
// number in the report is explainable from the inputs.
type ScoreBreakdown struct {
	CriticalContradictions int `json:"critical_contradictions"`
	HighContradictions     int `json:"high_contradictions"`
	MediumContradictions   int `json:"medium_contradictions"`
	LowContradictions      int `json:"low_contradictions"`
	DistinctPatterns       int `json:"distinct_patterns"`
	PatternInstances       int `json:"pattern_instances"`
	MissingEvidence        int `json:"missing_evidence"`
	ProvidedEvidence       int `json:"provided_evidence"`
	TemporalContradictions int `json:"temporal_contradictions"`
	InitiatedEvents        int `json:"initiated_events"`
	FinancialBenefits      int `json:"financial_benefits"`
	StatementCount         int `json:"statement_count"`
}
