package model

import "time"

// ContradictionType classifies how two statements conflict
type ContradictionType string

const (
	ContradictionDirect          ContradictionType = "DIRECT"           // Denial vs assertion/admission of the same fact
	ContradictionCrossDocument   ContradictionType = "CROSS_DOCUMENT"   // Denial vs admission across different sources
	ContradictionBehavioral      ContradictionType = "BEHAVIORAL"       // Sudden stance shift between adjacent statements
	ContradictionMissingEvidence ContradictionType = "MISSING_EVIDENCE" // Referenced evidence never ingested
	ContradictionTemporal        ContradictionType = "TEMPORAL"         // Claimed sequence inconsistent with dates
	ContradictionThirdParty      ContradictionType = "THIRD_PARTY"      // Another entity asserts the contrary fact
)

// Severity ranks how damaging a finding is
type Severity string

const (
	SeverityCritical Severity = "CRITICAL" // Would flip apparent liability
	SeverityHigh     Severity = "HIGH"     // Dishonest intent is the most plausible explanation
	SeverityMedium   Severity = "MEDIUM"   // Ambiguous or error-explainable
	SeverityLow      Severity = "LOW"
)

// Rank returns a numeric rank for ordering, higher is more severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Contradiction represents a detected logical inconsistency between two
// statements. Immutable once created. StatementB belongs to a different
// entity only for THIRD_PARTY contradictions.
type Contradiction struct {
	ID               string            `json:"id"`
	EntityID         string            `json:"entity_id"`          // Subject entity
	StatementA       string            `json:"statement_a"`        // Id of the first conflicting statement
	StatementB       string            `json:"statement_b"`        // Id of the second conflicting statement
	Type             ContradictionType `json:"type"`
	Severity         Severity          `json:"severity"`
	Description      string            `json:"description"`
	LegalImplication string            `json:"legal_implication,omitempty"`
	DetectedAt       time.Time         `json:"detected_at"`
}
