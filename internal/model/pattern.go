package model

import "time"

// PatternType classifies a recurring manipulation pattern
type PatternType string

const (
	PatternGaslighting         PatternType = "gaslighting"          // "you're imagining", "that never happened"
	PatternBlameShifting       PatternType = "blame_shifting"       // "your fault", "if you hadn't"
	PatternEvasion             PatternType = "evasion"              // refusal-to-answer cues
	PatternSelectiveDisclosure PatternType = "selective_disclosure" // withholding framed as completeness
	PatternMinimization        PatternType = "minimization"         // "not a big deal"
	PatternIntimidation        PatternType = "intimidation"         // threats, "you'll regret"
)

// BehavioralPattern records one pattern type detected for one entity, with
// every matching excerpt collected as an instance. Immutable once computed;
// recomputed wholesale on each analysis pass.
type BehavioralPattern struct {
	ID            string      `json:"id"`
	EntityID      string      `json:"entity_id"`
	Type          PatternType `json:"type"`
	Instances     []string    `json:"instances"`      // Matching statement excerpts
	FirstDetected time.Time   `json:"first_detected"` // Earliest dated instance, else detection time
	Severity      Severity    `json:"severity"`       // MEDIUM, HIGH when ≥2 instances
}
