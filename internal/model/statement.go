package model

import "time"

// Statement represents one classified, attributable sentence extracted from evidence
type Statement struct {
	ID             string         `json:"id"`                     // Stable statement id
	EntityID       string         `json:"entity_id,omitempty"`    // Owning canonical entity (set by resolver)
	Actor          string         `json:"actor"`                  // Speaker name as attributed in the source
	Text           string         `json:"text"`                   // The sentence itself
	Classification Classification `json:"classification"`         // denial, promise, admission, ...
	OccurredAt     *time.Time     `json:"occurred_at,omitempty"`  // Normalized embedded date, if any
	DateKey        string         `json:"date_key,omitempty"`     // Sortable YYYY-MM-DD key derived from OccurredAt
	SourceID       string         `json:"source_id,omitempty"`    // Source document id
	SourceType     SourceType     `json:"source_type,omitempty"`  // document, email, message, transcript
	Keywords       []string       `json:"keywords,omitempty"`     // Content words used for fact matching
}

// Classification categorizes the nature of a statement
type Classification string

const (
	ClassDenial      Classification = "denial"       // "never", "did not", "wasn't"
	ClassAdmission   Classification = "admission"    // "I admit", "it was me"
	ClassPromise     Classification = "promise"      // "will", "going to", "shall"
	ClassActionClaim Classification = "action_claim" // "I sent", "I paid", "I received"
	ClassOpinion     Classification = "opinion"      // "I think", "maybe"
	ClassAssertion   Classification = "assertion"    // Default for plain factual statements
)

// SourceType classifies where an evidence text came from
type SourceType string

const (
	SourceDocument   SourceType = "document"
	SourceEmail      SourceType = "email"
	SourceMessage    SourceType = "message"
	SourceTranscript SourceType = "transcript"
)
