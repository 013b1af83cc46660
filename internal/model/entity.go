package model

// EntityType classifies a canonical actor
type EntityType string

const (
	EntityPerson       EntityType = "person"
	EntityOrganization EntityType = "organization"
)

// Entity represents a canonical person, organization, or legal structure
// referenced in evidence. Entities are created on first discovery and only
// ever merged, never deleted.
type Entity struct {
	ID           string      `json:"id"`                      // Canonical entity id
	Name         string      `json:"name"`                    // Primary display name
	Type         EntityType  `json:"type"`                    // person or organization
	Aliases      []string    `json:"aliases,omitempty"`       // Alternate names seen in evidence
	Identifiers  []string    `json:"identifiers,omitempty"`   // Emails, phones, account numbers
	Confidence   float64     `json:"confidence"`              // Discovery confidence (heuristic)
	Mentions     int         `json:"mentions"`                // How often the entity was mentioned
	StatementIDs []string    `json:"statement_ids,omitempty"` // Ordered owned statement ids
	Statements   []Statement `json:"-"`                       // Owned statements, extraction order
}

// HasIdentifier reports whether the entity carries the given identifier
// (case-insensitive handled by the resolver; this is an exact check).
func (e *Entity) HasIdentifier(id string) bool {
	for _, existing := range e.Identifiers {
		if existing == id {
			return true
		}
	}
	return false
}

// UnresolvedMention reports a pronoun or relational phrase that could not be
// resolved to a known entity. These are surfaced, never guessed.
type UnresolvedMention struct {
	Text     string `json:"text"`     // The pronoun or phrase
	Sentence int    `json:"sentence"` // Sentence index in the source text
	Reason   string `json:"reason"`   // Why resolution failed
}

// ResolvedAlias records a pronoun or relational phrase mapped to an entity.
type ResolvedAlias struct {
	Text       string  `json:"text"`       // The pronoun or phrase
	EntityID   string  `json:"entity_id"`  // Canonical entity it resolved to
	Sentence   int     `json:"sentence"`   // Sentence index in the source text
	Confidence float64 `json:"confidence"` // Resolution confidence
}

// ResolveResult is the complete output of one entity resolution pass.
type ResolveResult struct {
	Entities   []Entity            `json:"entities"`
	Aliases    []ResolvedAlias     `json:"aliases,omitempty"`
	Unresolved []UnresolvedMention `json:"unresolved,omitempty"`
}
