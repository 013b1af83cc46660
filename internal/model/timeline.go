package model

import "time"

// SignificanceTier ranks how important a timeline event is
type SignificanceTier string

const (
	TierKey        SignificanceTier = "key"        // Admissions, denials of admitted facts
	TierSupporting SignificanceTier = "supporting" // Action claims, promises
	TierContext    SignificanceTier = "context"    // Everything else
)

// TimelineEvent is one dated (or undatable) event reconstructed from a
// statement. Produced once per analysis pass.
type TimelineEvent struct {
	ID           string           `json:"id"`
	Timestamp    *time.Time       `json:"timestamp,omitempty"` // Nil when the date could not be parsed
	Description  string           `json:"description"`
	EntityIDs    []string         `json:"entity_ids,omitempty"`
	EventType    Classification   `json:"event_type"` // Classification of the originating statement
	Significance SignificanceTier `json:"significance"`
	StatementID  string           `json:"statement_id,omitempty"`
}

// TimelineSummary is the complete chronological reconstruction: events sorted
// ascending by date, undatable events after all dated ones in encounter order.
type TimelineSummary struct {
	Events    []TimelineEvent `json:"events"`
	FirstDate *time.Time      `json:"first_date,omitempty"`
	LastDate  *time.Time      `json:"last_date,omitempty"`
	Actors    []string        `json:"actors,omitempty"` // Distinct actor names, sorted
}
