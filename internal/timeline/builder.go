package timeline

import (
	"sort"
	"strings"
	"time"

	"github.com/karvelis/attestor/internal/model"
)

// Builder reconstructs a chronology from dated statements.
type Builder struct{}

// NewBuilder creates a timeline builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build assembles the global chronological sequence. Events with parseable
// dates sort first, ascending; undatable events follow in original encounter
// order. Produced once per analysis pass.
func (b *Builder) Build(statements []model.Statement) model.TimelineSummary {
	var dated, undated []model.TimelineEvent

	actorSet := make(map[string]bool)
	for _, stmt := range statements {
		event := model.TimelineEvent{
			ID:           model.DeterministicID("evt", stmt.ID),
			Timestamp:    stmt.OccurredAt,
			Description:  stmt.Text,
			EventType:    stmt.Classification,
			Significance: significance(stmt.Classification),
			StatementID:  stmt.ID,
		}
		if stmt.EntityID != "" {
			event.EntityIDs = []string{stmt.EntityID}
		}
		if stmt.Actor != "" {
			actorSet[stmt.Actor] = true
		}

		if stmt.OccurredAt != nil {
			dated = append(dated, event)
		} else {
			undated = append(undated, event)
		}
	}

	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].Timestamp.Before(*dated[j].Timestamp)
	})

	summary := model.TimelineSummary{
		Events: append(dated, undated...),
		Actors: sortedActors(actorSet),
	}
	if len(dated) > 0 {
		first := *dated[0].Timestamp
		last := *dated[len(dated)-1].Timestamp
		summary.FirstDate = &first
		summary.LastDate = &last
	}
	return summary
}

// PerEntity returns the chronological event sequence for one entity.
func PerEntity(summary model.TimelineSummary, entityID string) []model.TimelineEvent {
	var events []model.TimelineEvent
	for _, e := range summary.Events {
		for _, id := range e.EntityIDs {
			if id == entityID {
				events = append(events, e)
				break
			}
		}
	}
	return events
}

// SortChrono orders statements the way Build orders events: dated
// statements first, ascending (extraction order for ties), then undated
// statements in extraction order. Shared by the behavioral detector and the
// contradiction engine.
func SortChrono(statements []model.Statement) []model.Statement {
	dated := make([]model.Statement, 0, len(statements))
	var undated []model.Statement
	for _, s := range statements {
		if s.OccurredAt != nil {
			dated = append(dated, s)
		} else {
			undated = append(undated, s)
		}
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].OccurredAt.Before(*dated[j].OccurredAt)
	})
	return append(dated, undated...)
}

func significance(c model.Classification) model.SignificanceTier {
	switch c {
	case model.ClassAdmission, model.ClassDenial:
		return model.TierKey
	case model.ClassActionClaim, model.ClassPromise:
		return model.TierSupporting
	default:
		return model.TierContext
	}
}

func sortedActors(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	actors := make([]string, 0, len(set))
	for a := range set {
		actors = append(actors, a)
	}
	sort.Slice(actors, func(i, j int) bool {
		return strings.ToLower(actors[i]) < strings.ToLower(actors[j])
	})
	return actors
}

// Span returns the covered duration, zero when fewer than two dated events.
func Span(summary model.TimelineSummary) time.Duration {
	if summary.FirstDate == nil || summary.LastDate == nil {
		return 0
	}
	return summary.LastDate.Sub(*summary.FirstDate)
}
