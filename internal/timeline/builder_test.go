package timeline

import (
	"testing"
	"time"

	"github.com/karvelis/attestor/internal/model"
)

func datePtr(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestBuilder_DatedSortedFirst(t *testing.T) {
	b := NewBuilder()

	statements := []model.Statement{
		{ID: "s1", Actor: "Alice", Text: "Later event", OccurredAt: datePtr("2023-06-01")},
		{ID: "s2", Actor: "Bob", Text: "Undated remark one"},
		{ID: "s3", Actor: "Alice", Text: "Earlier event", OccurredAt: datePtr("2023-04-15")},
		{ID: "s4", Actor: "Bob", Text: "Undated remark two"},
	}

	summary := b.Build(statements)

	if len(summary.Events) != 4 {
		t.Fatalf("Expected 4 events, got %d", len(summary.Events))
	}

	if summary.Events[0].Description != "Earlier event" {
		t.Errorf("Expected earliest dated event first, got %q", summary.Events[0].Description)
	}
	if summary.Events[1].Description != "Later event" {
		t.Errorf("Expected later dated event second, got %q", summary.Events[1].Description)
	}
	// Undated events keep encounter order after the dated block.
	if summary.Events[2].Description != "Undated remark one" || summary.Events[3].Description != "Undated remark two" {
		t.Errorf("Expected undated events in encounter order, got %q then %q",
			summary.Events[2].Description, summary.Events[3].Description)
	}
}

func TestBuilder_FirstLastDates(t *testing.T) {
	b := NewBuilder()

	summary := b.Build([]model.Statement{
		{ID: "s1", Text: "a", OccurredAt: datePtr("2023-06-01")},
		{ID: "s2", Text: "b", OccurredAt: datePtr("2023-04-15")},
	})

	if summary.FirstDate == nil || summary.LastDate == nil {
		t.Fatal("Expected first and last dates set")
	}
	if summary.FirstDate.Format("2006-01-02") != "2023-04-15" {
		t.Errorf("Expected first date 2023-04-15, got %s", summary.FirstDate.Format("2006-01-02"))
	}
	if summary.LastDate.Format("2006-01-02") != "2023-06-01" {
		t.Errorf("Expected last date 2023-06-01, got %s", summary.LastDate.Format("2006-01-02"))
	}
}

func TestBuilder_NoDates(t *testing.T) {
	b := NewBuilder()

	summary := b.Build([]model.Statement{{ID: "s1", Text: "undated"}})

	if summary.FirstDate != nil || summary.LastDate != nil {
		t.Error("Expected no date bounds without dated events")
	}
	if Span(summary) != 0 {
		t.Errorf("Expected zero span, got %v", Span(summary))
	}
}

func TestBuilder_Significance(t *testing.T) {
	b := NewBuilder()

	summary := b.Build([]model.Statement{
		{ID: "s1", Text: "denied it", Classification: model.ClassDenial},
		{ID: "s2", Text: "sent it", Classification: model.ClassActionClaim},
		{ID: "s3", Text: "thought so", Classification: model.ClassOpinion},
	})

	tiers := map[string]model.SignificanceTier{}
	for _, e := range summary.Events {
		tiers[e.Description] = e.Significance
	}

	if tiers["denied it"] != model.TierKey {
		t.Errorf("Expected denial to be a key event, got %s", tiers["denied it"])
	}
	if tiers["sent it"] != model.TierSupporting {
		t.Errorf("Expected action claim to be supporting, got %s", tiers["sent it"])
	}
	if tiers["thought so"] != model.TierContext {
		t.Errorf("Expected opinion to be context, got %s", tiers["thought so"])
	}
}

func TestBuilder_ActorsSorted(t *testing.T) {
	b := NewBuilder()

	summary := b.Build([]model.Statement{
		{ID: "s1", Actor: "bob", Text: "x"},
		{ID: "s2", Actor: "Alice", Text: "y"},
	})

	if len(summary.Actors) != 2 {
		t.Fatalf("Expected 2 actors, got %v", summary.Actors)
	}
	if summary.Actors[0] != "Alice" || summary.Actors[1] != "bob" {
		t.Errorf("Expected case-insensitive sorted actors, got %v", summary.Actors)
	}
}

func TestPerEntity(t *testing.T) {
	b := NewBuilder()

	summary := b.Build([]model.Statement{
		{ID: "s1", EntityID: "ent-a", Text: "alice one"},
		{ID: "s2", EntityID: "ent-b", Text: "bob one"},
		{ID: "s3", EntityID: "ent-a", Text: "alice two"},
	})

	events := PerEntity(summary, "ent-a")
	if len(events) != 2 {
		t.Fatalf("Expected 2 events for ent-a, got %d", len(events))
	}
}

func TestSortChrono_StableForUndated(t *testing.T) {
	statements := []model.Statement{
		{ID: "s1", Text: "first undated"},
		{ID: "s2", Text: "dated", OccurredAt: datePtr("2023-01-01")},
		{ID: "s3", Text: "second undated"},
	}

	sorted := SortChrono(statements)

	if len(sorted) != 3 {
		t.Fatalf("Expected 3 statements, got %d", len(sorted))
	}
	// Original slice untouched.
	if statements[0].ID != "s1" {
		t.Error("Expected input slice unmodified")
	}

	// Undated statements never move relative to each other.
	var undatedOrder []string
	for _, s := range sorted {
		if s.OccurredAt == nil {
			undatedOrder = append(undatedOrder, s.ID)
		}
	}
	if len(undatedOrder) != 2 || undatedOrder[0] != "s1" || undatedOrder[1] != "s3" {
		t.Errorf("Expected undated order preserved, got %v", undatedOrder)
	}
}

func TestSortChrono_DatedOrderIndependentOfUndatedPlacement(t *testing.T) {
	statements := []model.Statement{
		{ID: "s1", Text: "late", OccurredAt: datePtr("2023-03-01")},
		{ID: "s2", Text: "undated between"},
		{ID: "s3", Text: "early", OccurredAt: datePtr("2023-01-01")},
		{ID: "s4", Text: "middle", OccurredAt: datePtr("2023-02-01")},
	}

	sorted := SortChrono(statements)

	want := []string{"s3", "s4", "s1", "s2"}
	for i, id := range want {
		if sorted[i].ID != id {
			t.Fatalf("Expected order %v, got %s at position %d", want, sorted[i].ID, i)
		}
	}
}
