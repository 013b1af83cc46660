package resolve

import (
	"testing"

	"github.com/karvelis/attestor/internal/model"
)

func testConfig() model.ResolverConfig {
	return model.DefaultConfig().Resolver
}

func TestRegexDiscoverer_Emails(t *testing.T) {
	d := NewRegexDiscoverer(testConfig())

	entities := d.Discover("Contact me at alice.smith@example.com about the invoice")

	if len(entities) != 1 {
		t.Fatalf("Expected 1 entity, got %d", len(entities))
	}
	if entities[0].Confidence != 0.95 {
		t.Errorf("Expected email confidence 0.95, got %f", entities[0].Confidence)
	}
	if !entities[0].HasIdentifier("alice.smith@example.com") {
		t.Errorf("Expected email identifier, got %v", entities[0].Identifiers)
	}
}

func TestRegexDiscoverer_PhoneMinDigits(t *testing.T) {
	d := NewRegexDiscoverer(testConfig())

	entities := d.Discover("Call +1 (555) 123-4567 tomorrow")
	if len(entities) != 1 {
		t.Fatalf("Expected 1 phone entity, got %d", len(entities))
	}
	if !entities[0].HasIdentifier("15551234567") {
		t.Errorf("Expected normalized digits identifier, got %v", entities[0].Identifiers)
	}

	// Too few digits is not a phone number.
	short := d.Discover("Reference 12-34-567 please")
	if len(short) != 0 {
		t.Errorf("Expected short digit runs rejected, got %d entities", len(short))
	}
}

func TestRegexDiscoverer_NamesAndOrgs(t *testing.T) {
	d := NewRegexDiscoverer(testConfig())

	entities := d.Discover("John Smith transferred funds to Meridian Trust yesterday")

	var person, org *model.Entity
	for i := range entities {
		switch entities[i].Type {
		case model.EntityPerson:
			person = &entities[i]
		case model.EntityOrganization:
			org = &entities[i]
		}
	}

	if person == nil {
		t.Fatal("Expected a person entity")
	}
	if person.Name != "John Smith" {
		t.Errorf("Expected John Smith, got %q", person.Name)
	}
	if person.Confidence != 0.75 {
		t.Errorf("Expected name confidence 0.75, got %f", person.Confidence)
	}

	if org == nil {
		t.Fatal("Expected an organization entity")
	}
	if org.Name != "Meridian Trust" {
		t.Errorf("Expected Meridian Trust, got %q", org.Name)
	}
	if org.Confidence != 0.70 {
		t.Errorf("Expected org confidence 0.70, got %f", org.Confidence)
	}
}

func TestRegexDiscoverer_OrgNotDoubleCountedAsName(t *testing.T) {
	d := NewRegexDiscoverer(testConfig())

	entities := d.Discover("The account at Meridian Trust was closed")

	for _, e := range entities {
		if e.Type == model.EntityPerson && e.Name == "Meridian Trust" {
			t.Error("Expected organization span not re-discovered as a person name")
		}
	}
}

func TestMerge_OverlappingIdentifiers(t *testing.T) {
	candidates := []model.Entity{
		{ID: "ent-a", Name: "John Smith", Type: model.EntityPerson, Identifiers: []string{"john smith"}, Mentions: 1, Confidence: 0.75},
		{ID: "ent-b", Name: "John", Type: model.EntityPerson, Identifiers: []string{"john"}, Mentions: 3, Confidence: 0.75},
	}

	merged := Merge(candidates)

	if len(merged) != 1 {
		t.Fatalf("Expected 1 merged entity, got %d", len(merged))
	}
	e := merged[0]
	if e.Mentions != 4 {
		t.Errorf("Expected mention counts summed to 4, got %d", e.Mentions)
	}
	// Higher mention count supplies the surviving name.
	if e.Name != "John" {
		t.Errorf("Expected survivor name John, got %q", e.Name)
	}
	if !containsString(e.Aliases, "John Smith") {
		t.Errorf("Expected absorbed name kept as alias, got %v", e.Aliases)
	}
	if !e.HasIdentifier("john smith") || !e.HasIdentifier("john") {
		t.Errorf("Expected identifier union, got %v", e.Identifiers)
	}
}

func TestMerge_DifferentTypesNeverMerge(t *testing.T) {
	candidates := []model.Entity{
		{ID: "ent-a", Name: "Sterling", Type: model.EntityPerson, Identifiers: []string{"sterling"}, Mentions: 1},
		{ID: "ent-b", Name: "Sterling Bank", Type: model.EntityOrganization, Identifiers: []string{"sterling bank"}, Mentions: 1},
	}

	merged := Merge(candidates)

	if len(merged) != 2 {
		t.Errorf("Expected person and organization kept apart, got %d entities", len(merged))
	}
}

func TestResolver_AttachesStatements(t *testing.T) {
	r := NewResolver(testConfig())

	statements := []model.Statement{
		{ID: "s1", Actor: "Alice", Text: "I never took the money."},
		{ID: "s2", Actor: "Alice", Text: "The deal fell through."},
		{ID: "s3", Actor: "Bob", Text: "I admit I took it."},
	}

	result := r.Resolve(statements, "Alice spoke first. Bob answered.")

	if len(result.Entities) != 2 {
		t.Fatalf("Expected 2 entities, got %d", len(result.Entities))
	}

	byName := map[string]model.Entity{}
	for _, e := range result.Entities {
		byName[e.Name] = e
	}

	if len(byName["Alice"].StatementIDs) != 2 {
		t.Errorf("Expected 2 statements attached to Alice, got %v", byName["Alice"].StatementIDs)
	}
	if len(byName["Bob"].StatementIDs) != 1 {
		t.Errorf("Expected 1 statement attached to Bob, got %v", byName["Bob"].StatementIDs)
	}

	// The caller's statements are annotated in place.
	for _, s := range statements {
		if s.EntityID == "" {
			t.Errorf("Expected statement %s annotated with its entity id", s.ID)
		}
	}
}

func TestResolver_Deterministic(t *testing.T) {
	r := NewResolver(testConfig())
	text := "Alice spoke to Bob. Bob wired money to Meridian Trust."
	statements := func() []model.Statement {
		return []model.Statement{
			{ID: "s1", Actor: "Alice", Text: "I spoke to Bob."},
			{ID: "s2", Actor: "Bob", Text: "I wired the money."},
		}
	}

	first := r.Resolve(statements(), text)
	second := r.Resolve(statements(), text)

	if len(first.Entities) != len(second.Entities) {
		t.Fatalf("Expected identical entity counts, got %d and %d", len(first.Entities), len(second.Entities))
	}
	for i := range first.Entities {
		if first.Entities[i].ID != second.Entities[i].ID {
			t.Errorf("Expected stable entity order, got %s vs %s at %d",
				first.Entities[i].ID, second.Entities[i].ID, i)
		}
	}
}
