package resolve

import (
	"testing"

	"github.com/karvelis/attestor/internal/model"
)

func testEntities() []model.Entity {
	return []model.Entity{
		{ID: "ent-alice", Name: "Alice", Type: model.EntityPerson, Identifiers: []string{"alice"}},
		{ID: "ent-bob", Name: "Bob", Type: model.EntityPerson, Identifiers: []string{"bob"}},
	}
}

func TestAliasResolver_GenderedPronoun(t *testing.T) {
	a := NewAliasResolver(testConfig())

	aliases, unresolved := a.Resolve("Alice met Bob. She signed the contract.", testEntities())

	if len(unresolved) != 0 {
		t.Fatalf("Expected no unresolved mentions, got %v", unresolved)
	}
	if len(aliases) != 1 {
		t.Fatalf("Expected 1 resolved alias, got %d", len(aliases))
	}
	if aliases[0].EntityID != "ent-alice" {
		t.Errorf("Expected 'She' resolved to Alice, got %s", aliases[0].EntityID)
	}
	if aliases[0].Confidence != 0.70 {
		t.Errorf("Expected pronoun confidence 0.70, got %f", aliases[0].Confidence)
	}
}

func TestAliasResolver_NeutralPronounUsesLatestMention(t *testing.T) {
	a := NewAliasResolver(testConfig())

	aliases, _ := a.Resolve("Alice met Bob. They left at noon.", testEntities())

	if len(aliases) != 1 {
		t.Fatalf("Expected 1 resolved alias, got %d", len(aliases))
	}
	if aliases[0].EntityID != "ent-bob" {
		t.Errorf("Expected 'They' resolved to the most recent mention (Bob), got %s", aliases[0].EntityID)
	}
}

func TestAliasResolver_NoAntecedentReported(t *testing.T) {
	a := NewAliasResolver(testConfig())

	aliases, unresolved := a.Resolve("He denied everything.", testEntities())

	if len(aliases) != 0 {
		t.Errorf("Expected no aliases without an antecedent, got %v", aliases)
	}
	if len(unresolved) != 1 {
		t.Fatalf("Expected 1 unresolved mention, got %d", len(unresolved))
	}
	if unresolved[0].Reason != "no antecedent" {
		t.Errorf("Expected reason 'no antecedent', got %q", unresolved[0].Reason)
	}
}

func TestAliasResolver_RelationalPhrases(t *testing.T) {
	a := NewAliasResolver(testConfig())

	aliases, unresolved := a.Resolve("My colleague Alice approved it. Alice's lawyer demanded payment.", testEntities())

	if len(unresolved) != 0 {
		t.Fatalf("Expected no unresolved mentions, got %v", unresolved)
	}
	if len(aliases) != 2 {
		t.Fatalf("Expected 2 resolved aliases, got %d", len(aliases))
	}
	for _, al := range aliases {
		if al.EntityID != "ent-alice" {
			t.Errorf("Expected relational phrase %q resolved to Alice, got %s", al.Text, al.EntityID)
		}
		if al.Confidence != 0.60 {
			t.Errorf("Expected relation confidence 0.60, got %f", al.Confidence)
		}
	}
}

func TestAliasResolver_UnknownRelationName(t *testing.T) {
	a := NewAliasResolver(testConfig())

	_, unresolved := a.Resolve("My partner Zora arrived late.", testEntities())

	if len(unresolved) != 1 {
		t.Fatalf("Expected 1 unresolved relation, got %d", len(unresolved))
	}
}
