package model

import (
	"strings"
	"testing"
)

func TestDeterministicID_Stable(t *testing.T) {
	a := DeterministicID("stmt", "doc-1", "0", "I never took the money.")
	b := DeterministicID("stmt", "doc-1", "0", "I never took the money.")

	if a != b {
		t.Errorf("Expected identical ids for identical parts, got %s and %s", a, b)
	}
	if !strings.HasPrefix(a, "stmt-") {
		t.Errorf("Expected prefix 'stmt-', got %s", a)
	}
	if len(a) != len("stmt-")+12 {
		t.Errorf("Expected 12 hex chars after the prefix, got %s", a)
	}
}

func TestDeterministicID_PartBoundaries(t *testing.T) {
	// Parts must not be concatenation-ambiguous: ("ab","c") != ("a","bc").
	a := DeterministicID("x", "ab", "c")
	b := DeterministicID("x", "a", "bc")

	if a == b {
		t.Error("Expected different part splits to produce different ids")
	}
}

func TestDeterministicID_PrefixSeparation(t *testing.T) {
	a := DeterministicID("stmt", "same")
	b := DeterministicID("evt", "same")

	if strings.TrimPrefix(a, "stmt-") == strings.TrimPrefix(b, "evt-") {
		// Same hash body is fine; the prefix namespaces them.
		if a == b {
			t.Error("Expected differently prefixed ids to differ")
		}
	}
}
