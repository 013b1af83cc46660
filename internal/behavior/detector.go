package behavior

import (
	"strings"
	"time"

	"github.com/karvelis/attestor/internal/model"
	"github.com/karvelis/attestor/internal/timeline"
)

// detectNow stamps patterns when no instance carries a date (injectable for
// deterministic tests).
var detectNow = time.Now

// signatures are the fixed linguistic cues per pattern type. Matching is
// case-insensitive substring.
var signatures = []struct {
	pattern model.PatternType
	cues    []string
}{
	{model.PatternGaslighting, []string{
		"you're imagining", "you are imagining", "that never happened",
		"you're crazy", "you're confused", "you must be confused",
		"you're overreacting", "you made that up", "you're remembering it wrong",
	}},
	{model.PatternBlameShifting, []string{
		"your fault", "if you hadn't", "because of you", "you made me",
		"you started", "you're the one who", "this is on you",
	}},
	{model.PatternEvasion, []string{
		"i don't recall", "i don't remember", "no comment", "we'll see",
		"why does it matter", "i can't answer that", "ask someone else",
		"that's not relevant",
	}},
	{model.PatternSelectiveDisclosure, []string{
		"all you need to know", "that's not important", "i told you everything",
		"you don't need the details", "there's nothing else",
	}},
	{model.PatternMinimization, []string{
		"not a big deal", "you're making too much", "it was nothing",
		"hardly matters", "just a misunderstanding",
	}},
	{model.PatternIntimidation, []string{
		"you'll regret", "or else", "you don't want to find out",
		"i'll make sure you", "watch yourself",
	}},
}

// Detector scans entity statement sequences for recurring manipulation
// patterns.
type Detector struct{}

// NewDetector creates a behavioral pattern detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect emits at most one pattern per entity per type, with every matching
// excerpt collected as an instance. Severity defaults to MEDIUM, escalating
// to HIGH when two or more instances are found. Statements are scanned in
// chronological order where dates exist, extraction order otherwise.
// Patterns are recomputed wholesale on each pass; never mutated.
func (d *Detector) Detect(entities []model.Entity) []model.BehavioralPattern {
	now := detectNow().UTC()
	var patterns []model.BehavioralPattern

	for _, entity := range entities {
		chrono := timeline.SortChrono(entity.Statements)

		for _, sig := range signatures {
			var instances []string
			var firstDetected *time.Time

			for _, stmt := range chrono {
				lower := strings.ToLower(stmt.Text)
				for _, cue := range sig.cues {
					if !strings.Contains(lower, cue) {
						continue
					}
					instances = append(instances, stmt.Text)
					if firstDetected == nil && stmt.OccurredAt != nil {
						t := *stmt.OccurredAt
						firstDetected = &t
					}
					break // One instance per statement per pattern type
				}
			}

			if len(instances) == 0 {
				continue
			}

			severity := model.SeverityMedium
			if len(instances) >= 2 {
				severity = model.SeverityHigh
			}
			first := now
			if firstDetected != nil {
				first = *firstDetected
			}

			patterns = append(patterns, model.BehavioralPattern{
				ID:            model.DeterministicID("pat", entity.ID, string(sig.pattern)),
				EntityID:      entity.ID,
				Type:          sig.pattern,
				Instances:     instances,
				FirstDetected: first,
				Severity:      severity,
			})
		}
	}

	return patterns
}
