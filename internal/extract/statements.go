package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/karvelis/attestor/internal/model"
)

// ClaimExtractor turns raw evidence text into classified statements.
// Implementations are swappable heuristics; the deterministic scoring core
// never depends on how statements were produced.
type ClaimExtractor interface {
	Extract(text, sourceID string, sourceType model.SourceType, actorHint string) []model.Statement
}

// Speaker marker patterns, tried in order: bracketed "[Name]:", then a
// capitalized "Name:" or "First Last:" prefix.
var (
	bracketSpeakerRe = regexp.MustCompile(`^\[([^\]]+)\]:\s*(.*)$`)
	plainSpeakerRe   = regexp.MustCompile(`^([A-Z][a-zA-Z'.-]*(?:\s+[A-Z][a-zA-Z'.-]*){0,2}):\s*(.*)$`)
)

// StatementExtractor is the default keyword-heuristic ClaimExtractor.
type StatementExtractor struct {
	denialCues    []string
	admissionCues []string
	promiseCues   []string
	actionCues    []string
	opinionCues   []string
}

// NewStatementExtractor creates the default extractor.
func NewStatementExtractor() *StatementExtractor {
	return &StatementExtractor{
		denialCues: []string{
			"never", "did not", "didn't", "wasn't", "was not", "no such",
			"no", "deny", "denied", "not true", "untrue", "that's false",
			"won't admit",
		},
		admissionCues: []string{
			"i admit", "i did take", "i did send", "it was me", "i confess",
			"yes i did", "i lied", "i was wrong", "i took", "admittedly",
		},
		promiseCues: []string{
			"will", "going to", "shall", "i promise", "i'll", "we'll",
			"guarantee",
		},
		actionCues: []string{
			"i sent", "i paid", "i received", "i signed", "i transferred",
			"i called", "i told", "i gave", "i wrote", "i met",
		},
		opinionCues: []string{
			"i think", "i believe", "maybe", "perhaps", "in my opinion",
			"i feel", "probably", "it seems",
		},
	}
}

// Extract attributes lines to speakers and classifies each sentence.
// Pure function: no side effects, never fails. Unattributable lines (no
// current speaker yet and no actor hint) are silently dropped.
func (e *StatementExtractor) Extract(text, sourceID string, sourceType model.SourceType, actorHint string) []model.Statement {
	text = normalizeWhitespace(text)
	lines := strings.Split(text, "\n")

	currentSpeaker := strings.TrimSpace(actorHint)
	var statements []model.Statement
	seq := 0

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		body := line
		if m := bracketSpeakerRe.FindStringSubmatch(line); m != nil {
			currentSpeaker = strings.TrimSpace(m[1])
			body = m[2]
		} else if m := plainSpeakerRe.FindStringSubmatch(line); m != nil {
			currentSpeaker = strings.TrimSpace(m[1])
			body = m[2]
		}

		if currentSpeaker == "" {
			continue
		}

		for _, sentence := range SplitSentences(body) {
			stmt := model.Statement{
				ID:             model.DeterministicID("stmt", sourceID, strconv.Itoa(seq), sentence),
				Actor:          currentSpeaker,
				Text:           sentence,
				Classification: e.Classify(sentence),
				SourceID:       sourceID,
				SourceType:     sourceType,
				Keywords:       Keywords(sentence),
			}
			if ts, ok := FindDate(sentence); ok {
				t := ts
				stmt.OccurredAt = &t
				stmt.DateKey = t.Format("2006-01-02")
			}
			statements = append(statements, stmt)
			seq++
		}
	}

	return statements
}

// Classify assigns a classification by keyword family, in fixed priority
// order: denial > admission > promise > action-claim > opinion > assertion.
func (e *StatementExtractor) Classify(sentence string) model.Classification {
	lower := cueNormalize(sentence)

	families := []struct {
		cues  []string
		class model.Classification
	}{
		{e.denialCues, model.ClassDenial},
		{e.admissionCues, model.ClassAdmission},
		{e.promiseCues, model.ClassPromise},
		{e.actionCues, model.ClassActionClaim},
		{e.opinionCues, model.ClassOpinion},
	}

	for _, family := range families {
		for _, cue := range family.cues {
			if strings.Contains(lower, " "+cue+" ") {
				return family.class
			}
		}
	}

	return model.ClassAssertion
}

// cueNormalize lowercases, strips terminal punctuation, and pads with spaces
// so cue matching stays on word boundaries.
func cueNormalize(sentence string) string {
	lower := strings.ToLower(sentence)
	var b strings.Builder
	b.WriteRune(' ')
	for _, r := range lower {
		switch r {
		case '.', ',', '!', '?', ';', ':', '"', '(', ')':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune(' ')
	return b.String()
}

// normalizeWhitespace collapses runs of spaces and tabs, preserving newlines
// so that line-by-line speaker attribution still works.
func normalizeWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var b strings.Builder
	b.Grow(len(text))
	spacePending := false
	for _, r := range text {
		switch r {
		case ' ', '\t':
			spacePending = true
		case '\n':
			spacePending = false
			b.WriteRune('\n')
		default:
			if spacePending {
				b.WriteRune(' ')
				spacePending = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SplitSentences splits text on .!? boundaries. Trailing text without a
// terminator still counts as a sentence.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		if len(s) >= 3 {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			flush()
		}
	}
	flush()

	return sentences
}
