package contradict

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/karvelis/attestor/internal/extract"
	"github.com/karvelis/attestor/internal/model"
	"github.com/karvelis/attestor/internal/timeline"
)

// detectNow stamps contradictions with the analysis pass time (injectable
// for deterministic tests).
var detectNow = time.Now

// Evidence references inside statement text, checked against the ingested
// source set for MISSING_EVIDENCE detection.
var evidenceRefRe = regexp.MustCompile(`(?i)\b(?:the|that|attached|enclosed)\s+(contract|receipt|invoice|recording|agreement|email|document|report|photo|transcript|statement)\b`)

// Ordering cues for TEMPORAL detection.
var (
	afterCueRe  = regexp.MustCompile(`(?i)\bafter\b`)
	beforeCueRe = regexp.MustCompile(`(?i)\bbefore\b`)
)

// Engine compares claims pairwise per entity (and across entities for
// THIRD_PARTY) and classifies contradictions. Detection is a pure function
// of its inputs; re-running on identical input yields an identical,
// order-stable list.
type Engine struct {
	cfg model.ContradictConfig
}

// NewEngine creates a contradiction engine.
func NewEngine(cfg model.ContradictConfig) *Engine {
	if cfg.MinSharedKeywords <= 0 {
		cfg.MinSharedKeywords = 1
	}
	if cfg.AdjacencyWindow <= 0 {
		cfg.AdjacencyWindow = 7 * 24 * time.Hour
	}
	return &Engine{cfg: cfg}
}

// Detect runs every detection policy over the entities. knownSources is the
// set of ingested evidence identifiers used for MISSING_EVIDENCE checks.
// The result is ordered most-severe-first, ties broken by detection order.
func (e *Engine) Detect(entities []model.Entity, knownSources []string) []model.Contradiction {
	now := detectNow().UTC()
	var found []model.Contradiction

	for _, entity := range entities {
		found = append(found, e.detectPairwise(entity, now)...)
		found = append(found, e.detectBehavioralShift(entity, now)...)
		found = append(found, e.detectMissingEvidence(entity, knownSources, now)...)
	}
	found = append(found, e.detectThirdParty(entities, now)...)

	// Most severe first; detection order breaks ties (stable).
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Severity.Rank() > found[j].Severity.Rank()
	})
	return found
}

// detectPairwise covers DIRECT, CROSS_DOCUMENT, and TEMPORAL for one
// entity's own statements, compared in extraction order.
func (e *Engine) detectPairwise(entity model.Entity, now time.Time) []model.Contradiction {
	var found []model.Contradiction
	stmts := entity.Statements

	for i := 0; i < len(stmts); i++ {
		for j := i + 1; j < len(stmts); j++ {
			a, b := stmts[i], stmts[j]
			shared := extract.SharedKeywords(a.Keywords, b.Keywords)
			if len(shared) < e.cfg.MinSharedKeywords {
				continue
			}

			if c, ok := e.direct(entity, a, b, shared, now); ok {
				found = append(found, c)
			}
			if c, ok := e.crossDocument(entity, a, b, shared, now); ok {
				found = append(found, c)
			}
			if c, ok := e.temporal(entity, a, b, shared, now); ok {
				found = append(found, c)
			}
		}
	}
	return found
}

// direct detects a denial against an assertion or admission of the same
// fact by the same entity. Denial of an admitted action would flip apparent
// liability, so that pairing is CRITICAL; denial vs plain assertion is HIGH.
func (e *Engine) direct(entity model.Entity, a, b model.Statement, shared []string, now time.Time) (model.Contradiction, bool) {
	denial, other, ok := denialPair(a, b)
	if !ok {
		return model.Contradiction{}, false
	}
	if other.Classification != model.ClassAssertion &&
		other.Classification != model.ClassAdmission &&
		other.Classification != model.ClassActionClaim {
		return model.Contradiction{}, false
	}

	severity := model.SeverityHigh
	implication := "Inconsistent account of the same fact suggests unreliable testimony."
	if other.Classification == model.ClassAdmission {
		severity = model.SeverityCritical
		implication = "Denial of an admitted action; if the admission stands, apparent liability flips."
	}

	return model.Contradiction{
		ID:         model.DeterministicID("con", "direct", denial.ID, other.ID),
		EntityID:   entity.ID,
		StatementA: denial.ID,
		StatementB: other.ID,
		Type:       model.ContradictionDirect,
		Severity:   severity,
		Description: fmt.Sprintf("%s denies a fact they elsewhere state: shared subject %q",
			entity.Name, strings.Join(shared, ", ")),
		LegalImplication: implication,
		DetectedAt:       now,
	}, true
}

// crossDocument detects a denial and an admission of the same fact sourced
// from different documents. Dishonest intent is the most plausible
// explanation for contradicting oneself across records, so HIGH.
func (e *Engine) crossDocument(entity model.Entity, a, b model.Statement, shared []string, now time.Time) (model.Contradiction, bool) {
	denial, other, ok := denialPair(a, b)
	if !ok || other.Classification != model.ClassAdmission {
		return model.Contradiction{}, false
	}
	if denial.SourceID == other.SourceID || denial.SourceID == "" || other.SourceID == "" {
		return model.Contradiction{}, false
	}

	return model.Contradiction{
		ID:         model.DeterministicID("con", "crossdoc", denial.ID, other.ID),
		EntityID:   entity.ID,
		StatementA: denial.ID,
		StatementB: other.ID,
		Type:       model.ContradictionCrossDocument,
		Severity:   model.SeverityHigh,
		Description: fmt.Sprintf("%s admits in %s what they deny in %s (shared subject %q)",
			entity.Name, other.SourceID, denial.SourceID, strings.Join(shared, ", ")),
		LegalImplication: "Contradictory accounts across separate records undermine the later account.",
		DetectedAt:       now,
	}, true
}

// temporal detects statements whose ordering cues ("before"/"after" a shared
// fact) are inconsistent with their extracted dates. Dating errors are a
// plausible innocent explanation, so MEDIUM.
func (e *Engine) temporal(entity model.Entity, a, b model.Statement, shared []string, now time.Time) (model.Contradiction, bool) {
	if a.OccurredAt == nil || b.OccurredAt == nil {
		return model.Contradiction{}, false
	}

	inconsistent := (afterCueRe.MatchString(a.Text) && a.OccurredAt.Before(*b.OccurredAt)) ||
		(beforeCueRe.MatchString(a.Text) && a.OccurredAt.After(*b.OccurredAt)) ||
		(afterCueRe.MatchString(b.Text) && b.OccurredAt.Before(*a.OccurredAt)) ||
		(beforeCueRe.MatchString(b.Text) && b.OccurredAt.After(*a.OccurredAt))
	if !inconsistent {
		return model.Contradiction{}, false
	}

	return model.Contradiction{
		ID:         model.DeterministicID("con", "temporal", a.ID, b.ID),
		EntityID:   entity.ID,
		StatementA: a.ID,
		StatementB: b.ID,
		Type:       model.ContradictionTemporal,
		Severity:   model.SeverityMedium,
		Description: fmt.Sprintf("%s claims an ordering of events around %q that the dates %s and %s do not support",
			entity.Name, strings.Join(shared, ", "), a.DateKey, b.DateKey),
		LegalImplication: "Chronology inconsistencies weaken the claimed sequence of events.",
		DetectedAt:       now,
	}, true
}

// detectBehavioralShift flags sudden stance flips (admission followed
// shortly by denial, or the reverse) between temporally adjacent statements.
func (e *Engine) detectBehavioralShift(entity model.Entity, now time.Time) []model.Contradiction {
	var found []model.Contradiction
	chrono := timeline.SortChrono(entity.Statements)

	for i := 0; i+1 < len(chrono); i++ {
		a, b := chrono[i], chrono[i+1]
		flip := (a.Classification == model.ClassAdmission && b.Classification == model.ClassDenial) ||
			(a.Classification == model.ClassDenial && b.Classification == model.ClassAdmission)
		if !flip {
			continue
		}
		if a.OccurredAt != nil && b.OccurredAt != nil {
			if b.OccurredAt.Sub(*a.OccurredAt) > e.cfg.AdjacencyWindow {
				continue
			}
		}
		found = append(found, model.Contradiction{
			ID:         model.DeterministicID("con", "behavioral", a.ID, b.ID),
			EntityID:   entity.ID,
			StatementA: a.ID,
			StatementB: b.ID,
			Type:       model.ContradictionBehavioral,
			Severity:   model.SeverityMedium,
			Description: fmt.Sprintf("%s shifts abruptly from %s to %s between adjacent statements",
				entity.Name, a.Classification, b.Classification),
			LegalImplication: "Abrupt stance changes may indicate evolving, unreliable testimony.",
			DetectedAt:       now,
		})
	}
	return found
}

// detectMissingEvidence flags statements referencing a document or evidence
// item that was never ingested.
func (e *Engine) detectMissingEvidence(entity model.Entity, knownSources []string, now time.Time) []model.Contradiction {
	var found []model.Contradiction
	for _, stmt := range entity.Statements {
		for _, m := range evidenceRefRe.FindAllStringSubmatch(stmt.Text, -1) {
			kind := strings.ToLower(m[1])
			if sourcesMention(knownSources, kind) {
				continue
			}
			found = append(found, model.Contradiction{
				ID:         model.DeterministicID("con", "missing", stmt.ID, kind),
				EntityID:   entity.ID,
				StatementA: stmt.ID,
				StatementB: stmt.ID,
				Type:       model.ContradictionMissingEvidence,
				Severity:   model.SeverityLow,
				Description: fmt.Sprintf("%s references a %s that was never provided as evidence",
					entity.Name, kind),
				LegalImplication: "Referenced but unproduced evidence invites an adverse inference.",
				DetectedAt:       now,
			})
		}
	}
	return found
}

// detectThirdParty flags entity A's denial being directly contradicted by
// entity B's positive statement about the same fact. Requires a stronger
// keyword overlap than same-entity detection, since the statements come
// from different accounts.
func (e *Engine) detectThirdParty(entities []model.Entity, now time.Time) []model.Contradiction {
	minShared := e.cfg.MinSharedKeywords + 1
	var found []model.Contradiction

	for ai := range entities {
		for bi := range entities {
			if ai == bi {
				continue
			}
			a, b := entities[ai], entities[bi]
			for _, sa := range a.Statements {
				if sa.Classification != model.ClassDenial {
					continue
				}
				for _, sb := range b.Statements {
					switch sb.Classification {
					case model.ClassAssertion, model.ClassAdmission, model.ClassActionClaim:
					default:
						continue
					}
					shared := extract.SharedKeywords(sa.Keywords, sb.Keywords)
					if len(shared) < minShared {
						continue
					}
					found = append(found, model.Contradiction{
						ID:         model.DeterministicID("con", "thirdparty", sa.ID, sb.ID),
						EntityID:   a.ID,
						StatementA: sa.ID,
						StatementB: sb.ID,
						Type:       model.ContradictionThirdParty,
						Severity:   model.SeverityHigh,
						Description: fmt.Sprintf("%s denies what %s asserts (shared subject %q)",
							a.Name, b.Name, strings.Join(shared, ", ")),
						LegalImplication: "Independent contrary testimony corroborates the disputed fact.",
						DetectedAt:       now,
					})
				}
			}
		}
	}
	return found
}

// denialPair orients a statement pair so the denial comes first.
func denialPair(a, b model.Statement) (denial, other model.Statement, ok bool) {
	switch {
	case a.Classification == model.ClassDenial && b.Classification != model.ClassDenial:
		return a, b, true
	case b.Classification == model.ClassDenial && a.Classification != model.ClassDenial:
		return b, a, true
	default:
		return a, b, false
	}
}

func sourcesMention(sources []string, kind string) bool {
	for _, s := range sources {
		if strings.Contains(strings.ToLower(s), kind) {
			return true
		}
	}
	return false
}

// CountBySeverity tallies contradictions per severity for one entity.
func CountBySeverity(contradictions []model.Contradiction, entityID string) (critical, high, medium, low int) {
	for _, c := range contradictions {
		if c.EntityID != entityID {
			continue
		}
		switch c.Severity {
		case model.SeverityCritical:
			critical++
		case model.SeverityHigh:
			high++
		case model.SeverityMedium:
			medium++
		case model.SeverityLow:
			low++
		}
	}
	return
}
