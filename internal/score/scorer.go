package score

import (
	"strings"

	"github.com/karvelis/attestor/internal/model"
)

// Causal responsibility cues: initiating events and benefiting financially.
var (
	initiatorCues = []string{
		"i started", "i initiated", "i began", "i demanded", "i instructed",
		"i arranged", "i set up", "i proposed",
	}
	benefitCues = []string{
		"i received", "paid me", "paid to me", "transferred to me",
		"to my account", "i kept", "i collected", "my share",
	}
)

// Scorer produces the 0-100 liability score per entity. Scoring is a pure
// function of the current contradiction/behavioral/timeline state: same
// state in, same score out, always.
type Scorer struct {
	cfg model.ScoringConfig
}

// NewScorer creates a liability scorer with the given weights.
func NewScorer(cfg model.ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score computes every entity's liability score. Each sub-score is 0-100;
// the overall score is the weighted sum clamped to [0,100]. The breakdown
// carries the raw counts so every number is justifiable from the inputs.
func (s *Scorer) Score(
	entities []model.Entity,
	contradictions []model.Contradiction,
	patterns []model.BehavioralPattern,
	tl model.TimelineSummary,
) map[string]model.LiabilityScore {
	scores := make(map[string]model.LiabilityScore, len(entities))

	for _, entity := range entities {
		breakdown := s.breakdown(entity, contradictions, patterns)

		contradiction := s.contradictionScore(breakdown)
		behavioral := s.behavioralScore(breakdown)
		evidence := s.evidenceScore(breakdown)
		chronology := s.chronologyScore(breakdown)
		causal := s.causalScore(breakdown)

		overall := clamp(
			contradiction*s.cfg.ContradictionWeight +
				behavioral*s.cfg.BehavioralWeight +
				evidence*s.cfg.EvidenceWeight +
				chronology*s.cfg.ChronologyWeight +
				causal*s.cfg.CausalWeight)

		scores[entity.ID] = model.LiabilityScore{
			EntityID:                 entity.ID,
			Overall:                  overall,
			Contradiction:            contradiction,
			Behavioral:               behavioral,
			EvidenceContribution:     evidence,
			ChronologicalConsistency: chronology,
			CausalResponsibility:     causal,
			Breakdown:                breakdown,
		}
	}

	return scores
}

// breakdown gathers the raw counts for one entity.
func (s *Scorer) breakdown(entity model.Entity, contradictions []model.Contradiction, patterns []model.BehavioralPattern) model.ScoreBreakdown {
	var b model.ScoreBreakdown
	b.StatementCount = len(entity.Statements)

	for _, c := range contradictions {
		if c.EntityID != entity.ID {
			continue
		}
		switch c.Severity {
		case model.SeverityCritical:
			b.CriticalContradictions++
		case model.SeverityHigh:
			b.HighContradictions++
		case model.SeverityMedium:
			b.MediumContradictions++
		case model.SeverityLow:
			b.LowContradictions++
		}
		if c.Type == model.ContradictionTemporal {
			b.TemporalContradictions++
		}
		if c.Type == model.ContradictionMissingEvidence {
			b.MissingEvidence++
		}
	}

	for _, p := range patterns {
		if p.EntityID != entity.ID {
			continue
		}
		b.DistinctPatterns++
		b.PatternInstances += len(p.Instances)
	}

	sources := make(map[string]bool)
	for _, stmt := range entity.Statements {
		if stmt.SourceID != "" {
			sources[stmt.SourceID] = true
		}
		lower := strings.ToLower(stmt.Text)
		for _, cue := range initiatorCues {
			if strings.Contains(lower, cue) {
				b.InitiatedEvents++
				break
			}
		}
		for _, cue := range benefitCues {
			if strings.Contains(lower, cue) {
				b.FinancialBenefits++
				break
			}
		}
	}
	b.ProvidedEvidence = len(sources)

	return b
}

// contradictionScore: (critical*4 + high*3 + medium*2 + low*1) * 10,
// capped at 100.
func (s *Scorer) contradictionScore(b model.ScoreBreakdown) float64 {
	weighted := b.CriticalContradictions*4 + b.HighContradictions*3 +
		b.MediumContradictions*2 + b.LowContradictions*1
	return clamp(float64(weighted) * 10)
}

// behavioralScore: 25 points per distinct flagged pattern, capped at 100.
func (s *Scorer) behavioralScore(b model.ScoreBreakdown) float64 {
	return clamp(float64(b.DistinctPatterns) * 25)
}

// evidenceScore: baseline 50, +15 per withheld referenced evidence item,
// -5 per distinct provided source, clamped. Higher means the entity's
// evidence conduct points toward liability.
func (s *Scorer) evidenceScore(b model.ScoreBreakdown) float64 {
	return clamp(50 + float64(b.MissingEvidence)*15 - float64(b.ProvidedEvidence)*5)
}

// chronologyScore: 25 points per TEMPORAL contradiction, capped at 100.
func (s *Scorer) chronologyScore(b model.ScoreBreakdown) float64 {
	return clamp(float64(b.TemporalContradictions) * 25)
}

// causalScore: 20 points per initiated event and per financial benefit,
// capped at 100.
func (s *Scorer) causalScore(b model.ScoreBreakdown) float64 {
	return clamp(float64(b.InitiatedEvents)*20 + float64(b.FinancialBenefits)*20)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
