package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/karvelis/attestor/internal/model"
)

// Renderer writes forensic reports as JSON or Markdown.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON.
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes the report as a human-readable Markdown document.
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	md := r.Markdown(report)
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Markdown builds the Markdown rendering.
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Forensic Analysis Report\n\n")
	fmt.Fprintf(&b, "- **Case**: %s\n", report.CaseID)
	fmt.Fprintf(&b, "- **Analyzed**: %s\n", report.AnalyzedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "- **Sources**: %s\n\n", strings.Join(report.SourceIDs, ", "))

	b.WriteString("## Liability Scores\n\n")
	b.WriteString("| Entity | Overall | Contradiction | Behavioral | Evidence | Chronology | Causal |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for _, entity := range rankedEntities(report) {
		s := report.Scores[entity.ID]
		fmt.Fprintf(&b, "| %s | %.1f | %.1f | %.1f | %.1f | %.1f | %.1f |\n",
			entity.Name, s.Overall, s.Contradiction, s.Behavioral,
			s.EvidenceContribution, s.ChronologicalConsistency, s.CausalResponsibility)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Contradictions (%d)\n\n", len(report.Contradictions))
	for _, c := range report.Contradictions {
		fmt.Fprintf(&b, "- **[%s/%s]** %s\n", c.Severity, c.Type, c.Description)
		if c.LegalImplication != "" {
			fmt.Fprintf(&b, "  - %s\n", c.LegalImplication)
		}
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Behavioral Patterns (%d)\n\n", len(report.Patterns))
	for _, p := range report.Patterns {
		fmt.Fprintf(&b, "- **%s** (%s, %d instances)\n", p.Type, p.Severity, len(p.Instances))
		for _, inst := range p.Instances {
			fmt.Fprintf(&b, "  - %q\n", inst)
		}
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Timeline (%d events)\n\n", len(report.Timeline.Events))
	for _, e := range report.Timeline.Events {
		when := "undated"
		if e.Timestamp != nil {
			when = e.Timestamp.Format("2006-01-02")
		}
		fmt.Fprintf(&b, "- %s — %s\n", when, e.Description)
	}
	b.WriteString("\n")

	b.WriteString("## Custody Chain\n\n")
	fmt.Fprintf(&b, "%d entries", len(report.Custody))
	if n := len(report.Custody); n > 0 {
		fmt.Fprintf(&b, ", head `%s`", truncateHash(report.Custody[n-1].EntryHash))
	}
	b.WriteString("\n\n")

	if report.LLM != nil && report.LLM.Enabled {
		b.WriteString("## Narrative (LLM annex — does not affect any score)\n\n")
		b.WriteString(report.LLM.NarrativeMD)
		b.WriteString("\n\n")
		for _, w := range report.LLM.Warnings {
			fmt.Fprintf(&b, "> Warning: %s\n", w)
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n")
		b.WriteString("Attestor measures contradiction and apportions liability deterministically. ")
		b.WriteString("It does not determine guilt, innocence, or truth.\n")
	}

	return b.String()
}

// rankedEntities orders entities by descending overall score, name breaking
// ties, so the table reads most-liable-first.
func rankedEntities(report *model.Report) []model.Entity {
	entities := make([]model.Entity, len(report.Entities))
	copy(entities, report.Entities)
	sort.SliceStable(entities, func(i, j int) bool {
		si, sj := report.Scores[entities[i].ID].Overall, report.Scores[entities[j].ID].Overall
		if si != sj {
			return si > sj
		}
		return entities[i].Name < entities[j].Name
	})
	return entities
}

func truncateHash(h string) string {
	if len(h) > 16 {
		return h[:16] + "…"
	}
	return h
}
