package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/karvelis/attestor/internal/behavior"
	"github.com/karvelis/attestor/internal/cache"
	"github.com/karvelis/attestor/internal/contradict"
	"github.com/karvelis/attestor/internal/extract"
	"github.com/karvelis/attestor/internal/ledger"
	"github.com/karvelis/attestor/internal/llm"
	"github.com/karvelis/attestor/internal/model"
	"github.com/karvelis/attestor/internal/resolve"
	"github.com/karvelis/attestor/internal/score"
	"github.com/karvelis/attestor/internal/timeline"
)

// Pipeline orchestrates a complete forensic analysis pass: extraction,
// resolution, contradiction and pattern detection, timeline reconstruction,
// liability scoring, and custody logging. Every analytical action is
// recorded in the custody ledger.
type Pipeline struct {
	extractor  extract.ClaimExtractor
	resolver   *resolve.Resolver
	engine     *contradict.Engine
	detector   *behavior.Detector
	builder    *timeline.Builder
	scorer     *score.Scorer
	renderer   *Renderer
	summarizer *llm.Summarizer // Nil when narrative generation is disabled
	ledger     *ledger.Ledger
	cache      cache.Cache // Nil when caching is disabled
	config     *model.Config
}

// New creates a pipeline writing custody entries to the given ledger.
func New(cfg *model.Config, led *ledger.Ledger) *Pipeline {
	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize LLM provider: %v\n", err)
		} else {
			summarizer = s
		}
	}

	var reportCache cache.Cache
	if cfg.Cache.Enabled && cfg.Cache.Dir != "" {
		reportCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	} else if cfg.Cache.Enabled {
		reportCache = cache.NewMemoryCache(cfg.Cache.MemoryTTL, 10*time.Minute)
	}

	return &Pipeline{
		extractor:  extract.NewStatementExtractor(),
		resolver:   resolve.NewResolver(cfg.Resolver),
		engine:     contradict.NewEngine(cfg.Contradict),
		detector:   behavior.NewDetector(),
		builder:    timeline.NewBuilder(),
		scorer:     score.NewScorer(cfg.Scoring),
		renderer:   NewRenderer(cfg.Output.IncludeFooter),
		summarizer: summarizer,
		ledger:     led,
		cache:      reportCache,
		config:     cfg,
	}
}

// Ledger exposes the custody ledger for CLI subcommands.
func (p *Pipeline) Ledger() *ledger.Ledger {
	return p.ledger
}

// Analyze runs one complete pass over the given evidence files and returns
// the forensic report. Analysis itself is pure; the only side effects are
// custody entries and the report cache.
func (p *Pipeline) Analyze(ctx context.Context, files []EvidenceFile) (*model.Report, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no evidence files to analyze")
	}

	user := p.config.Custody.UserID
	device := p.config.Custody.DeviceID

	if cached, ok := p.cachedReport(files); ok {
		p.ledger.Append(model.ActionProcessing, combinedHash(files), user, device,
			"analysis served from cache")
		cached.Custody = p.ledger.Entries()
		return cached, nil
	}

	var statements []model.Statement
	var rawText strings.Builder
	sourceIDs := make([]string, 0, len(files))

	for _, f := range files {
		contentHash := ledger.ContentHash(f.Content)
		p.ledger.Append(model.ActionUpload, contentHash, user, device,
			fmt.Sprintf("ingested %s (%s)", f.ID, f.Type))

		extracted := p.extractor.Extract(f.Text, f.ID, f.Type, f.Actor)
		statements = append(statements, extracted...)
		rawText.WriteString(f.Text)
		rawText.WriteString("\n")
		sourceIDs = append(sourceIDs, f.ID)

		p.ledger.Append(model.ActionProcessing, contentHash, user, device,
			fmt.Sprintf("extracted %d statements from %s", len(extracted), f.ID))
	}

	resolved := p.resolver.Resolve(statements, rawText.String())
	tl := p.builder.Build(statements)
	contradictions := p.engine.Detect(resolved.Entities, sourceIDs)
	patterns := p.detector.Detect(resolved.Entities)
	scores := p.scorer.Score(resolved.Entities, contradictions, patterns, tl)

	passHash := combinedHash(files)
	p.ledger.Append(model.ActionAnalysis, passHash, user, device,
		fmt.Sprintf("analysis pass: %d entities, %d contradictions, %d patterns",
			len(resolved.Entities), len(contradictions), len(patterns)))

	// Seal the pass, then verify the whole chain. Verification failures are
	// surfaced, logged at high severity, and never repaired.
	p.ledger.Append(model.ActionSeal, passHash, user, device, "analysis pass sealed")
	status, idx := p.ledger.Verify()
	p.ledger.Append(model.ActionVerification, passHash, user, device, string(status))
	if status != model.IntegrityVerified {
		p.ledger.Append(model.ActionTamperingDetected, passHash, user, device,
			fmt.Sprintf("custody chain %s at entry %d", status, idx))
	}

	report := &model.Report{
		CaseID:         p.ledger.CaseID(),
		SourceIDs:      sourceIDs,
		AnalyzedAt:     time.Now().UTC(),
		Statements:     statements,
		Entities:       resolved.Entities,
		Aliases:        resolved.Aliases,
		Unresolved:     resolved.Unresolved,
		Contradictions: contradictions,
		Patterns:       patterns,
		Timeline:       tl,
		Scores:         scores,
		Custody:        p.ledger.Entries(),
		Principles:     model.DefaultPrinciples(),
	}

	// Narrative generation runs AFTER scoring and never affects it.
	if p.summarizer.IsEnabled() {
		narrative, err := p.summarizer.GenerateNarrative(ctx, *report)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: narrative generation failed: %v\n", err)
		} else if narrative != nil {
			report.LLM = narrative
		}
	}

	p.storeReport(files, report)
	return report, nil
}

// VerifyCustody re-verifies the chain on demand, logging the verification
// and any detected tampering.
func (p *Pipeline) VerifyCustody() (model.IntegrityStatus, int) {
	status, idx := p.ledger.Verify()
	p.ledger.Append(model.ActionVerification, "", p.config.Custody.UserID, p.config.Custody.DeviceID, string(status))
	if status != model.IntegrityVerified {
		p.ledger.Append(model.ActionTamperingDetected, "", p.config.Custody.UserID, p.config.Custody.DeviceID,
			fmt.Sprintf("custody chain %s at entry %d", status, idx))
	}
	return status, idx
}

func (p *Pipeline) cachedReport(files []EvidenceFile) (*model.Report, bool) {
	if p.cache == nil || p.summarizer.IsEnabled() {
		return nil, false
	}
	data, ok := p.cache.Get(cacheKey(files))
	if !ok {
		return nil, false
	}
	var report model.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, false
	}
	return &report, true
}

// storeReport caches the finished report. Reports carrying the narrative
// annex are never cached: the annex is non-deterministic and must not be
// replayed into a pass that did not run a provider.
func (p *Pipeline) storeReport(files []EvidenceFile, report *model.Report) {
	if p.cache == nil || p.summarizer.IsEnabled() {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		return
	}
	_ = p.cache.Set(cacheKey(files), data, 0)
}

func cacheKey(files []EvidenceFile) string {
	var combined []byte
	for _, f := range files {
		combined = append(combined, f.Content...)
		combined = append(combined, 0)
	}
	return cache.Key(combined)
}

func combinedHash(files []EvidenceFile) string {
	var combined []byte
	for _, f := range files {
		combined = append(combined, f.Content...)
		combined = append(combined, 0)
	}
	return ledger.ContentHash(combined)
}

// RenderReport writes the report to the requested outputs.
func (p *Pipeline) RenderReport(report *model.Report, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}
	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}
	return nil
}
