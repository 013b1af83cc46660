package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/karvelis/attestor/internal/ledger"
	"github.com/karvelis/attestor/internal/model"
)

func testFiles() []EvidenceFile {
	deposition := "[Alice]: No deal ever existed. I never took the money.\n" +
		"[Bob]: Alice took the money from the account.\n"
	email := "[Alice]: I admit I took the money on April 15, 2023.\n"

	return []EvidenceFile{
		{ID: "deposition.txt", Type: model.SourceTranscript, Content: []byte(deposition), Text: deposition},
		{ID: "email_thread.txt", Type: model.SourceEmail, Content: []byte(email), Text: email},
	}
}

func testPipeline(cacheEnabled bool) (*Pipeline, *ledger.Ledger) {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = cacheEnabled
	led := ledger.New("case-test")
	return New(cfg, led), led
}

func TestPipeline_EndToEnd(t *testing.T) {
	p, led := testPipeline(false)

	report, err := p.Analyze(context.Background(), testFiles())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if report.CaseID != "case-test" {
		t.Errorf("Expected case id from ledger, got %s", report.CaseID)
	}
	if len(report.Statements) == 0 {
		t.Fatal("Expected extracted statements")
	}
	if len(report.Entities) < 2 {
		t.Fatalf("Expected Alice and Bob resolved, got %d entities", len(report.Entities))
	}
	if len(report.Contradictions) == 0 {
		t.Error("Expected the denial/admission pair detected")
	}
	if len(report.Scores) != len(report.Entities) {
		t.Errorf("Expected one score per entity, got %d scores for %d entities",
			len(report.Scores), len(report.Entities))
	}

	// Custody: upload and processing per file, then analysis, seal,
	// verification.
	if led.Len() < 7 {
		t.Errorf("Expected at least 7 custody entries, got %d", led.Len())
	}
	status, idx := led.Verify()
	if status != model.IntegrityVerified {
		t.Errorf("Expected custody chain VERIFIED, got %s at %d", status, idx)
	}

	if !report.Principles.Deterministic || !report.Principles.TamperEvident {
		t.Errorf("Expected principles recorded on the report, got %+v", report.Principles)
	}
	if report.LLM != nil {
		t.Error("Expected no narrative annex without a configured provider")
	}
}

func TestPipeline_CrossDocumentDetected(t *testing.T) {
	p, _ := testPipeline(false)

	report, err := p.Analyze(context.Background(), testFiles())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	found := false
	for _, c := range report.Contradictions {
		if c.Type == model.ContradictionCrossDocument {
			found = true
		}
	}
	if !found {
		t.Error("Expected a cross-document contradiction between the deposition denial and the email admission")
	}
}

func TestPipeline_DeterministicAcrossRuns(t *testing.T) {
	p1, _ := testPipeline(false)
	p2, _ := testPipeline(false)

	first, err := p1.Analyze(context.Background(), testFiles())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := p2.Analyze(context.Background(), testFiles())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(first.Statements) != len(second.Statements) {
		t.Fatalf("Expected identical statement counts, got %d and %d",
			len(first.Statements), len(second.Statements))
	}
	for i := range first.Statements {
		if first.Statements[i].ID != second.Statements[i].ID {
			t.Errorf("Statement %d: expected identical ids, got %s and %s",
				i, first.Statements[i].ID, second.Statements[i].ID)
		}
	}
	for i := range first.Contradictions {
		if first.Contradictions[i].ID != second.Contradictions[i].ID {
			t.Errorf("Contradiction %d: expected identical ids, got %s and %s",
				i, first.Contradictions[i].ID, second.Contradictions[i].ID)
		}
	}
	for id, score := range first.Scores {
		if second.Scores[id].Overall != score.Overall {
			t.Errorf("Entity %s: expected identical overall score, got %f and %f",
				id, score.Overall, second.Scores[id].Overall)
		}
	}
}

func TestPipeline_CacheServesSecondPass(t *testing.T) {
	p, led := testPipeline(true)

	first, err := p.Analyze(context.Background(), testFiles())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	entriesAfterFirst := led.Len()

	second, err := p.Analyze(context.Background(), testFiles())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(second.Statements) != len(first.Statements) {
		t.Errorf("Expected the cached report to match, got %d vs %d statements",
			len(second.Statements), len(first.Statements))
	}
	// A cache hit writes one processing entry instead of a full pass.
	if led.Len() != entriesAfterFirst+1 {
		t.Errorf("Expected exactly 1 custody entry for the cache hit, got %d new entries",
			led.Len()-entriesAfterFirst)
	}
}

func TestPipeline_EmptyInputRejected(t *testing.T) {
	p, _ := testPipeline(false)

	if _, err := p.Analyze(context.Background(), nil); err == nil {
		t.Error("Expected an error for an empty evidence set")
	}
}

func TestPipeline_VerifyCustodyLogsResult(t *testing.T) {
	p, led := testPipeline(false)

	if _, err := p.Analyze(context.Background(), testFiles()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	status, idx := p.VerifyCustody()
	if status != model.IntegrityVerified {
		t.Fatalf("Expected VERIFIED, got %s at %d", status, idx)
	}

	entries := led.Entries()
	last := entries[len(entries)-1]
	if last.Action != model.ActionVerification {
		t.Errorf("Expected a verification entry appended, got %s", last.Action)
	}
}

func TestRenderer_Markdown(t *testing.T) {
	p, _ := testPipeline(false)

	report, err := p.Analyze(context.Background(), testFiles())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	md := NewRenderer(true).Markdown(report)

	for _, section := range []string{"# Forensic Analysis Report", "## Liability Scores", "## Contradictions", "## Custody Chain"} {
		if !strings.Contains(md, section) {
			t.Errorf("Expected section %q in the Markdown report", section)
		}
	}
	if !strings.Contains(md, "Alice") {
		t.Error("Expected entity names in the Markdown report")
	}
}

func TestInferSourceType(t *testing.T) {
	cases := []struct {
		name string
		want model.SourceType
	}{
		{"deposition_2023.txt", model.SourceTranscript},
		{"email_thread.txt", model.SourceEmail},
		{"chat_export.txt", model.SourceMessage},
		{"contract.txt", model.SourceDocument},
	}
	for _, tc := range cases {
		if got := inferSourceType(tc.name); got != tc.want {
			t.Errorf("inferSourceType(%q): expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestVisibleText(t *testing.T) {
	html := `<html><head><style>body {}</style><script>var x;</script></head>
<body><p>Alice wrote this.</p><p>Bob replied.</p></body></html>`

	text := VisibleText(html)

	if !strings.Contains(text, "Alice wrote this.") || !strings.Contains(text, "Bob replied.") {
		t.Errorf("Expected visible text preserved, got %q", text)
	}
	if strings.Contains(text, "var x") || strings.Contains(text, "body {}") {
		t.Errorf("Expected script and style content stripped, got %q", text)
	}
}

func TestPipeline_NarrativeReportsNotCached(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response":"The record shows an admission.","done":true}`)
	}))
	defer srv.Close()

	dir := t.TempDir()
	files := testFiles()

	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = true
	cfg.Cache.Dir = dir
	cfg.LLM.Provider = "ollama"
	cfg.LLM.BaseURL = srv.URL
	p := New(cfg, ledger.New("case-narrative"))

	report, err := p.Analyze(context.Background(), files)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if report.LLM == nil {
		t.Fatal("Expected narrative annex on the report")
	}
	if _, ok := p.cache.Get(cacheKey(files)); ok {
		t.Error("Expected narrative-bearing report to stay out of the cache")
	}

	// A later pass without a provider runs fresh instead of replaying an
	// annex that claims a provider ran.
	cfg2 := model.DefaultConfig()
	cfg2.Cache.Enabled = true
	cfg2.Cache.Dir = dir
	led2 := ledger.New("case-narrative")
	p2 := New(cfg2, led2)

	report2, err := p2.Analyze(context.Background(), files)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if report2.LLM != nil {
		t.Error("Expected no narrative annex without a provider")
	}
	if led2.Len() < 7 {
		t.Errorf("Expected a full fresh pass, got %d custody entries", led2.Len())
	}
}
