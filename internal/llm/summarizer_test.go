package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/karvelis/attestor/internal/model"
	"github.com/karvelis/attestor/internal/worker"
)

// MockProvider implements the Provider interface for testing
type MockProvider struct {
	name      string
	available bool
	response  *NarrateResponse
	err       error
	lastReq   NarrateRequest
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Narrate(ctx context.Context, req NarrateRequest) (*NarrateResponse, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *MockProvider) IsAvailable(ctx context.Context) bool {
	return m.available
}

func testSummarizer(p Provider) *Summarizer {
	return &Summarizer{
		provider: p,
		config:   Config{StrictCitation: true, Model: "test-model"},
		limiter:  worker.NewLimiter(100, 10),
	}
}

func testReport() model.Report {
	return model.Report{
		CaseID: "case-7",
		Statements: []model.Statement{
			{ID: "stmt-aaa111", Text: "I never took the money."},
			{ID: "stmt-bbb222", Text: "I admit I took the money."},
		},
		Contradictions: []model.Contradiction{
			{Type: model.ContradictionDirect, Severity: model.SeverityCritical, Description: "denial vs admission"},
		},
	}
}

func TestSummarizer_NilIsDisabled(t *testing.T) {
	var s *Summarizer
	if s.IsEnabled() {
		t.Error("Expected nil summarizer to be disabled")
	}

	summary, err := s.GenerateNarrative(context.Background(), testReport())
	if err != nil {
		t.Fatalf("Expected no error from disabled summarizer, got %v", err)
	}
	if summary != nil {
		t.Error("Expected nil summary from disabled summarizer")
	}
}

func TestSummarizer_PassesStatementAllowlist(t *testing.T) {
	mock := &MockProvider{
		name:     "mock",
		response: &NarrateResponse{Narrative: "Findings [stmt-aaa111].", CitedIDs: []string{"stmt-aaa111"}, Model: "test-model"},
	}
	s := testSummarizer(mock)

	summary, err := s.GenerateNarrative(context.Background(), testReport())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(mock.lastReq.StatementIDs) != 2 {
		t.Errorf("Expected 2 allowlisted statement ids, got %v", mock.lastReq.StatementIDs)
	}
	if !summary.Enabled {
		t.Error("Expected summary marked enabled")
	}
	if len(summary.Warnings) != 0 {
		t.Errorf("Expected no warnings for in-list citations, got %v", summary.Warnings)
	}
}

func TestSummarizer_CitationLeakWarning(t *testing.T) {
	mock := &MockProvider{
		name:     "mock",
		response: &NarrateResponse{Narrative: "See [stmt-feedbeef].", CitedIDs: []string{"stmt-feedbeef"}, Model: "test-model"},
	}
	s := testSummarizer(mock)

	summary, err := s.GenerateNarrative(context.Background(), testReport())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(summary.Warnings) != 1 {
		t.Fatalf("Expected 1 citation leak warning, got %v", summary.Warnings)
	}
	if !strings.Contains(summary.Warnings[0], "stmt-feedbeef") {
		t.Errorf("Expected warning to name the leaked id, got %q", summary.Warnings[0])
	}
}

func TestSummarizer_ProviderErrorPropagates(t *testing.T) {
	mock := &MockProvider{name: "mock", err: errors.New("provider down")}
	s := testSummarizer(mock)

	if _, err := s.GenerateNarrative(context.Background(), testReport()); err == nil {
		t.Error("Expected provider error to propagate")
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	if _, err := NewProvider(Config{Provider: "carrier-pigeon"}); err == nil {
		t.Error("Expected error for unknown provider")
	}
	if _, err := NewProvider(Config{Provider: ""}); err == nil {
		t.Error("Expected error for unconfigured provider")
	}
}

func TestNewOpenAIProvider_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIProvider(Config{}); err == nil {
		t.Error("Expected error without an API key")
	}
}

func TestBuildPrompt_StrictRules(t *testing.T) {
	report := testReport()
	prompt := BuildPrompt(report, []string{"stmt-aaa111", "stmt-bbb222"})

	if !strings.Contains(prompt, "stmt-aaa111") || !strings.Contains(prompt, "stmt-bbb222") {
		t.Error("Expected the allowlist embedded in the prompt")
	}
	if !strings.Contains(prompt, "NEVER asserts guilt") {
		t.Error("Expected the no-verdict framing in the prompt")
	}
	if !strings.Contains(prompt, "denial vs admission") {
		t.Error("Expected top findings included in the prompt")
	}
}

func TestBuildPrompt_EmptyAllowlist(t *testing.T) {
	prompt := BuildPrompt(model.Report{CaseID: "c"}, nil)

	if !strings.Contains(prompt, "(no statements available)") {
		t.Error("Expected explicit empty-allowlist marker")
	}
}

func TestExtractCitedIDs(t *testing.T) {
	text := "Statement [stmt-aaa111] contradicts [stmt-bbb222], see [stmt-aaa111] again. Ignore [not-an-id]."

	ids := extractCitedIDs(text)

	if len(ids) != 2 {
		t.Fatalf("Expected 2 distinct cited ids, got %v", ids)
	}
	if ids[0] != "stmt-aaa111" || ids[1] != "stmt-bbb222" {
		t.Errorf("Expected first-seen order, got %v", ids)
	}
}
