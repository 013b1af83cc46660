package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/karvelis/attestor/internal/ledger"
	"github.com/karvelis/attestor/internal/model"
	"github.com/karvelis/attestor/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	outJSON     string
	outMD       string
	outLedger   string
	caseID      string
	sourceType  string
	actorHint   string
	userID      string
	deviceID    string
	noCache     bool
	noFooter    bool
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>...",
	Short: "Analyze evidence files and generate a forensic report",
	Long: `Analyze runs a complete forensic pass over one or more evidence files:
- Extract and classify attributable statements
- Resolve actors, organizations, and aliases
- Detect contradictions and behavioral manipulation patterns
- Reconstruct the chronology of events
- Apportion liability deterministically (0-100 per entity)
- Record every action in the tamper-evident custody ledger

Passing several files enables cross-document contradiction detection.

Example:
  attestor analyze deposition.txt
  attestor analyze email_thread.html chat_export.txt --json report.json --md report.md
  attestor analyze transcript.txt --ledger custody.json --llm openai`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().StringVar(&outLedger, "ledger", "", "export the custody ledger to this path (optional)")

	// Case flags
	analyzeCmd.Flags().StringVar(&caseID, "case", "", "case id (default: generated)")
	analyzeCmd.Flags().StringVar(&sourceType, "source-type", "", "override source type (document, email, message, transcript)")
	analyzeCmd.Flags().StringVar(&actorHint, "actor", "", "default actor for unattributed lines")
	analyzeCmd.Flags().StringVar(&userID, "user", "", "custody user id")
	analyzeCmd.Flags().StringVar(&deviceID, "device", "", "custody device id")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the analysis cache")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// LLM flags
	analyzeCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM narrative generation")
	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing %d evidence file(s)\n", len(args))
		fmt.Fprintf(os.Stderr, "Cache: %v\n\n", cfg.Cache.Enabled)
	}

	var files []pipeline.EvidenceFile
	for _, path := range args {
		f, err := pipeline.LoadFile(path, model.SourceType(sourceType), actorHint)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		files = append(files, f)
	}

	led := ledger.New(caseID)
	p := pipeline.New(cfg, led)

	report, err := p.Analyze(ctx, files)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	if err := p.RenderReport(report, outJSON, outMD, verbose); err != nil {
		return err
	}

	if outLedger != "" {
		if err := exportLedger(led, outLedger, cfg); err != nil {
			return err
		}
		if verbose {
			fmt.Printf("✓ Wrote ledger: %s\n", outLedger)
		}
	}

	printSummary(report)
	return nil
}

// buildConfig resolves configuration precedence: built-in defaults, then
// the config file and ATTESTOR_* environment, then CLI flags.
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	registerDefaults(cfg)
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if noCache {
		cfg.Cache.Enabled = false
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
	if userID != "" {
		cfg.Custody.UserID = userID
	}
	if deviceID != "" {
		cfg.Custody.DeviceID = deviceID
	}

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
		cfg.LLM.StrictCitation = true // Always enforce
	}

	switch cfg.LLM.Provider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	return cfg, nil
}

// registerDefaults makes every config key known to viper so config-file and
// ATTESTOR_* environment values resolve against the built-in defaults.
func registerDefaults(def *model.Config) {
	viper.SetDefault("resolver.email_confidence", def.Resolver.EmailConfidence)
	viper.SetDefault("resolver.name_confidence", def.Resolver.NameConfidence)
	viper.SetDefault("resolver.org_confidence", def.Resolver.OrgConfidence)
	viper.SetDefault("resolver.pronoun_confidence", def.Resolver.PronounConfidence)
	viper.SetDefault("resolver.relation_confidence", def.Resolver.RelationConfidence)
	viper.SetDefault("resolver.min_phone_digits", def.Resolver.MinPhoneDigits)
	viper.SetDefault("scoring.contradiction_weight", def.Scoring.ContradictionWeight)
	viper.SetDefault("scoring.behavioral_weight", def.Scoring.BehavioralWeight)
	viper.SetDefault("scoring.evidence_weight", def.Scoring.EvidenceWeight)
	viper.SetDefault("scoring.chronology_weight", def.Scoring.ChronologyWeight)
	viper.SetDefault("scoring.causal_weight", def.Scoring.CausalWeight)
	viper.SetDefault("contradict.min_shared_keywords", def.Contradict.MinSharedKeywords)
	viper.SetDefault("contradict.adjacency_window", def.Contradict.AdjacencyWindow)
	viper.SetDefault("concurrency.workers", def.Concurrency.Workers)
	viper.SetDefault("cache.enabled", def.Cache.Enabled)
	viper.SetDefault("cache.dir", def.Cache.Dir)
	viper.SetDefault("cache.memory_ttl", def.Cache.MemoryTTL)
	viper.SetDefault("cache.disk_ttl", def.Cache.DiskTTL)
	viper.SetDefault("custody.user_id", def.Custody.UserID)
	viper.SetDefault("custody.device_id", def.Custody.DeviceID)
	viper.SetDefault("output.verbose", def.Output.Verbose)
	viper.SetDefault("output.include_footer", def.Output.IncludeFooter)
	viper.SetDefault("llm.provider", def.LLM.Provider)
	viper.SetDefault("llm.model", def.LLM.Model)
	viper.SetDefault("llm.base_url", def.LLM.BaseURL)
	viper.SetDefault("llm.timeout_sec", def.LLM.TimeoutSec)
	viper.SetDefault("llm.max_tokens", def.LLM.MaxTokens)
	viper.SetDefault("llm.strict_citation", def.LLM.StrictCitation)
	viper.SetDefault("llm.rate_per_sec", def.LLM.RatePerSec)
}

func exportLedger(led *ledger.Ledger, path string, cfg *model.Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create ledger file: %w", err)
	}
	defer f.Close()
	led.Append(model.ActionExport, "", cfg.Custody.UserID, cfg.Custody.DeviceID, "ledger exported to "+path)
	return led.Export(f)
}

func printSummary(report *model.Report) {
	fmt.Printf("\nCase %s: %d statements, %d entities, %d contradictions, %d patterns\n",
		report.CaseID, len(report.Statements), len(report.Entities),
		len(report.Contradictions), len(report.Patterns))

	for _, entity := range report.Entities {
		if s, ok := report.Scores[entity.ID]; ok {
			fmt.Printf("  %-30s liability %.1f/100\n", entity.Name, s.Overall)
		}
	}
}
