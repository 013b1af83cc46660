package model

import "time"

// Config is the complete Attestor configuration. Values load from
// ~/.attestor/config.yaml, ATTESTOR_* environment variables, and CLI flags.
type Config struct {
	Resolver    ResolverConfig    `yaml:"resolver" mapstructure:"resolver"`
	Scoring     ScoringConfig     `yaml:"scoring" mapstructure:"scoring"`
	Contradict  ContradictConfig  `yaml:"contradict" mapstructure:"contradict"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Custody     CustodyConfig     `yaml:"custody" mapstructure:"custody"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
}

// ResolverConfig carries the entity discovery and alias resolution
// thresholds. These are heuristic constants without documented derivation;
// they are kept overridable rather than given stronger semantics.
type ResolverConfig struct {
	EmailConfidence    float64 `yaml:"email_confidence" mapstructure:"email_confidence"`       // Default 0.95
	NameConfidence     float64 `yaml:"name_confidence" mapstructure:"name_confidence"`         // Default 0.75
	OrgConfidence      float64 `yaml:"org_confidence" mapstructure:"org_confidence"`           // Default 0.70
	PronounConfidence  float64 `yaml:"pronoun_confidence" mapstructure:"pronoun_confidence"`   // Default 0.70
	RelationConfidence float64 `yaml:"relation_confidence" mapstructure:"relation_confidence"` // Default 0.60
	MinPhoneDigits     int     `yaml:"min_phone_digits" mapstructure:"min_phone_digits"`       // Default 10
}

// ScoringConfig carries the liability sub-score weights. Weights sum to 1.0.
type ScoringConfig struct {
	ContradictionWeight float64 `yaml:"contradiction_weight" mapstructure:"contradiction_weight"`
	BehavioralWeight    float64 `yaml:"behavioral_weight" mapstructure:"behavioral_weight"`
	EvidenceWeight      float64 `yaml:"evidence_weight" mapstructure:"evidence_weight"`
	ChronologyWeight    float64 `yaml:"chronology_weight" mapstructure:"chronology_weight"`
	CausalWeight        float64 `yaml:"causal_weight" mapstructure:"causal_weight"`
}

// ContradictConfig tunes the contradiction engine.
type ContradictConfig struct {
	// MinSharedKeywords is how many content words two statements must share
	// to be treated as referencing the same underlying fact.
	MinSharedKeywords int `yaml:"min_shared_keywords" mapstructure:"min_shared_keywords"`
	// AdjacencyWindow bounds how far apart two statements may be dated and
	// still count as temporally adjacent for BEHAVIORAL detection.
	AdjacencyWindow time.Duration `yaml:"adjacency_window" mapstructure:"adjacency_window"`
}

// ConcurrencyConfig controls batch parallelism.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"` // Batch analysis workers
}

// CacheConfig controls the analysis report cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// CustodyConfig identifies who and what is writing custody entries.
type CustodyConfig struct {
	UserID   string `yaml:"user_id" mapstructure:"user_id"`
	DeviceID string `yaml:"device_id" mapstructure:"device_id"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// LLMConfig configures the optional narrative summarizer.
type LLMConfig struct {
	Provider       string  `yaml:"provider" mapstructure:"provider"` // openai, ollama, "" = disabled
	Model          string  `yaml:"model" mapstructure:"model"`
	APIKey         string  `yaml:"-" mapstructure:"-"` // Environment only, never persisted
	BaseURL        string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSec     int     `yaml:"timeout_sec" mapstructure:"timeout_sec"`
	MaxTokens      int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	StrictCitation bool    `yaml:"strict_citation" mapstructure:"strict_citation"`
	RatePerSec     float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"` // Batch-mode request rate
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Resolver: ResolverConfig{
			EmailConfidence:    0.95,
			NameConfidence:     0.75,
			OrgConfidence:      0.70,
			PronounConfidence:  0.70,
			RelationConfidence: 0.60,
			MinPhoneDigits:     10,
		},
		Scoring: ScoringConfig{
			ContradictionWeight: 0.35,
			BehavioralWeight:    0.20,
			EvidenceWeight:      0.15,
			ChronologyWeight:    0.15,
			CausalWeight:        0.15,
		},
		Contradict: ContradictConfig{
			MinSharedKeywords: 1,
			AdjacencyWindow:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Custody: CustodyConfig{
			UserID:   "analyst",
			DeviceID: "cli",
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
		LLM: LLMConfig{
			Provider:       "",
			Model:          "",
			TimeoutSec:     30,
			MaxTokens:      1000,
			StrictCitation: true,
			RatePerSec:     1,
		},
	}
}
