package model

import "time"

// Config is the full runtime configuration tree. Values are populated from
// defaults, then ~/.veracity/config.yaml, then VERACITY_* environment
// variables, then CLI flags.
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	HTTP      HTTPConfig      `yaml:"http" mapstructure:"http"`
	Reference ReferenceConfig `yaml:"reference" mapstructure:"reference"`
	Verify    VerifyConfig    `yaml:"verify" mapstructure:"verify"`
	Detect    DetectConfig    `yaml:"detect" mapstructure:"detect"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr       string        `yaml:"addr" mapstructure:"addr"`
	SessionTTL time.Duration `yaml:"session_ttl" mapstructure:"session_ttl"` // idle TTL for conversation history
}

// HTTPConfig configures outbound reference-source requests
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// ReferenceConfig configures the reference knowledge source
type ReferenceConfig struct {
	Language      string  `yaml:"language" mapstructure:"language"`
	BaseURL       string  `yaml:"base_url,omitempty" mapstructure:"base_url"` // override for tests/mirrors
	RatePerSecond float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst     int     `yaml:"rate_burst" mapstructure:"rate_burst"`
	RespectRobots bool    `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// VerifyConfig holds the claim-verification tunables
type VerifyConfig struct {
	Workers          int     `yaml:"workers" mapstructure:"workers"`                     // concurrent reference lookups per turn
	NumericTolerance float64 `yaml:"numeric_tolerance" mapstructure:"numeric_tolerance"` // relative tolerance for "similar value" matches
	MinSearchKeyLen  int     `yaml:"min_search_key_len" mapstructure:"min_search_key_len"`
}

// DetectConfig holds the contradiction-detection tunables. The divergence
// thresholds and word-overlap minimums are hand-tuned; they are surfaced
// here so deployments can adjust them without a rebuild.
type DetectConfig struct {
	DivergencePercent     float64 `yaml:"divergence_percent" mapstructure:"divergence_percent"`           // flag numeric pairs above this
	HighDivergencePercent float64 `yaml:"high_divergence_percent" mapstructure:"high_divergence_percent"` // escalate severity above this
	SubjectLeadWords      int     `yaml:"subject_lead_words" mapstructure:"subject_lead_words"`           // sentence prefix compared for same-subject
	MinSharedLeadWords    int     `yaml:"min_shared_lead_words" mapstructure:"min_shared_lead_words"`
	TokenOverlapRatio     float64 `yaml:"token_overlap_ratio" mapstructure:"token_overlap_ratio"` // similarity cutoff for "X is Y" rule
}

// CacheConfig configures reference-page caching
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL             time.Duration `yaml:"ttl" mapstructure:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
}

// LLMConfig configures the upstream generation provider
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "openai", "mock"
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"` // OpenAI-compatible gateways (e.g. Ollama)
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"`             // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:       ":8080",
			SessionTTL: 2 * time.Hour,
		},
		HTTP: HTTPConfig{
			Timeout:      15 * time.Second,
			UserAgent:    "Veracity/0.1 (+https://github.com/ppiankov/veracity)",
			MaxBodyBytes: 2_000_000,
		},
		Reference: ReferenceConfig{
			Language:      "en",
			RatePerSecond: 5,
			RateBurst:     5,
			RespectRobots: true,
		},
		Verify: VerifyConfig{
			Workers:          4,
			NumericTolerance: 0.10,
			MinSearchKeyLen:  2,
		},
		Detect: DetectConfig{
			DivergencePercent:     20,
			HighDivergencePercent: 50,
			SubjectLeadWords:      5,
			MinSharedLeadWords:    2,
			TokenOverlapRatio:     0.5,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             1 * time.Hour,
			CleanupInterval: 10 * time.Minute,
		},
		LLM: LLMConfig{
			Provider:  "mock",
			Model:     "",
			Timeout:   30,
			MaxTokens: 1000,
		},
	}
}
