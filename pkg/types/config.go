package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "medsearch/0.1"). Per prd002-retrieval R5.4.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// RetrievalConfig holds settings for the retrieval stage.
// Per prd002-retrieval R1.3, R5.1-R5.5.
type RetrievalConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is an optional E-utilities key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Email identifies the caller to the provider, per its etiquette rules.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// Tool is the client name reported alongside Email (default "medsearch").
	Tool string `json:"tool" yaml:"tool"`

	// MaxResults is the default page size for searches (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// FetchAbstracts controls whether full abstracts are fetched for the
	// result page. Summary endpoints do not include them.
	FetchAbstracts bool `json:"fetch_abstracts" yaml:"fetch_abstracts"`

	// RecencyBiasWindow is the time window for boosting recent papers (default 2 years).
	RecencyBiasWindow time.Duration `json:"recency_bias_window" yaml:"recency_bias_window"`
}

// StoreConfig holds settings for the user-data store.
// Per prd004-personalization R3.1-R3.3.
type StoreConfig struct {
	// DataDir is the base directory for user data (contains medsearch.db).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// HistoryLimit caps remembered queries (default 100, oldest dropped first).
	HistoryLimit int `json:"history_limit" yaml:"history_limit"`
}

// AnalyticsConfig holds settings for the analytics stage.
// Per prd005-analytics R2.2, R4.1.
type AnalyticsConfig struct {
	// TrendingWindow is how far back trending-term aggregation looks (default 7 days).
	TrendingWindow time.Duration `json:"trending_window" yaml:"trending_window"`

	// TopTerms is how many trending terms reports include (default 10).
	TopTerms int `json:"top_terms" yaml:"top_terms"`
}

// EvalConfig holds settings for the evaluation harness.
// Per prd006-evaluation R2.1-R2.3.
type EvalConfig struct {
	// Workers is the pool size for concurrent golden-query runs (default 4).
	Workers int `json:"workers" yaml:"workers"`

	// MinAccuracy is the pass threshold for a suite run (default 0.8).
	MinAccuracy float64 `json:"min_accuracy" yaml:"min_accuracy"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Retrieval RetrievalConfig `json:"retrieval" yaml:"retrieval"`
	Store     StoreConfig     `json:"store" yaml:"store"`
	Analytics AnalyticsConfig `json:"analytics" yaml:"analytics"`
	Eval      EvalConfig      `json:"eval" yaml:"eval"`
}
