// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HistoryEntry is one remembered query. The processor keeps the most
// recent entries up to its cap and the store persists them across runs.
// Per prd004-personalization R1.1.
type HistoryEntry struct {
	// Query is the raw query text as the user typed it.
	Query string `json:"query" yaml:"query"`

	// Timestamp is when the query was processed.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// Context captures the request settings that accompanied the query.
	Context QueryContext `json:"context" yaml:"context"`

	// Complexity is the analyzer's complexity score for the query, kept
	// so preference modelling can average it over recent entries.
	Complexity float64 `json:"complexity" yaml:"complexity"`
}

// Preferences is the per-user model derived from recent history.
// Per prd004-personalization R2.1-R2.2.
type Preferences struct {
	// PreferredDomains counts recent queries per recognized domain,
	// e.g. {"oncology": 3, "cardiology": 1}.
	PreferredDomains map[string]int `json:"preferred_domains" yaml:"preferred_domains"`

	// ComplexityPreference is the mean complexity of recent queries.
	ComplexityPreference float64 `json:"complexity_preference" yaml:"complexity_preference"`
}

// SearchStatus records how a search attempt ended.
type SearchStatus string

const (
	// StatusSuccess marks a search that returned normally.
	StatusSuccess SearchStatus = "success"

	// StatusError marks a search that failed before producing results.
	StatusError SearchStatus = "error"
)

// SearchRecord is the analytics log line for one search attempt.
// Per prd005-analytics R1.1-R1.3.
type SearchRecord struct {
	// ID is unique per attempt, "search_" + unix millis + "_" + short uuid.
	ID string `json:"id" yaml:"id"`

	// Timestamp is when the attempt started.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// Query is the raw query text.
	Query string `json:"query" yaml:"query"`

	// QueryLength is the whitespace-separated word count of Query.
	QueryLength int `json:"query_length" yaml:"query_length"`

	// MLEnhanced reports whether query understanding drove the search.
	MLEnhanced bool `json:"ml_enhanced" yaml:"ml_enhanced"`

	// SearchType labels the path taken: "standard" or "fallback".
	SearchType string `json:"search_type" yaml:"search_type"`

	// ResponseTime is the wall-clock duration of the attempt.
	ResponseTime time.Duration `json:"response_time" yaml:"response_time"`

	// Confidence is the response confidence, 0 for errors.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// ResultCount is the number of papers returned.
	ResultCount int `json:"result_count" yaml:"result_count"`

	// Status is success or error.
	Status SearchStatus `json:"status" yaml:"status"`

	// Explanation carries the synthesis audit trail of the response.
	Explanation []string `json:"explanation,omitempty" yaml:"explanation,omitempty"`

	// Error holds the failure message for error records.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}
