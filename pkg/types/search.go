// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the medsearch pipeline.
// Implements: prd001-query-understanding (SearchParameters, R3.1-R3.6);
//
//	prd002-retrieval (PaperSummary, SearchResponse);
//	prd003-ranking (ScoredPaper, R1.1);
//	prd004-personalization (HistoryEntry, QueryContext);
//	prd005-analytics (SearchRecord, R1.1-R1.3).
//
// See docs/ARCHITECTURE.md § Pipeline Interface, § Data Structures.
package types

import "time"

// SortOrder selects how the retrieval provider orders results.
// Per prd001-query-understanding R3.4.
type SortOrder string

const (
	// SortRelevance is the default provider-side ordering.
	SortRelevance SortOrder = "relevance"

	// SortDate orders by publication date, chosen for epidemiological queries.
	SortDate SortOrder = "publication date"
)

// Focus identifies the most salient canonical concept in a query and any
// secondary concepts, with a confidence for the primary pick.
// Per prd001-query-understanding R2.4.
type Focus struct {
	// Primary is the canonical concept name, or empty when no concept
	// was recognized. Confidence is 0 in that case.
	Primary string `json:"primary,omitempty" yaml:"primary,omitempty"`

	// Secondary lists the remaining recognized concepts in extraction order.
	Secondary []string `json:"secondary,omitempty" yaml:"secondary,omitempty"`

	// Confidence is 0.9 when a primary concept exists, 0 otherwise.
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// DateRange restricts retrieval to publications on or after Start.
type DateRange struct {
	Start time.Time `json:"start" yaml:"start"`
}

// AdvancedOptions carries the structured retrieval refinements that ride
// alongside the boolean query string. Per prd001-query-understanding R3.3.
type AdvancedOptions struct {
	// MeshTerms lists the controlled-vocabulary terms folded into Query.
	MeshTerms []string `json:"mesh_terms" yaml:"mesh_terms"`

	// FieldRestrictions limits matching to named record fields.
	FieldRestrictions []string `json:"field_restrictions" yaml:"field_restrictions"`

	// DateRange is nil unless urgency indicators promoted recent work.
	DateRange *DateRange `json:"date_range,omitempty" yaml:"date_range,omitempty"`

	// StudyTypes holds publication-type labels used for the ranking bonus
	// and the provider-side publication-type clause.
	StudyTypes []string `json:"study_types" yaml:"study_types"`

	// Languages defaults to ["eng"]; the provider applies the filter.
	Languages []string `json:"languages" yaml:"languages"`
}

// SearchParameters is the structured output of query understanding: a
// boolean query string plus filters, ordering, focus, and an audit trail.
// Per prd001-query-understanding R3.1-R3.6.
type SearchParameters struct {
	// Query is the boolean expression sent to the retrieval provider.
	// Empty when no concept or synonym clause could be built; callers
	// fall back to a quoted free-text clause.
	Query string `json:"query" yaml:"query"`

	// Filters maps provider filter names to comma-separated values.
	Filters map[string]string `json:"filters" yaml:"filters"`

	// Sort selects provider-side ordering.
	Sort SortOrder `json:"sort" yaml:"sort"`

	// Advanced holds structured refinements.
	Advanced AdvancedOptions `json:"advanced" yaml:"advanced"`

	// Focus carries the recognized concepts so the ranker can reward
	// documents mentioning the primary concept.
	Focus Focus `json:"focus" yaml:"focus"`

	// Confidence estimates how well the query was understood, in [0,1].
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Explanation is an append-only trail of synthesis decisions, in the
	// order they were made.
	Explanation []string `json:"explanation" yaml:"explanation"`
}

// QueryContext carries per-request settings that accompany a query through
// the pipeline. All fields are optional. Per prd004-personalization R1.2.
type QueryContext struct {
	// Offset and Limit form the retrieval paging window.
	Offset int `json:"offset,omitempty" yaml:"offset,omitempty"`
	Limit  int `json:"limit,omitempty" yaml:"limit,omitempty"`

	// Filters are caller-supplied provider filters, merged verbatim.
	Filters map[string]string `json:"filters,omitempty" yaml:"filters,omitempty"`

	// Languages overrides the default ["eng"] language filter.
	Languages []string `json:"languages,omitempty" yaml:"languages,omitempty"`

	// Timestamp is when the request was received. Zero means "now".
	Timestamp time.Time `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

// SuggestionType distinguishes where a suggestion came from.
type SuggestionType string

const (
	// SuggestionLexicon marks suggestions drawn from the concept lexicon.
	SuggestionLexicon SuggestionType = "lexicon"

	// SuggestionHistory marks suggestions drawn from past queries.
	SuggestionHistory SuggestionType = "history"
)

// Suggestion is one completion offered for a partial query.
// Per prd001-query-understanding R5.1-R5.3.
type Suggestion struct {
	// Text is the suggested query text.
	Text string `json:"text" yaml:"text"`

	// Type records the source: lexicon or history.
	Type SuggestionType `json:"type" yaml:"type"`

	// Description names the canonical concept for lexicon suggestions or
	// notes the history origin.
	Description string `json:"description" yaml:"description"`

	// Confidence is 0.9 for lexicon suggestions, 0.6 for history ones.
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// SearchResponse is the engine's answer to one search request: ranked
// papers plus provenance about how the query was handled.
// Per prd002-retrieval R6.1.
type SearchResponse struct {
	// Papers holds the ranked results, highest relevance first.
	Papers []ScoredPaper `json:"papers" yaml:"papers"`

	// Total is the provider's full hit count, which may exceed len(Papers).
	Total int `json:"total" yaml:"total"`

	// MLEnhanced reports whether the enriched query produced the results.
	// False when a fallback tier answered.
	MLEnhanced bool `json:"ml_enhanced" yaml:"ml_enhanced"`

	// Confidence mirrors the parameters' confidence, degraded by fallback
	// tiers: 0.3 for keyword fallback, 0 for an empty final answer.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Explanation carries the synthesis audit trail.
	Explanation []string `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}
