// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"strings"

	"github.com/pdiddy/medsearch/pkg/types"
)

// IntentScore is one classified intent with its fixed confidence.
type IntentScore struct {
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// Sentiment holds the urgency, uncertainty, and specificity scores.
// Each probe is binary, mapped onto a fixed scalar.
type Sentiment struct {
	Urgency     float64 `json:"urgency"`
	Uncertainty float64 `json:"uncertainty"`
	Specificity float64 `json:"specificity"`
}

// SynonymExpansion lists the Title/Abstract expansions for one term
// found in the query. Relevance is an annotation, not consumed downstream.
type SynonymExpansion struct {
	Original  string   `json:"original"`
	Synonyms  []string `json:"synonyms"`
	Relevance float64  `json:"relevance"`
}

// RelatedConcepts pairs a recognized concept with its neighbors in the
// concept-relation table.
type RelatedConcepts struct {
	Primary string   `json:"primary"`
	Related []string `json:"related"`
}

// Analysis is the full semantic reading of one query. Derived fresh per
// query, never persisted. Per prd001-query-understanding R2.1-R2.6.
type Analysis struct {
	Intent     []IntentScore      `json:"intent"`
	Sentiment  Sentiment          `json:"sentiment"`
	Complexity float64            `json:"complexity"`
	Focus      types.Focus        `json:"focus"`
	Synonyms   []SynonymExpansion `json:"synonyms"`
	Related    []RelatedConcepts  `json:"related_terms"`
}

// Analyze derives intents, sentiment, complexity, focus, synonym
// expansions, and related concepts from a normalized query and its
// extracted entities. Deterministic: same input, same output.
func Analyze(normalized string, entities EntityBundle) Analysis {
	return Analysis{
		Intent:     classifyIntent(normalized),
		Sentiment:  analyzeSentiment(normalized),
		Complexity: assessComplexity(normalized, entities),
		Focus:      determineFocus(entities),
		Synonyms:   expandSynonyms(normalized),
		Related:    relatedConcepts(entities),
	}
}

// classifyIntent is multi-label over the eight intent categories, fixed
// confidence 0.8 each. Falls back to a single general intent at 0.5.
func classifyIntent(normalized string) []IntentScore {
	var intents []IntentScore
	for _, entry := range intentPatterns {
		if entry.pattern.MatchString(normalized) {
			intents = append(intents, IntentScore{Type: entry.Label, Confidence: 0.8})
		}
	}
	if len(intents) == 0 {
		intents = []IntentScore{{Type: "general", Confidence: 0.5}}
	}
	return intents
}

func analyzeSentiment(normalized string) Sentiment {
	s := Sentiment{Urgency: 0.2, Uncertainty: 0.3, Specificity: 0.5}
	if urgencyPattern.MatchString(normalized) {
		s.Urgency = 0.8
	}
	if uncertaintyPattern.MatchString(normalized) {
		s.Uncertainty = 0.7
	}
	if specificityPattern.MatchString(normalized) {
		s.Specificity = 0.9
	}
	return s
}

// assessComplexity combines word count, entity count, and the presence
// of a boolean connective, clamped to [0,1].
func assessComplexity(normalized string, entities EntityBundle) float64 {
	words := len(strings.Fields(normalized))
	complexity := min(float64(words)*0.1, 1)
	complexity += min(float64(entities.Count())*0.15, 1)
	if booleanPattern.MatchString(normalized) {
		complexity += 0.3
	}
	return min(complexity, 1)
}

// determineFocus picks the first recognized concept as primary at
// confidence 0.9; the rest become secondary in extraction order.
func determineFocus(entities EntityBundle) types.Focus {
	var focus types.Focus
	if len(entities.MeshTerms) == 0 {
		return focus
	}
	focus.Primary = entities.MeshTerms[0].Concept
	focus.Confidence = 0.9
	for _, term := range entities.MeshTerms[1:] {
		focus.Secondary = append(focus.Secondary, term.Concept)
	}
	return focus
}

func expandSynonyms(normalized string) []SynonymExpansion {
	var expanded []SynonymExpansion
	for _, entry := range synonymTable {
		if strings.Contains(normalized, entry.Term) {
			expanded = append(expanded, SynonymExpansion{
				Original:  entry.Term,
				Synonyms:  entry.Synonyms,
				Relevance: 0.7,
			})
		}
	}
	return expanded
}

func relatedConcepts(entities EntityBundle) []RelatedConcepts {
	var related []RelatedConcepts
	for _, term := range entities.MeshTerms {
		if neighbors, ok := conceptRelations[term.Concept]; ok {
			related = append(related, RelatedConcepts{Primary: term.Concept, Related: neighbors})
		}
	}
	return related
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
