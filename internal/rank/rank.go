// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank orders retrieved papers by estimated relevance to the
// original query and the synthesized parameters.
// Implements: prd003-ranking (R1-R4);
//
//	docs/ARCHITECTURE § Ranking.
package rank

import (
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/medsearch/pkg/types"
)

// recencyYears is how far back the publication-year bonus reaches.
const recencyYears = 2

// Rank scores every paper and returns them in descending score order.
// The sort is stable: ties keep their retrieval order, which carries
// the provider's own relevance signal (R3.1). now anchors the recency
// bonus so callers can inject a fixed clock. Pure function; empty input
// yields empty output.
func Rank(papers []types.PaperSummary, params types.SearchParameters, originalQuery string, now time.Time) []types.ScoredPaper {
	scored := make([]types.ScoredPaper, 0, len(papers))
	for _, paper := range papers {
		scored = append(scored, types.ScoredPaper{
			PaperSummary:   paper,
			RelevanceScore: Score(paper, params, originalQuery, now),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})
	return scored
}

// Score computes one paper's relevance in [0,1]: base 0.5, weighted
// title and abstract relevance, a recency bonus, and a study-type
// bonus applied at most once (R1.1-R1.4).
func Score(paper types.PaperSummary, params types.SearchParameters, originalQuery string, now time.Time) float64 {
	score := 0.5
	query := strings.ToLower(originalQuery)

	score += 0.4 * textRelevance(strings.ToLower(paper.Title), query, params)
	score += 0.3 * textRelevance(strings.ToLower(paper.Abstract), query, params)

	if paper.Year != 0 && paper.Year >= now.Year()-recencyYears {
		score += 0.1
	}

	if len(params.Advanced.StudyTypes) > 0 {
		for _, pubType := range paper.PublicationTypes {
			if matchesStudyType(pubType, params.Advanced.StudyTypes) {
				score += 0.2
				break
			}
		}
	}

	return clamp01(score)
}

func matchesStudyType(pubType string, studyTypes []string) bool {
	pubType = strings.ToLower(pubType)
	for _, st := range studyTypes {
		if strings.Contains(pubType, strings.ToLower(st)) {
			return true
		}
	}
	return false
}

// textRelevance measures how well a lower-cased text matches the
// lower-cased query: verbatim substring, per-word overlap for words
// longer than two characters, and a focus-concept mention (R2.1-R2.3).
// Words of two characters or fewer never match but still count in the
// denominator.
func textRelevance(text, query string, params types.SearchParameters) float64 {
	relevance := 0.0

	if strings.Contains(text, query) {
		relevance += 0.8
	}

	words := strings.Fields(query)
	if len(words) > 0 {
		matched := 0
		for _, word := range words {
			if len(word) > 2 && strings.Contains(text, word) {
				matched++
			}
		}
		relevance += 0.6 * float64(matched) / float64(len(words))
	}

	if params.Focus.Primary != "" && strings.Contains(text, strings.ToLower(params.Focus.Primary)) {
		relevance += 0.3
	}

	return clamp01(relevance)
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
