// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/medsearch/pkg/types"
)

// Explanation strings appended by the synthesis rules, in rule order.
const (
	explainTreatment = "Focusing on treatment studies"
	explainUrgency   = "Prioritizing recent publications due to urgency indicators"
	explainEpidem    = "Sorting by date for epidemiological trends"
)

// recentWindow is how far back the urgency date filter reaches.
const recentWindow = 365 * 24 * time.Hour

// MeshClause formats a MeSH-field query clause for a concept.
func MeshClause(concept string) string {
	return fmt.Sprintf(`"%s"[MeSH Terms]`, concept)
}

// KeywordClause formats a quoted Title/Abstract clause for free text.
// Used for synonym expansion and as the fallback query shape.
func KeywordClause(text string) string {
	return fmt.Sprintf(`"%s"[Title/Abstract]`, text)
}

// Synthesize turns a semantic analysis into retrieval parameters: a
// boolean query string, filters, sort order, and a confidence with an
// explanation trail. now anchors the urgency date filter so callers can
// inject a fixed clock. Per prd001-query-understanding R3.1-R3.6.
func Synthesize(analysis Analysis, ctx types.QueryContext, now time.Time) types.SearchParameters {
	params := types.SearchParameters{
		Filters:     map[string]string{},
		Sort:        types.SortRelevance,
		Focus:       analysis.Focus,
		Explanation: []string{},
	}
	params.Advanced.Languages = []string{"eng"}
	if len(ctx.Languages) > 0 {
		params.Advanced.Languages = ctx.Languages
	}
	for k, v := range ctx.Filters {
		params.Filters[k] = v
	}

	var parts []string
	if analysis.Focus.Primary != "" {
		parts = append(parts, MeshClause(analysis.Focus.Primary))
	}
	for _, concept := range analysis.Focus.Secondary {
		parts = append(parts, MeshClause(concept))
	}
	for _, expansion := range analysis.Synonyms {
		for _, synonym := range expansion.Synonyms {
			parts = append(parts, KeywordClause(synonym))
		}
	}
	params.Query = strings.Join(parts, " OR ")

	if hasIntent(analysis.Intent, "treatment") {
		params.Filters["publication_type"] = "clinical trial,randomized controlled trial"
		params.Explanation = append(params.Explanation, explainTreatment)
	}
	if analysis.Sentiment.Urgency > 0.7 {
		params.Advanced.DateRange = &types.DateRange{Start: now.Add(-recentWindow)}
		params.Explanation = append(params.Explanation, explainUrgency)
	}
	if hasIntent(analysis.Intent, "epidemiology") {
		params.Sort = types.SortDate
		params.Explanation = append(params.Explanation, explainEpidem)
	}

	params.Confidence = searchConfidence(analysis)
	return params
}

func hasIntent(intents []IntentScore, label string) bool {
	for _, intent := range intents {
		if intent.Type == label {
			return true
		}
	}
	return false
}

// searchConfidence scores how well the query was understood: base 0.5,
// +0.3 for a primary focus, +0.2 when the strongest intent exceeds 0.7,
// -0.1 when uncertainty exceeds 0.6, clamped to [0,1].
func searchConfidence(analysis Analysis) float64 {
	confidence := 0.5
	if analysis.Focus.Primary != "" {
		confidence += 0.3
	}
	var top float64
	for _, intent := range analysis.Intent {
		top = max(top, intent.Confidence)
	}
	if top > 0.7 {
		confidence += 0.2
	}
	if analysis.Sentiment.Uncertainty > 0.6 {
		confidence -= 0.1
	}
	return clamp01(confidence)
}
