// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"strings"

	"github.com/pdiddy/medsearch/pkg/types"
)

// maxSuggestions caps the combined suggestion list (R5.3).
const maxSuggestions = 8

// Suggestions offers completions for a partial query: lexicon entries
// whose phrase starts with the lower-cased partial (confidence 0.9, in
// lexicon order), then history entries containing it (confidence 0.6,
// most recent first). Lexicon matches always precede history matches
// and the combined list is truncated to eight (R5.1-R5.3).
func (p *Processor) Suggestions(partial string) []types.Suggestion {
	needle := strings.ToLower(partial)
	var suggestions []types.Suggestion

	for _, entry := range conceptLexicon {
		if strings.HasPrefix(entry.Phrase, needle) {
			suggestions = append(suggestions, types.Suggestion{
				Text:        entry.Phrase,
				Type:        types.SuggestionLexicon,
				Description: "Search for: " + entry.Concept,
				Confidence:  0.9,
			})
		}
	}

	p.mu.Lock()
	for i := len(p.history) - 1; i >= 0; i-- {
		entry := p.history[i]
		if strings.Contains(strings.ToLower(entry.Query), needle) {
			suggestions = append(suggestions, types.Suggestion{
				Text:        entry.Query,
				Type:        types.SuggestionHistory,
				Description: "From your search history",
				Confidence:  0.6,
			})
		}
	}
	p.mu.Unlock()

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}
