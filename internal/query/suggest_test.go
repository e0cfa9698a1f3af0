package query

import (
	"testing"

	"github.com/pdiddy/medsearch/pkg/types"
)

func TestSuggestionsLexicon(t *testing.T) {
	p := NewProcessor(WithClock(fixedClock()))
	suggestions := p.Suggestions("diab")

	if len(suggestions) != 1 {
		t.Fatalf("len(suggestions) = %d, want 1: %+v", len(suggestions), suggestions)
	}
	got := suggestions[0]
	if got.Text != "diabetes" {
		t.Errorf("Text = %q, want diabetes", got.Text)
	}
	if got.Type != types.SuggestionLexicon {
		t.Errorf("Type = %q, want lexicon", got.Type)
	}
	if got.Description != "Search for: Diabetes Mellitus" {
		t.Errorf("Description = %q", got.Description)
	}
	if got.Confidence != 0.9 {
		t.Errorf("Confidence = %v, want 0.9", got.Confidence)
	}
}

func TestSuggestionsLexiconBeforeHistory(t *testing.T) {
	p := NewProcessor(WithClock(fixedClock()))
	p.ProcessQuery("diabetic retinopathy screening", types.QueryContext{})

	suggestions := p.Suggestions("diab")
	if len(suggestions) != 2 {
		t.Fatalf("len(suggestions) = %d, want 2: %+v", len(suggestions), suggestions)
	}
	if suggestions[0].Type != types.SuggestionLexicon {
		t.Errorf("first suggestion type = %q, want lexicon", suggestions[0].Type)
	}
	if suggestions[1].Type != types.SuggestionHistory {
		t.Errorf("second suggestion type = %q, want history", suggestions[1].Type)
	}
	if suggestions[1].Text != "diabetic retinopathy screening" {
		t.Errorf("history suggestion = %q", suggestions[1].Text)
	}
	if suggestions[1].Confidence != 0.6 {
		t.Errorf("history confidence = %v, want 0.6", suggestions[1].Confidence)
	}
	if suggestions[1].Description != "From your search history" {
		t.Errorf("history description = %q", suggestions[1].Description)
	}
}

func TestSuggestionsHistoryMostRecentFirst(t *testing.T) {
	p := NewProcessor(WithClock(fixedClock()))
	p.ProcessQuery("flu vaccine in adults", types.QueryContext{})
	p.ProcessQuery("hpv vaccine schedule", types.QueryContext{})

	suggestions := p.Suggestions("vaccine")
	if len(suggestions) != 2 {
		t.Fatalf("len(suggestions) = %d, want 2: %+v", len(suggestions), suggestions)
	}
	if suggestions[0].Text != "hpv vaccine schedule" {
		t.Errorf("first history suggestion = %q, want most recent", suggestions[0].Text)
	}
	if suggestions[1].Text != "flu vaccine in adults" {
		t.Errorf("second history suggestion = %q", suggestions[1].Text)
	}
}

func TestSuggestionsCap(t *testing.T) {
	p := NewProcessor(WithClock(fixedClock()))
	for i := 0; i < 12; i++ {
		p.ProcessQuery("covid variant watch", types.QueryContext{})
	}

	suggestions := p.Suggestions("covid")
	if len(suggestions) != maxSuggestions {
		t.Fatalf("len(suggestions) = %d, want %d", len(suggestions), maxSuggestions)
	}
	// Lexicon matches ("covid") come first even with many history hits.
	if suggestions[0].Type != types.SuggestionLexicon {
		t.Errorf("first suggestion type = %q, want lexicon", suggestions[0].Type)
	}
}

func TestSuggestionsEmptyPartial(t *testing.T) {
	p := NewProcessor(WithClock(fixedClock()))
	suggestions := p.Suggestions("")
	if len(suggestions) != maxSuggestions {
		t.Fatalf("len(suggestions) = %d, want %d", len(suggestions), maxSuggestions)
	}
	if suggestions[0].Text != "heart attack" {
		t.Errorf("first suggestion = %q, want first lexicon entry", suggestions[0].Text)
	}
}
