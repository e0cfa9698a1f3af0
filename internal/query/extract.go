// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"regexp"
	"strings"
)

// Fixed per-kind extraction confidences. Per prd001-query-understanding R1.6.
const (
	meshConfidence         = 0.9
	abbreviationConfidence = 0.85
	demographicConfidence  = 0.8
	studyTypeConfidence    = 0.9
)

var (
	nonWordPattern    = regexp.MustCompile(`[^\w\s-]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Normalize lower-cases a query, replaces characters outside
// word/whitespace/hyphen with spaces, collapses whitespace runs, and
// trims. Per prd001-query-understanding R1.1.
func Normalize(q string) string {
	q = strings.ToLower(strings.TrimSpace(q))
	q = nonWordPattern.ReplaceAllString(q, " ")
	q = whitespacePattern.ReplaceAllString(q, " ")
	return strings.TrimSpace(q)
}

// MeshEntity is a lexicon phrase found in the query, mapped to its
// canonical concept.
type MeshEntity struct {
	Original   string  `json:"original"`
	Concept    string  `json:"mesh"`
	Confidence float64 `json:"confidence"`
}

// AbbreviationEntity is a clinical abbreviation found in the query.
type AbbreviationEntity struct {
	Abbreviation string  `json:"abbreviation"`
	Expansion    string  `json:"expanded"`
	Confidence   float64 `json:"confidence"`
}

// DemographicEntity groups the distinct markers of one demographic
// category (age, gender, or population) found in the query.
type DemographicEntity struct {
	Kind       string   `json:"type"`
	Values     []string `json:"values"`
	Confidence float64  `json:"confidence"`
}

// StudyTypeEntity marks one study-design category found in the query.
type StudyTypeEntity struct {
	Label      string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// EntityBundle holds everything extraction found, one list per kind.
// Discovery order follows lexicon and pattern-table order, not position
// in the query text.
type EntityBundle struct {
	MeshTerms     []MeshEntity         `json:"mesh_terms"`
	Abbreviations []AbbreviationEntity `json:"abbreviations"`
	Demographics  []DemographicEntity  `json:"demographics"`
	StudyTypes    []StudyTypeEntity    `json:"study_types"`
}

// Count returns the total number of extracted entities across kinds.
func (b EntityBundle) Count() int {
	return len(b.MeshTerms) + len(b.Abbreviations) + len(b.Demographics) + len(b.StudyTypes)
}

// Extract scans a normalized query against the static lexicons and
// pattern tables. Pure function: no I/O, no shared mutable state.
// Per prd001-query-understanding R1.2-R1.6.
func Extract(normalized string) EntityBundle {
	var bundle EntityBundle

	for _, entry := range conceptLexicon {
		if strings.Contains(normalized, entry.Phrase) {
			bundle.MeshTerms = append(bundle.MeshTerms, MeshEntity{
				Original:   entry.Phrase,
				Concept:    entry.Concept,
				Confidence: meshConfidence,
			})
		}
	}

	for _, entry := range abbreviations {
		if entry.pattern.MatchString(normalized) {
			bundle.Abbreviations = append(bundle.Abbreviations, AbbreviationEntity{
				Abbreviation: entry.Abbrev,
				Expansion:    entry.Expansion,
				Confidence:   abbreviationConfidence,
			})
		}
	}

	for _, entry := range demographicPatterns {
		matches := entry.pattern.FindAllString(normalized, -1)
		if len(matches) == 0 {
			continue
		}
		bundle.Demographics = append(bundle.Demographics, DemographicEntity{
			Kind:       entry.Label,
			Values:     distinctLower(matches),
			Confidence: demographicConfidence,
		})
	}

	for _, entry := range studyTypePatterns {
		if entry.pattern.MatchString(normalized) {
			bundle.StudyTypes = append(bundle.StudyTypes, StudyTypeEntity{
				Label:      entry.Label,
				Confidence: studyTypeConfidence,
			})
		}
	}

	return bundle
}

// distinctLower dedupes matches preserving first occurrence so output
// order is deterministic.
func distinctLower(matches []string) []string {
	seen := make(map[string]bool, len(matches))
	values := make([]string, 0, len(matches))
	for _, m := range matches {
		m = strings.ToLower(m)
		if seen[m] {
			continue
		}
		seen[m] = true
		values = append(values, m)
	}
	return values
}
