// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

// similarityThreshold is passed to SimilarityModel lookups for the
// focus concept.
const similarityThreshold = 0.7

// SimilarityModel supplies learned term-similarity lookups. The
// processor consults it for the focus concept and folds any returned
// terms into the synonym expansions. A trained implementation can be
// plugged in via WithSimilarityModel.
type SimilarityModel interface {
	// SimilarTerms returns terms whose similarity to term meets the
	// threshold, best first. An empty result is valid.
	SimilarTerms(term string, threshold float64) []string
}

// staticSimilarity is the default model. It has no embedding table and
// returns no expansions.
type staticSimilarity struct{}

func (staticSimilarity) SimilarTerms(string, float64) []string { return nil }
