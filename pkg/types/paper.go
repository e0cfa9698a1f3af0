// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Author is one contributor to a paper. Affiliation is usually empty for
// records built from summary endpoints.
type Author struct {
	// Name is the author's display name, e.g. "Smith J".
	Name string `json:"name" yaml:"name"`

	// Affiliation is the institutional affiliation, when known.
	Affiliation string `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`
}

// PaperSummary is one literature record as assembled from the retrieval
// provider's summary and fetch endpoints. Per prd002-retrieval R2.1-R2.4.
type PaperSummary struct {
	// PaperID is the stable internal identifier, "pubmed_" + PMID.
	PaperID string `json:"paper_id" yaml:"paper_id"`

	// PMID is the provider's numeric identifier as a string.
	PMID string `json:"pmid" yaml:"pmid"`

	// Title is the article title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the article abstract, possibly empty for summary-only
	// records.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Authors lists up to ten contributors in source order.
	Authors []Author `json:"authors" yaml:"authors"`

	// Year is the publication year, 0 when it could not be parsed.
	Year int `json:"year" yaml:"year"`

	// Journal is the full journal name.
	Journal string `json:"journal" yaml:"journal"`

	// PublicationDate is the provider's raw date string, e.g. "2024 Mar 5".
	PublicationDate string `json:"publication_date" yaml:"publication_date"`

	// PublicationTypes lists provider labels such as "Randomized
	// Controlled Trial".
	PublicationTypes []string `json:"publication_types" yaml:"publication_types"`

	// DOI is extracted from the article identifier list, when present.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// URL points at the provider's public record page.
	URL string `json:"url" yaml:"url"`

	// Keywords are derived from the title when the provider supplies none.
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// ScoredPaper pairs a record with the relevance score the ranking stage
// assigned. Per prd003-ranking R1.1.
type ScoredPaper struct {
	PaperSummary `yaml:",inline"`

	// RelevanceScore is in [0,1]; results are ordered by it, descending.
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`
}
