// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/medsearch/pkg/types"
)

// ResultFile is the on-disk representation of one search and its
// ranked results, so a searcher can save a session and reload it
// without re-querying the provider.
type ResultFile struct {
	Query      string                 `yaml:"query"`
	Parameters types.SearchParameters `yaml:"parameters"`
	Papers     []types.ScoredPaper    `yaml:"papers"`
	Summary    ResultSummary          `yaml:"summary"`
}

// ResultSummary stores response provenance and a timestamp.
type ResultSummary struct {
	Total      int       `yaml:"total"`
	MLEnhanced bool      `yaml:"ml_enhanced"`
	Confidence float64   `yaml:"confidence"`
	Timestamp  time.Time `yaml:"timestamp"`
}

// WriteResultFile saves a search response to a YAML file.
func WriteResultFile(path, rawQuery string, params types.SearchParameters, resp types.SearchResponse, now time.Time) error {
	rf := ResultFile{
		Query:      rawQuery,
		Parameters: params,
		Papers:     resp.Papers,
		Summary: ResultSummary{
			Total:      resp.Total,
			MLEnhanced: resp.MLEnhanced,
			Confidence: resp.Confidence,
			Timestamp:  now,
		},
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultFile loads a previously saved result file from disk.
func ReadResultFile(path string) (*ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}
	return &rf, nil
}
