// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package evaluate runs golden-query suites through the query
// understanding pipeline and reports accuracy. It drives the pure
// pipeline stages directly so evaluation runs never pollute the
// searcher's history or preference model.
// Implements: prd006-evaluation (R1-R3);
//
//	docs/ARCHITECTURE § Evaluation.
package evaluate

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/medsearch/internal/query"
	"github.com/pdiddy/medsearch/pkg/types"
)

// Case is one golden query with its expected pipeline outputs.
type Case struct {
	// Name labels the case in reports; defaults to the query text.
	Name string `yaml:"name,omitempty"`

	// Query is the raw query text to process.
	Query string `yaml:"query"`

	// Intents lists intent labels that must all be present.
	Intents []string `yaml:"intents,omitempty"`

	// Focus is the expected primary concept, empty to skip the check.
	Focus string `yaml:"focus,omitempty"`

	// MinConfidence is the lowest acceptable parameter confidence.
	MinConfidence float64 `yaml:"min_confidence,omitempty"`
}

// Suite is a named collection of golden queries.
type Suite struct {
	Name  string `yaml:"name"`
	Cases []Case `yaml:"cases"`
}

// LoadSuite reads a suite YAML file from disk.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading suite file: %w", err)
	}
	var suite Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("parsing suite file: %w", err)
	}
	if len(suite.Cases) == 0 {
		return nil, fmt.Errorf("suite %s has no cases", path)
	}
	return &suite, nil
}

// CaseResult is the outcome for one golden query.
type CaseResult struct {
	Name       string   `json:"name" yaml:"name"`
	Query      string   `json:"query" yaml:"query"`
	Passed     bool     `json:"passed" yaml:"passed"`
	Confidence float64  `json:"confidence" yaml:"confidence"`
	Failures   []string `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// IntentAccuracy counts expectations for one intent label across the
// suite.
type IntentAccuracy struct {
	Expected int `json:"expected" yaml:"expected"`
	Matched  int `json:"matched" yaml:"matched"`
}

// Report summarizes one suite run.
type Report struct {
	Suite             string                    `json:"suite" yaml:"suite"`
	Total             int                       `json:"total" yaml:"total"`
	Passed            int                       `json:"passed" yaml:"passed"`
	Accuracy          float64                   `json:"accuracy" yaml:"accuracy"`
	AverageConfidence float64                   `json:"average_confidence" yaml:"average_confidence"`
	PerIntent         map[string]IntentAccuracy `json:"per_intent" yaml:"per_intent"`
	Results           []CaseResult              `json:"results" yaml:"results"`
}

// Run evaluates every case concurrently on a bounded worker pool and
// aggregates the outcomes. Results keep suite order regardless of
// completion order. now anchors date-relative synthesis rules.
func Run(suite *Suite, cfg types.EvalConfig, now time.Time) (Report, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return Report{}, fmt.Errorf("creating worker pool: %w", err)
	}
	defer pool.Release()

	results := make([]CaseResult, len(suite.Cases))
	var wg sync.WaitGroup
	for i, c := range suite.Cases {
		i, c := i, c
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			results[i] = runCase(c, now)
		})
		if submitErr != nil {
			wg.Done()
			return Report{}, fmt.Errorf("submitting case %q: %w", c.Query, submitErr)
		}
	}
	wg.Wait()

	return aggregate(suite, results), nil
}

// runCase processes one query through the pure pipeline stages and
// checks every expectation, collecting all failures rather than
// stopping at the first.
func runCase(c Case, now time.Time) CaseResult {
	result := CaseResult{Name: c.Name, Query: c.Query}
	if result.Name == "" {
		result.Name = c.Query
	}

	normalized := query.Normalize(c.Query)
	entities := query.Extract(normalized)
	analysis := query.Analyze(normalized, entities)
	params := query.Synthesize(analysis, types.QueryContext{}, now)
	result.Confidence = params.Confidence

	for _, want := range c.Intents {
		if !hasIntent(analysis.Intent, want) {
			result.Failures = append(result.Failures, fmt.Sprintf("missing intent %q", want))
		}
	}
	if c.Focus != "" && analysis.Focus.Primary != c.Focus {
		result.Failures = append(result.Failures,
			fmt.Sprintf("focus = %q, want %q", analysis.Focus.Primary, c.Focus))
	}
	if params.Confidence < c.MinConfidence {
		result.Failures = append(result.Failures,
			fmt.Sprintf("confidence %.2f below %.2f", params.Confidence, c.MinConfidence))
	}

	result.Passed = len(result.Failures) == 0
	return result
}

func hasIntent(intents []query.IntentScore, label string) bool {
	for _, intent := range intents {
		if intent.Type == label {
			return true
		}
	}
	return false
}

func aggregate(suite *Suite, results []CaseResult) Report {
	report := Report{
		Suite:     suite.Name,
		Total:     len(results),
		PerIntent: map[string]IntentAccuracy{},
		Results:   results,
	}

	var totalConfidence float64
	for i, result := range results {
		if result.Passed {
			report.Passed++
		}
		totalConfidence += result.Confidence

		for _, want := range suite.Cases[i].Intents {
			acc := report.PerIntent[want]
			acc.Expected++
			if !failureFor(result, want) {
				acc.Matched++
			}
			report.PerIntent[want] = acc
		}
	}

	if report.Total > 0 {
		report.Accuracy = round3(float64(report.Passed) / float64(report.Total))
		report.AverageConfidence = round3(totalConfidence / float64(report.Total))
	}
	return report
}

// failureFor reports whether the case failed on the given intent.
func failureFor(result CaseResult, intent string) bool {
	needle := fmt.Sprintf("missing intent %q", intent)
	for _, failure := range result.Failures {
		if failure == needle {
			return true
		}
	}
	return false
}

// FormatTable writes the report as a human-readable table to w.
func FormatTable(report Report, w io.Writer) {
	fmt.Fprintf(w, "Suite: %s\n", report.Suite)
	fmt.Fprintf(w, "%-40s  %-6s  %-10s  %s\n", "Case", "Pass", "Confidence", "Failures")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for _, result := range report.Results {
		name := result.Name
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		pass := "ok"
		if !result.Passed {
			pass = "FAIL"
		}
		fmt.Fprintf(w, "%-40s  %-6s  %-10.2f  %s\n",
			name, pass, result.Confidence, strings.Join(result.Failures, "; "))
	}

	fmt.Fprintf(w, "\n%d/%d passed (accuracy %.1f%%, avg confidence %.2f)\n",
		report.Passed, report.Total, report.Accuracy*100, report.AverageConfidence)

	if len(report.PerIntent) > 0 {
		labels := make([]string, 0, len(report.PerIntent))
		for label := range report.PerIntent {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			acc := report.PerIntent[label]
			fmt.Fprintf(w, "  intent %-14s %d/%d\n", label, acc.Matched, acc.Expected)
		}
	}
}

// FormatJSON writes the report as indented JSON to w.
func FormatJSON(report Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
