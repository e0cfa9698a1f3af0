package evaluate

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/medsearch/pkg/types"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func testSuite() *Suite {
	return &Suite{
		Name: "core",
		Cases: []Case{
			{
				Query:         "heart attack",
				Focus:         "Myocardial Infarction",
				MinConfidence: 0.5,
			},
			{
				Query:         "diabetes treatment in elderly patients",
				Intents:       []string{"treatment"},
				Focus:         "Diabetes Mellitus",
				MinConfidence: 0.5,
			},
			{
				Name:    "wrong focus expectation",
				Query:   "asthma in children",
				Intents: []string{"treatment"},
				Focus:   "Stroke",
			},
		},
	}
}

func TestRun(t *testing.T) {
	report, err := Run(testSuite(), types.EvalConfig{Workers: 2}, testNow)
	if err != nil {
		t.Fatal(err)
	}

	if report.Total != 3 {
		t.Fatalf("Total = %d, want 3", report.Total)
	}
	if report.Passed != 2 {
		t.Errorf("Passed = %d, want 2", report.Passed)
	}
	if report.Accuracy != 0.667 {
		t.Errorf("Accuracy = %v, want 0.667", report.Accuracy)
	}

	// Results keep suite order.
	if report.Results[0].Query != "heart attack" || !report.Results[0].Passed {
		t.Errorf("first result = %+v", report.Results[0])
	}
	last := report.Results[2]
	if last.Passed {
		t.Errorf("case with wrong expectations passed: %+v", last)
	}
	if last.Name != "wrong focus expectation" {
		t.Errorf("Name = %q", last.Name)
	}
	if len(last.Failures) != 2 {
		t.Errorf("Failures = %v, want missing intent + wrong focus", last.Failures)
	}

	treatment := report.PerIntent["treatment"]
	if treatment.Expected != 2 || treatment.Matched != 1 {
		t.Errorf("treatment accuracy = %+v, want 1/2", treatment)
	}
}

func TestRunDeterministic(t *testing.T) {
	a, err := Run(testSuite(), types.EvalConfig{Workers: 4}, testNow)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Run(testSuite(), types.EvalConfig{Workers: 1}, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if a.Accuracy != b.Accuracy || a.Passed != b.Passed {
		t.Errorf("worker count changed outcomes: %+v vs %+v", a, b)
	}
	for i := range a.Results {
		if a.Results[i].Query != b.Results[i].Query {
			t.Errorf("result order differs at %d", i)
		}
	}
}

func TestLoadSuite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suite.yaml")
	content := `name: smoke
cases:
  - query: heart attack
    focus: Myocardial Infarction
    min_confidence: 0.5
  - query: covid vaccine effectiveness
    intents: [prevention]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	suite, err := LoadSuite(path)
	if err != nil {
		t.Fatal(err)
	}
	if suite.Name != "smoke" || len(suite.Cases) != 2 {
		t.Errorf("suite = %+v", suite)
	}
	if suite.Cases[0].Focus != "Myocardial Infarction" {
		t.Errorf("Focus = %q", suite.Cases[0].Focus)
	}
}

func TestLoadSuiteEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("name: empty\ncases: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSuite(path); err == nil {
		t.Error("empty suite loaded without error")
	}
}

func TestFormatTable(t *testing.T) {
	report, err := Run(testSuite(), types.EvalConfig{Workers: 2}, testNow)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	FormatTable(report, &buf)
	out := buf.String()
	if !strings.Contains(out, "2/3 passed") {
		t.Errorf("table output missing pass summary:\n%s", out)
	}
	if !strings.Contains(out, "intent treatment") {
		t.Errorf("table output missing per-intent line:\n%s", out)
	}
}
