//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
)

// defaultSuite is the golden-query suite Eval runs when none is given
// via MEDSEARCH_EVAL_SUITE.
const defaultSuite = "eval/suites/core.yaml"

// Eval runs the golden-query evaluation suite through the CLI and
// fails below the default accuracy threshold.
func Eval() error {
	suite := os.Getenv("MEDSEARCH_EVAL_SUITE")
	if suite == "" {
		suite = defaultSuite
	}
	cmd := exec.Command("go", "run", cmdPkg, "evaluate", "--suite", suite)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("evaluation suite failed: %w", err)
	}
	return nil
}

// Test runs the full test suite.
func Test() error {
	cmd := exec.Command("go", "test", "./...")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
