// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/medsearch/internal/evaluate"
	"github.com/pdiddy/medsearch/pkg/types"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run a golden-query suite against the pipeline",
	Long: `Evaluate processes a YAML suite of golden queries through query
understanding and checks the expected intents, focus concepts, and
confidence floors. The command exits non-zero when suite accuracy falls
below --min-accuracy, so it can gate CI.`,
	RunE: runEvaluate,
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	suitePath, _ := cmd.Flags().GetString("suite")
	if suitePath == "" {
		return fmt.Errorf("--suite is required")
	}

	suite, err := evaluate.LoadSuite(suitePath)
	if err != nil {
		return err
	}

	workers, _ := cmd.Flags().GetInt("workers")
	minAccuracy, _ := cmd.Flags().GetFloat64("min-accuracy")

	report, err := evaluate.Run(suite, types.EvalConfig{Workers: workers}, time.Now())
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		if err := evaluate.FormatJSON(report, os.Stdout); err != nil {
			return err
		}
	} else {
		evaluate.FormatTable(report, os.Stdout)
	}

	if report.Accuracy < minAccuracy {
		return fmt.Errorf("suite accuracy %.3f below threshold %.3f", report.Accuracy, minAccuracy)
	}
	return nil
}

func init() {
	evaluateCmd.Flags().String("suite", "", "path to the golden-query suite YAML")
	evaluateCmd.Flags().Int("workers", 4, "concurrent evaluation workers")
	evaluateCmd.Flags().Float64("min-accuracy", 0.8, "fail the run below this accuracy")
	evaluateCmd.Flags().Bool("json", false, "output the report as JSON")

	rootCmd.AddCommand(evaluateCmd)
}
