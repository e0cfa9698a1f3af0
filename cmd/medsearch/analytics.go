// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/medsearch/internal/analytics"
	"github.com/pdiddy/medsearch/pkg/types"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Report on recorded search activity",
	Long: `Analytics aggregates the recorded search log into usage summaries,
hourly distributions, trending terms, and performance reports. All
aggregation runs locally over the user-data store.`,
}

// loadRecords opens the store and reads every search record.
func loadRecords(cmd *cobra.Command) ([]types.SearchRecord, error) {
	log := newLogger(cmd)
	store, err := openStore(cmd, log)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.LoadSearches()
}

func emitJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// --- summary subcommand ---

var analyticsSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Overall usage summary",
	RunE:  runAnalyticsSummary,
}

func runAnalyticsSummary(cmd *cobra.Command, args []string) error {
	records, err := loadRecords(cmd)
	if err != nil {
		return err
	}
	summary := analytics.Summarize(records, time.Now())

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return emitJSON(summary)
	}

	fmt.Fprintf(os.Stdout, "Total searches:      %d\n", summary.TotalSearches)
	fmt.Fprintf(os.Stdout, "Searches today:      %d\n", summary.SearchesToday)
	fmt.Fprintf(os.Stdout, "ML enhancement rate: %.2f%%\n", summary.MLEnhancementRate)
	fmt.Fprintf(os.Stdout, "Success rate:        %.2f%%\n", summary.SuccessRate)
	fmt.Fprintf(os.Stdout, "Avg response time:   %dms\n", summary.AverageResponseMs)
	fmt.Fprintf(os.Stdout, "Avg confidence:      %.2f\n", summary.AverageConfidence)
	fmt.Fprintf(os.Stdout, "Avg query length:    %.1f words\n", summary.AverageQueryLength)
	if !summary.LastSearchTime.IsZero() {
		fmt.Fprintf(os.Stdout, "Last search:         %s\n", summary.LastSearchTime.Format(time.RFC3339))
	}
	return nil
}

// --- hourly subcommand ---

var analyticsHourlyCmd = &cobra.Command{
	Use:   "hourly",
	Short: "Search distribution over the last 24 hours",
	RunE:  runAnalyticsHourly,
}

func runAnalyticsHourly(cmd *cobra.Command, args []string) error {
	records, err := loadRecords(cmd)
	if err != nil {
		return err
	}
	buckets := analytics.HourlyStats(records, time.Now())

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return emitJSON(buckets)
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-9s  %-8s  %-8s  %s\n", "Hour", "Searches", "Avg ms", "ML rate", "Confidence")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 50))
	for _, bucket := range buckets {
		if bucket.SearchCount == 0 {
			continue
		}
		fmt.Fprintf(os.Stdout, "%02d:00  %-9d  %-8d  %-8.2f  %.2f\n",
			bucket.Hour, bucket.SearchCount, bucket.AverageResponseMs,
			bucket.MLEnhancementRate, bucket.AverageConfidence)
	}
	return nil
}

// --- trending subcommand ---

var analyticsTrendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Most frequent query terms in the trending window",
	RunE:  runAnalyticsTrending,
}

func runAnalyticsTrending(cmd *cobra.Command, args []string) error {
	records, err := loadRecords(cmd)
	if err != nil {
		return err
	}
	window, _ := cmd.Flags().GetDuration("window")
	limit, _ := cmd.Flags().GetInt("top")
	terms := analytics.TrendingTerms(records, time.Now(), window, limit)

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return emitJSON(terms)
	}

	if len(terms) == 0 {
		fmt.Println("No trending terms.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "%-30s  %-6s  %s\n", "Term", "Count", "Trend")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 46))
	for _, term := range terms {
		fmt.Fprintf(os.Stdout, "%-30s  %-6d  %.3f\n", term.Term, term.Count, term.TrendScore)
	}
	return nil
}

// --- performance subcommand ---

var analyticsPerformanceCmd = &cobra.Command{
	Use:   "performance",
	Short: "Response-time percentiles and ML effectiveness",
	RunE:  runAnalyticsPerformance,
}

func runAnalyticsPerformance(cmd *cobra.Command, args []string) error {
	records, err := loadRecords(cmd)
	if err != nil {
		return err
	}
	report := analytics.Performance(records)

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return emitJSON(report)
	}

	fmt.Fprintf(os.Stdout, "Response time:   p50 %dms, p95 %dms, p99 %dms\n",
		report.ResponseTimePercentiles.P50,
		report.ResponseTimePercentiles.P95,
		report.ResponseTimePercentiles.P99)
	fmt.Fprintf(os.Stdout, "ML effectiveness: %.1f avg results vs %.1f plain (%.2fx)\n",
		report.MLEffectiveness.MLAverageResults,
		report.MLEffectiveness.PlainAverageResults,
		report.MLEffectiveness.ImprovementFactor)
	fmt.Fprintf(os.Stdout, "Error rate:      %.2f%%\n", report.ErrorRate)
	fmt.Fprintf(os.Stdout, "Data quality:    %d complete, %d incomplete\n",
		report.DataQuality.CompleteRecords, report.DataQuality.IncompleteRecords)
	return nil
}

// --- export subcommand ---

var analyticsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the full analytics bundle to YAML or JSON",
	RunE:  runAnalyticsExport,
}

func runAnalyticsExport(cmd *cobra.Command, args []string) error {
	records, err := loadRecords(cmd)
	if err != nil {
		return err
	}
	window, _ := cmd.Flags().GetDuration("window")
	limit, _ := cmd.Flags().GetInt("top")
	bundle := analytics.Export(records, time.Now(), window, limit)

	out, _ := cmd.Flags().GetString("out")
	format, _ := cmd.Flags().GetString("format")

	var data []byte
	switch format {
	case "yaml", "":
		data, err = yaml.Marshal(bundle)
	case "json":
		data, err = json.MarshalIndent(bundle, "", "  ")
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return fmt.Errorf("encoding analytics bundle: %w", err)
	}

	if out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing analytics export: %w", err)
	}
	fmt.Fprintln(os.Stderr, "Exported to", out)
	return nil
}

// --- clear subcommand ---

var analyticsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all recorded search activity",
	RunE:  runAnalyticsClear,
}

func runAnalyticsClear(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd)
	store, err := openStore(cmd, log)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.ClearSearches(); err != nil {
		return err
	}
	fmt.Println("Search records cleared.")
	return nil
}

func init() {
	analyticsCmd.PersistentFlags().Bool("json", false, "output as JSON")

	analyticsTrendingCmd.Flags().Duration("window", 7*24*time.Hour, "how far back to look for trending terms")
	analyticsTrendingCmd.Flags().Int("top", 10, "number of trending terms to show")

	analyticsExportCmd.Flags().String("out", "", "output file (default stdout)")
	analyticsExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	analyticsExportCmd.Flags().Duration("window", 7*24*time.Hour, "trending-term window for the bundle")
	analyticsExportCmd.Flags().Int("top", 10, "trending terms included in the bundle")

	analyticsCmd.AddCommand(analyticsSummaryCmd)
	analyticsCmd.AddCommand(analyticsHourlyCmd)
	analyticsCmd.AddCommand(analyticsTrendingCmd)
	analyticsCmd.AddCommand(analyticsPerformanceCmd)
	analyticsCmd.AddCommand(analyticsExportCmd)
	analyticsCmd.AddCommand(analyticsClearCmd)

	rootCmd.AddCommand(analyticsCmd)
}
