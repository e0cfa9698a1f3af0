// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analytics aggregates search records into summary, hourly,
// trending-term, and performance reports. All computations are pure
// functions over a record slice; durability belongs to the userdata
// store.
// Implements: prd005-analytics (R1-R4);
//
//	docs/ARCHITECTURE § Analytics.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/medsearch/pkg/types"
)

// NewRecord builds the analytics record for one search attempt.
// err is non-nil when the attempt failed before producing a response.
func NewRecord(query string, resp types.SearchResponse, searchType string, elapsed time.Duration, now time.Time, err error) types.SearchRecord {
	record := types.SearchRecord{
		ID:           recordID(now),
		Timestamp:    now,
		Query:        query,
		QueryLength:  len(strings.Fields(query)),
		MLEnhanced:   resp.MLEnhanced,
		SearchType:   searchType,
		ResponseTime: elapsed,
		Confidence:   resp.Confidence,
		ResultCount:  len(resp.Papers),
		Status:       types.StatusSuccess,
		Explanation:  resp.Explanation,
	}
	if err != nil {
		record.Status = types.StatusError
		record.Error = err.Error()
		record.Confidence = 0
	}
	return record
}

// recordID is unique per attempt: "search_" + unix millis + "_" + a
// short uuid fragment.
func recordID(now time.Time) string {
	fragment := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("search_%d_%s", now.UnixMilli(), fragment)
}

// Summary holds the headline metrics over all recorded searches.
// Rates are percentages; durations are rounded to whole milliseconds.
type Summary struct {
	TotalSearches      int       `json:"total_searches" yaml:"total_searches"`
	MLEnhancementRate  float64   `json:"ml_enhancement_rate" yaml:"ml_enhancement_rate"`
	AverageResponseMs  int64     `json:"average_response_time_ms" yaml:"average_response_time_ms"`
	AverageConfidence  float64   `json:"average_confidence" yaml:"average_confidence"`
	SuccessRate        float64   `json:"success_rate" yaml:"success_rate"`
	SearchesToday      int       `json:"searches_today" yaml:"searches_today"`
	AverageQueryLength float64   `json:"average_query_length" yaml:"average_query_length"`
	LastSearchTime     time.Time `json:"last_search_time,omitempty" yaml:"last_search_time,omitempty"`
}

// Summarize computes the headline metrics. records may be in any
// order; "today" is now's calendar date.
func Summarize(records []types.SearchRecord, now time.Time) Summary {
	var s Summary
	s.TotalSearches = len(records)
	if len(records) == 0 {
		return s
	}

	var enhanced, successful, today int
	var totalResponse time.Duration
	var totalConfidence, totalLength float64
	var last time.Time
	for _, r := range records {
		if r.MLEnhanced {
			enhanced++
		}
		if r.Status == types.StatusSuccess {
			successful++
		}
		if sameDate(r.Timestamp, now) {
			today++
		}
		totalResponse += r.ResponseTime
		totalConfidence += r.Confidence
		totalLength += float64(r.QueryLength)
		if r.Timestamp.After(last) {
			last = r.Timestamp
		}
	}

	n := float64(len(records))
	s.MLEnhancementRate = round2(float64(enhanced) / n * 100)
	s.AverageResponseMs = (totalResponse / time.Duration(len(records))).Milliseconds()
	s.AverageConfidence = round2(totalConfidence / n * 100)
	s.SuccessRate = round2(float64(successful) / n * 100)
	s.SearchesToday = today
	s.AverageQueryLength = round1(totalLength / n)
	s.LastSearchTime = last
	return s
}

// HourBucket is one hour of search activity for the 24-hour view.
type HourBucket struct {
	Hour              int       `json:"hour" yaml:"hour"`
	SearchCount       int       `json:"search_count" yaml:"search_count"`
	AverageResponseMs int64     `json:"average_response_time_ms" yaml:"average_response_time_ms"`
	MLEnhancementRate float64   `json:"ml_enhancement_rate" yaml:"ml_enhancement_rate"`
	AverageConfidence float64   `json:"average_confidence" yaml:"average_confidence"`
	Timestamp         time.Time `json:"timestamp" yaml:"timestamp"`
}

// HourlyStats buckets records into the 24 hours ending at now, oldest
// bucket first. Records outside the window are ignored.
func HourlyStats(records []types.SearchRecord, now time.Time) []HourBucket {
	buckets := make([]HourBucket, 0, 24)
	for i := 23; i >= 0; i-- {
		hour := now.Add(-time.Duration(i) * time.Hour).Truncate(time.Hour)

		var count, enhanced int
		var totalResponse time.Duration
		var totalConfidence float64
		for _, r := range records {
			if r.Timestamp.Truncate(time.Hour).Equal(hour) {
				count++
				totalResponse += r.ResponseTime
				totalConfidence += r.Confidence
				if r.MLEnhanced {
					enhanced++
				}
			}
		}

		bucket := HourBucket{Hour: hour.Hour(), SearchCount: count, Timestamp: hour}
		if count > 0 {
			bucket.AverageResponseMs = (totalResponse / time.Duration(count)).Milliseconds()
			bucket.MLEnhancementRate = float64(enhanced) / float64(count)
			bucket.AverageConfidence = totalConfidence / float64(count)
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}

// TrendingTerm is one query word with its recent usage count.
type TrendingTerm struct {
	Term       string  `json:"term" yaml:"term"`
	Count      int     `json:"count" yaml:"count"`
	TrendScore float64 `json:"trend_score" yaml:"trend_score"`
}

// TrendingTerms counts words longer than three characters across
// queries recorded within the window, highest count first. Ties break
// alphabetically so output is deterministic. limit <= 0 means 10.
func TrendingTerms(records []types.SearchRecord, now time.Time, window time.Duration, limit int) []TrendingTerm {
	if limit <= 0 {
		limit = 10
	}
	cutoff := now.Add(-window)

	counts := map[string]int{}
	recent := 0
	for _, r := range records {
		if r.Timestamp.Before(cutoff) {
			continue
		}
		recent++
		for _, word := range strings.Fields(strings.ToLower(r.Query)) {
			if len(word) > 3 {
				counts[word]++
			}
		}
	}
	if recent == 0 {
		return nil
	}

	terms := make([]TrendingTerm, 0, len(counts))
	for term, count := range counts {
		terms = append(terms, TrendingTerm{
			Term:       term,
			Count:      count,
			TrendScore: float64(count) / float64(recent),
		})
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Count != terms[j].Count {
			return terms[i].Count > terms[j].Count
		}
		return terms[i].Term < terms[j].Term
	})
	if len(terms) > limit {
		terms = terms[:limit]
	}
	return terms
}

// Percentiles holds response-time percentiles in milliseconds.
type Percentiles struct {
	P50 int64 `json:"p50" yaml:"p50"`
	P95 int64 `json:"p95" yaml:"p95"`
	P99 int64 `json:"p99" yaml:"p99"`
}

// Effectiveness compares result counts between enhanced and plain
// searches.
type Effectiveness struct {
	MLAverageResults    float64 `json:"ml_avg_results" yaml:"ml_avg_results"`
	PlainAverageResults float64 `json:"non_ml_avg_results" yaml:"non_ml_avg_results"`
	ImprovementFactor   float64 `json:"improvement_factor" yaml:"improvement_factor"`
}

// DataQuality counts records with and without the fields the reports
// depend on.
type DataQuality struct {
	CompleteRecords   int `json:"complete_records" yaml:"complete_records"`
	IncompleteRecords int `json:"incomplete_records" yaml:"incomplete_records"`
}

// PerformanceReport holds the detailed performance metrics.
type PerformanceReport struct {
	ResponseTimePercentiles Percentiles   `json:"response_time_percentiles" yaml:"response_time_percentiles"`
	MLEffectiveness         Effectiveness `json:"ml_effectiveness" yaml:"ml_effectiveness"`
	ErrorRate               float64       `json:"error_rate" yaml:"error_rate"`
	TotalSearches           int           `json:"total_searches" yaml:"total_searches"`
	MLEnhancedCount         int           `json:"ml_enhanced_count" yaml:"ml_enhanced_count"`
	DataQuality             DataQuality   `json:"data_quality" yaml:"data_quality"`
}

// Performance computes response-time percentiles, enhancement
// effectiveness, the error rate, and data-quality counts.
func Performance(records []types.SearchRecord) PerformanceReport {
	var report PerformanceReport
	report.TotalSearches = len(records)
	if len(records) == 0 {
		return report
	}

	times := make([]time.Duration, 0, len(records))
	for _, r := range records {
		if r.ResponseTime > 0 {
			times = append(times, r.ResponseTime)
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })
	if len(times) > 0 {
		report.ResponseTimePercentiles = Percentiles{
			P50: times[len(times)/2].Milliseconds(),
			P95: times[int(float64(len(times))*0.95)].Milliseconds(),
			P99: times[int(float64(len(times))*0.99)].Milliseconds(),
		}
	}

	var mlResults, plainResults float64
	var mlCount, plainCount, errors int
	for _, r := range records {
		if r.MLEnhanced {
			mlCount++
			mlResults += float64(r.ResultCount)
		} else {
			plainCount++
			plainResults += float64(r.ResultCount)
		}
		if r.Status != types.StatusSuccess {
			errors++
		}
		if r.Query != "" && r.ResponseTime > 0 {
			report.DataQuality.CompleteRecords++
		} else {
			report.DataQuality.IncompleteRecords++
		}
	}

	if mlCount > 0 {
		report.MLEffectiveness.MLAverageResults = round1(mlResults / float64(mlCount))
	}
	if plainCount > 0 {
		report.MLEffectiveness.PlainAverageResults = round1(plainResults / float64(plainCount))
	}
	if report.MLEffectiveness.PlainAverageResults > 0 {
		report.MLEffectiveness.ImprovementFactor = round2(
			report.MLEffectiveness.MLAverageResults / report.MLEffectiveness.PlainAverageResults)
	}
	report.ErrorRate = round2(float64(errors) / float64(len(records)) * 100)
	report.MLEnhancedCount = mlCount
	return report
}

// ExportBundle packages every report for a one-shot export.
type ExportBundle struct {
	Records     []types.SearchRecord `json:"search_history" yaml:"search_history"`
	Summary     Summary              `json:"summary" yaml:"summary"`
	Hourly      []HourBucket         `json:"hourly_stats" yaml:"hourly_stats"`
	Trending    []TrendingTerm       `json:"trending_terms" yaml:"trending_terms"`
	Performance PerformanceReport    `json:"performance" yaml:"performance"`
	ExportedAt  time.Time            `json:"exported_at" yaml:"exported_at"`
}

// Export assembles the full bundle.
func Export(records []types.SearchRecord, now time.Time, trendingWindow time.Duration, topTerms int) ExportBundle {
	return ExportBundle{
		Records:     records,
		Summary:     Summarize(records, now),
		Hourly:      HourlyStats(records, now),
		Trending:    TrendingTerms(records, now, trendingWindow, topTerms),
		Performance: Performance(records),
		ExportedAt:  now,
	}
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
