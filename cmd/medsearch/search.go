// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/medsearch/internal/pubmed"
	"github.com/pdiddy/medsearch/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search medical literature with an ML-enhanced query",
	Long: `Search runs a free-text medical question through the query understanding
pipeline, retrieves matching PubMed records, and prints them ranked by
estimated relevance.

When the enhanced query finds nothing, the search degrades to a plain
keyword lookup and the output says so. Use --explain to see how the
query was interpreted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	rawQuery := strings.Join(args, " ")
	log := newLogger(cmd)

	offset, _ := cmd.Flags().GetInt("offset")
	limit, _ := cmd.Flags().GetInt("limit")
	noStore, _ := cmd.Flags().GetBool("no-store")

	// Personalization and analytics are best-effort: a broken store
	// downgrades the search, it does not block it.
	store, err := openStore(cmd, log)
	if err != nil {
		log.Warn().Err(err).Msg("user-data store unavailable, continuing without history")
		store = nil
	}
	if noStore && store != nil {
		store.Close()
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	processor := newProcessor(store, log)
	client := pubmed.NewClient(retrievalConfig(limit))
	opts := []pubmed.EngineOption{pubmed.WithLogger(log)}
	if store != nil {
		opts = append(opts, pubmed.WithRecorder(store))
	}
	engine := pubmed.NewEngine(client, processor, client.Cfg, opts...)

	qctx := types.QueryContext{Offset: offset, Limit: limit}
	resp, params := engine.Search(context.Background(), rawQuery, qctx)

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if err := pubmed.WriteResultFile(out, rawQuery, params, resp, time.Now()); err != nil {
			return fmt.Errorf("writing result file: %w", err)
		}
		fmt.Fprintln(os.Stderr, "Results written to", out)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	explain, _ := cmd.Flags().GetBool("explain")
	formatSearchOutput(resp, params, explain)
	return nil
}

func formatSearchOutput(resp types.SearchResponse, params types.SearchParameters, explain bool) {
	if explain {
		fmt.Fprintf(os.Stdout, "Query: %s\n", params.Query)
		fmt.Fprintf(os.Stdout, "Confidence: %.2f\n", resp.Confidence)
		if params.Focus.Primary != "" {
			fmt.Fprintf(os.Stdout, "Focus: %s\n", params.Focus.Primary)
		}
		for _, line := range resp.Explanation {
			fmt.Fprintf(os.Stdout, "  - %s\n", line)
		}
		fmt.Fprintln(os.Stdout)
	}

	if len(resp.Papers) == 0 {
		fmt.Println("No results found.")
		return
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-50s  %-20s  %-5s  %-6s  %s\n",
		"Rank", "Title", "Authors", "Year", "Score", "Journal")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for i, paper := range resp.Papers {
		title := paper.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		authors := formatAuthors(paper.Authors)
		journal := paper.Journal
		if len(journal) > 20 {
			journal = journal[:17] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-50s  %-20s  %-5d  %-6.2f  %s\n",
			i+1, title, authors, paper.Year, paper.RelevanceScore, journal)
	}

	mode := "keyword search"
	if resp.MLEnhanced {
		mode = "enhanced search"
	}
	fmt.Fprintf(os.Stdout, "\n%d of %d results (%s, confidence %.2f)\n",
		len(resp.Papers), resp.Total, mode, resp.Confidence)
}

func formatAuthors(authors []types.Author) string {
	if len(authors) == 0 {
		return ""
	}
	first := authors[0].Name
	if len(authors) > 1 {
		first += " et al."
	}
	if len(first) > 20 {
		first = first[:17] + "..."
	}
	return first
}

func init() {
	searchCmd.Flags().Int("offset", 0, "number of results to skip")
	searchCmd.Flags().Int("limit", 0, "maximum results to return (0 = config default)")
	searchCmd.Flags().Bool("json", false, "output the full response as JSON")
	searchCmd.Flags().Bool("explain", false, "show how the query was interpreted")
	searchCmd.Flags().String("out", "", "also write results to a YAML file")
	searchCmd.Flags().Bool("no-store", false, "skip history and analytics recording")

	rootCmd.AddCommand(searchCmd)
}
