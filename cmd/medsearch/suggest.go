// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [partial query]",
	Short: "Suggest query completions for a partial medical question",
	Long: `Suggest offers up to eight completions for a partial query: canonical
medical concepts from the lexicon first, then distinct past queries from
search history.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSuggest,
}

func runSuggest(cmd *cobra.Command, args []string) error {
	partial := strings.Join(args, " ")
	log := newLogger(cmd)

	store, err := openStore(cmd, log)
	if err != nil {
		log.Warn().Err(err).Msg("user-data store unavailable, suggesting from lexicon only")
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	processor := newProcessor(store, log)
	suggestions := processor.Suggestions(partial)

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(suggestions)
	}

	if len(suggestions) == 0 {
		fmt.Println("No suggestions.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-40s  %-8s  %-10s  %s\n", "Suggestion", "Source", "Confidence", "Description")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
	for _, s := range suggestions {
		text := s.Text
		if len(text) > 40 {
			text = text[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-40s  %-8s  %-10.2f  %s\n", text, s.Type, s.Confidence, s.Description)
	}
	return nil
}

func init() {
	suggestCmd.Flags().Bool("json", false, "output suggestions as JSON")

	rootCmd.AddCommand(suggestCmd)
}
