// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage remembered search queries",
	Long: `History lists or clears the remembered search queries that drive
personalization and suggestions. The store keeps the most recent hundred
queries; older ones are dropped automatically.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List remembered queries, most recent first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd)
	store, err := openStore(cmd, log)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.LoadHistory()
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No history.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-60s  %s\n", "When", "Query", "Complexity")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 95))
	// LoadHistory returns oldest first; show the newest at the top.
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		query := entry.Query
		if len(query) > 60 {
			query = query[:57] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-20s  %-60s  %.2f\n",
			entry.Timestamp.Format("2006-01-02 15:04"), query, entry.Complexity)
	}
	fmt.Fprintf(os.Stdout, "\n%d entries\n", len(entries))
	return nil
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all remembered queries",
	RunE:  runHistoryClear,
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd)
	store, err := openStore(cmd, log)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.ClearHistory(); err != nil {
		return err
	}
	fmt.Println("History cleared.")
	return nil
}

func init() {
	historyListCmd.Flags().Bool("json", false, "output history as JSON")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)

	rootCmd.AddCommand(historyCmd)
}
