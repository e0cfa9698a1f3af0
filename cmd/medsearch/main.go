// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the medsearch CLI.
// Implements: prd001-query-understanding through prd006-evaluation
// (CLI surface). See docs/ARCHITECTURE § Pipeline Interface.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/medsearch/internal/query"
	"github.com/pdiddy/medsearch/internal/secrets"
	"github.com/pdiddy/medsearch/internal/userdata"
	"github.com/pdiddy/medsearch/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// credentials holds the provider credentials loaded from .secrets/ at
// startup.
var credentials secrets.Credentials

// rootCmd is the base command for the medsearch CLI.
var rootCmd = &cobra.Command{
	Use:   "medsearch",
	Short: "ML-enhanced medical literature search",
	Long: `medsearch turns free-text medical questions into structured PubMed
queries, retrieves matching literature, and ranks it by estimated relevance.

The pipeline recognizes medical concepts, abbreviations, demographics, and
study designs; classifies search intent; and synthesizes a boolean query
with filters and an explanation trail. Every failure path degrades to a
plain keyword search rather than erroring out.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		creds, err := secrets.LoadCredentials(".secrets/")
		if err != nil {
			return err
		}
		credentials = creds
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./medsearch.yaml or ~/.config/medsearch/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory for history, preferences, and analytics (default: data)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("medsearch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "medsearch"))
		}
	}

	viper.SetEnvPrefix("MEDSEARCH")
	viper.AutomaticEnv()

	viper.SetDefault("data_dir", "data")
	viper.SetDefault("retrieval.timeout", 30*time.Second)
	viper.SetDefault("retrieval.max_results", 20)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the CLI logger: console output on stderr, debug
// level with --verbose, warnings otherwise.
func newLogger(cmd *cobra.Command) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// storeConfig resolves the user-data store settings from flags and
// config.
func storeConfig(cmd *cobra.Command) types.StoreConfig {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	if dataDir == "" {
		dataDir = viper.GetString("data_dir")
	}
	return types.StoreConfig{DataDir: dataDir}
}

// retrievalConfig resolves provider settings, folding in loaded
// credentials.
func retrievalConfig(limit int) types.RetrievalConfig {
	cfg := types.RetrievalConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("retrieval.timeout"),
			UserAgent: "medsearch/" + version,
		},
		APIKey:         credentials.NCBIAPIKey,
		Email:          credentials.EntrezEmail,
		MaxResults:     viper.GetInt("retrieval.max_results"),
		FetchAbstracts: viper.GetBool("retrieval.fetch_abstracts"),
	}
	if limit > 0 {
		cfg.MaxResults = limit
	}
	return cfg
}

// openStore opens the user-data store. Store failures are reported by
// the caller; personalization and analytics are best-effort.
func openStore(cmd *cobra.Command, log zerolog.Logger) (*userdata.Store, error) {
	return userdata.NewStore(storeConfig(cmd), log)
}

// newProcessor builds the query processor, optionally backed by a
// store for history and preferences.
func newProcessor(store *userdata.Store, log zerolog.Logger) *query.Processor {
	opts := []query.Option{query.WithLogger(log)}
	if store != nil {
		opts = append(opts, query.WithStore(store))
	}
	return query.NewProcessor(opts...)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
