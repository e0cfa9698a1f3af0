// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package userdata persists query history, the preference model, and
// search analytics records in a local SQLite database.
// Implements: prd004-personalization (R3.1-R3.3); prd005-analytics (R3.1);
//
//	docs/ARCHITECTURE § User Data.
package userdata

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/pdiddy/medsearch/pkg/types"
)

const dbFile = "medsearch.db"

// preferencesKey is the single row key under which the preference model
// is stored.
const preferencesKey = "user"

// defaultHistoryLimit caps remembered queries when the config leaves
// HistoryLimit unset.
const defaultHistoryLimit = 100

// Store manages the user-data SQLite database. It satisfies
// query.Store; all failures surface as errors for the caller to log
// and swallow, never to abort on.
type Store struct {
	db           *sql.DB
	historyLimit int
	log          zerolog.Logger
}

// NewStore opens or creates the database at cfg.DataDir/medsearch.db
// and bootstraps the schema.
func NewStore(cfg types.StoreConfig, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	limit := cfg.HistoryLimit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	s := &Store{db: db, historyLimit: limit, log: log}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS history (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			query TEXT NOT NULL,
			ts TEXT NOT NULL,
			context TEXT,
			complexity REAL
		)`,
		`CREATE TABLE IF NOT EXISTS preferences (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS searches (
			id TEXT PRIMARY KEY,
			ts TEXT NOT NULL,
			query TEXT NOT NULL,
			query_length INTEGER,
			ml_enhanced INTEGER,
			search_type TEXT,
			response_time_ms INTEGER,
			confidence REAL,
			result_count INTEGER,
			status TEXT,
			error TEXT,
			explanation TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_searches_ts ON searches(ts)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// AppendHistory inserts one history entry and prunes the table to the
// history limit inside the same transaction, so the cap holds even if
// the process dies between calls.
func (s *Store) AppendHistory(entry types.HistoryEntry) error {
	contextJSON, err := json.Marshal(entry.Context)
	if err != nil {
		return fmt.Errorf("encoding history context: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO history (query, ts, context, complexity) VALUES (?, ?, ?, ?)`,
		entry.Query, entry.Timestamp.UTC().Format(time.RFC3339Nano),
		string(contextJSON), entry.Complexity,
	)
	if err != nil {
		return fmt.Errorf("inserting history entry: %w", err)
	}

	// FIFO prune: drop everything but the newest historyLimit rows.
	_, err = tx.Exec(
		`DELETE FROM history WHERE rowid NOT IN (
			SELECT rowid FROM history ORDER BY rowid DESC LIMIT ?
		)`, s.historyLimit,
	)
	if err != nil {
		return fmt.Errorf("pruning history: %w", err)
	}

	return tx.Commit()
}

// LoadHistory returns the remembered queries, oldest first.
func (s *Store) LoadHistory() ([]types.HistoryEntry, error) {
	rows, err := s.db.Query(
		`SELECT query, ts, context, complexity FROM history ORDER BY rowid ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []types.HistoryEntry
	for rows.Next() {
		var entry types.HistoryEntry
		var ts, contextJSON string
		if err := rows.Scan(&entry.Query, &ts, &contextJSON, &entry.Complexity); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		if entry.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parsing history timestamp %q: %w", ts, err)
		}
		if contextJSON != "" {
			if err := json.Unmarshal([]byte(contextJSON), &entry.Context); err != nil {
				s.log.Warn().Err(err).Str("query", entry.Query).Msg("dropping malformed history context")
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ClearHistory removes all remembered queries.
func (s *Store) ClearHistory() error {
	if _, err := s.db.Exec(`DELETE FROM history`); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

// LoadPreferences returns the stored preference model. A missing row
// yields the zero value, not an error.
func (s *Store) LoadPreferences() (types.Preferences, error) {
	var value string
	err := s.db.QueryRow(
		`SELECT value FROM preferences WHERE key = ?`, preferencesKey,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return types.Preferences{}, nil
	}
	if err != nil {
		return types.Preferences{}, fmt.Errorf("querying preferences: %w", err)
	}

	var prefs types.Preferences
	if err := json.Unmarshal([]byte(value), &prefs); err != nil {
		return types.Preferences{}, fmt.Errorf("decoding preferences: %w", err)
	}
	return prefs, nil
}

// SavePreferences upserts the preference model.
func (s *Store) SavePreferences(prefs types.Preferences) error {
	value, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO preferences (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		preferencesKey, string(value),
	)
	if err != nil {
		return fmt.Errorf("saving preferences: %w", err)
	}
	return nil
}

// RecordSearch inserts one analytics record.
func (s *Store) RecordSearch(record types.SearchRecord) error {
	explanationJSON, err := json.Marshal(record.Explanation)
	if err != nil {
		return fmt.Errorf("encoding record explanation: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO searches
		 (id, ts, query, query_length, ml_enhanced, search_type,
		  response_time_ms, confidence, result_count, status, error, explanation)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Timestamp.UTC().Format(time.RFC3339Nano),
		record.Query, record.QueryLength, record.MLEnhanced, record.SearchType,
		record.ResponseTime.Milliseconds(), record.Confidence,
		record.ResultCount, string(record.Status), record.Error,
		string(explanationJSON),
	)
	if err != nil {
		return fmt.Errorf("inserting search record: %w", err)
	}
	return nil
}

// LoadSearches returns all analytics records, most recent first.
func (s *Store) LoadSearches() ([]types.SearchRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, ts, query, query_length, ml_enhanced, search_type,
		        response_time_ms, confidence, result_count, status, error,
		        explanation
		 FROM searches ORDER BY ts DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying search records: %w", err)
	}
	defer rows.Close()

	var records []types.SearchRecord
	for rows.Next() {
		var record types.SearchRecord
		var ts, status, explanationJSON string
		var responseMillis int64
		err := rows.Scan(
			&record.ID, &ts, &record.Query, &record.QueryLength,
			&record.MLEnhanced, &record.SearchType, &responseMillis,
			&record.Confidence, &record.ResultCount, &status, &record.Error,
			&explanationJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning search record: %w", err)
		}
		if record.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parsing record timestamp %q: %w", ts, err)
		}
		if explanationJSON != "" && explanationJSON != "null" {
			if err := json.Unmarshal([]byte(explanationJSON), &record.Explanation); err != nil {
				s.log.Warn().Err(err).Str("id", record.ID).Msg("dropping malformed record explanation")
			}
		}
		record.ResponseTime = time.Duration(responseMillis) * time.Millisecond
		record.Status = types.SearchStatus(status)
		records = append(records, record)
	}
	return records, rows.Err()
}

// ClearSearches removes all analytics records.
func (s *Store) ClearSearches() error {
	if _, err := s.db.Exec(`DELETE FROM searches`); err != nil {
		return fmt.Errorf("clearing search records: %w", err)
	}
	return nil
}
