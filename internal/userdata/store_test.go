package userdata

import (
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/medsearch/pkg/types"
)

func testStore(t *testing.T, historyLimit int) *Store {
	t.Helper()
	cfg := types.StoreConfig{
		DataDir:      t.TempDir(),
		HistoryLimit: historyLimit,
	}
	store, err := NewStore(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestHistoryRoundTrip(t *testing.T) {
	store := testStore(t, 0)

	when := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	entry := types.HistoryEntry{
		Query:      "diabetes treatment in elderly patients",
		Timestamp:  when,
		Context:    types.QueryContext{Offset: 0, Limit: 20},
		Complexity: 0.75,
	}
	require.NoError(t, store.AppendHistory(entry))

	loaded, err := store.LoadHistory()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, entry.Query, loaded[0].Query)
	assert.True(t, loaded[0].Timestamp.Equal(when))
	assert.Equal(t, 20, loaded[0].Context.Limit)
	assert.Equal(t, 0.75, loaded[0].Complexity)
}

func TestHistoryFIFOPrune(t *testing.T) {
	store := testStore(t, 5)

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		require.NoError(t, store.AppendHistory(types.HistoryEntry{
			Query:     fmt.Sprintf("query %d", i),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	loaded, err := store.LoadHistory()
	require.NoError(t, err)
	require.Len(t, loaded, 5)
	// Oldest three evicted; remainder in insertion order.
	assert.Equal(t, "query 3", loaded[0].Query)
	assert.Equal(t, "query 7", loaded[4].Query)
}

func TestClearHistory(t *testing.T) {
	store := testStore(t, 0)
	require.NoError(t, store.AppendHistory(types.HistoryEntry{
		Query:     "asthma",
		Timestamp: time.Now(),
	}))
	require.NoError(t, store.ClearHistory())

	loaded, err := store.LoadHistory()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestPreferencesRoundTrip(t *testing.T) {
	store := testStore(t, 0)

	// Missing row is not an error.
	prefs, err := store.LoadPreferences()
	require.NoError(t, err)
	assert.Empty(t, prefs.PreferredDomains)

	want := types.Preferences{
		PreferredDomains:     map[string]int{"oncology": 3, "cardiology": 1},
		ComplexityPreference: 0.6,
	}
	require.NoError(t, store.SavePreferences(want))

	prefs, err = store.LoadPreferences()
	require.NoError(t, err)
	assert.Equal(t, want, prefs)

	// Upsert replaces the previous model.
	want.PreferredDomains["oncology"] = 4
	require.NoError(t, store.SavePreferences(want))
	prefs, err = store.LoadPreferences()
	require.NoError(t, err)
	assert.Equal(t, 4, prefs.PreferredDomains["oncology"])
}

func TestSearchRecordsMostRecentFirst(t *testing.T) {
	store := testStore(t, 0)

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.RecordSearch(types.SearchRecord{
			ID:           fmt.Sprintf("search_%d_abc", i),
			Timestamp:    base.Add(time.Duration(i) * time.Hour),
			Query:        fmt.Sprintf("query %d", i),
			QueryLength:  2,
			MLEnhanced:   i%2 == 0,
			SearchType:   "standard",
			ResponseTime: 150 * time.Millisecond,
			Confidence:   0.8,
			ResultCount:  10,
			Status:       types.StatusSuccess,
			Explanation:  []string{"Focusing on treatment studies"},
		}))
	}

	records, err := store.LoadSearches()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "query 2", records[0].Query)
	assert.Equal(t, "query 0", records[2].Query)
	assert.Equal(t, 150*time.Millisecond, records[0].ResponseTime)
	assert.Equal(t, types.StatusSuccess, records[0].Status)
	assert.Equal(t, []string{"Focusing on treatment studies"}, records[0].Explanation)
}

func TestSatisfiesProcessorStore(t *testing.T) {
	// Compile-time check lives here rather than in production code so
	// the store package does not import the query package.
	store := testStore(t, 0)
	var _ interface {
		AppendHistory(types.HistoryEntry) error
		LoadHistory() ([]types.HistoryEntry, error)
		LoadPreferences() (types.Preferences, error)
		SavePreferences(types.Preferences) error
	} = store
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	cfg := types.StoreConfig{DataDir: dir}

	store, err := NewStore(cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, store.AppendHistory(types.HistoryEntry{
		Query:     "covid vaccine effectiveness",
		Timestamp: time.Now().UTC(),
	}))
	require.NoError(t, store.Close())

	reopened, err := NewStore(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.LoadHistory()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "covid vaccine effectiveness", loaded[0].Query)
}
