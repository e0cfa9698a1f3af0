// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query turns free-text medical queries into structured
// retrieval parameters: extraction, semantic analysis, parameter
// synthesis, and keyword fallback.
// Implements: prd001-query-understanding (R1-R6);
//
//	docs/ARCHITECTURE § Query Understanding.
package query

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/medsearch/pkg/types"
)

// HistoryLimit caps the remembered queries; the oldest entries are
// evicted first, immediately after each append (R4.2).
const HistoryLimit = 100

// fallbackExplanation is the single explanation entry on fallback
// parameters (R6.1).
const fallbackExplanation = "Using basic keyword search as fallback"

// Store persists history and preferences between sessions. Failures are
// logged and swallowed: personalization is best-effort (R4.4).
type Store interface {
	AppendHistory(entry types.HistoryEntry) error
	LoadHistory() ([]types.HistoryEntry, error)
	LoadPreferences() (types.Preferences, error)
	SavePreferences(prefs types.Preferences) error
}

// Processor runs the query-understanding pipeline and owns the bounded
// query history used for suggestions and preference modelling. All
// pipeline stages are pure; only history and preference updates take
// the mutex (R4.1).
type Processor struct {
	store   Store
	similar SimilarityModel
	log     zerolog.Logger
	now     func() time.Time

	// Stage functions are fields so tests can inject faults.
	extract    func(string) EntityBundle
	analyze    func(string, EntityBundle) Analysis
	synthesize func(Analysis, types.QueryContext, time.Time) types.SearchParameters

	mu      sync.Mutex
	history []types.HistoryEntry
	prefs   types.Preferences
}

// Option configures a Processor.
type Option func(*Processor)

// WithStore attaches a durable store. History and preferences are
// loaded from it at construction; load failures leave them empty.
func WithStore(store Store) Option {
	return func(p *Processor) { p.store = store }
}

// WithSimilarityModel replaces the default no-op similarity model.
func WithSimilarityModel(model SimilarityModel) Option {
	return func(p *Processor) { p.similar = model }
}

// WithLogger attaches a logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Processor) { p.log = log }
}

// WithClock replaces the wall clock for date-relative synthesis rules.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// NewProcessor builds a Processor with the static lexicons.
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{
		similar:    staticSimilarity{},
		log:        zerolog.Nop(),
		now:        time.Now,
		extract:    Extract,
		analyze:    Analyze,
		synthesize: Synthesize,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.store != nil {
		history, err := p.store.LoadHistory()
		if err != nil {
			p.log.Warn().Err(err).Msg("loading query history")
		} else {
			if len(history) > HistoryLimit {
				history = history[len(history)-HistoryLimit:]
			}
			p.history = history
		}
		prefs, err := p.store.LoadPreferences()
		if err != nil {
			p.log.Warn().Err(err).Msg("loading preferences")
		} else {
			p.prefs = prefs
		}
	}
	return p
}

// ProcessQuery runs normalize, extract, analyze, and synthesize over a
// query. It never fails: a fault in any stage degrades to the keyword
// fallback parameters (R6.1). The query is remembered for suggestions
// and preference modelling.
func (p *Processor) ProcessQuery(query string, ctx types.QueryContext) (params types.SearchParameters) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Str("query", query).Msg("query understanding failed, using keyword fallback")
			params = FallbackParameters(query)
		}
	}()

	p.log.Debug().Str("query", query).Msg("processing query")

	normalized := Normalize(query)
	entities := p.extract(normalized)
	analysis := p.analyze(normalized, entities)

	if analysis.Focus.Primary != "" {
		if terms := p.similar.SimilarTerms(analysis.Focus.Primary, similarityThreshold); len(terms) > 0 {
			analysis.Synonyms = append(analysis.Synonyms, SynonymExpansion{
				Original:  analysis.Focus.Primary,
				Synonyms:  terms,
				Relevance: similarityThreshold,
			})
		}
	}

	when := p.now()
	if !ctx.Timestamp.IsZero() {
		when = ctx.Timestamp
	}
	params = p.synthesize(analysis, ctx, when)

	// Carry the extracted study types and concepts into the advanced
	// options; the ranker and provider filters consume them.
	for _, st := range entities.StudyTypes {
		params.Advanced.StudyTypes = append(params.Advanced.StudyTypes, st.Label)
	}
	if analysis.Focus.Primary != "" {
		params.Advanced.MeshTerms = append([]string{analysis.Focus.Primary}, analysis.Focus.Secondary...)
	}

	p.remember(query, ctx, when, analysis.Complexity)
	return params
}

// FallbackParameters is the degraded parameter set: the raw query as a
// quoted Title/Abstract clause at confidence 0.3 (R6.1).
func FallbackParameters(query string) types.SearchParameters {
	return types.SearchParameters{
		Query:       KeywordClause(query),
		Filters:     map[string]string{},
		Sort:        types.SortRelevance,
		Confidence:  0.3,
		Explanation: []string{fallbackExplanation},
	}
}

// remember appends to history, truncates to the cap, refreshes the
// preference model, and writes through to the store.
func (p *Processor) remember(query string, ctx types.QueryContext, when time.Time, complexity float64) {
	entry := types.HistoryEntry{
		Query:      query,
		Timestamp:  when,
		Context:    ctx,
		Complexity: complexity,
	}

	p.mu.Lock()
	p.history = append(p.history, entry)
	if len(p.history) > HistoryLimit {
		p.history = p.history[len(p.history)-HistoryLimit:]
	}
	p.refreshPreferences()
	prefs := p.prefs
	p.mu.Unlock()

	if p.store == nil {
		return
	}
	if err := p.store.AppendHistory(entry); err != nil {
		p.log.Warn().Err(err).Msg("persisting history entry")
	}
	if err := p.store.SavePreferences(prefs); err != nil {
		p.log.Warn().Err(err).Msg("persisting preferences")
	}
}

// refreshPreferences rebuilds the domain counts and complexity
// preference from the last ten queries. Callers hold the mutex.
// Per prd004-personalization R2.1-R2.2.
func (p *Processor) refreshPreferences() {
	if len(p.history) < 5 {
		return
	}
	recent := p.history
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}

	domains := map[string]int{}
	var totalComplexity float64
	for _, entry := range recent {
		text := strings.ToLower(entry.Query)
		if strings.Contains(text, "cancer") || strings.Contains(text, "tumor") {
			domains["oncology"]++
		}
		if strings.Contains(text, "heart") || strings.Contains(text, "cardiac") {
			domains["cardiology"]++
		}
		totalComplexity += entry.Complexity
	}

	p.prefs.PreferredDomains = domains
	p.prefs.ComplexityPreference = totalComplexity / float64(len(recent))
}

// History returns a copy of the remembered queries, oldest first.
func (p *Processor) History() []types.HistoryEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]types.HistoryEntry, len(p.history))
	copy(out, p.history)
	return out
}

// Preferences returns the current preference model.
func (p *Processor) Preferences() types.Preferences {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.prefs
}
