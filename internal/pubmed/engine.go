// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/medsearch/internal/analytics"
	"github.com/pdiddy/medsearch/internal/query"
	"github.com/pdiddy/medsearch/internal/rank"
	"github.com/pdiddy/medsearch/pkg/types"
)

// fallbackSearchExplanation marks responses answered by the simplified
// retrieval tier.
const fallbackSearchExplanation = "Using basic keyword search"

// Retriever is the provider surface the engine needs. *Client
// implements it; tests substitute fakes.
type Retriever interface {
	ESearch(ctx context.Context, term string, offset, limit int) (ESearchResult, error)
	ESummary(ctx context.Context, pmids []string) ([]types.PaperSummary, error)
	FetchAbstracts(ctx context.Context, pmids []string) (map[string]string, error)
}

// Recorder persists analytics records. Failures are logged and
// swallowed; recording never blocks a search.
type Recorder interface {
	RecordSearch(record types.SearchRecord) error
}

// Engine runs the full search pipeline: query understanding, term
// construction, retrieval, abstract backfill, ranking, and analytics.
type Engine struct {
	client    Retriever
	processor *query.Processor
	recorder  Recorder
	cfg       types.RetrievalConfig
	log       zerolog.Logger
	now       func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRecorder attaches an analytics recorder.
func WithRecorder(recorder Recorder) EngineOption {
	return func(e *Engine) { e.recorder = recorder }
}

// WithLogger attaches a logger. The default discards everything.
func WithLogger(log zerolog.Logger) EngineOption {
	return func(e *Engine) { e.log = log }
}

// WithClock replaces the wall clock used for ranking recency and
// analytics timestamps.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// NewEngine builds an Engine around a retriever and a processor.
func NewEngine(client Retriever, processor *query.Processor, cfg types.RetrievalConfig, opts ...EngineOption) *Engine {
	e := &Engine{
		client:    client,
		processor: processor,
		cfg:       cfg,
		log:       zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search answers one query, returning the response and the
// parameters that produced it. It never returns an error: retrieval
// faults and empty primary results degrade through the simplified
// keyword tier, and an empty final answer carries confidence 0.
func (e *Engine) Search(ctx context.Context, rawQuery string, qctx types.QueryContext) (types.SearchResponse, types.SearchParameters) {
	started := e.now()
	params := e.processor.ProcessQuery(rawQuery, qctx)
	term := BuildTerm(params, rawQuery)

	e.log.Debug().Str("query", rawQuery).Str("term", term).Msg("running enhanced search")

	resp, err := e.retrieve(ctx, term, rawQuery, params, qctx)
	searchType := "standard"
	if err != nil || len(resp.Papers) == 0 {
		// Tier two: a single simplified retrieval with the raw query.
		if err != nil {
			e.log.Warn().Err(err).Str("query", rawQuery).Msg("enhanced retrieval failed, trying keyword search")
		}
		searchType = "fallback"
		resp, err = e.fallbackRetrieve(ctx, rawQuery, qctx)
		if err != nil {
			e.log.Warn().Err(err).Str("query", rawQuery).Msg("keyword retrieval failed")
			resp = types.SearchResponse{Papers: []types.ScoredPaper{}}
		}
	} else {
		resp.MLEnhanced = true
		resp.Confidence = params.Confidence
		resp.Explanation = params.Explanation
	}

	e.record(rawQuery, resp, searchType, e.now().Sub(started), err)
	return resp, params
}

// retrieve runs esearch + esummary + abstract backfill + ranking for
// one term.
func (e *Engine) retrieve(ctx context.Context, term, rawQuery string, params types.SearchParameters, qctx types.QueryContext) (types.SearchResponse, error) {
	found, err := e.client.ESearch(ctx, term, qctx.Offset, qctx.Limit)
	if err != nil {
		return types.SearchResponse{}, err
	}
	if len(found.IDs) == 0 {
		return types.SearchResponse{Papers: []types.ScoredPaper{}}, nil
	}

	papers, err := e.client.ESummary(ctx, found.IDs)
	if err != nil {
		return types.SearchResponse{}, err
	}

	if e.cfg.FetchAbstracts {
		abstracts, err := e.client.FetchAbstracts(ctx, found.IDs)
		if err != nil {
			e.log.Warn().Err(err).Msg("abstract backfill failed, ranking on summaries")
		} else {
			for i := range papers {
				if text, ok := abstracts[papers[i].PMID]; ok {
					papers[i].Abstract = text
				}
			}
		}
	}

	ranked := rank.Rank(papers, params, rawQuery, e.now())
	return types.SearchResponse{Papers: ranked, Total: found.Count}, nil
}

// fallbackRetrieve is the simplified tier: the raw query as a quoted
// Title/Abstract clause, provider order preserved by the stable rank.
func (e *Engine) fallbackRetrieve(ctx context.Context, rawQuery string, qctx types.QueryContext) (types.SearchResponse, error) {
	params := query.FallbackParameters(rawQuery)
	resp, err := e.retrieve(ctx, params.Query, rawQuery, params, qctx)
	if err != nil {
		return types.SearchResponse{}, err
	}
	if len(resp.Papers) == 0 {
		// Final floor: nothing found anywhere.
		return types.SearchResponse{Papers: []types.ScoredPaper{}}, nil
	}
	resp.Confidence = 0.3
	resp.Explanation = []string{fallbackSearchExplanation}
	return resp, nil
}

// record persists the analytics record; failures never abort.
func (e *Engine) record(rawQuery string, resp types.SearchResponse, searchType string, elapsed time.Duration, err error) {
	if e.recorder == nil {
		return
	}
	record := analytics.NewRecord(rawQuery, resp, searchType, elapsed, e.now(), err)
	if storeErr := e.recorder.RecordSearch(record); storeErr != nil {
		e.log.Warn().Err(storeErr).Msg("persisting search record")
	}
}

// BuildTerm composes the final provider term: the synthesized boolean
// query (or the raw query as a Title/Abstract clause), a publication-
// type clause, a date floor, and a language clause.
func BuildTerm(params types.SearchParameters, rawQuery string) string {
	parts := make([]string, 0, 4)
	if params.Query != "" {
		parts = append(parts, params.Query)
	} else {
		parts = append(parts, fmt.Sprintf("(%s[Title/Abstract])", rawQuery))
	}

	if len(params.Advanced.StudyTypes) > 0 {
		clauses := make([]string, len(params.Advanced.StudyTypes))
		for i, st := range params.Advanced.StudyTypes {
			clauses[i] = fmt.Sprintf(`"%s"[Publication Type]`, st)
		}
		parts = append(parts, "AND ("+strings.Join(clauses, " OR ")+")")
	}

	if params.Advanced.DateRange != nil {
		parts = append(parts, fmt.Sprintf("AND %d:3000[Date - Publication]", params.Advanced.DateRange.Start.Year()))
	}

	for _, lang := range params.Advanced.Languages {
		if lang == "eng" {
			parts = append(parts, `AND "english"[Language]`)
			break
		}
	}

	return strings.Join(parts, " ")
}
