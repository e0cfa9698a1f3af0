// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed retrieves literature records from the NCBI E-utilities
// API and orchestrates the search pipeline: query understanding,
// retrieval, ranking, and analytics recording.
// Implements: prd002-retrieval (R1-R6);
//
//	docs/ARCHITECTURE § Retrieval.
package pubmed

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/medsearch/internal/httputil"
	"github.com/pdiddy/medsearch/pkg/types"
)

// eutilsBase is the E-utilities endpoint root. Declared as a var so
// tests can substitute an httptest server.
var eutilsBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/"

// recordBase is the public article page root used to build record URLs.
const recordBase = "https://pubmed.ncbi.nlm.nih.gov/"

// Client calls the E-utilities esearch, esummary, and efetch endpoints.
type Client struct {
	HTTP *http.Client
	Cfg  types.RetrievalConfig
}

// NewClient builds a client with a timeout-configured HTTP client.
func NewClient(cfg types.RetrievalConfig) *Client {
	if cfg.Tool == "" {
		cfg.Tool = "medsearch"
	}
	return &Client{
		HTTP: &http.Client{Timeout: cfg.Timeout},
		Cfg:  cfg,
	}
}

// ESearchResult holds one esearch page: the provider's total hit count
// and the requested window of PubMed IDs.
type ESearchResult struct {
	Count int
	IDs   []string
}

// ESearch runs a term search sorted by provider relevance and returns
// the ID window [offset, offset+limit).
func (c *Client) ESearch(ctx context.Context, term string, offset, limit int) (ESearchResult, error) {
	if limit <= 0 {
		limit = c.Cfg.MaxResults
	}
	if limit <= 0 {
		limit = 20
	}

	params := url.Values{
		"db":       {"pubmed"},
		"term":     {term},
		"retstart": {strconv.Itoa(offset)},
		"retmax":   {strconv.Itoa(limit)},
		"retmode":  {"json"},
		"sort":     {"relevance"},
	}

	body, err := c.get(ctx, "esearch.fcgi", params)
	if err != nil {
		return ESearchResult{}, err
	}

	var parsed esearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ESearchResult{}, fmt.Errorf("parsing esearch response: %w", err)
	}

	// The provider encodes count as a JSON string.
	count, err := strconv.Atoi(parsed.Result.Count)
	if err != nil {
		return ESearchResult{}, fmt.Errorf("parsing esearch count %q: %w", parsed.Result.Count, err)
	}
	return ESearchResult{Count: count, IDs: parsed.Result.IDList}, nil
}

// ESummary fetches summary records for the given PubMed IDs, in the
// provider's uid order.
func (c *Client) ESummary(ctx context.Context, pmids []string) ([]types.PaperSummary, error) {
	if len(pmids) == 0 {
		return nil, nil
	}

	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(pmids, ",")},
		"retmode": {"json"},
	}

	body, err := c.get(ctx, "esummary.fcgi", params)
	if err != nil {
		return nil, err
	}

	var parsed esummaryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parsing esummary response: %w", err)
	}

	papers := make([]types.PaperSummary, 0, len(parsed.Result.UIDs))
	for _, pmid := range parsed.Result.UIDs {
		raw, ok := parsed.Result.Summaries[pmid]
		if !ok {
			continue
		}
		var summary articleSummary
		if err := json.Unmarshal(raw, &summary); err != nil {
			continue
		}
		if summary.Error != "" {
			continue
		}
		papers = append(papers, buildPaper(pmid, summary))
	}
	return papers, nil
}

// FetchAbstracts retrieves full abstracts via efetch XML, keyed by
// PMID. Labelled sections are joined as "Label: text" paragraphs.
// Summary records do not carry abstracts, so the engine backfills the
// result page with this call.
func (c *Client) FetchAbstracts(ctx context.Context, pmids []string) (map[string]string, error) {
	abstracts := map[string]string{}
	if len(pmids) == 0 {
		return abstracts, nil
	}

	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(pmids, ",")},
		"retmode": {"xml"},
	}

	body, err := c.get(ctx, "efetch.fcgi", params)
	if err != nil {
		return nil, err
	}

	var parsed efetchArticleSet
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parsing efetch response: %w", err)
	}

	for _, article := range parsed.Articles {
		pmid := strings.TrimSpace(article.PMID)
		if pmid == "" || len(article.AbstractTexts) == 0 {
			continue
		}
		parts := make([]string, 0, len(article.AbstractTexts))
		for _, section := range article.AbstractTexts {
			text := strings.TrimSpace(section.Text)
			if section.Label != "" {
				parts = append(parts, section.Label+": "+text)
			} else {
				parts = append(parts, text)
			}
		}
		abstracts[pmid] = strings.Join(parts, "\n\n")
	}
	return abstracts, nil
}

// get issues one E-utilities request with credentials and retry
// handling, returning the response body.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if c.Cfg.APIKey != "" {
		params.Set("api_key", c.Cfg.APIKey)
	}
	if c.Cfg.Email != "" {
		params.Set("email", c.Cfg.Email)
		params.Set("tool", c.Cfg.Tool)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, eutilsBase+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.Cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.Cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, 0)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned HTTP %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", endpoint, err)
	}
	return body, nil
}

var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

// titleWordPattern picks keyword candidates from titles: words of four
// or more characters.
var titleWordPattern = regexp.MustCompile(`\b\w{4,}\b`)

// buildPaper converts one provider summary into the shared record
// shape. The record URL, DOI, year, and title keywords are derived
// here so downstream stages stay provider-agnostic.
func buildPaper(pmid string, summary articleSummary) types.PaperSummary {
	paper := types.PaperSummary{
		PaperID:          "pubmed_" + pmid,
		PMID:             pmid,
		Title:            summary.Title,
		Journal:          summary.Source,
		PublicationDate:  summary.PubDate,
		PublicationTypes: summary.PubTypes,
		URL:              recordBase + pmid + "/",
	}
	if paper.Title == "" {
		paper.Title = "Untitled"
	}

	for i, author := range summary.Authors {
		if i == 10 {
			break
		}
		if author.Name != "" {
			paper.Authors = append(paper.Authors, types.Author{Name: author.Name})
		}
	}

	if m := yearPattern.FindStringSubmatch(summary.PubDate); m != nil {
		paper.Year, _ = strconv.Atoi(m[1])
	}

	for _, id := range summary.ArticleIDs {
		if id.IDType == "doi" {
			paper.DOI = id.Value
			break
		}
	}

	words := titleWordPattern.FindAllString(strings.ToLower(summary.Title), 5)
	paper.Keywords = words

	return paper
}

// Provider JSON structures. esummary keys the result object by uid
// alongside a "uids" array that fixes iteration order.
type esearchResponse struct {
	Result esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	Count  string   `json:"count"`
	IDList []string `json:"idlist"`
}

type esummaryResponse struct {
	Result esummaryResult `json:"result"`
}

type esummaryResult struct {
	UIDs      []string
	Summaries map[string]json.RawMessage
}

// UnmarshalJSON splits the uid list from the per-uid summary objects.
func (r *esummaryResult) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Summaries = map[string]json.RawMessage{}
	for key, value := range raw {
		if key == "uids" {
			if err := json.Unmarshal(value, &r.UIDs); err != nil {
				return err
			}
			continue
		}
		r.Summaries[key] = value
	}
	return nil
}

type articleSummary struct {
	Title      string          `json:"title"`
	Source     string          `json:"source"`
	PubDate    string          `json:"pubdate"`
	PubTypes   []string        `json:"pubtype"`
	Authors    []summaryAuthor `json:"authors"`
	ArticleIDs []articleID     `json:"articleids"`
	Error      string          `json:"error"`
}

type summaryAuthor struct {
	Name string `json:"name"`
}

type articleID struct {
	IDType string `json:"idtype"`
	Value  string `json:"value"`
}

// Provider XML structures for efetch.
type efetchArticleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []efetchArticle `xml:"PubmedArticle"`
}

type efetchArticle struct {
	PMID          string               `xml:"MedlineCitation>PMID"`
	AbstractTexts []efetchAbstractText `xml:"MedlineCitation>Article>Abstract>AbstractText"`
}

type efetchAbstractText struct {
	Label string `xml:"Label,attr"`
	Text  string `xml:",chardata"`
}
