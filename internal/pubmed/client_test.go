// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdiddy/medsearch/pkg/types"
)

const sampleESearchJSON = `{
  "esearchresult": {
    "count": "2041",
    "retmax": "2",
    "retstart": "0",
    "idlist": ["38012345", "37998877"]
  }
}`

const sampleESummaryJSON = `{
  "result": {
    "uids": ["38012345", "37998877"],
    "38012345": {
      "title": "Metformin therapy in elderly patients with type 2 diabetes",
      "source": "Lancet Diabetes Endocrinol",
      "pubdate": "2024 Mar 5",
      "pubtype": ["Randomized Controlled Trial", "Journal Article"],
      "authors": [{"name": "Smith J"}, {"name": "Jones A"}],
      "articleids": [
        {"idtype": "pubmed", "value": "38012345"},
        {"idtype": "doi", "value": "10.1016/S2213-8587(24)00001-2"}
      ]
    },
    "37998877": {
      "title": "Insulin resistance mechanisms",
      "source": "Diabetes Care",
      "pubdate": "2023 Nov",
      "pubtype": ["Review"],
      "authors": [{"name": "Lee K"}],
      "articleids": [{"idtype": "pubmed", "value": "37998877"}]
    }
  }
}`

const sampleEFetchXML = `<?xml version="1.0" ?>
<PubmedArticleSet>
  <PubmedArticle>
    <MedlineCitation>
      <PMID Version="1">38012345</PMID>
      <Article>
        <Abstract>
          <AbstractText Label="BACKGROUND">Metformin remains first-line.</AbstractText>
          <AbstractText Label="METHODS">Double-blind trial of 400 patients.</AbstractText>
        </Abstract>
      </Article>
    </MedlineCitation>
  </PubmedArticle>
  <PubmedArticle>
    <MedlineCitation>
      <PMID Version="1">37998877</PMID>
      <Article>
        <Abstract>
          <AbstractText>Unlabelled abstract text.</AbstractText>
        </Abstract>
      </Article>
    </MedlineCitation>
  </PubmedArticle>
</PubmedArticleSet>`

// withTestServer points eutilsBase at an httptest server for the test.
func withTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	original := eutilsBase
	eutilsBase = server.URL + "/"
	t.Cleanup(func() { eutilsBase = original })

	return NewClient(types.RetrievalConfig{
		HTTPConfig: types.HTTPConfig{UserAgent: "medsearch-test/0"},
		APIKey:     "testkey",
		MaxResults: 20,
	})
}

// --- ESearch ---

func TestESearch(t *testing.T) {
	var gotQuery string
	client := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "esearch.fcgi") {
			t.Errorf("path = %q, want esearch.fcgi", r.URL.Path)
		}
		gotQuery = r.URL.Query().Get("term")
		if r.URL.Query().Get("api_key") != "testkey" {
			t.Errorf("api_key = %q, want testkey", r.URL.Query().Get("api_key"))
		}
		if r.URL.Query().Get("sort") != "relevance" {
			t.Errorf("sort = %q, want relevance", r.URL.Query().Get("sort"))
		}
		w.Write([]byte(sampleESearchJSON))
	})

	result, err := client.ESearch(context.Background(), `"Diabetes Mellitus"[MeSH Terms]`, 0, 20)
	if err != nil {
		t.Fatal(err)
	}
	if gotQuery != `"Diabetes Mellitus"[MeSH Terms]` {
		t.Errorf("term = %q", gotQuery)
	}
	if result.Count != 2041 {
		t.Errorf("Count = %d, want 2041", result.Count)
	}
	if len(result.IDs) != 2 || result.IDs[0] != "38012345" {
		t.Errorf("IDs = %v", result.IDs)
	}
}

func TestESearchHTTPError(t *testing.T) {
	client := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	_, err := client.ESearch(context.Background(), "diabetes", 0, 20)
	if err == nil || !strings.Contains(err.Error(), "HTTP 500") {
		t.Errorf("err = %v, want HTTP 500", err)
	}
}

// --- ESummary ---

func TestESummary(t *testing.T) {
	client := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id"); got != "38012345,37998877" {
			t.Errorf("id = %q", got)
		}
		w.Write([]byte(sampleESummaryJSON))
	})

	papers, err := client.ESummary(context.Background(), []string{"38012345", "37998877"})
	if err != nil {
		t.Fatal(err)
	}
	if len(papers) != 2 {
		t.Fatalf("len(papers) = %d, want 2", len(papers))
	}

	// uid order, not map order.
	first := papers[0]
	if first.PMID != "38012345" || first.PaperID != "pubmed_38012345" {
		t.Errorf("first paper = %q / %q", first.PMID, first.PaperID)
	}
	if first.Year != 2024 {
		t.Errorf("Year = %d, want 2024", first.Year)
	}
	if first.DOI != "10.1016/S2213-8587(24)00001-2" {
		t.Errorf("DOI = %q", first.DOI)
	}
	if first.URL != "https://pubmed.ncbi.nlm.nih.gov/38012345/" {
		t.Errorf("URL = %q", first.URL)
	}
	if len(first.Authors) != 2 || first.Authors[0].Name != "Smith J" {
		t.Errorf("Authors = %v", first.Authors)
	}
	// First five words of four or more characters.
	wantKeywords := []string{"metformin", "therapy", "elderly", "patients", "with"}
	if len(first.Keywords) != 5 {
		t.Fatalf("Keywords = %v", first.Keywords)
	}
	for i, kw := range wantKeywords {
		if first.Keywords[i] != kw {
			t.Errorf("Keywords[%d] = %q, want %q", i, first.Keywords[i], kw)
		}
	}
	if papers[1].Year != 2023 {
		t.Errorf("second Year = %d, want 2023", papers[1].Year)
	}
}

func TestESummaryEmpty(t *testing.T) {
	client := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request made for empty id list")
	})
	papers, err := client.ESummary(context.Background(), nil)
	if err != nil || papers != nil {
		t.Errorf("papers = %v, err = %v, want nil/nil", papers, err)
	}
}

// --- FetchAbstracts ---

func TestFetchAbstracts(t *testing.T) {
	client := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "efetch.fcgi") {
			t.Errorf("path = %q, want efetch.fcgi", r.URL.Path)
		}
		if r.URL.Query().Get("retmode") != "xml" {
			t.Errorf("retmode = %q, want xml", r.URL.Query().Get("retmode"))
		}
		w.Write([]byte(sampleEFetchXML))
	})

	abstracts, err := client.FetchAbstracts(context.Background(), []string{"38012345", "37998877"})
	if err != nil {
		t.Fatal(err)
	}
	want := "BACKGROUND: Metformin remains first-line.\n\nMETHODS: Double-blind trial of 400 patients."
	if abstracts["38012345"] != want {
		t.Errorf("abstract = %q\nwant %q", abstracts["38012345"], want)
	}
	if abstracts["37998877"] != "Unlabelled abstract text." {
		t.Errorf("unlabelled abstract = %q", abstracts["37998877"])
	}
}

// --- BuildTerm ---

func TestBuildTerm(t *testing.T) {
	tests := []struct {
		name   string
		params types.SearchParameters
		raw    string
		want   string
	}{
		{
			name:   "raw fallback when no synthesized query",
			params: types.SearchParameters{},
			raw:    "heart attack",
			want:   "(heart attack[Title/Abstract])",
		},
		{
			name: "synthesized query with language",
			params: types.SearchParameters{
				Query:    `"Diabetes Mellitus"[MeSH Terms]`,
				Advanced: types.AdvancedOptions{Languages: []string{"eng"}},
			},
			raw:  "diabetes",
			want: `"Diabetes Mellitus"[MeSH Terms] AND "english"[Language]`,
		},
		{
			name: "study types joined with OR",
			params: types.SearchParameters{
				Query: `"Hypertension"[MeSH Terms]`,
				Advanced: types.AdvancedOptions{
					StudyTypes: []string{"randomized controlled trial", "meta-analysis"},
				},
			},
			raw:  "hypertension",
			want: `"Hypertension"[MeSH Terms] AND ("randomized controlled trial"[Publication Type] OR "meta-analysis"[Publication Type])`,
		},
		{
			name: "date floor from urgency window",
			params: types.SearchParameters{
				Query: `"Stroke"[MeSH Terms]`,
				Advanced: types.AdvancedOptions{
					DateRange: &types.DateRange{Start: testNow.AddDate(-1, 0, 0)},
				},
			},
			raw:  "acute stroke",
			want: `"Stroke"[MeSH Terms] AND 2025:3000[Date - Publication]`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildTerm(tt.params, tt.raw)
			if got != tt.want {
				t.Errorf("BuildTerm() = %q\nwant %q", got, tt.want)
			}
		})
	}
}
