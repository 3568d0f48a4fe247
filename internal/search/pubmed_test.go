// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdiddy/sysrev-engine/pkg/types"
)

const efetchFixture = `<?xml version="1.0"?>
<PubmedArticleSet>
  <PubmedArticle>
    <MedlineCitation>
      <PMID>12345</PMID>
      <DateCompleted><Year>2023</Year></DateCompleted>
      <Article>
        <Journal><Title>Journal of Testing</Title></Journal>
        <ArticleTitle>Cancer screening outcomes</ArticleTitle>
        <Abstract>
          <AbstractText>Background text.</AbstractText>
          <AbstractText>Conclusion text.</AbstractText>
        </Abstract>
        <AuthorList>
          <Author><LastName>Silva</LastName><ForeName>Ana</ForeName></Author>
          <Author><LastName>Costa</LastName><ForeName>Bruno</ForeName></Author>
        </AuthorList>
        <Language>eng</Language>
        <PublicationTypeList>
          <PublicationType>Journal Article</PublicationType>
          <PublicationType>Review</PublicationType>
        </PublicationTypeList>
      </Article>
    </MedlineCitation>
    <PubmedData>
      <ArticleIdList>
        <ArticleId IdType="pubmed">12345</ArticleId>
        <ArticleId IdType="doi">10.1000/test.1</ArticleId>
      </ArticleIdList>
    </PubmedData>
  </PubmedArticle>
</PubmedArticleSet>`

func pubmedTestServer(t *testing.T, ids []string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/esearch.fcgi", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("db") != "pubmed" {
			t.Errorf("esearch db = %q, want pubmed", r.URL.Query().Get("db"))
		}
		fmt.Fprintf(w, `{"esearchresult":{"idlist":["%s"]}}`, strings.Join(ids, `","`))
	})
	mux.HandleFunc("/efetch.fcgi", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, efetchFixture)
	})
	return httptest.NewServer(mux)
}

func TestPubMedSearch(t *testing.T) {
	srv := pubmedTestServer(t, []string{"12345"})
	defer srv.Close()

	oldBase := entrezBase
	entrezBase = srv.URL
	defer func() { entrezBase = oldBase }()

	cfg := types.SearchConfig{Email: "reviewer@example.org"}
	c := NewPubMedClient(cfg)

	records, err := c.Search(context.Background(), "cancer screening", cfg)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}

	r := records[0]
	if r.Source != "pubmed" {
		t.Errorf("source = %q, want pubmed", r.Source)
	}
	if r.Title != "Cancer screening outcomes" {
		t.Errorf("title = %q", r.Title)
	}
	if r.Abstract != "Background text. Conclusion text." {
		t.Errorf("abstract = %q", r.Abstract)
	}
	if r.Authors != "Ana Silva; Bruno Costa" {
		t.Errorf("authors = %q", r.Authors)
	}
	if r.Journal != "Journal of Testing" {
		t.Errorf("journal = %q", r.Journal)
	}
	if r.Year != 2023 {
		t.Errorf("year = %d, want 2023", r.Year)
	}
	if r.Language != "eng" {
		t.Errorf("language = %q, want eng", r.Language)
	}
	if r.PubTypes != "Journal Article; Review" {
		t.Errorf("pub_types = %q", r.PubTypes)
	}
	if r.DOI != "10.1000/test.1" {
		t.Errorf("doi = %q", r.DOI)
	}
	if r.PMID != "12345" {
		t.Errorf("pmid = %q", r.PMID)
	}
	if r.Query != "cancer screening" {
		t.Errorf("query = %q", r.Query)
	}
	if r.RetrievedAt.IsZero() {
		t.Error("retrieved_at not set")
	}
}

func TestPubMedSearchRequiresEmail(t *testing.T) {
	cfg := types.SearchConfig{}
	c := NewPubMedClient(cfg)
	if _, err := c.Search(context.Background(), "q", cfg); err == nil {
		t.Fatal("expected an error without a contact email")
	}
}

func TestPubMedSearchEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"esearchresult":{"idlist":[]}}`)
	}))
	defer srv.Close()

	oldBase := entrezBase
	entrezBase = srv.URL
	defer func() { entrezBase = oldBase }()

	cfg := types.SearchConfig{Email: "reviewer@example.org"}
	c := NewPubMedClient(cfg)

	records, err := c.Search(context.Background(), "no hits", cfg)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("len(records) = %d, want 0", len(records))
	}
}

func TestPubMedSearchDateRange(t *testing.T) {
	var gotMin, gotMax, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMin = r.URL.Query().Get("mindate")
		gotMax = r.URL.Query().Get("maxdate")
		gotType = r.URL.Query().Get("datetype")
		fmt.Fprint(w, `{"esearchresult":{"idlist":[]}}`)
	}))
	defer srv.Close()

	oldBase := entrezBase
	entrezBase = srv.URL
	defer func() { entrezBase = oldBase }()

	cfg := types.SearchConfig{
		Email:     "reviewer@example.org",
		DateStart: "2020-01-01T00:00:00Z",
		DateEnd:   "2024-12-31",
	}
	c := NewPubMedClient(cfg)
	if _, err := c.Search(context.Background(), "q", cfg); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotType != "pdat" {
		t.Errorf("datetype = %q, want pdat", gotType)
	}
	if gotMin != "2020-01-01" {
		t.Errorf("mindate = %q, want 2020-01-01", gotMin)
	}
	if gotMax != "2024-12-31" {
		t.Errorf("maxdate = %q, want 2024-12-31", gotMax)
	}
}

func TestPubMedSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	oldBase := entrezBase
	entrezBase = srv.URL
	defer func() { entrezBase = oldBase }()

	cfg := types.SearchConfig{Email: "reviewer@example.org"}
	c := NewPubMedClient(cfg)
	if _, err := c.Search(context.Background(), "q", cfg); err == nil {
		t.Fatal("expected an error on HTTP 500")
	}
}
