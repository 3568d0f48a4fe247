// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/sysrev-engine/internal/httputil"
	"github.com/pdiddy/sysrev-engine/pkg/types"
)

// entrezBase is the NCBI E-utilities endpoint. Declared as a var so tests can
// substitute an httptest server.
var entrezBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// efetchBatchSize is the number of PMIDs fetched per efetch request.
const efetchBatchSize = 200

// PubMedClient queries PubMed through the Entrez E-utilities: esearch for
// PMIDs, then efetch in batches for full MEDLINE records. NCBI etiquette
// allows 3 requests per second without an API key and 10 with one; the
// limiter enforces that across both calls.
type PubMedClient struct {
	HTTP    *http.Client
	limiter *rate.Limiter
}

// NewPubMedClient builds a PubMed client with the rate limit matching the
// configured credentials.
func NewPubMedClient(cfg types.SearchConfig) *PubMedClient {
	rps := rate.Limit(3)
	if cfg.EntrezAPIKey != "" {
		rps = 10
	}
	return &PubMedClient{
		HTTP:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rps, 1),
	}
}

// Name returns the client identifier.
func (c *PubMedClient) Name() string { return "pubmed" }

// Search runs esearch then efetch and returns standardized records. A
// contact email is required by NCBI etiquette; searching without one is a
// configuration error.
func (c *PubMedClient) Search(ctx context.Context, query string, cfg types.SearchConfig) ([]types.Record, error) {
	if !strings.Contains(cfg.Email, "@") {
		return nil, fmt.Errorf("a valid contact email is required for PubMed searches")
	}

	ids, err := c.esearch(ctx, query, cfg)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	retrievedAt := time.Now().UTC().Truncate(time.Second)
	var records []types.Record
	for start := 0; start < len(ids); start += efetchBatchSize {
		end := start + efetchBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch, err := c.efetch(ctx, ids[start:end], cfg)
		if err != nil {
			return nil, fmt.Errorf("fetching batch %d: %w", start/efetchBatchSize+1, err)
		}
		for _, art := range batch {
			rec := art.toRecord()
			rec.Query = query
			rec.RetrievedAt = retrievedAt
			records = append(records, rec)
		}
	}
	return records, nil
}

func (c *PubMedClient) esearch(ctx context.Context, query string, cfg types.SearchConfig) ([]string, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"term":    {query},
		"retmode": {"json"},
		"retmax":  {fmt.Sprintf("%d", maxResults(cfg))},
	}
	if cfg.DateStart != "" || cfg.DateEnd != "" {
		params.Set("datetype", "pdat")
		if cfg.DateStart != "" {
			params.Set("mindate", truncateDate(cfg.DateStart))
		}
		if cfg.DateEnd != "" {
			params.Set("maxdate", truncateDate(cfg.DateEnd))
		}
	}
	c.addCredentials(params, cfg)

	resp, err := c.get(ctx, entrezBase+"/esearch.fcgi?"+params.Encode(), cfg)
	if err != nil {
		return nil, fmt.Errorf("esearch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("esearch returned HTTP %d", resp.StatusCode)
	}

	var er esearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, fmt.Errorf("parsing esearch response: %w", err)
	}
	return er.Result.IDList, nil
}

func (c *PubMedClient) efetch(ctx context.Context, ids []string, cfg types.SearchConfig) ([]pubmedArticle, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(ids, ",")},
		"rettype": {"medline"},
		"retmode": {"xml"},
	}
	c.addCredentials(params, cfg)

	resp, err := c.get(ctx, entrezBase+"/efetch.fcgi?"+params.Encode(), cfg)
	if err != nil {
		return nil, fmt.Errorf("efetch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("efetch returned HTTP %d", resp.StatusCode)
	}

	var set pubmedArticleSet
	if err := xml.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("parsing efetch response: %w", err)
	}
	return set.Articles, nil
}

func (c *PubMedClient) get(ctx context.Context, reqURL string, cfg types.SearchConfig) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	return httputil.DoWithRetry(ctx, c.HTTP, req, 0)
}

func (c *PubMedClient) addCredentials(params url.Values, cfg types.SearchConfig) {
	params.Set("email", cfg.Email)
	if cfg.EntrezAPIKey != "" {
		params.Set("api_key", cfg.EntrezAPIKey)
	}
}

// truncateDate trims a timestamp to its YYYY-MM-DD prefix.
func truncateDate(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

type esearchResponse struct {
	Result struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// Entrez efetch XML structures (MEDLINE record subset).
type pubmedArticleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	Citation struct {
		PMID    string `xml:"PMID"`
		Article struct {
			Title    string `xml:"ArticleTitle"`
			Abstract struct {
				Text []string `xml:"AbstractText"`
			} `xml:"Abstract"`
			Journal struct {
				Title string `xml:"Title"`
			} `xml:"Journal"`
			Authors []struct {
				ForeName string `xml:"ForeName"`
				LastName string `xml:"LastName"`
			} `xml:"AuthorList>Author"`
			Languages []string `xml:"Language"`
			PubTypes  []string `xml:"PublicationTypeList>PublicationType"`
		} `xml:"Article"`
		DateCompleted struct {
			Year int `xml:"Year"`
		} `xml:"DateCompleted"`
		DateCreated struct {
			Year int `xml:"Year"`
		} `xml:"DateCreated"`
	} `xml:"MedlineCitation"`
	Data struct {
		ArticleIDs []struct {
			Type  string `xml:"IdType,attr"`
			Value string `xml:",chardata"`
		} `xml:"ArticleIdList>ArticleId"`
	} `xml:"PubmedData"`
}

func (a pubmedArticle) toRecord() types.Record {
	art := a.Citation.Article

	var authors []string
	for _, au := range art.Authors {
		name := strings.TrimSpace(au.ForeName + " " + au.LastName)
		if name != "" {
			authors = append(authors, name)
		}
	}

	year := a.Citation.DateCompleted.Year
	if year == 0 {
		year = a.Citation.DateCreated.Year
	}

	doi := ""
	for _, id := range a.Data.ArticleIDs {
		if strings.EqualFold(id.Type, "doi") {
			doi = strings.TrimSpace(id.Value)
		}
	}

	language := ""
	if len(art.Languages) > 0 {
		language = art.Languages[0]
	}

	return types.Record{
		Source:   "pubmed",
		Title:    art.Title,
		Abstract: strings.Join(art.Abstract.Text, " "),
		Authors:  strings.Join(authors, "; "),
		Journal:  art.Journal.Title,
		Year:     year,
		Language: language,
		PubTypes: strings.Join(art.PubTypes, "; "),
		DOI:      doi,
		PMID:     a.Citation.PMID,
	}
}
