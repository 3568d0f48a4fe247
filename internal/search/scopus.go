// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/sysrev-engine/internal/httputil"
	"github.com/pdiddy/sysrev-engine/pkg/types"
)

// scopusSearchBase is the Elsevier Scopus Search endpoint. Declared as a var
// so tests can substitute an httptest server.
var scopusSearchBase = "https://api.elsevier.com/content/search/scopus"

// scopusPageSize is the per-request result count (the API maximum for the
// standard view).
const scopusPageSize = 25

// ScopusClient queries the Elsevier Scopus Search API, paging through
// results until the configured cap or the end of the result set.
type ScopusClient struct {
	HTTP *http.Client
}

// NewScopusClient builds a Scopus client.
func NewScopusClient(cfg types.SearchConfig) *ScopusClient {
	return &ScopusClient{HTTP: &http.Client{Timeout: cfg.Timeout}}
}

// Name returns the client identifier.
func (c *ScopusClient) Name() string { return "scopus" }

// Search pages through the Scopus result set and returns standardized
// records. An API key is required.
func (c *ScopusClient) Search(ctx context.Context, query string, cfg types.SearchConfig) ([]types.Record, error) {
	if cfg.ScopusAPIKey == "" {
		return nil, fmt.Errorf("a Scopus API key is required")
	}

	limit := maxResults(cfg)
	retrievedAt := time.Now().UTC().Truncate(time.Second)

	var records []types.Record
	for start := 0; start < limit; start += scopusPageSize {
		entries, total, err := c.page(ctx, query, start, cfg)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			break
		}
		for _, e := range entries {
			rec := e.toRecord()
			rec.Query = query
			rec.RetrievedAt = retrievedAt
			records = append(records, rec)
			if len(records) >= limit {
				return records, nil
			}
		}
		if start+scopusPageSize >= total {
			break
		}
	}
	return records, nil
}

func (c *ScopusClient) page(ctx context.Context, query string, start int, cfg types.SearchConfig) ([]scopusEntry, int, error) {
	params := url.Values{
		"query": {query},
		"count": {strconv.Itoa(scopusPageSize)},
		"start": {strconv.Itoa(start)},
	}
	if cfg.DateStart != "" || cfg.DateEnd != "" {
		params.Set("date", scopusDateRange(cfg.DateStart, cfg.DateEnd))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, scopusSearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-ELS-APIKey", cfg.ScopusAPIKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, 0)
	if err != nil {
		return nil, 0, fmt.Errorf("Scopus API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("Scopus API returned HTTP %d", resp.StatusCode)
	}

	var sr scopusResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, 0, fmt.Errorf("parsing Scopus response: %w", err)
	}

	total, _ := strconv.Atoi(sr.Results.TotalResults)
	return sr.Results.Entries, total, nil
}

// scopusDateRange formats the date filter as "startYear-endYear". Scopus
// filters by year only.
func scopusDateRange(start, end string) string {
	year := func(s string) string {
		if len(s) >= 4 {
			return s[:4]
		}
		return s
	}
	switch {
	case start == "":
		return year(end)
	case end == "":
		return year(start) + "-"
	default:
		return year(start) + "-" + year(end)
	}
}

// Scopus Search API JSON structures.
type scopusResponse struct {
	Results struct {
		TotalResults string        `json:"opensearch:totalResults"`
		Entries      []scopusEntry `json:"entry"`
	} `json:"search-results"`
}

type scopusEntry struct {
	Title           string `json:"dc:title"`
	Description     string `json:"dc:description"`
	Creator         string `json:"dc:creator"`
	PublicationName string `json:"prism:publicationName"`
	CoverDate       string `json:"prism:coverDate"`
	DOI             string `json:"prism:doi"`
	EID             string `json:"eid"`
}

func (e scopusEntry) toRecord() types.Record {
	year := 0
	if len(e.CoverDate) >= 4 {
		year, _ = strconv.Atoi(e.CoverDate[:4])
	}
	return types.Record{
		Source:   "scopus",
		Title:    e.Title,
		Abstract: e.Description,
		Authors:  e.Creator,
		Journal:  e.PublicationName,
		Year:     year,
		DOI:      strings.TrimSpace(e.DOI),
		EID:      e.EID,
	}
}
