// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pdiddy/sysrev-engine/internal/httputil"
	"github.com/pdiddy/sysrev-engine/pkg/types"
)

// wosSearchBase is the Web of Science Lite endpoint. Declared as a var so
// tests can substitute an httptest server.
var wosSearchBase = "https://api.clarivate.com/api/woslite"

// wosPageSize is the per-request record count (the Lite API maximum).
const wosPageSize = 100

// WOSClient queries the Web of Science Lite API. The Lite view carries
// titles, venues, years, and identifiers but no abstracts.
type WOSClient struct {
	HTTP *http.Client
}

// NewWOSClient builds a Web of Science client.
func NewWOSClient(cfg types.SearchConfig) *WOSClient {
	return &WOSClient{HTTP: &http.Client{Timeout: cfg.Timeout}}
}

// Name returns the client identifier.
func (c *WOSClient) Name() string { return "wos" }

// Search pages through the result set and returns standardized records. An
// API key is required.
func (c *WOSClient) Search(ctx context.Context, query string, cfg types.SearchConfig) ([]types.Record, error) {
	if cfg.WOSAPIKey == "" {
		return nil, fmt.Errorf("a Web of Science API key is required")
	}

	limit := maxResults(cfg)
	retrievedAt := time.Now().UTC().Truncate(time.Second)

	var records []types.Record
	for first := 1; first <= limit; first += wosPageSize {
		page, err := c.page(ctx, query, first, cfg)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		for _, r := range page {
			rec := r.toRecord()
			rec.Query = query
			rec.RetrievedAt = retrievedAt
			records = append(records, rec)
			if len(records) >= limit {
				return records, nil
			}
		}
		if len(page) < wosPageSize {
			break
		}
	}
	return records, nil
}

func (c *WOSClient) page(ctx context.Context, query string, first int, cfg types.SearchConfig) ([]wosRecord, error) {
	params := url.Values{
		"databaseId":  {"WOS"},
		"usrQuery":    {query},
		"count":       {strconv.Itoa(wosPageSize)},
		"firstRecord": {strconv.Itoa(first)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wosSearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-ApiKey", cfg.WOSAPIKey)
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Web of Science API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Web of Science API returned HTTP %d", resp.StatusCode)
	}

	var wr wosResponse
	if err := json.NewDecoder(resp.Body).Decode(&wr); err != nil {
		return nil, fmt.Errorf("parsing Web of Science response: %w", err)
	}
	if len(wr.Data) == 0 {
		return nil, nil
	}
	return wr.Data[0].Records.Records, nil
}

// Web of Science Lite JSON structures.
type wosResponse struct {
	Data []struct {
		Records struct {
			Records []wosRecord `json:"records"`
		} `json:"Records"`
	} `json:"Data"`
}

type wosRecord struct {
	UID        string `json:"UID"`
	StaticData struct {
		Metadata struct {
			Titles struct {
				Title []wosTitle `json:"title"`
			} `json:"titles"`
			PubInfo struct {
				PubYear json.Number `json:"pubyear"`
			} `json:"pub_info"`
			Source struct {
				Title struct {
					Content string `json:"content"`
				} `json:"title"`
			} `json:"source"`
			Identifiers struct {
				Identifier []wosIdentifier `json:"identifier"`
			} `json:"identifiers"`
		} `json:"fullrecord_metadata"`
	} `json:"static_data"`
}

type wosTitle struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type wosIdentifier struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (r wosRecord) toRecord() types.Record {
	meta := r.StaticData.Metadata

	title := ""
	for _, t := range meta.Titles.Title {
		if t.Type == "item" {
			title = t.Content
		}
	}

	doi := ""
	for _, id := range meta.Identifiers.Identifier {
		if id.Type == "doi" {
			doi = id.Value
		}
	}

	year, _ := strconv.Atoi(meta.PubInfo.PubYear.String())

	return types.Record{
		Source:  "wos",
		Title:   title,
		Journal: meta.Source.Title.Content,
		Year:    year,
		DOI:     doi,
		WOSUID:  r.UID,
	}
}
