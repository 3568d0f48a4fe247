// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search retrieves bibliographic records from academic databases and
// standardizes them into the shared record schema.
package search

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pdiddy/sysrev-engine/internal/identify"
	"github.com/pdiddy/sysrev-engine/pkg/types"
)

// Client searches a single academic database. Each database (PubMed, Scopus,
// Web of Science) implements this interface.
type Client interface {
	Name() string
	Search(ctx context.Context, query string, cfg types.SearchConfig) ([]types.Record, error)
}

// Output holds the retrieved records and any per-client failures.
type Output struct {
	Records      []types.Record
	ClientErrors []string
}

// Search fans the configured queries out to all clients concurrently. A
// failing client is reported as a warning and skipped; the remaining results
// are still returned. Every returned record carries a resolved record ID.
func Search(ctx context.Context, clients []Client, cfg types.SearchConfig, w io.Writer) (Output, error) {
	if len(clients) == 0 {
		return Output{}, fmt.Errorf("no search clients configured")
	}

	type clientResult struct {
		name    string
		records []types.Record
		err     error
	}

	ch := make(chan clientResult, len(clients))
	var wg sync.WaitGroup

	launched := 0
	for _, c := range clients {
		query := strings.TrimSpace(cfg.Queries[c.Name()])
		if query == "" {
			fmt.Fprintf(w, "warning: no query configured for %s, skipping\n", c.Name())
			continue
		}
		launched++
		wg.Add(1)
		go func(c Client, query string) {
			defer wg.Done()
			records, err := c.Search(ctx, query, cfg)
			ch <- clientResult{name: c.Name(), records: records, err: err}
		}(c, query)
	}
	if launched == 0 {
		return Output{}, fmt.Errorf("no queries configured for any client")
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var out Output
	for cr := range ch {
		if cr.err != nil {
			msg := fmt.Sprintf("%s: %v", cr.name, cr.err)
			out.ClientErrors = append(out.ClientErrors, msg)
			fmt.Fprintf(w, "warning: %s search failed: %v\n", cr.name, cr.err)
			continue
		}
		fmt.Fprintf(w, "%s: %d records\n", cr.name, len(cr.records))
		out.Records = append(out.Records, cr.records...)
	}

	identify.AssignIDs(out.Records)
	return out, nil
}

// Clients builds the client list for the configured databases. Unknown
// database names are an error so a config typo fails loudly instead of
// silently skipping a source.
func Clients(cfg types.SearchConfig) ([]Client, error) {
	var clients []Client
	for _, db := range cfg.Databases {
		switch strings.ToLower(strings.TrimSpace(db)) {
		case "pubmed":
			clients = append(clients, NewPubMedClient(cfg))
		case "scopus":
			clients = append(clients, NewScopusClient(cfg))
		case "wos":
			clients = append(clients, NewWOSClient(cfg))
		default:
			return nil, fmt.Errorf("unknown database %q: supported are pubmed, scopus, wos", db)
		}
	}
	return clients, nil
}

// maxResults applies the configured per-database cap, defaulting to 10000.
func maxResults(cfg types.SearchConfig) int {
	if cfg.MaxResults > 0 {
		return cfg.MaxResults
	}
	return 10000
}
