// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/pdiddy/sysrev-engine/pkg/types"
)

type fakeClient struct {
	name    string
	records []types.Record
	err     error
}

func (f *fakeClient) Name() string { return f.name }

func (f *fakeClient) Search(ctx context.Context, query string, cfg types.SearchConfig) ([]types.Record, error) {
	return f.records, f.err
}

func TestSearchFanOut(t *testing.T) {
	clients := []Client{
		&fakeClient{name: "pubmed", records: []types.Record{
			{Source: "pubmed", Title: "First", PMID: "1"},
			{Source: "pubmed", Title: "Second", PMID: "2"},
		}},
		&fakeClient{name: "scopus", records: []types.Record{
			{Source: "scopus", Title: "Third", EID: "2-s2.0-3"},
		}},
	}
	cfg := types.SearchConfig{Queries: map[string]string{"pubmed": "cancer", "scopus": "cancer"}}

	var buf bytes.Buffer
	out, err := Search(context.Background(), clients, cfg, &buf)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(out.Records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(out.Records))
	}
	for _, r := range out.Records {
		if r.RecordID == "" {
			t.Errorf("record %q has no resolved ID", r.Title)
		}
	}
	if len(out.ClientErrors) != 0 {
		t.Errorf("client errors = %v, want none", out.ClientErrors)
	}
}

func TestSearchWarnsAndContinuesOnClientFailure(t *testing.T) {
	clients := []Client{
		&fakeClient{name: "pubmed", records: []types.Record{{Source: "pubmed", Title: "Kept", PMID: "1"}}},
		&fakeClient{name: "wos", err: fmt.Errorf("HTTP 500")},
	}
	cfg := types.SearchConfig{Queries: map[string]string{"pubmed": "q", "wos": "q"}}

	var buf bytes.Buffer
	out, err := Search(context.Background(), clients, cfg, &buf)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(out.Records) != 1 {
		t.Errorf("len(records) = %d, want 1", len(out.Records))
	}
	if len(out.ClientErrors) != 1 || !strings.Contains(out.ClientErrors[0], "wos") {
		t.Errorf("client errors = %v, want one wos failure", out.ClientErrors)
	}
	if !strings.Contains(buf.String(), "warning: wos search failed") {
		t.Errorf("output missing warning: %q", buf.String())
	}
}

func TestSearchSkipsClientWithoutQuery(t *testing.T) {
	clients := []Client{
		&fakeClient{name: "pubmed", records: []types.Record{{PMID: "1"}}},
		&fakeClient{name: "scopus", err: fmt.Errorf("must not be called")},
	}
	cfg := types.SearchConfig{Queries: map[string]string{"pubmed": "q"}}

	var buf bytes.Buffer
	out, err := Search(context.Background(), clients, cfg, &buf)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(out.Records) != 1 || len(out.ClientErrors) != 0 {
		t.Errorf("got %d records, errors %v", len(out.Records), out.ClientErrors)
	}
	if !strings.Contains(buf.String(), "no query configured for scopus") {
		t.Errorf("output missing skip notice: %q", buf.String())
	}
}

func TestSearchNoClients(t *testing.T) {
	if _, err := Search(context.Background(), nil, types.SearchConfig{}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected an error with no clients")
	}
}

func TestSearchNoQueries(t *testing.T) {
	clients := []Client{&fakeClient{name: "pubmed"}}
	if _, err := Search(context.Background(), clients, types.SearchConfig{}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected an error with no queries configured")
	}
}

func TestClientsFromConfig(t *testing.T) {
	clients, err := Clients(types.SearchConfig{Databases: []string{"pubmed", "Scopus", " wos "}})
	if err != nil {
		t.Fatalf("Clients: %v", err)
	}
	var names []string
	for _, c := range clients {
		names = append(names, c.Name())
	}
	want := []string{"pubmed", "scopus", "wos"}
	for i, n := range want {
		if names[i] != n {
			t.Errorf("client %d = %s, want %s", i, names[i], n)
		}
	}
}

func TestClientsUnknownDatabase(t *testing.T) {
	if _, err := Clients(types.SearchConfig{Databases: []string{"dimensions"}}); err == nil {
		t.Fatal("expected an error for an unknown database")
	}
}
