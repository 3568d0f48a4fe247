// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves full-text PDFs for records that passed screening.
// A record needs a DOI: the Unpaywall API is asked for an open-access PDF
// location first, and the doi.org resolver is the fallback. Each downloaded
// PDF gets a YAML metadata sidecar so the file can be traced back to its
// record without the project database.
package fetch

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sysrev-engine/pkg/types"
)

const (
	pdfDir  = "pdf"
	metaDir = "metadata"
)

// Base URLs declared as vars so tests can substitute httptest servers.
var (
	unpaywallBase = "https://api.unpaywall.org/v2/"
	doiBase       = "https://doi.org/"
)

// Result summarizes a batch retrieval run. Sought counts every record handed
// to the batch, matching the PRISMA "reports sought for retrieval" box.
type Result struct {
	Sought    int
	Retrieved int
	Skipped   int
	Failed    int
}

// NotRetrieved returns the PRISMA "reports not retrieved" count.
func (r Result) NotRetrieved() int {
	return r.Failed
}

// FetchRecord downloads the full text for one record into cfg.Dir. When the
// PDF already exists on disk the download is skipped. The returned path is
// the PDF location on disk.
func FetchRecord(client *http.Client, rec types.Record, cfg types.FetchConfig, w io.Writer) (path string, skipped bool, err error) {
	if strings.TrimSpace(rec.DOI) == "" {
		return "", false, fmt.Errorf("record %s has no DOI", rec.RecordID)
	}

	name := slug(rec)
	pdfPath := filepath.Join(cfg.Dir, pdfDir, name+".pdf")
	metaPath := filepath.Join(cfg.Dir, metaDir, name+".yaml")

	if _, statErr := os.Stat(pdfPath); statErr == nil {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", name)
		return pdfPath, true, nil
	}

	pdfURL := doiBase + rec.DOI
	if oaURL, oaErr := resolveOpenAccess(client, rec.DOI, cfg); oaErr == nil && oaURL != "" {
		pdfURL = oaURL
	}

	for _, dir := range []string{
		filepath.Join(cfg.Dir, pdfDir),
		filepath.Join(cfg.Dir, metaDir),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", false, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	fmt.Fprintf(w, "downloading: %s\n", name)
	if err := downloadFile(client, pdfURL, pdfPath, cfg); err != nil {
		return "", false, fmt.Errorf("downloading %s: %w", name, err)
	}

	if err := writeSidecar(rec, pdfURL, metaPath); err != nil {
		return "", false, fmt.Errorf("writing metadata for %s: %w", name, err)
	}
	return pdfPath, false, nil
}

// FetchBatch retrieves full texts for all records, continuing after
// individual failures and pausing cfg.Delay between consecutive downloads.
func FetchBatch(client *http.Client, records []types.Record, cfg types.FetchConfig, w io.Writer) Result {
	result := Result{Sought: len(records)}
	for i, rec := range records {
		if i > 0 && cfg.Delay > 0 {
			time.Sleep(cfg.Delay)
		}
		_, wasSkipped, err := FetchRecord(client, rec, cfg, w)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", rec.RecordID, err)
			result.Failed++
			continue
		}
		if wasSkipped {
			result.Skipped++
		} else {
			result.Retrieved++
		}
	}
	fmt.Fprintf(w, "\nRetrieval summary: %d retrieved, %d skipped, %d not retrieved (sought: %d)\n",
		result.Retrieved, result.Skipped, result.Failed, result.Sought)
	return result
}

// slug returns a filesystem-safe filename stem for the record's DOI.
func slug(rec types.Record) string {
	return strings.NewReplacer("/", "-", ":", "-").Replace(strings.TrimSpace(rec.DOI))
}

type unpaywallResponse struct {
	BestOALocation *struct {
		URLForPDF string `json:"url_for_pdf"`
	} `json:"best_oa_location"`
}

// resolveOpenAccess asks Unpaywall for an open-access PDF location. An empty
// string with nil error means the work is not open access.
func resolveOpenAccess(client *http.Client, doi string, cfg types.FetchConfig) (string, error) {
	apiURL := unpaywallBase + url.PathEscape(doi) + "?email=" + url.QueryEscape(cfg.Email)

	req, err := http.NewRequest(http.MethodGet, apiURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("unpaywall request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unpaywall returned HTTP %d", resp.StatusCode)
	}

	var up unpaywallResponse
	if err := json.NewDecoder(resp.Body).Decode(&up); err != nil {
		return "", fmt.Errorf("parsing unpaywall response: %w", err)
	}
	if up.BestOALocation == nil {
		return "", nil
	}
	return up.BestOALocation.URLForPDF, nil
}

// downloadFile fetches url into destPath through a temporary file, renaming
// on success so a partial download never appears at the destination.
func downloadFile(client *http.Client, url, destPath string, cfg types.FetchConfig) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// sidecar is the YAML metadata written next to each downloaded PDF.
type sidecar struct {
	RecordID  string `yaml:"record_id"`
	DOI       string `yaml:"doi"`
	Title     string `yaml:"title"`
	Authors   string `yaml:"authors"`
	Journal   string `yaml:"journal"`
	Year      int    `yaml:"year,omitempty"`
	Source    string `yaml:"source"`
	SourceURL string `yaml:"source_url"`
}

func writeSidecar(rec types.Record, pdfURL, path string) error {
	data, err := yaml.Marshal(sidecar{
		RecordID:  rec.RecordID,
		DOI:       rec.DOI,
		Title:     rec.Title,
		Authors:   rec.Authors,
		Journal:   rec.Journal,
		Year:      rec.Year,
		Source:    rec.Source,
		SourceURL: pdfURL,
	})
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
