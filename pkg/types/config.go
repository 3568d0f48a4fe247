package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "sysrev-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the source search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Databases lists the sources to query: pubmed, scopus, wos.
	Databases []string `json:"databases" yaml:"databases"`

	// Queries maps database name to its search expression.
	Queries map[string]string `json:"queries" yaml:"queries"`

	// DateStart and DateEnd bound the publication date range (YYYY-MM-DD,
	// either may be empty).
	DateStart string `json:"date_start,omitempty" yaml:"date_start,omitempty"`
	DateEnd   string `json:"date_end,omitempty" yaml:"date_end,omitempty"`

	// MaxResults caps the records fetched per database (default 10000).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// Email is the contact address required by the NCBI Entrez etiquette.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// EntrezAPIKey raises the NCBI rate limit from 3 to 10 requests/second.
	EntrezAPIKey string `json:"entrez_api_key,omitempty" yaml:"entrez_api_key,omitempty"`

	// ScopusAPIKey authenticates against the Elsevier Scopus Search API.
	ScopusAPIKey string `json:"scopus_api_key,omitempty" yaml:"scopus_api_key,omitempty"`

	// WOSAPIKey authenticates against the Web of Science Lite API.
	WOSAPIKey string `json:"wos_api_key,omitempty" yaml:"wos_api_key,omitempty"`
}

// DedupConfig holds settings for the deduplication stage.
type DedupConfig struct {
	// FuzzyThreshold is the inclusive title-similarity percentage above which
	// two records are considered duplicates (default 95).
	FuzzyThreshold int `json:"fuzzy_threshold" yaml:"fuzzy_threshold"`
}

// FilterConfig holds the pre-screening record filters.
type FilterConfig struct {
	// Languages is an allow-list; empty keeps every language.
	Languages []string `json:"language" yaml:"language"`

	// PubTypesExclude drops records whose pub_types field contains any of
	// these values (case-insensitive substring).
	PubTypesExclude []string `json:"pub_types_exclude" yaml:"pub_types_exclude"`
}

// KeywordLogic selects how a keyword list combines: any member or all members.
type KeywordLogic string

const (
	LogicAny KeywordLogic = "any"
	LogicAll KeywordLogic = "all"
)

// ScreeningConfig holds settings for the relevance-classification stage.
type ScreeningConfig struct {
	// IncludeKeywords and ExcludeKeywords drive the rule classifier.
	IncludeKeywords []string `json:"include_keywords" yaml:"include_keywords"`
	ExcludeKeywords []string `json:"exclude_keywords" yaml:"exclude_keywords"`

	// IncludeLogic and ExcludeLogic are "any" or "all" (default "any").
	IncludeLogic KeywordLogic `json:"include_logic" yaml:"include_logic"`
	ExcludeLogic KeywordLogic `json:"exclude_logic" yaml:"exclude_logic"`

	// Threshold is the model-mode decision cutoff in [0,1] (default 0.5).
	Threshold float64 `json:"threshold" yaml:"threshold"`

	// ModelPath is the trained-model artifact consumed by model mode.
	ModelPath string `json:"model_path,omitempty" yaml:"model_path,omitempty"`
}

// ProjectConfig identifies the review project and its local storage.
type ProjectConfig struct {
	// Name is the human-readable project name.
	Name string `json:"project_name" yaml:"project_name"`

	// DataDir is the directory holding the project database and artifacts.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// FetchConfig holds settings for full-text retrieval.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Dir is the directory PDFs and metadata sidecars are written to
	// (default DataDir/fulltext).
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// Email identifies the caller to the Unpaywall open-access resolver.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// Delay is the pause between consecutive downloads.
	Delay time.Duration `json:"delay" yaml:"delay"`
}

// ExportFormat selects the tabular export encoding.
type ExportFormat string

const (
	ExportCSV     ExportFormat = "csv"
	ExportParquet ExportFormat = "parquet"
	ExportYAML    ExportFormat = "yaml"
)

// ExportConfig holds settings for result export.
type ExportConfig struct {
	// Format selects csv, parquet, or yaml.
	Format ExportFormat `json:"format" yaml:"format"`

	// Dir is the output directory for exported files (default DataDir).
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Project   ProjectConfig   `json:"project" yaml:"project"`
	Search    SearchConfig    `json:"search" yaml:"search"`
	Dedup     DedupConfig     `json:"deduplication" yaml:"deduplication"`
	Filters   FilterConfig    `json:"filters" yaml:"filters"`
	Screening ScreeningConfig `json:"screening" yaml:"screening"`
	Fetch     FetchConfig     `json:"fetch" yaml:"fetch"`
	Export    ExportConfig    `json:"export" yaml:"export"`
}
