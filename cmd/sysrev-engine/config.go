// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/sysrev-engine/internal/store"
	"github.com/pdiddy/sysrev-engine/pkg/types"
)

// loadPipelineConfig assembles the pipeline configuration from the config
// file, environment, flags, and secrets. API credentials fall back to the
// .secrets/ directory when the config leaves them empty.
func loadPipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	viper.SetDefault("project_name", "sysrev-project")
	viper.SetDefault("data_dir", "sysrev-data")
	viper.SetDefault("databases", []string{"pubmed"})
	viper.SetDefault("search.timeout", "30s")
	viper.SetDefault("search.user_agent", "sysrev-engine/"+version)
	viper.SetDefault("search.max_results", 10000)
	viper.SetDefault("deduplication.fuzzy_threshold", 95)
	viper.SetDefault("screening.include_logic", "any")
	viper.SetDefault("screening.exclude_logic", "any")
	viper.SetDefault("screening.threshold", 0.5)
	viper.SetDefault("fetch.delay", "1s")
	viper.SetDefault("export.format", "csv")

	cfg := types.PipelineConfig{
		Project: types.ProjectConfig{
			Name:    viper.GetString("project_name"),
			DataDir: viper.GetString("data_dir"),
		},
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("search.timeout"),
				UserAgent: viper.GetString("search.user_agent"),
			},
			Databases:    viper.GetStringSlice("databases"),
			Queries:      viper.GetStringMapString("queries"),
			DateStart:    viper.GetString("date_range.start"),
			DateEnd:      viper.GetString("date_range.end"),
			MaxResults:   viper.GetInt("search.max_results"),
			Email:        secretDefault("entrez-email", viper.GetString("search.email")),
			EntrezAPIKey: secretDefault("entrez-api-key", viper.GetString("search.entrez_api_key")),
			ScopusAPIKey: secretDefault("scopus-api-key", viper.GetString("search.scopus_api_key")),
			WOSAPIKey:    secretDefault("wos-api-key", viper.GetString("search.wos_api_key")),
		},
		Dedup: types.DedupConfig{
			FuzzyThreshold: viper.GetInt("deduplication.fuzzy_threshold"),
		},
		Filters: types.FilterConfig{
			Languages:       viper.GetStringSlice("filters.language"),
			PubTypesExclude: viper.GetStringSlice("filters.pub_types_exclude"),
		},
		Screening: types.ScreeningConfig{
			IncludeKeywords: viper.GetStringSlice("screening.include_keywords"),
			ExcludeKeywords: viper.GetStringSlice("screening.exclude_keywords"),
			IncludeLogic:    types.KeywordLogic(viper.GetString("screening.include_logic")),
			ExcludeLogic:    types.KeywordLogic(viper.GetString("screening.exclude_logic")),
			Threshold:       viper.GetFloat64("screening.threshold"),
			ModelPath:       viper.GetString("screening.model_path"),
		},
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("fetch.timeout"),
				UserAgent: viper.GetString("search.user_agent"),
			},
			Dir:   viper.GetString("fetch.dir"),
			Email: viper.GetString("fetch.email"),
			Delay: viper.GetDuration("fetch.delay"),
		},
		Export: types.ExportConfig{
			Format: types.ExportFormat(viper.GetString("export.format")),
			Dir:    viper.GetString("export.dir"),
		},
	}

	if cfg.Search.Timeout <= 0 {
		cfg.Search.Timeout = 30 * time.Second
	}

	if v, _ := cmd.Flags().GetString("project"); v != "" {
		cfg.Project.Name = v
	}
	if v, _ := cmd.Flags().GetString("data-dir"); v != "" {
		cfg.Project.DataDir = v
	}
	if cfg.Export.Dir == "" {
		cfg.Export.Dir = cfg.Project.DataDir
	}
	return cfg
}

// openProjectStore opens the store for the configured data directory.
func openProjectStore(cfg types.PipelineConfig) (*store.Store, error) {
	return store.Open(cfg.Project.DataDir)
}
