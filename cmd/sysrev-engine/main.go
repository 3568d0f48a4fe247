// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the sysrev-engine CLI, a pipeline for
// systematic literature reviews: search academic databases, deduplicate the
// results, screen them for relevance, and report PRISMA-ready numbers.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/sysrev-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, otherwise the named secret.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the sysrev-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "sysrev-engine",
	Short: "Systematic literature review pipeline",
	Long: `sysrev-engine automates the record-handling stages of a systematic
literature review. It searches PubMed, Scopus, and Web of Science, removes
duplicate records, screens the remainder with keyword rules or a trained
classifier, and reports PRISMA 2020 flow counts and screening metrics.

Each stage is a subcommand: search, dedup, screen, train, metrics, labels,
fetch, prisma, and export. Stages read and write snapshots in the project database,
so they can be run one at a time and re-run safely.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; it feeds the same environment viper reads.
		_ = godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./sysrev-engine.yaml or ~/.config/sysrev-engine/config.yaml)")
	rootCmd.PersistentFlags().String("project", "", "project name (default: project_name from config)")
	rootCmd.PersistentFlags().String("data-dir", "", "project data directory (default: data_dir from config, or ./sysrev-data)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("sysrev-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "sysrev-engine"))
		}
	}

	viper.SetEnvPrefix("SYSREV_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
