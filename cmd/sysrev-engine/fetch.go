// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sysrev-engine/internal/fetch"
	"github.com/pdiddy/sysrev-engine/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download full-text PDFs for records marked relevant",
	Long: `Fetch retrieves the full text of every screened record marked relevant.
Records need a DOI; open-access locations come from Unpaywall, with the
doi.org resolver as fallback. PDFs and YAML metadata sidecars land under
<data-dir>/fulltext. Records that cannot be retrieved are reported and
counted, matching the PRISMA "reports not retrieved" box.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadPipelineConfig(cmd)

		s, err := openProjectStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		screened, err := s.LoadScreened(cmd.Context(), cfg.Project.Name)
		if err != nil {
			return err
		}
		if len(screened) == 0 {
			return fmt.Errorf("no screened snapshot: run screen first")
		}

		var relevant []types.Record
		for _, sr := range screened {
			if sr.Relevant {
				relevant = append(relevant, sr.Record)
			}
		}
		if len(relevant) == 0 {
			fmt.Println("no relevant records to fetch")
			return nil
		}

		fcfg := cfg.Fetch
		if fcfg.Dir == "" {
			fcfg.Dir = filepath.Join(cfg.Project.DataDir, "fulltext")
		}
		if fcfg.Email == "" {
			fcfg.Email = cfg.Search.Email
		}
		if fcfg.UserAgent == "" {
			fcfg.UserAgent = cfg.Search.UserAgent
		}
		if fcfg.Timeout <= 0 {
			fcfg.Timeout = cfg.Search.Timeout
		}

		client := &http.Client{Timeout: fcfg.Timeout}
		result := fetch.FetchBatch(client, relevant, fcfg, os.Stdout)
		if result.Failed > 0 {
			fmt.Printf("%d of %d reports not retrieved\n", result.Failed, result.Sought)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
