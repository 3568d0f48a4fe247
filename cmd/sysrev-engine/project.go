// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage review projects",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects in the data directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadPipelineConfig(cmd)

		s, err := openProjectStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		names, err := s.ListProjects(cmd.Context())
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("no projects")
			return nil
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Project", "Raw", "Dedup", "Screened", "Labels"})
		for _, name := range names {
			status, err := s.ProjectStatus(cmd.Context(), name)
			if err != nil {
				return err
			}
			t.AppendRow(table.Row{status.Project, status.Raw, status.Dedup, status.Screened, status.Labels})
		}
		t.Render()
		return nil
	},
}

var projectStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the configured project's pipeline state",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadPipelineConfig(cmd)

		s, err := openProjectStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		status, err := s.ProjectStatus(cmd.Context(), cfg.Project.Name)
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendRow(table.Row{"project", status.Project})
		t.AppendRow(table.Row{"raw records", status.Raw})
		t.AppendRow(table.Row{"after dedup", status.Dedup})
		t.AppendRow(table.Row{"screened", status.Screened})
		t.AppendRow(table.Row{"labels", status.Labels})
		t.Render()
		return nil
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a project and all of its snapshots",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadPipelineConfig(cmd)

		s, err := openProjectStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.DeleteProject(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("deleted project %s\n", args[0])
		return nil
	},
}

func init() {
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectStatusCmd)
	projectCmd.AddCommand(projectDeleteCmd)
	rootCmd.AddCommand(projectCmd)
}
