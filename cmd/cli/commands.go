package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wadjakorntonsri/go-job-board/pkg/core/domain"
	"github.com/wadjakorntonsri/go-job-board/pkg/core/services"
	"github.com/wadjakorntonsri/go-job-board/pkg/ports"
)

// ImportCmd loads a spreadsheet straight into the database as approved jobs
func ImportCmd(repo ports.JobRepository, codec ports.SheetCodec) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.xlsx|file.csv>",
		Short: "Import jobs from a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			rows, err := codec.ReadRows(args[0], f)
			if err != nil {
				return err
			}

			report := services.NewImportService(repo).Import(cmd.Context(), rows)

			out := cmd.OutOrStdout()
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			printReport(out, report)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print the full import report as JSON")
	return cmd
}

func printReport(out io.Writer, report *domain.ImportReport) {
	fmt.Fprintf(out, "Imported %d of %d rows (%d failed)\n", report.Success, report.Total, report.Failed)
	for _, res := range report.Results {
		if res.Status == domain.ImportSuccess {
			continue
		}
		fields := make([]string, 0, len(res.Errors))
		for field := range res.Errors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			fmt.Fprintf(out, "row %d: %s: %s\n", res.Row, field, strings.Join(res.Errors[field], "; "))
		}
	}
}

// ExportCmd writes jobs of one status in the import layout
func ExportCmd(repo ports.JobRepository, codec ports.SheetCodec) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export jobs to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, _ := cmd.Flags().GetString("status")
			status, ok := domain.ParseStatus(raw)
			if !ok {
				return fmt.Errorf("invalid --status %q (pending, approved, rejected, expired)", raw)
			}

			jobs, err := repo.ListByStatus(cmd.Context(), status)
			if err != nil {
				return fmt.Errorf("failed to list jobs: %w", err)
			}

			path, _ := cmd.Flags().GetString("out")
			if err := writeFile(path, func(w io.Writer) error { return codec.WriteJobs(w, jobs) }); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d %s jobs to %s\n", len(jobs), status, path)
			return nil
		},
	}
	cmd.Flags().String("status", string(domain.StatusApproved), "Status to export")
	cmd.Flags().String("out", "jobs-export.xlsx", "Output file")
	return cmd
}

// TemplateCmd writes the blank import workbook
func TemplateCmd(codec ports.SheetCodec) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the bulk import template",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("out")
			if err := writeFile(path, codec.WriteTemplate); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Template written to %s\n", path)
			return nil
		},
	}
	cmd.Flags().String("out", "job-import-template.xlsx", "Output file")
	return cmd
}

// SweepCmd expires approved jobs past their expiry date once
func SweepCmd(repo ports.JobRepository) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Expire approved jobs past their expiry date",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := services.NewAdminService(repo).ExpireOverdue(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to expire jobs: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Expired %d jobs\n", n)
			return nil
		},
	}
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
