package main

import (
	"github.com/spf13/cobra"

	"github.com/wadjakorntonsri/go-job-board/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/go-job-board/pkg/adapters/spreadsheet"
)

func newRootCmd(repo *sqlite.SQLiteRepository) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "jobboard",
		Short:        "Maintenance commands for the job board database",
		SilenceUsage: true,
	}

	codec := spreadsheet.NewCodec()
	rootCmd.AddCommand(ImportCmd(repo, codec))
	rootCmd.AddCommand(ExportCmd(repo, codec))
	rootCmd.AddCommand(TemplateCmd(codec))
	rootCmd.AddCommand(SweepCmd(repo))
	return rootCmd
}
