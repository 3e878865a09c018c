package main

import (
	"fmt"

	"github.com/benmeehan/hydrant-survey/internal/report"
	"github.com/spf13/cobra"
)

var (
	reportFormat  string
	reportArchive bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Compile the survey report",
	Long: `Prints the survey report for the current session.

$ surveyor report --format json --archive
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if err := registry.Reports.Render(ctx, cmd.OutOrStdout(), reportFormat); err != nil {
			return err
		}

		if reportArchive {
			key, err := registry.Reports.Archive(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Report archived as %s\n", key)
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", report.FormatText, "output format: text or json")
	reportCmd.Flags().BoolVar(&reportArchive, "archive", false, "also store the JSON report in the configured storage")

	rootCmd.AddCommand(reportCmd)
}
