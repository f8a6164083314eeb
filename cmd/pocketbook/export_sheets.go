package main

import (
	"fmt"

	"github.com/pocketbook/pocketbook/pkg/sheets"
	"github.com/spf13/cobra"
)

func exportSheetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-sheets",
		Short: "Write this month's budget statuses to Google Sheets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, cfg, closeStores, err := openDependencies(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStores()

			service, err := sheets.NewSheetsService(cmd.Context(), cfg.Sheets)
			if err != nil {
				return err
			}
			exporter, err := sheets.NewExporter(service, cfg.Sheets, deps.BudgetService)
			if err != nil {
				return err
			}
			rows, err := exporter.Export(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to spreadsheet %s\n", rows, cfg.Sheets.SpreadsheetId)
			return nil
		},
	}
}
