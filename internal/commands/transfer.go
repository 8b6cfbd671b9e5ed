package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/expenses/internal/activity"
	"github.com/cleared-dev/expenses/internal/export"
	"github.com/cleared-dev/expenses/internal/importer"
)

func newExportCommand(flags *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all expenses to a timestamped CSV or XLSX file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, flags)
			if err != nil {
				return err
			}

			records := a.store.Records()
			dir := a.cfg.Path(a.dir, a.cfg.Files.ExportDir)
			path, err := export.Export(dir, records, export.Format(format), a.now())
			if err != nil {
				return fmt.Errorf("exporting: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d expenses to %s\n", len(records), path)

			a.recordActivity(cmd.Context(), activity.Entry{
				Action:  activity.ActionExport,
				Name:    filepath.Base(path),
				Details: fmt.Sprintf("%d records", len(records)),
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(export.FormatCSV), "file format: csv or xlsx")

	return cmd
}

func newImportCommand(flags *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Add expenses from a CSV or XLSX file in export layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, flags)
			if err != nil {
				return err
			}

			rows, err := importer.DefaultRegistry().ReadFile(args[0], format)
			if err != nil {
				return err
			}

			added, applyErr := importer.Apply(a.store, rows)
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d expenses from %s\n", added, len(rows), filepath.Base(args[0]))
			if added > 0 {
				a.recordActivity(cmd.Context(), activity.Entry{
					Action:  activity.ActionImport,
					Name:    filepath.Base(args[0]),
					Details: fmt.Sprintf("%d records", added),
				})
			}
			if applyErr != nil {
				return fmt.Errorf("importing %s: %w", filepath.Base(args[0]), applyErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "file format: csv or xlsx (default from extension)")

	return cmd
}
