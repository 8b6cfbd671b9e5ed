package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/expenses/internal/report"
)

func newSummaryCommand(flags *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show totals per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, flags)
			if err != nil {
				return err
			}
			s := report.Summarize(a.store.Records())
			if asJSON {
				return report.WriteSummaryJSON(cmd.OutOrStdout(), s)
			}
			report.RenderSummary(cmd.OutOrStdout(), s)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

func newMonthlyCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "monthly",
		Short: "Show totals per month against their budgets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, flags)
			if err != nil {
				return err
			}
			months, err := report.Monthly(a.store.Records())
			if err != nil {
				return err
			}
			report.RenderMonthly(cmd.OutOrStdout(), months, a.ledger)
			return nil
		},
	}
}
