package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/expenses/internal/activity"
	"github.com/cleared-dev/expenses/internal/budget"
	"github.com/cleared-dev/expenses/internal/period"
	"github.com/cleared-dev/expenses/internal/report"
)

func newBudgetCommand(flags *globalFlags) *cobra.Command {
	budgetCmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage monthly budget ceilings",
	}
	budgetCmd.AddCommand(
		newBudgetSetCommand(flags),
		newBudgetShowCommand(flags),
		newBudgetListCommand(flags),
	)
	return budgetCmd
}

func newBudgetSetCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "set <year> <month> <amount>",
		Short: "Set the spending ceiling for a month",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, flags)
			if err != nil {
				return err
			}
			if err := a.ledger.SetBudgetText(args[0], args[1], args[2]); err != nil {
				return fmt.Errorf("setting budget: %w", err)
			}

			// SetBudgetText already validated both.
			year, _ := period.ParseYear(args[0])
			month, _ := period.ParseMonth(args[1])
			ceiling, _ := a.ledger.Ceiling(year, month)
			key := period.FormatMonthKey(year, month)
			fmt.Fprintf(cmd.OutOrStdout(), "Budget for %s set to %s\n", key, report.Money(ceiling))

			a.recordActivity(cmd.Context(), activity.Entry{
				Action:  activity.ActionBudget,
				Name:    key,
				Details: ceiling.String(),
			})
			return nil
		},
	}
}

func newBudgetShowCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show [year month]",
		Short: "Show a month's ceiling and spending (default current month)",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return fmt.Errorf("pass both year and month, or neither")
			}
			a, err := openApp(cmd, flags)
			if err != nil {
				return err
			}

			year, month := a.currentMonth()
			if len(args) == 2 {
				if year, err = period.ParseYear(args[0]); err != nil {
					return err
				}
				if month, err = period.ParseMonth(args[1]); err != nil {
					return err
				}
			}
			return runBudgetShow(cmd, a, year, month)
		},
	}
}

func runBudgetShow(cmd *cobra.Command, a *app, year, month int) error {
	out := cmd.OutOrStdout()
	key := period.FormatMonthKey(year, month)

	ceiling, ok := a.ledger.Ceiling(year, month)
	if !ok {
		fmt.Fprintf(out, "No budget set for %s\n", key)
		return nil
	}

	records := a.store.Records()
	total, err := budget.MonthTotal(records, year, month)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Budget for %s: %s\n", key, report.Money(ceiling))
	fmt.Fprintf(out, "Spent: %s | Remaining: %s\n", report.Money(total), report.Money(ceiling.Sub(total)))

	over, err := a.ledger.CheckOverspend(records, month, year)
	if err != nil {
		return err
	}
	report.RenderOverspend(out, over)
	return nil
}

func newBudgetListCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every month with a ceiling",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, flags)
			if err != nil {
				return err
			}
			report.RenderBudgets(cmd.OutOrStdout(), a.ledger.Ceilings())
			return nil
		},
	}
}
