package commands

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/expenses/internal/activity"
	"github.com/cleared-dev/expenses/internal/expenses"
	"github.com/cleared-dev/expenses/internal/model"
	"github.com/cleared-dev/expenses/internal/report"
)

func newAddCommand(flags *globalFlags) *cobra.Command {
	var params expenses.AddParams

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, flags)
			if err != nil {
				return err
			}
			return runAdd(cmd, a, params)
		},
	}

	cmd.Flags().StringVar(&params.Name, "name", "", "what the money was spent on (required)")
	cmd.Flags().StringVar(&params.Amount, "amount", "", "amount spent (required)")
	cmd.Flags().StringVar(&params.Category, "category", model.CategoryOther, "expense category")
	cmd.Flags().StringVar(&params.Date, "date", "", "date as YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func runAdd(cmd *cobra.Command, a *app, params expenses.AddParams) error {
	out := cmd.OutOrStdout()

	rec, err := a.store.Add(params)
	if err != nil {
		return fmt.Errorf("adding expense: %w", err)
	}
	if !a.cfg.HasCategory(rec.Category) {
		a.logger.Debug("custom category", "category", rec.Category)
	}

	position := a.store.Len()
	fmt.Fprintf(out, "Added expense #%d: %s %s (%s, %s)\n",
		position, rec.Name, report.Money(rec.Amount), rec.Category, rec.Date)

	a.recordActivity(cmd.Context(), activity.Entry{
		Action:   activity.ActionAdd,
		Position: position,
		Name:     rec.Name,
		Details:  fmt.Sprintf("%s %s %s", rec.Amount, rec.Category, rec.Date),
	})

	// The check is advisory; the expense stays recorded whatever it finds.
	year, month := a.currentMonth()
	over, err := a.ledger.CheckOverspend(a.store.Records(), month, year)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: budget check skipped: %v\n", err)
		return nil
	}
	report.RenderOverspend(out, over)
	return nil
}

func newDeleteCommand(flags *globalFlags) *cobra.Command {
	var idFlag string

	cmd := &cobra.Command{
		Use:   "delete [number]",
		Short: "Delete an expense by its list number or ID",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 1) == (idFlag != "") {
				return fmt.Errorf("pass either an expense number or --id")
			}
			a, err := openApp(cmd, flags)
			if err != nil {
				return err
			}
			return runDelete(cmd, a, args, idFlag)
		},
	}

	cmd.Flags().StringVar(&idFlag, "id", "", "delete the expense with this ID")

	return cmd
}

func runDelete(cmd *cobra.Command, a *app, args []string, idFlag string) error {
	var (
		rec   model.ExpenseRecord
		index int
		err   error
	)
	if idFlag != "" {
		id, perr := uuid.Parse(idFlag)
		if perr != nil {
			return fmt.Errorf("invalid --id %q: %w", idFlag, perr)
		}
		rec, index, err = a.store.DeleteByID(id)
	} else {
		index, err = parsePosition(args[0])
		if err != nil {
			return err
		}
		rec, err = a.store.Delete(index)
	}
	if err != nil {
		return fmt.Errorf("deleting expense: %w", describePosition(err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted expense #%d: %s %s\n", index+1, rec.Name, report.Money(rec.Amount))

	a.recordActivity(cmd.Context(), activity.Entry{
		Action:   activity.ActionDelete,
		Position: index + 1,
		Name:     rec.Name,
		Details:  rec.ID.String(),
	})
	return nil
}

func newUpdateCommand(flags *globalFlags) *cobra.Command {
	var name, amount, category, date string

	cmd := &cobra.Command{
		Use:   "update <number>",
		Short: "Change fields of an existing expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parsePosition(args[0])
			if err != nil {
				return err
			}

			var patch expenses.Patch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("amount") {
				patch.Amount = &amount
			}
			if cmd.Flags().Changed("category") {
				patch.Category = &category
			}
			if cmd.Flags().Changed("date") {
				patch.Date = &date
			}
			if patch.IsEmpty() {
				return fmt.Errorf("nothing to update: pass at least one of --name, --amount, --category, --date")
			}

			a, err := openApp(cmd, flags)
			if err != nil {
				return err
			}
			return runUpdate(cmd, a, index, patch)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&amount, "amount", "", "new amount")
	cmd.Flags().StringVar(&category, "category", "", "new category")
	cmd.Flags().StringVar(&date, "date", "", "new date as YYYY-MM-DD")

	return cmd
}

func runUpdate(cmd *cobra.Command, a *app, index int, patch expenses.Patch) error {
	before, err := a.store.Get(index)
	if err != nil {
		return fmt.Errorf("updating expense: %w", describePosition(err))
	}
	rec, err := a.store.Update(index, patch)
	if err != nil {
		return fmt.Errorf("updating expense: %w", describePosition(err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated expense #%d: %s %s (%s, %s)\n",
		index+1, rec.Name, report.Money(rec.Amount), rec.Category, rec.Date)

	a.recordActivity(cmd.Context(), activity.Entry{
		Action:   activity.ActionUpdate,
		Position: index + 1,
		Name:     rec.Name,
		Details:  describeChanges(before, rec),
	})
	return nil
}

// describeChanges lists the fields that differ as "field: old -> new".
func describeChanges(before, after model.ExpenseRecord) string {
	var changes []string
	if before.Name != after.Name {
		changes = append(changes, fmt.Sprintf("name: %s -> %s", before.Name, after.Name))
	}
	if !before.Amount.Equal(after.Amount) {
		changes = append(changes, fmt.Sprintf("amount: %s -> %s", before.Amount, after.Amount))
	}
	if before.Category != after.Category {
		changes = append(changes, fmt.Sprintf("category: %s -> %s", before.Category, after.Category))
	}
	if before.Date != after.Date {
		changes = append(changes, fmt.Sprintf("date: %s -> %s", before.Date, after.Date))
	}
	if len(changes) == 0 {
		return "no changes"
	}
	return strings.Join(changes, "; ")
}
