package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/expenses/internal/model"
	"github.com/cleared-dev/expenses/internal/report"
)

func newListCommand(flags *globalFlags) *cobra.Command {
	var category string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, flags)
			if err != nil {
				return err
			}
			return showRecords(cmd, a, a.store.List(category), asJSON)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only show this category")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

func newCategoriesCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the categories in use, numbered for filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, flags)
			if err != nil {
				return err
			}
			report.RenderCategories(cmd.OutOrStdout(), a.store.DistinctCategories())
			return nil
		},
	}
}

func newFilterCommand(flags *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "filter <number>",
		Short: "List expenses in the category with this number from categories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			a, err := openApp(cmd, flags)
			if err != nil {
				return err
			}

			categories := a.store.DistinctCategories()
			if len(categories) == 0 {
				return fmt.Errorf("no categories found")
			}
			if index >= len(categories) {
				return fmt.Errorf("no category #%d: choose a number from 1 to %d", index+1, len(categories))
			}
			category := categories[index]
			if !asJSON {
				fmt.Fprintf(cmd.OutOrStdout(), "Category: %s\n", category)
			}
			return showRecords(cmd, a, a.store.List(category), asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

// showRecords prints records labeled with their positions in the full list.
func showRecords(cmd *cobra.Command, a *app, records []model.ExpenseRecord, asJSON bool) error {
	positions := make([]int, len(records))
	for i, r := range records {
		if index, ok := a.store.IndexOf(r.ID); ok {
			positions[i] = index + 1
		}
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return report.WriteRecordsJSONAt(out, records, positions)
	}
	report.RenderRecordsAt(out, records, positions)
	return nil
}
