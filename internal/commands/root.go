package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/expenses/internal/buildinfo"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	dir     string
	verbose bool
	now     func() time.Time
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	return newRootCommand(time.Now)
}

func newRootCommand(now func() time.Time) *cobra.Command {
	flags := &globalFlags{now: now}

	rootCmd := &cobra.Command{
		Use:     "expenses",
		Short:   "Track personal expenses against monthly budgets",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.dir, "dir", "", "data directory (default $EXPENSES_DIR, then the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newInitCommand(flags),
		newAddCommand(flags),
		newDeleteCommand(flags),
		newUpdateCommand(flags),
		newListCommand(flags),
		newCategoriesCommand(flags),
		newFilterCommand(flags),
		newBudgetCommand(flags),
		newSummaryCommand(flags),
		newMonthlyCommand(flags),
		newExportCommand(flags),
		newImportCommand(flags),
		newHistoryCommand(flags),
	)

	return rootCmd
}
