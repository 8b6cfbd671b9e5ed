package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/expenses/internal/activity"
	"github.com/cleared-dev/expenses/internal/budget"
	"github.com/cleared-dev/expenses/internal/config"
	"github.com/cleared-dev/expenses/internal/expenses"
	"github.com/cleared-dev/expenses/internal/gitops"
	"github.com/cleared-dev/expenses/internal/log"
)

// app is the state a command works against: the resolved data directory,
// its config, and the loaded store and ledger.
type app struct {
	dir    string
	cfg    *config.Config
	logger *slog.Logger
	store  *expenses.Store
	ledger *budget.Ledger
	now    func() time.Time
}

func openApp(cmd *cobra.Command, flags *globalFlags) (*app, error) {
	dir, err := config.ResolveDir(flags.dir)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadOrDefault(dir)
	if err != nil {
		return nil, err
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if flags.verbose {
		level = slog.LevelDebug
	}
	logCfg := log.DefaultConfig()
	logCfg.Level = level
	logCfg.Output = cmd.ErrOrStderr()
	logger := log.New(logCfg)
	logger.Debug("data directory resolved", "dir", dir)

	store, err := expenses.Load(cfg.Path(dir, cfg.Files.Expenses),
		expenses.WithClock(flags.now),
		expenses.WithLogger(log.WithComponent(logger, "store")))
	if err != nil {
		return nil, err
	}

	ledger, err := budget.Load(cfg.Path(dir, cfg.Files.Budgets), log.WithComponent(logger, "budget"))
	if err != nil {
		return nil, err
	}

	return &app{
		dir:    dir,
		cfg:    cfg,
		logger: logger,
		store:  store,
		ledger: ledger,
		now:    flags.now,
	}, nil
}

// recordActivity appends e to the activity log and, when auto-commit is
// enabled, commits the data files. Failures only produce warnings.
func (a *app) recordActivity(ctx context.Context, e activity.Entry) {
	e.Timestamp = a.now().UTC()
	if err := activity.Append(a.dir, e); err != nil {
		a.logger.Warn("failed to write activity log", "err", err)
	}

	if !a.cfg.Git.AutoCommit {
		return
	}
	author := gitops.Author{Name: a.cfg.Git.AuthorName, Email: a.cfg.Git.AuthorEmail}
	repo, err := gitops.Open(a.dir, author)
	if err != nil {
		a.logger.Warn("auto-commit skipped", "err", err)
		return
	}

	msg := fmt.Sprintf("expenses: %s", e.Action)
	if e.Name != "" {
		msg += fmt.Sprintf(" %q", e.Name)
	}
	hash, err := repo.CommitFiles(ctx, msg, a.trackedFiles()...)
	if err != nil {
		a.logger.Warn("auto-commit failed", "err", err)
		return
	}
	if hash != "" {
		a.logger.Debug("committed", "hash", hash, "message", msg)
	}
}

// trackedFiles lists the data files inside the data directory, relative to it.
func (a *app) trackedFiles() []string {
	files := []string{activity.FileName}
	for _, name := range []string{a.cfg.Files.Expenses, a.cfg.Files.Budgets} {
		rel, err := filepath.Rel(a.dir, a.cfg.Path(a.dir, name))
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		files = append(files, rel)
	}
	return files
}

// parsePosition converts a 1-based position argument to a store index.
func parsePosition(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid expense number %q: must be a positive integer", arg)
	}
	return n - 1, nil
}

// describePosition rewrites a store IndexError in 1-based CLI terms.
func describePosition(err error) error {
	var ie *expenses.IndexError
	if !errors.As(err, &ie) {
		return err
	}
	if ie.Len == 0 {
		return fmt.Errorf("no expense #%d: no expenses recorded", ie.Index+1)
	}
	return fmt.Errorf("no expense #%d: choose a number from 1 to %d", ie.Index+1, ie.Len)
}

// currentMonth returns the year and month of the app clock.
func (a *app) currentMonth() (int, int) {
	now := a.now()
	return now.Year(), int(now.Month())
}
