package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/expenses/internal/config"
	"github.com/cleared-dev/expenses/internal/gitops"
)

func newInitCommand(flags *globalFlags) *cobra.Command {
	var withGit bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create expenses.yaml in the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.ResolveDir(flags.dir)
			if err != nil {
				return err
			}
			return runInit(cmd, dir, withGit)
		},
	}

	cmd.Flags().BoolVar(&withGit, "git", false, "initialize a git repository and commit every change")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, withGit bool) error {
	out := cmd.OutOrStdout()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	cfg := config.Default()
	cfg.Git.AutoCommit = withGit
	if err := config.Save(cfgPath, cfg); err != nil {
		return err
	}

	if !withGit {
		fmt.Fprintf(out, "Initialized expense tracker in %s\n", dir)
		return nil
	}
	return initGit(cmd, out, dir, cfg)
}

func initGit(cmd *cobra.Command, out io.Writer, dir string, cfg *config.Config) error {
	gitignore := "expenses_export_*\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	repo, err := gitops.Open(dir, author)
	if errors.Is(err, gitops.ErrNotRepo) {
		repo, err = gitops.Init(cmd.Context(), dir, author)
	}
	if err != nil {
		return fmt.Errorf("git init: %w", err)
	}

	hash, err := repo.CommitFiles(cmd.Context(), "expenses: init", config.FileName, ".gitignore")
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized expense tracker in %s (%s)\n", dir, hash)
	return nil
}
