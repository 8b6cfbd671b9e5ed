package gitops

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNotRepo is returned when the data directory has no .git directory.
var ErrNotRepo = errors.New("not a git repository")

// Author identifies the commit author.
type Author struct {
	Name  string
	Email string
}

func (a Author) String() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// Repo commits changes in a data directory.
type Repo struct {
	dir    string
	author Author
}

// Open returns a Repo for dir, or ErrNotRepo.
func Open(dir string, author Author) (*Repo, error) {
	if !IsRepo(dir) {
		return nil, fmt.Errorf("%s: %w", dir, ErrNotRepo)
	}
	return &Repo{dir: dir, author: author}, nil
}

// Init runs git init in dir and returns the Repo.
func Init(ctx context.Context, dir string, author Author) (*Repo, error) {
	if _, err := run(ctx, dir, "init", "--quiet"); err != nil {
		return nil, err
	}
	return &Repo{dir: dir, author: author}, nil
}

// IsRepo reports whether dir contains a .git directory.
func IsRepo(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}

// CommitFiles stages the given paths (relative to the repo) and commits them.
// Returns the short hash, or "" when nothing changed.
func (r *Repo) CommitFiles(ctx context.Context, message string, paths ...string) (string, error) {
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(filepath.Join(r.dir, p)); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return "", nil
	}

	if _, err := run(ctx, r.dir, append([]string{"add", "--"}, existing...)...); err != nil {
		return "", err
	}

	// Nothing staged means the files were already committed as-is.
	if _, err := run(ctx, r.dir, "diff", "--cached", "--quiet"); err == nil {
		return "", nil
	}

	if _, err := run(ctx, r.dir,
		"-c", "user.name="+r.author.Name,
		"-c", "user.email="+r.author.Email,
		"commit", "--quiet", "-m", message, "--author", r.author.String()); err != nil {
		return "", err
	}

	out, err := run(ctx, r.dir, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(string(out)), err)
	}
	return string(out), nil
}
