package gitops

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuthor = Author{Name: "Test Author", Email: "test@example.com"}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func TestInit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	assert.False(t, IsRepo(dir), "empty dir should not be a repo")

	_, err := Init(context.Background(), dir, testAuthor)
	require.NoError(t, err)
	assert.True(t, IsRepo(dir), "initialized dir should be a repo")
}

func TestOpen_NotRepo(t *testing.T) {
	_, err := Open(t.TempDir(), testAuthor)
	assert.ErrorIs(t, err, ErrNotRepo)
}

func TestCommitFiles(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	dir := t.TempDir()
	repo, err := Init(ctx, dir, testAuthor)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "expenses.json"), []byte("[]\n"), 0o644))

	hash, err := repo.CommitFiles(ctx, "expenses: add \"Lunch\"", "expenses.json", "budgets.json")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	log := exec.Command("git", "log", "--format=%s|%an <%ae>", "-1")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "expenses: add \"Lunch\"|Test Author <test@example.com>")

	// Unchanged files produce no commit.
	hash, err = repo.CommitFiles(ctx, "noop", "expenses.json")
	require.NoError(t, err)
	assert.Empty(t, hash)
}

func TestCommitFiles_NoFiles(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	repo, err := Init(ctx, t.TempDir(), testAuthor)
	require.NoError(t, err)

	hash, err := repo.CommitFiles(ctx, "nothing", "missing.json")
	require.NoError(t, err)
	assert.Empty(t, hash)
}
