package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/expenses/internal/activity"
	"github.com/cleared-dev/expenses/internal/config"
	"github.com/cleared-dev/expenses/internal/period"
)

var testNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

type result struct {
	out    string
	errOut string
	err    error
}

func runExpenses(t *testing.T, dir string, args ...string) result {
	t.Helper()
	cmd := newRootCommand(func() time.Time { return testNow })
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--dir", dir}, args...))
	err := cmd.Execute()
	return result{out: out.String(), errOut: errOut.String(), err: err}
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	r := runExpenses(t, dir, args...)
	require.NoError(t, r.err, "expenses %s\nstderr: %s", strings.Join(args, " "), r.errOut)
	return r.out
}

type listedRecord struct {
	Position int         `json:"position"`
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Amount   json.Number `json:"amount"`
	Category string      `json:"category"`
	Date     string      `json:"date"`
}

func listJSON(t *testing.T, dir string, args ...string) []listedRecord {
	t.Helper()
	out := mustRun(t, dir, append([]string{"list", "--json"}, args...)...)
	var got []listedRecord
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	return got
}

func addLunchAndBus(t *testing.T, dir string) {
	t.Helper()
	mustRun(t, dir, "add", "--name", "Lunch", "--amount", "12.50", "--category", "Food", "--date", "2024-06-01")
	mustRun(t, dir, "add", "--name", "Bus", "--amount", "2.80", "--category", "Transportation", "--date", "2024-05-20")
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	out := mustRun(t, dir, "init")
	assert.Contains(t, out, "Initialized expense tracker in "+dir)

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.False(t, cfg.Git.AutoCommit)

	r := runExpenses(t, dir, "init")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "already exists")
}

func TestAdd_ListDelete(t *testing.T) {
	dir := t.TempDir()
	out := mustRun(t, dir, "add", "--name", "Lunch", "--amount", "12.50", "--category", "Food", "--date", "2024-06-01")
	assert.Equal(t, "Added expense #1: Lunch $12.50 (Food, 2024-06-01)\n", out)
	mustRun(t, dir, "add", "--name", "Bus", "--amount", "2.80", "--category", "Transportation", "--date", "2024-05-20")

	out = mustRun(t, dir, "list")
	assert.Contains(t, out, "Lunch")
	assert.Contains(t, out, "$12.50")
	assert.Contains(t, out, "Bus")
	assert.Contains(t, out, "$15.30")

	out = mustRun(t, dir, "delete", "1")
	assert.Equal(t, "Deleted expense #1: Lunch $12.50\n", out)

	got := listJSON(t, dir)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Position)
	assert.Equal(t, "Bus", got[0].Name)
	assert.Equal(t, "2.8", got[0].Amount.String())

	stored, err := os.ReadFile(filepath.Join(dir, "expenses.json"))
	require.NoError(t, err)
	assert.Contains(t, string(stored), `"amount": 2.8,`)
	assert.Contains(t, mustRun(t, dir, "list", "--json"), `"amount": 2.8,`)
}

func TestAdd_DefaultsDateAndCategory(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "add", "--name", "Gift", "--amount", "30")

	got := listJSON(t, dir)
	require.Len(t, got, 1)
	assert.Equal(t, "2024-06-15", got[0].Date)
	assert.Equal(t, "Other", got[0].Category)
}

func TestAdd_InvalidInput(t *testing.T) {
	dir := t.TempDir()

	r := runExpenses(t, dir, "add", "--name", "Lunch", "--amount", "abc")
	require.Error(t, r.err)
	var verr *period.ValidationError
	require.True(t, errors.As(r.err, &verr))
	assert.Equal(t, "amount", verr.Field)

	r = runExpenses(t, dir, "add", "--name", "Lunch", "--amount", "5", "--date", "2024-02-30")
	require.Error(t, r.err)
	require.True(t, errors.As(r.err, &verr))
	assert.Equal(t, "date", verr.Field)

	r = runExpenses(t, dir, "add", "--amount", "5")
	require.Error(t, r.err)

	assert.Empty(t, listJSON(t, dir))
}

func TestAdd_OverspendWarning(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "budget", "set", "2024", "6", "500")

	out := mustRun(t, dir, "add", "--name", "Rent share", "--amount", "400", "--date", "2024-06-02")
	assert.NotContains(t, out, "WARNING")

	out = mustRun(t, dir, "add", "--name", "Laptop", "--amount", "200", "--date", "2024-06-10")
	assert.Contains(t, out, "WARNING: expenses for 6/2024 exceed the budget")
	assert.Contains(t, out, "Total: $600.00 | Budget: $500.00")
	assert.Contains(t, out, "Overspending: $100.00")

	// The warning is advisory: the record stays.
	assert.Len(t, listJSON(t, dir), 2)
}

func TestAdd_OverspendIgnoresOtherMonths(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "budget", "set", "2024", "6", "100")

	out := mustRun(t, dir, "add", "--name", "Old bill", "--amount", "900", "--date", "2024-05-02")
	assert.NotContains(t, out, "WARNING")
}

func TestAdd_MalformedStoredDateWarns(t *testing.T) {
	dir := t.TempDir()
	doc := `[{"name": "Broken", "amount": 5, "category": "Food", "date": "06/01/2024"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "expenses.json"), []byte(doc), 0o644))
	mustRun(t, dir, "budget", "set", "2024", "6", "500")

	r := runExpenses(t, dir, "add", "--name", "Lunch", "--amount", "10", "--date", "2024-06-03")
	require.NoError(t, r.err)
	assert.Contains(t, r.errOut, "budget check skipped")
	assert.Contains(t, r.errOut, "record 0")

	got := listJSON(t, dir)
	require.Len(t, got, 2)
	assert.Equal(t, "06/01/2024", got[0].Date, "malformed date is preserved")
}

func TestDelete_Errors(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "add", "--name", "Lunch", "--amount", "12.50")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"out of range", []string{"delete", "5"}, "no expense #5: choose a number from 1 to 1"},
		{"zero", []string{"delete", "0"}, "invalid expense number"},
		{"not a number", []string{"delete", "first"}, "invalid expense number"},
		{"no selector", []string{"delete"}, "either an expense number or --id"},
		{"both selectors", []string{"delete", "1", "--id", "x"}, "either an expense number or --id"},
		{"bad id", []string{"delete", "--id", "not-a-uuid"}, "invalid --id"},
		{"unknown id", []string{"delete", "--id", "00000000-0000-0000-0000-000000000001"}, "expense not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := runExpenses(t, dir, tt.args...)
			require.Error(t, r.err)
			assert.Contains(t, r.err.Error(), tt.want)
		})
	}

	assert.Len(t, listJSON(t, dir), 1)
}

func TestDelete_EmptyStore(t *testing.T) {
	r := runExpenses(t, t.TempDir(), "delete", "1")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "no expenses recorded")
}

func TestDeleteByID(t *testing.T) {
	dir := t.TempDir()
	addLunchAndBus(t, dir)

	listed := listJSON(t, dir)
	require.Len(t, listed, 2)

	out := mustRun(t, dir, "delete", "--id", listed[1].ID)
	assert.Equal(t, "Deleted expense #2: Bus $2.80\n", out)

	got := listJSON(t, dir)
	require.Len(t, got, 1)
	assert.Equal(t, listed[0].ID, got[0].ID)
}

func TestUpdate(t *testing.T) {
	dir := t.TempDir()
	addLunchAndBus(t, dir)

	out := mustRun(t, dir, "update", "1", "--amount", "20")
	assert.Equal(t, "Updated expense #1: Lunch $20.00 (Food, 2024-06-01)\n", out)

	r := runExpenses(t, dir, "update", "2", "--amount", "3", "--date", "2024-13-01")
	require.Error(t, r.err)

	r = runExpenses(t, dir, "update", "2")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "nothing to update")

	r = runExpenses(t, dir, "update", "3", "--name", "Taxi")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "no expense #3")

	got := listJSON(t, dir)
	require.Len(t, got, 2)
	assert.Equal(t, "Lunch", got[0].Name)
	assert.Equal(t, "20", got[0].Amount.String())
	assert.Equal(t, "2.8", got[1].Amount.String(), "failed update leaves the record untouched")
	assert.Equal(t, "2024-05-20", got[1].Date)
}

func TestCategoriesAndFilter(t *testing.T) {
	dir := t.TempDir()
	addLunchAndBus(t, dir)
	mustRun(t, dir, "add", "--name", "Dinner", "--amount", "20", "--category", "Food", "--date", "2024-06-02")

	out := mustRun(t, dir, "categories")
	assert.Equal(t, "1. Food\n2. Transportation\n", out)

	var got []listedRecord
	out = mustRun(t, dir, "filter", "1", "--json")
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Lunch", got[0].Name)
	assert.Equal(t, 1, got[0].Position)
	assert.Equal(t, "Dinner", got[1].Name)
	assert.Equal(t, 3, got[1].Position, "positions refer to the full list")

	out = mustRun(t, dir, "filter", "2")
	assert.Contains(t, out, "Category: Transportation")
	assert.Contains(t, out, "Bus")

	r := runExpenses(t, dir, "filter", "3")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "no category #3")

	assert.Len(t, listJSON(t, dir, "--category", "Food"), 2)
	assert.Empty(t, listJSON(t, dir, "--category", "Travel"))
}

func TestFilter_NoCategories(t *testing.T) {
	r := runExpenses(t, t.TempDir(), "filter", "1")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "no categories found")
}

func TestBudget(t *testing.T) {
	dir := t.TempDir()

	assert.Equal(t, "No budgets set\n", mustRun(t, dir, "budget", "list"))
	assert.Equal(t, "No budget set for 2024-06\n", mustRun(t, dir, "budget", "show"))

	out := mustRun(t, dir, "budget", "set", "2024", "6", "500")
	assert.Equal(t, "Budget for 2024-06 set to $500.00\n", out)
	mustRun(t, dir, "add", "--name", "Lunch", "--amount", "120", "--date", "2024-06-01")

	out = mustRun(t, dir, "budget", "show")
	assert.Contains(t, out, "Budget for 2024-06: $500.00")
	assert.Contains(t, out, "Spent: $120.00 | Remaining: $380.00")

	out = mustRun(t, dir, "budget", "show", "2024", "7")
	assert.Equal(t, "No budget set for 2024-07\n", out)

	for _, args := range [][]string{
		{"budget", "set", "2024", "13", "500"},
		{"budget", "set", "24", "6", "500"},
		{"budget", "set", "2024", "6", "lots"},
		{"budget", "show", "2024"},
	} {
		r := runExpenses(t, dir, args...)
		assert.Error(t, r.err, strings.Join(args, " "))
	}

	out = mustRun(t, dir, "budget", "list")
	assert.Contains(t, out, "2024-06")
	assert.Contains(t, out, "$500.00")
}

func TestSummaryAndMonthly(t *testing.T) {
	dir := t.TempDir()
	addLunchAndBus(t, dir)
	mustRun(t, dir, "budget", "set", "2024", "5", "1")

	out := mustRun(t, dir, "summary", "--json")
	var s struct {
		Count      int    `json:"count"`
		Total      string `json:"total"`
		ByCategory []struct {
			Category string `json:"category"`
		} `json:"by_category"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, "15.3", s.Total)
	require.Len(t, s.ByCategory, 2)
	assert.Equal(t, "Food", s.ByCategory[0].Category)

	out = mustRun(t, dir, "summary")
	assert.Contains(t, out, "Transportation")
	assert.Contains(t, out, "$15.30")

	out = mustRun(t, dir, "monthly")
	assert.Less(t, strings.Index(out, "2024-05"), strings.Index(out, "2024-06"))
	assert.Contains(t, out, "$1.00")
}

func TestExportImport(t *testing.T) {
	dir := t.TempDir()
	addLunchAndBus(t, dir)

	for _, format := range []string{"csv", "xlsx"} {
		t.Run(format, func(t *testing.T) {
			out := mustRun(t, dir, "export", "--format", format)
			path := filepath.Join(dir, "expenses_export_202406151000."+format)
			if format == "xlsx" {
				assert.Contains(t, out, "Exported 2 expenses to ")
			}
			matches, err := filepath.Glob(filepath.Join(dir, "expenses_export_*."+format))
			require.NoError(t, err)
			require.Len(t, matches, 1)
			assert.Equal(t, path, matches[0])

			other := t.TempDir()
			out = mustRun(t, other, "import", path)
			assert.Contains(t, out, "Imported 2 of 2 expenses")

			got := listJSON(t, other)
			require.Len(t, got, 2)
			assert.Equal(t, "Lunch", got[0].Name)
			assert.Equal(t, "12.5", got[0].Amount.String())
			assert.Equal(t, "2024-05-20", got[1].Date)
		})
	}

	r := runExpenses(t, dir, "export", "--format", "pdf")
	require.Error(t, r.err)
}

func TestImport_StopsAtInvalidRow(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(t.TempDir(), "in.csv")
	data := "date,category,name,amount\n2024-06-01,Food,Lunch,12.50\n2024-06-02,Food,Dinner,lots\n"
	require.NoError(t, os.WriteFile(src, []byte(data), 0o644))

	r := runExpenses(t, dir, "import", src)
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "row 3")
	assert.Contains(t, r.out, "Imported 1 of 2 expenses")
	assert.Len(t, listJSON(t, dir), 1)
}

func TestActivityLog(t *testing.T) {
	dir := t.TempDir()
	addLunchAndBus(t, dir)
	mustRun(t, dir, "delete", "1")
	mustRun(t, dir, "list")

	entries, err := activity.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, activity.ActionAdd, entries[0].Action)
	assert.Equal(t, 1, entries[0].Position)
	assert.Equal(t, "Lunch", entries[0].Name)
	assert.Equal(t, 2, entries[1].Position)
	assert.Equal(t, activity.ActionDelete, entries[2].Action)
	assert.Equal(t, testNow, entries[2].Timestamp)

	out := mustRun(t, dir, "history")
	assert.Contains(t, out, "Lunch")
	assert.Contains(t, out, "delete")

	out = mustRun(t, dir, "history", "--limit", "1")
	assert.Contains(t, out, "delete")
	assert.NotContains(t, out, "Bus")
}

func TestHistory_Empty(t *testing.T) {
	assert.Equal(t, "No activity recorded\n", mustRun(t, t.TempDir(), "history"))
}

func TestUpdate_LogsChangedFields(t *testing.T) {
	dir := t.TempDir()
	addLunchAndBus(t, dir)
	mustRun(t, dir, "update", "2", "--amount", "3", "--category", "Travel")

	entries, err := activity.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, activity.ActionUpdate, entries[2].Action)
	assert.Equal(t, 2, entries[2].Position)
	assert.Equal(t, "amount: 2.8 -> 3; category: Transportation -> Travel", entries[2].Details)
}

func TestInitGit_AutoCommits(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()

	out := mustRun(t, dir, "init", "--git")
	assert.Contains(t, out, "Initialized expense tracker in ")

	mustRun(t, dir, "add", "--name", "Lunch", "--amount", "12.50")

	logOut, err := exec.Command("git", "-C", dir, "log", "--format=%s").CombinedOutput()
	require.NoError(t, err, string(logOut))
	subjects := strings.Split(strings.TrimSpace(string(logOut)), "\n")
	require.Len(t, subjects, 2)
	assert.Equal(t, `expenses: add "Lunch"`, subjects[0])
	assert.Equal(t, "expenses: init", subjects[1])
}

func TestVersion(t *testing.T) {
	out := mustRun(t, t.TempDir(), "--version")
	assert.Contains(t, out, "dev")
}
