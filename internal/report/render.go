package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/expenses/internal/activity"
	"github.com/cleared-dev/expenses/internal/budget"
	"github.com/cleared-dev/expenses/internal/model"
)

// Money formats an amount with two decimals for display.
func Money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	return t
}

// RenderRecords prints records numbered from 1 in list order.
func RenderRecords(w io.Writer, records []model.ExpenseRecord) {
	RenderRecordsAt(w, records, nil)
}

// RenderRecordsAt prints records labeled with the given 1-based positions,
// so a filtered view still shows each record's place in the full list.
// A nil positions slice numbers from 1.
func RenderRecordsAt(w io.Writer, records []model.ExpenseRecord, positions []int) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No records found")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"#", "Date", "Category", "Name", "Amount"})
	total := decimal.Zero
	for i, r := range records {
		t.AppendRow(table.Row{position(positions, i), r.Date, r.Category, r.Name, Money(r.Amount)})
		total = total.Add(r.Amount)
	}
	t.AppendFooter(table.Row{"", "", "", text.Bold.Sprint("Total"), text.Bold.Sprint(Money(total))})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	t.Render()
}

// RenderCategories prints the distinct categories numbered from 1.
func RenderCategories(w io.Writer, categories []string) {
	if len(categories) == 0 {
		fmt.Fprintln(w, "No categories found")
		return
	}
	for i, c := range categories {
		fmt.Fprintf(w, "%d. %s\n", i+1, c)
	}
}

// RenderSummary prints per-category totals and the grand total.
func RenderSummary(w io.Writer, s Summary) {
	if s.Count == 0 {
		fmt.Fprintln(w, "No records found")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Category", "Entries", "Total"})
	for _, ct := range s.ByCategory {
		t.AppendRow(table.Row{ct.Category, ct.Count, Money(ct.Total)})
	}
	t.AppendFooter(table.Row{text.Bold.Sprint("All"), s.Count, text.Bold.Sprint(Money(s.Total))})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	t.Render()
}

// RenderMonthly prints one row per month, with the ceiling and remaining
// amount when a budget is set for that month.
func RenderMonthly(w io.Writer, months []MonthTotal, ledger *budget.Ledger) {
	if len(months) == 0 {
		fmt.Fprintln(w, "No records found")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Month", "Entries", "Total", "Budget", "Remaining"})
	for _, m := range months {
		ceilingStr, remainingStr := "-", "-"
		if ledger != nil {
			if c, ok := ledger.Ceiling(m.Year, m.Month); ok {
				ceilingStr = Money(c)
				remaining := c.Sub(m.Total)
				remainingStr = Money(remaining)
				if remaining.IsNegative() {
					remainingStr = text.FgRed.Sprint(remainingStr)
				}
			}
		}
		t.AppendRow(table.Row{m.Key(), m.Count, Money(m.Total), ceilingStr, remainingStr})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	t.Render()
}

// RenderBudgets prints the configured ceilings.
func RenderBudgets(w io.Writer, entries []budget.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No budgets set")
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"Month", "Budget"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.Key(), Money(e.Ceiling)})
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	t.Render()
}

// RenderOverspend prints the overspend warning.
func RenderOverspend(w io.Writer, o *model.Overspend) {
	if o == nil {
		return
	}
	fmt.Fprintln(w, text.FgYellow.Sprintf("WARNING: expenses for %d/%d exceed the budget", o.Month, o.Year))
	fmt.Fprintf(w, "Total: %s | Budget: %s\n", Money(o.Total), Money(o.Ceiling))
	fmt.Fprintln(w, text.FgRed.Sprintf("Overspending: %s", Money(o.Over)))
}

// RenderActivity prints activity log entries, oldest first.
func RenderActivity(w io.Writer, entries []activity.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No activity recorded")
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"Time", "Action", "#", "Name", "Details"})
	for _, e := range entries {
		pos := ""
		if e.Position > 0 {
			pos = strconv.Itoa(e.Position)
		}
		t.AppendRow(table.Row{e.Timestamp.Format(time.DateTime), string(e.Action), pos, e.Name, e.Details})
	}
	t.Render()
}

// JSONRecord is the JSON output shape of a listed record.
type JSONRecord struct {
	Position int         `json:"position"`
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Amount   json.Number `json:"amount"`
	Category string      `json:"category"`
	Date     string      `json:"date"`
}

// WriteRecordsJSON writes records as a JSON array, positions numbered from 1.
func WriteRecordsJSON(w io.Writer, records []model.ExpenseRecord) error {
	return WriteRecordsJSONAt(w, records, nil)
}

// WriteRecordsJSONAt is WriteRecordsJSON with explicit positions.
func WriteRecordsJSONAt(w io.Writer, records []model.ExpenseRecord, positions []int) error {
	out := make([]JSONRecord, len(records))
	for i, r := range records {
		out[i] = JSONRecord{
			Position: position(positions, i),
			ID:       r.ID.String(),
			Name:     r.Name,
			Amount:   json.Number(r.Amount.String()),
			Category: r.Category,
			Date:     r.Date,
		}
	}
	return writeJSON(w, out)
}

// WriteSummaryJSON writes a summary as JSON.
func WriteSummaryJSON(w io.Writer, s Summary) error {
	return writeJSON(w, s)
}

func position(positions []int, i int) int {
	if i < len(positions) {
		return positions[i]
	}
	return i + 1
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}
