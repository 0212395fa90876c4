package prompt

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expenses/internal/chart"
	"expenses/internal/core"
	"expenses/internal/services"
	"expenses/internal/sheets/memory"
	"expenses/internal/sheets/xlsx"
)

func script(lines ...string) *strings.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func runShell(t *testing.T, svc *services.ExpenseService, opts Options, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, New(svc, script(lines...), &out, opts).Run(context.Background()))
	return out.String()
}

func TestShell_AddWithRetries(t *testing.T) {
	store := memory.New("prompt", nil)
	svc := services.NewExpenseService(store, core.DefaultCategories, nil)

	out := runShell(t, svc, Options{},
		"9",                          // invalid menu choice
		"1",                          // add
		"2025-06-15", "15/06/2025",   // bad date then good
		"0", "abc", "1",              // bad category twice then Restaurant
		"twelve", "12.50",            // bad amount then good
		"lunch",                      // notes
		"maybe", "N",                 // invalid then not done
		"01/06/2025", "5", "3", "",   // second record
		"Y",                          // done
		"5",                          // exit
	)

	assert.Contains(t, out, "Invalid choice. Please select a valid option.")
	assert.Contains(t, out, "Invalid date format. Please use DD/MM/YYYY.")
	assert.Equal(t, 2, strings.Count(out, "Invalid category. Please enter a number between 1 and 10."))
	assert.Contains(t, out, "Invalid amount. Please enter a number.")
	assert.Contains(t, out, "Invalid input. Please enter 'Y' or 'N'.")
	assert.Equal(t, 2, strings.Count(out, "New expense saved successfully!"))
	assert.Contains(t, out, "Goodbye!")

	table, _, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, table, 2)
	assert.Equal(t, "2025/06/01", table[0].Date.String())
	assert.Equal(t, "Snacks", table[0].Category)
	assert.Equal(t, "Restaurant", table[1].Category)
	assert.True(t, table[1].Amount.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, "lunch", table[1].Notes)
}

func TestShell_ExitAtDateSavesNothing(t *testing.T) {
	store := memory.New("prompt", nil)
	svc := services.NewExpenseService(store, core.DefaultCategories, nil)

	out := runShell(t, svc, Options{}, "1", "EXIT", "5")

	assert.Contains(t, out, "Exiting without adding an expense.")
	assert.Zero(t, store.Saves())
}

func TestShell_EndOfInputExitsCleanly(t *testing.T) {
	svc := services.NewExpenseService(memory.New("prompt", nil), core.DefaultCategories, nil)
	out := runShell(t, svc, Options{}, "1", "15/06/2025")
	assert.Contains(t, out, "Select a category:")
}

func TestShell_Visualizations(t *testing.T) {
	store := memory.New("viz", core.Table{
		{Date: core.NewDate(2025, 6, 1), Category: "Snacks", Amount: decimal.NewFromInt(10)},
		{Date: core.NewDate(2025, 6, 1), Category: "Phone", Amount: decimal.NewFromInt(5)},
		{Date: core.NewDate(2025, 6, 15), Category: "Snacks", Amount: decimal.NewFromInt(20)},
	})
	svc := services.NewExpenseService(store, core.DefaultCategories, nil)
	chartDir := filepath.Join(t.TempDir(), "charts")

	out := runShell(t, svc, Options{ChartDir: chartDir, ChartFormat: chart.SVG},
		"2",
		"1", "13", "2025", // invalid month
		"1", "x", "2025", // non-numeric
		"1", "7", "2025", // no data
		"1", "6", "2025",
		"2",
		"3",
		"9",
		"4",
		"5",
	)

	assert.Contains(t, out, "Invalid month. Please enter between 1 and 12.")
	assert.Contains(t, out, "Invalid input. Please enter numeric values.")
	assert.Contains(t, out, "No expenses found for 07/2025.")
	assert.Contains(t, out, "   1  15.00")
	assert.Contains(t, out, "  15  20.00")
	assert.Contains(t, out, "Total 35.00")
	assert.Contains(t, out, "Invalid choice. Please enter 1, 2, 3, or 4.")

	for _, name := range []string{"monthly-2025-06.svg", "categories.svg", "cumulative.svg"} {
		_, err := os.Stat(filepath.Join(chartDir, name))
		assert.NoError(t, err, name)
	}
	_, err := os.Stat(filepath.Join(chartDir, "monthly-2025-07.svg"))
	assert.True(t, os.IsNotExist(err))
}

func TestShell_BackupAndDelete(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Expense_Tracker.xlsx")
	svc := services.NewExpenseService(xlsx.New(path), core.DefaultCategories, nil)

	out := runShell(t, svc, Options{},
		"3",
		"4", "n",
		"4", "what", "Y",
		"3",
		"4",
		"5",
	)

	assert.Contains(t, out, "No expense tracker file found. Created a new one at")
	assert.Contains(t, out, "Manual backup created: Expense_Tracker_backup_")
	assert.Contains(t, out, "Deletion canceled. File is safe.")
	assert.Contains(t, out, "Invalid input. Please enter 'Y' or 'N'.")
	assert.Contains(t, out, "Deleted main expense tracker file:")
	assert.Contains(t, out, "No expense tracker file found to backup.")
	assert.Contains(t, out, "No expense tracker file found to delete.")

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestShell_AddAfterDeleteRecreatesStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Expense_Tracker.xlsx")
	svc := services.NewExpenseService(xlsx.New(path), core.DefaultCategories, nil)

	out := runShell(t, svc, Options{},
		"4", "Y",
		"1", "02/06/2025", "2", "7", "",
		"Y",
		"5",
	)

	assert.Equal(t, 2, strings.Count(out, "No expense tracker file found. Created a new one at"))
	assert.Contains(t, out, "New expense saved successfully!")

	table, created, err := xlsx.New(path).Load(context.Background())
	require.NoError(t, err)
	assert.False(t, created)
	require.Len(t, table, 1)
	assert.Equal(t, "2025/06/02", table[0].Date.String())
}

func TestShell_RejectsOverlongNotes(t *testing.T) {
	store := memory.New("prompt", nil)
	svc := services.NewExpenseService(store, core.DefaultCategories, nil)

	out := runShell(t, svc, Options{},
		"1", "15/06/2025", "1", "3",
		strings.Repeat("x", core.MaxNotesLength+1),
		"short",
		"Y",
		"5",
	)

	assert.Contains(t, out, "Notes are too long. Please keep them to at most 32767 characters.")
	table, _, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, table, 1)
	assert.Equal(t, "short", table[0].Notes)
}
