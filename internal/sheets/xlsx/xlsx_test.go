package xlsx

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"expenses/internal/core"
)

func record(t *testing.T, date, category, amount, notes string) core.Record {
	t.Helper()
	d, err := core.ParseCanonicalDate(date)
	require.NoError(t, err)
	return core.Record{Date: d, Category: category, Amount: decimal.RequireFromString(amount), Notes: notes}
}

func TestLoadCreatesMissingStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "Expense_Tracker.xlsx")
	s := New(path)

	table, created, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, created)
	assert.Empty(t, table)

	_, err = os.Stat(path)
	require.NoError(t, err, "store file should exist after load")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetList()[0])
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, core.Columns, rows[0])

	table, created, err = s.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Empty(t, table)
}

func TestRoundTrip(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "Expense_Tracker.xlsx"))
	want := core.Table{
		record(t, "2025/01/02", "Groceries", "45.3", "weekly shop"),
		record(t, "2025/01/02", "Snacks", "2", ""),
		record(t, "2025/03/15", "Phone", "19.99", "plan, march"),
	}
	require.NoError(t, s.Save(context.Background(), want))

	got, created, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, created)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Date.String(), got[i].Date.String())
		assert.Equal(t, want[i].Category, got[i].Category)
		assert.True(t, want[i].Amount.Equal(got[i].Amount), "row %d amount %s != %s", i, want[i].Amount, got[i].Amount)
		assert.Equal(t, want[i].Notes, got[i].Notes)
	}
}

func TestAppendAndSaveSortsAndPersists(t *testing.T) {
	ctx := context.Background()
	s := New(filepath.Join(t.TempDir(), "Expense_Tracker.xlsx"))
	table, _, err := s.Load(ctx)
	require.NoError(t, err)

	inputs := []core.Record{
		record(t, "2025/06/15", "Restaurant", "20", "dinner"),
		record(t, "2025/06/01", "Laundry", "10", ""),
		record(t, "2025/06/01", "Snacks", "5", "second same day"),
		record(t, "2024/12/31", "Shopping", "99.5", ""),
	}
	for _, r := range inputs {
		prev := len(table)
		table, err = s.AppendAndSave(ctx, table, r)
		require.NoError(t, err)
		require.Len(t, table, prev+1)
		assert.True(t, table.IsSorted())
	}

	reloaded, _, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, reloaded, 4)
	assert.True(t, reloaded.IsSorted())
	assert.Equal(t, "2024/12/31", reloaded[0].Date.String())
	assert.Equal(t, "Laundry", reloaded[1].Category)
	assert.Equal(t, "Snacks", reloaded[2].Category)
	assert.Equal(t, "Restaurant", reloaded[3].Category)
}

func TestLoadRejectsWrongHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow(DefaultSheet, "A1", &[]interface{}{"When", "What", "How much"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, _, err := New(path).Load(context.Background())
	assert.ErrorIs(t, err, core.ErrCorruptStore)
}

func TestLoadRejectsBadDate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow(DefaultSheet, "A1", &[]interface{}{"Date", "Category", "Amount", "Notes"}))
	require.NoError(t, f.SetSheetRow(DefaultSheet, "A2", &[]interface{}{"15/06/2025", "Phone", 3.5, ""}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, _, err := New(path).Load(context.Background())
	assert.ErrorIs(t, err, core.ErrCorruptStore)
}

func TestLoadNotAFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a spreadsheet"), 0o644))

	_, _, err := New(path).Load(context.Background())
	assert.Error(t, err)
}

func TestSaveRejectsValuesACellCannotHold(t *testing.T) {
	ctx := context.Background()
	s := New(filepath.Join(t.TempDir(), "Expense_Tracker.xlsx"))
	table, _, err := s.Load(ctx)
	require.NoError(t, err)
	table, err = s.AppendAndSave(ctx, table, record(t, "2025/06/01", "Phone", "5", ""))
	require.NoError(t, err)

	_, err = s.AppendAndSave(ctx, table, record(t, "2025/06/02", "Phone", "1e400", ""))
	assert.ErrorIs(t, err, core.ErrInvalidFormat)

	_, err = s.AppendAndSave(ctx, table, record(t, "2025/06/02", "Phone", "1", strings.Repeat("x", core.MaxNotesLength+1)))
	assert.ErrorIs(t, err, core.ErrInvalidFormat)

	got, _, err := s.Load(ctx)
	require.NoError(t, err, "a rejected save must leave the store loadable")
	require.Len(t, got, 1)

	longest := strings.Repeat("ü", core.MaxNotesLength)
	_, err = s.AppendAndSave(ctx, got, record(t, "2025/06/03", "Phone", "2", longest))
	require.NoError(t, err)
	got, _, err = s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, longest, got[1].Notes)
}
