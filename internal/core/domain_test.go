package core

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(date string, category string, amount string) Record {
	d, err := ParseCanonicalDate(date)
	if err != nil {
		panic(err)
	}
	return Record{Date: d, Category: category, Amount: decimal.RequireFromString(amount)}
}

func TestParseCanonicalDate(t *testing.T) {
	d, err := ParseCanonicalDate("2025/06/15")
	require.NoError(t, err)
	assert.Equal(t, "2025/06/15", d.String())
	assert.Equal(t, 15, d.Day())
	assert.Equal(t, 6, d.Month())
	assert.Equal(t, 2025, d.Year())

	_, err = ParseCanonicalDate("15/06/2025")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestTableAppendKeepsInputAndSorts(t *testing.T) {
	base := Table{
		rec("2025/06/01", "Snacks", "1"),
		rec("2025/06/10", "Phone", "2"),
	}
	next := base.Append(rec("2025/06/05", "Barber", "3"))

	require.Len(t, base, 2)
	require.Len(t, next, 3)
	assert.True(t, next.IsSorted())
	assert.Equal(t, "Barber", next[1].Category)
}

func TestTableSortIsStable(t *testing.T) {
	table := Table{
		rec("2025/06/02", "A", "1"),
		rec("2025/06/01", "B", "2"),
		rec("2025/06/02", "C", "3"),
		rec("2025/06/01", "D", "4"),
	}
	table.SortByDate()

	got := make([]string, 0, len(table))
	for _, r := range table {
		got = append(got, r.Category)
	}
	assert.Equal(t, []string{"B", "D", "A", "C"}, got)
}

func TestRecordValidate(t *testing.T) {
	good := rec("2025/01/01", "Restaurant", "10")
	assert.NoError(t, good.Validate(DefaultCategories))

	unknown := rec("2025/01/01", "Rent", "10")
	assert.ErrorIs(t, unknown.Validate(DefaultCategories), ErrInvalidSelection)

	assert.Error(t, Record{Category: "Restaurant"}.Validate(DefaultCategories))

	huge := rec("2025/01/01", "Restaurant", "1e400")
	assert.ErrorIs(t, huge.Validate(DefaultCategories), ErrInvalidFormat)

	wordy := rec("2025/01/01", "Restaurant", "1")
	wordy.Notes = strings.Repeat("n", MaxNotesLength+1)
	assert.ErrorIs(t, wordy.Validate(DefaultCategories), ErrInvalidFormat)
}

func TestTableClone(t *testing.T) {
	table := Table{rec("2025/01/01", "Phone", "5")}
	clone := table.Clone()
	clone[0].Category = "Snacks"
	assert.Equal(t, "Phone", table[0].Category)
}
