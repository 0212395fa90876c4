package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"15/06/2025", "2025/06/15", true},
		{"1/6/2025", "2025/06/01", true},
		{" 29/02/2024 ", "2024/02/29", true},
		{"31/02/2025", "", false},
		{"29/02/2025", "", false},
		{"2025-06-15", "", false},
		{"2025/06/15", "", false},
		{"15/13/2025", "", false},
		{"15/06/25", "", false},
		{"", "", false},
		{"exit", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseDate(tc.in)
			if !tc.ok {
				assert.ErrorIs(t, err, ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestCategoriesSelect(t *testing.T) {
	got, err := DefaultCategories.Select(1)
	require.NoError(t, err)
	assert.Equal(t, "Restaurant", got)

	got, err = DefaultCategories.Select(10)
	require.NoError(t, err)
	assert.Equal(t, "Phone", got)

	for _, idx := range []int{0, 11, -1} {
		_, err := DefaultCategories.Select(idx)
		assert.ErrorIs(t, err, ErrInvalidSelection, "index %d", idx)
	}
}

func TestParseCategoryIndex(t *testing.T) {
	got, err := DefaultCategories.ParseCategoryIndex(" 4 ")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got)

	_, err = DefaultCategories.ParseCategoryIndex("four")
	assert.ErrorIs(t, err, ErrInvalidSelection)
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"12.34", "12.34", true},
		{" 7 ", "7", true},
		{"0", "0", true},
		{"-3.5", "-3.5", true},
		{"abc", "", false},
		{"", "", false},
		{"1,5", "", false},
		{"NaN", "", false},
		{"1e400", "", false},
		{"-1e400", "", false},
		{"12e2", "1200", true},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if !tc.ok {
			assert.ErrorIs(t, err, ErrInvalidFormat, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got.String())
	}
}

func TestIsExit(t *testing.T) {
	assert.True(t, IsExit("exit"))
	assert.True(t, IsExit("  EXIT "))
	assert.False(t, IsExit("exits"))
}

func TestNewRecord(t *testing.T) {
	r, err := NewRecord(DefaultCategories, "15/06/2025", 2, "9.99", "late order")
	require.NoError(t, err)
	assert.Equal(t, "2025/06/15", r.Date.String())
	assert.Equal(t, "Toters", r.Category)
	assert.Equal(t, "9.99", r.Amount.String())
	assert.Equal(t, "late order", r.Notes)

	_, err = NewRecord(DefaultCategories, "2025-06-15", 2, "9.99", "")
	assert.ErrorIs(t, err, ErrInvalidFormat)
	_, err = NewRecord(DefaultCategories, "15/06/2025", 11, "9.99", "")
	assert.ErrorIs(t, err, ErrInvalidSelection)
	_, err = NewRecord(DefaultCategories, "15/06/2025", 1, "x", "")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestParseNotes(t *testing.T) {
	longest := strings.Repeat("é", MaxNotesLength)
	got, err := ParseNotes(longest)
	require.NoError(t, err)
	assert.Equal(t, longest, got)

	_, err = ParseNotes(longest + "x")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = NewRecord(DefaultCategories, "15/06/2025", 1, "1", longest+"x")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestCategoriesNormalize(t *testing.T) {
	got := Categories{" A", "B", "", "A ", "C"}.Normalize()
	assert.Equal(t, Categories{"A", "B", "C"}, got)
}
