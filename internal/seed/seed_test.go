package seed

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expenses/internal/core"
)

func TestGenerate(t *testing.T) {
	table := Generate(NewRand(42), DefaultRows, DefaultFrom, DefaultTo, core.DefaultCategories)
	require.Len(t, table, DefaultRows)
	assert.True(t, table.IsSorted())

	low, high := decimal.NewFromInt(minAmount), decimal.NewFromInt(maxAmount)
	for _, r := range table {
		assert.False(t, r.Date.Before(DefaultFrom), r.Date.String())
		assert.False(t, r.Date.After(DefaultTo), r.Date.String())
		assert.True(t, core.DefaultCategories.Contains(r.Category))
		assert.True(t, r.Amount.GreaterThanOrEqual(low) && r.Amount.LessThanOrEqual(high), r.Amount.String())
		assert.True(t, r.Amount.Equal(r.Amount.Round(2)))
		assert.Empty(t, r.Notes)
		require.NoError(t, r.Validate(core.DefaultCategories))
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(NewRand(7), 20, DefaultFrom, DefaultTo, core.DefaultCategories)
	b := Generate(NewRand(7), 20, DefaultFrom, DefaultTo, core.DefaultCategories)
	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].Date.String(), b[i].Date.String())
		assert.Equal(t, a[i].Category, b[i].Category)
		assert.True(t, a[i].Amount.Equal(b[i].Amount))
	}
}

func TestGenerateEdgeCases(t *testing.T) {
	assert.Empty(t, Generate(NewRand(1), 0, DefaultFrom, DefaultTo, core.DefaultCategories))
	assert.Empty(t, Generate(NewRand(1), 5, DefaultFrom, DefaultTo, nil))

	one := time.Date(2025, 3, 3, 15, 0, 0, 0, time.UTC)
	table := Generate(NewRand(1), 5, one, one, core.Categories{"Phone"})
	for _, r := range table {
		assert.Equal(t, "2025/03/03", r.Date.String())
		assert.Equal(t, "Phone", r.Category)
	}

	swapped := Generate(NewRand(1), 10, DefaultTo, DefaultFrom, core.DefaultCategories)
	assert.Len(t, swapped, 10)
}
