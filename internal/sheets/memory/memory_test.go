package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expenses/internal/core"
)

func TestMemoryStoreLoadAndAppend(t *testing.T) {
	ctx := context.Background()
	s := New("test", nil)

	table, created, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Empty(t, table)

	_, created, _ = s.Load(ctx)
	assert.False(t, created)

	table, err = s.AppendAndSave(ctx, table, core.Record{
		Date:     core.NewDate(2025, 6, 2),
		Category: "Phone",
		Amount:   decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	table, err = s.AppendAndSave(ctx, table, core.Record{
		Date:     core.NewDate(2025, 6, 1),
		Category: "Snacks",
		Amount:   decimal.NewFromInt(3),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Saves())

	stored, _, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, table, stored)
	assert.Equal(t, "Snacks", stored[0].Category)
	assert.Equal(t, "memory://test", s.Path())
}

func TestMemoryStoreSeedIsCopied(t *testing.T) {
	seed := core.Table{
		{Date: core.NewDate(2025, 2, 1), Category: "A"},
		{Date: core.NewDate(2025, 1, 1), Category: "B"},
	}
	s := New("seeded", seed)
	seed[0].Category = "changed"

	table, created, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "B", table[0].Category)
	assert.Equal(t, "A", table[1].Category)
}
