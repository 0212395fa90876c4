// Package seed generates random expense tables for demos and manual testing.
package seed

import (
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"expenses/internal/core"
)

const (
	DefaultRows = 200

	minAmount = 5
	maxAmount = 200
)

var (
	DefaultFrom = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	DefaultTo   = time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)
)

// Generate returns n records dated uniformly between from and to inclusive,
// each with a random category and an amount between 5 and 200 rounded to
// cents. Notes are left empty. The result is sorted by date.
func Generate(rng *rand.Rand, n int, from, to time.Time, categories core.Categories) core.Table {
	if n <= 0 || len(categories) == 0 {
		return core.Table{}
	}
	from = day(from)
	to = day(to)
	if to.Before(from) {
		from, to = to, from
	}
	span := int(to.Sub(from).Hours()/24) + 1

	table := make(core.Table, 0, n)
	for range n {
		d := from.AddDate(0, 0, rng.IntN(span))
		amount := decimal.NewFromFloat(minAmount + rng.Float64()*(maxAmount-minAmount)).Round(2)
		table = append(table, core.Record{
			Date:     core.NewDate(d.Year(), int(d.Month()), d.Day()),
			Category: categories[rng.IntN(len(categories))],
			Amount:   amount,
		})
	}
	table.SortByDate()
	return table
}

// NewRand returns a deterministic source for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
