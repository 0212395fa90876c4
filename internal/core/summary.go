package core

import "github.com/shopspring/decimal"

// DayTotal is the amount spent on one day of a month.
type DayTotal struct {
	Day    int
	Amount decimal.Decimal
}

// CategoryTotal represents an amount aggregated by category name.
type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
}

// CumulativePoint is the running total after all records up to Date.
type CumulativePoint struct {
	Date  Date
	Total decimal.Decimal
}
