// Package core provides the expense record model and input validation.
//
// This file contains the parsers for user-entered dates and amounts and the
// helper that assembles a record from raw prompt answers.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// ParseDate accepts a date typed as DD/MM/YYYY and returns it as a Date.
//
// Day and month may be written with one or two digits; the year must have
// four. Dates that do not exist on the calendar are rejected.
//
// Examples:
//
//	ParseDate("15/06/2025") -> 2025/06/15, nil
//	ParseDate("31/02/2025") -> ErrInvalidFormat
//	ParseDate("2025-06-15") -> ErrInvalidFormat
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, "/")
	if len(parts) != 3 || len(parts[2]) != 4 {
		return Date{}, ErrInvalidFormat
	}
	t, err := time.Parse(InputLayout, s)
	if err != nil {
		return Date{}, ErrInvalidFormat
	}
	return Date{Time: t}, nil
}

// ParseAmount converts the user's amount to a decimal.
//
// Any finite number is accepted, including zero and negative values.
// Numbers beyond the float64 range cannot be stored in a spreadsheet cell
// and are rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidFormat
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !Storable(d) {
		return decimal.Zero, ErrInvalidFormat
	}
	return d, nil
}

// Storable reports whether d fits in a spreadsheet number cell.
func Storable(d decimal.Decimal) bool {
	return !math.IsInf(d.InexactFloat64(), 0)
}

// ParseNotes accepts any text up to MaxNotesLength characters.
func ParseNotes(s string) (string, error) {
	if utf8.RuneCountInString(s) > MaxNotesLength {
		return "", fmt.Errorf("%w: notes longer than %d characters", ErrInvalidFormat, MaxNotesLength)
	}
	return s, nil
}

// ParseCategoryIndex reads a 1-based menu choice and resolves it.
func (c Categories) ParseCategoryIndex(s string) (string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return "", ErrInvalidSelection
	}
	return c.Select(n)
}

// IsExit reports whether the input is the sentinel that aborts entry.
func IsExit(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "exit")
}

// NewRecord validates every raw field and assembles a Record.
func NewRecord(categories Categories, dateInput string, categoryIndex int, amountInput, notes string) (Record, error) {
	date, err := ParseDate(dateInput)
	if err != nil {
		return Record{}, fmt.Errorf("date %q: %w", dateInput, err)
	}
	category, err := categories.Select(categoryIndex)
	if err != nil {
		return Record{}, fmt.Errorf("category %d: %w", categoryIndex, err)
	}
	amount, err := ParseAmount(amountInput)
	if err != nil {
		return Record{}, fmt.Errorf("amount %q: %w", amountInput, err)
	}
	if notes, err = ParseNotes(notes); err != nil {
		return Record{}, err
	}
	return Record{Date: date, Category: category, Amount: amount, Notes: notes}, nil
}
