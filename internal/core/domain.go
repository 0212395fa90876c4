package core

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// CanonicalLayout is the stored form of a date (YYYY/MM/DD).
	CanonicalLayout = "2006/01/02"
	// InputLayout is the form users type a date in (DD/MM/YYYY).
	InputLayout = "2/1/2006"
)

// MaxNotesLength is the longest note, in characters, a spreadsheet cell holds.
const MaxNotesLength = 32767

// Columns is the fixed spreadsheet schema, in order.
var Columns = []string{"Date", "Category", "Amount", "Notes"}

type (
	Date struct {
		time.Time
	}

	// Record is one logged expense.
	Record struct {
		Date     Date
		Category string
		Amount   decimal.Decimal
		Notes    string
	}

	// Table is the ordered set of records held by a store.
	Table []Record
)

var (
	ErrMissingStore     = errors.New("expense store not found")
	ErrCorruptStore     = errors.New("expense store is corrupt")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidSelection = errors.New("invalid selection")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// String returns the canonical YYYY/MM/DD form.
func (d Date) String() string {
	return d.Format(CanonicalLayout)
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// ParseCanonicalDate reads a date in its stored YYYY/MM/DD form.
func ParseCanonicalDate(s string) (Date, error) {
	t, err := time.Parse(CanonicalLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidFormat
	}
	return Date{Time: t}, nil
}

// Validate reports whether the record can be persisted against the given
// category set.
func (r Record) Validate(categories Categories) error {
	if r.Date.IsZero() {
		return errors.New("date cannot be zero")
	}
	if !categories.Contains(r.Category) {
		return ErrInvalidSelection
	}
	if !Storable(r.Amount) {
		return fmt.Errorf("%w: amount %s out of range", ErrInvalidFormat, r.Amount)
	}
	if _, err := ParseNotes(r.Notes); err != nil {
		return err
	}
	return nil
}

// Clone returns a copy that shares no backing array with t.
func (t Table) Clone() Table {
	return slices.Clone(t)
}

// Append returns a new table with rec added at the end and sorted by date.
// t itself is left untouched.
func (t Table) Append(rec Record) Table {
	out := make(Table, 0, len(t)+1)
	out = append(out, t...)
	out = append(out, rec)
	out.SortByDate()
	return out
}

// SortByDate orders the table ascending by date, keeping insertion order
// for records on the same day.
func (t Table) SortByDate() {
	slices.SortStableFunc(t, func(a, b Record) int {
		return a.Date.Compare(b.Date.Time)
	})
}

// IsSorted reports whether t is non-decreasing by date.
func (t Table) IsSorted() bool {
	return slices.IsSortedFunc(t, func(a, b Record) int {
		return a.Date.Compare(b.Date.Time)
	})
}
