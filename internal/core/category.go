package core

import "strings"

// DefaultCategories is the closed category set used when none is configured.
var DefaultCategories = Categories{
	"Restaurant", "Toters", "Entertainment", "Groceries", "Snacks",
	"Barber", "Laundry", "Transportation", "Shopping", "Phone",
}

// Categories is an ordered closed set of category labels. Menus number it
// from 1.
type Categories []string

// Select returns the label at the 1-based index.
func (c Categories) Select(index int) (string, error) {
	if index < 1 || index > len(c) {
		return "", ErrInvalidSelection
	}
	return c[index-1], nil
}

// Contains reports whether label is one of the set, compared exactly.
func (c Categories) Contains(label string) bool {
	for _, v := range c {
		if v == label {
			return true
		}
	}
	return false
}

// Normalize trims labels and drops blanks and duplicates, preserving order.
func (c Categories) Normalize() Categories {
	seen := map[string]struct{}{}
	out := make(Categories, 0, len(c))
	for _, v := range c {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
