package http

import (
	"path/filepath"
	"strings"
)

// sanitizeInput trims whitespace and drops control characters other than
// tab and newlines.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// storeName shows only the file name of a store or backup path.
func storeName(path string) string {
	if strings.Contains(path, "://") {
		return path
	}
	return filepath.Base(path)
}
