package backend

import (
	"context"

	"expenses/internal/sheets"
)

// BackendResult contains the store bound to its configured location
type BackendResult struct {
	Store sheets.TableStore
	Type  BackendType
}

// Factory creates stores based on configuration
type Factory interface {
	// CreateBackend creates a store instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	// Location of the persisted table (xlsx and sqlite)
	StorePath string

	// Memory backend specific
	Name string
}

// BackendType represents the type of backend
type BackendType string

const (
	XLSXBackend   BackendType = "xlsx"
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case XLSXBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
