package sheets

import (
	"context"

	"expenses/internal/core"
)

// Ports for the record store backends.
type (
	// TableLoader reads the whole persisted table.
	TableLoader interface {
		// Load returns the persisted table. When the store does not exist yet
		// an empty one is created and created is true.
		Load(ctx context.Context) (table core.Table, created bool, err error)
	}

	// TableWriter persists a mutation of the table.
	TableWriter interface {
		// AppendAndSave adds rec to table, sorts by date, rewrites the whole
		// store and returns the new table. table itself is not modified.
		AppendAndSave(ctx context.Context, table core.Table, rec core.Record) (core.Table, error)
		// Save replaces the persisted store with table as given.
		Save(ctx context.Context, table core.Table) error
	}

	// TableStore is a complete record store bound to one location.
	TableStore interface {
		TableLoader
		TableWriter
		// Path is the location of the persisted store.
		Path() string
	}
)
