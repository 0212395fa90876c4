package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"expenses/internal/core"
	applog "expenses/internal/log"
	ports "expenses/internal/sheets"

	_ "modernc.org/sqlite"
)

// insertBatch bounds the rows per INSERT to stay under SQLite's host
// parameter limit.
const insertBatch = 200

// SQLiteRepository keeps the expense table in a SQLite file. A connection is
// opened per operation so the file can be copied or removed between calls.
type SQLiteRepository struct {
	dbPath string
	logger *applog.Logger
}

var _ ports.TableStore = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) *SQLiteRepository {
	return &SQLiteRepository{dbPath: dbPath, logger: applog.FromSlog(nil, applog.ComponentStorage)}
}

func (r *SQLiteRepository) Path() string {
	return r.dbPath
}

// Load reads every record in stored order. A missing database file is
// created with an empty schema.
func (r *SQLiteRepository) Load(ctx context.Context) (core.Table, bool, error) {
	created := false
	if _, err := os.Stat(r.dbPath); errors.Is(err, fs.ErrNotExist) {
		created = true
	} else if err != nil {
		return nil, false, fmt.Errorf("stat database: %w", err)
	}

	var table core.Table
	err := r.withDB(ctx, func(db *sql.DB) error {
		var err error
		table, err = listRecords(ctx, db)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	if created {
		r.logger.InfoContext(ctx, "Created new expense database", applog.FieldStore, r.dbPath)
	}
	return table, created, nil
}

// AppendAndSave adds rec to table and rewrites the expenses table with the
// sorted result in a single transaction.
func (r *SQLiteRepository) AppendAndSave(ctx context.Context, table core.Table, rec core.Record) (core.Table, error) {
	next := table.Append(rec)
	if err := r.Save(ctx, next); err != nil {
		return nil, err
	}
	r.logger.InfoContext(ctx, "Expense saved to SQLite",
		applog.FieldDate, rec.Date.String(),
		applog.FieldCategory, rec.Category,
		applog.FieldAmount, rec.Amount.String(),
		applog.FieldRecords, len(next))
	return next, nil
}

// Save replaces every stored row with table.
func (r *SQLiteRepository) Save(ctx context.Context, table core.Table) error {
	return r.withDB(ctx, func(db *sql.DB) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback()

		if _, err := sq.Delete("expenses").RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("clear expenses: %w", err)
		}
		for start := 0; start < len(table); start += insertBatch {
			end := min(start+insertBatch, len(table))
			insert := sq.Insert("expenses").Columns("position", "date", "category", "amount", "notes")
			for i, rec := range table[start:end] {
				insert = insert.Values(start+i, rec.Date.String(), rec.Category, rec.Amount.String(), rec.Notes)
			}
			if _, err := insert.RunWith(tx).ExecContext(ctx); err != nil {
				return fmt.Errorf("insert rows %d-%d: %w", start, end-1, err)
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		return nil
	})
}

func (r *SQLiteRepository) withDB(ctx context.Context, fn func(db *sql.DB) error) error {
	if err := os.MkdirAll(filepath.Dir(r.dbPath), 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	if err := RunMigrations(r.dbPath); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", r.dbPath)
	if err != nil {
		return fmt.Errorf("open sqlite database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return fn(db)
}

func listRecords(ctx context.Context, db *sql.DB) (core.Table, error) {
	rows, err := sq.Select("date", "category", "amount", "notes").
		From("expenses").
		OrderBy("position", "id").
		RunWith(db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	table := core.Table{}
	for rows.Next() {
		var date, category, amount, notes string
		if err := rows.Scan(&date, &category, &amount, &notes); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		d, err := core.ParseCanonicalDate(date)
		if err != nil {
			return nil, fmt.Errorf("%w: date %q", core.ErrCorruptStore, date)
		}
		a, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("%w: amount %q", core.ErrCorruptStore, amount)
		}
		table = append(table, core.Record{Date: d, Category: category, Amount: a, Notes: notes})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return table, nil
}
