// Package xlsx stores the expense table as a spreadsheet file.
//
// The file holds one sheet with a header row (Date, Category, Amount,
// Notes) followed by one row per record. Every save rewrites the whole file.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"expenses/internal/core"
	applog "expenses/internal/log"
	ports "expenses/internal/sheets"
)

// DefaultSheet is the sheet name used for newly created stores.
const DefaultSheet = "Sheet1"

// Store is a spreadsheet-file record store.
type Store struct {
	path   string
	logger *applog.Logger
}

// Ensure interface conformance
var _ ports.TableStore = (*Store)(nil)

// New returns a store bound to path. Nothing is read until Load.
func New(path string) *Store {
	return &Store{path: path, logger: applog.FromSlog(nil, applog.ComponentStorage)}
}

// Path returns the spreadsheet location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the spreadsheet. A missing file is replaced by an empty table
// which is written out immediately.
func (s *Store) Load(ctx context.Context) (core.Table, bool, error) {
	f, err := excelize.OpenFile(s.path, excelize.Options{RawCellValue: true})
	if errors.Is(err, fs.ErrNotExist) {
		table := core.Table{}
		if err := s.Save(ctx, table); err != nil {
			return nil, false, fmt.Errorf("create store: %w", err)
		}
		s.logger.InfoContext(ctx, "Created new expense store", applog.FieldStore, s.path)
		return table, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, false, fmt.Errorf("%w: no sheets in %s", core.ErrCorruptStore, s.path)
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, false, fmt.Errorf("read rows: %w", err)
	}
	table, err := parseRows(rows)
	if err != nil {
		return nil, false, err
	}

	s.logger.DebugContext(ctx, "Loaded expense store", applog.FieldStore, s.path, applog.FieldRecords, len(table))
	return table, false, nil
}

// AppendAndSave adds rec, re-sorts and rewrites the spreadsheet.
func (s *Store) AppendAndSave(ctx context.Context, table core.Table, rec core.Record) (core.Table, error) {
	next := table.Append(rec)
	if err := s.Save(ctx, next); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Expense saved to spreadsheet",
		applog.FieldDate, rec.Date.String(),
		applog.FieldCategory, rec.Category,
		applog.FieldAmount, rec.Amount.String(),
		applog.FieldRecords, len(next))
	return next, nil
}

// Save writes table to the spreadsheet, replacing any previous content.
func (s *Store) Save(_ context.Context, table core.Table) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(core.Columns))
	for i, c := range core.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(DefaultSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range table {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		if !core.Storable(r.Amount) {
			return fmt.Errorf("row %d: %w: amount %s out of range", i+2, core.ErrInvalidFormat, r.Amount)
		}
		if utf8.RuneCountInString(r.Notes) > core.MaxNotesLength {
			return fmt.Errorf("row %d: %w: notes longer than %d characters", i+2, core.ErrInvalidFormat, core.MaxNotesLength)
		}
		amount := r.Amount.InexactFloat64()
		row := []interface{}{r.Date.String(), r.Category, amount, r.Notes}
		if err := f.SetSheetRow(DefaultSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("save %s: %w", s.path, err)
	}
	return nil
}

func parseRows(rows [][]string) (core.Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: missing header row", core.ErrCorruptStore)
	}
	header := rows[0]
	if len(header) < len(core.Columns) {
		return nil, fmt.Errorf("%w: unexpected header %v", core.ErrCorruptStore, header)
	}
	for i, want := range core.Columns {
		if strings.TrimSpace(header[i]) != want {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", core.ErrCorruptStore, i+1, header[i], want)
		}
	}

	table := make(core.Table, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}
		r, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", core.ErrCorruptStore, i+1, err)
		}
		table = append(table, r)
	}
	return table, nil
}

func parseRow(row []string) (core.Record, error) {
	date, err := core.ParseCanonicalDate(safeGet(row, 0))
	if err != nil {
		return core.Record{}, fmt.Errorf("date %q", safeGet(row, 0))
	}
	amount := decimal.Zero
	if v := strings.TrimSpace(safeGet(row, 2)); v != "" {
		amount, err = decimal.NewFromString(v)
		if err != nil {
			return core.Record{}, fmt.Errorf("amount %q", v)
		}
	}
	return core.Record{
		Date:     date,
		Category: strings.TrimSpace(safeGet(row, 1)),
		Amount:   amount,
		Notes:    safeGet(row, 3),
	}, nil
}

func safeGet(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
