package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"expenses/internal/backup"
	"expenses/internal/chart"
	"expenses/internal/core"
	applog "expenses/internal/log"
	"expenses/internal/report"
	"expenses/internal/sheets"
)

// ExpenseService is the single entry point the presentation shells use.
// It holds no table: callers pass the table they own and get the updated
// one back.
type ExpenseService struct {
	store      sheets.TableStore
	backups    *backup.Manager
	categories core.Categories
	logger     *applog.Logger
}

func NewExpenseService(store sheets.TableStore, categories core.Categories, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{
		store:      store,
		backups:    backup.NewManager(nil),
		categories: categories,
		logger:     applog.FromSlog(logger, applog.ComponentExpense),
	}
}

// WithBackupManager replaces the backup manager, e.g. to pin the clock.
func (s *ExpenseService) WithBackupManager(m *backup.Manager) *ExpenseService {
	s.backups = m
	return s
}

// Categories returns the configured closed category set.
func (s *ExpenseService) Categories() core.Categories {
	return s.categories
}

// StorePath returns the persisted store location.
func (s *ExpenseService) StorePath() string {
	return s.store.Path()
}

// Load reads the full table, creating an empty store when none exists.
func (s *ExpenseService) Load(ctx context.Context) (core.Table, bool, error) {
	table, created, err := s.store.Load(ctx)
	s.logger.Operation(ctx, applog.OpLoad, err,
		applog.FieldStore, s.store.Path(),
		applog.FieldRecords, len(table),
		"created", created)
	if err != nil {
		return nil, false, fmt.Errorf("load expenses: %w", err)
	}
	return table, created, nil
}

// Add validates rec, appends it to table and persists the sorted result.
func (s *ExpenseService) Add(ctx context.Context, table core.Table, rec core.Record) (core.Table, error) {
	if err := rec.Validate(s.categories); err != nil {
		return nil, fmt.Errorf("validate expense: %w", err)
	}
	next, err := s.store.AppendAndSave(ctx, table, rec)
	s.logger.Operation(ctx, applog.OpAppend, err,
		applog.NewFields().WithRecord(rec.Date.String(), rec.Category, rec.Amount.String()).ToSlice()...)
	if err != nil {
		return nil, fmt.Errorf("save expense: %w", err)
	}
	return next, nil
}

// LoadAndAdd reloads the store and appends rec to the fresh table.
func (s *ExpenseService) LoadAndAdd(ctx context.Context, rec core.Record) (core.Table, error) {
	table, _, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return s.Add(ctx, table, rec)
}

// Replace overwrites the store with table, sorted by date.
func (s *ExpenseService) Replace(ctx context.Context, table core.Table) error {
	for i, rec := range table {
		if err := rec.Validate(s.categories); err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
	}
	sorted := table.Clone()
	sorted.SortByDate()
	err := s.store.Save(ctx, sorted)
	s.logger.Operation(ctx, applog.OpSeed, err, applog.FieldStore, s.store.Path(), applog.FieldRecords, len(sorted))
	if err != nil {
		return fmt.Errorf("save expenses: %w", err)
	}
	return nil
}

// Backup copies the store to today's backup file.
func (s *ExpenseService) Backup(ctx context.Context) (string, error) {
	path, err := s.backups.CreateBackup(ctx, s.store.Path())
	s.logger.Operation(ctx, applog.OpBackup, err, applog.FieldStore, s.store.Path(), applog.FieldBackup, path)
	return path, err
}

// Delete removes the store after confirm approves.
func (s *ExpenseService) Delete(ctx context.Context, confirm backup.Confirmer) error {
	err := s.backups.DeleteStore(ctx, s.store.Path(), confirm)
	s.logger.Operation(ctx, applog.OpDelete, err, applog.FieldStore, s.store.Path())
	return err
}

// Monthly loads the table and sums spending per day of the month.
func (s *ExpenseService) Monthly(ctx context.Context, month, year int) ([]core.DayTotal, error) {
	table, _, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return report.MonthlySeries(table, month, year), nil
}

// ByCategory loads the table and sums spending per category.
func (s *ExpenseService) ByCategory(ctx context.Context) ([]core.CategoryTotal, error) {
	table, _, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return report.CategoryTotals(table), nil
}

// Cumulative loads the table and computes the running total.
func (s *ExpenseService) Cumulative(ctx context.Context) ([]core.CumulativePoint, error) {
	table, _, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return report.CumulativeSeries(table), nil
}

// Suggestions returns previously used notes for category.
func (s *ExpenseService) Suggestions(ctx context.Context, category, prefix string, limit int) ([]string, error) {
	table, _, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return report.NoteSuggestions(table, category, prefix, limit), nil
}

// ChartKind names one of the available charts.
type ChartKind string

const (
	ChartMonthly    ChartKind = "monthly"
	ChartCategories ChartKind = "categories"
	ChartCumulative ChartKind = "cumulative"
)

// RenderChart loads the table and draws the requested chart to w. month and
// year are only used by the monthly chart. chart.ErrNoData means there is
// nothing to show.
func (s *ExpenseService) RenderChart(ctx context.Context, w io.Writer, kind ChartKind, month, year int, format chart.Format) error {
	var err error
	switch kind {
	case ChartMonthly:
		var series []core.DayTotal
		if series, err = s.Monthly(ctx, month, year); err == nil {
			err = chart.Monthly(w, series, month, year, format)
		}
	case ChartCategories:
		var totals []core.CategoryTotal
		if totals, err = s.ByCategory(ctx); err == nil {
			err = chart.Categories(w, totals, format)
		}
	case ChartCumulative:
		var points []core.CumulativePoint
		if points, err = s.Cumulative(ctx); err == nil {
			err = chart.Cumulative(w, points, format)
		}
	default:
		err = fmt.Errorf("unknown chart %q", kind)
	}
	args := []any{applog.FieldChart, string(kind)}
	if kind == ChartMonthly {
		args = append(args, applog.FieldYear, year, applog.FieldMonth, month)
	}
	s.logger.Operation(ctx, applog.OpRender, err, args...)
	return err
}
