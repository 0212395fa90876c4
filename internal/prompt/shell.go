// Package prompt implements the numbered-menu terminal shell.
package prompt

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"expenses/internal/backup"
	"expenses/internal/chart"
	"expenses/internal/core"
	applog "expenses/internal/log"
	"expenses/internal/report"
	"expenses/internal/services"
)

// Options configures a Shell.
type Options struct {
	// ChartDir receives chart images; empty disables image output.
	ChartDir    string
	ChartFormat chart.Format
	Logger      *slog.Logger
}

// Shell drives the service from line-oriented input. It owns the in-memory
// table between operations.
type Shell struct {
	svc    *services.ExpenseService
	in     *bufio.Scanner
	out    io.Writer
	opts   Options
	logger *applog.Logger
	table  core.Table

	// stale is set once the store is deleted; the next add reloads first.
	stale bool
}

func New(svc *services.ExpenseService, in io.Reader, out io.Writer, opts Options) *Shell {
	if opts.ChartFormat == "" {
		opts.ChartFormat = chart.PNG
	}
	return &Shell{
		svc:    svc,
		in:     bufio.NewScanner(in),
		out:    out,
		opts:   opts,
		logger: applog.FromSlog(opts.Logger, applog.ComponentPrompt),
	}
}

// Run shows the main menu until the user exits, input ends or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	if err := s.reload(ctx); err != nil {
		return err
	}

	for ctx.Err() == nil {
		s.println("\nWelcome to Expense Tracker")
		s.println("1. Add a New Expense")
		s.println("2. View Visualizations")
		s.println("3. Create a Manual Backup")
		s.println("4. Delete Main Data")
		s.println("5. Exit")

		choice, err := s.ask("Enter your choice (1-5): ")
		if err != nil {
			return endOfInput(err)
		}

		switch choice {
		case "1":
			err = s.addFlow(ctx)
		case "2":
			err = s.visualizeMenu(ctx)
		case "3":
			s.backup(ctx)
		case "4":
			err = s.delete(ctx)
		case "5":
			s.println("Goodbye!")
			return nil
		default:
			s.println("Invalid choice. Please select a valid option.")
		}
		if err != nil {
			return endOfInput(err)
		}
	}
	return nil
}

func (s *Shell) reload(ctx context.Context) error {
	table, created, err := s.svc.Load(ctx)
	if err != nil {
		if errors.Is(err, core.ErrCorruptStore) {
			s.printf("The expense file %s is not a valid expense table.\n", s.svc.StorePath())
		}
		return err
	}
	if created {
		s.printf("No expense tracker file found. Created a new one at %s\n", s.svc.StorePath())
	}
	s.table = table
	s.stale = false
	return nil
}

// refresh reloads the table if the store went away since the last load.
func (s *Shell) refresh(ctx context.Context) error {
	if !s.stale {
		return nil
	}
	return s.reload(ctx)
}

// addFlow collects records until the user says they are done. Each invalid
// answer re-asks only that step.
func (s *Shell) addFlow(ctx context.Context) error {
	s.println("Welcome to the Expense Tracker!")
	for {
		rec, ok, err := s.readRecord()
		if err != nil {
			return err
		}
		if !ok {
			s.println("\nExiting without adding an expense.")
			return nil
		}

		if err := s.save(ctx, rec); err != nil {
			s.printf("Could not save the expense: %v\n", err)
		} else {
			s.println("New expense saved successfully!")
		}

		done, err := s.yesNo("\nAre you done? (Y/N): ")
		if err != nil {
			return err
		}
		if done {
			s.println("\nThanks for using Expense Tracker!")
			return nil
		}
	}
}

func (s *Shell) save(ctx context.Context, rec core.Record) error {
	if err := s.refresh(ctx); err != nil {
		return err
	}
	table, err := s.svc.Add(ctx, s.table, rec)
	if err != nil {
		return err
	}
	s.table = table
	return nil
}

// readRecord returns ok=false when the user typed exit at the date prompt.
func (s *Shell) readRecord() (core.Record, bool, error) {
	var rec core.Record

	for {
		answer, err := s.ask("Enter the date (DD/MM/YYYY) or type 'exit' to quit: ")
		if err != nil {
			return rec, false, err
		}
		if core.IsExit(answer) {
			return rec, false, nil
		}
		if rec.Date, err = core.ParseDate(answer); err == nil {
			break
		}
		s.println("Invalid date format. Please use DD/MM/YYYY.")
	}

	categories := s.svc.Categories()
	s.println("\nSelect a category:")
	for i, c := range categories {
		s.printf("%d. %s\n", i+1, c)
	}
	for {
		answer, err := s.ask("Enter the number corresponding to the category: ")
		if err != nil {
			return rec, false, err
		}
		if rec.Category, err = categories.ParseCategoryIndex(answer); err == nil {
			break
		}
		s.printf("Invalid category. Please enter a number between 1 and %d.\n", len(categories))
	}

	for {
		answer, err := s.ask("Enter the amount spent (USD): ")
		if err != nil {
			return rec, false, err
		}
		if rec.Amount, err = core.ParseAmount(answer); err == nil {
			break
		}
		s.println("Invalid amount. Please enter a number.")
	}

	for {
		answer, err := s.ask("Any notes? (optional): ")
		if err != nil {
			return rec, false, err
		}
		if rec.Notes, err = core.ParseNotes(answer); err == nil {
			break
		}
		s.printf("Notes are too long. Please keep them to at most %d characters.\n", core.MaxNotesLength)
	}
	return rec, true, nil
}

func (s *Shell) visualizeMenu(ctx context.Context) error {
	for {
		s.println("\nWhat would you like to visualize?")
		s.println("1. Monthly Spending")
		s.println("2. Spending per Category")
		s.println("3. Cumulative Spending Over Time")
		s.println("4. Exit")

		choice, err := s.ask("Enter your choice (1/2/3/4): ")
		if err != nil {
			return err
		}
		switch choice {
		case "1":
			month, year, ok, err := s.askMonth()
			if err != nil {
				return err
			}
			if ok {
				s.showMonthly(ctx, month, year)
			}
		case "2":
			s.showCategories(ctx)
		case "3":
			s.showCumulative(ctx)
		case "4":
			s.println("Exiting Visualization.")
			return nil
		default:
			s.println("Invalid choice. Please enter 1, 2, 3, or 4.")
		}
	}
}

func (s *Shell) askMonth() (month, year int, ok bool, err error) {
	m, err := s.ask("Enter the month (1-12): ")
	if err != nil {
		return 0, 0, false, err
	}
	y, err := s.ask("Enter the year (e.g., 2025): ")
	if err != nil {
		return 0, 0, false, err
	}
	month, errM := strconv.Atoi(m)
	year, errY := strconv.Atoi(y)
	if errM != nil || errY != nil {
		s.println("Invalid input. Please enter numeric values.")
		return 0, 0, false, nil
	}
	if month < 1 || month > 12 {
		s.println("Invalid month. Please enter between 1 and 12.")
		return 0, 0, false, nil
	}
	return month, year, true, nil
}

func (s *Shell) showMonthly(ctx context.Context, month, year int) {
	series, err := s.svc.Monthly(ctx, month, year)
	if err != nil {
		s.failure(err)
		return
	}
	if len(series) == 0 {
		s.printf("No expenses found for %02d/%d.\n", month, year)
		return
	}
	s.printf("\nDaily spending for %02d/%d\n", month, year)
	for _, d := range series {
		s.printf("  %2d  %s\n", d.Day, money(d.Amount))
	}
	s.printf("  Total %s\n", money(report.MonthTotal(series)))

	s.writeChart(fmt.Sprintf("monthly-%04d-%02d", year, month), func(w io.Writer) error {
		return chart.Monthly(w, series, month, year, s.opts.ChartFormat)
	})
}

func (s *Shell) showCategories(ctx context.Context) {
	totals, err := s.svc.ByCategory(ctx)
	if err != nil {
		s.failure(err)
		return
	}
	if len(totals) == 0 {
		s.println("No spending data available.")
		return
	}
	s.println("\nSpending per category")
	for _, c := range totals {
		s.printf("  %-16s %s\n", c.Category, money(c.Amount))
	}
	s.printf("  %-16s %s\n", "Total", money(report.CategoriesTotal(totals)))

	s.writeChart("categories", func(w io.Writer) error {
		return chart.Categories(w, totals, s.opts.ChartFormat)
	})
}

func (s *Shell) showCumulative(ctx context.Context) {
	points, err := s.svc.Cumulative(ctx)
	if err != nil {
		s.failure(err)
		return
	}
	if len(points) == 0 {
		s.println("No spending data available.")
		return
	}
	s.println("\nCumulative spending")
	for _, p := range points {
		s.printf("  %s  %s\n", p.Date, money(p.Total))
	}

	s.writeChart("cumulative", func(w io.Writer) error {
		return chart.Cumulative(w, points, s.opts.ChartFormat)
	})
}

// writeChart renders into memory first so a failed render leaves no file.
func (s *Shell) writeChart(name string, render func(io.Writer) error) {
	if s.opts.ChartDir == "" {
		return
	}
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		s.logger.Warn("Chart render failed", applog.FieldChart, name, applog.FieldError, err)
		return
	}
	if err := os.MkdirAll(s.opts.ChartDir, 0o755); err != nil {
		s.failure(err)
		return
	}
	path := filepath.Join(s.opts.ChartDir, name+"."+string(s.opts.ChartFormat))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		s.failure(err)
		return
	}
	s.printf("Chart saved to %s\n", path)
}

func (s *Shell) backup(ctx context.Context) {
	path, err := s.svc.Backup(ctx)
	switch {
	case errors.Is(err, core.ErrMissingStore):
		s.println("No expense tracker file found to backup.")
	case err != nil:
		s.failure(err)
	default:
		s.printf("Manual backup created: %s\n", filepath.Base(path))
	}
}

func (s *Shell) delete(ctx context.Context) error {
	var inputErr error
	confirm := backup.ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
		ok, err := s.yesNo(prompt + " (Y/N): ")
		inputErr = err
		return ok, err
	})

	err := s.svc.Delete(ctx, confirm)
	switch {
	case inputErr != nil:
		return inputErr
	case errors.Is(err, core.ErrMissingStore):
		s.println("No expense tracker file found to delete.")
	case errors.Is(err, backup.ErrDeletionCancelled):
		s.println("Deletion canceled. File is safe.")
	case err != nil:
		s.failure(err)
	default:
		s.table = nil
		s.stale = true
		s.printf("Deleted main expense tracker file: %s\n", s.svc.StorePath())
	}
	return nil
}

// yesNo re-asks until the answer is Y or N.
func (s *Shell) yesNo(question string) (bool, error) {
	for {
		answer, err := s.ask(question)
		if err != nil {
			return false, err
		}
		switch strings.ToUpper(answer) {
		case "Y":
			return true, nil
		case "N":
			return false, nil
		}
		s.println("Invalid input. Please enter 'Y' or 'N'.")
	}
}

func (s *Shell) ask(question string) (string, error) {
	fmt.Fprint(s.out, question)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Shell) failure(err error) {
	s.logger.Error("Operation failed", applog.FieldError, err)
	s.printf("Something went wrong: %v\n", err)
}

func (s *Shell) println(line string) {
	fmt.Fprintln(s.out, line)
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// endOfInput turns a closed input stream into a clean exit.
func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
