package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"expenses/internal/backup"
	"expenses/internal/cache"
	"expenses/internal/chart"
	"expenses/internal/core"
	applog "expenses/internal/log"
	"expenses/internal/services"
)

const suggestionLimit = 8

type noticeKind string

const (
	noticeSuccess noticeKind = "success"
	noticeError   noticeKind = "error"
	noticeInfo    noticeKind = "info"
)

type notice struct {
	Kind    noticeKind
	Message string
}

type expenseForm struct {
	Date     string
	Category string
	Amount   string
	Notes    string
}

type pageData struct {
	Categories []string
	Form       expenseForm
	Notice     *notice
	Month      int
	Year       int
	Months     []int
	StoreName  string
	Closed     bool
}

func (s *Server) page(n *notice, form expenseForm) pageData {
	now := s.opts.Now()
	if form.Date == "" {
		form.Date = now.Format(core.InputLayout)
	}
	months := make([]int, 12)
	for i := range months {
		months[i] = i + 1
	}
	return pageData{
		Categories: s.svc.Categories(),
		Form:       form,
		Notice:     n,
		Month:      int(now.Month()),
		Year:       now.Year(),
		Months:     months,
		StoreName:  storeName(s.svc.StorePath()),
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		applog.FromContext(r.Context()).Error("Template render failed", applog.FieldError, err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, s.page(nil, expenseForm{}))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":    "ok",
		"timestamp": s.opts.Now().Format(time.RFC3339),
	})
}

// handleCreateExpense validates the form field by field so the notice names
// the first offending input, then appends and saves.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, s.page(&notice{noticeError, "Could not read the form."}, expenseForm{}))
		return
	}
	form := expenseForm{
		Date:     strings.TrimSpace(r.PostFormValue("date")),
		Category: strings.TrimSpace(r.PostFormValue("category")),
		Amount:   strings.TrimSpace(r.PostFormValue("amount")),
		Notes:    sanitizeInput(r.PostFormValue("notes")),
	}

	rec, msg := s.parseExpense(form)
	if msg != "" {
		s.render(w, r, http.StatusUnprocessableEntity, s.page(&notice{noticeError, msg}, form))
		return
	}

	s.mu.Lock()
	_, err := s.svc.LoadAndAdd(r.Context(), rec)
	if err == nil {
		s.bump()
	}
	s.mu.Unlock()

	if err != nil {
		s.render(w, r, http.StatusInternalServerError, s.page(failure(err), form))
		return
	}
	ok := &notice{noticeSuccess, fmt.Sprintf("Saved %s %s on %s.", rec.Category, rec.Amount.StringFixed(2), rec.Date)}
	s.render(w, r, http.StatusOK, s.page(ok, expenseForm{Category: form.Category}))
}

func (s *Server) parseExpense(form expenseForm) (core.Record, string) {
	date, err := core.ParseDate(form.Date)
	if err != nil {
		return core.Record{}, "Invalid date format. Please use DD/MM/YYYY."
	}
	if !s.svc.Categories().Contains(form.Category) {
		return core.Record{}, "Please choose a category from the list."
	}
	amount, err := core.ParseAmount(form.Amount)
	if err != nil {
		return core.Record{}, "Invalid amount. Please enter a number."
	}
	notes, err := core.ParseNotes(form.Notes)
	if err != nil {
		return core.Record{}, fmt.Sprintf("Notes are too long. Please keep them to at most %d characters.", core.MaxNotesLength)
	}
	return core.Record{Date: date, Category: form.Category, Amount: amount, Notes: notes}, ""
}

func (s *Server) handleNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := strings.TrimSpace(q.Get("category"))

	s.mu.Lock()
	notes, err := s.svc.Suggestions(r.Context(), category, q.Get("q"), suggestionLimit)
	s.mu.Unlock()

	if err != nil {
		applog.FromContext(r.Context()).Warn("Suggestions unavailable", applog.FieldError, err)
		notes = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(notes)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	kind := services.ChartKind(mux.Vars(r)["kind"])
	month, year := 0, 0
	if kind == services.ChartMonthly {
		var msg string
		if month, year, msg = s.parseYearMonth(r); msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
	}

	s.mu.Lock()
	key := cache.ChartKey(string(kind), month, year, s.revision)
	cached, hit := s.charts.Get(key)
	var err error
	if !hit {
		var buf bytes.Buffer
		if err = s.svc.RenderChart(r.Context(), &buf, kind, month, year, chart.SVG); err == nil {
			cached = cache.Chart{ContentType: chart.SVG.ContentType(), Body: buf.Bytes()}
			s.charts.Set(key, cached)
		}
	}
	s.mu.Unlock()

	switch {
	case errors.Is(err, chart.ErrNoData) && kind == services.ChartMonthly:
		http.Error(w, fmt.Sprintf("No expenses found for %02d/%d.", month, year), http.StatusNotFound)
		return
	case errors.Is(err, chart.ErrNoData):
		http.Error(w, "No spending data available.", http.StatusNotFound)
		return
	case err != nil:
		applog.FromContext(r.Context()).Error("Chart failed", applog.FieldChart, kind, applog.FieldError, err)
		http.Error(w, "Could not draw the chart.", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", cached.ContentType)
	_, _ = w.Write(cached.Body)
}

// parseYearMonth reads month and year, defaulting to the current month.
func (s *Server) parseYearMonth(r *http.Request) (month, year int, msg string) {
	now := s.opts.Now()
	month, year = int(now.Month()), now.Year()
	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, "Invalid input. Please enter numeric values."
		}
		month = m
	}
	if v := strings.TrimSpace(q.Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, "Invalid input. Please enter numeric values."
		}
		year = y
	}
	if month < 1 || month > 12 {
		return 0, 0, "Invalid month. Please enter between 1 and 12."
	}
	return month, year, ""
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	path, err := s.svc.Backup(r.Context())
	s.mu.Unlock()

	switch {
	case errors.Is(err, core.ErrMissingStore):
		s.render(w, r, http.StatusNotFound, s.page(&notice{noticeError, "No expense tracker file found to backup."}, expenseForm{}))
	case err != nil:
		s.render(w, r, http.StatusInternalServerError, s.page(failure(err), expenseForm{}))
	default:
		msg := fmt.Sprintf("Manual backup created: %s", storeName(path))
		s.render(w, r, http.StatusOK, s.page(&notice{noticeSuccess, msg}, expenseForm{}))
	}
}

// handleDelete treats the confirm checkbox as the Y/N answer.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	confirmed := r.PostFormValue("confirm") == "yes"
	confirm := backup.ConfirmFunc(func(context.Context, string) (bool, error) {
		return confirmed, nil
	})

	s.mu.Lock()
	err := s.svc.Delete(r.Context(), confirm)
	if err == nil {
		s.bump()
		s.charts.Purge()
	}
	s.mu.Unlock()

	switch {
	case errors.Is(err, core.ErrMissingStore):
		s.render(w, r, http.StatusNotFound, s.page(&notice{noticeError, "No expense tracker file found to delete."}, expenseForm{}))
	case errors.Is(err, backup.ErrDeletionCancelled):
		s.render(w, r, http.StatusBadRequest, s.page(&notice{noticeInfo, "Deletion canceled. Tick the confirmation box to delete the main data file."}, expenseForm{}))
	case err != nil:
		s.render(w, r, http.StatusInternalServerError, s.page(failure(err), expenseForm{}))
	default:
		msg := fmt.Sprintf("Deleted main expense tracker file: %s", storeName(s.svc.StorePath()))
		s.render(w, r, http.StatusOK, s.page(&notice{noticeSuccess, msg}, expenseForm{}))
	}
}

func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	data := s.page(&notice{noticeInfo, "Goodbye! You can close this window."}, expenseForm{})
	data.Closed = true
	s.render(w, r, http.StatusOK, data)
	s.close()
}

func failure(err error) *notice {
	return &notice{noticeError, "Something went wrong: " + err.Error()}
}
