// Package http serves the single-page expense form on a loopback address.
package http

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"expenses/internal/cache"
	applog "expenses/internal/log"
	"expenses/internal/middleware/security"
	"expenses/internal/middleware/trace"
	"expenses/internal/services"
	appweb "expenses/web"
)

// Options tunes the form server.
type Options struct {
	// BackupSchedule is a standard cron spec; empty disables scheduled backups.
	BackupSchedule  string
	ChartCacheSize  int
	ChartCacheTTL   time.Duration
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
	Now             func() time.Time
}

func (o *Options) defaults() {
	if o.ChartCacheSize <= 0 {
		o.ChartCacheSize = 32
	}
	if o.ChartCacheTTL <= 0 {
		o.ChartCacheTTL = 5 * time.Minute
	}
	if o.ShutdownTimeout <= 0 {
		o.ShutdownTimeout = 5 * time.Second
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

type Server struct {
	http.Server
	svc       *services.ExpenseService
	templates *template.Template
	opts      Options
	logger    *applog.Logger

	// mu serialises every operation that touches the store.
	mu       sync.Mutex
	revision uint64

	charts       cache.Cache[cache.Chart]
	cacheManager *cache.Manager

	closed    chan struct{}
	closeOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, svc *services.ExpenseService, opts Options) (*Server, error) {
	opts.defaults()
	logger := applog.FromSlog(opts.Logger, applog.ComponentHTTP)

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	charts := cache.NewChartCache(opts.ChartCacheSize, opts.ChartCacheTTL)
	s := &Server{
		svc:          svc,
		templates:    t,
		opts:         opts,
		logger:       logger,
		charts:       charts,
		cacheManager: cache.NewManager(logger),
		closed:       make(chan struct{}),
	}
	s.cacheManager.Register(charts)

	r := mux.NewRouter()
	r.Use(trace.RequestID)
	r.Use(applog.RequestMiddleware(logger, trace.FromRequest))
	r.Use(security.Headers(security.DefaultHeadersConfig()))
	r.Use(security.SameOrigin)

	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	pages := r.NewRoute().Subrouter()
	pages.Use(security.NoStore)
	pages.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	pages.HandleFunc("/expenses", s.handleCreateExpense).Methods(http.MethodPost)
	pages.HandleFunc("/notes", s.handleNotes).Methods(http.MethodGet)
	pages.HandleFunc("/charts/{kind:monthly|categories|cumulative}", s.handleChart).Methods(http.MethodGet)
	pages.HandleFunc("/backup", s.handleBackup).Methods(http.MethodPost)
	pages.HandleFunc("/delete", s.handleDelete).Methods(http.MethodPost)
	pages.HandleFunc("/shutdown", s.handleShutdown).Methods(http.MethodPost)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Closed is closed once the user presses Exit.
func (s *Server) Closed() <-chan struct{} {
	return s.closed
}

func (s *Server) close() {
	s.closeOnce.Do(func() { close(s.closed) })
}

// Run serves until ctx is done or the user exits, then shuts down
// gracefully. Scheduled backups and cache sweeping run alongside.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Form server listening", "addr", s.Addr, "store", s.svc.StorePath())
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		select {
		case <-ctx.Done():
		case <-s.closed:
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		err := s.Shutdown(shutdownCtx)
		s.logger.Operation(shutdownCtx, applog.OpShutdown, err)
		return err
	})

	g.Go(func() error {
		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			select {
			case <-s.closed:
				cancel()
			case <-runCtx.Done():
			}
		}()
		return s.cacheManager.Run(runCtx, time.Minute)
	})

	if s.opts.BackupSchedule != "" {
		scheduler, err := s.newScheduler()
		if err != nil {
			return err
		}
		g.Go(func() error {
			scheduler.Start()
			select {
			case <-ctx.Done():
			case <-s.closed:
			}
			<-scheduler.Stop().Done()
			return nil
		})
	}

	return g.Wait()
}

func (s *Server) newScheduler() (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(s.opts.BackupSchedule, func() {
		if _, err := s.scheduledBackup(context.Background()); err != nil {
			s.logger.Warn("Scheduled backup skipped", applog.FieldError, err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("backup schedule %q: %w", s.opts.BackupSchedule, err)
	}
	return c, nil
}

func (s *Server) scheduledBackup(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.svc.Backup(ctx)
}

// bump invalidates every cached chart. Callers hold mu.
func (s *Server) bump() {
	s.revision++
}
