// Package backup copies and removes the persisted expense store.
//
// A store at data/Expense_Tracker.xlsx has at most one backup next to it,
// named data/Expense_Tracker_backup_YYYY-MM-DD.xlsx after the day it was
// taken. Deleting the store always goes through a Confirmer.
package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"expenses/internal/core"
	applog "expenses/internal/log"
)

// DayLayout is the date format embedded in backup file names.
const DayLayout = "2006-01-02"

var (
	ErrConfirmationRequired = errors.New("deletion requires a confirmation step")
	ErrDeletionCancelled    = errors.New("deletion cancelled")
)

// Confirmer asks the user to approve an irreversible action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a plain function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Manager performs backup and delete operations on store files.
type Manager struct {
	now    func() time.Time
	logger *applog.Logger
}

// NewManager returns a Manager using clock for today's date; nil means
// time.Now.
func NewManager(clock func() time.Time) *Manager {
	if clock == nil {
		clock = time.Now
	}
	return &Manager{now: clock, logger: applog.FromSlog(nil, applog.ComponentBackup)}
}

// Name returns the backup file name for the store at path on day.
func Name(path string, day time.Time) string {
	stem, ext := split(path)
	return fmt.Sprintf("%s_backup_%s%s", stem, day.Format(DayLayout), ext)
}

// Pattern returns the glob matching every backup of the store at path.
func Pattern(path string) string {
	stem, ext := split(path)
	return filepath.Join(filepath.Dir(path), escapeGlob(stem)+"_backup_*"+escapeGlob(ext))
}

// Backups lists existing backup files of the store at path.
func Backups(path string) ([]string, error) {
	matches, err := filepath.Glob(Pattern(path))
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	return matches, nil
}

// CreateBackup replaces any previous backup of the store at path with a
// fresh copy named after today's date and returns its path.
func (m *Manager) CreateBackup(ctx context.Context, path string) (string, error) {
	if err := requireStore(path); err != nil {
		return "", err
	}

	old, err := Backups(path)
	if err != nil {
		return "", err
	}
	for _, p := range old {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("remove old backup %s: %w", filepath.Base(p), err)
		}
	}

	now := m.now()
	target := filepath.Join(filepath.Dir(path), Name(path, now))
	if err := copyFile(path, target); err != nil {
		return "", err
	}

	m.logger.InfoContext(ctx, "Backup created",
		applog.FieldStore, path,
		applog.FieldBackup, target,
		"removed", len(old),
		"created_at", now.Format(time.DateTime))
	return target, nil
}

// DeleteStore removes the store at path once confirm approves it.
func (m *Manager) DeleteStore(ctx context.Context, path string, confirm Confirmer) error {
	if err := requireStore(path); err != nil {
		return err
	}
	if confirm == nil {
		return ErrConfirmationRequired
	}

	ok, err := confirm.Confirm(ctx, fmt.Sprintf("Are you sure you want to delete the main expense file %s?", filepath.Base(path)))
	if err != nil {
		return fmt.Errorf("confirm deletion: %w", err)
	}
	if !ok {
		return ErrDeletionCancelled
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	m.logger.WarnContext(ctx, "Expense store deleted", applog.FieldStore, path)
	return nil
}

func requireStore(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", core.ErrMissingStore, path)
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", dst, cerr)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	return out.Sync()
}

func split(path string) (stem, ext string) {
	base := filepath.Base(path)
	ext = filepath.Ext(base)
	return strings.TrimSuffix(base, ext), ext
}

func escapeGlob(s string) string {
	r := strings.NewReplacer(`*`, `\*`, `?`, `\?`, `[`, `\[`)
	return r.Replace(s)
}
