package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"expenses/internal/chart"
	"expenses/internal/core"
)

const (
	dataDirName    = "data"
	chartDirName   = "charts"
	configFileName = "config.yaml"
)

type Config struct {
	// Location
	BaseDir   string `yaml:"-"`
	StoreName string `yaml:"store_name"`

	// Backend selection: xlsx, sqlite or memory
	Backend string `yaml:"backend"`

	// Closed category set, in menu order
	Categories core.Categories `yaml:"categories"`

	// Form shell
	FormAddr string `yaml:"form_addr"`

	// Charts
	ChartFormat string `yaml:"chart_format"`

	// Cron spec for automatic backups in the form shell; empty disables
	BackupSchedule string `yaml:"backup_schedule"`

	LogLevel string `yaml:"log_level"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults(baseDir string) *Config {
	return &Config{
		BaseDir:     baseDir,
		StoreName:   "Expense_Tracker",
		Backend:     "xlsx",
		Categories:  append(core.Categories(nil), core.DefaultCategories...),
		FormAddr:    "127.0.0.1:8765",
		ChartFormat: "png",
		LogLevel:    "info",
	}
}

// Load builds the configuration: defaults, then <base>/data/config.yaml if
// present, then environment variables.
func Load() (*Config, error) {
	cfg := Defaults(ResolveBaseDir())

	if err := cfg.mergeFile(filepath.Join(cfg.DataDir(), configFileName)); err != nil {
		return nil, err
	}
	cfg.mergeEnv()
	cfg.Categories = cfg.Categories.Normalize()
	return cfg, nil
}

// ResolveBaseDir finds the directory the data folder lives under:
// EXPENSES_BASE_DIR, else the executable's directory, else the working
// directory (binaries built by `go run` live in a temp dir).
func ResolveBaseDir() string {
	if v := strings.TrimSpace(os.Getenv("EXPENSES_BASE_DIR")); v != "" {
		if abs, err := filepath.Abs(v); err == nil {
			return abs
		}
		return v
	}
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		dir := filepath.Dir(exe)
		if !strings.HasPrefix(dir, filepath.Clean(os.TempDir())) {
			return dir
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func (c *Config) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() {
	c.StoreName = getEnv("EXPENSES_STORE_NAME", c.StoreName)
	c.Backend = getEnv("EXPENSES_BACKEND", c.Backend)
	c.FormAddr = getEnv("EXPENSES_FORM_ADDR", c.FormAddr)
	c.ChartFormat = getEnv("EXPENSES_CHART_FORMAT", c.ChartFormat)
	c.BackupSchedule = getEnv("BACKUP_SCHEDULE", c.BackupSchedule)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	if v := getEnv("EXPENSES_CATEGORIES", ""); v != "" {
		c.Categories = core.Categories(strings.Split(v, ","))
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if strings.TrimSpace(c.BaseDir) == "" {
		errors = append(errors, "base directory cannot be empty")
	}

	if c.StoreName == "" {
		errors = append(errors, "store name cannot be empty")
	} else if strings.ContainsAny(c.StoreName, `/\`) {
		errors = append(errors, fmt.Sprintf("invalid store name '%s': must not contain path separators", c.StoreName))
	}

	validBackends := []string{"xlsx", "sqlite", "memory"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.Backend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid backend '%s': must be one of %v", c.Backend, validBackends))
	}

	if len(c.Categories.Normalize()) == 0 {
		errors = append(errors, "at least one category is required")
	}

	if _, port, err := net.SplitHostPort(c.FormAddr); err != nil {
		errors = append(errors, fmt.Sprintf("invalid form address '%s': %v", c.FormAddr, err))
	} else if port == "" {
		errors = append(errors, fmt.Sprintf("invalid form address '%s': missing port", c.FormAddr))
	}

	if _, err := chart.ParseFormat(c.ChartFormat); err != nil {
		errors = append(errors, fmt.Sprintf("invalid chart format '%s': must be png or svg", c.ChartFormat))
	}

	if c.BackupSchedule != "" {
		if _, err := cron.ParseStandard(c.BackupSchedule); err != nil {
			errors = append(errors, fmt.Sprintf("invalid backup schedule '%s': %v", c.BackupSchedule, err))
		}
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// DataDir is <base>/data.
func (c *Config) DataDir() string {
	return filepath.Join(c.BaseDir, dataDirName)
}

// StorePath is the persisted table file for the configured backend.
func (c *Config) StorePath() string {
	ext := ".xlsx"
	if c.Backend == "sqlite" {
		ext = ".db"
	}
	return filepath.Join(c.DataDir(), c.StoreName+ext)
}

// ChartDir is where the prompt shell writes chart images.
func (c *Config) ChartDir() string {
	return filepath.Join(c.DataDir(), chartDirName)
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level '%s': must be debug, info, warn or error", s)
	}
	return level, nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
