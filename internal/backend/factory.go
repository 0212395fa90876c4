package backend

import (
	"context"
	"fmt"
	"log/slog"

	"expenses/internal/sheets/memory"
	"expenses/internal/sheets/xlsx"
	"expenses/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(_ context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case XLSXBackend:
		f.logger.Info("Initialized spreadsheet backend", "path", config.StorePath)
		return &BackendResult{Store: xlsx.New(config.StorePath), Type: config.Type}, nil
	case SQLiteBackend:
		f.logger.Info("Initialized SQLite backend", "db_path", config.StorePath)
		return &BackendResult{Store: storage.NewSQLiteRepository(config.StorePath), Type: config.Type}, nil
	case MemoryBackend:
		name := config.Name
		if name == "" {
			name = "expenses"
		}
		f.logger.Info("Initialized memory backend", "name", name)
		return &BackendResult{Store: memory.New(name, nil), Type: config.Type}, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}
