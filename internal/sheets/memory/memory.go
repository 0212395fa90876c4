package memory

import (
	"context"
	"sync"

	"expenses/internal/core"
	ports "expenses/internal/sheets"
)

// Store keeps the table in process memory only.
type Store struct {
	mu      sync.Mutex
	name    string
	items   core.Table
	created bool
	saves   int
}

var _ ports.TableStore = (*Store)(nil)

func New(name string, seed core.Table) *Store {
	s := &Store{name: name}
	if seed != nil {
		s.items = seed.Clone()
		s.items.SortByDate()
		s.created = true
	}
	return s
}

// Load returns a copy of the stored table. The first call on an unseeded
// store reports creation.
func (s *Store) Load(_ context.Context) (core.Table, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	created := !s.created
	if created {
		s.items = core.Table{}
		s.created = true
	}
	return s.items.Clone(), created, nil
}

// AppendAndSave adds rec to table and replaces the stored table with the result.
func (s *Store) AppendAndSave(ctx context.Context, table core.Table, rec core.Record) (core.Table, error) {
	next := table.Append(rec)
	if err := s.Save(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *Store) Save(_ context.Context, table core.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = table.Clone()
	s.created = true
	s.saves++
	return nil
}

func (s *Store) Path() string {
	return "memory://" + s.name
}

// Saves reports how many times the table was written.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
