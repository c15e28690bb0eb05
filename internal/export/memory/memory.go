// Package memory is the in-process LedgerWriter used by tests and local
// runs without Sheets credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"financas/internal/export"
)

type Store struct {
	mu    sync.Mutex
	rows  []export.Row
	fail  error
}

func New() *Store {
	return &Store{}
}

// FailWith makes every subsequent Append return err. Pass nil to heal.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

// Append stores the row and returns a synthetic reference.
func (s *Store) Append(_ context.Context, row export.Row) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return "", s.fail
	}
	s.rows = append(s.rows, row)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (s *Store) Rows() []export.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]export.Row(nil), s.rows...)
}

var _ export.LedgerWriter = (*Store)(nil)
