package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/veritas/pkg/veritas/internalerr"
	"github.com/cognicore/veritas/pkg/veritas/preprocess"
	"github.com/cognicore/veritas/pkg/veritas/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu   sync.RWMutex
	ids  *store.IDs
	runs map[ulid.ULID]store.Run
	docs map[ulid.ULID][]store.Doc
	df   map[ulid.ULID]map[string][]int
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		ids:  store.NewIDs(),
		runs: make(map[ulid.ULID]store.Run),
		docs: make(map[ulid.ULID][]store.Doc),
		df:   make(map[ulid.ULID]map[string][]int),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// CreateRun records a new run.
func (s *Store) CreateRun(ctx context.Context, cfg preprocess.Config, mode preprocess.Mode) (store.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	run := store.Run{ID: s.ids.Next(now), Config: cfg, Mode: mode, CreatedAt: now}
	s.runs[run.ID] = run
	s.df[run.ID] = make(map[string][]int)
	return run, nil
}

// GetRun returns a run by ID.
func (s *Store) GetRun(ctx context.Context, id ulid.ULID) (store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return run, nil
}

// AppendDoc adds a document at the end of its run.
func (s *Store) AppendDoc(ctx context.Context, d store.Doc) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[d.RunID]; !ok {
		return 0, fmt.Errorf("run %s: %w", d.RunID, internalerr.ErrNotFound)
	}

	d.Position = len(s.docs[d.RunID])
	s.docs[d.RunID] = append(s.docs[d.RunID], copyDoc(d))
	return d.Position, nil
}

// Docs returns a run's documents in position order.
func (s *Store) Docs(ctx context.Context, runID ulid.ULID, limit int) ([]store.Doc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.docs[runID]
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}

	var out []store.Doc
	for _, d := range docs {
		out = append(out, copyDoc(d))
	}
	return out, nil
}

// AddTermDF adds per-label counts to the run's totals.
func (s *Store) AddTermDF(ctx context.Context, runID ulid.ULID, df map[string][]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals, ok := s.df[runID]
	if !ok {
		return fmt.Errorf("run %s: %w", runID, internalerr.ErrNotFound)
	}
	for term, counts := range df {
		totals[term] = store.MergeDF(totals[term], counts)
	}
	return nil
}

// TermDF returns per-label counts for a term, trimmed of trailing zero
// labels.
func (s *Store) TermDF(ctx context.Context, runID ulid.ULID, term string) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := s.df[runID][term]
	n := len(counts)
	for n > 0 && counts[n-1] == 0 {
		n--
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]int, n)
	copy(out, counts)
	return out, nil
}

func copyDoc(d store.Doc) store.Doc {
	if d.Tokens != nil {
		tokens := make([]string, len(d.Tokens))
		copy(tokens, d.Tokens)
		d.Tokens = tokens
	}
	return d
}
