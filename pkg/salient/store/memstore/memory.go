package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/salient/pkg/salient/internalerr"
	"github.com/cognicore/salient/pkg/salient/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu   sync.RWMutex
	runs map[string]store.Run
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{runs: make(map[string]store.Run)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveRun stores a run, keyed by ID.
func (s *Store) SaveRun(ctx context.Context, r store.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		return fmt.Errorf("%w: run ID required", internalerr.ErrInvalidConfig)
	}
	s.runs[r.ID] = copyRun(r)
	return nil
}

// GetRun returns a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r, ok := s.runs[id]; ok {
		return copyRun(r), nil
	}
	return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
}

// ListRuns returns run summaries, most recent first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]store.RunSummary, 0, len(s.runs))
	for _, r := range s.runs {
		summaries = append(summaries, store.RunSummary{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			DocCount:  r.DocCount,
			Records:   len(r.Records),
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].ID > summaries[j].ID
		}
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

func copyRun(r store.Run) store.Run {
	out := r
	out.Records = append([]store.Record(nil), r.Records...)
	out.Consensus = append([]string(nil), r.Consensus...)
	out.Tables = make([]store.SignalTable, len(r.Tables))
	for i, t := range r.Tables {
		out.Tables[i] = store.SignalTable{
			Signal:  t.Signal,
			Phrases: make([]store.SignalPhrase, len(t.Phrases)),
		}
		for j, p := range t.Phrases {
			p.Members = append([]string(nil), p.Members...)
			out.Tables[i].Phrases[j] = p
		}
	}
	return out
}
