// Package memory provides in-memory implementations of the repository
// contracts plus a matching unit of work. It backs service tests and
// keeps the storage engine swappable.
package memory

import (
	"sort"
	"sync"

	"litsearch-be/internal/entity"

	"github.com/google/uuid"
)

// Store is the shared backing state for the in-memory repositories.
// Writes issued through a unit of work stay invisible until Commit,
// mirroring the transactional batch semantics of the SQL
// implementation.
type Store struct {
	mu            sync.RWMutex
	raw           []*entity.RawResult
	processed     []*entity.ProcessedResult
	relationships []*entity.DuplicateRelationship
	sessions      map[uuid.UUID]*entity.ProcessingSession

	// Failure injection for tests.
	FindPageErr error
	CommitErr   error
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*entity.ProcessingSession),
	}
}

// SeedRawResults loads raw results directly into committed state.
func (s *Store) SeedRawResults(results []*entity.RawResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range results {
		cp := *r
		if cp.Id == uuid.Nil {
			cp.Id = uuid.New()
		}
		s.raw = append(s.raw, &cp)
	}
	sort.SliceStable(s.raw, func(i, j int) bool {
		return s.raw[i].Position < s.raw[j].Position
	})
}

// ProcessedResults returns a copy of the committed processed results.
func (s *Store) ProcessedResults() []*entity.ProcessedResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.ProcessedResult, 0, len(s.processed))
	for _, p := range s.processed {
		cp := *p
		out = append(out, &cp)
	}
	return out
}

// Relationships returns a copy of the committed duplicate
// relationships.
func (s *Store) Relationships() []*entity.DuplicateRelationship {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.DuplicateRelationship, 0, len(s.relationships))
	for _, r := range s.relationships {
		cp := *r
		out = append(out, &cp)
	}
	return out
}
