// Package corpus owns the learned-document state shared by the ingestion
// and query pipelines. A Store replaces the corpus wholesale on every
// successful ingestion, so concurrent readers observe either the complete
// old document or the complete new one — never a mix.
package corpus

import (
	"context"
	"sync"

	"docsage/internal/rag"
)

// Store persists and retrieves the single learned corpus.
// Implementations must guarantee atomic whole-corpus replacement and be
// safe for concurrent use.
type Store interface {
	// Put replaces the current corpus with c.
	Put(ctx context.Context, c rag.Corpus) error

	// Get returns the current corpus, or the zero Corpus if no document
	// has been learned yet.
	Get(ctx context.Context) (rag.Corpus, error)
}

// MemoryStore keeps the corpus in process memory for the lifetime of the
// service. The whole value is swapped under a write lock, so Get never
// observes a torn corpus.
type MemoryStore struct {
	// mu guards current.
	mu sync.RWMutex

	// current is the last committed corpus. Chunk slices are never mutated
	// after commit, so handing the value out by copy is safe.
	current rag.Corpus
}

// NewMemoryStore returns an empty in-memory corpus store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Put replaces the stored corpus with c.
func (s *MemoryStore) Put(_ context.Context, c rag.Corpus) error {
	s.mu.Lock()
	s.current = c
	s.mu.Unlock()
	return nil
}

// Get returns the last committed corpus.
func (s *MemoryStore) Get(_ context.Context) (rag.Corpus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, nil
}
