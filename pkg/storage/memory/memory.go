// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/caselight/legalqa-gw/pkg/storage"
)

func init() {
	storage.Providers.Register("memory", func(_ context.Context, _ map[string]string) (storage.MetadataStore, error) {
		return New(), nil
	})
}

// compile-time check
var _ storage.MetadataStore = (*Store)(nil)

// Store is an in-memory metadata store.
type Store struct {
	mu      sync.RWMutex
	indexes map[string]*storage.IndexRecord
	chunks  map[string][]storage.ChunkRecord // keyed by document ID
}

// New creates a new in-memory metadata store.
func New() *Store {
	return &Store{
		indexes: make(map[string]*storage.IndexRecord),
		chunks:  make(map[string][]storage.ChunkRecord),
	}
}

// CreateIndex records a new vector index.
func (s *Store) CreateIndex(_ context.Context, rec *storage.IndexRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.indexes[rec.ID]; exists {
		return fmt.Errorf("index %s already exists", rec.ID)
	}
	cp := *rec
	s.indexes[rec.ID] = &cp
	return nil
}

// GetIndex returns one index record.
func (s *Store) GetIndex(_ context.Context, indexID string) (*storage.IndexRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.indexes[indexID]
	if !exists {
		return nil, fmt.Errorf("index %s: %w", indexID, storage.ErrIndexNotFound)
	}
	cp := *rec
	return &cp, nil
}

// ListIndexes returns all index records sorted by creation time.
func (s *Store) ListIndexes(_ context.Context) ([]*storage.IndexRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*storage.IndexRecord, 0, len(s.indexes))
	for _, rec := range s.indexes {
		cp := *rec
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// DeleteIndex removes an index record.
func (s *Store) DeleteIndex(_ context.Context, indexID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.indexes[indexID]; !exists {
		return fmt.Errorf("index %s: %w", indexID, storage.ErrIndexNotFound)
	}
	delete(s.indexes, indexID)
	return nil
}

// SaveChunks replaces the document's chunk records.
func (s *Store) SaveChunks(_ context.Context, documentID string, chunks []storage.ChunkRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]storage.ChunkRecord, len(chunks))
	copy(cp, chunks)
	s.chunks[documentID] = cp
	return nil
}

// ListChunks returns the document's chunk records in index order.
func (s *Store) ListChunks(_ context.Context, documentID string) ([]storage.ChunkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.chunks[documentID]
	out := make([]storage.ChunkRecord, len(stored))
	copy(out, stored)
	sort.Slice(out, func(i, j int) bool { return out[i].ChunkIndex < out[j].ChunkIndex })
	return out, nil
}

// DeleteChunks removes all chunk records for the document.
func (s *Store) DeleteChunks(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.chunks, documentID)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close(_ context.Context) error {
	return nil
}
