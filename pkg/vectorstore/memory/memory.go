// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package memory provides an in-memory vector index with brute-force
// cosine similarity search. It is the default backend for single-node
// deployments and tests.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/caselight/legalqa-gw/pkg/vectorstore"
)

func init() {
	vectorstore.Providers.Register("memory", func(_ context.Context, _ map[string]string) (vectorstore.Backend, error) {
		return NewBackend(), nil
	})
}

// compile-time check
var _ vectorstore.Backend = (*Backend)(nil)

type store struct {
	dimensions int
	chunks     map[string]vectorstore.Chunk
}

// Backend implements vectorstore.Backend with in-process storage.
type Backend struct {
	mu     sync.RWMutex
	stores map[string]*store
}

// NewBackend creates an empty in-memory backend.
func NewBackend() *Backend {
	return &Backend{stores: make(map[string]*store)}
}

// CreateStore provisions a new index. Creating an existing store is an error.
func (b *Backend) CreateStore(_ context.Context, storeID string, dimensions int) error {
	if dimensions <= 0 {
		return fmt.Errorf("store %s: dimensions must be positive, got %d", storeID, dimensions)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.stores[storeID]; exists {
		return fmt.Errorf("store %s already exists", storeID)
	}
	b.stores[storeID] = &store{
		dimensions: dimensions,
		chunks:     make(map[string]vectorstore.Chunk),
	}
	return nil
}

// DeleteStore removes the index and all its chunks. Deleting a missing
// store is a no-op, matching the Milvus backend.
func (b *Backend) DeleteStore(_ context.Context, storeID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.stores, storeID)
	return nil
}

// InsertChunks adds embedded chunks. All chunks must belong to the same
// store, and their vectors must match the store's dimensionality.
func (b *Backend) InsertChunks(_ context.Context, chunks []vectorstore.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	st, exists := b.stores[chunks[0].StoreID]
	if !exists {
		return fmt.Errorf("store %s does not exist", chunks[0].StoreID)
	}

	for _, c := range chunks {
		if c.StoreID != chunks[0].StoreID {
			return fmt.Errorf("chunk %s targets store %s, expected %s", c.ChunkID, c.StoreID, chunks[0].StoreID)
		}
		if len(c.Vector) != st.dimensions {
			return fmt.Errorf("chunk %s: vector has %d dimensions, store expects %d", c.ChunkID, len(c.Vector), st.dimensions)
		}
	}

	for _, c := range chunks {
		st.chunks[c.ChunkID] = c
	}
	return nil
}

// DeleteDocumentChunks removes every chunk belonging to the document.
func (b *Backend) DeleteDocumentChunks(_ context.Context, storeID, documentID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	st, exists := b.stores[storeID]
	if !exists {
		return nil
	}

	for id, c := range st.chunks {
		if c.DocumentID == documentID {
			delete(st.chunks, id)
		}
	}
	return nil
}

// Search scores every chunk against the query vector with cosine
// similarity and returns the top-K results in descending score order.
func (b *Backend) Search(_ context.Context, storeID string, queryVector []float32, topK int) ([]vectorstore.SearchResult, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	st, exists := b.stores[storeID]
	if !exists {
		return nil, nil
	}
	if len(queryVector) != st.dimensions {
		return nil, fmt.Errorf("query vector has %d dimensions, store expects %d", len(queryVector), st.dimensions)
	}
	if topK <= 0 {
		topK = 10
	}

	results := make([]vectorstore.SearchResult, 0, len(st.chunks))
	for _, c := range st.chunks {
		results = append(results, vectorstore.SearchResult{
			DocumentID:   c.DocumentID,
			ChunkID:      c.ChunkID,
			Content:      c.Content,
			SectionTitle: c.SectionTitle,
			ChunkIndex:   c.ChunkIndex,
			StartOffset:  c.StartOffset,
			Score:        cosineSimilarity(queryVector, c.Vector),
		})
	}

	// Tie-break on ChunkID so results are deterministic across runs.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ChunkID < results[j].ChunkID
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Close is a no-op for the in-memory backend.
func (b *Backend) Close(_ context.Context) error {
	return nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Returns 0 when either vector has zero magnitude.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
