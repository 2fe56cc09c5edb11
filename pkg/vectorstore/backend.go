// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package vectorstore

import (
	"context"

	"github.com/caselight/legalqa-gw/pkg/provider"
)

// Providers is the registry of vector index backend implementations.
// Import implementation packages with blank imports to register them:
//
//	import _ "github.com/caselight/legalqa-gw/pkg/vectorstore/memory"
//	import _ "github.com/caselight/legalqa-gw/pkg/vectorstore/milvus"
var Providers = provider.NewRegistry[Backend]("vector_index")

// Chunk represents a segmented piece of a document with its embedding,
// ready for insertion.
type Chunk struct {
	ChunkID      string
	DocumentID   string
	StoreID      string
	Content      string
	SectionTitle string
	ChunkIndex   int
	StartOffset  int
	Vector       []float32
}

// SearchResult represents a single result from a vector similarity search.
type SearchResult struct {
	DocumentID   string
	ChunkID      string
	Content      string
	SectionTitle string
	ChunkIndex   int
	StartOffset  int
	Score        float64
}

// Backend is the interface for vector index storage backends.
type Backend interface {
	// CreateStore provisions a new vector index (e.g. a Milvus collection).
	CreateStore(ctx context.Context, storeID string, dimensions int) error

	// DeleteStore removes a vector index and all its data.
	DeleteStore(ctx context.Context, storeID string) error

	// InsertChunks inserts embedded chunks into a vector index.
	InsertChunks(ctx context.Context, chunks []Chunk) error

	// DeleteDocumentChunks removes all chunks for a given document from a
	// vector index.
	DeleteDocumentChunks(ctx context.Context, storeID, documentID string) error

	// Search performs a vector similarity search and returns the top-K results.
	Search(ctx context.Context, storeID string, queryVector []float32, topK int) ([]SearchResult, error)

	// Close releases any resources held by the backend.
	Close(ctx context.Context) error
}
