// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package storage defines the metadata store for vector index records and
// per-document chunk records. Raw document bytes live in docstore and
// embeddings in vectorstore; this layer holds what remains queryable
// without either.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/caselight/legalqa-gw/pkg/provider"
)

// ErrIndexNotFound is returned when a vector index record does not exist.
var ErrIndexNotFound = errors.New("vector index not found")

// Providers is the registry of metadata store implementations.
// Import implementation packages with blank imports to register them:
//
//	import _ "github.com/caselight/legalqa-gw/pkg/storage/memory"
//	import _ "github.com/caselight/legalqa-gw/pkg/storage/postgres"
//	import _ "github.com/caselight/legalqa-gw/pkg/storage/sqlite"
var Providers = provider.NewRegistry[MetadataStore]("metadata_store")

// IndexRecord describes a provisioned vector index.
type IndexRecord struct {
	ID         string
	Name       string
	Dimensions int
	CreatedAt  time.Time
}

// ChunkRecord is the stored form of one document segment. It mirrors the
// segmentation output so chunks can be listed and cited without re-running
// the chunker.
type ChunkRecord struct {
	ID           string
	DocumentID   string
	Text         string
	Strategy     string
	SectionTitle string
	ChunkIndex   int
	StartOffset  int
	EndOffset    int
	UnitCount    int
}

// MetadataStore is the interface for metadata storage backends.
type MetadataStore interface {
	CreateIndex(ctx context.Context, rec *IndexRecord) error
	GetIndex(ctx context.Context, indexID string) (*IndexRecord, error)
	ListIndexes(ctx context.Context) ([]*IndexRecord, error)
	DeleteIndex(ctx context.Context, indexID string) error

	// SaveChunks replaces any existing chunk records for the document.
	SaveChunks(ctx context.Context, documentID string, chunks []ChunkRecord) error
	// ListChunks returns the document's chunk records in index order.
	ListChunks(ctx context.Context, documentID string) ([]ChunkRecord, error)
	DeleteChunks(ctx context.Context, documentID string) error

	Close(ctx context.Context) error
}
