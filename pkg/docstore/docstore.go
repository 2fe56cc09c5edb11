// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package docstore defines the pluggable storage interface for uploaded
// legal documents. Backends keep the raw document bytes plus a small
// metadata record; extracted text and chunks live elsewhere.
package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/caselight/legalqa-gw/pkg/provider"
)

// ErrDocumentNotFound is returned when a document does not exist.
var ErrDocumentNotFound = errors.New("document not found")

// Document ingestion statuses.
const (
	StatusUploaded   = "uploaded"
	StatusProcessing = "processing"
	StatusReady      = "ready"
	StatusFailed     = "failed"
)

// Providers is the registry of document store backend implementations.
// Import implementation packages with blank imports to register them:
//
//	import _ "github.com/caselight/legalqa-gw/pkg/docstore/memory"
//	import _ "github.com/caselight/legalqa-gw/pkg/docstore/filesystem"
//	import _ "github.com/caselight/legalqa-gw/pkg/docstore/s3"
var Providers = provider.NewRegistry[DocumentStore]("document_store")

// Document represents a stored legal document with metadata and content.
type Document struct {
	ID          string
	Filename    string
	Matter      string // case or matter label used for filtering
	ContentType string
	Bytes       int64
	Content     []byte // populated for CreateDocument input; nil for GetDocument output
	Status      string
	CreatedAt   time.Time
}

// DocumentStore defines the interface for pluggable document storage backends.
type DocumentStore interface {
	CreateDocument(ctx context.Context, doc *Document) error
	GetDocument(ctx context.Context, docID string) (*Document, error)
	GetDocumentContent(ctx context.Context, docID string) ([]byte, error)
	UpdateDocumentStatus(ctx context.Context, docID, status string) error
	DeleteDocument(ctx context.Context, docID string) error
	ListDocumentsPaginated(ctx context.Context, after, before string, limit int, order, matter string) ([]*Document, bool, error)
	Close(ctx context.Context) error
}
