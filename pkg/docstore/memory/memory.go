// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/caselight/legalqa-gw/pkg/docstore"
)

func init() {
	docstore.Providers.Register("memory", func(_ context.Context, _ map[string]string) (docstore.DocumentStore, error) {
		return New(), nil
	})
}

// compile-time check
var _ docstore.DocumentStore = (*Store)(nil)

// Store is an in-memory document store.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*docstore.Document
}

// New creates a new in-memory document store.
func New() *Store {
	return &Store{
		docs: make(map[string]*docstore.Document),
	}
}

// CreateDocument stores a new document.
func (s *Store) CreateDocument(_ context.Context, doc *docstore.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[doc.ID]; exists {
		return fmt.Errorf("document %s already exists", doc.ID)
	}

	cp := *doc
	s.docs[doc.ID] = &cp
	return nil
}

// GetDocument returns document metadata (Content is nil).
func (s *Store) GetDocument(_ context.Context, docID string) (*docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, exists := s.docs[docID]
	if !exists {
		return nil, fmt.Errorf("document %s: %w", docID, docstore.ErrDocumentNotFound)
	}

	// Return a copy without content
	cp := *doc
	cp.Content = nil
	return &cp, nil
}

// GetDocumentContent returns the raw document bytes.
func (s *Store) GetDocumentContent(_ context.Context, docID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, exists := s.docs[docID]
	if !exists {
		return nil, fmt.Errorf("document %s: %w", docID, docstore.ErrDocumentNotFound)
	}

	return doc.Content, nil
}

// UpdateDocumentStatus records a new ingestion status for the document.
func (s *Store) UpdateDocumentStatus(_ context.Context, docID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, exists := s.docs[docID]
	if !exists {
		return fmt.Errorf("document %s: %w", docID, docstore.ErrDocumentNotFound)
	}

	doc.Status = status
	return nil
}

// DeleteDocument removes a document.
func (s *Store) DeleteDocument(_ context.Context, docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[docID]; !exists {
		return fmt.Errorf("document %s: %w", docID, docstore.ErrDocumentNotFound)
	}

	delete(s.docs, docID)
	return nil
}

// ListDocumentsPaginated returns documents with cursor-based pagination sorted by CreatedAt.
func (s *Store) ListDocumentsPaginated(_ context.Context, after, before string, limit int, order, matter string) ([]*docstore.Document, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	// Collect and filter by matter
	allDocs := make([]*docstore.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		if matter != "" && doc.Matter != matter {
			continue
		}
		cp := *doc
		cp.Content = nil
		allDocs = append(allDocs, &cp)
	}

	// Sort by CreatedAt for deterministic ordering
	sort.Slice(allDocs, func(i, j int) bool {
		if order == "desc" {
			return allDocs[i].CreatedAt.After(allDocs[j].CreatedAt)
		}
		return allDocs[i].CreatedAt.Before(allDocs[j].CreatedAt)
	})

	// Apply cursor-based pagination
	var filtered []*docstore.Document
	foundAfter := after == ""

	for _, doc := range allDocs {
		if after != "" && !foundAfter {
			if doc.ID == after {
				foundAfter = true
			}
			continue
		}

		if before != "" && doc.ID == before {
			break
		}

		filtered = append(filtered, doc)

		if len(filtered) >= limit {
			break
		}
	}

	hasMore := len(allDocs) > len(filtered) && len(filtered) == limit

	return filtered, hasMore, nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close(_ context.Context) error {
	return nil
}
