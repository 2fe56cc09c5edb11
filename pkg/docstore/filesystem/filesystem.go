// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/caselight/legalqa-gw/pkg/docstore"
)

func init() {
	docstore.Providers.Register("filesystem", func(_ context.Context, params map[string]string) (docstore.DocumentStore, error) {
		return New(params["base_dir"])
	})
}

// compile-time check
var _ docstore.DocumentStore = (*Store)(nil)

// docMetadata is the on-disk representation stored in metadata.json.
type docMetadata struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Matter      string    `json:"matter"`
	ContentType string    `json:"content_type"`
	Bytes       int64     `json:"bytes"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store implements docstore.DocumentStore backed by a local filesystem.
//
// Layout:
//
//	<baseDir>/<doc_id>/content        raw document bytes
//	<baseDir>/<doc_id>/metadata.json  JSON metadata sidecar
type Store struct {
	baseDir string
}

// New creates a filesystem-backed Store, creating baseDir if it does not exist.
func New(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create base dir %s: %w", baseDir, err)
	}
	return &Store{baseDir: baseDir}, nil
}

// CreateDocument writes the document content and metadata to disk atomically.
func (s *Store) CreateDocument(_ context.Context, doc *docstore.Document) error {
	dir := filepath.Join(s.baseDir, doc.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create document dir: %w", err)
	}

	// Write content atomically (temp file + rename)
	contentPath := filepath.Join(dir, "content")
	tmpContent := contentPath + ".tmp"
	if err := os.WriteFile(tmpContent, doc.Content, 0o644); err != nil {
		return fmt.Errorf("write content: %w", err)
	}
	if err := os.Rename(tmpContent, contentPath); err != nil {
		return fmt.Errorf("rename content: %w", err)
	}

	return s.writeMetadata(doc.ID, &docMetadata{
		ID:          doc.ID,
		Filename:    doc.Filename,
		Matter:      doc.Matter,
		ContentType: doc.ContentType,
		Bytes:       doc.Bytes,
		Status:      doc.Status,
		CreatedAt:   doc.CreatedAt,
	})
}

// GetDocument returns document metadata (Content is nil).
func (s *Store) GetDocument(_ context.Context, docID string) (*docstore.Document, error) {
	meta, err := s.readMetadata(docID)
	if err != nil {
		return nil, err
	}
	return metaToDocument(meta), nil
}

// GetDocumentContent returns the raw document bytes.
func (s *Store) GetDocumentContent(_ context.Context, docID string) ([]byte, error) {
	contentPath := filepath.Join(s.baseDir, docID, "content")
	data, err := os.ReadFile(contentPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("document %s: %w", docID, docstore.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("read content: %w", err)
	}
	return data, nil
}

// UpdateDocumentStatus rewrites the metadata sidecar with the new status.
func (s *Store) UpdateDocumentStatus(_ context.Context, docID, status string) error {
	meta, err := s.readMetadata(docID)
	if err != nil {
		return err
	}
	meta.Status = status
	return s.writeMetadata(docID, meta)
}

// DeleteDocument removes the document directory and all its contents.
func (s *Store) DeleteDocument(_ context.Context, docID string) error {
	dir := filepath.Join(s.baseDir, docID)
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("document %s: %w", docID, docstore.ErrDocumentNotFound)
		}
		return fmt.Errorf("stat document dir: %w", err)
	}
	return os.RemoveAll(dir)
}

// ListDocumentsPaginated lists documents sorted by CreatedAt with cursor-based pagination.
func (s *Store) ListDocumentsPaginated(_ context.Context, after, before string, limit int, order, matter string) ([]*docstore.Document, bool, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, false, fmt.Errorf("read base dir: %w", err)
	}

	// Read metadata for each entry
	var allDocs []*docstore.Document
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.readMetadata(entry.Name())
		if err != nil {
			continue // skip corrupt entries
		}
		if matter != "" && meta.Matter != matter {
			continue
		}
		allDocs = append(allDocs, metaToDocument(meta))
	}

	// Sort by CreatedAt
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

// Close is a no-op for the filesystem store.
func (s *Store) Close(_ context.Context) error {
	return nil
}

func (s *Store) writeMetadata(docID string, meta *docMetadata) error {
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	metaPath := filepath.Join(s.baseDir, docID, "metadata.json")
	tmpMeta := metaPath + ".tmp"
	if err := os.WriteFile(tmpMeta, metaBytes, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	if err := os.Rename(tmpMeta, metaPath); err != nil {
		return fmt.Errorf("rename metadata: %w", err)
	}
	return nil
}

// readMetadata reads and unmarshals the metadata.json for a document ID.
func (s *Store) readMetadata(docID string) (*docMetadata, error) {
	metaPath := filepath.Join(s.baseDir, docID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("document %s: %w", docID, docstore.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	var meta docMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	return &meta, nil
}

func metaToDocument(meta *docMetadata) *docstore.Document {
	return &docstore.Document{
		ID:          meta.ID,
		Filename:    meta.Filename,
		Matter:      meta.Matter,
		ContentType: meta.ContentType,
		Bytes:       meta.Bytes,
		Status:      meta.Status,
		CreatedAt:   meta.CreatedAt,
	}
}
