// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package services coordinates the ingestion and question-answering
// pipelines across the document store, chunker, embedding client,
// vector index, and metadata store.
package services

import (
	"context"
	"fmt"

	"github.com/caselight/legalqa-gw/pkg/chunker"
	"github.com/caselight/legalqa-gw/pkg/core/api"
	"github.com/caselight/legalqa-gw/pkg/docstore"
	"github.com/caselight/legalqa-gw/pkg/docstore/extractor"
	"github.com/caselight/legalqa-gw/pkg/observability/logging"
	"github.com/caselight/legalqa-gw/pkg/storage"
	"github.com/caselight/legalqa-gw/pkg/vectorstore"
)

// IngestResult reports the outcome of ingesting one document.
type IngestResult struct {
	DocumentID    string
	IndexID       string
	ChunksTotal   int
	ChunksIndexed int
	Status        string
}

// IngestionService turns uploaded documents into indexed, searchable chunks.
type IngestionService struct {
	docs      docstore.DocumentStore
	meta      storage.MetadataStore
	segmenter *chunker.DocumentChunker
	embedder  api.EmbeddingClient
	backend   vectorstore.Backend
	batchSize int
	logger    *logging.Logger
}

// NewIngestionService creates an IngestionService.
func NewIngestionService(
	docs docstore.DocumentStore,
	meta storage.MetadataStore,
	segmenter *chunker.DocumentChunker,
	embedder api.EmbeddingClient,
	backend vectorstore.Backend,
	batchSize int,
	logger *logging.Logger,
) (*IngestionService, error) {
	if docs == nil || meta == nil || segmenter == nil || embedder == nil || backend == nil {
		return nil, fmt.Errorf("ingestion service: all dependencies are required")
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &IngestionService{
		docs:      docs,
		meta:      meta,
		segmenter: segmenter,
		embedder:  embedder,
		backend:   backend,
		batchSize: batchSize,
		logger:    logger,
	}, nil
}

// IngestDocument reads a document, extracts its text, segments it, embeds
// the chunks, and inserts them into the vector index. Chunk records are
// persisted for all chunks; chunks whose embedding failed are dropped from
// the index with a warning. The document status tracks the outcome.
func (s *IngestionService) IngestDocument(ctx context.Context, indexID, documentID string) (*IngestResult, error) {
	doc, err := s.docs.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", documentID, err)
	}

	if err := s.docs.UpdateDocumentStatus(ctx, documentID, docstore.StatusProcessing); err != nil {
		return nil, fmt.Errorf("mark document %s processing: %w", documentID, err)
	}

	result, err := s.ingest(ctx, indexID, doc)
	if err != nil {
		if statusErr := s.docs.UpdateDocumentStatus(ctx, documentID, docstore.StatusFailed); statusErr != nil {
			s.logger.Warn("failed to mark document failed", "document_id", documentID, "error", statusErr)
		}
		return nil, err
	}

	if err := s.docs.UpdateDocumentStatus(ctx, documentID, docstore.StatusReady); err != nil {
		return nil, fmt.Errorf("mark document %s ready: %w", documentID, err)
	}
	result.Status = docstore.StatusReady
	return result, nil
}

func (s *IngestionService) ingest(ctx context.Context, indexID string, doc *docstore.Document) (*IngestResult, error) {
	content, err := s.docs.GetDocumentContent(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", doc.ID, err)
	}

	text, err := extractor.ExtractText(content, doc.Filename)
	if err != nil {
		return nil, fmt.Errorf("extract text from %s: %w", doc.Filename, err)
	}

	chunks := s.segmenter.SmartChunk(text, map[string]string{
		"document_id": doc.ID,
		"filename":    doc.Filename,
	})

	result := &IngestResult{DocumentID: doc.ID, IndexID: indexID, ChunksTotal: len(chunks)}
	if len(chunks) == 0 {
		s.logger.Info("document produced no chunks", "document_id", doc.ID)
		return result, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := api.EmbedInBatches(ctx, s.embedder, texts, s.batchSize, s.logger)
	if err != nil {
		return nil, fmt.Errorf("embed chunks for document %s: %w", doc.ID, err)
	}

	// Drop chunks whose embedding failed; their records are still saved.
	vsChunks := make([]vectorstore.Chunk, 0, len(chunks))
	for i, c := range chunks {
		if vectors[i] == nil {
			s.logger.Warn("dropping chunk with failed embedding",
				"document_id", doc.ID, "chunk_id", c.ChunkID)
			continue
		}
		vsChunks = append(vsChunks, vectorstore.Chunk{
			ChunkID:      fmt.Sprintf("%s_%s", doc.ID, c.ChunkID),
			DocumentID:   doc.ID,
			StoreID:      indexID,
			Content:      c.Text,
			SectionTitle: c.SectionTitle,
			ChunkIndex:   c.ChunkIndex,
			StartOffset:  c.StartOffset,
			Vector:       vectors[i],
		})
	}

	if len(vsChunks) > 0 {
		if err := s.backend.InsertChunks(ctx, vsChunks); err != nil {
			return nil, fmt.Errorf("insert chunks for document %s: %w", doc.ID, err)
		}
	}
	result.ChunksIndexed = len(vsChunks)

	records := make([]storage.ChunkRecord, len(chunks))
	for i, c := range chunks {
		records[i] = storage.ChunkRecord{
			ID:           c.ChunkID,
			DocumentID:   doc.ID,
			Text:         c.Text,
			Strategy:     string(c.Strategy),
			SectionTitle: c.SectionTitle,
			ChunkIndex:   c.ChunkIndex,
			StartOffset:  c.StartOffset,
			EndOffset:    c.EndOffset,
			UnitCount:    c.UnitCount,
		}
	}
	if err := s.meta.SaveChunks(ctx, doc.ID, records); err != nil {
		return nil, fmt.Errorf("save chunk records for document %s: %w", doc.ID, err)
	}

	s.logger.Info("document ingested",
		"document_id", doc.ID, "index_id", indexID,
		"chunks_total", result.ChunksTotal, "chunks_indexed", result.ChunksIndexed)

	return result, nil
}

// RemoveDocument deletes a document and everything derived from it: its
// vector index entries, chunk records, and stored bytes.
func (s *IngestionService) RemoveDocument(ctx context.Context, indexID, documentID string) error {
	if err := s.backend.DeleteDocumentChunks(ctx, indexID, documentID); err != nil {
		return fmt.Errorf("delete index chunks for %s: %w", documentID, err)
	}
	if err := s.meta.DeleteChunks(ctx, documentID); err != nil {
		return fmt.Errorf("delete chunk records for %s: %w", documentID, err)
	}
	if err := s.docs.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete document %s: %w", documentID, err)
	}
	return nil
}
