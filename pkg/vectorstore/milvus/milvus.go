// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package milvus

import (
	"context"
	"fmt"
	"strings"

	milvusclient "github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/caselight/legalqa-gw/pkg/vectorstore"
)

func init() {
	vectorstore.Providers.Register("milvus", func(ctx context.Context, params map[string]string) (vectorstore.Backend, error) {
		return NewBackend(ctx, params["address"])
	})
}

// compile-time check
var _ vectorstore.Backend = (*Backend)(nil)

const (
	fieldChunkID      = "chunk_id"
	fieldDocumentID   = "doc_id"
	fieldContent      = "content"
	fieldSectionTitle = "section_title"
	fieldChunkIndex   = "chunk_index"
	fieldStartOffset  = "start_offset"
	fieldEmbedding    = "embedding"

	maxContentLength = 65535
	maxChunkIDLength = 256
	maxDocIDLength   = 256
	maxTitleLength   = 1024
)

// Backend implements vectorstore.Backend using Milvus.
// One Milvus collection is created per vector index.
type Backend struct {
	client milvusclient.Client
}

// NewBackend connects to Milvus and returns a Backend.
func NewBackend(ctx context.Context, address string) (*Backend, error) {
	c, err := milvusclient.NewClient(ctx, milvusclient.Config{
		Address: address,
	})
	if err != nil {
		return nil, fmt.Errorf("milvus connect %s: %w", address, err)
	}
	return &Backend{client: c}, nil
}

// collectionName derives a Milvus collection name from a store ID.
// Milvus collection names must start with a letter or underscore, which
// the "idx_" prefix satisfies.
func collectionName(storeID string) string {
	return storeID
}

// CreateStore creates a Milvus collection, an HNSW index, and loads it.
func (b *Backend) CreateStore(ctx context.Context, storeID string, dimensions int) error {
	coll := collectionName(storeID)

	schema := entity.NewSchema().
		WithName(coll).
		WithField(entity.NewField().
			WithName(fieldChunkID).
			WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(int64(maxChunkIDLength)).
			WithIsPrimaryKey(true)).
		WithField(entity.NewField().
			WithName(fieldDocumentID).
			WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(int64(maxDocIDLength))).
		WithField(entity.NewField().
			WithName(fieldContent).
			WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(int64(maxContentLength))).
		WithField(entity.NewField().
			WithName(fieldSectionTitle).
			WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(int64(maxTitleLength))).
		WithField(entity.NewField().
			WithName(fieldChunkIndex).
			WithDataType(entity.FieldTypeInt64)).
		WithField(entity.NewField().
			WithName(fieldStartOffset).
			WithDataType(entity.FieldTypeInt64)).
		WithField(entity.NewField().
			WithName(fieldEmbedding).
			WithDataType(entity.FieldTypeFloatVector).
			WithDim(int64(dimensions)))

	if err := b.client.CreateCollection(ctx, schema, 1); err != nil {
		return fmt.Errorf("create collection %s: %w", coll, err)
	}

	idx, err := entity.NewIndexHNSW(entity.COSINE, 16, 200)
	if err != nil {
		return fmt.Errorf("create HNSW index params: %w", err)
	}

	if err := b.client.CreateIndex(ctx, coll, fieldEmbedding, idx, false); err != nil {
		return fmt.Errorf("create index on %s: %w", coll, err)
	}

	if err := b.client.LoadCollection(ctx, coll, false); err != nil {
		return fmt.Errorf("load collection %s: %w", coll, err)
	}

	return nil
}

// DeleteStore drops the Milvus collection for the given vector index.
func (b *Backend) DeleteStore(ctx context.Context, storeID string) error {
	coll := collectionName(storeID)

	exists, err := b.client.HasCollection(ctx, coll)
	if err != nil {
		return fmt.Errorf("check collection %s: %w", coll, err)
	}
	if !exists {
		return nil
	}

	if err := b.client.DropCollection(ctx, coll); err != nil {
		return fmt.Errorf("drop collection %s: %w", coll, err)
	}
	return nil
}

// InsertChunks inserts embedded chunks into the appropriate Milvus collection.
// All chunks must belong to the same vector index.
func (b *Backend) InsertChunks(ctx context.Context, chunks []vectorstore.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	coll := collectionName(chunks[0].StoreID)

	chunkIDs := make([]string, len(chunks))
	docIDs := make([]string, len(chunks))
	contents := make([]string, len(chunks))
	titles := make([]string, len(chunks))
	indexes := make([]int64, len(chunks))
	offsets := make([]int64, len(chunks))
	vectors := make([][]float32, len(chunks))

	for i, c := range chunks {
		chunkIDs[i] = c.ChunkID
		docIDs[i] = c.DocumentID
		content := c.Content
		if len(content) > maxContentLength {
			content = content[:maxContentLength]
		}
		contents[i] = content
		title := c.SectionTitle
		if len(title) > maxTitleLength {
			title = title[:maxTitleLength]
		}
		titles[i] = title
		indexes[i] = int64(c.ChunkIndex)
		offsets[i] = int64(c.StartOffset)
		vectors[i] = c.Vector
	}

	dim := len(vectors[0])
	_, err := b.client.Insert(ctx, coll, "",
		entity.NewColumnVarChar(fieldChunkID, chunkIDs),
		entity.NewColumnVarChar(fieldDocumentID, docIDs),
		entity.NewColumnVarChar(fieldContent, contents),
		entity.NewColumnVarChar(fieldSectionTitle, titles),
		entity.NewColumnInt64(fieldChunkIndex, indexes),
		entity.NewColumnInt64(fieldStartOffset, offsets),
		entity.NewColumnFloatVector(fieldEmbedding, dim, vectors),
	)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", coll, err)
	}

	if err := b.client.Flush(ctx, coll, false); err != nil {
		return fmt.Errorf("flush %s: %w", coll, err)
	}

	return nil
}

// DeleteDocumentChunks removes all chunks for a given document from the index.
func (b *Backend) DeleteDocumentChunks(ctx context.Context, storeID, documentID string) error {
	coll := collectionName(storeID)

	exists, err := b.client.HasCollection(ctx, coll)
	if err != nil {
		return fmt.Errorf("check collection %s: %w", coll, err)
	}
	if !exists {
		return nil
	}

	expr := fmt.Sprintf(`%s == "%s"`, fieldDocumentID, escapeExpr(documentID))
	if err := b.client.Delete(ctx, coll, "", expr); err != nil {
		return fmt.Errorf("delete document chunks from %s: %w", coll, err)
	}
	return nil
}

// Search performs a vector similarity search in the given vector index.
func (b *Backend) Search(ctx context.Context, storeID string, queryVector []float32, topK int) ([]vectorstore.SearchResult, error) {
	coll := collectionName(storeID)

	exists, err := b.client.HasCollection(ctx, coll)
	if err != nil {
		return nil, fmt.Errorf("check collection %s: %w", coll, err)
	}
	if !exists {
		return nil, nil
	}

	if topK <= 0 {
		topK = 10
	}

	sp, err := entity.NewIndexHNSWSearchParam(64)
	if err != nil {
		return nil, fmt.Errorf("create search params: %w", err)
	}

	results, err := b.client.Search(
		ctx,
		coll,
		nil,
		"",
		[]string{fieldChunkID, fieldDocumentID, fieldContent, fieldSectionTitle, fieldChunkIndex, fieldStartOffset},
		[]entity.Vector{entity.FloatVector(queryVector)},
		fieldEmbedding,
		entity.COSINE,
		topK,
		sp,
	)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", coll, err)
	}

	if len(results) == 0 {
		return nil, nil
	}

	sr := results[0]
	if sr.Err != nil {
		return nil, fmt.Errorf("search result error: %w", sr.Err)
	}

	chunkIDCol := sr.Fields.GetColumn(fieldChunkID)
	docIDCol := sr.Fields.GetColumn(fieldDocumentID)
	contentCol := sr.Fields.GetColumn(fieldContent)
	titleCol := sr.Fields.GetColumn(fieldSectionTitle)
	indexCol := sr.Fields.GetColumn(fieldChunkIndex)
	offsetCol := sr.Fields.GetColumn(fieldStartOffset)

	var out []vectorstore.SearchResult
	for i := 0; i < sr.ResultCount; i++ {
		chunkID, _ := chunkIDCol.GetAsString(i)
		docID, _ := docIDCol.GetAsString(i)
		content, _ := contentCol.GetAsString(i)
		title, _ := titleCol.GetAsString(i)
		chunkIndex, _ := indexCol.GetAsInt64(i)
		startOffset, _ := offsetCol.GetAsInt64(i)

		out = append(out, vectorstore.SearchResult{
			DocumentID:   docID,
			ChunkID:      chunkID,
			Content:      content,
			SectionTitle: title,
			ChunkIndex:   int(chunkIndex),
			StartOffset:  int(startOffset),
			Score:        float64(sr.Scores[i]),
		})
	}

	return out, nil
}

// Close releases the Milvus client connection.
func (b *Backend) Close(_ context.Context) error {
	return b.client.Close()
}

// escapeExpr escapes double quotes in a string for Milvus filter expressions.
func escapeExpr(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
