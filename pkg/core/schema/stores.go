// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package schema

// VectorIndex represents a provisioned vector index
type VectorIndex struct {
	ID         string `json:"id"`                          // Format: "idx_{uuid}"
	Object     string `json:"object" enums:"vector_index"` // Always "vector_index"
	Name       string `json:"name"`                        // Human-readable name
	Dimensions int    `json:"dimensions"`                  // Embedding dimensionality
	CreatedAt  int64  `json:"created_at"`                  // Unix timestamp
}

// CreateVectorIndexRequest represents a request to create a vector index
type CreateVectorIndexRequest struct {
	Name       string `json:"name"`                 // Required
	Dimensions int    `json:"dimensions,omitempty"` // Defaults to the embedding config
}

// ListVectorIndexesResponse represents a list of vector indexes
type ListVectorIndexesResponse struct {
	Object string        `json:"object"` // Always "list"
	Data   []VectorIndex `json:"data"`   // Array of indexes
}

// DeleteVectorIndexResponse represents the response from deleting a vector index
type DeleteVectorIndexResponse struct {
	ID      string `json:"id"`                          // Index ID
	Object  string `json:"object" enums:"vector_index"` // Always "vector_index"
	Deleted bool   `json:"deleted"`                     // Always true
}

// IngestRequest represents a request to ingest a document into an index
type IngestRequest struct {
	DocumentID string `json:"document_id"` // Required
}

// IngestResponse reports the outcome of ingesting one document
type IngestResponse struct {
	DocumentID    string `json:"document_id"`    // Ingested document
	IndexID       string `json:"index_id"`       // Target index
	ChunksTotal   int    `json:"chunks_total"`   // Chunks produced by segmentation
	ChunksIndexed int    `json:"chunks_indexed"` // Chunks embedded and inserted
	Status        string `json:"status"`         // Resulting document status
}
