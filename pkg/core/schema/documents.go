// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package schema

// Document represents an uploaded legal document
type Document struct {
	ID          string `json:"id"`                                                  // Format: "doc_{uuid}"
	Object      string `json:"object" enums:"document"`                             // Always "document"
	Filename    string `json:"filename"`                                            // Original filename
	Matter      string `json:"matter,omitempty"`                                    // Case or matter label
	ContentType string `json:"content_type"`                                        // MIME type
	Bytes       int64  `json:"bytes"`                                               // Document size in bytes
	Status      string `json:"status" enums:"uploaded,processing,ready,failed"`     // Ingestion status
	CreatedAt   int64  `json:"created_at"`                                          // Unix timestamp
}

// UploadDocumentRequest represents a multipart document upload request
type UploadDocumentRequest struct {
	File        []byte `json:"-"`                // Document content
	Filename    string `json:"-"`                // Original filename
	ContentType string `json:"-"`                // MIME type
	Matter      string `json:"matter,omitempty"` // Optional matter label
}

// ListDocumentsRequest represents a request to list documents
type ListDocumentsRequest struct {
	After  string `json:"after,omitempty"`
	Before string `json:"before,omitempty"`
	Limit  int    `json:"limit,omitempty"`  // 1-100, default 50
	Order  string `json:"order,omitempty"`  // "asc" or "desc", default "desc"
	Matter string `json:"matter,omitempty"` // Filter by matter
}

// ListDocumentsResponse represents a list of documents
type ListDocumentsResponse struct {
	Object  string     `json:"object"`             // Always "list"
	Data    []Document `json:"data"`               // Array of documents
	FirstID string     `json:"first_id,omitempty"` // ID of first item
	LastID  string     `json:"last_id,omitempty"`  // ID of last item
	HasMore bool       `json:"has_more"`           // Whether there are more results
}

// DeleteDocumentResponse represents the response from deleting a document
type DeleteDocumentResponse struct {
	ID      string `json:"id"`                      // Document ID
	Object  string `json:"object" enums:"document"` // Always "document"
	Deleted bool   `json:"deleted"`                 // Always true
}

// DocumentChunk represents one stored segment of an ingested document
type DocumentChunk struct {
	ID           string `json:"id"`                      // Format: "chnk_{index}_{start_offset}"
	DocumentID   string `json:"document_id"`             // Owning document
	Text         string `json:"text"`                    // Chunk text
	Strategy     string `json:"strategy"`                // Segmentation strategy that produced the chunk
	SectionTitle string `json:"section_title,omitempty"` // Section header, if any
	ChunkIndex   int    `json:"chunk_index"`             // Position within the document
	StartOffset  int    `json:"start_offset"`            // Byte offset into extracted text
	EndOffset    int    `json:"end_offset"`              // Byte offset past the chunk
	UnitCount    int    `json:"unit_count"`              // Size in encoding units
}

// ListDocumentChunksResponse represents the chunks of one document
type ListDocumentChunksResponse struct {
	Object string          `json:"object"` // Always "list"
	Data   []DocumentChunk `json:"data"`   // Array of chunks in index order
}
