// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package schema

// SearchRequest represents a semantic search over a vector index
type SearchRequest struct {
	Query string `json:"query"`           // Required
	TopK  int    `json:"top_k,omitempty"` // Defaults to the answer config
}

// SearchHit represents one retrieved chunk
type SearchHit struct {
	ChunkID      string  `json:"chunk_id"`
	DocumentID   string  `json:"document_id"`
	Text         string  `json:"text"`
	SectionTitle string  `json:"section_title,omitempty"`
	ChunkIndex   int     `json:"chunk_index"`
	StartOffset  int     `json:"start_offset"`
	Score        float64 `json:"score"` // Cosine similarity, higher is better
}

// SearchResponse represents an ordered list of search hits
type SearchResponse struct {
	Object string      `json:"object"` // Always "list"
	Data   []SearchHit `json:"data"`   // Hits in descending score order
}

// AskRequest represents a question against a vector index
type AskRequest struct {
	Question string `json:"question"`        // Required
	TopK     int    `json:"top_k,omitempty"` // Defaults to the answer config
}

// AnswerSource cites one chunk that grounded the answer
type AnswerSource struct {
	SourceNumber int     `json:"source_number"` // 1-based position in the context
	DocumentID   string  `json:"document_id"`
	ChunkID      string  `json:"chunk_id"`
	Section      string  `json:"section,omitempty"`
	TextPreview  string  `json:"text_preview"`
	Score        float64 `json:"score"`
}

// AskResponse represents a grounded answer with its sources
type AskResponse struct {
	Answer  string         `json:"answer"`
	Sources []AnswerSource `json:"sources"`
}
