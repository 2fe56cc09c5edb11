// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/caselight/legalqa-gw/pkg/core/schema"
	"github.com/caselight/legalqa-gw/pkg/storage"
)

// handleSearch handles POST /v1/indexes/{id}/search
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	indexID := r.PathValue("id")

	if !h.requireIndex(w, r, indexID) {
		return
	}

	var req schema.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request_error", "Invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		h.writeError(w, http.StatusBadRequest, "invalid_request_error", "query is required")
		return
	}

	results, err := h.qa.Search(r.Context(), indexID, req.Query, req.TopK)
	if err != nil {
		h.logger.Error("Search failed", "index_id", indexID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "server_error", "Search failed: "+err.Error())
		return
	}

	resp := schema.SearchResponse{
		Object: "list",
		Data:   make([]schema.SearchHit, 0, len(results)),
	}
	for _, res := range results {
		resp.Data = append(resp.Data, schema.SearchHit{
			ChunkID:      res.ChunkID,
			DocumentID:   res.DocumentID,
			Text:         res.Content,
			SectionTitle: res.SectionTitle,
			ChunkIndex:   res.ChunkIndex,
			StartOffset:  res.StartOffset,
			Score:        res.Score,
		})
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// handleAsk handles POST /v1/indexes/{id}/ask
func (h *Handler) handleAsk(w http.ResponseWriter, r *http.Request) {
	indexID := r.PathValue("id")

	if !h.requireIndex(w, r, indexID) {
		return
	}

	var req schema.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request_error", "Invalid request body: "+err.Error())
		return
	}
	if req.Question == "" {
		h.writeError(w, http.StatusBadRequest, "invalid_request_error", "question is required")
		return
	}

	answer, err := h.qa.Ask(r.Context(), indexID, req.Question, req.TopK)
	if err != nil {
		h.logger.Error("Question answering failed", "index_id", indexID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "server_error", "Question answering failed: "+err.Error())
		return
	}

	resp := schema.AskResponse{
		Answer:  answer.Text,
		Sources: make([]schema.AnswerSource, 0, len(answer.Sources)),
	}
	for _, src := range answer.Sources {
		resp.Sources = append(resp.Sources, schema.AnswerSource{
			SourceNumber: src.Number,
			DocumentID:   src.DocumentID,
			ChunkID:      src.ChunkID,
			Section:      src.Section,
			TextPreview:  src.TextPreview,
			Score:        src.Score,
		})
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// requireIndex writes a 404 or 500 and returns false when the index does
// not exist or cannot be checked.
func (h *Handler) requireIndex(w http.ResponseWriter, r *http.Request, indexID string) bool {
	if _, err := h.meta.GetIndex(r.Context(), indexID); err != nil {
		if errors.Is(err, storage.ErrIndexNotFound) {
			h.writeError(w, http.StatusNotFound, "not_found_error", "Vector index not found: "+indexID)
			return false
		}
		h.logger.Error("Failed to get index", "index_id", indexID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "server_error", "Failed to get vector index")
		return false
	}
	return true
}
