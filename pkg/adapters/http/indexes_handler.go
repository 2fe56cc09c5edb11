// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/caselight/legalqa-gw/pkg/core/schema"
	"github.com/caselight/legalqa-gw/pkg/docstore"
	"github.com/caselight/legalqa-gw/pkg/storage"
)

// handleCreateIndex handles POST /v1/indexes
func (h *Handler) handleCreateIndex(w http.ResponseWriter, r *http.Request) {
	var req schema.CreateVectorIndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request_error", "Invalid request body: "+err.Error())
		return
	}

	if req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "invalid_request_error", "name is required")
		return
	}

	dims := req.Dimensions
	if dims == 0 {
		dims = h.defaultDims
	}
	if dims <= 0 {
		h.writeError(w, http.StatusBadRequest, "invalid_request_error", "dimensions must be positive")
		return
	}

	rec := storage.IndexRecord{
		ID:         generateID("idx_"),
		Name:       req.Name,
		Dimensions: dims,
		CreatedAt:  time.Now().UTC(),
	}

	if err := h.backend.CreateStore(r.Context(), rec.ID, dims); err != nil {
		h.logger.Error("Failed to create vector index", "index_id", rec.ID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "server_error", "Failed to create vector index")
		return
	}

	if err := h.meta.CreateIndex(r.Context(), &rec); err != nil {
		h.logger.Error("Failed to record vector index", "index_id", rec.ID, "error", err)
		h.backend.DeleteStore(r.Context(), rec.ID)
		h.writeError(w, http.StatusInternalServerError, "server_error", "Failed to create vector index")
		return
	}

	h.logger.Info("Vector index created",
		"index_id", rec.ID,
		"name", rec.Name,
		"dimensions", rec.Dimensions)

	h.writeJSON(w, http.StatusOK, toSchemaIndex(rec))
}

// handleListIndexes handles GET /v1/indexes
func (h *Handler) handleListIndexes(w http.ResponseWriter, r *http.Request) {
	indexes, err := h.meta.ListIndexes(r.Context())
	if err != nil {
		h.logger.Error("Failed to list indexes", "error", err)
		h.writeError(w, http.StatusInternalServerError, "server_error", "Failed to list vector indexes")
		return
	}

	resp := schema.ListVectorIndexesResponse{
		Object: "list",
		Data:   make([]schema.VectorIndex, 0, len(indexes)),
	}
	for _, rec := range indexes {
		resp.Data = append(resp.Data, toSchemaIndex(*rec))
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// handleGetIndex handles GET /v1/indexes/{id}
func (h *Handler) handleGetIndex(w http.ResponseWriter, r *http.Request) {
	indexID := r.PathValue("id")

	rec, err := h.meta.GetIndex(r.Context(), indexID)
	if err != nil {
		if errors.Is(err, storage.ErrIndexNotFound) {
			h.writeError(w, http.StatusNotFound, "not_found_error", "Vector index not found: "+indexID)
			return
		}
		h.logger.Error("Failed to get index", "index_id", indexID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "server_error", "Failed to get vector index")
		return
	}

	h.writeJSON(w, http.StatusOK, toSchemaIndex(*rec))
}

// handleDeleteIndex handles DELETE /v1/indexes/{id}
func (h *Handler) handleDeleteIndex(w http.ResponseWriter, r *http.Request) {
	indexID := r.PathValue("id")

	if !h.requireIndex(w, r, indexID) {
		return
	}

	if err := h.backend.DeleteStore(r.Context(), indexID); err != nil {
		h.logger.Error("Failed to delete vector index", "index_id", indexID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "server_error", "Failed to delete vector index")
		return
	}

	if err := h.meta.DeleteIndex(r.Context(), indexID); err != nil && !errors.Is(err, storage.ErrIndexNotFound) {
		h.logger.Error("Failed to delete index record", "index_id", indexID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "server_error", "Failed to delete vector index")
		return
	}

	h.logger.Info("Vector index deleted", "index_id", indexID)

	h.writeJSON(w, http.StatusOK, schema.DeleteVectorIndexResponse{
		ID:      indexID,
		Object:  "vector_index",
		Deleted: true,
	})
}

// handleIngestDocument handles POST /v1/indexes/{id}/documents
func (h *Handler) handleIngestDocument(w http.ResponseWriter, r *http.Request) {
	indexID := r.PathValue("id")

	if !h.requireIndex(w, r, indexID) {
		return
	}

	var req schema.IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request_error", "Invalid request body: "+err.Error())
		return
	}
	if req.DocumentID == "" {
		h.writeError(w, http.StatusBadRequest, "invalid_request_error", "document_id is required")
		return
	}

	result, err := h.ingestion.IngestDocument(r.Context(), indexID, req.DocumentID)
	if err != nil {
		if errors.Is(err, docstore.ErrDocumentNotFound) {
			h.writeError(w, http.StatusNotFound, "not_found_error", "Document not found: "+req.DocumentID)
			return
		}
		h.logger.Error("Ingestion failed",
			"index_id", indexID,
			"document_id", req.DocumentID,
			"error", err)
		h.writeError(w, http.StatusInternalServerError, "server_error", "Failed to ingest document: "+err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, schema.IngestResponse{
		DocumentID:    result.DocumentID,
		IndexID:       result.IndexID,
		ChunksTotal:   result.ChunksTotal,
		ChunksIndexed: result.ChunksIndexed,
		Status:        result.Status,
	})
}

func toSchemaIndex(rec storage.IndexRecord) schema.VectorIndex {
	return schema.VectorIndex{
		ID:         rec.ID,
		Object:     "vector_index",
		Name:       rec.Name,
		Dimensions: rec.Dimensions,
		CreatedAt:  rec.CreatedAt.Unix(),
	}
}
