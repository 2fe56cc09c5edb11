// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package http implements the gateway's HTTP adapter: document upload and
// lifecycle, vector index management, ingestion, search, and QA.
package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/caselight/legalqa-gw/pkg/core/services"
	"github.com/caselight/legalqa-gw/pkg/docstore"
	"github.com/caselight/legalqa-gw/pkg/observability/logging"
	"github.com/caselight/legalqa-gw/pkg/storage"
	"github.com/caselight/legalqa-gw/pkg/vectorstore"
)

// Handler implements the HTTP adapter
type Handler struct {
	logger      *logging.Logger
	mux         *http.ServeMux
	docs        docstore.DocumentStore
	meta        storage.MetadataStore
	backend     vectorstore.Backend
	ingestion   *services.IngestionService
	qa          *services.QAService
	defaultDims int
}

// New creates a new HTTP handler
func New(
	logger *logging.Logger,
	docs docstore.DocumentStore,
	meta storage.MetadataStore,
	backend vectorstore.Backend,
	ingestion *services.IngestionService,
	qa *services.QAService,
	defaultDims int,
) *Handler {
	h := &Handler{
		logger:      logger,
		mux:         http.NewServeMux(),
		docs:        docs,
		meta:        meta,
		backend:     backend,
		ingestion:   ingestion,
		qa:          qa,
		defaultDims: defaultDims,
	}

	// Register routes
	h.mux.HandleFunc("GET /health", h.handleHealth)

	// Documents API
	h.mux.HandleFunc("POST /v1/documents", h.handleUploadDocument)
	h.mux.HandleFunc("GET /v1/documents", h.handleListDocuments)
	h.mux.HandleFunc("GET /v1/documents/{id}", h.handleGetDocument)
	h.mux.HandleFunc("GET /v1/documents/{id}/content", h.handleGetDocumentContent)
	h.mux.HandleFunc("GET /v1/documents/{id}/chunks", h.handleListDocumentChunks)
	h.mux.HandleFunc("DELETE /v1/documents/{id}", h.handleDeleteDocument)

	// Vector Indexes API
	h.mux.HandleFunc("POST /v1/indexes", h.handleCreateIndex)
	h.mux.HandleFunc("GET /v1/indexes", h.handleListIndexes)
	h.mux.HandleFunc("GET /v1/indexes/{id}", h.handleGetIndex)
	h.mux.HandleFunc("DELETE /v1/indexes/{id}", h.handleDeleteIndex)

	// Ingestion + QA
	h.mux.HandleFunc("POST /v1/indexes/{id}/documents", h.handleIngestDocument)
	h.mux.HandleFunc("POST /v1/indexes/{id}/search", h.handleSearch)
	h.mux.HandleFunc("POST /v1/indexes/{id}/ask", h.handleAsk)

	return h
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Request",
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr)

	h.mux.ServeHTTP(w, r)
}

// handleHealth handles health check requests
func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	})
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, status int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"type":    errType,
			"message": message,
		},
	})
}

// writeJSON writes a JSON response with the given status
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// generateID generates a unique ID with a prefix
func generateID(prefix string) string {
	b := make([]byte, 16)
	rand.Read(b)
	return prefix + hex.EncodeToString(b)
}
