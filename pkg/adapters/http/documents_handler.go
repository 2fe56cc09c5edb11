// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/caselight/legalqa-gw/pkg/core/schema"
	"github.com/caselight/legalqa-gw/pkg/docstore"
)

const maxDocumentSize = 512 * 1024 * 1024 // 512 MB

// handleUploadDocument handles POST /v1/documents
func (h *Handler) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxDocumentSize); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request_error", "Failed to parse multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request_error", "Missing required 'file' field")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "server_error", "Failed to read uploaded document")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	doc := &docstore.Document{
		ID:          generateID("doc_"),
		Filename:    header.Filename,
		Matter:      r.FormValue("matter"),
		ContentType: contentType,
		Bytes:       int64(len(content)),
		Content:     content,
		Status:      docstore.StatusUploaded,
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.docs.CreateDocument(r.Context(), doc); err != nil {
		h.logger.Error("Failed to store document", "error", err)
		h.writeError(w, http.StatusInternalServerError, "server_error", "Failed to store document")
		return
	}

	h.logger.Info("Document uploaded",
		"document_id", doc.ID,
		"filename", doc.Filename,
		"bytes", doc.Bytes)

	h.writeJSON(w, http.StatusOK, toSchemaDocument(doc))
}

// handleListDocuments handles GET /v1/documents
func (h *Handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 50
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			h.writeError(w, http.StatusBadRequest, "invalid_request_error", "limit must be an integer between 1 and 100")
			return
		}
		limit = n
	}

	order := q.Get("order")
	if order == "" {
		order = "desc"
	}
	if order != "asc" && order != "desc" {
		h.writeError(w, http.StatusBadRequest, "invalid_request_error", "order must be 'asc' or 'desc'")
		return
	}

	docs, hasMore, err := h.docs.ListDocumentsPaginated(r.Context(), q.Get("after"), q.Get("before"), limit, order, q.Get("matter"))
	if err != nil {
		h.logger.Error("Failed to list documents", "error", err)
		h.writeError(w, http.StatusInternalServerError, "server_error", "Failed to list documents")
		return
	}

	resp := schema.ListDocumentsResponse{
		Object:  "list",
		Data:    make([]schema.Document, 0, len(docs)),
		HasMore: hasMore,
	}
	for _, doc := range docs {
		resp.Data = append(resp.Data, toSchemaDocument(doc))
	}
	if len(resp.Data) > 0 {
		resp.FirstID = resp.Data[0].ID
		resp.LastID = resp.Data[len(resp.Data)-1].ID
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// handleGetDocument handles GET /v1/documents/{id}
func (h *Handler) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	docID := r.PathValue("id")

	doc, err := h.docs.GetDocument(r.Context(), docID)
	if err != nil {
		if errors.Is(err, docstore.ErrDocumentNotFound) {
			h.writeError(w, http.StatusNotFound, "not_found_error", "Document not found: "+docID)
			return
		}
		h.logger.Error("Failed to get document", "document_id", docID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "server_error", "Failed to get document")
		return
	}

	h.writeJSON(w, http.StatusOK, toSchemaDocument(doc))
}

// handleGetDocumentContent handles GET /v1/documents/{id}/content
func (h *Handler) handleGetDocumentContent(w http.ResponseWriter, r *http.Request) {
	docID := r.PathValue("id")

	doc, err := h.docs.GetDocument(r.Context(), docID)
	if err != nil {
		if errors.Is(err, docstore.ErrDocumentNotFound) {
			h.writeError(w, http.StatusNotFound, "not_found_error", "Document not found: "+docID)
			return
		}
		h.logger.Error("Failed to get document", "document_id", docID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "server_error", "Failed to get document")
		return
	}

	content, err := h.docs.GetDocumentContent(r.Context(), docID)
	if err != nil {
		h.logger.Error("Failed to get document content", "document_id", docID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "server_error", "Failed to get document content")
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

// handleListDocumentChunks handles GET /v1/documents/{id}/chunks
func (h *Handler) handleListDocumentChunks(w http.ResponseWriter, r *http.Request) {
	docID := r.PathValue("id")

	if _, err := h.docs.GetDocument(r.Context(), docID); err != nil {
		if errors.Is(err, docstore.ErrDocumentNotFound) {
			h.writeError(w, http.StatusNotFound, "not_found_error", "Document not found: "+docID)
			return
		}
		h.logger.Error("Failed to get document", "document_id", docID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "server_error", "Failed to get document")
		return
	}

	records, err := h.meta.ListChunks(r.Context(), docID)
	if err != nil {
		h.logger.Error("Failed to list chunks", "document_id", docID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "server_error", "Failed to list document chunks")
		return
	}

	resp := schema.ListDocumentChunksResponse{
		Object: "list",
		Data:   make([]schema.DocumentChunk, 0, len(records)),
	}
	for _, rec := range records {
		resp.Data = append(resp.Data, schema.DocumentChunk{
			ID:           rec.ID,
			DocumentID:   rec.DocumentID,
			Text:         rec.Text,
			Strategy:     rec.Strategy,
			SectionTitle: rec.SectionTitle,
			ChunkIndex:   rec.ChunkIndex,
			StartOffset:  rec.StartOffset,
			EndOffset:    rec.EndOffset,
			UnitCount:    rec.UnitCount,
		})
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// handleDeleteDocument handles DELETE /v1/documents/{id}. Removes the
// document's chunks from every vector index before dropping the stored
// content and chunk records.
func (h *Handler) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := r.PathValue("id")

	if _, err := h.docs.GetDocument(r.Context(), docID); err != nil {
		if errors.Is(err, docstore.ErrDocumentNotFound) {
			h.writeError(w, http.StatusNotFound, "not_found_error", "Document not found: "+docID)
			return
		}
		h.logger.Error("Failed to get document", "document_id", docID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "server_error", "Failed to get document")
		return
	}

	indexes, err := h.meta.ListIndexes(r.Context())
	if err != nil {
		h.logger.Error("Failed to list indexes", "error", err)
		h.writeError(w, http.StatusInternalServerError, "server_error", "Failed to delete document")
		return
	}
	for _, idx := range indexes {
		if err := h.backend.DeleteDocumentChunks(r.Context(), idx.ID, docID); err != nil {
			h.logger.Error("Failed to remove document from index",
				"document_id", docID,
				"index_id", idx.ID,
				"error", err)
			h.writeError(w, http.StatusInternalServerError, "server_error", "Failed to remove document from index")
			return
		}
	}

	if err := h.meta.DeleteChunks(r.Context(), docID); err != nil {
		h.logger.Error("Failed to delete chunk records", "document_id", docID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "server_error", "Failed to delete document")
		return
	}

	if err := h.docs.DeleteDocument(r.Context(), docID); err != nil {
		h.logger.Error("Failed to delete document", "document_id", docID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "server_error", "Failed to delete document")
		return
	}

	h.logger.Info("Document deleted", "document_id", docID)

	h.writeJSON(w, http.StatusOK, schema.DeleteDocumentResponse{
		ID:      docID,
		Object:  "document",
		Deleted: true,
	})
}

func toSchemaDocument(doc *docstore.Document) schema.Document {
	return schema.Document{
		ID:          doc.ID,
		Object:      "document",
		Filename:    doc.Filename,
		Matter:      doc.Matter,
		ContentType: doc.ContentType,
		Bytes:       doc.Bytes,
		Status:      doc.Status,
		CreatedAt:   doc.CreatedAt.Unix(),
	}
}
