// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/caselight/legalqa-gw/pkg/chunker"
	"github.com/caselight/legalqa-gw/pkg/core/api"
	"github.com/caselight/legalqa-gw/pkg/core/services"
	"github.com/caselight/legalqa-gw/pkg/docstore"
	docmem "github.com/caselight/legalqa-gw/pkg/docstore/memory"
	"github.com/caselight/legalqa-gw/pkg/observability/logging"
	storagemem "github.com/caselight/legalqa-gw/pkg/storage/memory"
	vecmem "github.com/caselight/legalqa-gw/pkg/vectorstore/memory"
)

const testAgreement = `SECTION 1. DEFINITIONS

"Services" means the consulting services described in Exhibit A. "Effective Date" means the date this Agreement is signed by both parties.

SECTION 2. TERMINATION

Either party may terminate this Agreement upon thirty days written notice to the other party. Termination does not affect accrued payment obligations.

SECTION 3. GOVERNING LAW

This Agreement shall be governed by the laws of the State of Delaware without regard to conflict of law principles.
`

type fixture struct {
	docs      *docmem.Store
	meta      *storagemem.Store
	backend   *vecmem.Backend
	embedder  *api.MockEmbeddingClient
	ingestion *services.IngestionService
	qa        *services.QAService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	docs := docmem.New()
	meta := storagemem.New()
	backend := vecmem.NewBackend()
	embedder := api.NewMockEmbeddingClient(8)

	seg := chunker.New(chunker.Options{
		ChunkSize:     80,
		ChunkOverlap:  10,
		MinChunkUnits: 10,
		Logger:        logging.Discard().Logger,
	})

	ingestion, err := services.NewIngestionService(docs, meta, seg, embedder, backend, 10, logging.Discard())
	if err != nil {
		t.Fatalf("NewIngestionService: %v", err)
	}
	qa, err := services.NewQAService(embedder, backend, api.NewMockAnswerClient(), 5, logging.Discard())
	if err != nil {
		t.Fatalf("NewQAService: %v", err)
	}

	return &fixture{docs: docs, meta: meta, backend: backend, embedder: embedder, ingestion: ingestion, qa: qa}
}

func (f *fixture) uploadAndIngest(t *testing.T, docID, filename, content string) *services.IngestResult {
	t.Helper()
	ctx := context.Background()

	doc := &docstore.Document{
		ID:          docID,
		Filename:    filename,
		ContentType: "text/plain",
		Bytes:       int64(len(content)),
		Content:     []byte(content),
		Status:      docstore.StatusUploaded,
		CreatedAt:   time.Now(),
	}
	if err := f.docs.CreateDocument(ctx, doc); err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}
	if err := f.backend.CreateStore(ctx, "idx_main", 8); err != nil && !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("CreateStore: %v", err)
	}

	result, err := f.ingestion.IngestDocument(ctx, "idx_main", docID)
	if err != nil {
		t.Fatalf("IngestDocument: %v", err)
	}
	return result
}

func TestIngestDocument_EndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result := f.uploadAndIngest(t, "doc_nda", "nda.txt", testAgreement)

	if result.ChunksTotal == 0 {
		t.Fatal("expected chunks from ingestion")
	}
	if result.ChunksIndexed != result.ChunksTotal {
		t.Errorf("expected all chunks indexed, got %d of %d", result.ChunksIndexed, result.ChunksTotal)
	}
	if result.Status != docstore.StatusReady {
		t.Errorf("expected status ready, got %s", result.Status)
	}

	doc, err := f.docs.GetDocument(ctx, "doc_nda")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if doc.Status != docstore.StatusReady {
		t.Errorf("expected stored status ready, got %s", doc.Status)
	}

	records, err := f.meta.ListChunks(ctx, "doc_nda")
	if err != nil {
		t.Fatalf("ListChunks: %v", err)
	}
	if len(records) != result.ChunksTotal {
		t.Errorf("expected %d chunk records, got %d", result.ChunksTotal, len(records))
	}
	for i, r := range records {
		if r.ChunkIndex != i {
			t.Errorf("chunk record %d has index %d", i, r.ChunkIndex)
		}
		if r.Strategy == "" {
			t.Errorf("chunk record %d missing strategy", i)
		}
	}

	// Section titles from the agreement should survive into the records.
	var sawTermination bool
	for _, r := range records {
		if strings.Contains(r.SectionTitle, "SECTION 2. TERMINATION") {
			sawTermination = true
		}
	}
	if !sawTermination {
		t.Error("expected a chunk record titled SECTION 2. TERMINATION")
	}
}

func TestSearch_FindsIngestedChunk(t *testing.T) {
	f := newFixture(t)
	f.uploadAndIngest(t, "doc_nda", "nda.txt", testAgreement)

	// The mock embedder is deterministic, so querying with the exact text
	// of an ingested chunk must return that chunk with score 1.
	records, err := f.meta.ListChunks(context.Background(), "doc_nda")
	if err != nil || len(records) == 0 {
		t.Fatalf("ListChunks: %v (%d records)", err, len(records))
	}
	target := records[0]

	results, err := f.qa.Search(context.Background(), "idx_main", target.Text, 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected search results")
	}
	if results[0].DocumentID != "doc_nda" {
		t.Errorf("expected doc_nda first, got %s", results[0].DocumentID)
	}
	if results[0].Score < 0.999 {
		t.Errorf("expected near-perfect score for identical text, got %f", results[0].Score)
	}
}

func TestAsk_ReturnsAnswerWithSources(t *testing.T) {
	f := newFixture(t)
	f.uploadAndIngest(t, "doc_nda", "nda.txt", testAgreement)

	answer, err := f.qa.Ask(context.Background(), "idx_main", "How can the agreement be terminated?", 3)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer.Text == "" {
		t.Fatal("expected a non-empty answer")
	}
	if len(answer.Sources) == 0 {
		t.Fatal("expected sources with the answer")
	}
	if answer.Sources[0].Number != 1 {
		t.Errorf("expected 1-based source numbering, got %d", answer.Sources[0].Number)
	}
	if answer.Sources[0].DocumentID != "doc_nda" {
		t.Errorf("expected source from doc_nda, got %s", answer.Sources[0].DocumentID)
	}
}

func TestAsk_NoIndexedDocuments(t *testing.T) {
	f := newFixture(t)
	if err := f.backend.CreateStore(context.Background(), "idx_main", 8); err != nil {
		t.Fatalf("CreateStore: %v", err)
	}

	answer, err := f.qa.Ask(context.Background(), "idx_main", "Anything?", 3)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if !strings.Contains(answer.Text, "No relevant passages") {
		t.Errorf("expected the no-context answer, got %q", answer.Text)
	}
	if len(answer.Sources) != 0 {
		t.Errorf("expected no sources, got %d", len(answer.Sources))
	}
}

func TestIngestDocument_FailedEmbeddingsAreDropped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Poison one paragraph so its chunk fails to embed. The text must be
	// long enough to survive the structural noise filter.
	poison := strings.Repeat("confidential obligations survive termination ", 2)
	content := testAgreement + "\n\n" + poison

	if err := f.backend.CreateStore(ctx, "idx_main", 8); err != nil {
		t.Fatalf("CreateStore: %v", err)
	}
	doc := &docstore.Document{
		ID: "doc_poison", Filename: "p.txt", ContentType: "text/plain",
		Bytes: int64(len(content)), Content: []byte(content),
		Status: docstore.StatusUploaded, CreatedAt: time.Now(),
	}
	if err := f.docs.CreateDocument(ctx, doc); err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}

	// Mark every chunk containing the poison text as unembeddable.
	f.embedder.FailInputs = map[string]bool{}
	seg := chunker.New(chunker.Options{ChunkSize: 80, ChunkOverlap: 10, MinChunkUnits: 10, Logger: logging.Discard().Logger})
	for _, c := range seg.SmartChunk(content, nil) {
		if strings.Contains(c.Text, "confidential obligations survive") {
			f.embedder.FailInputs[c.Text] = true
		}
	}
	if len(f.embedder.FailInputs) == 0 {
		t.Fatal("test setup: expected at least one poisoned chunk")
	}

	result, err := f.ingestion.IngestDocument(ctx, "idx_main", "doc_poison")
	if err != nil {
		t.Fatalf("IngestDocument: %v", err)
	}
	if result.ChunksIndexed >= result.ChunksTotal {
		t.Errorf("expected some chunks dropped, got %d of %d indexed", result.ChunksIndexed, result.ChunksTotal)
	}
	if result.Status != docstore.StatusReady {
		t.Errorf("expected status ready despite dropped chunks, got %s", result.Status)
	}

	// Records are kept for every chunk, including dropped ones.
	records, err := f.meta.ListChunks(ctx, "doc_poison")
	if err != nil {
		t.Fatalf("ListChunks: %v", err)
	}
	if len(records) != result.ChunksTotal {
		t.Errorf("expected %d records, got %d", result.ChunksTotal, len(records))
	}
}

func TestRemoveDocument_CleansEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.uploadAndIngest(t, "doc_nda", "nda.txt", testAgreement)

	if err := f.ingestion.RemoveDocument(ctx, "idx_main", "doc_nda"); err != nil {
		t.Fatalf("RemoveDocument: %v", err)
	}

	if _, err := f.docs.GetDocument(ctx, "doc_nda"); err == nil {
		t.Error("expected document to be deleted")
	}
	records, err := f.meta.ListChunks(ctx, "doc_nda")
	if err != nil {
		t.Fatalf("ListChunks: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no chunk records after removal, got %d", len(records))
	}
	results, err := f.qa.Search(ctx, "idx_main", "termination", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no search results after removal, got %d", len(results))
	}
}
