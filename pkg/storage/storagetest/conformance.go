// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package storagetest provides a shared conformance test suite for
// storage.MetadataStore implementations. Each backend should call
// RunConformanceTests from its own _test.go file.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/caselight/legalqa-gw/pkg/storage"
)

// RunConformanceTests exercises a MetadataStore implementation against the
// shared contract. The newStore function is called once per sub-test to
// provide an isolated store instance.
func RunConformanceTests(t *testing.T, newStore func(t *testing.T) storage.MetadataStore) {
	t.Helper()

	t.Run("IndexLifecycle", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		rec := &storage.IndexRecord{
			ID:         "idx_abc123",
			Name:       "contracts",
			Dimensions: 768,
			CreatedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		}

		if err := store.CreateIndex(ctx, rec); err != nil {
			t.Fatalf("CreateIndex: %v", err)
		}

		got, err := store.GetIndex(ctx, rec.ID)
		if err != nil {
			t.Fatalf("GetIndex: %v", err)
		}
		if got.ID != rec.ID || got.Name != rec.Name || got.Dimensions != rec.Dimensions {
			t.Errorf("GetIndex returned unexpected record: %+v", got)
		}
		if !got.CreatedAt.Equal(rec.CreatedAt) {
			t.Errorf("CreatedAt mismatch: got %v, want %v", got.CreatedAt, rec.CreatedAt)
		}

		if err := store.DeleteIndex(ctx, rec.ID); err != nil {
			t.Fatalf("DeleteIndex: %v", err)
		}

		_, err = store.GetIndex(ctx, rec.ID)
		if !errors.Is(err, storage.ErrIndexNotFound) {
			t.Errorf("expected ErrIndexNotFound after delete, got: %v", err)
		}
	})

	t.Run("IndexNotFound", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		_, err := store.GetIndex(ctx, "idx_nonexistent")
		if !errors.Is(err, storage.ErrIndexNotFound) {
			t.Errorf("GetIndex expected ErrIndexNotFound, got: %v", err)
		}

		err = store.DeleteIndex(ctx, "idx_nonexistent")
		if !errors.Is(err, storage.ErrIndexNotFound) {
			t.Errorf("DeleteIndex expected ErrIndexNotFound, got: %v", err)
		}
	})

	t.Run("ListIndexesOrdered", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		baseTime := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 3; i++ {
			rec := &storage.IndexRecord{
				ID:         "idx_list" + string(rune('a'+i)),
				Name:       "index " + string(rune('a'+i)),
				Dimensions: 768,
				CreatedAt:  baseTime.Add(time.Duration(2-i) * time.Hour),
			}
			if err := store.CreateIndex(ctx, rec); err != nil {
				t.Fatalf("CreateIndex[%d]: %v", i, err)
			}
		}

		recs, err := store.ListIndexes(ctx)
		if err != nil {
			t.Fatalf("ListIndexes: %v", err)
		}
		if len(recs) != 3 {
			t.Fatalf("expected 3 records, got %d", len(recs))
		}
		for i := 1; i < len(recs); i++ {
			if recs[i].CreatedAt.Before(recs[i-1].CreatedAt) {
				t.Errorf("records not in ascending CreatedAt order at index %d", i)
			}
		}
	})

	t.Run("ChunkRoundTrip", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		chunks := []storage.ChunkRecord{
			{
				ID: "chnk_0_0", DocumentID: "doc_a", Text: "SECTION 1. DEFINITIONS ...",
				Strategy: "section", SectionTitle: "SECTION 1. DEFINITIONS",
				ChunkIndex: 0, StartOffset: 0, EndOffset: 26, UnitCount: 26,
			},
			{
				ID: "chnk_1_26", DocumentID: "doc_a", Text: "The Services shall commence ...",
				Strategy: "paragraph", ChunkIndex: 1, StartOffset: 26, EndOffset: 57, UnitCount: 31,
			},
		}

		if err := store.SaveChunks(ctx, "doc_a", chunks); err != nil {
			t.Fatalf("SaveChunks: %v", err)
		}

		got, err := store.ListChunks(ctx, "doc_a")
		if err != nil {
			t.Fatalf("ListChunks: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 chunks, got %d", len(got))
		}
		if got[0].ID != "chnk_0_0" || got[1].ID != "chnk_1_26" {
			t.Errorf("chunks not in index order: %+v", got)
		}
		if got[0].SectionTitle != "SECTION 1. DEFINITIONS" || got[0].Strategy != "section" {
			t.Errorf("chunk fields not round-tripped: %+v", got[0])
		}
		if got[1].StartOffset != 26 || got[1].EndOffset != 57 || got[1].UnitCount != 31 {
			t.Errorf("chunk offsets not round-tripped: %+v", got[1])
		}
	})

	t.Run("SaveChunksReplaces", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		first := []storage.ChunkRecord{
			{ID: "chnk_0_0", DocumentID: "doc_b", Text: "old", ChunkIndex: 0},
			{ID: "chnk_1_10", DocumentID: "doc_b", Text: "old", ChunkIndex: 1},
		}
		if err := store.SaveChunks(ctx, "doc_b", first); err != nil {
			t.Fatalf("SaveChunks: %v", err)
		}

		second := []storage.ChunkRecord{
			{ID: "chnk_0_0", DocumentID: "doc_b", Text: "new", ChunkIndex: 0},
		}
		if err := store.SaveChunks(ctx, "doc_b", second); err != nil {
			t.Fatalf("SaveChunks replace: %v", err)
		}

		got, err := store.ListChunks(ctx, "doc_b")
		if err != nil {
			t.Fatalf("ListChunks: %v", err)
		}
		if len(got) != 1 || got[0].Text != "new" {
			t.Errorf("expected replacement to win, got %+v", got)
		}
	})

	t.Run("DeleteChunks", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		chunks := []storage.ChunkRecord{
			{ID: "chnk_0_0", DocumentID: "doc_c", Text: "x", ChunkIndex: 0},
		}
		if err := store.SaveChunks(ctx, "doc_c", chunks); err != nil {
			t.Fatalf("SaveChunks: %v", err)
		}
		if err := store.DeleteChunks(ctx, "doc_c"); err != nil {
			t.Fatalf("DeleteChunks: %v", err)
		}

		got, err := store.ListChunks(ctx, "doc_c")
		if err != nil {
			t.Fatalf("ListChunks: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no chunks after delete, got %d", len(got))
		}

		// Deleting chunks for an unknown document is a no-op.
		if err := store.DeleteChunks(ctx, "doc_unknown"); err != nil {
			t.Errorf("DeleteChunks on unknown document: %v", err)
		}
	})
}
