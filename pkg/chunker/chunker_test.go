// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package chunker

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"unicode"
)

const sampleAgreement = `AGREEMENT OF SERVICES

This Agreement is made on this first day of January between the parties.

SECTION 1. DEFINITIONS

1.1 "Services" shall mean the consulting services provided by the Contractor.
1.2 "Client" shall mean the party receiving the Services.

SECTION 2. SCOPE OF WORK

The Contractor agrees to perform analysis of current systems and implementation of new software for the Client under this agreement.

ARTICLE 3. COMPENSATION

3.1 Fees. The Client agrees to pay the Contractor at an hourly rate.
3.2 Expenses. The Client shall reimburse all reasonable expenses.

SECTION 4. TERMINATION

This Agreement may be terminated by either party with thirty days written notice.
`

func TestNew_ClampsMalformedOverlap(t *testing.T) {
	tests := []struct {
		name        string
		size        int
		overlap     int
		wantSize    int
		wantOverlap int
	}{
		{"defaults", 0, 0, DefaultChunkSize, 0},
		{"negative overlap", 100, -5, 100, 0},
		{"overlap equals size", 100, 100, 100, 99},
		{"overlap exceeds size", 50, 80, 50, 49},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testChunker(tt.size, tt.overlap)
			if c.ChunkSize() != tt.wantSize {
				t.Errorf("chunk size = %d, want %d", c.ChunkSize(), tt.wantSize)
			}
			if c.ChunkOverlap() != tt.wantOverlap {
				t.Errorf("chunk overlap = %d, want %d", c.ChunkOverlap(), tt.wantOverlap)
			}
		})
	}
}

func TestSmartChunk_EmptyInput(t *testing.T) {
	c := testChunker(50, 10)
	for _, text := range []string{"", "   ", "\n\n\t\n"} {
		if got := c.SmartChunk(text, nil); got != nil {
			t.Errorf("SmartChunk(%q) = %v, want nil", text, got)
		}
	}
}

func TestSmartChunk_IndicesAndIDs(t *testing.T) {
	c := testChunker(50, 10)
	chunks := c.SmartChunk(sampleAgreement, nil)

	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	for i, ch := range chunks {
		if ch.ChunkIndex != i {
			t.Errorf("chunk[%d] index = %d, indices must be dense after filtering", i, ch.ChunkIndex)
		}
		wantID := fmt.Sprintf("chnk_%d_%d", i, ch.StartOffset)
		if ch.ChunkID != wantID {
			t.Errorf("chunk[%d] id = %q, want %q", i, ch.ChunkID, wantID)
		}
	}

	// IDs are unique within one document's chunk set
	seen := make(map[string]bool)
	for _, ch := range chunks {
		if seen[ch.ChunkID] {
			t.Errorf("duplicate chunk id %q", ch.ChunkID)
		}
		seen[ch.ChunkID] = true
	}
}

func TestSmartChunk_MetadataAttachedToEveryChunk(t *testing.T) {
	c := testChunker(50, 10)
	meta := map[string]string{"document_id": "doc_123", "filename": "agreement.pdf"}
	chunks := c.SmartChunk(sampleAgreement, meta)

	for i, ch := range chunks {
		for k, v := range meta {
			if ch.Metadata[k] != v {
				t.Errorf("chunk[%d] metadata[%q] = %q, want %q", i, k, ch.Metadata[k], v)
			}
		}
	}

	// chunks must not alias the caller's map
	chunks[0].Metadata["document_id"] = "mutated"
	if chunks[1].Metadata["document_id"] != "doc_123" {
		t.Error("chunk metadata maps are shared between chunks")
	}
	if meta["document_id"] != "doc_123" {
		t.Error("chunk metadata aliases the caller's map")
	}
}

func TestSmartChunk_FiltersStructuralNoise(t *testing.T) {
	// The 2-unit middle paragraph ends up in a chunk of its own, which is
	// below the minimum and must be dropped; survivors renumber densely.
	a := strings.Repeat("a", 40)
	b := strings.Repeat("b", 40)
	text := a + "\n\nzz\n\n" + b

	c := testChunker(41, 0)
	chunks := c.SmartChunk(text, nil)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks after filtering, got %d: %v", len(chunks), chunks)
	}
	for i, ch := range chunks {
		if ch.UnitCount < DefaultMinChunkUnits {
			t.Errorf("chunk[%d] below minimum unit count: %d", i, ch.UnitCount)
		}
		if ch.ChunkIndex != i {
			t.Errorf("chunk[%d] index = %d after filtering", i, ch.ChunkIndex)
		}
	}
	if chunks[0].Text != a || chunks[1].Text != b {
		t.Errorf("unexpected surviving chunks: %q, %q", chunks[0].Text, chunks[1].Text)
	}
}

func TestSmartChunk_SampleAgreement(t *testing.T) {
	c := testChunker(50, 10)
	chunks := c.SmartChunk(sampleAgreement, map[string]string{"doc_id": "123"})

	if len(chunks) < 4 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}

	var titles []string
	lastStart := -1
	for i, ch := range chunks {
		if ch.UnitCount < DefaultMinChunkUnits {
			t.Errorf("chunk[%d] below minimum unit count", i)
		}
		if ch.Strategy == StrategyParagraph || ch.Strategy == StrategySection {
			if ch.UnitCount > 50 {
				t.Errorf("chunk[%d] (%s) exceeds budget: %d units", i, ch.Strategy, ch.UnitCount)
			}
		}
		if ch.StartOffset < lastStart {
			t.Errorf("chunk[%d] start %d before previous start %d", i, ch.StartOffset, lastStart)
		}
		lastStart = ch.StartOffset
		if ch.SectionTitle != "" {
			titles = append(titles, ch.SectionTitle)
		}
	}

	joined := strings.Join(titles, "|")
	for _, want := range []string{"SECTION 1. DEFINITIONS", "ARTICLE 3. COMPENSATION", "SECTION 4. TERMINATION"} {
		if !strings.Contains(joined, want) {
			t.Errorf("no chunk attributed to %q (titles: %v)", want, titles)
		}
	}
}

// With zero overlap and the minimum-unit filter disabled, the chunk texts
// concatenated in order carry every non-whitespace byte of the document
// exactly once. Paragraph groups re-join their paragraphs with a normalized
// blank line, so the comparison ignores whitespace.
func TestSmartChunk_ReconstructsDocument(t *testing.T) {
	c := New(Options{
		ChunkSize:     50,
		ChunkOverlap:  0,
		MinChunkUnits: 1,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	chunks := c.SmartChunk(sampleAgreement, nil)
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}

	var joined strings.Builder
	for i, ch := range chunks {
		joined.WriteString(ch.Text)
		joined.WriteByte('\n')
		if ch.Strategy != StrategyParagraph {
			if got := sampleAgreement[ch.StartOffset:ch.EndOffset]; got != ch.Text {
				t.Errorf("chunk[%d] (%s) offsets do not slice back to its text", i, ch.Strategy)
			}
		}
	}

	stripSpace := func(s string) string {
		return strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, s)
	}
	if got, want := stripSpace(joined.String()), stripSpace(sampleAgreement); got != want {
		t.Errorf("concatenated chunk texts do not reconstruct the document:\ngot  %q\nwant %q", got, want)
	}
}

// A document without any header-like line must never produce section chunks.
func TestSmartChunk_HeaderlessDocument(t *testing.T) {
	text := "just some ordinary prose that keeps going for a while\n\n" +
		"and another paragraph of ordinary prose following the first one\n\n" +
		strings.Repeat("and a very long run-on paragraph ", 20)

	c := testChunker(50, 10)
	for i, ch := range c.SmartChunk(text, nil) {
		if ch.Strategy != StrategyParagraph && ch.Strategy != StrategyParagraphSubsplit {
			t.Errorf("chunk[%d] strategy = %q, want paragraph or paragraph_subsplit", i, ch.Strategy)
		}
	}
}

// The engine never fails on content, however binary-looking.
func TestSmartChunk_HostileContent(t *testing.T) {
	c := testChunker(30, 5)
	inputs := []string{
		"\x00\x01\x02" + strings.Repeat("\xff", 64),
		strings.Repeat("A", 100000), // one extremely long header-like line
		strings.Repeat("SECTION 1. X\n", 200),
	}
	for _, text := range inputs {
		chunks := c.SmartChunk(text, nil)
		for i, ch := range chunks {
			if ch.UnitCount < 0 {
				t.Errorf("chunk[%d] negative unit count", i)
			}
		}
	}
}
