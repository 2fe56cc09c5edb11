// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package chunker

import (
	"io"
	"log/slog"
	"strings"
	"testing"
)

func testChunker(size, overlap int) *DocumentChunker {
	return New(Options{
		ChunkSize:    size,
		ChunkOverlap: overlap,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestChunkByTokens_Empty(t *testing.T) {
	c := testChunker(10, 2)
	if got := c.ChunkByTokens(""); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

func TestChunkByTokens_SingleWindow(t *testing.T) {
	c := testChunker(100, 10)
	chunks := c.ChunkByTokens("hello")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "hello" {
		t.Errorf("expected %q, got %q", "hello", chunks[0].Text)
	}
	if chunks[0].Strategy != StrategyToken {
		t.Errorf("expected strategy %q, got %q", StrategyToken, chunks[0].Strategy)
	}
	if chunks[0].StartOffset != 0 || chunks[0].EndOffset != len("hello") {
		t.Errorf("unexpected offsets [%d,%d)", chunks[0].StartOffset, chunks[0].EndOffset)
	}
}

func TestChunkByTokens_WindowsAndOverlap(t *testing.T) {
	c := testChunker(5, 2)
	text := "abcdefghij"
	chunks := c.ChunkByTokens(text)

	want := []string{"abcde", "defgh", "ghij"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %v", len(want), len(chunks), chunks)
	}
	for i, w := range want {
		if chunks[i].Text != w {
			t.Errorf("chunk[%d] = %q, want %q", i, chunks[i].Text, w)
		}
		if chunks[i].UnitCount > 5 {
			t.Errorf("chunk[%d] unit count %d exceeds budget", i, chunks[i].UnitCount)
		}
	}
}

// Every token window's offsets must slice the source text back to the
// window's own content. There is no "offset unknown" sentinel.
func TestChunkByTokens_OffsetsSliceSource(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"ascii", strings.Repeat("abcdefghij", 7)},
		{"multibyte", strings.Repeat("héllo wörld §", 9)},
		{"control chars", "a\x00b\x01c" + strings.Repeat("x", 40)},
	}

	c := testChunker(8, 3)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, ch := range c.ChunkByTokens(tt.text) {
				if got := tt.text[ch.StartOffset:ch.EndOffset]; got != ch.Text {
					t.Errorf("chunk[%d]: source[%d:%d] = %q, want %q",
						i, ch.StartOffset, ch.EndOffset, got, ch.Text)
				}
			}
		})
	}
}

// A malformed overlap is clamped at construction; the stride floor keeps the
// loop advancing one unit at a time instead of spinning forever.
func TestChunkByTokens_StrideFloorTerminates(t *testing.T) {
	c := testChunker(5, 9)
	if c.ChunkOverlap() != 4 {
		t.Fatalf("expected overlap clamped to 4, got %d", c.ChunkOverlap())
	}

	text := "abcdefghij"
	chunks := c.ChunkByTokens(text)
	// step=1, starts at 0..5, end==len reached at start=5
	if len(chunks) != 6 {
		t.Errorf("expected 6 chunks, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if ch.UnitCount > 5 {
			t.Errorf("chunk[%d] unit count %d exceeds budget", i, ch.UnitCount)
		}
	}
}

func TestChunkByTokens_CountNeverStale(t *testing.T) {
	c := testChunker(7, 2)
	enc := RuneEncoding{}
	for i, ch := range c.ChunkByTokens("the quick brown fox jumps over the lazy dog") {
		if ch.UnitCount != enc.Count(ch.Text) {
			t.Errorf("chunk[%d]: unit count %d != recount %d", i, ch.UnitCount, enc.Count(ch.Text))
		}
	}
}
