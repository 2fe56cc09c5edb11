// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package chunker

import (
	"strings"
	"testing"
)

func TestChunkByParagraphs_SingleGroup(t *testing.T) {
	c := testChunker(100, 10)
	text := "first paragraph here\n\nsecond paragraph here"
	chunks := c.ChunkByParagraphs(text)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != text {
		t.Errorf("expected %q, got %q", text, chunks[0].Text)
	}
	if chunks[0].Strategy != StrategyParagraph {
		t.Errorf("expected strategy %q, got %q", StrategyParagraph, chunks[0].Strategy)
	}
	if chunks[0].StartOffset != 0 {
		t.Errorf("expected start offset 0, got %d", chunks[0].StartOffset)
	}
}

func TestChunkByParagraphs_PackingAndOverlap(t *testing.T) {
	// Four paragraphs of 8 units each, budget 20, overlap 8: packing emits
	// pairs, and each new group is seeded with the previous group's last
	// paragraph (8 units, exactly the overlap budget).
	a := strings.Repeat("a", 8)
	b := strings.Repeat("b", 8)
	cc := strings.Repeat("c", 8)
	d := strings.Repeat("d", 8)
	text := a + "\n\n" + b + "\n\n" + cc + "\n\n" + d

	c := testChunker(20, 8)
	chunks := c.ChunkByParagraphs(text)

	want := []struct {
		text  string
		start int
	}{
		{a + "\n\n" + b, 0},
		{b + "\n\n" + cc, 10},
		{cc + "\n\n" + d, 20},
	}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %v", len(want), len(chunks), chunks)
	}
	for i, w := range want {
		if chunks[i].Text != w.text {
			t.Errorf("chunk[%d] = %q, want %q", i, chunks[i].Text, w.text)
		}
		if chunks[i].StartOffset != w.start {
			t.Errorf("chunk[%d] start = %d, want %d", i, chunks[i].StartOffset, w.start)
		}
		if chunks[i].UnitCount > 20 {
			t.Errorf("chunk[%d] unit count %d exceeds budget", i, chunks[i].UnitCount)
		}
	}
}

func TestChunkByParagraphs_ZeroOverlapWhenNothingFits(t *testing.T) {
	// Overlap budget too small for any trailing paragraph: groups share
	// nothing, which is valid.
	a := strings.Repeat("a", 15)
	b := strings.Repeat("b", 15)
	text := a + "\n\n" + b

	c := testChunker(20, 5)
	chunks := c.ChunkByParagraphs(text)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Text != a || chunks[1].Text != b {
		t.Errorf("unexpected chunks: %q, %q", chunks[0].Text, chunks[1].Text)
	}
}

func TestChunkByParagraphs_OversizeParagraphSubsplit(t *testing.T) {
	// A single 500-unit paragraph with budget 50 and overlap 10 windows at
	// stride 40: ceil(500/40) = 13 sub-chunks, each within budget.
	text := strings.Repeat("x", 500)
	c := testChunker(50, 10)
	chunks := c.ChunkByParagraphs(text)

	if len(chunks) != 13 {
		t.Fatalf("expected 13 chunks, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if ch.Strategy != StrategyParagraphSubsplit {
			t.Errorf("chunk[%d] strategy = %q, want %q", i, ch.Strategy, StrategyParagraphSubsplit)
		}
		if ch.UnitCount > 50 {
			t.Errorf("chunk[%d] unit count %d exceeds budget", i, ch.UnitCount)
		}
		if got := text[ch.StartOffset:ch.EndOffset]; got != ch.Text {
			t.Errorf("chunk[%d] offsets do not slice back to chunk text", i)
		}
	}
}

func TestChunkByParagraphs_OversizeFlushesPendingFirst(t *testing.T) {
	small := strings.Repeat("s", 10)
	big := strings.Repeat("b", 120)
	text := small + "\n\n" + big

	c := testChunker(50, 10)
	chunks := c.ChunkByParagraphs(text)

	if len(chunks) < 2 {
		t.Fatalf("expected pending flush plus sub-chunks, got %d chunks", len(chunks))
	}
	if chunks[0].Strategy != StrategyParagraph || chunks[0].Text != small {
		t.Errorf("chunk[0] = %q (%s), want small pending group first", chunks[0].Text, chunks[0].Strategy)
	}
	for i, ch := range chunks[1:] {
		if ch.Strategy != StrategyParagraphSubsplit {
			t.Errorf("chunk[%d] strategy = %q, want %q", i+1, ch.Strategy, StrategyParagraphSubsplit)
		}
	}
}

// Repeated paragraph text must resolve to distinct offsets: the substring
// search resumes after the previous match.
func TestChunkByParagraphs_RepeatedTextOffsets(t *testing.T) {
	text := "same words\n\nsame words\n\nsame words"
	c := testChunker(12, 0)
	chunks := c.ChunkByParagraphs(text)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	wantStarts := []int{0, 12, 24}
	for i, ch := range chunks {
		if ch.StartOffset != wantStarts[i] {
			t.Errorf("chunk[%d] start = %d, want %d", i, ch.StartOffset, wantStarts[i])
		}
	}
}

func TestChunkByParagraphs_BlankLineVariants(t *testing.T) {
	// Boundary lines containing only whitespace still separate paragraphs.
	// Budget fits each paragraph alone ("second block" is 12 units) but not
	// a joined group, so each block comes out whole.
	text := "first block\n  \t\nsecond block"
	c := testChunker(12, 0)
	chunks := c.ChunkByParagraphs(text)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %v", len(chunks), chunks)
	}
	if chunks[0].Text != "first block" || chunks[1].Text != "second block" {
		t.Errorf("unexpected chunks: %q, %q", chunks[0].Text, chunks[1].Text)
	}
	for i, ch := range chunks {
		if ch.Strategy != StrategyParagraph {
			t.Errorf("chunk[%d] strategy = %q, want %q", i, ch.Strategy, StrategyParagraph)
		}
	}
}
