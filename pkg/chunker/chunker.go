// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package chunker segments long-form legal documents into retrieval-sized
// passages. It detects structural markers (SECTION/ARTICLE headers, decimal
// clause numbers, all-caps header lines), packs paragraphs up to a unit
// budget with a trailing-overlap window, and falls back to fixed-size unit
// windows for single paragraphs that exceed the budget.
//
// The engine is pure, synchronous text transformation: no I/O, no state
// across calls. A DocumentChunker is safe to share across goroutines.
package chunker

import (
	"fmt"
	"log/slog"
	"strings"
)

// Defaults for the segmentation budgets, in units of the configured Encoding.
const (
	DefaultChunkSize     = 1000
	DefaultChunkOverlap  = 200
	DefaultMinChunkUnits = 10
)

// Options configures a DocumentChunker.
type Options struct {
	// ChunkSize is the unit budget per chunk. <= 0 selects DefaultChunkSize.
	ChunkSize int
	// ChunkOverlap is the unit budget duplicated across adjacent chunks.
	// Values < 0 or >= ChunkSize are clamped with a logged warning.
	ChunkOverlap int
	// MinChunkUnits drops chunks below this unit count as structural noise
	// (lone headers, stray punctuation). <= 0 selects DefaultMinChunkUnits.
	MinChunkUnits int
	// Encoding supplies the countable unit. Nil selects RuneEncoding.
	Encoding Encoding
	// Logger receives configuration warnings. Nil selects slog.Default().
	Logger *slog.Logger
}

// DocumentChunker segments documents. It carries only immutable
// configuration; all methods are safe for concurrent use on independent
// documents.
type DocumentChunker struct {
	chunkSize     int
	chunkOverlap  int
	minChunkUnits int
	enc           Encoding
}

// New creates a DocumentChunker, applying defaults and clamping a malformed
// overlap to ChunkSize-1 so the token-window stride always advances.
func New(opts Options) *DocumentChunker {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	size := opts.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	overlap := opts.ChunkOverlap
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		logger.Warn("chunk overlap must be smaller than chunk size, clamping",
			"chunk_size", size,
			"chunk_overlap", overlap,
			"clamped_overlap", size-1)
		overlap = size - 1
	}
	minUnits := opts.MinChunkUnits
	if minUnits <= 0 {
		minUnits = DefaultMinChunkUnits
	}
	enc := opts.Encoding
	if enc == nil {
		enc = RuneEncoding{}
	}

	return &DocumentChunker{
		chunkSize:     size,
		chunkOverlap:  overlap,
		minChunkUnits: minUnits,
		enc:           enc,
	}
}

// ChunkSize returns the configured unit budget per chunk.
func (c *DocumentChunker) ChunkSize() int { return c.chunkSize }

// ChunkOverlap returns the configured (possibly clamped) overlap budget.
func (c *DocumentChunker) ChunkOverlap() int { return c.chunkOverlap }

// SmartChunk segments text and finalizes the result for retrieval: chunks
// below the minimum unit count are dropped, survivors are renumbered
// densely from 0, each receives a stable ID derived from its index and
// start offset, and the caller-supplied metadata is attached to every chunk.
//
// Section-bounded splitting is the primary strategy; it falls back to
// paragraph packing when no headers are detected. Empty or whitespace-only
// text yields an empty list, never an error.
func (c *DocumentChunker) SmartChunk(text string, metadata map[string]string) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	raw := c.ChunkBySections(text)

	final := make([]Chunk, 0, len(raw))
	for _, ch := range raw {
		if ch.UnitCount < c.minChunkUnits {
			continue
		}
		if len(metadata) > 0 {
			m := make(map[string]string, len(metadata))
			for k, v := range metadata {
				m[k] = v
			}
			ch.Metadata = m
		}
		ch.ChunkIndex = len(final)
		ch.ChunkID = fmt.Sprintf("chnk_%d_%d", ch.ChunkIndex, ch.StartOffset)
		final = append(final, ch)
	}
	return final
}
