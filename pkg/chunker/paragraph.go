// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package chunker

import (
	"regexp"
	"strings"
)

// A paragraph boundary is one or more blank lines (lines containing only
// whitespace). Groups are re-joined with this normalized separator.
var paragraphSep = regexp.MustCompile(`\n\s*\n`)

const paragraphJoin = "\n\n"

type paragraph struct {
	text  string
	units int
	start int // byte offset in the source text
}

// splitParagraphs splits text on blank-line boundaries and records each
// paragraph's unit count and start offset. Offsets are recovered by
// sequential substring search; the search resumes strictly after the
// previous paragraph so repeated text cannot be matched twice.
func (c *DocumentChunker) splitParagraphs(text string) []paragraph {
	parts := paragraphSep.Split(text, -1)
	paras := make([]paragraph, 0, len(parts))
	searchFrom := 0
	for _, p := range parts {
		if p == "" {
			continue
		}
		start := searchFrom
		if idx := strings.Index(text[searchFrom:], p); idx >= 0 {
			start = searchFrom + idx
		}
		paras = append(paras, paragraph{text: p, units: c.enc.Count(p), start: start})
		searchFrom = start + len(p)
	}
	return paras
}

// ChunkByParagraphs greedily packs whole paragraphs into chunks up to the
// unit budget. When a chunk is emitted, the next one is seeded with a suffix
// of the just-emitted paragraphs whose cumulative units fit the overlap
// budget; partial paragraphs are never split for overlap. A single paragraph
// that alone exceeds the budget is delegated to ChunkByTokens and its
// windows tagged paragraph_subsplit. Output order equals source order.
func (c *DocumentChunker) ChunkByParagraphs(text string) []Chunk {
	paras := c.splitParagraphs(text)
	sepUnits := c.enc.Count(paragraphJoin)

	var chunks []Chunk
	var pending []paragraph
	pendingUnits := 0

	// cost of appending p to the pending group, separator included
	addCost := func(p paragraph) int {
		if len(pending) == 0 {
			return p.units
		}
		return sepUnits + p.units
	}

	for _, p := range paras {
		if p.units > c.chunkSize {
			// Oversize paragraph: flush whatever is pending, then window
			// the paragraph alone. It is not folded into a pending group.
			if len(pending) > 0 {
				chunks = append(chunks, c.paragraphChunk(pending))
				pending = nil
				pendingUnits = 0
			}
			for _, sub := range c.ChunkByTokens(p.text) {
				sub.Strategy = StrategyParagraphSubsplit
				sub.StartOffset += p.start
				sub.EndOffset += p.start
				chunks = append(chunks, sub)
			}
			continue
		}

		if pendingUnits+addCost(p) > c.chunkSize && len(pending) > 0 {
			emitted := pending
			chunks = append(chunks, c.paragraphChunk(emitted))

			// Seed the next group with trailing paragraphs of the emitted
			// chunk, newest first, while they fit the overlap budget.
			pending = nil
			pendingUnits = 0
			for i := len(emitted) - 1; i >= 0; i-- {
				cost := emitted[i].units
				if len(pending) > 0 {
					cost += sepUnits
				}
				if pendingUnits+cost > c.chunkOverlap {
					break
				}
				pending = append([]paragraph{emitted[i]}, pending...)
				pendingUnits += cost
			}
			// Drop seed paragraphs, oldest first, until the incoming
			// paragraph fits the chunk budget. Zero overlap is valid when
			// no prior paragraph fits alongside the new one.
			for len(pending) > 0 && pendingUnits+addCost(p) > c.chunkSize {
				pendingUnits -= pending[0].units
				if len(pending) > 1 {
					pendingUnits -= sepUnits
				}
				pending = pending[1:]
			}
		}

		pendingUnits += addCost(p)
		pending = append(pending, p)
	}

	if len(pending) > 0 {
		chunks = append(chunks, c.paragraphChunk(pending))
	}
	return chunks
}

// paragraphChunk joins a pending group into one chunk. The chunk's span
// starts at the first paragraph's source offset.
func (c *DocumentChunker) paragraphChunk(paras []paragraph) Chunk {
	parts := make([]string, len(paras))
	for i, p := range paras {
		parts[i] = p.text
	}
	text := strings.Join(parts, paragraphJoin)
	start := paras[0].start
	return Chunk{
		Text:        text,
		UnitCount:   c.enc.Count(text),
		StartOffset: start,
		EndOffset:   start + len(text),
		Strategy:    StrategyParagraph,
	}
}
