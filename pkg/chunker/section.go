// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package chunker

import (
	"regexp"
	"sort"
	"strings"
)

// Three independent header pattern families, compiled once for the process.
// Candidate matches from all families are merged by start position.
var headerPatterns = []*regexp.Regexp{
	// Formal headers: SECTION/ARTICLE followed by digits or uppercase roman
	// numerals and optional title text, e.g. "SECTION 2. SCOPE OF WORK".
	regexp.MustCompile(`(?:^|\n)(?:SECTION|ARTICLE)\s+(?:[0-9]+|[IVX]+)\.?\s*(.*)(?:\n|$)`),
	// Decimal clause headers, e.g. "1.1 Definitions" or "3.2.1 Fees".
	regexp.MustCompile(`(?:^|\n)([0-9]+\.[0-9]+(?:\.[0-9]+)?)\s+(.*?)(?:\n|$)`),
	// Shouted headers: a line of uppercase letters, spaces, and parentheses,
	// e.g. "GOVERNING LAW (GENERAL)".
	regexp.MustCompile(`(?:^|\n)([A-Z][A-Z\s\(\)]+)(?:\n|$)`),
}

type headerMatch struct {
	start, end int
	title      string
}

// findHeaders scans the text with every pattern family, sorts the candidates
// by start position, and resolves overlaps greedily: a candidate is kept only
// if it starts at or after the end of the last kept match. Ties between
// families at the same position fall to whichever family was scanned first.
// This first-found-wins order is deliberate and load-bearing; do not replace
// it with a family priority scheme.
func findHeaders(text string) []headerMatch {
	var candidates []headerMatch
	for _, re := range headerPatterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			candidates = append(candidates, headerMatch{
				start: loc[0],
				end:   loc[1],
				title: strings.TrimSpace(text[loc[0]:loc[1]]),
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].start < candidates[j].start
	})

	var kept []headerMatch
	lastEnd := -1
	for _, m := range candidates {
		if m.start >= lastEnd {
			kept = append(kept, m)
			lastEnd = m.end
		}
	}
	return kept
}

// ChunkBySections slices the document into header-bounded spans. Each kept
// header begins a section running to the start of the next kept header (or
// end of document). A section within the unit budget is emitted whole;
// larger sections are delegated to ChunkByParagraphs with offsets shifted
// back into document coordinates and every sub-chunk tagged with the section
// title. Text before the first header is processed by ChunkByParagraphs and
// prepended untitled. With no headers anywhere the whole text falls through
// to ChunkByParagraphs unchanged.
func (c *DocumentChunker) ChunkBySections(text string) []Chunk {
	headers := findHeaders(text)
	if len(headers) == 0 {
		return c.ChunkByParagraphs(text)
	}

	var chunks []Chunk

	if headers[0].start > 0 {
		preamble := text[:headers[0].start]
		if strings.TrimSpace(preamble) != "" {
			chunks = append(chunks, c.ChunkByParagraphs(preamble)...)
		}
	}

	for i, h := range headers {
		end := len(text)
		if i+1 < len(headers) {
			end = headers[i+1].start
		}
		sectionText := text[h.start:end]

		if c.enc.Count(sectionText) > c.chunkSize {
			for _, sub := range c.ChunkByParagraphs(sectionText) {
				sub.SectionTitle = h.title
				sub.StartOffset += h.start
				sub.EndOffset += h.start
				chunks = append(chunks, sub)
			}
			continue
		}

		chunks = append(chunks, Chunk{
			Text:         sectionText,
			UnitCount:    c.enc.Count(sectionText),
			StartOffset:  h.start,
			EndOffset:    end,
			Strategy:     StrategySection,
			SectionTitle: h.title,
		})
	}
	return chunks
}
