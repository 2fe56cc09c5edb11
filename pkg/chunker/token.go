// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package chunker

// ChunkByTokens splits text into fixed-size overlapping unit windows with no
// awareness of structure. This is the fallback strategy for text that has no
// usable paragraph boundaries.
//
// The text is encoded once; a window of ChunkSize units slides with stride
// ChunkSize-ChunkOverlap, floored at 1 so a malformed overlap cannot stall
// the loop. Byte offsets are recovered from the per-unit decoded lengths, so
// every window's offsets are exact.
func (c *DocumentChunker) ChunkByTokens(text string) []Chunk {
	units := c.enc.Encode(text)
	if len(units) == 0 {
		return nil
	}

	// Byte offset of every unit boundary in the source text.
	offsets := make([]int, len(units)+1)
	for i := range units {
		offsets[i+1] = offsets[i] + len(c.enc.Decode(units[i:i+1]))
	}

	step := c.chunkSize - c.chunkOverlap
	if step <= 0 {
		step = 1
	}

	var chunks []Chunk
	for start := 0; start < len(units); start += step {
		end := start + c.chunkSize
		if end > len(units) {
			end = len(units)
		}
		// Re-count the window text rather than trusting end-start: a BPE
		// encoding may re-merge differently after decoding, and the chunk's
		// unit count must never go stale against its text.
		windowText := c.enc.Decode(units[start:end])
		chunks = append(chunks, Chunk{
			Text:        windowText,
			UnitCount:   c.enc.Count(windowText),
			StartOffset: offsets[start],
			EndOffset:   offsets[end],
			Strategy:    StrategyToken,
		})
		if end == len(units) {
			break
		}
	}
	return chunks
}
