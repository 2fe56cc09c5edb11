// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package chunker

// Strategy identifies the splitting method that produced a chunk. A single
// document's chunk list may mix strategies.
type Strategy string

const (
	// StrategyToken marks fixed-size unit windows with no structural awareness.
	StrategyToken Strategy = "token"
	// StrategyParagraph marks groups of whole paragraphs packed up to the budget.
	StrategyParagraph Strategy = "paragraph"
	// StrategyParagraphSubsplit marks token windows cut from a single paragraph
	// that alone exceeded the budget.
	StrategyParagraphSubsplit Strategy = "paragraph_subsplit"
	// StrategySection marks a header-bounded span emitted whole.
	StrategySection Strategy = "section"
)

// Chunk is a contiguous span of document text plus provenance metadata, the
// unit of retrieval. Chunks are never mutated after SmartChunk emits them.
//
// StartOffset and EndOffset are byte offsets into the original UTF-8
// document. For token and section strategies the span is exact
// (text == document[StartOffset:EndOffset]); paragraph-strategy chunks join
// their paragraphs with a normalized blank line, so the span marks the
// source region the chunk was cut from.
type Chunk struct {
	Text         string
	UnitCount    int
	StartOffset  int
	EndOffset    int
	Strategy     Strategy
	SectionTitle string
	ChunkIndex   int
	ChunkID      string
	Metadata     map[string]string
}
