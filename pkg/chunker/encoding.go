// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package chunker

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Encoding converts text into an ordered sequence of countable units and
// back. Chunk size and overlap budgets are expressed in these units.
//
// Decode applied to any sub-slice of an Encode result must yield exactly the
// bytes that sub-slice covered in the input. This keeps window offsets
// derivable by accumulating decoded byte lengths, so chunk offsets are always
// known (no "unknown offset" sentinel anywhere in the engine).
//
// Implementations must be deterministic, side-effect-free, and safe for
// concurrent use.
type Encoding interface {
	// Count returns the number of units in text. Count("") == 0.
	Count(text string) int
	// Encode converts text into its unit sequence.
	Encode(text string) []int
	// Decode re-materializes text from a unit sequence.
	Decode(units []int) string
}

// RuneEncoding counts one unit per Unicode codepoint. Windows over rune
// units are exactly substring-sliceable, which makes it the default when no
// model tokenizer is configured.
type RuneEncoding struct{}

func (RuneEncoding) Count(text string) int {
	n := 0
	for range text {
		n++
	}
	return n
}

func (RuneEncoding) Encode(text string) []int {
	units := make([]int, 0, len(text))
	for _, r := range text {
		units = append(units, int(r))
	}
	return units
}

func (RuneEncoding) Decode(units []int) string {
	runes := make([]rune, len(units))
	for i, u := range units {
		runes[i] = rune(u)
	}
	return string(runes)
}

const defaultTiktokenEncoding = "cl100k_base"

// TiktokenEncoding counts BPE tokens using tiktoken. BPE tokens map to fixed
// byte sequences that concatenate back to the original text, so the Decode
// contract above holds.
type TiktokenEncoding struct {
	name string
	tke  *tiktoken.Tiktoken
}

// NewTiktokenEncoding loads the named tiktoken encoding. An empty or unknown
// name falls back to cl100k_base.
func NewTiktokenEncoding(name string) (*TiktokenEncoding, error) {
	if name == "" {
		name = defaultTiktokenEncoding
	}
	tke, err := tiktoken.GetEncoding(name)
	if err != nil {
		tke, err = tiktoken.GetEncoding(defaultTiktokenEncoding)
		if err != nil {
			return nil, fmt.Errorf("load encoding %s: %w", defaultTiktokenEncoding, err)
		}
		name = defaultTiktokenEncoding
	}
	return &TiktokenEncoding{name: name, tke: tke}, nil
}

// Name returns the name of the encoding actually loaded.
func (e *TiktokenEncoding) Name() string {
	return e.name
}

func (e *TiktokenEncoding) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(e.tke.Encode(text, nil, nil))
}

func (e *TiktokenEncoding) Encode(text string) []int {
	return e.tke.Encode(text, nil, nil)
}

func (e *TiktokenEncoding) Decode(units []int) string {
	return e.tke.Decode(units)
}
