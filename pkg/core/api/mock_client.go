// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/caselight/legalqa-gw/pkg/vectorstore"
)

// MockEmbeddingClient is a deterministic EmbeddingClient for testing.
// Identical inputs always produce identical vectors.
type MockEmbeddingClient struct {
	Dimensions int
	// FailInputs lists inputs whose embedding should fail.
	FailInputs map[string]bool
}

// NewMockEmbeddingClient creates a mock embedder with the given dimensionality.
func NewMockEmbeddingClient(dimensions int) *MockEmbeddingClient {
	return &MockEmbeddingClient{Dimensions: dimensions}
}

// Embed returns hash-derived vectors for each input.
func (m *MockEmbeddingClient) Embed(_ context.Context, inputs []string) ([][]float32, error) {
	out := make([][]float32, len(inputs))
	for i, input := range inputs {
		if m.FailInputs[input] {
			return nil, fmt.Errorf("mock embedding failure for input %d", i)
		}
		vec := make([]float32, m.Dimensions)
		h := fnv.New32a()
		h.Write([]byte(input))
		seed := h.Sum32()
		for j := range vec {
			seed = seed*1664525 + 1013904223
			vec[j] = float32(seed%1000) / 1000.0
		}
		out[i] = vec
	}
	return out, nil
}

// MockAnswerClient is an AnswerClient for testing. It echoes the question
// and reports how many context chunks it received.
type MockAnswerClient struct{}

// NewMockAnswerClient creates a new mock answer client.
func NewMockAnswerClient() *MockAnswerClient {
	return &MockAnswerClient{}
}

// GenerateAnswer returns a canned answer with real source citations.
func (m *MockAnswerClient) GenerateAnswer(_ context.Context, question string, results []vectorstore.SearchResult) (*Answer, error) {
	return &Answer{
		Text:    fmt.Sprintf("Mock answer to %q based on %d chunks", question, len(results)),
		Sources: ExtractSources(results),
	}, nil
}
