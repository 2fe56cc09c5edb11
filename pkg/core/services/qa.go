// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package services

import (
	"context"
	"fmt"

	"github.com/caselight/legalqa-gw/pkg/core/api"
	"github.com/caselight/legalqa-gw/pkg/observability/logging"
	"github.com/caselight/legalqa-gw/pkg/vectorstore"
)

// noContextAnswer is returned without calling the model when retrieval
// finds nothing to ground an answer on.
const noContextAnswer = "No relevant passages were found in the indexed documents for this question."

// QAService answers questions against a vector index.
type QAService struct {
	embedder    api.EmbeddingClient
	backend     vectorstore.Backend
	answers     api.AnswerClient
	defaultTopK int
	logger      *logging.Logger
}

// NewQAService creates a QAService.
func NewQAService(embedder api.EmbeddingClient, backend vectorstore.Backend, answers api.AnswerClient, defaultTopK int, logger *logging.Logger) (*QAService, error) {
	if embedder == nil || backend == nil || answers == nil {
		return nil, fmt.Errorf("qa service: all dependencies are required")
	}
	if defaultTopK <= 0 {
		defaultTopK = 5
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &QAService{
		embedder:    embedder,
		backend:     backend,
		answers:     answers,
		defaultTopK: defaultTopK,
		logger:      logger,
	}, nil
}

// Search embeds the query and returns the top-K most similar chunks.
func (s *QAService) Search(ctx context.Context, indexID, query string, topK int) ([]vectorstore.SearchResult, error) {
	if topK <= 0 {
		topK = s.defaultTopK
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embed query: expected 1 vector, got %d", len(vectors))
	}

	results, err := s.backend.Search(ctx, indexID, vectors[0], topK)
	if err != nil {
		return nil, fmt.Errorf("search index %s: %w", indexID, err)
	}
	return results, nil
}

// Ask retrieves context for the question and generates a grounded answer.
// When retrieval comes back empty the model is not called at all.
func (s *QAService) Ask(ctx context.Context, indexID, question string, topK int) (*api.Answer, error) {
	results, err := s.Search(ctx, indexID, question, topK)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		s.logger.Info("no context retrieved for question", "index_id", indexID)
		return &api.Answer{Text: noContextAnswer}, nil
	}

	answer, err := s.answers.GenerateAnswer(ctx, question, results)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	s.logger.Info("question answered",
		"index_id", indexID, "chunks_used", len(results))

	return answer, nil
}
