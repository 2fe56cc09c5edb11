// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/caselight/legalqa-gw/pkg/vectorstore"
)

// legalSystemPrompt instructs the model to answer strictly from the
// retrieved document context and cite the sections it relied on.
const legalSystemPrompt = `You are a legal research assistant. Answer questions using ONLY the provided context from legal documents.

Rules:
- Base every statement on the context. If the context does not contain the answer, say so plainly.
- Cite the source number and section title for each claim, e.g. [Source 2, SECTION 4. TERMINATION].
- Quote contract language exactly when the precise wording matters.
- Do not provide legal advice; describe what the documents say.`

// maxContextChars caps the formatted context passed to the model.
const maxContextChars = 30000

// sourcePreviewRunes is how much chunk text is kept in source citations.
const sourcePreviewRunes = 200

// Source is a citation for one retrieved chunk used to ground an answer.
type Source struct {
	Number      int
	DocumentID  string
	ChunkID     string
	Section     string
	TextPreview string
	Score       float64
}

// Answer is a generated response with the sources that grounded it.
type Answer struct {
	Text    string
	Sources []Source
}

// AnswerClient generates grounded answers from retrieved chunks.
type AnswerClient interface {
	GenerateAnswer(ctx context.Context, question string, results []vectorstore.SearchResult) (*Answer, error)
}

// OpenAIAnswerClient implements AnswerClient using chat completions.
// Works against OpenAI, Ollama, vLLM, and other compatible backends.
type OpenAIAnswerClient struct {
	client    openai.Client
	model     string
	maxTokens int
}

// NewOpenAIAnswerClient creates an answer client with its own base URL and API key.
func NewOpenAIAnswerClient(baseURL, apiKey, model string, maxTokens int) *OpenAIAnswerClient {
	opts := []option.RequestOption{}

	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	} else {
		opts = append(opts, option.WithAPIKey("dummy"))
	}

	return &OpenAIAnswerClient{
		client:    openai.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
	}
}

// GenerateAnswer builds a context block from the search results, asks the
// model, and returns the answer with per-source citations.
func (c *OpenAIAnswerClient) GenerateAnswer(ctx context.Context, question string, results []vectorstore.SearchResult) (*Answer, error) {
	contextBlock := buildContext(results, maxContextChars)

	userPrompt := fmt.Sprintf("CONTEXT FROM DOCUMENTS:\n%s\n\nQUESTION: %s\n\nPlease answer based on the provided context. Include specific references to the source sections.", contextBlock, question)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(legalSystemPrompt),
			openai.UserMessage(userPrompt),
		},
	}
	if c.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.maxTokens))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("answer request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("answer request returned no choices")
	}

	return &Answer{
		Text:    resp.Choices[0].Message.Content,
		Sources: ExtractSources(results),
	}, nil
}

// buildContext formats retrieved chunks into a numbered context block,
// stopping before maxChars is exceeded.
func buildContext(results []vectorstore.SearchResult, maxChars int) string {
	var parts []string
	currentLength := 0

	for i, r := range results {
		section := r.SectionTitle
		if section == "" {
			section = "Unknown Section"
		}
		part := fmt.Sprintf("[Source %d] (Section: %s, Relevance: %.2f)\n%s\n---", i+1, section, r.Score, r.Content)

		if currentLength+len(part) > maxChars {
			break
		}
		parts = append(parts, part)
		currentLength += len(part)
	}

	return strings.Join(parts, "\n\n")
}

// ExtractSources converts search results into citation records.
func ExtractSources(results []vectorstore.SearchResult) []Source {
	sources := make([]Source, 0, len(results))
	for i, r := range results {
		preview := r.Content
		if runes := []rune(preview); len(runes) > sourcePreviewRunes {
			preview = string(runes[:sourcePreviewRunes]) + "..."
		}
		sources = append(sources, Source{
			Number:      i + 1,
			DocumentID:  r.DocumentID,
			ChunkID:     r.ChunkID,
			Section:     r.SectionTitle,
			TextPreview: preview,
			Score:       r.Score,
		})
	}
	return sources
}
