// Package query answers a question by retrieving the most relevant chunks
// and conditioning the generation model on them.
package query

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ragbase/ragbase/internal/domain"
	"github.com/ragbase/ragbase/internal/logger"
)

const (
	// DefaultTopK is the number of nearest chunks retrieved per query.
	DefaultTopK = 3
	// DefaultMaxTokens bounds the generated response length.
	DefaultMaxTokens = 500
)

// noContextResponse is returned without calling the model when retrieval
// finds nothing: skipping generation saves cost and avoids hallucinating
// over empty context.
const noContextResponse = "I don't have any relevant information in the knowledge base " +
	"to answer this question. Please upload some documents first."

const systemPromptFormat = `You are a helpful assistant that answers questions based on the provided context.
Use the following context to answer the user's question.
If the context doesn't contain relevant information, say so.
Always cite which document the information came from.

Context:
%s`

// Service handles RAG queries. Each query is independent; no conversation
// history is carried.
type Service struct {
	embed     Embedder
	vectors   VectorSearcher
	generate  Generator
	topK      int
	maxTokens int
}

// New creates a query service.
func New(embed Embedder, vectors VectorSearcher, generate Generator) *Service {
	return &Service{
		embed:     embed,
		vectors:   vectors,
		generate:  generate,
		topK:      DefaultTopK,
		maxTokens: DefaultMaxTokens,
	}
}

// WithTopK overrides the default retrieval depth.
func (s *Service) WithTopK(k int) *Service {
	if k > 0 {
		s.topK = k
	}
	return s
}

// WithMaxTokens overrides the generation token limit.
func (s *Service) WithMaxTokens(n int) *Service {
	if n > 0 {
		s.maxTokens = n
	}
	return s
}

// Query embeds text, retrieves the topK nearest chunks and generates a
// grounded response. topK <= 0 selects the service default.
func (s *Service) Query(ctx context.Context, text string, topK int) (domain.QueryResult, error) {
	if strings.TrimSpace(text) == "" {
		return domain.QueryResult{}, domain.ErrEmptyQuery
	}
	if topK <= 0 {
		topK = s.topK
	}

	embResult, err := s.embed.Embed(ctx, text)
	if err != nil {
		return domain.QueryResult{}, fmt.Errorf("embed query: %w", err)
	}

	matches, err := s.vectors.Query(ctx, embResult.Embedding, topK)
	if err != nil {
		return domain.QueryResult{}, fmt.Errorf("retrieve context: %w", err)
	}

	retrieved := toRetrieved(matches)

	if len(retrieved) == 0 {
		return domain.QueryResult{
			Query:     text,
			Retrieved: []domain.RetrievedChunk{},
			Response:  noContextResponse,
		}, nil
	}

	systemPrompt := fmt.Sprintf(systemPromptFormat, buildContext(retrieved))

	response, err := s.generate.Generate(ctx, systemPrompt, text, s.maxTokens)
	if err != nil {
		return domain.QueryResult{}, fmt.Errorf("generate response: %w", err)
	}

	logger.FromContext(ctx).Info("query answered",
		zap.Int("top_k", topK),
		zap.Int("retrieved", len(retrieved)),
	)

	return domain.QueryResult{
		Query:     text,
		Retrieved: retrieved,
		Response:  response,
	}, nil
}

// toRetrieved maps matches in retrieval-rank order, preferring the full
// chunk text over the bounded preview.
func toRetrieved(matches []domain.Match) []domain.RetrievedChunk {
	retrieved := make([]domain.RetrievedChunk, len(matches))
	for i, m := range matches {
		text := m.Meta.FullText
		if text == "" {
			text = m.Meta.Text
		}
		retrieved[i] = domain.RetrievedChunk{
			Text:     text,
			FileName: m.Meta.FileName,
			Score:    m.Score,
		}
	}
	return retrieved
}

// buildContext labels each chunk with its source document, highest
// similarity first, blocks separated by a blank line.
func buildContext(retrieved []domain.RetrievedChunk) string {
	blocks := make([]string, len(retrieved))
	for i, c := range retrieved {
		blocks[i] = fmt.Sprintf("[Document %d: %s]\n%s", i+1, c.FileName, c.Text)
	}
	return strings.Join(blocks, "\n\n")
}
