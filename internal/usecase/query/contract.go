package query

import (
	"context"

	"github.com/ragbase/ragbase/internal/domain"
)

// VectorSearcher retrieves the nearest chunks for a query vector,
// descending by similarity score.
type VectorSearcher interface {
	Query(ctx context.Context, vector []float32, topK int) ([]domain.Match, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Generator produces a model response from a system instruction and one
// user turn.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userText string, maxTokens int) (string, error)
}
