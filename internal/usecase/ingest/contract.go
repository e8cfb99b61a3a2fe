package ingest

import (
	"context"

	"github.com/ragbase/ragbase/internal/domain"
)

// Registry persists document metadata records.
type Registry interface {
	Put(ctx context.Context, doc domain.Document) error
}

// VectorWriter writes chunk embeddings to the vector index.
type VectorWriter interface {
	UpsertBatch(ctx context.Context, entries []domain.VectorEntry) error
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
