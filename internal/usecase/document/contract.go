package document

import (
	"context"

	"github.com/ragbase/ragbase/internal/domain"
)

// Registry reads and removes document metadata records.
type Registry interface {
	Get(ctx context.Context, id string) (domain.Document, error)
	List(ctx context.Context) ([]domain.Document, error)
	Delete(ctx context.Context, id string) error
}

// VectorDeleter removes chunk embeddings from the vector index.
type VectorDeleter interface {
	DeleteBatch(ctx context.Context, ids []string) error
}
