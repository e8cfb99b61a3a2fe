// Package document exposes registry operations over ingested documents.
package document

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ragbase/ragbase/internal/domain"
	"github.com/ragbase/ragbase/internal/logger"
)

// Service handles document listing and deletion.
type Service struct {
	registry Registry
	vectors  VectorDeleter
}

// New creates a document service.
func New(registry Registry, vectors VectorDeleter) *Service {
	return &Service{registry: registry, vectors: vectors}
}

// List returns all registered documents. Order is unspecified.
func (s *Service) List(ctx context.Context) ([]domain.Document, error) {
	docs, err := s.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Delete removes a document's vectors and then its registry record, so
// metadata never references vectors that are already gone. Orphaned
// vectors after a failed record delete are an accepted gap. Returns the
// deleted record.
func (s *Service) Delete(ctx context.Context, id string) (domain.Document, error) {
	doc, err := s.registry.Get(ctx, id)
	if err != nil {
		return domain.Document{}, fmt.Errorf("lookup document: %w", err)
	}

	ids := make([]string, doc.ChunkCount)
	for i := range ids {
		ids[i] = domain.VectorEntryID(id, i)
	}

	if err := s.vectors.DeleteBatch(ctx, ids); err != nil {
		return domain.Document{}, fmt.Errorf("delete vectors: %w", err)
	}

	if err := s.registry.Delete(ctx, id); err != nil {
		return domain.Document{}, fmt.Errorf("delete record: %w", err)
	}

	logger.FromContext(ctx).Info("document deleted",
		zap.String("doc_id", id),
		zap.String("file_name", doc.FileName),
		zap.Int("chunks", doc.ChunkCount),
	)

	return doc, nil
}
