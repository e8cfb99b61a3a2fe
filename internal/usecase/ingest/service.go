// Package ingest turns an uploaded file into indexed, retrievable chunks.
package ingest

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ragbase/ragbase/internal/chunker"
	"github.com/ragbase/ragbase/internal/domain"
	"github.com/ragbase/ragbase/internal/logger"
)

// previewChars bounds the preview stored next to the full chunk text.
const previewChars = 1000

// Service handles document ingestion.
type Service struct {
	registry     Registry
	vectors      VectorWriter
	embed        Embedder
	maxChunkSize int
}

// New creates an ingestion service.
func New(registry Registry, vectors VectorWriter, embed Embedder) *Service {
	return &Service{
		registry:     registry,
		vectors:      vectors,
		embed:        embed,
		maxChunkSize: chunker.DefaultMaxChunkSize,
	}
}

// WithMaxChunkSize overrides the chunk-size target.
func (s *Service) WithMaxChunkSize(n int) *Service {
	if n > 0 {
		s.maxChunkSize = n
	}
	return s
}

// Ingest chunks rawText, embeds every chunk, batch-writes the vectors and
// registers the document last, so a registry record is only visible once
// its vectors exist. The reverse window (vectors without a record after a
// crash) is an accepted gap; there is no two-phase commit.
func (s *Service) Ingest(ctx context.Context, fileName, rawText string) (domain.Document, error) {
	docID := uuid.NewString()

	chunks := chunker.Split(rawText, s.maxChunkSize)
	if len(chunks) == 0 {
		return domain.Document{}, domain.ErrEmptyContent
	}

	entries := make([]domain.VectorEntry, len(chunks))
	for i, chunk := range chunks {
		result, err := s.embed.Embed(ctx, chunk)
		if err != nil {
			return domain.Document{}, fmt.Errorf("embed chunk %d: %w", i, err)
		}
		entries[i] = domain.VectorEntry{
			ID:     domain.VectorEntryID(docID, i),
			Vector: result.Embedding,
			Meta: domain.ChunkMeta{
				DocID:      docID,
				FileName:   fileName,
				ChunkIndex: i,
				Text:       preview(chunk),
				FullText:   chunk,
			},
		}
	}

	if err := s.vectors.UpsertBatch(ctx, entries); err != nil {
		return domain.Document{}, fmt.Errorf("index %d chunks: %w", len(entries), err)
	}

	doc := domain.Document{
		ID:         docID,
		FileName:   fileName,
		ChunkCount: len(chunks),
		UploadedAt: time.Now().UTC(),
	}
	if err := s.registry.Put(ctx, doc); err != nil {
		return domain.Document{}, fmt.Errorf("register document: %w", err)
	}

	logger.FromContext(ctx).Info("document ingested",
		zap.String("doc_id", docID),
		zap.String("file_name", fileName),
		zap.Int("chunks", len(chunks)),
	)

	return doc, nil
}

// preview truncates to previewChars bytes on a rune boundary.
func preview(s string) string {
	if len(s) <= previewChars {
		return s
	}
	cut := previewChars
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
