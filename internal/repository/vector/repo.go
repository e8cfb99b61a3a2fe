// Package vector persists chunk embeddings in the FT vector index.
package vector

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ragbase/ragbase/internal/db"
	"github.com/ragbase/ragbase/internal/domain"
)

const (
	indexName      = domain.KeyPrefix + "chunks:idx"
	chunkKeyPrefix = domain.KeyPrefix + "chunk:"
)

// store is the consumer interface for the vector index (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	DelMulti(ctx context.Context, keys []string) error
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// HNSWConfig holds HNSW index build parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Repo implements the vector index over FT.SEARCH.
type Repo struct {
	store store
	dim   int
	hnsw  HNSWConfig
}

// New creates a vector index repository for vectors of the given dimension.
func New(s store, dim int) *Repo {
	return &Repo{store: s, dim: dim}
}

// WithHNSW overrides HNSW build parameters.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	r.hnsw = cfg
	return r
}

// EnsureIndex creates the chunk index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, indexName)
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	if exists {
		return nil
	}

	def, err := db.NewIndex(indexName).
		Prefix(chunkKeyPrefix).
		Tag("doc_id").
		Numeric("chunk_index").
		VectorHNSW("vector", r.dim, db.DistanceCosine, r.hnsw.M, r.hnsw.EFConstruct).
		Build()
	if err != nil {
		return fmt.Errorf("build index definition: %w", err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// UpsertBatch writes all entries in one pipelined batch.
func (r *Repo) UpsertBatch(ctx context.Context, entries []domain.VectorEntry) error {
	if len(entries) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, len(entries))
	for i, e := range entries {
		items[i] = db.HashSetItem{
			Key:    chunkKey(e.ID),
			Fields: buildHashFields(&e),
		}
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("upsert %d entries: %w: %w", len(entries), domain.ErrIndexWriteFailed, err)
	}
	return nil
}

// Query returns the topK nearest entries, descending by similarity score.
func (r *Repo) Query(ctx context.Context, vector []float32, topK int) ([]domain.Match, error) {
	result, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName: indexName,
		Vector:    vector,
		K:         topK,
		ReturnFields: []string{
			"doc_id", "file_name", "chunk_index", "text", "full_text", "__vector_score",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("knn search: %w: %w", domain.ErrIndexQueryFailed, err)
	}

	matches := make([]domain.Match, 0, len(result.Entries))
	for _, entry := range result.Entries {
		matches = append(matches, domain.Match{
			ID:    strings.TrimPrefix(entry.Key, chunkKeyPrefix),
			Score: entry.Score,
			Meta:  parseHashFields(entry.Fields),
		})
	}
	return matches, nil
}

// DeleteBatch removes the given entry IDs in one batch.
func (r *Repo) DeleteBatch(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = chunkKey(id)
	}

	if err := r.store.DelMulti(ctx, keys); err != nil {
		return fmt.Errorf("delete %d entries: %w: %w", len(ids), domain.ErrIndexWriteFailed, err)
	}
	return nil
}

func chunkKey(id string) string {
	return chunkKeyPrefix + id
}
