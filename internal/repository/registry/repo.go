// Package registry persists document metadata records in the KV store.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ragbase/ragbase/internal/db"
	"github.com/ragbase/ragbase/internal/domain"
)

const docKeyPrefix = domain.KeyPrefix + "doc:"

// store is the consumer interface for the registry (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the document registry over a key-value store.
type Repo struct {
	store store
}

// New creates a document registry.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Put stores a document record.
func (r *Repo) Put(ctx context.Context, doc domain.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", doc.ID, err)
	}
	if err := r.store.Set(ctx, docKey(doc.ID), data); err != nil {
		return fmt.Errorf("put document %s: %w: %w", doc.ID, domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Get returns a document record by ID.
func (r *Repo) Get(ctx context.Context, id string) (domain.Document, error) {
	data, err := r.store.Get(ctx, docKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Document{}, domain.ErrDocumentNotFound
		}
		return domain.Document{}, fmt.Errorf("get document %s: %w: %w", id, domain.ErrStorageUnavailable, err)
	}

	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Document{}, fmt.Errorf("unmarshal document %s: %w", id, err)
	}
	return doc, nil
}

// List returns all document records. Order is unspecified.
func (r *Repo) List(ctx context.Context) ([]domain.Document, error) {
	keys, err := r.store.Scan(ctx, docKeyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan documents: %w: %w", domain.ErrStorageUnavailable, err)
	}

	docs := make([]domain.Document, 0, len(keys))
	for _, key := range keys {
		data, err := r.store.Get(ctx, key)
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				continue // deleted between scan and get
			}
			return nil, fmt.Errorf("get %s: %w: %w", key, domain.ErrStorageUnavailable, err)
		}

		var doc domain.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			continue // skip unreadable records rather than failing the listing
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// Delete removes a document record.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, docKey(id)); err != nil {
		return fmt.Errorf("delete document %s: %w: %w", id, domain.ErrStorageUnavailable, err)
	}
	return nil
}

func docKey(id string) string {
	return docKeyPrefix + id
}
