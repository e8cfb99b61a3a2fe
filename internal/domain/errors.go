package domain

import "errors"

var (
	// ErrEmptyContent signals an upload with no extractable text.
	ErrEmptyContent = errors.New("no text content found in file")
	// ErrEmptyQuery signals a blank query.
	ErrEmptyQuery = errors.New("no query provided")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrEmbeddingUnavailable signals an embedding provider failure.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
	// ErrIndexWriteFailed signals a vector index write failure.
	ErrIndexWriteFailed = errors.New("vector index write failed")
	// ErrIndexQueryFailed signals a vector index query failure.
	ErrIndexQueryFailed = errors.New("vector index query failed")
	// ErrStorageUnavailable signals a document registry storage failure.
	ErrStorageUnavailable = errors.New("document storage unavailable")
	// ErrGenerationUnavailable signals a generation provider failure.
	ErrGenerationUnavailable = errors.New("generation service unavailable")
)
