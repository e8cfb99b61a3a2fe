package domain

import (
	"fmt"
	"time"
)

// KeyPrefix namespaces every key this service writes to the store.
const KeyPrefix = "ragbase:"

// Document is the registry record for one ingested file.
// Immutable after creation; removed only by full deletion.
type Document struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	ChunkCount int       `json:"chunkCount"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// ChunkMeta is the metadata stored alongside each chunk vector.
// Text is a bounded preview; FullText is the complete chunk.
type ChunkMeta struct {
	DocID      string
	FileName   string
	ChunkIndex int
	Text       string
	FullText   string
}

// VectorEntry is one indexed chunk: its ID, embedding and metadata.
type VectorEntry struct {
	ID     string
	Vector []float32
	Meta   ChunkMeta
}

// Match is a single KNN hit, score in [0,1], higher is closer.
type Match struct {
	ID    string
	Score float64
	Meta  ChunkMeta
}

// VectorEntryID builds the deterministic vector ID for a chunk.
// Deletion reconstructs the full ID set from this scheme, so it must
// stay in sync with ingestion.
func VectorEntryID(docID string, chunkIndex int) string {
	return fmt.Sprintf("%s-%d", docID, chunkIndex)
}
