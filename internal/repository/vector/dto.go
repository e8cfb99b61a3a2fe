package vector

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/ragbase/ragbase/internal/domain"
)

// buildHashFields flattens a VectorEntry into HSET fields. The vector is
// stored as a little-endian float32 blob, matching the FT index TYPE.
func buildHashFields(e *domain.VectorEntry) map[string]string {
	return map[string]string{
		"doc_id":      e.Meta.DocID,
		"file_name":   e.Meta.FileName,
		"chunk_index": strconv.Itoa(e.Meta.ChunkIndex),
		"text":        e.Meta.Text,
		"full_text":   e.Meta.FullText,
		"vector":      vectorToBytes(e.Vector),
	}
}

// parseHashFields reads chunk metadata back out of returned hash fields.
func parseHashFields(fields map[string]string) domain.ChunkMeta {
	meta := domain.ChunkMeta{
		DocID:    fields["doc_id"],
		FileName: fields["file_name"],
		Text:     fields["text"],
		FullText: fields["full_text"],
	}
	if idx, err := strconv.Atoi(fields["chunk_index"]); err == nil {
		meta.ChunkIndex = idx
	}
	return meta
}

func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
