package domain

// RetrievedChunk is one retrieved context unit returned to the caller.
type RetrievedChunk struct {
	Text     string  `json:"text"`
	FileName string  `json:"fileName"`
	Score    float64 `json:"score"`
}

// QueryResult is the outcome of one RAG query. Ephemeral, never persisted.
type QueryResult struct {
	Query     string
	Retrieved []RetrievedChunk
	Response  string
}
