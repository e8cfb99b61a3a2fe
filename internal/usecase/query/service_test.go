package query

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ragbase/ragbase/internal/domain"
)

// --- Mocks ---

type mockEmbedder struct {
	vector []float32
	err    error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vector}, nil
}

type mockSearcher struct {
	matches  []domain.Match
	err      error
	lastTopK int
}

func (m *mockSearcher) Query(_ context.Context, _ []float32, topK int) ([]domain.Match, error) {
	m.lastTopK = topK
	return m.matches, m.err
}

type mockGenerator struct {
	response         string
	err              error
	calls            int
	lastSystemPrompt string
	lastUserText     string
	lastMaxTokens    int
}

func (m *mockGenerator) Generate(_ context.Context, systemPrompt, userText string, maxTokens int) (string, error) {
	m.calls++
	m.lastSystemPrompt = systemPrompt
	m.lastUserText = userText
	m.lastMaxTokens = maxTokens
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func match(id, fileName, text, fullText string, score float64) domain.Match {
	return domain.Match{
		ID:    id,
		Score: score,
		Meta: domain.ChunkMeta{
			DocID:    strings.SplitN(id, "-", 2)[0],
			FileName: fileName,
			Text:     text,
			FullText: fullText,
		},
	}
}

// --- Tests ---

func TestQuery_Success(t *testing.T) {
	searcher := &mockSearcher{matches: []domain.Match{
		match("d1-0", "a.txt", "preview one", "full one", 0.92),
		match("d2-3", "b.txt", "preview two", "full two", 0.81),
	}}
	generator := &mockGenerator{response: "Answer from context."}
	svc := New(&mockEmbedder{vector: []float32{1, 2}}, searcher, generator)

	result, err := svc.Query(context.Background(), "what is one?", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Query != "what is one?" {
		t.Errorf("unexpected query echo %q", result.Query)
	}
	if result.Response != "Answer from context." {
		t.Errorf("unexpected response %q", result.Response)
	}
	if len(result.Retrieved) != 2 {
		t.Fatalf("expected 2 retrieved chunks, got %d", len(result.Retrieved))
	}
	if result.Retrieved[0].Text != "full one" || result.Retrieved[0].Score != 0.92 {
		t.Errorf("unexpected first chunk %+v", result.Retrieved[0])
	}
	if generator.lastUserText != "what is one?" {
		t.Errorf("expected raw query as user text, got %q", generator.lastUserText)
	}
	if generator.lastMaxTokens != DefaultMaxTokens {
		t.Errorf("expected maxTokens=%d, got %d", DefaultMaxTokens, generator.lastMaxTokens)
	}
}

func TestQuery_ContextFormat(t *testing.T) {
	searcher := &mockSearcher{matches: []domain.Match{
		match("d1-0", "a.txt", "", "Alpha text", 0.9),
		match("d2-0", "b.txt", "", "Beta text", 0.8),
	}}
	generator := &mockGenerator{response: "ok"}
	svc := New(&mockEmbedder{vector: []float32{1}}, searcher, generator)

	if _, err := svc.Query(context.Background(), "q", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantContext := "[Document 1: a.txt]\nAlpha text\n\n[Document 2: b.txt]\nBeta text"
	wantPrompt := fmt.Sprintf(systemPromptFormat, wantContext)
	if generator.lastSystemPrompt != wantPrompt {
		t.Errorf("unexpected system prompt:\ngot:  %q\nwant: %q", generator.lastSystemPrompt, wantPrompt)
	}
}

func TestQuery_PreviewFallback(t *testing.T) {
	// Entries indexed before full_text existed carry only the preview.
	searcher := &mockSearcher{matches: []domain.Match{
		match("d1-0", "a.txt", "preview only", "", 0.9),
	}}
	svc := New(&mockEmbedder{vector: []float32{1}}, searcher, &mockGenerator{response: "ok"})

	result, err := svc.Query(context.Background(), "q", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Retrieved[0].Text != "preview only" {
		t.Errorf("expected preview fallback, got %q", result.Retrieved[0].Text)
	}
}

func TestQuery_Empty(t *testing.T) {
	svc := New(&mockEmbedder{}, &mockSearcher{}, &mockGenerator{})

	for _, q := range []string{"", "   ", "\n\t"} {
		if _, err := svc.Query(context.Background(), q, 0); !errors.Is(err, domain.ErrEmptyQuery) {
			t.Errorf("query %q: expected ErrEmptyQuery, got %v", q, err)
		}
	}
}

func TestQuery_NoMatchesSkipsGeneration(t *testing.T) {
	generator := &mockGenerator{}
	svc := New(&mockEmbedder{vector: []float32{1}}, &mockSearcher{}, generator)

	result, err := svc.Query(context.Background(), "anything", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if generator.calls != 0 {
		t.Error("generator must not be called when retrieval is empty")
	}
	if result.Retrieved == nil || len(result.Retrieved) != 0 {
		t.Errorf("expected empty non-nil retrieved slice, got %v", result.Retrieved)
	}
	if result.Response != noContextResponse {
		t.Errorf("unexpected fallback response %q", result.Response)
	}
}

func TestQuery_TopKDefaultsAndOverrides(t *testing.T) {
	searcher := &mockSearcher{}
	svc := New(&mockEmbedder{vector: []float32{1}}, searcher, &mockGenerator{})

	if _, err := svc.Query(context.Background(), "q", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if searcher.lastTopK != DefaultTopK {
		t.Errorf("expected default topK=%d, got %d", DefaultTopK, searcher.lastTopK)
	}

	if _, err := svc.Query(context.Background(), "q", 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if searcher.lastTopK != 7 {
		t.Errorf("expected topK=7, got %d", searcher.lastTopK)
	}

	if _, err := svc.Query(context.Background(), "q", -1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if searcher.lastTopK != DefaultTopK {
		t.Errorf("expected default topK for negative input, got %d", searcher.lastTopK)
	}
}

func TestQuery_EmbedFailure(t *testing.T) {
	svc := New(&mockEmbedder{err: domain.ErrEmbeddingUnavailable}, &mockSearcher{}, &mockGenerator{})

	_, err := svc.Query(context.Background(), "q", 0)
	if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
		t.Fatalf("expected ErrEmbeddingUnavailable, got %v", err)
	}
}

func TestQuery_SearchFailure(t *testing.T) {
	searcher := &mockSearcher{err: domain.ErrIndexQueryFailed}
	svc := New(&mockEmbedder{vector: []float32{1}}, searcher, &mockGenerator{})

	_, err := svc.Query(context.Background(), "q", 0)
	if !errors.Is(err, domain.ErrIndexQueryFailed) {
		t.Fatalf("expected ErrIndexQueryFailed, got %v", err)
	}
}

func TestQuery_GenerateFailure(t *testing.T) {
	searcher := &mockSearcher{matches: []domain.Match{
		match("d1-0", "a.txt", "p", "f", 0.5),
	}}
	generator := &mockGenerator{err: domain.ErrGenerationUnavailable}
	svc := New(&mockEmbedder{vector: []float32{1}}, searcher, generator)

	_, err := svc.Query(context.Background(), "q", 0)
	if !errors.Is(err, domain.ErrGenerationUnavailable) {
		t.Fatalf("expected ErrGenerationUnavailable, got %v", err)
	}
}
