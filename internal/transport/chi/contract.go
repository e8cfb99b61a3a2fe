package chi

import (
	"context"

	"github.com/ragbase/ragbase/internal/domain"
	healthuc "github.com/ragbase/ragbase/internal/usecase/health"
)

// IngestService turns uploaded text into an indexed document.
type IngestService interface {
	Ingest(ctx context.Context, fileName, rawText string) (domain.Document, error)
}

// QueryService answers a question over the indexed corpus.
type QueryService interface {
	Query(ctx context.Context, text string, topK int) (domain.QueryResult, error)
}

// DocumentService lists and deletes ingested documents.
type DocumentService interface {
	List(ctx context.Context) ([]domain.Document, error)
	Delete(ctx context.Context, id string) (domain.Document, error)
}

// HealthService reports component health.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}
