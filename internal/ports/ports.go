package ports

import (
	"context"

	"AgendaScanner/internal/domain"
)

// RecordStore is the durable table of normalized meeting records, keyed
// by source link, plus the ingestion run log.
type RecordStore interface {
	// FindByLink returns nil, nil when no record has the link.
	FindByLink(ctx context.Context, link string) (*domain.MeetingRecord, error)
	// Upsert inserts or updates atomically on source_link so concurrent
	// invocations cannot produce duplicate rows.
	Upsert(ctx context.Context, rec *domain.MeetingRecord) error
	List(ctx context.Context, filter domain.ListFilter) ([]domain.MeetingRecord, int, error)
	// Unprocessed returns records with content but no completed
	// enrichment attempt, oldest first.
	Unprocessed(ctx context.Context, limit int) ([]domain.MeetingRecord, error)
	CountBySource(ctx context.Context) (map[domain.Source]int, error)

	AppendLog(ctx context.Context, entry *domain.IngestionLog) error
	UpdateLog(ctx context.Context, entry *domain.IngestionLog) error
	RecentLogs(ctx context.Context, limit int) ([]domain.IngestionLog, error)

	Ping(ctx context.Context) error
}

// GenerationRequest is one call to the text-generation backend.
type GenerationRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float32
}

// GenerationClient talks to the external text-generation backend.
type GenerationClient interface {
	Complete(ctx context.Context, req GenerationRequest) (string, error)
	Reachable(ctx context.Context) bool
}

// SummaryEngine produces a prose summary plus highlight items for raw
// agenda content. Implementations degrade internally; backend or
// content problems never surface as errors.
type SummaryEngine interface {
	Summarize(ctx context.Context, content, title, date string) (domain.Enrichment, error)
}

// ContentFetcher retrieves best-effort text for a detail page. It
// returns "" on any failure and never an error.
type ContentFetcher interface {
	FetchText(ctx context.Context, url string) string
}

// Trigger starts recurring pipeline executions.
type Trigger interface {
	Start(ctx context.Context, job func()) error
	Stop(ctx context.Context) error
}
