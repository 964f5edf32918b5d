package domain

import "time"

// Source identifies which municipal site a record came from.
type Source string

const (
	SourceWilliamsburg Source = "williamsburg"
	SourceJamesCity    Source = "jamescity"
)

// Valid reports whether the source is one of the known sites.
func (s Source) Valid() bool {
	return s == SourceWilliamsburg || s == SourceJamesCity
}

// MeetingStatus tells whether minutes are already published for a meeting.
type MeetingStatus string

const (
	StatusUpcoming  MeetingStatus = "upcoming"
	StatusCompleted MeetingStatus = "completed"
)

// Highlight is a single newsworthy item extracted from an agenda.
type Highlight struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// MeetingRecord is the normalized meeting agenda persisted for consumers.
// SourceLink is the identity key; no two stored records share it.
type MeetingRecord struct {
	RecordID    string
	Source      Source
	Title       string
	MeetingDate *time.Time // nil when the source date was unparseable
	SourceLink  string
	AgendaURL   string
	MinutesURL  string
	Status      MeetingStatus

	RawContent string
	Summary    string
	Highlights []Highlight

	// Processed flips to true once an enrichment attempt completed,
	// whether it used the generation backend or a fallback tier.
	Processed          bool
	SummaryGeneratedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Enrichment is the output of a summarization attempt.
type Enrichment struct {
	Summary    string
	Highlights []Highlight
}

// RunStatus tracks one ingestion invocation.
type RunStatus string

const (
	RunRunning RunStatus = "running"
	RunSuccess RunStatus = "success"
	RunError   RunStatus = "error"
)

// IngestionLog is an append-only record of a pipeline invocation.
type IngestionLog struct {
	ID          string
	Source      string
	Status      RunStatus
	ItemCount   int
	ErrorDetail string
	StartedAt   time.Time
	CompletedAt *time.Time
}

// ListFilter narrows and pages record listings. Ordering is always
// meeting date descending; undated records sort last unless DatedOnly
// excludes them.
type ListFilter struct {
	Source    Source // empty = all sources
	DatedOnly bool
	Page      int // 1-based
	PageSize  int
}

// Health reports reachability of the external collaborators.
type Health struct {
	StoreReachable      bool
	GenerationReachable bool
}
