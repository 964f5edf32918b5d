// Package scraper defines the per-site source contract and the shared
// fetch capability the concrete adapters are built on.
package scraper

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"AgendaScanner/internal/domain"
)

// RawMeeting is one meeting row extracted from a listing page before
// storage normalization. SourceLink is the future identity key; the
// RecordID is only deterministic per (date, title) and not unique
// across adapters.
type RawMeeting struct {
	RecordID   string
	Source     domain.Source
	Title      string
	Date       *time.Time
	SourceLink string
	AgendaURL  string
	MinutesURL string
	Status     domain.MeetingStatus
	// RawContent may be prefilled by adapters that already know the
	// textual content (e.g. document-only sources); otherwise the
	// pipeline fetches it from SourceLink.
	RawContent string
}

// Request carries the parameters for one scrape pass.
type Request struct {
	Now        time.Time
	MaxAgeDays int
}

// Cutoff is the oldest meeting date the request still accepts.
func (r Request) Cutoff() time.Time {
	return r.Now.AddDate(0, 0, -r.MaxAgeDays)
}

// Source is a single site adapter. Implementations convert every fetch
// or parse failure into a synthetic fallback sequence; a non-nil error
// indicates the adapter could not even do that.
type Source interface {
	Name() domain.Source
	FetchRecent(ctx context.Context, req Request) ([]RawMeeting, error)
}

// Registry keeps a mapping from source names to their implementations.
type Registry struct {
	order   []domain.Source
	sources map[domain.Source]Source
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: map[domain.Source]Source{}}
}

// Register adds or replaces a source implementation.
func (r *Registry) Register(src Source) {
	if r.sources == nil {
		r.sources = map[domain.Source]Source{}
	}
	if _, ok := r.sources[src.Name()]; !ok {
		r.order = append(r.order, src.Name())
	}
	r.sources[src.Name()] = src
}

// Resolve returns a source by name or an error if it is absent.
func (r *Registry) Resolve(name domain.Source) (Source, error) {
	if src, ok := r.sources[name]; ok {
		return src, nil
	}
	return nil, fmt.Errorf("source %s is not registered", name)
}

// All returns the registered sources in registration order.
func (r *Registry) All() []Source {
	out := make([]Source, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.sources[name])
	}
	return out
}

// RecordID derives a stable identifier from date and title. Two
// adapters can collide on it, so storage identity stays on SourceLink.
func RecordID(prefix string, date *time.Time, title string) string {
	h := fnv.New32a()
	if date != nil {
		_, _ = h.Write([]byte(date.Format("2006-01-02")))
	}
	_, _ = h.Write([]byte("_"))
	_, _ = h.Write([]byte(title))
	return fmt.Sprintf("%s_%04d", prefix, h.Sum32()%10000)
}
