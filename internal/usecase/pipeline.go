package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"AgendaScanner/internal/domain"
	"AgendaScanner/internal/ports"
	"AgendaScanner/internal/scraper"
)

// Content shorter than this (after trimming) is not worth enriching.
const minEnrichableChars = 50

// PipelineDeps wires all driven adapters into the ingestion pipeline.
type PipelineDeps struct {
	Sources    []scraper.Source
	Store      ports.RecordStore
	Content    ports.ContentFetcher
	Engine     ports.SummaryEngine
	Generation ports.GenerationClient
	MaxAgeDays int
	Logger     *slog.Logger
}

// Pipeline implements the ingest-normalize-enrich-upsert workflow. One
// invocation is one unit of work; idempotence comes from skipping
// links that already exist in the store.
type Pipeline struct {
	sources    []scraper.Source
	store      ports.RecordStore
	content    ports.ContentFetcher
	engine     ports.SummaryEngine
	generation ports.GenerationClient
	maxAgeDays int
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	maxAge := deps.MaxAgeDays
	if maxAge <= 0 {
		maxAge = 30
	}
	return &Pipeline{
		sources:    deps.Sources,
		store:      deps.Store,
		content:    deps.Content,
		engine:     deps.Engine,
		generation: deps.Generation,
		maxAgeDays: maxAge,
		logger:     deps.Logger,
	}
}

// RunIngestion executes one full pass: scrape every source, skip
// already-stored links, fetch content and enrich new records, upsert,
// and track the run in the ingestion log. Source failures are isolated
// per adapter; only store failures abort the invocation.
func (p *Pipeline) RunIngestion(ctx context.Context) (*domain.IngestionLog, error) {
	entry := &domain.IngestionLog{
		ID:        ulid.Make().String(),
		Source:    "all",
		Status:    domain.RunRunning,
		StartedAt: time.Now().UTC(),
	}
	if err := p.store.AppendLog(ctx, entry); err != nil {
		return nil, fmt.Errorf("append run log: %w", err)
	}

	total := 0
	req := scraper.Request{Now: time.Now().UTC(), MaxAgeDays: p.maxAgeDays}

	for _, src := range p.sources {
		raws, err := src.FetchRecent(ctx, req)
		if err != nil {
			// Adapters self-protect with fallback data; if one still
			// fails, the others proceed.
			p.error("source failed", "source", src.Name(), "error", err)
			continue
		}
		p.debug("source produced records", "source", src.Name(), "count", len(raws))

		for i := range raws {
			stored, err := p.processRaw(ctx, &raws[i])
			if err != nil {
				return p.failRun(ctx, entry, err), err
			}
			if stored {
				total++
			}
		}
	}

	now := time.Now().UTC()
	entry.Status = domain.RunSuccess
	entry.ItemCount = total
	entry.CompletedAt = &now
	if err := p.store.UpdateLog(ctx, entry); err != nil {
		return entry, fmt.Errorf("update run log: %w", err)
	}

	p.debug("ingestion complete", "items", total)
	return entry, nil
}

// processRaw normalizes and stores one scraped row. The returned error
// is always a store failure; enrichment problems downgrade the record
// instead.
func (p *Pipeline) processRaw(ctx context.Context, raw *scraper.RawMeeting) (bool, error) {
	existing, err := p.store.FindByLink(ctx, raw.SourceLink)
	if err != nil {
		return false, fmt.Errorf("find %s: %w", raw.SourceLink, err)
	}
	if existing != nil {
		p.debug("record already stored", "link", raw.SourceLink)
		return false, nil
	}

	rec := &domain.MeetingRecord{
		RecordID:    raw.RecordID,
		Source:      raw.Source,
		Title:       raw.Title,
		MeetingDate: raw.Date,
		SourceLink:  raw.SourceLink,
		AgendaURL:   raw.AgendaURL,
		MinutesURL:  raw.MinutesURL,
		Status:      raw.Status,
		RawContent:  raw.RawContent,
	}

	if rec.RawContent == "" && p.content != nil {
		rec.RawContent = p.content.FetchText(ctx, rec.SourceLink)
	}

	p.enrich(ctx, rec)

	if err := p.store.Upsert(ctx, rec); err != nil {
		return false, fmt.Errorf("upsert %s: %w", rec.SourceLink, err)
	}
	return true, nil
}

// enrich runs the summary engine when there is enough content. A
// failed attempt leaves the record stored with Processed=false so the
// missing-summaries sweep can retry it later.
func (p *Pipeline) enrich(ctx context.Context, rec *domain.MeetingRecord) {
	if p.engine == nil {
		return
	}
	if len(strings.TrimSpace(rec.RawContent)) < minEnrichableChars {
		return
	}

	result, err := p.engine.Summarize(ctx, rec.RawContent, rec.Title, dateString(rec))
	if err != nil {
		p.error("enrichment failed", "link", rec.SourceLink, "error", err)
		rec.Processed = false
		return
	}

	now := time.Now().UTC()
	rec.Summary = result.Summary
	rec.Highlights = result.Highlights
	rec.Processed = true
	rec.SummaryGeneratedAt = &now
}

// RunMissingSummaries re-attempts enrichment for stored records whose
// previous attempt did not complete. It never touches records that
// were skipped as duplicates.
func (p *Pipeline) RunMissingSummaries(ctx context.Context, limit int) (int, error) {
	records, err := p.store.Unprocessed(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("load unprocessed: %w", err)
	}

	processed := 0
	for i := range records {
		rec := &records[i]
		if len(strings.TrimSpace(rec.RawContent)) < minEnrichableChars {
			continue
		}

		p.enrich(ctx, rec)
		if !rec.Processed {
			continue
		}

		if err := p.store.Upsert(ctx, rec); err != nil {
			return processed, fmt.Errorf("upsert %s: %w", rec.SourceLink, err)
		}
		processed++
	}

	p.debug("missing-summaries sweep complete", "processed", processed)
	return processed, nil
}

// Health reports reachability of the store and generation backend.
func (p *Pipeline) Health(ctx context.Context) domain.Health {
	h := domain.Health{}
	if p.store != nil && p.store.Ping(ctx) == nil {
		h.StoreReachable = true
	}
	if p.generation != nil {
		h.GenerationReachable = p.generation.Reachable(ctx)
	}
	return h
}

func (p *Pipeline) failRun(ctx context.Context, entry *domain.IngestionLog, cause error) *domain.IngestionLog {
	now := time.Now().UTC()
	entry.Status = domain.RunError
	entry.ErrorDetail = cause.Error()
	entry.CompletedAt = &now
	if err := p.store.UpdateLog(ctx, entry); err != nil {
		p.error("cannot record failed run", "error", err)
	}
	return entry
}

func dateString(rec *domain.MeetingRecord) string {
	if rec.MeetingDate == nil {
		return ""
	}
	return rec.MeetingDate.Format("2006-01-02")
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

func (p *Pipeline) error(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Error(msg, args...)
	}
}
