// Package storage persists meeting records and ingestion logs through
// database/sql. The dialect is picked from the DSN: postgres:// URLs
// use lib/pq, anything else is treated as a SQLite file path, matching
// the dev/prod split the rest of the configuration assumes.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"AgendaScanner/internal/domain"
	"AgendaScanner/internal/ports"
)

const dateLayout = "2006-01-02"

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Timestamps are Unix seconds and dates are YYYY-MM-DD text so the
// schema behaves identically under both drivers.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS meeting_agendas (
		source_link          TEXT PRIMARY KEY,
		record_id            TEXT NOT NULL,
		source               TEXT NOT NULL,
		title                TEXT NOT NULL,
		meeting_date         TEXT,
		agenda_url           TEXT NOT NULL DEFAULT '',
		minutes_url          TEXT NOT NULL DEFAULT '',
		status               TEXT NOT NULL DEFAULT 'upcoming',
		raw_content          TEXT NOT NULL DEFAULT '',
		summary              TEXT NOT NULL DEFAULT '',
		highlights           TEXT NOT NULL DEFAULT '[]',
		processed            INTEGER NOT NULL DEFAULT 0,
		summary_generated_at BIGINT,
		created_at           BIGINT NOT NULL,
		updated_at           BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_meeting_agendas_date ON meeting_agendas (meeting_date)`,
	`CREATE INDEX IF NOT EXISTS idx_meeting_agendas_source ON meeting_agendas (source)`,
	`CREATE TABLE IF NOT EXISTS ingestion_logs (
		id           TEXT PRIMARY KEY,
		source       TEXT NOT NULL,
		status       TEXT NOT NULL,
		item_count   INTEGER NOT NULL DEFAULT 0,
		error_detail TEXT NOT NULL DEFAULT '',
		started_at   BIGINT NOT NULL,
		completed_at BIGINT
	)`,
}

var recordColumns = []string{
	"source_link", "record_id", "source", "title", "meeting_date",
	"agenda_url", "minutes_url", "status", "raw_content", "summary",
	"highlights", "processed", "summary_generated_at", "created_at", "updated_at",
}

// SQLStore implements ports.RecordStore over database/sql.
type SQLStore struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

var _ ports.RecordStore = (*SQLStore)(nil)

// Open connects using the driver implied by the DSN.
func Open(dsn string) (*SQLStore, error) {
	driver := "sqlite"
	placeholder := sq.PlaceholderFormat(sq.Question)
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver = "postgres"
		placeholder = sq.Dollar
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driver, err)
	}
	if driver == "sqlite" {
		// One writer; SQLite DSNs here are single-node files.
		db.SetMaxOpenConns(1)
	}

	return New(db, placeholder), nil
}

// New wires an existing database handle.
func New(db *sql.DB, placeholder sq.PlaceholderFormat) *SQLStore {
	return &SQLStore{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(placeholder).RunWith(db),
	}
}

// InitSchema creates tables and indexes if they do not exist.
func (s *SQLStore) InitSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// Close releases the underlying handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Ping reports store reachability.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// FindByLink returns the record with the given source link, or nil.
func (s *SQLStore) FindByLink(ctx context.Context, link string) (*domain.MeetingRecord, error) {
	row := s.sb.Select(recordColumns...).
		From("meeting_agendas").
		Where(sq.Eq{"source_link": link}).
		QueryRowContext(ctx)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by link: %w", err)
	}
	return rec, nil
}

// Upsert inserts or updates atomically on source_link. The insert path
// sets created_at; a conflicting row keeps its original created_at and
// takes every other field from the new record (last write wins at the
// store level; the pipeline never rewrites existing links).
func (s *SQLStore) Upsert(ctx context.Context, rec *domain.MeetingRecord) error {
	now := time.Now().UTC()

	highlights, err := marshalHighlights(rec.Highlights)
	if err != nil {
		return fmt.Errorf("marshal highlights: %w", err)
	}

	_, err = s.sb.Insert("meeting_agendas").
		Columns(recordColumns...).
		Values(
			rec.SourceLink,
			rec.RecordID,
			string(rec.Source),
			rec.Title,
			nullDate(rec.MeetingDate),
			rec.AgendaURL,
			rec.MinutesURL,
			string(rec.Status),
			rec.RawContent,
			rec.Summary,
			highlights,
			boolToInt(rec.Processed),
			nullUnix(rec.SummaryGeneratedAt),
			now.Unix(),
			now.Unix(),
		).
		Suffix(`ON CONFLICT (source_link) DO UPDATE SET
			record_id = excluded.record_id,
			title = excluded.title,
			meeting_date = excluded.meeting_date,
			agenda_url = excluded.agenda_url,
			minutes_url = excluded.minutes_url,
			status = excluded.status,
			raw_content = excluded.raw_content,
			summary = excluded.summary,
			highlights = excluded.highlights,
			processed = excluded.processed,
			summary_generated_at = excluded.summary_generated_at,
			updated_at = excluded.updated_at`).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}
	return nil
}

// List returns one page of records plus the total count for the
// filter. Ordering is meeting date descending with undated records
// last; DatedOnly excludes them instead.
func (s *SQLStore) List(ctx context.Context, filter domain.ListFilter) ([]domain.MeetingRecord, int, error) {
	conds := sq.And{}
	if filter.Source != "" {
		conds = append(conds, sq.Eq{"source": string(filter.Source)})
	}
	if filter.DatedOnly {
		conds = append(conds, sq.NotEq{"meeting_date": nil})
	}

	countQuery := s.sb.Select("COUNT(*)").From("meeting_agendas")
	if len(conds) > 0 {
		countQuery = countQuery.Where(conds)
	}
	var total int
	if err := countQuery.QueryRowContext(ctx).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count records: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	query := s.sb.Select(recordColumns...).
		From("meeting_agendas").
		OrderBy("meeting_date IS NULL", "meeting_date DESC", "created_at DESC").
		Limit(uint64(pageSize)).
		Offset(uint64((page - 1) * pageSize))
	if len(conds) > 0 {
		query = query.Where(conds)
	}

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []domain.MeetingRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate records: %w", err)
	}

	return records, total, nil
}

// Unprocessed returns records that still need an enrichment attempt,
// oldest first.
func (s *SQLStore) Unprocessed(ctx context.Context, limit int) ([]domain.MeetingRecord, error) {
	if limit < 1 {
		limit = 10
	}

	rows, err := s.sb.Select(recordColumns...).
		From("meeting_agendas").
		Where(sq.And{sq.Eq{"processed": 0}, sq.NotEq{"raw_content": ""}}).
		OrderBy("created_at ASC").
		Limit(uint64(limit)).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list unprocessed: %w", err)
	}
	defer rows.Close()

	var records []domain.MeetingRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan unprocessed: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// CountBySource returns stored record counts per source.
func (s *SQLStore) CountBySource(ctx context.Context) (map[domain.Source]int, error) {
	rows, err := s.sb.Select("source", "COUNT(*)").
		From("meeting_agendas").
		GroupBy("source").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by source: %w", err)
	}
	defer rows.Close()

	counts := map[domain.Source]int{}
	for rows.Next() {
		var (
			source string
			count  int
		)
		if err := rows.Scan(&source, &count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[domain.Source(source)] = count
	}
	return counts, rows.Err()
}

// AppendLog inserts a new run-log entry.
func (s *SQLStore) AppendLog(ctx context.Context, entry *domain.IngestionLog) error {
	_, err := s.sb.Insert("ingestion_logs").
		Columns("id", "source", "status", "item_count", "error_detail", "started_at", "completed_at").
		Values(
			entry.ID,
			entry.Source,
			string(entry.Status),
			entry.ItemCount,
			entry.ErrorDetail,
			entry.StartedAt.UTC().Unix(),
			nullUnix(entry.CompletedAt),
		).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("append log: %w", err)
	}
	return nil
}

// UpdateLog records the status transition of an existing entry.
func (s *SQLStore) UpdateLog(ctx context.Context, entry *domain.IngestionLog) error {
	_, err := s.sb.Update("ingestion_logs").
		Set("status", string(entry.Status)).
		Set("item_count", entry.ItemCount).
		Set("error_detail", entry.ErrorDetail).
		Set("completed_at", nullUnix(entry.CompletedAt)).
		Where(sq.Eq{"id": entry.ID}).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("update log: %w", err)
	}
	return nil
}

// RecentLogs returns the latest run-log entries, newest first.
func (s *SQLStore) RecentLogs(ctx context.Context, limit int) ([]domain.IngestionLog, error) {
	if limit < 1 {
		limit = 10
	}

	rows, err := s.sb.Select("id", "source", "status", "item_count", "error_detail", "started_at", "completed_at").
		From("ingestion_logs").
		OrderBy("started_at DESC", "id DESC").
		Limit(uint64(limit)).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("recent logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.IngestionLog
	for rows.Next() {
		var (
			entry       domain.IngestionLog
			status      string
			startedAt   int64
			completedAt sql.NullInt64
		)
		if err := rows.Scan(&entry.ID, &entry.Source, &status, &entry.ItemCount,
			&entry.ErrorDetail, &startedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		entry.Status = domain.RunStatus(status)
		entry.StartedAt = time.Unix(startedAt, 0).UTC()
		if completedAt.Valid {
			t := time.Unix(completedAt.Int64, 0).UTC()
			entry.CompletedAt = &t
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.MeetingRecord, error) {
	var (
		rec            domain.MeetingRecord
		source         string
		status         string
		meetingDate    sql.NullString
		highlightsJSON string
		processed      int
		summaryGenAt   sql.NullInt64
		createdAt      int64
		updatedAt      int64
	)

	err := row.Scan(
		&rec.SourceLink, &rec.RecordID, &source, &rec.Title, &meetingDate,
		&rec.AgendaURL, &rec.MinutesURL, &status, &rec.RawContent, &rec.Summary,
		&highlightsJSON, &processed, &summaryGenAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Source = domain.Source(source)
	rec.Status = domain.MeetingStatus(status)
	rec.Processed = processed != 0
	rec.CreatedAt = time.Unix(createdAt, 0).UTC()
	rec.UpdatedAt = time.Unix(updatedAt, 0).UTC()

	if meetingDate.Valid && meetingDate.String != "" {
		if t, err := time.Parse(dateLayout, meetingDate.String); err == nil {
			rec.MeetingDate = &t
		}
	}
	if summaryGenAt.Valid {
		t := time.Unix(summaryGenAt.Int64, 0).UTC()
		rec.SummaryGeneratedAt = &t
	}

	if highlightsJSON != "" {
		if err := json.Unmarshal([]byte(highlightsJSON), &rec.Highlights); err != nil {
			return nil, fmt.Errorf("decode highlights: %w", err)
		}
	}
	if rec.Processed && rec.Highlights == nil {
		rec.Highlights = []domain.Highlight{}
	}

	return &rec, nil
}

func marshalHighlights(highlights []domain.Highlight) (string, error) {
	if highlights == nil {
		highlights = []domain.Highlight{}
	}
	raw, err := json.Marshal(highlights)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func nullDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

func nullUnix(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Unix()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
