package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AgendaScanner/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeLister struct {
	records []domain.MeetingRecord
	total   int
	filter  domain.ListFilter
	logs    []domain.IngestionLog
	err     error
}

func (f *fakeLister) List(_ context.Context, filter domain.ListFilter) ([]domain.MeetingRecord, int, error) {
	f.filter = filter
	return f.records, f.total, f.err
}

func (f *fakeLister) RecentLogs(context.Context, int) ([]domain.IngestionLog, error) {
	return f.logs, f.err
}

type fakeIngestor struct {
	entry  *domain.IngestionLog
	err    error
	health domain.Health
	runs   int
}

func (f *fakeIngestor) RunIngestion(context.Context) (*domain.IngestionLog, error) {
	f.runs++
	return f.entry, f.err
}

func (f *fakeIngestor) Health(context.Context) domain.Health { return f.health }

func perform(t *testing.T, srv *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func sampleMeeting() domain.MeetingRecord {
	date := time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC)
	return domain.MeetingRecord{
		RecordID:    "wb_0042",
		Source:      domain.SourceWilliamsburg,
		Title:       "City Council Regular Meeting",
		MeetingDate: &date,
		SourceLink:  "https://example.com/meetings/1",
		Status:      domain.StatusCompleted,
		Summary:     "The council met.",
		Highlights:  []domain.Highlight{{Title: "Budget", Description: "FY26 amendment discussed."}},
		Processed:   true,
		CreatedAt:   date,
		UpdatedAt:   date,
	}
}

func TestGetMeetings(t *testing.T) {
	lister := &fakeLister{records: []domain.MeetingRecord{sampleMeeting()}, total: 1}
	srv := NewServer(lister, &fakeIngestor{}, nil)

	w := perform(t, srv, http.MethodGet, "/api/meetings?source=williamsburg&page=2&page_size=5&dated_only=true")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, domain.ListFilter{
		Source:    domain.SourceWilliamsburg,
		DatedOnly: true,
		Page:      2,
		PageSize:  5,
	}, lister.filter)

	var resp MeetingListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 5, resp.PageSize)
	require.Len(t, resp.Meetings, 1)

	m := resp.Meetings[0]
	assert.Equal(t, "wb_0042", m.RecordID)
	assert.Equal(t, "williamsburg", m.Source)
	require.NotNil(t, m.MeetingDate)
	assert.Equal(t, "2025-07-15", *m.MeetingDate)
	assert.Equal(t, "completed", m.Status)
	require.Len(t, m.Highlights, 1)
	assert.Equal(t, "Budget", m.Highlights[0].Title)
	assert.True(t, m.Processed)
}

func TestGetMeetingsDefaultsAndUndated(t *testing.T) {
	rec := sampleMeeting()
	rec.MeetingDate = nil
	lister := &fakeLister{records: []domain.MeetingRecord{rec}, total: 1}
	srv := NewServer(lister, &fakeIngestor{}, nil)

	w := perform(t, srv, http.MethodGet, "/api/meetings")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, domain.ListFilter{Page: 1, PageSize: 20}, lister.filter)

	var resp MeetingListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Meetings, 1)
	assert.Nil(t, resp.Meetings[0].MeetingDate)
}

func TestGetMeetingsRejectsUnknownSource(t *testing.T) {
	lister := &fakeLister{}
	srv := NewServer(lister, &fakeIngestor{}, nil)

	w := perform(t, srv, http.MethodGet, "/api/meetings?source=atlantis")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMeetingsStoreError(t *testing.T) {
	lister := &fakeLister{err: errors.New("connection reset")}
	srv := NewServer(lister, &fakeIngestor{}, discardLogger())

	w := perform(t, srv, http.MethodGet, "/api/meetings")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetHealth(t *testing.T) {
	ing := &fakeIngestor{health: domain.Health{StoreReachable: true, GenerationReachable: true}}
	srv := NewServer(&fakeLister{}, ing, nil)

	w := perform(t, srv, http.MethodGet, "/api/health")
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.True(t, resp.StoreReachable)
	assert.True(t, resp.GenerationReachable)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestGetHealthStoreDown(t *testing.T) {
	ing := &fakeIngestor{health: domain.Health{StoreReachable: false}}
	srv := NewServer(&fakeLister{}, ing, nil)

	w := perform(t, srv, http.MethodGet, "/api/health")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "unhealthy", resp.Status)
}

func TestGetLogs(t *testing.T) {
	started := time.Date(2025, time.July, 15, 12, 0, 0, 0, time.UTC)
	completed := started.Add(30 * time.Second)
	lister := &fakeLister{logs: []domain.IngestionLog{{
		ID:          "run-1",
		Source:      "all",
		Status:      domain.RunSuccess,
		ItemCount:   4,
		StartedAt:   started,
		CompletedAt: &completed,
	}}}
	srv := NewServer(lister, &fakeIngestor{}, nil)

	w := perform(t, srv, http.MethodGet, "/api/ingest/logs")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Logs []IngestionLogResponse `json:"logs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Logs, 1)
	assert.Equal(t, "run-1", resp.Logs[0].ID)
	assert.Equal(t, "success", resp.Logs[0].Status)
	assert.Equal(t, 4, resp.Logs[0].ItemCount)
	require.NotNil(t, resp.Logs[0].CompletedAt)
}

func TestPostIngest(t *testing.T) {
	completed := time.Date(2025, time.July, 15, 12, 0, 30, 0, time.UTC)
	ing := &fakeIngestor{entry: &domain.IngestionLog{
		ID:          "run-2",
		Source:      "all",
		Status:      domain.RunSuccess,
		ItemCount:   3,
		StartedAt:   completed.Add(-30 * time.Second),
		CompletedAt: &completed,
	}}
	srv := NewServer(&fakeLister{}, ing, nil)

	w := perform(t, srv, http.MethodPost, "/api/ingest")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, ing.runs)

	var resp struct {
		Log IngestionLogResponse `json:"log"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "run-2", resp.Log.ID)
	assert.Equal(t, 3, resp.Log.ItemCount)
}

func TestPostIngestFailure(t *testing.T) {
	ing := &fakeIngestor{
		entry: &domain.IngestionLog{ID: "run-3", Status: domain.RunError, ErrorDetail: "disk full"},
		err:   errors.New("disk full"),
	}
	srv := NewServer(&fakeLister{}, ing, discardLogger())

	w := perform(t, srv, http.MethodPost, "/api/ingest")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp struct {
		Error string               `json:"error"`
		Log   IngestionLogResponse `json:"log"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "disk full", resp.Error)
	assert.Equal(t, "run-3", resp.Log.ID)
}
