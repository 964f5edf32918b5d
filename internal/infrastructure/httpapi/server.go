// Package httpapi exposes the read and trigger surface consumed by the
// frontend and operators.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"AgendaScanner/internal/domain"
)

// RecordLister is the read-side slice of the record store the API needs.
type RecordLister interface {
	List(ctx context.Context, filter domain.ListFilter) ([]domain.MeetingRecord, int, error)
	RecentLogs(ctx context.Context, limit int) ([]domain.IngestionLog, error)
}

// Ingestor triggers pipeline runs and reports collaborator health.
type Ingestor interface {
	RunIngestion(ctx context.Context) (*domain.IngestionLog, error)
	Health(ctx context.Context) domain.Health
}

// Server hosts the JSON API.
type Server struct {
	records  RecordLister
	ingestor Ingestor
	logger   *slog.Logger
}

// NewServer wires the API dependencies.
func NewServer(records RecordLister, ingestor Ingestor, logger *slog.Logger) *Server {
	return &Server{records: records, ingestor: ingestor, logger: logger}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.GET("/health", s.getHealth)
	api.GET("/meetings", s.getMeetings)
	api.GET("/ingest/logs", s.getLogs)
	api.POST("/ingest", s.postIngest)

	return r
}

// Run serves the API until the listener fails.
func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}

func (s *Server) getHealth(c *gin.Context) {
	h := s.ingestor.Health(c.Request.Context())

	status := http.StatusOK
	label := "healthy"
	if !h.StoreReachable {
		status = http.StatusServiceUnavailable
		label = "unhealthy"
	}

	c.JSON(status, HealthResponse{
		Status:              label,
		StoreReachable:      h.StoreReachable,
		GenerationReachable: h.GenerationReachable,
		Timestamp:           time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) getMeetings(c *gin.Context) {
	filter := domain.ListFilter{
		Page:      queryInt(c, "page", 1),
		PageSize:  queryInt(c, "page_size", 20),
		DatedOnly: c.Query("dated_only") == "true",
	}

	if src := c.Query("source"); src != "" {
		source := domain.Source(src)
		if !source.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown source"})
			return
		}
		filter.Source = source
	}

	records, total, err := s.records.List(c.Request.Context(), filter)
	if err != nil {
		s.logger.Error("error listing meetings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	meetings := make([]MeetingResponse, 0, len(records))
	for _, rec := range records {
		meetings = append(meetings, toMeetingResponse(rec))
	}

	c.JSON(http.StatusOK, MeetingListResponse{
		Meetings: meetings,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	})
}

func (s *Server) getLogs(c *gin.Context) {
	logs, err := s.records.RecentLogs(c.Request.Context(), queryInt(c, "limit", 10))
	if err != nil {
		s.logger.Error("error listing ingestion logs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	out := make([]IngestionLogResponse, 0, len(logs))
	for _, entry := range logs {
		out = append(out, toLogResponse(entry))
	}
	c.JSON(http.StatusOK, gin.H{"logs": out})
}

func (s *Server) postIngest(c *gin.Context) {
	entry, err := s.ingestor.RunIngestion(c.Request.Context())
	if err != nil {
		s.logger.Error("manual ingestion failed", "error", err)
		resp := gin.H{"error": err.Error()}
		if entry != nil {
			resp["log"] = toLogResponse(*entry)
		}
		c.JSON(http.StatusInternalServerError, resp)
		return
	}

	c.JSON(http.StatusOK, gin.H{"log": toLogResponse(*entry)})
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
