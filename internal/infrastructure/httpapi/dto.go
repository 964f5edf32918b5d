package httpapi

import (
	"time"

	"AgendaScanner/internal/domain"
)

type HighlightResponse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type MeetingResponse struct {
	RecordID    string              `json:"record_id"`
	Source      string              `json:"source"`
	Title       string              `json:"title"`
	MeetingDate *string             `json:"meeting_date"`
	SourceLink  string              `json:"source_link"`
	AgendaURL   string              `json:"agenda_url,omitempty"`
	MinutesURL  string              `json:"minutes_url,omitempty"`
	Status      string              `json:"status"`
	Summary     string              `json:"summary,omitempty"`
	Highlights  []HighlightResponse `json:"highlights"`
	Processed   bool                `json:"processed"`
	CreatedAt   string              `json:"created_at"`
	UpdatedAt   string              `json:"updated_at"`
}

type MeetingListResponse struct {
	Meetings []MeetingResponse `json:"meetings"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

type IngestionLogResponse struct {
	ID          string  `json:"id"`
	Source      string  `json:"source"`
	Status      string  `json:"status"`
	ItemCount   int     `json:"item_count"`
	ErrorDetail string  `json:"error_detail,omitempty"`
	StartedAt   string  `json:"started_at"`
	CompletedAt *string `json:"completed_at"`
}

type HealthResponse struct {
	Status              string `json:"status"`
	StoreReachable      bool   `json:"store_reachable"`
	GenerationReachable bool   `json:"generation_backend_reachable"`
	Timestamp           string `json:"timestamp"`
}

func toMeetingResponse(rec domain.MeetingRecord) MeetingResponse {
	var meetingDate *string
	if rec.MeetingDate != nil {
		d := rec.MeetingDate.Format("2006-01-02")
		meetingDate = &d
	}

	highlights := make([]HighlightResponse, 0, len(rec.Highlights))
	for _, h := range rec.Highlights {
		highlights = append(highlights, HighlightResponse{Title: h.Title, Description: h.Description})
	}

	return MeetingResponse{
		RecordID:    rec.RecordID,
		Source:      string(rec.Source),
		Title:       rec.Title,
		MeetingDate: meetingDate,
		SourceLink:  rec.SourceLink,
		AgendaURL:   rec.AgendaURL,
		MinutesURL:  rec.MinutesURL,
		Status:      string(rec.Status),
		Summary:     rec.Summary,
		Highlights:  highlights,
		Processed:   rec.Processed,
		CreatedAt:   rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   rec.UpdatedAt.Format(time.RFC3339),
	}
}

func toLogResponse(entry domain.IngestionLog) IngestionLogResponse {
	var completed *string
	if entry.CompletedAt != nil {
		c := entry.CompletedAt.Format(time.RFC3339)
		completed = &c
	}

	return IngestionLogResponse{
		ID:          entry.ID,
		Source:      entry.Source,
		Status:      string(entry.Status),
		ItemCount:   entry.ItemCount,
		ErrorDetail: entry.ErrorDetail,
		StartedAt:   entry.StartedAt.Format(time.RFC3339),
		CompletedAt: completed,
	}
}
