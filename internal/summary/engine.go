// Package summary turns raw agenda content into a prose summary plus a
// short list of highlight items. Generation runs through ordered tiers
// (generative, heuristic, placeholder); each tier either produces a
// final result or defers to the next, so no failure ever propagates.
package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"AgendaScanner/internal/domain"
	"AgendaScanner/internal/ports"
)

const (
	minContentChars  = 50
	maxHighlights    = 5
	maxAgendaItems   = 10
	maxAgendaLineLen = 200

	summaryPromptChars    = 4000
	highlightsPromptChars = 3000

	insufficientSummary = "Meeting agenda content is not available or too brief for analysis."
	unavailableNote     = "Note: This is a basic summary. AI-powered analysis is currently unavailable."
)

const summarySystemPrompt = "You are a skilled local news reporter who specializes in covering municipal " +
	"government meetings. Provide clear, informative summaries that help residents understand " +
	"what happened and why it matters."

const highlightsSystemPrompt = "You are a local news editor extracting key highlights. " +
	"Return only valid JSON format as requested."

// Keywords that flag a line as newsworthy in the offline tier.
var highlightKeywords = []string{"budget", "fund", "$", "ordinance", "resolution", "development", "zoning"}

// Engine implements ports.SummaryEngine.
type Engine struct {
	gen    ports.GenerationClient // nil runs fully offline
	logger *slog.Logger
}

var _ ports.SummaryEngine = (*Engine)(nil)

// NewEngine builds the engine; pass a nil client to disable the
// generative tier entirely (no network call is ever attempted then).
func NewEngine(gen ports.GenerationClient, logger *slog.Logger) *Engine {
	return &Engine{gen: gen, logger: logger}
}

type tier func(ctx context.Context, content, title, date string) (domain.Enrichment, bool)

// Summarize produces a summary and 0-5 highlights for the given
// content. The error return exists only to satisfy the port; it is
// always nil.
func (e *Engine) Summarize(ctx context.Context, content, title, date string) (domain.Enrichment, error) {
	trimmed := strings.TrimSpace(content)
	if len(trimmed) < minContentChars {
		return domain.Enrichment{
			Summary:    insufficientSummary,
			Highlights: []domain.Highlight{},
		}, nil
	}

	for _, t := range []tier{e.generative, e.heuristic} {
		if result, ok := t(ctx, trimmed, title, date); ok {
			return result, nil
		}
	}

	return placeholder(title, date), nil
}

// generative issues two independent backend calls: one for prose, one
// for JSON-constrained highlights. A failed prose call defers to the
// heuristic tier; a failed highlights call degrades within this tier.
func (e *Engine) generative(ctx context.Context, content, title, date string) (domain.Enrichment, bool) {
	if e.gen == nil {
		return domain.Enrichment{}, false
	}

	prose, err := e.gen.Complete(ctx, ports.GenerationRequest{
		SystemPrompt: summarySystemPrompt,
		UserPrompt:   buildSummaryPrompt(content, title, date),
		MaxTokens:    800,
		Temperature:  0.7,
	})
	if err != nil || prose == "" {
		e.warn("generative summary failed, degrading to heuristic tier", "error", err)
		return domain.Enrichment{}, false
	}

	highlights := e.generateHighlights(ctx, content, title, date)
	return domain.Enrichment{Summary: prose, Highlights: highlights}, true
}

func (e *Engine) generateHighlights(ctx context.Context, content, title, date string) []domain.Highlight {
	raw, err := e.gen.Complete(ctx, ports.GenerationRequest{
		SystemPrompt: highlightsSystemPrompt,
		UserPrompt:   buildHighlightsPrompt(content, title, date),
		MaxTokens:    500,
		Temperature:  0.5,
	})
	if err != nil {
		e.warn("highlights generation failed", "error", err)
		return []domain.Highlight{{Title: "Summary Available", Description: "See full summary for meeting details."}}
	}

	if parsed, ok := parseHighlightsJSON(raw); ok {
		return parsed
	}

	e.warn("highlights response was not valid JSON, splitting lines")
	return lineHighlights(raw)
}

// parseHighlightsJSON validates the backend's structured response
// instead of trusting it: entries need a non-empty description.
func parseHighlightsJSON(raw string) ([]domain.Highlight, bool) {
	cleaned := stripCodeFence(raw)

	var entries []domain.Highlight
	if err := json.Unmarshal([]byte(cleaned), &entries); err != nil {
		return nil, false
	}

	valid := make([]domain.Highlight, 0, len(entries))
	for _, h := range entries {
		if strings.TrimSpace(h.Description) == "" {
			continue
		}
		if strings.TrimSpace(h.Title) == "" {
			h.Title = "Meeting Item"
		}
		valid = append(valid, h)
		if len(valid) == maxHighlights {
			break
		}
	}
	if len(valid) == 0 {
		return nil, false
	}
	return valid, true
}

// lineHighlights synthesizes highlight entries from an unstructured
// response by stripping list markers and keeping substantial lines.
func lineHighlights(text string) []domain.Highlight {
	var highlights []domain.Highlight

	lines := strings.Split(text, "\n")
	for _, line := range lines {
		if len(highlights) == maxHighlights {
			break
		}
		clean := strings.TrimLeft(strings.TrimSpace(line), "•-*0123456789. \t")
		if len(clean) > 20 {
			highlights = append(highlights, domain.Highlight{
				Title:       "Meeting Item",
				Description: truncate(clean, 200),
			})
		}
	}

	if len(highlights) == 0 {
		return []domain.Highlight{{Title: "Meeting Summary", Description: truncate(strings.TrimSpace(text), 200)}}
	}
	return highlights
}

// heuristic is the fully offline tier: scan for agenda-marker lines and
// keyword-flagged highlights. Defers to the placeholder when the
// content has no recognizable agenda structure.
func (e *Engine) heuristic(_ context.Context, content, title, date string) (domain.Enrichment, bool) {
	var (
		items      []string
		highlights []domain.Highlight
	)

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || len(line) >= maxAgendaLineLen {
			continue
		}
		if !isAgendaMarker(line) {
			continue
		}

		items = append(items, line)
		if len(highlights) < maxHighlights && containsKeyword(line) {
			highlights = append(highlights, domain.Highlight{
				Title:       "Important Agenda Item",
				Description: truncate(line, 150),
			})
		}
	}

	if len(items) == 0 {
		return domain.Enrichment{}, false
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Meeting: %s\nDate: %s\n\nKey Agenda Items:\n", title, date)
	shown := len(items)
	if shown > maxAgendaItems {
		shown = maxAgendaItems
	}
	for _, item := range items[:shown] {
		fmt.Fprintf(&b, "• %s\n", item)
	}
	if len(items) > maxAgendaItems {
		fmt.Fprintf(&b, "... and %d additional items\n", len(items)-maxAgendaItems)
	}
	b.WriteString("\n" + unavailableNote)

	if highlights == nil {
		highlights = []domain.Highlight{}
	}
	return domain.Enrichment{Summary: b.String(), Highlights: highlights}, true
}

func placeholder(title, date string) domain.Enrichment {
	return domain.Enrichment{
		Summary: fmt.Sprintf("Meeting: %s\nDate: %s\n\nNo recognizable agenda items were found in the available content.\n\n%s",
			title, date, unavailableNote),
		Highlights: []domain.Highlight{},
	}
}

// isAgendaMarker recognizes lettered/numbered agenda lines and
// legislative keywords.
func isAgendaMarker(line string) bool {
	if len(line) >= 2 && line[1] == '.' {
		if line[0] >= 'A' && line[0] <= 'E' {
			return true
		}
		if line[0] >= '1' && line[0] <= '9' {
			return true
		}
	}
	return strings.Contains(line, "Resolution") ||
		strings.Contains(line, "Ordinance") ||
		strings.Contains(line, "$")
}

func containsKeyword(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range highlightKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func buildSummaryPrompt(content, title, date string) string {
	return fmt.Sprintf(`Please provide a comprehensive summary of this meeting agenda from %s on %s.

Focus on:
1. Key agenda items and their importance to the community
2. Major decisions, votes, or proposals
3. Public concerns or community issues discussed
4. Budget items, development projects, or policy changes
5. Any controversial or significant topics

Write in a clear, journalistic style that would be helpful for residents who want to stay informed about local government activities.

Meeting Content:
%s`, title, date, truncate(content, summaryPromptChars))
}

func buildHighlightsPrompt(content, title, date string) string {
	return fmt.Sprintf(`Extract 3-5 key highlights from this meeting agenda from %s on %s.

Return ONLY a JSON array of objects, each with "title" and "description" fields.
Focus on the most newsworthy items that residents would want to know about.

Example format:
[
    {"title": "New Park Development Approved", "description": "City council approved funding for a new community park in the downtown area."},
    {"title": "Budget Increase for Road Repairs", "description": "Additional $500,000 allocated for infrastructure improvements on Main Street."}
]

Meeting Content:
%s`, title, date, truncate(content, highlightsPromptChars))
}

// stripCodeFence removes a surrounding markdown fence if the backend
// wrapped its JSON in one.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func (e *Engine) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}
