// Package dateparse normalizes the free-text dates found on municipal
// meeting pages into calendar dates.
package dateparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Known layouts tried in order; first match wins. Go's non-padded
// numeric verbs ("1", "2") also accept zero-padded values, so "07/15/2025"
// and "7/15/2025" hit the same layout.
var layouts = []string{
	"1/2/2006 3:04 PM",
	"1/2/2006",
	"1-2-2006",
	"January 2, 2006 3:04 PM",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
}

var (
	yearExpr      = regexp.MustCompile(`\b(20\d{2})\b`)
	longMonthExpr = regexp.MustCompile(`(?i)(January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}`)
	abbrMonthExpr = regexp.MustCompile(`(?i)(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+\d{1,2},?\s+\d{4}`)
	slashExpr     = regexp.MustCompile(`\d{1,2}[-/]\d{1,2}[-/]\d{4}`)
	isoExpr       = regexp.MustCompile(`\d{4}-\d{1,2}-\d{1,2}`)
)

// Parse converts a date string into a UTC calendar date (midnight).
// If no full layout matches it degrades to a bare-year scan in
// [2000,2099] and returns January 1 of that year. The second return is
// false when nothing matched at all; Parse never fails otherwise.
func Parse(text string) (time.Time, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return day(t), true
		}
	}

	if m := yearExpr.FindString(s); m != "" {
		year, err := strconv.Atoi(m)
		if err == nil && year >= 2000 && year <= 2099 {
			return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), true
		}
	}

	return time.Time{}, false
}

// Extract finds the first recognizable date substring inside arbitrary
// text (section bodies, document titles) and parses it. Unlike Parse it
// does not degrade to a bare year: page text is full of unrelated years.
func Extract(text string) (time.Time, bool) {
	if strings.TrimSpace(text) == "" {
		return time.Time{}, false
	}

	for _, expr := range []*regexp.Regexp{longMonthExpr, abbrMonthExpr, slashExpr, isoExpr} {
		if m := expr.FindString(text); m != "" {
			if t, ok := parseExact(m); ok {
				return t, true
			}
		}
	}

	return time.Time{}, false
}

// parseExact is Parse without the year fallback, for extracted substrings.
func parseExact(s string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return day(t), true
		}
	}
	return time.Time{}, false
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
