package dateparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEquivalentFormats(t *testing.T) {
	want := time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC)

	inputs := []string{
		"07/15/2025",
		"7/15/2025",
		"7-15-2025",
		"July 15, 2025",
		"July 15 2025",
		"Jul 15, 2025",
		"15 Jul 2025",
		"2025-07-15",
		"2025/07/15",
		"  July 15, 2025  ",
		"07/15/2025 7:30 PM",
	}
	for _, input := range inputs {
		got, ok := Parse(input)
		require.True(t, ok, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}
}

func TestParseYearFallback(t *testing.T) {
	got, ok := Parse("sometime in 2025")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestParseRejectsYearOutOfRange(t *testing.T) {
	_, ok := Parse("back in 1998")
	assert.False(t, ok)
}

func TestParseUnrecognized(t *testing.T) {
	for _, input := range []string{"", "   ", "not a date", "TBD"} {
		_, ok := Parse(input)
		assert.False(t, ok, "input %q", input)
	}
}

func TestParseNormalizesToMidnightUTC(t *testing.T) {
	got, ok := Parse("2025-07-15 19:30")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestExtractFromSurroundingText(t *testing.T) {
	want := time.Date(2025, time.August, 12, 0, 0, 0, 0, time.UTC)

	cases := []string{
		"Board of Supervisors Regular Meeting - August 12, 2025 at 6:30 PM",
		"Agenda packet for Aug 12, 2025 now available",
		"Meeting scheduled 8/12/2025 in Building F",
		"posted 2025-08-12 by the clerk",
	}
	for _, input := range cases {
		got, ok := Extract(input)
		require.True(t, ok, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}
}

func TestExtractNoBareYearFallback(t *testing.T) {
	_, ok := Extract("Adopted FY 2025 budget documents")
	assert.False(t, ok)
}

func TestExtractEmpty(t *testing.T) {
	_, ok := Extract("   ")
	assert.False(t, ok)
}
