package scraper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AgendaScanner/internal/domain"
)

type stubSource struct{ name domain.Source }

func (s stubSource) Name() domain.Source { return s.name }

func (s stubSource) FetchRecent(context.Context, Request) ([]RawMeeting, error) {
	return nil, nil
}

func TestRegistryPreservesOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(stubSource{name: domain.SourceJamesCity})
	r.Register(stubSource{name: domain.SourceWilliamsburg})

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, domain.SourceJamesCity, all[0].Name())
	assert.Equal(t, domain.SourceWilliamsburg, all[1].Name())
}

func TestRegistryReplaceKeepsSlot(t *testing.T) {
	r := NewRegistry()
	r.Register(stubSource{name: domain.SourceWilliamsburg})
	r.Register(stubSource{name: domain.SourceJamesCity})
	r.Register(stubSource{name: domain.SourceWilliamsburg})

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, domain.SourceWilliamsburg, all[0].Name())
}

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry()
	r.Register(stubSource{name: domain.SourceWilliamsburg})

	src, err := r.Resolve(domain.SourceWilliamsburg)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceWilliamsburg, src.Name())

	_, err = r.Resolve(domain.SourceJamesCity)
	assert.Error(t, err)
}

func TestRecordIDDeterministic(t *testing.T) {
	date := time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC)

	a := RecordID("wb", &date, "City Council Regular Meeting")
	b := RecordID("wb", &date, "City Council Regular Meeting")
	assert.Equal(t, a, b)
	assert.Regexp(t, `^wb_\d{4}$`, a)

	other := RecordID("wb", &date, "Planning Commission Meeting")
	assert.NotEqual(t, a, other)

	undated := RecordID("jc", nil, "Board Work Session")
	assert.Regexp(t, `^jc_\d{4}$`, undated)
}

func TestRequestCutoff(t *testing.T) {
	req := Request{
		Now:        time.Date(2025, time.July, 20, 0, 0, 0, 0, time.UTC),
		MaxAgeDays: 30,
	}
	assert.Equal(t, time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC), req.Cutoff())
}
