package content

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func servePage(t *testing.T, page string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, page)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchTextPrefersKnownContainers(t *testing.T) {
	srv := servePage(t, `<html><body>
	<nav>Site navigation that should not leak into content</nav>
	<div class="meeting-content">
		1. CALL TO ORDER

		2. APPROVAL OF MINUTES
	</div>
	<footer>Copyright notice</footer>
	</body></html>`)

	f := NewFetcher(nil, nil)
	text := f.FetchText(context.Background(), srv.URL)

	assert.Equal(t, "1. CALL TO ORDER\n2. APPROVAL OF MINUTES", text)
}

func TestFetchTextContainerOrder(t *testing.T) {
	srv := servePage(t, `<html><body>
	<div id="content">generic page content</div>
	<div class="agenda-content">A. Resolution 2025-15</div>
	</body></html>`)

	f := NewFetcher(nil, nil)
	text := f.FetchText(context.Background(), srv.URL)

	assert.Equal(t, "A. Resolution 2025-15", text, "agenda container outranks the generic one")
}

func TestFetchTextSkipsEmptyContainer(t *testing.T) {
	srv := servePage(t, `<html><body>
	<div class="meeting-content">   </div>
	<div id="content">B. Ordinance 2025-07</div>
	</body></html>`)

	f := NewFetcher(nil, nil)
	text := f.FetchText(context.Background(), srv.URL)

	assert.Equal(t, "B. Ordinance 2025-07", text)
}

func TestFetchTextBodyFallbackIsCapped(t *testing.T) {
	long := strings.Repeat("agenda line with enough words to matter\n", 300)
	srv := servePage(t, "<html><body><p>"+long+"</p></body></html>")

	f := NewFetcher(nil, nil)
	text := f.FetchText(context.Background(), srv.URL)

	require.NotEmpty(t, text)
	assert.LessOrEqual(t, len(text), 5000)
	assert.True(t, strings.HasPrefix(text, "agenda line"))
}

func TestFetchTextFailuresReturnEmpty(t *testing.T) {
	f := NewFetcher(nil, nil)

	assert.Empty(t, f.FetchText(context.Background(), ""))
	assert.Empty(t, f.FetchText(context.Background(), "   "))

	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)
	assert.Empty(t, f.FetchText(context.Background(), srv.URL+"/missing"))

	closed := httptest.NewServer(http.NotFoundHandler())
	closed.Close()
	assert.Empty(t, f.FetchText(context.Background(), closed.URL))
}
