package page

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHTML = `<html><body>
<button id="open" aria-label="Show transcript">...</button>
<div class="description">Some Video Description</div>
</body></html>`

func TestSnapshotPageFind(t *testing.T) {
	p, err := NewSnapshotPage(sampleHTML)
	require.NoError(t, err)

	els := p.Find("button")
	require.Len(t, els, 1)
	assert.Equal(t, "Show transcript", els[0].Label())

	assert.Empty(t, p.Find(".missing"))
}

func TestSnapshotPageFindByText(t *testing.T) {
	p, err := NewSnapshotPage(sampleHTML)
	require.NoError(t, err)

	el := p.FindByText("button", "show transcript")
	require.NotNil(t, el)
	assert.Equal(t, "open", el.Attr("id"))

	assert.Nil(t, p.FindByText("button", "captions"))

	// Visible text is matched when there is no aria-label.
	el = p.FindByText("div", "video description")
	require.NotNil(t, el)
}

func TestSnapshotPageClickReaction(t *testing.T) {
	p, err := NewSnapshotPage(sampleHTML)
	require.NoError(t, err)

	p.OnClick("#open", func() {
		p.AppendBody(`<div id="panel">panel content</div>`)
	})

	el := p.FindByText("button", "show transcript")
	require.NotNil(t, el)
	require.NoError(t, p.Click(context.Background(), el))

	require.Len(t, p.Find("#panel"), 1)
}

func TestSnapshotPageClickNoReaction(t *testing.T) {
	p, err := NewSnapshotPage(sampleHTML)
	require.NoError(t, err)

	el := p.FindByText("button", "show transcript")
	require.NotNil(t, el)
	assert.NoError(t, p.Click(context.Background(), el))
}

func TestWaitForAlreadyPresent(t *testing.T) {
	p, err := NewSnapshotPage(sampleHTML)
	require.NoError(t, err)

	el, err := p.WaitFor(context.Background(), "#open", 50*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "Show transcript", el.Label())
}

func TestWaitForAppearsLater(t *testing.T) {
	p, err := NewSnapshotPage(sampleHTML)
	require.NoError(t, err)

	go func() {
		time.Sleep(20 * time.Millisecond)
		p.AppendBody(`<div id="late">here</div>`)
	}()

	el, err := p.WaitFor(context.Background(), "#late", 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "here", el.Text())
}

func TestWaitForTimeout(t *testing.T) {
	p, err := NewSnapshotPage(sampleHTML)
	require.NoError(t, err)

	start := time.Now()
	_, err = p.WaitFor(context.Background(), "#never", 40*time.Millisecond)
	assert.ErrorIs(t, err, ErrWaitTimeout)
	assert.Less(t, time.Since(start), time.Second)
}

func TestWaitForContextCancelled(t *testing.T) {
	p, err := NewSnapshotPage(sampleHTML)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err = p.WaitFor(ctx, "#never", 5*time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	f := NewInsecureFetcher()
	pageResp, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, pageResp.StatusCode)
	assert.Contains(t, pageResp.HTML, "ok")
}

func TestFetcherRejectsScheme(t *testing.T) {
	f := NewFetcher()
	_, err := f.Fetch(context.Background(), "ftp://example.com/file")
	assert.Error(t, err)
}

func TestFetcherBlocksLoopback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	f := NewFetcher()
	_, err := f.Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}
