package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"pagereader-api/core/config"
	"pagereader-api/core/interfaces"
	"pagereader-api/core/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Disabled(t *testing.T) {
	m := NewManager(Config{})

	assert.False(t, m.Enabled())
	assert.ErrorIs(t, m.Start(context.Background()), ErrUnavailable)
	assert.False(t, m.Available())

	_, err := m.Open(context.Background(), "https://example.com/", 0, 0)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NoError(t, m.Close())
}

func TestManager_ClosedRejectsStart(t *testing.T) {
	m := NewManager(Config{ControlURL: "ws://127.0.0.1:1/devtools"})
	require.NoError(t, m.Close())

	assert.Error(t, m.Start(context.Background()))
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{}
	cfg.defaults()

	assert.Equal(t, 1280, cfg.Width)
	assert.Equal(t, 800, cfg.Height)
	assert.Equal(t, 1.0, cfg.DPR)
	assert.NotNil(t, cfg.Logger)
}

func TestTab_NilPage(t *testing.T) {
	var tab *Tab
	ctx := context.Background()

	_, err := tab.ViewportBox(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, tab.Translate(ctx, 0), ErrUnavailable)
	_, err = tab.Snapshot(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NoError(t, tab.Close())
}

// Browser tests need BROWSER_TEST_CONTROL_URL, or BROWSER_TEST_LAUNCH=1 to launch Chrome locally
func startTestManager(t *testing.T) *Manager {
	t.Helper()
	controlURL := os.Getenv("BROWSER_TEST_CONTROL_URL")
	launch := os.Getenv("BROWSER_TEST_LAUNCH") == "1"
	if controlURL == "" && !launch {
		t.Skip("Skipping browser integration tests - set BROWSER_TEST_CONTROL_URL or BROWSER_TEST_LAUNCH=1")
	}

	m := NewManager(Config{ControlURL: controlURL, Launch: launch, Width: 400, Height: 600, DPR: 1})
	require.NoError(t, m.Start(context.Background()))
	t.Cleanup(func() { m.Close() })
	return m
}

func TestTab_PaginatesAttachedContent(t *testing.T) {
	m := startTestManager(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><title>Host</title></head><body style="margin:0"><div id="chrome">site chrome</div></body></html>`))
	}))
	defer server.Close()

	ctx := context.Background()
	tab, err := m.Open(ctx, server.URL, 0, 0)
	require.NoError(t, err)
	defer tab.Close()

	snap, err := tab.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Host", snap.Title())

	body := strings.Repeat("<p>"+strings.Repeat("word ", 80)+"</p>", 40)
	require.NoError(t, tab.Attach(ctx, interfaces.RenderedContent{Mode: "article", HTML: body}))

	engine := pagination.New(tab, config.DefaultLayout(), nil)
	state, err := engine.Layout(ctx)
	require.NoError(t, err)
	assert.Greater(t, state.TotalPages, 1)

	state, moved, err := engine.Next(ctx)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, 1, state.CurrentPageIndex)

	require.NoError(t, tab.Restore(ctx))
	restored, err := tab.Snapshot(ctx)
	require.NoError(t, err)
	assert.Contains(t, restored.Title(), "Host")
}

func TestTab_ReattachStillRestoresHostPage(t *testing.T) {
	m := startTestManager(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><title>Host</title></head><body><div id="chrome" style="display:flex">site chrome</div></body></html>`))
	}))
	defer server.Close()

	ctx := context.Background()
	tab, err := m.Open(ctx, server.URL, 0, 0)
	require.NoError(t, err)
	defer tab.Close()

	content := interfaces.RenderedContent{Mode: "article", HTML: "<p>reader body</p>"}
	require.NoError(t, tab.Attach(ctx, content))
	require.NoError(t, tab.Attach(ctx, content))
	require.NoError(t, tab.Restore(ctx))

	res, err := tab.page.Eval(`() => {
		const el = document.getElementById("chrome");
		return {display: el.style.display, marked: el.hasAttribute("` + hiddenAttr + `"), viewports: document.querySelectorAll("#` + viewportID + `").length};
	}`)
	require.NoError(t, err)
	assert.Equal(t, "flex", res.Value.Get("display").Str())
	assert.False(t, res.Value.Get("marked").Bool())
	assert.Equal(t, 0, res.Value.Get("viewports").Int())
}
