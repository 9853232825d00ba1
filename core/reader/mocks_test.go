package reader

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"pagereader-api/core/domain"
	readererrors "pagereader-api/core/errors"
	"pagereader-api/core/interfaces"

	"github.com/PuerkitoBio/goquery"
)

// mockExtractor is a function-field ArticleExtractor
type mockExtractor struct {
	mu          sync.Mutex
	extractFunc func(ctx context.Context, call int) (*domain.ExtractedArticle, error)
	calls       int
}

func (m *mockExtractor) Extract(ctx context.Context, _ *goquery.Document, _ *url.URL, _ interfaces.ExtractOptions) (*domain.ExtractedArticle, error) {
	m.mu.Lock()
	m.calls++
	call := m.calls
	m.mu.Unlock()
	if m.extractFunc == nil {
		return nil, nil
	}
	return m.extractFunc(ctx, call)
}

func (m *mockExtractor) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func wordyArticle(words int) *domain.ExtractedArticle {
	return &domain.ExtractedArticle{
		Title:       "Floods reach the capital",
		ContentHTML: `<p onclick="steal()">Body text.</p>`,
		TextContent: strings.Repeat("word ", words),
	}
}

func articleExtractor(words int) *mockExtractor {
	return &mockExtractor{
		extractFunc: func(context.Context, int) (*domain.ExtractedArticle, error) {
			return wordyArticle(words), nil
		},
	}
}

// fakeSurface reports a fixed viewport and scroll width
type fakeSurface struct {
	mu           sync.Mutex
	scrollWidth  float64
	measurements int
	translations []float64
}

func (f *fakeSurface) ViewportBox(context.Context) (interfaces.Box, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.measurements++
	return interfaces.Box{Width: 360, Height: 640}, nil
}

func (f *fakeSurface) ContentBox(context.Context) (interfaces.Box, error) {
	return interfaces.Box{Width: 360, Height: 2000}, nil
}

func (f *fakeSurface) ScrollSize(context.Context) (interfaces.Box, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return interfaces.Box{Width: f.scrollWidth, Height: 640}, nil
}

func (f *fakeSurface) DevicePixelRatio(context.Context) (float64, error) { return 1, nil }

func (f *fakeSurface) ApplyColumns(context.Context, interfaces.ColumnLayout) error { return nil }

func (f *fakeSurface) Translate(_ context.Context, x float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.translations = append(f.translations, x)
	return nil
}

func (f *fakeSurface) WaitFrame(context.Context) error { return nil }

func (f *fakeSurface) setScrollWidth(w float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scrollWidth = w
}

func (f *fakeSurface) measured() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.measurements
}

// fakeRenderer records attached content
type fakeRenderer struct {
	mu       sync.Mutex
	attached []interfaces.RenderedContent
	restores int
}

func (r *fakeRenderer) Attach(_ context.Context, content interfaces.RenderedContent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attached = append(r.attached, content)
	return nil
}

func (r *fakeRenderer) Restore(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.restores++
	return nil
}

func (r *fakeRenderer) last() interfaces.RenderedContent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attached[len(r.attached)-1]
}

// notification is one recorded Notify call
type notification struct {
	level   interfaces.NotificationLevel
	message string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *recordingNotifier) Notify(_ context.Context, level interfaces.NotificationLevel, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{level: level, message: message})
}

func (n *recordingNotifier) all() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification(nil), n.sent...)
}

// mapCache is an in-memory cache
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, &readererrors.NotFoundError{Resource: "key", ID: key}
	}
	return v, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}
