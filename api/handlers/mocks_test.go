package handlers

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"pagereader-api/core/config"
	"pagereader-api/core/document"
	"pagereader-api/core/domain"
	"pagereader-api/core/interfaces"
	"pagereader-api/core/reader"

	"github.com/PuerkitoBio/goquery"
)

// mockExtractor returns a fixed article
type mockExtractor struct {
	article *domain.ExtractedArticle
	err     error
}

func (m *mockExtractor) Extract(context.Context, *goquery.Document, *url.URL, interfaces.ExtractOptions) (*domain.ExtractedArticle, error) {
	return m.article, m.err
}

func wordyExtractor(words int) *mockExtractor {
	return &mockExtractor{article: &domain.ExtractedArticle{
		Title:       "Harbour reopens after storm",
		ContentHTML: `<p onclick="steal()">The harbour reopened on Monday.</p><script>alert(1)</script>`,
		TextContent: strings.Repeat("word ", words),
	}}
}

// mockFetcher serves canned documents by URL
type mockFetcher struct {
	docs  map[string]string
	calls int
}

func (m *mockFetcher) Fetch(_ context.Context, rawURL string) (*interfaces.FetchedDocument, error) {
	m.calls++
	body, ok := m.docs[rawURL]
	if !ok {
		return nil, fmt.Errorf("unexpected fetch of %s", rawURL)
	}
	return &interfaces.FetchedDocument{URL: rawURL, ContentType: "text/html", Body: []byte(body)}, nil
}

func articlePage() string {
	var b strings.Builder
	b.WriteString(`<html><head><title>Harbour reopens</title></head><body><article>`)
	for i := 0; i < 16; i++ {
		b.WriteString(`<p>The harbour reopened on Monday after a week of repairs to the breakwater, and the first ferries left on schedule with a full load of passengers and freight.</p>`)
	}
	b.WriteString(`</article></body></html>`)
	return b.String()
}

func frontPage() string {
	var b strings.Builder
	b.WriteString(`<html><head><title>City Paper</title></head><body><main><h2>Latest</h2>`)
	for i := 1; i <= 6; i++ {
		fmt.Fprintf(&b, `<article><h3><a href="/news/story-%d">Council approves budget item number %d</a></h3></article>`, i, i)
	}
	b.WriteString(`</main></body></html>`)
	return b.String()
}

func newTestPipeline(extractor interfaces.ArticleExtractor) *reader.Pipeline {
	return reader.NewPipeline(config.DefaultHeuristics(), interfaces.Dependencies{Extractor: extractor})
}

// fakeTab is an in-memory page with a fixed viewport and scroll width
type fakeTab struct {
	mu          sync.Mutex
	url         string
	html        string
	scrollWidth float64
	attached    []interfaces.RenderedContent
	restores    int
	closed      bool
}

func (f *fakeTab) Snapshot(context.Context) (*document.Snapshot, error) {
	return document.New(f.url, []byte(f.html))
}

func (f *fakeTab) ViewportBox(context.Context) (interfaces.Box, error) {
	return interfaces.Box{Width: 360, Height: 640}, nil
}

func (f *fakeTab) ContentBox(context.Context) (interfaces.Box, error) {
	return interfaces.Box{Width: 360, Height: 2000}, nil
}

func (f *fakeTab) ScrollSize(context.Context) (interfaces.Box, error) {
	return interfaces.Box{Width: f.scrollWidth, Height: 640}, nil
}

func (f *fakeTab) DevicePixelRatio(context.Context) (float64, error) { return 1, nil }

func (f *fakeTab) ApplyColumns(context.Context, interfaces.ColumnLayout) error { return nil }

func (f *fakeTab) Translate(context.Context, float64) error { return nil }

func (f *fakeTab) WaitFrame(context.Context) error { return nil }

func (f *fakeTab) Attach(_ context.Context, content interfaces.RenderedContent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attached = append(f.attached, content)
	return nil
}

func (f *fakeTab) Restore(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.restores++
	return nil
}

func (f *fakeTab) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeTab) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// fakeOpener hands out fakeTabs serving pages by URL
type fakeOpener struct {
	available bool
	pages     map[string]string
	tabs      []*fakeTab
}

func (o *fakeOpener) Available() bool { return o.available }

func (o *fakeOpener) Open(_ context.Context, pageURL string, _, _ int) (Tab, error) {
	html, ok := o.pages[pageURL]
	if !ok {
		return nil, fmt.Errorf("navigate %s: net::ERR_NAME_NOT_RESOLVED", pageURL)
	}
	tab := &fakeTab{url: pageURL, html: html, scrollWidth: 1200}
	o.tabs = append(o.tabs, tab)
	return tab, nil
}
