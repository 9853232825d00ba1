package pagereader

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"pagereader-api/core/config"
	"pagereader-api/core/domain"
	"pagereader-api/core/interfaces"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExtractor struct {
	words int
	err   error
}

func (s stubExtractor) Extract(context.Context, *goquery.Document, *url.URL, interfaces.ExtractOptions) (*domain.ExtractedArticle, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.ExtractedArticle{
		Title:       "Harbour reopens after storm",
		ContentHTML: `<p onclick="x()">The harbour reopened.</p>`,
		TextContent: strings.Repeat("word ", s.words),
	}, nil
}

type stubFetcher struct {
	body  string
	err   error
	calls int
}

func (s *stubFetcher) Fetch(_ context.Context, rawURL string) (*interfaces.FetchedDocument, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &interfaces.FetchedDocument{URL: rawURL, ContentType: "text/html", Body: []byte(s.body)}, nil
}

func storyMarkup() []byte {
	var b strings.Builder
	b.WriteString(`<html lang="en"><head><title>Harbour</title></head><body><article>`)
	for i := 0; i < 16; i++ {
		b.WriteString(`<p>The harbour reopened on Monday after a week of repairs to the breakwater, and the first ferries left on schedule with a full load of passengers and freight.</p>`)
	}
	b.WriteString(`</article></body></html>`)
	return []byte(b.String())
}

func frontMarkup() []byte {
	var b strings.Builder
	b.WriteString(`<html><body><main><h2>Top stories</h2>`)
	for i := 1; i <= 6; i++ {
		fmt.Fprintf(&b, `<article><h3><a href="/news/%d">Council approves budget item number %d</a></h3></article>`, i, i)
	}
	b.WriteString(`</main></body></html>`)
	return []byte(b.String())
}

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	base := []Option{WithQuietMode(), WithExtractor(stubExtractor{words: 450}), WithFetcher(nil)}
	client, err := NewClient(append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestClient_Classify(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	article, err := client.Classify(ctx, "https://paper.example/news/harbour", storyMarkup())
	require.NoError(t, err)
	assert.True(t, article.IsArticle)
	assert.Equal(t, ModeArticle, article.Mode)

	home, err := client.Classify(ctx, "https://paper.example/", frontMarkup())
	require.NoError(t, err)
	assert.False(t, home.IsArticle)
	assert.True(t, home.Signals.HomePage)
}

func TestClient_Article(t *testing.T) {
	client := newTestClient(t)

	article, err := client.Article(context.Background(), "https://paper.example/news/harbour", storyMarkup())
	require.NoError(t, err)

	assert.Equal(t, "Harbour reopens after storm", article.Title)
	assert.Equal(t, 450, article.WordCount)
	assert.Equal(t, 3, article.ReadingTimeMinutes)
	assert.Equal(t, "en", article.Language)
	assert.NotContains(t, article.ContentHTML, "onclick")
}

func TestClient_ArticleExtractionError(t *testing.T) {
	client := newTestClient(t, WithExtractor(stubExtractor{err: errors.New("boom")}))

	_, err := client.Article(context.Background(), "https://paper.example/news/harbour", storyMarkup())
	assert.True(t, IsExtractionError(err))
}

func TestClient_Listing(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	listing, err := client.Listing(ctx, "https://paper.example/", frontMarkup())
	require.NoError(t, err)
	require.Len(t, listing.Sections, 1)
	assert.Equal(t, "Top stories", listing.Sections[0].Title)
	assert.Len(t, listing.Sections[0].Items, 6)

	_, err = client.Listing(ctx, "https://paper.example/", []byte(`<p>nothing here</p>`))
	assert.True(t, IsEmptyListingError(err))
}

func TestClient_Read(t *testing.T) {
	empty := []byte(`<html><body><p>Short note.</p></body></html>`)

	tests := []struct {
		name     string
		pageURL  string
		markup   []byte
		settings func(*Settings)
		wantMode Mode
		wantErr  func(error) bool
	}{
		{name: "article", pageURL: "https://paper.example/news/harbour", markup: storyMarkup(), wantMode: ModeArticle},
		{name: "listing", pageURL: "https://paper.example/", markup: frontMarkup(), wantMode: ModeListing},
		{
			name: "listing disabled", pageURL: "https://paper.example/", markup: frontMarkup(),
			settings: func(s *Settings) { s.ListingModeEnabled = false },
			wantMode: ModeArticle,
		},
		{
			name: "empty listing without fallback", pageURL: "https://paper.example/notes", markup: empty,
			settings: func(s *Settings) { s.ArticleFallback = false },
			wantErr:  IsEmptyListingError,
		},
		{
			name: "empty listing with fallback", pageURL: "https://paper.example/notes", markup: empty,
			settings: func(s *Settings) { s.ArticleFallback = true },
			wantMode: ModeArticle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t)
			ctx := context.Background()

			if tt.settings != nil {
				settings := domain.DefaultSettings()
				tt.settings(&settings)
				require.NoError(t, client.SaveSettings(ctx, settings))
			}

			page, err := client.Read(ctx, tt.pageURL, tt.markup)
			if tt.wantErr != nil {
				assert.True(t, tt.wantErr(err), "unexpected error: %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMode, page.Mode)
			assert.NotEmpty(t, page.HTML)
		})
	}
}

func TestClient_FetchesWithoutMarkup(t *testing.T) {
	fetcher := &stubFetcher{body: string(frontMarkup())}
	client := newTestClient(t, WithFetcher(fetcher))

	listing, err := client.Listing(context.Background(), "https://paper.example/", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, "https://paper.example/news/1", listing.Sections[0].Items[0].Main.Href)
}

func TestClient_FetchErrors(t *testing.T) {
	ctx := context.Background()

	client := newTestClient(t)
	_, err := client.Classify(ctx, "https://paper.example/", nil)
	assert.ErrorIs(t, err, ErrNoFetcher)

	_, err = client.Classify(ctx, "", nil)
	assert.True(t, IsValidationError(err))

	failing := newTestClient(t, WithFetcher(&stubFetcher{err: errors.New("connection refused")}))
	_, err = failing.Classify(ctx, "https://paper.example/", nil)
	assert.True(t, IsNetworkError(err))
}

func TestClient_Sanitize(t *testing.T) {
	client := newTestClient(t)

	out := client.Sanitize(`<p>ok</p><script>alert(1)</script>`)
	assert.Contains(t, out, "<p>ok</p>")
	assert.NotContains(t, out, "script")
}

func TestClient_Closed(t *testing.T) {
	client, err := NewClient(WithQuietMode(), WithExtractor(stubExtractor{}), WithFetcher(nil))
	require.NoError(t, err)
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())

	_, err = client.Classify(context.Background(), "https://paper.example/", frontMarkup())
	assert.ErrorIs(t, err, ErrClientClosed)
	assert.ErrorIs(t, client.SaveSettings(context.Background(), domain.DefaultSettings()), ErrClientClosed)
}

func TestNewClient_Options(t *testing.T) {
	t.Run("sqlite cache persists settings", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "reader.db")
		ctx := context.Background()

		settings := domain.DefaultSettings()
		settings.FontSize = 22

		first := newTestClient(t, WithCacheOption(CacheOption{Type: CacheTypeSQLite, FilePath: path}))
		require.NoError(t, first.SaveSettings(ctx, settings))
		require.NoError(t, first.Close())

		second := newTestClient(t, WithCacheOption(CacheOption{Type: CacheTypeSQLite, FilePath: path}))
		got, err := second.Settings(ctx)
		require.NoError(t, err)
		assert.Equal(t, 22, got.FontSize)
	})

	t.Run("invalid cache type", func(t *testing.T) {
		_, err := NewClient(WithCacheOption(CacheOption{Type: "memcached"}))
		var libErr *Error
		require.ErrorAs(t, err, &libErr)
		assert.Equal(t, ErrorTypeConfiguration, libErr.Type)
		assert.Equal(t, "memcached", libErr.Context["type"])
	})

	t.Run("invalid heuristics", func(t *testing.T) {
		h := config.DefaultHeuristics()
		h.MinListingItems = 0
		_, err := NewClient(WithQuietMode(), WithHeuristics(h))
		assert.Error(t, err)
	})

	t.Run("heuristics options", func(t *testing.T) {
		client := newTestClient(t, WithHeuristicsOptions(config.WithMinArticleWords(1000)))
		result, err := client.Classify(context.Background(), "https://paper.example/news/harbour", storyMarkup())
		require.NoError(t, err)
		assert.False(t, result.IsArticle)
	})

	t.Run("invalid fetch timeout", func(t *testing.T) {
		_, err := NewClient(WithFetchTimeout(0))
		assert.Error(t, err)
	})
}

func TestError_Format(t *testing.T) {
	err := NewError(ErrorTypeNetwork, "failed to fetch page").WithCause(errors.New("timeout"))
	assert.Equal(t, "network: failed to fetch page (caused by: timeout)", err.Error())
	assert.Equal(t, "validation: bad", NewError(ErrorTypeValidation, "bad").Error())
}
