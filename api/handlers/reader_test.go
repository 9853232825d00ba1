package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"pagereader-api/api/dto/responses"
	"pagereader-api/core/domain"
	"pagereader-api/pkg/featureflags"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReaderAPI(t *testing.T, handler *ReaderHandler) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	handler.RegisterRoutes(api)
	return api
}

func allFlags() featureflags.Manager {
	return featureflags.NewStaticManager(map[featureflags.FeatureFlag]bool{
		featureflags.ListingMode:     true,
		featureflags.AutoActivate:    true,
		featureflags.BrowserSessions: true,
	})
}

func TestClassify_HomePageIsListing(t *testing.T) {
	api := newReaderAPI(t, NewReaderHandler(newTestPipeline(wordyExtractor(500)), nil, allFlags(), nil))

	resp := api.Post("/classify", map[string]any{
		"url":  "https://paper.example/",
		"html": frontPage(),
	})

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var body responses.ClassifyResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.False(t, body.IsArticle)
	assert.Equal(t, "listing", body.Mode)
	assert.True(t, body.Signals.HomePage)
}

func TestClassify_ArticlePage(t *testing.T) {
	api := newReaderAPI(t, NewReaderHandler(newTestPipeline(wordyExtractor(500)), nil, allFlags(), nil))

	resp := api.Post("/classify", map[string]any{
		"url":  "https://paper.example/news/harbour",
		"html": articlePage(),
	})

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var body responses.ClassifyResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.True(t, body.IsArticle)
	assert.Equal(t, "article", body.Mode)
	assert.Equal(t, 16, body.Signals.SubstantialParagraphs)
}

func TestClassify_MarkupWithoutURL(t *testing.T) {
	api := newReaderAPI(t, NewReaderHandler(newTestPipeline(wordyExtractor(500)), nil, allFlags(), nil))

	resp := api.Post("/classify", map[string]any{"html": articlePage()})

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var body responses.ClassifyResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.False(t, body.Signals.HomePage)
	assert.True(t, body.IsArticle)
	assert.Equal(t, "article", body.Mode)
}

func TestClassify_FetchesByURL(t *testing.T) {
	fetcher := &mockFetcher{docs: map[string]string{"https://paper.example/": frontPage()}}
	api := newReaderAPI(t, NewReaderHandler(newTestPipeline(nil), fetcher, allFlags(), nil))

	resp := api.Post("/classify", map[string]any{"url": "https://paper.example/"})

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, 1, fetcher.calls)
}

func TestClassify_RequiresDocument(t *testing.T) {
	tests := []struct {
		name    string
		fetcher *mockFetcher
		body    map[string]any
	}{
		{"empty body", &mockFetcher{}, map[string]any{}},
		{"url without fetcher", nil, map[string]any{"url": "https://paper.example/"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewReaderHandler(newTestPipeline(nil), nil, allFlags(), nil)
			if tt.fetcher != nil {
				handler = NewReaderHandler(newTestPipeline(nil), tt.fetcher, allFlags(), nil)
			}
			api := newReaderAPI(t, handler)

			resp := api.Post("/classify", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.Code)
		})
	}
}

func TestListing_ExtractsSections(t *testing.T) {
	api := newReaderAPI(t, NewReaderHandler(newTestPipeline(nil), nil, allFlags(), nil))

	resp := api.Post("/listing", map[string]any{
		"url":  "https://paper.example/",
		"html": frontPage(),
	})

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var listing domain.ListingData
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &listing))
	require.Len(t, listing.Sections, 1)
	assert.Equal(t, "Latest", listing.Sections[0].Title)
	assert.Len(t, listing.Sections[0].Items, 6)
	assert.Equal(t, "https://paper.example/news/story-1", listing.Sections[0].Items[0].Main.Href)
}

func TestListing_RelativeLinksNeedURL(t *testing.T) {
	api := newReaderAPI(t, NewReaderHandler(newTestPipeline(nil), nil, allFlags(), nil))

	resp := api.Post("/listing", map[string]any{"html": frontPage()})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestListing_Disabled(t *testing.T) {
	flags := featureflags.NewStaticManager(map[featureflags.FeatureFlag]bool{featureflags.ListingMode: false})
	api := newReaderAPI(t, NewReaderHandler(newTestPipeline(nil), nil, flags, nil))

	resp := api.Post("/listing", map[string]any{"url": "https://paper.example/", "html": frontPage()})

	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestArticle_Sanitized(t *testing.T) {
	api := newReaderAPI(t, NewReaderHandler(newTestPipeline(wordyExtractor(400)), nil, allFlags(), nil))

	resp := api.Post("/article", map[string]any{
		"url":  "https://paper.example/news/harbour",
		"html": articlePage(),
	})

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var article domain.ArticleData
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &article))
	assert.Equal(t, "Harbour reopens after storm", article.Title)
	assert.Equal(t, 400, article.WordCount)
	assert.Equal(t, 2, article.ReadingTimeMinutes)
	assert.NotContains(t, article.ContentHTML, "onclick")
	assert.NotContains(t, article.ContentHTML, "<script")
}

func TestArticle_ExtractionFailure(t *testing.T) {
	api := newReaderAPI(t, NewReaderHandler(newTestPipeline(&mockExtractor{}), nil, allFlags(), nil))

	resp := api.Post("/article", map[string]any{
		"url":  "https://paper.example/news/harbour",
		"html": articlePage(),
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestSanitize(t *testing.T) {
	api := newReaderAPI(t, NewReaderHandler(newTestPipeline(nil), nil, allFlags(), nil))

	resp := api.Post("/sanitize", map[string]any{
		"html": `<p>ok</p><img src="x.png" onerror="steal()"><a href="javascript:alert(1)">x</a>`,
	})

	require.Equal(t, http.StatusOK, resp.Code)
	var body responses.SanitizeResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Contains(t, body.HTML, "<p>ok</p>")
	assert.NotContains(t, body.HTML, "onerror")
	assert.NotContains(t, body.HTML, "javascript:")
}
