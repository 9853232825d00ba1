package classify

import (
	"context"
	"net/url"

	"pagereader-api/core/domain"
	"pagereader-api/core/interfaces"

	"github.com/PuerkitoBio/goquery"
)

// mockExtractor is a mock implementation of the ArticleExtractor interface
type mockExtractor struct {
	extractFunc func(ctx context.Context, doc *goquery.Document, pageURL *url.URL, opts interfaces.ExtractOptions) (*domain.ExtractedArticle, error)
	calls       int
}

func (m *mockExtractor) Extract(ctx context.Context, doc *goquery.Document, pageURL *url.URL, opts interfaces.ExtractOptions) (*domain.ExtractedArticle, error) {
	m.calls++
	if m.extractFunc != nil {
		return m.extractFunc(ctx, doc, pageURL, opts)
	}
	return nil, nil
}

// wordsExtractor returns an article with n words
func wordsExtractor(n int) *mockExtractor {
	return &mockExtractor{
		extractFunc: func(ctx context.Context, doc *goquery.Document, pageURL *url.URL, opts interfaces.ExtractOptions) (*domain.ExtractedArticle, error) {
			text := ""
			for i := 0; i < n; i++ {
				text += "word "
			}
			return &domain.ExtractedArticle{TextContent: text}, nil
		},
	}
}
