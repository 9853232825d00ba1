// ABOUTME: Contracts for the external extraction library and document fetching
// ABOUTME: The classifier probe and article mode share one ArticleExtractor

package interfaces

import (
	"context"
	"net/url"

	"pagereader-api/core/domain"

	"github.com/PuerkitoBio/goquery"
)

// ExtractOptions are passed through to the extraction library
type ExtractOptions struct {
	// CharThreshold is the minimum content length the library accepts
	CharThreshold int

	// ClassesToPreserve are class names kept while the library prunes markup
	ClassesToPreserve []string
}

// ArticleExtractor turns a private document clone into a cleaned article.
// Implementations may mutate doc. A nil article with a nil error is
// treated the same as a failure.
type ArticleExtractor interface {
	Extract(ctx context.Context, doc *goquery.Document, pageURL *url.URL, opts ExtractOptions) (*domain.ExtractedArticle, error)
}

// FetchedDocument is raw markup loaded from the network
type FetchedDocument struct {
	URL         string
	ContentType string
	Body        []byte
}

// DocumentFetcher loads a document by URL
type DocumentFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*FetchedDocument, error)
}
