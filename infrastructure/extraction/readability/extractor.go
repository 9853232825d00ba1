// ABOUTME: ArticleExtractor backed by go-shiori/go-readability
// ABOUTME: Runs the parser on a private document clone and maps its result to domain types

package readability

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"pagereader-api/core/domain"
	"pagereader-api/core/interfaces"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// Extractor wraps go-readability to extract main content from a document
type Extractor struct{}

// NewExtractor creates a new Extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses doc in place. The caller must pass a clone it owns.
func (e *Extractor) Extract(ctx context.Context, doc *goquery.Document, pageURL *url.URL, opts interfaces.ExtractOptions) (*domain.ExtractedArticle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc == nil || len(doc.Nodes) == 0 {
		return nil, errors.New("empty document")
	}

	parser := readability.NewParser()
	if opts.CharThreshold > 0 {
		parser.CharThresholds = opts.CharThreshold
	}
	if len(opts.ClassesToPreserve) > 0 {
		parser.ClassesToPreserve = append(parser.ClassesToPreserve, opts.ClassesToPreserve...)
	}

	article, err := parser.ParseDocument(doc.Nodes[0], pageURL)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(article.Content) == "" {
		return nil, nil
	}

	return &domain.ExtractedArticle{
		Title:       article.Title,
		Byline:      article.Byline,
		ContentHTML: article.Content,
		TextContent: article.TextContent,
		Excerpt:     article.Excerpt,
		SiteName:    article.SiteName,
		Length:      article.Length,
		Language:    article.Language,
	}, nil
}
