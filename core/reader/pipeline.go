// ABOUTME: Pipeline bundles the stateless document stages shared by sessions and the API
// ABOUTME: Preprocess runs on a private clone and yields a new frozen snapshot

package reader

import (
	"context"

	"pagereader-api/core/article"
	"pagereader-api/core/classify"
	"pagereader-api/core/config"
	"pagereader-api/core/document"
	"pagereader-api/core/domain"
	"pagereader-api/core/interfaces"
	"pagereader-api/core/listing"
	"pagereader-api/core/preprocess"
	"pagereader-api/core/sanitize"
)

// Pipeline runs preprocessing, classification and extraction
type Pipeline struct {
	preprocessor *preprocess.Preprocessor
	classifier   *classify.Classifier
	sanitizer    *sanitize.Sanitizer
	articles     *article.Service
	listings     *listing.Extractor
	logger       interfaces.Logger
}

// NewPipeline wires the stages from heuristics and collaborators
func NewPipeline(heuristics config.Heuristics, deps interfaces.Dependencies, opts ...preprocess.Option) *Pipeline {
	logger := deps.Log()
	sanitizer := sanitize.New()
	return &Pipeline{
		preprocessor: preprocess.New(heuristics, logger, opts...),
		classifier:   classify.New(heuristics, deps.Extractor, logger),
		sanitizer:    sanitizer,
		articles:     article.NewService(heuristics, deps.Extractor, sanitizer, logger),
		listings:     listing.New(heuristics, logger),
		logger:       logger,
	}
}

// Prepare strips consent and embed noise from a private clone and freezes
// the result. The input snapshot is untouched.
func (p *Pipeline) Prepare(snap *document.Snapshot) (*document.Snapshot, error) {
	clone, err := snap.Clone()
	if err != nil {
		return nil, err
	}
	stats := p.preprocessor.Process(clone)
	if stats.Total() > 0 {
		p.logger.Debug("Preprocessed document", map[string]interface{}{
			"url":        snap.URL().String(),
			"structural": stats.Structural,
			"iframes":    stats.Iframes,
			"text_match": stats.TextMatch,
		})
	}
	return document.FromDocument(snap.URL(), clone)
}

// Classify reports whether a prepared snapshot should open in article mode
func (p *Pipeline) Classify(ctx context.Context, snap *document.Snapshot) (bool, classify.Signals) {
	return p.classifier.ClassifyWithSignals(ctx, snap)
}

// Article extracts and sanitizes the article of a prepared snapshot
func (p *Pipeline) Article(ctx context.Context, snap *document.Snapshot) (*domain.ArticleData, error) {
	return p.articles.Extract(ctx, snap)
}

// Listing extracts the listing of a prepared snapshot
func (p *Pipeline) Listing(snap *document.Snapshot) (*domain.ListingData, error) {
	return p.listings.Extract(snap)
}

// Sanitize cleans an HTML fragment
func (p *Pipeline) Sanitize(fragment string) string {
	return p.sanitizer.Sanitize(fragment)
}
