// ABOUTME: Page classifier decides whether a document should open in article mode
// ABOUTME: Cheap structural signals gate a speculative run of the extraction pipeline

package classify

import (
	"context"
	"strings"

	"pagereader-api/core/config"
	"pagereader-api/core/document"
	"pagereader-api/core/interfaces"

	"github.com/PuerkitoBio/goquery"
)

// listingLikeSelector matches list items, cards and teasers
const listingLikeSelector = `li, [class*="card"], [class*="teaser"], [class*="item"], [class*="tile"]`

// Signals are the structural measurements behind a classification
type Signals struct {
	HomePage              bool `json:"homePage"`
	TotalTextLength       int  `json:"totalTextLength"`
	SubstantialParagraphs int  `json:"substantialParagraphs"`
	ListingElements       int  `json:"listingElements"`
	HasListingStructure   bool `json:"hasListingStructure"`
	HasSubstantialContent bool `json:"hasSubstantialContent"`
	IsNotListingPage      bool `json:"isNotListingPage"`
}

// NeedsProbe reports whether the structural checks passed and the
// speculative extraction should run
func (s Signals) NeedsProbe() bool {
	return !s.HomePage && s.HasSubstantialContent && s.IsNotListingPage
}

// Classifier decides between article and listing mode
type Classifier struct {
	heuristics config.Heuristics
	extractor  interfaces.ArticleExtractor
	logger     interfaces.Logger
}

// New creates a classifier. The extractor is the same collaborator used by
// article mode.
func New(heuristics config.Heuristics, extractor interfaces.ArticleExtractor, logger interfaces.Logger) *Classifier {
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &Classifier{
		heuristics: heuristics,
		extractor:  extractor,
		logger:     logger,
	}
}

// Signals measures snap without running extraction
func (c *Classifier) Signals(snap *document.Snapshot) Signals {
	var s Signals

	// opaque URLs such as about:blank have no path and are not a site root
	path := snap.Path()
	if snap.URL().Opaque == "" && (path == "" || path == "/") {
		s.HomePage = true
		return s
	}

	doc := snap.View()
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		length := len([]rune(strings.TrimSpace(p.Text())))
		s.TotalTextLength += length
		if length > c.heuristics.SubstantialParagraphLength {
			s.SubstantialParagraphs++
		}
	})

	s.ListingElements = doc.Find(listingLikeSelector).Length()
	s.HasListingStructure = s.ListingElements > c.heuristics.ListingStructureThreshold
	s.HasSubstantialContent = s.TotalTextLength > c.heuristics.MinArticleTextLength &&
		s.SubstantialParagraphs > c.heuristics.MinSubstantialParagraphs
	s.IsNotListingPage = !s.HasListingStructure || s.SubstantialParagraphs > c.heuristics.ListingOverrideParagraphs

	return s
}

// Classify returns true when snap should be shown in article mode.
// It never mutates snap and any failure of the probe counts as "not an article".
func (c *Classifier) Classify(ctx context.Context, snap *document.Snapshot) bool {
	isArticle, _ := c.ClassifyWithSignals(ctx, snap)
	return isArticle
}

// ClassifyWithSignals is Classify that also returns the measured signals
func (c *Classifier) ClassifyWithSignals(ctx context.Context, snap *document.Snapshot) (bool, Signals) {
	if snap == nil {
		return false, Signals{}
	}

	signals := c.Signals(snap)
	if !signals.NeedsProbe() {
		return false, signals
	}

	words, ok := c.probe(ctx, snap)
	isArticle := ok && words > c.heuristics.MinArticleWords

	c.logger.Debug("Classified page", map[string]interface{}{
		"url":                    snap.URL().String(),
		"article":                isArticle,
		"total_text_length":      signals.TotalTextLength,
		"substantial_paragraphs": signals.SubstantialParagraphs,
		"listing_elements":       signals.ListingElements,
		"probe_words":            words,
	})

	return isArticle, signals
}

// probe runs the extraction pipeline on a private clone and counts words
func (c *Classifier) probe(ctx context.Context, snap *document.Snapshot) (words int, ok bool) {
	if c.extractor == nil {
		return 0, false
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("Extraction probe panicked", map[string]interface{}{
				"url":   snap.URL().String(),
				"panic": r,
			})
			words, ok = 0, false
		}
	}()

	clone, err := snap.Clone()
	if err != nil {
		return 0, false
	}

	article, err := c.extractor.Extract(ctx, clone, snap.URL(), interfaces.ExtractOptions{
		CharThreshold:     c.heuristics.ExtractionCharThreshold,
		ClassesToPreserve: c.heuristics.ClassesToPreserve,
	})
	if err != nil || article == nil {
		c.logger.Debug("Extraction probe failed", map[string]interface{}{
			"url":   snap.URL().String(),
			"error": errorString(err),
		})
		return 0, false
	}

	return len(strings.Fields(article.TextContent)), true
}

func errorString(err error) string {
	if err == nil {
		return "no article"
	}
	return err.Error()
}
