// ABOUTME: Article extraction path for article mode
// ABOUTME: Runs the extraction library on a private clone, counts words and sanitizes the body

package article

import (
	"context"
	"errors"
	"math"
	"strings"

	"pagereader-api/core/config"
	"pagereader-api/core/document"
	"pagereader-api/core/domain"
	readererrors "pagereader-api/core/errors"
	"pagereader-api/core/interfaces"
	"pagereader-api/core/sanitize"
	htmlutil "pagereader-api/pkg/utils/html"
)

// Service produces ArticleData from snapshots
type Service struct {
	heuristics config.Heuristics
	extractor  interfaces.ArticleExtractor
	sanitizer  *sanitize.Sanitizer
	logger     interfaces.Logger
}

// NewService creates an article service
func NewService(heuristics config.Heuristics, extractor interfaces.ArticleExtractor, sanitizer *sanitize.Sanitizer, logger interfaces.Logger) *Service {
	if sanitizer == nil {
		sanitizer = sanitize.New()
	}
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &Service{
		heuristics: heuristics,
		extractor:  extractor,
		sanitizer:  sanitizer,
		logger:     logger,
	}
}

// Extract runs the extraction pipeline. Every failure, including a library
// panic, is reported as an *errors.ExtractionError.
func (s *Service) Extract(ctx context.Context, snap *document.Snapshot) (result *domain.ArticleData, err error) {
	if snap == nil {
		return nil, &readererrors.ExtractionError{Cause: errors.New("no document")}
	}
	sourceURL := snap.URL().String()

	if s.extractor == nil {
		return nil, &readererrors.ExtractionError{URL: sourceURL, Cause: errors.New("no extractor configured")}
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Extraction library panicked", map[string]interface{}{
				"url":   sourceURL,
				"panic": r,
			})
			result, err = nil, &readererrors.ExtractionError{URL: sourceURL, Cause: errors.New("extraction library panicked")}
		}
	}()

	clone, err := snap.Clone()
	if err != nil {
		return nil, &readererrors.ExtractionError{URL: sourceURL, Cause: err}
	}

	extracted, err := s.extractor.Extract(ctx, clone, snap.URL(), interfaces.ExtractOptions{
		CharThreshold:     s.heuristics.ExtractionCharThreshold,
		ClassesToPreserve: s.heuristics.ClassesToPreserve,
	})
	if err != nil {
		return nil, &readererrors.ExtractionError{URL: sourceURL, Cause: err}
	}
	if extracted == nil || strings.TrimSpace(extracted.ContentHTML) == "" {
		return nil, &readererrors.ExtractionError{URL: sourceURL, Cause: errors.New("no content extracted")}
	}

	words := len(strings.Fields(extracted.TextContent))
	data := &domain.ArticleData{
		Title:              firstNonEmpty(htmlutil.CollapseWhitespace(extracted.Title), snap.Title()),
		Byline:             htmlutil.CollapseWhitespace(extracted.Byline),
		ContentHTML:        s.sanitizer.Sanitize(extracted.ContentHTML),
		TextContent:        strings.TrimSpace(extracted.TextContent),
		Excerpt:            htmlutil.CollapseWhitespace(extracted.Excerpt),
		SiteName:           firstNonEmpty(extracted.SiteName, snap.SiteName()),
		WordCount:          words,
		ReadingTimeMinutes: s.readingTime(words),
		SourceURL:          sourceURL,
		Direction:          firstNonEmpty(extracted.Direction, snap.Direction()),
		Language:           firstNonEmpty(extracted.Language, snap.Language()),
	}

	s.logger.Debug("Extracted article", map[string]interface{}{
		"url":        sourceURL,
		"title":      data.Title,
		"word_count": data.WordCount,
	})

	return data, nil
}

// readingTime rounds up and never reports less than one minute
func (s *Service) readingTime(words int) int {
	wpm := s.heuristics.WordsPerMinute
	if wpm <= 0 {
		wpm = 200
	}
	minutes := int(math.Ceil(float64(words) / float64(wpm)))
	if minutes < 1 {
		return 1
	}
	return minutes
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
