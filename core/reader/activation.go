// ABOUTME: Activation flow of a reader session: snapshot, classify, build the mode, lay out
// ABOUTME: Also owns failure notification and reading position save/restore

package reader

import (
	"context"
	"fmt"

	"pagereader-api/core/document"
	"pagereader-api/core/domain"
	readererrors "pagereader-api/core/errors"
	"pagereader-api/core/interfaces"
	"pagereader-api/core/render"
	"pagereader-api/core/store"
)

// activation is the result of one successful activate pass
type activation struct {
	snap    *document.Snapshot
	mode    domain.Mode
	article *domain.ArticleData
	listing *domain.ListingData
}

func (s *Session) activate(ctx context.Context) (*activation, error) {
	snap, err := s.source(ctx)
	if err != nil {
		return nil, fmt.Errorf("capture document: %w", err)
	}
	if snap == nil {
		return nil, fmt.Errorf("capture document: no document")
	}

	settings := s.loadSettings(ctx)

	result, err := s.build(ctx, snap, settings)
	if err != nil {
		return nil, err
	}

	content, err := renderContent(result.mode, result.article, result.listing, settings)
	if err != nil {
		return nil, err
	}
	if err := s.renderer.Attach(ctx, content); err != nil {
		return nil, fmt.Errorf("attach content: %w", err)
	}

	state, err := s.engine.Layout(ctx)
	if err != nil {
		if restoreErr := s.renderer.Restore(ctx); restoreErr != nil {
			s.logger.Warn("Failed to restore document after layout error", map[string]interface{}{"error": restoreErr.Error()})
		}
		return nil, fmt.Errorf("layout: %w", err)
	}

	s.restorePosition(ctx, snap, result.mode, state)

	if err := s.store.AddSticky(ctx, store.Origin(snap.URL())); err != nil {
		s.logger.Warn("Failed to register sticky origin", map[string]interface{}{"error": err.Error()})
	}
	return result, nil
}

// build runs preprocess, classify and the chosen extraction path
func (s *Session) build(ctx context.Context, snap *document.Snapshot, settings domain.Settings) (*activation, error) {
	sourceURL := snap.URL().String()

	prepared, err := s.pipeline.Prepare(snap)
	if err != nil {
		return nil, &readererrors.ExtractionError{URL: sourceURL, Cause: err}
	}

	isArticle, signals := s.pipeline.Classify(ctx, prepared)
	s.logger.Debug("Classified document", map[string]interface{}{
		"url":                    sourceURL,
		"article":                isArticle,
		"text_length":            signals.TotalTextLength,
		"substantial_paragraphs": signals.SubstantialParagraphs,
		"listing_elements":       signals.ListingElements,
	})

	if isArticle || !settings.ListingModeEnabled {
		return s.buildArticle(ctx, snap, prepared)
	}

	listing, err := s.pipeline.Listing(prepared)
	if err != nil {
		return nil, err
	}
	if len(listing.Sections) > 0 {
		return &activation{snap: snap, mode: domain.ModeListing, listing: listing}, nil
	}

	if settings.ArticleFallback {
		s.logger.Info("Listing empty, trying article mode", map[string]interface{}{"url": sourceURL})
		return s.buildArticle(ctx, snap, prepared)
	}
	return nil, &readererrors.ListingEmptyError{URL: sourceURL}
}

func (s *Session) buildArticle(ctx context.Context, snap, prepared *document.Snapshot) (*activation, error) {
	article, err := s.pipeline.Article(ctx, prepared)
	if err != nil {
		return nil, err
	}
	return &activation{snap: snap, mode: domain.ModeArticle, article: article}, nil
}

// fail returns the session to Inactive and tells the user
func (s *Session) fail(ctx context.Context, err error) {
	s.mu.Lock()
	s.state = domain.Inactive()
	s.snap, s.article, s.listing = nil, nil, nil
	s.mu.Unlock()

	level := interfaces.NotifyError
	message := "Reader view is not available for this page"
	switch {
	case readererrors.IsExtraction(err):
		message = "Could not extract readable content from this page"
	case readererrors.IsListingEmpty(err):
		level = interfaces.NotifyWarning
		message = "No links were found to build a listing for this page"
	}

	s.logger.Warn("Activation failed", map[string]interface{}{"error": err.Error()})
	s.notifier.Notify(ctx, level, message)
}

func (s *Session) loadSettings(ctx context.Context) domain.Settings {
	settings, err := s.store.LoadSettings(ctx)
	if err != nil {
		s.logger.Warn("Using default settings", map[string]interface{}{"error": err.Error()})
	}
	return settings
}

// restorePosition returns to a saved page. Page boundaries move between
// layouts, so the index is clamped rather than trusted.
func (s *Session) restorePosition(ctx context.Context, snap *document.Snapshot, mode domain.Mode, state domain.PaginationState) {
	pos, ok, err := s.store.LoadPosition(ctx, snap.URL().String())
	if err != nil {
		s.logger.Warn("Failed to load reading position", map[string]interface{}{"error": err.Error()})
		return
	}
	if !ok || pos.Mode != mode || pos.PageIndex <= 0 {
		return
	}

	index := pos.PageIndex
	if index > state.TotalPages-1 {
		index = state.TotalPages - 1
	}
	if _, _, err := s.engine.GoTo(ctx, index); err != nil {
		s.logger.Warn("Failed to restore reading position", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Session) savePosition(ctx context.Context, state domain.PaginationState) {
	s.mu.Lock()
	snap, mode := s.snap, s.state.Mode
	s.mu.Unlock()
	if snap == nil {
		return
	}

	err := s.store.SavePosition(ctx, snap.URL().String(), domain.ReadingPosition{
		PageIndex:  state.CurrentPageIndex,
		TotalPages: state.TotalPages,
		Mode:       mode,
	})
	if err != nil {
		s.logger.Warn("Failed to save reading position", map[string]interface{}{"error": err.Error()})
	}
}

func renderContent(mode domain.Mode, article *domain.ArticleData, listing *domain.ListingData, settings domain.Settings) (interfaces.RenderedContent, error) {
	switch mode {
	case domain.ModeArticle:
		markup, err := render.Article(article, settings)
		if err != nil {
			return interfaces.RenderedContent{}, err
		}
		return interfaces.RenderedContent{
			Mode:  string(mode),
			Title: article.Title,
			HTML:  markup,
			Dir:   article.Direction,
			Lang:  article.Language,
		}, nil
	case domain.ModeListing:
		markup, err := render.Listing(listing, settings)
		if err != nil {
			return interfaces.RenderedContent{}, err
		}
		return interfaces.RenderedContent{
			Mode:  string(mode),
			Title: listing.PageTitle,
			HTML:  markup,
		}, nil
	}
	return interfaces.RenderedContent{}, fmt.Errorf("render: unknown mode %q", mode)
}
