// ABOUTME: Reader session owns the activation state machine for one document
// ABOUTME: Drives the pipeline, the renderer, the pagination engine and persisted state

package reader

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"pagereader-api/core/config"
	"pagereader-api/core/document"
	"pagereader-api/core/domain"
	readererrors "pagereader-api/core/errors"
	"pagereader-api/core/interfaces"
	"pagereader-api/core/pagination"
	"pagereader-api/core/store"
)

// SnapshotSource captures the current document. It is called once per activation.
type SnapshotSource func(ctx context.Context) (*document.Snapshot, error)

// Config holds a session's collaborators. Source, Pipeline, Surface and
// Renderer are required.
type Config struct {
	Source   SnapshotSource
	Pipeline *Pipeline
	Surface  interfaces.Surface
	Renderer interfaces.Renderer
	Store    *store.Store
	Notifier interfaces.Notifier
	Logger   interfaces.Logger
	Layout   config.Layout

	// OnClose releases whatever backs the surface
	OnClose func() error
}

// Session is the per-document reader state. All methods are safe for
// concurrent use; activations are guarded by the activation state.
type Session struct {
	source   SnapshotSource
	pipeline *Pipeline
	surface  interfaces.Surface
	renderer interfaces.Renderer
	store    *store.Store
	notifier interfaces.Notifier
	logger   interfaces.Logger
	onClose  func() error

	engine    *pagination.Engine
	debouncer *pagination.Debouncer

	mu      sync.Mutex
	state   domain.ActivationState
	snap    *document.Snapshot
	article *domain.ArticleData
	listing *domain.ListingData
}

// NewSession creates an inactive session
func NewSession(cfg Config) (*Session, error) {
	switch {
	case cfg.Source == nil:
		return nil, &readererrors.ValidationError{Field: "source", Message: "snapshot source is required"}
	case cfg.Pipeline == nil:
		return nil, &readererrors.ValidationError{Field: "pipeline", Message: "pipeline is required"}
	case cfg.Surface == nil:
		return nil, &readererrors.ValidationError{Field: "surface", Message: "surface is required"}
	case cfg.Renderer == nil:
		return nil, &readererrors.ValidationError{Field: "renderer", Message: "renderer is required"}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	st := cfg.Store
	if st == nil {
		st = store.New(nil, nil, logger)
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = LogNotifier{Logger: logger}
	}

	return &Session{
		source:    cfg.Source,
		pipeline:  cfg.Pipeline,
		surface:   cfg.Surface,
		renderer:  cfg.Renderer,
		store:     st,
		notifier:  notifier,
		logger:    logger,
		onClose:   cfg.OnClose,
		engine:    pagination.New(cfg.Surface, cfg.Layout, logger),
		debouncer: pagination.NewDebouncer(cfg.Layout.ResizeDebounce),
		state:     domain.Inactive(),
	}, nil
}

// State returns the activation state
func (s *Session) State() domain.ActivationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Pagination returns the pagination state of the displayed content
func (s *Session) Pagination() domain.PaginationState {
	return s.engine.State()
}

// Content returns the displayed article or listing; both are nil while inactive
func (s *Session) Content() (*domain.ArticleData, *domain.ListingData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.article, s.listing
}

// Activate builds and displays the reader view. Calls while a view is
// active are no-ops; calls while an activation is in flight return
// ErrActivationInProgress. Failures notify the user and leave the session
// inactive.
func (s *Session) Activate(ctx context.Context) (domain.ActivationState, error) {
	s.mu.Lock()
	switch s.state.Phase {
	case domain.PhaseActive:
		state := s.state
		s.mu.Unlock()
		return state, nil
	case domain.PhaseActivating:
		state := s.state
		s.mu.Unlock()
		return state, readererrors.ErrActivationInProgress
	}
	s.state = domain.ActivationState{Phase: domain.PhaseActivating}
	s.mu.Unlock()

	result, err := s.activate(ctx)
	if err != nil {
		s.fail(ctx, err)
		return domain.Inactive(), err
	}

	s.mu.Lock()
	s.snap = result.snap
	s.article = result.article
	s.listing = result.listing
	s.state = domain.Active(result.mode)
	state := s.state
	s.mu.Unlock()

	s.logger.Info("Reader activated", map[string]interface{}{
		"url":   result.snap.URL().String(),
		"mode":  string(result.mode),
		"pages": s.engine.State().TotalPages,
	})
	return state, nil
}

// Toggle deactivates an active view and activates an inactive one
func (s *Session) Toggle(ctx context.Context) (domain.ActivationState, error) {
	switch s.State().Phase {
	case domain.PhaseActive:
		return domain.Inactive(), s.Deactivate(ctx)
	default:
		return s.Activate(ctx)
	}
}

// Deactivate restores the original document, clears the origin's sticky
// registration and discards the snapshot. Inactive sessions are unchanged.
func (s *Session) Deactivate(ctx context.Context) error {
	s.mu.Lock()
	if s.state.Phase != domain.PhaseActive {
		s.mu.Unlock()
		return nil
	}
	snap := s.snap
	s.snap, s.article, s.listing = nil, nil, nil
	s.state = domain.Inactive()
	s.mu.Unlock()

	s.debouncer.Stop()

	var errs []error
	if err := s.renderer.Restore(ctx); err != nil {
		errs = append(errs, err)
	}
	if snap != nil {
		if err := s.store.RemoveSticky(ctx, store.Origin(snap.URL())); err != nil {
			s.logger.Warn("Failed to clear sticky origin", map[string]interface{}{"error": err.Error()})
		}
	}

	s.logger.Info("Reader deactivated", nil)
	return errors.Join(errs...)
}

// Close deactivates and releases the surface
func (s *Session) Close(ctx context.Context) error {
	err := s.Deactivate(ctx)
	if s.onClose != nil {
		err = errors.Join(err, s.onClose())
	}
	return err
}

// Next moves one page forward. Inactive sessions ignore navigation.
func (s *Session) Next(ctx context.Context) (domain.PaginationState, error) {
	return s.navigate(ctx, s.engine.Next)
}

// Prev moves one page back
func (s *Session) Prev(ctx context.Context) (domain.PaginationState, error) {
	return s.navigate(ctx, s.engine.Prev)
}

// GoTo moves to a page; out-of-range indices are ignored
func (s *Session) GoTo(ctx context.Context, index int) (domain.PaginationState, error) {
	return s.navigate(ctx, func(ctx context.Context) (domain.PaginationState, bool, error) {
		return s.engine.GoTo(ctx, index)
	})
}

func (s *Session) navigate(ctx context.Context, move func(context.Context) (domain.PaginationState, bool, error)) (domain.PaginationState, error) {
	if !s.State().IsActive() {
		return s.engine.State(), nil
	}
	state, moved, err := move(ctx)
	if err != nil || !moved {
		return state, err
	}
	s.savePosition(ctx, state)
	return state, nil
}

// ApplySettings persists settings and, when active, re-renders and lays
// the content out again from page 0
func (s *Session) ApplySettings(ctx context.Context, settings domain.Settings) (domain.PaginationState, error) {
	if err := s.store.SaveSettings(ctx, settings); err != nil {
		return s.engine.State(), err
	}

	s.mu.Lock()
	active := s.state.IsActive()
	article, listing, mode := s.article, s.listing, s.state.Mode
	s.mu.Unlock()
	if !active {
		return s.engine.State(), nil
	}

	content, err := renderContent(mode, article, listing, settings)
	if err != nil {
		return s.engine.State(), err
	}
	if err := s.renderer.Attach(ctx, content); err != nil {
		return s.engine.State(), err
	}
	return s.engine.Layout(ctx)
}

// Resize schedules a debounced re-layout after a viewport change
func (s *Session) Resize(ctx context.Context) {
	if !s.State().IsActive() {
		return
	}
	ctx = context.WithoutCancel(ctx)
	s.debouncer.Trigger(func() {
		if !s.State().IsActive() {
			return
		}
		state, err := s.engine.Layout(ctx)
		if err != nil {
			s.logger.Error("Re-layout after resize failed", map[string]interface{}{"error": err.Error()})
			return
		}
		s.logger.Debug("Re-layout after resize", map[string]interface{}{"total_pages": state.TotalPages})
	})
}

// ShouldAutoActivate reports whether the reader should open by itself on
// pageURL: auto-activation is enabled and the origin was left sticky
func (s *Session) ShouldAutoActivate(ctx context.Context, pageURL *url.URL) bool {
	if pageURL == nil {
		return false
	}
	settings, err := s.store.LoadSettings(ctx)
	if err != nil || !settings.AutoActivate {
		return false
	}
	sticky, err := s.store.IsSticky(ctx, store.Origin(pageURL))
	return err == nil && sticky
}
