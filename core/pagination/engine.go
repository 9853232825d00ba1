// ABOUTME: Pagination engine partitions a rendered content block into equal-width pages
// ABOUTME: Layout measures once through the surface; navigation is a pure translation

package pagination

import (
	"context"
	"fmt"
	"math"
	"sync"

	"pagereader-api/core/config"
	"pagereader-api/core/domain"
	readererrors "pagereader-api/core/errors"
	"pagereader-api/core/interfaces"
)

// Engine lays out and navigates one content block. Layout and navigation
// are serialized; a layout requested while another runs waits for it.
type Engine struct {
	surface interfaces.Surface
	cfg     config.Layout
	logger  interfaces.Logger

	mu    sync.Mutex
	state domain.PaginationState
}

// New creates an engine over a measurement surface
func New(surface interfaces.Surface, cfg config.Layout, logger interfaces.Logger) *Engine {
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &Engine{
		surface: surface,
		cfg:     cfg,
		logger:  logger,
		state:   domain.SinglePage(0),
	}
}

// Layout measures the content block and returns a fresh state starting at
// page 0. Degenerate viewports or content produce a single page.
func (e *Engine) Layout(ctx context.Context) (domain.PaginationState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, err := e.layout(ctx)
	if err != nil {
		return e.state, err
	}
	e.state = state
	return state, nil
}

func (e *Engine) layout(ctx context.Context) (domain.PaginationState, error) {
	for i := 0; i < e.cfg.FrameWaits; i++ {
		if err := e.surface.WaitFrame(ctx); err != nil {
			return domain.PaginationState{}, fmt.Errorf("wait frame: %w", err)
		}
	}

	// Natural flow first, for the diagnostic estimate.
	if err := e.surface.ApplyColumns(ctx, interfaces.ColumnLayout{}); err != nil {
		return domain.PaginationState{}, fmt.Errorf("reset columns: %w", err)
	}
	viewport, err := e.surface.ViewportBox(ctx)
	if err != nil {
		return domain.PaginationState{}, fmt.Errorf("measure viewport: %w", err)
	}
	natural, err := e.surface.ContentBox(ctx)
	if err != nil {
		return domain.PaginationState{}, fmt.Errorf("measure content: %w", err)
	}
	if viewport.Height > 0 {
		e.logger.Debug("Natural height estimate", map[string]interface{}{
			"content_height":  natural.Height,
			"viewport_height": viewport.Height,
			"estimated_pages": math.Ceil(natural.Height / viewport.Height),
		})
	}

	dpr, err := e.surface.DevicePixelRatio(ctx)
	if err != nil || dpr <= 0 || math.IsNaN(dpr) || math.IsInf(dpr, 0) {
		dpr = 1
	}
	columnWidth := math.Floor(viewport.Width*dpr) / dpr
	gap := math.Max(e.cfg.ColumnGap, 0)

	if columnWidth <= 0 || viewport.Height <= 0 {
		return e.degenerate(ctx, "viewport", columnWidth+gap)
	}

	columns := interfaces.ColumnLayout{
		Height:      viewport.Height,
		ColumnWidth: columnWidth,
		ColumnGap:   gap,
	}
	if err := e.surface.ApplyColumns(ctx, columns); err != nil {
		return domain.PaginationState{}, fmt.Errorf("apply columns: %w", err)
	}

	scroll, err := e.surface.ScrollSize(ctx)
	if err != nil {
		return domain.PaginationState{}, fmt.Errorf("measure scroll width: %w", err)
	}

	stride := columnWidth + gap
	if scroll.Width <= 0 {
		return e.degenerate(ctx, "content", stride)
	}

	total := PageCount(scroll.Width, stride, gap)
	columns.Width = float64(total)*columnWidth + float64(total-1)*gap
	if err := e.surface.ApplyColumns(ctx, columns); err != nil {
		return domain.PaginationState{}, fmt.Errorf("fix width: %w", err)
	}
	if err := e.surface.Translate(ctx, 0); err != nil {
		return domain.PaginationState{}, fmt.Errorf("translate: %w", err)
	}

	state := domain.PaginationState{CurrentPageIndex: 0, TotalPages: total, PageStride: stride}
	e.logger.Debug("Layout complete", map[string]interface{}{
		"total_pages":  total,
		"page_stride":  stride,
		"scroll_width": scroll.Width,
		"column_width": columnWidth,
	})
	return state, nil
}

// degenerate resets the block to a single page
func (e *Engine) degenerate(ctx context.Context, what string, stride float64) (domain.PaginationState, error) {
	e.logger.Warn("Degenerate layout", map[string]interface{}{
		"measurement": what,
		"error":       readererrors.ErrLayoutDegenerate.Error(),
	})
	if err := e.surface.Translate(ctx, 0); err != nil {
		return domain.PaginationState{}, fmt.Errorf("translate: %w", err)
	}
	return domain.SinglePage(stride), nil
}

// PageCount returns the number of pages a scroll width spans. The count
// never includes an empty trailing page and is at least 1.
func PageCount(scrollWidth, stride, gap float64) int {
	if stride <= 0 || scrollWidth <= 0 {
		return 1
	}
	total := int(math.Ceil((scrollWidth + gap) / stride))
	if total > 1 && float64(total-1)*stride >= scrollWidth {
		total--
	}
	if total < 1 {
		total = 1
	}
	return total
}

// State returns the current state
func (e *Engine) State() domain.PaginationState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// GoTo moves to page index. Indices outside [0, TotalPages) leave the state
// unchanged and report false.
func (e *Engine) GoTo(ctx context.Context, index int) (domain.PaginationState, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.goTo(ctx, index)
}

// Next moves one page forward
func (e *Engine) Next(ctx context.Context) (domain.PaginationState, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.goTo(ctx, e.state.CurrentPageIndex+1)
}

// Prev moves one page back
func (e *Engine) Prev(ctx context.Context) (domain.PaginationState, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.goTo(ctx, e.state.CurrentPageIndex-1)
}

func (e *Engine) goTo(ctx context.Context, index int) (domain.PaginationState, bool, error) {
	if index < 0 || index >= e.state.TotalPages {
		return e.state, false, nil
	}
	next := e.state
	next.CurrentPageIndex = index
	if err := e.surface.Translate(ctx, next.Offset()); err != nil {
		return e.state, false, fmt.Errorf("translate to page %d: %w", index, err)
	}
	e.state = next
	return next, true, nil
}
