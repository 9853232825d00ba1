// ABOUTME: A browser tab exposed as the reader Surface, Renderer and snapshot source
// ABOUTME: Every operation is a small script evaluated in the page

package browser

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"pagereader-api/core/document"
	"pagereader-api/core/interfaces"

	"github.com/go-rod/rod"
)

// Tab wraps a rod page holding the host document
type Tab struct {
	page   *rod.Page
	logger interfaces.Logger
}

var (
	_ interfaces.Surface  = (*Tab)(nil)
	_ interfaces.Renderer = (*Tab)(nil)
)

func (t *Tab) eval(ctx context.Context, js string, args ...interface{}) error {
	if t == nil || t.page == nil {
		return ErrUnavailable
	}
	if _, err := t.page.Context(ctx).Eval(js, args...); err != nil {
		return fmt.Errorf("browser: eval: %w", err)
	}
	return nil
}

func (t *Tab) measure(ctx context.Context, js, id string) (interfaces.Box, error) {
	if t == nil || t.page == nil {
		return interfaces.Box{}, ErrUnavailable
	}
	res, err := t.page.Context(ctx).Eval(js, id)
	if err != nil {
		return interfaces.Box{}, fmt.Errorf("browser: measure: %w", err)
	}
	return interfaces.Box{
		Width:  res.Value.Get("width").Num(),
		Height: res.Value.Get("height").Num(),
	}, nil
}

// Snapshot serializes the live document for a new activation
func (t *Tab) Snapshot(ctx context.Context) (*document.Snapshot, error) {
	if t == nil || t.page == nil {
		return nil, ErrUnavailable
	}
	page := t.page.Context(ctx)
	info, err := page.Info()
	if err != nil {
		return nil, fmt.Errorf("browser: page info: %w", err)
	}
	pageURL, err := url.Parse(info.URL)
	if err != nil {
		return nil, fmt.Errorf("browser: page url: %w", err)
	}
	res, err := page.Eval(outerHTMLJS)
	if err != nil {
		return nil, fmt.Errorf("browser: get DOM: %w", err)
	}
	return document.FromReader(pageURL, bytes.NewReader([]byte(res.Value.Str())))
}

// ViewportBox implements interfaces.Surface
func (t *Tab) ViewportBox(ctx context.Context) (interfaces.Box, error) {
	return t.measure(ctx, boxJS, viewportID)
}

// ContentBox implements interfaces.Surface
func (t *Tab) ContentBox(ctx context.Context) (interfaces.Box, error) {
	return t.measure(ctx, boxJS, contentID)
}

// ScrollSize implements interfaces.Surface
func (t *Tab) ScrollSize(ctx context.Context) (interfaces.Box, error) {
	return t.measure(ctx, scrollSizeJS, contentID)
}

// DevicePixelRatio implements interfaces.Surface
func (t *Tab) DevicePixelRatio(ctx context.Context) (float64, error) {
	if t == nil || t.page == nil {
		return 0, ErrUnavailable
	}
	res, err := t.page.Context(ctx).Eval(dprJS)
	if err != nil {
		return 0, fmt.Errorf("browser: device pixel ratio: %w", err)
	}
	return res.Value.Num(), nil
}

// ApplyColumns implements interfaces.Surface
func (t *Tab) ApplyColumns(ctx context.Context, layout interfaces.ColumnLayout) error {
	return t.eval(ctx, columnsJS, contentID, layout.Height, layout.ColumnWidth, layout.ColumnGap, layout.Width)
}

// Translate implements interfaces.Surface
func (t *Tab) Translate(ctx context.Context, x float64) error {
	return t.eval(ctx, translateJS, contentID, x)
}

// WaitFrame implements interfaces.Surface
func (t *Tab) WaitFrame(ctx context.Context) error {
	return t.eval(ctx, frameJS)
}

// Attach implements interfaces.Renderer
func (t *Tab) Attach(ctx context.Context, content interfaces.RenderedContent) error {
	return t.eval(ctx, attachJS, viewportID, contentID, hiddenAttr, content.HTML, content.Dir, content.Lang, content.Title)
}

// Restore implements interfaces.Renderer
func (t *Tab) Restore(ctx context.Context) error {
	return t.eval(ctx, restoreJS, viewportID, hiddenAttr)
}

// Close closes the tab
func (t *Tab) Close() error {
	if t == nil || t.page == nil {
		return nil
	}
	return t.page.Close()
}
