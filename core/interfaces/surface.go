// ABOUTME: Viewport measurement and display contracts used by pagination and the session
// ABOUTME: The pagination engine depends only on these measurements and style setters

package interfaces

import "context"

// Box is a measured width and height in CSS pixels
type Box struct {
	Width  float64
	Height float64
}

// ColumnLayout is the multi-column flow applied to the content block.
// A zero Width lets the block grow to fit its content.
type ColumnLayout struct {
	Height      float64
	ColumnWidth float64
	ColumnGap   float64
	Width       float64
}

// Surface is the content block and its clipping viewport.
// Every measurement forces a synchronous layout pass and is expensive.
type Surface interface {
	// ViewportBox returns the bounding box of the clipping viewport
	ViewportBox(ctx context.Context) (Box, error)

	// ContentBox returns the bounding box of the content block
	ContentBox(ctx context.Context) (Box, error)

	// ScrollSize returns the scrollable width and height of the content block
	ScrollSize(ctx context.Context) (Box, error)

	// DevicePixelRatio returns the number of device pixels per CSS pixel
	DevicePixelRatio(ctx context.Context) (float64, error)

	// ApplyColumns sets width, height and column styling on the content block.
	// Passing the zero ColumnLayout restores single-column flow.
	ApplyColumns(ctx context.Context, layout ColumnLayout) error

	// Translate offsets the content block along the horizontal axis without reflow
	Translate(ctx context.Context, x float64) error

	// WaitFrame blocks until the next animation-frame boundary
	WaitFrame(ctx context.Context) error
}

// RenderedContent is the HTML attached to the content block
type RenderedContent struct {
	Mode  string
	Title string
	HTML  string
	Dir   string
	Lang  string
}

// Renderer swaps the page chrome for the reader content block and back
type Renderer interface {
	// Attach hides the original document chrome and mounts the content block
	Attach(ctx context.Context, content RenderedContent) error

	// Restore removes the content block and shows the original chrome again
	Restore(ctx context.Context) error
}

// NotificationLevel classifies user-visible notifications
type NotificationLevel string

const (
	NotifyInfo    NotificationLevel = "info"
	NotifyWarning NotificationLevel = "warning"
	NotifyError   NotificationLevel = "error"
)

// Notifier shows non-fatal notifications to the user
type Notifier interface {
	Notify(ctx context.Context, level NotificationLevel, message string)
}
