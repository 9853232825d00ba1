// ABOUTME: Pagination layout constants
// ABOUTME: Gap, resize debounce and the number of frame boundaries awaited before measuring

package config

import "time"

// Layout configures the pagination engine
type Layout struct {
	// ColumnGap is the fixed gap between pages in CSS pixels
	ColumnGap float64

	// ResizeDebounce delays re-layout after viewport changes
	ResizeDebounce time.Duration

	// FrameWaits is the number of animation-frame boundaries awaited before
	// measuring freshly attached content
	FrameWaits int
}

// DefaultLayout returns the production layout constants
func DefaultLayout() Layout {
	return Layout{
		ColumnGap:      40,
		ResizeDebounce: 150 * time.Millisecond,
		FrameWaits:     2,
	}
}
