package pagination

import (
	"context"
	"sync"

	"pagereader-api/core/interfaces"
)

// fakeSurface simulates a content block whose scroll width is fixed by its content
type fakeSurface struct {
	mu sync.Mutex

	viewport interfaces.Box
	natural  interfaces.Box
	scroll   interfaces.Box
	dpr      float64
	frameErr error

	events       []string
	applied      []interfaces.ColumnLayout
	translations []float64
	measurements int
}

func (f *fakeSurface) record(event string) {
	f.events = append(f.events, event)
}

func (f *fakeSurface) ViewportBox(context.Context) (interfaces.Box, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("viewport")
	f.measurements++
	return f.viewport, nil
}

func (f *fakeSurface) ContentBox(context.Context) (interfaces.Box, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("content")
	f.measurements++
	return f.natural, nil
}

func (f *fakeSurface) ScrollSize(context.Context) (interfaces.Box, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("scroll")
	f.measurements++
	return f.scroll, nil
}

func (f *fakeSurface) DevicePixelRatio(context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dpr, nil
}

func (f *fakeSurface) ApplyColumns(_ context.Context, layout interfaces.ColumnLayout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("columns")
	f.applied = append(f.applied, layout)
	return nil
}

func (f *fakeSurface) Translate(_ context.Context, x float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("translate")
	f.translations = append(f.translations, x)
	return nil
}

func (f *fakeSurface) WaitFrame(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("frame")
	return f.frameErr
}

func (f *fakeSurface) lastApplied() interfaces.ColumnLayout {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.applied[len(f.applied)-1]
}

func (f *fakeSurface) lastTranslation() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.translations[len(f.translations)-1]
}

// phone is a 360x640 viewport at 1x
func phone(scrollWidth float64) *fakeSurface {
	return &fakeSurface{
		viewport: interfaces.Box{Width: 360, Height: 640},
		natural:  interfaces.Box{Width: 360, Height: 1900},
		scroll:   interfaces.Box{Width: scrollWidth, Height: 640},
		dpr:      1,
	}
}
