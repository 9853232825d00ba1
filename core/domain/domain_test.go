package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListingData_ItemCountAndHrefs(t *testing.T) {
	listing := &ListingData{
		Sections: []Section{
			{
				Title:     "World",
				TitleLink: &Link{Href: "https://paper.example/world"},
				Items: []Item{
					{
						Main: Link{Href: "https://paper.example/world/a"},
						Subs: []Link{{Href: "https://paper.example/world/a/live"}},
					},
					{Main: Link{Href: "https://paper.example/world/b"}},
				},
			},
			{
				Items: []Item{{Main: Link{Href: "https://paper.example/c"}}},
			},
		},
	}

	assert.Equal(t, 3, listing.ItemCount())
	assert.Equal(t, []string{
		"https://paper.example/world",
		"https://paper.example/world/a",
		"https://paper.example/world/a/live",
		"https://paper.example/world/b",
		"https://paper.example/c",
	}, listing.Hrefs())
}

func TestListingData_Empty(t *testing.T) {
	listing := &ListingData{}
	assert.Equal(t, 0, listing.ItemCount())
	assert.Empty(t, listing.Hrefs())
}

func TestPaginationState(t *testing.T) {
	tests := []struct {
		name   string
		state  PaginationState
		valid  bool
		offset float64
	}{
		{"first page", PaginationState{CurrentPageIndex: 0, TotalPages: 3, PageStride: 400}, true, 0},
		{"last page", PaginationState{CurrentPageIndex: 2, TotalPages: 3, PageStride: 400}, true, -800},
		{"index past end", PaginationState{CurrentPageIndex: 3, TotalPages: 3, PageStride: 400}, false, -1200},
		{"negative index", PaginationState{CurrentPageIndex: -1, TotalPages: 3, PageStride: 400}, false, 400},
		{"no pages", PaginationState{TotalPages: 0}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.state.Valid())
			assert.InDelta(t, tt.offset, tt.state.Offset(), 0.0001)
		})
	}
}

func TestSinglePage(t *testing.T) {
	p := SinglePage(400)
	assert.True(t, p.Valid())
	assert.Equal(t, 1, p.TotalPages)
	assert.Equal(t, 0, p.CurrentPageIndex)
	assert.Equal(t, 400.0, p.PageStride)

	assert.Equal(t, 0.0, SinglePage(-10).PageStride)
}

func TestActivationState(t *testing.T) {
	inactive := Inactive()
	assert.False(t, inactive.IsActive())
	assert.False(t, inactive.IsBusy())
	assert.Equal(t, "inactive", inactive.String())

	activating := ActivationState{Phase: PhaseActivating}
	assert.False(t, activating.IsActive())
	assert.True(t, activating.IsBusy())
	assert.Equal(t, "activating", activating.String())

	active := Active(ModeListing)
	assert.True(t, active.IsActive())
	assert.True(t, active.IsBusy())
	assert.Equal(t, "active(listing)", active.String())
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.True(t, s.ListingModeEnabled)
	assert.True(t, s.ArticleFallback)
	assert.True(t, s.AutoActivate)
	assert.Equal(t, "light", s.Theme)
	assert.Greater(t, s.FontSize, 0)
}
