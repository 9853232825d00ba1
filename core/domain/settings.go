// ABOUTME: User preferences and reading positions persisted through the store
// ABOUTME: Settings live in the synced bucket, positions in the local device bucket

package domain

import "time"

// Settings are the synced reader preferences
type Settings struct {
	FontSize           int     `json:"fontSize"`
	LineHeight         float64 `json:"lineHeight"`
	FontFamily         string  `json:"fontFamily"`
	Theme              string  `json:"theme"`
	Margin             int     `json:"margin"`
	ListingModeEnabled bool    `json:"listingModeEnabled"`
	ArticleFallback    bool    `json:"articleFallback"`
	AutoActivate       bool    `json:"autoActivate"`
}

// DefaultSettings returns the preferences used before anything is saved
func DefaultSettings() Settings {
	return Settings{
		FontSize:           18,
		LineHeight:         1.5,
		FontFamily:         "serif",
		Theme:              "light",
		Margin:             24,
		ListingModeEnabled: true,
		ArticleFallback:    true,
		AutoActivate:       true,
	}
}

// ReadingPosition is an approximate bookmark. Page boundaries move when the
// layout is recomputed, so the page index is restored clamped.
type ReadingPosition struct {
	Key        string    `json:"key"`
	PageIndex  int       `json:"pageIndex"`
	TotalPages int       `json:"totalPages"`
	Mode       Mode      `json:"mode"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
