// ABOUTME: Public types returned by the page reader library
// ABOUTME: Aliases of the core domain types so results serialize exactly like the HTTP API

package pagereader

import (
	"pagereader-api/core/classify"
	"pagereader-api/core/domain"
)

type (
	// Article is the extracted and sanitized main content of a page
	Article = domain.ArticleData

	// Listing is the ordered set of sections found on a listing page
	Listing = domain.ListingData

	// Section is a heading with the items beneath it
	Section = domain.Section

	// Item is one entry of a section
	Item = domain.Item

	// Link is a resolved, de-duplicated hyperlink
	Link = domain.Link

	// Settings are the persisted reader preferences
	Settings = domain.Settings

	// Mode is article or listing
	Mode = domain.Mode

	// Signals are the structural measurements behind a classification
	Signals = classify.Signals
)

const (
	ModeArticle = domain.ModeArticle
	ModeListing = domain.ModeListing
)

// Classification is the verdict for one page
type Classification struct {
	IsArticle bool    `json:"isArticle"`
	Mode      Mode    `json:"mode"`
	Signals   Signals `json:"signals"`
}

// Page is a document prepared for reading: the chosen mode, the extracted
// data and the rendered content block
type Page struct {
	Mode    Mode     `json:"mode"`
	Article *Article `json:"article,omitempty"`
	Listing *Listing `json:"listing,omitempty"`
	HTML    string   `json:"html"`
}
