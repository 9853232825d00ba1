// ABOUTME: Domain models for listing mode
// ABOUTME: A listing is a hierarchy of sections, items and links rebuilt from a non-article page

package domain

// Link is a validated, de-duplicated anchor.
type Link struct {
	// Href is absolute and normalized (no fragment, lower-cased host)
	Href string `json:"href"`

	// Text is trimmed and stripped of markup
	Text string `json:"text"`

	// IsExternal is true when the link leaves the page's site
	IsExternal bool `json:"isExternal"`
}

// Item is one entry of a section: a headline link plus its related links.
type Item struct {
	Main Link   `json:"main"`
	Subs []Link `json:"subs,omitempty"`
}

// Section is a titled group of items. Untitled sections have an empty Title
// and HeadingLevel 0.
type Section struct {
	Title        string `json:"title"`
	HeadingLevel int    `json:"headingLevel"`
	TitleLink    *Link  `json:"titleLink,omitempty"`
	Items        []Item `json:"items"`
}

// ListingData is the table-of-contents view of a page.
// Every Href inside it is unique.
type ListingData struct {
	SiteName  string    `json:"siteName"`
	PageTitle string    `json:"pageTitle"`
	SourceURL string    `json:"sourceUrl"`
	Sections  []Section `json:"sections"`
}

// ItemCount returns the number of items across all sections
func (l *ListingData) ItemCount() int {
	count := 0
	for _, s := range l.Sections {
		count += len(s.Items)
	}
	return count
}

// Hrefs returns every href in the listing in document order, including
// section title links and sub-links.
func (l *ListingData) Hrefs() []string {
	var hrefs []string
	for _, s := range l.Sections {
		if s.TitleLink != nil {
			hrefs = append(hrefs, s.TitleLink.Href)
		}
		for _, item := range s.Items {
			hrefs = append(hrefs, item.Main.Href)
			for _, sub := range item.Subs {
				hrefs = append(hrefs, sub.Href)
			}
		}
	}
	return hrefs
}
