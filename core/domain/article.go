// ABOUTME: Domain models for article mode
// ABOUTME: Defines the immutable extraction result consumed by the renderer and pagination engine

package domain

// ArticleData is the result of running the extraction pipeline once per activation.
// It is never modified after it is produced.
type ArticleData struct {
	Title              string `json:"title"`
	Byline             string `json:"byline,omitempty"`
	ContentHTML        string `json:"contentHtml"` // sanitized
	TextContent        string `json:"textContent"`
	Excerpt            string `json:"excerpt,omitempty"`
	SiteName           string `json:"siteName,omitempty"`
	WordCount          int    `json:"wordCount"`
	ReadingTimeMinutes int    `json:"readingTimeMinutes"`
	SourceURL          string `json:"sourceUrl"`
	Direction          string `json:"direction,omitempty"`
	Language           string `json:"language,omitempty"`
}

// ExtractedArticle is what the third-party extraction library hands back,
// before word counting and sanitization.
type ExtractedArticle struct {
	Title       string
	Byline      string
	ContentHTML string
	TextContent string
	Excerpt     string
	SiteName    string
	Length      int
	Direction   string
	Language    string
}
