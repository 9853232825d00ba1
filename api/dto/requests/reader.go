// ABOUTME: Request DTOs for the stateless reader endpoints
// ABOUTME: A document is given as markup, a URL to fetch, or both

package requests

// DocumentRequest names the document to process. When HTML is empty the
// URL is fetched; when both are given the URL is only the base for links.
type DocumentRequest struct {
	URL  string `json:"url,omitempty" format:"uri" maxLength:"2048" example:"https://example.com/news/" doc:"Page URL, fetched when html is empty"`
	HTML string `json:"html,omitempty" maxLength:"5242880" doc:"Page markup captured by the caller"`
}

// SanitizeRequest carries an HTML fragment to clean
type SanitizeRequest struct {
	HTML string `json:"html" maxLength:"5242880" doc:"HTML fragment to sanitize"`
}
