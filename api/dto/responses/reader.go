// ABOUTME: Response DTOs for the stateless reader endpoints
// ABOUTME: Article and listing bodies reuse the domain types directly

package responses

import "pagereader-api/core/classify"

// ClassifyResponse is the classification verdict with its measurements
type ClassifyResponse struct {
	IsArticle bool             `json:"isArticle"`
	Mode      string           `json:"mode" enum:"article,listing"`
	Signals   classify.Signals `json:"signals"`
}

// SanitizeResponse carries the cleaned fragment
type SanitizeResponse struct {
	HTML string `json:"html"`
}
