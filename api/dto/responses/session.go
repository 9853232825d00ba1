package responses

import "pagereader-api/core/domain"

// SessionResponse is the state query answer for one session
type SessionResponse struct {
	ID         string                 `json:"id"`
	State      domain.ActivationState `json:"state"`
	Pagination domain.PaginationState `json:"pagination"`
	Title      string                 `json:"title,omitempty"`
	SourceURL  string                 `json:"sourceUrl,omitempty"`
}
