// ABOUTME: Maps reader sessions onto response DTOs
// ABOUTME: Only a displayed mode contributes a title and source URL

package mappers

import (
	"pagereader-api/api/dto/responses"
	"pagereader-api/core/domain"
)

// SessionView is the part of a session the mapper reads
type SessionView interface {
	State() domain.ActivationState
	Pagination() domain.PaginationState
	Content() (*domain.ArticleData, *domain.ListingData)
}

// ToSessionResponse builds the response for session id
func ToSessionResponse(id string, s SessionView) responses.SessionResponse {
	resp := responses.SessionResponse{
		ID:         id,
		State:      s.State(),
		Pagination: s.Pagination(),
	}

	article, listing := s.Content()
	switch {
	case article != nil:
		resp.Title = article.Title
		resp.SourceURL = article.SourceURL
	case listing != nil:
		resp.Title = listing.PageTitle
		resp.SourceURL = listing.SourceURL
	}
	return resp
}
