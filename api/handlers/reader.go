// ABOUTME: Stateless reader endpoints: classify, listing, article and sanitize
// ABOUTME: Documents arrive as markup or are fetched by URL before the pipeline runs

package handlers

import (
	"context"
	"net/http"

	"pagereader-api/api/dto/requests"
	"pagereader-api/api/dto/responses"
	"pagereader-api/core/document"
	"pagereader-api/core/domain"
	readererrors "pagereader-api/core/errors"
	"pagereader-api/core/interfaces"
	"pagereader-api/core/reader"
	"pagereader-api/pkg/featureflags"

	"github.com/danielgtaylor/huma/v2"
)

// blankURL is the base for markup submitted without a URL; relative links
// cannot resolve against it and are dropped
const blankURL = "about:blank"

// ReaderHandler serves the document pipeline over HTTP
type ReaderHandler struct {
	pipeline *reader.Pipeline
	fetcher  interfaces.DocumentFetcher
	flags    featureflags.Manager
	logger   interfaces.Logger
}

// NewReaderHandler creates a reader handler. fetcher may be nil, in which
// case requests must carry markup.
func NewReaderHandler(pipeline *reader.Pipeline, fetcher interfaces.DocumentFetcher, flags featureflags.Manager, logger interfaces.Logger) *ReaderHandler {
	if flags == nil {
		flags = featureflags.NewEnvManager("")
	}
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &ReaderHandler{
		pipeline: pipeline,
		fetcher:  fetcher,
		flags:    flags,
		logger:   logger,
	}
}

// RegisterRoutes registers all reader-related routes
func (h *ReaderHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "classifyPage",
		Method:      http.MethodPost,
		Path:        "/classify",
		Summary:     "Classify a page as article or listing",
		Tags:        []string{"Reader"},
	}, h.Classify)

	huma.Register(api, huma.Operation{
		OperationID: "extractListing",
		Method:      http.MethodPost,
		Path:        "/listing",
		Summary:     "Extract the sections and links of a listing page",
		Tags:        []string{"Reader"},
	}, h.Listing)

	huma.Register(api, huma.Operation{
		OperationID: "extractArticle",
		Method:      http.MethodPost,
		Path:        "/article",
		Summary:     "Extract and sanitize the main article of a page",
		Tags:        []string{"Reader"},
	}, h.Article)

	huma.Register(api, huma.Operation{
		OperationID: "sanitizeFragment",
		Method:      http.MethodPost,
		Path:        "/sanitize",
		Summary:     "Remove scripts, handlers and unsafe URLs from an HTML fragment",
		Tags:        []string{"Reader"},
	}, h.Sanitize)
}

// DocumentInput is the body shared by the document endpoints
type DocumentInput struct {
	Body requests.DocumentRequest
}

// ClassifyOutput defines the output for the Classify operation
type ClassifyOutput struct {
	Body responses.ClassifyResponse
}

// ListingOutput defines the output for the Listing operation
type ListingOutput struct {
	Body *domain.ListingData
}

// ArticleOutput defines the output for the Article operation
type ArticleOutput struct {
	Body *domain.ArticleData
}

// SanitizeInput defines the input for the Sanitize operation
type SanitizeInput struct {
	Body requests.SanitizeRequest
}

// SanitizeOutput defines the output for the Sanitize operation
type SanitizeOutput struct {
	Body responses.SanitizeResponse
}

// Classify runs the page classifier
func (h *ReaderHandler) Classify(ctx context.Context, input *DocumentInput) (*ClassifyOutput, error) {
	prepared, err := h.prepare(ctx, input.Body)
	if err != nil {
		return nil, toHumaError(err)
	}

	isArticle, signals := h.pipeline.Classify(ctx, prepared)
	mode := domain.ModeListing
	if isArticle {
		mode = domain.ModeArticle
	}

	return &ClassifyOutput{Body: responses.ClassifyResponse{
		IsArticle: isArticle,
		Mode:      string(mode),
		Signals:   signals,
	}}, nil
}

// Listing runs the listing extractor. An empty listing is a 422.
func (h *ReaderHandler) Listing(ctx context.Context, input *DocumentInput) (*ListingOutput, error) {
	if !h.flags.IsEnabled(ctx, featureflags.ListingMode) {
		return nil, huma.Error403Forbidden("Listing mode is disabled")
	}

	prepared, err := h.prepare(ctx, input.Body)
	if err != nil {
		return nil, toHumaError(err)
	}

	listing, err := h.pipeline.Listing(prepared)
	if err != nil {
		return nil, toHumaError(err)
	}
	if len(listing.Sections) == 0 {
		return nil, toHumaError(&readererrors.ListingEmptyError{URL: listing.SourceURL})
	}

	return &ListingOutput{Body: listing}, nil
}

// Article runs article extraction
func (h *ReaderHandler) Article(ctx context.Context, input *DocumentInput) (*ArticleOutput, error) {
	prepared, err := h.prepare(ctx, input.Body)
	if err != nil {
		return nil, toHumaError(err)
	}

	article, err := h.pipeline.Article(ctx, prepared)
	if err != nil {
		h.logger.Warn("Article extraction failed", map[string]interface{}{
			"url":   prepared.URL().String(),
			"error": err.Error(),
		})
		return nil, toHumaError(err)
	}

	return &ArticleOutput{Body: article}, nil
}

// Sanitize cleans a fragment
func (h *ReaderHandler) Sanitize(ctx context.Context, input *SanitizeInput) (*SanitizeOutput, error) {
	return &SanitizeOutput{Body: responses.SanitizeResponse{
		HTML: h.pipeline.Sanitize(input.Body.HTML),
	}}, nil
}

// prepare loads the document and runs the preprocessor on it
func (h *ReaderHandler) prepare(ctx context.Context, req requests.DocumentRequest) (*document.Snapshot, error) {
	snap, err := h.load(ctx, req)
	if err != nil {
		return nil, err
	}
	return h.pipeline.Prepare(snap)
}

func (h *ReaderHandler) load(ctx context.Context, req requests.DocumentRequest) (*document.Snapshot, error) {
	pageURL := req.URL
	markup := []byte(req.HTML)

	switch {
	case req.HTML != "":
		if pageURL == "" {
			pageURL = blankURL
		}
	case req.URL == "":
		return nil, &readererrors.ValidationError{Field: "url", Message: "either url or html is required"}
	case h.fetcher == nil:
		return nil, &readererrors.ValidationError{Field: "html", Message: "fetching by url is disabled, send the markup"}
	default:
		fetched, err := h.fetcher.Fetch(ctx, req.URL)
		if err != nil {
			return nil, err
		}
		pageURL = fetched.URL
		markup = fetched.Body
	}

	snap, err := document.New(pageURL, markup)
	if err != nil {
		return nil, &readererrors.ValidationError{Field: "url", Message: err.Error()}
	}
	return snap, nil
}
