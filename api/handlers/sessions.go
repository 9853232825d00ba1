// ABOUTME: Browser-backed reader session endpoints
// ABOUTME: Each session owns one headless tab; the reader core drives it through Surface and Renderer

package handlers

import (
	"context"
	"net/http"
	"net/url"

	"pagereader-api/api/dto/mappers"
	"pagereader-api/api/dto/requests"
	"pagereader-api/api/dto/responses"
	"pagereader-api/core/config"
	"pagereader-api/core/document"
	"pagereader-api/core/domain"
	readererrors "pagereader-api/core/errors"
	"pagereader-api/core/interfaces"
	"pagereader-api/core/reader"
	"pagereader-api/core/store"
	"pagereader-api/pkg/featureflags"

	"github.com/danielgtaylor/huma/v2"
)

// Tab is a loaded page a session measures and draws into
type Tab interface {
	interfaces.Surface
	interfaces.Renderer
	Snapshot(ctx context.Context) (*document.Snapshot, error)
	Close() error
}

// TabOpener opens pages in a browser
type TabOpener interface {
	Available() bool
	Open(ctx context.Context, pageURL string, width, height int) (Tab, error)
}

// SessionConfig holds the collaborators of the session endpoints
type SessionConfig struct {
	Opener   TabOpener
	Sessions *reader.Manager
	Pipeline *reader.Pipeline
	Store    *store.Store
	Flags    featureflags.Manager
	Layout   config.Layout
	Logger   interfaces.Logger
}

// SessionHandler serves /sessions
type SessionHandler struct {
	cfg SessionConfig
}

// NewSessionHandler creates a session handler
func NewSessionHandler(cfg SessionConfig) *SessionHandler {
	if cfg.Sessions == nil {
		cfg.Sessions = reader.NewManager(8)
	}
	if cfg.Flags == nil {
		cfg.Flags = featureflags.NewEnvManager("")
	}
	if cfg.Logger == nil {
		cfg.Logger = interfaces.NopLogger{}
	}
	return &SessionHandler{cfg: cfg}
}

// RegisterRoutes registers all session routes
func (h *SessionHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "createSession",
		Method:        http.MethodPost,
		Path:          "/sessions",
		Summary:       "Open a page in the browser as a reader session",
		Tags:          []string{"Sessions"},
		DefaultStatus: http.StatusCreated,
	}, h.Create)

	huma.Register(api, huma.Operation{
		OperationID: "getSessionState",
		Method:      http.MethodGet,
		Path:        "/sessions/{id}/state",
		Summary:     "Report activation and pagination state",
		Tags:        []string{"Sessions"},
	}, h.State)

	huma.Register(api, huma.Operation{
		OperationID: "toggleSession",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/toggle",
		Summary:     "Activate or deactivate reader mode",
		Tags:        []string{"Sessions"},
	}, h.Toggle)

	huma.Register(api, huma.Operation{
		OperationID: "navigateSession",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/navigate",
		Summary:     "Move to the next, previous or a given page",
		Tags:        []string{"Sessions"},
	}, h.Navigate)

	huma.Register(api, huma.Operation{
		OperationID: "updateSessionSettings",
		Method:      http.MethodPut,
		Path:        "/sessions/{id}/settings",
		Summary:     "Save reader settings and lay the content out again",
		Tags:        []string{"Sessions"},
	}, h.Settings)

	huma.Register(api, huma.Operation{
		OperationID: "resizeSession",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/resize",
		Summary:     "Schedule a re-layout after a viewport change",
		Tags:        []string{"Sessions"},
	}, h.Resize)

	huma.Register(api, huma.Operation{
		OperationID:   "deleteSession",
		Method:        http.MethodDelete,
		Path:          "/sessions/{id}",
		Summary:       "Restore the page and close the session",
		Tags:          []string{"Sessions"},
		DefaultStatus: http.StatusNoContent,
	}, h.Delete)
}

// CreateSessionInput defines the input for the Create operation
type CreateSessionInput struct {
	Body requests.CreateSessionRequest
}

// SessionIDInput addresses one session
type SessionIDInput struct {
	ID string `path:"id" format:"uuid"`
}

// NavigateInput defines the input for the Navigate operation
type NavigateInput struct {
	ID   string `path:"id" format:"uuid"`
	Body requests.NavigateRequest
}

// SettingsInput defines the input for the Settings operation
type SettingsInput struct {
	ID   string `path:"id" format:"uuid"`
	Body requests.SettingsRequest
}

// SessionOutput carries the session state
type SessionOutput struct {
	Body responses.SessionResponse
}

// Create opens a tab and registers a session for it. Activation failures
// leave the session open and inactive.
func (h *SessionHandler) Create(ctx context.Context, input *CreateSessionInput) (*SessionOutput, error) {
	if err := h.available(ctx); err != nil {
		return nil, err
	}
	// checked again by Add; this only avoids opening a tab that cannot be kept
	if h.cfg.Sessions.Full() {
		return nil, huma.Error429TooManyRequests("Too many open sessions")
	}

	pageURL, err := url.Parse(input.Body.URL)
	if err != nil || (pageURL.Scheme != "http" && pageURL.Scheme != "https") {
		return nil, huma.Error400BadRequest("url must be an absolute http(s) URL")
	}

	tab, err := h.cfg.Opener.Open(ctx, pageURL.String(), input.Body.Width, input.Body.Height)
	if err != nil {
		h.cfg.Logger.Warn("Failed to open page", map[string]interface{}{
			"url":   pageURL.String(),
			"error": err.Error(),
		})
		return nil, huma.Error502BadGateway("Failed to open the page", err)
	}

	session, err := reader.NewSession(reader.Config{
		Source:   tab.Snapshot,
		Pipeline: h.cfg.Pipeline,
		Surface:  tab,
		Renderer: tab,
		Store:    h.cfg.Store,
		Logger:   h.cfg.Logger,
		Layout:   h.cfg.Layout,
		OnClose:  tab.Close,
	})
	if err != nil {
		tab.Close()
		return nil, toHumaError(err)
	}
	id, err := h.cfg.Sessions.Add(session)
	if err != nil {
		session.Close(ctx)
		return nil, toHumaError(err)
	}

	activate := input.Body.Activate ||
		(h.cfg.Flags.IsEnabled(ctx, featureflags.AutoActivate) && session.ShouldAutoActivate(ctx, pageURL))
	if activate {
		if _, err := session.Activate(ctx); err != nil {
			h.cfg.Logger.Info("Session opened inactive", map[string]interface{}{
				"session_id": id,
				"error":      err.Error(),
			})
		}
	}

	return &SessionOutput{Body: mappers.ToSessionResponse(id, session)}, nil
}

// State reports a session's activation and pagination state
func (h *SessionHandler) State(ctx context.Context, input *SessionIDInput) (*SessionOutput, error) {
	session, err := h.cfg.Sessions.Get(input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &SessionOutput{Body: mappers.ToSessionResponse(input.ID, session)}, nil
}

// Toggle flips reader mode
func (h *SessionHandler) Toggle(ctx context.Context, input *SessionIDInput) (*SessionOutput, error) {
	session, err := h.cfg.Sessions.Get(input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	if _, err := session.Toggle(ctx); err != nil {
		return nil, toHumaError(err)
	}
	return &SessionOutput{Body: mappers.ToSessionResponse(input.ID, session)}, nil
}

// Navigate moves between pages. Inactive sessions and out-of-range pages are no-ops.
func (h *SessionHandler) Navigate(ctx context.Context, input *NavigateInput) (*SessionOutput, error) {
	session, err := h.cfg.Sessions.Get(input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}

	switch input.Body.Action {
	case "next":
		_, err = session.Next(ctx)
	case "prev":
		_, err = session.Prev(ctx)
	case "goto":
		_, err = session.GoTo(ctx, input.Body.Index)
	default:
		return nil, huma.Error400BadRequest("action must be next, prev or goto")
	}
	if err != nil {
		return nil, toHumaError(err)
	}
	return &SessionOutput{Body: mappers.ToSessionResponse(input.ID, session)}, nil
}

// Settings saves settings and re-lays out an active session
func (h *SessionHandler) Settings(ctx context.Context, input *SettingsInput) (*SessionOutput, error) {
	session, err := h.cfg.Sessions.Get(input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}

	b := input.Body
	settings := domain.Settings{
		FontSize:           b.FontSize,
		LineHeight:         b.LineHeight,
		FontFamily:         b.FontFamily,
		Theme:              b.Theme,
		Margin:             b.Margin,
		ListingModeEnabled: b.ListingModeEnabled && h.cfg.Flags.IsEnabled(ctx, featureflags.ListingMode),
		ArticleFallback:    b.ArticleFallback,
		AutoActivate:       b.AutoActivate,
	}
	if _, err := session.ApplySettings(ctx, settings); err != nil {
		return nil, toHumaError(err)
	}
	return &SessionOutput{Body: mappers.ToSessionResponse(input.ID, session)}, nil
}

// Resize schedules a debounced re-layout and returns the current state
func (h *SessionHandler) Resize(ctx context.Context, input *SessionIDInput) (*SessionOutput, error) {
	session, err := h.cfg.Sessions.Get(input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	session.Resize(ctx)
	return &SessionOutput{Body: mappers.ToSessionResponse(input.ID, session)}, nil
}

// Delete restores the page and closes the tab
func (h *SessionHandler) Delete(ctx context.Context, input *SessionIDInput) (*struct{}, error) {
	if err := h.cfg.Sessions.Remove(ctx, input.ID); err != nil {
		if !readererrors.IsNotFound(err) {
			h.cfg.Logger.Warn("Session closed with errors", map[string]interface{}{
				"session_id": input.ID,
				"error":      err.Error(),
			})
			return nil, nil
		}
		return nil, toHumaError(err)
	}
	return nil, nil
}

func (h *SessionHandler) available(ctx context.Context) error {
	if !h.cfg.Flags.IsEnabled(ctx, featureflags.BrowserSessions) {
		return huma.Error503ServiceUnavailable("Browser sessions are disabled")
	}
	if h.cfg.Opener == nil || !h.cfg.Opener.Available() {
		return huma.Error503ServiceUnavailable("Browser is not available")
	}
	return nil
}
