// ABOUTME: Request DTOs for browser-backed reader sessions
// ABOUTME: Navigation actions and viewport sizes are validated by huma tags

package requests

// CreateSessionRequest opens a page in the headless browser
type CreateSessionRequest struct {
	URL      string `json:"url" required:"true" format:"uri" maxLength:"2048" example:"https://example.com/story"`
	Width    int    `json:"width,omitempty" minimum:"0" maximum:"4096" doc:"Viewport width in CSS pixels, 0 for the server default"`
	Height   int    `json:"height,omitempty" minimum:"0" maximum:"4096" doc:"Viewport height in CSS pixels, 0 for the server default"`
	Activate bool   `json:"activate,omitempty" doc:"Activate reader mode right after the page loads"`
}

// NavigateRequest moves between pages of an active session
type NavigateRequest struct {
	Action string `json:"action" required:"true" enum:"next,prev,goto"`
	Index  int    `json:"index,omitempty" minimum:"0" doc:"Target page for goto"`
}

// SettingsRequest replaces the reader settings
type SettingsRequest struct {
	FontSize           int     `json:"fontSize" minimum:"8" maximum:"72"`
	LineHeight         float64 `json:"lineHeight" minimum:"1" maximum:"3"`
	FontFamily         string  `json:"fontFamily" maxLength:"128"`
	Theme              string  `json:"theme" enum:"light,dark,sepia"`
	Margin             int     `json:"margin" minimum:"0" maximum:"400"`
	ListingModeEnabled bool    `json:"listingModeEnabled"`
	ArticleFallback    bool    `json:"articleFallback"`
	AutoActivate       bool    `json:"autoActivate"`
}
