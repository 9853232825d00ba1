// ABOUTME: Headless Chrome lifecycle for reader sessions, driven through go-rod
// ABOUTME: Connects to a remote browser or launches a local one and opens stealth tabs

package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"pagereader-api/core/interfaces"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// ErrUnavailable is returned when no browser is running
var ErrUnavailable = errors.New("browser: not available")

// Config configures the browser manager
type Config struct {
	// ControlURL is the DevTools WebSocket URL of an external Chrome.
	// Empty launches a local Chrome when Launch is set.
	ControlURL string
	Launch     bool

	// Viewport applied to every tab
	Width  int
	Height int
	DPR    float64

	// NavigationTimeout bounds page loads. Default: 30s.
	NavigationTimeout time.Duration

	Logger interfaces.Logger
}

func (c *Config) defaults() {
	if c.Width <= 0 {
		c.Width = 1280
	}
	if c.Height <= 0 {
		c.Height = 800
	}
	if c.DPR <= 0 {
		c.DPR = 1
	}
	if c.NavigationTimeout <= 0 {
		c.NavigationTimeout = 30 * time.Second
	}
	if c.Logger == nil {
		c.Logger = interfaces.NopLogger{}
	}
}

// Manager owns the Chrome process or remote connection
type Manager struct {
	cfg     Config
	mu      sync.RWMutex
	browser *rod.Browser
	lnch    *launcher.Launcher
	closed  bool
}

// NewManager creates a Manager. Call Start before opening tabs.
func NewManager(cfg Config) *Manager {
	cfg.defaults()
	return &Manager{cfg: cfg}
}

// Enabled reports whether the configuration names a browser at all
func (m *Manager) Enabled() bool {
	return m.cfg.ControlURL != "" || m.cfg.Launch
}

// Start connects to or launches Chrome
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errors.New("browser: manager is closed")
	}
	if m.browser != nil {
		return nil
	}
	if !m.Enabled() {
		return ErrUnavailable
	}

	wsURL := m.cfg.ControlURL
	if wsURL == "" {
		l := launcher.New().Headless(true).Set("disable-blink-features", "AutomationControlled")
		u, err := l.Context(ctx).Launch()
		if err != nil {
			return fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		m.lnch = l
		m.cfg.Logger.Info("Launched local chrome", map[string]interface{}{"url": wsURL})
	} else {
		m.cfg.Logger.Info("Connecting to remote chrome", map[string]interface{}{"url": wsURL})
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		m.cleanup()
		return fmt.Errorf("browser: connect: %w", err)
	}
	m.browser = b
	return nil
}

// Available reports whether a browser is connected
func (m *Manager) Available() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.browser != nil && !m.closed
}

// Open creates a stealth tab and loads pageURL. Zero width or height falls
// back to the configured viewport.
func (m *Manager) Open(ctx context.Context, pageURL string, width, height int) (*Tab, error) {
	if width <= 0 {
		width = m.cfg.Width
	}
	if height <= 0 {
		height = m.cfg.Height
	}

	m.mu.RLock()
	b := m.browser
	m.mu.RUnlock()
	if b == nil {
		return nil, ErrUnavailable
	}

	page, err := stealth.Page(b)
	if err != nil {
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: m.cfg.DPR,
	})
	if err != nil {
		page.Close()
		return nil, fmt.Errorf("browser: set viewport: %w", err)
	}

	navCtx, cancel := context.WithTimeout(ctx, m.cfg.NavigationTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		page.Close()
		return nil, fmt.Errorf("browser: navigate %s: %w", pageURL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		m.cfg.Logger.Warn("Page load wait timed out", map[string]interface{}{
			"url":   pageURL,
			"error": err.Error(),
		})
	}

	return &Tab{page: page, logger: m.cfg.Logger}, nil
}

// Close shuts the browser down
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return m.cleanup()
}

func (m *Manager) cleanup() error {
	var err error
	if m.browser != nil {
		err = m.browser.Close()
		m.browser = nil
	}
	if m.lnch != nil {
		m.lnch.Cleanup()
		m.lnch = nil
	}
	return err
}
