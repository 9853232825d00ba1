// ABOUTME: Main client for the page reader library
// ABOUTME: Offers classification, extraction and rendering without HTTP dependencies

package pagereader

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"pagereader-api/core/config"
	"pagereader-api/core/document"
	"pagereader-api/core/domain"
	readererrors "pagereader-api/core/errors"
	"pagereader-api/core/interfaces"
	"pagereader-api/core/reader"
	"pagereader-api/core/render"
	"pagereader-api/core/store"
)

// blankURL is the base for markup passed without a page URL
const blankURL = "about:blank"

// Config holds the configuration for the client
type Config struct {
	// Cache stores reader settings
	Cache interfaces.Cache

	// Logger configuration
	Logger interfaces.Logger

	// Extractor is the article extraction library
	Extractor interfaces.ArticleExtractor

	// Fetcher loads pages requested without markup
	Fetcher interfaces.DocumentFetcher

	// Heuristics are the classification and extraction thresholds
	Heuristics config.Heuristics

	// FetchTimeout applies to the default fetcher
	FetchTimeout time.Duration

	fetcherSet bool
	closers    []io.Closer
}

func (c *Config) logger() interfaces.Logger {
	if c.Logger == nil {
		return QuietLogger()
	}
	return c.Logger
}

func (c *Config) fillDefaults() {
	if c.Logger == nil {
		c.Logger = DefaultLogger()
	}
	if c.Cache == nil {
		c.Cache = DefaultMemoryCache()
	}
	if c.Extractor == nil {
		c.Extractor = DefaultExtractor()
	}
	if c.Fetcher == nil && !c.fetcherSet {
		c.Fetcher = DefaultFetcher(c.FetchTimeout, c.Logger)
	}
}

// Client is the main entry point for the page reader library
type Client struct {
	pipeline *reader.Pipeline
	store    *store.Store
	fetcher  interfaces.DocumentFetcher
	logger   interfaces.Logger
	closers  []io.Closer

	mu     sync.RWMutex
	closed bool
}

// NewClient creates a new client with the given options
func NewClient(options ...Option) (*Client, error) {
	cfg := defaultConfig()

	for _, opt := range options {
		if err := opt(&cfg); err != nil {
			closeAll(cfg.closers)
			return nil, err
		}
	}
	cfg.fillDefaults()

	if err := validateConfig(&cfg); err != nil {
		closeAll(cfg.closers)
		return nil, err
	}

	deps := interfaces.Dependencies{
		Cache:     cfg.Cache,
		Extractor: cfg.Extractor,
		Fetcher:   cfg.Fetcher,
		Logger:    cfg.Logger,
	}

	return &Client{
		pipeline: reader.NewPipeline(cfg.Heuristics, deps),
		store:    store.New(cfg.Cache, cfg.Cache, cfg.Logger),
		fetcher:  cfg.Fetcher,
		logger:   cfg.Logger,
		closers:  cfg.closers,
	}, nil
}

// Close releases caches opened by the client
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return closeAll(c.closers)
}

// Classify decides whether a page opens as an article or a listing. A nil
// html fetches pageURL.
func (c *Client) Classify(ctx context.Context, pageURL string, html []byte) (*Classification, error) {
	prepared, err := c.prepare(ctx, pageURL, html)
	if err != nil {
		return nil, err
	}

	isArticle, signals := c.pipeline.Classify(ctx, prepared)
	mode := ModeListing
	if isArticle {
		mode = ModeArticle
	}
	return &Classification{IsArticle: isArticle, Mode: mode, Signals: signals}, nil
}

// Article extracts the main article of a page
func (c *Client) Article(ctx context.Context, pageURL string, html []byte) (*Article, error) {
	prepared, err := c.prepare(ctx, pageURL, html)
	if err != nil {
		return nil, err
	}
	article, err := c.pipeline.Article(ctx, prepared)
	return article, wrap(err)
}

// Listing extracts the sections of a listing page. A page without any
// sections is an error.
func (c *Client) Listing(ctx context.Context, pageURL string, html []byte) (*Listing, error) {
	prepared, err := c.prepare(ctx, pageURL, html)
	if err != nil {
		return nil, err
	}
	listing, err := c.pipeline.Listing(prepared)
	if err != nil {
		return nil, wrap(err)
	}
	if len(listing.Sections) == 0 {
		return nil, wrap(&readererrors.ListingEmptyError{URL: listing.SourceURL})
	}
	return listing, nil
}

// Read classifies a page, extracts it in the chosen mode and renders the
// content block with the stored settings. An empty listing falls back to
// article mode when the ArticleFallback setting is on.
func (c *Client) Read(ctx context.Context, pageURL string, html []byte) (*Page, error) {
	prepared, err := c.prepare(ctx, pageURL, html)
	if err != nil {
		return nil, err
	}

	settings, err := c.store.LoadSettings(ctx)
	if err != nil {
		c.logger.Warn("Using default settings", map[string]interface{}{"error": err.Error()})
	}

	page, err := c.read(ctx, prepared, settings)
	if err != nil {
		return nil, wrap(err)
	}

	switch page.Mode {
	case ModeArticle:
		page.HTML, err = render.Article(page.Article, settings)
	case ModeListing:
		page.HTML, err = render.Listing(page.Listing, settings)
	}
	if err != nil {
		return nil, wrap(err)
	}
	return page, nil
}

func (c *Client) read(ctx context.Context, prepared *document.Snapshot, settings domain.Settings) (*Page, error) {
	isArticle, _ := c.pipeline.Classify(ctx, prepared)
	if isArticle || !settings.ListingModeEnabled {
		return c.readArticle(ctx, prepared)
	}

	listing, err := c.pipeline.Listing(prepared)
	if err != nil {
		return nil, err
	}
	if len(listing.Sections) > 0 {
		return &Page{Mode: ModeListing, Listing: listing}, nil
	}
	if settings.ArticleFallback {
		return c.readArticle(ctx, prepared)
	}
	return nil, &readererrors.ListingEmptyError{URL: listing.SourceURL}
}

func (c *Client) readArticle(ctx context.Context, prepared *document.Snapshot) (*Page, error) {
	article, err := c.pipeline.Article(ctx, prepared)
	if err != nil {
		return nil, err
	}
	return &Page{Mode: ModeArticle, Article: article}, nil
}

// Sanitize removes scripts, event handlers and unsafe URLs from a fragment
func (c *Client) Sanitize(fragment string) string {
	return c.pipeline.Sanitize(fragment)
}

// Settings returns the stored reader settings
func (c *Client) Settings(ctx context.Context) (Settings, error) {
	if err := c.checkOpen(); err != nil {
		return domain.DefaultSettings(), err
	}
	settings, err := c.store.LoadSettings(ctx)
	return settings, wrap(err)
}

// SaveSettings stores reader settings used by Read
func (c *Client) SaveSettings(ctx context.Context, settings Settings) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	return wrap(c.store.SaveSettings(ctx, settings))
}

// prepare loads the page and runs the preprocessor on a private copy
func (c *Client) prepare(ctx context.Context, pageURL string, html []byte) (*document.Snapshot, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}

	if html == nil {
		if pageURL == "" {
			return nil, NewError(ErrorTypeValidation, "either a page url or markup is required")
		}
		if c.fetcher == nil {
			return nil, ErrNoFetcher
		}
		fetched, err := c.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			if readererrors.IsValidation(err) {
				return nil, wrap(err)
			}
			return nil, NewError(ErrorTypeNetwork, "failed to fetch page").
				WithCause(err).
				WithContext("url", pageURL)
		}
		pageURL, html = fetched.URL, fetched.Body
	} else if pageURL == "" {
		pageURL = blankURL
	}

	snap, err := document.New(pageURL, html)
	if err != nil {
		return nil, NewError(ErrorTypeValidation, "invalid page").WithCause(err).WithContext("url", pageURL)
	}
	prepared, err := c.pipeline.Prepare(snap)
	return prepared, wrap(err)
}

func (c *Client) checkOpen() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClientClosed
	}
	return nil
}

// validateConfig validates the client configuration
func validateConfig(cfg *Config) error {
	if cfg.Cache == nil {
		return NewError(ErrorTypeConfiguration, "cache is required")
	}

	if cfg.Extractor == nil {
		return NewError(ErrorTypeConfiguration, "extractor is required")
	}

	h := cfg.Heuristics
	if h.MinListingItems < 1 || h.MinArticleWords < 0 || h.WordsPerMinute < 1 {
		return NewError(ErrorTypeConfiguration, "invalid heuristics").
			WithContext("min_listing_items", h.MinListingItems).
			WithContext("words_per_minute", h.WordsPerMinute)
	}

	return nil
}

func closeAll(closers []io.Closer) error {
	var errs []error
	for _, c := range closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
