// ABOUTME: DocumentFetcher that loads pages with gocolly/colly
// ABOUTME: Used by the HTTP API when a request names a URL but carries no markup

package colly

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	readererrors "pagereader-api/core/errors"
	"pagereader-api/core/interfaces"

	"github.com/gocolly/colly"
)

const (
	defaultUserAgent = "Mozilla/5.0 (compatible; PageReader/1.0)"
	maxBodySize      = 5 * 1024 * 1024
)

// Fetcher implements interfaces.DocumentFetcher
type Fetcher struct {
	timeout   time.Duration
	userAgent string
	transport http.RoundTripper
	logger    interfaces.Logger
}

// NewFetcher creates a fetcher with the given per-request timeout
func NewFetcher(timeout time.Duration, logger interfaces.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &Fetcher{timeout: timeout, userAgent: defaultUserAgent, logger: logger}
}

// SetTransport routes page loads through rt
func (f *Fetcher) SetTransport(rt http.RoundTripper) {
	f.transport = rt
}

// Fetch loads rawURL and returns the final URL after redirects with the body
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*interfaces.FetchedDocument, error) {
	target, err := url.Parse(rawURL)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return nil, &readererrors.ValidationError{Field: "url", Message: "must be an absolute http(s) URL"}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := colly.NewCollector(
		colly.UserAgent(f.userAgent),
		colly.MaxBodySize(maxBodySize),
		colly.Async(false),
		colly.AllowURLRevisit(),
	)
	if f.transport != nil {
		c.WithTransport(f.transport)
	}
	c.SetRequestTimeout(f.timeout)

	// colly has no context support; abort queued requests once ctx is done
	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	var fetched *interfaces.FetchedDocument
	var failure error

	c.OnResponse(func(r *colly.Response) {
		fetched = &interfaces.FetchedDocument{
			URL:         r.Request.URL.String(),
			ContentType: r.Headers.Get("Content-Type"),
			Body:        r.Body,
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		f.logger.Debug("Error fetching document", map[string]interface{}{
			"url":    rawURL,
			"error":  err.Error(),
			"status": r.StatusCode,
		})
		if r.StatusCode > 0 {
			failure = &readererrors.ExternalAPIError{StatusCode: r.StatusCode, Message: err.Error(), API: target.Host}
			return
		}
		failure = err
	})

	if err := c.Visit(target.String()); err != nil && failure == nil {
		failure = err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if failure != nil {
		return nil, failure
	}
	if fetched == nil {
		return nil, errors.New("no response received")
	}
	if ct := strings.ToLower(fetched.ContentType); ct != "" && !strings.Contains(ct, "html") {
		return nil, &readererrors.ValidationError{Field: "url", Message: "not an HTML document: " + fetched.ContentType}
	}

	return fetched, nil
}
