// ABOUTME: Immutable document snapshot taken at activation time
// ABOUTME: Heuristics read from it; extraction and sanitization work on private clones

package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Snapshot is a frozen copy of a page's render tree. The markup is kept as
// serialized HTML so every Clone is an independent tree.
type Snapshot struct {
	pageURL *url.URL
	markup  string
	view    *goquery.Document
}

// New parses markup for the given page URL
func New(rawURL string, markup []byte) (*Snapshot, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page url: %w", err)
	}
	return FromReader(pageURL, bytes.NewReader(markup))
}

// FromReader parses a document from r
func FromReader(pageURL *url.URL, r io.Reader) (*Snapshot, error) {
	if pageURL == nil {
		return nil, errors.New("page url is required")
	}
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return fromRoot(pageURL, root)
}

// FromDocument freezes an already parsed document. The caller may keep
// mutating doc afterwards; the snapshot is unaffected.
func FromDocument(pageURL *url.URL, doc *goquery.Document) (*Snapshot, error) {
	if doc == nil || len(doc.Nodes) == 0 {
		return nil, errors.New("document is empty")
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, doc.Nodes[0]); err != nil {
		return nil, fmt.Errorf("failed to serialize document: %w", err)
	}
	return FromReader(pageURL, &buf)
}

func fromRoot(pageURL *url.URL, root *html.Node) (*Snapshot, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return nil, fmt.Errorf("failed to serialize document: %w", err)
	}
	u := *pageURL
	return &Snapshot{
		pageURL: &u,
		markup:  buf.String(),
		view:    goquery.NewDocumentFromNode(root),
	}, nil
}

// URL returns a copy of the page URL
func (s *Snapshot) URL() *url.URL {
	u := *s.pageURL
	return &u
}

// Path returns the path component of the page URL
func (s *Snapshot) Path() string {
	return s.pageURL.Path
}

// HTML returns the serialized document
func (s *Snapshot) HTML() string {
	return s.markup
}

// View returns the shared read-only tree. Callers must not mutate it;
// use Clone for anything that writes.
func (s *Snapshot) View() *goquery.Document {
	return s.view
}

// Clone returns a private, mutable copy of the document
func (s *Snapshot) Clone() (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s.markup))
	if err != nil {
		return nil, fmt.Errorf("failed to clone document: %w", err)
	}
	doc.Url = s.URL()
	return doc, nil
}
