// ABOUTME: Preprocessor removes cookie banners, consent walls and embed placeholders
// ABOUTME: Operates on a private document clone before classification and extraction

package preprocess

import (
	"regexp"
	"sort"
	"strings"

	"pagereader-api/core/config"
	readererrors "pagereader-api/core/errors"
	"pagereader-api/core/interfaces"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Preprocessor strips known non-content noise from documents
type Preprocessor struct {
	heuristics config.Heuristics
	logger     interfaces.Logger
	selectors  []pattern
	patterns   []*regexp.Regexp
	candidates cascadia.Selector
}

// pattern is a compiled structural selector and its source text
type pattern struct {
	raw string
	sel cascadia.Selector
}

// Option adjusts a Preprocessor
type Option func(*options)

type options struct {
	selectors []string
	locales   map[string][]string
}

// WithSelectors appends structural patterns to the built-in list
func WithSelectors(selectors ...string) Option {
	return func(o *options) {
		o.selectors = append(o.selectors, selectors...)
	}
}

// WithLocale adds consent text patterns for another language
func WithLocale(lang string, patterns ...string) Option {
	return func(o *options) {
		o.locales[lang] = append(o.locales[lang], patterns...)
	}
}

// New compiles the pattern lists. Patterns the engine cannot compile are
// logged and skipped; one bad pattern never disables the others.
func New(heuristics config.Heuristics, logger interfaces.Logger, opts ...Option) *Preprocessor {
	if logger == nil {
		logger = interfaces.NopLogger{}
	}

	o := &options{
		selectors: append([]string(nil), DefaultSelectors...),
		locales:   make(map[string][]string, len(DefaultTextPatterns)),
	}
	for lang, patterns := range DefaultTextPatterns {
		o.locales[lang] = append([]string(nil), patterns...)
	}
	for _, opt := range opts {
		opt(o)
	}

	p := &Preprocessor{
		heuristics: heuristics,
		logger:     logger,
		candidates: cascadia.MustCompile(textCandidates),
	}

	for _, raw := range o.selectors {
		sel, err := cascadia.Compile(raw)
		if err != nil {
			p.skip(&readererrors.PatternError{Pattern: raw, Cause: err})
			continue
		}
		p.selectors = append(p.selectors, pattern{raw: raw, sel: sel})
	}

	langs := make([]string, 0, len(o.locales))
	for lang := range o.locales {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		for _, raw := range o.locales[lang] {
			re, err := regexp.Compile(raw)
			if err != nil {
				p.skip(&readererrors.PatternError{Pattern: raw, Cause: err})
				continue
			}
			p.patterns = append(p.patterns, re)
		}
	}

	return p
}

func (p *Preprocessor) skip(err error) {
	p.logger.Warn("Skipping unsupported removal pattern", map[string]interface{}{
		"error": err.Error(),
	})
}

// Stats reports what a Process call removed
type Stats struct {
	Structural int
	Iframes    int
	TextMatch  int
}

// Total is the number of removed elements
func (s Stats) Total() int {
	return s.Structural + s.Iframes + s.TextMatch
}

// Process removes noise from doc in place. doc must be a private clone.
func (p *Preprocessor) Process(doc *goquery.Document) Stats {
	var stats Stats
	if doc == nil {
		return stats
	}

	for _, pat := range p.selectors {
		stats.Structural += p.removeMatching(doc, pat)
	}

	doc.Find("iframe").Each(func(_ int, s *goquery.Selection) {
		if !usableFrameSource(s) {
			s.Remove()
			stats.Iframes++
		}
	})

	if len(p.patterns) > 0 {
		var matched []*goquery.Selection
		doc.FindMatcher(p.candidates).Each(func(_ int, s *goquery.Selection) {
			if p.matchesConsentText(s) {
				matched = append(matched, s)
			}
		})
		// the outermost matching element is removed with its descendants
		removed := make(map[*html.Node]bool)
		for _, s := range matched {
			n := s.Get(0)
			if insideRemoved(n, removed) || !attached(n) {
				continue
			}
			removed[n] = true
			s.Remove()
			stats.TextMatch++
		}
	}

	if stats.Total() > 0 {
		p.logger.Debug("Removed non-content elements", map[string]interface{}{
			"structural": stats.Structural,
			"iframes":    stats.Iframes,
			"text_match": stats.TextMatch,
		})
	}

	return stats
}

// removeMatching guards against panics from matcher implementations so a
// single pattern cannot abort the pass
func (p *Preprocessor) removeMatching(doc *goquery.Document, pat pattern) (removed int) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("Removal pattern failed", map[string]interface{}{
				"pattern": pat.raw,
				"panic":   r,
			})
		}
	}()

	matches := doc.FindMatcher(pat.sel)
	removed = matches.Length()
	matches.Remove()
	return removed
}

func (p *Preprocessor) matchesConsentText(s *goquery.Selection) bool {
	text := strings.TrimSpace(s.Text())
	if text == "" || len([]rune(text)) >= p.heuristics.ConsentMaxTextLength {
		return false
	}
	for _, re := range p.patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func usableFrameSource(s *goquery.Selection) bool {
	for _, attr := range []string{"src", "data-src"} {
		src, ok := s.Attr(attr)
		if !ok {
			continue
		}
		src = strings.ToLower(strings.TrimSpace(src))
		if src == "" || src == "about:blank" || strings.HasPrefix(src, "javascript:") {
			continue
		}
		return true
	}
	return false
}

// attached reports whether n is still connected to a document root
func insideRemoved(n *html.Node, removed map[*html.Node]bool) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if removed[p] {
			return true
		}
	}
	return false
}

func attached(n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n.Type == html.DocumentNode {
			return true
		}
	}
	return false
}
