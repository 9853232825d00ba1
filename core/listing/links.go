// ABOUTME: Link validation and normalization for listing extraction
// ABOUTME: Every accepted href passes through one de-duplication set per extraction

package listing

import (
	"net/url"
	"regexp"
	"strings"

	"pagereader-api/core/config"
	"pagereader-api/core/domain"
	"pagereader-api/core/sanitize"
	htmlutil "pagereader-api/pkg/utils/html"
)

// boilerplateText matches navigational link text that never makes a listing entry
var boilerplateText = regexp.MustCompile(`(?i)^(` +
	`home|home ?page|about|about us|contact|contact us|` +
	`log ?in|log ?out|sign ?in|sign ?up|register|my account|` +
	`subscribe|subscribe now|newsletter|menu|main menu|open menu|close menu|` +
	`search|privacy|privacy policy|privacy settings|` +
	`terms|terms of (use|service)|terms (and|&) conditions|` +
	`cookies?|cookie (policy|settings|preferences)|` +
	`skip to\b.*|` +
	`more\s*(…|\.\.\.)` +
	`)$`)

// linkFactory validates links and owns the global de-duplication set
type linkFactory struct {
	heuristics config.Heuristics
	base       *url.URL
	seen       map[string]struct{}
}

func newLinkFactory(heuristics config.Heuristics, base *url.URL) *linkFactory {
	b := *base
	b.Fragment = ""
	b.RawFragment = ""
	return &linkFactory{
		heuristics: heuristics,
		base:       &b,
		seen:       make(map[string]struct{}),
	}
}

// create validates href/text with the normal text bounds and registers the
// link on success
func (f *linkFactory) create(href, text string) (domain.Link, bool) {
	return f.createWithMin(href, text, f.heuristics.MinLinkTextLength)
}

// createWithMin is create with a custom minimum text length
func (f *linkFactory) createWithMin(href, text string, minText int) (domain.Link, bool) {
	link, ok := f.check(href, text, minText)
	if !ok {
		return domain.Link{}, false
	}
	f.seen[link.Href] = struct{}{}
	return link, true
}

// check validates without registering
func (f *linkFactory) check(href, text string, minText int) (domain.Link, bool) {
	href = strings.TrimSpace(href)
	text = htmlutil.StripHTML(text)
	if href == "" || text == "" {
		return domain.Link{}, false
	}

	length := htmlutil.RuneLength(text)
	if length < minText || length > f.heuristics.MaxLinkTextLength {
		return domain.Link{}, false
	}
	if sanitize.IsScriptURL(href) || strings.HasPrefix(href, "#") {
		return domain.Link{}, false
	}
	if boilerplateText.MatchString(text) {
		return domain.Link{}, false
	}

	abs, ok := f.normalize(href)
	if !ok {
		return domain.Link{}, false
	}
	if _, dup := f.seen[abs.String()]; dup {
		return domain.Link{}, false
	}

	return domain.Link{
		Href:       abs.String(),
		Text:       text,
		IsExternal: f.isExternal(abs),
	}, true
}

// normalize resolves href against the page, drops the fragment and rejects
// non-http schemes and links back to the page itself
func (f *linkFactory) normalize(href string) (*url.URL, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return nil, false
	}
	abs := f.base.ResolveReference(ref)

	scheme := strings.ToLower(abs.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, false
	}
	abs.Scheme = scheme
	abs.Host = strings.ToLower(abs.Host)

	hadFragment := abs.Fragment != ""
	abs.Fragment = ""
	abs.RawFragment = ""

	if hadFragment && sameDocument(abs, f.base) {
		return nil, false
	}
	return abs, true
}

func (f *linkFactory) isExternal(u *url.URL) bool {
	return siteHost(u) != siteHost(f.base)
}

// claim registers a link validated earlier with check. It fails when the
// href was taken in the meantime.
func (f *linkFactory) claim(link domain.Link) bool {
	if f.used(link.Href) {
		return false
	}
	f.seen[link.Href] = struct{}{}
	return true
}

func (f *linkFactory) used(href string) bool {
	_, ok := f.seen[href]
	return ok
}

func sameDocument(a, b *url.URL) bool {
	return strings.EqualFold(a.Host, b.Host) &&
		strings.TrimSuffix(a.Path, "/") == strings.TrimSuffix(b.Path, "/") &&
		a.RawQuery == b.RawQuery
}

func siteHost(u *url.URL) string {
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
