// ABOUTME: Document metadata read from a snapshot: title, site name, direction, language
// ABOUTME: Falls back from <title> to og:title and from og:site_name to the host

package document

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Title returns the document title, preferring <title> over og:title
func (s *Snapshot) Title() string {
	if title := strings.TrimSpace(s.view.Find("head title").First().Text()); title != "" {
		return title
	}
	return metaContent(s.view, `meta[property="og:title"]`)
}

// SiteName returns og:site_name, or the host without a leading www.
func (s *Snapshot) SiteName() string {
	if name := metaContent(s.view, `meta[property="og:site_name"]`); name != "" {
		return name
	}
	return strings.TrimPrefix(s.pageURL.Hostname(), "www.")
}

// Direction returns the text direction declared on <html> or <body>
func (s *Snapshot) Direction() string {
	for _, sel := range []string{"html", "body"} {
		if dir, ok := s.view.Find(sel).First().Attr("dir"); ok {
			dir = strings.ToLower(strings.TrimSpace(dir))
			if dir == "rtl" || dir == "ltr" || dir == "auto" {
				return dir
			}
		}
	}
	return ""
}

// Language returns the lang attribute of <html>
func (s *Snapshot) Language() string {
	lang, _ := s.view.Find("html").First().Attr("lang")
	return strings.TrimSpace(lang)
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}
