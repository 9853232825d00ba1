// ABOUTME: Listing extractor rebuilds a non-article page as sections of headline links
// ABOUTME: A single document-order walk is followed by a plain-link fallback for sparse pages

package listing

import (
	"pagereader-api/core/config"
	"pagereader-api/core/document"
	"pagereader-api/core/domain"
	readererrors "pagereader-api/core/errors"
	"pagereader-api/core/interfaces"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// mainRegion locates the main content area for the fallback pass, in order
var mainRegion = []string{"main", `[role="main"]`, "#main", "#content", ".main-content"}

// Extractor builds ListingData from snapshots
type Extractor struct {
	heuristics config.Heuristics
	logger     interfaces.Logger
}

// New creates a listing extractor
func New(heuristics config.Heuristics, logger interfaces.Logger) *Extractor {
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &Extractor{heuristics: heuristics, logger: logger}
}

// Extract walks the snapshot and returns its listing. A page with no usable
// links yields zero sections and no error; callers decide what that means.
func (e *Extractor) Extract(snap *document.Snapshot) (*domain.ListingData, error) {
	if snap == nil {
		return nil, &readererrors.ValidationError{Field: "snapshot", Message: "snapshot is required"}
	}

	doc := snap.View()
	links := newLinkFactory(e.heuristics, snap.URL())
	v := &visitor{
		ext:       e,
		links:     links,
		acc:       &accumulator{claim: links.claim},
		processed: make(map[*html.Node]bool),
	}

	body := doc.Find("body")
	for _, root := range body.Nodes {
		v.walk(root)
	}

	walked := v.acc.itemCount()
	if walked < e.heuristics.MinListingItems {
		v.acc.appendFallback(e.fallback(doc, v.links))
	}

	sections := v.acc.finish()
	e.logger.Debug("Listing extracted", map[string]interface{}{
		"url":      snap.URL().String(),
		"sections": len(sections),
		"items":    v.acc.itemCount(),
		"fallback": v.acc.itemCount() - walked,
	})

	return &domain.ListingData{
		SiteName:  snap.SiteName(),
		PageTitle: snap.Title(),
		SourceURL: snap.URL().String(),
		Sections:  sections,
	}, nil
}

// fallback collects every sufficiently long, unused link in the main region
func (e *Extractor) fallback(doc *goquery.Document, links *linkFactory) []domain.Item {
	region := doc.Find("body")
	for _, sel := range mainRegion {
		if found := doc.Find(sel).First(); found.Length() > 0 {
			region = found
			break
		}
	}

	var items []domain.Item
	region.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		link, ok := links.createWithMin(href, nodeText(a.Nodes[0]), e.heuristics.FallbackLinkMinTextLength)
		if ok {
			items = append(items, domain.Item{Main: link})
		}
	})
	return items
}
