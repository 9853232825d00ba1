// ABOUTME: Accumulator for the listing walk: open section, kept sections and item count
// ABOUTME: Title links are claimed in the de-duplication set only when their section is kept

package listing

import "pagereader-api/core/domain"

// accumulator collects sections and items during the walk. A section is
// only kept once it holds at least one item.
type accumulator struct {
	sections []domain.Section
	current  *domain.Section
	items    int

	// claim registers a kept section's title link; false drops the link
	claim func(domain.Link) bool
}

// openSection starts a new section. The current one is closed if it has
// items, otherwise it is replaced.
func (a *accumulator) openSection(title string, level int, link *domain.Link) {
	a.closeSection()
	a.current = &domain.Section{
		Title:        title,
		HeadingLevel: level,
		TitleLink:    link,
	}
}

// addItem appends to the current section, opening an untitled one if needed
func (a *accumulator) addItem(item domain.Item) {
	if a.current == nil {
		a.current = &domain.Section{}
	}
	a.current.Items = append(a.current.Items, item)
	a.items++
}

func (a *accumulator) closeSection() {
	if a.current != nil && len(a.current.Items) > 0 {
		if a.current.TitleLink != nil && a.claim != nil && !a.claim(*a.current.TitleLink) {
			a.current.TitleLink = nil
		}
		a.sections = append(a.sections, *a.current)
	}
	a.current = nil
}

// appendFallback adds items to the open or last section, or to a new
// untitled section when there is none
func (a *accumulator) appendFallback(items []domain.Item) {
	if len(items) == 0 {
		return
	}
	a.items += len(items)
	if a.current != nil {
		a.current.Items = append(a.current.Items, items...)
		a.closeSection()
		return
	}
	if len(a.sections) == 0 {
		a.sections = append(a.sections, domain.Section{})
	}
	last := &a.sections[len(a.sections)-1]
	last.Items = append(last.Items, items...)
}

func (a *accumulator) itemCount() int {
	return a.items
}

// finish closes the open section and returns the result
func (a *accumulator) finish() []domain.Section {
	a.closeSection()
	if a.sections == nil {
		return []domain.Section{}
	}
	return a.sections
}
