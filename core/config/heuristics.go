// ABOUTME: Heuristic thresholds for classification, listing extraction and preprocessing
// ABOUTME: Values are part of the behavioural contract; tests override them to probe boundaries

package config

// Heuristics holds every threshold used by the classifier, the listing
// extractor and the preprocessor
type Heuristics struct {
	// MinArticleTextLength is the paragraph text total an article must exceed
	MinArticleTextLength int

	// SubstantialParagraphLength is the length a paragraph must exceed to count as substantial
	SubstantialParagraphLength int

	// MinSubstantialParagraphs is the substantial paragraph count an article must exceed
	MinSubstantialParagraphs int

	// ListingOverrideParagraphs lets a page with listing structure still pass
	// as an article when it has more substantial paragraphs than this
	ListingOverrideParagraphs int

	// ListingStructureThreshold is the count of card-like elements above which a page has listing structure
	ListingStructureThreshold int

	// MinArticleWords is the word count the speculative extraction must exceed
	MinArticleWords int

	// SectionTitleMaxLength is the longest heading text accepted as a section header
	SectionTitleMaxLength int

	// MaxSectionHeadingLevel is the deepest heading level used for section headers
	MaxSectionHeadingLevel int

	// MinLinkTextLength and MaxLinkTextLength bound accepted link text
	MinLinkTextLength int
	MaxLinkTextLength int

	// MainLinkMinTextLength is the text length the plain-link main link candidate needs
	MainLinkMinTextLength int

	// MinListingItems triggers the fallback pass when fewer items were extracted
	MinListingItems int

	// FallbackLinkMinTextLength is the text length links need in the fallback pass
	FallbackLinkMinTextLength int

	// ConsentMaxTextLength is the longest text an element may have and still be
	// removed for matching a consent or embed pattern
	ConsentMaxTextLength int

	// ExtractionCharThreshold is passed to the extraction library
	ExtractionCharThreshold int

	// ClassesToPreserve are kept by the extraction library while pruning
	ClassesToPreserve []string

	// WordsPerMinute converts word count to reading time
	WordsPerMinute int
}

// DefaultHeuristics returns the production thresholds
func DefaultHeuristics() Heuristics {
	return Heuristics{
		MinArticleTextLength:       2000,
		SubstantialParagraphLength: 100,
		MinSubstantialParagraphs:   3,
		ListingOverrideParagraphs:  5,
		ListingStructureThreshold:  10,
		MinArticleWords:            200,
		SectionTitleMaxLength:      25,
		MaxSectionHeadingLevel:     2,
		MinLinkTextLength:          5,
		MaxLinkTextLength:          400,
		MainLinkMinTextLength:      20,
		MinListingItems:            5,
		FallbackLinkMinTextLength:  15,
		ConsentMaxTextLength:       1000,
		ExtractionCharThreshold:    500,
		ClassesToPreserve:          []string{"caption", "figure", "wp-caption", "wp-caption-text", "emoji"},
		WordsPerMinute:             200,
	}
}

// HeuristicsOption is a functional option for adjusting thresholds
type HeuristicsOption func(*Heuristics)

// WithMinArticleWords overrides the speculative extraction word threshold
func WithMinArticleWords(words int) HeuristicsOption {
	return func(h *Heuristics) {
		h.MinArticleWords = words
	}
}

// WithSectionTitleMaxLength overrides the section header length cutoff
func WithSectionTitleMaxLength(length int) HeuristicsOption {
	return func(h *Heuristics) {
		h.SectionTitleMaxLength = length
	}
}

// WithMinListingItems overrides the fallback trigger
func WithMinListingItems(items int) HeuristicsOption {
	return func(h *Heuristics) {
		h.MinListingItems = items
	}
}

// NewHeuristics creates thresholds from the defaults and the given options
func NewHeuristics(opts ...HeuristicsOption) Heuristics {
	h := DefaultHeuristics()

	for _, opt := range opts {
		opt(&h)
	}

	return h
}
