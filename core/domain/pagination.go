// ABOUTME: Pagination state shared between the pagination engine and its callers
// ABOUTME: Holds the current page, total page count and horizontal stride

package domain

// PaginationState describes a laid-out content block.
// Invariant: TotalPages >= 1 and 0 <= CurrentPageIndex < TotalPages.
type PaginationState struct {
	CurrentPageIndex int     `json:"currentPageIndex"`
	TotalPages       int     `json:"totalPages"`
	PageStride       float64 `json:"pageStride"`
}

// Valid reports whether the state satisfies its invariant
func (p PaginationState) Valid() bool {
	return p.TotalPages >= 1 && p.CurrentPageIndex >= 0 && p.CurrentPageIndex < p.TotalPages
}

// Offset returns the translation applied to the content block for the current page
func (p PaginationState) Offset() float64 {
	return -float64(p.CurrentPageIndex) * p.PageStride
}

// SinglePage is the state used for degenerate layouts
func SinglePage(stride float64) PaginationState {
	if stride < 0 {
		stride = 0
	}
	return PaginationState{CurrentPageIndex: 0, TotalPages: 1, PageStride: stride}
}
