package pagination

import "errors"

const (
	PageDefaultSize = 20
	PageMaxSize     = 100
)

var ErrNegativePage = errors.New("page and per_page must not be negative")

// OffsetRequest is a 1-based page request. Zero values select the first page
// and the default size.
type OffsetRequest struct {
	Page int `json:"page" query:"page"`
	Size int `json:"per_page" query:"per_page"`
}

// Validate fills defaults and caps Size at PageMaxSize.
func (r *OffsetRequest) Validate() error {
	if r.Page < 0 || r.Size < 0 {
		return ErrNegativePage
	}
	if r.Page == 0 {
		r.Page = 1
	}
	if r.Size == 0 {
		r.Size = PageDefaultSize
	}
	r.Size = min(r.Size, PageMaxSize)
	return nil
}

// Offset returns the number of rows preceding the requested page.
func (r OffsetRequest) Offset() int {
	if r.Page <= 1 {
		return 0
	}
	return (r.Page - 1) * r.Size
}
