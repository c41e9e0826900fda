package pagination

// PageRequest represents a token-paginated list request. Page is the opaque
// token returned by the previous response; empty means the first page.
type PageRequest struct {
	Page string `json:"page,omitempty" query:"page"`
	Max  int    `json:"max" query:"max"`
}

// Validate validates and normalizes pagination parameters
func (r *PageRequest) Validate() error {
	if r.Max <= 0 {
		r.Max = PageDefaultSize
	}
	if r.Max > PageMaxSize {
		r.Max = PageMaxSize
	}
	return nil
}
