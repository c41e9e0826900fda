package pagination

// PageResult represents one page of a token-paginated result set.
// Generic type T allows reuse across different entity types.
type PageResult[T any] struct {
	Items        []T    `json:"items"`
	NextPage     string `json:"next_page,omitempty"`
	TotalResults int    `json:"total_results"`
}

// HasMore reports whether the backend advertised a follow-up page.
func (r *PageResult[T]) HasMore() bool {
	return r.NextPage != ""
}

// Append merges a follow-up page into the accumulated result, keeping the
// newest page token. Load-more flows append, they never replace.
func (r *PageResult[T]) Append(next PageResult[T]) {
	r.Items = append(r.Items, next.Items...)
	r.NextPage = next.NextPage
	if next.TotalResults > 0 {
		r.TotalResults = next.TotalResults
	}
}
