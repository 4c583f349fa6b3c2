package catalog

// GenreAll is the sentinel genre value that bypasses genre filtering
// entirely. It is a reserved filter value, not a real category: a
// request for genre "all" behaves exactly like a request without a
// genre filter.
const GenreAll GenreString = "all"

// BookFilter carries the filter arguments of a books read request.
// Empty strings mean "absent".
type BookFilter struct {
	AuthorName AuthorNameString
	Genre      GenreString
}

// HasAuthorName reports whether an author filter was supplied.
func (f BookFilter) HasAuthorName() bool {
	return f.AuthorName != ""
}

// HasGenre reports whether an effective genre filter was supplied.
// The GenreAll sentinel counts as "no genre filter".
func (f BookFilter) HasGenre() bool {
	return f.Genre != "" && f.Genre != GenreAll
}
