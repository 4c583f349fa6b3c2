package allbooks

import (
	"github.com/booklore/catalog-go/catalog"
)

// FetchStrategy identifies the single store fetch that satisfies a filter combination.
type FetchStrategy int

const (
	// FetchAll returns every book.
	FetchAll FetchStrategy = iota

	// FetchByAuthor returns the books of one resolved author.
	FetchByAuthor

	// FetchByGenre returns the books containing one genre.
	FetchByGenre

	// FetchByAuthorAndGenre returns the books of one resolved author containing one genre.
	FetchByAuthorAndGenre
)

// PlanFetch implements the fetch planning logic for the book listing.
// This is a pure function with no side effects - it maps the filter
// combination to the one fetch strategy that answers it.
//
// Planning Logic:
//
//	GIVEN: The filter of an AllBooks query
//	WHEN: Both the author name and a concrete genre are set
//	THEN: FetchByAuthorAndGenre is planned
//	WHEN: Only the author name is set
//	THEN: FetchByAuthor is planned
//	WHEN: Only a concrete genre is set
//	THEN: FetchByGenre is planned
//	OTHERWISE: FetchAll is planned
//
// The genre sentinel "all" counts as no genre filter.
func PlanFetch(filter catalog.BookFilter) FetchStrategy {
	switch {
	case filter.HasAuthorName() && filter.HasGenre():
		return FetchByAuthorAndGenre
	case filter.HasAuthorName():
		return FetchByAuthor
	case filter.HasGenre():
		return FetchByGenre
	default:
		return FetchAll
	}
}
