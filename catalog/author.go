package catalog

import (
	"github.com/google/uuid"
)

// AuthorNameMinLength is the minimum length of an author name.
const AuthorNameMinLength = 5

// AuthorNameString represents an author name.
type AuthorNameString = string

// Author represents a book author.
//
// BookCount is a derived field: it is never stored and only computed
// when the read request demands it. A nil BookCount means "not
// computed" - distinct from a computed count of zero.
type Author struct {
	ID        uuid.UUID
	Name      AuthorNameString
	Born      *int
	BookCount *int
}

// WithBookCount returns a copy of the author with the derived book count populated.
func (a Author) WithBookCount(count int) Author {
	a.BookCount = &count
	return a
}
