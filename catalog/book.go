package catalog

import (
	"github.com/google/uuid"
)

// TitleMinLength is the minimum length of a book title.
const TitleMinLength = 2

// TitleString represents a book title.
type TitleString = string

// GenreString represents a single genre tag.
type GenreString = string

// Book represents one catalog entry. The Author is always joined;
// whether Author.BookCount is populated depends on the demand of the
// read request that produced this Book (see AnalyzeDemand).
//
// Books are immutable once created - there is no update path.
type Book struct {
	ID        uuid.UUID
	Title     TitleString
	Published int
	Genres    []GenreString
	Author    Author
}

// HasGenre reports whether the book's genre sequence contains the given genre.
func (b Book) HasGenre(genre GenreString) bool {
	for _, g := range b.Genres {
		if g == genre {
			return true
		}
	}

	return false
}
