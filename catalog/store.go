package catalog

import (
	"context"

	"github.com/google/uuid"
)

// NewBook carries the persisted fields of a book creation.
// The AuthorID must reference an existing author at commit time.
type NewBook struct {
	Title     TitleString
	Published int
	Genres    []GenreString
	AuthorID  uuid.UUID
}

// NewUser carries the persisted fields of a user registration.
type NewUser struct {
	Username      string
	FavoriteGenre GenreString
}

// BookReader is the read side of the book collection.
//
// Each Find method corresponds to exactly one fetch strategy of the
// relation fetch planner. All of them return books with the author
// joined; Author.BookCount is populated only when the given Demand
// requests it. Lookups that match nothing return (nil, nil) - absence
// is not an error at this level.
type BookReader interface {
	FindAllBooks(ctx context.Context, demand Demand) ([]Book, error)
	FindBooksByAuthorID(ctx context.Context, authorID uuid.UUID, demand Demand) ([]Book, error)
	FindBooksByGenre(ctx context.Context, genre GenreString, demand Demand) ([]Book, error)
	FindBooksByAuthorIDAndGenre(ctx context.Context, authorID uuid.UUID, genre GenreString, demand Demand) ([]Book, error)
	FindBookByTitle(ctx context.Context, title TitleString) (*Book, error)
	CountBooks(ctx context.Context) (int, error)
	AllGenres(ctx context.Context) ([]GenreString, error)
}

// AuthorReader is the read side of the author collection.
type AuthorReader interface {
	FindAuthorByName(ctx context.Context, name AuthorNameString) (*Author, error)
	FindAllAuthors(ctx context.Context, demand Demand) ([]Author, error)
	CountAuthors(ctx context.Context) (int, error)
}

// BookWriter is the write side of the book collection.
// Constraint violations surface as ValidationError with the offending
// field and kind (required, minlength, unique).
type BookWriter interface {
	CreateBook(ctx context.Context, book NewBook) (Book, error)
}

// AuthorWriter is the write side of the author collection.
// Authors are never deleted.
type AuthorWriter interface {
	CreateAuthor(ctx context.Context, name AuthorNameString) (Author, error)
	SaveAuthor(ctx context.Context, author Author) (Author, error)
}

// UserStore is the user collection consumed by the authentication
// collaborator.
type UserStore interface {
	FindUserByUsername(ctx context.Context, username string) (*User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	CreateUser(ctx context.Context, user NewUser) (User, error)
}

// Store is the complete entity store port. Engines in
// catalog/postgresengine and catalog/memoryengine implement it.
type Store interface {
	BookReader
	AuthorReader
	BookWriter
	AuthorWriter
	UserStore
}
