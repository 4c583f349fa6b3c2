// Package memoryengine provides a concurrent in-memory implementation
// of the catalog.Store port. It backs the feature tests and the demo
// binary when no Postgres instance is available.
//
// Lookups run against lock-free xsync maps; writes are serialized with
// a single mutex so uniqueness checks and the order indexes stay
// consistent. Reads sort books by title and authors by name, matching
// the ordering guarantees of the Postgres engine.
package memoryengine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/booklore/catalog-go/catalog"
)

// bookRecord is the persisted shape of a book: the author is stored as
// a reference and joined on read.
type bookRecord struct {
	id        uuid.UUID
	title     string
	published int
	genres    []string
	authorID  uuid.UUID
}

// authorRecord is the persisted shape of an author. The derived book
// count is never stored.
type authorRecord struct {
	id   uuid.UUID
	name string
	born *int
}

// userRecord is the persisted shape of a user.
type userRecord struct {
	id            uuid.UUID
	username      string
	favoriteGenre string
}

// Engine implements catalog.Store with in-memory collections.
type Engine struct {
	books         *xsync.MapOf[uuid.UUID, bookRecord]
	booksByTitle  *xsync.MapOf[string, uuid.UUID]
	authors       *xsync.MapOf[uuid.UUID, authorRecord]
	authorsByName *xsync.MapOf[string, uuid.UUID]
	users         *xsync.MapOf[uuid.UUID, userRecord]
	usersByName   *xsync.MapOf[string, uuid.UUID]

	mu          sync.Mutex // serializes writes and guards the order indexes
	bookOrder   []uuid.UUID
	authorOrder []uuid.UUID
}

// NewEngine creates an empty in-memory catalog store.
func NewEngine() *Engine {
	return &Engine{
		books:         xsync.NewMapOf[uuid.UUID, bookRecord](),
		booksByTitle:  xsync.NewMapOf[string, uuid.UUID](),
		authors:       xsync.NewMapOf[uuid.UUID, authorRecord](),
		authorsByName: xsync.NewMapOf[string, uuid.UUID](),
		users:         xsync.NewMapOf[uuid.UUID, userRecord](),
		usersByName:   xsync.NewMapOf[string, uuid.UUID](),
	}
}

var _ catalog.Store = (*Engine)(nil)

/***** BookReader *****/

// FindAllBooks returns every book in title order with the author joined.
func (e *Engine) FindAllBooks(ctx context.Context, demand catalog.Demand) ([]catalog.Book, error) {
	return e.findBooks(ctx, demand, func(bookRecord) bool { return true })
}

// FindBooksByAuthorID returns the books referencing the given author id.
func (e *Engine) FindBooksByAuthorID(ctx context.Context, authorID uuid.UUID, demand catalog.Demand) ([]catalog.Book, error) {
	return e.findBooks(ctx, demand, func(rec bookRecord) bool {
		return rec.authorID == authorID
	})
}

// FindBooksByGenre returns the books whose genre sequence contains the given genre.
func (e *Engine) FindBooksByGenre(ctx context.Context, genre catalog.GenreString, demand catalog.Demand) ([]catalog.Book, error) {
	return e.findBooks(ctx, demand, func(rec bookRecord) bool {
		return containsGenre(rec.genres, genre)
	})
}

// FindBooksByAuthorIDAndGenre returns the books matching both the author id and the genre membership.
func (e *Engine) FindBooksByAuthorIDAndGenre(
	ctx context.Context,
	authorID uuid.UUID,
	genre catalog.GenreString,
	demand catalog.Demand,
) ([]catalog.Book, error) {

	return e.findBooks(ctx, demand, func(rec bookRecord) bool {
		return rec.authorID == authorID && containsGenre(rec.genres, genre)
	})
}

// FindBookByTitle returns the book with the exact title, or (nil, nil) if none exists.
func (e *Engine) FindBookByTitle(_ context.Context, title catalog.TitleString) (*catalog.Book, error) {
	id, ok := e.booksByTitle.Load(title)
	if !ok {
		return nil, nil
	}

	rec, ok := e.books.Load(id)
	if !ok {
		return nil, nil
	}

	book, err := e.joinAuthor(rec, catalog.Demand{})
	if err != nil {
		return nil, err
	}

	return &book, nil
}

// CountBooks returns the number of books.
func (e *Engine) CountBooks(_ context.Context) (int, error) {
	return e.books.Size(), nil
}

// AllGenres returns the distinct genre tags across all books, sorted.
func (e *Engine) AllGenres(_ context.Context) ([]catalog.GenreString, error) {
	seen := make(map[string]struct{})

	e.books.Range(func(_ uuid.UUID, rec bookRecord) bool {
		for _, genre := range rec.genres {
			seen[genre] = struct{}{}
		}
		return true
	})

	genres := make([]catalog.GenreString, 0, len(seen))
	for genre := range seen {
		genres = append(genres, genre)
	}
	sort.Strings(genres)

	return genres, nil
}

/***** AuthorReader *****/

// FindAuthorByName returns the author with the exact name, or (nil, nil) if none exists.
func (e *Engine) FindAuthorByName(_ context.Context, name catalog.AuthorNameString) (*catalog.Author, error) {
	id, ok := e.authorsByName.Load(name)
	if !ok {
		return nil, nil
	}

	rec, ok := e.authors.Load(id)
	if !ok {
		return nil, nil
	}

	author := toAuthor(rec)

	return &author, nil
}

// FindAllAuthors returns every author in name order.
// The derived book count is computed only when demanded; otherwise it stays nil.
func (e *Engine) FindAllAuthors(_ context.Context, demand catalog.Demand) ([]catalog.Author, error) {
	e.mu.Lock()
	order := make([]uuid.UUID, len(e.authorOrder))
	copy(order, e.authorOrder)
	e.mu.Unlock()

	var counts map[uuid.UUID]int
	if demand.AuthorBookCount {
		counts = e.bookCountsByAuthor()
	}

	authors := make([]catalog.Author, 0, len(order))

	for _, id := range order {
		rec, ok := e.authors.Load(id)
		if !ok {
			continue
		}

		author := toAuthor(rec)
		if demand.AuthorBookCount {
			author = author.WithBookCount(counts[id])
		}

		authors = append(authors, author)
	}

	sort.Slice(authors, func(i, j int) bool { return authors[i].Name < authors[j].Name })

	return authors, nil
}

// CountAuthors returns the number of authors.
func (e *Engine) CountAuthors(_ context.Context) (int, error) {
	return e.authors.Size(), nil
}

/***** AuthorWriter *****/

// CreateAuthor validates and persists a new author.
// Constraint violations surface as catalog.ValidationError.
func (e *Engine) CreateAuthor(_ context.Context, name catalog.AuthorNameString) (catalog.Author, error) {
	if strings.TrimSpace(name) == "" {
		return catalog.Author{}, catalog.ValidationError{Entity: catalog.EntityAuthor, Field: catalog.FieldName, Kind: catalog.KindRequired}
	}

	if len(name) < catalog.AuthorNameMinLength {
		return catalog.Author{}, catalog.ValidationError{Entity: catalog.EntityAuthor, Field: catalog.FieldName, Kind: catalog.KindMinLength}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.authorsByName.Load(name); exists {
		return catalog.Author{}, catalog.ValidationError{Entity: catalog.EntityAuthor, Field: catalog.FieldName, Kind: catalog.KindUnique}
	}

	rec := authorRecord{id: uuid.New(), name: name}
	e.authors.Store(rec.id, rec)
	e.authorsByName.Store(rec.name, rec.id)
	e.authorOrder = append(e.authorOrder, rec.id)

	return toAuthor(rec), nil
}

// SaveAuthor persists the mutable fields of an existing author (the birth year).
func (e *Engine) SaveAuthor(_ context.Context, author catalog.Author) (catalog.Author, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec, ok := e.authors.Load(author.ID)
	if !ok {
		return catalog.Author{}, fmt.Errorf("author %s does not exist", author.ID)
	}

	rec.born = author.Born
	e.authors.Store(rec.id, rec)

	return toAuthor(rec), nil
}

/***** BookWriter *****/

// CreateBook validates and persists a new book. The author reference
// must resolve to an existing author at commit time.
func (e *Engine) CreateBook(_ context.Context, book catalog.NewBook) (catalog.Book, error) {
	if strings.TrimSpace(book.Title) == "" {
		return catalog.Book{}, catalog.ValidationError{Entity: catalog.EntityBook, Field: catalog.FieldTitle, Kind: catalog.KindRequired}
	}

	if len(book.Title) < catalog.TitleMinLength {
		return catalog.Book{}, catalog.ValidationError{Entity: catalog.EntityBook, Field: catalog.FieldTitle, Kind: catalog.KindMinLength}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.booksByTitle.Load(book.Title); exists {
		return catalog.Book{}, catalog.ValidationError{Entity: catalog.EntityBook, Field: catalog.FieldTitle, Kind: catalog.KindUnique}
	}

	authorRec, ok := e.authors.Load(book.AuthorID)
	if !ok {
		return catalog.Book{}, fmt.Errorf("author %s does not exist", book.AuthorID)
	}

	rec := bookRecord{
		id:        uuid.New(),
		title:     book.Title,
		published: book.Published,
		genres:    append([]string(nil), book.Genres...),
		authorID:  book.AuthorID,
	}
	e.books.Store(rec.id, rec)
	e.booksByTitle.Store(rec.title, rec.id)
	e.bookOrder = append(e.bookOrder, rec.id)

	return catalog.Book{
		ID:        rec.id,
		Title:     rec.title,
		Published: rec.published,
		Genres:    append([]string(nil), rec.genres...),
		Author:    toAuthor(authorRec),
	}, nil
}

/***** UserStore *****/

// FindUserByUsername returns the user with the exact username, or (nil, nil) if none exists.
func (e *Engine) FindUserByUsername(_ context.Context, username string) (*catalog.User, error) {
	id, ok := e.usersByName.Load(username)
	if !ok {
		return nil, nil
	}

	rec, ok := e.users.Load(id)
	if !ok {
		return nil, nil
	}

	user := toUser(rec)

	return &user, nil
}

// FindUserByID returns the user with the given id, or (nil, nil) if none exists.
func (e *Engine) FindUserByID(_ context.Context, id uuid.UUID) (*catalog.User, error) {
	rec, ok := e.users.Load(id)
	if !ok {
		return nil, nil
	}

	user := toUser(rec)

	return &user, nil
}

// CreateUser validates and persists a new user.
func (e *Engine) CreateUser(_ context.Context, user catalog.NewUser) (catalog.User, error) {
	if strings.TrimSpace(user.Username) == "" {
		return catalog.User{}, catalog.ValidationError{Entity: catalog.EntityUser, Field: catalog.FieldUsername, Kind: catalog.KindRequired}
	}

	if len(user.Username) < catalog.UsernameMinLength {
		return catalog.User{}, catalog.ValidationError{Entity: catalog.EntityUser, Field: catalog.FieldUsername, Kind: catalog.KindMinLength}
	}

	if strings.TrimSpace(user.FavoriteGenre) == "" {
		return catalog.User{}, catalog.ValidationError{Entity: catalog.EntityUser, Field: catalog.FieldFavoriteGenre, Kind: catalog.KindRequired}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.usersByName.Load(user.Username); exists {
		return catalog.User{}, catalog.ValidationError{Entity: catalog.EntityUser, Field: catalog.FieldUsername, Kind: catalog.KindUnique}
	}

	rec := userRecord{id: uuid.New(), username: user.Username, favoriteGenre: user.FavoriteGenre}
	e.users.Store(rec.id, rec)
	e.usersByName.Store(rec.username, rec.id)

	return toUser(rec), nil
}

/***** internals *****/

// findBooks applies the match predicate to every book, joins the author
// (with the book count when demanded) and sorts the result by title.
func (e *Engine) findBooks(_ context.Context, demand catalog.Demand, match func(bookRecord) bool) ([]catalog.Book, error) {
	e.mu.Lock()
	order := make([]uuid.UUID, len(e.bookOrder))
	copy(order, e.bookOrder)
	e.mu.Unlock()

	var counts map[uuid.UUID]int
	if demand.AuthorBookCount {
		counts = e.bookCountsByAuthor()
	}

	books := make([]catalog.Book, 0, len(order))

	for _, id := range order {
		rec, ok := e.books.Load(id)
		if !ok || !match(rec) {
			continue
		}

		book, err := e.joinAuthorWithCounts(rec, demand, counts)
		if err != nil {
			return nil, err
		}

		books = append(books, book)
	}

	sort.Slice(books, func(i, j int) bool { return books[i].Title < books[j].Title })

	return books, nil
}

// joinAuthor resolves the author reference of a book record.
func (e *Engine) joinAuthor(rec bookRecord, demand catalog.Demand) (catalog.Book, error) {
	var counts map[uuid.UUID]int
	if demand.AuthorBookCount {
		counts = e.bookCountsByAuthor()
	}

	return e.joinAuthorWithCounts(rec, demand, counts)
}

func (e *Engine) joinAuthorWithCounts(rec bookRecord, demand catalog.Demand, counts map[uuid.UUID]int) (catalog.Book, error) {
	authorRec, ok := e.authors.Load(rec.authorID)
	if !ok {
		return catalog.Book{}, fmt.Errorf("book %s references missing author %s", rec.id, rec.authorID)
	}

	author := toAuthor(authorRec)
	if demand.AuthorBookCount {
		author = author.WithBookCount(counts[authorRec.id])
	}

	return catalog.Book{
		ID:        rec.id,
		Title:     rec.title,
		Published: rec.published,
		Genres:    append([]string(nil), rec.genres...),
		Author:    author,
	}, nil
}

// bookCountsByAuthor computes the number of books per author id.
func (e *Engine) bookCountsByAuthor() map[uuid.UUID]int {
	counts := make(map[uuid.UUID]int)

	e.books.Range(func(_ uuid.UUID, rec bookRecord) bool {
		counts[rec.authorID]++
		return true
	})

	return counts
}

func containsGenre(genres []string, genre string) bool {
	for _, g := range genres {
		if g == genre {
			return true
		}
	}

	return false
}

func toAuthor(rec authorRecord) catalog.Author {
	return catalog.Author{ID: rec.id, Name: rec.name, Born: rec.born}
}

func toUser(rec userRecord) catalog.User {
	return catalog.User{ID: rec.id, Username: rec.username, FavoriteGenre: rec.favoriteGenre}
}
