package memoryengine_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booklore/catalog-go/catalog"
	"github.com/booklore/catalog-go/catalog/memoryengine"
)

func Test_Engine_FindAllBooks_ReturnsBooksInTitleOrderWithAuthorJoined(t *testing.T) {
	// setup
	ctx := context.Background()
	engine := memoryengine.NewEngine()

	// arrange
	givenBook(t, ctx, engine, "Refactoring", 1999, []string{"refactoring"}, "Martin Fowler")
	givenBook(t, ctx, engine, "Clean Code", 2008, []string{"refactoring"}, "Robert Martin")

	// act
	books, err := engine.FindAllBooks(ctx, catalog.Demand{})

	// assert
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Clean Code", books[0].Title, "Books should be sorted by title")
	assert.Equal(t, "Refactoring", books[1].Title)
	assert.Equal(t, "Robert Martin", books[0].Author.Name, "Author should be joined")
	assert.Nil(t, books[0].Author.BookCount, "Book count should not be computed without demand")
}

func Test_Engine_FindAllBooks_ComputesBookCountWhenDemanded(t *testing.T) {
	// setup
	ctx := context.Background()
	engine := memoryengine.NewEngine()

	// arrange
	givenBook(t, ctx, engine, "Clean Code", 2008, []string{"refactoring"}, "Robert Martin")
	givenBook(t, ctx, engine, "Clean Agile", 2019, []string{"agile"}, "Robert Martin")

	// act
	books, err := engine.FindAllBooks(ctx, catalog.Demand{AuthorBookCount: true})

	// assert
	require.NoError(t, err)
	require.Len(t, books, 2)
	require.NotNil(t, books[0].Author.BookCount)
	assert.Equal(t, 2, *books[0].Author.BookCount, "Robert Martin has 2 books")
}

func Test_Engine_FindBooksByAuthorIDAndGenre_AppliesBothPredicates(t *testing.T) {
	// setup
	ctx := context.Background()
	engine := memoryengine.NewEngine()

	// arrange
	givenBook(t, ctx, engine, "Clean Code", 2008, []string{"refactoring"}, "Robert Martin")
	givenBook(t, ctx, engine, "Clean Agile", 2019, []string{"agile"}, "Robert Martin")
	fowler := givenBook(t, ctx, engine, "Refactoring", 1999, []string{"refactoring"}, "Martin Fowler")

	martin, err := engine.FindAuthorByName(ctx, "Robert Martin")
	require.NoError(t, err)
	require.NotNil(t, martin)

	// act
	byAuthor, err := engine.FindBooksByAuthorID(ctx, martin.ID, catalog.Demand{})
	require.NoError(t, err)

	byGenre, err := engine.FindBooksByGenre(ctx, "refactoring", catalog.Demand{})
	require.NoError(t, err)

	byBoth, err := engine.FindBooksByAuthorIDAndGenre(ctx, fowler.Author.ID, "refactoring", catalog.Demand{})
	require.NoError(t, err)

	// assert
	assert.Len(t, byAuthor, 2, "Robert Martin wrote 2 books")
	assert.Len(t, byGenre, 2, "2 books carry the refactoring genre")
	require.Len(t, byBoth, 1, "Only one refactoring book by Martin Fowler")
	assert.Equal(t, "Refactoring", byBoth[0].Title)
}

func Test_Engine_FindBookByTitle_ReturnsNilForUnknownTitle(t *testing.T) {
	// setup
	ctx := context.Background()
	engine := memoryengine.NewEngine()

	// arrange
	givenBook(t, ctx, engine, "Clean Code", 2008, []string{"refactoring"}, "Robert Martin")

	// act
	found, err := engine.FindBookByTitle(ctx, "Clean Code")
	require.NoError(t, err)

	missing, missingErr := engine.FindBookByTitle(ctx, "No Such Book")
	require.NoError(t, missingErr, "Absence is not an error")

	// assert
	require.NotNil(t, found)
	assert.Equal(t, "Clean Code", found.Title)
	assert.Nil(t, missing)
}

func Test_Engine_AllGenres_ReturnsDistinctGenresSorted(t *testing.T) {
	// setup
	ctx := context.Background()
	engine := memoryengine.NewEngine()

	// arrange
	givenBook(t, ctx, engine, "Clean Code", 2008, []string{"refactoring", "design"}, "Robert Martin")
	givenBook(t, ctx, engine, "Refactoring", 1999, []string{"refactoring"}, "Martin Fowler")

	// act
	genres, err := engine.AllGenres(ctx)

	// assert
	require.NoError(t, err)
	assert.Equal(t, []string{"design", "refactoring"}, genres, "Genres should be distinct and sorted")
}

func Test_Engine_FindAllAuthors_ReturnsAuthorsInNameOrder(t *testing.T) {
	// setup
	ctx := context.Background()
	engine := memoryengine.NewEngine()

	// arrange
	givenAuthor(t, ctx, engine, "Robert Martin")
	givenAuthor(t, ctx, engine, "Martin Fowler")

	// act
	authors, err := engine.FindAllAuthors(ctx, catalog.Demand{})

	// assert
	require.NoError(t, err)
	require.Len(t, authors, 2)
	assert.Equal(t, "Martin Fowler", authors[0].Name, "Authors should be sorted by name")
	assert.Equal(t, "Robert Martin", authors[1].Name)
	assert.Nil(t, authors[0].BookCount, "Book count should not be computed without demand")
}

func Test_Engine_FindAllAuthors_ComputesZeroBookCountForBooklessAuthor(t *testing.T) {
	// setup
	ctx := context.Background()
	engine := memoryengine.NewEngine()

	// arrange
	givenAuthor(t, ctx, engine, "Joshua Kerievsky")
	givenBook(t, ctx, engine, "Clean Code", 2008, []string{"refactoring"}, "Robert Martin")

	// act
	authors, err := engine.FindAllAuthors(ctx, catalog.Demand{AuthorBookCount: true})

	// assert
	require.NoError(t, err)
	require.Len(t, authors, 2)
	require.NotNil(t, authors[0].BookCount)
	assert.Equal(t, 0, *authors[0].BookCount, "A bookless author has an explicit count of zero")
	require.NotNil(t, authors[1].BookCount)
	assert.Equal(t, 1, *authors[1].BookCount)
}

func Test_Engine_CreateAuthor_RejectsConstraintViolations(t *testing.T) {
	// setup
	ctx := context.Background()
	engine := memoryengine.NewEngine()

	// arrange
	givenAuthor(t, ctx, engine, "Robert Martin")

	testCases := []struct {
		name         string
		authorName   string
		expectedKind string
	}{
		{"empty name", "   ", catalog.KindRequired},
		{"too short name", "Bob", catalog.KindMinLength},
		{"duplicate name", "Robert Martin", catalog.KindUnique},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := engine.CreateAuthor(ctx, tc.authorName)

			// assert
			require.Error(t, err)
			verr, ok := catalog.AsValidationError(err)
			require.True(t, ok, "Error should be a validation error")
			assert.Equal(t, catalog.EntityAuthor, verr.Entity)
			assert.Equal(t, catalog.FieldName, verr.Field)
			assert.Equal(t, tc.expectedKind, verr.Kind)
		})
	}
}

func Test_Engine_CreateBook_RejectsConstraintViolations(t *testing.T) {
	// setup
	ctx := context.Background()
	engine := memoryengine.NewEngine()

	// arrange
	author := givenAuthor(t, ctx, engine, "Robert Martin")
	givenBook(t, ctx, engine, "Clean Code", 2008, []string{"refactoring"}, "Robert Martin")

	testCases := []struct {
		name         string
		title        string
		expectedKind string
	}{
		{"empty title", "  ", catalog.KindRequired},
		{"too short title", "C", catalog.KindMinLength},
		{"duplicate title", "Clean Code", catalog.KindUnique},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := engine.CreateBook(ctx, catalog.NewBook{Title: tc.title, Published: 2020, AuthorID: author.ID})

			// assert
			require.Error(t, err)
			verr, ok := catalog.AsValidationError(err)
			require.True(t, ok, "Error should be a validation error")
			assert.Equal(t, catalog.EntityBook, verr.Entity)
			assert.Equal(t, catalog.FieldTitle, verr.Field)
			assert.Equal(t, tc.expectedKind, verr.Kind)
		})
	}
}

func Test_Engine_CreateBook_FailsForUnknownAuthorReference(t *testing.T) {
	// setup
	ctx := context.Background()
	engine := memoryengine.NewEngine()

	// act
	_, err := engine.CreateBook(ctx, catalog.NewBook{Title: "Clean Code", Published: 2008, AuthorID: uuid.New()})

	// assert
	require.Error(t, err, "A book must reference an existing author")
}

func Test_Engine_SaveAuthor_PersistsTheBirthYear(t *testing.T) {
	// setup
	ctx := context.Background()
	engine := memoryengine.NewEngine()

	// arrange
	author := givenAuthor(t, ctx, engine, "Robert Martin")
	born := 1952

	// act
	author.Born = &born
	saved, err := engine.SaveAuthor(ctx, author)

	// assert
	require.NoError(t, err)
	require.NotNil(t, saved.Born)
	assert.Equal(t, 1952, *saved.Born)

	reloaded, err := engine.FindAuthorByName(ctx, "Robert Martin")
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	require.NotNil(t, reloaded.Born)
	assert.Equal(t, 1952, *reloaded.Born)
}

func Test_Engine_SaveAuthor_FailsForUnknownAuthor(t *testing.T) {
	// setup
	ctx := context.Background()
	engine := memoryengine.NewEngine()

	// act
	_, err := engine.SaveAuthor(ctx, catalog.Author{ID: uuid.New(), Name: "Nobody Known"})

	// assert
	require.Error(t, err)
}

func Test_Engine_CountBooksAndAuthors(t *testing.T) {
	// setup
	ctx := context.Background()
	engine := memoryengine.NewEngine()

	// arrange
	givenBook(t, ctx, engine, "Clean Code", 2008, []string{"refactoring"}, "Robert Martin")
	givenBook(t, ctx, engine, "Refactoring", 1999, []string{"refactoring"}, "Martin Fowler")
	givenAuthor(t, ctx, engine, "Joshua Kerievsky")

	// act
	bookCount, err := engine.CountBooks(ctx)
	require.NoError(t, err)

	authorCount, err := engine.CountAuthors(ctx)
	require.NoError(t, err)

	// assert
	assert.Equal(t, 2, bookCount)
	assert.Equal(t, 3, authorCount)
}

func Test_Engine_CreateUser_EnforcesUsernameUniqueness(t *testing.T) {
	// setup
	ctx := context.Background()
	engine := memoryengine.NewEngine()

	// arrange
	created, err := engine.CreateUser(ctx, catalog.NewUser{Username: "reader", FavoriteGenre: "refactoring"})
	require.NoError(t, err)

	// act
	_, dupErr := engine.CreateUser(ctx, catalog.NewUser{Username: "reader", FavoriteGenre: "agile"})

	// assert
	require.Error(t, dupErr)
	verr, ok := catalog.AsValidationError(dupErr)
	require.True(t, ok, "Error should be a validation error")
	assert.Equal(t, catalog.KindUnique, verr.Kind)

	byName, err := engine.FindUserByUsername(ctx, "reader")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, created.ID, byName.ID)

	byID, err := engine.FindUserByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "reader", byID.Username)
}

func Test_Engine_FindUserByUsername_ReturnsNilForUnknownUser(t *testing.T) {
	// setup
	ctx := context.Background()
	engine := memoryengine.NewEngine()

	// act
	user, err := engine.FindUserByUsername(ctx, "nobody")

	// assert
	require.NoError(t, err, "Absence is not an error")
	assert.Nil(t, user)
}

/*** test helpers ***/

func givenAuthor(t *testing.T, ctx context.Context, engine *memoryengine.Engine, name string) catalog.Author {
	t.Helper()

	author, err := engine.CreateAuthor(ctx, name)
	require.NoError(t, err, "Author creation should succeed")

	return author
}

func givenBook(
	t *testing.T,
	ctx context.Context,
	engine *memoryengine.Engine,
	title string,
	published int,
	genres []string,
	authorName string,
) catalog.Book {
	t.Helper()

	author, err := engine.FindAuthorByName(ctx, authorName)
	require.NoError(t, err)

	if author == nil {
		created := givenAuthor(t, ctx, engine, authorName)
		author = &created
	}

	book, err := engine.CreateBook(ctx, catalog.NewBook{
		Title:     title,
		Published: published,
		Genres:    genres,
		AuthorID:  author.ID,
	})
	require.NoError(t, err, "Book creation should succeed")

	return book
}
