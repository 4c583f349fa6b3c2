package allauthors_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booklore/catalog-go/catalog"
	"github.com/booklore/catalog-go/catalog/memoryengine"
	"github.com/booklore/catalog-go/features/query/allauthors"
)

func Test_QueryHandler_Handle_ReturnsAllAuthorsInNameOrder(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEngine()
	handler := newHandler(t, store)

	// arrange
	givenAuthor(t, ctx, store, "Robert Martin")
	givenAuthor(t, ctx, store, "Martin Fowler")
	givenAuthor(t, ctx, store, "Joshua Kerievsky")

	// act
	result, err := handler.Handle(ctx, allauthors.BuildQuery(nil))

	// assert
	assert.NoError(t, err, "Query should succeed")
	require.Equal(t, 3, result.Count, "Should have 3 authors")

	names := make([]string, 0, len(result.Authors))
	for _, author := range result.Authors {
		names = append(names, author.Name)
	}
	assert.Equal(t, []string{"Joshua Kerievsky", "Martin Fowler", "Robert Martin"}, names,
		"Authors should be sorted by name")
}

func Test_QueryHandler_Handle_ComputesBookCountOnlyWhenSelected(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEngine()
	handler := newHandler(t, store)

	// arrange
	martin := givenAuthor(t, ctx, store, "Robert Martin")
	givenAuthor(t, ctx, store, "Martin Fowler")
	givenBook(t, ctx, store, "Clean Code", 2008, martin.ID)
	givenBook(t, ctx, store, "Agile software development", 2002, martin.ID)

	// act - selection without bookCount
	slim := catalog.NewFieldSelection().With("name").With("born")
	slimResult, err := handler.Handle(ctx, allauthors.BuildQuery(&slim))
	require.NoError(t, err)

	// act - selection with bookCount
	counted := catalog.NewFieldSelection().With("name").With(catalog.FieldBookCount)
	countedResult, err := handler.Handle(ctx, allauthors.BuildQuery(&counted))
	require.NoError(t, err)

	// assert
	require.Equal(t, 2, slimResult.Count)
	for _, author := range slimResult.Authors {
		assert.Nil(t, author.BookCount, "Book count should not be computed without demand")
	}

	require.Equal(t, 2, countedResult.Count)
	byName := make(map[string]catalog.Author, len(countedResult.Authors))
	for _, author := range countedResult.Authors {
		byName[author.Name] = author
	}

	require.NotNil(t, byName["Robert Martin"].BookCount)
	assert.Equal(t, 2, *byName["Robert Martin"].BookCount, "Robert Martin has 2 books")

	require.NotNil(t, byName["Martin Fowler"].BookCount)
	assert.Equal(t, 0, *byName["Martin Fowler"].BookCount, "A bookless author gets an explicit zero")
}

func Test_QueryHandler_Handle_NilSelectionComputesEverything(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEngine()
	handler := newHandler(t, store)

	// arrange
	givenAuthor(t, ctx, store, "Robert Martin")

	// act
	result, err := handler.Handle(ctx, allauthors.BuildQuery(nil))

	// assert
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)
	require.NotNil(t, result.Authors[0].BookCount, "Unknown demand should compute all derived fields")
	assert.Equal(t, 0, *result.Authors[0].BookCount)
}

/*** test helpers ***/

func newHandler(t *testing.T, store allauthors.AuthorStore) allauthors.QueryHandler {
	t.Helper()

	handler, err := allauthors.NewQueryHandler(store)
	require.NoError(t, err, "Handler creation should succeed")

	return handler
}

func givenAuthor(t *testing.T, ctx context.Context, store *memoryengine.Engine, name string) catalog.Author {
	t.Helper()

	author, err := store.CreateAuthor(ctx, name)
	require.NoError(t, err, "Author creation should succeed")

	return author
}

func givenBook(t *testing.T, ctx context.Context, store *memoryengine.Engine, title string, published int, authorID uuid.UUID) catalog.Book {
	t.Helper()

	book, err := store.CreateBook(ctx, catalog.NewBook{
		Title:     title,
		Published: published,
		Genres:    []string{"agile"},
		AuthorID:  authorID,
	})
	require.NoError(t, err, "Book creation should succeed")

	return book
}
