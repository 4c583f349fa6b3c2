package allgenres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booklore/catalog-go/catalog"
	"github.com/booklore/catalog-go/catalog/memoryengine"
	"github.com/booklore/catalog-go/features/query/allgenres"
)

func Test_QueryHandler_Handle_ReturnsOnlySentinelForEmptyCatalog(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEngine()
	handler := newHandler(t, store)

	// act
	result, err := handler.Handle(ctx)

	// assert
	assert.NoError(t, err, "Query should succeed")
	assert.Equal(t, []catalog.GenreString{catalog.GenreAll}, result.Genres,
		"Empty catalog should still offer the sentinel")
}

func Test_QueryHandler_Handle_ReturnsSortedDistinctGenresPlusSentinel(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEngine()
	handler := newHandler(t, store)

	// arrange
	martin, err := store.CreateAuthor(ctx, "Robert Martin")
	require.NoError(t, err)
	fowler, err := store.CreateAuthor(ctx, "Martin Fowler")
	require.NoError(t, err)

	_, err = store.CreateBook(ctx, catalog.NewBook{
		Title: "Clean Code", Published: 2008, Genres: []string{"refactoring", "design"}, AuthorID: martin.ID,
	})
	require.NoError(t, err)
	_, err = store.CreateBook(ctx, catalog.NewBook{
		Title: "Refactoring, edition 2", Published: 2018, Genres: []string{"refactoring"}, AuthorID: fowler.ID,
	})
	require.NoError(t, err)

	// act
	result, err := handler.Handle(ctx)

	// assert
	assert.NoError(t, err, "Query should succeed")
	assert.Equal(t, []catalog.GenreString{"design", "refactoring", catalog.GenreAll}, result.Genres,
		"Genres should be distinct, sorted, with the sentinel last")
	assert.Equal(t, 3, result.Count)
}

func newHandler(t *testing.T, store allgenres.GenreStore) allgenres.QueryHandler {
	t.Helper()

	handler, err := allgenres.NewQueryHandler(store)
	require.NoError(t, err, "Handler creation should succeed")

	return handler
}
