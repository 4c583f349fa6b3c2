package addbook_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booklore/catalog-go/catalog"
	"github.com/booklore/catalog-go/catalog/memoryengine"
	"github.com/booklore/catalog-go/features/command/addbook"
	"github.com/booklore/catalog-go/subscriptions"
)

const receiveTimeout = 2 * time.Second

func Test_CommandHandler_Handle_AddsBookWithExistingAuthor(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEngine()
	handler := newHandler(t, store, nil)
	actor := givenUser(t, ctx, store)

	author, err := store.CreateAuthor(ctx, "Robert Martin")
	require.NoError(t, err)

	// act
	book, err := handler.Handle(ctx,
		addbook.BuildCommand("Clean Code", 2008, []string{"refactoring"}, "Robert Martin", actor))

	// assert
	assert.NoError(t, err, "Command should succeed")
	assert.Equal(t, "Clean Code", book.Title)
	assert.Equal(t, author.ID, book.Author.ID, "Existing author should be reused")

	count, err := store.CountAuthors(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "No second author should be created")
}

func Test_CommandHandler_Handle_CreatesUnknownAuthorOnTheFly(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEngine()
	handler := newHandler(t, store, nil)
	actor := givenUser(t, ctx, store)

	// act
	book, err := handler.Handle(ctx,
		addbook.BuildCommand("Refactoring, edition 2", 2018, []string{"refactoring"}, "Martin Fowler", actor))

	// assert
	assert.NoError(t, err, "Command should succeed")
	assert.Equal(t, "Martin Fowler", book.Author.Name)

	author, err := store.FindAuthorByName(ctx, "Martin Fowler")
	require.NoError(t, err)
	require.NotNil(t, author, "Author should have been created")
	assert.Nil(t, author.Born, "A created author has no birth year yet")
}

func Test_CommandHandler_Handle_RejectsUnauthenticatedCallerBeforeStoreAccess(t *testing.T) {
	// setup
	ctx := context.Background()
	spy := &spyStore{}
	handler := newHandler(t, spy, nil)

	// act
	_, err := handler.Handle(ctx,
		addbook.BuildCommand("Clean Code", 2008, []string{"refactoring"}, "Robert Martin", nil))

	// assert
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrUnauthorized)
	assert.Zero(t, spy.calls, "The store must not be touched for unauthenticated callers")
}

func Test_CommandHandler_Handle_RejectsDuplicateTitleWithoutAuthorSideEffect(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEngine()
	handler := newHandler(t, store, nil)
	actor := givenUser(t, ctx, store)

	_, err := handler.Handle(ctx,
		addbook.BuildCommand("Clean Code", 2008, []string{"refactoring"}, "Robert Martin", actor))
	require.NoError(t, err)

	// act - same title again, different author name
	_, err = handler.Handle(ctx,
		addbook.BuildCommand("Clean Code", 2008, []string{"refactoring"}, "Somebody Else", actor))

	// assert
	require.Error(t, err)

	var dupErr catalog.DuplicateTitleError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "Clean Code", dupErr.Title)

	other, findErr := store.FindAuthorByName(ctx, "Somebody Else")
	require.NoError(t, findErr)
	assert.Nil(t, other, "A rejected duplicate must not create an author")
}

func Test_CommandHandler_Handle_RejectsEmptyGenreSequenceWithoutSideEffects(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEngine()
	handler := newHandler(t, store, nil)
	actor := givenUser(t, ctx, store)

	// act - no genres at all
	_, err := handler.Handle(ctx,
		addbook.BuildCommand("Clean Code", 2008, nil, "Robert Martin", actor))

	// assert
	require.Error(t, err)

	var inputErr catalog.InvalidInputError
	require.ErrorAs(t, err, &inputErr)
	assert.Contains(t, inputErr.Args, "genres")

	bookCount, countErr := store.CountBooks(ctx)
	require.NoError(t, countErr)
	assert.Zero(t, bookCount, "A rejected book must not be persisted")

	author, findErr := store.FindAuthorByName(ctx, "Robert Martin")
	require.NoError(t, findErr)
	assert.Nil(t, author, "A rejected command must not create an author")
}

func Test_CommandHandler_Handle_RejectsMissingRequiredArguments(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEngine()
	handler := newHandler(t, store, nil)
	actor := givenUser(t, ctx, store)

	testCases := []struct {
		name       string
		title      string
		authorName string
		missingArg string
	}{
		{"blank title", "   ", "Robert Martin", "title"},
		{"blank author name", "Clean Code", "  ", "author"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := handler.Handle(ctx,
				addbook.BuildCommand(tc.title, 2008, []string{"refactoring"}, tc.authorName, actor))

			// assert
			require.Error(t, err)

			var inputErr catalog.InvalidInputError
			require.ErrorAs(t, err, &inputErr)
			assert.Contains(t, inputErr.Args, tc.missingArg)
		})
	}

	bookCount, err := store.CountBooks(ctx)
	require.NoError(t, err)
	assert.Zero(t, bookCount, "Rejected commands must not persist anything")
}

func Test_CommandHandler_Handle_SurfacesTitleValidationError(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEngine()
	handler := newHandler(t, store, nil)
	actor := givenUser(t, ctx, store)

	// act
	_, err := handler.Handle(ctx,
		addbook.BuildCommand("C", 2008, []string{"refactoring"}, "Robert Martin", actor))

	// assert
	require.Error(t, err)

	validationErr, ok := catalog.AsValidationError(err)
	require.True(t, ok, "Error should be a validation error")
	assert.Equal(t, "Title must be at least 2 characters long!", catalog.ValidationMessageFor(validationErr))
}

func Test_CommandHandler_Handle_SurfacesAuthorNameValidationError(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEngine()
	handler := newHandler(t, store, nil)
	actor := givenUser(t, ctx, store)

	// act
	_, err := handler.Handle(ctx,
		addbook.BuildCommand("Clean Code", 2008, []string{"refactoring"}, "Bob", actor))

	// assert
	require.Error(t, err)

	validationErr, ok := catalog.AsValidationError(err)
	require.True(t, ok, "Error should be a validation error")
	assert.Equal(t, "Name must be at least 5 characters long!", catalog.ValidationMessageFor(validationErr))
}

func Test_CommandHandler_Handle_KeepsCreatedAuthorWhenBookInsertFails(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEngine()
	handler := newHandler(t, store, nil)
	actor := givenUser(t, ctx, store)

	// act - the title passes the duplicate check but fails validation after
	// the unknown author was already created
	_, err := handler.Handle(ctx,
		addbook.BuildCommand("C", 2008, []string{"refactoring"}, "Martin Fowler", actor))

	// assert
	require.Error(t, err)

	author, findErr := store.FindAuthorByName(ctx, "Martin Fowler")
	require.NoError(t, findErr)
	assert.NotNil(t, author, "The two writes are not transactional: the author remains")
}

func Test_CommandHandler_Handle_AnnouncesAddedBookToSubscribers(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEngine()
	broker := subscriptions.NewBroker()
	defer broker.Close()

	handler := newHandler(t, store, broker)
	actor := givenUser(t, ctx, store)

	events, cancel := broker.Subscribe()
	defer cancel()

	// act
	book, err := handler.Handle(ctx,
		addbook.BuildCommand("Clean Code", 2008, []string{"refactoring"}, "Robert Martin", actor))
	require.NoError(t, err)

	// assert
	select {
	case received := <-events:
		assert.Equal(t, book.ID, received.ID, "The announced book should match the created one")
		assert.Equal(t, "Clean Code", received.Title)
	case <-time.After(receiveTimeout):
		t.Fatal("expected a book announcement")
	}
}

func Test_CommandHandler_Handle_DoesNotAnnounceFailedMutations(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEngine()
	broker := subscriptions.NewBroker()
	defer broker.Close()

	handler := newHandler(t, store, broker)
	actor := givenUser(t, ctx, store)

	events, cancel := broker.Subscribe()
	defer cancel()

	// act
	_, err := handler.Handle(ctx,
		addbook.BuildCommand("C", 2008, []string{"refactoring"}, "Robert Martin", actor))
	require.Error(t, err)

	// assert
	select {
	case book := <-events:
		t.Fatalf("no announcement expected, got %q", book.Title)
	case <-time.After(100 * time.Millisecond):
	}
}

func Test_CommandHandler_Handle_SucceedsWithoutPublisher(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEngine()
	handler := newHandler(t, store, nil)
	actor := givenUser(t, ctx, store)

	// act
	_, err := handler.Handle(ctx,
		addbook.BuildCommand("Clean Code", 2008, []string{"refactoring"}, "Robert Martin", actor))

	// assert
	assert.NoError(t, err, "A missing publisher must not fail the mutation")
}

/*** test helpers ***/

func newHandler(t *testing.T, store addbook.BookStore, publisher addbook.Publisher) addbook.CommandHandler {
	t.Helper()

	handler, err := addbook.NewCommandHandler(store, publisher)
	require.NoError(t, err, "Handler creation should succeed")

	return handler
}

func givenUser(t *testing.T, ctx context.Context, store *memoryengine.Engine) *catalog.User {
	t.Helper()

	user, err := store.CreateUser(ctx, catalog.NewUser{Username: "reader", FavoriteGenre: "refactoring"})
	require.NoError(t, err, "User creation should succeed")

	return &user
}

// spyStore counts store accesses to verify the authentication gate runs first.
type spyStore struct {
	calls int
}

func (s *spyStore) FindBookByTitle(_ context.Context, _ catalog.TitleString) (*catalog.Book, error) {
	s.calls++
	return nil, nil
}

func (s *spyStore) FindAuthorByName(_ context.Context, _ catalog.AuthorNameString) (*catalog.Author, error) {
	s.calls++
	return nil, nil
}

func (s *spyStore) CreateAuthor(_ context.Context, _ catalog.AuthorNameString) (catalog.Author, error) {
	s.calls++
	return catalog.Author{}, nil
}

func (s *spyStore) CreateBook(_ context.Context, _ catalog.NewBook) (catalog.Book, error) {
	s.calls++
	return catalog.Book{}, nil
}
