package login_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booklore/catalog-go/auth"
	"github.com/booklore/catalog-go/catalog"
	"github.com/booklore/catalog-go/catalog/memoryengine"
	"github.com/booklore/catalog-go/features/command/login"
)

const servicePassword = "secret"

func Test_CommandHandler_Handle_IssuesTokenForValidCredentials(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEngine()
	tokens := newTokenService(t)
	handler := newHandler(t, store, tokens)

	user, err := store.CreateUser(ctx, catalog.NewUser{Username: "bookworm", FavoriteGenre: "refactoring"})
	require.NoError(t, err)

	// act
	token, err := handler.Handle(ctx, login.BuildCommand("bookworm", servicePassword))

	// assert
	assert.NoError(t, err, "Login should succeed")
	require.NotEmpty(t, token.Value)

	claims, err := tokens.ParseToken(token.Value)
	require.NoError(t, err, "Issued token should verify")
	assert.Equal(t, "bookworm", claims.Username)
	assert.Equal(t, user.ID, claims.UserID)
}

func Test_CommandHandler_Handle_RejectsWrongPassword(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEngine()
	handler := newHandler(t, store, newTokenService(t))

	_, err := store.CreateUser(ctx, catalog.NewUser{Username: "bookworm", FavoriteGenre: "refactoring"})
	require.NoError(t, err)

	// act
	_, err = handler.Handle(ctx, login.BuildCommand("bookworm", "wrong"))

	// assert
	assert.ErrorIs(t, err, auth.ErrWrongCredentials)
}

func Test_CommandHandler_Handle_RejectsUnknownUsername(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEngine()
	handler := newHandler(t, store, newTokenService(t))

	// act
	_, err := handler.Handle(ctx, login.BuildCommand("nobody", servicePassword))

	// assert
	assert.ErrorIs(t, err, auth.ErrWrongCredentials,
		"Unknown username and wrong password should be indistinguishable")
}

/*** test helpers ***/

func newTokenService(t *testing.T) *auth.TokenService {
	t.Helper()

	hash, err := auth.HashPassword(servicePassword)
	require.NoError(t, err)

	tokens, err := auth.NewTokenService("test-signing-secret", hash)
	require.NoError(t, err)

	return tokens
}

func newHandler(t *testing.T, store login.UserStore, tokens *auth.TokenService) login.CommandHandler {
	t.Helper()

	handler, err := login.NewCommandHandler(store, tokens)
	require.NoError(t, err, "Handler creation should succeed")

	return handler
}
