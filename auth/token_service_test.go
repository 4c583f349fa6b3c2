package auth_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booklore/catalog-go/auth"
	"github.com/booklore/catalog-go/catalog"
	"github.com/booklore/catalog-go/catalog/memoryengine"
)

func Test_TokenService_IssueAndParseRoundTrip(t *testing.T) {
	// setup
	tokens := newTokenService(t)
	user := catalog.User{ID: newUserID(t), Username: "bookworm", FavoriteGenre: "refactoring"}

	// act
	signed, err := tokens.IssueToken(user)
	require.NoError(t, err)

	claims, err := tokens.ParseToken(signed)

	// assert
	require.NoError(t, err)
	assert.Equal(t, user.Username, claims.Username)
	assert.Equal(t, user.ID, claims.UserID)
}

func Test_TokenService_ParseRejectsTokenSignedWithDifferentSecret(t *testing.T) {
	// setup
	tokens := newTokenService(t)
	other, err := auth.NewTokenService("a-different-secret", "")
	require.NoError(t, err)

	signed, err := other.IssueToken(catalog.User{ID: newUserID(t), Username: "bookworm"})
	require.NoError(t, err)

	// act
	_, err = tokens.ParseToken(signed)

	// assert
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func Test_TokenService_ParseRejectsGarbage(t *testing.T) {
	tokens := newTokenService(t)

	_, err := tokens.ParseToken("not.a.token")

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func Test_NewTokenService_RejectsEmptySecret(t *testing.T) {
	_, err := auth.NewTokenService("", "")

	assert.ErrorIs(t, err, auth.ErrEmptySigningSecret)
}

func Test_TokenService_VerifyPassword(t *testing.T) {
	tokens := newTokenService(t)

	assert.True(t, tokens.VerifyPassword("secret"))
	assert.False(t, tokens.VerifyPassword("wrong"))
	assert.False(t, tokens.VerifyPassword(""))
}

func Test_TokenService_ResolveUser_LoadsTheAuthenticatedUser(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEngine()
	tokens := newTokenService(t)

	user, err := store.CreateUser(ctx, catalog.NewUser{Username: "bookworm", FavoriteGenre: "refactoring"})
	require.NoError(t, err)

	signed, err := tokens.IssueToken(user)
	require.NoError(t, err)

	// act
	resolved, err := tokens.ResolveUser(ctx, store, "Bearer "+signed)

	// assert
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, user.ID, resolved.ID)
	assert.Equal(t, "bookworm", resolved.Username)
}

func Test_TokenService_ResolveUser_MissingHeaderIsUnauthenticatedNotAnError(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEngine()
	tokens := newTokenService(t)

	// act
	resolved, err := tokens.ResolveUser(ctx, store, "")

	// assert
	assert.NoError(t, err)
	assert.Nil(t, resolved, "No header means no user, not an error")
}

func Test_TokenService_ResolveUser_RejectsTamperedToken(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEngine()
	tokens := newTokenService(t)

	// act
	_, err := tokens.ResolveUser(ctx, store, "Bearer tampered.token.value")

	// assert
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

/*** test helpers ***/

func newTokenService(t *testing.T) *auth.TokenService {
	t.Helper()

	hash, err := auth.HashPassword("secret")
	require.NoError(t, err)

	tokens, err := auth.NewTokenService("test-signing-secret", hash)
	require.NoError(t, err)

	return tokens
}

func newUserID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}
