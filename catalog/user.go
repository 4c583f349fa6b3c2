package catalog

import (
	"github.com/google/uuid"
)

// UsernameMinLength is the minimum length of a username.
const UsernameMinLength = 3

// User represents an authenticated caller identity.
//
// Users are resolved by the authentication collaborator (package auth)
// and handed to the mutation pipelines; the catalog core never issues
// or verifies credentials itself.
type User struct {
	ID            uuid.UUID
	Username      string
	FavoriteGenre GenreString
}
