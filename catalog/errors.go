package catalog

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when a protected mutation is attempted
// without a resolved caller identity. It is surfaced directly to the
// caller and never retried.
var ErrUnauthorized = errors.New("not authorized")

// Validation kinds reported by store engines for per-field constraint
// violations, mirroring the collaborator contract of the entity store.
const (
	KindRequired  = "required"
	KindMinLength = "minlength"
	KindUnique    = "unique"
)

// Entity names used in validation errors and the message table.
const (
	EntityAuthor = "author"
	EntityBook   = "book"
	EntityUser   = "user"
)

// Field names used in validation errors and the message table.
const (
	FieldName          = "name"
	FieldTitle         = "title"
	FieldUsername      = "username"
	FieldFavoriteGenre = "favoriteGenre"
)

/***** NotFoundError *****/

// NotFoundError is returned by author-scoped reads when no author
// matches the given name. It is distinct from "author has zero books",
// which is a successful read with an empty result.
type NotFoundError struct {
	Entity string
	Name   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.Name)
}

// NewAuthorNotFoundError creates a NotFoundError for an author name.
func NewAuthorNotFoundError(name AuthorNameString) NotFoundError {
	return NotFoundError{Entity: EntityAuthor, Name: name}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var notFound NotFoundError
	return errors.As(err, &notFound)
}

/***** DuplicateTitleError *****/

// DuplicateTitleError is returned when a book with the same title
// already exists. It carries the conflicting title.
type DuplicateTitleError struct {
	Title TitleString
}

func (e DuplicateTitleError) Error() string {
	return fmt.Sprintf("title must be unique: %s", e.Title)
}

/***** InvalidInputError *****/

// InvalidInputError is returned when a mutation misses required input
// fields. It carries the offending arguments.
type InvalidInputError struct {
	Reason string
	Args   map[string]any
}

func (e InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

/***** ValidationError *****/

// ValidationError reports a store-level constraint violation on a
// single field. Engines construct it with the entity, the offending
// field and one of the validation kinds; the mutation pipelines map it
// to a user-facing message via ValidationMessageFor.
type ValidationError struct {
	Entity string
	Field  string
	Kind   string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s.%s: %s", e.Entity, e.Field, e.Kind)
}

// validationMessages is the declarative mapping from
// (entity, field, kind) to the user-facing message. Keeping the
// dispatch in one table avoids duplicating per-field switch statements
// in every mutation.
var validationMessages = map[ValidationError]string{
	{EntityAuthor, FieldName, KindMinLength}: "Name must be at least 5 characters long!",
	{EntityAuthor, FieldName, KindRequired}:  "Name is required!",
	{EntityBook, FieldTitle, KindMinLength}:  "Title must be at least 2 characters long!",
	{EntityBook, FieldTitle, KindRequired}:   "Title is required!",
	{EntityBook, FieldTitle, KindUnique}:     "Title must be unique",
	{EntityUser, FieldUsername, KindMinLength}:     "Username must be at least 3 characters long!",
	{EntityUser, FieldUsername, KindRequired}:      "Username is required!",
	{EntityUser, FieldUsername, KindUnique}:        "Sorry! Username is already taken.",
	{EntityUser, FieldFavoriteGenre, KindRequired}: "Favorite genre is required",
}

// ValidationMessageFor maps a ValidationError to its user-facing
// message. An unrecognized kind falls back to the "required" message
// of the same entity and field, so a new store-level kind never leaks
// a raw internal error to the caller.
func ValidationMessageFor(verr ValidationError) string {
	if msg, ok := validationMessages[verr]; ok {
		return msg
	}

	fallback := ValidationError{Entity: verr.Entity, Field: verr.Field, Kind: KindRequired}
	if msg, ok := validationMessages[fallback]; ok {
		return msg
	}

	return fmt.Sprintf("%s is required", verr.Field)
}

// AsValidationError unwraps err into a ValidationError if it is one.
func AsValidationError(err error) (ValidationError, bool) {
	var verr ValidationError
	ok := errors.As(err, &verr)
	return verr, ok
}
