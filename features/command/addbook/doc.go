// Package addbook implements the Add Book command use case.
//
// This feature adds a book to the catalog for an authenticated user. The
// pipeline rejects unauthenticated callers before any store access, refuses
// duplicate titles, resolves the author by name and creates the author on
// the fly when unknown, persists the book, and finally announces the new
// book to the change notification broker. Publishing is strictly
// post-commit and can never fail the mutation.
package addbook
