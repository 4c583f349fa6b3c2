// Package editauthor implements the Edit Author command use case.
//
// This feature sets the birth year of an existing author for an
// authenticated user. An unknown author name yields a nil result rather
// than an error, matching the read surface where a missing entity is an
// empty answer.
package editauthor
