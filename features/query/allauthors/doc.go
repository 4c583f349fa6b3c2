// Package allauthors implements the All Authors query use case.
//
// This feature lists every author and only computes the derived per-author
// book count when the caller's field selection demands it, so the common
// listing stays a single cheap fetch.
//
// This is a read-only operation without side effects.
package allauthors
