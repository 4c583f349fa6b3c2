// Package allgenres implements the All Genres query use case.
//
// This feature lists the distinct genre tags across all books in sorted
// order, with the "all" sentinel appended so UIs can offer an unfiltered
// choice alongside the real genres.
//
// This is a read-only operation without side effects.
package allgenres
