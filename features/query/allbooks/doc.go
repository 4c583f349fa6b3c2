// Package allbooks implements the All Books query use case.
//
// This feature answers the book listing with optional author and genre
// filtering. Before touching the store it analyzes which fields the caller
// actually selected and plans a single fetch accordingly: the author
// book-count aggregate is only joined in when the selection demands it, and
// the filter combination picks one of four fetch strategies so the store is
// hit exactly once per request.
//
// This is a read-only operation without side effects.
package allbooks
