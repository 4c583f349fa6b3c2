// Package catalogstats implements the Catalog Stats query use case.
//
// This feature answers the two top-level counters of the catalog: the
// number of books and the number of authors.
//
// This is a read-only operation without side effects.
package catalogstats
