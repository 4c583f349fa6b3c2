// Package postgresengine implements the catalog.Store port on
// PostgreSQL.
//
// All SQL is built with goqu (postgres dialect). The engine works with
// pgx.Pool, database/sql and sqlx connections through the internal
// adapter layer, so callers pick their driver with the matching
// constructor and get identical behavior.
//
// Books live in a books table with their genre sequence stored as
// jsonb; genre-membership filtering uses jsonb containment. The
// derived per-author book count is a grouped count subquery that is
// joined only when the read request demands it - unfiltered reads
// never pay for the aggregate.
package postgresengine
