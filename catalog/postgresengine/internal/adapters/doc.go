// Package adapters provides database adapter implementations for the
// PostgreSQL catalog store.
//
// The adapter pattern lets the store work with multiple PostgreSQL
// client libraries: pgx.Pool, database/sql (lib/pq), and sqlx. All
// adapters expose the same small DBAdapter interface for query
// execution and result handling, so the engine never depends on a
// specific driver.
package adapters
