// Package config provides database configuration helpers for PostgreSQL
// connections to the catalog store.
//
// This package contains factory functions for creating database connections
// using different PostgreSQL drivers (pgx.Pool, sql.DB, sqlx.DB) with a
// DSN taken from the environment and sensible pool defaults.
//
// This package is part of the shell (infrastructure) layer.
package config
