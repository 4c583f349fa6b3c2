package postgresengine

import (
	"errors"

	"github.com/booklore/catalog-go/catalog"
)

var (
	// ErrNilDatabaseConnection is returned when a constructor receives a nil connection.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrEmptyTableName is returned when WithTableNames receives an empty table name.
	ErrEmptyTableName = errors.New("empty table name supplied")
)

// TableNames holds the names of the tables the engine operates on.
type TableNames struct {
	Books   string
	Authors string
	Users   string
}

// DefaultTableNames returns the table names used unless WithTableNames overrides them.
func DefaultTableNames() TableNames {
	return TableNames{Books: "books", Authors: "authors", Users: "users"}
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine) error

// WithTableNames sets the table names for the Engine.
func WithTableNames(tables TableNames) Option {
	return func(e *Engine) error {
		if tables.Books == "" || tables.Authors == "" || tables.Users == "" {
			return ErrEmptyTableName
		}

		e.tables = tables

		return nil
	}
}

// WithLogger sets the logger for the Engine.
//
// Debug level: SQL queries with execution timing (development use)
// Info level: result counts and durations (production-safe)
// Warn level: non-critical issues like cleanup failures
// Error level: failures that cause operation errors.
func WithLogger(logger catalog.Logger) Option {
	return func(e *Engine) error {
		e.logger = logger
		return nil
	}
}

// WithContextualLogger sets the context-aware logger for the Engine.
// When both loggers are configured, the contextual one wins.
func WithContextualLogger(logger catalog.ContextualLogger) Option {
	return func(e *Engine) error {
		e.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Engine.
func WithMetrics(collector catalog.MetricsCollector) Option {
	return func(e *Engine) error {
		e.metrics = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Engine.
func WithTracing(collector catalog.TracingCollector) Option {
	return func(e *Engine) error {
		e.tracing = collector
		return nil
	}
}
