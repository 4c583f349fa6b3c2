package allbooks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/booklore/catalog-go/catalog"
	"github.com/booklore/catalog-go/shared/shell"
)

// BookStore defines the interface needed by the QueryHandler for store operations.
type BookStore interface {
	FindAllBooks(ctx context.Context, demand catalog.Demand) ([]catalog.Book, error)
	FindBooksByAuthorID(ctx context.Context, authorID uuid.UUID, demand catalog.Demand) ([]catalog.Book, error)
	FindBooksByGenre(ctx context.Context, genre catalog.GenreString, demand catalog.Demand) ([]catalog.Book, error)
	FindBooksByAuthorIDAndGenre(ctx context.Context, authorID uuid.UUID, genre catalog.GenreString, demand catalog.Demand) ([]catalog.Book, error)
	FindAuthorByName(ctx context.Context, name catalog.AuthorNameString) (*catalog.Author, error)
}

// QueryHandler orchestrates the complete query processing workflow.
// It handles infrastructure concerns like store interactions and observability
// instrumentation, and delegates demand analysis and fetch planning to the
// pure core functions.
type QueryHandler struct {
	store            BookStore
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// NewQueryHandler creates a new QueryHandler with the provided store dependency and options.
func NewQueryHandler(store BookStore, opts ...Option) (QueryHandler, error) {
	h := QueryHandler{
		store: store,
	}

	for _, opt := range opts {
		if err := opt(&h); err != nil {
			return QueryHandler{}, err
		}
	}

	return h, nil
}

// Handle executes the complete query processing workflow: Analyze -> Plan -> Fetch.
// It derives the demand from the field selection, plans the single fetch for the
// filter combination, resolves the author name when the plan requires it, and
// instruments the operation with comprehensive observability.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Books, error) {
	queryStart := time.Now()
	ctx, span := shell.StartQuerySpan(ctx, h.tracingCollector, queryType)
	shell.LogQueryStart(ctx, h.logger, h.contextualLogger, queryType)

	// Analysis and planning phase - delegate to pure core functions
	demand := catalog.AnalyzeDemand(query.Selection)
	strategy := PlanFetch(query.Filter)

	books, err := h.fetch(ctx, query, demand, strategy)
	if err != nil {
		h.recordQueryError(ctx, err, time.Since(queryStart), span)
		return Books{}, err
	}

	h.recordQuerySuccess(ctx, time.Since(queryStart), span)

	return Books{Books: books, Count: len(books)}, nil
}

// fetch executes the planned store fetch. Author-filtered strategies resolve
// the author name first and report NotFound when it does not resolve.
func (h QueryHandler) fetch(
	ctx context.Context,
	query Query,
	demand catalog.Demand,
	strategy FetchStrategy,
) ([]catalog.Book, error) {

	switch strategy {
	case FetchByAuthorAndGenre:
		author, err := h.resolveAuthor(ctx, query.Filter.AuthorName)
		if err != nil {
			return nil, err
		}

		return h.store.FindBooksByAuthorIDAndGenre(ctx, author.ID, query.Filter.Genre, demand)

	case FetchByAuthor:
		author, err := h.resolveAuthor(ctx, query.Filter.AuthorName)
		if err != nil {
			return nil, err
		}

		return h.store.FindBooksByAuthorID(ctx, author.ID, demand)

	case FetchByGenre:
		return h.store.FindBooksByGenre(ctx, query.Filter.Genre, demand)

	default:
		return h.store.FindAllBooks(ctx, demand)
	}
}

func (h QueryHandler) resolveAuthor(ctx context.Context, name catalog.AuthorNameString) (*catalog.Author, error) {
	author, err := h.store.FindAuthorByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if author == nil {
		return nil, catalog.NewAuthorNotFoundError(name)
	}

	return author, nil
}

/*** Query Handler Options and helper methods for observability ***/

// Option defines a functional option for configuring QueryHandler.
type Option func(*QueryHandler) error

// WithMetrics sets the metrics collector for the QueryHandler.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(h *QueryHandler) error {
		h.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the QueryHandler.
func WithTracing(collector shell.TracingCollector) Option {
	return func(h *QueryHandler) error {
		h.tracingCollector = collector
		return nil
	}
}

// WithContextualLogging sets the contextual logger for the QueryHandler.
func WithContextualLogging(logger shell.ContextualLogger) Option {
	return func(h *QueryHandler) error {
		h.contextualLogger = logger
		return nil
	}
}

// WithLogging sets the basic logger for the QueryHandler.
func WithLogging(logger shell.Logger) Option {
	return func(h *QueryHandler) error {
		h.logger = logger
		return nil
	}
}

// recordQuerySuccess records successful query execution with observability.
func (h QueryHandler) recordQuerySuccess(ctx context.Context, duration time.Duration, span shell.SpanContext) {
	shell.RecordQueryMetrics(h.metricsCollector, queryType, shell.StatusSuccess, duration)
	shell.FinishQuerySpan(h.tracingCollector, span, shell.StatusSuccess, duration, nil)
	shell.LogQuerySuccess(ctx, h.logger, h.contextualLogger, queryType, shell.StatusSuccess, duration)
}

// recordQueryError records failed query execution with observability.
func (h QueryHandler) recordQueryError(ctx context.Context, err error, duration time.Duration, span shell.SpanContext) {
	status := shell.StatusForError(err)
	shell.RecordQueryMetrics(h.metricsCollector, queryType, status, duration)
	shell.FinishQuerySpan(h.tracingCollector, span, status, duration, err)
	shell.LogQueryError(ctx, h.logger, h.contextualLogger, queryType, err)
}
