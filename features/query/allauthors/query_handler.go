package allauthors

import (
	"context"
	"time"

	"github.com/booklore/catalog-go/catalog"
	"github.com/booklore/catalog-go/shared/shell"
)

// AuthorStore defines the interface needed by the QueryHandler for store operations.
type AuthorStore interface {
	FindAllAuthors(ctx context.Context, demand catalog.Demand) ([]catalog.Author, error)
}

// Authors represents the query result containing all authors in name order.
type Authors struct {
	Authors []catalog.Author
	Count   int
}

// QueryHandler orchestrates the complete query processing workflow.
// It derives the demand from the field selection so the book-count aggregate
// is only computed when the caller asked for it.
type QueryHandler struct {
	store            AuthorStore
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// NewQueryHandler creates a new QueryHandler with the provided store dependency and options.
func NewQueryHandler(store AuthorStore, opts ...Option) (QueryHandler, error) {
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

// Handle executes the complete query processing workflow: Analyze -> Fetch.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Authors, error) {
	queryStart := time.Now()
	ctx, span := shell.StartQuerySpan(ctx, h.tracingCollector, queryType)
	shell.LogQueryStart(ctx, h.logger, h.contextualLogger, queryType)

	demand := catalog.AnalyzeDemand(query.Selection)

	authors, err := h.store.FindAllAuthors(ctx, demand)
	if err != nil {
		h.recordQueryError(ctx, err, time.Since(queryStart), span)
		return Authors{}, err
	}

	h.recordQuerySuccess(ctx, time.Since(queryStart), span)

	return Authors{Authors: authors, Count: len(authors)}, nil
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
