package editauthor

import (
	"context"
	"time"

	"github.com/booklore/catalog-go/catalog"
	"github.com/booklore/catalog-go/shared/shell"
)

// AuthorStore defines the interface needed by the CommandHandler for store operations.
type AuthorStore interface {
	FindAuthorByName(ctx context.Context, name catalog.AuthorNameString) (*catalog.Author, error)
	SaveAuthor(ctx context.Context, author catalog.Author) (catalog.Author, error)
}

// CommandHandler orchestrates the complete command processing workflow:
// Gate -> Resolve -> Update.
type CommandHandler struct {
	store            AuthorStore
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// NewCommandHandler creates a new CommandHandler with the provided store dependency and options.
func NewCommandHandler(store AuthorStore, opts ...Option) (CommandHandler, error) {
	h := CommandHandler{
		store: store,
	}

	for _, opt := range opts {
		if err := opt(&h); err != nil {
			return CommandHandler{}, err
		}
	}

	return h, nil
}

// Handle executes the complete command processing workflow.
//
// The authentication gate runs before any store access. An unknown author
// name is not an error: the handler returns (nil, nil) and nothing is
// written.
func (h CommandHandler) Handle(ctx context.Context, command Command) (*catalog.Author, error) {
	commandStart := time.Now()
	ctx, span := shell.StartCommandSpan(ctx, h.tracingCollector, commandType)
	shell.LogCommandStart(ctx, h.logger, h.contextualLogger, commandType)

	if command.Actor == nil {
		err := catalog.ErrUnauthorized
		h.recordCommandError(ctx, err, time.Since(commandStart), span)
		return nil, err
	}

	author, err := h.store.FindAuthorByName(ctx, command.Name)
	if err != nil {
		h.recordCommandError(ctx, err, time.Since(commandStart), span)
		return nil, err
	}

	if author == nil {
		h.recordCommandSuccess(ctx, time.Since(commandStart), span)
		return nil, nil
	}

	born := command.Born
	author.Born = &born

	updated, err := h.store.SaveAuthor(ctx, *author)
	if err != nil {
		h.recordCommandError(ctx, err, time.Since(commandStart), span)
		return nil, err
	}

	h.recordCommandSuccess(ctx, time.Since(commandStart), span)

	return &updated, nil
}

/*** Command Handler Options and helper methods for observability ***/

// Option defines a functional option for configuring CommandHandler.
type Option func(*CommandHandler) error

// WithMetrics sets the metrics collector for the CommandHandler.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(h *CommandHandler) error {
		h.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the CommandHandler.
func WithTracing(collector shell.TracingCollector) Option {
	return func(h *CommandHandler) error {
		h.tracingCollector = collector
		return nil
	}
}

// WithContextualLogging sets the contextual logger for the CommandHandler.
func WithContextualLogging(logger shell.ContextualLogger) Option {
	return func(h *CommandHandler) error {
		h.contextualLogger = logger
		return nil
	}
}

// WithLogging sets the basic logger for the CommandHandler.
func WithLogging(logger shell.Logger) Option {
	return func(h *CommandHandler) error {
		h.logger = logger
		return nil
	}
}

// recordCommandSuccess records successful command execution with observability.
func (h CommandHandler) recordCommandSuccess(ctx context.Context, duration time.Duration, span shell.SpanContext) {
	shell.RecordCommandMetrics(h.metricsCollector, commandType, shell.StatusSuccess, duration)
	shell.FinishCommandSpan(h.tracingCollector, span, shell.StatusSuccess, duration, nil)
	shell.LogCommandSuccess(ctx, h.logger, h.contextualLogger, commandType, shell.StatusSuccess, duration)
}

// recordCommandError records failed command execution with observability.
func (h CommandHandler) recordCommandError(ctx context.Context, err error, duration time.Duration, span shell.SpanContext) {
	status := shell.StatusForError(err)
	shell.RecordCommandMetrics(h.metricsCollector, commandType, status, duration)
	shell.FinishCommandSpan(h.tracingCollector, span, status, duration, err)
	shell.LogCommandError(ctx, h.logger, h.contextualLogger, commandType, err)
}
