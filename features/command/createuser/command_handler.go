package createuser

import (
	"context"
	"time"

	"github.com/booklore/catalog-go/catalog"
	"github.com/booklore/catalog-go/shared/shell"
)

// UserStore defines the interface needed by the CommandHandler for store operations.
type UserStore interface {
	CreateUser(ctx context.Context, user catalog.NewUser) (catalog.User, error)
}

// CommandHandler orchestrates the complete command processing workflow.
// The store enforces the username and favorite genre constraints and its
// validation errors are surfaced unchanged.
type CommandHandler struct {
	store            UserStore
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// NewCommandHandler creates a new CommandHandler with the provided store dependency and options.
func NewCommandHandler(store UserStore, opts ...Option) (CommandHandler, error) {
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
func (h CommandHandler) Handle(ctx context.Context, command Command) (catalog.User, error) {
	commandStart := time.Now()
	ctx, span := shell.StartCommandSpan(ctx, h.tracingCollector, commandType)
	shell.LogCommandStart(ctx, h.logger, h.contextualLogger, commandType)

	user, err := h.store.CreateUser(ctx, catalog.NewUser{
		Username:      command.Username,
		FavoriteGenre: command.FavoriteGenre,
	})
	if err != nil {
		h.recordCommandError(ctx, err, time.Since(commandStart), span)
		return catalog.User{}, err
	}

	h.recordCommandSuccess(ctx, time.Since(commandStart), span)

	return user, nil
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
