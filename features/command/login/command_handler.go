package login

import (
	"context"
	"time"

	"github.com/booklore/catalog-go/auth"
	"github.com/booklore/catalog-go/catalog"
	"github.com/booklore/catalog-go/shared/shell"
)

// UserStore defines the interface needed by the CommandHandler for store operations.
type UserStore interface {
	FindUserByUsername(ctx context.Context, username string) (*catalog.User, error)
}

// Token is the command result: a signed bearer token for the logged-in user.
type Token struct {
	Value string
}

// CommandHandler orchestrates the complete login workflow:
// Lookup -> Verify password -> Issue token.
type CommandHandler struct {
	store            UserStore
	tokens           *auth.TokenService
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// NewCommandHandler creates a new CommandHandler with the provided dependencies and options.
func NewCommandHandler(store UserStore, tokens *auth.TokenService, opts ...Option) (CommandHandler, error) {
	h := CommandHandler{
		store:  store,
		tokens: tokens,
	}

	for _, opt := range opts {
		if err := opt(&h); err != nil {
			return CommandHandler{}, err
		}
	}

	return h, nil
}

// Handle executes the complete login workflow.
//
// An unknown username and a wrong password are indistinguishable to the
// caller: both yield auth.ErrWrongCredentials.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Token, error) {
	commandStart := time.Now()
	ctx, span := shell.StartCommandSpan(ctx, h.tracingCollector, commandType)
	shell.LogCommandStart(ctx, h.logger, h.contextualLogger, commandType)

	user, err := h.store.FindUserByUsername(ctx, command.Username)
	if err != nil {
		h.recordCommandError(ctx, err, time.Since(commandStart), span)
		return Token{}, err
	}

	if user == nil || !h.tokens.VerifyPassword(command.Password) {
		err = auth.ErrWrongCredentials
		h.recordCommandError(ctx, err, time.Since(commandStart), span)
		return Token{}, err
	}

	signed, err := h.tokens.IssueToken(*user)
	if err != nil {
		h.recordCommandError(ctx, err, time.Since(commandStart), span)
		return Token{}, err
	}

	h.recordCommandSuccess(ctx, time.Since(commandStart), span)

	return Token{Value: signed}, nil
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
