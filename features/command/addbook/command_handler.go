package addbook

import (
	"context"
	"strings"
	"time"

	"github.com/booklore/catalog-go/catalog"
	"github.com/booklore/catalog-go/shared/shell"
)

// BookStore defines the interface needed by the CommandHandler for store operations.
type BookStore interface {
	FindBookByTitle(ctx context.Context, title catalog.TitleString) (*catalog.Book, error)
	FindAuthorByName(ctx context.Context, name catalog.AuthorNameString) (*catalog.Author, error)
	CreateAuthor(ctx context.Context, name catalog.AuthorNameString) (catalog.Author, error)
	CreateBook(ctx context.Context, book catalog.NewBook) (catalog.Book, error)
}

// Publisher defines the interface needed by the CommandHandler to announce added books.
type Publisher interface {
	Publish(book catalog.Book)
}

// CommandHandler orchestrates the complete command processing workflow:
// Gate -> Check duplicate -> Resolve author -> Persist -> Announce.
// It handles infrastructure concerns like store interactions, notification
// publishing, and observability instrumentation.
type CommandHandler struct {
	store            BookStore
	publisher        Publisher
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// NewCommandHandler creates a new CommandHandler with the provided dependencies and options.
// The publisher may be nil, in which case added books are not announced.
func NewCommandHandler(store BookStore, publisher Publisher, opts ...Option) (CommandHandler, error) {
	h := CommandHandler{
		store:     store,
		publisher: publisher,
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
// The authentication gate runs before any store access. A duplicate title is
// rejected before the author is resolved, so a duplicate never creates an
// author as a side effect; missing required arguments are rejected before
// any write for the same reason. When the book insert fails after a new author was
// created, the author remains - the pipeline is not transactional across the
// two writes.
func (h CommandHandler) Handle(ctx context.Context, command Command) (catalog.Book, error) {
	commandStart := time.Now()
	ctx, span := shell.StartCommandSpan(ctx, h.tracingCollector, commandType)
	shell.LogCommandStart(ctx, h.logger, h.contextualLogger, commandType)

	if command.Actor == nil {
		err := catalog.ErrUnauthorized
		h.recordCommandError(ctx, err, time.Since(commandStart), span)
		return catalog.Book{}, err
	}

	book, err := h.executeCommand(ctx, command)
	if err != nil {
		h.recordCommandError(ctx, err, time.Since(commandStart), span)
		return catalog.Book{}, err
	}

	// Post-commit announcement. The publisher never blocks and a missing
	// publisher never fails the mutation.
	if h.publisher != nil {
		h.publisher.Publish(book)
	}

	h.recordCommandSuccess(ctx, time.Since(commandStart), span)

	return book, nil
}

// executeCommand contains the core command processing logic.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (catalog.Book, error) {
	existing, err := h.store.FindBookByTitle(ctx, command.Title)
	if err != nil {
		return catalog.Book{}, err
	}

	if existing != nil {
		return catalog.Book{}, catalog.DuplicateTitleError{Title: command.Title}
	}

	if inputErr := validateInput(command); inputErr != nil {
		return catalog.Book{}, inputErr
	}

	author, err := h.resolveOrCreateAuthor(ctx, command.AuthorName)
	if err != nil {
		return catalog.Book{}, err
	}

	return h.store.CreateBook(ctx, catalog.NewBook{
		Title:     command.Title,
		Published: command.Published,
		Genres:    command.Genres,
		AuthorID:  author.ID,
	})
}

// validateInput rejects commands with missing required arguments before
// any write happens. A book needs a title, an author name, and at least
// one genre tag. Per-field constraints (minlength, uniqueness) remain
// with the store.
func validateInput(command Command) error {
	missing := make(map[string]any)

	if strings.TrimSpace(command.Title) == "" {
		missing["title"] = command.Title
	}

	if strings.TrimSpace(command.AuthorName) == "" {
		missing["author"] = command.AuthorName
	}

	if len(command.Genres) == 0 {
		missing["genres"] = command.Genres
	}

	if len(missing) > 0 {
		return catalog.InvalidInputError{Reason: "missing required arguments", Args: missing}
	}

	return nil
}

// resolveOrCreateAuthor returns the existing author with the given name or
// creates a new one, surfacing the store's validation errors unchanged.
func (h CommandHandler) resolveOrCreateAuthor(ctx context.Context, name catalog.AuthorNameString) (catalog.Author, error) {
	author, err := h.store.FindAuthorByName(ctx, name)
	if err != nil {
		return catalog.Author{}, err
	}

	if author != nil {
		return *author, nil
	}

	return h.store.CreateAuthor(ctx, name)
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
