// Package main runs a small end-to-end scenario against the catalog:
// register a user, log in, subscribe to book announcements, add a few
// books and exercise every query. It defaults to the in-memory store
// and switches to PostgreSQL when CATALOG_DEMO_ENGINE=postgres.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"

	"github.com/booklore/catalog-go/auth"
	"github.com/booklore/catalog-go/catalog"
	"github.com/booklore/catalog-go/catalog/memoryengine"
	"github.com/booklore/catalog-go/catalog/oteladapters"
	"github.com/booklore/catalog-go/catalog/postgresengine"
	"github.com/booklore/catalog-go/features/command/addbook"
	"github.com/booklore/catalog-go/features/command/createuser"
	"github.com/booklore/catalog-go/features/command/editauthor"
	"github.com/booklore/catalog-go/features/command/login"
	"github.com/booklore/catalog-go/features/query/allauthors"
	"github.com/booklore/catalog-go/features/query/allbooks"
	"github.com/booklore/catalog-go/features/query/allgenres"
	"github.com/booklore/catalog-go/features/query/catalogstats"
	"github.com/booklore/catalog-go/shared/shell/config"
	"github.com/booklore/catalog-go/subscriptions"
)

const servicePassword = "secret"

func main() {
	ctx := context.Background()

	store := buildStore()
	contextualLogger := oteladapters.NewSlogBridgeLoggerWithHandler(slog.NewTextHandler(os.Stdout, nil))
	metrics := oteladapters.NewMetricsCollector(otel.Meter("catalog-demo"))
	tracing := oteladapters.NewTracingCollector(otel.Tracer("catalog-demo"))

	broker := subscriptions.NewBroker(subscriptions.WithLogger(slogLogger{slog.Default()}))
	defer broker.Close()

	tokens := mustTokenService()

	createUserHandler := must(createuser.NewCommandHandler(store,
		createuser.WithContextualLogging(contextualLogger), createuser.WithMetrics(metrics), createuser.WithTracing(tracing)))
	loginHandler := must(login.NewCommandHandler(store, tokens,
		login.WithContextualLogging(contextualLogger), login.WithMetrics(metrics), login.WithTracing(tracing)))
	addBookHandler := must(addbook.NewCommandHandler(store, broker,
		addbook.WithContextualLogging(contextualLogger), addbook.WithMetrics(metrics), addbook.WithTracing(tracing)))
	editAuthorHandler := must(editauthor.NewCommandHandler(store,
		editauthor.WithContextualLogging(contextualLogger), editauthor.WithMetrics(metrics), editauthor.WithTracing(tracing)))
	allBooksHandler := must(allbooks.NewQueryHandler(store,
		allbooks.WithContextualLogging(contextualLogger), allbooks.WithMetrics(metrics), allbooks.WithTracing(tracing)))
	allAuthorsHandler := must(allauthors.NewQueryHandler(store,
		allauthors.WithContextualLogging(contextualLogger), allauthors.WithMetrics(metrics), allauthors.WithTracing(tracing)))
	statsHandler := must(catalogstats.NewQueryHandler(store,
		catalogstats.WithContextualLogging(contextualLogger), catalogstats.WithMetrics(metrics), catalogstats.WithTracing(tracing)))
	genresHandler := must(allgenres.NewQueryHandler(store,
		allgenres.WithContextualLogging(contextualLogger), allgenres.WithMetrics(metrics), allgenres.WithTracing(tracing)))

	events, cancel := broker.Subscribe()
	defer cancel()

	// Register and log in.
	user, err := createUserHandler.Handle(ctx, createuser.BuildCommand("bookworm", "refactoring"))
	if err != nil {
		log.Fatal("create user failed: ", err)
	}

	token, err := loginHandler.Handle(ctx, login.BuildCommand(user.Username, servicePassword))
	if err != nil {
		log.Fatal("login failed: ", err)
	}

	actor, err := tokens.ResolveUser(ctx, store, "Bearer "+token.Value)
	if err != nil {
		log.Fatal("token resolution failed: ", err)
	}

	// Add books; each one is announced on the subscription.
	for _, b := range demoBooks() {
		if _, addErr := addBookHandler.Handle(ctx, addbook.BuildCommand(b.title, b.published, b.genres, b.author, actor)); addErr != nil {
			log.Fatal("add book failed: ", addErr)
		}

		announced := <-events
		fmt.Printf("announced: %s by %s\n", announced.Title, announced.Author.Name)
	}

	if _, err = editAuthorHandler.Handle(ctx, editauthor.BuildCommand("Robert Martin", 1952, actor)); err != nil {
		log.Fatal("edit author failed: ", err)
	}

	// Exercise the read surface.
	selection := catalog.NewFieldSelection().
		With("title").
		WithNested(catalog.FieldAuthor, catalog.NewFieldSelection().With("name").With(catalog.FieldBookCount))

	books, err := allBooksHandler.Handle(ctx, allbooks.BuildQuery(catalog.BookFilter{Genre: "refactoring"}, &selection))
	if err != nil {
		log.Fatal("all books failed: ", err)
	}
	for _, book := range books.Books {
		fmt.Printf("book: %s by %s (%d books)\n", book.Title, book.Author.Name, *book.Author.BookCount)
	}

	authors, err := allAuthorsHandler.Handle(ctx, allauthors.BuildQuery(nil))
	if err != nil {
		log.Fatal("all authors failed: ", err)
	}
	for _, author := range authors.Authors {
		fmt.Printf("author: %s\n", author.Name)
	}

	stats, err := statsHandler.Handle(ctx)
	if err != nil {
		log.Fatal("stats failed: ", err)
	}
	fmt.Printf("stats: %d books, %d authors\n", stats.BookCount, stats.AuthorCount)

	genres, err := genresHandler.Handle(ctx)
	if err != nil {
		log.Fatal("genres failed: ", err)
	}
	fmt.Printf("genres: %v\n", genres.Genres)
}

type demoBook struct {
	title     string
	published int
	genres    []string
	author    string
}

func demoBooks() []demoBook {
	return []demoBook{
		{"Clean Code", 2008, []string{"refactoring"}, "Robert Martin"},
		{"Agile software development", 2002, []string{"agile", "patterns", "design"}, "Robert Martin"},
		{"Refactoring, edition 2", 2018, []string{"refactoring"}, "Martin Fowler"},
		{"Domain-driven design", 2003, []string{"design"}, "Eric Evans"},
	}
}

func buildStore() catalog.Store {
	if os.Getenv("CATALOG_DEMO_ENGINE") != "postgres" {
		return memoryengine.NewEngine()
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), config.PostgresPGXPoolConfig())
	if err != nil {
		log.Fatal("failed to create connection pool: ", err)
	}

	engine, err := postgresengine.NewEngineFromPGXPool(pool)
	if err != nil {
		log.Fatal("failed to create catalog store: ", err)
	}

	return engine
}

func mustTokenService() *auth.TokenService {
	hash, err := auth.HashPassword(servicePassword)
	if err != nil {
		log.Fatal("failed to hash service password: ", err)
	}

	secret := os.Getenv("CATALOG_JWT_SECRET")
	if secret == "" {
		secret = "demo-signing-secret"
	}

	tokens, err := auth.NewTokenService(secret, hash)
	if err != nil {
		log.Fatal("failed to create token service: ", err)
	}

	return tokens
}

func must[T any](value T, err error) T {
	if err != nil {
		log.Fatal("handler creation failed: ", err)
	}

	return value
}

// slogLogger adapts *slog.Logger to the catalog Logger port for the broker.
type slogLogger struct {
	logger *slog.Logger
}

func (l slogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l slogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l slogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l slogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }
