package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/booklore/catalog-go/catalog"
	"github.com/booklore/catalog-go/catalog/postgresengine/internal/adapters"
)

const (
	logMsgBuildQueryFailed  = "failed to build query"
	logMsgDBQueryFailed     = "database query execution failed"
	logMsgDBExecFailed      = "database execution failed"
	logMsgCloseRowsFailed   = "failed to close database rows"
	logMsgScanRowFailed     = "failed to scan database row"
	logMsgRowsAffected      = "failed to get rows affected count"
	logMsgUnexpectedAffect  = "unexpected number of rows affected"
	logMsgGenreCodecFailed  = "failed to encode or decode genre sequence"
	logMsgOperationComplete = "catalog store operation: "
	logMsgSQLExecuted       = "executed sql for: "
	logAttrError            = "error"
	logAttrQuery            = "query"
	logAttrOperation        = "operation"
	logAttrRowCount         = "row_count"
	logAttrDurationMS       = "duration_ms"
	colID                   = "id"
	colTitle                = "title"
	colPublished            = "published"
	colGenres               = "genres"
	colAuthorID             = "author_id"
	colName                 = "name"
	colBorn                 = "born"
	colUsername             = "username"
	colFavoriteGenre        = "favorite_genre"
	aliasBooks              = "b"
	aliasAuthors            = "a"
	aliasBookCounts         = "bc"
	aliasBookCount          = "book_count"
	aliasGenre              = "genre"
	dialectPostgres         = "postgres"
	castJsonb               = "?::jsonb"
	metricStoreDuration     = "catalogstore_operation_duration_seconds"
	metricStoreErrors       = "catalogstore_operation_errors_total"
	labelOperation          = "operation"
)

// Wrap errors for failures below the catalog's domain error taxonomy.
var (
	ErrBuildingQueryFailed = errors.New("building query failed")
	ErrQueryingFailed      = errors.New("querying catalog store failed")
	ErrScanningRowFailed   = errors.New("scanning database row failed")
	ErrExecFailed          = errors.New("executing statement failed")
)

type sqlQueryString = string

var jsonCodec = jsoniter.ConfigFastest

// Engine implements catalog.Store on PostgreSQL. It leverages a
// database adapter and supports customizable logging, metrics,
// tracing and table naming.
type Engine struct {
	db               adapters.DBAdapter
	tables           TableNames
	logger           catalog.Logger
	contextualLogger catalog.ContextualLogger
	metrics          catalog.MetricsCollector
	tracing          catalog.TracingCollector
}

var _ catalog.Store = (*Engine)(nil)

// NewEngineFromPGXPool creates a new Engine using a pgx pool with optional configuration.
func NewEngineFromPGXPool(db *pgxpool.Pool, options ...Option) (*Engine, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewPGXAdapter(db), options...)
}

// NewEngineFromSQLDB creates a new Engine using a sql.DB with optional configuration.
func NewEngineFromSQLDB(db *sql.DB, options ...Option) (*Engine, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewSQLAdapter(db), options...)
}

// NewEngineFromSQLX creates a new Engine using a sqlx.DB with optional configuration.
func NewEngineFromSQLX(db *sqlx.DB, options ...Option) (*Engine, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewSQLXAdapter(db), options...)
}

func newEngine(db adapters.DBAdapter, options ...Option) (*Engine, error) {
	e := &Engine{
		db:     db,
		tables: DefaultTableNames(),
	}

	for _, option := range options {
		if err := option(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

/***** BookReader *****/

// FindAllBooks returns every book with the author joined,
// attaching the book-count aggregate only when demanded.
func (e *Engine) FindAllBooks(ctx context.Context, demand catalog.Demand) ([]catalog.Book, error) {
	return e.queryBooks(ctx, "FindAllBooks", demand)
}

// FindBooksByAuthorID returns the books referencing the given author id.
func (e *Engine) FindBooksByAuthorID(ctx context.Context, authorID uuid.UUID, demand catalog.Demand) ([]catalog.Book, error) {
	return e.queryBooks(ctx, "FindBooksByAuthorID", demand,
		goqu.I(aliasBooks+"."+colAuthorID).Eq(authorID.String()))
}

// FindBooksByGenre returns the books whose genre sequence contains the given genre.
func (e *Engine) FindBooksByGenre(ctx context.Context, genre catalog.GenreString, demand catalog.Demand) ([]catalog.Book, error) {
	return e.queryBooks(ctx, "FindBooksByGenre", demand, genreContains(genre))
}

// FindBooksByAuthorIDAndGenre returns the books matching both the author id and the genre membership.
func (e *Engine) FindBooksByAuthorIDAndGenre(
	ctx context.Context,
	authorID uuid.UUID,
	genre catalog.GenreString,
	demand catalog.Demand,
) ([]catalog.Book, error) {

	return e.queryBooks(ctx, "FindBooksByAuthorIDAndGenre", demand,
		goqu.I(aliasBooks+"."+colAuthorID).Eq(authorID.String()),
		genreContains(genre))
}

// FindBookByTitle returns the book with the exact title, or (nil, nil) if none exists.
func (e *Engine) FindBookByTitle(ctx context.Context, title catalog.TitleString) (*catalog.Book, error) {
	books, err := e.queryBooks(ctx, "FindBookByTitle", catalog.Demand{},
		goqu.I(aliasBooks+"."+colTitle).Eq(title))
	if err != nil {
		return nil, err
	}

	if len(books) == 0 {
		return nil, nil
	}

	return &books[0], nil
}

// CountBooks returns the number of books.
func (e *Engine) CountBooks(ctx context.Context) (int, error) {
	return e.queryCount(ctx, "CountBooks", e.tables.Books)
}

// AllGenres returns the distinct genre tags across all books, sorted.
func (e *Engine) AllGenres(ctx context.Context) ([]catalog.GenreString, error) {
	const operation = "AllGenres"

	selectStmt := goqu.Dialect(dialectPostgres).
		From(goqu.T(e.tables.Books), goqu.L("jsonb_array_elements_text("+colGenres+") AS "+aliasGenre)).
		SelectDistinct(goqu.C(aliasGenre)).
		Order(goqu.C(aliasGenre).Asc())

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return nil, e.buildQueryError(ctx, toSQLErr)
	}

	rows, err := e.executeQuery(ctx, operation, sqlQuery)
	if err != nil {
		return nil, err
	}
	defer e.closeRows(ctx, rows)

	genres := make([]catalog.GenreString, 0)

	for rows.Next() {
		var genre string
		if scanErr := rows.Scan(&genre); scanErr != nil {
			return nil, e.scanRowError(ctx, scanErr)
		}

		genres = append(genres, genre)
	}

	e.logOperation(ctx, operation, logAttrRowCount, len(genres))

	return genres, nil
}

/***** AuthorReader *****/

// FindAuthorByName returns the author with the exact name, or (nil, nil) if none exists.
func (e *Engine) FindAuthorByName(ctx context.Context, name catalog.AuthorNameString) (*catalog.Author, error) {
	authors, err := e.queryAuthors(ctx, "FindAuthorByName", catalog.Demand{},
		goqu.I(aliasAuthors+"."+colName).Eq(name))
	if err != nil {
		return nil, err
	}

	if len(authors) == 0 {
		return nil, nil
	}

	return &authors[0], nil
}

// FindAllAuthors returns every author, attaching the derived book count only when demanded.
func (e *Engine) FindAllAuthors(ctx context.Context, demand catalog.Demand) ([]catalog.Author, error) {
	return e.queryAuthors(ctx, "FindAllAuthors", demand)
}

// CountAuthors returns the number of authors.
func (e *Engine) CountAuthors(ctx context.Context) (int, error) {
	return e.queryCount(ctx, "CountAuthors", e.tables.Authors)
}

/***** AuthorWriter *****/

// CreateAuthor validates and persists a new author.
// Constraint violations surface as catalog.ValidationError.
func (e *Engine) CreateAuthor(ctx context.Context, name catalog.AuthorNameString) (catalog.Author, error) {
	const operation = "CreateAuthor"

	if strings.TrimSpace(name) == "" {
		return catalog.Author{}, catalog.ValidationError{Entity: catalog.EntityAuthor, Field: catalog.FieldName, Kind: catalog.KindRequired}
	}

	if len(name) < catalog.AuthorNameMinLength {
		return catalog.Author{}, catalog.ValidationError{Entity: catalog.EntityAuthor, Field: catalog.FieldName, Kind: catalog.KindMinLength}
	}

	existing, err := e.FindAuthorByName(ctx, name)
	if err != nil {
		return catalog.Author{}, err
	}

	if existing != nil {
		return catalog.Author{}, catalog.ValidationError{Entity: catalog.EntityAuthor, Field: catalog.FieldName, Kind: catalog.KindUnique}
	}

	author := catalog.Author{ID: uuid.New(), Name: name}

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(e.tables.Authors).
		Rows(goqu.Record{
			colID:   author.ID.String(),
			colName: author.Name,
			colBorn: nil,
		})

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return catalog.Author{}, e.buildQueryError(ctx, toSQLErr)
	}

	if execErr := e.executeInsert(ctx, operation, sqlQuery); execErr != nil {
		return catalog.Author{}, execErr
	}

	return author, nil
}

// SaveAuthor persists the mutable fields of an existing author (the birth year).
func (e *Engine) SaveAuthor(ctx context.Context, author catalog.Author) (catalog.Author, error) {
	const operation = "SaveAuthor"

	updateStmt := goqu.Dialect(dialectPostgres).
		Update(e.tables.Authors).
		Set(goqu.Record{colBorn: bornValue(author.Born)}).
		Where(goqu.C(colID).Eq(author.ID.String()))

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()
	if toSQLErr != nil {
		return catalog.Author{}, e.buildQueryError(ctx, toSQLErr)
	}

	if execErr := e.executeInsert(ctx, operation, sqlQuery); execErr != nil {
		return catalog.Author{}, execErr
	}

	return author, nil
}

/***** BookWriter *****/

// CreateBook validates and persists a new book. The author reference
// must resolve to an existing author at commit time, which the foreign
// key on author_id enforces.
func (e *Engine) CreateBook(ctx context.Context, book catalog.NewBook) (catalog.Book, error) {
	const operation = "CreateBook"

	if strings.TrimSpace(book.Title) == "" {
		return catalog.Book{}, catalog.ValidationError{Entity: catalog.EntityBook, Field: catalog.FieldTitle, Kind: catalog.KindRequired}
	}

	if len(book.Title) < catalog.TitleMinLength {
		return catalog.Book{}, catalog.ValidationError{Entity: catalog.EntityBook, Field: catalog.FieldTitle, Kind: catalog.KindMinLength}
	}

	existing, err := e.FindBookByTitle(ctx, book.Title)
	if err != nil {
		return catalog.Book{}, err
	}

	if existing != nil {
		return catalog.Book{}, catalog.ValidationError{Entity: catalog.EntityBook, Field: catalog.FieldTitle, Kind: catalog.KindUnique}
	}

	genresJSON, marshalErr := jsonCodec.Marshal(book.Genres)
	if marshalErr != nil {
		e.logError(ctx, logMsgGenreCodecFailed, logAttrError, marshalErr.Error())
		return catalog.Book{}, errors.Join(ErrBuildingQueryFailed, marshalErr)
	}

	bookID := uuid.New()

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(e.tables.Books).
		Rows(goqu.Record{
			colID:        bookID.String(),
			colTitle:     book.Title,
			colPublished: book.Published,
			colGenres:    goqu.L(castJsonb, string(genresJSON)),
			colAuthorID:  book.AuthorID.String(),
		})

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return catalog.Book{}, e.buildQueryError(ctx, toSQLErr)
	}

	if execErr := e.executeInsert(ctx, operation, sqlQuery); execErr != nil {
		return catalog.Book{}, execErr
	}

	created, findErr := e.FindBookByTitle(ctx, book.Title)
	if findErr != nil {
		return catalog.Book{}, findErr
	}

	if created == nil {
		return catalog.Book{}, errors.Join(ErrQueryingFailed, fmt.Errorf("book %s not found after insert", book.Title))
	}

	return *created, nil
}

/***** UserStore *****/

// FindUserByUsername returns the user with the exact username, or (nil, nil) if none exists.
func (e *Engine) FindUserByUsername(ctx context.Context, username string) (*catalog.User, error) {
	return e.queryUser(ctx, "FindUserByUsername", goqu.C(colUsername).Eq(username))
}

// FindUserByID returns the user with the given id, or (nil, nil) if none exists.
func (e *Engine) FindUserByID(ctx context.Context, id uuid.UUID) (*catalog.User, error) {
	return e.queryUser(ctx, "FindUserByID", goqu.C(colID).Eq(id.String()))
}

// CreateUser validates and persists a new user.
func (e *Engine) CreateUser(ctx context.Context, user catalog.NewUser) (catalog.User, error) {
	const operation = "CreateUser"

	if strings.TrimSpace(user.Username) == "" {
		return catalog.User{}, catalog.ValidationError{Entity: catalog.EntityUser, Field: catalog.FieldUsername, Kind: catalog.KindRequired}
	}

	if len(user.Username) < catalog.UsernameMinLength {
		return catalog.User{}, catalog.ValidationError{Entity: catalog.EntityUser, Field: catalog.FieldUsername, Kind: catalog.KindMinLength}
	}

	if strings.TrimSpace(user.FavoriteGenre) == "" {
		return catalog.User{}, catalog.ValidationError{Entity: catalog.EntityUser, Field: catalog.FieldFavoriteGenre, Kind: catalog.KindRequired}
	}

	existing, err := e.FindUserByUsername(ctx, user.Username)
	if err != nil {
		return catalog.User{}, err
	}

	if existing != nil {
		return catalog.User{}, catalog.ValidationError{Entity: catalog.EntityUser, Field: catalog.FieldUsername, Kind: catalog.KindUnique}
	}

	created := catalog.User{ID: uuid.New(), Username: user.Username, FavoriteGenre: user.FavoriteGenre}

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(e.tables.Users).
		Rows(goqu.Record{
			colID:            created.ID.String(),
			colUsername:      created.Username,
			colFavoriteGenre: created.FavoriteGenre,
		})

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return catalog.User{}, e.buildQueryError(ctx, toSQLErr)
	}

	if execErr := e.executeInsert(ctx, operation, sqlQuery); execErr != nil {
		return catalog.User{}, execErr
	}

	return created, nil
}

/***** query building *****/

// buildBookSelect assembles the book query: books joined with authors,
// plus the grouped book-count subquery when the demand requests it.
func (e *Engine) buildBookSelect(demand catalog.Demand, where ...goqu.Expression) (sqlQueryString, error) {
	builder := goqu.Dialect(dialectPostgres)

	selectStmt := builder.
		From(goqu.T(e.tables.Books).As(aliasBooks)).
		Join(
			goqu.T(e.tables.Authors).As(aliasAuthors),
			goqu.On(goqu.I(aliasBooks+"."+colAuthorID).Eq(goqu.I(aliasAuthors+"."+colID))),
		).
		Select(
			goqu.I(aliasBooks+"."+colID),
			goqu.I(aliasBooks+"."+colTitle),
			goqu.I(aliasBooks+"."+colPublished),
			goqu.I(aliasBooks+"."+colGenres),
			goqu.I(aliasAuthors+"."+colID),
			goqu.I(aliasAuthors+"."+colName),
			goqu.I(aliasAuthors+"."+colBorn),
		).
		Order(goqu.I(aliasBooks + "." + colTitle).Asc())

	if demand.AuthorBookCount {
		selectStmt = selectStmt.
			LeftJoin(
				e.bookCountSubquery(),
				goqu.On(goqu.I(aliasBooks+"."+colAuthorID).Eq(goqu.I(aliasBookCounts+"."+colAuthorID))),
			).
			SelectAppend(goqu.L("COALESCE(" + aliasBookCounts + "." + aliasBookCount + ", 0)").As(aliasBookCount))
	}

	if len(where) > 0 {
		selectStmt = selectStmt.Where(goqu.And(where...))
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", toSQLErr
	}

	return sqlQuery, nil
}

// buildAuthorSelect assembles the author query, with the same
// demand-driven book-count join as the book query.
func (e *Engine) buildAuthorSelect(demand catalog.Demand, where ...goqu.Expression) (sqlQueryString, error) {
	builder := goqu.Dialect(dialectPostgres)

	selectStmt := builder.
		From(goqu.T(e.tables.Authors).As(aliasAuthors)).
		Select(
			goqu.I(aliasAuthors+"."+colID),
			goqu.I(aliasAuthors+"."+colName),
			goqu.I(aliasAuthors+"."+colBorn),
		).
		Order(goqu.I(aliasAuthors + "." + colName).Asc())

	if demand.AuthorBookCount {
		selectStmt = selectStmt.
			LeftJoin(
				e.bookCountSubquery(),
				goqu.On(goqu.I(aliasAuthors+"."+colID).Eq(goqu.I(aliasBookCounts+"."+colAuthorID))),
			).
			SelectAppend(goqu.L("COALESCE(" + aliasBookCounts + "." + aliasBookCount + ", 0)").As(aliasBookCount))
	}

	if len(where) > 0 {
		selectStmt = selectStmt.Where(goqu.And(where...))
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", toSQLErr
	}

	return sqlQuery, nil
}

// bookCountSubquery is the grouped aggregate joined on demand:
// one row per author id with the count of books referencing it.
func (e *Engine) bookCountSubquery() *goqu.SelectDataset {
	return goqu.Dialect(dialectPostgres).
		From(e.tables.Books).
		Select(goqu.C(colAuthorID), goqu.COUNT(goqu.Star()).As(aliasBookCount)).
		GroupBy(goqu.C(colAuthorID)).
		As(aliasBookCounts)
}

// genreContains builds the jsonb containment expression for genre membership.
func genreContains(genre catalog.GenreString) goqu.Expression {
	genreJSON, err := jsonCodec.Marshal([]string{genre})
	if err != nil {
		// A plain string never fails to marshal; fall back to an empty match.
		genreJSON = []byte(`[]`)
	}

	return goqu.L(aliasBooks+"."+colGenres+" @> "+castJsonb, string(genreJSON))
}

func bornValue(born *int) any {
	if born == nil {
		return nil
	}

	return *born
}

/***** query execution and row processing *****/

func (e *Engine) queryBooks(ctx context.Context, operation string, demand catalog.Demand, where ...goqu.Expression) ([]catalog.Book, error) {
	sqlQuery, buildErr := e.buildBookSelect(demand, where...)
	if buildErr != nil {
		return nil, e.buildQueryError(ctx, buildErr)
	}

	rows, err := e.executeQuery(ctx, operation, sqlQuery)
	if err != nil {
		return nil, err
	}
	defer e.closeRows(ctx, rows)

	books, scanErr := e.processBookRows(ctx, rows, demand)
	if scanErr != nil {
		return nil, scanErr
	}

	e.logOperation(ctx, operation, logAttrRowCount, len(books))

	return books, nil
}

func (e *Engine) processBookRows(ctx context.Context, rows adapters.DBRows, demand catalog.Demand) ([]catalog.Book, error) {
	books := make([]catalog.Book, 0)

	for rows.Next() {
		var (
			book       catalog.Book
			genresJSON []byte
			born       sql.NullInt64
			bookCount  int
		)

		dest := []any{&book.ID, &book.Title, &book.Published, &genresJSON, &book.Author.ID, &book.Author.Name, &born}
		if demand.AuthorBookCount {
			dest = append(dest, &bookCount)
		}

		if scanErr := rows.Scan(dest...); scanErr != nil {
			return nil, e.scanRowError(ctx, scanErr)
		}

		if unmarshalErr := jsonCodec.Unmarshal(genresJSON, &book.Genres); unmarshalErr != nil {
			e.logError(ctx, logMsgGenreCodecFailed, logAttrError, unmarshalErr.Error())
			return nil, errors.Join(ErrScanningRowFailed, unmarshalErr)
		}

		if born.Valid {
			bornYear := int(born.Int64)
			book.Author.Born = &bornYear
		}

		if demand.AuthorBookCount {
			book.Author = book.Author.WithBookCount(bookCount)
		}

		books = append(books, book)
	}

	return books, nil
}

func (e *Engine) queryAuthors(ctx context.Context, operation string, demand catalog.Demand, where ...goqu.Expression) ([]catalog.Author, error) {
	sqlQuery, buildErr := e.buildAuthorSelect(demand, where...)
	if buildErr != nil {
		return nil, e.buildQueryError(ctx, buildErr)
	}

	rows, err := e.executeQuery(ctx, operation, sqlQuery)
	if err != nil {
		return nil, err
	}
	defer e.closeRows(ctx, rows)

	authors := make([]catalog.Author, 0)

	for rows.Next() {
		var (
			author    catalog.Author
			born      sql.NullInt64
			bookCount int
		)

		dest := []any{&author.ID, &author.Name, &born}
		if demand.AuthorBookCount {
			dest = append(dest, &bookCount)
		}

		if scanErr := rows.Scan(dest...); scanErr != nil {
			return nil, e.scanRowError(ctx, scanErr)
		}

		if born.Valid {
			bornYear := int(born.Int64)
			author.Born = &bornYear
		}

		if demand.AuthorBookCount {
			author = author.WithBookCount(bookCount)
		}

		authors = append(authors, author)
	}

	e.logOperation(ctx, operation, logAttrRowCount, len(authors))

	return authors, nil
}

func (e *Engine) queryUser(ctx context.Context, operation string, where goqu.Expression) (*catalog.User, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(e.tables.Users).
		Select(goqu.C(colID), goqu.C(colUsername), goqu.C(colFavoriteGenre)).
		Where(where)

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return nil, e.buildQueryError(ctx, toSQLErr)
	}

	rows, err := e.executeQuery(ctx, operation, sqlQuery)
	if err != nil {
		return nil, err
	}
	defer e.closeRows(ctx, rows)

	if !rows.Next() {
		return nil, nil
	}

	var user catalog.User
	if scanErr := rows.Scan(&user.ID, &user.Username, &user.FavoriteGenre); scanErr != nil {
		return nil, e.scanRowError(ctx, scanErr)
	}

	return &user, nil
}

func (e *Engine) queryCount(ctx context.Context, operation string, table string) (int, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(table).
		Select(goqu.COUNT(goqu.Star()))

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return 0, e.buildQueryError(ctx, toSQLErr)
	}

	rows, err := e.executeQuery(ctx, operation, sqlQuery)
	if err != nil {
		return 0, err
	}
	defer e.closeRows(ctx, rows)

	var count int

	if rows.Next() {
		if scanErr := rows.Scan(&count); scanErr != nil {
			return 0, e.scanRowError(ctx, scanErr)
		}
	}

	return count, nil
}

// executeQuery executes the SQL query with timing, logging and metrics.
func (e *Engine) executeQuery(ctx context.Context, operation string, sqlQuery string) (adapters.DBRows, error) {
	spanCtx, span := e.startSpan(ctx, operation)

	start := time.Now()
	rows, queryErr := e.db.Query(spanCtx, sqlQuery)
	duration := time.Since(start)

	e.logQueryWithDuration(ctx, sqlQuery, operation, duration)
	e.recordDuration(operation, duration)

	if queryErr != nil {
		e.finishSpan(span, "error")
		e.recordError(operation)
		e.logError(ctx, logMsgDBQueryFailed, logAttrError, queryErr.Error(), logAttrQuery, sqlQuery)

		return nil, errors.Join(ErrQueryingFailed, queryErr)
	}

	e.finishSpan(span, "success")

	return rows, nil
}

// executeInsert executes an INSERT/UPDATE statement and verifies a single row was affected.
func (e *Engine) executeInsert(ctx context.Context, operation string, sqlQuery string) error {
	spanCtx, span := e.startSpan(ctx, operation)

	start := time.Now()
	result, execErr := e.db.Exec(spanCtx, sqlQuery)
	duration := time.Since(start)

	e.logQueryWithDuration(ctx, sqlQuery, operation, duration)
	e.recordDuration(operation, duration)

	if execErr != nil {
		e.finishSpan(span, "error")
		e.recordError(operation)
		e.logError(ctx, logMsgDBExecFailed, logAttrError, execErr.Error(), logAttrQuery, sqlQuery)

		return errors.Join(ErrExecFailed, execErr)
	}

	rowsAffected, rowsErr := result.RowsAffected()
	if rowsErr != nil {
		e.finishSpan(span, "error")
		e.logError(ctx, logMsgRowsAffected, logAttrError, rowsErr.Error())

		return errors.Join(ErrExecFailed, rowsErr)
	}

	if rowsAffected != 1 {
		e.finishSpan(span, "error")
		e.logError(ctx, logMsgUnexpectedAffect, logAttrOperation, operation, "rows_affected", rowsAffected)

		return errors.Join(ErrExecFailed, fmt.Errorf("expected 1 row affected, got %d", rowsAffected))
	}

	e.finishSpan(span, "success")
	e.logOperation(ctx, operation)

	return nil
}

// closeRows safely closes database rows and logs any errors.
func (e *Engine) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		e.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

func (e *Engine) buildQueryError(ctx context.Context, err error) error {
	e.logError(ctx, logMsgBuildQueryFailed, logAttrError, err.Error())
	return errors.Join(ErrBuildingQueryFailed, err)
}

func (e *Engine) scanRowError(ctx context.Context, err error) error {
	e.logError(ctx, logMsgScanRowFailed, logAttrError, err.Error())
	return errors.Join(ErrScanningRowFailed, err)
}

/***** observability helpers *****/

// logQueryWithDuration logs SQL queries with execution time at debug level if a logger is configured.
func (e *Engine) logQueryWithDuration(ctx context.Context, sqlQuery string, operation string, duration time.Duration) {
	args := []any{logAttrDurationMS, durationToMilliseconds(duration), logAttrQuery, sqlQuery}

	switch {
	case e.contextualLogger != nil:
		e.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+operation, args...)
	case e.logger != nil:
		e.logger.Debug(logMsgSQLExecuted+operation, args...)
	}
}

// logOperation logs operational information at info level if a logger is configured.
func (e *Engine) logOperation(ctx context.Context, operation string, args ...any) {
	switch {
	case e.contextualLogger != nil:
		e.contextualLogger.InfoContext(ctx, logMsgOperationComplete+operation, args...)
	case e.logger != nil:
		e.logger.Info(logMsgOperationComplete+operation, args...)
	}
}

func (e *Engine) logWarn(ctx context.Context, msg string, args ...any) {
	switch {
	case e.contextualLogger != nil:
		e.contextualLogger.WarnContext(ctx, msg, args...)
	case e.logger != nil:
		e.logger.Warn(msg, args...)
	}
}

func (e *Engine) logError(ctx context.Context, msg string, args ...any) {
	switch {
	case e.contextualLogger != nil:
		e.contextualLogger.ErrorContext(ctx, msg, args...)
	case e.logger != nil:
		e.logger.Error(msg, args...)
	}
}

func (e *Engine) recordDuration(operation string, duration time.Duration) {
	if e.metrics != nil {
		e.metrics.RecordDuration(metricStoreDuration, duration, map[string]string{labelOperation: operation})
	}
}

func (e *Engine) recordError(operation string) {
	if e.metrics != nil {
		e.metrics.IncrementCounter(metricStoreErrors, map[string]string{labelOperation: operation})
	}
}

func (e *Engine) startSpan(ctx context.Context, operation string) (context.Context, catalog.SpanContext) {
	if e.tracing == nil {
		return ctx, nil
	}

	return e.tracing.StartSpan(ctx, "catalogstore."+operation, map[string]string{labelOperation: operation})
}

func (e *Engine) finishSpan(span catalog.SpanContext, status string) {
	if e.tracing == nil || span == nil {
		return
	}

	e.tracing.FinishSpan(span, status, nil)
}

// durationToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func durationToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
