package allbooks

import (
	"github.com/booklore/catalog-go/catalog"
)

const (
	queryType = "AllBooks"
)

// Query represents the intent to list books, optionally narrowed by author
// name and/or genre, together with the field selection of the caller.
type Query struct {
	Filter    catalog.BookFilter
	Selection *catalog.FieldSelection
}

// BuildQuery creates a new Query with the provided filter and selection.
// A nil selection means the demand is unknown and all derived fields are computed.
func BuildQuery(filter catalog.BookFilter, selection *catalog.FieldSelection) Query {
	return Query{
		Filter:    filter,
		Selection: selection,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
