package allauthors

import (
	"github.com/booklore/catalog-go/catalog"
)

const (
	queryType = "AllAuthors"
)

// Query represents the intent to list all authors with the caller's field selection.
type Query struct {
	Selection *catalog.FieldSelection
}

// BuildQuery creates a new Query with the provided selection.
// A nil selection means the demand is unknown and all derived fields are computed.
func BuildQuery(selection *catalog.FieldSelection) Query {
	return Query{
		Selection: selection,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
