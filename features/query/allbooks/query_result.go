package allbooks

import (
	"github.com/booklore/catalog-go/catalog"
)

// Books represents the query result containing the matching books in title order.
type Books struct {
	Books []catalog.Book
	Count int
}
