package addbook

import (
	"github.com/booklore/catalog-go/catalog"
)

const (
	commandType = "AddBook"
)

// Command represents the intent to add a new book to the catalog.
// It encapsulates all the necessary information required to execute the add book use case.
type Command struct {
	Title      catalog.TitleString
	Published  int
	Genres     []catalog.GenreString
	AuthorName catalog.AuthorNameString
	Actor      *catalog.User
}

// CommandType returns the type of this command for observability and routing purposes.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
// A nil actor means the caller is not authenticated and the command will be rejected.
func BuildCommand(
	title catalog.TitleString,
	published int,
	genres []catalog.GenreString,
	authorName catalog.AuthorNameString,
	actor *catalog.User,
) Command {

	return Command{
		Title:      title,
		Published:  published,
		Genres:     genres,
		AuthorName: authorName,
		Actor:      actor,
	}
}
