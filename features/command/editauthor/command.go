package editauthor

import (
	"github.com/booklore/catalog-go/catalog"
)

const (
	commandType = "EditAuthor"
)

// Command represents the intent to set the birth year of an existing author.
type Command struct {
	Name  catalog.AuthorNameString
	Born  int
	Actor *catalog.User
}

// CommandType returns the type of this command for observability and routing purposes.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
// A nil actor means the caller is not authenticated and the command will be rejected.
func BuildCommand(name catalog.AuthorNameString, born int, actor *catalog.User) Command {
	return Command{
		Name:  name,
		Born:  born,
		Actor: actor,
	}
}
