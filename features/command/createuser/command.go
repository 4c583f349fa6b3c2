package createuser

import (
	"github.com/booklore/catalog-go/catalog"
)

const (
	commandType = "CreateUser"
)

// Command represents the intent to register a new user.
type Command struct {
	Username      string
	FavoriteGenre catalog.GenreString
}

// CommandType returns the type of this command for observability and routing purposes.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(username string, favoriteGenre catalog.GenreString) Command {
	return Command{
		Username:      username,
		FavoriteGenre: favoriteGenre,
	}
}
