package login

const (
	commandType = "Login"
)

// Command represents the intent to log in as an existing user.
type Command struct {
	Username string
	Password string
}

// CommandType returns the type of this command for observability and routing purposes.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided credentials.
func BuildCommand(username string, password string) Command {
	return Command{
		Username: username,
		Password: password,
	}
}
