// pkg/process/command.go - structured command specification.

package process

import (
	"strings"
)

// Command is a program name followed by its ordered arguments. Each argument
// reaches the launched program as a single unit.
type Command struct {
	Program string
	Args    []string
}

// NewCommand builds a Command from a program and its arguments.
func NewCommand(program string, args ...string) Command {
	return Command{Program: program, Args: args}
}

// ParseCommand tokenizes a command line on whitespace. There is no quoting
// or escaping: an argument that itself contains spaces cannot be expressed
// this way, use NewCommand instead.
func ParseCommand(line string) Command {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return Command{}
	}
	return Command{Program: tokens[0], Args: tokens[1:]}
}

// Tokens returns the program followed by its arguments.
func (c Command) Tokens() []string {
	return append([]string{c.Program}, c.Args...)
}

// String renders the command for logs.
func (c Command) String() string {
	return strings.Join(c.Tokens(), " ")
}
