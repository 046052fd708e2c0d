package cli

import (
	"flag"
	"fmt"
	"io"
	"sort"
)

// Exit codes.
const (
	// ExitOK indicates successful completion.
	ExitOK = 0

	// ExitUsage indicates a user error (bad args, unknown command).
	ExitUsage = 1

	// ExitStorage indicates config or storage could not be opened or saved.
	ExitStorage = 2
)

// Streams bundles the standard streams a command may use.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command against an open session and returns the
	// exit code. args are the positional arguments left after flags.
	Run(s *Session, args []string, streams Streams) int
}

// Registry holds registered commands.
type Registry struct {
	cmds map[string]Command // name and aliases map to command
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]Command)}
}

// Register adds a command. Returns an error if the name or any alias is
// already taken.
func (r *Registry) Register(c Command) error {
	names := append([]string{c.Name()}, c.Aliases()...)
	for _, name := range names {
		if _, exists := r.cmds[name]; exists {
			return fmt.Errorf("command already registered: %s", name)
		}
	}
	for _, name := range names {
		r.cmds[name] = c
	}
	return nil
}

// MustRegister panics if registration fails.
func (r *Registry) MustRegister(c Command) {
	if err := r.Register(c); err != nil {
		panic(err)
	}
}

// Find looks up a command by name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	cmd, ok := r.cmds[name]
	return cmd, ok
}

// All returns all unique commands sorted by name.
func (r *Registry) All() []Command {
	seen := make(map[string]Command)
	for _, cmd := range r.cmds {
		seen[cmd.Name()] = cmd
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Command, len(names))
	for i, name := range names {
		out[i] = seen[name]
	}
	return out
}

// DefaultRegistry returns a registry with every built-in command.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(&listCmd{})
	r.MustRegister(&addCmd{})
	r.MustRegister(&doneCmd{})
	r.MustRegister(&rmCmd{})
	r.MustRegister(&editCmd{})
	r.MustRegister(&clearCmd{})
	r.MustRegister(&countCmd{})
	return r
}
