package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

// Interactive runs the full-screen UI over an open session.
type Interactive func(s *Session) error

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry    *Registry
	open        SessionFactory
	interactive Interactive
	projectDir  string
}

// NewDispatcher creates a dispatcher for projectDir. A nil open uses
// OpenSession.
func NewDispatcher(registry *Registry, projectDir string, open SessionFactory, interactive Interactive) *Dispatcher {
	if open == nil {
		open = OpenSession
	}
	return &Dispatcher{
		registry:    registry,
		open:        open,
		interactive: interactive,
		projectDir:  projectDir,
	}
}

// Run parses args and dispatches to the matching command. No args starts
// the interactive UI. Returns the exit code.
func (d *Dispatcher) Run(args []string, streams Streams) int {
	if len(args) == 0 {
		return d.runInteractive(streams)
	}

	name := args[0]
	switch name {
	case "help", "-h", "-help", "--help":
		d.printUsage(streams.Out)
		return ExitOK
	}
	if strings.HasPrefix(name, "-") {
		fmt.Fprintf(streams.Err, "error: unknown command: %s\n", name)
		return ExitUsage
	}
	cmd, ok := d.registry.Find(name)
	if !ok {
		fmt.Fprintf(streams.Err, "error: unknown command: %s\n", name)
		return ExitUsage
	}

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.RegisterFlags(fs)
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(streams.Out, "usage: %s\n", cmd.Usage())
			return ExitOK
		}
		fmt.Fprintf(streams.Err, "error: %v\n", err)
		fmt.Fprintf(streams.Err, "usage: %s\n", cmd.Usage())
		return ExitUsage
	}

	session, err := d.open(d.projectDir)
	if err != nil {
		fmt.Fprintf(streams.Err, "error: %v\n", err)
		return ExitStorage
	}
	code := cmd.Run(session, fs.Args(), streams)
	if code == ExitOK {
		if err := session.Store.LastSaveError(); err != nil {
			fmt.Fprintf(streams.Err, "error: %v\n", err)
			return ExitStorage
		}
	}
	return code
}

func (d *Dispatcher) runInteractive(streams Streams) int {
	if d.interactive == nil {
		d.printUsage(streams.Err)
		return ExitUsage
	}
	session, err := d.open(d.projectDir)
	if err != nil {
		fmt.Fprintf(streams.Err, "error: %v\n", err)
		return ExitStorage
	}
	if err := d.interactive(session); err != nil {
		fmt.Fprintf(streams.Err, "error: %v\n", err)
		return ExitStorage
	}
	return ExitOK
}

func (d *Dispatcher) printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: todo [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run without a command to open the interactive list.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, cmd := range d.registry.All() {
		fmt.Fprintf(w, "  %-8s %s\n", cmd.Name(), cmd.Synopsis())
	}
}
