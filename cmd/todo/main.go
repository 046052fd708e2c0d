// cmd/todo/main.go
//
// This is the entry point for the todo CLI.
// Run `todo` with no arguments for the interactive list, or pass a command
// (`todo add Buy milk`, `todo list`, ...) for a one-shot change.

package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/todo/internal/cli"
	"github.com/kingrea/todo/internal/logging"
	"github.com/kingrea/todo/internal/tui"
)

func main() {
	// The working directory is the "project" whose .todo/ we use
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
		os.Exit(cli.ExitStorage)
	}

	dispatcher := cli.NewDispatcher(cli.DefaultRegistry(), cwd, cli.OpenSession, runTUI)
	code := dispatcher.Run(os.Args[1:], cli.Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr})
	os.Exit(code)
}

// runTUI shows the full-screen list until the user quits.
func runTUI(s *cli.Session) error {
	logger, err := logging.New(s.Config.ProjectDir)
	if err != nil {
		return err
	}
	defer logger.Close()
	logger.Printf("tui: start · %d task(s) from %s", s.Store.Count(), s.Config.DataDir())

	app := tui.NewApp(s.Store,
		tui.WithLogbook(s.Logbook),
		tui.WithTitle(s.Config.Title()),
		tui.WithLogPanel(s.Config.ShowLog()),
	)
	// Use alternate screen buffer (like vim does)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Printf("tui: %v", err)
		return fmt.Errorf("running TUI: %w", err)
	}
	if err := s.Store.LastSaveError(); err != nil {
		logger.Printf("tui: last save failed: %v", err)
		return fmt.Errorf("tasks not saved: %w", err)
	}
	logger.Printf("tui: exit · %d task(s)", s.Store.Count())
	return nil
}
