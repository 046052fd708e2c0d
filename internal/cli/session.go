// Package cli wires configuration, storage and the task store together and
// exposes the list as non-interactive subcommands.
package cli

import (
	"fmt"

	"github.com/kingrea/todo/internal/config"
	"github.com/kingrea/todo/internal/logbook"
	"github.com/kingrea/todo/internal/storage"
	"github.com/kingrea/todo/internal/task"
)

// Session is everything a command needs for one run: the store restored
// from the slot, the adapter it saves through, and the journal.
type Session struct {
	Config  *config.Config
	Store   *task.Store
	Adapter *storage.Adapter
	Logbook *logbook.Logbook
}

// SessionFactory opens a session for a project directory. Tests swap it to
// run commands against in-memory slots.
type SessionFactory func(projectDir string) (*Session, error)

// OpenSession prepares .todo/ in projectDir, restores the task list from its
// slot and returns a store that saves back to it after every change.
func OpenSession(projectDir string) (*Session, error) {
	if err := config.InitDir(projectDir); err != nil {
		return nil, fmt.Errorf("cli: init %s: %w", config.TodoDir, err)
	}
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		return nil, err
	}
	lb, err := logbook.New(cfg.JournalPath())
	if err != nil {
		return nil, err
	}
	slots, err := storage.NewDirSlots(cfg.DataDir())
	if err != nil {
		return nil, err
	}
	s := NewSession(slots, cfg.StorageKey(), lb)
	s.Config = cfg
	return s, nil
}

// NewSession builds a session over any slot implementation.
func NewSession(slots storage.Slots, key string, lb *logbook.Logbook) *Session {
	adapter := storage.NewAdapter(slots,
		storage.WithKey(key),
		storage.WithLoadWarning(func(err error) {
			lb.Warn("Starting empty · %v", err)
		}),
	)
	store := task.NewStore(adapter.Load(),
		task.WithSaver(adapter),
		task.WithSaveErrorHandler(func(err error) {
			lb.Error("Save failed · %v", err)
		}),
	)
	return &Session{Store: store, Adapter: adapter, Logbook: lb}
}
