package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/kingrea/todo/internal/task"
)

// DefaultKey is the slot the task list is stored under.
const DefaultKey = "todoTasks"

// AdapterOption customizes an Adapter during construction.
type AdapterOption func(*Adapter)

// WithKey overrides the slot key.
func WithKey(key string) AdapterOption {
	return func(a *Adapter) {
		if key != "" {
			a.key = key
		}
	}
}

// WithLoadWarning receives problems found while loading. Load itself still
// returns an empty list in those cases.
func WithLoadWarning(fn func(error)) AdapterOption {
	return func(a *Adapter) {
		a.warn = fn
	}
}

// Adapter moves whole task-list snapshots in and out of one slot as a JSON
// array of {id, text, completed} records.
type Adapter struct {
	slots Slots
	key   string
	warn  func(error)
}

// NewAdapter builds an adapter over slots.
func NewAdapter(slots Slots, opts ...AdapterOption) *Adapter {
	a := &Adapter{slots: slots, key: DefaultKey}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Key returns the slot key in use.
func (a *Adapter) Key() string { return a.key }

// Load restores the last snapshot. A missing, empty, unreadable or corrupt
// slot yields an empty list.
func (a *Adapter) Load() []task.Task {
	data, ok, err := a.slots.Get(a.key)
	if err != nil {
		a.warnf("storage: load %s: %w", a.key, err)
		return []task.Task{}
	}
	if !ok || len(bytes.TrimSpace(data)) == 0 {
		return []task.Task{}
	}
	var tasks []task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		a.warnf("storage: decode %s: %w", a.key, err)
		return []task.Task{}
	}
	if tasks == nil {
		return []task.Task{}
	}
	return tasks
}

// Save overwrites the slot with tasks, in order.
func (a *Adapter) Save(tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", a.key, err)
	}
	return a.slots.Set(a.key, data)
}

func (a *Adapter) warnf(format string, args ...any) {
	if a.warn == nil {
		return
	}
	a.warn(fmt.Errorf(format, args...))
}
