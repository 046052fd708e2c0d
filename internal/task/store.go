// internal/task/store.go
//
// Store is the single owner of the task list. Callers mutate it through the
// methods below and every mutation, including ones that turn out to be
// no-ops, hands the full snapshot to the configured Saver.

package task

import (
	"sync"
	"time"
)

// Saver persists a full snapshot of the list.
type Saver interface {
	Save(tasks []Task) error
}

// SaverFunc adapts a plain function to Saver.
type SaverFunc func(tasks []Task) error

// Save calls f.
func (f SaverFunc) Save(tasks []Task) error { return f(tasks) }

// StoreOption customizes a Store during construction.
type StoreOption func(*Store)

// WithSaver installs the snapshot sink.
func WithSaver(saver Saver) StoreOption {
	return func(s *Store) {
		s.saver = saver
	}
}

// WithClock overrides the clock used to derive ids.
func WithClock(clock func() time.Time) StoreOption {
	return func(s *Store) {
		s.ids = NewIDSource(clock)
	}
}

// WithSaveErrorHandler receives save failures. The in-memory state is kept
// either way. The handler runs with the store locked and must not call back
// into it.
func WithSaveErrorHandler(handler func(error)) StoreOption {
	return func(s *Store) {
		s.onSaveErr = handler
	}
}

// Store holds the ordered task collection.
type Store struct {
	mu        sync.Mutex
	tasks     []Task
	ids       *IDSource
	saver     Saver
	onSaveErr func(error)
	lastErr   error
}

// NewStore builds a store seeded with initial, typically the tasks restored
// from the last snapshot. Records repeating an earlier id are dropped;
// records without a positive id are kept and given a fresh one.
func NewStore(initial []Task, opts ...StoreOption) *Store {
	s := &Store{ids: NewIDSource(nil)}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	for _, t := range initial {
		s.ids.Observe(t.ID)
	}
	seen := make(map[int64]struct{}, len(initial))
	s.tasks = make([]Task, 0, len(initial))
	for _, t := range initial {
		if t.ID <= 0 {
			t.ID = s.ids.Next()
		} else if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		s.tasks = append(s.tasks, t)
	}
	return s
}

// Add appends a new open task. Blank text is rejected and ok is false.
func (s *Store) Add(text string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.persist()

	trimmed, ok := normalizeText(text)
	if !ok {
		return Task{}, false
	}
	t := Task{ID: s.ids.Next(), Text: trimmed}
	s.tasks = append(s.tasks, t)
	return t, true
}

// Remove deletes the task with id. Unknown ids are ignored.
func (s *Store) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.persist()

	if idx := s.indexOf(id); idx >= 0 {
		s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	}
}

// ToggleComplete flips the completed flag of the task with id.
func (s *Store) ToggleComplete(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.persist()

	if idx := s.indexOf(id); idx >= 0 {
		s.tasks[idx].Completed = !s.tasks[idx].Completed
	}
}

// Edit replaces the text of the task with id. Blank text leaves the task as
// it was.
func (s *Store) Edit(id int64, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.persist()

	s.editLocked(id, text)
}

// EditWithPrompt asks prompt for the replacement text of the task with id.
// A cancelled prompt counts as blank text. The prompt is not called for
// unknown ids.
func (s *Store) EditWithPrompt(id int64, prompt Prompt) {
	current, ok := s.Get(id)
	if !ok || prompt == nil {
		s.mu.Lock()
		s.persist()
		s.mu.Unlock()
		return
	}
	text, ok := prompt(current.Text)
	if !ok {
		text = ""
	}
	s.Edit(id, text)
}

// Clear removes every task.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.persist()

	s.tasks = s.tasks[:0]
}

// Count returns the number of tasks.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Remaining returns the number of tasks not yet completed.
func (s *Store) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

// Tasks returns a copy of the list in insertion order.
func (s *Store) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Get looks up a task by id.
func (s *Store) Get(id int64) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(id); idx >= 0 {
		return s.tasks[idx], true
	}
	return Task{}, false
}

// LastSaveError returns the error from the most recent save, if any.
func (s *Store) LastSaveError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Store) editLocked(id int64, text string) {
	trimmed, ok := normalizeText(text)
	if !ok {
		return
	}
	if idx := s.indexOf(id); idx >= 0 {
		s.tasks[idx].Text = trimmed
	}
}

func (s *Store) indexOf(id int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) snapshot() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// persist must be called with s.mu held.
func (s *Store) persist() {
	if s.saver == nil {
		return
	}
	s.lastErr = s.saver.Save(s.snapshot())
	if s.lastErr != nil && s.onSaveErr != nil {
		s.onSaveErr(s.lastErr)
	}
}
