package tui

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/todo/internal/logbook"
	"github.com/kingrea/todo/internal/storage"
	"github.com/kingrea/todo/internal/task"
)

func TestAddFlowAppendsAndPersists(t *testing.T) {
	app, adapter := newTestApp(t)
	press(t, app, runes("a"), runes("Buy milk"), enter(), runes("Walk dog"), enter(), esc())

	if app.state != stateBrowse {
		t.Fatalf("expected browse state after esc, got %d", app.state)
	}
	if got := texts(app.store.Tasks()); !reflect.DeepEqual(got, []string{"Buy milk", "Walk dog"}) {
		t.Fatalf("tasks = %v", got)
	}
	if got := texts(adapter.Load()); !reflect.DeepEqual(got, []string{"Buy milk", "Walk dog"}) {
		t.Fatalf("persisted = %v", got)
	}
	if app.cursor != 1 {
		t.Fatalf("cursor = %d, want last task", app.cursor)
	}
}

func TestAddingModeTypesCommandKeys(t *testing.T) {
	app, _ := newTestApp(t)
	press(t, app, runes("a"), runes("q"), runes("d"), enter())
	if got := texts(app.store.Tasks()); !reflect.DeepEqual(got, []string{"qd"}) {
		t.Fatalf("tasks = %v, want [qd]", got)
	}
}

func TestBlankAddIsIgnored(t *testing.T) {
	app, _ := newTestApp(t)
	press(t, app, runes("a"), runes("   "), enter())
	if app.store.Count() != 0 {
		t.Fatalf("count = %d, want 0", app.store.Count())
	}
	if app.statusMsg != "Nothing to add" {
		t.Fatalf("status = %q", app.statusMsg)
	}
}

func TestToggleAndDelete(t *testing.T) {
	app, adapter := newTestApp(t, "Task A", "Task B")
	press(t, app, runes("x"))
	first := app.store.Tasks()[0]
	if !first.Completed {
		t.Fatalf("expected first task completed")
	}
	if !adapter.Load()[0].Completed {
		t.Fatalf("toggle was not persisted")
	}
	press(t, app, runes("j"), runes("d"))
	if got := texts(app.store.Tasks()); !reflect.DeepEqual(got, []string{"Task A"}) {
		t.Fatalf("tasks = %v", got)
	}
	if app.cursor != 0 {
		t.Fatalf("cursor = %d, want clamped to 0", app.cursor)
	}
}

func TestEditPromptSubmit(t *testing.T) {
	app, adapter := newTestApp(t, "Task A")
	press(t, app, runes("e"))
	if app.state != stateEditing {
		t.Fatalf("expected editing state, got %d", app.state)
	}
	if app.editor.Value() != "Task A" {
		t.Fatalf("editor prefilled with %q", app.editor.Value())
	}
	app.editor.SetValue("Task B")
	press(t, app, enter())
	if got := texts(adapter.Load()); !reflect.DeepEqual(got, []string{"Task B"}) {
		t.Fatalf("persisted = %v", got)
	}
	if app.state != stateBrowse {
		t.Fatalf("expected browse after submit")
	}
}

func TestEditPromptUntouchedKeepsLongText(t *testing.T) {
	long := strings.Repeat("x", 300)
	for _, text := range []string{long, "tabbed\ttext"} {
		app, adapter := newTestApp(t, text)
		press(t, app, runes("e"), enter())
		if got := app.store.Tasks()[0].Text; got != text {
			t.Fatalf("untouched edit changed text: len %d -> %d (%q)", len(text), len(got), got)
		}
		if got := adapter.Load()[0].Text; got != text {
			t.Fatalf("persisted text changed: %q", got)
		}
	}
}

func TestEditPromptAppendsToLongText(t *testing.T) {
	long := strings.Repeat("x", 300)
	app, _ := newTestApp(t, long)
	press(t, app, runes("e"), runes("!"), enter())
	if got := app.store.Tasks()[0].Text; got != long+"!" {
		t.Fatalf("edited text has len %d, want %d", len(got), len(long)+1)
	}
}

func TestEditPromptCancelKeepsText(t *testing.T) {
	app, _ := newTestApp(t, "Task A")
	press(t, app, runes("e"), runes(" changed"), esc())
	if got := texts(app.store.Tasks()); !reflect.DeepEqual(got, []string{"Task A"}) {
		t.Fatalf("tasks = %v", got)
	}
}

func TestEditPromptBlankKeepsText(t *testing.T) {
	app, _ := newTestApp(t, "Task A")
	press(t, app, runes("e"))
	app.editor.SetValue("   ")
	press(t, app, enter())
	if got := texts(app.store.Tasks()); !reflect.DeepEqual(got, []string{"Task A"}) {
		t.Fatalf("tasks = %v", got)
	}
}

func TestClearNeedsConfirmation(t *testing.T) {
	app, adapter := newTestApp(t, "one", "two")
	press(t, app, runes("C"), runes("n"))
	if app.store.Count() != 2 {
		t.Fatalf("clear ran without confirmation")
	}
	press(t, app, runes("C"), runes("y"))
	if app.store.Count() != 0 {
		t.Fatalf("count = %d, want 0", app.store.Count())
	}
	if len(adapter.Load()) != 0 {
		t.Fatalf("clear was not persisted")
	}
}

func TestQuitFromBrowse(t *testing.T) {
	app, _ := newTestApp(t)
	_, cmd := app.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestViewShowsCountsAndJournal(t *testing.T) {
	app, _ := newTestApp(t, "Buy milk", "Walk dog")
	press(t, app, runes("x"))
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	view := app.View()
	for _, want := range []string{"Total Tasks: 2 · 1 open", "Buy milk", "Walk dog", "LOG · journal.log", "Completed · Buy milk"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestViewEmptyList(t *testing.T) {
	app, _ := newTestApp(t)
	if view := app.View(); !strings.Contains(view, "No tasks yet") {
		t.Fatalf("empty view:\n%s", view)
	}
}

func newTestApp(t *testing.T, seed ...string) (*App, *storage.Adapter) {
	t.Helper()
	adapter := storage.NewAdapter(storage.NewMemorySlots())
	store := task.NewStore(adapter.Load(), task.WithSaver(adapter))
	for _, text := range seed {
		store.Add(text)
	}
	lb, err := logbook.New(filepath.Join(t.TempDir(), "journal.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	return NewApp(store, WithLogbook(lb)), adapter
}

// press feeds key messages through Update. Returned commands are dropped:
// they are cursor blinks and would otherwise tick forever.
func press(t *testing.T, app *App, msgs ...tea.KeyMsg) {
	t.Helper()
	for _, msg := range msgs {
		model, _ := app.Update(msg)
		if _, ok := model.(*App); !ok {
			t.Fatalf("unexpected model type: %T", model)
		}
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func enter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }

func esc() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEsc} }

func texts(tasks []task.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Text)
	}
	return out
}
