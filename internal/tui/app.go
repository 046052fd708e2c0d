// internal/tui/app.go
//
// This is the terminal UI for the task list. It uses bubbletea, which
// follows The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The App never owns the tasks. It drives a *task.Store handed to it by the
// caller, and the store persists itself after every call.

package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/todo/internal/logbook"
	"github.com/kingrea/todo/internal/task"
)

// appState represents which "screen" we're on
type appState int

const (
	stateBrowse       appState = iota // Moving around the list
	stateAdding                       // Typing into the new-task input
	stateEditing                      // Edit prompt open over one task
	stateConfirmClear                 // Waiting for y/n before clearing
)

const (
	defaultTitle = "To-Do"
	logTailLines = 6
	inputLimit   = 256
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))
	counterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	doneStyle = lipgloss.NewStyle().
			Strikethrough(true).
			Foreground(lipgloss.Color("#6A9955"))
	emptyStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#888888"))
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	promptBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5B8DEF")).
			Padding(0, 1)
	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1)
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithLogbook sets the journal that records actions and feeds the log panel.
func WithLogbook(lb *logbook.Logbook) AppOption {
	return func(a *App) {
		a.logbook = lb
	}
}

// WithTitle overrides the heading.
func WithTitle(title string) AppOption {
	return func(a *App) {
		if title = strings.TrimSpace(title); title != "" {
			a.title = title
		}
	}
}

// WithLogPanel toggles the journal panel under the list.
func WithLogPanel(show bool) AppOption {
	return func(a *App) {
		a.showLog = show
	}
}

// App is the main application model. In bubbletea, this holds ALL your
// UI state; the tasks themselves live in the store.
type App struct {
	state   appState
	store   *task.Store
	logbook *logbook.Logbook

	title   string
	showLog bool

	// UI components
	keys      keyMap
	help      help.Model
	input     textinput.Model // new task text
	editor    textinput.Model // edit prompt
	cursor    int
	editingID int64
	editSeed  string // editor value right after opening
	statusMsg string

	// Window size (we get this from bubbletea)
	width  int
	height int
}

// NewApp creates an App driving store.
func NewApp(store *task.Store, opts ...AppOption) *App {
	input := textinput.New()
	input.Placeholder = "Enter a new task..."
	input.CharLimit = inputLimit
	input.Prompt = "+ "

	// No limit on the editor: existing text may be longer than anything
	// the add input accepts.
	editor := textinput.New()
	editor.Prompt = "» "

	app := &App{
		state:   stateBrowse,
		store:   store,
		title:   defaultTitle,
		showLog: true,
		keys:    defaultKeyMap(),
		help:    help.New(),
		input:   input,
		editor:  editor,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	app.logInfo("Session opened · %d task(s)", store.Count())
	return app
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		inputWidth := max(10, msg.Width-12)
		a.input.Width = inputWidth
		a.editor.Width = inputWidth
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.logInfo("Session closed · %d task(s)", a.store.Count())
			return a, tea.Quit
		}
		switch a.state {
		case stateAdding:
			return a.updateAdding(msg)
		case stateEditing:
			return a.updateEditing(msg)
		case stateConfirmClear:
			return a.updateConfirmClear(msg)
		default:
			return a.updateBrowse(msg)
		}
	}

	// Non-key messages (cursor blink) go to whichever input is focused.
	var cmd tea.Cmd
	switch a.state {
	case stateAdding:
		a.input, cmd = a.input.Update(msg)
	case stateEditing:
		a.editor, cmd = a.editor.Update(msg)
	}
	return a, cmd
}

func (a *App) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		a.logInfo("Session closed · %d task(s)", a.store.Count())
		return a, tea.Quit
	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(msg, a.keys.Down):
		if a.cursor < a.store.Count()-1 {
			a.cursor++
		}
	case key.Matches(msg, a.keys.Add):
		a.state = stateAdding
		a.input.Reset()
		a.statusMsg = "Enter → add    Esc → done"
		return a, a.input.Focus()
	case key.Matches(msg, a.keys.Toggle):
		if t, ok := a.selected(); ok {
			a.store.ToggleComplete(t.ID)
			if now, ok := a.store.Get(t.ID); ok {
				verb := "Reopened"
				if now.Completed {
					verb = "Completed"
				}
				a.report("%s · %s", verb, now.Text)
			}
		}
	case key.Matches(msg, a.keys.Edit):
		return a.openEditor()
	case key.Matches(msg, a.keys.Delete):
		if t, ok := a.selected(); ok {
			a.store.Remove(t.ID)
			a.clampCursor()
			a.report("Deleted · %s", t.Text)
		}
	case key.Matches(msg, a.keys.Clear):
		if a.store.Count() > 0 {
			a.state = stateConfirmClear
			a.statusMsg = fmt.Sprintf("Clear all %d task(s)? y → yes    any other key → cancel", a.store.Count())
		}
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
	}
	return a, nil
}

func (a *App) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.state = stateBrowse
		a.input.Blur()
		a.input.Reset()
		a.statusMsg = ""
		return a, nil
	case tea.KeyEnter:
		if t, ok := a.store.Add(a.input.Value()); ok {
			a.cursor = a.store.Count() - 1
			a.report("Added · %s", t.Text)
		} else {
			a.statusMsg = "Nothing to add"
		}
		a.input.Reset()
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// openEditor shows the edit prompt pre-filled with the selected task.
func (a *App) openEditor() (tea.Model, tea.Cmd) {
	t, ok := a.selected()
	if !ok {
		return a, nil
	}
	a.state = stateEditing
	a.editingID = t.ID
	a.editor.SetValue(t.Text)
	a.editor.CursorEnd()
	a.editSeed = a.editor.Value()
	a.statusMsg = "Enter → save    Esc → cancel"
	return a, a.editor.Focus()
}

func (a *App) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.closeEditor(cancelledPrompt)
		return a, nil
	case tea.KeyEnter:
		value := a.editor.Value()
		if value == a.editSeed {
			// The input sanitizes tabs and newlines; an untouched
			// prompt keeps the stored text exactly.
			if t, ok := a.store.Get(a.editingID); ok {
				value = t.Text
			}
		}
		a.closeEditor(valuePrompt(value))
		return a, nil
	}
	var cmd tea.Cmd
	a.editor, cmd = a.editor.Update(msg)
	return a, cmd
}

// closeEditor resolves the open prompt through the store so a cancel and a
// blank answer go down the same path.
func (a *App) closeEditor(answer task.Prompt) {
	id := a.editingID
	before, _ := a.store.Get(id)
	a.store.EditWithPrompt(id, answer)
	after, _ := a.store.Get(id)

	a.state = stateBrowse
	a.editingID = 0
	a.editSeed = ""
	a.editor.Blur()
	a.editor.Reset()
	if after.Text != before.Text {
		a.report("Edited · %s → %s", before.Text, after.Text)
	} else {
		a.report("Edit left unchanged · %s", before.Text)
	}
}

func (a *App) updateConfirmClear(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.state = stateBrowse
	if msg.String() != "y" && msg.String() != "Y" {
		a.statusMsg = "Clear cancelled"
		return a, nil
	}
	n := a.store.Count()
	a.store.Clear()
	a.cursor = 0
	a.report("Cleared %d task(s)", n)
	return a, nil
}

func cancelledPrompt(string) (string, bool) { return "", false }

func valuePrompt(value string) task.Prompt {
	return func(string) (string, bool) { return value, true }
}

func (a *App) selected() (task.Task, bool) {
	tasks := a.store.Tasks()
	if a.cursor < 0 || a.cursor >= len(tasks) {
		return task.Task{}, false
	}
	return tasks[a.cursor], true
}

func (a *App) clampCursor() {
	n := a.store.Count()
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

// report sets the footer and journals the action, surfacing a failed save
// instead when there was one.
func (a *App) report(format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	a.logInfo("%s", message)
	if err := a.store.LastSaveError(); err != nil {
		a.statusMsg = fmt.Sprintf("%s (not saved: %v)", message, err)
		return
	}
	a.statusMsg = message
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

// View renders the current state to a string.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 80
	}
	inner := max(20, width-4)

	header := headerStyle.Render("⬡ " + strings.ToUpper(a.title))
	counter := counterStyle.Render(fmt.Sprintf("Total Tasks: %d · %d open", a.store.Count(), a.store.Remaining()))

	sections := []string{header, counter, ""}
	if a.state == stateAdding {
		sections = append(sections, a.input.View(), "")
	}
	sections = append(sections, a.renderTasks(inner))
	if a.state == stateEditing {
		prompt := lipgloss.JoinVertical(lipgloss.Left, "Edit your task:", a.editor.View())
		sections = append(sections, "", promptBoxStyle.Width(inner).Render(prompt))
	}
	body := boxStyle.Width(inner).Render(strings.Join(sections, "\n"))

	out := []string{body}
	if panel := a.renderLogPanel(inner); panel != "" {
		out = append(out, panel)
	}
	if a.statusMsg != "" {
		status := a.statusMsg
		if a.store.LastSaveError() != nil {
			status = warnStyle.Render(status)
		}
		out = append(out, footerStyle.Render(status))
	}
	if a.state == stateBrowse {
		out = append(out, a.help.View(a.keys))
	}
	return strings.Join(out, "\n")
}

func (a *App) renderTasks(width int) string {
	tasks := a.store.Tasks()
	if len(tasks) == 0 {
		return emptyStyle.Render("No tasks yet. Press a to add one.")
	}
	rows := make([]string, 0, len(tasks))
	for i, t := range tasks {
		mark := "[ ]"
		text := t.Text
		if t.Completed {
			mark = "[✓]"
			text = doneStyle.Render(text)
		}
		pointer := "  "
		if i == a.cursor && a.state != stateAdding {
			pointer = cursorStyle.Render("▸ ")
		}
		row := lipgloss.NewStyle().MaxWidth(width).Render(fmt.Sprintf("%s%s %s", pointer, mark, text))
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

func (a *App) renderLogPanel(width int) string {
	if !a.showLog || a.logbook == nil {
		return ""
	}
	lines, total := a.logbook.Tail(logTailLines)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("LOG · %s (%d)", fileName, total))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return boxStyle.Width(width).Render(fmt.Sprintf("%s\n%s", head, body))
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
