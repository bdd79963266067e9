// Package ui provides the interactive task screen.
package ui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"

	"github.com/nibzard/tasks-go/internal/logging"
	"github.com/nibzard/tasks-go/internal/store"
	"github.com/nibzard/tasks-go/internal/todo"
)

const defaultWidth = 60

// Options wires the screen to its persistence.
type Options struct {
	// Source is read once at startup to restore the list.
	Source todo.Getter
	// Key is the storage key holding the list.
	Key string
	// Saver receives the serialized list after every change.
	Saver store.Saver
	// Logger receives diagnostics; the screen itself never shows errors.
	Logger *log.Logger
}

// Run starts the task screen and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	if !IsTTY(os.Stdin) || !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	program := tea.NewProgram(newModel(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type focus int

const (
	focusInput focus = iota
	focusList
)

type model struct {
	ctx    context.Context
	source todo.Getter
	key    string
	saver  store.Saver
	logger *log.Logger

	list   *todo.List
	loaded bool

	input  textinput.Model
	editor textinput.Model
	help   help.Model
	keys   KeyMap
	styles Styles

	focus  focus
	cursor int
	width  int
}

type loadedMsg struct {
	list *todo.List
	err  error
}

func newModel(ctx context.Context, opts Options) *model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	input := textinput.New()
	input.Placeholder = "Your task"
	input.Prompt = "> "

	editor := textinput.New()
	editor.Prompt = ""

	return &model{
		ctx:    ctx,
		source: opts.Source,
		key:    opts.Key,
		saver:  opts.Saver,
		logger: logger,
		list:   todo.NewList(nil),
		input:  input,
		editor: editor,
		help:   help.New(),
		keys:   DefaultKeyMap,
		styles: DefaultStyles(),
		width:  defaultWidth,
	}
}

func (m *model) Init() tea.Cmd {
	return m.load
}

// load reads the stored list. Unreadable data leaves the list empty.
func (m *model) load() tea.Msg {
	if m.source == nil {
		return loadedMsg{list: todo.NewList(nil)}
	}
	list, err := todo.LoadFrom(m.ctx, m.source, m.key)
	return loadedMsg{list: list, err: err}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case loadedMsg:
		m.list = msg.list
		m.loaded = true
		if msg.err != nil {
			m.logger.Warn("stored tasks unreadable, starting empty", "key", m.key, "err", msg.err)
		} else {
			m.logger.Info("tasks restored", "key", m.key, "count", m.list.Len())
		}
		return m, m.input.Focus()

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		// Mutations before the stored list arrives would be overwritten by it.
		if !m.loaded {
			return m, nil
		}
		switch {
		case m.list.Editing():
			return m, m.updateEditor(msg)
		case m.focus == focusInput:
			return m, m.updateInput(msg)
		default:
			return m, m.updateList(msg)
		}
	}

	return m, nil
}

func (m *model) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Add):
		m.add(m.input.Value())
		return nil
	case key.Matches(msg, m.keys.FocusList):
		if m.list.Len() == 0 {
			return nil
		}
		m.focus = focusList
		m.input.Blur()
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *model) updateList(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Edit):
		return m.beginOrCommitEdit(m.cursor)
	case key.Matches(msg, m.keys.Toggle):
		m.toggleDone(m.cursor)
	case key.Matches(msg, m.keys.Delete):
		m.remove(m.cursor)
	case key.Matches(msg, m.keys.FocusInput):
		m.focus = focusInput
		return m.input.Focus()
	}
	return nil
}

func (m *model) updateEditor(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Save):
		m.list.SetScratch(m.editor.Value())
		return m.beginOrCommitEdit(m.list.EditingIndex())
	case key.Matches(msg, m.keys.Cancel):
		if m.list.CancelEdit() {
			m.closeEditor()
			m.persist("cancel")
		}
		return nil
	case key.Matches(msg, m.keys.EditUp):
		m.moveCursor(-1)
		return nil
	case key.Matches(msg, m.keys.EditDown):
		m.moveCursor(1)
		return nil
	case key.Matches(msg, m.keys.EditToggle):
		m.toggleDone(m.cursor)
		return nil
	case key.Matches(msg, m.keys.EditDelete):
		m.remove(m.cursor)
		return nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	m.list.SetScratch(m.editor.Value())
	return cmd
}

func (m *model) add(text string) {
	if !m.list.Add(text) {
		return
	}
	m.input.Reset()
	m.persist("add")
}

// beginOrCommitEdit toggles inline editing of task i and moves focus into
// or out of the editor.
func (m *model) beginOrCommitEdit(i int) tea.Cmd {
	wasEditing := m.list.Editing()
	if !m.list.BeginOrCommitEdit(i) {
		return nil
	}
	m.persist("edit")
	if wasEditing {
		m.closeEditor()
		return nil
	}
	m.cursor = i
	m.editor.SetValue(m.list.Scratch())
	m.editor.CursorEnd()
	return m.editor.Focus()
}

func (m *model) toggleDone(i int) {
	if m.list.ToggleDone(i) {
		m.persist("toggle")
	}
}

func (m *model) remove(i int) {
	wasEditing := m.list.Editing()
	if !m.list.Remove(i) {
		return
	}
	if wasEditing && !m.list.Editing() {
		m.closeEditor()
	}
	m.moveCursor(0)
	if m.list.Len() == 0 && !m.list.Editing() {
		m.focus = focusInput
		m.input.Focus()
	}
	m.persist("remove")
}

func (m *model) closeEditor() {
	m.editor.Blur()
	m.editor.Reset()
}

// moveCursor shifts the cursor by delta and clamps it to the list.
func (m *model) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor >= m.list.Len() {
		m.cursor = m.list.Len() - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// persist hands the whole list to the saver without waiting for the write.
func (m *model) persist(op string) {
	value, err := m.list.Encode()
	if err != nil {
		m.logger.Error("encode tasks", "op", op, "err", err)
		return
	}
	m.logger.Debug("tasks changed", "op", op, "count", m.list.Len())
	if m.saver == nil {
		return
	}
	if err := m.saver.Save(value); err != nil {
		m.logger.Warn("queue write", "op", op, "err", err)
	}
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Task List") + "\n")
	b.WriteString(m.styles.Subtitle.Render("Your tasks") + "\n")

	if !m.loaded {
		b.WriteString("Loading...\n")
		return b.String()
	}

	b.WriteString(m.styles.Input.Render(m.input.View()) + "\n\n")

	if m.list.Len() == 0 {
		b.WriteString(m.styles.Empty.Render("No tasks yet.") + "\n")
	}
	for i, t := range m.list.Tasks() {
		b.WriteString(m.renderRow(i, t) + "\n")
	}

	b.WriteString("\n" + m.help.ShortHelpView(m.helpBindings()))
	return b.String()
}

func (m *model) helpBindings() []key.Binding {
	switch {
	case m.list.Editing():
		return m.keys.EditHelp()
	case m.focus == focusInput:
		return m.keys.InputHelp()
	default:
		return m.keys.ListHelp()
	}
}

func (m *model) renderRow(i int, t todo.Task) string {
	row := m.styles.RowEven
	if i%2 == 1 {
		row = m.styles.RowOdd
	}

	marker := "  "
	if i == m.cursor && (m.focus == focusList || m.list.Editing()) {
		marker = m.styles.Cursor.Render("›") + " "
	}

	var text string
	switch {
	case t.Editing:
		text = m.editor.View()
	case t.Done:
		text = m.styles.Done.Render(t.Text)
	default:
		text = m.styles.Text.Render(t.Text)
	}

	right := m.renderActions(i, t)
	room := m.width - ansi.StringWidth(marker) - ansi.StringWidth(right) - 1
	if !t.Editing && room > 0 {
		text = ansi.Truncate(text, room, "…")
	}
	left := marker + text
	gap := m.width - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 1 {
		gap = 1
	}
	return row.Render(left + strings.Repeat(" ", gap) + right)
}

// renderActions draws the per-row controls. The edit control is hidden on
// every row except the edited one while an edit is in progress.
func (m *model) renderActions(i int, t todo.Task) string {
	var badges []string
	if m.list.CanEdit(i) {
		if t.Editing {
			badges = append(badges, m.styles.SaveBadge.Render("save"))
		} else {
			badges = append(badges, m.styles.EditBadge.Render("edit"))
		}
	}
	if t.Done {
		badges = append(badges, m.styles.ReopenBadge.Render("undo"))
	} else {
		badges = append(badges, m.styles.FinishBadge.Render("done"))
	}
	badges = append(badges, m.styles.DeleteBadge.Render("del"))
	return strings.Join(badges, " ")
}

// IsTTY returns true if f is a terminal.
func IsTTY(f any) bool {
	file, ok := f.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
