package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the task screen. Bindings are grouped
// by the area that has focus: the new-task input, the list, or the inline
// editor of the task being edited.
type KeyMap struct {
	// New-task input.
	Add       key.Binding
	FocusList key.Binding

	// List.
	Up         key.Binding
	Down       key.Binding
	Edit       key.Binding // Begin editing the selected task.
	Toggle     key.Binding
	Delete     key.Binding
	FocusInput key.Binding
	Quit       key.Binding

	// Inline editor.
	Save       key.Binding
	Cancel     key.Binding
	EditUp     key.Binding
	EditDown   key.Binding
	EditToggle key.Binding // Toggle the selected task without leaving the editor.
	EditDelete key.Binding // Delete the selected task without leaving the editor.

	ForceQuit key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Add: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "add"),
	),
	FocusList: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab", "list"),
	),
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e", "enter"),
		key.WithHelp("e", "edit"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("x", " "),
		key.WithHelp("x", "done/undo"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "delete"),
		key.WithHelp("d", "delete"),
	),
	FocusInput: key.NewBinding(
		key.WithKeys("tab", "a", "i"),
		key.WithHelp("a", "new task"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	Save: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "save"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	EditUp: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "up"),
	),
	EditDown: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "down"),
	),
	EditToggle: key.NewBinding(
		key.WithKeys("ctrl+t"),
		key.WithHelp("C-t", "done/undo"),
	),
	EditDelete: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("C-x", "delete"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "quit"),
	),
}

// InputHelp returns the bindings shown while the new-task input has focus.
func (k KeyMap) InputHelp() []key.Binding {
	return []key.Binding{k.Add, k.FocusList, k.ForceQuit}
}

// ListHelp returns the bindings shown while the list has focus.
func (k KeyMap) ListHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Edit, k.Toggle, k.Delete, k.FocusInput, k.Quit}
}

// EditHelp returns the bindings shown while a task is being edited.
func (k KeyMap) EditHelp() []key.Binding {
	return []key.Binding{k.Save, k.Cancel, k.EditUp, k.EditDown, k.EditToggle, k.EditDelete}
}
