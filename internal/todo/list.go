package todo

import "errors"

// NoEdit is the editing index reported when no task is being edited.
const NoEdit = -1

var (
	// ErrEmptyText is returned when a task would be created without text.
	ErrEmptyText = errors.New("task text is empty")
	// ErrIndexOutOfRange is returned for an index outside the list.
	ErrIndexOutOfRange = errors.New("task index out of range")
	// ErrEditInProgress is returned when another task is already being edited.
	ErrEditInProgress = errors.New("another task is being edited")
)

// Task represents a single entry in the list.
type Task struct {
	Text    string `json:"text"`
	Done    bool   `json:"done"`
	Editing bool   `json:"editing,omitempty"`
}

// List is the ordered task collection plus the state of the inline editor.
// The zero value is an empty list with no edit in progress.
type List struct {
	tasks   []Task
	editing int // index+1 of the task being edited; 0 means none
	scratch string
}

// NewList returns a list seeded with a copy of tasks. Editing flags from a
// previous session are cleared.
func NewList(tasks []Task) *List {
	l := &List{tasks: make([]Task, len(tasks))}
	copy(l.tasks, tasks)
	for i := range l.tasks {
		l.tasks[i].Editing = false
	}
	return l
}

// Len returns the number of tasks.
func (l *List) Len() int {
	return len(l.tasks)
}

// Tasks returns a copy of the tasks in order.
func (l *List) Tasks() []Task {
	out := make([]Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

// Task returns the task at index i.
func (l *List) Task(i int) (Task, bool) {
	if !l.valid(i) {
		return Task{}, false
	}
	return l.tasks[i], true
}

// EditingIndex returns the index of the task being edited, or NoEdit.
func (l *List) EditingIndex() int {
	return l.editing - 1
}

// Editing reports whether an edit is in progress.
func (l *List) Editing() bool {
	return l.editing != 0
}

// Scratch returns the text held by the inline editor.
func (l *List) Scratch() string {
	return l.scratch
}

// SetScratch replaces the inline editor text. It has no effect when no
// edit is in progress.
func (l *List) SetScratch(text string) {
	if l.editing == 0 {
		return
	}
	l.scratch = text
}

// CanEdit reports whether the edit/save action is available for index i:
// either nothing is being edited or i is the task being edited.
func (l *List) CanEdit(i int) bool {
	if !l.valid(i) {
		return false
	}
	return l.editing == 0 || l.editing-1 == i
}

// Add appends a new pending task. Empty text is ignored.
func (l *List) Add(text string) bool {
	if text == "" {
		return false
	}
	l.tasks = append(l.tasks, Task{Text: text})
	return true
}

// BeginOrCommitEdit toggles inline editing of the task at index i.
//
// When the task is not being edited, its text is copied into the scratch
// buffer and it becomes the edited task. When it is being edited, the
// scratch buffer is written back into its text and editing ends. Calls for
// any other index while an edit is in progress are ignored.
func (l *List) BeginOrCommitEdit(i int) bool {
	if !l.CanEdit(i) {
		return false
	}
	t := &l.tasks[i]
	if t.Editing {
		t.Text = l.scratch
		t.Editing = false
		l.scratch = ""
		l.editing = 0
		return true
	}
	l.scratch = t.Text
	t.Editing = true
	l.editing = i + 1
	return true
}

// CancelEdit ends the edit in progress without touching the task text.
func (l *List) CancelEdit() bool {
	if l.editing == 0 {
		return false
	}
	l.tasks[l.editing-1].Editing = false
	l.editing = 0
	l.scratch = ""
	return true
}

// ToggleDone flips the done flag of the task at index i.
func (l *List) ToggleDone(i int) bool {
	if !l.valid(i) {
		return false
	}
	l.tasks[i].Done = !l.tasks[i].Done
	return true
}

// Remove deletes the task at index i. Later tasks shift down by one; the
// edit pointer follows the edited task, and is cleared when that task is
// the one removed.
func (l *List) Remove(i int) bool {
	if !l.valid(i) {
		return false
	}
	switch edited := l.editing - 1; {
	case edited == i:
		l.editing = 0
		l.scratch = ""
	case l.editing != 0 && edited > i:
		l.editing--
	}
	l.tasks = append(l.tasks[:i], l.tasks[i+1:]...)
	return true
}

// Check returns the error that an operation on index i would hit, if any.
// It is meant for callers that must report failures instead of ignoring them.
func (l *List) Check(i int) error {
	if !l.valid(i) {
		return ErrIndexOutOfRange
	}
	return nil
}

// CheckEdit is Check plus the single-edit rule.
func (l *List) CheckEdit(i int) error {
	if err := l.Check(i); err != nil {
		return err
	}
	if !l.CanEdit(i) {
		return ErrEditInProgress
	}
	return nil
}

func (l *List) valid(i int) bool {
	return i >= 0 && i < len(l.tasks)
}
