package todo

import (
	"errors"
	"reflect"
	"testing"
)

func texts(l *List) []string {
	var out []string
	for _, t := range l.Tasks() {
		out = append(out, t.Text)
	}
	return out
}

func countEditing(l *List) int {
	n := 0
	for _, t := range l.Tasks() {
		if t.Editing {
			n++
		}
	}
	return n
}

func TestAdd(t *testing.T) {
	t.Run("appends pending task", func(t *testing.T) {
		l := NewList(nil)
		if !l.Add("Buy milk") {
			t.Fatal("Add returned false")
		}
		got := l.Tasks()
		want := []Task{{Text: "Buy milk"}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Tasks: got %+v, want %+v", got, want)
		}
	})

	t.Run("empty text is ignored", func(t *testing.T) {
		l := NewList([]Task{{Text: "A"}})
		if l.Add("") {
			t.Error("Add(\"\") returned true")
		}
		if l.Len() != 1 {
			t.Errorf("Len: got %d, want 1", l.Len())
		}
	})

	t.Run("duplicates allowed and order kept", func(t *testing.T) {
		var l List
		l.Add("A")
		l.Add("B")
		l.Add("A")
		if got := texts(&l); !reflect.DeepEqual(got, []string{"A", "B", "A"}) {
			t.Errorf("texts: got %v", got)
		}
	})
}

func TestToggleDone(t *testing.T) {
	l := NewList([]Task{{Text: "A"}, {Text: "B", Done: true}})
	for i := 0; i < l.Len(); i++ {
		before, _ := l.Task(i)
		l.ToggleDone(i)
		mid, _ := l.Task(i)
		if mid.Done == before.Done {
			t.Errorf("task %d: done not flipped", i)
		}
		l.ToggleDone(i)
		after, _ := l.Task(i)
		if after != before {
			t.Errorf("task %d: got %+v after two toggles, want %+v", i, after, before)
		}
	}

	if l.ToggleDone(5) || l.ToggleDone(-1) {
		t.Error("ToggleDone out of range returned true")
	}
}

func TestToggleDoneWhileEditing(t *testing.T) {
	l := NewList([]Task{{Text: "A"}, {Text: "B"}})
	l.BeginOrCommitEdit(0)
	if !l.ToggleDone(1) {
		t.Fatal("ToggleDone blocked by edit")
	}
	if !l.ToggleDone(0) {
		t.Fatal("ToggleDone blocked on edited task")
	}
	if l.EditingIndex() != 0 {
		t.Errorf("EditingIndex: got %d, want 0", l.EditingIndex())
	}
	task, _ := l.Task(0)
	if task.Text != "A" || !task.Done {
		t.Errorf("task 0: got %+v", task)
	}
}

func TestBeginOrCommitEdit(t *testing.T) {
	t.Run("begin copies text into scratch", func(t *testing.T) {
		l := NewList([]Task{{Text: "A"}, {Text: "B"}})
		if !l.BeginOrCommitEdit(1) {
			t.Fatal("begin returned false")
		}
		if l.Scratch() != "B" {
			t.Errorf("Scratch: got %q, want B", l.Scratch())
		}
		if l.EditingIndex() != 1 || !l.Editing() {
			t.Errorf("EditingIndex: got %d, want 1", l.EditingIndex())
		}
		task, _ := l.Task(1)
		if !task.Editing {
			t.Error("task 1 not marked editing")
		}
	})

	t.Run("commit writes scratch back", func(t *testing.T) {
		l := NewList([]Task{{Text: "A"}, {Text: "B", Done: true}})
		l.BeginOrCommitEdit(1)
		l.SetScratch("B2")
		if !l.BeginOrCommitEdit(1) {
			t.Fatal("commit returned false")
		}
		want := []Task{{Text: "A"}, {Text: "B2", Done: true}}
		if got := l.Tasks(); !reflect.DeepEqual(got, want) {
			t.Errorf("Tasks: got %+v, want %+v", got, want)
		}
		if l.Editing() || l.Scratch() != "" {
			t.Errorf("edit state not cleared: index %d scratch %q", l.EditingIndex(), l.Scratch())
		}
	})

	t.Run("empty commit clears text", func(t *testing.T) {
		l := NewList([]Task{{Text: "A"}})
		l.BeginOrCommitEdit(0)
		l.SetScratch("")
		l.BeginOrCommitEdit(0)
		task, _ := l.Task(0)
		if task.Text != "" || task.Editing {
			t.Errorf("task: got %+v", task)
		}
	})

	t.Run("other index blocked while editing", func(t *testing.T) {
		l := NewList([]Task{{Text: "A"}, {Text: "B"}})
		l.BeginOrCommitEdit(0)
		if l.BeginOrCommitEdit(1) {
			t.Error("second edit was allowed")
		}
		if l.CanEdit(1) {
			t.Error("CanEdit(1) true during edit of 0")
		}
		if !errors.Is(l.CheckEdit(1), ErrEditInProgress) {
			t.Errorf("CheckEdit(1): got %v", l.CheckEdit(1))
		}
		if got := countEditing(l); got != 1 {
			t.Errorf("editing tasks: got %d, want 1", got)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		l := NewList([]Task{{Text: "A"}})
		if l.BeginOrCommitEdit(3) {
			t.Error("edit out of range returned true")
		}
		if !errors.Is(l.CheckEdit(3), ErrIndexOutOfRange) {
			t.Errorf("CheckEdit(3): got %v", l.CheckEdit(3))
		}
	})

	t.Run("scratch ignored without edit", func(t *testing.T) {
		l := NewList([]Task{{Text: "A"}})
		l.SetScratch("x")
		if l.Scratch() != "" {
			t.Errorf("Scratch: got %q", l.Scratch())
		}
	})
}

func TestCancelEdit(t *testing.T) {
	l := NewList([]Task{{Text: "A"}})
	if l.CancelEdit() {
		t.Error("CancelEdit without edit returned true")
	}
	l.BeginOrCommitEdit(0)
	l.SetScratch("changed")
	if !l.CancelEdit() {
		t.Fatal("CancelEdit returned false")
	}
	task, _ := l.Task(0)
	if task != (Task{Text: "A"}) {
		t.Errorf("task: got %+v", task)
	}
	if l.Editing() {
		t.Error("still editing")
	}
}

func TestRemove(t *testing.T) {
	t.Run("shifts later tasks down", func(t *testing.T) {
		l := NewList([]Task{{Text: "A"}, {Text: "B"}, {Text: "C"}, {Text: "D"}})
		if !l.Remove(1) {
			t.Fatal("Remove returned false")
		}
		if got := texts(l); !reflect.DeepEqual(got, []string{"A", "C", "D"}) {
			t.Errorf("texts: got %v", got)
		}
	})

	t.Run("out of range leaves list", func(t *testing.T) {
		l := NewList([]Task{{Text: "A"}})
		if l.Remove(1) || l.Remove(-1) {
			t.Error("Remove out of range returned true")
		}
		if l.Len() != 1 {
			t.Errorf("Len: got %d", l.Len())
		}
	})

	t.Run("removing edited task clears edit", func(t *testing.T) {
		l := NewList([]Task{{Text: "A"}, {Text: "B"}})
		l.BeginOrCommitEdit(1)
		l.Remove(1)
		if l.Editing() || l.Scratch() != "" {
			t.Errorf("edit state survived: index %d scratch %q", l.EditingIndex(), l.Scratch())
		}
		if !l.CanEdit(0) {
			t.Error("CanEdit(0) false after edited task removed")
		}
	})

	t.Run("removing earlier task moves edit pointer", func(t *testing.T) {
		l := NewList([]Task{{Text: "A"}, {Text: "B"}, {Text: "C"}})
		l.BeginOrCommitEdit(2)
		l.Remove(0)
		if l.EditingIndex() != 1 {
			t.Fatalf("EditingIndex: got %d, want 1", l.EditingIndex())
		}
		l.SetScratch("C2")
		l.BeginOrCommitEdit(1)
		if got := texts(l); !reflect.DeepEqual(got, []string{"B", "C2"}) {
			t.Errorf("texts: got %v", got)
		}
	})

	t.Run("removing later task keeps edit pointer", func(t *testing.T) {
		l := NewList([]Task{{Text: "A"}, {Text: "B"}})
		l.BeginOrCommitEdit(0)
		l.Remove(1)
		if l.EditingIndex() != 0 {
			t.Errorf("EditingIndex: got %d, want 0", l.EditingIndex())
		}
	})
}

func TestNewListClearsEditing(t *testing.T) {
	src := []Task{{Text: "A", Editing: true}, {Text: "B"}}
	l := NewList(src)
	if got := countEditing(l); got != 0 {
		t.Errorf("editing tasks: got %d, want 0", got)
	}
	if l.Editing() {
		t.Error("restored list is mid-edit")
	}
	if !src[0].Editing {
		t.Error("NewList modified its input")
	}
}

func TestScenarioAddToggleRemove(t *testing.T) {
	l := NewList(nil)
	l.Add("Buy milk")
	if got := l.Tasks(); !reflect.DeepEqual(got, []Task{{Text: "Buy milk"}}) {
		t.Fatalf("after add: %+v", got)
	}
	l.ToggleDone(0)
	if got := l.Tasks(); !reflect.DeepEqual(got, []Task{{Text: "Buy milk", Done: true}}) {
		t.Fatalf("after toggle: %+v", got)
	}
	l.Remove(0)
	if l.Len() != 0 {
		t.Fatalf("after remove: %+v", l.Tasks())
	}
}

func TestScenarioEditBlocksOthers(t *testing.T) {
	l := NewList(nil)
	l.Add("A")
	l.Add("B")
	l.BeginOrCommitEdit(0)
	if task, _ := l.Task(0); !task.Editing {
		t.Fatal("task 0 not editing")
	}
	l.BeginOrCommitEdit(1)
	l.SetScratch("A2")
	l.BeginOrCommitEdit(0)

	want := []Task{{Text: "A2"}, {Text: "B"}}
	if got := l.Tasks(); !reflect.DeepEqual(got, want) {
		t.Errorf("Tasks: got %+v, want %+v", got, want)
	}
}
