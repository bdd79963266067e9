package todo

import (
	"context"
	"encoding/json"
	"fmt"
)

// Encode serializes tasks into the stored JSON form.
func Encode(tasks []Task) (string, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("marshal tasks: %w", err)
	}
	return string(data), nil
}

// Decode parses the stored JSON form. An empty string decodes to no tasks.
func Decode(value string) ([]Task, error) {
	if value == "" {
		return nil, nil
	}
	var tasks []Task
	if err := json.Unmarshal([]byte(value), &tasks); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}
	return tasks, nil
}

// Restore decodes a stored value into a fresh List. Missing or malformed
// data yields an empty list; the decode error is returned alongside it so
// the caller can log it.
func Restore(value string) (*List, error) {
	tasks, err := Decode(value)
	if err != nil {
		return NewList(nil), err
	}
	return NewList(tasks), nil
}

// Getter is the read side of a key-value store.
type Getter interface {
	Get(ctx context.Context, key string) (string, bool, error)
}

// LoadFrom restores the list stored under key. A missing key is an empty
// list; a read or decode failure is an empty list plus the error.
func LoadFrom(ctx context.Context, g Getter, key string) (*List, error) {
	value, ok, err := g.Get(ctx, key)
	if err != nil {
		return NewList(nil), fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return NewList(nil), nil
	}
	return Restore(value)
}

// Encode serializes the tasks of l.
func (l *List) Encode() (string, error) {
	return Encode(l.tasks)
}
