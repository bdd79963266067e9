// Package todo holds the task list and its persisted representation.
//
// A List is an ordered sequence of tasks addressed by position. The list
// owns the single inline edit in progress: at most one task carries the
// editing flag, and the text being edited lives in a scratch buffer until
// the edit is committed.
//
// The persisted form is a JSON array stored under one key:
//
//	[
//	  {"text": "Buy milk", "done": false},
//	  {"text": "Call mom", "done": true, "editing": true}
//	]
//
// The editing flag is written for fidelity with the in-memory state but is
// cleared whenever a list is restored, so a session never starts mid-edit.
//
// # Validation
//
// Validate checks a stored payload against the embedded JSON Schema. When
// the schema cannot be compiled it falls back to minimal structural checks
// (array of objects, string text, boolean done).
package todo
