// Package todo holds the checklist and reads and writes the data file.
//
// The data file (data.json) is a single document rewritten on every change:
//
//	{
//	  "todos": [
//	    {"title": "Drink water", "done": false},
//	    {"title": "Check the schedule", "done": true}
//	  ],
//	  "lastEmotion": "normal"
//	}
//
// # Identity
//
// A todo has no id. Its identity is the title, trimmed and compared
// case-insensitively, so "Drink Water" and " drink water " are the same item
// and cannot coexist in a Store.
//
// # Loading
//
//   - A missing file is an empty document with lastEmotion "normal".
//   - Invalid JSON or a document that fails the embedded JSON Schema is
//     ErrCorruptData. Callers warn and continue with an empty document.
//   - Any other read failure is ErrIO.
//
// # Writing
//
// Documents are written with 2-space indentation and a trailing newline, to
// a temp file in the same directory which is then renamed over the target.
// There is no schema version; the bare [title, done] array written by early
// releases is reported as corrupt.
package todo
