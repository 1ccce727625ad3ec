package app

import (
	"fmt"
	"time"
)

// Kind identifies a command.
type Kind int

const (
	// Add appends Title to the checklist.
	Add Kind = iota + 1
	// Toggle flips the done flag of Title.
	Toggle
	// Remove deletes Title.
	Remove
	// CycleEmotion advances the pet to the next emotion.
	CycleEmotion
	// SetEmotion switches the pet to Emotion.
	SetEmotion
	// Reload rereads the data file if it changed on disk.
	Reload
	// Save writes the document.
	Save
)

var kindNames = map[Kind]string{
	Add:          "add",
	Toggle:       "toggle",
	Remove:       "remove",
	CycleEmotion: "cycle-emotion",
	SetEmotion:   "set-emotion",
	Reload:       "reload",
	Save:         "save",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Command is one user intent, produced by the UI or the CLI.
type Command struct {
	Kind    Kind
	Title   string
	Emotion string
}

// How long status messages stay visible.
const (
	StatusShort = 2 * time.Second
	StatusBrief = 3 * time.Second
	StatusLong  = 5 * time.Second
)

// Result is what a command did, for the UI to render.
type Result struct {
	// Status is a transient message; empty means nothing to show.
	Status   string
	Duration time.Duration
	Err      error
	// Changed reports whether todos or the emotion changed.
	Changed bool
}

// Failed reports whether the command failed.
func (r Result) Failed() bool {
	return r.Err != nil
}

func status(msg string, d time.Duration) Result {
	return Result{Status: msg, Duration: d}
}

func failure(err error, d time.Duration, format string, args ...any) Result {
	return Result{Status: fmt.Sprintf(format, args...), Duration: d, Err: err}
}
