// Package app owns the running state: the emotion holder, the checklist and
// the data file they are persisted to. Input arrives as Command values and
// Dispatch answers with a Result the UI renders.
package app

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todoneko/internal/emotion"
	"github.com/nibzard/todoneko/internal/logging"
	"github.com/nibzard/todoneko/internal/todo"
)

// HappyEmotion is shown for a while after a task is completed.
const HappyEmotion = "happy"

// Options configures a State.
type Options struct {
	DataFile      string
	Emotions      []string
	HappyDuration time.Duration
	// Scheduler delivers emotion reversions. Nil uses timers.
	Scheduler emotion.Scheduler
	Logger    *log.Logger
}

// State is the application state shared by the UI and the CLI.
type State struct {
	Emotions *emotion.Holder
	Todos    *todo.Store

	dataFile  string
	happyFor  time.Duration
	logger    *log.Logger
	lastSaved []byte
}

// New returns an empty state. Call Load to read the data file.
func New(opts Options) *State {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &State{
		Emotions: emotion.NewHolder(opts.Emotions, opts.Scheduler),
		Todos:    &todo.Store{},
		dataFile: opts.DataFile,
		happyFor: opts.HappyDuration,
		logger:   logger,
	}
}

// DataFile returns the path of the data file.
func (s *State) DataFile() string {
	return s.dataFile
}

// Load reads the data file. A missing file starts empty with a welcome; a
// corrupt or unreadable one starts empty and reports the error. Load never
// leaves the state unusable.
func (s *State) Load() Result {
	data, err := os.ReadFile(s.dataFile)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Info("no data file yet", "path", s.dataFile)
		return status("Welcome to TodoNeko", StatusBrief)
	}
	if err != nil {
		err = fmt.Errorf("%w: read %s: %w", todo.ErrIO, s.dataFile, err)
		s.logger.Error("loading data failed", "path", s.dataFile, "err", err)
		return failure(err, StatusLong, "Error loading data: %v", err)
	}

	doc, err := todo.Parse(data)
	if err != nil {
		s.logger.Warn("data file is corrupt, starting empty", "path", s.dataFile, "err", err)
		return failure(err, StatusLong, "Error loading data: %v", err)
	}

	s.apply(doc)
	s.lastSaved = data
	n := s.Todos.Len()
	s.logger.Info("loaded data", "path", s.dataFile, "todos", n, "emotion", s.Emotions.Get())
	return status(fmt.Sprintf("Loaded %d %s", n, plural(n, "todo", "todos")), StatusBrief)
}

// apply replaces the in-memory state with doc.
func (s *State) apply(doc *todo.Document) {
	store, dropped := todo.NewStore(doc.Todos)
	for _, title := range dropped {
		s.logger.Warn("dropping duplicate todo", "title", title)
	}
	s.Todos = store

	if doc.LastEmotion != s.Emotions.Stable() && !s.Emotions.Set(doc.LastEmotion) {
		s.logger.Warn("unknown emotion in data file, using fallback",
			"emotion", doc.LastEmotion, "fallback", emotion.Fallback)
		s.Emotions.Set(emotion.Fallback)
	}
}

// Document returns the state as a persistable document. A pending happy
// override is not persisted; the emotion it reverts to is.
func (s *State) Document() *todo.Document {
	return &todo.Document{
		Todos:       s.Todos.List(),
		LastEmotion: s.Emotions.Stable(),
	}
}

// Save writes the document to the data file.
func (s *State) Save() error {
	doc := s.Document()
	data, err := doc.Marshal()
	if err != nil {
		return fmt.Errorf("marshal data file: %w", err)
	}
	if err := doc.Save(s.dataFile); err != nil {
		s.logger.Error("saving data failed", "path", s.dataFile, "err", err)
		return err
	}
	s.lastSaved = data
	s.logger.Debug("saved data", "path", s.dataFile, "todos", len(doc.Todos))
	return nil
}

// Shutdown saves the final state, including the last emotion.
func (s *State) Shutdown() error {
	if err := s.Save(); err != nil {
		return fmt.Errorf("saving on shutdown: %w", err)
	}
	return nil
}

// Dispatch applies cmd and reports what happened.
func (s *State) Dispatch(cmd Command) Result {
	s.logger.Debug("dispatch", "command", cmd.Kind, "title", cmd.Title, "emotion", cmd.Emotion)

	switch cmd.Kind {
	case Add:
		return s.add(cmd.Title)
	case Toggle:
		return s.toggle(cmd.Title)
	case Remove:
		return s.remove(cmd.Title)
	case CycleEmotion:
		if _, ok := s.Emotions.Cycle(); !ok {
			return failure(errors.New("no emotions registered"), StatusShort, "No emotions to switch to")
		}
		return Result{Status: "Emotion switched", Duration: StatusShort, Changed: true}
	case SetEmotion:
		if !s.Emotions.Set(cmd.Emotion) {
			return failure(fmt.Errorf("unknown emotion %q", cmd.Emotion), StatusBrief, "Unknown emotion: %s", cmd.Emotion)
		}
		return Result{Status: "Emotion switched", Duration: StatusShort, Changed: true}
	case Reload:
		return s.reload()
	case Save:
		if err := s.Save(); err != nil {
			return failure(err, StatusLong, "Error saving data: %v", err)
		}
		return Result{}
	default:
		return failure(fmt.Errorf("unknown command %v", cmd.Kind), StatusBrief, "Unknown command")
	}
}

func (s *State) add(title string) Result {
	err := s.Todos.Add(title)
	switch {
	case errors.Is(err, todo.ErrEmptyTitle):
		return failure(err, StatusBrief, "Todo cannot be empty")
	case errors.Is(err, todo.ErrDuplicateItem):
		return failure(err, StatusBrief, "Already exists: %s", todo.Clean(title))
	case err != nil:
		return failure(err, StatusBrief, "Error adding todo: %v", err)
	}
	return s.saved(status("Added: "+todo.Clean(title), StatusBrief))
}

func (s *State) toggle(title string) Result {
	done, err := s.Todos.Toggle(title)
	if err != nil {
		return failure(err, StatusBrief, "Not found: %s", todo.Clean(title))
	}
	res := status("Reopened: "+todo.Clean(title), StatusShort)
	if done {
		s.Emotions.SetTemporary(HappyEmotion, s.happyFor)
		res = status("Completed a task!", StatusShort)
	}
	return s.saved(res)
}

func (s *State) remove(title string) Result {
	if err := s.Todos.Remove(title); err != nil {
		return failure(err, StatusBrief, "Not found: %s", todo.Clean(title))
	}
	return s.saved(status("Removed: "+todo.Clean(title), StatusBrief))
}

// saved persists a successful mutation. A failed save keeps the in-memory
// change and replaces the status with the error.
func (s *State) saved(res Result) Result {
	res.Changed = true
	if err := s.Save(); err != nil {
		return Result{
			Status:   fmt.Sprintf("Error saving data: %v", err),
			Duration: StatusLong,
			Err:      err,
			Changed:  true,
		}
	}
	return res
}

// reload rereads the data file after an external edit. The state's own
// writes are recognised and ignored.
func (s *State) reload() Result {
	data, err := os.ReadFile(s.dataFile)
	if errors.Is(err, os.ErrNotExist) {
		return Result{}
	}
	if err != nil {
		err = fmt.Errorf("%w: read %s: %w", todo.ErrIO, s.dataFile, err)
		return failure(err, StatusLong, "Error loading data: %v", err)
	}
	if bytes.Equal(data, s.lastSaved) {
		return Result{}
	}

	doc, err := todo.Parse(data)
	if err != nil {
		s.logger.Warn("ignoring corrupt external edit", "path", s.dataFile, "err", err)
		return failure(err, StatusLong, "Error loading data: %v", err)
	}
	s.apply(doc)
	s.lastSaved = data
	n := s.Todos.Len()
	s.logger.Info("reloaded data", "path", s.dataFile, "todos", n)
	return Result{
		Status:   fmt.Sprintf("Reloaded %d %s", n, plural(n, "todo", "todos")),
		Duration: StatusBrief,
		Changed:  true,
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
