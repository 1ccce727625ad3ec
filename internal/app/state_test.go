package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibzard/todoneko/internal/emotion"
	"github.com/nibzard/todoneko/internal/todo"
)

// manualScheduler collects reversions so tests decide when they fire.
type manualScheduler struct {
	fns []func()
}

func (m *manualScheduler) Schedule(_ time.Duration, fn func()) func() {
	m.fns = append(m.fns, fn)
	return func() {}
}

func (m *manualScheduler) fire() {
	fns := m.fns
	m.fns = nil
	for _, fn := range fns {
		fn()
	}
}

func newState(t *testing.T) (*State, *manualScheduler, string) {
	t.Helper()
	sched := &manualScheduler{}
	path := filepath.Join(t.TempDir(), "data.json")
	s := New(Options{
		DataFile:      path,
		Emotions:      emotion.DefaultNames(),
		HappyDuration: 1500 * time.Millisecond,
		Scheduler:     sched,
	})
	return s, sched, path
}

func loadFile(t *testing.T, path string) *todo.Document {
	t.Helper()
	doc, err := todo.Load(path)
	require.NoError(t, err)
	return doc
}

func TestLoadMissingFileWelcomes(t *testing.T) {
	s, _, path := newState(t)

	res := s.Load()
	assert.False(t, res.Failed())
	assert.Equal(t, "Welcome to TodoNeko", res.Status)
	assert.Equal(t, 0, s.Todos.Len())
	assert.Equal(t, "normal", s.Emotions.Get())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "Load must not create the file")
}

func TestLoadExistingFile(t *testing.T) {
	s, _, path := newState(t)
	doc := &todo.Document{
		Todos:       []todo.Item{{Title: "Drink water", Done: true}, {Title: "Rest your eyes"}},
		LastEmotion: "curious",
	}
	require.NoError(t, doc.Save(path))

	res := s.Load()
	assert.False(t, res.Failed())
	assert.Equal(t, "Loaded 2 todos", res.Status)
	assert.Equal(t, StatusBrief, res.Duration)
	assert.Equal(t, doc.Todos, s.Todos.List())
	assert.Equal(t, "curious", s.Emotions.Get())
}

func TestLoadUnknownEmotionFallsBack(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"todos":[{"title":"a","done":false},{"title":"A","done":true}],"lastEmotion":"sleepy"}`), 0o644))

	s := New(Options{DataFile: path, Emotions: emotion.DefaultNames(), Logger: log.New(&buf)})
	res := s.Load()

	assert.Equal(t, "Loaded 1 todo", res.Status)
	assert.Equal(t, "normal", s.Emotions.Get())
	assert.Contains(t, buf.String(), "sleepy")
	assert.Contains(t, buf.String(), "duplicate")
}

func TestLoadCorruptStartsEmpty(t *testing.T) {
	s, _, path := newState(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"todos": 3}`), 0o644))

	res := s.Load()
	require.True(t, res.Failed())
	assert.ErrorIs(t, res.Err, todo.ErrCorruptData)
	assert.Contains(t, res.Status, "Error loading data")
	assert.Equal(t, StatusLong, res.Duration)
	assert.Equal(t, 0, s.Todos.Len())

	// The app keeps working and the next save replaces the corrupt file.
	res = s.Dispatch(Command{Kind: Add, Title: "Stand up"})
	assert.False(t, res.Failed())
	assert.Len(t, loadFile(t, path).Todos, 1)
}

func TestLoadUnreadable(t *testing.T) {
	dir := t.TempDir()
	s := New(Options{DataFile: dir, Emotions: emotion.DefaultNames()})

	res := s.Load()
	require.True(t, res.Failed())
	assert.ErrorIs(t, res.Err, todo.ErrIO)
}

func TestDispatchAdd(t *testing.T) {
	s, _, path := newState(t)

	res := s.Dispatch(Command{Kind: Add, Title: "  Drink water "})
	assert.Equal(t, "Added: Drink water", res.Status)
	assert.True(t, res.Changed)
	assert.Equal(t, []todo.Item{{Title: "Drink water"}}, loadFile(t, path).Todos)

	res = s.Dispatch(Command{Kind: Add, Title: "DRINK WATER"})
	assert.ErrorIs(t, res.Err, todo.ErrDuplicateItem)
	assert.Equal(t, "Already exists: DRINK WATER", res.Status)
	assert.False(t, res.Changed)
	assert.Equal(t, 1, s.Todos.Len())

	res = s.Dispatch(Command{Kind: Add, Title: "   "})
	assert.ErrorIs(t, res.Err, todo.ErrEmptyTitle)
	assert.Equal(t, "Todo cannot be empty", res.Status)
}

func TestDispatchToggleMakesPetHappy(t *testing.T) {
	s, sched, path := newState(t)
	s.Dispatch(Command{Kind: Add, Title: "Rest your eyes"})
	s.Dispatch(Command{Kind: SetEmotion, Emotion: "curious"})

	res := s.Dispatch(Command{Kind: Toggle, Title: "rest your eyes"})
	assert.Equal(t, "Completed a task!", res.Status)
	assert.Equal(t, StatusShort, res.Duration)
	assert.Equal(t, "happy", s.Emotions.Get())
	assert.True(t, s.Emotions.Temporary())

	// The override is not persisted; the stable emotion is.
	doc := loadFile(t, path)
	assert.True(t, doc.Todos[0].Done)
	assert.Equal(t, "curious", doc.LastEmotion)

	sched.fire()
	assert.Equal(t, "curious", s.Emotions.Get())

	res = s.Dispatch(Command{Kind: Toggle, Title: "Rest your eyes"})
	assert.Equal(t, "Reopened: Rest your eyes", res.Status)
	assert.Equal(t, "curious", s.Emotions.Get(), "reopening does not cheer the pet")
	assert.False(t, loadFile(t, path).Todos[0].Done)
}

func TestDispatchToggleMissing(t *testing.T) {
	s, _, path := newState(t)
	res := s.Dispatch(Command{Kind: Toggle, Title: "ghost"})
	assert.ErrorIs(t, res.Err, todo.ErrNotFound)
	assert.Equal(t, "normal", s.Emotions.Get())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "failed command must not save")
}

func TestDispatchRemove(t *testing.T) {
	s, _, path := newState(t)
	s.Dispatch(Command{Kind: Add, Title: "one"})
	s.Dispatch(Command{Kind: Add, Title: "two"})

	res := s.Dispatch(Command{Kind: Remove, Title: "ONE"})
	assert.Equal(t, "Removed: ONE", res.Status)
	assert.Equal(t, []todo.Item{{Title: "two"}}, loadFile(t, path).Todos)

	before := s.Todos.List()
	res = s.Dispatch(Command{Kind: Remove, Title: "three"})
	assert.ErrorIs(t, res.Err, todo.ErrNotFound)
	assert.Equal(t, before, s.Todos.List())
}

func TestDispatchEmotion(t *testing.T) {
	s, _, path := newState(t)

	res := s.Dispatch(Command{Kind: CycleEmotion})
	assert.Equal(t, "Emotion switched", res.Status)
	assert.Equal(t, "happy", s.Emotions.Get())

	res = s.Dispatch(Command{Kind: SetEmotion, Emotion: "blink"})
	assert.False(t, res.Failed())
	assert.Equal(t, "blink", s.Emotions.Get())

	res = s.Dispatch(Command{Kind: SetEmotion, Emotion: "angry"})
	assert.True(t, res.Failed())
	assert.Equal(t, "blink", s.Emotions.Get())

	// Emotion changes are persisted with the next write.
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, s.Shutdown())
	assert.Equal(t, "blink", loadFile(t, path).LastEmotion)
}

func TestDispatchCycleWithoutEmotions(t *testing.T) {
	s := New(Options{DataFile: filepath.Join(t.TempDir(), "d.json")})
	res := s.Dispatch(Command{Kind: CycleEmotion})
	assert.True(t, res.Failed())
}

func TestDispatchUnknownKind(t *testing.T) {
	s, _, _ := newState(t)
	res := s.Dispatch(Command{Kind: Kind(99)})
	assert.True(t, res.Failed())
	assert.Equal(t, "kind(99)", Kind(99).String())
	assert.Equal(t, "add", Add.String())
}

func TestSaveFailureKeepsState(t *testing.T) {
	dir := t.TempDir()
	// A directory where the data file should be makes every save fail.
	path := filepath.Join(dir, "data.json")
	require.NoError(t, os.Mkdir(path, 0o755))

	s := New(Options{DataFile: path, Emotions: emotion.DefaultNames()})
	res := s.Dispatch(Command{Kind: Add, Title: "Check the schedule"})

	require.True(t, res.Failed())
	assert.ErrorIs(t, res.Err, todo.ErrIO)
	assert.Contains(t, res.Status, "Error saving data")
	assert.True(t, res.Changed)
	assert.Equal(t, 1, s.Todos.Len(), "in-memory state is kept")

	res = s.Dispatch(Command{Kind: Save})
	assert.True(t, res.Failed())
	assert.Error(t, s.Shutdown())
}

func TestReload(t *testing.T) {
	s, _, path := newState(t)
	s.Dispatch(Command{Kind: Add, Title: "mine"})

	// Our own write is not a change.
	res := s.Dispatch(Command{Kind: Reload})
	assert.Equal(t, Result{}, res)

	external := &todo.Document{Todos: []todo.Item{{Title: "theirs", Done: true}}, LastEmotion: "curious"}
	require.NoError(t, external.Save(path))

	res = s.Dispatch(Command{Kind: Reload})
	assert.True(t, res.Changed)
	assert.Equal(t, "Reloaded 1 todo", res.Status)
	assert.Equal(t, external.Todos, s.Todos.List())
	assert.Equal(t, "curious", s.Emotions.Get())

	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	res = s.Dispatch(Command{Kind: Reload})
	assert.ErrorIs(t, res.Err, todo.ErrCorruptData)
	assert.Equal(t, external.Todos, s.Todos.List(), "corrupt edit leaves memory alone")

	require.NoError(t, os.Remove(path))
	assert.Equal(t, Result{}, s.Dispatch(Command{Kind: Reload}))
}

func TestReloadKeepsHappyOverride(t *testing.T) {
	s, _, path := newState(t)
	s.Dispatch(Command{Kind: Add, Title: "a"})
	s.Dispatch(Command{Kind: Toggle, Title: "a"})
	require.True(t, s.Emotions.Temporary())

	external := &todo.Document{Todos: []todo.Item{{Title: "a", Done: true}, {Title: "b"}}, LastEmotion: "normal"}
	require.NoError(t, external.Save(path))

	s.Dispatch(Command{Kind: Reload})
	assert.Equal(t, 2, s.Todos.Len())
	assert.Equal(t, "happy", s.Emotions.Get())
	assert.True(t, s.Emotions.Temporary())
}

func TestDocument(t *testing.T) {
	s, _, _ := newState(t)
	s.Dispatch(Command{Kind: Add, Title: "x"})
	doc := s.Document()
	assert.Equal(t, []todo.Item{{Title: "x"}}, doc.Todos)
	assert.Equal(t, "normal", doc.LastEmotion)
	assert.Equal(t, s.DataFile(), filepath.Join(filepath.Dir(s.DataFile()), "data.json"))
}
