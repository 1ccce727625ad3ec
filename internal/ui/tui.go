// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/todoneko/internal/app"
	"github.com/nibzard/todoneko/internal/logging"
	"github.com/nibzard/todoneko/internal/pet"
	"github.com/nibzard/todoneko/internal/watch"
)

// Options configures the TUI.
type Options struct {
	State    *app.State
	Frames   *pet.Set
	Animator *pet.Animator
	// Scheduler is the one the state's emotion holder was built with.
	Scheduler     *Scheduler
	Templates     []string
	FrameInterval time.Duration
	// Watcher reports external edits of the data file. Optional.
	Watcher *watch.Watcher
	// Startup is shown in the status bar when the UI opens.
	Startup app.Result
	Logger  *log.Logger
}

// Run starts the TUI and blocks until the user quits or ctx is done. The
// document is saved on the way out.
func Run(ctx context.Context, opts Options) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	m := newModel(ctx, opts)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if opts.Scheduler != nil {
		opts.Scheduler.Attach(program.Send)
		defer opts.Scheduler.Attach(nil)
	}

	_, runErr := program.Run()
	if err := opts.State.Shutdown(); err != nil {
		m.logger.Error("final save failed", "err", err)
		if runErr == nil {
			runErr = err
		}
	}
	if errors.Is(runErr, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return runErr
}

type focus int

const (
	focusInput focus = iota
	focusList
	focusPet
)

func (f focus) next() focus {
	return (f + 1) % 3
}

type model struct {
	ctx       context.Context
	state     *app.State
	frames    *pet.Set
	animator  *pet.Animator
	watcher   *watch.Watcher
	logger    *log.Logger
	templates []string
	interval  time.Duration

	input    textinput.Model
	focus    focus
	cursor   int
	template int

	status     string
	statusErr  bool
	statusID   int
	lastResult app.Result

	width, height int
	quitting      bool
}

type frameMsg time.Time

type statusExpiredMsg struct {
	id int
}

type dataChangedMsg struct{}

func newModel(ctx context.Context, opts Options) *model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	animator := opts.Animator
	if animator == nil {
		animator = pet.NewAnimator(nil)
	}
	frames := opts.Frames
	if frames == nil {
		frames = pet.LoadSet(pet.Options{}, logger)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	in := textinput.New()
	in.Placeholder = "New todo"
	in.CharLimit = 200
	in.Prompt = "> "
	in.Focus()

	m := &model{
		ctx:        ctx,
		state:      opts.State,
		frames:     frames,
		animator:   animator,
		watcher:    opts.Watcher,
		logger:     logger,
		templates:  opts.Templates,
		interval:   opts.FrameInterval,
		input:      in,
		focus:      focusInput,
		lastResult: opts.Startup,
	}
	m.setStatus(opts.Startup)
	return m
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.interval > 0 {
		cmds = append(cmds, frameCmd(m.interval))
	}
	if m.status != "" {
		cmds = append(cmds, expireCmd(m.statusID, m.lastResult.Duration))
	}
	if m.watcher != nil {
		cmds = append(cmds, waitForChange(m.ctx, m.watcher))
	}
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case runMsg:
		before := m.state.Emotions.Get()
		msg.fn()
		if m.state.Emotions.Get() != before {
			m.animator.Reset()
		}
		return m, nil

	case frameMsg:
		if m.animator.Active(m.state.Emotions.Get(), m.state.Emotions.Temporary()) {
			m.animator.Tick()
		} else {
			m.animator.Reset()
		}
		if m.interval <= 0 {
			return m, nil
		}
		return m, frameCmd(m.interval)

	case statusExpiredMsg:
		if msg.id == m.statusID {
			m.status = ""
			m.statusErr = false
		}
		return m, nil

	case dataChangedMsg:
		res := m.state.Dispatch(app.Command{Kind: app.Reload})
		m.clampCursor()
		return m, tea.Batch(m.report(res), waitForChange(m.ctx, m.watcher))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m.quit()
	}
	if key == "tab" {
		return m, m.setFocus(m.focus.next())
	}
	if key == "shift+tab" {
		return m, m.setFocus((m.focus + 2) % 3)
	}

	switch m.focus {
	case focusInput:
		return m.handleInputKey(msg)
	case focusList:
		return m.handleListKey(key)
	default:
		return m.handlePetKey(key)
	}
}

func (m *model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		res := m.state.Dispatch(app.Command{Kind: app.Add, Title: m.input.Value()})
		if !res.Failed() {
			m.input.Reset()
			m.cursor = m.state.Todos.Len() - 1
		}
		return m, m.report(res)
	case "ctrl+t":
		if len(m.templates) > 0 {
			m.input.SetValue(m.templates[m.template])
			m.input.CursorEnd()
			m.template = (m.template + 1) % len(m.templates)
		}
		return m, nil
	case "esc":
		return m, m.setFocus(focusList)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) handleListKey(key string) (tea.Model, tea.Cmd) {
	items := m.state.Todos.List()
	switch key {
	case "q", "esc":
		return m.quit()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case " ", "space", "x":
		if len(items) == 0 {
			return m, nil
		}
		res := m.state.Dispatch(app.Command{Kind: app.Toggle, Title: items[m.cursor].Title})
		return m, m.report(res)
	case "d", "delete":
		if len(items) == 0 {
			return m, nil
		}
		res := m.state.Dispatch(app.Command{Kind: app.Remove, Title: items[m.cursor].Title})
		m.clampCursor()
		return m, m.report(res)
	case "p":
		return m, m.cycleEmotion()
	case "a", "i":
		return m, m.setFocus(focusInput)
	}
	return m, nil
}

func (m *model) handlePetKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "esc":
		return m.quit()
	case "p", "enter", " ", "space":
		return m, m.cycleEmotion()
	}
	return m, nil
}

func (m *model) cycleEmotion() tea.Cmd {
	res := m.state.Dispatch(app.Command{Kind: app.CycleEmotion})
	m.animator.Reset()
	return m.report(res)
}

func (m *model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func (m *model) setFocus(f focus) tea.Cmd {
	m.focus = f
	if f == focusInput {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

func (m *model) clampCursor() {
	n := m.state.Todos.Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// report shows a command result in the status bar.
func (m *model) report(res app.Result) tea.Cmd {
	if res.Err != nil {
		m.logger.Debug("command failed", "status", res.Status, "err", res.Err)
	}
	if res.Status == "" {
		return nil
	}
	m.setStatus(res)
	return expireCmd(m.statusID, res.Duration)
}

func (m *model) setStatus(res app.Result) {
	if res.Status == "" {
		return
	}
	m.statusID++
	m.status = res.Status
	m.statusErr = res.Failed()
	m.lastResult = res
}

func frameCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func expireCmd(id int, d time.Duration) tea.Cmd {
	if d <= 0 {
		return nil
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return statusExpiredMsg{id: id}
	})
}

func waitForChange(ctx context.Context, w *watch.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		if !w.Wait(ctx) {
			return nil
		}
		return dataChangedMsg{}
	}
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
