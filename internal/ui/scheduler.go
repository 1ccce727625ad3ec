package ui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// runMsg carries a timer callback onto the bubbletea event loop.
type runMsg struct {
	fn func()
}

// Scheduler runs emotion timers on the UI event loop. Until a program is
// attached, callbacks run on the timer goroutine.
type Scheduler struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

// NewScheduler returns a scheduler with no program attached.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Attach routes future callbacks through send, usually (*tea.Program).Send.
// A nil send detaches.
func (s *Scheduler) Attach(send func(tea.Msg)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send = send
}

// Schedule runs fn after d and returns a function that cancels it.
func (s *Scheduler) Schedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, func() { s.deliver(fn) })
	return func() { t.Stop() }
}

func (s *Scheduler) deliver(fn func()) {
	s.mu.Lock()
	send := s.send
	s.mu.Unlock()

	if send == nil {
		fn()
		return
	}
	send(runMsg{fn: fn})
}
