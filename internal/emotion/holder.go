// Package emotion tracks the pet's displayed emotion.
package emotion

import (
	"sync"
	"time"
)

// Fallback is the emotion that is always accepted, registered or not.
const Fallback = "normal"

// DefaultNames returns the built-in emotion order.
func DefaultNames() []string {
	return []string{"normal", "happy", "curious", "blink"}
}

// Scheduler runs fn once after d. The returned function cancels the call
// if it has not fired yet.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) (cancel func())
}

// TimerScheduler schedules callbacks with time.AfterFunc. Callbacks run on
// their own goroutine.
type TimerScheduler struct{}

// Schedule implements Scheduler.
func (TimerScheduler) Schedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// Holder holds the current and previous emotion.
//
// A temporary override records the current emotion as previous and schedules
// a reversion. Every transition bumps a generation counter and cancels the
// pending reversion, so a reversion only applies if nothing happened since it
// was scheduled.
type Holder struct {
	mu       sync.Mutex
	names    []string
	current  string
	previous string
	gen      uint64
	// pendingGen is the generation owning the scheduled reversion, 0 if none.
	pendingGen uint64
	cancel     func()
	sched      Scheduler
	onChange   func(string)
}

// NewHolder creates a holder over names in cycle order. A nil scheduler
// defaults to TimerScheduler.
func NewHolder(names []string, sched Scheduler) *Holder {
	if sched == nil {
		sched = TimerScheduler{}
	}
	registered := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		registered = append(registered, n)
	}
	return &Holder{
		names:    registered,
		current:  Fallback,
		previous: Fallback,
		sched:    sched,
	}
}

// OnChange registers a callback invoked with the new emotion after every
// change, including scheduled reversions. It is called without the lock held.
func (h *Holder) OnChange(fn func(string)) {
	h.mu.Lock()
	h.onChange = fn
	h.mu.Unlock()
}

// Names returns the registered emotions in cycle order.
func (h *Holder) Names() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.names))
	copy(out, h.names)
	return out
}

// Known reports whether name can be set.
func (h *Holder) Known(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.knownLocked(name)
}

func (h *Holder) knownLocked(name string) bool {
	if name == Fallback {
		return true
	}
	for _, n := range h.names {
		if n == name {
			return true
		}
	}
	return false
}

// Get returns the current emotion.
func (h *Holder) Get() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Previous returns the emotion a pending override would revert to.
func (h *Holder) Previous() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.previous
}

// Stable returns the emotion the holder settles on once any pending
// override reverts.
func (h *Holder) Stable() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pendingGen != 0 {
		return h.previous
	}
	return h.current
}

// Temporary reports whether a temporary override is pending.
func (h *Holder) Temporary() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pendingGen != 0
}

// Set switches to name. It returns false and leaves the state unchanged if
// name is unknown.
func (h *Holder) Set(name string) bool {
	h.mu.Lock()
	if !h.knownLocked(name) {
		h.mu.Unlock()
		return false
	}
	h.transitionLocked(name)
	fn := h.onChange
	h.mu.Unlock()

	notify(fn, name)
	return true
}

// Cycle advances to the next registered emotion, wrapping around. An
// unregistered current emotion counts as the first one. It returns false
// when no emotion is registered.
func (h *Holder) Cycle() (string, bool) {
	h.mu.Lock()
	if len(h.names) == 0 {
		h.mu.Unlock()
		return "", false
	}
	idx := 0
	for i, n := range h.names {
		if n == h.current {
			idx = i
			break
		}
	}
	next := h.names[(idx+1)%len(h.names)]
	h.transitionLocked(next)
	fn := h.onChange
	h.mu.Unlock()

	notify(fn, next)
	return next, true
}

// SetTemporary switches to name and reverts to the current emotion after d,
// unless another transition happens first. It returns false if name is
// unknown.
func (h *Holder) SetTemporary(name string, d time.Duration) bool {
	h.mu.Lock()
	if !h.knownLocked(name) {
		h.mu.Unlock()
		return false
	}
	// Keep the stable emotion when overriding an override.
	prev := h.current
	if h.pendingGen != 0 {
		prev = h.previous
	}
	h.transitionLocked(name)
	h.previous = prev
	gen := h.gen
	h.pendingGen = gen
	h.cancel = h.sched.Schedule(d, func() { h.revert(gen) })
	fn := h.onChange
	h.mu.Unlock()

	notify(fn, name)
	return true
}

// transitionLocked applies a transition and invalidates any pending reversion.
func (h *Holder) transitionLocked(name string) {
	h.gen++
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
	h.pendingGen = 0
	h.current = name
}

// revert restores the previous emotion if gen is still the latest transition.
func (h *Holder) revert(gen uint64) {
	h.mu.Lock()
	if h.pendingGen == 0 || h.pendingGen != gen || h.gen != gen {
		h.mu.Unlock()
		return
	}
	prev := h.previous
	h.gen++
	h.pendingGen = 0
	h.cancel = nil
	h.current = prev
	fn := h.onChange
	h.mu.Unlock()

	notify(fn, prev)
}

func notify(fn func(string), name string) {
	if fn != nil {
		fn(name)
	}
}
