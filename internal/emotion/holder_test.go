package emotion

import (
	"sync"
	"testing"
	"time"
)

// manualScheduler records scheduled callbacks so tests can fire them.
type manualScheduler struct {
	tasks []*manualTask
}

type manualTask struct {
	d         time.Duration
	fn        func()
	cancelled bool
}

func (s *manualScheduler) Schedule(d time.Duration, fn func()) func() {
	task := &manualTask{d: d, fn: fn}
	s.tasks = append(s.tasks, task)
	return func() { task.cancelled = true }
}

// fireAll runs every task, cancelled or not, to prove the generation guard.
func (s *manualScheduler) fireAll() {
	tasks := s.tasks
	s.tasks = nil
	for _, task := range tasks {
		task.fn()
	}
}

func TestNewHolderDefaults(t *testing.T) {
	h := NewHolder(DefaultNames(), &manualScheduler{})
	if got := h.Get(); got != "normal" {
		t.Errorf("Get: got %q, want normal", got)
	}
	if h.Temporary() {
		t.Error("new holder should not be temporary")
	}
}

func TestNewHolderDropsDuplicates(t *testing.T) {
	h := NewHolder([]string{"normal", "happy", "", "happy"}, nil)
	names := h.Names()
	if len(names) != 2 {
		t.Fatalf("Names: got %v, want [normal happy]", names)
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		name   string
		names  []string
		target string
		wantOK bool
		want   string
	}{
		{"known emotion", DefaultNames(), "curious", true, "curious"},
		{"unknown emotion", DefaultNames(), "angry", false, "normal"},
		{"fallback without registration", []string{"happy"}, "normal", true, "normal"},
		{"empty name", DefaultNames(), "", false, "normal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHolder(tt.names, &manualScheduler{})
			if ok := h.Set(tt.target); ok != tt.wantOK {
				t.Errorf("Set(%q): got %v, want %v", tt.target, ok, tt.wantOK)
			}
			if got := h.Get(); got != tt.want {
				t.Errorf("Get: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCycleWrapsAround(t *testing.T) {
	h := NewHolder(DefaultNames(), &manualScheduler{})
	h.Set("curious")
	start := h.Get()

	want := []string{"blink", "normal", "happy", "curious"}
	for i, w := range want {
		got, ok := h.Cycle()
		if !ok {
			t.Fatalf("Cycle %d: unexpected failure", i)
		}
		if got != w {
			t.Errorf("Cycle %d: got %q, want %q", i, got, w)
		}
	}
	if h.Get() != start {
		t.Errorf("after N cycles: got %q, want %q", h.Get(), start)
	}
}

func TestCycleNoEmotions(t *testing.T) {
	h := NewHolder(nil, &manualScheduler{})
	if _, ok := h.Cycle(); ok {
		t.Error("Cycle with no emotions should fail")
	}
	if h.Get() != Fallback {
		t.Errorf("Get: got %q, want %q", h.Get(), Fallback)
	}
}

func TestCycleFromUnregisteredCurrent(t *testing.T) {
	// normal is the fallback but not registered here
	h := NewHolder([]string{"happy", "curious"}, &manualScheduler{})
	got, ok := h.Cycle()
	if !ok || got != "curious" {
		t.Errorf("Cycle: got %q/%v, want curious/true", got, ok)
	}
}

func TestSetTemporaryReverts(t *testing.T) {
	s := &manualScheduler{}
	h := NewHolder(DefaultNames(), s)
	h.Set("curious")

	if !h.SetTemporary("happy", 1500*time.Millisecond) {
		t.Fatal("SetTemporary failed")
	}
	if h.Get() != "happy" || !h.Temporary() {
		t.Fatalf("during override: got %q temporary=%v", h.Get(), h.Temporary())
	}
	if got := h.Stable(); got != "curious" {
		t.Errorf("Stable during override: got %q, want curious", got)
	}
	if len(s.tasks) != 1 || s.tasks[0].d != 1500*time.Millisecond {
		t.Fatalf("expected one reversion scheduled for 1.5s, got %+v", s.tasks)
	}

	s.fireAll()
	if got := h.Get(); got != "curious" {
		t.Errorf("after reversion: got %q, want curious", got)
	}
	if h.Temporary() {
		t.Error("holder still temporary after reversion")
	}
	if got := h.Stable(); got != "curious" {
		t.Errorf("Stable after reversion: got %q, want curious", got)
	}
}

func TestSetTemporaryPreemptedBySet(t *testing.T) {
	s := &manualScheduler{}
	h := NewHolder(DefaultNames(), s)

	h.SetTemporary("happy", 100*time.Millisecond)
	h.Set("curious")

	if !s.tasks[0].cancelled {
		t.Error("pending reversion should be cancelled by Set")
	}
	s.fireAll()
	if got := h.Get(); got != "curious" {
		t.Errorf("got %q, want curious", got)
	}
}

func TestSetTemporaryPreemptedByCycle(t *testing.T) {
	s := &manualScheduler{}
	h := NewHolder(DefaultNames(), s)

	h.SetTemporary("happy", time.Second)
	next, _ := h.Cycle()
	s.fireAll()
	if got := h.Get(); got != next {
		t.Errorf("got %q, want %q", got, next)
	}
}

func TestSetTemporaryPreemptedBySameEmotion(t *testing.T) {
	// Setting the temporary emotion explicitly makes it stable.
	s := &manualScheduler{}
	h := NewHolder(DefaultNames(), s)

	h.SetTemporary("happy", time.Second)
	h.Set("happy")
	s.fireAll()
	if got := h.Get(); got != "happy" {
		t.Errorf("got %q, want happy", got)
	}
}

func TestSetTemporaryTwiceKeepsStablePrevious(t *testing.T) {
	s := &manualScheduler{}
	h := NewHolder(DefaultNames(), s)
	h.Set("curious")

	h.SetTemporary("happy", time.Second)
	h.SetTemporary("happy", time.Second)
	if h.Previous() != "curious" {
		t.Errorf("Previous: got %q, want curious", h.Previous())
	}

	s.fireAll()
	if got := h.Get(); got != "curious" {
		t.Errorf("got %q, want curious", got)
	}
}

func TestSetTemporaryUnknown(t *testing.T) {
	s := &manualScheduler{}
	h := NewHolder(DefaultNames(), s)
	if h.SetTemporary("angry", time.Second) {
		t.Error("SetTemporary with unknown emotion should fail")
	}
	if len(s.tasks) != 0 {
		t.Error("nothing should be scheduled")
	}
}

func TestOnChange(t *testing.T) {
	s := &manualScheduler{}
	h := NewHolder(DefaultNames(), s)

	var seen []string
	h.OnChange(func(name string) { seen = append(seen, name) })

	h.Set("curious")
	h.Set("angry")
	h.SetTemporary("happy", time.Second)
	s.fireAll()

	want := []string{"curious", "happy", "curious"}
	if len(seen) != len(want) {
		t.Fatalf("OnChange: got %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("OnChange[%d]: got %q, want %q", i, seen[i], want[i])
		}
	}
}

func TestTimerSchedulerPreemption(t *testing.T) {
	h := NewHolder(DefaultNames(), TimerScheduler{})

	var mu sync.Mutex
	changes := 0
	h.OnChange(func(string) {
		mu.Lock()
		changes++
		mu.Unlock()
	})

	h.SetTemporary("happy", 100*time.Millisecond)
	h.Set("curious")
	time.Sleep(200 * time.Millisecond)

	if got := h.Get(); got != "curious" {
		t.Errorf("got %q, want curious", got)
	}
	mu.Lock()
	defer mu.Unlock()
	if changes != 2 {
		t.Errorf("changes: got %d, want 2", changes)
	}
}

func TestTimerSchedulerReverts(t *testing.T) {
	h := NewHolder(DefaultNames(), TimerScheduler{})
	h.SetTemporary("happy", 20*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.Get() == "normal" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("override never reverted, current %q", h.Get())
}
