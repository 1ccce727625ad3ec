package pet

// Animator alternates idle frames while the pet rests.
type Animator struct {
	idle []string
	pos  int
}

// NewAnimator returns an animator over the idle frame names. The first
// name is the resting emotion that triggers the animation.
func NewAnimator(idle []string) *Animator {
	return &Animator{idle: append([]string(nil), idle...)}
}

// Active reports whether the idle animation applies to current.
func (a *Animator) Active(current string, temporary bool) bool {
	return !temporary && len(a.idle) > 1 && current == a.idle[0]
}

// Tick advances to the next idle frame.
func (a *Animator) Tick() {
	if len(a.idle) == 0 {
		return
	}
	a.pos = (a.pos + 1) % len(a.idle)
}

// Reset returns to the first idle frame.
func (a *Animator) Reset() {
	a.pos = 0
}

// Display returns the frame name to draw for the held emotion.
func (a *Animator) Display(current string, temporary bool) string {
	if !a.Active(current, temporary) {
		return current
	}
	return a.idle[a.pos]
}
