// Package input holds per-frame keyboard and mouse state independent of the
// windowing backend.
package input

// Key identifies a key the viewer reacts to.
type Key int

// Keys.
const (
	KeyUnknown Key = iota
	KeyEscape
	KeyTab
	KeyW
	KeyA
	KeyS
	KeyD
	KeyX
	KeyY
	KeyZ
	KeyP
	KeyO
	KeyL
	KeyN
	KeyB
	KeyF
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPageUp
	KeyPageDown
	KeyEquals
	KeyMinus
	KeyF12

	keyCount
)

// State is the input snapshot for one frame. The window layer fills it; the
// controls read it.
type State struct {
	Quit bool

	// Resized is set when the drawable size changed this frame.
	Resized       bool
	Width, Height int

	// Virtual pointer position, the sum of all relative motion so far.
	MouseX, MouseY float32
	MouseMoved     bool

	// Scroll is the wheel movement this frame, positive away from the user.
	Scroll float32

	// Clicked is set when the primary button went down this frame.
	Clicked bool

	Shift bool

	pressed [keyCount]bool
	held    [keyCount]bool
}

// NewState returns an empty state.
func NewState() *State {
	return &State{}
}

// BeginFrame clears the per-frame fields. Held keys and the pointer position persist.
func (s *State) BeginFrame() {
	s.Quit = false
	s.Resized = false
	s.MouseMoved = false
	s.Scroll = 0
	s.Clicked = false
	s.pressed = [keyCount]bool{}
}

// KeyDown records a key press. Auto-repeat events keep the key held without
// counting as a new press.
func (s *State) KeyDown(k Key, repeat bool) {
	if !valid(k) {
		return
	}
	if !repeat && !s.held[k] {
		s.pressed[k] = true
	}
	s.held[k] = true
}

// KeyUp records a key release.
func (s *State) KeyUp(k Key) {
	if valid(k) {
		s.held[k] = false
	}
}

// Motion accumulates relative pointer movement.
func (s *State) Motion(dx, dy float32) {
	s.MouseX += dx
	s.MouseY += dy
	s.MouseMoved = true
}

// Wheel accumulates scroll for this frame.
func (s *State) Wheel(dy float32) {
	s.Scroll += dy
}

// Click records a primary button press.
func (s *State) Click() {
	s.Clicked = true
}

// Resize records a new drawable size.
func (s *State) Resize(w, h int) {
	s.Resized = true
	s.Width, s.Height = w, h
}

// Pressed reports whether k went down this frame.
func (s *State) Pressed(k Key) bool {
	return valid(k) && s.pressed[k]
}

// Held reports whether k is currently down.
func (s *State) Held(k Key) bool {
	return valid(k) && s.held[k]
}

// Axis returns -1, 0 or 1 from a pair of held keys.
func (s *State) Axis(negative, positive Key) float32 {
	var v float32
	if s.Held(negative) {
		v--
	}
	if s.Held(positive) {
		v++
	}
	return v
}

func valid(k Key) bool {
	return k > KeyUnknown && k < keyCount
}
