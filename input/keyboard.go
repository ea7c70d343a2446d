// Package input holds per-frame keyboard state for systems.
package input

// KeyCode identifies a physical key
type KeyCode int

const (
	KeyUnknown KeyCode = iota
	KeyA
	KeyD
	KeyL
	KeyS
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEscape
	KeyQ
	KeyF1
)

var keyNames = map[KeyCode]string{
	KeyA:      "A",
	KeyD:      "D",
	KeyL:      "L",
	KeyS:      "S",
	KeyUp:     "Up",
	KeyDown:   "Down",
	KeyLeft:   "Left",
	KeyRight:  "Right",
	KeyEscape: "Escape",
	KeyQ:      "Q",
	KeyF1:     "F1",
}

func (k KeyCode) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Keyboard tracks which keys are held and which changed state this frame.
// It lives in storage as a singleton; the frame loop feeds it before systems
// run and calls Clear after they finish.
type Keyboard struct {
	pressed      map[KeyCode]bool
	justPressed  map[KeyCode]bool
	justReleased map[KeyCode]bool
}

// NewKeyboard returns an empty keyboard state
func NewKeyboard() Keyboard {
	return Keyboard{
		pressed:      make(map[KeyCode]bool),
		justPressed:  make(map[KeyCode]bool),
		justReleased: make(map[KeyCode]bool),
	}
}

// Press records a key going down. Holding a key does not re-trigger JustPressed.
func (k *Keyboard) Press(key KeyCode) {
	k.ensure()
	if !k.pressed[key] {
		k.justPressed[key] = true
	}
	k.pressed[key] = true
}

// Release records a key going up
func (k *Keyboard) Release(key KeyCode) {
	k.ensure()
	if k.pressed[key] {
		k.justReleased[key] = true
	}
	delete(k.pressed, key)
}

// Pressed reports whether the key is currently held
func (k *Keyboard) Pressed(key KeyCode) bool {
	return k.pressed[key]
}

// JustPressed reports whether the key went down this frame
func (k *Keyboard) JustPressed(key KeyCode) bool {
	return k.justPressed[key]
}

// JustReleased reports whether the key went up this frame
func (k *Keyboard) JustReleased(key KeyCode) bool {
	return k.justReleased[key]
}

// Clear resets the per-frame edges while keeping held keys
func (k *Keyboard) Clear() {
	clear(k.justPressed)
	clear(k.justReleased)
}

func (k *Keyboard) ensure() {
	if k.pressed == nil {
		*k = NewKeyboard()
	}
}
