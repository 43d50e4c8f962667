package window

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/hello3d/internal/engine/input"
)

var keymap = map[sdl.Scancode]input.Key{
	sdl.SCANCODE_ESCAPE:   input.KeyEscape,
	sdl.SCANCODE_TAB:      input.KeyTab,
	sdl.SCANCODE_W:        input.KeyW,
	sdl.SCANCODE_A:        input.KeyA,
	sdl.SCANCODE_S:        input.KeyS,
	sdl.SCANCODE_D:        input.KeyD,
	sdl.SCANCODE_X:        input.KeyX,
	sdl.SCANCODE_P:        input.KeyP,
	sdl.SCANCODE_O:        input.KeyO,
	sdl.SCANCODE_L:        input.KeyL,
	sdl.SCANCODE_N:        input.KeyN,
	sdl.SCANCODE_B:        input.KeyB,
	sdl.SCANCODE_F:        input.KeyF,
	sdl.SCANCODE_1:        input.Key1,
	sdl.SCANCODE_2:        input.Key2,
	sdl.SCANCODE_3:        input.Key3,
	sdl.SCANCODE_4:        input.Key4,
	sdl.SCANCODE_5:        input.Key5,
	sdl.SCANCODE_6:        input.Key6,
	sdl.SCANCODE_UP:       input.KeyUp,
	sdl.SCANCODE_DOWN:     input.KeyDown,
	sdl.SCANCODE_LEFT:     input.KeyLeft,
	sdl.SCANCODE_RIGHT:    input.KeyRight,
	sdl.SCANCODE_PAGEUP:   input.KeyPageUp,
	sdl.SCANCODE_PAGEDOWN: input.KeyPageDown,
	sdl.SCANCODE_EQUALS:   input.KeyEquals,
	sdl.SCANCODE_KP_PLUS:  input.KeyEquals,
	sdl.SCANCODE_MINUS:    input.KeyMinus,
	sdl.SCANCODE_KP_MINUS: input.KeyMinus,
	sdl.SCANCODE_F12:      input.KeyF12,
}

// symmap binds keys by the character they produce, so the Y/Z view toggles
// follow the printed keycap on layouts that swap them. Positional bindings
// in keymap win, which keeps WASD movement in place on AZERTY.
var symmap = map[sdl.Keycode]input.Key{
	sdl.K_y: input.KeyY,
	sdl.K_z: input.KeyZ,
}

func translateKey(sc sdl.Scancode, sym sdl.Keycode) (input.Key, bool) {
	if k, ok := keymap[sc]; ok {
		return k, true
	}
	k, ok := symmap[sym]
	return k, ok
}

// PollInput drains pending SDL events into s. Call once per frame before the
// controls read s.
func (w *Window) PollInput(s *input.State) {
	s.BeginFrame()

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			s.Quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				width, height := w.DrawableSize()
				s.Resize(width, height)
			}

		case *sdl.KeyboardEvent:
			k, ok := translateKey(e.Keysym.Scancode, e.Keysym.Sym)
			if !ok {
				continue
			}
			if e.Type == sdl.KEYDOWN {
				s.KeyDown(k, e.Repeat != 0)
			} else {
				s.KeyUp(k)
			}

		case *sdl.MouseMotionEvent:
			s.Motion(float32(e.XRel), float32(e.YRel))

		case *sdl.MouseButtonEvent:
			if e.Type == sdl.MOUSEBUTTONDOWN && e.Button == sdl.BUTTON_LEFT {
				s.Click()
			}

		case *sdl.MouseWheelEvent:
			dy := float32(e.Y)
			if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
				dy = -dy
			}
			s.Wheel(dy)
		}
	}

	s.Shift = sdl.GetModState()&sdl.KMOD_SHIFT != 0
}
