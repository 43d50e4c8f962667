package window

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/hello3d/internal/engine/input"
)

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		name string
		sc   sdl.Scancode
		sym  sdl.Keycode
		want input.Key
		ok   bool
	}{
		{"qwerty y", sdl.SCANCODE_Y, sdl.K_y, input.KeyY, true},
		{"qwerty z", sdl.SCANCODE_Z, sdl.K_z, input.KeyZ, true},
		{"qwertz z on y position", sdl.SCANCODE_Y, sdl.K_z, input.KeyZ, true},
		{"qwertz y on z position", sdl.SCANCODE_Z, sdl.K_y, input.KeyY, true},
		{"azerty z on w position moves", sdl.SCANCODE_W, sdl.K_z, input.KeyW, true},
		{"frame by position", sdl.SCANCODE_F, sdl.K_f, input.KeyF, true},
		{"scancode y without y/z sym", sdl.SCANCODE_Y, sdl.K_q, 0, false},
		{"unbound", sdl.SCANCODE_Q, sdl.K_q, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translateKey(tt.sc, tt.sym)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Errorf("translateKey(%d, %d) = %v, %v; want %v, %v", tt.sc, tt.sym, got, ok, tt.want, tt.ok)
			}
		})
	}
}
