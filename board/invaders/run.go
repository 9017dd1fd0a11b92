package invaders

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"golang.org/x/image/colornames"
)

// keymap binds a keyboard scancode to the cabinet input bit it asserts,
// grounded in space_invaders_board_poll's SDL_SCANCODE bindings (reduced
// to player 1's controls plus coin/start, which is all this board wires).
var keymap = map[sdl.Scancode]uint{
	sdl.SCANCODE_LEFT:  BitP1Left,
	sdl.SCANCODE_RIGHT: BitP1Right,
	sdl.SCANCODE_UP:    BitP1Shot,
	sdl.SCANCODE_RETURN: BitP1Start,
	sdl.SCANCODE_SPACE: BitCredit,
}

// Run drives the cabinet against a live SDL2 window: it polls the
// keyboard into the input latch, steps the CPU one instruction per loop
// iteration, sleeping whenever emulated time runs ahead of wall-clock time
// (so the emulated 2MHz clock doesn't run ahead of the real 60Hz monitor
// it's driving), delivers the twice-per-frame vsync
// interrupts via Sync, and blits video RAM to the window on every vblank
// edge. It returns when the window receives a quit event.
func (cab *Cabinet) Run() error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("invaders: sdl init: %w", err)
	}
	defer sdl.Quit()

	window, renderer, err := sdl.CreateWindowAndRenderer(
		ScreenWidth, ScreenHeight, sdl.WINDOW_RESIZABLE)
	if err != nil {
		return fmt.Errorf("invaders: create window: %w", err)
	}
	defer window.Destroy()
	defer renderer.Destroy()

	texture, err := renderer.CreateTexture(
		uint32(sdl.PIXELFORMAT_RGB332), sdl.TEXTUREACCESS_STREAMING, ScreenWidth, ScreenHeight)
	if err != nil {
		return fmt.Errorf("invaders: create texture: %w", err)
	}
	defer texture.Destroy()

	start := time.Now()
	for {
		quit, err := cab.pollEvents()
		if err != nil {
			return err
		}
		if quit {
			return nil
		}

		if err := cab.CPU.Step(); err != nil {
			return err
		}

		events, err := cab.Sync()
		if err != nil {
			return err
		}
		for _, ev := range events {
			if ev.VBlank {
				if err := cab.blit(renderer, texture); err != nil {
					return err
				}
			}
		}

		wantElapsed := time.Duration(float64(cab.CPU.UptimeCycles) / CyclesPerSecond * float64(time.Second))
		if actual := time.Since(start); wantElapsed > actual {
			time.Sleep(wantElapsed - actual)
		}
	}
}

func (cab *Cabinet) pollEvents() (quit bool, err error) {
	keyboard := sdl.GetKeyboardState()
	for _, ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		if _, ok := ev.(*sdl.QuitEvent); ok {
			return true, nil
		}
	}
	for scancode, bit := range keymap {
		cab.SetInput(bit, keyboard[int(scancode)] != 0)
	}
	return false, nil
}

// blit converts the cabinet's 1-bit video RAM into RGB332 pixels and
// presents them, using colornames as the canonical on/off color pair so
// the conversion doesn't hardcode raw RGB constants.
func (cab *Cabinet) blit(renderer *sdl.Renderer, texture *sdl.Texture) error {
	vram := cab.VideoRAM()
	pixels := make([]byte, ScreenWidth*ScreenHeight)
	on := colornames.White
	off := colornames.Black

	for x := 0; x < ScreenWidth; x++ {
		for y := 0; y < ScreenHeight; y++ {
			idx := x + y*ScreenWidth
			bit := (vram[idx/8] >> uint(x&7)) & 1
			c := off
			if bit != 0 {
				c = on
			}
			pixels[idx] = rgbToRGB332(c.R, c.G, c.B)
		}
	}

	if err := texture.Update(nil, pixels, ScreenWidth); err != nil {
		return fmt.Errorf("invaders: update texture: %w", err)
	}
	if err := renderer.CopyEx(texture, nil, nil, -90, nil, sdl.FLIP_NONE); err != nil {
		return fmt.Errorf("invaders: copy texture: %w", err)
	}
	renderer.Present()
	return nil
}

func rgbToRGB332(r, g, b uint8) byte {
	return r&0xE0 | g>>3&0x1C | b>>6
}
