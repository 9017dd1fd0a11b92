// Package invaders boards an i8080 core as the Taito Space Invaders arcade
// cabinet: the fixed ROM map at 0x1000-0x1FFF, the dedicated 16-bit shift
// register hardware wired to ports 2/3/4, the cabinet switch/joystick
// input latch on ports 0/1/2, and the twice-per-frame vblank interrupt
// pair (RST 1 at mid-frame, RST 2 at vblank) that drives the game loop.
//
// Grounded in original_source/src/i8080/board/space_invaders.c: Cabinet's
// input/output methods are a direct port of space_invaders_input/output,
// and Sync/nextInterrupt reproduce space_invaders_board_sync's cycle-to-
// wall-clock vsync bookkeeping without the SDL2/timing side effects, so
// the hardware logic is unit-testable on its own; Run (in run.go) supplies
// those side effects using veandco/go-sdl2, the way run.go in every other
// board-driving example in this pack does for its own platform.
package invaders

import (
	"github.com/go8080/i8080/cpu"
	"github.com/go8080/i8080/ioport"
	"github.com/go8080/i8080/irq"
	"github.com/go8080/i8080/memory"
)

var _ irq.Source = (*Cabinet)(nil)

const (
	ScreenWidth  = 256
	ScreenHeight = 224

	// CyclesPerSecond is the cabinet's CPU clock; Sync uses it to convert
	// UptimeCycles into wall-clock-equivalent seconds for vsync bookkeeping.
	CyclesPerSecond = 2000000.0
	// VsyncRate is twice the screen's 60Hz refresh: the real hardware
	// raises an interrupt at mid-frame and at vblank.
	VsyncRate = 120.0
)

// Input bit positions within Cabinet.Inputs, matching the cabinet's three
// 8-bit input ports packed into one 24-bit word (port N occupies bits
// [8N, 8N+8)).
const (
	BitCredit   = 8
	BitP2Start  = 9
	BitP1Start  = 10
	BitP1Shot   = 12
	BitP1Left   = 13
	BitP1Right  = 14
	BitP2Shot   = 20
	BitP2Left   = 21
	BitP2Right  = 22

	// defaultInputs holds the four bits the cabinet reads as 1 when idle:
	// bits 1-3 of port 0 and bit 3 of port 1.
	defaultInputs = 0x080E
)

// VsyncEvent is one interrupt Sync decided is due.
type VsyncEvent struct {
	Opcode uint8
	VBlank bool // true for the vblank (screen-bottom) edge, false for mid-frame
}

// Cabinet is the Space Invaders board: a CPU wired to the game's I/O map.
type Cabinet struct {
	CPU *cpu.CPU

	Inputs uint64

	shiftRegister uint16
	shiftAmount   uint8
	vsyncFrame    uint64
}

// New builds a Cabinet with rom loaded at 0x0000 and the 0x1000-0x1FFF ROM
// region write-protected, matching the real board's memory map (work RAM
// and video RAM live above 0x2000).
func New(rom []byte) (*Cabinet, error) {
	cab := &Cabinet{Inputs: defaultInputs}

	c, err := cpu.Init(ioport.Pair{InputFn: cab.input, OutputFn: cab.output})
	if err != nil {
		return nil, err
	}
	romMap, err := memory.NewMap(memory.Region{Begin: 0x1000, End: 0x2000})
	if err != nil {
		return nil, err
	}
	c.SetROM(romMap)
	c.LoadAt(0, rom)

	cab.CPU = c
	return cab, nil
}

func (cab *Cabinet) input(c *cpu.CPU, port uint8) {
	switch port {
	case 0, 1, 2:
		c.A = uint8(cab.Inputs >> (uint(port) * 8))
	case 3:
		c.A = uint8(cab.shiftRegister >> cab.shiftAmount)
	}
}

func (cab *Cabinet) output(c *cpu.CPU, port uint8) {
	switch port {
	case 2:
		cab.shiftAmount = c.A & 0x3
	case 4:
		cab.shiftRegister = uint16(c.A)<<8 | cab.shiftRegister>>8
	}
	// Ports 3, 5, 6 drive sound hardware this board doesn't emulate.
}

// VideoRAM returns the 1-bit-per-pixel framebuffer, 256x224 bits packed 8
// to a byte, column-major the way the cabinet's monitor is rotated.
func (cab *Cabinet) VideoRAM() []byte {
	return cab.CPU.Memory[0x2400:0x4000]
}

func (cab *Cabinet) targetVsyncFrame(uptimeCycles uint64) uint64 {
	uptimeSeconds := float64(uptimeCycles) / CyclesPerSecond
	return uint64(uptimeSeconds * VsyncRate)
}

// Pending implements irq.Source: it reports the next due vsync edge
// without clearing it, for a generic board loop that polls interrupt
// sources rather than calling this board's own Sync.
func (cab *Cabinet) Pending() (opcode uint8, ok bool) {
	ev, ok := cab.peekInterrupt(cab.CPU.UptimeCycles)
	return ev.Opcode, ok
}

func (cab *Cabinet) peekInterrupt(uptimeCycles uint64) (VsyncEvent, bool) {
	if cab.vsyncFrame == cab.targetVsyncFrame(uptimeCycles) {
		return VsyncEvent{}, false
	}
	vblank := cab.vsyncFrame%2 != 0
	opcode := cpu.RSTOpcode(1)
	if vblank {
		opcode = cpu.RSTOpcode(2)
	}
	return VsyncEvent{Opcode: opcode, VBlank: vblank}, true
}

// nextInterrupt reports one due vsync edge and advances past it, if
// uptimeCycles has crossed a boundary Sync hasn't delivered yet.
func (cab *Cabinet) nextInterrupt(uptimeCycles uint64) (VsyncEvent, bool) {
	ev, ok := cab.peekInterrupt(uptimeCycles)
	if !ok {
		return VsyncEvent{}, false
	}
	cab.vsyncFrame++
	return ev, true
}

// Sync delivers every vsync interrupt due given the CPU's current
// UptimeCycles (looping, in case more than one half-frame elapsed since
// the last call), then resets the cabinet's input latch to its idle
// state — mirroring the original board's per-poll-cycle reset, so a Run
// loop must re-assert held inputs every iteration via SetInput.
func (cab *Cabinet) Sync() ([]VsyncEvent, error) {
	var events []VsyncEvent
	for {
		ev, ok := cab.nextInterrupt(cab.CPU.UptimeCycles)
		if !ok {
			break
		}
		if err := cab.CPU.Interrupt(ev.Opcode, 0); err != nil {
			return events, err
		}
		events = append(events, ev)
	}
	cab.Inputs = defaultInputs
	return events, nil
}

// SetInput sets or clears the named input bit ahead of the next Sync.
func (cab *Cabinet) SetInput(bit uint, pressed bool) {
	if pressed {
		cab.Inputs |= 1 << bit
	} else {
		cab.Inputs &^= 1 << bit
	}
}
