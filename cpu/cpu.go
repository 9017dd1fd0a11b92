// Package cpu implements the Intel 8080 microprocessor: registers, flags,
// a flat 64 KiB memory, and the fetch/decode/execute/interrupt engine
// driven by a 256-entry opcode table.
//
// The package is a passive library. Nothing here blocks, sleeps, spawns a
// goroutine, or performs I/O on its own — a board drives it by calling
// Step (and occasionally Interrupt) in a loop and installs an IO
// implementation to answer IN/OUT.
package cpu

import (
	"fmt"

	"github.com/go8080/i8080/memory"
)

// Flag bit masks within the F register, matching the documented 8080
// condition byte layout (bit 0 is carry, bit 7 is sign).
const (
	FlagC      = uint8(1 << 0) // Carry
	flagUnused1 = uint8(1 << 1) // Always reads 1 after a PSW restore.
	FlagP      = uint8(1 << 2) // Parity (even)
	flagUnused2 = uint8(1 << 3) // Always reads 0.
	FlagAC     = uint8(1 << 4) // Auxiliary carry
	flagUnused3 = uint8(1 << 5) // Always reads 0.
	FlagZ      = uint8(1 << 6) // Zero
	FlagS      = uint8(1 << 7) // Sign

	// flagsSZAPC is every flag bit an ALU/rotate/DAA instruction owns.
	flagsSZAPC = FlagS | FlagZ | FlagAC | FlagP | FlagC
)

// IO is the port handler contract a board installs at Init time. Input is
// expected to set c.A itself (the core performs no default read); Output
// receives the port number, with c.A holding the byte to emit.
type IO interface {
	Input(c *CPU, port uint8)
	Output(c *CPU, port uint8)
}

// RSTOpcode returns the opcode byte for RST n (n in 0..7), the encoding a
// board typically hands to Interrupt.
func RSTOpcode(n uint8) uint8 {
	return 0xC7 | (n << 3)
}

// CPU is the complete, addressable state of one Intel 8080: registers,
// flags, program counter, stack pointer, the interrupt-enable latch, the
// halt latch, the cycle counter, and the entire 64 KiB address space.
//
// A CPU is owned by exactly one caller at a time; there is no internal
// locking (see spec §5 — single-threaded cooperative scheduling).
type CPU struct {
	B, C, D, E, H, L, A, F uint8
	PC, SP                 uint16

	// Stopped is true after HLT executes; only cleared by re-Init or by a
	// board that explicitly resumes it (the core never auto-clears it on
	// Interrupt — see Interrupt's doc comment).
	Stopped bool
	// INTE is the interrupt-enable latch, true after Init.
	INTE bool

	// UptimeCycles is monotonically non-decreasing: Step and Interrupt add
	// the executed instruction's charged cycle count to it.
	UptimeCycles uint64

	io  IO
	rom memory.Map

	Memory [65536]byte
}

// InvalidState reports a caller error the core detected: not an opcode
// fault (the 8080 has no fault model — every one of the 256 opcodes is
// defined) but a misuse of the API surface itself, such as an unset IO
// handler.
type InvalidState struct {
	Reason string
}

func (e InvalidState) Error() string {
	return fmt.Sprintf("cpu: invalid state: %s", e.Reason)
}

// Init returns a freshly powered-on CPU: all registers and memory zeroed,
// F set to the single always-one reserved bit, interrupts enabled, and the
// given IO handler installed. io must not be nil — a board with no mapped
// ports should pass ioport.None rather than nil, since IN/OUT on an unset
// handler would otherwise panic on the first access.
func Init(io IO) (*CPU, error) {
	if io == nil {
		return nil, InvalidState{"IO handler must not be nil"}
	}
	return &CPU{
		F:    flagUnused1,
		INTE: true,
		io:   io,
	}, nil
}

// SetROM installs the ROM map a store checks before writing to Memory.
// Boards must not mutate the map while a Step is in flight; the core reads
// it fresh on every store but performs no locking of its own.
func (c *CPU) SetROM(m memory.Map) {
	c.rom = m
}

// LoadAt copies data into Memory starting at addr, ignoring the ROM map
// (this is board setup, not a running store — see memory.Flatten for
// building a full image ahead of time instead).
func (c *CPU) LoadAt(addr uint16, data []byte) {
	copy(c.Memory[int(addr):], data)
}

// store8 writes val to addr unless addr falls within a declared ROM
// region, in which case the write is silently dropped (spec §4.1).
func (c *CPU) store8(addr uint16, val uint8) {
	if c.rom.Contains(addr) {
		return
	}
	c.Memory[addr] = val
}

// store16 writes the little-endian word val across addr and addr+1 (each
// byte independently subject to the ROM check), matching the two
// store8 calls of the original definition.
func (c *CPU) store16(addr uint16, val uint16) {
	c.store8(addr, uint8(val))
	c.store8(addr+1, uint8(val>>8))
}

func (c *CPU) load8(addr uint16) uint8 {
	return c.Memory[addr]
}

func (c *CPU) load16(addr uint16) uint16 {
	return uint16(c.Memory[addr]) | uint16(c.Memory[addr+1])<<8
}

// Step executes exactly one instruction: fetch the opcode at PC, read its
// immediate operand per the table's length, advance PC past the
// instruction, dispatch to the handler, and charge the taken or
// not-taken cycle count depending on whether the handler branched.
//
// Step is a no-op (including cycle accounting) when Stopped is true.
func (c *CPU) Step() error {
	if c.Stopped {
		return nil
	}
	op := c.Memory[c.PC]
	entry := &opcodeTable[op]
	imm := c.readImmediate(c.PC+1, entry.Length)
	c.PC += uint16(entry.Length)
	jumped := entry.Execute(c, imm)
	if jumped {
		c.UptimeCycles += uint64(entry.CyclesTaken)
	} else {
		c.UptimeCycles += uint64(entry.CyclesNotTaken)
	}
	return nil
}

// Interrupt executes the given opcode (typically an RST) as if it had just
// been fetched, provided interrupts are currently enabled; if INTE is
// false the interrupt is lost (Interrupt returns nil either way — a lost
// interrupt is not an API error, just a no-op per the 8080's own protocol).
//
// PC is advanced by the injected opcode's length *before* the handler
// runs, exactly as Step does, so an RST's internal CALL pushes the PC of
// the instruction that would have executed next. Since Interrupt is
// called between Steps, PC already holds that address; advancing it here
// by the (1-byte) RST length means the pushed return address is one byte
// past where the interrupt was actually signaled. This is the documented,
// if unusual, behavior of the reference 8080 core this was modeled on and
// boards written against it (e.g. CP/M and arcade ROMs) depend on it.
//
// Stopped is not cleared by Interrupt; a board that wants to resume a
// halted CPU on interrupt must clear Stopped itself.
func (c *CPU) Interrupt(opcode uint8, imm uint16) error {
	if !c.INTE {
		return nil
	}
	entry := &opcodeTable[opcode]
	c.PC += uint16(entry.Length)
	c.INTE = false
	if entry.Execute(c, imm) {
		c.UptimeCycles += uint64(entry.CyclesTaken)
	} else {
		c.UptimeCycles += uint64(entry.CyclesNotTaken)
	}
	return nil
}

func (c *CPU) readImmediate(addr uint16, length int) uint16 {
	switch length {
	case 2:
		return uint16(c.load8(addr))
	case 3:
		return c.load16(addr)
	default:
		return 0
	}
}

// Instruction is one row of the 256-entry opcode table: its mnemonic (for
// disassembly), its handler, its encoded length in bytes, and its
// not-taken/taken cycle counts.
type Instruction struct {
	Mnemonic       string
	Execute        func(c *CPU, imm uint16) bool
	Length         int
	CyclesNotTaken int
	CyclesTaken    int
}

// InstructionInfo returns the static table row for the given opcode. All
// 256 opcodes are defined: the seven undocumented slots 0x08-0x38 alias
// NOP, and the undocumented 0xCB, 0xD9 and 0xDD/0xED/0xFD alias JMP, RET
// and CALL with the canonical length and timing.
func InstructionInfo(opcode uint8) Instruction {
	return opcodeTable[opcode]
}
