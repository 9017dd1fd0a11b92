// Package disassemble renders the instruction at a given address as 8080
// assembly text, using the same opcode table the core executes against so
// disassembly can never drift from runtime semantics.
package disassemble

import (
	"fmt"
	"strings"

	"github.com/go8080/i8080/cpu"
)

// Step disassembles the instruction at pc, returning its text and the byte
// count to advance PC by. mem is read directly (not through the CPU's ROM
// map) since disassembly is a read-only view, never a store.
func Step(pc uint16, mem *[65536]byte) (string, int) {
	op := mem[pc]
	info := cpu.InstructionInfo(op)

	text := info.Mnemonic
	switch info.Length {
	case 2:
		d8 := mem[pc+1]
		text = strings.Replace(text, "D8", fmt.Sprintf("0x%02X", d8), 1)
	case 3:
		lo, hi := mem[pc+1], mem[pc+2]
		addr := uint16(hi)<<8 | uint16(lo)
		text = strings.Replace(text, "D16", fmt.Sprintf("0x%04X", addr), 1)
		text = strings.Replace(text, "A16", fmt.Sprintf("0x%04X", addr), 1)
	}
	return text, info.Length
}

// Range disassembles count consecutive instructions starting at pc, one
// line per instruction formatted as "addr: bytes  mnemonic".
func Range(pc uint16, mem *[65536]byte, count int) []string {
	lines := make([]string, 0, count)
	addr := pc
	for i := 0; i < count; i++ {
		text, length := Step(addr, mem)
		raw := mem[addr : addr+uint16(length)]
		hexBytes := make([]string, length)
		for j, b := range raw {
			hexBytes[j] = fmt.Sprintf("%02X", b)
		}
		lines = append(lines, fmt.Sprintf("%04X: %-8s %s", addr, strings.Join(hexBytes, " "), text))
		addr += uint16(length)
	}
	return lines
}
