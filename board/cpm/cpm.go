// Package cpm boards an i8080 core the way CP/M boots a .COM file: loaded
// at 0x0100, with a one-instruction BDOS stub patched in at 0x0005 so a
// CALL 5 returns immediately once the board has served the console
// function the caller asked for.
//
// Grounded in original_source/src/i8080/cpm.c and board/cpm.c: setup loads
// the file and patches the BDOS entry point; Run checks PC once per loop
// iteration, before Step executes the instruction there, calling poll at
// PC==5 for the two console BDOS functions this board implements (C_WRITE
// and C_WRITESTR) and stopping at PC==0, the CP/M warm-boot convention for
// "program exited".
package cpm

import (
	"fmt"
	"io"

	"github.com/go8080/i8080/cpu"
	"github.com/go8080/i8080/ioport"
)

const (
	bdosEntry  = 0x0005
	loadOffset = 0x0100

	// bdosConsoleOutput (C=2) prints the single character in E.
	bdosConsoleOutput = 2
	// bdosPrintString (C=9) prints the '$'-terminated buffer at DE.
	bdosPrintString = 9
)

// Board runs one CP/M transient program against the core, serving just
// enough of the BDOS console API (functions 2 and 9) for text-mode test
// programs — the BDOS0/BIOS/disk functions a real CP/M system call
// dispatcher would also provide are out of scope (see spec Non-goals).
type Board struct {
	CPU *cpu.CPU
	Out io.Writer
}

// New builds a Board with com loaded at 0x0100 and PC set to the CP/M
// transient program entry point. Output from BDOS console calls is written
// to out.
func New(com []byte, out io.Writer) (*Board, error) {
	c, err := cpu.Init(ioport.None)
	if err != nil {
		return nil, err
	}
	c.Memory[bdosEntry] = 0xC9 // RET: the only BDOS behavior this stub needs once poll has served the call.
	c.PC = loadOffset
	c.LoadAt(loadOffset, com)

	return &Board{CPU: c, Out: out}, nil
}

// Run steps the core until the program warm-boots (jumps to address 0) or
// executes HLT.
func (b *Board) Run() error {
	for !b.CPU.Stopped {
		if b.CPU.PC == 0 {
			b.CPU.Stopped = true
			break
		}
		if b.CPU.PC == bdosEntry {
			b.poll()
		}
		if err := b.CPU.Step(); err != nil {
			return err
		}
	}
	return nil
}

func (b *Board) poll() {
	switch b.CPU.C {
	case bdosConsoleOutput:
		fmt.Fprintf(b.Out, "%c", b.CPU.E)
	case bdosPrintString:
		addr := b.CPU.DE()
		for {
			ch := b.CPU.Memory[addr]
			if ch == '$' {
				return
			}
			fmt.Fprintf(b.Out, "%c", ch)
			addr++
		}
	}
}
