// Package ioport defines the I/O port handler contract an i8080 board
// installs into the core via cpu.Init. A single-method port interface
// works fine for buses with symmetric read/write semantics, but 8080
// ports are generally not symmetric (port 3 may be a shift register read
// and port 2 the shift amount write), so Input and Output are kept as two
// independent hooks rather than one combined read/write method.
package ioport

import "github.com/go8080/i8080/cpu"

// InputFunc handles an IN instruction for the given port. Implementations
// are expected to write c.A themselves, as the IN result; the core performs
// no default.
type InputFunc func(c *cpu.CPU, port uint8)

// OutputFunc handles an OUT instruction for the given port. The byte being
// emitted is always c.A at the time of the call.
type OutputFunc func(c *cpu.CPU, port uint8)

// Pair adapts a pair of plain functions to cpu.IO, so boards can install
// closures instead of declaring a named type per board.
type Pair struct {
	InputFn  InputFunc
	OutputFn OutputFunc
}

// Input implements cpu.IO.
func (p Pair) Input(c *cpu.CPU, port uint8) {
	if p.InputFn == nil {
		return
	}
	p.InputFn(c, port)
}

// Output implements cpu.IO.
func (p Pair) Output(c *cpu.CPU, port uint8) {
	if p.OutputFn == nil {
		return
	}
	p.OutputFn(c, port)
}

// None is an I/O pair that ignores all input and output. Useful for test
// fixtures and for boards with no mapped ports.
var None = Pair{}
