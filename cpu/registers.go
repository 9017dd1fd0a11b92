package cpu

// Register pairs alias the byte registers under little-endian packing:
// pair value = (high << 8) | low. Writing a byte register and reading the
// owning pair (or vice versa) observes the same bits — there's no separate
// storage to keep in sync since the pair accessors read/write the byte
// fields directly (strategy (b) from spec §9: byte storage, pair
// accessors pack/unpack on the fly).

// BC returns the 16-bit pair (B<<8 | C).
func (c *CPU) BC() uint16 { return uint16(c.B)<<8 | uint16(c.C) }

// SetBC writes v across B (high byte) and C (low byte).
func (c *CPU) SetBC(v uint16) {
	c.B = uint8(v >> 8)
	c.C = uint8(v)
}

// DE returns the 16-bit pair (D<<8 | E).
func (c *CPU) DE() uint16 { return uint16(c.D)<<8 | uint16(c.E) }

// SetDE writes v across D (high byte) and E (low byte).
func (c *CPU) SetDE(v uint16) {
	c.D = uint8(v >> 8)
	c.E = uint8(v)
}

// HL returns the 16-bit pair (H<<8 | L).
func (c *CPU) HL() uint16 { return uint16(c.H)<<8 | uint16(c.L) }

// SetHL writes v across H (high byte) and L (low byte).
func (c *CPU) SetHL(v uint16) {
	c.H = uint8(v >> 8)
	c.L = uint8(v)
}

// PSW returns the program status word (A<<8 | F).
func (c *CPU) PSW() uint16 { return uint16(c.A)<<8 | uint16(c.F) }

// SetPSW writes v across A (high byte) and F (low byte), masking F down
// to the five live flag bits plus the forced always-one reserved bit —
// the restore behavior POP PSW requires (spec §3.2).
func (c *CPU) SetPSW(v uint16) {
	c.A = uint8(v >> 8)
	c.F = uint8(v)&flagsSZAPC | flagUnused1
}

// regCode enumerates the 8080's 3-bit register field encoding, shared by
// MOV, the 8-bit ALU group, INR/DCR, and MVI: 000=B 001=C 010=D 011=E
// 100=H 101=L 110=M (memory at HL) 111=A.
type regCode uint8

const (
	regB regCode = iota
	regC
	regD
	regE
	regH
	regL
	regM
	regA
)

// read returns the value of the register (or memory cell, for regM)
// named by code.
func (c *CPU) read(code regCode) uint8 {
	switch code {
	case regB:
		return c.B
	case regC:
		return c.C
	case regD:
		return c.D
	case regE:
		return c.E
	case regH:
		return c.H
	case regL:
		return c.L
	case regM:
		return c.load8(c.HL())
	default: // regA
		return c.A
	}
}

// write stores val into the register (or memory cell, for regM) named by
// code. Writes to regM go through store8 and so honor the ROM map.
func (c *CPU) write(code regCode, val uint8) {
	switch code {
	case regB:
		c.B = val
	case regC:
		c.C = val
	case regD:
		c.D = val
	case regE:
		c.E = val
	case regH:
		c.H = val
	case regL:
		c.L = val
	case regM:
		c.store8(c.HL(), val)
	default: // regA
		c.A = val
	}
}

// regPair enumerates the 2-bit register-pair field encoding used by
// LXI/INX/DCX/DAD/PUSH/POP (the last substitutes PSW for SP as rp==3 for
// PUSH/POP specifically, handled by the caller).
type regPair uint8

const (
	rpBC regPair = iota
	rpDE
	rpHL
	rpSP
)

func (c *CPU) readPair(rp regPair) uint16 {
	switch rp {
	case rpBC:
		return c.BC()
	case rpDE:
		return c.DE()
	case rpHL:
		return c.HL()
	default:
		return c.SP
	}
}

func (c *CPU) writePair(rp regPair, v uint16) {
	switch rp {
	case rpBC:
		c.SetBC(v)
	case rpDE:
		c.SetDE(v)
	case rpHL:
		c.SetHL(v)
	default:
		c.SP = v
	}
}
