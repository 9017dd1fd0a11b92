package cpu

// Every handler has the signature func(c *CPU, imm uint16) bool, matching
// Instruction.Execute: imm carries the D8/D16/A16 operand already fetched by
// Step (zero for opcodes with no immediate), and the bool return reports
// whether the instruction branched — the signal Step/Interrupt use to pick
// the not-taken or taken cycle count from the opcode table.
//
// Grouped by the 8080's own instruction classes, mirroring the table layout
// in original cpu.c: data transfer, arithmetic, logical, branch, stack/IO/
// machine control. Register-indexed members of a class (MOV B,B .. MOV A,A,
// eight ADD variants, etc.) are generated in table.go by closing over a
// regCode/regPair rather than hand-written one by one.

// --- data transfer ---

func movHandler(dst, src regCode) func(c *CPU, imm uint16) bool {
	return func(c *CPU, imm uint16) bool {
		c.write(dst, c.read(src))
		return false
	}
}

func mviHandler(dst regCode) func(c *CPU, imm uint16) bool {
	return func(c *CPU, imm uint16) bool {
		c.write(dst, uint8(imm))
		return false
	}
}

func lxiHandler(rp regPair) func(c *CPU, imm uint16) bool {
	return func(c *CPU, imm uint16) bool {
		c.writePair(rp, imm)
		return false
	}
}

func staxHandler(rp regPair) func(c *CPU, imm uint16) bool {
	return func(c *CPU, imm uint16) bool {
		c.store8(c.readPair(rp), c.A)
		return false
	}
}

func ldaxHandler(rp regPair) func(c *CPU, imm uint16) bool {
	return func(c *CPU, imm uint16) bool {
		c.A = c.load8(c.readPair(rp))
		return false
	}
}

func instructionSTA(c *CPU, imm uint16) bool {
	c.store8(imm, c.A)
	return false
}

func instructionLDA(c *CPU, imm uint16) bool {
	c.A = c.load8(imm)
	return false
}

func instructionSHLD(c *CPU, imm uint16) bool {
	c.store16(imm, c.HL())
	return false
}

func instructionLHLD(c *CPU, imm uint16) bool {
	c.SetHL(c.load16(imm))
	return false
}

func instructionXCHG(c *CPU, imm uint16) bool {
	h, l := c.H, c.L
	c.H, c.L = c.D, c.E
	c.D, c.E = h, l
	return false
}

// --- arithmetic / logical (8-bit ALU group) ---

func addHandler(src regCode) func(c *CPU, imm uint16) bool {
	return func(c *CPU, imm uint16) bool {
		lhs, rhs := c.A, c.read(src)
		res := lhs + rhs
		c.setFlags(flagsSZAPC, addFlags(lhs, rhs, res))
		c.A = res
		return false
	}
}

func adcHandler(src regCode) func(c *CPU, imm uint16) bool {
	return func(c *CPU, imm uint16) bool {
		c.A, c.F = adcCompute(c.A, c.read(src), c.F)
		return false
	}
}

func subHandler(src regCode) func(c *CPU, imm uint16) bool {
	return func(c *CPU, imm uint16) bool {
		lhs, rhs := c.A, c.read(src)
		res := lhs - rhs
		c.setFlags(flagsSZAPC, subFlags(lhs, rhs, res))
		c.A = res
		return false
	}
}

func sbbHandler(src regCode) func(c *CPU, imm uint16) bool {
	return func(c *CPU, imm uint16) bool {
		c.A, c.F = sbbCompute(c.A, c.read(src), c.F)
		return false
	}
}

func anaHandler(src regCode) func(c *CPU, imm uint16) bool {
	return func(c *CPU, imm uint16) bool {
		lhs, rhs := c.A, c.read(src)
		res := lhs & rhs
		f := szp(res)
		if carryOut(uint32(lhs), uint32(rhs), uint32(res), 3) {
			f |= FlagAC
		}
		c.setFlags(flagsSZAPC, f)
		c.A = res
		return false
	}
}

func xraHandler(src regCode) func(c *CPU, imm uint16) bool {
	return func(c *CPU, imm uint16) bool {
		res := c.A ^ c.read(src)
		c.setFlags(flagsSZAPC, szp(res))
		c.A = res
		return false
	}
}

func oraHandler(src regCode) func(c *CPU, imm uint16) bool {
	return func(c *CPU, imm uint16) bool {
		res := c.A | c.read(src)
		c.setFlags(flagsSZAPC, szp(res))
		c.A = res
		return false
	}
}

func cmpHandler(src regCode) func(c *CPU, imm uint16) bool {
	return func(c *CPU, imm uint16) bool {
		lhs, rhs := c.A, c.read(src)
		res := lhs - rhs
		c.setFlags(flagsSZAPC, subFlags(lhs, rhs, res))
		return false
	}
}

// adcCompute/sbbCompute implement the two-stage carry propagation spec §4.2
// calls for: ADC/SBB fold the incoming carry flag into the source operand
// first, charging its own carry/borrow contribution, then combine that
// with the contribution of adding/subtracting the (possibly already
// carried) source into A. The final AC/C bit is the OR of the two stages'
// contributions — not a second independent computation on the folded
// value — since a carry can only originate from one of the two additions.
func adcCompute(a, src, flagsIn uint8) (res, flagsOut uint8) {
	carryIn := flagsIn & FlagC
	src2 := src + carryIn
	stage1AC := carryOut(uint32(src), uint32(carryIn), uint32(src2), 3)
	stage1C := carryOut(uint32(src), uint32(carryIn), uint32(src2), 7)

	res = a + src2
	stage2AC := carryOut(uint32(a), uint32(src2), uint32(res), 3)
	stage2C := carryOut(uint32(a), uint32(src2), uint32(res), 7)

	f := szp(res)
	if stage1AC || stage2AC {
		f |= FlagAC
	}
	if stage1C || stage2C {
		f |= FlagC
	}
	return res, flagsIn&^flagsSZAPC | f
}

func sbbCompute(a, src, flagsIn uint8) (res, flagsOut uint8) {
	carryIn := flagsIn & FlagC
	src2 := src + carryIn
	stage1AC := carryOut(uint32(src), uint32(carryIn), uint32(src2), 3)
	stage1borrow := carryOut(uint32(src), uint32(carryIn), uint32(src2), 7)

	res = a - src2
	stage2AC := carryOut(uint32(a), uint32(^src2), uint32(res), 3)
	stage2borrow := !carryOut(uint32(a), uint32(^src2), uint32(res), 7)

	f := szp(res)
	if stage1AC || stage2AC {
		f |= FlagAC
	}
	if stage1borrow || stage2borrow {
		f |= FlagC
	}
	return res, flagsIn&^flagsSZAPC | f
}

func instructionADI(c *CPU, imm uint16) bool {
	lhs, rhs := c.A, uint8(imm)
	res := lhs + rhs
	c.setFlags(flagsSZAPC, addFlags(lhs, rhs, res))
	c.A = res
	return false
}

func instructionACI(c *CPU, imm uint16) bool {
	c.A, c.F = adcCompute(c.A, uint8(imm), c.F)
	return false
}

func instructionSUI(c *CPU, imm uint16) bool {
	lhs, rhs := c.A, uint8(imm)
	res := lhs - rhs
	c.setFlags(flagsSZAPC, subFlags(lhs, rhs, res))
	c.A = res
	return false
}

func instructionSBI(c *CPU, imm uint16) bool {
	c.A, c.F = sbbCompute(c.A, uint8(imm), c.F)
	return false
}

func instructionANI(c *CPU, imm uint16) bool {
	lhs, rhs := c.A, uint8(imm)
	res := lhs & rhs
	f := szp(res)
	if carryOut(uint32(lhs), uint32(rhs), uint32(res), 3) {
		f |= FlagAC
	}
	c.setFlags(flagsSZAPC, f)
	c.A = res
	return false
}

func instructionXRI(c *CPU, imm uint16) bool {
	res := c.A ^ uint8(imm)
	c.setFlags(flagsSZAPC, szp(res))
	c.A = res
	return false
}

func instructionORI(c *CPU, imm uint16) bool {
	res := c.A | uint8(imm)
	c.setFlags(flagsSZAPC, szp(res))
	c.A = res
	return false
}

func instructionCPI(c *CPU, imm uint16) bool {
	lhs, rhs := c.A, uint8(imm)
	res := lhs - rhs
	c.setFlags(flagsSZAPC, subFlags(lhs, rhs, res))
	return false
}

// inrHandler/dcrHandler operate on an arbitrary byte cell (register or the M pseudo-
// register) via read/write so INR M and DCR M share the same flag logic as
// their register forms, matching i8080_cpu_instruction_inr/dcr taking a
// pointer in the original.
func inrHandler(dst regCode) func(c *CPU, imm uint16) bool {
	return func(c *CPU, imm uint16) bool {
		before := c.read(dst)
		res := before + 1
		f := szp(res)
		if carryOut(uint32(before), 1, uint32(res), 3) {
			f |= FlagAC
		}
		c.setFlags(FlagS|FlagZ|FlagAC|FlagP, f)
		c.write(dst, res)
		return false
	}
}

func dcrHandler(dst regCode) func(c *CPU, imm uint16) bool {
	return func(c *CPU, imm uint16) bool {
		before := c.read(dst)
		res := before - 1
		f := szp(res)
		if carryOut(uint32(before), uint32(^uint8(1)), uint32(res), 3) {
			f |= FlagAC
		}
		c.setFlags(FlagS|FlagZ|FlagAC|FlagP, f)
		c.write(dst, res)
		return false
	}
}

func inxHandler(rp regPair) func(c *CPU, imm uint16) bool {
	return func(c *CPU, imm uint16) bool {
		c.writePair(rp, c.readPair(rp)+1)
		return false
	}
}

func dcxHandler(rp regPair) func(c *CPU, imm uint16) bool {
	return func(c *CPU, imm uint16) bool {
		c.writePair(rp, c.readPair(rp)-1)
		return false
	}
}

func dadHandler(rp regPair) func(c *CPU, imm uint16) bool {
	return func(c *CPU, imm uint16) bool {
		lhs, rhs := c.HL(), c.readPair(rp)
		sum := lhs + rhs
		var f uint8
		if carryOut(uint32(lhs), uint32(rhs), uint32(sum), 15) {
			f = FlagC
		}
		c.setFlags(FlagC, f)
		c.SetHL(sum)
		return false
	}
}

// --- rotates ---

func instructionRLC(c *CPU, imm uint16) bool {
	carry := c.A >> 7
	c.setFlags(FlagC, carry)
	c.A = c.A<<1 | carry
	return false
}

func instructionRRC(c *CPU, imm uint16) bool {
	carry := c.A & 1
	c.setFlags(FlagC, carry)
	c.A = c.A>>1 | carry<<7
	return false
}

func instructionRAL(c *CPU, imm uint16) bool {
	lsbit := c.F & FlagC
	carry := c.A >> 7
	c.setFlags(FlagC, carry)
	c.A = c.A<<1 | lsbit
	return false
}

func instructionRAR(c *CPU, imm uint16) bool {
	msbit := (c.F & FlagC) << 7
	carry := c.A & 1
	c.setFlags(FlagC, carry)
	c.A = c.A>>1 | msbit
	return false
}

// --- machine control / misc ---

func instructionNOP(c *CPU, imm uint16) bool { return false }

func instructionHLT(c *CPU, imm uint16) bool {
	c.Stopped = true
	return false
}

func instructionCMA(c *CPU, imm uint16) bool {
	c.A = ^c.A
	return false
}

func instructionSTC(c *CPU, imm uint16) bool {
	c.setFlags(FlagC, FlagC)
	return false
}

func instructionCMC(c *CPU, imm uint16) bool {
	c.setFlags(FlagC, ^c.F)
	return false
}

func instructionDI(c *CPU, imm uint16) bool {
	c.INTE = false
	return false
}

func instructionEI(c *CPU, imm uint16) bool {
	c.INTE = true
	return false
}

// instructionDAA re-derives the low nibble of A in place, as the 8080's
// decimal-adjust microcode does, then tests the (possibly just-updated)
// high nibble against the same threshold — so a low-nibble carry can push
// the high-nibble branch to fire on the same instruction.
func instructionDAA(c *CPU, imm uint16) bool {
	a := c.A
	var f uint8

	lowBefore := a
	if a&0x0F > 9 || c.F&FlagAC != 0 {
		res := a + 6
		if carryOut(uint32(lowBefore), 6, uint32(res), 3) {
			f |= FlagAC
		}
		a = res
	}

	if a>>4 > 9 || c.F&FlagC != 0 {
		a = a + 0x60
		f |= FlagC
	}
	f |= szp(a) &^ (FlagAC | FlagC)

	c.setFlags(flagsSZAPC, f)
	c.A = a
	return false
}

func instructionSPHL(c *CPU, imm uint16) bool {
	c.SP = c.HL()
	return false
}

func instructionPCHL(c *CPU, imm uint16) bool {
	c.PC = c.HL()
	return true
}

func instructionXTHL(c *CPU, imm uint16) bool {
	top := c.load16(c.SP)
	c.store16(c.SP, c.HL())
	c.SetHL(top)
	return false
}

// --- stack, branch, I/O ---

func pushHandler(rp regPair) func(c *CPU, imm uint16) bool {
	return func(c *CPU, imm uint16) bool {
		c.SP -= 2
		c.store16(c.SP, c.readPair(rp))
		return false
	}
}

func popHandler(rp regPair) func(c *CPU, imm uint16) bool {
	return func(c *CPU, imm uint16) bool {
		c.writePair(rp, c.load16(c.SP))
		c.SP += 2
		return false
	}
}

func instructionPUSHPSW(c *CPU, imm uint16) bool {
	c.SP -= 2
	c.store16(c.SP, c.PSW())
	return false
}

func instructionPOPPSW(c *CPU, imm uint16) bool {
	c.SetPSW(c.load16(c.SP))
	c.SP += 2
	return false
}

func instructionRET(c *CPU, imm uint16) bool {
	c.PC = c.load16(c.SP)
	c.SP += 2
	return true
}

func rcondHandler(test func(f uint8) bool) func(c *CPU, imm uint16) bool {
	return func(c *CPU, imm uint16) bool {
		if test(c.F) {
			return instructionRET(c, imm)
		}
		return false
	}
}

func instructionJMP(c *CPU, imm uint16) bool {
	c.PC = imm
	return true
}

func jcondHandler(test func(f uint8) bool) func(c *CPU, imm uint16) bool {
	return func(c *CPU, imm uint16) bool {
		if test(c.F) {
			return instructionJMP(c, imm)
		}
		return false
	}
}

func instructionCALL(c *CPU, imm uint16) bool {
	c.SP -= 2
	c.store16(c.SP, c.PC)
	c.PC = imm
	return true
}

func ccondHandler(test func(f uint8) bool) func(c *CPU, imm uint16) bool {
	return func(c *CPU, imm uint16) bool {
		if test(c.F) {
			return instructionCALL(c, imm)
		}
		return false
	}
}

func rstHandler(addr uint16) func(c *CPU, imm uint16) bool {
	return func(c *CPU, imm uint16) bool {
		return instructionCALL(c, addr)
	}
}

func instructionOUT(c *CPU, imm uint16) bool {
	c.io.Output(c, uint8(imm))
	return false
}

func instructionIN(c *CPU, imm uint16) bool {
	c.io.Input(c, uint8(imm))
	return false
}

// Condition predicates, shared by the Rcc/Jcc/Ccc families.
func condNZ(f uint8) bool { return f&FlagZ == 0 }
func condZ(f uint8) bool  { return f&FlagZ != 0 }
func condNC(f uint8) bool { return f&FlagC == 0 }
func condC(f uint8) bool  { return f&FlagC != 0 }
func condPO(f uint8) bool { return f&FlagP == 0 }
func condPE(f uint8) bool { return f&FlagP != 0 }
func condP(f uint8) bool  { return f&FlagS == 0 }
func condM(f uint8) bool  { return f&FlagS != 0 }
