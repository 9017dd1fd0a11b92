package cpu

// opcodeTable is the 256-entry instruction table, built once at package
// init. The seven undocumented NOP slots (0x08/0x10/0x18/0x20/0x28/0x30/
// 0x38) and the undocumented JMP/RET/CALL aliases (0xCB, 0xD9,
// 0xDD/0xED/0xFD) are filled with the exact mnemonic, handler, and
// timing of the canonical opcode they shadow, matching silicon behavior
// documented for the part and reproduced in the reference core this table
// is transcribed from.
var opcodeTable [256]Instruction

func init() {
	// --- data transfer: MOV (0x40-0x7F), minus 0x76 which is HLT ---
	regs := [8]regCode{regB, regC, regD, regE, regH, regL, regM, regA}
	names := [8]string{"B", "C", "D", "E", "H", "L", "M", "A"}
	for dstIdx, dst := range regs {
		for srcIdx, src := range regs {
			op := uint8(0x40 + dstIdx*8 + srcIdx)
			if op == 0x76 {
				continue // HLT, set explicitly below
			}
			cycles := 5
			if dst == regM || src == regM {
				cycles = 7
			}
			opcodeTable[op] = Instruction{
				Mnemonic:       "MOV " + names[dstIdx] + " " + names[srcIdx],
				Execute:        movHandler(dst, src),
				Length:         1,
				CyclesNotTaken: cycles,
			}
		}
	}

	// --- 8-bit ALU group (0x80-0xBF): ADD ADC SUB SBB ANA XRA ORA CMP ---
	type aluGroup struct {
		base uint8
		name string
		ctor func(regCode) func(c *CPU, imm uint16) bool
	}
	groups := []aluGroup{
		{0x80, "ADD", addHandler},
		{0x88, "ADC", adcHandler},
		{0x90, "SUB", subHandler},
		{0x98, "SBB", sbbHandler},
		{0xA0, "ANA", anaHandler},
		{0xA8, "XRA", xraHandler},
		{0xB0, "ORA", oraHandler},
		{0xB8, "CMP", cmpHandler},
	}
	for _, g := range groups {
		for i, src := range regs {
			op := g.base + uint8(i)
			cycles := 4
			if src == regM {
				cycles = 7
			}
			opcodeTable[op] = Instruction{
				Mnemonic:       g.name + " " + names[i],
				Execute:        g.ctor(src),
				Length:         1,
				CyclesNotTaken: cycles,
			}
		}
	}

	// --- MVI (0x06,0x0E,...,0x3E stepping by 8) ---
	for i, dst := range regs {
		op := uint8(0x06 + i*8)
		cycles := 7
		if dst == regM {
			cycles = 10
		}
		opcodeTable[op] = Instruction{
			Mnemonic:       "MVI " + names[i] + " D8",
			Execute:        mviHandler(dst),
			Length:         2,
			CyclesNotTaken: cycles,
		}
	}

	// --- INR/DCR (0x04,0x0C,...,0x3C and 0x05,0x0D,...,0x3D) ---
	for i, dst := range regs {
		inrOp := uint8(0x04 + i*8)
		dcrOp := uint8(0x05 + i*8)
		cycles := 5
		if dst == regM {
			cycles = 10
		}
		opcodeTable[inrOp] = Instruction{
			Mnemonic:       "INR " + names[i],
			Execute:        inrHandler(dst),
			Length:         1,
			CyclesNotTaken: cycles,
		}
		opcodeTable[dcrOp] = Instruction{
			Mnemonic:       "DCR " + names[i],
			Execute:        dcrHandler(dst),
			Length:         1,
			CyclesNotTaken: cycles,
		}
	}

	// --- register-pair ops: LXI, INX, DCX, DAD, STAX/LDAX, PUSH/POP ---
	pairs := [4]regPair{rpBC, rpDE, rpHL, rpSP}
	pairNames := [4]string{"B", "D", "H", "SP"}
	for i, rp := range pairs {
		lxiOp := uint8(0x01 + i*0x10)
		inxOp := uint8(0x03 + i*0x10)
		dcxOp := uint8(0x0B + i*0x10)
		dadOp := uint8(0x09 + i*0x10)
		opcodeTable[lxiOp] = Instruction{
			Mnemonic:       "LXI " + pairNames[i] + " D16",
			Execute:        lxiHandler(rp),
			Length:         3,
			CyclesNotTaken: 10,
		}
		opcodeTable[inxOp] = Instruction{
			Mnemonic:       "INX " + pairNames[i],
			Execute:        inxHandler(rp),
			Length:         1,
			CyclesNotTaken: 5,
		}
		opcodeTable[dcxOp] = Instruction{
			Mnemonic:       "DCX " + pairNames[i],
			Execute:        dcxHandler(rp),
			Length:         1,
			CyclesNotTaken: 5,
		}
		opcodeTable[dadOp] = Instruction{
			Mnemonic:       "DAD " + pairNames[i],
			Execute:        dadHandler(rp),
			Length:         1,
			CyclesNotTaken: 10,
		}
	}
	for i, rp := range [2]regPair{rpBC, rpDE} {
		staxOp := uint8(0x02 + i*0x10)
		ldaxOp := uint8(0x0A + i*0x10)
		opcodeTable[staxOp] = Instruction{
			Mnemonic:       "STAX " + pairNames[i],
			Execute:        staxHandler(rp),
			Length:         1,
			CyclesNotTaken: 7,
		}
		opcodeTable[ldaxOp] = Instruction{
			Mnemonic:       "LDAX " + pairNames[i],
			Execute:        ldaxHandler(rp),
			Length:         1,
			CyclesNotTaken: 7,
		}
	}
	pushPopPairs := [4]regPair{rpBC, rpDE, rpHL, rpSP /* unused for PSW row */}
	pushPopNames := [4]string{"B", "D", "H", "PSW"}
	for i := 0; i < 3; i++ {
		pushOp := uint8(0xC5 + i*0x10)
		popOp := uint8(0xC1 + i*0x10)
		opcodeTable[pushOp] = Instruction{
			Mnemonic:       "PUSH " + pushPopNames[i],
			Execute:        pushHandler(pushPopPairs[i]),
			Length:         1,
			CyclesNotTaken: 11,
		}
		opcodeTable[popOp] = Instruction{
			Mnemonic:       "POP " + pushPopNames[i],
			Execute:        popHandler(pushPopPairs[i]),
			Length:         1,
			CyclesNotTaken: 10,
		}
	}
	opcodeTable[0xF5] = Instruction{
		Mnemonic:       "PUSH PSW",
		Execute:        instructionPUSHPSW,
		Length:         1,
		CyclesNotTaken: 11,
	}
	opcodeTable[0xF1] = Instruction{
		Mnemonic:       "POP PSW",
		Execute:        instructionPOPPSW,
		Length:         1,
		CyclesNotTaken: 10,
	}

	// --- ALU immediate group ---
	type immOp struct {
		op   uint8
		name string
		fn   func(c *CPU, imm uint16) bool
	}
	for _, e := range []immOp{
		{0xC6, "ADI D8", instructionADI},
		{0xCE, "ACI D8", instructionACI},
		{0xD6, "SUI D8", instructionSUI},
		{0xDE, "SBI D8", instructionSBI},
		{0xE6, "ANI D8", instructionANI},
		{0xEE, "XRI D8", instructionXRI},
		{0xF6, "ORI D8", instructionORI},
		{0xFE, "CPI D8", instructionCPI},
	} {
		opcodeTable[e.op] = Instruction{
			Mnemonic:       e.name,
			Execute:        e.fn,
			Length:         2,
			CyclesNotTaken: 7,
		}
	}

	// --- rotates, DAA, CMA, STC, CMC, NOP, HLT, DI, EI, XCHG, XTHL, PCHL, SPHL ---
	for _, e := range []immOp{
		{0x07, "RLC", instructionRLC},
		{0x0F, "RRC", instructionRRC},
		{0x17, "RAL", instructionRAL},
		{0x1F, "RAR", instructionRAR},
		{0x27, "DAA", instructionDAA},
		{0x2F, "CMA", instructionCMA},
		{0x37, "STC", instructionSTC},
		{0x3F, "CMC", instructionCMC},
		{0xEB, "XCHG", instructionXCHG},
		{0xE3, "XTHL", instructionXTHL},
		{0xE9, "PCHL", instructionPCHL},
		{0xF9, "SPHL", instructionSPHL},
		{0xF3, "DI", instructionDI},
		{0xFB, "EI", instructionEI},
	} {
		opcodeTable[e.op] = Instruction{
			Mnemonic:       e.name,
			Execute:        e.fn,
			Length:         1,
			CyclesNotTaken: 4,
		}
	}
	opcodeTable[0xEB].CyclesNotTaken = 5  // XCHG
	opcodeTable[0xE3].CyclesNotTaken = 18 // XTHL
	opcodeTable[0xF9].CyclesNotTaken = 5  // SPHL
	opcodeTable[0xE9] = Instruction{Mnemonic: "PCHL", Execute: instructionPCHL, Length: 1, CyclesTaken: 5}

	opcodeTable[0x00] = Instruction{Mnemonic: "NOP", Execute: instructionNOP, Length: 1, CyclesNotTaken: 4}
	opcodeTable[0x76] = Instruction{Mnemonic: "HLT", Execute: instructionHLT, Length: 1, CyclesNotTaken: 7}

	// --- direct-address data transfer ---
	opcodeTable[0x22] = Instruction{Mnemonic: "SHLD A16", Execute: instructionSHLD, Length: 3, CyclesNotTaken: 16}
	opcodeTable[0x2A] = Instruction{Mnemonic: "LHLD A16", Execute: instructionLHLD, Length: 3, CyclesNotTaken: 16}
	opcodeTable[0x32] = Instruction{Mnemonic: "STA A16", Execute: instructionSTA, Length: 3, CyclesNotTaken: 13}
	opcodeTable[0x3A] = Instruction{Mnemonic: "LDA A16", Execute: instructionLDA, Length: 3, CyclesNotTaken: 13}

	// --- unconditional control transfer ---
	opcodeTable[0xC3] = Instruction{Mnemonic: "JMP A16", Execute: instructionJMP, Length: 3, CyclesTaken: 10}
	opcodeTable[0xC9] = Instruction{Mnemonic: "RET", Execute: instructionRET, Length: 1, CyclesTaken: 10}
	opcodeTable[0xCD] = Instruction{Mnemonic: "CALL A16", Execute: instructionCALL, Length: 3, CyclesTaken: 17}

	// --- conditional JMP/CALL/RET families, in condition-bit order NZ Z NC C PO PE P M ---
	type condEntry struct {
		test func(uint8) bool
		name string
	}
	conds := [8]condEntry{
		{condNZ, "NZ"}, {condZ, "Z"}, {condNC, "NC"}, {condC, "C"},
		{condPO, "PO"}, {condPE, "PE"}, {condP, "P"}, {condM, "M"},
	}
	for i, ce := range conds {
		jOp := uint8(0xC2 + i*0x08)
		cOp := uint8(0xC4 + i*0x08)
		rOp := uint8(0xC0 + i*0x08)
		opcodeTable[jOp] = Instruction{
			Mnemonic:       "J" + ce.name + " A16",
			Execute:        jcondHandler(ce.test),
			Length:         3,
			CyclesNotTaken: 10,
			CyclesTaken:    10,
		}
		opcodeTable[cOp] = Instruction{
			Mnemonic:       "C" + ce.name + " A16",
			Execute:        ccondHandler(ce.test),
			Length:         3,
			CyclesNotTaken: 11,
			CyclesTaken:    17,
		}
		opcodeTable[rOp] = Instruction{
			Mnemonic:       "R" + ce.name,
			Execute:        rcondHandler(ce.test),
			Length:         1,
			CyclesNotTaken: 5,
			CyclesTaken:    11,
		}
	}

	// --- RST 0-7 ---
	for n := uint8(0); n < 8; n++ {
		op := RSTOpcode(n)
		opcodeTable[op] = Instruction{
			Mnemonic:    "RST " + string(rune('0'+n)),
			Execute:     rstHandler(uint16(n) * 8),
			Length:      1,
			CyclesTaken: 11,
		}
	}

	// --- I/O ---
	opcodeTable[0xD3] = Instruction{Mnemonic: "OUT D8", Execute: instructionOUT, Length: 2, CyclesNotTaken: 10}
	opcodeTable[0xDB] = Instruction{Mnemonic: "IN D8", Execute: instructionIN, Length: 2, CyclesNotTaken: 10}

	// --- undocumented opcodes: alias NOP or the canonical RET/CALL/JMP they shadow ---
	for _, op := range []uint8{0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38} {
		opcodeTable[op] = Instruction{Mnemonic: "NOP", Execute: instructionNOP, Length: 1, CyclesNotTaken: 4}
	}
	opcodeTable[0xCB] = Instruction{Mnemonic: "JMP A16", Execute: instructionJMP, Length: 3, CyclesTaken: 10}
	opcodeTable[0xD9] = Instruction{Mnemonic: "RET", Execute: instructionRET, Length: 1, CyclesTaken: 10}
	for _, op := range []uint8{0xDD, 0xED, 0xFD} {
		opcodeTable[op] = Instruction{Mnemonic: "CALL A16", Execute: instructionCALL, Length: 3, CyclesTaken: 17}
	}
}
