package cpu

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-test/deep"

	"github.com/go8080/i8080/memory"
)

func newTestCPU(t *testing.T) *CPU {
	t.Helper()
	c, err := Init(ioportNoneForTest{})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	return c
}

// ioportNoneForTest avoids importing the ioport package from cpu's own
// tests (which would be a needless cross-package dependency for a no-op).
type ioportNoneForTest struct{}

func (ioportNoneForTest) Input(c *CPU, port uint8)  {}
func (ioportNoneForTest) Output(c *CPU, port uint8) {}

func load(c *CPU, at uint16, bytes ...uint8) {
	for i, b := range bytes {
		c.Memory[int(at)+i] = b
	}
}

// --- §8.1 invariants ---

func TestResetState(t *testing.T) {
	c := newTestCPU(t)
	if c.F != flagUnused1 {
		t.Errorf("F on reset = %#02x, want only the forced-one reserved bit (%#02x)", c.F, flagUnused1)
	}
	if !c.INTE {
		t.Error("INTE should be true after Init")
	}
	if c.PC != 0 || c.SP != 0 {
		t.Errorf("PC/SP on reset = %#04x/%#04x, want 0/0", c.PC, c.SP)
	}
}

func TestReservedFlagBitsAlwaysReadFixed(t *testing.T) {
	c := newTestCPU(t)
	// Drive a flag-updating instruction (INR A) and confirm the reserved
	// bits keep their documented fixed values.
	load(c, 0, 0x3C) // INR A
	c.Step()
	if c.F&flagUnused1 == 0 {
		t.Error("bit 1 should always read 1")
	}
	if c.F&(1<<3) != 0 || c.F&(1<<5) != 0 {
		t.Error("bits 3 and 5 should always read 0")
	}
}

func TestPCAdvancesByInstructionLength(t *testing.T) {
	tests := []struct {
		name string
		op   uint8
		want uint16
	}{
		{"NOP", 0x00, 1},
		{"MVI B D8", 0x06, 2},
		{"LXI B D16", 0x01, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestCPU(t)
			load(c, 0, tc.op, 0, 0)
			if err := c.Step(); err != nil {
				t.Fatalf("Step: %v", err)
			}
			if c.PC != tc.want {
				t.Errorf("PC after %s = %#04x, want %#04x", tc.name, c.PC, tc.want)
			}
		})
	}
}

func TestCyclesChargeTakenBranch(t *testing.T) {
	c := newTestCPU(t)
	// JNZ with Z clear takes the branch.
	load(c, 0, 0xC2, 0x10, 0x00) // JNZ 0x0010
	c.F &^= FlagZ
	if err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.UptimeCycles != 10 {
		t.Errorf("cycles after taken JNZ = %d, want 10", c.UptimeCycles)
	}
	if c.PC != 0x0010 {
		t.Errorf("PC after taken JNZ = %#04x, want 0x0010", c.PC)
	}
}

func TestParityFlagIsEvenParityOfResult(t *testing.T) {
	c := newTestCPU(t)
	c.A = 0x00
	load(c, 0, 0xC6, 0x03) // ADI 3 -> 0x03, two one-bits: even parity, P should set
	c.Step()
	if c.F&FlagP == 0 {
		t.Errorf("P clear for result 0x03 (even parity), F=%#02x", c.F)
	}

	c = newTestCPU(t)
	c.A = 0x00
	load(c, 0, 0xC6, 0x01) // ADI 1 -> 0x01, one one-bit: odd parity, P should clear
	c.Step()
	if c.F&FlagP != 0 {
		t.Errorf("P set for result 0x01 (odd parity), F=%#02x", c.F)
	}
}

func TestRegisterPairAliasing(t *testing.T) {
	c := newTestCPU(t)
	c.SetBC(0x1234)
	if c.B != 0x12 || c.C != 0x34 {
		t.Errorf("B/C after SetBC(0x1234) = %#02x/%#02x, want 0x12/0x34", c.B, c.C)
	}
	c.B, c.C = 0xAB, 0xCD
	if c.BC() != 0xABCD {
		t.Errorf("BC() = %#04x, want 0xABCD", c.BC())
	}
}

func TestROMWriteProtection(t *testing.T) {
	c := newTestCPU(t)
	rom, err := memory.NewMap(memory.Region{Begin: 0x0000, End: 0x2000})
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	c.SetROM(rom)
	c.Memory[0x1000] = 0xAA
	load(c, 0, 0x3E, 0x55) // MVI A, 0x55
	c.Step()
	load(c, 2, 0x32, 0x00, 0x10) // STA 0x1000
	c.Step()
	if c.Memory[0x1000] != 0xAA {
		t.Errorf("write to ROM region landed: Memory[0x1000] = %#02x, want unchanged 0xAA", c.Memory[0x1000])
	}
}

func TestStoppedStepIsNoOp(t *testing.T) {
	c := newTestCPU(t)
	load(c, 0, 0x76) // HLT
	c.Step()
	if !c.Stopped {
		t.Fatal("CPU should be stopped after HLT")
	}
	before := *c
	if err := c.Step(); err != nil {
		t.Fatalf("Step while stopped returned error: %v", err)
	}
	if diff := deep.Equal(before, *c); diff != nil {
		t.Errorf("state changed across a stopped Step: %v\nbefore=%s\nafter=%s", diff, spew.Sdump(before), spew.Sdump(*c))
	}
}

// --- §8.2 round-trip laws ---

func TestPushPopRoundTrip(t *testing.T) {
	c := newTestCPU(t)
	c.SP = 0xFF00
	c.SetBC(0xBEEF)
	load(c, 0, 0xC5) // PUSH B
	c.Step()
	c.SetBC(0x0000)
	load(c, 1, 0xC1) // POP B
	c.Step()
	if c.BC() != 0xBEEF {
		t.Errorf("BC after PUSH/POP round trip = %#04x, want 0xBEEF", c.BC())
	}
}

func TestXchgIsItsOwnInverse(t *testing.T) {
	c := newTestCPU(t)
	c.SetHL(0x1111)
	c.SetDE(0x2222)
	load(c, 0, 0xEB, 0xEB) // XCHG twice
	c.Step()
	c.Step()
	if c.HL() != 0x1111 || c.DE() != 0x2222 {
		t.Errorf("HL/DE after double XCHG = %#04x/%#04x, want original 0x1111/0x2222", c.HL(), c.DE())
	}
}

func TestXthlSwapsHLWithStackTop(t *testing.T) {
	c := newTestCPU(t)
	c.SP = 0x2000
	c.store16(0x2000, 0xABCD)
	c.SetHL(0x1234)
	load(c, 0, 0xE3) // XTHL
	c.Step()
	if c.HL() != 0xABCD {
		t.Errorf("HL after XTHL = %#04x, want 0xABCD", c.HL())
	}
	if got := c.load16(0x2000); got != 0x1234 {
		t.Errorf("stack top after XTHL = %#04x, want 0x1234", got)
	}
}

func TestCmaTwiceIsIdentity(t *testing.T) {
	c := newTestCPU(t)
	c.A = 0x5A
	load(c, 0, 0x2F, 0x2F) // CMA CMA
	c.Step()
	c.Step()
	if c.A != 0x5A {
		t.Errorf("A after double CMA = %#02x, want 0x5A", c.A)
	}
}

func TestCmcTwiceIsIdentity(t *testing.T) {
	c := newTestCPU(t)
	c.F |= FlagC
	load(c, 0, 0x3F, 0x3F) // CMC CMC
	c.Step()
	c.Step()
	if c.F&FlagC == 0 {
		t.Error("C flag after double CMC should be back to set")
	}
}

func TestEiDiRoundTrip(t *testing.T) {
	c := newTestCPU(t)
	load(c, 0, 0xF3, 0xFB) // DI EI
	c.Step()
	if c.INTE {
		t.Error("INTE should be false right after DI")
	}
	c.Step()
	if !c.INTE {
		t.Error("INTE should be true again after EI")
	}
}

// --- §8.3 boundary cases ---

func TestInrDcrWrapAround(t *testing.T) {
	c := newTestCPU(t)
	c.A = 0xFF
	load(c, 0, 0x3C) // INR A
	c.Step()
	if c.A != 0x00 {
		t.Errorf("INR A on 0xFF = %#02x, want 0x00", c.A)
	}
	if c.F&FlagZ == 0 {
		t.Error("Z should be set after INR wraps to 0")
	}

	c = newTestCPU(t)
	c.A = 0x00
	load(c, 0, 0x3D) // DCR A
	c.Step()
	if c.A != 0xFF {
		t.Errorf("DCR A on 0x00 = %#02x, want 0xFF", c.A)
	}
}

func TestInrDcrDoNotTouchCarry(t *testing.T) {
	c := newTestCPU(t)
	c.F |= FlagC
	c.A = 0x00
	load(c, 0, 0x3C) // INR A
	c.Step()
	if c.F&FlagC == 0 {
		t.Error("INR must not clear the carry flag")
	}
}

func TestAciHonorsCarryIn(t *testing.T) {
	c := newTestCPU(t)
	c.A = 0x00
	c.F |= FlagC
	load(c, 0, 0xCE, 0x00) // ACI 0
	c.Step()
	if c.A != 0x01 {
		t.Errorf("ACI 0 with carry-in = %#02x, want 0x01", c.A)
	}
}

func TestSbiHonorsBorrowIn(t *testing.T) {
	c := newTestCPU(t)
	c.A = 0x00
	c.F |= FlagC
	load(c, 0, 0xDE, 0x00) // SBI 0
	c.Step()
	if c.A != 0xFF {
		t.Errorf("SBI 0 with borrow-in = %#02x, want 0xFF", c.A)
	}
	if c.F&FlagC == 0 {
		t.Error("SBI 0 with borrow-in should set C (result borrowed)")
	}
}

func TestDaaAdjustsBothNibbles(t *testing.T) {
	c := newTestCPU(t)
	c.A = 0x9A
	load(c, 0, 0x27) // DAA
	c.Step()
	if c.A != 0x00 {
		t.Errorf("DAA on 0x9A = %#02x, want 0x00", c.A)
	}
	if c.F&FlagC == 0 {
		t.Error("DAA on 0x9A should set carry")
	}
	if c.F&FlagAC == 0 {
		t.Error("DAA on 0x9A should set auxiliary carry")
	}
}

func TestPcAndSpWraparound(t *testing.T) {
	c := newTestCPU(t)
	c.PC = 0xFFFF
	load(c, 0xFFFF, 0x00) // NOP
	c.Step()
	if c.PC != 0x0000 {
		t.Errorf("PC after NOP at 0xFFFF = %#04x, want wraparound to 0x0000", c.PC)
	}

	c = newTestCPU(t)
	c.SP = 0x0000
	load(c, 0, 0xC5) // PUSH B
	c.Step()
	if c.SP != 0xFFFE {
		t.Errorf("SP after PUSH at SP=0 = %#04x, want 0xFFFE (wrapped)", c.SP)
	}
}

// --- §8.4 end-to-end scenarios ---

func TestResetThenNop(t *testing.T) {
	c := newTestCPU(t)
	load(c, 0, 0x00)
	if err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.PC != 1 || c.UptimeCycles != 4 {
		t.Errorf("after reset+NOP: PC=%#04x cycles=%d, want 1/4", c.PC, c.UptimeCycles)
	}
}

func TestFlagTestViaAdi(t *testing.T) {
	c := newTestCPU(t)
	c.A = 0xFF
	load(c, 0, 0xC6, 0x01) // ADI 1 -> 0x00, carry out
	c.Step()
	if c.A != 0x00 {
		t.Errorf("A = %#02x, want 0x00", c.A)
	}
	if c.F&FlagZ == 0 || c.F&FlagC == 0 {
		t.Errorf("F = %#02x, want Z and C set", c.F)
	}
}

func TestCallRetRoundTrip(t *testing.T) {
	c := newTestCPU(t)
	c.SP = 0x2000
	c.PC = 0x0000
	load(c, 0, 0xCD, 0x10, 0x00) // CALL 0x0010
	load(c, 0x10, 0xC9)          // RET
	if err := c.Step(); err != nil {
		t.Fatalf("Step CALL: %v", err)
	}
	if c.PC != 0x0010 {
		t.Fatalf("PC after CALL = %#04x, want 0x0010", c.PC)
	}
	if err := c.Step(); err != nil {
		t.Fatalf("Step RET: %v", err)
	}
	if c.PC != 0x0003 {
		t.Errorf("PC after RET = %#04x, want 0x0003 (return address)", c.PC)
	}
}

func TestInterruptInjectsRST(t *testing.T) {
	c := newTestCPU(t)
	c.PC = 0x0050
	c.SP = 0x2000
	if err := c.Interrupt(RSTOpcode(1), 0); err != nil {
		t.Fatalf("Interrupt: %v", err)
	}
	if c.PC != 0x0008 {
		t.Errorf("PC after RST 1 = %#04x, want 0x0008", c.PC)
	}
	if c.INTE {
		t.Error("INTE should be false after an interrupt is taken")
	}
	if ret := c.load16(c.SP); ret != 0x0051 {
		t.Errorf("pushed return address = %#04x, want 0x0051 (PC+1 per the RST-length-advance rule)", ret)
	}
}

func TestHltStopsExecution(t *testing.T) {
	c := newTestCPU(t)
	load(c, 0, 0x76, 0x00) // HLT NOP
	c.Step()
	if !c.Stopped {
		t.Fatal("expected Stopped after HLT")
	}
	pcBefore := c.PC
	c.Step()
	if c.PC != pcBefore {
		t.Errorf("PC moved during a Step while Stopped: %#04x -> %#04x", pcBefore, c.PC)
	}
}

func TestInstructionInfoMatchesStepLength(t *testing.T) {
	c := newTestCPU(t)
	load(c, 0, 0x21, 0x34, 0x12) // LXI H 0x1234
	info := InstructionInfo(0x21)
	if info.Length != 3 || info.Mnemonic != "LXI H D16" {
		t.Errorf("InstructionInfo(0x21) = %+v, want length 3 LXI H D16", info)
	}
	c.Step()
	if c.HL() != 0x1234 {
		t.Errorf("HL after LXI H = %#04x, want 0x1234", c.HL())
	}
}
