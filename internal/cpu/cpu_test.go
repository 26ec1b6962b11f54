package cpu

import (
	"testing"

	"github.com/retrodmg/gbcore/internal/bus"
)

// newCPUWithROM loads code at 0x0100 (the post-boot entry point) and
// resets the CPU to skip the boot ROM, so fixed-length test programs
// don't need to account for the boot sequence.
func newCPUWithROM(code []byte) *CPU {
	rom := make([]byte, 0x8000)
	copy(rom[0x0100:], code)
	b := bus.New(rom)
	c := New(b)
	c.Reset(false)
	return c
}

func TestCPU_NopAndPC(t *testing.T) {
	c := newCPUWithROM([]byte{0x00}) // NOP
	if cycles := c.Step(); cycles != 1 {
		t.Fatalf("NOP cycles got %d want 1", cycles)
	}
	if c.PC != 0x0101 {
		t.Fatalf("PC after NOP got %#04x want 0x0101", c.PC)
	}
}

func TestCPU_LD_A_d8_And_XOR_A(t *testing.T) {
	c := newCPUWithROM([]byte{0x3E, 0x12, 0xAF}) // LD A,0x12; XOR A
	c.Step()
	if c.A != 0x12 {
		t.Fatalf("A after LD got %02x want 12", c.A)
	}
	c.Step() // XOR A
	if c.A != 0x00 {
		t.Fatalf("A after XOR got %02x want 00", c.A)
	}
	if !c.Z() {
		t.Fatal("Z flag not set after XOR A")
	}
	if c.Cy() {
		t.Fatal("C flag should be cleared by XOR A")
	}
}

func TestCPU_LD_SP_d16(t *testing.T) {
	c := newCPUWithROM([]byte{0x31, 0xFE, 0xFF}) // LD SP,0xFFFE
	cyc := c.Step()
	if c.SP != 0xFFFE || cyc != 3 {
		t.Fatalf("LD SP,d16: SP=%#04x cyc=%d, want SP=0xFFFE cyc=3", c.SP, cyc)
	}
}

func TestCPU_LDD_HL_A(t *testing.T) {
	prog := []byte{0x21, 0x00, 0xC0, 0x3E, 0x5A, 0x32} // LD HL,C000; LD A,5A; LD (HL-),A
	c := newCPUWithROM(prog)
	c.Step() // LD HL,C000
	c.Step() // LD A,5A
	c.Step() // LD (HL-),A
	if got := c.Bus().Read(0xC000); got != 0x5A {
		t.Fatalf("(HL-) write got %#02x want 0x5A", got)
	}
	if c.HL() != 0xBFFF {
		t.Fatalf("HL after LD (HL-),A got %#04x want 0xBFFF", c.HL())
	}
}

func TestCPU_LD_a16_A_and_LD_A_a16(t *testing.T) {
	prog := []byte{0x3E, 0x77, 0xEA, 0x00, 0xC0, 0x3E, 0x00, 0xFA, 0x00, 0xC0}
	c := newCPUWithROM(prog)
	c.Step() // LD A,77
	c.Step() // LD (C000),A
	if a := c.Bus().Read(0xC000); a != 0x77 {
		t.Fatalf("WRAM at C000 got %02x want 77", a)
	}
	c.Step() // LD A,00
	c.Step() // LD A,(C000)
	if c.A != 0x77 {
		t.Fatalf("A after LD A,(C000) got %02x want 77", c.A)
	}
}

func TestCPU_CB_BIT7H(t *testing.T) {
	c := newCPUWithROM([]byte{0xCB, 0x7C}) // BIT 7,H
	c.H = 0x80
	c.SetFlags(false, false, false, true) // C must be preserved by BIT
	cyc := c.Step()
	if cyc != 2 {
		t.Fatalf("BIT 7,H cycles got %d want 2", cyc)
	}
	if c.Z() {
		t.Fatal("BIT 7,H with H=0x80: bit 7 is set, Z should be cleared")
	}
	if !c.HC() {
		t.Fatal("BIT always sets H")
	}
	if !c.Cy() {
		t.Fatal("BIT must preserve C")
	}

	c2 := newCPUWithROM([]byte{0xCB, 0x7C})
	c2.H = 0x00
	c2.Step()
	if !c2.Z() {
		t.Fatal("BIT 7,H with H=0x00: bit 7 is clear, Z should be set")
	}
}

func TestCPU_JP_and_InfiniteLoopDetection(t *testing.T) {
	rom := make([]byte, 0x8000)
	rom[0x0100] = 0xC3 // JP 0x0110
	rom[0x0101] = 0x10
	rom[0x0102] = 0x01
	rom[0x0110] = 0x18 // JR -2 (self-loop)
	rom[0x0111] = 0xFE
	b := bus.New(rom)
	c := New(b)
	c.Reset(false)

	cyc := c.Step() // JP
	if cyc != 4 || c.PC != 0x0110 {
		t.Fatalf("JP cycles=%d PC=%#04x want cycles=4 PC=0x0110", cyc, c.PC)
	}
	c.Step() // JR -2, first time: not yet flagged
	if c.status == StatusInfiniteLoop {
		t.Fatal("infinite loop flagged after only one JR -2")
	}
	c.Step() // JR -2 again at the same PC: now flagged
	if c.status != StatusInfiniteLoop {
		t.Fatal("expected StatusInfiniteLoop after a repeated self-targeting JR")
	}
}

func TestCPU_INC_B_Flags(t *testing.T) {
	c := newCPUWithROM([]byte{0x04, 0x04}) // INC B twice
	c.B = 0x0F
	c.SetFlags(false, false, false, true) // carry set initially
	c.Step()
	if c.B != 0x10 {
		t.Fatalf("INC B result got %02x want 10", c.B)
	}
	if !c.HC() {
		t.Fatal("INC B should set H flag")
	}
	if !c.Cy() {
		t.Fatal("INC B should preserve C flag")
	}
	c.B = 0xFF
	c.Step()
	if c.B != 0x00 || !c.Z() {
		t.Fatalf("INC B to 0 should set Z flag, B=%02x", c.B)
	}
}

func TestCPU_ALU_SUB_SetsNAndBorrow(t *testing.T) {
	c := newCPUWithROM([]byte{0x90}) // SUB B
	c.A = 0x10
	c.B = 0x01
	c.Step()
	if c.A != 0x0F {
		t.Fatalf("SUB result got %#02x want 0x0F", c.A)
	}
	if !c.N() {
		t.Fatal("SUB should set N")
	}
	if !c.HC() {
		t.Fatal("SUB 0x10-0x01 should set H (borrow from bit 4)")
	}
	if c.Cy() {
		t.Fatal("SUB 0x10-0x01 should not set C")
	}
}

func TestCPU_PUSH_POP_AF_MasksLowNibble(t *testing.T) {
	c := newCPUWithROM([]byte{0xF5, 0xC1}) // PUSH AF; POP BC
	c.SP = 0xFFFE
	c.A = 0x12
	c.F = 0xFF // low nibble must never be observable
	c.Step()   // PUSH AF
	c.Step()   // POP BC
	if c.BC() != 0x12F0 {
		t.Fatalf("POP BC after PUSH AF got %#04x want 0x12F0 (F low nibble masked)", c.BC())
	}
}

func TestCPU_CALL_RET(t *testing.T) {
	rom := make([]byte, 0x8000)
	rom[0x0100] = 0xCD
	rom[0x0101] = 0x05
	rom[0x0102] = 0x01
	rom[0x0105] = 0xC9 // RET
	b := bus.New(rom)
	c := New(b)
	c.Reset(false)

	c.Step() // CALL
	if c.PC != 0x0105 {
		t.Fatalf("PC after CALL got %#04x want 0x0105", c.PC)
	}
	retCycles := c.Step()
	if c.PC != 0x0103 || retCycles != 4 {
		t.Fatalf("RET did not return to 0x0103; PC=%#04x cyc=%d", c.PC, retCycles)
	}
}

func TestCPU_InterruptServicing(t *testing.T) {
	rom := make([]byte, 0x8000)
	rom[0x0100] = 0xFB // EI
	rom[0x0101] = 0x00 // NOP (EI's delayed-enable instruction)
	b := bus.New(rom)
	c := New(b)
	c.Reset(false)
	c.SP = 0xFFFE

	c.Step() // EI: IME still false until after the next instruction
	if c.IME() {
		t.Fatal("IME should not take effect until after the instruction following EI")
	}
	c.Step() // NOP: IME now true
	if !c.IME() {
		t.Fatal("IME should be true after the instruction following EI completes")
	}

	c.Bus().Write(0xFFFF, 0x01) // enable V-Blank
	c.Bus().RequestInterrupt(0) // request V-Blank
	pcBefore := c.PC
	spBefore := c.SP

	c.ServiceInterrupts(c.Bus().Read(0xFFFF), c.Bus().Read(0xFF0F))

	if c.IME() {
		t.Fatal("IME should be cleared while servicing an interrupt")
	}
	if c.PC != 0x0040 {
		t.Fatalf("PC after servicing V-Blank got %#04x want 0x0040", c.PC)
	}
	if c.SP != spBefore-2 {
		t.Fatalf("SP after servicing got %#04x want %#04x", c.SP, spBefore-2)
	}
	if got := c.Bus().Read(0xFF0F) & 0x01; got != 0 {
		t.Fatal("V-Blank IF bit should be cleared once serviced")
	}
	if ret := c.pop16(); ret != pcBefore {
		t.Fatalf("pushed return address got %#04x want %#04x", ret, pcBefore)
	}
}

func TestCPU_HaltWakesOnPendingInterruptEvenWithIMEDisabled(t *testing.T) {
	c := newCPUWithROM([]byte{0x76}) // HALT
	c.Step()
	if c.Status() != StatusHalt {
		t.Fatal("expected StatusHalt after executing HALT")
	}
	c.Bus().Write(0xFFFF, 0x01)
	c.Bus().RequestInterrupt(0)
	c.ServiceInterrupts(c.Bus().Read(0xFFFF), c.Bus().Read(0xFF0F))
	if c.Status() == StatusHalt {
		t.Fatal("pending enabled interrupt should wake a halted CPU even without IME")
	}
}
