package cpu

import "github.com/retrodmg/gbcore/internal/regs"

// execCB decodes and executes one CB-prefixed opcode. All 256 entries
// share one structure: bits 0-2 select the r8 operand, bits 3-5 select
// the sub-operation (rotate/shift kind, or the bit index for
// BIT/RES/SET), and bits 6-7 select the group (rotate/shift, BIT, RES,
// SET) -- grounded on the teacher's CB switch in cpu.go, generalized
// per spec.md §9's call to decode structurally.
func (c *CPU) execCB(op byte) int {
	reg := regs.R8(op & 0x07)
	group := (op >> 6) & 0x03
	y := (op >> 3) & 0x07

	cost := 2
	if reg == regs.HL {
		cost = 4
		if group == 1 { // BIT y,(HL) is one M-cycle cheaper than the others
			cost = 3
		}
	}

	switch group {
	case 0:
		c.setR8(reg, c.shiftOp(y, c.getR8(reg)))
	case 1: // BIT y,r
		v := c.getR8(reg)
		bit := (v >> y) & 1
		c.SetFlags(bit == 0, false, true, c.Cy())
	case 2: // RES y,r
		v := c.getR8(reg)
		c.setR8(reg, v&^(1<<y))
	case 3: // SET y,r
		v := c.getR8(reg)
		c.setR8(reg, v|(1<<y))
	}
	return cost
}

// shiftOp implements the eight CB rotate/shift/swap variants (opcode
// bits 5-3, in the order RLC,RRC,RL,RR,SLA,SRA,SWAP,SRL). Unlike the
// bare accumulator rotates (RLCA etc.), these set Z from the result.
func (c *CPU) shiftOp(idx byte, v byte) byte {
	switch idx & 0x07 {
	case 0: // RLC
		carry := (v >> 7) & 1
		v = (v << 1) | carry
		c.SetFlags(v == 0, false, false, carry == 1)
	case 1: // RRC
		carry := v & 1
		v = (v >> 1) | (carry << 7)
		c.SetFlags(v == 0, false, false, carry == 1)
	case 2: // RL
		carryOut := (v >> 7) & 1
		v = (v << 1) | c.carryIn()
		c.SetFlags(v == 0, false, false, carryOut == 1)
	case 3: // RR
		carryOut := v & 1
		v = (v >> 1) | (c.carryIn() << 7)
		c.SetFlags(v == 0, false, false, carryOut == 1)
	case 4: // SLA
		carry := (v >> 7) & 1
		v = v << 1
		c.SetFlags(v == 0, false, false, carry == 1)
	case 5: // SRA: bit 7 is preserved (arithmetic shift)
		carry := v & 1
		v = (v >> 1) | (v & 0x80)
		c.SetFlags(v == 0, false, false, carry == 1)
	case 6: // SWAP
		v = (v << 4) | (v >> 4)
		c.SetFlags(v == 0, false, false, false)
	case 7: // SRL
		carry := v & 1
		v = v >> 1
		c.SetFlags(v == 0, false, false, carry == 1)
	}
	return v
}
