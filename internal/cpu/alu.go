package cpu

import "github.com/retrodmg/gbcore/internal/regs"

// aluOp applies one of the eight ALU operations (opcode bits 5-3, in
// the order ADD,ADC,SUB,SBC,AND,XOR,OR,CP) against A and val. Grounded
// on the teacher's add8/adc8/sub8/sbc8/and8/xor8/or8/cp8 helpers,
// folded into one table-driven function per spec.md §9's call to
// decode structurally rather than opcode-by-opcode.
func (c *CPU) aluOp(idx byte, val byte) {
	a := c.A
	switch idx & 0x07 {
	case 0: // ADD
		sum := uint16(a) + uint16(val)
		res := byte(sum)
		c.SetFlags(res == 0, false, regs.HalfCarryAdd8(a, val), sum > 0xFF)
		c.A = res
	case 1: // ADC
		carry := c.carryIn()
		sum := uint16(a) + uint16(val) + uint16(carry)
		res := byte(sum)
		c.SetFlags(res == 0, false, regs.HalfCarryAdd8C(a, val, carry), sum > 0xFF)
		c.A = res
	case 2: // SUB
		diff := int16(a) - int16(val)
		res := byte(diff)
		c.SetFlags(res == 0, true, regs.HalfCarrySub8(a, val), diff < 0)
		c.A = res
	case 3: // SBC
		carry := c.carryIn()
		diff := int16(a) - int16(val) - int16(carry)
		res := byte(diff)
		c.SetFlags(res == 0, true, regs.HalfCarrySub8C(a, val, carry), diff < 0)
		c.A = res
	case 4: // AND
		res := a & val
		c.SetFlags(res == 0, false, true, false)
		c.A = res
	case 5: // XOR
		res := a ^ val
		c.SetFlags(res == 0, false, false, false)
		c.A = res
	case 6: // OR
		res := a | val
		c.SetFlags(res == 0, false, false, false)
		c.A = res
	case 7: // CP: same comparison as SUB but A is left unmodified
		diff := int16(a) - int16(val)
		res := byte(diff)
		c.SetFlags(res == 0, true, regs.HalfCarrySub8(a, val), diff < 0)
	}
}

func (c *CPU) carryIn() byte {
	if c.Cy() {
		return 1
	}
	return 0
}

// incR8 implements INC r (spec.md §4.4): Z,N,H set from the result; C
// is never touched.
func (c *CPU) incR8(i regs.R8) {
	v := c.getR8(i)
	res := v + 1
	h := regs.HalfCarryAdd8(v, 1)
	c.SetFlags(res == 0, false, h, c.Cy())
	c.setR8(i, res)
}

// decR8 implements DEC r: Z,N,H set from the result; C is never touched.
func (c *CPU) decR8(i regs.R8) {
	v := c.getR8(i)
	res := v - 1
	h := regs.HalfCarrySub8(v, 1)
	c.SetFlags(res == 0, true, h, c.Cy())
	c.setR8(i, res)
}

func (c *CPU) incR16(i regs.R16) { c.Set16(i, c.Get16(i)+1) }
func (c *CPU) decR16(i regs.R16) { c.Set16(i, c.Get16(i)-1) }

// addHL implements ADD HL,rr: Z preserved, N cleared, H/C from the
// 16-bit addition.
func (c *CPU) addHL(rr regs.R16) {
	hl := c.HL()
	val := c.Get16(rr)
	sum := uint32(hl) + uint32(val)
	h := regs.HalfCarryAdd16(hl, val)
	c.SetHL(uint16(sum))
	c.SetFlags(c.Z(), false, h, sum > 0xFFFF)
}

// rlca: rotate A left, old bit 7 into carry and bit 0. Z always
// cleared (unlike the CB RLC r form, which sets Z from the result).
func (c *CPU) rlca() int {
	carry := (c.A >> 7) & 1
	c.A = (c.A << 1) | carry
	c.SetFlags(false, false, false, carry == 1)
	return 1
}

func (c *CPU) rrca() int {
	carry := c.A & 1
	c.A = (c.A >> 1) | (carry << 7)
	c.SetFlags(false, false, false, carry == 1)
	return 1
}

func (c *CPU) rla() int {
	carryOut := (c.A >> 7) & 1
	c.A = (c.A << 1) | c.carryIn()
	c.SetFlags(false, false, false, carryOut == 1)
	return 1
}

func (c *CPU) rra() int {
	carryOut := c.A & 1
	c.A = (c.A >> 1) | (c.carryIn() << 7)
	c.SetFlags(false, false, false, carryOut == 1)
	return 1
}

// daa implements the packed-BCD correction after an 8-bit add/sub
// (spec.md §4.4). The correction depends on N (last op was add or
// sub) plus the H/C flags it left behind.
func (c *CPU) daa() int {
	a := c.A
	carry := c.Cy()
	if !c.N() {
		if carry || a > 0x99 {
			a += 0x60
			carry = true
		}
		if c.HC() || a&0x0F > 0x09 {
			a += 0x06
		}
	} else {
		if carry {
			a -= 0x60
		}
		if c.HC() {
			a -= 0x06
		}
	}
	c.A = a
	c.SetFlags(a == 0, c.N(), false, carry)
	return 1
}

// addSPr8 implements ADD SP,r8. spec.md §9 resolves the original's
// ambiguous flag computation: H/C come from adding the signed 8-bit
// operand's unsigned byte value to SP's low byte, exactly as an 8-bit
// ADD would, regardless of the 16-bit result's own carry chain.
func (c *CPU) addSPr8() int {
	off := int8(c.fetch8())
	low := byte(c.SP)
	h := regs.HalfCarryAdd8(low, byte(off))
	carry := uint16(low)+uint16(byte(off)) > 0xFF
	c.SP = uint16(int32(c.SP) + int32(off))
	c.SetFlags(false, false, h, carry)
	return 4
}

// ldHLSPr8 implements LD HL,SP+r8 with the identical flag rule as
// addSPr8 (same opcode family, spec.md §9).
func (c *CPU) ldHLSPr8() int {
	off := int8(c.fetch8())
	low := byte(c.SP)
	h := regs.HalfCarryAdd8(low, byte(off))
	carry := uint16(low)+uint16(byte(off)) > 0xFF
	c.SetHL(uint16(int32(c.SP) + int32(off)))
	c.SetFlags(false, false, h, carry)
	return 3
}
