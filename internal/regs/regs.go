// Package regs implements the Sharp LR35902 register file: the eight
// 8-bit registers and their 16-bit pair views, the packed flag byte, and
// the half-carry helpers shared by the arithmetic opcodes.
package regs

// R8 indexes the 8-way register operand used by the LD grid, the ALU
// grid, and the entire CB table. Index HL does not name a register; it
// is a placeholder meaning "memory at HL" and must be special-cased by
// callers that have a memory handle (package cpu does so in getR8/setR8).
type R8 int

const (
	B R8 = iota
	C
	D
	E
	H
	L
	HL // pseudo-register: memory at HL, not a register
	A
)

// R16 indexes the 16-bit pair decoded from opcode bits 5-4.
type R16 int

const (
	BC R16 = iota
	DE
	R16HL
	SP
)

// R16Stk indexes the 16-bit pair used by PUSH/POP, where the fourth slot
// is AF instead of SP.
type R16Stk int

const (
	StkBC R16Stk = iota
	StkDE
	StkHL
	StkAF
)

const (
	FlagZ byte = 1 << 7
	FlagN byte = 1 << 6
	FlagH byte = 1 << 5
	FlagC byte = 1 << 4
)

// File holds the full SM83 register state: A,B,C,D,E,F,H,L plus SP/PC.
// SetF, SetAF and SetFlags keep F's low nibble zero, and AF() masks it on
// read; F itself is a plain field, so a direct assignment is not masked.
type File struct {
	A, F byte
	B, C byte
	D, E byte
	H, L byte
	SP   uint16
	PC   uint16
}

// Reset sets every register to its documented cold-start value. Boot-ROM
// mode wants PC=0; skipping the boot ROM wants the DMG post-boot values.
func (r *File) Reset(bootROMMapped bool) {
	r.SP = 0xFFFE
	if bootROMMapped {
		r.PC = 0x0000
		r.A, r.F = 0, 0
		r.B, r.C = 0, 0
		r.D, r.E = 0, 0
		r.H, r.L = 0, 0
		return
	}
	r.PC = 0x0100
	r.A, r.F = 0x01, 0xB0
	r.B, r.C = 0x00, 0x13
	r.D, r.E = 0x00, 0xD8
	r.H, r.L = 0x01, 0x4D
}

// SetF forces the low nibble to zero, as required by the spec invariant
// "the low 4 bits of F are always zero in any observable read".
func (r *File) SetF(v byte) { r.F = v & 0xF0 }

func (r *File) Z() bool { return r.F&FlagZ != 0 }
func (r *File) N() bool { return r.F&FlagN != 0 }
func (r *File) HC() bool { return r.F&FlagH != 0 }
func (r *File) Cy() bool { return r.F&FlagC != 0 }

// SetFlags packs the four condition flags into F in one call.
func (r *File) SetFlags(z, n, h, c bool) {
	var f byte
	if z {
		f |= FlagZ
	}
	if n {
		f |= FlagN
	}
	if h {
		f |= FlagH
	}
	if c {
		f |= FlagC
	}
	r.F = f
}

func (r *File) AF() uint16 { return uint16(r.A)<<8 | uint16(r.F&0xF0) }
func (r *File) BC() uint16 { return uint16(r.B)<<8 | uint16(r.C) }
func (r *File) DE() uint16 { return uint16(r.D)<<8 | uint16(r.E) }
func (r *File) HL() uint16 { return uint16(r.H)<<8 | uint16(r.L) }

func (r *File) SetAF(v uint16) { r.A = byte(v >> 8); r.SetF(byte(v)) }
func (r *File) SetBC(v uint16) { r.B = byte(v >> 8); r.C = byte(v) }
func (r *File) SetDE(v uint16) { r.D = byte(v >> 8); r.E = byte(v) }
func (r *File) SetHL(v uint16) { r.H = byte(v >> 8); r.L = byte(v) }

// Get16 reads one of BC,DE,HL,SP by R16 index (opcode bits 5-4 convention).
func (r *File) Get16(i R16) uint16 {
	switch i {
	case BC:
		return r.BC()
	case DE:
		return r.DE()
	case R16HL:
		return r.HL()
	default:
		return r.SP
	}
}

// Set16 writes one of BC,DE,HL,SP by R16 index.
func (r *File) Set16(i R16, v uint16) {
	switch i {
	case BC:
		r.SetBC(v)
	case DE:
		r.SetDE(v)
	case R16HL:
		r.SetHL(v)
	default:
		r.SP = v
	}
}

// Get16Stk reads one of BC,DE,HL,AF by R16Stk index (PUSH/POP convention).
func (r *File) Get16Stk(i R16Stk) uint16 {
	switch i {
	case StkBC:
		return r.BC()
	case StkDE:
		return r.DE()
	case StkHL:
		return r.HL()
	default:
		return r.AF()
	}
}

// Set16Stk writes one of BC,DE,HL,AF by R16Stk index. AF masks its own
// low nibble via SetAF.
func (r *File) Set16Stk(i R16Stk, v uint16) {
	switch i {
	case StkBC:
		r.SetBC(v)
	case StkDE:
		r.SetDE(v)
	case StkHL:
		r.SetHL(v)
	default:
		r.SetAF(v)
	}
}

// HalfCarryAdd8 reports whether adding a and b carries out of bit 3.
func HalfCarryAdd8(a, b byte) bool {
	return ((a & 0xF) + (b & 0xF) + 0) & 0x10 != 0
}

// HalfCarryAdd8C reports whether a+b+carry carries out of bit 3.
func HalfCarryAdd8C(a, b byte, carry byte) bool {
	return ((a & 0xF) + (b & 0xF) + carry) & 0x10 != 0
}

// HalfCarrySub8 reports whether a-b borrows out of bit 4 (computed via
// wrapping subtraction per spec.md §4.1).
func HalfCarrySub8(a, b byte) bool {
	return ((a & 0xF) - (b & 0xF)) & 0x10 != 0
}

// HalfCarrySub8C reports whether a-b-carry borrows out of bit 4.
func HalfCarrySub8C(a, b byte, carry byte) bool {
	return ((a & 0xF) - (b & 0xF) - carry) & 0x10 != 0
}

// HalfCarryAdd16 reports whether adding a and b carries out of bit 11,
// used by ADD HL,rr.
func HalfCarryAdd16(a, b uint16) bool {
	return ((a & 0xFFF) + (b & 0xFFF)) & 0x1000 != 0
}
