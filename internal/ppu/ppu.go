// Package ppu implements the scanline-based pixel pipeline: background,
// window, and sprite rendering into a 160x144 framebuffer, driven by a
// signed scanline-cycle counter. Grounded on the teacher's
// internal/ppu/ppu.go register/VRAM/OAM model, but the timing and render
// algorithm follow spec.md §4.6's literal per-T-cycle recipe rather than
// the teacher's finer dot-accurate STAT mode scheduler — spec.md's
// Non-goals rule out sub-instruction timing, so the simpler model is the
// one this core actually needs.
package ppu

const (
	ScreenW = 160
	ScreenH = 144
)

// Palette maps the four 2-bit color indices to the canonical DMG
// green-scale RGB values (spec.md §6).
var Palette = [4]uint32{
	0: 0x8BAC0F,
	1: 0x306230,
	2: 0x0F380F,
	3: 0x000000,
}

// InterruptRequester raises interrupt bit `id` on the shared IF register.
type InterruptRequester func(id int)

// PPU owns VRAM, OAM, and the LCD control/scroll/palette registers, and
// renders into an internal 160x144 framebuffer one scanline at a time.
type PPU struct {
	vram [0x2000]byte // 0x8000-0x9FFF
	oam  [0xA0]byte   // 0xFE00-0xFE9F

	lcdc byte // FF40
	stat byte // FF41 (stored verbatim; no mode/coincidence semantics modeled, see DESIGN.md)
	scy  byte // FF42
	scx  byte // FF43
	ly   byte // FF44
	lyc  byte // FF45
	bgp  byte // FF47
	obp0 byte // FF48
	obp1 byte // FF49
	wy   byte // FF4A
	wx   byte // FF4B

	counter int // signed scanline-cycle counter, spec.md §4.6 initializes this to 456

	fb [ScreenH * ScreenW]uint32

	req InterruptRequester
}

func New(req InterruptRequester) *PPU {
	return &PPU{counter: 456, req: req}
}

func (p *PPU) CPURead(addr uint16) byte {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		return p.vram[addr-0x8000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		return p.oam[addr-0xFE00]
	case addr == 0xFF40:
		return p.lcdc
	case addr == 0xFF41:
		return 0x80 | (p.stat & 0x7F)
	case addr == 0xFF42:
		return p.scy
	case addr == 0xFF43:
		return p.scx
	case addr == 0xFF44:
		return p.ly
	case addr == 0xFF45:
		return p.lyc
	case addr == 0xFF47:
		return p.bgp
	case addr == 0xFF48:
		return p.obp0
	case addr == 0xFF49:
		return p.obp1
	case addr == 0xFF4A:
		return p.wy
	case addr == 0xFF4B:
		return p.wx
	default:
		return 0xFF
	}
}

func (p *PPU) CPUWrite(addr uint16, v byte) {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		p.vram[addr-0x8000] = v
	case addr >= 0xFE00 && addr <= 0xFE9F:
		p.oam[addr-0xFE00] = v
	case addr == 0xFF40:
		p.lcdc = v
	case addr == 0xFF41:
		p.stat = v & 0x7F
	case addr == 0xFF42:
		p.scy = v
	case addr == 0xFF43:
		p.scx = v
	case addr == 0xFF44:
		// LY is read-only on real hardware; accepted here only so
		// tests can seed a scanline directly.
		p.ly = v
	case addr == 0xFF45:
		p.lyc = v
	case addr == 0xFF47:
		p.bgp = v
	case addr == 0xFF48:
		p.obp0 = v
	case addr == 0xFF49:
		p.obp1 = v
	case addr == 0xFF4A:
		p.wy = v
	case addr == 0xFF4B:
		p.wx = v
	}
}

// WriteOAMByte is used by the MMU's DMA implementation to copy bytes
// directly into OAM without going through the CPU-facing write gate.
func (p *PPU) WriteOAMByte(i int, v byte) { p.oam[i] = v }

// Tick advances the PPU by c T-cycles, exactly per spec.md §4.6's
// 7-step recipe. The counter only ever needs one rollover per call
// because no single instruction produces anywhere near 456 T-cycles.
func (p *PPU) Tick(c int) {
	if p.lcdc&0x80 == 0 { // LCD disabled
		return
	}
	p.counter -= c
	if p.counter > 0 {
		return
	}
	p.counter = 456

	ly := p.ly
	if ly == 144 {
		if p.req != nil {
			p.req(0) // V-Blank
		}
	}
	if ly > 153 {
		ly = 0
	}
	if ly < 144 {
		p.renderScanline(ly)
	}
	p.ly = ly + 1
}

// Framebuffer returns the 160x144 RGB24 (packed 0xRRGGBB) pixel grid,
// row-major, top to bottom.
func (p *PPU) Framebuffer() []uint32 { return p.fb[:] }

func (p *PPU) LCDC() byte { return p.lcdc }
func (p *PPU) BGP() byte  { return p.bgp }
func (p *PPU) OBP0() byte { return p.obp0 }
func (p *PPU) OBP1() byte { return p.obp1 }
func (p *PPU) SCY() byte  { return p.scy }
func (p *PPU) SCX() byte  { return p.scx }
func (p *PPU) WY() byte   { return p.wy }
func (p *PPU) WX() byte   { return p.wx }
func (p *PPU) LY() byte   { return p.ly }
