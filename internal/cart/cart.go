package cart

import "log"

// Cartridge is the minimal interface the MMU needs for ROM/external-RAM
// banking. Addresses are full 16-bit CPU addresses; implementations are
// responsible for translating them into bank-relative offsets.
type Cartridge interface {
	// Read returns a byte for ROM (0x0000-0x7FFF) and external RAM
	// (0xA000-0xBFFF). Accessing an unloaded bank returns 0, per
	// spec.md §7 ("out-of-bounds ROM access... return 0").
	Read(addr uint16) byte
	// Write handles MBC control writes (0x0000-0x7FFF) and external RAM
	// writes (0xA000-0xBFFF).
	Write(addr uint16, value byte)
}

// NewCartridge decodes the MBC type from the ROM header (byte 0x0147)
// and returns the matching implementation. Per spec.md §4.3: 0x00 is
// ROM-only, 0x01-0x03 is MBC1, 0x08/0x09 (ROM+RAM) are also ROM-only
// without a warning, and anything else logs an unknown-MBC warning and
// falls back to ROM-only addressing (spec.md §7).
func NewCartridge(rom []byte) Cartridge {
	h, err := ParseHeader(rom)
	if err != nil {
		log.Printf("cart: could not parse header (%v); treating as ROM-only", err)
		return NewROMOnly(rom)
	}
	switch h.CartType {
	case 0x00, 0x08, 0x09: // ROM-only, ROM+RAM, ROM+RAM+BATTERY
		return NewROMOnly(rom)
	case 0x01, 0x02, 0x03: // MBC1, MBC1+RAM, MBC1+RAM+BATTERY
		return NewMBC1(rom, h.RAMSizeBytes)
	default:
		log.Printf("cart: unknown or unsupported MBC type %#02x (%s); falling back to ROM-only", h.CartType, h.CartTypeStr)
		return NewROMOnly(rom)
	}
}
