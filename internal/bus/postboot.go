package bus

// postBootIO is the DMG post-boot initial I/O register table, applied
// once the boot ROM overlay disengages (or on a cold reset that skips
// the boot ROM entirely), per spec.md §6. spec.md gives a partial table
// as a bit-exact cross-check; the remaining entries are the
// well-documented DMG power-up values every from-scratch Game Boy core
// reproduces (supplemented per SPEC_FULL.md item 4).
var postBootIO = []struct {
	Addr uint16
	Val  byte
}{
	{0xFF00, 0xCF},
	{0xFF01, 0x00},
	{0xFF02, 0x7E},
	{0xFF04, 0xAB},
	{0xFF05, 0x00},
	{0xFF06, 0x00},
	{0xFF07, 0xF8},
	{0xFF0F, 0xE1},
	{0xFF10, 0x80},
	{0xFF11, 0xBF},
	{0xFF12, 0xF3},
	{0xFF13, 0xFF},
	{0xFF14, 0xBF},
	{0xFF16, 0x3F},
	{0xFF17, 0x00},
	{0xFF18, 0xFF},
	{0xFF19, 0xBF},
	{0xFF1A, 0x7F},
	{0xFF1B, 0xFF},
	{0xFF1C, 0x9F},
	{0xFF1D, 0xFF},
	{0xFF1E, 0xBF},
	{0xFF20, 0xFF},
	{0xFF21, 0x00},
	{0xFF22, 0x00},
	{0xFF23, 0xBF},
	{0xFF24, 0x77},
	{0xFF25, 0xF3},
	{0xFF26, 0xF1},
	{0xFF40, 0x91},
	{0xFF41, 0x85},
	{0xFF42, 0x00},
	{0xFF43, 0x00},
	{0xFF45, 0x00},
	{0xFF46, 0xFF},
	{0xFF47, 0xFC},
	{0xFF48, 0xFF},
	{0xFF49, 0xFF},
	{0xFF4A, 0x00},
	{0xFF4B, 0x00},
	{0xFFFF, 0x00},
}

// applyPostBootIO reproduces the table above verbatim. Every address
// goes through the normal Write path except DIV and the DMA register,
// which have write-time side effects (reset-to-zero, trigger-a-copy)
// that would corrupt the literal initial value being applied.
func (b *Bus) applyPostBootIO() {
	for _, e := range postBootIO {
		switch e.Addr {
		case 0xFF04:
			b.timer.SetDIVForBoot(e.Val)
		case 0xFF46:
			b.dmaReg = e.Val
		default:
			b.Write(e.Addr, e.Val)
		}
	}
}
