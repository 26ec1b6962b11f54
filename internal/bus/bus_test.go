package bus

import "testing"

func newTestBus() *Bus {
	rom := make([]byte, 0x8000)
	return New(rom)
}

func TestWRAMReadWrite(t *testing.T) {
	b := newTestBus()
	b.Write(0xC010, 0x42)
	if got := b.Read(0xC010); got != 0x42 {
		t.Fatalf("Read(0xC010) = %#x, want 0x42", got)
	}
}

func TestEchoRAMAliasesWorkRAM(t *testing.T) {
	b := newTestBus()
	b.Write(0xC010, 0x99)
	if got := b.Read(0xE010); got != 0x99 {
		t.Fatalf("echo read = %#x, want 0x99", got)
	}
	b.Write(0xE020, 0x55)
	if got := b.Read(0xC020); got != 0x55 {
		t.Fatalf("echo write not reflected: got %#x, want 0x55", got)
	}
}

func TestUnusableRegionReadsZeroWritesIgnored(t *testing.T) {
	b := newTestBus()
	b.Write(0xFEA5, 0xFF)
	if got := b.Read(0xFEA5); got != 0 {
		t.Fatalf("unusable region Read = %#x, want 0", got)
	}
}

func TestWritingDIVAlwaysResetsToZero(t *testing.T) {
	b := newTestBus()
	b.timer.Tick(5000)
	if b.Read(0xFF04) == 0 {
		t.Fatal("expected DIV to have advanced")
	}
	b.Write(0xFF04, 0x77) // any value
	if got := b.Read(0xFF04); got != 0 {
		t.Fatalf("DIV after write = %#x, want 0", got)
	}
}

func TestDMACopiesIntoOAM(t *testing.T) {
	b := newTestBus()
	for i := 0; i < 0xA0; i++ {
		b.wram[i] = byte(i ^ 0x5A)
	}
	b.Write(0xFF46, 0xC0) // source 0xC000
	for i := 0; i < 0xA0; i++ {
		want := b.Read(0xC000 + uint16(i))
		got := b.Read(0xFE00 + uint16(i))
		if got != want {
			t.Fatalf("OAM[%d] = %#x, want %#x (mirrors source)", i, got, want)
		}
	}
}

func TestJOYPWritePreservesLowNibble(t *testing.T) {
	b := newTestBus()
	before := b.Read(0xFF00) & 0x0F
	b.Write(0xFF00, 0x00) // attempt to clear everything including low nibble
	after := b.Read(0xFF00) & 0x0F
	if before != after {
		t.Fatalf("JOYP low nibble changed by write: before=%#x after=%#x", before, after)
	}
}

func TestBootROMOverlayAndUnmap(t *testing.T) {
	b := newTestBus()
	boot := make([]byte, 0x100)
	boot[0] = 0xAA
	b.SetBootROM(boot)
	if got := b.Read(0x0000); got != 0xAA {
		t.Fatalf("boot ROM not overlaid: got %#x", got)
	}
	b.MaybeUnmapBoot(0x0100)
	if b.BootMapped() {
		t.Fatal("boot ROM still mapped after PC reached 0x100")
	}
	// Post-boot I/O values should now be applied (spot check).
	if got := b.Read(0xFF40); got != 0x91 {
		t.Fatalf("post-boot LCDC = %#x, want 0x91", got)
	}
}

func TestRequestInterruptSetsIFBit(t *testing.T) {
	b := newTestBus()
	b.RequestInterrupt(2)
	if b.Read(0xFF0F)&(1<<2) == 0 {
		t.Fatal("expected IF bit 2 set")
	}
}
