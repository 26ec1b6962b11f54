package cart

import "testing"

// stampedROM builds an MBC1-sized ROM where the first byte of each
// 16KiB bank equals the bank index, so a bank switch is verifiable by
// reading a single byte back.
func stampedROM(banks int) []byte {
	rom := make([]byte, banks*0x4000)
	for bank := 0; bank < banks; bank++ {
		rom[bank*0x4000] = byte(bank)
	}
	return rom
}

func TestMBC1_SwitchableBankDefaultsToOne(t *testing.T) {
	m := NewMBC1(stampedROM(8), 0)
	if got := m.Read(0x0000); got != 0x00 {
		t.Fatalf("fixed bank0 read = %#02x, want 0x00", got)
	}
	if got := m.Read(0x4000); got != 0x01 {
		t.Fatalf("switchable bank before any select = %#02x, want 0x01", got)
	}
}

func TestMBC1_ROMBankSelect(t *testing.T) {
	m := NewMBC1(stampedROM(8), 0)

	m.Write(0x2000, 0x03) // select bank 3 via the 5-bit register
	if got := m.Read(0x4000); got != 0x03 {
		t.Fatalf("after selecting bank 3, read = %#02x, want 0x03", got)
	}

	m.Write(0x2000, 0x00) // bank 0 is not reachable through this window
	if got := m.Read(0x4000); got != 0x01 {
		t.Fatalf("bank register 0 should remap to 1, got %#02x", got)
	}
}

func TestMBC1_Mode0HighBitsExtendROMBankNumber(t *testing.T) {
	m := NewMBC1(stampedROM(128), 0) // needs bank2 bits to reach bank 32+
	m.Write(0x2000, 0x01)            // low 5 bits = 1
	m.Write(0x4000, 0x01)            // bank2 = 1 -> bank 0x21 = 33 in ROM banking mode

	if got := m.Read(0x4000); got != 33 {
		t.Fatalf("extended ROM bank read = %d, want 33", got)
	}
}

func TestMBC1_RAMDisabledByDefault(t *testing.T) {
	m := NewMBC1(stampedROM(8), 8*1024)
	m.Write(0xA000, 0x77) // should be dropped, RAM not enabled
	if got := m.Read(0xA000); got != 0 {
		t.Fatalf("RAM read with enable latch unset = %#02x, want 0", got)
	}
}

func TestMBC1_RAMBankingUnderMode1(t *testing.T) {
	m := NewMBC1(stampedROM(8), 32*1024)

	m.Write(0x0000, 0x0A) // arm the RAM-enable latch
	m.Write(0x6000, 0x01) // mode 1: bank2 now selects the RAM bank
	m.Write(0x4000, 0x02) // RAM bank 2

	m.Write(0xA000, 0x77)
	if got := m.Read(0xA000); got != 0x77 {
		t.Fatalf("RAM bank 2 round-trip = %#02x, want 0x77", got)
	}

	m.Write(0x4000, 0x01) // switch to RAM bank 1; bank 2's data must stay put
	if got := m.Read(0xA000); got != 0 {
		t.Fatalf("RAM bank 1 should be untouched, got %#02x", got)
	}
}
