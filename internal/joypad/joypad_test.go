package joypad

import "testing"

func TestWritePreservesLowNibble(t *testing.T) {
	j := New(nil)
	j.SetPressed(map[Button]bool{A: true})
	j.WriteSelect(0x20) // select D-pad (P15 high disables buttons)
	before := j.Read() & 0x0F

	j.WriteSelect(0xFF) // any value; only bits 5-4 should stick
	if j.selectLines != 0x30 {
		t.Fatalf("selectLines = %#x, want select bits only (0x30)", j.selectLines)
	}
	// Low nibble is hardware-driven, unaffected by the write's low bits.
	after := j.Read() & 0x0F
	if after != before {
		t.Fatalf("low nibble = %#04b after write, want %#04b", after, before)
	}
}

func TestDPadSelectLine(t *testing.T) {
	j := New(nil)
	j.SetPressed(map[Button]bool{Right: true, Up: true})
	j.WriteSelect(0x20) // P14 low: select D-pad
	got := j.Read() & 0x0F
	want := byte(0x0F) &^ 0x01 &^ 0x04
	if got != want {
		t.Fatalf("D-pad nibble = %#04b, want %#04b", got, want)
	}
}

func TestButtonSelectLine(t *testing.T) {
	j := New(nil)
	j.SetPressed(map[Button]bool{Start: true})
	j.WriteSelect(0x10) // P15 low: select buttons
	got := j.Read() & 0x0F
	want := byte(0x0F) &^ 0x08
	if got != want {
		t.Fatalf("button nibble = %#04b, want %#04b", got, want)
	}
}

func TestPressTriggersInterrupt(t *testing.T) {
	var requested []int
	j := New(func(id int) { requested = append(requested, id) })
	j.WriteSelect(0x20) // select D-pad
	j.SetPressed(map[Button]bool{Right: true})
	found := false
	for _, id := range requested {
		if id == 4 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Joypad interrupt (id=4) on press, got %v", requested)
	}
}

func TestUpperBitsAlwaysSet(t *testing.T) {
	j := New(nil)
	if j.Read()&0xC0 != 0xC0 {
		t.Fatalf("bits 7-6 must read as 1, got %#x", j.Read())
	}
}
