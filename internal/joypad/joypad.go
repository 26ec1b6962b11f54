// Package joypad models the 0xFF00 JOYP register: a select nibble
// (bits 5-4, active-low) chosen by software and a button nibble
// (bits 3-0, active-low) driven by hardware button state. Grounded on
// the teacher's internal/bus/bus.go JOYP handling, split into its own
// component per spec.md §2/§4.8.
package joypad

// Button is one of the eight physical buttons the driver can report as
// pressed before each joypad update.
type Button int

const (
	Right Button = iota
	Left
	Up
	Down
	A
	B
	Select
	Start
)

// RequestFunc raises interrupt bit `id` on the shared IF register. id=4
// is the Joypad interrupt.
type RequestFunc func(id int)

// Joypad tracks the select lines and the set of currently pressed
// buttons, and computes the active-low nibble the CPU observes at 0xFF00.
type Joypad struct {
	selectLines byte // bits 5-4, as last written (active-low)
	pressed     [8]bool
	lastLower4  byte // previous active-low nibble, for edge detection

	req RequestFunc
}

func New(req RequestFunc) *Joypad {
	return &Joypad{selectLines: 0x30, lastLower4: 0x0F, req: req}
}

// Read returns the full 0xFF00 byte as the CPU observes it: bits 7-6
// read as 1, bits 5-4 reflect the select lines, bits 3-0 the active-low
// button state gated by those select lines.
func (j *Joypad) Read() byte {
	return 0xC0 | (j.selectLines & 0x30) | j.lowerNibble()
}

// WriteSelect updates only the high nibble (bits 5-4); the low nibble is
// always hardware-driven and must never be set directly by software,
// per spec.md §3/§4.8.
func (j *Joypad) WriteSelect(v byte) {
	j.selectLines = v & 0x30
	j.recomputeEdge()
}

// SetPressed replaces the full set of currently pressed buttons. Any
// newly-pressed button that becomes visible under the current select
// lines raises the Joypad interrupt (falling edge on the active-low
// nibble), matching real JOYP behavior.
func (j *Joypad) SetPressed(pressed map[Button]bool) {
	for i := range j.pressed {
		j.pressed[i] = pressed[Button(i)]
	}
	j.recomputeEdge()
}

func (j *Joypad) lowerNibble() byte {
	n := byte(0x0F)
	if j.selectLines&0x10 == 0 { // P14 low selects D-pad
		if j.pressed[Right] {
			n &^= 0x01
		}
		if j.pressed[Left] {
			n &^= 0x02
		}
		if j.pressed[Up] {
			n &^= 0x04
		}
		if j.pressed[Down] {
			n &^= 0x08
		}
	}
	if j.selectLines&0x20 == 0 { // P15 low selects buttons
		if j.pressed[A] {
			n &^= 0x01
		}
		if j.pressed[B] {
			n &^= 0x02
		}
		if j.pressed[Select] {
			n &^= 0x04
		}
		if j.pressed[Start] {
			n &^= 0x08
		}
	}
	return n
}

func (j *Joypad) recomputeEdge() {
	newLower := j.lowerNibble()
	falling := j.lastLower4 &^ newLower // bits that went 1->0
	if falling != 0 && j.req != nil {
		j.req(4)
	}
	j.lastLower4 = newLower
}
