// Package emu is the system facade: it wires cpu, bus, timer, ppu,
// joypad, and cart into one Machine and drives the fetch-execute/PPU/
// Timer/interrupt loop spec.md §4.4 describes, converting the CPU's
// machine-cycle costs into the T-cycles Timer and PPU tick on. Grounded
// on the teacher's internal/emu/emu.go facade shape (Machine{cfg, w, h,
// fb}, New/LoadCartridge/StepFrame/Framebuffer/SetButtons), rebuilt
// around a real CPU+Bus pair instead of the teacher's Milestone-0 test
// pattern.
package emu

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/retrodmg/gbcore/internal/bus"
	"github.com/retrodmg/gbcore/internal/cart"
	"github.com/retrodmg/gbcore/internal/cpu"
	"github.com/retrodmg/gbcore/internal/joypad"
)

// tCyclesPerFrame is 154 scanlines * 456 T-cycles, the fixed DMG frame
// length spec.md §4.6 ties VBlank timing to.
const tCyclesPerFrame = 154 * 456

// Buttons mirrors the eight physical buttons a frontend polls once per
// frame and forwards to the Joypad component.
type Buttons struct {
	A, B, Start, Select   bool
	Up, Down, Left, Right bool
}

// Machine is the whole system: CPU, Bus (which in turn owns PPU, Timer,
// Joypad, and the cartridge), plus an RGBA framebuffer frontends can
// blit directly.
type Machine struct {
	cfg Config

	bus *bus.Bus
	cpu *cpu.CPU

	w, h int
	fb   []byte // RGBA, 160*144*4
}

// New constructs a Machine with no cartridge loaded; call LoadCartridge
// or LoadROMFromFile before stepping it.
func New(cfg Config) *Machine {
	return &Machine{cfg: cfg, w: 160, h: 144, fb: make([]byte, 160*144*4)}
}

// LoadCartridge decodes rom's header, wires a fresh Bus/CPU pair around
// it, and optionally maps boot over 0x0000-0x00FF until the CPU's PC
// first reaches 0x0100 (spec.md §4.4 point 4, §6). A nil/short boot
// skips straight to the documented post-boot register state.
func (m *Machine) LoadCartridge(rom []byte, boot []byte) error {
	if _, err := cart.ParseHeader(rom); err != nil {
		return err
	}
	bus.LogCartridgeInfo(rom)

	b := bus.New(rom)
	if len(boot) >= 0x100 {
		b.SetBootROM(boot)
	}
	m.bus = b
	m.cpu = cpu.New(b)
	return nil
}

// LoadROMFromFile reads romPath and loads it with no boot ROM mapped.
func (m *Machine) LoadROMFromFile(romPath string) error {
	rom, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("emu: reading rom: %w", err)
	}
	return m.LoadCartridge(rom, nil)
}

// SetSerialWriter routes completed serial-port bytes to w. cmd/cpurunner
// and the Blargg conformance harness use this to capture a test ROM's
// "Passed"/"Failed" banner without an actual link cable.
func (m *Machine) SetSerialWriter(w io.Writer) {
	if m.bus != nil {
		m.bus.SetSerialWriter(w)
	}
}

// Reset re-initializes the CPU registers and control state, without
// re-parsing the cartridge. Memory, I/O and the boot-ROM overlay are not
// reset: a boot ROM that has already been unmapped stays unmapped, and
// the CPU then restarts at 0x0100 with the post-boot register values.
func (m *Machine) Reset() {
	if m.cpu != nil {
		m.cpu.Reset(m.bus.BootMapped())
	}
}

// CPU exposes the underlying interpreter for debuggers/tracers (cfg.Trace).
func (m *Machine) CPU() *cpu.CPU { return m.cpu }

// Bus exposes the underlying MMU for debuggers/tracers.
func (m *Machine) Bus() *bus.Bus { return m.bus }

// Tick executes exactly one CPU instruction, advances Timer and PPU by
// its cost in T-cycles (machine-cycles * 4, per spec.md §4.4), and
// services any pending interrupt. It returns the T-cycles consumed, so
// callers can budget a frame.
func (m *Machine) Tick() int {
	if m.cfg.Trace {
		pc := m.cpu.PC
		op := m.bus.Read(pc)
		log.Printf("%#04x: %s", pc, cpu.Mnemonic(op))
	}

	mCycles := m.cpu.Step()
	tCycles := mCycles * 4

	m.bus.Timer().Tick(tCycles)
	m.bus.PPU().Tick(tCycles)
	m.cpu.ServiceInterrupts(m.bus.Read(0xFFFF), m.bus.Read(0xFF0F))

	return tCycles
}

// StepFrame runs the machine for one full 154-scanline frame and
// converts the PPU's settled framebuffer into the RGBA bytes
// Framebuffer returns.
func (m *Machine) StepFrame() {
	m.runFrame()
	m.convertFramebuffer()
}

// StepFrameNoRender runs one frame's worth of T-cycles without paying
// for the RGBA conversion, for headless conformance-test loops
// (cmd/cpurunner, the Blargg harness) that only care about serial
// output.
func (m *Machine) StepFrameNoRender() {
	m.runFrame()
}

func (m *Machine) runFrame() {
	budget := tCyclesPerFrame
	for budget > 0 {
		budget -= m.Tick()
	}
}

func (m *Machine) convertFramebuffer() {
	src := m.bus.PPU().Framebuffer()
	for i, px := range src {
		o := i * 4
		m.fb[o+0] = byte(px >> 16)
		m.fb[o+1] = byte(px >> 8)
		m.fb[o+2] = byte(px)
		m.fb[o+3] = 0xFF
	}
}

// Framebuffer returns the current frame as packed RGBA bytes
// (160*144*4), ready for ebiten's Image.WritePixels.
func (m *Machine) Framebuffer() []byte { return m.fb }

// SetButtons forwards the frontend's polled button state to the Joypad
// component, which raises the Joypad interrupt on any newly-pressed
// button and wakes a STOPped CPU (spec.md §4.9).
func (m *Machine) SetButtons(b Buttons) {
	pressed := map[joypad.Button]bool{
		joypad.A:      b.A,
		joypad.B:      b.B,
		joypad.Start:  b.Start,
		joypad.Select: b.Select,
		joypad.Up:     b.Up,
		joypad.Down:   b.Down,
		joypad.Left:   b.Left,
		joypad.Right:  b.Right,
	}
	m.bus.Joypad().SetPressed(pressed)
	if m.cpu.Status() == cpu.StatusStopped {
		anyPressed := false
		for _, v := range pressed {
			if v {
				anyPressed = true
				break
			}
		}
		if anyPressed {
			m.cpu.SetStatus(cpu.StatusRunning)
		}
	}
}
