// cpurunner drives a ROM headlessly, instruction by instruction, and
// watches the serial port for a Blargg-style "Passed"/"Failed N tests"
// banner -- the same conformance-testing idiom the teacher's
// cmd/cpurunner used, rebuilt on top of emu.Machine so Timer and PPU
// actually advance (interrupt-dependent test ROMs need both) instead of
// single-stepping a bare CPU.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/retrodmg/gbcore/internal/emu"
)

type writerFunc func(p []byte) (n int, err error)

func (f writerFunc) Write(p []byte) (n int, err error) { return f(p) }

type traceEntry struct {
	pc                     uint16
	op                     byte
	cyc                    int
	a, f, b, c, d, e, h, l byte
	sp                     uint16
	ime                    bool
	ifreg, ie              byte
}

func main() {
	romPath := flag.String("rom", "", "path to ROM (.gb)")
	bootPath := flag.String("bootrom", "", "optional DMG boot ROM to run from 0x0000 until PC reaches 0x0100")
	steps := flag.Int("steps", 5_000_000, "max CPU instructions to run")
	trace := flag.Bool("trace", false, "print PC/opcode/register state for every instruction")
	until := flag.String("until", "Passed", "stop when serial output contains this substring (case-insensitive); empty to disable")
	auto := flag.Bool("auto", false, "auto-detect 'Passed' or 'Failed N tests' in serial output and exit with code 0/1")
	timeout := flag.Duration("timeout", 0, "optional wall-clock timeout (e.g. 30s, 2m); 0 disables")
	traceOnFail := flag.Bool("traceOnFail", false, "when -auto detects failure, print a recent trace window (slows down)")
	traceWindow := flag.Int("traceWindow", 200, "number of recent instructions to include in the 'traceOnFail' dump")
	serialWindowFlag := flag.Int("serialWindow", 8192, "number of recent serial bytes to retain for diagnostics on fail")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("-rom is required")
	}
	rom, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("read rom: %v", err)
	}
	var boot []byte
	if *bootPath != "" {
		boot, err = os.ReadFile(*bootPath)
		if err != nil {
			log.Fatalf("read bootrom: %v", err)
		}
	}

	m := emu.New(emu.Config{})
	if err := m.LoadCartridge(rom, boot); err != nil {
		log.Fatalf("load cart: %v", err)
	}

	var ser bytes.Buffer
	serialWindow := *serialWindowFlag
	if serialWindow < 256 {
		serialWindow = 256
	}
	serRing := make([]byte, serialWindow)
	serRingIdx, serRingFill := 0, 0

	w := io.Writer(os.Stdout)
	if *until != "" || *auto {
		w = io.MultiWriter(os.Stdout, &ser, writerFunc(func(p []byte) (int, error) {
			for _, ch := range p {
				serRing[serRingIdx] = ch
				serRingIdx = (serRingIdx + 1) % serialWindow
				if serRingFill < serialWindow {
					serRingFill++
				}
			}
			return len(p), nil
		}))
	}
	m.SetSerialWriter(w)

	c := m.CPU()
	b := m.Bus()

	start := time.Now()
	var deadline time.Time
	if *timeout > 0 {
		deadline = start.Add(*timeout)
	}
	failRe := regexp.MustCompile(`(?i)failed\s+(\d+)\s+tests?`)
	stageRe := regexp.MustCompile(`\b(\d{2}:\d{2})\b`)
	lastStage := ""

	ring := make([]traceEntry, *traceWindow)
	ringIdx, ringFill := 0, 0
	var tCycles int

	for i := 0; i < *steps; i++ {
		pc := c.PC
		var op byte
		if *trace || *traceOnFail {
			op = b.Read(pc)
		}
		tCycles += m.Tick()
		if *trace || *traceOnFail {
			te := traceEntry{
				pc: pc, op: op, cyc: tCycles,
				a: c.A, f: c.F, b: c.B, c: c.C, d: c.D, e: c.E, h: c.H, l: c.L,
				sp: c.SP, ime: c.IME(), ifreg: b.Read(0xFF0F), ie: b.Read(0xFFFF),
			}
			if *trace {
				fmt.Printf("PC=%04X OP=%02X t=%d A=%02X F=%02X B=%02X C=%02X D=%02X E=%02X H=%02X L=%02X SP=%04X IME=%t IF=%02X IE=%02X\n",
					te.pc, te.op, te.cyc, te.a, te.f, te.b, te.c, te.d, te.e, te.h, te.l, te.sp, te.ime, te.ifreg, te.ie)
			}
			if *traceOnFail && *traceWindow > 0 {
				ring[ringIdx] = te
				ringIdx = (ringIdx + 1) % *traceWindow
				if ringFill < *traceWindow {
					ringFill++
				}
			}
		}
		if *auto {
			s := ser.String()
			if mm := stageRe.FindAllString(s, -1); len(mm) > 0 {
				lastStage = mm[len(mm)-1]
			}
			if strings.Contains(strings.ToLower(s), "passed") {
				report(i+1, tCycles, start, lastStage, "Detected PASS in serial output.")
				os.Exit(0)
			}
			if mm := failRe.FindStringSubmatch(s); mm != nil {
				fmt.Printf("\nDetected %s in serial output.\n", mm[0])
				if lastStage != "" {
					fmt.Printf("Last stage seen: %s\n", lastStage)
				}
				if *traceOnFail && ringFill > 0 {
					dumpTrace(ring, ringIdx, ringFill, *traceWindow)
				}
				if serRingFill > 0 {
					dumpSerial(serRing, serRingIdx, serRingFill, serialWindow)
				}
				fmt.Printf("\nDone: steps=%d tcycles=%d elapsed=%s\n", i+1, tCycles, time.Since(start).Truncate(time.Millisecond))
				os.Exit(1)
			}
		} else if *until != "" && strings.Contains(strings.ToLower(ser.String()), strings.ToLower(*until)) {
			report(i+1, tCycles, start, lastStage, fmt.Sprintf("Detected '%s' in serial output.", *until))
			return
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			fmt.Printf("\nTimeout after %s.\n", time.Since(start).Truncate(time.Millisecond))
			fmt.Printf("\nDone: steps=%d tcycles=%d elapsed=%s\n", i+1, tCycles, time.Since(start).Truncate(time.Millisecond))
			os.Exit(2)
		}
	}
	fmt.Printf("\nDone: steps=%d tcycles=%d elapsed=%s\n", *steps, tCycles, time.Since(start).Truncate(time.Millisecond))
}

func report(steps, tCycles int, start time.Time, lastStage, banner string) {
	fmt.Printf("\n%s\n", banner)
	if lastStage != "" {
		fmt.Printf("Last stage seen: %s\n", lastStage)
	}
	fmt.Printf("\nDone: steps=%d tcycles=%d elapsed=%s\n", steps, tCycles, time.Since(start).Truncate(time.Millisecond))
}

func dumpTrace(ring []traceEntry, ringIdx, ringFill, window int) {
	fmt.Printf("\n--- recent trace (last %d instructions) ---\n", ringFill)
	startIdx := (ringIdx - ringFill + window) % window
	for j := 0; j < ringFill; j++ {
		te := ring[(startIdx+j)%window]
		fmt.Printf("PC=%04X OP=%02X t=%d A=%02X F=%02X B=%02X C=%02X D=%02X E=%02X H=%02X L=%02X SP=%04X IME=%t IF=%02X IE=%02X\n",
			te.pc, te.op, te.cyc, te.a, te.f, te.b, te.c, te.d, te.e, te.h, te.l, te.sp, te.ime, te.ifreg, te.ie)
	}
	fmt.Printf("--- end trace ---\n")
}

func dumpSerial(ring []byte, idx, fill, window int) {
	fmt.Printf("\n--- recent serial (last %d bytes) ---\n", fill)
	start := (idx - fill + window) % window
	for j := 0; j < fill; j++ {
		fmt.Printf("%c", ring[(start+j)%window])
	}
	fmt.Printf("\n--- end serial ---\n")
}
