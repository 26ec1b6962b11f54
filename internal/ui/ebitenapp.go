// Package ui is the windowed frontend: the one place in this module
// that imports ebiten, per the project's package boundary (core
// emulation packages stay toolkit-agnostic). Grounded on the teacher's
// internal/ui/ebitenapp.go (App{cfg, m, tex}, the Update/Draw game
// loop, the keyboard-to-Buttons mapping, the escape-key overlay menu,
// and the time-accumulator frame pacing), trimmed to the framebuffer
// and input surface this module actually emulates -- audio, save
// states, and CGB compatibility palettes are out of scope, so their
// menu rows, settings fields, and the player/stream plumbing that
// served them are gone rather than kept as dead code.
package ui

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/retrodmg/gbcore/internal/emu"
)

// gbFPS is the DMG's true refresh rate: 4194304 Hz / 70224 T-cycles/frame.
const gbFPS = 4194304.0 / 70224.0

type App struct {
	cfg    Config
	m      *emu.Machine
	tex    *ebiten.Image
	paused bool
	fast   bool
	turbo  int // fast-forward speed multiplier

	lastTime time.Time
	frameAcc float64 // accumulated fractional frames

	showMenu bool
	menuIdx  int
	menuMode string // "main" | "rom" | "keys" | "settings"

	romList []string
	romSel  int
	romOff  int

	keysOff int

	editingROMDir bool
	romDirInput   string
	settingsOff   int

	toastMsg   string
	toastUntil time.Time
}

func NewApp(cfg Config, m *emu.Machine) *App {
	cfg = loadSettings(cfg)
	cfg.Defaults()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(160*cfg.Scale, 144*cfg.Scale)

	a := &App{cfg: cfg, m: m}
	a.lastTime = time.Now()
	a.turbo = 1
	a.romDirInput = cfg.ROMsDir

	if m == nil || m.Bus() == nil {
		a.showMenu = true
		a.menuMode = "rom"
		a.romList = a.findROMs()
	}
	return a
}

func (a *App) Run() error { return ebiten.RunGame(a) }

// SaveSettings persists current settings to disk.
func (a *App) SaveSettings() { a.saveSettings() }

func (a *App) Update() error {
	if !a.showMenu {
		var btn emu.Buttons
		if ebiten.IsKeyPressed(ebiten.KeyRight) {
			btn.Right = true
		}
		if ebiten.IsKeyPressed(ebiten.KeyLeft) {
			btn.Left = true
		}
		if ebiten.IsKeyPressed(ebiten.KeyUp) {
			btn.Up = true
		}
		if ebiten.IsKeyPressed(ebiten.KeyDown) {
			btn.Down = true
		}
		if ebiten.IsKeyPressed(ebiten.KeyZ) {
			btn.A = true
		}
		if ebiten.IsKeyPressed(ebiten.KeyX) {
			btn.B = true
		}
		if ebiten.IsKeyPressed(ebiten.KeyEnter) {
			btn.Start = true
		}
		if ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
			btn.Select = true
		}
		if a.m != nil {
			a.m.SetButtons(btn)
		}
	} else if a.m != nil {
		a.m.SetButtons(emu.Buttons{})
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}
	a.fast = ebiten.IsKeyPressed(ebiten.KeyTab)
	if inpututil.IsKeyJustPressed(ebiten.KeyF6) && a.turbo > 1 {
		a.turbo--
		a.toast(fmt.Sprintf("Turbo: x%d", a.turbo))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF7) && a.turbo < 10 {
		a.turbo++
		a.toast(fmt.Sprintf("Turbo: x%d", a.turbo))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) && a.m != nil {
		a.m.Reset()
		a.toast("Reset")
	}
	if !a.showMenu && a.paused && inpututil.IsKeyJustPressed(ebiten.KeyN) && a.m != nil {
		a.m.StepFrame()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) && (!a.showMenu || a.menuMode == "main") {
		a.showMenu = !a.showMenu
		if a.showMenu {
			a.menuMode = "main"
			a.menuIdx = 0
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		_ = a.saveScreenshot()
	}

	if a.showMenu {
		a.updateMenu()
	}

	if !a.showMenu && !a.paused && a.m != nil {
		now := time.Now()
		dt := now.Sub(a.lastTime).Seconds()
		if dt < 0 {
			dt = 0
		}
		a.lastTime = now
		speed := 1.0
		if a.fast {
			speed = float64(max(2, a.turbo))
		}
		a.frameAcc += dt * gbFPS * speed
		steps := 0
		for a.frameAcc >= 1.0 && steps < 10 { // cap to avoid a spiral of death
			a.m.StepFrame()
			a.frameAcc -= 1.0
			steps++
		}
	} else {
		a.lastTime = time.Now()
	}

	return nil
}

func (a *App) updateMenu() {
	switch a.menuMode {
	case "main":
		max := 3
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
			a.menuIdx--
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < max {
			a.menuIdx++
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			switch a.menuIdx {
			case 0:
				a.romList = a.findROMs()
				a.romSel, a.romOff = 0, 0
				a.menuMode = "rom"
			case 1:
				a.menuMode = "settings"
				a.menuIdx = 0
				a.editingROMDir = false
			case 2:
				a.keysOff = 0
				a.menuMode = "keys"
			case 3:
				a.showMenu = false
			}
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
			a.showMenu = false
		}

	case "rom":
		n := len(a.romList)
		if n == 0 {
			if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
				a.menuMode = "main"
			}
			return
		}
		maxRows := (144 - 40) / 14
		if maxRows < 1 {
			maxRows = 1
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.romSel > 0 {
			a.romSel--
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.romSel < n-1 {
			a.romSel++
		}
		if a.romSel < a.romOff {
			a.romOff = a.romSel
		}
		if a.romSel >= a.romOff+maxRows {
			a.romOff = a.romSel - maxRows + 1
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			path := a.romList[a.romSel]
			if err := a.m.LoadROMFromFile(path); err == nil {
				a.toast("Loaded ROM: " + filepath.Base(path))
				ebiten.SetWindowTitle(a.cfg.Title + " - " + filepath.Base(path))
			} else {
				a.toast("ROM load failed: " + err.Error())
			}
			a.menuMode = "main"
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
			a.menuMode = "main"
		}

	case "keys":
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.keysOff > 0 {
			a.keysOff--
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
			a.keysOff++
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
			a.menuMode = "main"
		}

	case "settings":
		if !a.editingROMDir {
			if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
				a.menuIdx--
			}
			if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < 1 {
				a.menuIdx++
			}
		}
		if a.menuIdx == 0 && !a.editingROMDir {
			if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) && a.cfg.Scale > 1 {
				a.cfg.Scale--
				ebiten.SetWindowSize(160*a.cfg.Scale, 144*a.cfg.Scale)
				a.saveSettings()
			}
			if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) && a.cfg.Scale < 10 {
				a.cfg.Scale++
				ebiten.SetWindowSize(160*a.cfg.Scale, 144*a.cfg.Scale)
				a.saveSettings()
			}
		} else if a.menuIdx == 1 {
			if !a.editingROMDir {
				if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
					a.editingROMDir = true
					a.romDirInput = a.cfg.ROMsDir
				}
				if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
					a.menuMode = "main"
				}
			} else {
				for _, r := range ebiten.InputChars() {
					if r != '\n' && r != '\r' {
						a.romDirInput += string(r)
					}
				}
				if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && len(a.romDirInput) > 0 {
					a.romDirInput = a.romDirInput[:len(a.romDirInput)-1]
				}
				if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
					if val := strings.TrimSpace(a.romDirInput); val != "" {
						a.cfg.ROMsDir = val
						a.saveSettings()
						a.romList = a.findROMs()
						a.toast("ROMs dir set")
					}
					a.editingROMDir = false
				}
				if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
					a.editingROMDir = false
					a.romDirInput = a.cfg.ROMsDir
				}
			}
		}
		if !a.editingROMDir && (inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace)) {
			a.menuMode = "main"
		}
	}
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(160, 144)
	}
	if a.m != nil {
		a.tex.WritePixels(a.m.Framebuffer())
	}
	screen.DrawImage(a.tex, nil)

	if a.toastMsg != "" && time.Now().Before(a.toastUntil) {
		ebitenutil.DebugPrintAt(screen, a.truncateText(a.toastMsg, a.maxCharsForText(6)), 6, 4)
	}

	if a.showMenu {
		overlay := ebiten.NewImage(160, 144)
		overlay.Fill(color.RGBA{0, 0, 0, 140})
		screen.DrawImage(overlay, nil)
		switch a.menuMode {
		case "main":
			a.drawMainMenu(screen)
		case "rom":
			a.drawRomMenu(screen)
		case "keys":
			a.drawKeysMenu(screen)
		case "settings":
			a.drawSettingsMenu(screen)
		}
	}
}

func (a *App) drawMainMenu(screen *ebiten.Image) {
	lines := []string{"Menu:", "  Switch ROM", "  Settings", "  Keybindings", "  Close"}
	for i, s := range lines {
		prefix := "  "
		if i == a.menuIdx+1 {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, prefix+s, 10, 10+i*14)
	}
	hint := a.truncateText("F11: Fullscreen  F12: Screenshot  Backspace: Back", a.maxCharsForText(10))
	ebitenutil.DebugPrintAt(screen, hint, 10, 10+len(lines)*14)
}

func (a *App) drawRomMenu(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, "Select ROM (Enter to load, Backspace/Esc to return)", 10, 10)
	ebitenutil.DebugPrintAt(screen, a.truncateText("Dir: "+a.cfg.ROMsDir, a.maxCharsForText(10)), 10, 24)
	if len(a.romList) == 0 {
		ebitenutil.DebugPrintAt(screen, "No ROMs found", 10, 40)
		return
	}
	baseY := 40
	maxRows := (144 - baseY) / 14
	if maxRows < 1 {
		maxRows = 1
	}
	end := a.romOff + maxRows
	if end > len(a.romList) {
		end = len(a.romList)
	}
	maxChars := a.maxCharsForText(10) - 2
	if maxChars < 1 {
		maxChars = 1
	}
	for i, p := range a.romList[a.romOff:end] {
		prefix := "  "
		if a.romOff+i == a.romSel {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, prefix+a.truncateText(filepath.Base(p), maxChars), 10, baseY+i*14)
	}
	if a.romOff > 0 {
		ebitenutil.DebugPrintAt(screen, "^", 2, baseY)
	}
	if end < len(a.romList) {
		ebitenutil.DebugPrintAt(screen, "v", 2, baseY+(maxRows-1)*14)
	}
}

func (a *App) drawKeysMenu(screen *ebiten.Image) {
	title := "Keybindings (Up/Down to scroll, Backspace/Esc to return)"
	cursorY := 10
	for _, w := range a.wrapText(title, a.maxCharsForText(10)) {
		ebitenutil.DebugPrintAt(screen, w, 10, cursorY)
		cursorY += 14
	}
	rows := []string{
		"Z: A", "X: B", "Enter: Start", "RightShift: Select", "Arrows: D-Pad",
		"P: Pause", "N: Step (when paused)", "Tab/F6/F7: Fast-forward",
		"R: Reset", "F11: Fullscreen", "F12: Screenshot", "Esc: Open/Close Menu",
	}
	baseY := cursorY + 4
	maxRows := (144 - baseY) / 14
	if maxRows < 1 {
		maxRows = 1
	}
	if a.keysOff > len(rows)-1 {
		a.keysOff = len(rows) - 1
	}
	end := a.keysOff + maxRows
	if end > len(rows) {
		end = len(rows)
	}
	maxChars := a.maxCharsForText(10)
	for i := a.keysOff; i < end; i++ {
		ebitenutil.DebugPrintAt(screen, a.truncateText(rows[i], maxChars), 10, baseY+(i-a.keysOff)*14)
	}
	if a.keysOff > 0 {
		ebitenutil.DebugPrintAt(screen, "^", 2, baseY)
	}
	if end < len(rows) {
		ebitenutil.DebugPrintAt(screen, "v", 2, baseY+(maxRows-1)*14)
	}
}

func (a *App) drawSettingsMenu(screen *ebiten.Image) {
	title := "Settings (Up/Down select; Left/Right change; Enter: edit; Backspace/Esc: back)"
	cursorY := 10
	for _, w := range a.wrapText(title, a.maxCharsForText(10)) {
		ebitenutil.DebugPrintAt(screen, w, 10, cursorY)
		cursorY += 14
	}
	romDir := a.cfg.ROMsDir
	if a.editingROMDir {
		romDir = a.romDirInput + "_"
	}
	items := []string{
		fmt.Sprintf("Scale: %dx", a.cfg.Scale),
		fmt.Sprintf("ROMs Dir: %s", a.truncateText(romDir, a.maxCharsForText(10)-11)),
	}
	for i, it := range items {
		prefix := "  "
		if i == a.menuIdx {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, a.truncateText(prefix+it, a.maxCharsForText(10)), 10, cursorY+i*14)
	}
}

func (a *App) toast(msg string) {
	a.toastMsg = msg
	a.toastUntil = time.Now().Add(2 * time.Second)
}

// findROMs returns a sorted, de-duplicated list of .gb/.gbc files in the
// configured ROMs directory, resolved relative to both the executable
// and the current working directory.
func (a *App) findROMs() []string {
	var files []string
	addFrom := func(dir string) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ln := strings.ToLower(e.Name())
			if strings.HasSuffix(ln, ".gb") || strings.HasSuffix(ln, ".gbc") {
				files = append(files, filepath.Join(dir, e.Name()))
			}
		}
	}
	exe, _ := os.Executable()
	roms := a.cfg.ROMsDir
	if filepath.IsAbs(roms) {
		addFrom(roms)
	} else {
		addFrom(filepath.Join(filepath.Dir(exe), roms))
		addFrom(roms)
	}
	sort.Strings(files)
	uniq := files[:0]
	seen := map[string]bool{}
	for _, p := range files {
		if !seen[p] {
			seen[p] = true
			uniq = append(uniq, p)
		}
	}
	return uniq
}

func settingsPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		d := filepath.Join(dir, "gbemu")
		_ = os.MkdirAll(d, 0755)
		return filepath.Join(d, "settings.json")
	}
	exe, _ := os.Executable()
	return filepath.Join(filepath.Dir(exe), "gbemu_settings.json")
}

func loadSettings(override Config) Config {
	var cfg Config
	if b, err := os.ReadFile(settingsPath()); err == nil {
		_ = json.Unmarshal(b, &cfg)
	}
	if override.Title != "" {
		cfg.Title = override.Title
	}
	if override.Scale != 0 {
		cfg.Scale = override.Scale
	}
	if override.ROMsDir != "" {
		cfg.ROMsDir = override.ROMsDir
	}
	return cfg
}

func (a *App) saveSettings() {
	b, _ := json.MarshalIndent(a.cfg, "", "  ")
	_ = os.WriteFile(settingsPath(), b, 0644)
}

func (a *App) Layout(outW, outH int) (int, int) { return 160, 144 }

// maxCharsForText estimates how many characters fit on a line starting
// at left margin x, at ~6px per character for the debug font.
func (a *App) maxCharsForText(left int) int {
	w := 160 - left - 4
	if w < 6 {
		return 1
	}
	return w / 6
}

func (a *App) truncateText(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func (a *App) wrapText(s string, max int) []string {
	if max <= 0 {
		return []string{""}
	}
	var lines []string
	for len(s) > 0 {
		if len(s) <= max {
			lines = append(lines, s)
			break
		}
		cut := -1
		for i := max; i >= 0 && i < len(s); i-- {
			if s[i] == ' ' {
				cut = i
				break
			}
			if i == 0 {
				break
			}
		}
		if cut <= 0 {
			lines = append(lines, s[:max])
			s = s[max:]
			continue
		}
		lines = append(lines, strings.TrimRight(s[:cut], " "))
		s = strings.TrimLeft(s[cut+1:], " ")
	}
	return lines
}

func (a *App) saveScreenshot() error {
	if a.m == nil {
		return nil
	}
	fb := a.m.Framebuffer()
	img := &image.RGBA{Pix: make([]byte, len(fb)), Stride: 4 * 160, Rect: image.Rect(0, 0, 160, 144)}
	copy(img.Pix, fb)
	name := fmt.Sprintf("screenshot_%s.png", time.Now().Format("20060102_150405"))
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
