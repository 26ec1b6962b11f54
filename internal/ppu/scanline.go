package ppu

// renderScanline paints one 160-pixel row of the framebuffer for
// scanline `ly`, following spec.md §4.6's background/window pass and
// sprite pass in order.
func (p *PPU) renderScanline(ly byte) {
	bgWinEnabled := p.lcdc&0x01 != 0
	spritesEnabled := p.lcdc&0x02 != 0
	windowEnabled := p.lcdc&0x20 != 0

	row := ly
	base := int(row) * ScreenW

	for x := 0; x < ScreenW; x++ {
		if !bgWinEnabled {
			p.fb[base+x] = Palette[0]
			continue
		}

		useWindow := windowEnabled && p.wy <= ly && x >= int(p.wx)-7

		var mapBase uint16
		var tileRow, tileCol, inTileY, inTileX int

		if useWindow {
			if p.lcdc&0x40 != 0 {
				mapBase = 0x9C00
			} else {
				mapBase = 0x9800
			}
			wx := x - (int(p.wx) - 7)
			wy := int(ly) - int(p.wy)
			tileRow, inTileY = wy/8, wy%8
			tileCol, inTileX = wx/8, wx%8
		} else {
			if p.lcdc&0x08 != 0 {
				mapBase = 0x9C00
			} else {
				mapBase = 0x9800
			}
			bx := (int(p.scx) + x) & 0xFF
			by := (int(p.scy) + int(ly)) & 0xFF
			tileRow, inTileY = by/8, by%8
			tileCol, inTileX = bx/8, bx%8
		}

		tileMapAddr := mapBase + uint16(tileRow*32+tileCol)
		tileIdx := p.vram[tileMapAddr-0x8000]

		var tileAddr uint16
		if p.lcdc&0x10 != 0 {
			tileAddr = 0x8000 + uint16(tileIdx)*16
		} else {
			signed := int8(tileIdx)
			tileAddr = 0x8800 + uint16(int(signed)+128)*16
		}

		b1 := p.vram[tileAddr+uint16(inTileY*2)-0x8000]
		b2 := p.vram[tileAddr+uint16(inTileY*2)+1-0x8000]
		k := uint(7 - (inTileX & 7))
		colorIdx := ((b2>>k)&1)<<1 | ((b1 >> k) & 1)

		shade := (p.bgp >> (colorIdx * 2)) & 0x03
		p.fb[base+x] = Palette[shade]
	}

	if spritesEnabled {
		p.renderSprites(ly)
	}
}

// renderSprites scans all 40 OAM entries and paints any sprite pixels
// visible on scanline `ly`, lowest OAM index wins a given screen column
// (spec.md §4.6 is silent on cross-sprite priority; this is the
// simplest reading of "for each of the 40 OAM entries" in index order).
func (p *PPU) renderSprites(ly byte) {
	height := 8
	if p.lcdc&0x04 != 0 {
		height = 16
	}
	base := int(ly) * ScreenW
	var painted [ScreenW]bool

	for i := 0; i < 40; i++ {
		oy := int(p.oam[i*4+0]) - 16
		ox := int(p.oam[i*4+1]) - 8
		tile := p.oam[i*4+2]
		attr := p.oam[i*4+3]

		if int(ly) < oy || int(ly) >= oy+height {
			continue
		}

		row := int(ly) - oy
		if attr&0x40 != 0 { // Y flip
			row = height - 1 - row
		}

		tileNum := tile
		if height == 16 {
			tileNum &^= 0x01
		}
		tileAddr := uint16(tileNum)*16 + uint16(row*2)
		b1 := p.vram[tileAddr]
		b2 := p.vram[tileAddr+1]

		for col := 0; col < 8; col++ {
			bit := col
			if attr&0x20 != 0 { // X flip
				bit = 7 - col
			}
			k := uint(7 - bit)
			colorIdx := ((b2>>k)&1)<<1 | ((b1 >> k) & 1)
			if colorIdx == 0 {
				continue // transparent
			}
			screenX := ox + col
			if screenX < 0 || screenX >= ScreenW || painted[screenX] {
				continue
			}
			palette := p.obp0
			if attr&0x10 != 0 {
				palette = p.obp1
			}
			shade := (palette >> (colorIdx * 2)) & 0x03
			p.fb[base+screenX] = Palette[shade]
			painted[screenX] = true
		}
	}
}
