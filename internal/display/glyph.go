package display

import (
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/draw"
)

// glyphBox is a glyph's pixel bounding box in string-local layout
// coordinates (pen position 0 is the string's left edge).
type glyphBox struct {
	minX, minY, maxX, maxY int
}

// glyphLayout is the result of laying out a string in a given FontType:
// one box per rune plus the string's overall bounding box.
type glyphLayout struct {
	glyphs []glyphBox
	bbox   glyphBox
}

// glyphCellSize returns the target pixel size of one glyph cell for font,
// derived from its font size and the shared x_scale layout constant.
func glyphCellSize(font FontType) (w, h int) {
	size := font.metrics().fontSize
	h = int(math.Round(size))
	w = int(math.Round(size * xScale * float64(glyphCols) / float64(glyphRows)))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// layoutText computes the per-glyph and overall bounding boxes for s in
// font. Each glyph advances the pen by the font's cell width; the
// string's bounding box right edge additionally accounts for the
// x_spacing correction applied per glyph at raster time (spec.md §3),
// matching glyphs_for's documented formula: bbox.max.x is the last
// glyph's right edge plus floor(x_spacing * n), n being s's rune count.
func layoutText(s string, font FontType) glyphLayout {
	runes := []rune(s)
	if len(runes) == 0 {
		return glyphLayout{}
	}

	gw, gh := glyphCellSize(font)
	glyphs := make([]glyphBox, len(runes))
	pen := 0
	for i := range runes {
		glyphs[i] = glyphBox{minX: pen, minY: 0, maxX: pen + gw, maxY: gh}
		pen += gw
	}

	first := glyphs[0]
	last := glyphs[len(glyphs)-1]
	extra := int(xSpacing * float64(len(runes)))
	return glyphLayout{
		glyphs: glyphs,
		bbox: glyphBox{
			minX: first.minX, minY: first.minY,
			maxX: last.maxX + extra, maxY: last.maxY,
		},
	}
}

var (
	glyphMaskMu    sync.Mutex
	glyphMaskCache = map[FontType]map[rune]*image.Alpha{}
)

// glyphMask returns the scaled coverage mask for r in font, building and
// caching it on first use. Coverage is gamma-adjusted (alpha' =
// alpha^0.4) so that the thin one-pixel-wide strokes of the bundled 5x7
// source font don't fade to near-invisible once scaled up to the larger
// V5 fonts.
func glyphMask(r rune, font FontType) *image.Alpha {
	glyphMaskMu.Lock()
	defer glyphMaskMu.Unlock()

	byFont, ok := glyphMaskCache[font]
	if !ok {
		byFont = map[rune]*image.Alpha{}
		glyphMaskCache[font] = byFont
	}
	if m, ok := byFont[r]; ok {
		return m
	}

	idx, ok := glyphIndex(r)
	var bits [glyphCols]byte
	if ok {
		bits = glyphBitmap[idx]
	}

	src := image.NewAlpha(image.Rect(0, 0, glyphCols, glyphRows))
	for col := 0; col < glyphCols; col++ {
		b := bits[col]
		for row := 0; row < glyphRows; row++ {
			if b&(1<<uint(row)) != 0 {
				src.SetAlpha(col, row, color.Alpha{A: 0xff})
			}
		}
	}

	gw, gh := glyphCellSize(font)
	dst := image.NewAlpha(image.Rect(0, 0, gw, gh))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	for i, a := range dst.Pix {
		dst.Pix[i] = gammaCoverage(a)
	}

	byFont[r] = dst
	return dst
}

// gammaCoverage applies the alpha^0.4 correction described in glyphMask.
func gammaCoverage(a uint8) uint8 {
	if a == 0 {
		return 0
	}
	v := math.Pow(float64(a)/255.0, 0.4) * 255.0
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

// drawGlyphs rasterizes s at (x, y) in font and color c, compositing each
// glyph's coverage mask onto buf. Per spec.md, each glyph i is shifted an
// additional floor(x_spacing * i) pixels to the right of its nominal pen
// position to correct the bundled font's horizontal metrics.
func drawGlyphs(buf []Color, x, y int, s string, font FontType, c Color) {
	gw, gh := glyphCellSize(font)
	for i, r := range []rune(s) {
		mask := glyphMask(r, font)
		ox := x + i*gw + int(xSpacing*float64(i))
		oy := y
		for row := 0; row < gh; row++ {
			py := oy + row
			if py < 0 || py >= DisplayHeight {
				continue
			}
			for col := 0; col < gw; col++ {
				px := ox + col
				if px < 0 || px >= DisplayWidth {
					continue
				}
				a := mask.AlphaAt(col, row).A
				if a == 0 {
					continue
				}
				blendPixel(buf, px, py, c, a)
			}
		}
	}
}

// blendPixel alpha-composites c (with 8-bit coverage a) over the existing
// pixel at (x, y).
func blendPixel(buf []Color, x, y int, c Color, a uint8) {
	i := y*DisplayWidth + x
	if a == 0xff {
		buf[i] = c
		return
	}
	bg := buf[i]
	af := float64(a) / 255.0
	buf[i] = Color{
		R: blendChan(bg.R, c.R, af),
		G: blendChan(bg.G, c.G, af),
		B: blendChan(bg.B, c.B, af),
	}
}

func blendChan(bg, fg uint8, af float64) uint8 {
	v := float64(bg)*(1-af) + float64(fg)*af
	if v > 255 {
		v = 255
	}
	if v < 0 {
		v = 0
	}
	return uint8(v)
}
