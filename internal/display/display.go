// Package display implements the software rasterizer behind the V5
// Brain's screen: a fixed-size RGB framebuffer, shape and text drawing,
// the program header bar, and double-buffered vs. immediate presentation.
package display

import (
	"image"
	"image/png"
	"io"
	"sync"
)

// Fixed V5 Brain display geometry (spec.md §3).
const (
	DisplayWidth  = 480
	DisplayHeight = 272
	HeaderHeight  = 32
)

// RenderMode selects whether Render's effects are visible immediately or
// only after an explicit flip.
type RenderMode int

const (
	// Immediate means every draw call is visible on the next Render.
	Immediate RenderMode = iota
	// DoubleBuffered means draw calls accumulate on a back buffer that
	// only becomes visible when Render is called with explicit=true.
	DoubleBuffered
)

// Display is the V5 Brain's screen: a DisplayWidth x DisplayHeight RGB
// framebuffer plus the small amount of state (current colors, glyph
// cache, render mode) that SDK draw calls implicitly consume.
type Display struct {
	mu sync.Mutex

	front []Color // presented framebuffer, row-major, DisplayWidth*DisplayHeight
	back  []Color // staging buffer used while mode == DoubleBuffered

	mode RenderMode

	foreground Color
	background Color

	glyphCache glyphCacheEntry
	layoutHits int // instrumentation: number of glyphsFor calls served from glyphCache

	// frameSink receives the presented frame after every Render that
	// actually presents one (see Render). Production wiring (cmd/vexsim)
	// points this at a function that encodes and writes display.png;
	// tests point it at something that inspects the image directly,
	// since an I/O error here must not abort the guest (spec.md §7).
	frameSink   func(image.Image) error
	lastSinkErr error
}

// glyphCacheEntry holds the single most recently computed glyph layout, per
// spec.md's glyphs_for cache note: a second lookup for the same (text,
// font) pair is served from here without recomputing glyph boxes.
type glyphCacheEntry struct {
	valid bool
	text  string
	font  FontType
	ml    glyphLayout
}

// New creates a Display with the default background/foreground colors and
// Immediate render mode, already filled with the background color.
func New() *Display {
	d := &Display{
		mode:       Immediate,
		foreground: defaultForeground,
		background: defaultBackground,
	}
	d.front = newFrame(d.background)
	d.back = newFrame(d.background)
	return d
}

func newFrame(fill Color) []Color {
	px := make([]Color, DisplayWidth*DisplayHeight)
	for i := range px {
		px[i] = fill
	}
	return px
}

// activeBuffer returns the buffer draw calls should target: the back
// buffer in DoubleBuffered mode, the front buffer otherwise.
func (d *Display) activeBuffer() []Color {
	if d.mode == DoubleBuffered {
		return d.back
	}
	return d.front
}

// SetForeground sets the color used by subsequent stroke/fill/text calls.
func (d *Display) SetForeground(c Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.foreground = c
}

// SetBackground sets the color Erase fills with and text backdrops use.
func (d *Display) SetBackground(c Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.background = c
}

// Foreground returns the current stroke/fill/text color.
func (d *Display) Foreground() Color {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.foreground
}

// Background returns the current erase/backdrop color.
func (d *Display) Background() Color {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.background
}

// SetRenderMode switches between Immediate and DoubleBuffered. Switching
// into DoubleBuffered copies the current front buffer into the back
// buffer so that an explicit Render before any draw calls presents the
// frame unchanged; switching out of it (DisableDoubleBuffer) discards the back
// buffer.
func (d *Display) SetRenderMode(mode RenderMode) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if mode == DoubleBuffered && d.mode != DoubleBuffered {
		copy(d.back, d.front)
	}
	d.mode = mode
}

// DisableDoubleBuffer returns the display to Immediate mode. Per spec.md,
// this takes effect immediately: any pending back-buffer contents are
// discarded, not flushed.
func (d *Display) DisableDoubleBuffer() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mode = Immediate
}

// Erase fills the active buffer with the current background color.
func (d *Display) Erase() {
	d.mu.Lock()
	defer d.mu.Unlock()
	buf := d.activeBuffer()
	for i := range buf {
		buf[i] = d.background
	}
}

// Draw strokes or fills a Path onto the active buffer using the current
// foreground color.
func (d *Display) Draw(p Path, fill bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p = p.normalize()
	buf := d.activeBuffer()
	rasterize(buf, p, fill, d.foreground)
}

// DrawBuffer blits a guest-supplied pixel buffer at [x1,y1]: one row per
// scanline, stopping once a row's y exceeds y2 (y2 is an inclusive row
// bound). Each row of src is stride pixels wide, and the full stride
// width is written starting at x1 on every row that's drawn, clamped
// only to the bounds of the screen. Row termination is by stride, not
// by x2.
func (d *Display) DrawBuffer(x1, y1, x2, y2 int, src []Color, stride int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	buf := d.activeBuffer()
	blit(buf, x1, y1, x2, y2, src, stride)
}

// WriteText paints s at (x, y) using opts. If opts.Transparent is false, a
// background-colored backdrop rectangle is painted first, sized from the
// font's line height and backdrop offset.
func (d *Display) WriteText(x, y int, s string, opts TextOptions) {
	d.mu.Lock()
	defer d.mu.Unlock()

	y += opts.Font.YOffset()
	ml := d.glyphsFor(s, opts.Font)

	buf := d.activeBuffer()
	if !opts.Transparent {
		by := y + opts.Font.BackdropYOffset()
		bh := opts.Font.LineHeight()
		backdrop := Rect(x+ml.bbox.minX, by, x+ml.bbox.maxX, by+bh).normalize()
		rasterize(buf, backdrop, true, d.background)
	}

	drawGlyphs(buf, x, y, s, opts.Font, d.foreground)
}

// StringSize returns the pixel width and height s would occupy if drawn
// in font, per the same layout glyphs_for uses.
func (d *Display) StringSize(s string, font FontType) (w, h int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ml := d.glyphsFor(s, font)
	return ml.bbox.maxX - ml.bbox.minX, ml.bbox.maxY - ml.bbox.minY
}

// glyphsFor returns the glyph layout for (s, font), serving it from the
// single-entry cache when the previous call asked for the same pair.
// Callers must hold d.mu.
func (d *Display) glyphsFor(s string, font FontType) glyphLayout {
	if d.glyphCache.valid && d.glyphCache.text == s && d.glyphCache.font == font {
		d.layoutHits++
		return d.glyphCache.ml
	}
	ml := layoutText(s, font)
	d.glyphCache = glyphCacheEntry{valid: true, text: s, font: font, ml: ml}
	return ml
}

// LayoutHits reports how many glyphsFor calls were served from the glyph
// cache. It exists for tests that need to observe cache behavior from
// outside the package.
func (d *Display) LayoutHits() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.layoutHits
}

// SetFrameSink installs the function Render calls with the presented
// frame every time it actually presents one. Production wiring points
// this at a function that PNG-encodes and writes display.png; tests
// point it at something that inspects the image directly. A sink error
// is recorded (LastSinkError) but never propagated into the guest: per
// spec.md §7, an I/O failure here must not abort guest execution.
func (d *Display) SetFrameSink(fn func(image.Image) error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frameSink = fn
}

// LastSinkError returns the error, if any, returned by the most recent
// frame sink invocation.
func (d *Display) LastSinkError() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastSinkErr
}

// Render presents the current frame: it paints the header bar over the
// presented buffer and emits a frame, except in DoubleBuffered mode where
// an implicit render (explicit=false) is a complete no-op and only an
// explicit render flips the back buffer forward, paints the header, and
// emits a frame. An explicit render also latches the render mode to
// DoubleBuffered, syncing the back buffer from what was just presented,
// regardless of what mode it found the display in.
func (d *Display) Render(explicit bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.mode == DoubleBuffered && !explicit {
		return
	}

	if d.mode == DoubleBuffered {
		copy(d.front, d.back)
	}

	paintHeader(d.front)
	if d.frameSink != nil {
		d.lastSinkErr = d.frameSink(frameImage(d.front))
	}

	if explicit {
		d.mode = DoubleBuffered
		copy(d.back, d.front)
	}
}

// paintHeader overwrites the top HeaderHeight rows with headerColor. The
// V5 SDK always repaints the header on render, regardless of what a
// program drew underneath it.
func paintHeader(buf []Color) {
	for y := 0; y < HeaderHeight; y++ {
		row := buf[y*DisplayWidth : (y+1)*DisplayWidth]
		for x := range row {
			row[x] = headerColor
		}
	}
}

// frameImage converts a row-major Color buffer into a standard library
// image for preview windows and frame dumps.
func frameImage(buf []Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, DisplayWidth, DisplayHeight))
	for y := 0; y < DisplayHeight; y++ {
		for x := 0; x < DisplayWidth; x++ {
			c := buf[y*DisplayWidth+x]
			i := img.PixOffset(x, y)
			img.Pix[i] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = 0xff
		}
	}
	return img
}

// Snapshot returns the currently presented frame as an image, for
// consumers that want to mirror the display live rather than read it
// back off disk (cmd/vexsim's preview window).
func (d *Display) Snapshot() image.Image {
	d.mu.Lock()
	defer d.mu.Unlock()
	return frameImage(d.front)
}

// SaveFrame encodes the currently presented frame as a PNG to w. Render
// does not use it: presented frames go to the function installed with
// SetFrameSink.
func (d *Display) SaveFrame(w io.Writer) error {
	d.mu.Lock()
	img := frameImage(d.front)
	d.mu.Unlock()
	return png.Encode(w, img)
}
