package display

import "testing"

func at(d *Display, x, y int) Color {
	return d.front[y*DisplayWidth+x]
}

func TestHeaderBarPaintedOnRender(t *testing.T) {
	d := New()
	d.Render(false)

	if got := at(d, 0, 0); got != headerColor {
		t.Errorf("header pixel = %+v, want %+v", got, headerColor)
	}
	if got := at(d, DisplayWidth-1, HeaderHeight-1); got != headerColor {
		t.Errorf("header pixel = %+v, want %+v", got, headerColor)
	}
	if got := at(d, 0, HeaderHeight); got == headerColor {
		t.Error("row just below the header was painted as header")
	}
}

func TestFilledRectDraw(t *testing.T) {
	d := New()
	d.SetForeground(Color{R: 0xAA, G: 0xBB, B: 0xCC})
	d.Draw(Rect(50, 100, 59, 109), true)

	if got := at(d, 55, 105); got != (Color{R: 0xAA, G: 0xBB, B: 0xCC}) {
		t.Errorf("interior pixel = %+v, want filled color", got)
	}
	if got := at(d, 60, 105); got == (Color{R: 0xAA, G: 0xBB, B: 0xCC}) {
		t.Error("pixel just outside the rect was filled")
	}
}

func TestOpaqueTextPaintsBackdrop(t *testing.T) {
	d := New()
	d.SetBackground(Color{R: 1, G: 2, B: 3})
	d.SetForeground(Color{R: 255, G: 255, B: 255})
	d.WriteText(10, 50, "A", TextOptions{Transparent: false, Font: FontNormal})

	ml := layoutText("A", FontNormal)
	by := 50 + FontNormal.YOffset() + FontNormal.BackdropYOffset()
	bx := 10 + ml.bbox.minX
	if got := at(d, bx, by); got != (Color{R: 1, G: 2, B: 3}) {
		t.Errorf("backdrop pixel = %+v, want background color", got)
	}
}

func TestGlyphCacheHitsOnRepeatedLookup(t *testing.T) {
	d := New()
	d.StringSize("hello", FontSmall)
	d.StringSize("hello", FontSmall)
	d.StringSize("other", FontSmall)
	d.StringSize("hello", FontSmall)

	if got := d.LayoutHits(); got != 1 {
		t.Errorf("LayoutHits() = %d, want 1 (only the second identical lookup in a row hits)", got)
	}
}

func TestColorPackRoundTrips(t *testing.T) {
	c := Color{R: 0x12, G: 0x34, B: 0x56}
	if got := UnpackColor(c.Pack()); got != c {
		t.Errorf("UnpackColor(Pack(c)) = %+v, want %+v", got, c)
	}
}

func TestSetForegroundIsIdempotent(t *testing.T) {
	d := New()
	c := Color{R: 9, G: 9, B: 9}
	d.SetForeground(c)
	d.SetForeground(c)
	if got := d.Foreground(); got != c {
		t.Errorf("Foreground() = %+v, want %+v", got, c)
	}
}

func TestExplicitRenderLatchesDoubleBufferMode(t *testing.T) {
	d := New()
	// No SetRenderMode call: the display starts Immediate, and an
	// explicit render alone must be what switches it into DoubleBuffered
	// (spec's "explicit=true also latches RenderMode to DoubleBuffered").
	d.Render(true)

	d.SetForeground(Color{R: 255})
	d.Draw(Rect(0, HeaderHeight+5, 10, HeaderHeight+15), true)

	d.Render(false)
	if got := at(d, 5, HeaderHeight+10); got == (Color{R: 255}) {
		t.Error("back buffer contents became visible without an explicit render; Render(true) failed to latch DoubleBuffered mode")
	}

	d.Render(true)
	if got := at(d, 5, HeaderHeight+10); got != (Color{R: 255}) {
		t.Errorf("pixel = %+v, want flushed back-buffer color after explicit render", got)
	}
}

func TestEraseFillsWithBackground(t *testing.T) {
	d := New()
	d.SetForeground(Color{R: 255})
	d.Draw(Rect(0, 0, 100, 100), true)
	d.SetBackground(Color{R: 1, G: 2, B: 3})
	d.Erase()

	if got := at(d, 50, 50); got != (Color{R: 1, G: 2, B: 3}) {
		t.Errorf("pixel after Erase = %+v, want background color", got)
	}
}

func TestPathNormalizeClampsToDisplayBounds(t *testing.T) {
	p := Rect(-10, -10, DisplayWidth+10, DisplayHeight+10).normalize()
	if p.x1 != 0 || p.y1 != 0 || p.x2 != DisplayWidth-1 || p.y2 != DisplayHeight-1 {
		t.Errorf("normalize() = %+v, want clamped to display bounds", p)
	}
}

func TestDrawBufferTerminatesRowsByStrideNotByX2(t *testing.T) {
	d := New()
	red := Color{R: 255}
	blue := Color{B: 255}
	// Two rows, stride 3, destination rect only 2 columns wide (x1=0,
	// x2=1): the third column of each source row must still be written,
	// since row termination is by stride, not by x2.
	src := []Color{red, red, blue, red, red, blue}
	d.DrawBuffer(0, HeaderHeight, 1, HeaderHeight+1, src, 3)

	if got := at(d, 0, HeaderHeight); got != red {
		t.Errorf("pixel (0,0) = %+v, want red", got)
	}
	if got := at(d, 1, HeaderHeight); got != red {
		t.Errorf("pixel (1,0) = %+v, want red", got)
	}
	if got := at(d, 2, HeaderHeight); got != blue {
		t.Errorf("pixel (2,0) = %+v, want blue (past x2, still within stride)", got)
	}
}

func TestDrawBufferTerminatesRowsByY2(t *testing.T) {
	d := New()
	red := Color{R: 255}
	// Two rows of source data, but y2 only covers the first row: the
	// second row must be dropped even though it's present in src.
	src := []Color{red, red}
	d.DrawBuffer(0, HeaderHeight, 0, HeaderHeight, src, 1)
	if got := at(d, 0, HeaderHeight); got != red {
		t.Errorf("pixel (0,0) = %+v, want red", got)
	}
	if got := at(d, 0, HeaderHeight+1); got == red {
		t.Errorf("pixel (0,1) = %+v, should not have been written (past y2)", got)
	}
}
