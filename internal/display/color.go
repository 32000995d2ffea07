package display

// Color is an 8-bit-per-channel RGB triple.
type Color struct {
	R, G, B uint8
}

// UnpackColor decodes the SDK's 32-bit little-endian packed color. Byte 0
// (the low byte) is red, byte 1 is green, byte 2 is blue; byte 3 is
// ignored. Both conventions (byte 0 red vs. byte 0 blue) exist in the
// wild, so this is spelled out explicitly rather than left to a shift
// expression reader would have to reverse-engineer.
func UnpackColor(packed uint32) Color {
	return Color{
		R: uint8(packed),
		G: uint8(packed >> 8),
		B: uint8(packed >> 16),
	}
}

// Pack re-encodes a Color into the SDK's 32-bit little-endian layout, with
// the high byte zeroed. Pack(UnpackColor(x)) is the identity on the low
// three bytes of x, for any x.
func (c Color) Pack() uint32 {
	return uint32(c.R) | uint32(c.G)<<8 | uint32(c.B)<<16
}

// headerColor is the fixed color of the 32-row program header bar.
var headerColor = Color{R: 0x00, G: 0x99, B: 0xCC}

// defaultBackground is the framebuffer's fill color before any program
// draws to it, and the background color until set_background changes it.
var defaultBackground = Color{R: 0x00, G: 0x00, B: 0x00}

// defaultForeground is the draw color before any set_foreground call.
var defaultForeground = Color{R: 0xFF, G: 0xFF, B: 0xFF}
