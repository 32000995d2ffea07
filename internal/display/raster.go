package display

// rasterize draws p onto buf (a DisplayWidth x DisplayHeight row-major
// buffer) in c, either stroked (1px outline) or filled. p must already be
// normalize()d.
func rasterize(buf []Color, p Path, fill bool, c Color) {
	switch p.kind {
	case pathRect:
		rasterizeRect(buf, p.x1, p.y1, p.x2, p.y2, fill, c)
	case pathCircle:
		rasterizeCircle(buf, p.cx, p.cy, p.radius, fill, c)
	}
}

func setPixel(buf []Color, x, y int, c Color) {
	if x < 0 || x >= DisplayWidth || y < 0 || y >= DisplayHeight {
		return
	}
	buf[y*DisplayWidth+x] = c
}

func rasterizeRect(buf []Color, x1, y1, x2, y2 int, fill bool, c Color) {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}

	if fill {
		for y := y1; y <= y2; y++ {
			row := y * DisplayWidth
			for x := x1; x <= x2; x++ {
				if x >= 0 && x < DisplayWidth && y >= 0 && y < DisplayHeight {
					buf[row+x] = c
				}
			}
		}
		return
	}

	for x := x1; x <= x2; x++ {
		setPixel(buf, x, y1, c)
		setPixel(buf, x, y2, c)
	}
	for y := y1; y <= y2; y++ {
		setPixel(buf, x1, y, c)
		setPixel(buf, x2, y, c)
	}
}

// rasterizeCircle draws a circle via the standard midpoint/Bresenham
// algorithm, filling or stroking eight-way symmetric points per step.
func rasterizeCircle(buf []Color, cx, cy, radius int, fill bool, c Color) {
	if radius <= 0 {
		setPixel(buf, cx, cy, c)
		return
	}

	x, y := radius, 0
	err := 0

	plot := func(x, y int) {
		if fill {
			hspan(buf, cx-x, cx+x, cy+y, c)
			hspan(buf, cx-x, cx+x, cy-y, c)
			hspan(buf, cx-y, cx+y, cy+x, c)
			hspan(buf, cx-y, cx+y, cy-x, c)
			return
		}
		setPixel(buf, cx+x, cy+y, c)
		setPixel(buf, cx-x, cy+y, c)
		setPixel(buf, cx+x, cy-y, c)
		setPixel(buf, cx-x, cy-y, c)
		setPixel(buf, cx+y, cy+x, c)
		setPixel(buf, cx-y, cy+x, c)
		setPixel(buf, cx+y, cy-x, c)
		setPixel(buf, cx-y, cy-x, c)
	}

	for x >= y {
		plot(x, y)
		y++
		if err <= 0 {
			err += 2*y + 1
		}
		if err > 0 {
			x--
			err -= 2*x + 1
		}
	}
}

func hspan(buf []Color, x1, x2, y int, c Color) {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y < 0 || y >= DisplayHeight {
		return
	}
	row := y * DisplayWidth
	for x := x1; x <= x2; x++ {
		if x >= 0 && x < DisplayWidth {
			buf[row+x] = c
		}
	}
}

// blit copies src into buf starting at [x1,y1], one full stride-wide row
// per scanline, stopping once a row's y exceeds y2 (an inclusive row
// bound). Every pixel of each stride-wide row is written, not just the
// first (x2-x1+1) of them, clamped only to the screen. This matches the
// V5 SDK's copy_rect contract: row termination is by stride, not by x2.
func blit(buf []Color, x1, y1, x2, y2 int, src []Color, stride int) {
	if stride <= 0 {
		return
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}

	rows := len(src) / stride
	for row := 0; row < rows; row++ {
		dy := y1 + row
		if dy > y2 {
			break
		}
		if dy < 0 || dy >= DisplayHeight {
			continue
		}
		srcRow := src[row*stride : (row+1)*stride]
		for col := 0; col < stride; col++ {
			dx := x1 + col
			if dx < 0 || dx >= DisplayWidth {
				continue
			}
			buf[dy*DisplayWidth+dx] = srcRow[col]
		}
	}
}
