package filter

// Pass describes one Adam7 sub-image: the pixel grid that starts at
// (X0, Y0) and steps by (DX, DY), together with its reduced dimensions.
type Pass struct {
	X0, Y0 int
	DX, DY int
	Width  int
	Height int
}

// Empty reports whether the pass carries no pixels. Empty passes have no
// scanlines, not even filter bytes.
func (p Pass) Empty() bool {
	return p.Width == 0 || p.Height == 0
}

var adam7 = [7]struct{ x0, y0, dx, dy int }{
	{0, 0, 8, 8},
	{4, 0, 8, 8},
	{0, 4, 4, 8},
	{2, 0, 4, 4},
	{0, 2, 2, 4},
	{1, 0, 2, 2},
	{0, 1, 1, 2},
}

// Passes returns the seven Adam7 passes for an image of the given size.
func Passes(width, height int) []Pass {
	passes := make([]Pass, 0, len(adam7))
	for _, a := range adam7 {
		passes = append(passes, Pass{
			X0:     a.x0,
			Y0:     a.y0,
			DX:     a.dx,
			DY:     a.dy,
			Width:  span(width, a.x0, a.dx),
			Height: span(height, a.y0, a.dy),
		})
	}
	return passes
}

// Progressive returns the single pass of a non-interlaced image.
func Progressive(width, height int) []Pass {
	return []Pass{{DX: 1, DY: 1, Width: width, Height: height}}
}

func span(n, start, step int) int {
	if n <= start {
		return 0
	}
	return (n - start + step - 1) / step
}

// StreamBytes returns the size of the filtered pixel stream of an image:
// one filter byte plus the packed scanline for every row of every pass.
func StreamBytes(width, height int, colorType, bitDepth uint8, interlaced bool) int {
	passes := Progressive(width, height)
	if interlaced {
		passes = Passes(width, height)
	}
	n := 0
	for _, p := range passes {
		if !p.Empty() {
			n += p.Height * (1 + RowBytes(p.Width, colorType, bitDepth))
		}
	}
	return n
}
