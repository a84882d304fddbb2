package image

import (
	"errors"
	"fmt"
)

// ErrBadPromotion is returned for promotions that would lose information:
// lower bit depth, dropped alpha, or conversion into an indexed format from
// a non-indexed one.
var ErrBadPromotion = errors.New("image: invalid promotion")

// Fill selects how low-order bits are filled when a sample gains bit depth.
// The values match the PROM fill method byte.
type Fill uint8

const (
	// FillReplicate repeats the sample's bits (1 becomes 255 at 8 bits,
	// an 8-bit v becomes v*257 at 16 bits).
	FillReplicate Fill = 0

	// FillZero shifts the sample left, leaving low bits zero.
	FillZero Fill = 1
)

// ScaleSample converts v from one bit depth to another. Increasing depth
// uses fill; decreasing depth keeps the high-order bits.
func ScaleSample(v uint16, from, to uint8, fill Fill) uint16 {
	switch {
	case from == to:
		return v
	case to < from:
		return v >> (from - to)
	case fill == FillZero:
		return v << (to - from)
	default:
		// Every legal depth divides the larger ones, so the ratio of the
		// maxima is exact.
		return v * (MaxSample(to) / MaxSample(from))
	}
}

// CanPromote reports whether a buffer in format from may be promoted to to.
func CanPromote(from, to Format) bool {
	if !from.IsValid() || !to.IsValid() {
		return false
	}
	fi, ti := from.Info(), to.Info()
	if fi.IsIndexed {
		if ti.IsIndexed {
			return ti.BitDepth >= fi.BitDepth
		}
		return ti.ColorType == ColorRGB || ti.ColorType == ColorRGBA
	}
	if ti.IsIndexed || ti.BitDepth < fi.BitDepth {
		return false
	}
	if fi.HasAlpha && !ti.HasAlpha {
		return false
	}
	switch fi.ColorType {
	case ColorGray:
		return true
	case ColorGrayAlpha:
		return ti.ColorType == ColorGrayAlpha || ti.ColorType == ColorRGBA
	case ColorRGB:
		return ti.ColorType == ColorRGB || ti.ColorType == ColorRGBA
	case ColorRGBA:
		return ti.ColorType == ColorRGBA
	}
	return false
}

// Promote returns src converted to format to. Gray samples are replicated
// into RGB, indexed pixels are looked up in ex.Palette, and a new alpha
// channel is filled with the maximum (or zero where ex.Key matches). When
// to equals the source format, src itself is returned.
func Promote(src *ImageBuf, to Format, fill Fill, ex Expand) (*ImageBuf, error) {
	from := src.format
	if from == to {
		return src, nil
	}
	if !CanPromote(from, to) {
		return nil, fmt.Errorf("%w: %v to %v", ErrBadPromotion, from, to)
	}

	dst, err := NewImageBuf(src.width, src.height, to)
	if err != nil {
		return nil, err
	}
	fi, ti := from.Info(), to.Info()
	fd, td := fi.BitDepth, ti.BitDepth
	sb, db := fi.SampleBytes, ti.SampleBytes
	maxA := MaxSample(td)

	for y := range src.height {
		srow, drow := src.Row(y), dst.Row(y)
		for x := range src.width {
			sp := srow[x*src.format.BytesPerPixel():]
			dp := drow[x*to.BytesPerPixel():]

			var c [4]uint16
			alpha := maxA
			switch fi.ColorType {
			case ColorIndexed:
				idx := getSample(sp, 0, sb)
				if ti.IsIndexed {
					putSample(dp, 0, db, idx)
					continue
				}
				r, g, b, a := ex.Palette.entry(idx)
				c = [4]uint16{
					ScaleSample(uint16(r), 8, td, fill),
					ScaleSample(uint16(g), 8, td, fill),
					ScaleSample(uint16(b), 8, td, fill),
				}
				alpha = ScaleSample(uint16(a), 8, td, fill)
			case ColorGray, ColorGrayAlpha:
				v := getSample(sp, 0, sb)
				if ex.Key.Valid && !fi.HasAlpha && v == ex.Key.Gray {
					alpha = 0
				}
				v = ScaleSample(v, fd, td, fill)
				c = [4]uint16{v, v, v}
				if fi.HasAlpha {
					alpha = ScaleSample(getSample(sp, 1, sb), fd, td, fill)
				}
			case ColorRGB, ColorRGBA:
				r, g, b := getSample(sp, 0, sb), getSample(sp, 1, sb), getSample(sp, 2, sb)
				if ex.Key.Valid && !fi.HasAlpha && r == ex.Key.R && g == ex.Key.G && b == ex.Key.B {
					alpha = 0
				}
				c = [4]uint16{
					ScaleSample(r, fd, td, fill),
					ScaleSample(g, fd, td, fill),
					ScaleSample(b, fd, td, fill),
				}
				if fi.HasAlpha {
					alpha = ScaleSample(getSample(sp, 3, sb), fd, td, fill)
				}
			}

			switch ti.ColorType {
			case ColorGray:
				putSample(dp, 0, db, c[0])
			case ColorGrayAlpha:
				putSample(dp, 0, db, c[0])
				putSample(dp, 1, db, alpha)
			case ColorRGB:
				putSample(dp, 0, db, c[0])
				putSample(dp, 1, db, c[1])
				putSample(dp, 2, db, c[2])
			case ColorRGBA:
				putSample(dp, 0, db, c[0])
				putSample(dp, 1, db, c[1])
				putSample(dp, 2, db, c[2])
				putSample(dp, 3, db, alpha)
			}
		}
	}
	return dst, nil
}
