package image

import (
	"errors"
	"fmt"
	"math"
)

// ErrBadMagnify is returned for unknown magnification methods or zero
// factors.
var ErrBadMagnify = errors.New("image: invalid magnification")

// MagnifyMethod is an MNG MAGN per-axis method.
type MagnifyMethod uint8

const (
	MagnifyNone MagnifyMethod = iota
	MagnifyReplicate
	MagnifyLinear
	MagnifyClosest
	// MagnifyLinearColor interpolates color samples and replicates alpha.
	MagnifyLinearColor
	// MagnifyClosestColor replicates color samples and interpolates alpha.
	MagnifyClosestColor
)

// MagnifyParams are the MAGN factors for one object. MX and MY apply to
// interior pixels, ML/MR to the leftmost/rightmost column and MT/MB to the
// top/bottom row.
type MagnifyParams struct {
	XMethod, YMethod MagnifyMethod
	MX, MY           int
	ML, MR, MT, MB   int
}

// NoMagnify is the identity magnification.
var NoMagnify = MagnifyParams{MX: 1, MY: 1, ML: 1, MR: 1, MT: 1, MB: 1}

// Identity reports whether magnifying with p leaves every buffer unchanged.
func (p MagnifyParams) Identity() bool {
	xid := p.XMethod == MagnifyNone || (p.MX == 1 && p.ML == 1 && p.MR == 1)
	yid := p.YMethod == MagnifyNone || (p.MY == 1 && p.MT == 1 && p.MB == 1)
	return xid && yid
}

// Validate checks methods and factors.
func (p MagnifyParams) Validate() error {
	if p.XMethod > MagnifyClosestColor || p.YMethod > MagnifyClosestColor {
		return fmt.Errorf("%w: method %d/%d", ErrBadMagnify, p.XMethod, p.YMethod)
	}
	if p.XMethod != MagnifyNone && (p.MX < 1 || p.ML < 1 || p.MR < 1) {
		return fmt.Errorf("%w: zero X factor", ErrBadMagnify)
	}
	if p.YMethod != MagnifyNone && (p.MY < 1 || p.MT < 1 || p.MB < 1) {
		return fmt.Errorf("%w: zero Y factor", ErrBadMagnify)
	}
	return nil
}

// MagnifiedSize returns the size of an n-pixel span after magnification
// with interior factor m and end factors first and last. Sizes past
// math.MaxInt32 are clamped.
func MagnifiedSize(n, m, first, last int) int {
	switch {
	case n <= 0:
		return 0
	case n == 1:
		return first
	default:
		v := int64(first) + int64(n-2)*int64(m) + int64(last)
		return int(min(v, math.MaxInt32))
	}
}

// Magnify returns src magnified by p. When p is the identity, src itself is
// returned. A result of more than maxPixels pixels (when non-zero) or
// MaxBufferBytes bytes is rejected before any allocation.
func Magnify(src *ImageBuf, p MagnifyParams, maxPixels uint64) (*ImageBuf, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Identity() {
		return src, nil
	}
	w, h := src.width, src.height
	if p.XMethod != MagnifyNone {
		w = MagnifiedSize(w, p.MX, p.ML, p.MR)
	}
	if p.YMethod != MagnifyNone {
		h = MagnifiedSize(h, p.MY, p.MT, p.MB)
	}
	if err := CheckSize(w, h, src.format, maxPixels); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadMagnify, err)
	}
	out := src
	var err error
	if p.XMethod != MagnifyNone {
		if out, err = magnifyAxis(out, p.XMethod, p.MX, p.ML, p.MR, true); err != nil {
			return nil, err
		}
	}
	if p.YMethod != MagnifyNone {
		if out, err = magnifyAxis(out, p.YMethod, p.MY, p.MT, p.MB, false); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// magnifyAxis expands src along one axis. Pixel i of the span produces a
// block of factor(i) output pixels; position s of the block blends pixel i
// with pixel i+1 at fraction s/factor (the last pixel has no successor and
// is replicated).
func magnifyAxis(src *ImageBuf, method MagnifyMethod, m, first, last int, horizontal bool) (*ImageBuf, error) {
	n := src.height
	if horizontal {
		n = src.width
	}
	size := MagnifiedSize(n, m, first, last)
	w, h := src.width, size
	if horizontal {
		w, h = size, src.height
	}
	dst, err := NewImageBuf(w, h, src.format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadMagnify, err)
	}

	info := src.format.Info()
	alphaCh := -1
	if info.HasAlpha {
		alphaCh = info.Channels - 1
	}
	// Palette indices cannot be interpolated.
	indexed := info.IsIndexed

	lanes := src.width
	if horizontal {
		lanes = src.height
	}
	at := func(lane, pos int) (x, y int) {
		if horizontal {
			return pos, lane
		}
		return lane, pos
	}

	for lane := range lanes {
		out := 0
		for i := range n {
			factor := m
			switch {
			case i == 0:
				factor = first
			case i == n-1:
				factor = last
			}
			x0, y0 := at(lane, i)
			a := src.PixelBytes(x0, y0)
			var b []byte
			if i+1 < n {
				x1, y1 := at(lane, i+1)
				b = src.PixelBytes(x1, y1)
			}
			for s := range factor {
				dx, dy := at(lane, out)
				dp := dst.PixelBytes(dx, dy)
				out++
				if b == nil || s == 0 {
					copy(dp, a)
					continue
				}
				for c := range info.Channels {
					va, vb := getSample(a, c, info.SampleBytes), getSample(b, c, info.SampleBytes)
					linear := method == MagnifyLinear
					switch method {
					case MagnifyLinearColor:
						linear = c != alphaCh
					case MagnifyClosestColor:
						linear = c == alphaCh
					}
					var v uint16
					if linear && !indexed {
						v = lerp(va, vb, s, factor)
					} else if method == MagnifyReplicate {
						v = va
					} else {
						v = closest(va, vb, s, factor)
					}
					putSample(dp, c, info.SampleBytes, v)
				}
			}
		}
	}
	return dst, nil
}

// lerp returns a + (b-a)*s/m rounded half up, for ascending and
// descending spans alike.
func lerp(a, b uint16, s, m int) uint16 {
	n := 2*(int(b)-int(a))*s + m
	q := n / (2 * m)
	if n%(2*m) < 0 {
		q--
	}
	return uint16(int(a) + q)
}

func closest(a, b uint16, s, m int) uint16 {
	if 2*s < m {
		return a
	}
	return b
}
