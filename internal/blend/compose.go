package blend

import (
	"errors"

	"github.com/gogpu/mng/internal/image"
)

// ErrFormat is returned when buffers are not in a canonical RGBA format or
// disagree in depth.
var ErrFormat = errors.New("blend: buffers must share RGBA8 or RGBA16 format")

// Row composites src into dst pixel by pixel. Both rows hold the same
// number of canonical RGBA pixels at the given depth (8 or 16).
func Row(mode Mode, dst, src []byte, depth uint8, premultiplied bool) {
	n := min(len(dst), len(src))
	if mode == ModeReplace {
		copy(dst[:n], src[:n])
		return
	}
	if depth == 16 {
		row16(mode, dst[:n], src[:n], premultiplied)
		return
	}

	fn := GetBlendFunc(mode, premultiplied)
	for i := 0; i+4 <= n; i += 4 {
		dst[i], dst[i+1], dst[i+2], dst[i+3] = fn(
			src[i], src[i+1], src[i+2], src[i+3],
			dst[i], dst[i+1], dst[i+2], dst[i+3])
	}
}

func row16(mode Mode, dst, src []byte, premultiplied bool) {
	for i := 0; i+8 <= len(dst); i += 8 {
		s := load16(src[i:])
		d := load16(dst[i:])
		var o [4]uint16
		if mode == ModeUnder {
			o = over16(d, s, premultiplied)
		} else {
			o = over16(s, d, premultiplied)
		}
		for c, v := range o {
			dst[i+2*c] = byte(v >> 8)
			dst[i+2*c+1] = byte(v)
		}
	}
}

func load16(p []byte) [4]uint16 {
	return [4]uint16{
		uint16(p[0])<<8 | uint16(p[1]),
		uint16(p[2])<<8 | uint16(p[3]),
		uint16(p[4])<<8 | uint16(p[5]),
		uint16(p[6])<<8 | uint16(p[7]),
	}
}

// Composite draws src onto dst with its origin at (x, y), restricted to
// clip. Pixels falling outside dst or clip are dropped silently. It returns
// the destination rectangle that was touched.
func Composite(dst, src *image.ImageBuf, x, y int, clip image.Rect, mode Mode, premultiplied bool) (image.Rect, error) {
	df, sf := dst.Format(), src.Format()
	if df != sf || (df != image.FormatRGBA8 && df != image.FormatRGBA16) {
		return image.Rect{}, ErrFormat
	}
	area := image.RectWH(x, y, src.Width(), src.Height()).
		Intersect(dst.Bounds()).
		Intersect(clip)
	if area.Empty() {
		return image.Rect{}, nil
	}

	bpp := df.BytesPerPixel()
	depth := df.BitDepth()
	for dy := area.MinY; dy < area.MaxY; dy++ {
		drow := dst.Row(dy)[area.MinX*bpp : area.MaxX*bpp]
		sx := area.MinX - x
		srow := src.Row(dy - y)[sx*bpp : (sx+area.Dx())*bpp]
		Row(mode, drow, srow, depth, premultiplied)
	}
	return area, nil
}
