package image

import (
	"errors"
	"fmt"

	"github.com/gogpu/mng/internal/filter"
)

// ErrRowData is returned when the inflated pixel stream ends before every
// scanline of the image has been read.
var ErrRowData = errors.New("image: pixel data truncated")

// UnpackRow stores n pixels of a packed PNG scanline into row y, starting at
// column x0 and advancing dx columns per pixel (dx > 1 for Adam7 passes).
func (b *ImageBuf) UnpackRow(y, x0, dx int, packed []byte, n int) error {
	row := b.Row(y)
	if row == nil {
		return ErrOutOfBounds
	}
	info := b.format.Info()
	if len(packed) < filter.RowBytes(n, uint8(info.ColorType), info.BitDepth) {
		return ErrDataTooSmall
	}
	bpp := b.format.BytesPerPixel()

	if info.BitDepth >= 8 {
		for i := range n {
			x := x0 + i*dx
			if x >= b.width {
				break
			}
			copy(row[x*bpp:(x+1)*bpp], packed[i*bpp:(i+1)*bpp])
		}
		return nil
	}

	depth := int(info.BitDepth)
	mask := byte(1<<depth - 1)
	for i := range n {
		x := x0 + i*dx
		if x >= b.width {
			break
		}
		bit := i * depth
		shift := 8 - depth - bit%8
		row[x] = packed[bit/8] >> shift & mask
	}
	return nil
}

// PackRow appends n pixels of row y, starting at column x0 and advancing dx
// columns per pixel, to dst in packed PNG scanline layout.
func (b *ImageBuf) PackRow(dst []byte, y, x0, dx, n int) []byte {
	row := b.Row(y)
	info := b.format.Info()
	bpp := b.format.BytesPerPixel()

	if info.BitDepth >= 8 {
		for i := range n {
			x := x0 + i*dx
			dst = append(dst, row[x*bpp:(x+1)*bpp]...)
		}
		return dst
	}

	depth := int(info.BitDepth)
	start := len(dst)
	dst = append(dst, make([]byte, filter.RowBytes(n, uint8(info.ColorType), info.BitDepth))...)
	packed := dst[start:]
	for i := range n {
		x := x0 + i*dx
		bit := i * depth
		shift := 8 - depth - bit%8
		packed[bit/8] |= (row[x] & byte(1<<depth-1)) << shift
	}
	return dst
}

// StreamSize returns the size of the filtered pixel stream DecodeRows reads
// for a width x height image in f.
func StreamSize(width, height int, f Format, interlaced bool) int {
	info := f.Info()
	return filter.StreamBytes(width, height, uint8(info.ColorType), info.BitDepth, interlaced)
}

// DecodeRows reconstructs an image from an inflated, filtered PNG pixel
// stream. interlaced selects Adam7. method is the header's filter method;
// filter.MethodIntrapixel undoes intrapixel differencing after unfiltering.
// The data slice is unfiltered in place.
func DecodeRows(b *ImageBuf, data []byte, interlaced bool, method uint8) error {
	info := b.format.Info()
	ct, depth := uint8(info.ColorType), info.BitDepth
	bpp := filter.BytesPerPixel(ct, depth)

	passes := filter.Progressive(b.width, b.height)
	if interlaced {
		passes = filter.Passes(b.width, b.height)
	}

	var scratch []byte
	off := 0
	for _, p := range passes {
		if p.Empty() {
			continue
		}
		rb := filter.RowBytes(p.Width, ct, depth)
		var prev []byte
		for r := range p.Height {
			if off+1+rb > len(data) {
				return fmt.Errorf("%w: need %d bytes, have %d", ErrRowData, off+1+rb, len(data))
			}
			cur := data[off+1 : off+1+rb]
			if err := filter.Unfilter(filter.Type(data[off]), cur, prev, bpp); err != nil {
				return err
			}
			out := cur
			if method == filter.MethodIntrapixel {
				scratch = append(scratch[:0], cur...)
				filter.Undifference(scratch, ct, depth)
				out = scratch
			}
			if err := b.UnpackRow(p.Y0+r*p.DY, p.X0, p.DX, out, p.Width); err != nil {
				return err
			}
			prev = cur
			off += 1 + rb
		}
	}
	return nil
}

// EncodeRows produces the filtered PNG pixel stream for b, ready to be
// deflated. Indexed and sub-byte images use filter None; everything else
// picks a filter per row with filter.Choose.
func EncodeRows(b *ImageBuf, interlaced bool, method uint8) []byte {
	info := b.format.Info()
	ct, depth := uint8(info.ColorType), info.BitDepth
	bpp := filter.BytesPerPixel(ct, depth)
	adaptive := !info.IsIndexed && depth >= 8

	passes := filter.Progressive(b.width, b.height)
	if interlaced {
		passes = filter.Passes(b.width, b.height)
	}

	var out, cur, prev, scratch []byte
	for _, p := range passes {
		if p.Empty() {
			continue
		}
		prev = prev[:0]
		for r := range p.Height {
			cur = b.PackRow(cur[:0], p.Y0+r*p.DY, p.X0, p.DX, p.Width)
			if method == filter.MethodIntrapixel {
				filter.Difference(cur, ct, depth)
			}
			var up []byte
			if len(prev) > 0 {
				up = prev
			}
			ft := filter.None
			if adaptive {
				ft = filter.Choose(cur, up, bpp, scratch)
			}
			if len(scratch) < len(cur) {
				scratch = make([]byte, len(cur))
			}
			_ = filter.Filter(ft, scratch[:len(cur)], cur, up, bpp)
			out = append(out, byte(ft))
			out = append(out, scratch[:len(cur)]...)
			prev = append(prev[:0], cur...)
		}
	}
	return out
}
