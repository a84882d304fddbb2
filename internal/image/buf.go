package image

import (
	"errors"
	"fmt"
	"math"
)

// Common errors for image operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive
	// or the buffer would exceed its size limit.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrInvalidFormat is returned when the format is not recognized.
	ErrInvalidFormat = errors.New("image: invalid format")

	// ErrDataTooSmall is returned when provided data is smaller than required.
	ErrDataTooSmall = errors.New("image: data buffer too small")

	// ErrOutOfBounds is returned when pixel coordinates are outside image bounds.
	ErrOutOfBounds = errors.New("image: coordinates out of bounds")
)

// Rect is an integer rectangle with exclusive Max.
type Rect struct {
	MinX, MinY, MaxX, MaxY int
}

// RectWH returns the rectangle at (x, y) with the given size.
func RectWH(x, y, w, h int) Rect {
	return Rect{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}
}

// Dx returns the rectangle width.
func (r Rect) Dx() int { return r.MaxX - r.MinX }

// Dy returns the rectangle height.
func (r Rect) Dy() int { return r.MaxY - r.MinY }

// Empty reports whether the rectangle contains no pixels.
func (r Rect) Empty() bool { return r.MinX >= r.MaxX || r.MinY >= r.MaxY }

// Intersect returns the largest rectangle contained by both r and s.
func (r Rect) Intersect(s Rect) Rect {
	r.MinX = max(r.MinX, s.MinX)
	r.MinY = max(r.MinY, s.MinY)
	r.MaxX = min(r.MaxX, s.MaxX)
	r.MaxY = min(r.MaxY, s.MaxY)
	if r.Empty() {
		return Rect{}
	}
	return r
}

// Union returns the smallest rectangle containing both r and s.
func (r Rect) Union(s Rect) Rect {
	if r.Empty() {
		return s
	}
	if s.Empty() {
		return r
	}
	r.MinX = min(r.MinX, s.MinX)
	r.MinY = min(r.MinY, s.MinY)
	r.MaxX = max(r.MaxX, s.MaxX)
	r.MaxY = max(r.MaxY, s.MaxY)
	return r
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{r.MinX + dx, r.MinY + dy, r.MaxX + dx, r.MaxY + dy}
}

// MaxBufferBytes bounds the pixel data of a single ImageBuf.
const MaxBufferBytes uint64 = 1 << 31

// CheckSize reports whether a width x height buffer in format fits in
// MaxBufferBytes and, when maxPixels is non-zero, in maxPixels pixels.
func CheckSize(width, height int, format Format, maxPixels uint64) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidDimensions
	}
	if !format.IsValid() {
		return ErrInvalidFormat
	}
	w, h := uint64(width), uint64(height)
	if w > MaxBufferBytes || h > MaxBufferBytes {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	pixels := w * h
	if maxPixels > 0 && pixels > maxPixels {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidDimensions, width, height, maxPixels)
	}
	limit := min(MaxBufferBytes, uint64(math.MaxInt))
	if pixels > limit || pixels*uint64(format.BytesPerPixel()) > limit {
		return fmt.Errorf("%w: %dx%d %v exceeds %d bytes", ErrInvalidDimensions, width, height, format, limit)
	}
	return nil
}

// ImageBuf is a pixel buffer in one of the MNG storage formats.
//
// ImageBuf is not safe for concurrent mutation; object buffers are owned by
// a single decoder.
type ImageBuf struct {
	data   []byte
	width  int
	height int
	stride int
	format Format
}

// NewImageBuf creates a zeroed image buffer with the given dimensions and
// format. Buffers larger than MaxBufferBytes are rejected with
// ErrInvalidDimensions.
func NewImageBuf(width, height int, format Format) (*ImageBuf, error) {
	if err := CheckSize(width, height, format, 0); err != nil {
		return nil, err
	}

	stride := format.RowBytes(width)
	return &ImageBuf{
		data:   make([]byte, stride*height),
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// FromRaw creates an ImageBuf over existing unpacked sample data without
// copying.
func FromRaw(data []byte, width, height int, format Format) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}
	stride := format.RowBytes(width)
	if len(data) < stride*height {
		return nil, ErrDataTooSmall
	}
	return &ImageBuf{
		data:   data[:stride*height],
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// Clone creates a deep copy of the image buffer.
func (b *ImageBuf) Clone() *ImageBuf {
	return &ImageBuf{
		data:   append([]byte(nil), b.data...),
		width:  b.width,
		height: b.height,
		stride: b.stride,
		format: b.format,
	}
}

// Width returns the image width in pixels.
func (b *ImageBuf) Width() int {
	return b.width
}

// Height returns the image height in pixels.
func (b *ImageBuf) Height() int {
	return b.height
}

// Stride returns the number of bytes per row.
func (b *ImageBuf) Stride() int {
	return b.stride
}

// Format returns the storage format.
func (b *ImageBuf) Format() Format {
	return b.format
}

// Bounds returns the buffer rectangle anchored at the origin.
func (b *ImageBuf) Bounds() Rect {
	return Rect{MaxX: b.width, MaxY: b.height}
}

// Data returns the underlying sample data.
func (b *ImageBuf) Data() []byte {
	return b.data
}

// Row returns the stored bytes for row y, or nil if y is out of bounds.
func (b *ImageBuf) Row(y int) []byte {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.stride
	return b.data[start : start+b.stride]
}

// PixelBytes returns the stored bytes for pixel (x, y), or nil if the
// coordinates are out of bounds.
func (b *ImageBuf) PixelBytes(x, y int) []byte {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return nil
	}
	bpp := b.format.BytesPerPixel()
	off := y*b.stride + x*bpp
	return b.data[off : off+bpp]
}

// Sample returns sample c of pixel (x, y).
func (b *ImageBuf) Sample(x, y, c int) uint16 {
	p := b.PixelBytes(x, y)
	if p == nil {
		return 0
	}
	return getSample(p, c, b.format.Info().SampleBytes)
}

// SetSample sets sample c of pixel (x, y).
func (b *ImageBuf) SetSample(x, y, c int, v uint16) error {
	p := b.PixelBytes(x, y)
	if p == nil {
		return ErrOutOfBounds
	}
	putSample(p, c, b.format.Info().SampleBytes, v)
	return nil
}

// Fill sets every pixel to the given samples, one per channel.
func (b *ImageBuf) Fill(samples ...uint16) {
	info := b.format.Info()
	if len(samples) < info.Channels {
		return
	}
	px := make([]byte, b.format.BytesPerPixel())
	for c := range info.Channels {
		putSample(px, c, info.SampleBytes, samples[c])
	}
	for off := 0; off < len(b.data); off += len(px) {
		copy(b.data[off:], px)
	}
}

// Clear sets all samples to zero.
func (b *ImageBuf) Clear() {
	clear(b.data)
}

// ByteSize returns the total size of the sample data in bytes.
func (b *ImageBuf) ByteSize() int {
	return len(b.data)
}

// SubImage copies the rectangle r (clipped to the buffer) into a new buffer.
// Returns nil if the clipped rectangle is empty.
func (b *ImageBuf) SubImage(r Rect) *ImageBuf {
	r = r.Intersect(b.Bounds())
	if r.Empty() {
		return nil
	}
	sub, _ := NewImageBuf(r.Dx(), r.Dy(), b.format)
	bpp := b.format.BytesPerPixel()
	for y := range sub.height {
		src := b.Row(r.MinY + y)
		copy(sub.Row(y), src[r.MinX*bpp:r.MaxX*bpp])
	}
	return sub
}

func getSample(p []byte, c, sampleBytes int) uint16 {
	if sampleBytes == 2 {
		return uint16(p[2*c])<<8 | uint16(p[2*c+1])
	}
	return uint16(p[c])
}

func putSample(p []byte, c, sampleBytes int, v uint16) {
	if sampleBytes == 2 {
		p[2*c] = byte(v >> 8)
		p[2*c+1] = byte(v)
		return
	}
	p[c] = byte(v)
}
