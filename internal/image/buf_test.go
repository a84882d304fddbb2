package image

import (
	"errors"
	"testing"
)

func TestNewImageBuf(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		height  int
		format  Format
		wantErr error
	}{
		{"valid RGBA8", 100, 100, FormatRGBA8, nil},
		{"valid G1", 9, 3, FormatG1, nil},
		{"1x1 minimum", 1, 1, FormatRGBA16, nil},
		{"zero width", 0, 100, FormatRGBA8, ErrInvalidDimensions},
		{"negative height", 100, -1, FormatRGBA8, ErrInvalidDimensions},
		{"invalid format", 100, 100, Format(255), ErrInvalidFormat},
		{"overflowing size", 0x7fffffff, 0x7fffffff, FormatRGBA16, ErrInvalidDimensions},
		{"over byte cap", 1 << 16, 1 << 14, FormatRGBA8, ErrInvalidDimensions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := NewImageBuf(tt.width, tt.height, tt.format)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewImageBuf() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil {
				return
			}
			if buf.Width() != tt.width || buf.Height() != tt.height {
				t.Errorf("size = %dx%d, want %dx%d", buf.Width(), buf.Height(), tt.width, tt.height)
			}
			if want := tt.format.RowBytes(tt.width) * tt.height; buf.ByteSize() != want {
				t.Errorf("ByteSize() = %d, want %d", buf.ByteSize(), want)
			}
		})
	}
}

func TestFromRaw(t *testing.T) {
	if _, err := FromRaw(make([]byte, 5), 2, 1, FormatRGB8); !errors.Is(err, ErrDataTooSmall) {
		t.Errorf("FromRaw(short) error = %v, want %v", err, ErrDataTooSmall)
	}
	b, err := FromRaw([]byte{1, 2, 3, 4, 5, 6, 7}, 2, 1, FormatRGB8)
	if err != nil {
		t.Fatalf("FromRaw() error = %v", err)
	}
	if b.ByteSize() != 6 {
		t.Errorf("ByteSize() = %d, want 6", b.ByteSize())
	}
}

func TestSamples(t *testing.T) {
	b, _ := NewImageBuf(2, 2, FormatRGBA16)
	if err := b.SetSample(1, 1, 2, 0xabcd); err != nil {
		t.Fatalf("SetSample() error = %v", err)
	}
	if got := b.Sample(1, 1, 2); got != 0xabcd {
		t.Errorf("Sample() = %#x, want 0xabcd", got)
	}
	if p := b.PixelBytes(1, 1); p[4] != 0xab || p[5] != 0xcd {
		t.Errorf("stored bytes = %x, want big-endian abcd", p[4:6])
	}
	if err := b.SetSample(2, 0, 0, 1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("SetSample(out of bounds) error = %v", err)
	}
}

func TestFillAndClone(t *testing.T) {
	b, _ := NewImageBuf(3, 2, FormatGA8)
	b.Fill(7, 200)
	c := b.Clone()
	b.Clear()
	for y := range 2 {
		for x := range 3 {
			if c.Sample(x, y, 0) != 7 || c.Sample(x, y, 1) != 200 {
				t.Fatalf("clone pixel (%d,%d) = %v", x, y, c.PixelBytes(x, y))
			}
		}
	}
	if b.Sample(0, 0, 1) != 0 {
		t.Error("Clear() did not zero original")
	}
}

func TestSubImage(t *testing.T) {
	b, _ := NewImageBuf(4, 4, FormatG8)
	for i := range b.Data() {
		b.Data()[i] = byte(i)
	}
	sub := b.SubImage(Rect{MinX: 1, MinY: 2, MaxX: 9, MaxY: 9})
	if sub.Width() != 3 || sub.Height() != 2 {
		t.Fatalf("SubImage size = %dx%d, want 3x2", sub.Width(), sub.Height())
	}
	if got := sub.Sample(0, 0, 0); got != 9 {
		t.Errorf("SubImage(0,0) = %d, want 9", got)
	}
	if b.SubImage(Rect{MinX: 5, MinY: 5, MaxX: 6, MaxY: 6}) != nil {
		t.Error("SubImage(outside) != nil")
	}
}

func TestRect(t *testing.T) {
	a := RectWH(0, 0, 10, 10)
	b := RectWH(5, 5, 10, 10)
	if got := a.Intersect(b); got != (Rect{5, 5, 10, 10}) {
		t.Errorf("Intersect() = %+v", got)
	}
	if got := a.Union(b); got != (Rect{0, 0, 15, 15}) {
		t.Errorf("Union() = %+v", got)
	}
	if got := a.Intersect(RectWH(20, 20, 1, 1)); !got.Empty() {
		t.Errorf("disjoint Intersect() = %+v, want empty", got)
	}
	if got := (Rect{}).Union(b); got != b {
		t.Errorf("empty Union() = %+v", got)
	}
}

func TestCheckSize(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		format        Format
		maxPixels     uint64
		wantErr       error
	}{
		{"no budget", 4096, 4096, FormatRGBA16, 0, nil},
		{"within budget", 10, 10, FormatG8, 100, nil},
		{"over budget", 10, 11, FormatG8, 100, ErrInvalidDimensions},
		{"over byte cap", 1 << 15, 1 << 14, FormatRGBA16, 0, ErrInvalidDimensions},
		{"huge width", 0x7fffffff, 2, FormatG1, 0, ErrInvalidDimensions},
		{"zero height", 1, 0, FormatG8, 0, ErrInvalidDimensions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSize(tt.width, tt.height, tt.format, tt.maxPixels)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckSize() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
