package image

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/gogpu/mng/internal/filter"
)

func randomBuf(t *testing.T, rng *rand.Rand, w, h int, f Format) *ImageBuf {
	t.Helper()
	b, err := NewImageBuf(w, h, f)
	if err != nil {
		t.Fatalf("NewImageBuf() error = %v", err)
	}
	m := int(f.MaxSample())
	for y := range h {
		for x := range w {
			for c := range f.Channels() {
				_ = b.SetSample(x, y, c, uint16(rng.Intn(m+1)))
			}
		}
	}
	return b
}

func TestUnpackPackRow(t *testing.T) {
	b, _ := NewImageBuf(5, 1, FormatG2)
	// 00 01 10 11 | 01 (padded)
	packed := []byte{0x1b, 0x40}
	if err := b.UnpackRow(0, 0, 1, packed, 5); err != nil {
		t.Fatalf("UnpackRow() error = %v", err)
	}
	want := []byte{0, 1, 2, 3, 1}
	if !bytes.Equal(b.Row(0), want) {
		t.Errorf("UnpackRow() = %v, want %v", b.Row(0), want)
	}
	if got := b.PackRow(nil, 0, 0, 1, 5); !bytes.Equal(got, packed) {
		t.Errorf("PackRow() = %x, want %x", got, packed)
	}
	if err := b.UnpackRow(0, 0, 1, packed[:1], 5); !errors.Is(err, ErrDataTooSmall) {
		t.Errorf("UnpackRow(short) error = %v", err)
	}
}

func TestEncodeDecodeRows(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	formats := []Format{
		FormatG1, FormatG2, FormatG4, FormatG8, FormatG16,
		FormatRGB8, FormatRGB16, FormatIDX1, FormatIDX4, FormatIDX8,
		FormatGA8, FormatGA16, FormatRGBA8, FormatRGBA16,
	}
	for _, f := range formats {
		for _, interlaced := range []bool{false, true} {
			for _, method := range []uint8{filter.MethodAdaptive, filter.MethodIntrapixel} {
				name := f.String()
				if interlaced {
					name += "/adam7"
				}
				if method == filter.MethodIntrapixel {
					name += "/64"
				}
				t.Run(name, func(t *testing.T) {
					src := randomBuf(t, rng, 13, 11, f)
					data := EncodeRows(src, interlaced, method)
					dst, _ := NewImageBuf(13, 11, f)
					if err := DecodeRows(dst, data, interlaced, method); err != nil {
						t.Fatalf("DecodeRows() error = %v", err)
					}
					if !bytes.Equal(dst.Data(), src.Data()) {
						t.Error("DecodeRows(EncodeRows(buf)) differs from buf")
					}
				})
			}
		}
	}
}

func TestDecodeRowsTruncated(t *testing.T) {
	b, _ := NewImageBuf(4, 4, FormatRGB8)
	data := EncodeRows(b, false, 0)
	if err := DecodeRows(b, data[:len(data)-1], false, 0); !errors.Is(err, ErrRowData) {
		t.Errorf("DecodeRows(truncated) error = %v, want %v", err, ErrRowData)
	}
}

func TestDecodeRowsBadFilter(t *testing.T) {
	b, _ := NewImageBuf(2, 1, FormatG8)
	if err := DecodeRows(b, []byte{7, 1, 2}, false, 0); !errors.Is(err, filter.ErrUnknownType) {
		t.Errorf("DecodeRows(filter 7) error = %v, want %v", err, filter.ErrUnknownType)
	}
}
