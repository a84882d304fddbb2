// Package codec defines the compression collaborators used by the MNG
// engine and provides the default implementations: zlib streams through
// github.com/klauspost/compress and baseline JPEG through image/jpeg.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
)

var (
	// ErrTooLarge is returned when inflated data exceeds the configured limit.
	ErrTooLarge = errors.New("codec: inflated data exceeds limit")

	// ErrShortRows is returned when a pixel stream holds fewer bytes than
	// its scanlines need.
	ErrShortRows = errors.New("codec: pixel stream too short")
)

// Inflater decompresses a complete zlib stream.
type Inflater interface {
	Inflate(src []byte) ([]byte, error)
}

// LimitInflater is an Inflater that stops reading as soon as the output
// passes limit bytes.
type LimitInflater interface {
	Inflater
	InflateLimit(src []byte, limit int64) ([]byte, error)
}

// Deflater compresses data into a zlib stream.
type Deflater interface {
	Deflate(src []byte) ([]byte, error)
}

// JPEG decodes and encodes the baseline JPEG streams carried by JDAT and
// JDAA chunks.
type JPEG interface {
	DecodeJPEG(src []byte) (image.Image, error)
	EncodeJPEG(img image.Image, quality int) ([]byte, error)
}

// Zlib is the default Inflater and Deflater.
type Zlib struct {
	// Level is the flate compression level used by Deflate.
	Level int

	// Limit caps the size of inflated output; 0 means unlimited.
	Limit int64
}

// DefaultZlib uses the default compression level and no inflate limit.
var DefaultZlib = Zlib{Level: flate.DefaultCompression}

// Inflate decompresses a zlib stream of at most z.Limit bytes.
func (z Zlib) Inflate(src []byte) ([]byte, error) {
	return z.InflateLimit(src, 0)
}

// InflateLimit decompresses a zlib stream, failing with ErrTooLarge once
// the output passes limit bytes. The smaller positive one of limit and
// z.Limit applies.
func (z Zlib) InflateLimit(src []byte, limit int64) ([]byte, error) {
	if limit <= 0 || (z.Limit > 0 && z.Limit < limit) {
		limit = z.Limit
	}
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("codec: zlib header: %w", err)
	}
	defer r.Close()

	var rd io.Reader = r
	if limit > 0 {
		rd = io.LimitReader(r, limit+1)
	}
	out, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("codec: inflate: %w", err)
	}
	if limit > 0 && int64(len(out)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return out, nil
}

// InflateLimit inflates src with inf, failing with ErrTooLarge when the
// output passes limit bytes. A LimitInflater stops at the limit; other
// inflaters are checked once they return.
func InflateLimit(inf Inflater, src []byte, limit int64) ([]byte, error) {
	if inf == nil {
		inf = DefaultZlib
	}
	if li, ok := inf.(LimitInflater); ok {
		return li.InflateLimit(src, limit)
	}
	out, err := inf.Inflate(src)
	if err != nil {
		return nil, err
	}
	if limit > 0 && int64(len(out)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return out, nil
}

// Deflate compresses src into a zlib stream.
func (z Zlib) Deflate(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, z.Level)
	if err != nil {
		return nil, fmt.Errorf("codec: zlib writer: %w", err)
	}
	if _, err := w.Write(src); err != nil {
		return nil, fmt.Errorf("codec: deflate: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("codec: deflate: %w", err)
	}
	return buf.Bytes(), nil
}

// InflateRows inflates a zlib pixel stream that must hold exactly want
// bytes of filtered scanlines. Inflation stops once the output passes want.
func InflateRows(inf Inflater, data []byte, want int) ([]byte, error) {
	out, err := InflateLimit(inf, data, int64(want))
	if err != nil {
		return nil, err
	}
	if len(out) < want {
		return nil, fmt.Errorf("%w: %d bytes, want %d", ErrShortRows, len(out), want)
	}
	return out, nil
}

// DeflateRows deflates filtered scanlines.
func DeflateRows(def Deflater, rows []byte) ([]byte, error) {
	if def == nil {
		def = DefaultZlib
	}
	return def.Deflate(rows)
}
