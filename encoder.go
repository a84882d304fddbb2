package mng

import (
	"errors"
	"fmt"
	stdimage "image"
	"io"
	"iter"
	"log/slog"

	"github.com/gogpu/mng/chunk"
	"github.com/gogpu/mng/codec"
	"github.com/gogpu/mng/internal/image"
)

// Encoder writes a PNG, MNG or JNG datastream chunk by chunk and checks
// that the chunks follow the datastream grammar.
//
// Example:
//
//	e, err := mng.NewEncoder(w, chunk.SigMNG)
//	if err != nil {
//	    return err
//	}
//	e.PutChunk(&chunk.MHDR{Width: 64, Height: 64, TicksPerSec: 10})
//	for _, f := range frames {
//	    e.PutChunk(&chunk.FRAM{})
//	    e.PutImage(f)
//	}
//	return e.Close()
type Encoder struct {
	w   io.Writer
	cfg Config
	log *slog.Logger
	sig chunk.Signature

	started bool
	ended   bool
	// open is the header of the image being written, 0 between images.
	open chunk.Tag
	err  error
}

// NewEncoder writes the signature of sig to w and returns an Encoder for
// the rest of the stream.
func NewEncoder(w io.Writer, sig chunk.Signature, opts ...Option) (*Encoder, error) {
	m := sig.Magic()
	if m == nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSignature, sig)
	}
	if _, err := w.Write(m); err != nil {
		return nil, fmt.Errorf("mng: write signature: %w", err)
	}
	return &Encoder{w: w, cfg: newConfig(opts), log: Logger().With("component", "encoder"), sig: sig}, nil
}

// PutChunk encodes r and writes it.
func (e *Encoder) PutChunk(r chunk.Record) error {
	if e.err != nil {
		return e.err
	}
	if err := e.check(r.Tag()); err != nil {
		return err
	}
	c, err := chunk.Encode(r)
	if err != nil {
		return e.fail(err)
	}
	return e.write(c)
}

// PutRaw writes a chunk as is, including its stored CRC.
func (e *Encoder) PutRaw(c chunk.Chunk) error {
	if e.err != nil {
		return e.err
	}
	if err := e.check(c.Tag); err != nil {
		return err
	}
	return e.write(c)
}

// WriteChunks writes every chunk of seq, for example a stored stream from
// Decoder.Chunks.
func (e *Encoder) WriteChunks(seq iter.Seq2[int, chunk.Chunk]) error {
	for _, c := range seq {
		if err := e.PutRaw(c); err != nil {
			return err
		}
	}
	return nil
}

// check enforces the chunk order and tracks the open image.
func (e *Encoder) check(tag chunk.Tag) error {
	if e.ended {
		return orderError(tag, "after the end of the stream")
	}
	first := !e.started
	if first {
		if want := firstTag[e.sig]; tag != want {
			return orderError(tag, "%v stream must start with %v", e.sig, want)
		}
		e.started = true
	}
	switch tag {
	case chunk.TagIHDR, chunk.TagJHDR, chunk.TagBASI, chunk.TagDHDR:
		if e.open == chunk.TagDHDR && tag == chunk.TagIHDR {
			break
		}
		if e.open != 0 {
			return orderError(tag, "inside %v", e.open)
		}
		e.open = tag
	case chunk.TagIEND:
		if e.open == 0 {
			return orderError(tag, "without an image header")
		}
		e.open = 0
		if e.sig != chunk.SigMNG {
			e.ended = true
		}
	case chunk.TagMHDR:
		if !first {
			return orderError(tag, "repeated")
		}
	case chunk.TagMEND:
		if e.open != 0 {
			return orderError(tag, "inside %v", e.open)
		}
		e.ended = true
	case chunk.TagIDAT:
		if e.open == 0 {
			return orderError(tag, "outside an image")
		}
	}
	return nil
}

func (e *Encoder) write(c chunk.Chunk) error {
	if err := chunk.Write(e.w, c); err != nil {
		return e.fail(err)
	}
	e.log.Debug("chunk written", "tag", c.Tag.String(), "length", len(c.Data))
	return nil
}

func (e *Encoder) fail(err error) error {
	e.err = err
	return err
}

// PutImage writes img as a complete PNG image: IHDR, PLTE and tRNS for
// paletted images, deflated IDATs of at most Config.MaxIDAT bytes and
// IEND.
func (e *Encoder) PutImage(img stdimage.Image) error {
	buf, pal, err := image.FromStd(img)
	if err != nil {
		return err
	}
	f := buf.Format()
	hdr := &chunk.IHDR{
		Width:     uint32(buf.Width()),
		Height:    uint32(buf.Height()),
		BitDepth:  f.BitDepth(),
		ColorType: uint8(f.ColorType()),
	}
	if e.cfg.Interlace {
		hdr.Interlace = 1
	}
	if err := e.PutChunk(hdr); err != nil {
		return err
	}
	if pal != nil {
		if err := e.PutChunk(&chunk.PLTE{Entries: pal.RGB}); err != nil {
			return err
		}
		if len(pal.Alpha) > 0 {
			if err := e.PutChunk(&chunk.TRNS{Kind: chunk.TRNSIndexed, Alpha: pal.Alpha}); err != nil {
				return err
			}
		}
	}
	if err := e.putPixels(buf, e.cfg.Interlace); err != nil {
		return err
	}
	return e.PutChunk(&chunk.IEND{})
}

// putPixels writes the filtered, deflated rows of buf as IDAT chunks.
func (e *Encoder) putPixels(buf *image.ImageBuf, interlaced bool) error {
	z, err := codec.DeflateRows(e.cfg.Deflater, image.EncodeRows(buf, interlaced, chunk.FilterAdaptive))
	if err != nil {
		return e.fail(err)
	}
	for len(z) > 0 {
		n := min(len(z), e.cfg.MaxIDAT)
		if err := e.PutChunk(&chunk.IDAT{Data: z[:n]}); err != nil {
			return err
		}
		z = z[n:]
	}
	return nil
}

// PutJNG writes img as a JNG image: JHDR, JDAT with the JPEG color data
// at Config.JPEGQuality and, for images with transparency, an 8-bit alpha
// channel in IDAT chunks.
func (e *Encoder) PutJNG(img stdimage.Image) error {
	buf, _, err := image.FromStd(img)
	if err != nil {
		return err
	}
	gray := buf.Format().ColorType() == image.ColorGray
	rgba := buf.ToRGBA(8, image.Expand{})
	alpha := hasAlpha(rgba)

	hdr := &chunk.JHDR{
		Width:       uint32(buf.Width()),
		Height:      uint32(buf.Height()),
		ColorType:   chunk.JNGColor,
		SampleDepth: 8,
		Compression: 8,
	}
	switch {
	case gray && alpha:
		hdr.ColorType = chunk.JNGGrayAlpha
	case gray:
		hdr.ColorType = chunk.JNGGray
	case alpha:
		hdr.ColorType = chunk.JNGColorA
	}
	if alpha {
		hdr.AlphaDepth = 8
	}

	src := stdimage.Image(rgba.ToNRGBA(image.Expand{}))
	switch {
	case gray:
		src = img
	case alpha:
		opaque := rgba.Clone()
		for y := range opaque.Height() {
			row := opaque.Row(y)
			for x := 3; x < len(row); x += 4 {
				row[x] = 0xff
			}
		}
		src = opaque.ToNRGBA(image.Expand{})
	}
	jpg, err := e.cfg.JPEG.EncodeJPEG(src, e.cfg.JPEGQuality)
	if err != nil {
		return e.fail(tagged(errJPEG, err))
	}

	if err := e.PutChunk(hdr); err != nil {
		return err
	}
	if alpha {
		ab, err := image.NewImageBuf(buf.Width(), buf.Height(), image.FormatG8)
		if err != nil {
			return err
		}
		for y := range ab.Height() {
			src, dst := rgba.Row(y), ab.Row(y)
			for x := range dst {
				dst[x] = src[4*x+3]
			}
		}
		if err := e.putPixels(ab, false); err != nil {
			return err
		}
	}
	for len(jpg) > 0 {
		n := min(len(jpg), e.cfg.MaxIDAT)
		if err := e.PutChunk(&chunk.JDAT{Data: jpg[:n]}); err != nil {
			return err
		}
		jpg = jpg[n:]
	}
	return e.PutChunk(&chunk.IEND{})
}

func hasAlpha(rgba *image.ImageBuf) bool {
	for y := range rgba.Height() {
		row := rgba.Row(y)
		for x := 3; x < len(row); x += 4 {
			if row[x] != 0xff {
				return true
			}
		}
	}
	return false
}

// Close finishes the stream. An MNG stream gets its MEND; PNG and JNG
// streams must already have their IEND.
func (e *Encoder) Close() error {
	if e.err != nil {
		return e.err
	}
	if e.ended {
		return nil
	}
	if e.sig == chunk.SigMNG {
		if !e.started {
			return orderError(chunk.TagMEND, "stream without MHDR")
		}
		return e.PutChunk(&chunk.MEND{})
	}
	return errors.Join(ErrTruncated, orderError(chunk.TagIEND, "image not finished"))
}
