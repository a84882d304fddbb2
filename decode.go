package mng

import (
	"encoding/binary"
	"fmt"
	stdimage "image"
	"image/color"
	"io"
	"time"

	"github.com/gogpu/mng/chunk"
)

// MaxAnimationFrames bounds the frames collected by DecodeAll, which would
// otherwise never return for infinitely looping animations.
const MaxAnimationFrames = 4096

// Animation is a played stream: one canvas snapshot per frame.
type Animation struct {
	Signature chunk.Signature
	Header    chunk.MHDR
	Frames    []stdimage.Image
	Delays    []time.Duration
	Texts     []Text
}

// DecodeAll plays the whole stream read from r and collects every frame.
// Playback stops at MaxAnimationFrames.
func DecodeAll(r io.Reader, opts ...Option) (*Animation, error) {
	d := NewReader(r, opts...)
	a := &Animation{}
	for len(a.Frames) < MaxAnimationFrames {
		f, err := d.Advance()
		if err != nil {
			return nil, err
		}
		switch f.Status {
		case StatusFrame:
			a.Frames = append(a.Frames, d.Image())
			a.Delays = append(a.Delays, f.Delay)
			continue
		case StatusYield:
			continue
		case StatusNeedData:
			return nil, fmt.Errorf("%w: source stopped delivering data", ErrTruncated)
		}
		break
	}
	if len(a.Frames) == 0 {
		if img := d.Image(); img != nil {
			a.Frames = append(a.Frames, img)
			a.Delays = append(a.Delays, 0)
		}
	}
	a.Signature = d.Signature()
	a.Header, _ = d.Header()
	a.Texts = d.Texts()
	return a, nil
}

// Decode reads a PNG, MNG or JNG stream from r and returns its first
// frame.
func Decode(r io.Reader) (stdimage.Image, error) {
	d := NewReader(r)
	for {
		f, err := d.Advance()
		if err != nil {
			return nil, err
		}
		switch f.Status {
		case StatusFrame:
			return d.Image(), nil
		case StatusYield:
			continue
		case StatusNeedData:
			return nil, fmt.Errorf("%w: source stopped delivering data", ErrTruncated)
		}
		if img := d.Image(); img != nil {
			return img, nil
		}
		return nil, fmt.Errorf("%w: no image in stream", ErrTruncated)
	}
}

// DecodeConfig returns the canvas size of a stream from its signature and
// first chunk, without decoding pixels.
func DecodeConfig(r io.Reader) (stdimage.Config, error) {
	var b [chunk.SignatureLen + chunk.HeaderLen + 8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return stdimage.Config{}, fmt.Errorf("%w: %w", ErrTruncated, err)
	}
	sig := chunk.DetectSignature(b[:chunk.SignatureLen])
	if sig == chunk.SigNone {
		return stdimage.Config{}, ErrBadSignature
	}
	h := b[chunk.SignatureLen:]
	tag := chunk.TagOf(h[4:8])
	if want := firstTag[sig]; tag != want {
		return stdimage.Config{}, orderError(tag, "%v stream must start with %v", sig, want)
	}
	return stdimage.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(binary.BigEndian.Uint32(h[8:12])),
		Height:     int(binary.BigEndian.Uint32(h[12:16])),
	}, nil
}

func init() {
	stdimage.RegisterFormat("mng", string(chunk.SigMNG.Magic()), Decode, DecodeConfig)
	stdimage.RegisterFormat("jng", string(chunk.SigJNG.Magic()), Decode, DecodeConfig)
}
