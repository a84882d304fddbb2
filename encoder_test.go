package mng

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/gogpu/mng/chunk"
)

func TestEncoderOrder(t *testing.T) {
	tests := []struct {
		name string
		sig  chunk.Signature
		recs []chunk.Record
	}{
		{"png must start with IHDR", chunk.SigPNG, []chunk.Record{&chunk.IDAT{}}},
		{"mng must start with MHDR", chunk.SigMNG, []chunk.Record{&chunk.IHDR{Width: 1, Height: 1, BitDepth: 8}}},
		{"jng must start with JHDR", chunk.SigJNG, []chunk.Record{&chunk.MHDR{}}},
		{"repeated MHDR", chunk.SigMNG, []chunk.Record{&chunk.MHDR{}, &chunk.MHDR{}}},
		{"IDAT outside an image", chunk.SigMNG, []chunk.Record{&chunk.MHDR{}, &chunk.IDAT{Data: []byte{0}}}},
		{"IEND without header", chunk.SigMNG, []chunk.Record{&chunk.MHDR{}, &chunk.IEND{}}},
		{"MEND inside an image", chunk.SigMNG, []chunk.Record{
			&chunk.MHDR{}, &chunk.IHDR{Width: 1, Height: 1, BitDepth: 8}, &chunk.MEND{},
		}},
		{"nested image header", chunk.SigMNG, []chunk.Record{
			&chunk.MHDR{}, &chunk.IHDR{Width: 1, Height: 1, BitDepth: 8}, &chunk.IHDR{Width: 1, Height: 1, BitDepth: 8},
		}},
		{"chunk after MEND", chunk.SigMNG, []chunk.Record{&chunk.MHDR{}, &chunk.MEND{}, &chunk.FRAM{}}},
		{"chunk after PNG IEND", chunk.SigPNG, []chunk.Record{
			&chunk.IHDR{Width: 1, Height: 1, BitDepth: 8}, &chunk.IEND{}, &chunk.IEND{},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEncoder(io.Discard, tt.sig)
			if err != nil {
				t.Fatal(err)
			}
			var last error
			for _, r := range tt.recs {
				if last = e.PutChunk(r); last != nil {
					break
				}
			}
			if !errors.Is(last, ErrChunkOrder) {
				t.Errorf("error = %v, want ErrChunkOrder", last)
			}
		})
	}
}

func TestEncoderDeltaImage(t *testing.T) {
	var buf bytes.Buffer
	e, err := NewEncoder(&buf, chunk.SigMNG)
	if err != nil {
		t.Fatal(err)
	}
	recs := []chunk.Record{
		&chunk.MHDR{Width: 1, Height: 1},
		&chunk.DHDR{Object: 1, ImageType: 1, DeltaType: 0},
		&chunk.IHDR{Width: 1, Height: 1, BitDepth: 8},
		&chunk.IEND{},
	}
	for _, r := range recs {
		if err := e.PutChunk(r); err != nil {
			t.Fatalf("PutChunk(%v): %v", r.Tag(), err)
		}
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	var mend bytes.Buffer
	if err := chunk.Write(&mend, chunk.New(chunk.TagMEND, nil)); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasSuffix(buf.Bytes(), mend.Bytes()) {
		t.Errorf("stream does not end with MEND: % x", buf.Bytes()[max(0, buf.Len()-12):])
	}
}

func TestEncoderClose(t *testing.T) {
	e, err := NewEncoder(io.Discard, chunk.SigPNG)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.PutChunk(&chunk.IHDR{Width: 1, Height: 1, BitDepth: 8}); err != nil {
		t.Fatal(err)
	}
	if err := e.Close(); !errors.Is(err, ErrTruncated) || !errors.Is(err, ErrChunkOrder) {
		t.Errorf("Close of unfinished PNG = %v, want ErrTruncated and ErrChunkOrder", err)
	}

	if _, err := NewEncoder(io.Discard, chunk.SigNone); !errors.Is(err, ErrBadSignature) {
		t.Errorf("NewEncoder(SigNone) = %v, want ErrBadSignature", err)
	}
}

func TestEncoderSplitsIDAT(t *testing.T) {
	img := solid(32, 32, red)
	for y := range 32 {
		for x := range 32 {
			img.Pix[4*(32*y+x)+1] = uint8(x * y)
		}
	}
	data := encode(t, chunk.SigPNG, func(e *Encoder) error { return e.PutImage(img) }, WithMaxIDAT(64))
	d := pushAll(t, data, len(data), WithStoreChunks(true))
	n := 0
	for _, c := range d.Chunks() {
		if c.Tag == chunk.TagIDAT {
			n++
			if len(c.Data) > 64 {
				t.Errorf("IDAT of %d bytes, want at most 64", len(c.Data))
			}
		}
	}
	if n < 2 {
		t.Errorf("got %d IDAT chunks, want several", n)
	}
	frames, err := play(t, d)
	if err != nil || len(frames) != 1 {
		t.Fatalf("play = %d frames, %v", len(frames), err)
	}
	if got, want := pixel(frames[0], 31, 7), img.NRGBAAt(31, 7); got != want {
		t.Errorf("pixel (31,7) = %v, want %v", got, want)
	}
}

type failWriter struct{ after int }

func (w *failWriter) Write(p []byte) (int, error) {
	if w.after <= 0 {
		return 0, errors.New("disk full")
	}
	w.after--
	return len(p), nil
}

func TestEncoderWriteFailureSticks(t *testing.T) {
	e, err := NewEncoder(&failWriter{after: 1}, chunk.SigMNG)
	if err != nil {
		t.Fatal(err)
	}
	first := e.PutChunk(&chunk.MHDR{})
	if first == nil {
		t.Fatal("PutChunk on a failing writer returned nil")
	}
	if err := e.PutChunk(&chunk.MEND{}); err != first {
		t.Errorf("later PutChunk = %v, want the first error %v", err, first)
	}
}
