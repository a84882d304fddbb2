package reader

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/gogpu/mng/chunk"
)

// stream builds a signature followed by the given chunks.
func stream(t *testing.T, sig chunk.Signature, chunks ...chunk.Chunk) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.Write(sig.Magic())
	for _, c := range chunks {
		if err := chunk.Write(&buf, c); err != nil {
			t.Fatal(err)
		}
	}
	return buf.Bytes()
}

func sampleChunks() []chunk.Chunk {
	return []chunk.Chunk{
		chunk.New(chunk.TagMHDR, make([]byte, 28)),
		chunk.New(chunk.TagTEXT, []byte("Title\x00fragmented")),
		chunk.New(chunk.TagIDAT, bytes.Repeat([]byte{0xab}, 5000)),
		chunk.New(chunk.TagIEND, nil),
		chunk.New(chunk.TagMEND, nil),
	}
}

// drain collects chunks until the reader needs more data.
func drain(t *testing.T, r *Reader) []chunk.Chunk {
	t.Helper()
	var out []chunk.Chunk
	for {
		ev, c, err := r.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		switch ev {
		case NeedMoreData:
			return out
		case ChunkReady:
			out = append(out, c)
		default:
			t.Fatalf("Next() event = %v", ev)
		}
	}
}

func TestPushWhole(t *testing.T) {
	want := sampleChunks()
	r := NewPush()
	r.Push(stream(t, chunk.SigMNG, want...))
	got := drain(t, r)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %d chunks, want %d", len(got), len(want))
	}
	if r.Signature() != chunk.SigMNG {
		t.Errorf("Signature() = %v, want MNG", r.Signature())
	}
	if r.Buffered() != 0 {
		t.Errorf("Buffered() = %d, want 0", r.Buffered())
	}
}

func TestFragmentedFeed(t *testing.T) {
	want := sampleChunks()
	data := stream(t, chunk.SigMNG, want...)
	for _, size := range []int{1, 2, 3, 7, 8, 13, 100, 4099} {
		r := NewPush()
		var got []chunk.Chunk
		for off := 0; off < len(data); off += size {
			r.Push(data[off:min(off+size, len(data))])
			got = append(got, drain(t, r)...)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("size %d: got %d chunks, want %d", size, len(got), len(want))
		}
		if r.Offset() != int64(len(data)) {
			t.Errorf("size %d: Offset() = %d, want %d", size, r.Offset(), len(data))
		}
	}
}

func TestCRCCorruption(t *testing.T) {
	chunks := sampleChunks()[:2]
	data := stream(t, chunk.SigMNG, chunks...)
	// The second chunk's payload and CRC follow its 8-byte header.
	start := chunk.SignatureLen + chunks[0].Size() + chunk.HeaderLen
	end := chunk.SignatureLen + chunks[0].Size() + chunks[1].Size()
	for i := start; i < end; i++ {
		for _, flip := range []byte{0x01, 0x80, 0xff} {
			bad := bytes.Clone(data)
			bad[i] ^= flip
			r := NewPush()
			r.Push(bad)
			if ev, _, err := r.Next(); ev != ChunkReady || err != nil {
				t.Fatalf("byte %d: first chunk event = %v, %v", i, ev, err)
			}
			ev, c, err := r.Next()
			if err != nil || ev != CRCError {
				t.Fatalf("byte %d flip %#x: event = %v, %v, want CRCError", i, flip, ev, err)
			}
			if c.Tag != chunk.TagTEXT {
				t.Errorf("byte %d: CRCError tag = %s", i, c.Tag)
			}
		}
	}
}

func TestCRCCheckDisabled(t *testing.T) {
	c := chunk.New(chunk.TagIEND, nil)
	c.CRC = 0
	r := NewPush(WithCRCCheck(false))
	r.Push(stream(t, chunk.SigPNG, c))
	if ev, _, _ := r.Next(); ev != ChunkReady {
		t.Errorf("event = %v, want ChunkReady", ev)
	}
}

func TestBadSignature(t *testing.T) {
	r := NewPush()
	r.Push([]byte("GIF89a\x01\x00rest"))
	_, _, err := r.Next()
	if !errors.Is(err, ErrBadSignature) {
		t.Fatalf("Next() error = %v, want ErrBadSignature", err)
	}
	if _, _, err := r.Next(); !errors.Is(err, ErrFailed) {
		t.Errorf("second Next() error = %v, want ErrFailed", err)
	}
}

func TestLengthError(t *testing.T) {
	data := append(chunk.SigPNG.Magic(), 0x00, 0x01, 0x00, 0x00, 'I', 'D', 'A', 'T')
	r := NewPush(WithMaxLength(1024))
	r.Push(data)
	ev, c, err := r.Next()
	if err != nil || ev != LengthError {
		t.Fatalf("Next() = %v, %v, want LengthError", ev, err)
	}
	if c.Tag != chunk.TagIDAT {
		t.Errorf("tag = %s, want IDAT", c.Tag)
	}
	if _, _, err := r.Next(); !errors.Is(err, ErrFailed) {
		t.Errorf("Next() after LengthError = %v, want ErrFailed", err)
	}
}

func TestLengthErrorBadTag(t *testing.T) {
	r := NewPush()
	r.Push(append(chunk.SigPNG.Magic(), 0, 0, 0, 0, 'I', 0, 'A', 'T'))
	if ev, _, _ := r.Next(); ev != LengthError {
		t.Errorf("event = %v, want LengthError", ev)
	}
}

// stutter returns at most n bytes per Read and suspends every other call.
type stutter struct {
	data    []byte
	n       int
	suspend bool
	useErr  bool
}

func (s *stutter) Read(p []byte) (int, error) {
	s.suspend = !s.suspend
	if s.suspend {
		if s.useErr {
			return 0, ErrSuspend
		}
		return 0, nil
	}
	if len(s.data) == 0 {
		return 0, io.EOF
	}
	k := copy(p[:min(len(p), s.n)], s.data)
	s.data = s.data[k:]
	return k, nil
}

func TestPullSuspend(t *testing.T) {
	want := sampleChunks()
	for _, useErr := range []bool{false, true} {
		src := &stutter{data: stream(t, chunk.SigMNG, want...), n: 5, useErr: useErr}
		r := New(src, WithReadSize(3))
		var got []chunk.Chunk
		for i := 0; !r.Done(); i++ {
			if i > 100000 {
				t.Fatal("reader did not finish")
			}
			got = append(got, drain(t, r)...)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("useErr=%v: got %d chunks, want %d", useErr, len(got), len(want))
		}
		if !r.EOF() {
			t.Error("EOF() = false after draining source")
		}
	}
}

type failing struct{}

func (failing) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestPullError(t *testing.T) {
	r := New(failing{})
	if _, _, err := r.Next(); err == nil {
		t.Error("Next() swallowed a source error")
	}
}

func TestOffsets(t *testing.T) {
	chunks := sampleChunks()
	r := NewPush()
	r.Push(stream(t, chunk.SigMNG, chunks...))
	off := int64(chunk.SignatureLen)
	for _, c := range chunks {
		if _, _, err := r.Next(); err != nil {
			t.Fatal(err)
		}
		if r.ChunkOffset() != off {
			t.Errorf("%s: ChunkOffset() = %d, want %d", c.Tag, r.ChunkOffset(), off)
		}
		off += int64(c.Size())
		if r.Offset() != off {
			t.Errorf("%s: Offset() = %d, want %d", c.Tag, r.Offset(), off)
		}
	}
}

func TestEventString(t *testing.T) {
	if ChunkReady.String() != "ChunkReady" || Event(9).String() != "Event(9)" {
		t.Error("unexpected Event.String output")
	}
}
