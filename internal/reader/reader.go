// Package reader splits a PNG, MNG or JNG byte stream into raw chunks.
//
// A Reader works in push mode (bytes handed over with Push) or pull mode
// (bytes read from an io.Reader). Either way Next never blocks: when the
// buffered input does not hold the next complete unit it reports
// NeedMoreData and resumes at the same byte on the following call.
package reader

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/gogpu/mng/chunk"
)

// Errors returned by Next.
var (
	// ErrBadSignature is returned when the first eight bytes are not a
	// PNG, MNG or JNG signature.
	ErrBadSignature = errors.New("reader: bad signature")

	// ErrSuspend may be returned by a pull source to suspend reading
	// without signaling EOF.
	ErrSuspend = errors.New("reader: suspend")

	// ErrFailed is returned by every call after an unrecoverable stream
	// error.
	ErrFailed = errors.New("reader: stream failed")
)

// Event is the outcome of a Next call.
type Event uint8

const (
	// NeedMoreData means the buffered input ends inside the next unit.
	NeedMoreData Event = iota
	// ChunkReady delivers one verified chunk.
	ChunkReady
	// CRCError delivers a chunk whose CRC does not match.
	CRCError
	// LengthError means the declared length is impossible; the stream
	// cannot be resynchronized.
	LengthError
)

func (e Event) String() string {
	switch e {
	case NeedMoreData:
		return "NeedMoreData"
	case ChunkReady:
		return "ChunkReady"
	case CRCError:
		return "CRCError"
	case LengthError:
		return "LengthError"
	default:
		return fmt.Sprintf("Event(%d)", uint8(e))
	}
}

type state uint8

const (
	stateSignature state = iota
	stateHeader
	statePayload
	stateFailed
)

// defaultReadSize is the pull-mode read granularity.
const defaultReadSize = 4096

// Reader is a resumable chunk splitter. It is not safe for concurrent use.
type Reader struct {
	src      io.Reader
	readSize int
	maxLen   uint32
	checkCRC bool
	log      *slog.Logger

	buf  []byte
	pos  int
	base int64 // stream offset of buf[0]
	eof  bool

	state  state
	sig    chunk.Signature
	length uint32
	tag    chunk.Tag
	start  int64 // stream offset of the current chunk
}

// Option configures a Reader.
type Option func(*Reader)

// WithMaxLength caps accepted payload lengths; larger declarations yield
// LengthError.
func WithMaxLength(n uint32) Option {
	return func(r *Reader) {
		if n == 0 || n > chunk.MaxLength {
			n = chunk.MaxLength
		}
		r.maxLen = n
	}
}

// WithCRCCheck enables or disables CRC verification. When disabled every
// complete chunk is reported as ChunkReady.
func WithCRCCheck(on bool) Option {
	return func(r *Reader) { r.checkCRC = on }
}

// WithReadSize sets how many bytes pull mode requests per Read.
func WithReadSize(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.readSize = n
		}
	}
}

// WithLogger sets the logger used for stream diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.log = l
		}
	}
}

// New creates a pull-mode Reader over src. A nil src creates a push-mode
// Reader fed through Push.
func New(src io.Reader, opts ...Option) *Reader {
	r := &Reader{
		src:      src,
		readSize: defaultReadSize,
		maxLen:   chunk.MaxLength,
		checkCRC: true,
		log:      slog.New(discard{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewPush creates a push-mode Reader.
func NewPush(opts ...Option) *Reader { return New(nil, opts...) }

// Push appends a copy of p to the input buffer.
func (r *Reader) Push(p []byte) {
	if len(p) == 0 {
		return
	}
	r.compact()
	r.buf = append(r.buf, p...)
}

// CloseInput marks the push-mode input as complete.
func (r *Reader) CloseInput() { r.eof = true }

// Signature returns the detected stream type, or SigNone before the
// signature has been read.
func (r *Reader) Signature() chunk.Signature { return r.sig }

// Offset returns the stream offset of the next unread byte.
func (r *Reader) Offset() int64 { return r.base + int64(r.pos) }

// ChunkOffset returns the stream offset of the chunk being read or last
// delivered.
func (r *Reader) ChunkOffset() int64 { return r.start }

// Buffered returns the number of bytes held but not yet consumed.
func (r *Reader) Buffered() int { return len(r.buf) - r.pos }

// EOF reports whether the input is exhausted: the source returned io.EOF
// or CloseInput was called.
func (r *Reader) EOF() bool { return r.eof }

// Done reports whether the input is exhausted and fully consumed.
func (r *Reader) Done() bool { return r.eof && r.Buffered() == 0 }

// Next advances by one unit. Partial input yields NeedMoreData without
// consuming anything that would have to be re-parsed.
func (r *Reader) Next() (Event, chunk.Chunk, error) {
	for {
		switch r.state {
		case stateFailed:
			return LengthError, chunk.Chunk{}, ErrFailed

		case stateSignature:
			ok, err := r.fill(chunk.SignatureLen)
			if !ok {
				return NeedMoreData, chunk.Chunk{}, err
			}
			sig := chunk.DetectSignature(r.buf[r.pos:])
			if sig == chunk.SigNone {
				r.state = stateFailed
				return LengthError, chunk.Chunk{}, fmt.Errorf("%w: % x", ErrBadSignature, r.buf[r.pos:r.pos+chunk.SignatureLen])
			}
			r.sig = sig
			r.pos += chunk.SignatureLen
			r.state = stateHeader
			r.log.Debug("signature", "type", sig.String())

		case stateHeader:
			ok, err := r.fill(chunk.HeaderLen)
			if !ok {
				return NeedMoreData, chunk.Chunk{}, err
			}
			r.start = r.Offset()
			h := r.buf[r.pos : r.pos+chunk.HeaderLen]
			r.length = binary.BigEndian.Uint32(h[0:4])
			r.tag = chunk.TagOf(h[4:8])
			if r.length > r.maxLen || !validTag(h[4:8]) {
				r.state = stateFailed
				r.log.Warn("impossible chunk length", "length", r.length, "offset", r.start)
				return LengthError, chunk.Chunk{Tag: r.tag}, nil
			}
			r.pos += chunk.HeaderLen
			r.state = statePayload

		case statePayload:
			n := int(r.length) + chunk.TrailerLen
			ok, err := r.fill(n)
			if !ok {
				return NeedMoreData, chunk.Chunk{}, err
			}
			p := r.buf[r.pos : r.pos+n]
			c := chunk.Chunk{
				Tag:  r.tag,
				Data: append([]byte(nil), p[:r.length]...),
				CRC:  binary.BigEndian.Uint32(p[r.length:]),
			}
			r.pos += n
			r.state = stateHeader
			if r.checkCRC && !c.Valid() {
				r.log.Warn("chunk CRC mismatch", "tag", c.Tag.String(), "offset", r.start)
				return CRCError, c, nil
			}
			return ChunkReady, c, nil
		}
	}
}

// fill makes n unread bytes available. It reports false when the input
// runs dry; err is non-nil only for source failures.
func (r *Reader) fill(n int) (bool, error) {
	for r.Buffered() < n {
		if r.src == nil || r.eof {
			return false, nil
		}
		r.compact()
		want := max(r.readSize, n-r.Buffered())
		if free := cap(r.buf) - len(r.buf); free < want {
			grown := make([]byte, len(r.buf), len(r.buf)+want)
			copy(grown, r.buf)
			r.buf = grown
		}
		m, err := r.src.Read(r.buf[len(r.buf):cap(r.buf)])
		r.buf = r.buf[:len(r.buf)+m]
		switch {
		case errors.Is(err, io.EOF):
			r.eof = true
		case errors.Is(err, ErrSuspend):
			if r.Buffered() < n {
				return false, nil
			}
		case err != nil:
			return false, fmt.Errorf("reader: read at offset %d: %w", r.base+int64(len(r.buf)), err)
		case m == 0:
			return false, nil
		}
	}
	return true, nil
}

// compact drops consumed bytes once they make up half the buffer.
func (r *Reader) compact() {
	if r.pos == 0 {
		return
	}
	if r.pos == len(r.buf) {
		r.base += int64(r.pos)
		r.buf = r.buf[:0]
		r.pos = 0
		return
	}
	if r.pos < len(r.buf)/2 {
		return
	}
	n := copy(r.buf, r.buf[r.pos:])
	r.base += int64(r.pos)
	r.buf = r.buf[:n]
	r.pos = 0
}

func validTag(b []byte) bool {
	for _, c := range b {
		if !('A' <= c && c <= 'Z' || 'a' <= c && c <= 'z') {
			return false
		}
	}
	return true
}
