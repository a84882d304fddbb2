package chunk

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding/charmap"

	"github.com/gogpu/mng/codec"
)

// maxKeyword is the longest keyword or name PNG and MNG allow.
const maxKeyword = 79

// parser reads big-endian fields from a payload. Reads past the end yield
// zero values and set short.
type parser struct {
	data  []byte
	off   int
	short bool
}

func (p *parser) left() int { return len(p.data) - p.off }

func (p *parser) take(n int) []byte {
	if n < 0 || p.left() < n {
		p.short = true
		p.off = len(p.data)
		return nil
	}
	b := p.data[p.off : p.off+n]
	p.off += n
	return b
}

func (p *parser) u8() uint8 {
	b := p.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (p *parser) u16() uint16 {
	b := p.take(2)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

func (p *parser) u32() uint32 {
	b := p.take(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

func (p *parser) i32() int32 { return int32(p.u32()) }

// rest returns a copy of the unread bytes.
func (p *parser) rest() []byte {
	if p.left() == 0 {
		return nil
	}
	b := bytes.Clone(p.data[p.off:])
	p.off = len(p.data)
	return b
}

// field reads up to the next NUL. ok is false when no NUL was found, in
// which case the field runs to the end of the payload.
func (p *parser) field() (b []byte, ok bool) {
	rest := p.data[p.off:]
	i := bytes.IndexByte(rest, 0)
	if i < 0 {
		p.off = len(p.data)
		return rest, false
	}
	p.off += i + 1
	return rest[:i], true
}

// builder appends big-endian fields.
type builder struct {
	b []byte
}

func (w *builder) u8(v uint8)   { w.b = append(w.b, v) }
func (w *builder) u16(v uint16) { w.b = binary.BigEndian.AppendUint16(w.b, v) }
func (w *builder) u32(v uint32) { w.b = binary.BigEndian.AppendUint32(w.b, v) }
func (w *builder) i32(v int32)  { w.b = binary.BigEndian.AppendUint32(w.b, uint32(v)) }
func (w *builder) raw(b []byte) { w.b = append(w.b, b...) }

func (w *builder) latin1(tag Tag, field, s string) error {
	b, err := encodeLatin1(s)
	if err != nil {
		return fieldError(tag, field, s)
	}
	w.b = append(w.b, b...)
	return nil
}

func decodeLatin1(b []byte) string {
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		// Every byte is a valid ISO-8859-1 code point.
		return string(b)
	}
	return string(s)
}

func encodeLatin1(s string) ([]byte, error) {
	return charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
}

// keyword validates a Latin-1 keyword or name field.
func keyword(tag Tag, field string, b []byte, allowEmpty bool) (string, error) {
	if len(b) > maxKeyword || len(b) == 0 && !allowEmpty {
		return "", newError(tag, ErrBadField, "%s has %d bytes", field, len(b))
	}
	return decodeLatin1(b), nil
}

func checkKeyword(tag Tag, field, s string, allowEmpty bool) ([]byte, error) {
	b, err := encodeLatin1(s)
	if err != nil {
		return nil, fieldError(tag, field, s)
	}
	if len(b) > maxKeyword || len(b) == 0 && !allowEmpty {
		return nil, newError(tag, ErrBadField, "%s has %d bytes", field, len(b))
	}
	return b, nil
}

// MaxInflated bounds the inflated size of zTXt and iTXt text, iCCP
// profiles and mpNG frame tables.
const MaxInflated = 8 << 20

func inflate(ctx Context, tag Tag, data []byte) ([]byte, error) {
	out, err := codec.InflateLimit(ctx.Inflater, data, MaxInflated)
	if err != nil {
		return nil, &Error{Tag: tag, Err: fmt.Errorf("%w: %w", ErrCompressed, err)}
	}
	return out, nil
}

func deflate(tag Tag, data []byte) ([]byte, error) {
	out, err := codec.DefaultZlib.Deflate(data)
	if err != nil {
		return nil, fmt.Errorf("chunk: %s: %w", tag, err)
	}
	return out, nil
}

// splitNul splits a NUL-separated keyword list. An empty payload yields nil.
func splitNul(b []byte) [][]byte {
	if len(b) == 0 {
		return nil
	}
	return bytes.Split(b, []byte{0})
}
