package chunk

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
)

// MaxLength is the largest payload length the wire format allows.
const MaxLength = 0x7fffffff

// HeaderLen and TrailerLen are the sizes of the length+tag prefix and the
// CRC suffix around every payload.
const (
	HeaderLen  = 8
	TrailerLen = 4
)

// Chunk is one raw chunk as it appears on the wire.
type Chunk struct {
	Tag  Tag
	Data []byte
	CRC  uint32
}

// New builds a chunk and computes its CRC.
func New(tag Tag, data []byte) Chunk {
	return Chunk{Tag: tag, Data: data, CRC: CRC(tag, data)}
}

// CRC computes the CRC-32 of the tag bytes followed by the payload.
func CRC(tag Tag, data []byte) uint32 {
	b := tag.Bytes()
	crc := crc32.Update(0, crc32.IEEETable, b[:])
	return crc32.Update(crc, crc32.IEEETable, data)
}

// Valid reports whether the stored CRC matches the payload.
func (c Chunk) Valid() bool { return c.CRC == CRC(c.Tag, c.Data) }

// Size returns the number of bytes the chunk occupies on the wire.
func (c Chunk) Size() int { return HeaderLen + len(c.Data) + TrailerLen }

// Write serializes c as {length, tag, payload, crc}. The stored CRC is
// written as is.
func Write(w io.Writer, c Chunk) error {
	if len(c.Data) > MaxLength {
		return newError(c.Tag, ErrTooLarge, "%d bytes", len(c.Data))
	}
	buf := make([]byte, 0, c.Size())
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(c.Data)))
	buf = binary.BigEndian.AppendUint32(buf, uint32(c.Tag))
	buf = append(buf, c.Data...)
	buf = binary.BigEndian.AppendUint32(buf, c.CRC)
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("chunk: write %s: %w", c.Tag, err)
	}
	return nil
}

// WriteRecord encodes r and writes the resulting chunk.
func WriteRecord(w io.Writer, r Record) error {
	c, err := Encode(r)
	if err != nil {
		return err
	}
	return Write(w, c)
}
