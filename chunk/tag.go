package chunk

import (
	"bytes"
	"fmt"
)

// Tag is a four-byte chunk type stored as a big-endian integer.
type Tag uint32

// ParseTag converts a four-letter ASCII name into a Tag.
func ParseTag(s string) (Tag, error) {
	if len(s) != 4 {
		return 0, fmt.Errorf("%w: tag %q is not four bytes", ErrBadField, s)
	}
	var t Tag
	for i := range 4 {
		c := s[i]
		if !('A' <= c && c <= 'Z' || 'a' <= c && c <= 'z') {
			return 0, fmt.Errorf("%w: tag %q has non-letter byte", ErrBadField, s)
		}
		t = t<<8 | Tag(c)
	}
	return t, nil
}

// TagOf builds a Tag from four bytes.
func TagOf(b []byte) Tag {
	return Tag(b[0])<<24 | Tag(b[1])<<16 | Tag(b[2])<<8 | Tag(b[3])
}

// Bytes returns the tag's four ASCII bytes.
func (t Tag) Bytes() [4]byte {
	return [4]byte{byte(t >> 24), byte(t >> 16), byte(t >> 8), byte(t)}
}

func (t Tag) String() string {
	b := t.Bytes()
	return string(b[:])
}

// Critical reports whether a decoder must understand the chunk (bit 5 of
// the first byte clear).
func (t Tag) Critical() bool { return t>>24&0x20 == 0 }

// Public reports whether the tag is registered publicly (bit 5 of the
// second byte clear).
func (t Tag) Public() bool { return t>>16&0x20 == 0 }

// SafeToCopy reports whether editors may copy the chunk without
// understanding it (bit 5 of the fourth byte set).
func (t Tag) SafeToCopy() bool { return t&0x20 != 0 }

// PNG chunk tags.
const (
	TagIHDR Tag = 'I'<<24 | 'H'<<16 | 'D'<<8 | 'R'
	TagPLTE Tag = 'P'<<24 | 'L'<<16 | 'T'<<8 | 'E'
	TagIDAT Tag = 'I'<<24 | 'D'<<16 | 'A'<<8 | 'T'
	TagIEND Tag = 'I'<<24 | 'E'<<16 | 'N'<<8 | 'D'
	TagTRNS Tag = 't'<<24 | 'R'<<16 | 'N'<<8 | 'S'
	TagGAMA Tag = 'g'<<24 | 'A'<<16 | 'M'<<8 | 'A'
	TagCHRM Tag = 'c'<<24 | 'H'<<16 | 'R'<<8 | 'M'
	TagSRGB Tag = 's'<<24 | 'R'<<16 | 'G'<<8 | 'B'
	TagICCP Tag = 'i'<<24 | 'C'<<16 | 'C'<<8 | 'P'
	TagTEXT Tag = 't'<<24 | 'E'<<16 | 'X'<<8 | 't'
	TagZTXT Tag = 'z'<<24 | 'T'<<16 | 'X'<<8 | 't'
	TagITXT Tag = 'i'<<24 | 'T'<<16 | 'X'<<8 | 't'
	TagBKGD Tag = 'b'<<24 | 'K'<<16 | 'G'<<8 | 'D'
	TagPHYS Tag = 'p'<<24 | 'H'<<16 | 'Y'<<8 | 's'
	TagSBIT Tag = 's'<<24 | 'B'<<16 | 'I'<<8 | 'T'
	TagSPLT Tag = 's'<<24 | 'P'<<16 | 'L'<<8 | 'T'
	TagHIST Tag = 'h'<<24 | 'I'<<16 | 'S'<<8 | 'T'
	TagTIME Tag = 't'<<24 | 'I'<<16 | 'M'<<8 | 'E'
)

// MNG chunk tags.
const (
	TagMHDR Tag = 'M'<<24 | 'H'<<16 | 'D'<<8 | 'R'
	TagMEND Tag = 'M'<<24 | 'E'<<16 | 'N'<<8 | 'D'
	TagLOOP Tag = 'L'<<24 | 'O'<<16 | 'O'<<8 | 'P'
	TagENDL Tag = 'E'<<24 | 'N'<<16 | 'D'<<8 | 'L'
	TagDEFI Tag = 'D'<<24 | 'E'<<16 | 'F'<<8 | 'I'
	TagBASI Tag = 'B'<<24 | 'A'<<16 | 'S'<<8 | 'I'
	TagCLON Tag = 'C'<<24 | 'L'<<16 | 'O'<<8 | 'N'
	TagPAST Tag = 'P'<<24 | 'A'<<16 | 'S'<<8 | 'T'
	TagDISC Tag = 'D'<<24 | 'I'<<16 | 'S'<<8 | 'C'
	TagBACK Tag = 'B'<<24 | 'A'<<16 | 'C'<<8 | 'K'
	TagFRAM Tag = 'F'<<24 | 'R'<<16 | 'A'<<8 | 'M'
	TagMOVE Tag = 'M'<<24 | 'O'<<16 | 'V'<<8 | 'E'
	TagCLIP Tag = 'C'<<24 | 'L'<<16 | 'I'<<8 | 'P'
	TagSHOW Tag = 'S'<<24 | 'H'<<16 | 'O'<<8 | 'W'
	TagTERM Tag = 'T'<<24 | 'E'<<16 | 'R'<<8 | 'M'
	TagSAVE Tag = 'S'<<24 | 'A'<<16 | 'V'<<8 | 'E'
	TagSEEK Tag = 'S'<<24 | 'E'<<16 | 'E'<<8 | 'K'
	TagEXPI Tag = 'e'<<24 | 'X'<<16 | 'P'<<8 | 'I'
	TagFPRI Tag = 'f'<<24 | 'P'<<16 | 'R'<<8 | 'I'
	TagNEED Tag = 'n'<<24 | 'E'<<16 | 'E'<<8 | 'D'
	TagPHYG Tag = 'p'<<24 | 'H'<<16 | 'Y'<<8 | 'g'
	TagDHDR Tag = 'D'<<24 | 'H'<<16 | 'D'<<8 | 'R'
	TagPROM Tag = 'P'<<24 | 'R'<<16 | 'O'<<8 | 'M'
	TagIPNG Tag = 'I'<<24 | 'P'<<16 | 'N'<<8 | 'G'
	TagPPLT Tag = 'P'<<24 | 'P'<<16 | 'L'<<8 | 'T'
	TagIJNG Tag = 'I'<<24 | 'J'<<16 | 'N'<<8 | 'G'
	TagDROP Tag = 'D'<<24 | 'R'<<16 | 'O'<<8 | 'P'
	TagDBYK Tag = 'D'<<24 | 'B'<<16 | 'Y'<<8 | 'K'
	TagORDR Tag = 'O'<<24 | 'R'<<16 | 'D'<<8 | 'R'
	TagMAGN Tag = 'M'<<24 | 'A'<<16 | 'G'<<8 | 'N'
	TagEVNT Tag = 'e'<<24 | 'v'<<16 | 'N'<<8 | 'T'
	TagMPNG Tag = 'm'<<24 | 'p'<<16 | 'N'<<8 | 'G'
)

// JNG chunk tags.
const (
	TagJHDR Tag = 'J'<<24 | 'H'<<16 | 'D'<<8 | 'R'
	TagJDAT Tag = 'J'<<24 | 'D'<<16 | 'A'<<8 | 'T'
	TagJDAA Tag = 'J'<<24 | 'D'<<16 | 'A'<<8 | 'A'
	TagJSEP Tag = 'J'<<24 | 'S'<<16 | 'E'<<8 | 'P'
)

// Signature identifies the datastream type from its 8-byte magic.
type Signature uint8

const (
	SigNone Signature = iota
	SigPNG
	SigMNG
	SigJNG
)

// SignatureLen is the length of every datastream signature.
const SignatureLen = 8

var magics = [...][SignatureLen]byte{
	SigPNG: {0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'},
	SigMNG: {0x8a, 'M', 'N', 'G', '\r', '\n', 0x1a, '\n'},
	SigJNG: {0x8b, 'J', 'N', 'G', '\r', '\n', 0x1a, '\n'},
}

// DetectSignature classifies the first eight bytes of a datastream.
func DetectSignature(b []byte) Signature {
	if len(b) < SignatureLen {
		return SigNone
	}
	for s := SigPNG; s <= SigJNG; s++ {
		if bytes.Equal(b[:SignatureLen], magics[s][:]) {
			return s
		}
	}
	return SigNone
}

// Magic returns the signature bytes, or nil for SigNone.
func (s Signature) Magic() []byte {
	if s < SigPNG || s > SigJNG {
		return nil
	}
	m := magics[s]
	return m[:]
}

func (s Signature) String() string {
	switch s {
	case SigPNG:
		return "PNG"
	case SigMNG:
		return "MNG"
	case SigJNG:
		return "JNG"
	default:
		return "none"
	}
}
