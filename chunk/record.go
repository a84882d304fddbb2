package chunk

import (
	"fmt"
	"slices"

	"github.com/gogpu/mng/codec"
)

// Record is a decoded chunk. Every registered tag has its own struct type in
// this package; unregistered ancillary chunks decode to *Unknown.
type Record interface {
	Tag() Tag
	encode() ([]byte, error)
}

// Context carries the stream state that decoding depends on.
type Context struct {
	// HasHeader is set while an IHDR, JHDR or BASI header is active;
	// ColorType is that header's color type.
	HasHeader bool
	ColorType uint8

	// InMNG enables MNG-only forms such as empty PLTE or filter method 64.
	InMNG bool

	// MaxWidth and MaxHeight bound image dimensions; 0 means 2^31-1.
	MaxWidth  uint32
	MaxHeight uint32

	// MaxPixels bounds width x height of images, frames and delta blocks;
	// 0 means no bound.
	MaxPixels uint64

	// Inflater expands compressed text and profiles; nil means zlib.
	Inflater codec.Inflater
}

func (ctx Context) checkSize(tag Tag, w, h uint32) error {
	maxW, maxH := ctx.MaxWidth, ctx.MaxHeight
	if maxW == 0 || maxW > MaxLength {
		maxW = MaxLength
	}
	if maxH == 0 || maxH > MaxLength {
		maxH = MaxLength
	}
	if w == 0 || w > maxW {
		return fieldError(tag, "width", w)
	}
	if h == 0 || h > maxH {
		return fieldError(tag, "height", h)
	}
	if n := uint64(w) * uint64(h); ctx.MaxPixels > 0 && n > ctx.MaxPixels {
		return newError(tag, ErrImageSize, "%dx%d is more than %d pixels", w, h, ctx.MaxPixels)
	}
	return nil
}

// checkArea is checkSize for sizes where zero means "unspecified".
func (ctx Context) checkArea(tag Tag, w, h uint32) error {
	if w == 0 && h == 0 {
		return nil
	}
	return ctx.checkSize(tag, max(w, 1), max(h, 1))
}

type decodeFunc func(p *parser, ctx Context) (Record, error)

var registry = map[Tag]decodeFunc{
	TagIHDR: decodeIHDR,
	TagPLTE: decodePLTE,
	TagIDAT: func(p *parser, _ Context) (Record, error) { return &IDAT{Data: p.rest()}, nil },
	TagIEND: decodeEmpty(func() Record { return &IEND{} }),
	TagTRNS: decodeTRNS,
	TagGAMA: decodeGAMA,
	TagCHRM: decodeCHRM,
	TagSRGB: decodeSRGB,
	TagICCP: decodeICCP,
	TagTEXT: decodeTEXT,
	TagZTXT: decodeZTXT,
	TagITXT: decodeITXT,
	TagBKGD: decodeBKGD,
	TagPHYS: decodePHYS,
	TagSBIT: decodeSBIT,
	TagSPLT: decodeSPLT,
	TagHIST: decodeHIST,
	TagTIME: decodeTIME,

	TagMHDR: decodeMHDR,
	TagMEND: decodeEmpty(func() Record { return &MEND{} }),
	TagLOOP: decodeLOOP,
	TagENDL: decodeENDL,
	TagDEFI: decodeDEFI,
	TagBASI: decodeBASI,
	TagCLON: decodeCLON,
	TagPAST: decodePAST,
	TagDISC: decodeDISC,
	TagBACK: decodeBACK,
	TagFRAM: decodeFRAM,
	TagMOVE: decodeMOVE,
	TagCLIP: decodeCLIP,
	TagSHOW: decodeSHOW,
	TagTERM: decodeTERM,
	TagSAVE: decodeSAVE,
	TagSEEK: decodeSEEK,
	TagEXPI: decodeEXPI,
	TagFPRI: decodeFPRI,
	TagNEED: decodeNEED,
	TagPHYG: decodePHYG,
	TagDHDR: decodeDHDR,
	TagPROM: decodePROM,
	TagIPNG: decodeEmpty(func() Record { return &IPNG{} }),
	TagPPLT: decodePPLT,
	TagIJNG: decodeEmpty(func() Record { return &IJNG{} }),
	TagDROP: decodeDROP,
	TagDBYK: decodeDBYK,
	TagORDR: decodeORDR,
	TagMAGN: decodeMAGN,
	TagEVNT: decodeEVNT,
	TagMPNG: decodeMPNG,

	TagJHDR: decodeJHDR,
	TagJDAT: func(p *parser, _ Context) (Record, error) { return &JDAT{Data: p.rest()}, nil },
	TagJDAA: func(p *parser, _ Context) (Record, error) { return &JDAA{Data: p.rest()}, nil },
	TagJSEP: decodeEmpty(func() Record { return &JSEP{} }),
}

// Known reports whether tag has a registered record type.
func Known(tag Tag) bool {
	_, ok := registry[tag]
	return ok
}

// Tags returns every registered tag in ascending order.
func Tags() []Tag {
	tags := make([]Tag, 0, len(registry))
	for t := range registry {
		tags = append(tags, t)
	}
	slices.Sort(tags)
	return tags
}

// Decode parses and validates the payload of c. The CRC is not checked.
// Unregistered ancillary tags yield *Unknown; unregistered critical tags
// fail with ErrUnknownCritical.
func Decode(c Chunk, ctx Context) (Record, error) {
	dec, ok := registry[c.Tag]
	if !ok {
		if c.Tag.Critical() {
			return nil, &Error{Tag: c.Tag, Err: ErrUnknownCritical}
		}
		return &Unknown{ChunkTag: c.Tag, Data: slices.Clone(c.Data)}, nil
	}
	p := &parser{data: c.Data}
	r, err := dec(p, ctx)
	if err != nil {
		return nil, err
	}
	if p.short {
		return nil, lengthError(c.Tag, len(c.Data))
	}
	if p.left() != 0 {
		return nil, newError(c.Tag, ErrBadLength, "%d trailing bytes", p.left())
	}
	return r, nil
}

// Encode serializes r into a chunk with a valid CRC.
func Encode(r Record) (Chunk, error) {
	data, err := r.encode()
	if err != nil {
		return Chunk{}, err
	}
	if len(data) > MaxLength {
		return Chunk{}, newError(r.Tag(), ErrTooLarge, "%d bytes", len(data))
	}
	return New(r.Tag(), data), nil
}

func decodeEmpty(mk func() Record) decodeFunc {
	return func(p *parser, _ Context) (Record, error) {
		r := mk()
		if p.left() != 0 {
			return nil, lengthError(r.Tag(), p.left())
		}
		return r, nil
	}
}

// Unknown is an unregistered ancillary chunk kept as raw bytes.
type Unknown struct {
	ChunkTag Tag
	Data     []byte
}

func (u *Unknown) Tag() Tag { return u.ChunkTag }

func (u *Unknown) encode() ([]byte, error) {
	if Known(u.ChunkTag) {
		return nil, fmt.Errorf("chunk: %s is registered, use its record type", u.ChunkTag)
	}
	return u.Data, nil
}

// LegalDepth reports whether depth is allowed for the PNG color type.
func LegalDepth(colorType, depth uint8) bool {
	switch colorType {
	case 0:
		return depth == 1 || depth == 2 || depth == 4 || depth == 8 || depth == 16
	case 3:
		return depth == 1 || depth == 2 || depth == 4 || depth == 8
	case 2, 4, 6:
		return depth == 8 || depth == 16
	}
	return false
}

// Filter methods accepted in image headers.
const (
	FilterAdaptive   = 0
	FilterIntrapixel = 64
)

func checkImageHeader(tag Tag, ctx Context, ct, depth, comp, filter, interlace uint8) error {
	if !LegalDepth(ct, depth) {
		return newError(tag, ErrBadField, "color type %d with bit depth %d", ct, depth)
	}
	if comp != 0 {
		return fieldError(tag, "compression", comp)
	}
	if filter != FilterAdaptive && !(filter == FilterIntrapixel && ctx.InMNG) {
		return fieldError(tag, "filter", filter)
	}
	if filter == FilterIntrapixel && ct != 2 && ct != 6 {
		return fieldError(tag, "filter", filter)
	}
	if interlace > 1 {
		return fieldError(tag, "interlace", interlace)
	}
	return nil
}
