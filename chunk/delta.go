package chunk

// DHDR delta types.
const (
	DeltaFull          = 0 // entire image replacement
	DeltaBlockAdd      = 1 // block pixel addition
	DeltaBlockAlphaAdd = 2 // block alpha addition
	DeltaBlockColorAdd = 3 // block color addition
	DeltaBlockReplace  = 4 // block pixel replacement
	DeltaBlockAlpha    = 5 // block alpha replacement
	DeltaBlockColor    = 6 // block color replacement
	DeltaNoChange      = 7 // no change to pixel data
)

// DHDR image types.
const (
	DeltaImageUnspecified = 0
	DeltaImagePNG         = 1
	DeltaImageJNG         = 2
)

// DHDR opens a delta image applied to an existing object.
type DHDR struct {
	Object      uint16
	ImageType   uint8
	DeltaType   uint8
	BlockWidth  uint32
	BlockHeight uint32
	X, Y        uint32
}

func (*DHDR) Tag() Tag { return TagDHDR }

func decodeDHDR(p *parser, ctx Context) (Record, error) {
	n := p.left()
	switch n {
	case 4, 12, 20:
	default:
		return nil, lengthError(TagDHDR, n)
	}
	r := &DHDR{Object: p.u16(), ImageType: p.u8(), DeltaType: p.u8()}
	if n >= 12 {
		r.BlockWidth, r.BlockHeight = p.u32(), p.u32()
	}
	if n == 20 {
		r.X, r.Y = p.u32(), p.u32()
	}
	switch {
	case r.ImageType > DeltaImageJNG:
		return nil, fieldError(TagDHDR, "image type", r.ImageType)
	case r.DeltaType > DeltaNoChange:
		return nil, fieldError(TagDHDR, "delta type", r.DeltaType)
	case r.X > MaxLength || r.Y > MaxLength:
		return nil, newError(TagDHDR, ErrBadField, "block origin %d,%d", r.X, r.Y)
	}
	if err := ctx.checkArea(TagDHDR, r.BlockWidth, r.BlockHeight); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *DHDR) encode() ([]byte, error) {
	var w builder
	w.u16(r.Object)
	w.u8(r.ImageType)
	w.u8(r.DeltaType)
	if r.BlockWidth != 0 || r.BlockHeight != 0 || r.X != 0 || r.Y != 0 {
		w.u32(r.BlockWidth)
		w.u32(r.BlockHeight)
	}
	if r.X != 0 || r.Y != 0 {
		w.u32(r.X)
		w.u32(r.Y)
	}
	return w.b, nil
}

// PROM promotes the delta target to a new color type and depth.
type PROM struct {
	ColorType uint8
	BitDepth  uint8
	Fill      uint8
}

func (*PROM) Tag() Tag { return TagPROM }

func decodePROM(p *parser, _ Context) (Record, error) {
	if p.left() != 3 {
		return nil, lengthError(TagPROM, p.left())
	}
	r := &PROM{ColorType: p.u8(), BitDepth: p.u8(), Fill: p.u8()}
	if !LegalDepth(r.ColorType, r.BitDepth) {
		return nil, newError(TagPROM, ErrBadField, "color type %d with bit depth %d", r.ColorType, r.BitDepth)
	}
	if r.Fill > 1 {
		return nil, fieldError(TagPROM, "fill method", r.Fill)
	}
	return r, nil
}

func (r *PROM) encode() ([]byte, error) { return []byte{r.ColorType, r.BitDepth, r.Fill}, nil }

// IPNG marks the start of embedded PNG data inside a delta image.
type IPNG struct{}

func (*IPNG) Tag() Tag                { return TagIPNG }
func (*IPNG) encode() ([]byte, error) { return nil, nil }

// IJNG marks the start of embedded JNG data inside a delta image.
type IJNG struct{}

func (*IJNG) Tag() Tag                { return TagIJNG }
func (*IJNG) encode() ([]byte, error) { return nil, nil }

// PPLT delta types.
const (
	PPLTReplaceRGB  = 0
	PPLTDeltaRGB    = 1
	PPLTReplaceA    = 2
	PPLTDeltaA      = 3
	PPLTReplaceRGBA = 4
	PPLTDeltaRGBA   = 5
)

// PPLTGroup covers palette entries First..Last. Samples holds 3, 1 or 4
// bytes per entry depending on the PPLT type.
type PPLTGroup struct {
	First, Last uint8
	Samples     []uint8
}

// PPLT replaces or adjusts palette entries of the delta target.
type PPLT struct {
	Type   uint8
	Groups []PPLTGroup
}

func (*PPLT) Tag() Tag { return TagPPLT }

// EntrySize returns the number of bytes per palette entry for the type.
func (r *PPLT) EntrySize() int {
	switch r.Type {
	case PPLTReplaceRGB, PPLTDeltaRGB:
		return 3
	case PPLTReplaceA, PPLTDeltaA:
		return 1
	default:
		return 4
	}
}

func decodePPLT(p *parser, _ Context) (Record, error) {
	if p.left() < 3 {
		return nil, lengthError(TagPPLT, p.left())
	}
	r := &PPLT{Type: p.u8()}
	if r.Type > PPLTDeltaRGBA {
		return nil, fieldError(TagPPLT, "delta type", r.Type)
	}
	size := r.EntrySize()
	for p.left() > 0 {
		if p.left() < 2 {
			return nil, newError(TagPPLT, ErrEntryCount, "truncated group header")
		}
		g := PPLTGroup{First: p.u8(), Last: p.u8()}
		if g.Last < g.First {
			return nil, newError(TagPPLT, ErrBadField, "entries %d..%d", g.First, g.Last)
		}
		n := (int(g.Last) - int(g.First) + 1) * size
		if p.left() < n {
			return nil, newError(TagPPLT, ErrEntryCount, "group %d..%d needs %d bytes", g.First, g.Last, n)
		}
		g.Samples = append([]uint8(nil), p.take(n)...)
		r.Groups = append(r.Groups, g)
	}
	return r, nil
}

func (r *PPLT) encode() ([]byte, error) {
	if len(r.Groups) == 0 {
		return nil, newError(TagPPLT, ErrEntryCount, "no groups")
	}
	size := r.EntrySize()
	var w builder
	w.u8(r.Type)
	for _, g := range r.Groups {
		if g.Last < g.First || len(g.Samples) != (int(g.Last)-int(g.First)+1)*size {
			return nil, newError(TagPPLT, ErrEntryCount, "group %d..%d has %d bytes", g.First, g.Last, len(g.Samples))
		}
		w.u8(g.First)
		w.u8(g.Last)
		w.raw(g.Samples)
	}
	return w.b, nil
}

// DROP lists chunk types the decoder should discard from delta images.
type DROP struct {
	Tags []Tag
}

func (*DROP) Tag() Tag { return TagDROP }

func decodeDROP(p *parser, _ Context) (Record, error) {
	if p.left() == 0 || p.left()%4 != 0 {
		return nil, newError(TagDROP, ErrEntryCount, "%d bytes", p.left())
	}
	r := &DROP{}
	for p.left() > 0 {
		r.Tags = append(r.Tags, Tag(p.u32()))
	}
	return r, nil
}

func (r *DROP) encode() ([]byte, error) {
	if len(r.Tags) == 0 {
		return nil, newError(TagDROP, ErrEntryCount, "no tags")
	}
	var w builder
	for _, t := range r.Tags {
		w.u32(uint32(t))
	}
	return w.b, nil
}

// DBYK drops chunks of one type by keyword. Polarity 0 drops chunks that
// match a keyword, 1 drops those that do not.
type DBYK struct {
	ChunkTag Tag
	Polarity uint8
	Keywords []string
}

func (*DBYK) Tag() Tag { return TagDBYK }

func decodeDBYK(p *parser, _ Context) (Record, error) {
	if p.left() < 5 {
		return nil, lengthError(TagDBYK, p.left())
	}
	r := &DBYK{ChunkTag: Tag(p.u32()), Polarity: p.u8()}
	if r.Polarity > 1 {
		return nil, fieldError(TagDBYK, "polarity", r.Polarity)
	}
	for _, k := range splitNul(p.rest()) {
		s, err := keyword(TagDBYK, "keyword", k, false)
		if err != nil {
			return nil, err
		}
		r.Keywords = append(r.Keywords, s)
	}
	return r, nil
}

func (r *DBYK) encode() ([]byte, error) {
	var w builder
	w.u32(uint32(r.ChunkTag))
	w.u8(r.Polarity)
	for i, k := range r.Keywords {
		if i > 0 {
			w.u8(0)
		}
		b, err := checkKeyword(TagDBYK, "keyword", k, false)
		if err != nil {
			return nil, err
		}
		w.raw(b)
	}
	return w.b, nil
}

// ORDREntry states the required position of one chunk type.
type ORDREntry struct {
	ChunkTag Tag
	Order    uint8
}

// ORDR constrains the order of ancillary chunks in delta images.
type ORDR struct {
	Entries []ORDREntry
}

func (*ORDR) Tag() Tag { return TagORDR }

func decodeORDR(p *parser, _ Context) (Record, error) {
	if p.left() == 0 || p.left()%5 != 0 {
		return nil, newError(TagORDR, ErrEntryCount, "%d bytes", p.left())
	}
	r := &ORDR{}
	for p.left() > 0 {
		e := ORDREntry{ChunkTag: Tag(p.u32()), Order: p.u8()}
		if e.Order > 4 {
			return nil, fieldError(TagORDR, "order type", e.Order)
		}
		r.Entries = append(r.Entries, e)
	}
	return r, nil
}

func (r *ORDR) encode() ([]byte, error) {
	if len(r.Entries) == 0 {
		return nil, newError(TagORDR, ErrEntryCount, "no entries")
	}
	var w builder
	for _, e := range r.Entries {
		w.u32(uint32(e.ChunkTag))
		w.u8(e.Order)
	}
	return w.b, nil
}

// MAGN magnification methods.
const (
	MagnNone         = 0
	MagnReplicate    = 1
	MagnLinear       = 2
	MagnClosest      = 3
	MagnLinearColor  = 4 // linear color, closest alpha
	MagnClosestColor = 5 // closest color, linear alpha
)

// MAGN sets the magnification of objects First..Last.
type MAGN struct {
	First, Last    uint16
	XMethod        uint8
	MX, MY         uint16
	ML, MR, MT, MB uint16
	YMethod        uint8
}

func (*MAGN) Tag() Tag { return TagMAGN }

var magnLengths = [...]int{0, 2, 4, 5, 7, 9, 11, 13, 15, 17, 18}

// decodeMAGNPrefix builds a MAGN from a payload prefix, filling defaults
// for the omitted tail.
func decodeMAGNPrefix(p *parser) MAGN {
	n := p.left()
	var r MAGN
	if n >= 2 {
		r.First = p.u16()
	}
	r.Last = r.First
	if n >= 4 {
		r.Last = p.u16()
	}
	if n >= 5 {
		r.XMethod = p.u8()
	}
	r.MX = 1
	if n >= 7 {
		r.MX = p.u16()
	}
	r.MY = r.MX
	if n >= 9 {
		r.MY = p.u16()
	}
	r.ML, r.MR = r.MX, r.MX
	if n >= 11 {
		r.ML = p.u16()
	}
	if n >= 13 {
		r.MR = p.u16()
	}
	r.MT, r.MB = r.MY, r.MY
	if n >= 15 {
		r.MT = p.u16()
	}
	if n >= 17 {
		r.MB = p.u16()
	}
	r.YMethod = r.XMethod
	if n == 18 {
		r.YMethod = p.u8()
	}
	return r
}

func decodeMAGN(p *parser, _ Context) (Record, error) {
	n := p.left()
	legal := false
	for _, l := range magnLengths {
		legal = legal || n == l
	}
	if !legal {
		return nil, lengthError(TagMAGN, n)
	}
	r := decodeMAGNPrefix(p)
	switch {
	case r.XMethod > MagnClosestColor:
		return nil, fieldError(TagMAGN, "x method", r.XMethod)
	case r.YMethod > MagnClosestColor:
		return nil, fieldError(TagMAGN, "y method", r.YMethod)
	case r.MX == 0 || r.MY == 0 || r.ML == 0 || r.MR == 0 || r.MT == 0 || r.MB == 0:
		return nil, newError(TagMAGN, ErrBadField, "zero magnification factor")
	}
	return &r, nil
}

func (r *MAGN) encode() ([]byte, error) {
	var w builder
	w.u16(r.First)
	w.u16(r.Last)
	w.u8(r.XMethod)
	for _, v := range [...]uint16{r.MX, r.MY, r.ML, r.MR, r.MT, r.MB} {
		w.u16(v)
	}
	w.u8(r.YMethod)
	for _, n := range magnLengths {
		if decodeMAGNPrefix(&parser{data: w.b[:n]}) == *r {
			return w.b[:n], nil
		}
	}
	return w.b, nil
}
