package chunk

// IHDR is the PNG image header.
type IHDR struct {
	Width, Height uint32
	BitDepth      uint8
	ColorType     uint8
	Compression   uint8
	Filter        uint8
	Interlace     uint8
}

func (*IHDR) Tag() Tag { return TagIHDR }

func decodeIHDR(p *parser, ctx Context) (Record, error) {
	if p.left() != 13 {
		return nil, lengthError(TagIHDR, p.left())
	}
	h := &IHDR{
		Width:       p.u32(),
		Height:      p.u32(),
		BitDepth:    p.u8(),
		ColorType:   p.u8(),
		Compression: p.u8(),
		Filter:      p.u8(),
		Interlace:   p.u8(),
	}
	if err := ctx.checkSize(TagIHDR, h.Width, h.Height); err != nil {
		return nil, err
	}
	if err := checkImageHeader(TagIHDR, ctx, h.ColorType, h.BitDepth, h.Compression, h.Filter, h.Interlace); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *IHDR) encode() ([]byte, error) {
	var w builder
	w.u32(h.Width)
	w.u32(h.Height)
	w.u8(h.BitDepth)
	w.u8(h.ColorType)
	w.u8(h.Compression)
	w.u8(h.Filter)
	w.u8(h.Interlace)
	return w.b, nil
}

// PLTE is a palette. An empty palette is legal only inside MNG, where it
// selects the global palette.
type PLTE struct {
	Entries [][3]uint8
}

func (*PLTE) Tag() Tag { return TagPLTE }

func decodePLTE(p *parser, ctx Context) (Record, error) {
	n := p.left()
	if n%3 != 0 || n > 3*256 || n == 0 && !ctx.InMNG {
		return nil, lengthError(TagPLTE, n)
	}
	if ctx.HasHeader && (ctx.ColorType == 0 || ctx.ColorType == 4) {
		return nil, newError(TagPLTE, ErrBadField, "palette not allowed for color type %d", ctx.ColorType)
	}
	r := &PLTE{}
	for range n / 3 {
		r.Entries = append(r.Entries, [3]uint8{p.u8(), p.u8(), p.u8()})
	}
	return r, nil
}

func (r *PLTE) encode() ([]byte, error) {
	if len(r.Entries) > 256 {
		return nil, newError(TagPLTE, ErrEntryCount, "%d entries", len(r.Entries))
	}
	var w builder
	for _, e := range r.Entries {
		w.raw(e[:])
	}
	return w.b, nil
}

// IDAT carries a slice of the zlib pixel stream.
type IDAT struct {
	Data []byte
}

func (*IDAT) Tag() Tag                  { return TagIDAT }
func (r *IDAT) encode() ([]byte, error) { return r.Data, nil }

// IEND ends a PNG datastream.
type IEND struct{}

func (*IEND) Tag() Tag                { return TagIEND }
func (*IEND) encode() ([]byte, error) { return nil, nil }

// TRNSKind selects which tRNS layout is populated.
type TRNSKind uint8

const (
	// TRNSRaw holds bytes decoded without an active header; an empty Raw
	// is the MNG "discard transparency" form.
	TRNSRaw TRNSKind = iota
	TRNSGray
	TRNSRGB
	TRNSIndexed
)

// TRNS is simple transparency: a color key or per-entry palette alpha.
type TRNS struct {
	Kind             TRNSKind
	Gray             uint16
	Red, Green, Blue uint16
	Alpha            []uint8
	Raw              []byte
}

func (*TRNS) Tag() Tag { return TagTRNS }

func decodeTRNS(p *parser, ctx Context) (Record, error) {
	n := p.left()
	if !ctx.HasHeader || n == 0 {
		if n == 0 && !ctx.InMNG {
			return nil, lengthError(TagTRNS, n)
		}
		return &TRNS{Kind: TRNSRaw, Raw: p.rest()}, nil
	}
	switch ctx.ColorType {
	case 0:
		if n != 2 {
			return nil, lengthError(TagTRNS, n)
		}
		return &TRNS{Kind: TRNSGray, Gray: p.u16()}, nil
	case 2:
		if n != 6 {
			return nil, lengthError(TagTRNS, n)
		}
		return &TRNS{Kind: TRNSRGB, Red: p.u16(), Green: p.u16(), Blue: p.u16()}, nil
	case 3:
		if n > 256 {
			return nil, lengthError(TagTRNS, n)
		}
		return &TRNS{Kind: TRNSIndexed, Alpha: p.rest()}, nil
	default:
		return nil, newError(TagTRNS, ErrBadField, "transparency not allowed for color type %d", ctx.ColorType)
	}
}

func (r *TRNS) encode() ([]byte, error) {
	var w builder
	switch r.Kind {
	case TRNSRaw:
		w.raw(r.Raw)
	case TRNSGray:
		w.u16(r.Gray)
	case TRNSRGB:
		w.u16(r.Red)
		w.u16(r.Green)
		w.u16(r.Blue)
	case TRNSIndexed:
		if len(r.Alpha) > 256 {
			return nil, newError(TagTRNS, ErrEntryCount, "%d entries", len(r.Alpha))
		}
		w.raw(r.Alpha)
	default:
		return nil, fieldError(TagTRNS, "kind", r.Kind)
	}
	return w.b, nil
}

// GammaScale is the fixed-point scale of gAMA and cHRM values.
const GammaScale = 100000

// GAMA is the image gamma times 100000. Empty (MNG only) resets to the
// default.
type GAMA struct {
	Empty bool
	Gamma uint32
}

func (*GAMA) Tag() Tag { return TagGAMA }

func decodeGAMA(p *parser, ctx Context) (Record, error) {
	switch n := p.left(); {
	case n == 0 && ctx.InMNG:
		return &GAMA{Empty: true}, nil
	case n != 4:
		return nil, lengthError(TagGAMA, n)
	}
	g := p.u32()
	if g == 0 || g > MaxLength {
		return nil, fieldError(TagGAMA, "gamma", g)
	}
	return &GAMA{Gamma: g}, nil
}

func (r *GAMA) encode() ([]byte, error) {
	if r.Empty {
		return nil, nil
	}
	var w builder
	w.u32(r.Gamma)
	return w.b, nil
}

// Value returns the gamma as a float.
func (r *GAMA) Value() float64 { return float64(r.Gamma) / GammaScale }

// CHRM holds the white point and primaries, each times 100000.
type CHRM struct {
	Empty          bool
	WhiteX, WhiteY uint32
	RedX, RedY     uint32
	GreenX, GreenY uint32
	BlueX, BlueY   uint32
}

func (*CHRM) Tag() Tag { return TagCHRM }

func decodeCHRM(p *parser, ctx Context) (Record, error) {
	switch n := p.left(); {
	case n == 0 && ctx.InMNG:
		return &CHRM{Empty: true}, nil
	case n != 32:
		return nil, lengthError(TagCHRM, n)
	}
	return &CHRM{
		WhiteX: p.u32(), WhiteY: p.u32(),
		RedX: p.u32(), RedY: p.u32(),
		GreenX: p.u32(), GreenY: p.u32(),
		BlueX: p.u32(), BlueY: p.u32(),
	}, nil
}

func (r *CHRM) encode() ([]byte, error) {
	if r.Empty {
		return nil, nil
	}
	var w builder
	for _, v := range [...]uint32{r.WhiteX, r.WhiteY, r.RedX, r.RedY, r.GreenX, r.GreenY, r.BlueX, r.BlueY} {
		w.u32(v)
	}
	return w.b, nil
}

// SRGB marks the image as sRGB with the given rendering intent.
type SRGB struct {
	Empty  bool
	Intent uint8
}

func (*SRGB) Tag() Tag { return TagSRGB }

func decodeSRGB(p *parser, ctx Context) (Record, error) {
	switch n := p.left(); {
	case n == 0 && ctx.InMNG:
		return &SRGB{Empty: true}, nil
	case n != 1:
		return nil, lengthError(TagSRGB, n)
	}
	r := &SRGB{Intent: p.u8()}
	if r.Intent > 3 {
		return nil, fieldError(TagSRGB, "intent", r.Intent)
	}
	return r, nil
}

func (r *SRGB) encode() ([]byte, error) {
	if r.Empty {
		return nil, nil
	}
	return []byte{r.Intent}, nil
}

// ICCP is an embedded ICC profile; Profile holds the inflated bytes.
type ICCP struct {
	Empty   bool
	Name    string
	Profile []byte
}

func (*ICCP) Tag() Tag { return TagICCP }

func decodeICCP(p *parser, ctx Context) (Record, error) {
	if p.left() == 0 && ctx.InMNG {
		return &ICCP{Empty: true}, nil
	}
	name, ok := p.field()
	if !ok {
		return nil, newError(TagICCP, ErrBadLength, "missing name terminator")
	}
	r := &ICCP{}
	var err error
	if r.Name, err = keyword(TagICCP, "name", name, false); err != nil {
		return nil, err
	}
	if m := p.u8(); m != 0 {
		return nil, fieldError(TagICCP, "compression", m)
	}
	if r.Profile, err = inflate(ctx, TagICCP, p.rest()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *ICCP) encode() ([]byte, error) {
	if r.Empty {
		return nil, nil
	}
	name, err := checkKeyword(TagICCP, "name", r.Name, false)
	if err != nil {
		return nil, err
	}
	z, err := deflate(TagICCP, r.Profile)
	if err != nil {
		return nil, err
	}
	var w builder
	w.raw(name)
	w.u8(0)
	w.u8(0)
	w.raw(z)
	return w.b, nil
}

// Text is implemented by the three text chunk records.
type Text interface {
	Record
	KeywordText() (keyword, text string)
}

// TEXT is uncompressed Latin-1 text.
type TEXT struct {
	Keyword string
	Text    string
}

func (*TEXT) Tag() Tag                        { return TagTEXT }
func (r *TEXT) KeywordText() (string, string) { return r.Keyword, r.Text }

func decodeTEXT(p *parser, _ Context) (Record, error) {
	key, ok := p.field()
	if !ok {
		return nil, newError(TagTEXT, ErrBadLength, "missing keyword terminator")
	}
	k, err := keyword(TagTEXT, "keyword", key, false)
	if err != nil {
		return nil, err
	}
	return &TEXT{Keyword: k, Text: decodeLatin1(p.rest())}, nil
}

func (r *TEXT) encode() ([]byte, error) {
	key, err := checkKeyword(TagTEXT, "keyword", r.Keyword, false)
	if err != nil {
		return nil, err
	}
	var w builder
	w.raw(key)
	w.u8(0)
	if err := w.latin1(TagTEXT, "text", r.Text); err != nil {
		return nil, err
	}
	return w.b, nil
}

// ZTXT is zlib-compressed Latin-1 text.
type ZTXT struct {
	Keyword string
	Text    string
}

func (*ZTXT) Tag() Tag                        { return TagZTXT }
func (r *ZTXT) KeywordText() (string, string) { return r.Keyword, r.Text }

func decodeZTXT(p *parser, ctx Context) (Record, error) {
	key, ok := p.field()
	if !ok {
		return nil, newError(TagZTXT, ErrBadLength, "missing keyword terminator")
	}
	k, err := keyword(TagZTXT, "keyword", key, false)
	if err != nil {
		return nil, err
	}
	if m := p.u8(); m != 0 {
		return nil, fieldError(TagZTXT, "compression", m)
	}
	text, err := inflate(ctx, TagZTXT, p.rest())
	if err != nil {
		return nil, err
	}
	return &ZTXT{Keyword: k, Text: decodeLatin1(text)}, nil
}

func (r *ZTXT) encode() ([]byte, error) {
	key, err := checkKeyword(TagZTXT, "keyword", r.Keyword, false)
	if err != nil {
		return nil, err
	}
	text, err := encodeLatin1(r.Text)
	if err != nil {
		return nil, fieldError(TagZTXT, "text", r.Text)
	}
	z, err := deflate(TagZTXT, text)
	if err != nil {
		return nil, err
	}
	var w builder
	w.raw(key)
	w.u8(0)
	w.u8(0)
	w.raw(z)
	return w.b, nil
}

// ITXT is international UTF-8 text, optionally compressed.
type ITXT struct {
	Keyword    string
	Compressed bool
	Language   string
	Translated string
	Text       string
}

func (*ITXT) Tag() Tag                        { return TagITXT }
func (r *ITXT) KeywordText() (string, string) { return r.Keyword, r.Text }

func decodeITXT(p *parser, ctx Context) (Record, error) {
	key, ok := p.field()
	if !ok {
		return nil, newError(TagITXT, ErrBadLength, "missing keyword terminator")
	}
	k, err := keyword(TagITXT, "keyword", key, false)
	if err != nil {
		return nil, err
	}
	r := &ITXT{Keyword: k}
	flag, method := p.u8(), p.u8()
	if flag > 1 {
		return nil, fieldError(TagITXT, "compression flag", flag)
	}
	if method != 0 {
		return nil, fieldError(TagITXT, "compression method", method)
	}
	r.Compressed = flag == 1
	lang, ok1 := p.field()
	trans, ok2 := p.field()
	if !ok1 || !ok2 {
		return nil, newError(TagITXT, ErrBadLength, "missing language terminator")
	}
	r.Language, r.Translated = string(lang), string(trans)
	text := p.rest()
	if r.Compressed {
		if text, err = inflate(ctx, TagITXT, text); err != nil {
			return nil, err
		}
	}
	r.Text = string(text)
	return r, nil
}

func (r *ITXT) encode() ([]byte, error) {
	key, err := checkKeyword(TagITXT, "keyword", r.Keyword, false)
	if err != nil {
		return nil, err
	}
	var w builder
	w.raw(key)
	w.u8(0)
	text := []byte(r.Text)
	if r.Compressed {
		w.u8(1)
		if text, err = deflate(TagITXT, text); err != nil {
			return nil, err
		}
	} else {
		w.u8(0)
	}
	w.u8(0)
	w.raw([]byte(r.Language))
	w.u8(0)
	w.raw([]byte(r.Translated))
	w.u8(0)
	w.raw(text)
	return w.b, nil
}

// BKGDKind selects which bKGD layout is populated.
type BKGDKind uint8

const (
	BKGDEmpty BKGDKind = iota
	BKGDGray
	BKGDRGB
	BKGDIndex
)

// BKGD is the preferred background color.
type BKGD struct {
	Kind             BKGDKind
	Gray             uint16
	Red, Green, Blue uint16
	Index            uint8
}

func (*BKGD) Tag() Tag { return TagBKGD }

func decodeBKGD(p *parser, ctx Context) (Record, error) {
	n := p.left()
	want := n
	if ctx.HasHeader {
		switch ctx.ColorType {
		case 0, 4:
			want = 2
		case 2, 6:
			want = 6
		case 3:
			want = 1
		}
	}
	switch {
	case n == 0 && ctx.InMNG:
		return &BKGD{Kind: BKGDEmpty}, nil
	case n != want:
		return nil, lengthError(TagBKGD, n)
	}
	switch n {
	case 1:
		return &BKGD{Kind: BKGDIndex, Index: p.u8()}, nil
	case 2:
		return &BKGD{Kind: BKGDGray, Gray: p.u16()}, nil
	case 6:
		return &BKGD{Kind: BKGDRGB, Red: p.u16(), Green: p.u16(), Blue: p.u16()}, nil
	}
	return nil, lengthError(TagBKGD, n)
}

func (r *BKGD) encode() ([]byte, error) {
	var w builder
	switch r.Kind {
	case BKGDEmpty:
	case BKGDGray:
		w.u16(r.Gray)
	case BKGDRGB:
		w.u16(r.Red)
		w.u16(r.Green)
		w.u16(r.Blue)
	case BKGDIndex:
		w.u8(r.Index)
	default:
		return nil, fieldError(TagBKGD, "kind", r.Kind)
	}
	return w.b, nil
}

// PHYS is the physical pixel size. Unit 1 means meters.
type PHYS struct {
	Empty bool
	X, Y  uint32
	Unit  uint8
}

func (*PHYS) Tag() Tag { return TagPHYS }

func decodePhysical(tag Tag, p *parser, ctx Context) (PHYS, error) {
	switch n := p.left(); {
	case n == 0 && (ctx.InMNG || tag == TagPHYG):
		return PHYS{Empty: true}, nil
	case n != 9:
		return PHYS{}, lengthError(tag, n)
	}
	r := PHYS{X: p.u32(), Y: p.u32(), Unit: p.u8()}
	if r.Unit > 1 {
		return PHYS{}, fieldError(tag, "unit", r.Unit)
	}
	return r, nil
}

func decodePHYS(p *parser, ctx Context) (Record, error) {
	r, err := decodePhysical(TagPHYS, p, ctx)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *PHYS) encode() ([]byte, error) {
	if r.Empty {
		return nil, nil
	}
	var w builder
	w.u32(r.X)
	w.u32(r.Y)
	w.u8(r.Unit)
	return w.b, nil
}

// SBIT lists the significant bits per channel. Nil Bits is the empty MNG
// form.
type SBIT struct {
	Bits []uint8
}

func (*SBIT) Tag() Tag { return TagSBIT }

func decodeSBIT(p *parser, ctx Context) (Record, error) {
	n := p.left()
	if n == 0 && ctx.InMNG {
		return &SBIT{}, nil
	}
	want := n
	if ctx.HasHeader {
		switch ctx.ColorType {
		case 0:
			want = 1
		case 2, 3:
			want = 3
		case 4:
			want = 2
		case 6:
			want = 4
		}
	}
	if n == 0 || n > 4 || n != want {
		return nil, lengthError(TagSBIT, n)
	}
	r := &SBIT{Bits: p.rest()}
	for _, b := range r.Bits {
		if b == 0 || b > 16 {
			return nil, fieldError(TagSBIT, "bits", b)
		}
	}
	return r, nil
}

func (r *SBIT) encode() ([]byte, error) {
	if len(r.Bits) > 4 {
		return nil, newError(TagSBIT, ErrEntryCount, "%d channels", len(r.Bits))
	}
	return r.Bits, nil
}

// SPLTEntry is one suggested palette entry.
type SPLTEntry struct {
	Red, Green, Blue, Alpha uint16
	Frequency               uint16
}

// SPLT is a suggested palette with 8- or 16-bit samples.
type SPLT struct {
	Name    string
	Depth   uint8
	Entries []SPLTEntry
}

func (*SPLT) Tag() Tag { return TagSPLT }

func decodeSPLT(p *parser, _ Context) (Record, error) {
	name, ok := p.field()
	if !ok {
		return nil, newError(TagSPLT, ErrBadLength, "missing name terminator")
	}
	r := &SPLT{}
	var err error
	if r.Name, err = keyword(TagSPLT, "name", name, false); err != nil {
		return nil, err
	}
	r.Depth = p.u8()
	size := 0
	switch r.Depth {
	case 8:
		size = 6
	case 16:
		size = 10
	default:
		return nil, fieldError(TagSPLT, "depth", r.Depth)
	}
	if p.left()%size != 0 {
		return nil, newError(TagSPLT, ErrEntryCount, "%d bytes for %d-byte entries", p.left(), size)
	}
	for p.left() > 0 {
		var e SPLTEntry
		if r.Depth == 8 {
			e.Red, e.Green, e.Blue, e.Alpha = uint16(p.u8()), uint16(p.u8()), uint16(p.u8()), uint16(p.u8())
		} else {
			e.Red, e.Green, e.Blue, e.Alpha = p.u16(), p.u16(), p.u16(), p.u16()
		}
		e.Frequency = p.u16()
		r.Entries = append(r.Entries, e)
	}
	return r, nil
}

func (r *SPLT) encode() ([]byte, error) {
	name, err := checkKeyword(TagSPLT, "name", r.Name, false)
	if err != nil {
		return nil, err
	}
	if r.Depth != 8 && r.Depth != 16 {
		return nil, fieldError(TagSPLT, "depth", r.Depth)
	}
	var w builder
	w.raw(name)
	w.u8(0)
	w.u8(r.Depth)
	for _, e := range r.Entries {
		if r.Depth == 8 {
			w.raw([]byte{uint8(e.Red), uint8(e.Green), uint8(e.Blue), uint8(e.Alpha)})
		} else {
			w.u16(e.Red)
			w.u16(e.Green)
			w.u16(e.Blue)
			w.u16(e.Alpha)
		}
		w.u16(e.Frequency)
	}
	return w.b, nil
}

// HIST is the palette histogram.
type HIST struct {
	Frequency []uint16
}

func (*HIST) Tag() Tag { return TagHIST }

func decodeHIST(p *parser, _ Context) (Record, error) {
	n := p.left()
	if n == 0 || n%2 != 0 || n > 512 {
		return nil, newError(TagHIST, ErrEntryCount, "%d bytes", n)
	}
	r := &HIST{Frequency: make([]uint16, 0, n/2)}
	for p.left() > 0 {
		r.Frequency = append(r.Frequency, p.u16())
	}
	return r, nil
}

func (r *HIST) encode() ([]byte, error) {
	if len(r.Frequency) == 0 || len(r.Frequency) > 256 {
		return nil, newError(TagHIST, ErrEntryCount, "%d entries", len(r.Frequency))
	}
	var w builder
	for _, f := range r.Frequency {
		w.u16(f)
	}
	return w.b, nil
}

// TIME is the last-modification time in UTC.
type TIME struct {
	Year                 uint16
	Month, Day           uint8
	Hour, Minute, Second uint8
}

func (*TIME) Tag() Tag { return TagTIME }

func decodeTIME(p *parser, _ Context) (Record, error) {
	if p.left() != 7 {
		return nil, lengthError(TagTIME, p.left())
	}
	r := &TIME{Year: p.u16(), Month: p.u8(), Day: p.u8(), Hour: p.u8(), Minute: p.u8(), Second: p.u8()}
	switch {
	case r.Month < 1 || r.Month > 12:
		return nil, fieldError(TagTIME, "month", r.Month)
	case r.Day < 1 || r.Day > 31:
		return nil, fieldError(TagTIME, "day", r.Day)
	case r.Hour > 23:
		return nil, fieldError(TagTIME, "hour", r.Hour)
	case r.Minute > 59:
		return nil, fieldError(TagTIME, "minute", r.Minute)
	case r.Second > 60:
		return nil, fieldError(TagTIME, "second", r.Second)
	}
	return r, nil
}

func (r *TIME) encode() ([]byte, error) {
	var w builder
	w.u16(r.Year)
	w.raw([]byte{r.Month, r.Day, r.Hour, r.Minute, r.Second})
	return w.b, nil
}
