package chunk

// Infinite is the MNG iteration count and play time meaning "forever".
const Infinite = 0x7fffffff

// MHDR is the MNG datastream header.
type MHDR struct {
	Width, Height uint32
	TicksPerSec   uint32
	Layers        uint32
	Frames        uint32
	PlayTime      uint32
	Profile       uint32
}

func (*MHDR) Tag() Tag { return TagMHDR }

// MHDR simplicity profile bits.
const (
	ProfileValid       = 1 << 0
	ProfileSimple      = 1 << 1
	ProfileComplex     = 1 << 2
	ProfileTransparent = 1 << 3
	ProfileJNG         = 1 << 4
	ProfileDeltaPNG    = 1 << 5
)

func decodeMHDR(p *parser, ctx Context) (Record, error) {
	if p.left() != 28 {
		return nil, lengthError(TagMHDR, p.left())
	}
	h := &MHDR{
		Width:       p.u32(),
		Height:      p.u32(),
		TicksPerSec: p.u32(),
		Layers:      p.u32(),
		Frames:      p.u32(),
		PlayTime:    p.u32(),
		Profile:     p.u32(),
	}
	if h.Width > MaxLength || h.Height > MaxLength {
		return nil, newError(TagMHDR, ErrBadField, "frame %dx%d", h.Width, h.Height)
	}
	if err := ctx.checkArea(TagMHDR, h.Width, h.Height); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *MHDR) encode() ([]byte, error) {
	var w builder
	for _, v := range [...]uint32{h.Width, h.Height, h.TicksPerSec, h.Layers, h.Frames, h.PlayTime, h.Profile} {
		w.u32(v)
	}
	return w.b, nil
}

// MEND ends an MNG datastream.
type MEND struct{}

func (*MEND) Tag() Tag                { return TagMEND }
func (*MEND) encode() ([]byte, error) { return nil, nil }

// LOOP termination conditions.
const (
	TermDeterministic = 0
	TermDecoder       = 1
	TermUser          = 2
	TermExternal      = 3
)

// LOOP opens a loop body repeated Count times.
type LOOP struct {
	Nest        uint8
	Count       uint32
	Termination uint8
	Min         uint32
	Max         uint32
	Signals     []uint32
}

func (*LOOP) Tag() Tag { return TagLOOP }

func decodeLOOP(p *parser, _ Context) (Record, error) {
	n := p.left()
	if n != 5 && n != 6 && n != 10 && n < 14 || n > 14 && (n-14)%4 != 0 {
		return nil, lengthError(TagLOOP, n)
	}
	r := &LOOP{Nest: p.u8(), Count: p.u32(), Min: 1, Max: Infinite}
	if n >= 6 {
		r.Termination = p.u8()
	}
	if n >= 10 {
		r.Min = p.u32()
	}
	if n >= 14 {
		r.Max = p.u32()
	}
	for p.left() > 0 {
		r.Signals = append(r.Signals, p.u32())
	}
	switch {
	case r.Count > Infinite:
		return nil, fieldError(TagLOOP, "iteration count", r.Count)
	case r.Termination > TermExternal:
		return nil, fieldError(TagLOOP, "termination", r.Termination)
	case r.Min > Infinite || r.Max > Infinite:
		return nil, newError(TagLOOP, ErrBadField, "iteration range %d..%d", r.Min, r.Max)
	}
	return r, nil
}

func (r *LOOP) encode() ([]byte, error) {
	var w builder
	w.u8(r.Nest)
	w.u32(r.Count)
	n := 5
	switch {
	case len(r.Signals) > 0 || r.Max != Infinite:
		n = 14
	case r.Min != 1:
		n = 10
	case r.Termination != 0:
		n = 6
	}
	if n >= 6 {
		w.u8(r.Termination)
	}
	if n >= 10 {
		w.u32(r.Min)
	}
	if n >= 14 {
		w.u32(r.Max)
		for _, s := range r.Signals {
			w.u32(s)
		}
	}
	return w.b, nil
}

// ENDL closes the loop with the same nest level.
type ENDL struct {
	Nest uint8
}

func (*ENDL) Tag() Tag { return TagENDL }

func decodeENDL(p *parser, _ Context) (Record, error) {
	if p.left() != 1 {
		return nil, lengthError(TagENDL, p.left())
	}
	return &ENDL{Nest: p.u8()}, nil
}

func (r *ENDL) encode() ([]byte, error) { return []byte{r.Nest}, nil }

// Box is a clipping or boundary rectangle in MNG order.
type Box struct {
	Left, Right, Top, Bottom int32
}

func (p *parser) box() Box {
	return Box{Left: p.i32(), Right: p.i32(), Top: p.i32(), Bottom: p.i32()}
}

func (w *builder) box(b Box) {
	w.i32(b.Left)
	w.i32(b.Right)
	w.i32(b.Top)
	w.i32(b.Bottom)
}

// DEFI sets the current object id and its placement.
type DEFI struct {
	ID        uint16
	DoNotShow uint8
	Concrete  uint8
	X, Y      int32
	HasClip   bool
	Clip      Box
}

func (*DEFI) Tag() Tag { return TagDEFI }

func decodeDEFI(p *parser, _ Context) (Record, error) {
	n := p.left()
	switch n {
	case 2, 3, 4, 12, 28:
	default:
		return nil, lengthError(TagDEFI, n)
	}
	r := &DEFI{ID: p.u16()}
	if n >= 3 {
		r.DoNotShow = p.u8()
	}
	if n >= 4 {
		r.Concrete = p.u8()
	}
	if n >= 12 {
		r.X, r.Y = p.i32(), p.i32()
	}
	if n == 28 {
		r.HasClip = true
		r.Clip = p.box()
	}
	if r.DoNotShow > 1 {
		return nil, fieldError(TagDEFI, "do_not_show", r.DoNotShow)
	}
	if r.Concrete > 1 {
		return nil, fieldError(TagDEFI, "concrete", r.Concrete)
	}
	return r, nil
}

func (r *DEFI) encode() ([]byte, error) {
	n := 2
	switch {
	case r.HasClip:
		n = 28
	case r.X != 0 || r.Y != 0:
		n = 12
	case r.Concrete != 0:
		n = 4
	case r.DoNotShow != 0:
		n = 3
	}
	var w builder
	w.u16(r.ID)
	if n >= 3 {
		w.u8(r.DoNotShow)
	}
	if n >= 4 {
		w.u8(r.Concrete)
	}
	if n >= 12 {
		w.i32(r.X)
		w.i32(r.Y)
	}
	if n == 28 {
		w.box(r.Clip)
	}
	return w.b, nil
}

// BASI defines a basis object filled with a single color.
type BASI struct {
	Width, Height    uint32
	BitDepth         uint8
	ColorType        uint8
	Compression      uint8
	Filter           uint8
	Interlace        uint8
	Red, Green, Blue uint16
	Alpha            uint16
	Viewable         uint8
}

func (*BASI) Tag() Tag { return TagBASI }

func maxSample(depth uint8) uint16 {
	if depth >= 16 {
		return 0xffff
	}
	return 1<<depth - 1
}

func decodeBASI(p *parser, ctx Context) (Record, error) {
	n := p.left()
	switch n {
	case 13, 19, 21, 22:
	default:
		return nil, lengthError(TagBASI, n)
	}
	r := &BASI{
		Width:       p.u32(),
		Height:      p.u32(),
		BitDepth:    p.u8(),
		ColorType:   p.u8(),
		Compression: p.u8(),
		Filter:      p.u8(),
		Interlace:   p.u8(),
	}
	ctx.InMNG = true
	if err := ctx.checkSize(TagBASI, r.Width, r.Height); err != nil {
		return nil, err
	}
	if err := checkImageHeader(TagBASI, ctx, r.ColorType, r.BitDepth, r.Compression, r.Filter, r.Interlace); err != nil {
		return nil, err
	}
	r.Alpha = maxSample(r.BitDepth)
	if n >= 19 {
		r.Red, r.Green, r.Blue = p.u16(), p.u16(), p.u16()
	}
	if n >= 21 {
		r.Alpha = p.u16()
	}
	if n == 22 {
		r.Viewable = p.u8()
		if r.Viewable > 1 {
			return nil, fieldError(TagBASI, "viewable", r.Viewable)
		}
	}
	return r, nil
}

func (r *BASI) encode() ([]byte, error) {
	n := 13
	switch {
	case r.Viewable != 0:
		n = 22
	case r.Alpha != maxSample(r.BitDepth):
		n = 21
	case r.Red != 0 || r.Green != 0 || r.Blue != 0:
		n = 19
	}
	var w builder
	w.u32(r.Width)
	w.u32(r.Height)
	w.raw([]byte{r.BitDepth, r.ColorType, r.Compression, r.Filter, r.Interlace})
	if n >= 19 {
		w.u16(r.Red)
		w.u16(r.Green)
		w.u16(r.Blue)
	}
	if n >= 21 {
		w.u16(r.Alpha)
	}
	if n == 22 {
		w.u8(r.Viewable)
	}
	return w.b, nil
}

// CLON clone types.
const (
	CloneFull     = 0
	ClonePartial  = 1
	CloneRenumber = 2
)

// CLON creates a new object from an existing one.
type CLON struct {
	Source, Clone uint16
	Type          uint8
	DoNotShow     uint8
	Concrete      uint8
	HasLocation   bool
	LocDelta      uint8
	X, Y          int32
}

func (*CLON) Tag() Tag { return TagCLON }

func decodeCLON(p *parser, _ Context) (Record, error) {
	n := p.left()
	switch n {
	case 4, 5, 6, 7, 16:
	default:
		return nil, lengthError(TagCLON, n)
	}
	r := &CLON{Source: p.u16(), Clone: p.u16()}
	if n >= 5 {
		r.Type = p.u8()
	}
	if n >= 6 {
		r.DoNotShow = p.u8()
	}
	if n >= 7 {
		r.Concrete = p.u8()
	}
	if n == 16 {
		r.HasLocation = true
		r.LocDelta = p.u8()
		r.X, r.Y = p.i32(), p.i32()
	}
	switch {
	case r.Type > CloneRenumber:
		return nil, fieldError(TagCLON, "clone type", r.Type)
	case r.DoNotShow > 1:
		return nil, fieldError(TagCLON, "do_not_show", r.DoNotShow)
	case r.Concrete > 1:
		return nil, fieldError(TagCLON, "concrete", r.Concrete)
	case r.LocDelta > 1:
		return nil, fieldError(TagCLON, "delta", r.LocDelta)
	case r.Clone == 0:
		return nil, fieldError(TagCLON, "clone id", r.Clone)
	}
	return r, nil
}

func (r *CLON) encode() ([]byte, error) {
	n := 4
	switch {
	case r.HasLocation:
		n = 16
	case r.Concrete != 0:
		n = 7
	case r.DoNotShow != 0:
		n = 6
	case r.Type != 0:
		n = 5
	}
	var w builder
	w.u16(r.Source)
	w.u16(r.Clone)
	if n >= 5 {
		w.u8(r.Type)
	}
	if n >= 6 {
		w.u8(r.DoNotShow)
	}
	if n >= 7 {
		w.u8(r.Concrete)
	}
	if n == 16 {
		w.u8(r.LocDelta)
		w.i32(r.X)
		w.i32(r.Y)
	}
	return w.b, nil
}

// PASTSource is one source image pasted by PAST.
type PASTSource struct {
	Source         uint16
	Composition    uint8
	Orientation    uint8
	OffsetOrigin   uint8
	X, Y           int32
	BoundaryOrigin uint8
	Boundary       Box
}

// PAST composes source objects into a destination object.
type PAST struct {
	Dest        uint16
	TargetDelta uint8
	X, Y        int32
	Sources     []PASTSource
}

func (*PAST) Tag() Tag { return TagPAST }

const pastSourceLen = 30

func decodePAST(p *parser, _ Context) (Record, error) {
	n := p.left()
	if n < 11+pastSourceLen || (n-11)%pastSourceLen != 0 {
		return nil, newError(TagPAST, ErrEntryCount, "%d bytes", n)
	}
	r := &PAST{Dest: p.u16(), TargetDelta: p.u8(), X: p.i32(), Y: p.i32()}
	if r.TargetDelta > 1 {
		return nil, fieldError(TagPAST, "target delta", r.TargetDelta)
	}
	for p.left() > 0 {
		s := PASTSource{
			Source:       p.u16(),
			Composition:  p.u8(),
			Orientation:  p.u8(),
			OffsetOrigin: p.u8(),
			X:            p.i32(),
			Y:            p.i32(),
		}
		s.BoundaryOrigin = p.u8()
		s.Boundary = p.box()
		switch {
		case s.Composition > 2:
			return nil, fieldError(TagPAST, "composition", s.Composition)
		case s.Orientation > 8 || s.Orientation%2 != 0:
			return nil, fieldError(TagPAST, "orientation", s.Orientation)
		case s.OffsetOrigin > 1:
			return nil, fieldError(TagPAST, "offset origin", s.OffsetOrigin)
		case s.BoundaryOrigin > 1:
			return nil, fieldError(TagPAST, "boundary origin", s.BoundaryOrigin)
		}
		r.Sources = append(r.Sources, s)
	}
	return r, nil
}

func (r *PAST) encode() ([]byte, error) {
	if len(r.Sources) == 0 {
		return nil, newError(TagPAST, ErrEntryCount, "no sources")
	}
	var w builder
	w.u16(r.Dest)
	w.u8(r.TargetDelta)
	w.i32(r.X)
	w.i32(r.Y)
	for _, s := range r.Sources {
		w.u16(s.Source)
		w.raw([]byte{s.Composition, s.Orientation, s.OffsetOrigin})
		w.i32(s.X)
		w.i32(s.Y)
		w.u8(s.BoundaryOrigin)
		w.box(s.Boundary)
	}
	return w.b, nil
}

// DISC discards objects. An empty list discards every discardable object.
type DISC struct {
	IDs []uint16
}

func (*DISC) Tag() Tag { return TagDISC }

func decodeDISC(p *parser, _ Context) (Record, error) {
	if p.left()%2 != 0 {
		return nil, newError(TagDISC, ErrEntryCount, "%d bytes", p.left())
	}
	r := &DISC{}
	for p.left() > 0 {
		r.IDs = append(r.IDs, p.u16())
	}
	return r, nil
}

func (r *DISC) encode() ([]byte, error) {
	var w builder
	for _, id := range r.IDs {
		w.u16(id)
	}
	return w.b, nil
}

// BACK sets the background color and optional background image.
type BACK struct {
	Red, Green, Blue uint16
	Mandatory        uint8
	Image            uint16
	Tile             uint8
}

func (*BACK) Tag() Tag { return TagBACK }

func decodeBACK(p *parser, _ Context) (Record, error) {
	n := p.left()
	switch n {
	case 6, 7, 9, 10:
	default:
		return nil, lengthError(TagBACK, n)
	}
	r := &BACK{Red: p.u16(), Green: p.u16(), Blue: p.u16()}
	if n >= 7 {
		r.Mandatory = p.u8()
	}
	if n >= 9 {
		r.Image = p.u16()
	}
	if n == 10 {
		r.Tile = p.u8()
	}
	if r.Mandatory > 3 {
		return nil, fieldError(TagBACK, "mandatory", r.Mandatory)
	}
	if r.Tile > 1 {
		return nil, fieldError(TagBACK, "tile", r.Tile)
	}
	return r, nil
}

func (r *BACK) encode() ([]byte, error) {
	n := 6
	switch {
	case r.Tile != 0:
		n = 10
	case r.Image != 0:
		n = 9
	case r.Mandatory != 0:
		n = 7
	}
	var w builder
	w.u16(r.Red)
	w.u16(r.Green)
	w.u16(r.Blue)
	if n >= 7 {
		w.u8(r.Mandatory)
	}
	if n >= 9 {
		w.u16(r.Image)
	}
	if n == 10 {
		w.u8(r.Tile)
	}
	return w.b, nil
}

// MOVE relocates a range of objects.
type MOVE struct {
	First, Last uint16
	Type        uint8
	X, Y        int32
}

func (*MOVE) Tag() Tag { return TagMOVE }

func decodeMOVE(p *parser, _ Context) (Record, error) {
	if p.left() != 13 {
		return nil, lengthError(TagMOVE, p.left())
	}
	r := &MOVE{First: p.u16(), Last: p.u16(), Type: p.u8(), X: p.i32(), Y: p.i32()}
	if r.Type > 1 {
		return nil, fieldError(TagMOVE, "type", r.Type)
	}
	return r, nil
}

func (r *MOVE) encode() ([]byte, error) {
	var w builder
	w.u16(r.First)
	w.u16(r.Last)
	w.u8(r.Type)
	w.i32(r.X)
	w.i32(r.Y)
	return w.b, nil
}

// CLIP sets the clipping box of a range of objects.
type CLIP struct {
	First, Last uint16
	Type        uint8
	Box         Box
}

func (*CLIP) Tag() Tag { return TagCLIP }

func decodeCLIP(p *parser, _ Context) (Record, error) {
	if p.left() != 21 {
		return nil, lengthError(TagCLIP, p.left())
	}
	r := &CLIP{First: p.u16(), Last: p.u16(), Type: p.u8(), Box: p.box()}
	if r.Type > 1 {
		return nil, fieldError(TagCLIP, "type", r.Type)
	}
	return r, nil
}

func (r *CLIP) encode() ([]byte, error) {
	var w builder
	w.u16(r.First)
	w.u16(r.Last)
	w.u8(r.Type)
	w.box(r.Box)
	return w.b, nil
}

// SHOW displays or toggles a range of objects.
type SHOW struct {
	First, Last uint16
	Mode        uint8
}

func (*SHOW) Tag() Tag { return TagSHOW }

func decodeSHOW(p *parser, _ Context) (Record, error) {
	n := p.left()
	r := &SHOW{First: 1, Last: 0xffff}
	switch n {
	case 0:
		return r, nil
	case 2, 4, 5:
	default:
		return nil, lengthError(TagSHOW, n)
	}
	r.First = p.u16()
	r.Last = r.First
	if n >= 4 {
		r.Last = p.u16()
	}
	if n == 5 {
		r.Mode = p.u8()
	}
	if r.Mode > 7 {
		return nil, fieldError(TagSHOW, "mode", r.Mode)
	}
	return r, nil
}

func (r *SHOW) encode() ([]byte, error) {
	if r.Mode == 0 && r.First == 1 && r.Last == 0xffff {
		return nil, nil
	}
	var w builder
	w.u16(r.First)
	switch {
	case r.Mode != 0:
		w.u16(r.Last)
		w.u8(r.Mode)
	case r.Last != r.First:
		w.u16(r.Last)
	}
	return w.b, nil
}

// TERM actions.
const (
	TermShowLast  = 0
	TermClear     = 1
	TermShowFirst = 2
	TermRepeat    = 3
)

// TERM says what to do after the last frame.
type TERM struct {
	Action uint8
	After  uint8
	Delay  uint32
	Max    uint32
}

func (*TERM) Tag() Tag { return TagTERM }

func decodeTERM(p *parser, _ Context) (Record, error) {
	n := p.left()
	if n != 1 && n != 10 {
		return nil, lengthError(TagTERM, n)
	}
	r := &TERM{Action: p.u8()}
	if r.Action > TermRepeat {
		return nil, fieldError(TagTERM, "action", r.Action)
	}
	if n == 10 {
		r.After, r.Delay, r.Max = p.u8(), p.u32(), p.u32()
		if r.After > 2 {
			return nil, fieldError(TagTERM, "after action", r.After)
		}
	} else if r.Action == TermRepeat {
		return nil, lengthError(TagTERM, n)
	}
	return r, nil
}

func (r *TERM) encode() ([]byte, error) {
	var w builder
	w.u8(r.Action)
	if r.Action == TermRepeat || r.After != 0 || r.Delay != 0 || r.Max != 0 {
		w.u8(r.After)
		w.u32(r.Delay)
		w.u32(r.Max)
	}
	return w.b, nil
}

// SAVE entry types.
const (
	SaveSegment      = 0
	SaveSubframe     = 1
	SaveExportedImg  = 2
	SaveExportedText = 3
)

// SAVEEntry is one named point listed in SAVE. Offset, Time, Layer and
// Frame are present only for segment entries.
type SAVEEntry struct {
	Type   uint8
	Offset uint64
	Time   uint64
	Layer  uint32
	Frame  uint32
	Name   string
}

// SAVE marks the end of the prologue and lists seek points.
type SAVE struct {
	OffsetSize uint8
	Entries    []SAVEEntry
}

func (*SAVE) Tag() Tag { return TagSAVE }

func decodeSAVE(p *parser, _ Context) (Record, error) {
	if p.left() == 0 {
		return &SAVE{}, nil
	}
	r := &SAVE{OffsetSize: p.u8()}
	if r.OffsetSize != 4 && r.OffsetSize != 8 {
		return nil, fieldError(TagSAVE, "offset size", r.OffsetSize)
	}
	off := func() uint64 {
		if r.OffsetSize == 4 {
			return uint64(p.u32())
		}
		return uint64(p.u32())<<32 | uint64(p.u32())
	}
	for p.left() > 0 {
		e := SAVEEntry{Type: p.u8()}
		if e.Type > SaveExportedText {
			return nil, fieldError(TagSAVE, "entry type", e.Type)
		}
		if e.Type == SaveSegment {
			if p.left() < 2*int(r.OffsetSize)+8 {
				return nil, newError(TagSAVE, ErrEntryCount, "truncated segment entry")
			}
			e.Offset, e.Time = off(), off()
			e.Layer, e.Frame = p.u32(), p.u32()
		}
		name, _ := p.field()
		var err error
		if e.Name, err = keyword(TagSAVE, "name", name, true); err != nil {
			return nil, err
		}
		r.Entries = append(r.Entries, e)
	}
	return r, nil
}

func (r *SAVE) encode() ([]byte, error) {
	if r.OffsetSize == 0 && len(r.Entries) == 0 {
		return nil, nil
	}
	if r.OffsetSize != 4 && r.OffsetSize != 8 {
		return nil, fieldError(TagSAVE, "offset size", r.OffsetSize)
	}
	var w builder
	w.u8(r.OffsetSize)
	for i, e := range r.Entries {
		if i > 0 {
			w.u8(0)
		}
		w.u8(e.Type)
		if e.Type == SaveSegment {
			if r.OffsetSize == 4 {
				w.u32(uint32(e.Offset))
				w.u32(uint32(e.Time))
			} else {
				w.u32(uint32(e.Offset >> 32))
				w.u32(uint32(e.Offset))
				w.u32(uint32(e.Time >> 32))
				w.u32(uint32(e.Time))
			}
			w.u32(e.Layer)
			w.u32(e.Frame)
		}
		name, err := checkKeyword(TagSAVE, "name", e.Name, true)
		if err != nil {
			return nil, err
		}
		w.raw(name)
	}
	return w.b, nil
}

// SEEK marks a named seek point.
type SEEK struct {
	Name string
}

func (*SEEK) Tag() Tag { return TagSEEK }

func decodeSEEK(p *parser, _ Context) (Record, error) {
	name, err := keyword(TagSEEK, "name", p.rest(), true)
	if err != nil {
		return nil, err
	}
	return &SEEK{Name: name}, nil
}

func (r *SEEK) encode() ([]byte, error) {
	return checkKeyword(TagSEEK, "name", r.Name, true)
}

// EXPI names an exported snapshot of an object.
type EXPI struct {
	Snapshot uint16
	Name     string
}

func (*EXPI) Tag() Tag { return TagEXPI }

func decodeEXPI(p *parser, _ Context) (Record, error) {
	if p.left() < 3 {
		return nil, lengthError(TagEXPI, p.left())
	}
	r := &EXPI{Snapshot: p.u16()}
	var err error
	if r.Name, err = keyword(TagEXPI, "name", p.rest(), false); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *EXPI) encode() ([]byte, error) {
	name, err := checkKeyword(TagEXPI, "name", r.Name, false)
	if err != nil {
		return nil, err
	}
	var w builder
	w.u16(r.Snapshot)
	w.raw(name)
	return w.b, nil
}

// FPRI sets the priority of subsequent frames.
type FPRI struct {
	Delta    uint8
	Priority uint8
}

func (*FPRI) Tag() Tag { return TagFPRI }

func decodeFPRI(p *parser, _ Context) (Record, error) {
	if p.left() != 2 {
		return nil, lengthError(TagFPRI, p.left())
	}
	r := &FPRI{Delta: p.u8(), Priority: p.u8()}
	if r.Delta > 1 {
		return nil, fieldError(TagFPRI, "delta", r.Delta)
	}
	return r, nil
}

func (r *FPRI) encode() ([]byte, error) { return []byte{r.Delta, r.Priority}, nil }

// NEED lists the features a decoder must support.
type NEED struct {
	Keywords []string
}

func (*NEED) Tag() Tag { return TagNEED }

func decodeNEED(p *parser, _ Context) (Record, error) {
	if p.left() == 0 {
		return nil, lengthError(TagNEED, 0)
	}
	r := &NEED{}
	for _, k := range splitNul(p.rest()) {
		s, err := keyword(TagNEED, "keyword", k, false)
		if err != nil {
			return nil, err
		}
		r.Keywords = append(r.Keywords, s)
	}
	return r, nil
}

func (r *NEED) encode() ([]byte, error) {
	if len(r.Keywords) == 0 {
		return nil, newError(TagNEED, ErrEntryCount, "no keywords")
	}
	var w builder
	for i, k := range r.Keywords {
		if i > 0 {
			w.u8(0)
		}
		b, err := checkKeyword(TagNEED, "keyword", k, false)
		if err != nil {
			return nil, err
		}
		w.raw(b)
	}
	return w.b, nil
}

// PHYG is the global physical pixel size.
type PHYG struct {
	Empty bool
	X, Y  uint32
	Unit  uint8
}

func (*PHYG) Tag() Tag { return TagPHYG }

func decodePHYG(p *parser, ctx Context) (Record, error) {
	r, err := decodePhysical(TagPHYG, p, ctx)
	if err != nil {
		return nil, err
	}
	g := PHYG(r)
	return &g, nil
}

func (r *PHYG) encode() ([]byte, error) {
	return (*PHYS)(r).encode()
}
