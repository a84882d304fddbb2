package chunk

// evNT mask types selecting which fields follow the event type.
const (
	EventMaskNone      = 0
	EventMaskBox       = 1
	EventMaskObject    = 2
	EventMaskBoxName   = 3
	EventMaskObjName   = 4
	EventMaskBoxObject = 5
)

// EventEntry binds a user event to a seek point name.
type EventEntry struct {
	Type   uint8
	Mask   uint8
	Box    Box
	Object uint16
	Name   string
}

func (e EventEntry) hasBox() bool {
	return e.Mask == EventMaskBox || e.Mask == EventMaskBoxName || e.Mask == EventMaskBoxObject
}

func (e EventEntry) hasObject() bool {
	return e.Mask == EventMaskObject || e.Mask == EventMaskObjName || e.Mask == EventMaskBoxObject
}

// EVNT lists user event bindings.
type EVNT struct {
	Entries []EventEntry
}

func (*EVNT) Tag() Tag { return TagEVNT }

func decodeEVNT(p *parser, _ Context) (Record, error) {
	r := &EVNT{}
	for p.left() > 0 {
		if p.left() < 2 {
			return nil, newError(TagEVNT, ErrEntryCount, "truncated entry")
		}
		e := EventEntry{Type: p.u8(), Mask: p.u8()}
		if e.Type > 7 {
			return nil, fieldError(TagEVNT, "event type", e.Type)
		}
		if e.Mask > EventMaskBoxObject {
			return nil, fieldError(TagEVNT, "mask type", e.Mask)
		}
		need := 0
		if e.hasBox() {
			need += 16
		}
		if e.hasObject() {
			need += 2
		}
		if p.left() < need {
			return nil, newError(TagEVNT, ErrEntryCount, "entry needs %d bytes", need)
		}
		if e.hasBox() {
			e.Box = p.box()
		}
		if e.hasObject() {
			e.Object = p.u16()
		}
		name, _ := p.field()
		var err error
		if e.Name, err = keyword(TagEVNT, "name", name, true); err != nil {
			return nil, err
		}
		r.Entries = append(r.Entries, e)
	}
	return r, nil
}

func (r *EVNT) encode() ([]byte, error) {
	var w builder
	for i, e := range r.Entries {
		if i > 0 {
			w.u8(0)
		}
		w.u8(e.Type)
		w.u8(e.Mask)
		if e.hasBox() {
			w.box(e.Box)
		}
		if e.hasObject() {
			w.u16(e.Object)
		}
		name, err := checkKeyword(TagEVNT, "name", e.Name, true)
		if err != nil {
			return nil, err
		}
		w.raw(name)
	}
	return w.b, nil
}

// MPNGFrame is one frame of a multiple-image PNG: a source rectangle, its
// offset on the output and its duration.
type MPNGFrame struct {
	X, Y             uint32
	Width, Height    uint32
	XOffset, YOffset int32
	Ticks            uint16
}

// MPNG describes a frame list cut from a single PNG image.
type MPNG struct {
	FrameWidth, FrameHeight uint32
	NumPlays                uint16
	TickRate                uint16
	Frames                  []MPNGFrame
}

func (*MPNG) Tag() Tag { return TagMPNG }

const mpngFrameLen = 26

func decodeMPNG(p *parser, ctx Context) (Record, error) {
	if p.left() < 14 {
		return nil, lengthError(TagMPNG, p.left())
	}
	r := &MPNG{FrameWidth: p.u32(), FrameHeight: p.u32(), NumPlays: p.u16(), TickRate: p.u16()}
	if m := p.u8(); m != 0 {
		return nil, fieldError(TagMPNG, "compression", m)
	}
	if r.TickRate == 0 {
		return nil, fieldError(TagMPNG, "tick rate", r.TickRate)
	}
	frames, err := inflate(ctx, TagMPNG, p.rest())
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 || len(frames)%mpngFrameLen != 0 {
		return nil, newError(TagMPNG, ErrEntryCount, "%d frame bytes", len(frames))
	}
	fp := &parser{data: frames}
	for fp.left() > 0 {
		r.Frames = append(r.Frames, MPNGFrame{
			X: fp.u32(), Y: fp.u32(),
			Width: fp.u32(), Height: fp.u32(),
			XOffset: fp.i32(), YOffset: fp.i32(),
			Ticks: fp.u16(),
		})
	}
	return r, nil
}

func (r *MPNG) encode() ([]byte, error) {
	if len(r.Frames) == 0 {
		return nil, newError(TagMPNG, ErrEntryCount, "no frames")
	}
	var fw builder
	for _, f := range r.Frames {
		fw.u32(f.X)
		fw.u32(f.Y)
		fw.u32(f.Width)
		fw.u32(f.Height)
		fw.i32(f.XOffset)
		fw.i32(f.YOffset)
		fw.u16(f.Ticks)
	}
	z, err := deflate(TagMPNG, fw.b)
	if err != nil {
		return nil, err
	}
	var w builder
	w.u32(r.FrameWidth)
	w.u32(r.FrameHeight)
	w.u16(r.NumPlays)
	w.u16(r.TickRate)
	w.u8(0)
	w.raw(z)
	return w.b, nil
}
