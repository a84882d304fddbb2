package chunk

// FRAM change flags for delay, timeout, clipping and sync.
const (
	ChangeNone    = 0
	ChangeNext    = 1 // next subframe only
	ChangeDefault = 2 // next subframe and default
)

// FRAM opens a new subframe and optionally changes framing parameters.
// A zero Change* field means the matching value is absent.
type FRAM struct {
	Mode          uint8
	Name          string
	ChangeDelay   uint8
	ChangeTimeout uint8
	ChangeClip    uint8
	ChangeSync    uint8
	Delay         uint32
	Timeout       uint32
	ClipDelta     uint8
	Clip          Box
	SyncIDs       []uint32
}

func (*FRAM) Tag() Tag { return TagFRAM }

func (r *FRAM) changes() bool {
	return r.ChangeDelay|r.ChangeTimeout|r.ChangeClip|r.ChangeSync != 0
}

func decodeFRAM(p *parser, _ Context) (Record, error) {
	r := &FRAM{}
	if p.left() == 0 {
		return r, nil
	}
	r.Mode = p.u8()
	if r.Mode > 4 {
		return nil, fieldError(TagFRAM, "framing mode", r.Mode)
	}
	name, more := p.field()
	var err error
	if r.Name, err = keyword(TagFRAM, "name", name, true); err != nil {
		return nil, err
	}
	if !more {
		return r, nil
	}
	if p.left() < 4 {
		return nil, newError(TagFRAM, ErrBadLength, "missing change flags")
	}
	r.ChangeDelay, r.ChangeTimeout, r.ChangeClip, r.ChangeSync = p.u8(), p.u8(), p.u8(), p.u8()
	switch {
	case r.ChangeDelay > ChangeDefault:
		return nil, fieldError(TagFRAM, "change delay", r.ChangeDelay)
	case r.ChangeTimeout > 8:
		return nil, fieldError(TagFRAM, "change timeout", r.ChangeTimeout)
	case r.ChangeClip > ChangeDefault:
		return nil, fieldError(TagFRAM, "change clipping", r.ChangeClip)
	case r.ChangeSync > ChangeDefault:
		return nil, fieldError(TagFRAM, "change sync", r.ChangeSync)
	}
	if r.ChangeDelay != 0 {
		r.Delay = p.u32()
	}
	if r.ChangeTimeout != 0 {
		r.Timeout = p.u32()
	}
	if r.ChangeClip != 0 {
		r.ClipDelta = p.u8()
		r.Clip = p.box()
		if r.ClipDelta > 1 {
			return nil, fieldError(TagFRAM, "clip delta", r.ClipDelta)
		}
	}
	if p.short {
		return nil, newError(TagFRAM, ErrBadLength, "truncated change fields")
	}
	if r.ChangeSync != 0 {
		if p.left()%4 != 0 {
			return nil, newError(TagFRAM, ErrEntryCount, "%d sync bytes", p.left())
		}
		for p.left() > 0 {
			r.SyncIDs = append(r.SyncIDs, p.u32())
		}
	}
	return r, nil
}

func (r *FRAM) encode() ([]byte, error) {
	name, err := checkKeyword(TagFRAM, "name", r.Name, true)
	if err != nil {
		return nil, err
	}
	var w builder
	if !r.changes() {
		if r.Mode == 0 && len(name) == 0 {
			return nil, nil
		}
		w.u8(r.Mode)
		w.raw(name)
		return w.b, nil
	}
	w.u8(r.Mode)
	w.raw(name)
	w.u8(0)
	w.raw([]byte{r.ChangeDelay, r.ChangeTimeout, r.ChangeClip, r.ChangeSync})
	if r.ChangeDelay != 0 {
		w.u32(r.Delay)
	}
	if r.ChangeTimeout != 0 {
		w.u32(r.Timeout)
	}
	if r.ChangeClip != 0 {
		w.u8(r.ClipDelta)
		w.box(r.Clip)
	}
	if r.ChangeSync != 0 {
		for _, id := range r.SyncIDs {
			w.u32(id)
		}
	}
	return w.b, nil
}
