package display

import (
	"fmt"
	"slices"

	"github.com/gogpu/mng/chunk"
	"github.com/gogpu/mng/internal/blend"
	"github.com/gogpu/mng/internal/image"
	"github.com/gogpu/mng/internal/object"
)

// process handles one queued record. ok reports that st must be returned
// to the caller of Advance.
func (s *Scheduler) process(rec object.Record) (st Step, ok bool, err error) {
	if s.skip >= 0 {
		if c, isChunk := rec.(*object.Chunk); isChunk {
			if e, isEnd := c.Rec.(*chunk.ENDL); isEnd && int(e.Nest) == s.skip {
				s.skip = -1
			}
		}
		return Step{}, false, nil
	}
	switch r := rec.(type) {
	case *object.Image:
		return s.defineImage(r)
	case *object.Delta:
		return s.delta(r)
	case *object.Chunk:
		return s.control(r.Rec)
	}
	return Step{}, false, nil
}

func (s *Scheduler) control(rec chunk.Record) (Step, bool, error) {
	switch r := rec.(type) {
	case *chunk.MHDR:
		h := *r
		s.header = &h
		if r.Width > 0 && r.Height > 0 {
			if err := s.newCanvas(int(r.Width), int(r.Height)); err != nil {
				return Step{}, false, err
			}
		}
	case *chunk.MEND:
		return s.end()
	case *chunk.LOOP:
		s.startLoop(r)
	case *chunk.ENDL:
		st, ok := s.endLoop(r)
		return st, ok, nil
	case *chunk.DEFI:
		s.cur = define{
			id:       r.ID,
			visible:  r.DoNotShow == 0,
			concrete: r.Concrete == 1,
			x:        int(r.X),
			y:        int(r.Y),
			clip:     boxRect(r.Clip),
			hasClip:  r.HasClip,
		}
	case *chunk.CLON:
		return s.clone(r)
	case *chunk.PAST:
		if err := s.past(r); err != nil {
			s.fail(chunk.TagPAST, r.Dest, err)
		}
	case *chunk.DISC:
		n := s.store.Discard(r.IDs...)
		s.log.Debug("objects discarded", "count", n)
	case *chunk.BACK:
		s.defaults.bg = [4]uint16{r.Red, r.Green, r.Blue, 0xffff}
		s.defaults.bgImage = r.Image
		s.defaults.bgTile = r.Tile == 1
		s.defaults.bgSet = true
	case *chunk.BKGD:
		if s.defaults.bgSet {
			break
		}
		switch r.Kind {
		case chunk.BKGDGray:
			s.defaults.bg = [4]uint16{r.Gray, r.Gray, r.Gray, 0xffff}
		case chunk.BKGDRGB:
			s.defaults.bg = [4]uint16{r.Red, r.Green, r.Blue, 0xffff}
		}
	case *chunk.FRAM:
		st, ok := s.frame(r)
		return st, ok, nil
	case *chunk.MOVE:
		for _, o := range s.store.Range(r.First, r.Last) {
			if r.Type == 0 {
				o.X, o.Y = int(r.X), int(r.Y)
			} else {
				o.X += int(r.X)
				o.Y += int(r.Y)
			}
		}
	case *chunk.CLIP:
		for _, o := range s.store.Range(r.First, r.Last) {
			b := boxRect(r.Box)
			if r.Type == 1 {
				b = image.Rect{
					MinX: o.Clip.MinX + b.MinX, MinY: o.Clip.MinY + b.MinY,
					MaxX: o.Clip.MaxX + b.MaxX, MaxY: o.Clip.MaxY + b.MaxY,
				}
			}
			o.Clip, o.HasClip = b, true
		}
	case *chunk.SHOW:
		s.show(r)
	case *chunk.MAGN:
		s.magnify(r)
	case *chunk.TERM:
		t := *r
		s.term = &t
		s.termPos = s.pos
	case *chunk.SAVE:
		s.store.Freeze()
		d := s.defaults
		s.saved = &d
		s.log.Debug("segment saved", "objects", s.store.Count())
	case *chunk.SEEK:
		st, ok := s.closeFrame()
		s.seek(r.Name)
		return st, ok, nil
	case *chunk.EXPI:
		s.log.Debug("exported image", "snapshot", r.Snapshot, "name", r.Name)
	case *chunk.FPRI:
		if r.Delta == 0 {
			s.state.Priority = r.Priority
		} else {
			s.state.Priority += r.Priority
		}
	case *chunk.PPLT:
		if err := s.store.ApplyPalette(s.cur.id, r); err != nil {
			s.fail(chunk.TagPPLT, s.cur.id, err)
		}
	case *chunk.EVNT:
		s.log.Debug("event list", "entries", len(r.Entries))
	}
	return Step{}, false, nil
}

// defineImage binds a decoded image to its object and displays it.
func (s *Scheduler) defineImage(img *object.Image) (Step, bool, error) {
	a := object.Attrs{Visible: true}
	if img.ID == s.cur.id {
		a = object.Attrs{
			Visible:  s.cur.visible,
			Concrete: s.cur.concrete,
			X:        s.cur.x,
			Y:        s.cur.y,
			Clip:     s.cur.clip,
			HasClip:  s.cur.hasClip,
		}
	}
	o, err := s.store.NewImage(img, a)
	if err != nil {
		s.fail(img.Source, img.ID, err)
		return Step{}, false, nil
	}
	if img.ID == 0 && s.defaults.hasMagnify {
		if err := s.store.Magnify(0, s.defaults.magnify, s.cfg.MaxPixels); err != nil {
			s.fail(chunk.TagMAGN, 0, err)
		}
	}
	if !o.Displayable() {
		return Step{}, false, nil
	}
	return s.layer(o)
}

func (s *Scheduler) delta(d *object.Delta) (Step, bool, error) {
	id := d.Header.Object
	if err := s.applyDelta(d); err != nil {
		s.fail(chunk.TagDHDR, id, err)
		return Step{}, false, nil
	}
	o, err := s.store.Get(id)
	if err != nil || !o.Displayable() {
		return Step{}, false, nil
	}
	return s.layer(o)
}

func (s *Scheduler) applyDelta(d *object.Delta) error {
	id := d.Header.Object
	if d.Promote != nil {
		p := d.Promote
		if err := s.store.Promote(id, image.ColorType(p.ColorType), p.BitDepth, image.Fill(p.Fill)); err != nil {
			return err
		}
	}
	for _, p := range d.Palette {
		if err := s.store.ApplyPalette(id, p); err != nil {
			return err
		}
	}
	if d.Key != nil {
		if err := s.store.SetKey(id, *d.Key); err != nil {
			return err
		}
	}
	block := d.Block
	if block == nil && d.Rows != nil {
		var err error
		if block, err = s.deltaBlock(d); err != nil {
			return err
		}
	}
	if block == nil {
		return nil
	}
	if d.Header.DeltaType == chunk.DeltaFull {
		o, err := s.store.Get(id)
		if err != nil {
			return err
		}
		if block == d.Block {
			block = block.Clone()
		}
		return s.store.Replace(id, block, o.Palette, o.Key)
	}
	op, ch, ok := object.DeltaMode(d.Header.DeltaType)
	if !ok {
		return nil
	}
	return s.store.ApplyDelta(object.DeltaSpec{
		Target:   id,
		Block:    block,
		X:        int(d.Header.X),
		Y:        int(d.Header.Y),
		Op:       op,
		Channels: ch,
	})
}

// deltaBlock decodes the pixel stream of d in the format its target
// needs. The queued rows are copied first because unfiltering works in
// place and the queue may be replayed.
func (s *Scheduler) deltaBlock(d *object.Delta) (*image.ImageBuf, error) {
	o, err := s.store.Get(d.Header.Object)
	if err != nil {
		return nil, err
	}
	w, h := d.Width, d.Height
	if w == 0 || h == 0 {
		w, h = o.Buf.Width(), o.Buf.Height()
	}
	f := o.Format()
	if d.Header.DeltaType == chunk.DeltaFull {
		if d.HasFormat {
			f = d.Format
		}
	} else {
		_, ch, ok := object.DeltaMode(d.Header.DeltaType)
		if !ok {
			return nil, nil
		}
		if f, err = image.BlockFormat(f, ch); err != nil {
			return nil, err
		}
		if d.HasFormat && d.Format != f {
			return nil, fmt.Errorf("%w: block is %v, target needs %v", image.ErrDeltaFormat, d.Format, f)
		}
	}
	b, err := image.NewImageBuf(w, h, f)
	if err != nil {
		return nil, err
	}
	if err := image.DecodeRows(b, slices.Clone(d.Rows), d.Interlaced, d.Method); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Scheduler) clone(r *chunk.CLON) (Step, bool, error) {
	o, err := s.store.Clone(r.Source, r.Clone, object.CloneKind(r.Type))
	if err != nil {
		s.fail(chunk.TagCLON, r.Clone, err)
		return Step{}, false, nil
	}
	o.Visible = r.DoNotShow == 0
	o.Concrete = r.Concrete == 1
	if r.HasLocation {
		if r.LocDelta == 0 {
			o.X, o.Y = int(r.X), int(r.Y)
		} else {
			o.X += int(r.X)
			o.Y += int(r.Y)
		}
	}
	if !o.Displayable() {
		return Step{}, false, nil
	}
	return s.layer(o)
}

// past composes the PAST sources into the destination object, promoting
// it to RGBA first. Nothing is displayed.
func (s *Scheduler) past(r *chunk.PAST) error {
	dst, err := s.store.Get(r.Dest)
	if err != nil {
		return err
	}
	if dst.Frozen {
		return fmt.Errorf("%w: %d", object.ErrFrozen, r.Dest)
	}
	if f := dst.Format(); f != image.FormatRGBA8 && f != image.FormatRGBA16 {
		depth := uint8(8)
		if f.BitDepth() == 16 {
			depth = 16
		}
		if err := s.store.Promote(r.Dest, image.ColorRGBA, depth, image.FillReplicate); err != nil {
			return err
		}
	}

	tx, ty := int(r.X), int(r.Y)
	if r.TargetDelta == 1 {
		tx += s.pastX
		ty += s.pastY
	}
	s.pastX, s.pastY = tx, ty

	depth := dst.Format().BitDepth()
	for _, src := range r.Sources {
		so, err := s.store.Get(src.Source)
		if err != nil {
			return err
		}
		buf := so.Buf.ToRGBA(depth, so.Expand())
		x, y := int(src.X), int(src.Y)
		if src.OffsetOrigin == 1 {
			x += tx
			y += ty
		}
		clip := dst.Buf.Bounds()
		if bound := boxRect(src.Boundary); !bound.Empty() {
			if src.BoundaryOrigin == 1 {
				bound = bound.Translate(tx, ty)
			}
			clip = clip.Intersect(bound)
		}
		if o := image.Orientation(src.Orientation); o == image.OrientTile {
			if buf, x, y, err = tile(buf, x, y, dst.Buf.Width(), dst.Buf.Height()); err != nil {
				return err
			}
		} else {
			buf = image.Flip(buf, o)
		}
		if _, err := blend.Composite(dst.Buf, buf, x, y, clip, blend.Mode(src.Composition), s.cfg.Premultiplied); err != nil {
			return fmt.Errorf("paste %d into %d: %w", src.Source, r.Dest, err)
		}
	}
	return nil
}

// tile repeats src across a width x height destination so that a copy
// starts at (x, y). It returns the tiled buffer and its origin.
func tile(src *image.ImageBuf, x, y, width, height int) (*image.ImageBuf, int, int, error) {
	sw, sh := src.Width(), src.Height()
	x0, y0 := x%sw, y%sh
	if x0 > 0 {
		x0 -= sw
	}
	if y0 > 0 {
		y0 -= sh
	}
	buf, err := image.Tile(src, width-x0, height-y0)
	if err != nil {
		return nil, 0, 0, err
	}
	return buf, x0, y0, nil
}

func (s *Scheduler) show(r *chunk.SHOW) {
	first, last := r.First, r.Last
	if last < first {
		last = first
	}
	switch r.Mode {
	case 6, 7:
		s.cycleShow(first, last, r.Mode == 6)
		return
	}
	for id, o := range s.store.Range(first, last) {
		switch r.Mode {
		case 0, 3:
			o.Visible = true
		case 1:
			o.Visible = false
		case 4, 5:
			o.Visible = !o.Visible
		}
		if (r.Mode == 0 || r.Mode == 2 || r.Mode == 4) && o.Displayable() {
			s.pending = append(s.pending, id)
		}
	}
}

// cycleShow makes the object after the previously cycled one visible and
// every other object in the range invisible.
func (s *Scheduler) cycleShow(first, last uint16, display bool) {
	var ids []uint16
	for id := range s.store.Range(first, last) {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return
	}
	if s.cycle == nil {
		s.cycle = make(map[[2]uint16]uint16)
	}
	key := [2]uint16{first, last}
	next := ids[0]
	if prev, ok := s.cycle[key]; ok {
		if i, _ := slices.BinarySearch(ids, prev+1); i < len(ids) {
			next = ids[i]
		}
	}
	s.cycle[key] = next
	for id, o := range s.store.Range(first, last) {
		o.Visible = id == next
	}
	if o, err := s.store.Get(next); display && err == nil && o.Displayable() {
		s.pending = append(s.pending, next)
	}
}

func (s *Scheduler) showPending(id uint16) (Step, bool) {
	o, err := s.store.Get(id)
	if err != nil || !o.Displayable() {
		return Step{}, false
	}
	st, ok, err := s.layer(o)
	if err != nil {
		s.fail(chunk.TagSHOW, id, err)
		return Step{}, false
	}
	return st, ok
}

func (s *Scheduler) magnify(r *chunk.MAGN) {
	p := image.MagnifyParams{
		XMethod: image.MagnifyMethod(r.XMethod),
		YMethod: image.MagnifyMethod(r.YMethod),
		MX:      int(r.MX),
		MY:      int(r.MY),
		ML:      int(r.ML),
		MR:      int(r.MR),
		MT:      int(r.MT),
		MB:      int(r.MB),
	}
	if r.First == 0 {
		s.defaults.magnify, s.defaults.hasMagnify = p, !p.Identity()
	}
	for id := range s.store.Range(max(r.First, 1), r.Last) {
		if err := s.store.Magnify(id, p, s.cfg.MaxPixels); err != nil {
			s.fail(chunk.TagMAGN, id, err)
		}
	}
}

// seek restores the state recorded by SAVE, dropping every object created
// since.
func (s *Scheduler) seek(name string) {
	if s.saved == nil {
		s.log.Debug("SEEK without SAVE", "name", name)
		return
	}
	s.store.DropUnfrozen()
	s.defaults = *s.saved
	s.framing = framing{}
	s.log.Debug("segment restored", "name", name, "objects", s.store.Count())
}

func boxRect(b chunk.Box) image.Rect {
	return image.Rect{MinX: int(b.Left), MinY: int(b.Top), MaxX: int(b.Right), MaxY: int(b.Bottom)}
}
