package display

import (
	"fmt"
	"slices"

	"github.com/gogpu/mng/chunk"
	"github.com/gogpu/mng/internal/blend"
	"github.com/gogpu/mng/internal/image"
	"github.com/gogpu/mng/internal/object"
)

func (s *Scheduler) newCanvas(width, height int) error {
	f := image.FormatRGBA8
	if s.cfg.Depth == 16 {
		f = image.FormatRGBA16
	}
	if err := image.CheckSize(width, height, f, s.cfg.MaxPixels); err != nil {
		return fmt.Errorf("display: canvas: %w", err)
	}
	c, err := image.NewImageBuf(width, height, f)
	if err != nil {
		return fmt.Errorf("display: canvas: %w", err)
	}
	s.canvas = c
	s.phase = PhaseRunning
	s.log.Debug("canvas created", "width", width, "height", height, "format", f.String())
	return nil
}

// layer draws o onto the canvas. In framing modes 1 and 3 every layer
// completes a frame.
func (s *Scheduler) layer(o *object.Object) (Step, bool, error) {
	if s.canvas == nil {
		if s.header == nil {
			s.header = &chunk.MHDR{Width: uint32(o.Buf.Width()), Height: uint32(o.Buf.Height())}
		}
		w, h := int(s.header.Width), int(s.header.Height)
		if w == 0 || h == 0 {
			w, h = o.Buf.Width(), o.Buf.Height()
		}
		if err := s.newCanvas(w, h); err != nil {
			return Step{}, false, err
		}
	}
	if s.needBackground() {
		s.paintBackground(s.frameClip())
	}
	if err := s.draw(o); err != nil {
		s.fail(0, o.ID, err)
		return Step{}, false, nil
	}
	s.state.Layer++
	s.layers++
	if m := s.defaults.mode; m == 1 || m == 3 {
		return s.emitFrame(), true, nil
	}
	return Step{}, false, nil
}

func (s *Scheduler) needBackground() bool {
	switch {
	case !s.painted:
		return true
	case s.defaults.mode == 3:
		return true
	case s.defaults.mode == 4:
		return s.layers == 0
	}
	return false
}

// paintBackground fills clip with the background color and draws the
// background image over it.
func (s *Scheduler) paintBackground(clip image.Rect) {
	s.painted = true
	if clip.Empty() {
		return
	}
	bg := s.defaults.bg
	if s.cfg.Depth == 8 {
		for i := range bg {
			bg[i] >>= 8
		}
	}
	fill, err := image.NewImageBuf(clip.Dx(), clip.Dy(), s.canvas.Format())
	if err != nil {
		s.fail(chunk.TagBACK, 0, err)
		return
	}
	fill.Fill(bg[:]...)
	if _, err := blend.Composite(s.canvas, fill, clip.MinX, clip.MinY, clip, blend.ModeReplace, false); err != nil {
		s.fail(chunk.TagBACK, 0, err)
		return
	}
	s.dirty = s.dirty.Union(clip)

	if s.defaults.bgImage == 0 {
		return
	}
	o, err := s.store.Get(s.defaults.bgImage)
	if err != nil {
		s.fail(chunk.TagBACK, s.defaults.bgImage, err)
		return
	}
	src := o.Buf.ToRGBA(s.cfg.Depth, o.Expand())
	x, y := 0, 0
	if s.defaults.bgTile {
		b := s.canvas.Bounds()
		if src, x, y, err = tile(src, o.X, o.Y, b.Dx(), b.Dy()); err != nil {
			s.fail(chunk.TagBACK, s.defaults.bgImage, err)
			return
		}
	}
	if _, err := blend.Composite(s.canvas, src, x, y, clip, blend.ModeReplace, s.cfg.Premultiplied); err != nil {
		s.fail(chunk.TagBACK, s.defaults.bgImage, err)
	}
}

// draw composites o over the canvas within its clip and the frame clip.
func (s *Scheduler) draw(o *object.Object) error {
	src := o.Buf.ToRGBA(s.cfg.Depth, o.Expand())
	if s.cfg.Color != nil {
		t, err := s.cfg.Color.NewTransform(o.Profile, s.cfg.Output)
		if err != nil {
			return err
		}
		if t != nil {
			for y := range src.Height() {
				t.TransformRow(src.Row(y), s.cfg.Depth)
			}
		}
	}
	clip := s.frameClip()
	if o.HasClip {
		clip = clip.Intersect(o.Clip)
	}
	r, err := blend.Composite(s.canvas, src, o.X, o.Y, clip, blend.ModeOver, s.cfg.Premultiplied)
	if err != nil {
		return err
	}
	s.dirty = s.dirty.Union(r)
	return nil
}

// frameClip returns the layer clipping box of the current frame.
func (s *Scheduler) frameClip() image.Rect {
	b := s.canvas.Bounds()
	switch {
	case s.framing.hasClip:
		return b.Intersect(s.framing.clip)
	case s.defaults.hasClip:
		return b.Intersect(s.defaults.clip)
	}
	return b
}

// emitFrame completes the current frame and hands it to the host.
func (s *Scheduler) emitFrame() Step {
	d := s.defaults.delay
	if s.framing.hasDelay {
		d = s.framing.delay
	}
	s.framing = framing{}
	s.state.Frame++
	s.state.Clock += uint64(d)
	st := Step{Status: StatusFrame, Delay: d, Dirty: s.dirty, State: s.state}
	if s.host != nil && !s.dirty.Empty() {
		s.host.Refresh(s.canvas, s.dirty)
	}
	if s.first == nil {
		s.first = s.canvas.Clone()
	}
	s.dirty = image.Rect{}
	s.layers = 0
	return st
}

// closeFrame completes a frame that has layers but no boundary yet.
func (s *Scheduler) closeFrame() (Step, bool) {
	if s.layers == 0 || s.canvas == nil {
		return Step{}, false
	}
	return s.emitFrame(), true
}

// frame applies a FRAM. In modes 2 and 4 it first closes the frame built
// since the previous FRAM.
func (s *Scheduler) frame(r *chunk.FRAM) (Step, bool) {
	var (
		st Step
		ok bool
	)
	if m := s.defaults.mode; m == 2 || m == 4 {
		st, ok = s.closeFrame()
	}
	if r.Mode != 0 {
		s.defaults.mode = r.Mode
	}

	switch r.ChangeDelay {
	case chunk.ChangeNext:
		s.framing.delay, s.framing.hasDelay = r.Delay, true
	case chunk.ChangeDefault:
		s.defaults.delay = r.Delay
		s.framing.hasDelay = false
	}

	switch r.ChangeTimeout {
	case chunk.ChangeNext:
		s.state.Timeout = r.Timeout
	case chunk.ChangeDefault:
		s.state.Timeout = r.Timeout
		s.defaults.timeout = r.Timeout
	default:
		s.state.Timeout = s.defaults.timeout
	}

	if r.ChangeClip != chunk.ChangeNone {
		c := boxRect(r.Clip)
		if r.ClipDelta == 1 {
			base := s.currentClip()
			c = image.Rect{
				MinX: base.MinX + c.MinX, MinY: base.MinY + c.MinY,
				MaxX: base.MaxX + c.MaxX, MaxY: base.MaxY + c.MaxY,
			}
		}
		s.framing.clip, s.framing.hasClip = c, true
		if r.ChangeClip == chunk.ChangeDefault {
			s.defaults.clip, s.defaults.hasClip = c, true
		}
	}

	if r.ChangeSync != chunk.ChangeNone {
		s.state.SyncIDs = slices.Clone(r.SyncIDs)
	}
	return st, ok
}

func (s *Scheduler) currentClip() image.Rect {
	switch {
	case s.framing.hasClip:
		return s.framing.clip
	case s.defaults.hasClip:
		return s.defaults.clip
	case s.canvas != nil:
		return s.canvas.Bounds()
	}
	return image.Rect{}
}

// end handles MEND: the open frame is completed first, then TERM decides
// between stopping and repeating.
func (s *Scheduler) end() (Step, bool, error) {
	if st, ok := s.closeFrame(); ok {
		s.pos--
		return st, true, nil
	}
	action := uint8(chunk.TermShowLast)
	if s.term != nil {
		action = s.term.Action
	}
	if action == chunk.TermRepeat {
		s.termPlays++
		if s.term.Max == chunk.Infinite || s.termPlays < s.term.Max {
			s.restart()
			s.state.Clock += uint64(s.term.Delay)
			st := s.step(StatusYield)
			st.Delay = s.term.Delay
			return st, true, nil
		}
		action = s.term.After
	}
	s.finishWith(action)
	return s.step(StatusDone), true, nil
}

// restart replays the stream from the record after TERM.
func (s *Scheduler) restart() {
	s.store.Reset()
	s.pos = s.termPos
	s.loops = s.loops[:0]
	s.skip = -1
	s.pending = s.pending[:0]
	s.cur = define{visible: true}
	s.framing = framing{}
	s.defaults = defaults{mode: 1, delay: 1, bg: s.cfg.Background}
	s.saved = nil
	s.layers = 0
	s.painted = false
	s.cycle = nil
	s.log.Debug("animation repeated", "plays", s.termPlays)
}

// terminate ends playback of a stream that stopped without MEND.
func (s *Scheduler) terminate() {
	s.finishWith(chunk.TermShowLast)
}

func (s *Scheduler) finishWith(action uint8) {
	s.phase = PhaseTerminated
	if s.canvas == nil {
		return
	}
	switch action {
	case chunk.TermClear:
		s.paintBackground(s.canvas.Bounds())
	case chunk.TermShowFirst:
		if s.first == nil {
			return
		}
		copy(s.canvas.Data(), s.first.Data())
		s.dirty = s.canvas.Bounds()
	default:
		return
	}
	if s.host != nil {
		s.host.Refresh(s.canvas, s.dirty)
	}
	s.dirty = image.Rect{}
}
