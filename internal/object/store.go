package object

import (
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"slices"

	"github.com/gogpu/mng/internal/image"
)

// CloneKind selects how Clone treats the source pixels.
type CloneKind uint8

const (
	// CloneFull copies the pixels.
	CloneFull CloneKind = iota
	// ClonePartial shares the pixel buffer; deltas applied to either
	// object are seen by both.
	ClonePartial
	// CloneRenumber moves the source to the new id.
	CloneRenumber
)

// Store owns the objects of one stream and its record queue. It is not safe
// for concurrent use.
type Store struct {
	objects map[uint16]*Object
	saved   map[uint16]Object
	queue   []Record
	log     *slog.Logger
}

// NewStore creates an empty store. A nil logger discards output.
func NewStore(log *slog.Logger) *Store {
	if log == nil {
		log = slog.New(discard{})
	}
	return &Store{objects: make(map[uint16]*Object), log: log}
}

// Create defines object id with the given pixels, replacing any previous
// unfrozen object with that id.
func (s *Store) Create(id uint16, buf *image.ImageBuf, a Attrs) (*Object, error) {
	if old, ok := s.objects[id]; ok && old.Frozen {
		return nil, fmt.Errorf("%w: %d", ErrFrozen, id)
	}
	o := &Object{
		ID:         id,
		Buf:        buf,
		Palette:    a.Palette,
		Key:        a.Key,
		Profile:    a.Profile,
		Interlaced: a.Interlaced,
		Visible:    a.Visible,
		Viewable:   a.Viewable,
		Concrete:   a.Concrete,
		X:          a.X,
		Y:          a.Y,
		Clip:       a.Clip,
		HasClip:    a.HasClip,
	}
	s.objects[id] = o
	s.log.Debug("object created", "id", id, "format", buf.Format().String(),
		"width", buf.Width(), "height", buf.Height())
	return o, nil
}

// Get returns object id.
func (s *Store) Get(id uint16) (*Object, error) {
	o, ok := s.objects[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownObject, id)
	}
	return o, nil
}

// Exists reports whether object id is defined.
func (s *Store) Exists(id uint16) bool {
	_, ok := s.objects[id]
	return ok
}

// Count returns the number of defined objects.
func (s *Store) Count() int { return len(s.objects) }

// IDs returns the defined object ids in ascending order.
func (s *Store) IDs() []uint16 {
	return slices.Sorted(maps.Keys(s.objects))
}

// Objects yields the defined objects in ascending id order.
func (s *Store) Objects() iter.Seq2[uint16, *Object] {
	return func(yield func(uint16, *Object) bool) {
		for _, id := range s.IDs() {
			if !yield(id, s.objects[id]) {
				return
			}
		}
	}
}

// Range yields the defined objects with first <= id <= last in ascending
// order.
func (s *Store) Range(first, last uint16) iter.Seq2[uint16, *Object] {
	return func(yield func(uint16, *Object) bool) {
		for id, o := range s.Objects() {
			if id < first || id > last {
				continue
			}
			if !yield(id, o) {
				return
			}
		}
	}
}

// Clone creates object dst from object src.
func (s *Store) Clone(src, dst uint16, kind CloneKind) (*Object, error) {
	o, err := s.Get(src)
	if err != nil {
		return nil, err
	}
	if src == dst {
		return nil, fmt.Errorf("object: clone %d onto itself", src)
	}
	if old, ok := s.objects[dst]; ok && old.Frozen {
		return nil, fmt.Errorf("%w: %d", ErrFrozen, dst)
	}
	var c *Object
	switch kind {
	case CloneFull:
		c = o.clone(false)
	case ClonePartial:
		// Frozen pixels must never change, so they are not shared.
		c = o.clone(!o.Frozen)
	case CloneRenumber:
		if o.Frozen {
			return nil, fmt.Errorf("%w: %d", ErrFrozen, src)
		}
		delete(s.objects, src)
		c = o
	default:
		return nil, fmt.Errorf("object: clone type %d", kind)
	}
	c.ID = dst
	s.objects[dst] = c
	return c, nil
}

// Discard removes the listed objects. With no ids it removes every
// unfrozen object except object 0. Frozen and unknown ids are skipped.
// It returns the number of objects removed.
func (s *Store) Discard(ids ...uint16) int {
	if len(ids) == 0 {
		ids = s.IDs()
		if len(ids) > 0 && ids[0] == 0 {
			ids = ids[1:]
		}
	}
	n := 0
	for _, id := range ids {
		o, ok := s.objects[id]
		if !ok {
			continue
		}
		if o.Frozen {
			s.log.Debug("frozen object not discarded", "id", id)
			continue
		}
		delete(s.objects, id)
		n++
	}
	return n
}

func (s *Store) mutable(id uint16) (*Object, error) {
	o, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if o.Frozen {
		return nil, fmt.Errorf("%w: %d", ErrFrozen, id)
	}
	return o, nil
}

// Promote converts object id to a higher color type and bit depth.
func (s *Store) Promote(id uint16, ct image.ColorType, depth uint8, fill image.Fill) error {
	o, err := s.mutable(id)
	if err != nil {
		return err
	}
	to, ok := image.FormatFor(ct, depth)
	if !ok {
		return fmt.Errorf("%w: color type %d depth %d", ErrBadPromotion, ct, depth)
	}
	from := o.Buf.Format()
	buf, err := image.Promote(o.Buf, to, fill, o.Expand())
	if err != nil {
		return err
	}
	o.Buf = buf
	switch {
	case to.HasAlpha():
		o.Key = image.ColorKey{}
	case o.Key.Valid:
		fd, td := from.BitDepth(), to.BitDepth()
		k := o.Key
		if from.ColorType() == image.ColorGray && ct == image.ColorRGB {
			k.R, k.G, k.B = k.Gray, k.Gray, k.Gray
		}
		k.Gray = image.ScaleSample(k.Gray, fd, td, fill)
		k.R = image.ScaleSample(k.R, fd, td, fill)
		k.G = image.ScaleSample(k.G, fd, td, fill)
		k.B = image.ScaleSample(k.B, fd, td, fill)
		o.Key = k
	}
	if from.IsIndexed() && !to.IsIndexed() {
		o.Palette = nil
	}
	s.log.Debug("object promoted", "id", id, "from", from.String(), "to", to.String())
	return nil
}

// Magnify replaces the pixels of object id with their magnification. A
// result larger than maxPixels (when non-zero) leaves the object unchanged.
func (s *Store) Magnify(id uint16, p image.MagnifyParams, maxPixels uint64) error {
	o, err := s.mutable(id)
	if err != nil {
		return err
	}
	buf, err := image.Magnify(o.Buf, p, maxPixels)
	if err != nil {
		return err
	}
	o.Buf = buf
	return nil
}

// Replace swaps the pixels of object id for buf, keeping its placement and
// visibility. The palette and color key are replaced as well.
func (s *Store) Replace(id uint16, buf *image.ImageBuf, pal *image.Palette, key image.ColorKey) error {
	o, err := s.mutable(id)
	if err != nil {
		return err
	}
	o.Buf = buf
	if pal != nil || !buf.Format().IsIndexed() {
		o.Palette = pal
	}
	o.Key = key
	return nil
}

// Freeze marks every current object frozen and records its placement so
// DropUnfrozen can restore it.
func (s *Store) Freeze() {
	s.saved = make(map[uint16]Object, len(s.objects))
	for id, o := range s.objects {
		o.Frozen = true
		s.saved[id] = *o
	}
}

// DropUnfrozen removes every object created after Freeze and restores the
// frozen objects to their state at Freeze.
func (s *Store) DropUnfrozen() {
	for id := range s.objects {
		if _, ok := s.saved[id]; !ok {
			delete(s.objects, id)
		}
	}
	for id, saved := range s.saved {
		o := saved
		s.objects[id] = &o
	}
}

// Reset removes every object, frozen or not. The record queue is kept.
func (s *Store) Reset() {
	clear(s.objects)
	s.saved = nil
}
