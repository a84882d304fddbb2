package object

import (
	"fmt"

	"github.com/gogpu/mng/chunk"
	"github.com/gogpu/mng/internal/image"
)

// DeltaSpec describes one pixel delta applied to a target object. The
// payload is Block, or the pixels of object Source when Block is nil.
type DeltaSpec struct {
	Target   uint16
	Source   uint16
	Block    *image.ImageBuf
	X, Y     int
	Op       image.DeltaOp
	Channels image.Channels
}

// DeltaMode maps a DHDR delta type to its operation and channel selector.
// ok is false for DeltaNoChange and unknown types.
func DeltaMode(deltaType uint8) (op image.DeltaOp, ch image.Channels, ok bool) {
	switch deltaType {
	case chunk.DeltaFull, chunk.DeltaBlockReplace:
		return image.OpReplace, image.ChannelsAll, true
	case chunk.DeltaBlockAdd:
		return image.OpAdd, image.ChannelsAll, true
	case chunk.DeltaBlockAlphaAdd:
		return image.OpAdd, image.ChannelsAlpha, true
	case chunk.DeltaBlockColorAdd:
		return image.OpAdd, image.ChannelsColor, true
	case chunk.DeltaBlockAlpha:
		return image.OpReplace, image.ChannelsAlpha, true
	case chunk.DeltaBlockColor:
		return image.OpReplace, image.ChannelsColor, true
	}
	return 0, 0, false
}

// ApplyDelta applies ds to its target object.
func (s *Store) ApplyDelta(ds DeltaSpec) error {
	o, err := s.mutable(ds.Target)
	if err != nil {
		return err
	}
	block := ds.Block
	if block == nil {
		src, err := s.Get(ds.Source)
		if err != nil {
			return err
		}
		block = src.Buf
	}
	if err := image.ApplyDelta(o.Buf, block, ds.X, ds.Y, ds.Op, ds.Channels); err != nil {
		return fmt.Errorf("object %d: %w", ds.Target, err)
	}
	s.log.Debug("delta applied", "target", ds.Target, "op", ds.Op.String(),
		"x", ds.X, "y", ds.Y, "width", block.Width(), "height", block.Height())
	return nil
}

// ApplyPalette applies a PPLT palette delta to object id. Entries past the
// current palette end are created as opaque black before the delta.
func (s *Store) ApplyPalette(id uint16, p *chunk.PPLT) error {
	o, err := s.mutable(id)
	if err != nil {
		return err
	}
	pal := o.Palette.Clone()
	if pal == nil {
		pal = &image.Palette{}
	}
	add := p.Type == chunk.PPLTDeltaRGB || p.Type == chunk.PPLTDeltaA || p.Type == chunk.PPLTDeltaRGBA
	size := p.EntrySize()
	for _, g := range p.Groups {
		for i := int(g.First); i <= int(g.Last); i++ {
			for len(pal.RGB) <= i {
				pal.RGB = append(pal.RGB, [3]uint8{})
			}
			v := g.Samples[(i-int(g.First))*size:][:size]
			if size != 1 {
				for c := range 3 {
					pal.RGB[i][c] = combine(pal.RGB[i][c], v[c], add)
				}
			}
			if size == 3 {
				continue
			}
			for len(pal.Alpha) <= i {
				pal.Alpha = append(pal.Alpha, 0xff)
			}
			pal.Alpha[i] = combine(pal.Alpha[i], v[size-1], add)
		}
	}
	o.Palette = pal
	return nil
}

func combine(old, v uint8, add bool) uint8 {
	if add {
		return old + v
	}
	return v
}

// SetKey replaces the color key of object id.
func (s *Store) SetKey(id uint16, k image.ColorKey) error {
	o, err := s.mutable(id)
	if err != nil {
		return err
	}
	o.Key = k
	return nil
}
