// Package object holds the image objects of an MNG stream and the queue of
// animation records that act on them.
//
// Object 0 is the current image of a PNG or JNG datastream (or of an
// embedded image without an object id); ids 1..65535 are addressable by
// MNG chunks.
package object

import (
	"errors"

	"github.com/gogpu/mng/cms"
	"github.com/gogpu/mng/internal/image"
)

// Errors returned by Store operations.
var (
	// ErrUnknownObject is returned for ids that were never defined or have
	// been discarded.
	ErrUnknownObject = errors.New("object: unknown object")

	// ErrBadPromotion is returned for promotions that would lose
	// information.
	ErrBadPromotion = image.ErrBadPromotion

	// ErrFrozen is returned when a frozen object would be replaced or
	// modified.
	ErrFrozen = errors.New("object: object is frozen")
)

// Object is one image object.
type Object struct {
	ID  uint16
	Buf *image.ImageBuf

	// Palette and Key are the PLTE/tRNS attributes needed to expand Buf.
	Palette *image.Palette
	Key     image.ColorKey
	Profile cms.Profile

	Interlaced bool

	// Visible is the do_not_show flag inverted; Viewable is false for
	// BASI objects that may only act as delta targets.
	Visible  bool
	Viewable bool
	Concrete bool
	Frozen   bool

	// X and Y place the object on the canvas; Clip limits what is drawn.
	X, Y    int
	Clip    image.Rect
	HasClip bool
}

// Attrs are the attributes given to a new object besides its pixels.
type Attrs struct {
	Palette    *image.Palette
	Key        image.ColorKey
	Profile    cms.Profile
	Interlaced bool
	Visible    bool
	Viewable   bool
	Concrete   bool
	X, Y       int
	Clip       image.Rect
	HasClip    bool
}

// Expand returns the attributes needed to convert the object to RGBA.
func (o *Object) Expand() image.Expand {
	return image.Expand{Palette: o.Palette, Key: o.Key}
}

// Format returns the pixel format of the object.
func (o *Object) Format() image.Format { return o.Buf.Format() }

// Bounds returns the canvas rectangle the object covers after placement
// and clipping.
func (o *Object) Bounds() image.Rect {
	r := o.Buf.Bounds().Translate(o.X, o.Y)
	if o.HasClip {
		r = r.Intersect(o.Clip)
	}
	return r
}

// Displayable reports whether the object should be drawn by SHOW and by
// the automatic display of new objects.
func (o *Object) Displayable() bool {
	return o.Visible && o.Viewable && o.Buf != nil
}

// clone returns a copy of o. Pixels are copied unless share is set.
func (o *Object) clone(share bool) *Object {
	c := *o
	c.Frozen = false
	if !share {
		c.Buf = o.Buf.Clone()
		c.Palette = o.Palette.Clone()
	}
	return &c
}
