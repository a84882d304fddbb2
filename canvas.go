package mng

import (
	"errors"

	"github.com/gogpu/mng/internal/display"
	"github.com/gogpu/mng/internal/image"
)

// Canvas receives canvas rows after each frame. Rows are RGBA8, or
// big-endian RGBA16 when Config.Depth is 16, and hold the full canvas
// width. The row slice is only valid during the call.
type Canvas interface {
	WriteRow(y int, row []byte)
}

// Refresher is implemented by canvases that want to know when a batch of
// rows is complete. Refresh is called after the rows of the changed area
// have been written.
type Refresher interface {
	Refresh(x, y, width, height int)
}

// CanvasFunc adapts a function to the Canvas interface.
type CanvasFunc func(y int, row []byte)

// WriteRow calls f(y, row).
func (f CanvasFunc) WriteRow(y int, row []byte) { f(y, row) }

// host connects the scheduler to the configured canvas and error handler.
type host struct {
	d *Decoder
}

var _ display.Host = host{}

func (h host) Refresh(c *image.ImageBuf, dirty image.Rect) {
	out := h.d.cfg.Canvas
	if out == nil || dirty.Empty() {
		return
	}
	for y := dirty.MinY; y < dirty.MaxY; y++ {
		out.WriteRow(y, c.Row(y))
	}
	if r, ok := out.(Refresher); ok {
		r.Refresh(dirty.MinX, dirty.MinY, dirty.Dx(), dirty.Dy())
	}
}

func (h host) Report(err error) {
	e := newError("display", SeverityStep, 0, -1, err)
	var se *display.StepError
	if errors.As(err, &se) {
		e.Tag = se.Tag
		e.Object, e.HasObject = se.Object, true
	}
	h.d.emit(e)
}
