package mng

import (
	"errors"
	"fmt"
	stdimage "image"
	"io"
	"iter"
	"log/slog"
	"slices"
	"time"

	"github.com/gogpu/mng/chunk"
	"github.com/gogpu/mng/internal/display"
	"github.com/gogpu/mng/internal/image"
	"github.com/gogpu/mng/internal/object"
	"github.com/gogpu/mng/internal/reader"
)

// Status tells why Advance returned.
type Status uint8

const (
	// StatusFrame means a frame is complete and should stay visible for
	// Frame.Delay.
	StatusFrame = Status(display.StatusFrame)
	// StatusYield means a loop pass or a TERM repetition completed.
	StatusYield = Status(display.StatusYield)
	// StatusNeedData means more input is needed before playback can
	// continue.
	StatusNeedData = Status(display.StatusNeedData)
	// StatusPaused means playback is paused.
	StatusPaused = Status(display.StatusPaused)
	// StatusDone means playback has ended.
	StatusDone = Status(display.StatusDone)
)

func (s Status) String() string { return display.Status(s).String() }

// Frame is the result of one Advance call.
type Frame struct {
	Status Status

	// Delay is how long the frame stays visible, derived from Ticks and
	// the MHDR tick rate. It is zero when the rate is unknown.
	Delay time.Duration
	Ticks uint32

	// Index is the number of frames completed so far; Layer the number of
	// layers drawn.
	Index int
	Layer int

	// Clock is the play time in ticks.
	Clock uint64

	// Dirty is the canvas area changed by the frame.
	Dirty stdimage.Rectangle
}

// Position is the playback position of a Decoder.
type Position struct {
	Frame int
	Layer int
	Clock uint64
	Time  time.Duration
}

// Text is a tEXt, zTXt or iTXt entry.
type Text struct {
	Tag     chunk.Tag
	Keyword string
	Text    string
}

// Decoder reads a PNG, MNG or JNG datastream and plays it onto a canvas.
//
// A push-mode Decoder (NewDecoder) is fed with Write; a pull-mode Decoder
// (NewReader) reads from its source when Advance needs more records.
// Neither mode blocks waiting for input: when the buffered data ends inside
// a chunk, Advance reports StatusNeedData and resumes at the same byte
// later.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	cfg   Config
	log   *slog.Logger
	rd    *reader.Reader
	store *object.Store
	sched *display.Scheduler
	asm   assembler

	pull   bool
	closed bool
	halted *Error

	chunks []chunk.Chunk
	texts  []Text
}

// NewDecoder returns a push-mode Decoder.
func NewDecoder(opts ...Option) *Decoder {
	return newDecoder(nil, opts)
}

// NewReader returns a pull-mode Decoder reading from src. A source that
// returns (0, nil) or ErrSuspend makes Advance report StatusNeedData.
func NewReader(src io.Reader, opts ...Option) *Decoder {
	return newDecoder(src, opts)
}

func newDecoder(src io.Reader, opts []Option) *Decoder {
	cfg := newConfig(opts)
	log := Logger()
	d := &Decoder{cfg: cfg, log: log.With("component", "decoder"), pull: src != nil}
	d.rd = reader.New(src,
		reader.WithMaxLength(cfg.MaxChunkLength),
		reader.WithCRCCheck(cfg.CRC != CRCIgnore),
		reader.WithReadSize(cfg.ReadSize),
		reader.WithLogger(log.With("component", "reader")),
	)
	d.store = object.NewStore(log.With("component", "object"))
	d.sched = display.New(d.store, host{d}, display.Config{
		Depth:         cfg.Depth,
		Premultiplied: cfg.Premultiplied,
		Background:    cfg.background(),
		MaxLoopTicks:  cfg.MaxLoopTicks,
		MaxPixels:     cfg.MaxPixels,
		Color:         cfg.Color,
		Output:        cfg.Output,
		Logger:        log.With("component", "display"),
	})
	return d
}

// Write feeds p to a push-mode decoder and parses every complete chunk.
// It returns the first fatal error; later calls return the same error.
func (d *Decoder) Write(p []byte) (int, error) {
	if d.closed {
		return 0, ErrClosed
	}
	if d.halted != nil {
		return 0, d.halted
	}
	d.rd.Push(p)
	if err := d.parse(false); err != nil {
		return len(p), err
	}
	return len(p), nil
}

// ReadFrom writes everything read from r until io.EOF into the decoder.
// It does not close the decoder.
func (d *Decoder) ReadFrom(r io.Reader) (int64, error) {
	buf := make([]byte, max(d.cfg.ReadSize, 512))
	var n int64
	for {
		m, err := r.Read(buf)
		if m > 0 {
			n += int64(m)
			if _, werr := d.Write(buf[:m]); werr != nil {
				return n, werr
			}
		}
		switch {
		case errors.Is(err, io.EOF):
			return n, nil
		case err != nil:
			return n, err
		}
	}
}

// Close marks the input as complete. It reports ErrTruncated when the
// stream ended before its final IEND or MEND. Playback of the records
// already read continues with Advance.
func (d *Decoder) Close() error {
	if d.closed {
		return d.Err()
	}
	d.closed = true
	if d.halted != nil {
		return d.halted
	}
	d.rd.CloseInput()
	if err := d.parse(false); err != nil {
		return err
	}
	d.sched.Finish()
	return nil
}

// Err returns the error that halted the stream, or nil.
func (d *Decoder) Err() error {
	if d.halted == nil {
		return nil
	}
	return d.halted
}

// parse reads chunks until the input runs dry or the stream ends. With
// untilRecord set it also stops once a record has been queued.
func (d *Decoder) parse(untilRecord bool) error {
	if d.halted != nil {
		return d.halted
	}
	queued := d.store.Len()
	for !d.asm.ended {
		if untilRecord && d.store.Len() > queued {
			return nil
		}
		ev, c, err := d.rd.Next()
		off := d.rd.ChunkOffset()
		switch ev {
		case reader.NeedMoreData:
			if err != nil {
				return d.fatal("read", 0, d.rd.Offset(), err)
			}
			if d.rd.EOF() {
				return d.fatal("read", 0, d.rd.Offset(), fmt.Errorf("%w at offset %d", ErrTruncated, d.rd.Offset()))
			}
			return nil
		case reader.LengthError:
			if err != nil {
				return d.fatal("signature", 0, 0, err)
			}
			return d.fatal("read", c.Tag, off, &chunk.Error{Tag: c.Tag, Err: chunk.ErrBadLength, Detail: "declared length is impossible"})
		case reader.CRCError:
			e := &chunk.Error{Tag: c.Tag, Err: chunk.ErrBadCRC}
			if d.cfg.CRC == CRCAncillary && !c.Tag.Critical() {
				d.warn("read", c.Tag, off, e)
				continue
			}
			return d.fatal("read", c.Tag, off, e)
		case reader.ChunkReady:
			if err := d.chunk(c, off); err != nil {
				return err
			}
		}
	}
	return nil
}

// fatal halts the stream. Records already queued still play.
func (d *Decoder) fatal(op string, tag chunk.Tag, offset int64, err error) error {
	e := newError(op, SeverityFatal, tag, offset, err)
	e.Severity = SeverityFatal
	d.halted = e
	d.sched.Finish()
	d.emit(e)
	return e
}

func (d *Decoder) warn(op string, tag chunk.Tag, offset int64, err error) {
	d.emit(newError(op, SeverityWarning, tag, offset, err))
}

// emit logs e and hands it to the error handler.
func (d *Decoder) emit(e *Error) {
	attrs := []any{"op", e.Op, "code", int(e.Code), "kind", e.Kind.String(), "error", e.Err}
	if e.Tag != 0 {
		attrs = append(attrs, "tag", e.Tag.String())
	}
	if e.Offset >= 0 {
		attrs = append(attrs, "offset", e.Offset)
	}
	if e.HasObject {
		attrs = append(attrs, "object", e.Object)
	}
	if e.Severity == SeverityFatal {
		d.log.Error("stream halted", attrs...)
	} else {
		d.log.Warn("recoverable error", append(attrs, "severity", e.Severity.String())...)
	}
	if d.cfg.OnError != nil {
		d.cfg.OnError(e)
	}
}

// Advance plays the stream until a frame is complete, a loop pass ends,
// more input is needed or playback ends. After a fatal error the records
// read so far still play; the error is returned with StatusDone.
func (d *Decoder) Advance() (Frame, error) {
	for {
		st, err := d.sched.Advance()
		if err != nil {
			e := d.fatal("display", 0, -1, err)
			return d.frame(display.Step{Status: display.StatusDone, State: d.sched.State()}), e
		}
		switch {
		case st.Status == display.StatusNeedData && d.pull && d.halted == nil && !d.asm.ended:
			queued := d.store.Len()
			if err := d.parse(true); err == nil && d.store.Len() == queued && !d.asm.ended {
				return d.frame(st), nil
			}
			continue
		case st.Status == display.StatusDone && d.halted != nil:
			return d.frame(st), d.halted
		}
		return d.frame(st), nil
	}
}

func (d *Decoder) frame(st display.Step) Frame {
	r := st.Dirty
	return Frame{
		Status: Status(st.Status),
		Delay:  d.duration(uint64(st.Delay)),
		Ticks:  st.Delay,
		Index:  st.State.Frame,
		Layer:  st.State.Layer,
		Clock:  st.State.Clock,
		Dirty:  stdimage.Rect(r.MinX, r.MinY, r.MaxX, r.MaxY),
	}
}

// duration converts ticks to time using the MHDR tick rate.
func (d *Decoder) duration(ticks uint64) time.Duration {
	tps := d.sched.TicksPerSecond()
	if tps == 0 {
		return 0
	}
	return time.Duration(ticks) * time.Second / time.Duration(tps)
}

func (d *Decoder) ticks(t time.Duration) uint64 {
	tps := d.sched.TicksPerSecond()
	if tps == 0 || t <= 0 {
		return 0
	}
	return uint64(t * time.Duration(tps) / time.Second)
}

// Pause stops playback; Advance reports StatusPaused until Resume.
func (d *Decoder) Pause() { d.sched.Pause() }

// Resume continues playback after Pause.
func (d *Decoder) Resume() { d.sched.Resume() }

// Reset restarts playback from the first record. Input already read is
// kept.
func (d *Decoder) Reset() { d.sched.Reset() }

// GoFrame replays the stream without output up to frame n, then refreshes
// the whole canvas.
func (d *Decoder) GoFrame(n int) (Frame, error) {
	return d.seek(func(s display.State) bool { return s.Frame >= n })
}

// GoLayer replays the stream without output up to layer n.
func (d *Decoder) GoLayer(n int) (Frame, error) {
	return d.seek(func(s display.State) bool { return s.Layer >= n })
}

// GoTime replays the stream without output until the play time reaches t.
func (d *Decoder) GoTime(t time.Duration) (Frame, error) {
	ticks := d.ticks(t)
	return d.seek(func(s display.State) bool { return s.Clock >= ticks })
}

func (d *Decoder) seek(reached func(display.State) bool) (Frame, error) {
	st, err := d.sched.SeekTo(reached)
	if err != nil {
		return d.frame(st), d.fatal("seek", 0, -1, err)
	}
	return d.frame(st), nil
}

// Signature returns the datastream type, SigNone before the signature has
// been read.
func (d *Decoder) Signature() chunk.Signature { return d.rd.Signature() }

// Header returns the MHDR of an MNG stream, or the header synthesized
// from the first image of a PNG or JNG stream.
func (d *Decoder) Header() (chunk.MHDR, bool) {
	h := d.sched.Header()
	if h == nil {
		return chunk.MHDR{}, false
	}
	return *h, true
}

// PlayTime returns the MHDR nominal play time, 0 when unknown.
func (d *Decoder) PlayTime() time.Duration {
	h := d.sched.Header()
	if h == nil {
		return 0
	}
	return d.duration(uint64(h.PlayTime))
}

// Position returns the playback position.
func (d *Decoder) Position() Position {
	s := d.sched.State()
	return Position{Frame: s.Frame, Layer: s.Layer, Clock: s.Clock, Time: d.duration(s.Clock)}
}

// Bounds returns the canvas rectangle, empty before its size is known.
func (d *Decoder) Bounds() stdimage.Rectangle {
	if c := d.sched.Canvas(); c != nil {
		return stdimage.Rect(0, 0, c.Width(), c.Height())
	}
	if h := d.sched.Header(); h != nil {
		return stdimage.Rect(0, 0, int(h.Width), int(h.Height))
	}
	return stdimage.Rectangle{}
}

// Image returns a copy of the canvas as *image.NRGBA, or *image.NRGBA64
// for a 16-bit canvas. It returns nil before the canvas exists.
func (d *Decoder) Image() stdimage.Image {
	c := d.sched.Canvas()
	if c == nil {
		return nil
	}
	return c.ToNRGBA(image.Expand{})
}

// Texts returns the text chunks read so far.
func (d *Decoder) Texts() []Text { return slices.Clone(d.texts) }

// Chunks yields the chunks read so far in stream order. It yields nothing
// unless Config.StoreChunks is set.
func (d *Decoder) Chunks() iter.Seq2[int, chunk.Chunk] {
	return func(yield func(int, chunk.Chunk) bool) {
		for i, c := range d.chunks {
			if !yield(i, c) {
				return
			}
		}
	}
}
