// Package display plays the record queue of an object.Store onto a canvas.
//
// A Scheduler walks the queue with its own cursor, so the queue can be
// replayed from the start for seeking. Advance never blocks: it returns as
// soon as a frame is complete, a loop pass ends, the queue runs dry or the
// animation terminates.
package display

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/mng/chunk"
	"github.com/gogpu/mng/cms"
	"github.com/gogpu/mng/internal/image"
	"github.com/gogpu/mng/internal/object"
)

// StepError is an error that aborted one animation step. Tag is the chunk
// that caused it, zero for drawing failures.
type StepError struct {
	Tag    chunk.Tag
	Object uint16
	Err    error
}

func (e *StepError) Error() string {
	if e.Tag == 0 {
		return fmt.Sprintf("display: object %d: %v", e.Object, e.Err)
	}
	return fmt.Sprintf("display: %v object %d: %v", e.Tag, e.Object, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Phase is the playback state of a Scheduler.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseInitializing
	PhaseRunning
	PhasePaused
	PhaseTerminated
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseInitializing:
		return "initializing"
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseTerminated:
		return "terminated"
	}
	return "unknown"
}

// Status tells why Advance returned.
type Status uint8

const (
	// StatusFrame means a frame is complete and should stay visible for
	// Step.Delay ticks.
	StatusFrame Status = iota + 1
	// StatusYield means a loop pass (or a TERM repetition) completed.
	StatusYield
	// StatusNeedData means the queue is exhausted but input is pending.
	StatusNeedData
	// StatusPaused means playback was paused by the host.
	StatusPaused
	// StatusDone means playback has ended.
	StatusDone
)

func (s Status) String() string {
	switch s {
	case StatusFrame:
		return "frame"
	case StatusYield:
		return "yield"
	case StatusNeedData:
		return "need-data"
	case StatusPaused:
		return "paused"
	case StatusDone:
		return "done"
	}
	return "none"
}

// Step is the result of one Advance call.
type Step struct {
	Status Status
	// Delay is the number of ticks the frame stays visible.
	Delay uint32
	// Dirty is the canvas area changed by the frame.
	Dirty image.Rect
	State State
}

// State holds the playback counters.
type State struct {
	Frame int
	Layer int
	// Clock is the play time in ticks: the sum of the delays of all
	// completed frames.
	Clock uint64
	// Timeout and SyncIDs are the values set by the last FRAM.
	Timeout uint32
	SyncIDs []uint32
	// Priority is the last fPRI priority.
	Priority uint8
}

// Host receives the output of a Scheduler.
type Host interface {
	// Refresh is called after a frame with the changed canvas area. The
	// canvas must not be retained past the call.
	Refresh(canvas *image.ImageBuf, dirty image.Rect)

	// Report receives errors that abort a single animation step.
	Report(err error)
}

// Config configures a Scheduler.
type Config struct {
	// Depth is the canvas sample depth, 8 or 16.
	Depth uint8

	// Premultiplied selects premultiplied-alpha compositing.
	Premultiplied bool

	// Background is the RGBA16 color used until a BACK or bKGD chunk
	// provides one.
	Background [4]uint16

	// MaxLoopTicks bounds loops whose termination is left to the decoder.
	// Zero lets such loops run their full count.
	MaxLoopTicks uint64

	// MaxPixels bounds the canvas and magnified objects; zero leaves only
	// the image.MaxBufferBytes cap.
	MaxPixels uint64

	// Color corrects layers from their profile to Output. Nil disables
	// correction.
	Color  cms.Manager
	Output cms.Profile

	Logger *slog.Logger
}

// Scheduler plays the records of a Store.
type Scheduler struct {
	cfg   Config
	host  Host
	store *object.Store
	log   *slog.Logger

	phase     Phase
	paused    bool
	inputDone bool

	pos     int
	header  *chunk.MHDR
	canvas  *image.ImageBuf
	first   *image.ImageBuf
	state   State
	loops   []loop
	skip    int
	pending []uint16

	cur      define
	framing  framing
	defaults defaults
	saved    *defaults
	dirty    image.Rect
	layers   int
	painted  bool

	term      *chunk.TERM
	termPos   int
	termPlays uint32
	pastX     int
	pastY     int
	cycle     map[[2]uint16]uint16
}

// define is the DEFI state applied to the next image definitions.
type define struct {
	id       uint16
	visible  bool
	concrete bool
	x, y     int
	clip     image.Rect
	hasClip  bool
}

// defaults is the state that SAVE records and SEEK restores.
type defaults struct {
	mode       uint8
	delay      uint32
	timeout    uint32
	clip       image.Rect
	hasClip    bool
	bg         [4]uint16
	bgImage    uint16
	bgTile     bool
	bgSet      bool
	magnify    image.MagnifyParams
	hasMagnify bool
}

// framing holds the one-shot FRAM values for the next frame.
type framing struct {
	delay    uint32
	hasDelay bool
	clip     image.Rect
	hasClip  bool
}

// New returns a Scheduler playing the records of store. host may be nil.
func New(store *object.Store, host Host, cfg Config) *Scheduler {
	if cfg.Depth != 16 {
		cfg.Depth = 8
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(discard{})
	}
	s := &Scheduler{cfg: cfg, host: host, store: store, log: log}
	s.rewind()
	return s
}

// rewind resets the playback state to the start of the queue.
func (s *Scheduler) rewind() {
	s.phase = PhaseIdle
	s.pos = 0
	s.header = nil
	s.canvas = nil
	s.first = nil
	s.state = State{}
	s.loops = s.loops[:0]
	s.skip = -1
	s.pending = s.pending[:0]
	s.cur = define{visible: true}
	s.framing = framing{}
	s.defaults = defaults{mode: 1, delay: 1, bg: s.cfg.Background}
	s.saved = nil
	s.dirty = image.Rect{}
	s.layers = 0
	s.painted = false
	s.term = nil
	s.termPos = 0
	s.termPlays = 0
	s.pastX, s.pastY = 0, 0
	s.cycle = nil
}

// Reset rewinds playback and drops every object. The record queue and the
// input state are kept.
func (s *Scheduler) Reset() {
	s.store.Reset()
	s.rewind()
	s.paused = false
}

// Finish marks the input as complete. Once the queue is exhausted the
// animation terminates instead of waiting for more records.
func (s *Scheduler) Finish() { s.inputDone = true }

// Pause stops playback until Resume.
func (s *Scheduler) Pause() {
	s.paused = true
	if s.phase != PhaseTerminated {
		s.phase = PhasePaused
	}
}

// Resume continues playback after Pause.
func (s *Scheduler) Resume() { s.paused = false }

// Phase returns the playback state.
func (s *Scheduler) Phase() Phase { return s.phase }

// State returns the playback counters.
func (s *Scheduler) State() State { return s.state }

// Canvas returns the canvas, or nil before its size is known.
func (s *Scheduler) Canvas() *image.ImageBuf { return s.canvas }

// Header returns the MHDR of the stream, or nil.
func (s *Scheduler) Header() *chunk.MHDR { return s.header }

// TicksPerSecond returns the MHDR tick rate, 0 when unknown.
func (s *Scheduler) TicksPerSecond() uint32 {
	if s.header == nil {
		return 0
	}
	return s.header.TicksPerSec
}

// Advance processes records until a frame is complete, a loop pass ends,
// the queue is exhausted or the animation terminates.
func (s *Scheduler) Advance() (Step, error) {
	if s.phase == PhaseTerminated {
		return s.step(StatusDone), nil
	}
	if s.paused {
		return s.step(StatusPaused), nil
	}
	if s.phase == PhaseIdle {
		s.phase = PhaseInitializing
	}
	for {
		if len(s.pending) > 0 {
			id := s.pending[0]
			s.pending = s.pending[1:]
			if st, ok := s.showPending(id); ok {
				return st, nil
			}
			continue
		}
		if s.pos >= s.store.Len() {
			if !s.inputDone {
				s.phase = PhasePaused
				return s.step(StatusNeedData), nil
			}
			if st, ok := s.closeFrame(); ok {
				return st, nil
			}
			s.terminate()
			return s.step(StatusDone), nil
		}
		rec := s.store.At(s.pos)
		s.pos++
		if s.phase != PhaseInitializing {
			s.phase = PhaseRunning
		}
		st, ok, err := s.process(rec)
		if err != nil {
			return Step{}, err
		}
		if ok {
			return st, nil
		}
	}
}

// SeekTo replays the queue from the start without calling the host until
// reached reports true for the playback state, then refreshes the whole
// canvas. It returns the last step taken.
func (s *Scheduler) SeekTo(reached func(State) bool) (Step, error) {
	s.Reset()
	host := s.host
	s.host = nil
	defer func() { s.host = host }()

	var st Step
	for !reached(s.state) {
		var err error
		st, err = s.Advance()
		if err != nil {
			return st, err
		}
		if st.Status == StatusDone || st.Status == StatusNeedData {
			break
		}
	}
	s.host = host
	if s.canvas != nil && host != nil {
		host.Refresh(s.canvas, s.canvas.Bounds())
	}
	s.log.Debug("seek complete", "frame", s.state.Frame, "layer", s.state.Layer, "clock", s.state.Clock)
	return st, nil
}

func (s *Scheduler) step(status Status) Step {
	return Step{Status: status, State: s.state}
}

// fail reports an error that aborted the current step.
func (s *Scheduler) fail(tag chunk.Tag, id uint16, err error) {
	e := &StepError{Tag: tag, Object: id, Err: err}
	s.log.Warn("animation step failed", "tag", tag.String(), "object", id, "error", err)
	if s.host != nil {
		s.host.Report(e)
	}
}
