package display

import "github.com/gogpu/mng/chunk"

// loop is one active LOOP.
type loop struct {
	nest      uint8
	term      uint8
	start     int
	remaining uint32
	min, max  uint32
	passes    uint32
	clock     uint64
}

func (s *Scheduler) startLoop(r *chunk.LOOP) {
	if r.Count == 0 {
		s.skip = int(r.Nest)
		return
	}
	s.loops = append(s.loops, loop{
		nest:      r.Nest,
		term:      r.Termination,
		start:     s.pos,
		remaining: r.Count,
		min:       r.Min,
		max:       r.Max,
		clock:     s.state.Clock,
	})
}

// endLoop closes a pass of the loop with the ENDL nest level. Inner loops
// left open are dropped. A pass that jumps back yields.
func (s *Scheduler) endLoop(r *chunk.ENDL) (Step, bool) {
	i := len(s.loops) - 1
	for i >= 0 && s.loops[i].nest != r.Nest {
		i--
	}
	if i < 0 {
		s.log.Warn("ENDL without matching LOOP", "nest", r.Nest)
		return Step{}, false
	}
	s.loops = s.loops[:i+1]
	l := &s.loops[i]
	l.passes++
	if l.remaining != chunk.Infinite {
		l.remaining--
	}
	done := l.remaining == 0
	if l.term != chunk.TermDeterministic {
		if l.passes >= l.max {
			done = true
		}
		if s.cfg.MaxLoopTicks > 0 && l.passes >= l.min && s.state.Clock-l.clock >= s.cfg.MaxLoopTicks {
			done = true
		}
	}
	if done {
		s.log.Debug("loop finished", "nest", l.nest, "passes", l.passes)
		s.loops = s.loops[:i]
		return Step{}, false
	}
	s.pos = l.start
	return s.step(StatusYield), true
}
