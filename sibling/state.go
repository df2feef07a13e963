package sibling

import (
	"log/slog"
	"math"
	"sync/atomic"
)

// The shared word packs two 32-bit counts: live Tokens in the low half and
// live Counter handles in the high half.
const (
	tokenUnit   uint64 = 1
	counterUnit uint64 = 1 << 32
	halfMask    uint64 = counterUnit - 1

	// maxPerHalf is checked inside acquire's CAS loop, so no add can carry
	// into the other half.
	maxPerHalf uint64 = math.MaxUint32 - 1_000_000
)

type state struct {
	word  atomic.Uint64
	hooks Hooks
	log   *slog.Logger
}

// newState returns a state already holding one reference of kind unit.
func newState(o Options, unit uint64) *state {
	s := &state{hooks: o.Hooks, log: o.Logger}
	s.word.Store(unit)
	if unit == tokenUnit {
		s.hooks.SiblingAdded(1)
	}
	return s
}

func split(w uint64) (siblings, counters uint64) {
	return w & halfMask, w >> 32
}

func (s *state) increment() {
	w := s.acquire(tokenUnit)
	s.hooks.SiblingAdded(int(w & halfMask))
}

// decrement must be called exactly once per increment.
func (s *state) decrement(leaked bool) {
	w := s.word.Add(^(tokenUnit - 1))
	n, _ := split(w)
	if n == halfMask {
		panic("sibling: negative sibling count")
	}
	if leaked {
		s.log.Warn("sibling token was not closed", "siblings", n)
		s.hooks.SiblingLeaked(int(n))
	} else {
		s.hooks.SiblingRemoved(int(n))
	}
	if w == 0 {
		s.released()
	}
}

func (s *state) read() int {
	n, _ := split(s.word.Load())
	return int(n)
}

func (s *state) addCounter() {
	s.acquire(counterUnit)
}

func (s *state) dropCounter() {
	w := s.word.Add(^(counterUnit - 1))
	if _, c := split(w); c == halfMask {
		panic("sibling: negative counter count")
	}
	if w == 0 {
		s.released()
	}
}

// acquire adds one reference of kind unit. A state whose word has reached
// zero is released for good: acquire panics with ErrClosed instead of
// reviving it.
func (s *state) acquire(unit uint64) uint64 {
	for {
		old := s.word.Load()
		if old == 0 {
			panic(ErrClosed)
		}
		siblings, counters := split(old)
		if unit == tokenUnit && siblings >= maxPerHalf {
			panic("sibling: too many siblings")
		}
		if unit == counterUnit && counters >= maxPerHalf {
			panic("sibling: too many counters")
		}
		if s.word.CompareAndSwap(old, old+unit) {
			return old + unit
		}
	}
}

func (s *state) released() {
	s.log.Debug("sibling state released")
	s.hooks.Released()
}
