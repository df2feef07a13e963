package sibling

import (
	"errors"
	"runtime"
	"sync/atomic"
)

// ErrClosed is the panic value raised when a closed handle is used to mint
// or clone, or when a mint races with the close of the state's last handle.
var ErrClosed = errors.New("sibling: use of closed handle")

// ref is the part of a handle the runtime cleanup may see. It must never point
// back at the handle, or the handle would stay reachable forever.
type ref struct {
	st     *state
	closed atomic.Bool
}

// Counter mints sibling Tokens and reports how many are live. Counters are
// not siblings: creating, cloning or closing one never changes the count.
//
// A Counter is safe for concurrent use. Close releases its share of the
// state; an unclosed Counter is released when it becomes unreachable.
type Counter struct {
	r       *ref
	cleanup runtime.Cleanup
}

// New returns a Counter over a fresh state with a sibling count of 0.
func New(optFns ...Option) *Counter {
	return wrapCounter(newState(buildOptions(optFns), counterUnit))
}

// wrapCounter expects st to already hold the counter reference.
func wrapCounter(st *state) *Counter {
	r := &ref{st: st}
	c := &Counter{r: r}
	c.cleanup = runtime.AddCleanup(c, dropCounterRef, r)
	return c
}

func dropCounterRef(r *ref) {
	if r.closed.CompareAndSwap(false, true) {
		r.st.dropCounter()
	}
}

func (c *Counter) live() *state {
	if c.r.closed.Load() {
		panic(ErrClosed)
	}
	return c.r.st
}

// Clone returns another Counter sharing the same state.
func (c *Counter) Clone() *Counter {
	st := c.live()
	st.addCounter()
	runtime.KeepAlive(c)
	return wrapCounter(st)
}

// AddSibling mints a new Token, incrementing the sibling count by one.
// The caller owns the Token and must Close it.
func (c *Counter) AddSibling() *Token {
	st := c.live()
	st.increment()
	runtime.KeepAlive(c)
	return wrapToken(st)
}

// SiblingCount returns the number of live Tokens. The value is a snapshot and
// may be stale as soon as it is returned.
func (c *Counter) SiblingCount() int {
	return c.r.st.read()
}

// Close releases this handle's share of the state. It is idempotent.
func (c *Counter) Close() {
	if c.r.closed.CompareAndSwap(false, true) {
		c.cleanup.Stop()
		c.r.st.dropCounter()
	}
}
