package sibling

import "runtime"

// Token marks one live sibling. Every Token, including every clone, is
// exactly one unit of the sibling count; Close removes that unit.
//
// The owner must Close the Token on every exit path, normally with defer
// right after obtaining it. Close is idempotent and may be called from any
// goroutine. Tokens that are dropped without Close are released by the
// garbage collector at some later point and reported as leaked.
type Token struct {
	r       *ref
	cleanup runtime.Cleanup
}

// NewToken returns a Token over a fresh state, so the sibling count starts at 1.
func NewToken(optFns ...Option) *Token {
	return wrapToken(newState(buildOptions(optFns), tokenUnit))
}

// wrapToken expects st to already count the new sibling.
func wrapToken(st *state) *Token {
	r := &ref{st: st}
	t := &Token{r: r}
	t.cleanup = runtime.AddCleanup(t, leakToken, r)
	return t
}

func leakToken(r *ref) {
	if r.closed.CompareAndSwap(false, true) {
		r.st.decrement(true)
	}
}

func (t *Token) live() *state {
	if t.r.closed.Load() {
		panic(ErrClosed)
	}
	return t.r.st
}

// Clone mints a new, independent Token. The receiver keeps its own unit.
func (t *Token) Clone() *Token {
	st := t.live()
	st.increment()
	runtime.KeepAlive(t)
	return wrapToken(st)
}

// AddSibling is the same as Clone.
func (t *Token) AddSibling() *Token { return t.Clone() }

// Counter returns an observer sharing this Token's state.
func (t *Token) Counter() *Counter {
	st := t.live()
	st.addCounter()
	runtime.KeepAlive(t)
	return wrapCounter(st)
}

// SiblingCount returns the number of live Tokens, including t while it is open.
func (t *Token) SiblingCount() int {
	return t.r.st.read()
}

// Close decrements the sibling count exactly once, however many times it is called.
func (t *Token) Close() {
	if t.r.closed.CompareAndSwap(false, true) {
		t.cleanup.Stop()
		t.r.st.decrement(false)
	}
}
