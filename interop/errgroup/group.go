// Package errgroup wraps golang.org/x/sync/errgroup so that every function
// started on a Group runs as a counted sibling.
package errgroup

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/NetPo4ki/go-siblings/sibling"
)

// Group is an errgroup.Group whose functions are siblings of one counter.
type Group struct {
	g        *errgroup.Group
	ctx      context.Context
	siblings *sibling.Counter
}

// WithContext creates a Group bound to ctx. Returned context is canceled when
// any function passed to Go returns a non-nil error or when Wait returns.
func WithContext(ctx context.Context, opts ...sibling.Option) (*Group, context.Context) {
	eg, gctx := errgroup.WithContext(ctx)
	g := &Group{g: eg, ctx: gctx, siblings: sibling.New(opts...)}
	return g, gctx
}

// Go calls f in a new goroutine. f is counted from the moment Go is called,
// including any time spent waiting for SetLimit to admit it. f's context
// carries its Token.
func (g *Group) Go(f func(ctx context.Context) error) {
	tok := g.siblings.AddSibling()
	g.g.Go(func() error {
		defer tok.Close()
		return f(sibling.NewContext(g.ctx, tok))
	})
}

// TryGo calls f in a new goroutine only if the group is below its limit.
// The sibling is minted before admission is known, so a rejected call still
// fires SiblingAdded and SiblingRemoved, and Siblings may briefly read one
// high while TryGo runs.
func (g *Group) TryGo(f func(ctx context.Context) error) bool {
	tok := g.siblings.AddSibling()
	ok := g.g.TryGo(func() error {
		defer tok.Close()
		return f(sibling.NewContext(g.ctx, tok))
	})
	if !ok {
		tok.Close()
	}
	return ok
}

// SetLimit limits the number of active goroutines. See errgroup.Group.SetLimit.
func (g *Group) SetLimit(n int) { g.g.SetLimit(n) }

// Siblings returns the number of functions that have not returned yet.
func (g *Group) Siblings() int { return g.siblings.SiblingCount() }

// Wait blocks until all functions have returned and returns the first
// non-nil error.
func (g *Group) Wait() error {
	return g.g.Wait()
}
