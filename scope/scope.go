// Package scope runs goroutines as siblings of a shared counter. Scopes own
// the tasks they spawn, provide a join point (Wait), and propagate
// cancellation and errors according to a policy.
package scope

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/NetPo4ki/go-siblings/sibling"
)

type Policy int

const (
	FailFast Policy = iota
	Supervisor
)

type Option func(*Options)

type Options struct {
	PanicAsError   bool
	MaxConcurrency int
	Timeout        time.Duration
	SiblingOptions []sibling.Option
}

func defaultOptions() Options { return Options{PanicAsError: true} }

func WithPanicAsError(v bool) Option { return func(o *Options) { o.PanicAsError = v } }

func WithMaxConcurrency(n int) Option { return func(o *Options) { o.MaxConcurrency = n } }

func WithTimeout(d time.Duration) Option { return func(o *Options) { o.Timeout = d } }

// WithSiblingOptions configures the counter the scope's tasks are counted in.
func WithSiblingOptions(opts ...sibling.Option) Option {
	return func(o *Options) { o.SiblingOptions = append(o.SiblingOptions, opts...) }
}

type Scope struct {
	ctx      context.Context
	cancel   context.CancelFunc
	policy   Policy
	wg       sync.WaitGroup
	mu       sync.Mutex
	firstErr error

	opts     Options
	lim      Limiter
	siblings *sibling.Counter
}

func New(parent context.Context, policy Policy, optFns ...Option) *Scope {
	if parent == nil {
		parent = context.Background()
	}
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return newScope(parent, policy, opts)
}

func newScope(parent context.Context, policy Policy, opts Options) *Scope {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if opts.Timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, opts.Timeout)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}
	return &Scope{
		ctx:      ctx,
		cancel:   cancel,
		policy:   policy,
		opts:     opts,
		lim:      newSemaphoreLimiter(opts.MaxConcurrency),
		siblings: sibling.New(opts.SiblingOptions...),
	}
}

func (s *Scope) Context() context.Context { return s.ctx }

// Siblings returns the number of tasks started by Go that have not returned yet,
// including tasks still waiting for a concurrency slot.
func (s *Scope) Siblings() int { return s.siblings.SiblingCount() }

// Counter returns a new observer of the scope's siblings. The caller closes it.
func (s *Scope) Counter() *sibling.Counter { return s.siblings.Clone() }

// Go starts fn as a new sibling. The sibling is counted before Go returns and
// stays counted until fn returns or panics. fn's context carries its Token,
// see sibling.FromContext.
func (s *Scope) Go(fn func(ctx context.Context) error) {
	if fn == nil {
		return
	}
	tok := s.siblings.AddSibling()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer tok.Close()
		if s.lim != nil {
			if err := s.lim.Acquire(s.ctx); err != nil {
				s.fail(err)
				return
			}
			defer s.lim.Release()
		}
		defer func() {
			if r := recover(); r != nil {
				if !s.opts.PanicAsError {
					panic(r)
				}
				s.fail(fmt.Errorf("panic: %v", r))
			}
		}()

		if err := fn(sibling.NewContext(s.ctx, tok)); err != nil {
			s.fail(err)
		}
	}()
}

func (s *Scope) Cancel(err error) {
	s.mu.Lock()
	if s.firstErr == nil && err != nil {
		s.firstErr = err
	}
	s.mu.Unlock()
	s.cancel()
}

// Wait blocks until every task has returned, then cancels the scope's
// context (releasing its timer, if any) and reports the first error.
// Tasks started after Wait see an already cancelled context.
func (s *Scope) Wait() error {
	s.wg.Wait()
	s.cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.firstErr
}

func (s *Scope) fail(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	if s.firstErr == nil {
		s.firstErr = err
	}
	shouldCancel := s.policy == FailFast
	cause := s.firstErr
	s.mu.Unlock()
	if shouldCancel {
		s.Cancel(cause)
	}
}

// Child returns a scope cancelled together with s. The child counts its own
// siblings; its tasks are not siblings of s's tasks.
func (s *Scope) Child(policy Policy, optFns ...Option) *Scope {
	childOpts := s.opts
	childOpts.SiblingOptions = append([]sibling.Option(nil), s.opts.SiblingOptions...)
	childOpts.MaxConcurrency = 0
	childOpts.Timeout = 0
	for _, fn := range optFns {
		fn(&childOpts)
	}
	return newScope(s.ctx, policy, childOpts)
}
