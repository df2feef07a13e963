package sibling

import "log/slog"

// Hooks receives lifecycle events of a shared counter. The count passed in is
// the value right after the change. Hooks run synchronously on the goroutine
// that caused the event and must not block.
type Hooks interface {
	SiblingAdded(count int)
	SiblingRemoved(count int)
	// SiblingLeaked reports a Token released by the garbage collector
	// instead of Close.
	SiblingLeaked(count int)
	// Released reports that no Counter or Token refers to the state anymore.
	Released()
}

// NopHooks ignores every event.
type NopHooks struct{}

func (NopHooks) SiblingAdded(int)   {}
func (NopHooks) SiblingRemoved(int) {}
func (NopHooks) SiblingLeaked(int)  {}
func (NopHooks) Released()          {}

type multiHooks []Hooks

// MultiHooks fans every event out to hs in order. Nil entries are skipped.
func MultiHooks(hs ...Hooks) Hooks {
	var m multiHooks
	for _, h := range hs {
		if h != nil {
			m = append(m, h)
		}
	}
	return m
}

func (m multiHooks) SiblingAdded(n int) {
	for _, h := range m {
		h.SiblingAdded(n)
	}
}

func (m multiHooks) SiblingRemoved(n int) {
	for _, h := range m {
		h.SiblingRemoved(n)
	}
}

func (m multiHooks) SiblingLeaked(n int) {
	for _, h := range m {
		h.SiblingLeaked(n)
	}
}

func (m multiHooks) Released() {
	for _, h := range m {
		h.Released()
	}
}

type Option func(*Options)

type Options struct {
	Hooks  Hooks
	Logger *slog.Logger
}

func defaultOptions() Options { return Options{Hooks: NopHooks{}} }

func WithHooks(h Hooks) Option { return func(o *Options) { o.Hooks = h } }

// WithLogger sets the logger used to report leaked tokens. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option { return func(o *Options) { o.Logger = l } }

func buildOptions(optFns []Option) Options {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}
	if o.Hooks == nil {
		o.Hooks = NopHooks{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
