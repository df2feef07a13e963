// Package sibling provides a lock-free counter of live siblings.
//
// A Counter observes the count and mints Tokens; it is never counted itself.
// Every live Token is exactly one sibling. Tokens are released with Close,
// which must be deferred right after the Token is obtained:
//
//	tok := counter.AddSibling()
//	defer tok.Close()
//
// Reads are snapshots. Nothing in this package blocks or waits on another
// sibling, and there is no way to be notified when the count changes.
//
// All handles derived from one origin share a single atomic word. The shared
// state is released when the last Counter or Token referring to it is closed.
// A handle that becomes unreachable without being closed is released by the
// garbage collector; a Token released that way is reported as leaked.
package sibling
