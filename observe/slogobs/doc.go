// Package slogobs provides sibling.Hooks that write counter events to a
// log/slog logger. Routine events are logged at Debug, leaks at Warn.
package slogobs
