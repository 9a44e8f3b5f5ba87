// Package rtflag provides a debug-only realtime-context assertion.
//
// The system this was ported from uses a thread-local flag so each OS
// thread can independently assert "I am/am not the realtime thread." Go has
// no portable thread-local storage without cgo, and this engine's design
// already guarantees a single audio goroutine (see the concurrency model),
// so a single process-wide atomic flag is sufficient: it is set once by the
// goroutine that owns the soundscape and checked by code paths that must
// never run there.
package rtflag

import "sync/atomic"

var realtime atomic.Bool

// SetRealtime marks the calling goroutine's context as the realtime audio
// path. Call once, from the audio worker, before the first Generate.
func SetRealtime() { realtime.Store(true) }

// SetNonRealtime clears the flag, for tests that need to simulate returning
// to a non-realtime context.
func SetNonRealtime() { realtime.Store(false) }

// IsRealtime reports whether the realtime flag is currently set.
func IsRealtime() bool { return realtime.Load() }
