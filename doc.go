// Package exbo implements exponential back-off with a bounded excess-cost
// budget.
//
// A caller records the time of each attempt at a costly operation; after
// each record, the engine reports the earliest recommended time of the next
// attempt, and a projected "pay-back" time at which all accumulated excess
// cost would decay to zero if no further attempts occurred.
//
// The engine is stateful and single-instance-per-client. It is purely
// arithmetic: it performs no I/O, no sleeping, and never reads a clock. The
// caller supplies every timestamp, in whatever signed 64-bit unit it
// chooses (the library's own defaults assume milliseconds).
//
// An Instance is not safe for concurrent use; callers wanting to share one
// across goroutines must serialize access themselves.
package exbo
