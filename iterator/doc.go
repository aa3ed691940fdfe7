// Package iterator defines the pull contract used across iterkit and the
// context-based peekable adapter built on top of it.
//
// An Iterator yields values one at a time until exhausted. Sources exist
// for slices, channels, range-over-func sequences, and plain functions.
// Peekable layers a one-item lookahead slot over any Iterator so the next
// value can be inspected without consuming it, and adds deadline-bounded
// variants of Next and Peek.
//
// # Usage
//
//	src := iterator.FromChannel(events)
//	p := iterator.NewPeekable(src)
//	head, ok, err := p.Peek(ctx)           // does not consume
//	val, err := p.NextTimeout(ctx, time.Second)
//
// A Peekable assumes a single consumer; it is not safe for concurrent use.
package iterator
