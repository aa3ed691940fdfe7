// Package timeout adapts a blocking sequential producer into an iterator
// that supports bounded waits and non-destructive lookahead.
//
// A background relay goroutine takes exclusive ownership of the producer
// and forwards its items, in order, into a single-producer/single-consumer
// channel. The consumer-facing Iterator layers a one-item lookahead slot
// over the receiving end, so the next item can be peeked without consuming
// it, and bounds waits by racing the receive against a timer.
//
// # Usage
//
//	it, err := timeout.FromSeq(slices.Values(lines))
//	if err != nil {
//	    return err
//	}
//	defer it.Close()
//
//	head, err := it.PeekTimeout(500 * time.Millisecond) // does not consume
//	val, err := it.NextTimeout(500 * time.Millisecond)
//	val, ok := it.Next()                                // blocks until an item or the end
//
// A timed-out call leaves the adapter exactly as if it had not been made:
// the select either receives an item or observes the timer, never both, so
// an item can never be consumed and then discarded.
//
// Exactly one consumer may use an Iterator; it is not safe for concurrent
// calls. The producer belongs to the relay from construction on and must
// not be touched by the caller afterwards.
package timeout
