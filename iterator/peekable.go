package iterator

import (
	"context"
	stderrors "errors"
	"time"

	iterrors "github.com/kbukum/iterkit/errors"
)

// Peekable wraps an Iterator with a one-item lookahead slot, so the next
// value can be observed without consuming it, and adds deadline-bounded
// variants of Next and Peek.
//
// The slot holds at most one value: the value a consumer-visible Next must
// return. A value pulled from the source is committed to the slot or the
// return value in the same synchronous step that decides the call's
// outcome, so a deadline can never discard a value that was produced.
//
// Peekable itself satisfies Iterator, so it can stand in wherever the
// wrapped source was used. Exactly one consumer may use it; it is not safe
// for concurrent calls.
type Peekable[T any] struct {
	source Iterator[T]
	slot   *T
	done   bool
}

// NewPeekable wraps source with a lookahead slot. The Peekable takes over
// the source; the caller must not pull from it afterwards.
func NewPeekable[T any](source Iterator[T]) *Peekable[T] {
	return &Peekable[T]{source: source}
}

// Next returns the next value, consuming the lookahead slot first.
// Returns (zero, false, nil) once the source is exhausted; exhaustion is
// permanent.
func (p *Peekable[T]) Next(ctx context.Context) (T, bool, error) {
	if p.slot != nil {
		val := *p.slot
		p.slot = nil
		return val, true, nil
	}
	return p.pull(ctx)
}

// Peek returns the next value without consuming it. Repeated calls with no
// intervening Next return the same value and do not advance the source.
func (p *Peekable[T]) Peek(ctx context.Context) (T, bool, error) {
	if p.slot != nil {
		return *p.slot, true, nil
	}
	val, ok, err := p.pull(ctx)
	if err != nil || !ok {
		return val, ok, err
	}
	p.slot = &val
	return val, true, nil
}

// NextTimeout returns the next value, waiting at most d. It fails with
// errors.ErrTimeout when the deadline elapses first and with
// errors.ErrDisconnected once the source is exhausted. A timeout leaves the
// adapter exactly as if the call had not been made.
func (p *Peekable[T]) NextTimeout(ctx context.Context, d time.Duration) (T, error) {
	if p.slot != nil {
		val := *p.slot
		p.slot = nil
		return val, nil
	}
	return p.pullTimeout(ctx, d, "next_timeout")
}

// PeekTimeout returns the next value without consuming it, waiting at most
// d. Error classification matches NextTimeout.
func (p *Peekable[T]) PeekTimeout(ctx context.Context, d time.Duration) (T, error) {
	if p.slot != nil {
		return *p.slot, nil
	}
	val, err := p.pullTimeout(ctx, d, "peek_timeout")
	if err != nil {
		return val, err
	}
	p.slot = &val
	return val, nil
}

// Close releases the wrapped source. Subsequent calls observe exhaustion.
func (p *Peekable[T]) Close() error {
	p.done = true
	p.slot = nil
	return p.source.Close()
}

// pull fetches one value from the source, recording exhaustion.
func (p *Peekable[T]) pull(ctx context.Context) (T, bool, error) {
	var zero T
	if p.done {
		return zero, false, nil
	}
	val, ok, err := p.source.Next(ctx)
	if err != nil {
		return zero, false, err
	}
	if !ok {
		p.done = true
		return zero, false, nil
	}
	return val, true, nil
}

// pullTimeout races one source pull against a deadline derived from ctx.
// The source either returns the value or reports why it could not; there is
// no state in between, so the outcome classification is exact.
func (p *Peekable[T]) pullTimeout(ctx context.Context, d time.Duration, op string) (T, error) {
	var zero T
	if p.done {
		return zero, iterrors.Disconnected(op)
	}

	tctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	val, ok, err := p.source.Next(tctx)
	switch {
	case err != nil:
		if stderrors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return zero, iterrors.Timeout(op)
		}
		return zero, err
	case !ok:
		p.done = true
		return zero, iterrors.Disconnected(op)
	default:
		return val, nil
	}
}
