package iterator

import (
	"context"
	"iter"
)

// Iterator provides pull-based sequential access to a stream of values.
// The consumer calls Next() to retrieve values one at a time.
// Close must be called when done to release resources.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// --- Sources ---

// FromSlice creates an iterator over a slice of values.
func FromSlice[T any](items []T) Iterator[T] {
	return &sliceIter[T]{items: items}
}

// FromChannel creates an iterator that receives from ch until it is closed.
// Next honors ctx cancellation while waiting.
func FromChannel[T any](ch <-chan T) Iterator[T] {
	return &chanIter[T]{ch: ch}
}

// FromSeq creates an iterator over a range-over-func sequence.
func FromSeq[T any](seq iter.Seq[T]) Iterator[T] {
	next, stop := iter.Pull(seq)
	return &seqIter[T]{next: next, stop: stop}
}

// FromSeq2 creates an iterator over a fallible sequence. A yielded error
// ends the iteration and is returned to the caller.
func FromSeq2[T any](seq iter.Seq2[T, error]) Iterator[T] {
	next, stop := iter.Pull2(seq)
	return &seq2Iter[T]{next: next, stop: stop}
}

// FromFunc creates an iterator from a pull function. fn returns
// (zero, false, nil) when exhausted.
func FromFunc[T any](fn func(ctx context.Context) (T, bool, error)) Iterator[T] {
	return &funcIter[T]{fn: fn}
}

// --- Terminals ---

// Collect pulls all remaining values and returns them as a slice.
func Collect[T any](ctx context.Context, it Iterator[T]) ([]T, error) {
	defer it.Close()
	var result []T
	for {
		val, ok, err := it.Next(ctx)
		if err != nil {
			return result, err
		}
		if !ok {
			return result, nil
		}
		result = append(result, val)
	}
}

// ForEach pulls all remaining values and calls fn for each.
func ForEach[T any](ctx context.Context, it Iterator[T], fn func(context.Context, T) error) error {
	defer it.Close()
	for {
		val, ok, err := it.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(ctx, val); err != nil {
			return err
		}
	}
}

// --- Internal iterators ---

type sliceIter[T any] struct {
	items []T
	index int
}

func (it *sliceIter[T]) Next(_ context.Context) (T, bool, error) {
	if it.index >= len(it.items) {
		var zero T
		return zero, false, nil
	}
	val := it.items[it.index]
	it.index++
	return val, true, nil
}

func (it *sliceIter[T]) Close() error { return nil }

type chanIter[T any] struct {
	ch <-chan T
}

func (it *chanIter[T]) Next(ctx context.Context) (T, bool, error) {
	select {
	case val, open := <-it.ch:
		if !open {
			var zero T
			return zero, false, nil
		}
		return val, true, nil
	case <-ctx.Done():
		var zero T
		return zero, false, ctx.Err()
	}
}

func (it *chanIter[T]) Close() error { return nil }

type seqIter[T any] struct {
	next func() (T, bool)
	stop func()
}

func (it *seqIter[T]) Next(_ context.Context) (T, bool, error) {
	val, ok := it.next()
	return val, ok, nil
}

func (it *seqIter[T]) Close() error {
	it.stop()
	return nil
}

type seq2Iter[T any] struct {
	next func() (T, error, bool)
	stop func()
}

func (it *seq2Iter[T]) Next(_ context.Context) (T, bool, error) {
	val, err, ok := it.next()
	if !ok {
		var zero T
		return zero, false, nil
	}
	if err != nil {
		// An error is terminal; release the producer side.
		it.stop()
		var zero T
		return zero, false, err
	}
	return val, true, nil
}

func (it *seq2Iter[T]) Close() error {
	it.stop()
	return nil
}

type funcIter[T any] struct {
	fn func(ctx context.Context) (T, bool, error)
}

func (it *funcIter[T]) Next(ctx context.Context) (T, bool, error) {
	return it.fn(ctx)
}

func (it *funcIter[T]) Close() error { return nil }
