package timeout

import (
	"context"
	"iter"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	iterrors "github.com/kbukum/iterkit/errors"
	"github.com/kbukum/iterkit/iterator"
	"github.com/kbukum/iterkit/logger"
)

// Iterator pulls items from a blocking producer through a background relay,
// adding bounded waits and a one-item lookahead slot.
//
// The slot holds at most one item: the item the next consumer-visible Next
// must return. It is filled only by the consumer's own Peek calls and is
// therefore unsynchronized; the relay channel is the sole synchronization
// point with the producer side.
type Iterator[T any] struct {
	source <-chan T
	slot   *T

	// done is the consumer-drop signal raced against relay sends.
	done      chan struct{}
	closeOnce sync.Once
	closed    bool

	cause atomic.Pointer[error]

	name    string
	id      string
	log     *logger.Logger
	metrics *instruments
}

// FromSeq builds an adapter over a sequence of plain items. The relay runs
// from the moment FromSeq returns; the sequence belongs to it and must not
// be consumed elsewhere. Construction fails only if the relay's execution
// unit cannot be started.
func FromSeq[T any](seq iter.Seq[T], opts ...Option) (*Iterator[T], error) {
	return FromSeq2(plain(seq), opts...)
}

// FromSeq2 builds an adapter over a fallible sequence. A yielded error
// terminates the relay after being logged: items already produced are still
// delivered, the failed slot's item is not, and the consumer then observes
// the end of the sequence. The error stays available through Cause.
func FromSeq2[T any](seq iter.Seq2[T, error], opts ...Option) (*Iterator[T], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	sink := make(chan T, o.capacity)
	it := newIterator(sink, o)

	r := &relay[T]{
		sink:    sink,
		done:    it.done,
		log:     it.log.WithComponent("relay"),
		metrics: it.metrics,
		cause:   &it.cause,
	}
	if err := o.spawn(o.name, func() { r.run(seq) }); err != nil {
		return nil, iterrors.SpawnFailed(o.name, err)
	}

	it.log.Debug("relay started", logger.Fields(logger.FieldCapacity, o.capacity))
	return it, nil
}

// FromChannel builds an adapter directly over a receive channel. The
// channel is already a pull primitive, so no relay is spawned; the sender
// signals the end of the sequence by closing the channel.
func FromChannel[T any](ch <-chan T, opts ...Option) (*Iterator[T], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newIterator(ch, o), nil
}

// FromIterator builds an adapter over an iterator.Iterator source. The
// relay owns the source, pulls from it with a background context, and
// closes it when it stops.
func FromIterator[T any](src iterator.Iterator[T], opts ...Option) (*Iterator[T], error) {
	seq := func(yield func(T, error) bool) {
		defer src.Close()
		for {
			val, ok, err := src.Next(context.Background())
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !ok {
				return
			}
			if !yield(val, nil) {
				return
			}
		}
	}
	return FromSeq2(seq, opts...)
}

func newIterator[T any](source <-chan T, o options) *Iterator[T] {
	it := &Iterator[T]{
		source: source,
		done:   make(chan struct{}),
		name:   o.name,
		id:     uuid.NewString(),
		log:    o.log.WithFields(map[string]interface{}{logger.FieldIterator: o.name}),
	}
	if o.meter != nil {
		m, err := newInstruments(o.meter, o.name, it.id)
		if err != nil {
			it.log.Warn("metrics disabled", logger.ErrorFields("instrument", err))
		} else {
			it.metrics = m
		}
	}
	return it
}

// Next returns the next item, blocking until one is available. The second
// return is false once the source is permanently exhausted, and stays false.
func (it *Iterator[T]) Next() (T, bool) {
	if it.slot != nil {
		val := *it.slot
		it.slot = nil
		return val, true
	}
	var zero T
	if it.closed {
		return zero, false
	}
	val, ok := <-it.source
	if !ok {
		return zero, false
	}
	return val, true
}

// Peek returns the next item without consuming it, blocking until one is
// available. Repeated calls with no intervening Next return the same item.
func (it *Iterator[T]) Peek() (T, bool) {
	if it.slot == nil {
		val, ok := it.Next()
		if !ok {
			var zero T
			return zero, false
		}
		it.slot = &val
	}
	it.metrics.addPeek()
	return *it.slot, true
}

// NextTimeout returns the next item, waiting at most d. It fails with
// errors.ErrTimeout when the wait elapses first and errors.ErrDisconnected
// once the source is exhausted. A timed-out call leaves the adapter
// untouched: the select either receives or observes the timer, never both,
// so the item that eventually arrives is returned by a later call.
func (it *Iterator[T]) NextTimeout(d time.Duration) (T, error) {
	if it.slot != nil {
		val := *it.slot
		it.slot = nil
		return val, nil
	}
	return it.receiveTimeout(d, "next_timeout")
}

// PeekTimeout returns the next item without consuming it, waiting at most
// d. Error classification matches NextTimeout. An item received within the
// deadline is committed to the lookahead slot in the same select step.
func (it *Iterator[T]) PeekTimeout(d time.Duration) (T, error) {
	if it.slot == nil {
		val, err := it.receiveTimeout(d, "peek_timeout")
		if err != nil {
			return val, err
		}
		it.slot = &val
	}
	it.metrics.addPeek()
	return *it.slot, nil
}

func (it *Iterator[T]) receiveTimeout(d time.Duration, op string) (T, error) {
	var zero T
	if it.closed {
		return zero, iterrors.Disconnected(op)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case val, ok := <-it.source:
		if !ok {
			return zero, iterrors.Disconnected(op)
		}
		return val, nil
	case <-timer.C:
		it.metrics.addTimeout()
		return zero, iterrors.Timeout(op)
	}
}

// All returns a range-over-func view that drains the remaining items with
// unbounded waits.
func (it *Iterator[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			val, ok := it.Next()
			if !ok {
				return
			}
			if !yield(val) {
				return
			}
		}
	}
}

// Close signals the relay that the consumer is gone and releases the
// lookahead slot. It is idempotent; all calls after Close report
// disconnection.
func (it *Iterator[T]) Close() error {
	it.closeOnce.Do(func() {
		it.closed = true
		it.slot = nil
		close(it.done)
		it.log.Debug("iterator closed")
	})
	return nil
}

// Cause reports the producer error that terminated the sequence, if any.
// It is meaningful once the iterator reports disconnection; a clean end
// returns nil.
func (it *Iterator[T]) Cause() error {
	if p := it.cause.Load(); p != nil {
		return *p
	}
	return nil
}

// Name returns the configured adapter name.
func (it *Iterator[T]) Name() string { return it.name }

// ID returns the adapter's unique instance tag, as used in logs and metric
// attributes.
func (it *Iterator[T]) ID() string { return it.id }
