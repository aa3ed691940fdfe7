package timeout

import (
	"iter"
	"sync/atomic"

	"github.com/kbukum/iterkit/logger"
)

// relay moves items from a producer it exclusively owns into the adapter's
// channel. It runs on its own execution unit from construction until the
// producer ends, the producer yields an error, or the consumer is gone.
//
// The relay cannot observe consumer liveness directly; the done channel,
// closed by Iterator.Close, is raced against every send for that purpose.
type relay[T any] struct {
	sink    chan<- T
	done    <-chan struct{}
	log     *logger.Logger
	metrics *instruments
	cause   *atomic.Pointer[error]
}

// run forwards the sequence until a terminal condition, then closes the
// sink so that pending and future receives observe disconnection instead
// of blocking forever. A yielded error is logged and recorded as the
// terminal cause; the consumer just sees the end of the sequence.
func (r *relay[T]) run(seq iter.Seq2[T, error]) {
	defer close(r.sink)

	var sent int64
	for item, err := range seq {
		if err != nil {
			r.cause.Store(&err)
			r.log.Error("error reading from source, stopping relay",
				logger.ErrorFields("relay", err))
			return
		}
		select {
		case r.sink <- item:
			sent++
			r.metrics.addItem()
		case <-r.done:
			r.log.Debug("consumer gone, stopping relay",
				logger.Fields(logger.FieldItems, sent))
			return
		}
	}
	r.log.Debug("source exhausted, stopping relay",
		logger.Fields(logger.FieldItems, sent))
}

// plain converts an infallible sequence to the fallible form run expects.
func plain[T any](seq iter.Seq[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for item := range seq {
			if !yield(item, nil) {
				return
			}
		}
	}
}
