package timeout

import (
	"bufio"
	"errors"
	"fmt"
	"iter"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	iterrors "github.com/kbukum/iterkit/errors"
	"github.com/kbukum/iterkit/iterator"
)

// scanLines yields the lines of s the way a blocking reader would, one read
// per line, failing on lines equal to "bad".
func scanLines(s string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		scanner := bufio.NewScanner(strings.NewReader(s))
		for scanner.Scan() {
			line := scanner.Text()
			if line == "bad" {
				yield("", fmt.Errorf("unreadable line %q", line))
				return
			}
			if !yield(line, nil) {
				return
			}
		}
	}
}

// delayed yields items with a fixed production delay before each one.
func delayed[T any](d time.Duration, items ...T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range items {
			time.Sleep(d)
			if !yield(item) {
				return
			}
		}
	}
}

func TestIterates(t *testing.T) {
	it, err := FromSeq2(scanLines("1\n2\n3\n4\n5"))
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()

	for _, want := range []string{"1", "2", "3", "4", "5"} {
		got, ok := it.Next()
		if !ok {
			t.Fatalf("unexpected end before %q", want)
		}
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
	if _, ok := it.Next(); ok {
		t.Error("expected end after 5 items")
	}
}

func TestNextTimeout_AfterExhaustion(t *testing.T) {
	it, err := FromSeq(values(1, 2))
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()

	it.Next()
	it.Next()
	if _, ok := it.Next(); ok {
		t.Fatal("expected end")
	}
	_, terr := it.NextTimeout(time.Second)
	if !iterrors.IsDisconnected(terr) {
		t.Errorf("expected disconnected, got %v", terr)
	}
}

func TestPeekDoesntRemove(t *testing.T) {
	it, err := FromSeq2(scanLines("1\n2\n3\n4\n5"))
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()

	mustNext(t, it, "1")
	mustNext(t, it, "2")
	if got, ok := it.Peek(); !ok || got != "3" {
		t.Fatalf("Peek: got %q ok=%v, want 3", got, ok)
	}
	mustNext(t, it, "3")
	mustNext(t, it, "4")
	if got, ok := it.Peek(); !ok || got != "5" {
		t.Fatalf("Peek: got %q ok=%v, want 5", got, ok)
	}
	if got, ok := it.Peek(); !ok || got != "5" {
		t.Fatalf("repeated Peek: got %q ok=%v, want 5", got, ok)
	}
	mustNext(t, it, "5")

	if _, terr := it.NextTimeout(50 * time.Millisecond); terr == nil {
		t.Error("expected failure after exhaustion")
	}
}

func TestPeekTimeoutDoesntRemove(t *testing.T) {
	it, err := FromSeq2(scanLines("1\n2\n3"))
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()

	mustNext(t, it, "1")
	if got, terr := it.PeekTimeout(time.Second); terr != nil || got != "2" {
		t.Fatalf("PeekTimeout: got %q err=%v", got, terr)
	}
	if got, terr := it.PeekTimeout(time.Second); terr != nil || got != "2" {
		t.Fatalf("repeated PeekTimeout: got %q err=%v", got, terr)
	}
	mustNext(t, it, "2")
	mustNext(t, it, "3")
}

func TestDelayedProducerScenario(t *testing.T) {
	unit := 100 * time.Millisecond
	it, err := FromSeq(delayed(unit, 1, 2, 3, 4, 5))
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()

	if got, ok := it.Next(); !ok || got != 1 {
		t.Fatalf("first Next: got %d ok=%v", got, ok)
	}

	// Immediately after a successful next, half a production delay must
	// not be enough.
	if _, terr := it.NextTimeout(unit / 2); !iterrors.IsTimeout(terr) {
		t.Fatalf("expected timeout, got %v", terr)
	}

	// Past the production delay the next item is there, and the timed-out
	// call must not have skipped it.
	got, terr := it.NextTimeout(2 * unit)
	if terr != nil {
		t.Fatalf("expected item 2, got error %v", terr)
	}
	if got != 2 {
		t.Errorf("got %d, want 2", got)
	}

	for want := 3; want <= 5; want++ {
		got, ok := it.Next()
		if !ok || got != want {
			t.Fatalf("Next: got %d ok=%v, want %d", got, ok, want)
		}
	}

	if _, terr := it.NextTimeout(2 * unit); !iterrors.IsDisconnected(terr) {
		t.Errorf("after exhaustion expected disconnected, got %v", terr)
	}
}

func TestTimeoutNonDestructive(t *testing.T) {
	unit := 80 * time.Millisecond
	it, err := FromSeq(delayed(unit, 1, 2, 3))
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()

	if got, ok := it.Next(); !ok || got != 1 {
		t.Fatalf("first Next: got %d ok=%v", got, ok)
	}
	if _, terr := it.NextTimeout(unit / 8); !iterrors.IsTimeout(terr) {
		t.Fatalf("expected timeout, got %v", terr)
	}
	// Unbounded calls still see every item in order.
	if got, ok := it.Next(); !ok || got != 2 {
		t.Errorf("after timeout: got %d ok=%v, want 2", got, ok)
	}
	if got, ok := it.Next(); !ok || got != 3 {
		t.Errorf("after timeout: got %d ok=%v, want 3", got, ok)
	}
}

func TestFallibleSequenceStopsAtError(t *testing.T) {
	it, err := FromSeq2(scanLines("1\n2\nbad\n4"))
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()

	mustNext(t, it, "1")
	mustNext(t, it, "2")
	if got, ok := it.Next(); ok {
		t.Fatalf("expected end at producer error, got %q", got)
	}
	if _, terr := it.NextTimeout(50 * time.Millisecond); !iterrors.IsDisconnected(terr) {
		t.Errorf("expected disconnected, got %v", terr)
	}
	if cause := it.Cause(); cause == nil || !strings.Contains(cause.Error(), "bad") {
		t.Errorf("expected recorded cause mentioning the bad line, got %v", cause)
	}
}

func TestCleanEndHasNoCause(t *testing.T) {
	it, err := FromSeq(values("a"))
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()

	it.Next()
	if _, ok := it.Next(); ok {
		t.Fatal("expected end")
	}
	if cause := it.Cause(); cause != nil {
		t.Errorf("clean end should have nil cause, got %v", cause)
	}
}

func TestSpawnFailure(t *testing.T) {
	exhausted := errors.New("resource temporarily unavailable")
	it, err := FromSeq(values(1, 2, 3), WithSpawner(func(string, func()) error {
		return exhausted
	}))
	if it != nil {
		t.Error("no adapter instance should exist on spawn failure")
	}
	if !iterrors.IsSpawnFailed(err) {
		t.Fatalf("expected spawn failure, got %v", err)
	}
	if !errors.Is(err, exhausted) {
		t.Errorf("spawn failure should wrap the cause, got %v", err)
	}
}

func TestTerminalStability(t *testing.T) {
	it, err := FromSeq(values(1))
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()

	it.Next()
	for i := 0; i < 3; i++ {
		if _, ok := it.Next(); ok {
			t.Fatal("exhausted iterator must stay exhausted")
		}
		if _, ok := it.Peek(); ok {
			t.Fatal("peek must not resurrect items")
		}
		if _, terr := it.NextTimeout(10 * time.Millisecond); !iterrors.IsDisconnected(terr) {
			t.Fatalf("expected disconnected, got %v", terr)
		}
		if _, terr := it.PeekTimeout(10 * time.Millisecond); !iterrors.IsDisconnected(terr) {
			t.Fatalf("expected disconnected, got %v", terr)
		}
	}
}

func TestCloseStopsRelay(t *testing.T) {
	var produced atomic.Int64
	endless := func(yield func(int) bool) {
		for i := 0; ; i++ {
			produced.Add(1)
			if !yield(i) {
				return
			}
		}
	}

	it, err := FromSeq(iter.Seq[int](endless))
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := it.Next(); !ok {
		t.Fatal("expected an item")
	}
	if err := it.Close(); err != nil {
		t.Fatal(err)
	}

	// The relay is parked on a send; Close must release it. Give it a
	// moment, then confirm production has stopped.
	time.Sleep(20 * time.Millisecond)
	after := produced.Load()
	time.Sleep(20 * time.Millisecond)
	if produced.Load() != after {
		t.Error("relay kept producing after Close")
	}

	if _, ok := it.Next(); ok {
		t.Error("closed iterator must report exhaustion")
	}
	if _, terr := it.NextTimeout(10 * time.Millisecond); !iterrors.IsDisconnected(terr) {
		t.Errorf("expected disconnected after close, got %v", terr)
	}
}

func TestCloseIdempotent(t *testing.T) {
	it, err := FromSeq(values(1))
	if err != nil {
		t.Fatal(err)
	}
	if err := it.Close(); err != nil {
		t.Fatal(err)
	}
	if err := it.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestFromChannel(t *testing.T) {
	ch := make(chan int, 3)
	ch <- 10
	ch <- 20
	close(ch)

	it, err := FromChannel(ch)
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()

	if got, terr := it.PeekTimeout(time.Second); terr != nil || got != 10 {
		t.Fatalf("PeekTimeout: got %d err=%v", got, terr)
	}
	if got, ok := it.Next(); !ok || got != 10 {
		t.Fatalf("Next: got %d ok=%v", got, ok)
	}
	if got, ok := it.Next(); !ok || got != 20 {
		t.Fatalf("Next: got %d ok=%v", got, ok)
	}
	if _, terr := it.NextTimeout(10 * time.Millisecond); !iterrors.IsDisconnected(terr) {
		t.Errorf("expected disconnected on closed channel, got %v", terr)
	}
}

func TestFromIterator(t *testing.T) {
	it, err := FromIterator(iterator.FromSlice([]string{"x", "y"}))
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()

	mustNext(t, it, "x")
	mustNext(t, it, "y")
	if _, ok := it.Next(); ok {
		t.Error("expected end")
	}
}

func TestAll(t *testing.T) {
	it, err := FromSeq(values(1, 2, 3), WithCapacity(3))
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()

	var got []int
	for v := range it.All() {
		got = append(got, v)
	}
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("got %v, want [1 2 3]", got)
	}
}

func TestBufferedCapacityLetsProducerRunAhead(t *testing.T) {
	var produced atomic.Int64
	seq := func(yield func(int) bool) {
		for i := 1; i <= 3; i++ {
			produced.Add(1)
			if !yield(i) {
				return
			}
		}
	}

	it, err := FromSeq(iter.Seq[int](seq), WithCapacity(3))
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()

	// With capacity for all items the relay finishes without any consumer pull.
	deadline := time.Now().Add(time.Second)
	for produced.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if produced.Load() != 3 {
		t.Fatalf("expected producer to run ahead, produced %d", produced.Load())
	}

	for want := 1; want <= 3; want++ {
		if got, ok := it.Next(); !ok || got != want {
			t.Fatalf("Next: got %d ok=%v, want %d", got, ok, want)
		}
	}
}

func values[T any](items ...T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range items {
			if !yield(item) {
				return
			}
		}
	}
}

func mustNext[T comparable](t *testing.T, it *Iterator[T], want T) {
	t.Helper()
	got, ok := it.Next()
	if !ok {
		t.Fatalf("unexpected end, want %v", want)
	}
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}
