package iterator

import (
	"context"
	"errors"
	"iter"
	"testing"
)

func TestFromSlice_Collect(t *testing.T) {
	it := FromSlice([]int{1, 2, 3})
	got, err := Collect(context.Background(), it)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{1, 2, 3}
	if !intSliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFromSlice_Empty(t *testing.T) {
	it := FromSlice([]int{})
	got, err := Collect(context.Background(), it)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}

func TestFromChannel(t *testing.T) {
	ch := make(chan string, 3)
	ch <- "a"
	ch <- "b"
	close(ch)

	it := FromChannel(ch)
	got, err := Collect(context.Background(), it)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("got %v, want [a b]", got)
	}
}

func TestFromChannel_ContextCancelled(t *testing.T) {
	ch := make(chan int)
	it := FromChannel(ch)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := it.Next(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestFromSeq(t *testing.T) {
	seq := func(yield func(int) bool) {
		for _, n := range []int{1, 2, 3} {
			if !yield(n) {
				return
			}
		}
	}
	it := FromSeq(iter.Seq[int](seq))
	got, err := Collect(context.Background(), it)
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{1, 2, 3}) {
		t.Errorf("got %v, want [1 2 3]", got)
	}
}

func TestFromSeq2_ErrorStops(t *testing.T) {
	boom := errors.New("boom")
	seq := func(yield func(string, error) bool) {
		if !yield("1", nil) {
			return
		}
		if !yield("", boom) {
			return
		}
		yield("3", nil)
	}
	it := FromSeq2(iter.Seq2[string, error](seq))
	got, err := Collect(context.Background(), it)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(got) != 1 || got[0] != "1" {
		t.Errorf("expected [1] before error, got %v", got)
	}
}

func TestFromFunc(t *testing.T) {
	n := 0
	it := FromFunc(func(_ context.Context) (int, bool, error) {
		if n >= 3 {
			return 0, false, nil
		}
		n++
		return n, true, nil
	})
	got, err := Collect(context.Background(), it)
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{1, 2, 3}) {
		t.Errorf("got %v, want [1 2 3]", got)
	}
}

func TestForEach(t *testing.T) {
	it := FromSlice([]int{1, 2, 3})
	var sum int
	err := ForEach(context.Background(), it, func(_ context.Context, n int) error {
		sum += n
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if sum != 6 {
		t.Errorf("got sum %d, want 6", sum)
	}
}

func TestForEach_SinkError(t *testing.T) {
	it := FromSlice([]int{1, 2, 3})
	bad := errors.New("sink full")
	err := ForEach(context.Background(), it, func(_ context.Context, n int) error {
		if n == 2 {
			return bad
		}
		return nil
	})
	if !errors.Is(err, bad) {
		t.Errorf("expected sink error, got %v", err)
	}
}

func intSliceEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
