package worker_test

import (
	"errors"
	"sort"
	"strconv"
	"testing"

	"github.com/aptiprep/backend/internal/worker"
)

func TestPoolRunsEveryJob(t *testing.T) {
	p := worker.NewPool[int](3, 10)

	done := make(chan []int)
	go func() {
		var got []int
		for r := range p.Results() {
			got = append(got, r.Output)
		}
		done <- got
	}()

	for i := 0; i < 20; i++ {
		n := i
		if err := p.Submit(strconv.Itoa(n), func() int { return n * n }); err != nil {
			t.Fatalf("submit %d: %v", n, err)
		}
	}
	p.Close()

	got := <-done
	if len(got) != 20 {
		t.Fatalf("expected 20 results, got %d", len(got))
	}
	sort.Ints(got)
	if got[19] != 361 {
		t.Errorf("largest result = %d, want 361", got[19])
	}
}

func TestSubmitAfterClose(t *testing.T) {
	p := worker.NewPool[struct{}](1, 1)
	p.Close()
	p.Close()

	err := p.Submit("late", func() struct{} { return struct{}{} })
	if !errors.Is(err, worker.ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}
