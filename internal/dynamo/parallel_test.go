package dynamo

import (
	"context"
	"math"
	"sync/atomic"
	"testing"
)

func TestEnsemble_IndependentRuns(t *testing.T) {
	factory := func() *Simulator {
		s := New(&decay{k: 1}, midpointStep{}, nil)
		s.AddMetric(&testMetric{})
		return s
	}
	ens := NewEnsemble(factory, 8, 100)

	results, err := ens.Run(context.Background(), func(run int, seed int64) State {
		return State{float64(run)}
	}, Config{Dt: 0.01, Duration: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 8 {
		t.Fatalf("got %d results, want 8", len(results))
	}

	for i, r := range results {
		x, _ := r.Final()
		want := float64(i) * math.Exp(-1)
		if math.Abs(x[0]-want) > 1e-4 {
			t.Errorf("run %d final = %v, want %v", i, x[0], want)
		}
		if r.StepsTaken != 100 {
			t.Errorf("run %d took %d steps", i, r.StepsTaken)
		}
	}
}

func TestEnsemble_PropagatesErrors(t *testing.T) {
	ens := NewEnsemble(func() *Simulator { return New(&decay{k: 1}, eulerStep{}, nil) }, 3, 0)
	_, err := ens.Run(context.Background(), func(run int, seed int64) State {
		if run == 1 {
			return State{1, 2}
		}
		return State{1}
	}, Config{Dt: 0.1, Duration: 1})
	if err == nil {
		t.Error("expected the dimension error of run 1")
	}
}

func TestParallelFor_CoversRange(t *testing.T) {
	for _, n := range []int{0, 1, 7, 100, 1001} {
		hits := make([]int32, n)
		ParallelFor(n, 4, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Errorf("n=%d: index %d visited %d times", n, i, h)
			}
		}
	}
}
