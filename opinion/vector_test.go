package opinion

import (
	"testing"

	"github.com/oliviasaa/FPC-on-a-set/graph"
)

func mustComplete(t *testing.T, txs int) *graph.ConflictGraph {
	t.Helper()
	g, err := graph.NewComplete(txs)
	if err != nil {
		t.Fatalf("building graph: %v", err)
	}
	return g
}

func TestVector_CounterMonotonicity(t *testing.T) {
	g := mustComplete(t, 1)
	v := NewVector(g)
	v.SetInitial(0, true)

	// Unchanged opinion increments the counter by exactly 1 per round.
	for round := 1; round <= 3; round++ {
		v.Adopt(0, true)
		if v.Counter(0) != round {
			t.Fatalf("round %d: expected counter %d, got %d", round, round, v.Counter(0))
		}
		v.Commit()
	}

	// A flip resets it to 0.
	v.Adopt(0, false)
	if v.Counter(0) != 0 {
		t.Fatalf("expected counter reset on flip, got %d", v.Counter(0))
	}
}

func TestVector_DoubleBuffering(t *testing.T) {
	g := mustComplete(t, 1)
	v := NewVector(g)
	v.SetInitial(0, false)

	v.Adopt(0, true)
	if v.Opinion(0) {
		t.Fatal("adopted opinion must not be visible before Commit")
	}
	v.Commit()
	if !v.Opinion(0) {
		t.Fatal("adopted opinion must be visible after Commit")
	}
}

func TestVector_FinalizedNeverUpdates(t *testing.T) {
	g := mustComplete(t, 2)
	v := NewVector(g)
	v.SetInitial(0, true)
	v.Finalize(0)

	v.Adopt(0, false)
	v.Commit()
	if !v.Opinion(0) {
		t.Fatal("finalized opinion changed")
	}
	if v.Counter(0) != 0 {
		t.Fatalf("finalized counter changed: %d", v.Counter(0))
	}
	if v.AllFinalized() {
		t.Fatal("vector with an active pair reported AllFinalized")
	}
	v.Adopt(1, false)
	v.Finalize(1)
	if !v.AllFinalized() {
		t.Fatal("expected AllFinalized after finalizing every pair")
	}
}
