package fpcs

import (
	"math/rand"
	"testing"

	"github.com/oliviasaa/FPC-on-a-set/graph"
	"github.com/oliviasaa/FPC-on-a-set/opinion"
)

func singleTxVector(t *testing.T, op bool) *opinion.Vector {
	t.Helper()
	g, err := graph.NewComplete(1)
	if err != nil {
		t.Fatalf("building graph: %v", err)
	}
	v := opinion.NewVector(g)
	v.SetInitial(0, op)
	return v
}

func TestHonestBehavior_RespondsWithOpinion(t *testing.T) {
	v := singleTxVector(t, true)
	b := honestBehavior{vec: v}
	op, ok := b.Respond(0, nil, nil)
	if !ok || !op {
		t.Fatalf("expected (1, ok), got (%v, %v)", op, ok)
	}
}

func TestHonestBehavior_FinalizedStillResponds(t *testing.T) {
	v := singleTxVector(t, true)
	v.Finalize(0)
	b := honestBehavior{vec: v}
	if _, ok := b.Respond(0, nil, nil); !ok {
		t.Fatal("finalized node must respond with its frozen opinion by default")
	}

	excl := honestBehavior{vec: v, excludeFinalized: true}
	if _, ok := excl.Respond(0, nil, nil); ok {
		t.Fatal("expected abstention when finalized responders are excluded")
	}
}

func TestFaultyBehavior_Omission(t *testing.T) {
	v := singleTxVector(t, true)
	rng := rand.New(rand.NewSource(1))

	silent := faultyBehavior{honest: honestBehavior{vec: v}, omission: 1}
	if _, ok := silent.Respond(0, nil, rng); ok {
		t.Fatal("omission rate 1 must always abstain")
	}

	reliable := faultyBehavior{honest: honestBehavior{vec: v}, omission: 0}
	op, ok := reliable.Respond(0, nil, rng)
	if !ok || !op {
		t.Fatalf("omission rate 0 must answer honestly, got (%v, %v)", op, ok)
	}
}

func TestOppositeMajority_RespondsWithMinority(t *testing.T) {
	s := OppositeMajority{}
	op, ok := s.Respond(0, &View{ones: []int{7}, total: 10})
	if !ok || op {
		t.Fatalf("with a 1-majority expected answer 0, got (%v, %v)", op, ok)
	}
	op, ok = s.Respond(0, &View{ones: []int{2}, total: 10})
	if !ok || !op {
		t.Fatalf("with a 0-majority expected answer 1, got (%v, %v)", op, ok)
	}
	// Exact tie answers 0.
	if op, _ := s.Respond(0, &View{ones: []int{5}, total: 10}); op {
		t.Fatal("tie must answer 0")
	}
}
