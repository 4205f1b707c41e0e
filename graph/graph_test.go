package graph

import (
	"errors"
	"testing"
)

func TestNewComplete_ConflictSets(t *testing.T) {
	g, err := NewComplete(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Count() != 4 {
		t.Fatalf("expected 4 transactions, got %d", g.Count())
	}
	for _, tx := range g.Transactions() {
		set := g.ConflictSet(tx)
		if len(set) != 4 {
			t.Fatalf("tx %d: expected conflict set of 4, got %d", tx, len(set))
		}
	}
	if !g.Conflicts(0, 3) {
		t.Fatal("expected 0 and 3 to conflict in a complete graph")
	}
	if g.Conflicts(2, 2) {
		t.Fatal("a transaction must not conflict with itself")
	}
}

func TestNewStar_ConflictSets(t *testing.T) {
	g, err := NewStar(5, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(g.ConflictSet(2)); got != 5 {
		t.Fatalf("center conflict set: expected 5, got %d", got)
	}
	leaf := g.ConflictSet(4)
	if len(leaf) != 2 {
		t.Fatalf("leaf conflict set: expected 2, got %d", len(leaf))
	}
	if !g.Conflicts(4, 2) || !g.Conflicts(2, 0) {
		t.Fatal("expected every leaf to conflict with the center")
	}
	if g.Conflicts(1, 4) {
		t.Fatal("leaves must not conflict with each other")
	}
}

func TestNewStar_TooFewTransactions(t *testing.T) {
	_, err := NewStar(1, 0)
	if !errors.Is(err, ErrInvalidTopology) {
		t.Fatalf("expected ErrInvalidTopology, got %v", err)
	}
}

func TestNewStar_MissingCenter(t *testing.T) {
	_, err := NewStar(3, 7)
	if !errors.Is(err, ErrInvalidTopology) {
		t.Fatalf("expected ErrInvalidTopology, got %v", err)
	}
}

func TestNewComplete_Empty(t *testing.T) {
	_, err := NewComplete(0)
	if !errors.Is(err, ErrInvalidTopology) {
		t.Fatalf("expected ErrInvalidTopology, got %v", err)
	}
}

func TestConflictsAny(t *testing.T) {
	g, err := NewStar(4, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	liked := map[TxID]bool{1: true, 3: true}
	if g.ConflictsAny(2, func(tx TxID) bool { return liked[tx] }) {
		t.Fatal("leaf 2 should not conflict with liked leaves")
	}
	if !g.ConflictsAny(0, func(tx TxID) bool { return liked[tx] }) {
		t.Fatal("center should conflict with any liked leaf")
	}
}
