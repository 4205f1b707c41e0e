package fpcs

import (
	"fmt"
	"math/rand"

	"github.com/oliviasaa/FPC-on-a-set/graph"
	"github.com/oliviasaa/FPC-on-a-set/opinion"
)

// BehaviorKind tags a node's response policy for the whole run.
type BehaviorKind int

const (
	KindHonest BehaviorKind = iota
	KindFaulty
	KindMalicious
)

func (k BehaviorKind) String() string {
	switch k {
	case KindHonest:
		return "honest"
	case KindFaulty:
		return "faulty"
	case KindMalicious:
		return "malicious"
	}
	return fmt.Sprintf("behavior(%d)", int(k))
}

// View is the complete vision a malicious node gets: per-transaction
// tallies over the opinions frozen at the previous round barrier. It is
// rebuilt once per round and read-only afterwards, so concurrent node
// evaluations can share it.
type View struct {
	ones  []int
	total int
}

// Tally returns how many opinion-holding nodes currently like tx, and
// how many there are in total.
func (v *View) Tally(tx graph.TxID) (ones, total int) {
	return v.ones[tx], v.total
}

// Behavior answers a peer's query about a transaction. ok=false is an
// abstention: the querier excludes it from the tally rather than
// counting it as 0 or 1. rng is the querier's stream, which keeps
// response draws deterministic under parallel evaluation.
type Behavior interface {
	Respond(tx graph.TxID, view *View, rng *rand.Rand) (op bool, ok bool)
}

// honestBehavior answers with the node's frozen previous-round opinion.
// With excludeFinalized set the node abstains on pairs it has finalized.
type honestBehavior struct {
	vec              *opinion.Vector
	excludeFinalized bool
}

func (b honestBehavior) Respond(tx graph.TxID, _ *View, _ *rand.Rand) (bool, bool) {
	if b.excludeFinalized && b.vec.Finalized(tx) {
		return false, false
	}
	return b.vec.Opinion(tx), true
}

// faultyBehavior models crash/omission faults: silent with probability
// omission, otherwise honest. Corruption of answers is not modeled.
type faultyBehavior struct {
	honest   honestBehavior
	omission float64
}

func (b faultyBehavior) Respond(tx graph.TxID, view *View, rng *rand.Rand) (bool, bool) {
	if rng.Float64() < b.omission {
		return false, false
	}
	return b.honest.Respond(tx, view, rng)
}

// Strategy decides a malicious node's answers. Strategies see the full
// frozen prior-round snapshot through the View, never any in-progress
// update. New strategies plug in without touching the engine.
type Strategy interface {
	Name() string
	Respond(tx graph.TxID, view *View) (op bool, ok bool)
}

type maliciousBehavior struct {
	strategy Strategy
}

func (b maliciousBehavior) Respond(tx graph.TxID, view *View, _ *rand.Rand) (bool, bool) {
	return b.strategy.Respond(tx, view)
}

// OppositeMajority answers with the opinion currently held by the
// minority, maximizing disagreement pressure. An exact tie answers 0.
type OppositeMajority struct{}

func (OppositeMajority) Name() string { return "opposite-majority" }

func (OppositeMajority) Respond(tx graph.TxID, view *View) (bool, bool) {
	ones, total := view.Tally(tx)
	return ones*2 < total, true
}
