package opinion

import (
	"github.com/oliviasaa/FPC-on-a-set/graph"
)

// Vector is one node's opinion state over every transaction of a conflict
// graph. Reads of Opinion during a round see the snapshot frozen at the
// previous round barrier; writes through Adopt land in a separate buffer
// until Commit swaps them. A Vector is owned by exactly one node and must
// only be written by that node's round evaluation.
type Vector struct {
	cur     []bool // opinions written during the current round
	last    []bool // frozen snapshot read by every peer this round
	counter []int  // consecutive rounds the opinion has been unchanged
	final   []bool // finalized pairs never update again
}

// NewVector returns a zeroed vector sized for the graph: every opinion 0,
// every counter 0, nothing finalized.
func NewVector(g *graph.ConflictGraph) *Vector {
	n := g.Count()
	return &Vector{
		cur:     make([]bool, n),
		last:    make([]bool, n),
		counter: make([]int, n),
		final:   make([]bool, n),
	}
}

// Opinion returns the opinion visible to peers this round, i.e. the
// snapshot frozen at the previous round barrier.
func (v *Vector) Opinion(tx graph.TxID) bool { return v.last[tx] }

// Counter returns the cooling-off counter for tx.
func (v *Vector) Counter(tx graph.TxID) int { return v.counter[tx] }

// Finalized reports whether the opinion on tx is permanently fixed.
func (v *Vector) Finalized(tx graph.TxID) bool { return v.final[tx] }

// SetInitial seeds the opinion on tx before the first round. Both buffers
// are set so the initial opinion is also the first visible snapshot.
func (v *Vector) SetInitial(tx graph.TxID, value bool) {
	v.cur[tx] = value
	v.last[tx] = value
	v.counter[tx] = 0
}

// Adopt records the node's end-of-round opinion on tx. An unchanged
// opinion increments the cooling-off counter, a flip resets it to 0.
// Finalized pairs are left untouched.
func (v *Vector) Adopt(tx graph.TxID, value bool) {
	if v.final[tx] {
		return
	}
	if value == v.last[tx] {
		v.counter[tx]++
	} else {
		v.counter[tx] = 0
	}
	v.cur[tx] = value
}

// Finalize freezes the opinion on tx at its current written value.
func (v *Vector) Finalize(tx graph.TxID) {
	v.final[tx] = true
}

// Commit is the round barrier for this vector: the opinions written
// during the round become the snapshot visible in the next one.
func (v *Vector) Commit() {
	copy(v.last, v.cur)
}

// AllFinalized reports whether every pair of this vector is finalized.
func (v *Vector) AllFinalized() bool {
	for _, f := range v.final {
		if !f {
			return false
		}
	}
	return true
}

// Opinions returns a copy of the currently visible snapshot.
func (v *Vector) Opinions() []bool {
	out := make([]bool, len(v.last))
	copy(out, v.last)
	return out
}
