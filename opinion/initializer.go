package opinion

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/oliviasaa/FPC-on-a-set/graph"
)

// ErrInvalidDistribution is returned when a distribution's parameters do
// not fit the node set.
var ErrInvalidDistribution = errors.New("invalid distribution")

// Distribution selects the initial-opinion policy.
type Distribution int

const (
	// DistUniform draws every node's opinion on every transaction
	// independently and uniformly from {0, 1}.
	DistUniform Distribution = iota
	// DistConcentrated forces the K lowest-indexed nodes to Value on
	// every transaction; the remaining nodes draw uniformly.
	DistConcentrated
	// DistBalanced partitions the nodes as evenly as possible across the
	// transactions, each group seeding a like on its transaction, and
	// completes every node's liked set greedily to a maximal
	// conflict-free set.
	DistBalanced
)

func (d Distribution) String() string {
	switch d {
	case DistUniform:
		return "uniform"
	case DistConcentrated:
		return "concentrated"
	case DistBalanced:
		return "balanced"
	}
	return fmt.Sprintf("distribution(%d)", int(d))
}

// Spec is a distribution together with its parameters. K and Value are
// only meaningful for DistConcentrated.
type Spec struct {
	Kind  Distribution
	K     int
	Value bool
}

// Initialize seeds one Vector per node according to the distribution.
// Cooling-off counters start at 0 and the visible snapshot equals the
// initial opinion. The draws consume rng left to right over nodes and
// transactions, so a fixed rng yields a fixed seeding.
func Initialize(g *graph.ConflictGraph, spec Spec, nodes int, rng *rand.Rand) ([]*Vector, error) {
	if nodes < 1 {
		return nil, fmt.Errorf("%w: need at least 1 node, got %d", ErrInvalidDistribution, nodes)
	}
	vectors := make([]*Vector, nodes)
	for i := range vectors {
		vectors[i] = NewVector(g)
	}

	switch spec.Kind {
	case DistUniform:
		for _, v := range vectors {
			uniformFill(g, v, rng)
		}
	case DistConcentrated:
		if spec.K < 0 || spec.K > nodes {
			return nil, fmt.Errorf("%w: concentrated k=%d out of range for %d nodes", ErrInvalidDistribution, spec.K, nodes)
		}
		for i, v := range vectors {
			if i < spec.K {
				for _, tx := range g.Transactions() {
					v.SetInitial(tx, spec.Value)
				}
			} else {
				uniformFill(g, v, rng)
			}
		}
	case DistBalanced:
		balancedFill(g, vectors)
	default:
		return nil, fmt.Errorf("%w: unknown distribution %d", ErrInvalidDistribution, int(spec.Kind))
	}
	return vectors, nil
}

func uniformFill(g *graph.ConflictGraph, v *Vector, rng *rand.Rand) {
	for _, tx := range g.Transactions() {
		v.SetInitial(tx, rng.Intn(2) == 1)
	}
}

// balancedFill assigns node i a seeded like on transaction i modulo a
// near-even partition, then completes each liked set to a maximal
// conflict-free set in ascending transaction order.
func balancedFill(g *graph.ConflictGraph, vectors []*Vector) {
	txs := g.Transactions()
	group := len(vectors) / len(txs)
	remainder := len(vectors) - group*len(txs)

	node := 0
	for i, tx := range txs {
		size := group
		if i < remainder {
			size++
		}
		for j := 0; j < size && node < len(vectors); j++ {
			seedLikedSet(g, vectors[node], tx)
			node++
		}
	}
	// Leftover nodes (more nodes than partition slots only happens when
	// txs > nodes) seed the first transaction.
	for ; node < len(vectors); node++ {
		seedLikedSet(g, vectors[node], txs[0])
	}
}

// seedLikedSet likes seed, then adds every later transaction that does
// not conflict with the liked set built so far.
func seedLikedSet(g *graph.ConflictGraph, v *Vector, seed graph.TxID) {
	liked := make(map[graph.TxID]bool, g.Count())
	liked[seed] = true
	v.SetInitial(seed, true)
	for _, tx := range g.Transactions() {
		if tx == seed {
			continue
		}
		if !g.ConflictsAny(tx, func(other graph.TxID) bool { return liked[other] }) {
			liked[tx] = true
			v.SetInitial(tx, true)
		} else {
			v.SetInitial(tx, false)
		}
	}
}
