package graph

import (
	"errors"
	"fmt"
)

// ErrInvalidTopology is returned when a conflict graph cannot be built
// from the requested topology parameters.
var ErrInvalidTopology = errors.New("invalid topology")

// TxID identifies a transaction within a conflict graph. Transactions are
// numbered from 0 up to Count()-1.
type TxID int

// Topology selects the shape of the conflict relation.
type Topology int

const (
	// TopologyComplete makes every transaction conflict with every other.
	TopologyComplete Topology = iota
	// TopologyStar makes a single center transaction conflict with all
	// others, while the non-central transactions are pairwise compatible.
	TopologyStar
)

func (t Topology) String() string {
	switch t {
	case TopologyComplete:
		return "complete"
	case TopologyStar:
		return "star"
	}
	return fmt.Sprintf("topology(%d)", int(t))
}

// ConflictGraph is the immutable conflict relation over a fixed set of
// transactions. All methods are safe for concurrent use.
type ConflictGraph struct {
	topology Topology
	count    int
	center   TxID
	sets     [][]TxID // conflict set per transaction, including itself
}

// NewComplete builds a complete conflict graph over txCount transactions.
func NewComplete(txCount int) (*ConflictGraph, error) {
	if txCount < 1 {
		return nil, fmt.Errorf("%w: complete graph needs at least 1 transaction, got %d", ErrInvalidTopology, txCount)
	}
	g := &ConflictGraph{topology: TopologyComplete, count: txCount}
	all := make([]TxID, txCount)
	for i := range all {
		all[i] = TxID(i)
	}
	g.sets = make([][]TxID, txCount)
	for i := range g.sets {
		g.sets[i] = all
	}
	return g, nil
}

// NewStar builds a star conflict graph over txCount transactions with the
// given center. A star needs at least 2 transactions and an existing center.
func NewStar(txCount int, center TxID) (*ConflictGraph, error) {
	if txCount < 2 {
		return nil, fmt.Errorf("%w: star graph needs at least 2 transactions, got %d", ErrInvalidTopology, txCount)
	}
	if center < 0 || int(center) >= txCount {
		return nil, fmt.Errorf("%w: star center %d does not exist among %d transactions", ErrInvalidTopology, center, txCount)
	}
	g := &ConflictGraph{topology: TopologyStar, count: txCount, center: center}
	all := make([]TxID, txCount)
	for i := range all {
		all[i] = TxID(i)
	}
	g.sets = make([][]TxID, txCount)
	for i := range g.sets {
		if TxID(i) == center {
			g.sets[i] = all
		} else {
			g.sets[i] = []TxID{TxID(i), center}
		}
	}
	return g, nil
}

// New builds a conflict graph of the given topology. The center argument
// is only meaningful for TopologyStar.
func New(topology Topology, txCount int, center TxID) (*ConflictGraph, error) {
	switch topology {
	case TopologyComplete:
		return NewComplete(txCount)
	case TopologyStar:
		return NewStar(txCount, center)
	}
	return nil, fmt.Errorf("%w: unknown topology %d", ErrInvalidTopology, int(topology))
}

// Count returns the number of transactions in the graph.
func (g *ConflictGraph) Count() int { return g.count }

// Topology returns the topology the graph was built with.
func (g *ConflictGraph) Topology() Topology { return g.topology }

// Center returns the center transaction of a star graph. For a complete
// graph it returns 0.
func (g *ConflictGraph) Center() TxID { return g.center }

// Transactions returns all transaction ids in ascending order.
func (g *ConflictGraph) Transactions() []TxID {
	all := make([]TxID, g.count)
	for i := range all {
		all[i] = TxID(i)
	}
	return all
}

// ConflictSet returns every transaction mutually exclusive with tx,
// including tx itself. The returned slice must not be modified.
func (g *ConflictGraph) ConflictSet(tx TxID) []TxID {
	return g.sets[tx]
}

// Conflicts reports whether a and b are mutually exclusive. A transaction
// does not conflict with itself.
func (g *ConflictGraph) Conflicts(a, b TxID) bool {
	if a == b {
		return false
	}
	switch g.topology {
	case TopologyComplete:
		return true
	case TopologyStar:
		return a == g.center || b == g.center
	}
	return false
}

// ConflictsAny reports whether tx conflicts with any transaction for
// which liked returns true, ignoring tx itself.
func (g *ConflictGraph) ConflictsAny(tx TxID, liked func(TxID) bool) bool {
	for _, other := range g.sets[tx] {
		if other == tx {
			continue
		}
		if liked(other) {
			return true
		}
	}
	return false
}
