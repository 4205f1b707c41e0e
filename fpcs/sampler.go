package fpcs

import (
	"fmt"
	"math/rand"
)

// QuerySampler selects the peers a node queries, without replacement and
// excluding the querier itself. The effective sample size is
// min(requested, nodes-1); requesting more than the available peers is
// only an error when degradation is disabled, and that is detected at
// construction since the node set is static.
type QuerySampler struct {
	nodes int
	size  int
}

func newQuerySampler(nodes, size int, strict bool) (*QuerySampler, error) {
	if strict && size > nodes-1 {
		return nil, fmt.Errorf("%w: sample size %d with only %d peers", ErrInsufficientPeers, size, nodes-1)
	}
	if size > nodes-1 {
		size = nodes - 1
	}
	return &QuerySampler{nodes: nodes, size: size}, nil
}

// Size returns the effective sample size.
func (s *QuerySampler) Size() int { return s.size }

// Sample draws the peer set for one query, consuming rng. The draw is a
// partial Fisher-Yates shuffle over all peers except self.
func (s *QuerySampler) Sample(self int, rng *rand.Rand) []int {
	peers := make([]int, 0, s.nodes-1)
	for i := 0; i < s.nodes; i++ {
		if i != self {
			peers = append(peers, i)
		}
	}
	for i := 0; i < s.size; i++ {
		j := i + rng.Intn(len(peers)-i)
		peers[i], peers[j] = peers[j], peers[i]
	}
	return peers[:s.size]
}
