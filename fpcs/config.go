package fpcs

import (
	"fmt"
	"log/slog"

	"github.com/oliviasaa/FPC-on-a-set/graph"
	"github.com/oliviasaa/FPC-on-a-set/opinion"
)

// Config describes one simulation run. A Config is validated once, by
// New; a constructed Engine never fails on its parameters mid-run.
type Config struct {
	// Nodes is the total node count. FaultyNodes and MaliciousNodes are
	// carved out of it; at least one honest node must remain.
	Nodes          int
	FaultyNodes    int
	MaliciousNodes int

	// OmissionRate is the probability that a faulty node stays silent
	// when queried.
	OmissionRate float64

	// Transactions and Topology describe the conflict graph. StarCenter
	// is only meaningful for graph.TopologyStar.
	Transactions int
	Topology     graph.Topology
	StarCenter   graph.TxID

	// Distribution seeds the initial opinions.
	Distribution opinion.Spec

	// SampleSize is the number of peers queried per node-transaction
	// pair each round. When it exceeds the available peers it degrades
	// to the peer count unless StrictSampling is set.
	SampleSize     int
	StrictSampling bool

	// ThresholdLow and ThresholdHigh bound the uniform range the common
	// coin draws the per-round threshold from.
	ThresholdLow  float64
	ThresholdHigh float64

	// CoolingOff is L: the number of consecutive unchanged rounds after
	// which a node-transaction pair finalizes.
	CoolingOff int

	// MaxRounds bounds the run; reaching it with active honest pairs
	// yields OutcomeTimedOut.
	MaxRounds int

	// Seed fixes all randomness of the run.
	Seed int64

	// Strategy is the malicious response strategy; nil selects
	// OppositeMajority.
	Strategy Strategy

	// ExcludeFinalizedResponders makes nodes abstain on transactions
	// they have finalized instead of answering with the frozen opinion.
	ExcludeFinalizedResponders bool

	// SetConsistency enables the elim/comp sweep that keeps every
	// node's liked set independent and maximal on the conflict graph.
	SetConsistency bool

	// RecordHistory keeps a per-round opinion snapshot in the Report.
	RecordHistory bool

	// Logger receives round progress at Debug and finalization events at
	// Info. Nil discards everything.
	Logger *slog.Logger
}

// HonestNodes returns the number of honest nodes the config describes.
func (c Config) HonestNodes() int {
	return c.Nodes - c.FaultyNodes - c.MaliciousNodes
}

// Validate rejects configurations that cannot describe a runnable
// simulation. Topology and distribution parameters are checked by their
// own constructors; New wraps those failures too.
func (c Config) Validate() error {
	if c.Nodes < 1 {
		return fmt.Errorf("%w: node count %d", ErrInvalidConfiguration, c.Nodes)
	}
	if c.FaultyNodes < 0 || c.MaliciousNodes < 0 {
		return fmt.Errorf("%w: negative faulty/malicious node count", ErrInvalidConfiguration)
	}
	if c.HonestNodes() < 1 {
		return fmt.Errorf("%w: need at least 1 honest node, got %d", ErrInvalidConfiguration, c.HonestNodes())
	}
	if c.Transactions < 1 {
		return fmt.Errorf("%w: transaction count %d", ErrInvalidConfiguration, c.Transactions)
	}
	if c.SampleSize < 1 {
		return fmt.Errorf("%w: sample size %d", ErrInvalidConfiguration, c.SampleSize)
	}
	if c.ThresholdLow < 0 || c.ThresholdHigh > 1 || c.ThresholdLow > c.ThresholdHigh {
		return fmt.Errorf("%w: threshold bounds [%v, %v]", ErrInvalidConfiguration, c.ThresholdLow, c.ThresholdHigh)
	}
	if c.CoolingOff < 1 {
		return fmt.Errorf("%w: cooling-off threshold %d", ErrInvalidConfiguration, c.CoolingOff)
	}
	if c.MaxRounds < 1 {
		return fmt.Errorf("%w: max rounds %d", ErrInvalidConfiguration, c.MaxRounds)
	}
	if c.OmissionRate < 0 || c.OmissionRate > 1 {
		return fmt.Errorf("%w: omission rate %v", ErrInvalidConfiguration, c.OmissionRate)
	}
	return nil
}
