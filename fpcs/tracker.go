package fpcs

import (
	"fmt"

	"github.com/google/uuid"
)

// Outcome is the global state of a run. A completed run always reports
// Converged, Disagreed or TimedOut; there is no silent failure state.
type Outcome int

const (
	OutcomeRunning Outcome = iota
	// OutcomeConverged: every honest pair finalized and the honest nodes
	// hold identical opinions on every transaction.
	OutcomeConverged
	// OutcomeDisagreed: every honest pair finalized without unanimity.
	OutcomeDisagreed
	// OutcomeTimedOut: the round bound was reached with active pairs.
	OutcomeTimedOut
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRunning:
		return "running"
	case OutcomeConverged:
		return "converged"
	case OutcomeDisagreed:
		return "disagreed"
	case OutcomeTimedOut:
		return "timed out"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// RoundRecord is one round's entry in the opinion history: the threshold
// drawn and the snapshot visible after the round barrier.
type RoundRecord struct {
	Round          int
	Theta          float64
	Opinions       [][]bool // opinions[node][tx], frozen at the barrier
	FinalizedPairs int      // finalized pairs across updating nodes
}

// Report is the outcome of one run, handed to the reporting collaborator.
type Report struct {
	// RunID tags the run in aggregated statistics.
	RunID string
	// Outcome is the final global state.
	Outcome Outcome
	// Rounds is the number of executed rounds.
	Rounds int
	// NodeFinalRound[i] is the round at which node i finalized all its
	// pairs, or -1 for nodes that never did (malicious nodes always -1).
	NodeFinalRound []int
	// TxFinalRound[tx] is the round at which every honest node had
	// finalized tx, or -1.
	TxFinalRound []int
	// FinalOpinion[tx] is the honest-majority opinion on tx at the end
	// of the run.
	FinalOpinion []bool
	// AgreementRate[tx] is the fraction of honest nodes holding the
	// majority opinion on tx; 1.0 on every transaction means unanimity.
	AgreementRate []float64
	// History holds one record per round when enabled in the Config.
	History []RoundRecord
}

// Tracker observes the engine after each round and accumulates the
// report. It only ever reads engine state.
type Tracker struct {
	nodeFinalRound []int
	txFinalRound   []int
	history        []RoundRecord
	record         bool
}

func newTracker(nodes, txs int, record bool) *Tracker {
	t := &Tracker{
		nodeFinalRound: make([]int, nodes),
		txFinalRound:   make([]int, txs),
		record:         record,
	}
	for i := range t.nodeFinalRound {
		t.nodeFinalRound[i] = -1
	}
	for i := range t.txFinalRound {
		t.txFinalRound[i] = -1
	}
	return t
}

// observe runs after the round barrier, once the new snapshot is public.
func (t *Tracker) observe(e *Engine, theta float64) {
	finalizedPairs := 0
	for _, n := range e.nodes {
		if !n.updates() {
			continue
		}
		done := true
		for _, tx := range e.graph.Transactions() {
			if n.vector.Finalized(tx) {
				finalizedPairs++
			} else {
				done = false
			}
		}
		if done && t.nodeFinalRound[n.id] == -1 {
			t.nodeFinalRound[n.id] = e.round
			e.logger.Info("node finalized all transactions", "node", n.id, "round", e.round)
		}
	}

	for _, tx := range e.graph.Transactions() {
		if t.txFinalRound[tx] != -1 {
			continue
		}
		done := true
		for _, n := range e.nodes {
			if n.kind == KindHonest && !n.vector.Finalized(tx) {
				done = false
				break
			}
		}
		if done {
			t.txFinalRound[tx] = e.round
			e.logger.Info("transaction finalized in all honest nodes", "tx", int(tx), "round", e.round)
		}
	}

	if t.record {
		opinions := make([][]bool, len(e.nodes))
		for i, n := range e.nodes {
			opinions[i] = n.vector.Opinions()
		}
		t.history = append(t.history, RoundRecord{
			Round:          e.round,
			Theta:          theta,
			Opinions:       opinions,
			FinalizedPairs: finalizedPairs,
		})
	}
}

// report assembles the final Report from the finished engine.
func (t *Tracker) report(e *Engine) *Report {
	txs := e.graph.Count()
	finalOpinion := make([]bool, txs)
	agreement := make([]float64, txs)
	honest := 0
	for _, n := range e.nodes {
		if n.kind == KindHonest {
			honest++
		}
	}
	for _, tx := range e.graph.Transactions() {
		ones := 0
		for _, n := range e.nodes {
			if n.kind == KindHonest && n.vector.Opinion(tx) {
				ones++
			}
		}
		finalOpinion[tx] = ones*2 > honest
		majority := ones
		if honest-ones > majority {
			majority = honest - ones
		}
		agreement[tx] = float64(majority) / float64(honest)
	}

	nodeRounds := make([]int, len(t.nodeFinalRound))
	copy(nodeRounds, t.nodeFinalRound)
	txRounds := make([]int, len(t.txFinalRound))
	copy(txRounds, t.txFinalRound)

	return &Report{
		RunID:          uuid.NewString(),
		Outcome:        e.outcome,
		Rounds:         e.round,
		NodeFinalRound: nodeRounds,
		TxFinalRound:   txRounds,
		FinalOpinion:   finalOpinion,
		AgreementRate:  agreement,
		History:        t.history,
	}
}
