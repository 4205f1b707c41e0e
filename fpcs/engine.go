package fpcs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"sort"
	"sync"

	"github.com/oliviasaa/FPC-on-a-set/graph"
	"github.com/oliviasaa/FPC-on-a-set/opinion"
)

// node is one simulated participant. Behavior is fixed for the run; the
// vector is owned exclusively by the node and only written during its own
// round evaluation.
type node struct {
	id       int
	kind     BehaviorKind
	behavior Behavior
	vector   *opinion.Vector
	rng      *rand.Rand
}

// updates reports whether the node runs the opinion-update rule. Honest
// and faulty nodes do; malicious nodes answer from strategy alone.
func (n *node) updates() bool { return n.kind != KindMalicious }

// Engine orchestrates the synchronous round loop: one shared coin per
// round, parallel per-node evaluations against the frozen previous-round
// snapshot, then a barrier that publishes the new opinions.
type Engine struct {
	cfg     Config
	graph   *graph.ConflictGraph
	nodes   []*node
	sampler *QuerySampler
	coin    *ThresholdSource
	tracker *Tracker
	logger  *slog.Logger

	round   int
	outcome Outcome
}

// New validates the configuration and builds a ready-to-run engine. All
// configuration errors surface here; Run never fails on parameters.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g, err := graph.New(cfg.Topology, cfg.Transactions, cfg.StarCenter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	sampler, err := newQuerySampler(cfg.Nodes, cfg.SampleSize, cfg.StrictSampling)
	if err != nil {
		return nil, err
	}

	// One substream per node plus one for the initializer, all derived
	// from the run seed.
	seeds := deriveSeeds(cfg.Seed, cfg.Nodes+1)
	initRng := rand.New(rand.NewSource(seeds[cfg.Nodes]))
	vectors, err := opinion.Initialize(g, cfg.Distribution, cfg.Nodes, initRng)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	strategy := cfg.Strategy
	if strategy == nil {
		strategy = OppositeMajority{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	e := &Engine{
		cfg:     cfg,
		graph:   g,
		sampler: sampler,
		coin:    NewThresholdSource(cfg.Seed, cfg.ThresholdLow, cfg.ThresholdHigh),
		logger:  logger,
		outcome: OutcomeRunning,
	}
	e.nodes = make([]*node, cfg.Nodes)
	for i := range e.nodes {
		n := &node{
			id:     i,
			kind:   kindOf(cfg, i),
			vector: vectors[i],
			rng:    rand.New(rand.NewSource(seeds[i])),
		}
		honest := honestBehavior{vec: n.vector, excludeFinalized: cfg.ExcludeFinalizedResponders}
		switch n.kind {
		case KindHonest:
			n.behavior = honest
		case KindFaulty:
			n.behavior = faultyBehavior{honest: honest, omission: cfg.OmissionRate}
		case KindMalicious:
			n.behavior = maliciousBehavior{strategy: strategy}
		}
		e.nodes[i] = n
	}
	e.tracker = newTracker(cfg.Nodes, g.Count(), cfg.RecordHistory)
	return e, nil
}

// kindOf assigns behaviors by index: honest nodes first, then faulty,
// then malicious. Deterministic by identity, like the concentrated
// distribution's node selection.
func kindOf(cfg Config, id int) BehaviorKind {
	switch {
	case id < cfg.HonestNodes():
		return KindHonest
	case id < cfg.HonestNodes()+cfg.FaultyNodes:
		return KindFaulty
	default:
		return KindMalicious
	}
}

// Graph returns the conflict graph the run operates on.
func (e *Engine) Graph() *graph.ConflictGraph { return e.graph }

// Round returns the number of completed rounds.
func (e *Engine) Round() int { return e.round }

// Outcome returns the current global state of the run.
func (e *Engine) Outcome() Outcome { return e.outcome }

// Run executes the round loop until every honest pair finalizes or the
// round bound is hit, and returns the run's report. The context is
// checked only at round boundaries; mid-round work is never interrupted.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	for e.outcome == OutcomeRunning && e.round < e.cfg.MaxRounds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e.step()
	}
	if e.outcome == OutcomeRunning {
		e.outcome = OutcomeTimedOut
	}
	e.logger.Info("run finished", "outcome", e.outcome, "rounds", e.round)
	return e.tracker.report(e), nil
}

// step executes one global round.
func (e *Engine) step() {
	coin := e.coin.Draw()
	view := e.buildView()

	var wg sync.WaitGroup
	for _, n := range e.nodes {
		if !n.updates() || n.vector.AllFinalized() {
			continue
		}
		wg.Add(1)
		go func(n *node) {
			defer wg.Done()
			e.evaluate(n, coin, view)
		}(n)
	}
	wg.Wait()

	// Round barrier: detect finalizations, then publish the new
	// snapshot. Both touch state peers read, so they stay sequential.
	for _, n := range e.nodes {
		if !n.updates() {
			continue
		}
		for _, tx := range e.graph.Transactions() {
			if !n.vector.Finalized(tx) && n.vector.Counter(tx) >= e.cfg.CoolingOff {
				n.vector.Finalize(tx)
				e.logger.Debug("pair finalized", "node", n.id, "tx", int(tx), "opinion", boolToOpinion(n.vector.Opinion(tx)))
			}
		}
		n.vector.Commit()
	}

	e.round++
	e.tracker.observe(e, coin.Theta)
	e.updateOutcome()
	e.logger.Debug("round complete", "round", e.round, "theta", coin.Theta)
}

// buildView tallies the frozen opinions of every opinion-holding node,
// giving malicious strategies their complete vision of round r-1.
func (e *Engine) buildView() *View {
	v := &View{ones: make([]int, e.graph.Count())}
	for _, n := range e.nodes {
		if !n.updates() {
			continue
		}
		v.total++
		for _, tx := range e.graph.Transactions() {
			if n.vector.Opinion(tx) {
				v.ones[tx]++
			}
		}
	}
	return v
}

type auxOpinion struct {
	tx graph.TxID
	op bool
}

// evaluate runs one node's round: for every active pair, sample peers,
// tally their answers and apply the threshold rule. Only the node's own
// write buffer and rng are touched, so evaluations run concurrently.
func (e *Engine) evaluate(n *node, coin Coin, view *View) {
	updates := make([]auxOpinion, 0, e.graph.Count())
	for _, tx := range e.graph.Transactions() {
		if n.vector.Finalized(tx) {
			continue
		}
		ones, answers := 0, 0
		for _, peer := range e.sampler.Sample(n.id, n.rng) {
			if ans, ok := e.nodes[peer].behavior.Respond(tx, view, n.rng); ok {
				answers++
				if ans {
					ones++
				}
			}
		}
		if answers == 0 {
			// Nothing but abstentions: neither the opinion nor the
			// cooling-off counter moves this round.
			continue
		}
		// An exact tie with the threshold retains the previous opinion.
		op := n.vector.Opinion(tx)
		r := float64(ones) / float64(answers)
		switch {
		case r > coin.Theta:
			op = true
		case r < coin.Theta:
			op = false
		}
		updates = append(updates, auxOpinion{tx: tx, op: op})
	}
	if e.cfg.SetConsistency {
		e.sweep(n, updates, coin.Key)
	}
	for _, u := range updates {
		n.vector.Adopt(u.tx, u.op)
	}
}

// sweep is the elim/comp step: it repairs the auxiliary opinions so the
// node's liked set is an independent and maximal set of the conflict
// graph. Transactions are visited in the coin-keyed hash order, largest
// first for elim and smallest first for comp, so all nodes repair in the
// same order. Finalized likes are fixed constraints.
func (e *Engine) sweep(n *node, updates []auxOpinion, key uint64) {
	inUpdates := make(map[graph.TxID]bool, len(updates))
	for _, u := range updates {
		inUpdates[u.tx] = true
	}
	// Likes outside the update set are fixed constraints: finalized
	// pairs and pairs whose peers all abstained this round.
	liked := make(map[graph.TxID]bool, e.graph.Count())
	for _, tx := range e.graph.Transactions() {
		if !inUpdates[tx] && n.vector.Opinion(tx) {
			liked[tx] = true
		}
	}
	for _, u := range updates {
		if u.op {
			liked[u.tx] = true
		}
	}

	order := make([]int, len(updates))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return orderKey(int(updates[order[a]].tx), key) > orderKey(int(updates[order[b]].tx), key)
	})

	// elim: stop liking anything that conflicts with the liked set.
	for _, i := range order {
		u := &updates[i]
		if !u.op {
			continue
		}
		if e.graph.ConflictsAny(u.tx, func(other graph.TxID) bool { return liked[other] }) {
			u.op = false
			delete(liked, u.tx)
		}
	}

	// comp: like anything the now-independent set still permits,
	// smallest hash first.
	for i := len(order) - 1; i >= 0; i-- {
		u := &updates[order[i]]
		if u.op {
			continue
		}
		if !e.graph.ConflictsAny(u.tx, func(other graph.TxID) bool { return liked[other] }) {
			u.op = true
			liked[u.tx] = true
		}
	}
}

// updateOutcome runs the global termination check: once every honest
// pair is finalized the run converged if the honest nodes agree on every
// transaction, and disagreed otherwise.
func (e *Engine) updateOutcome() {
	for _, n := range e.nodes {
		if n.kind == KindHonest && !n.vector.AllFinalized() {
			return
		}
	}
	for _, tx := range e.graph.Transactions() {
		var first, set bool
		for _, n := range e.nodes {
			if n.kind != KindHonest {
				continue
			}
			if !set {
				first, set = n.vector.Opinion(tx), true
				continue
			}
			if n.vector.Opinion(tx) != first {
				e.outcome = OutcomeDisagreed
				return
			}
		}
	}
	e.outcome = OutcomeConverged
}

func boolToOpinion(b bool) int {
	if b {
		return 1
	}
	return 0
}
