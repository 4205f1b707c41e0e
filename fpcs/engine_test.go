package fpcs

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/oliviasaa/FPC-on-a-set/graph"
	"github.com/oliviasaa/FPC-on-a-set/opinion"
)

// baseConfig is a small all-honest run; tests override what they probe.
func baseConfig() Config {
	return Config{
		Nodes:         10,
		Transactions:  2,
		Topology:      graph.TopologyComplete,
		Distribution:  opinion.Spec{Kind: opinion.DistUniform},
		SampleSize:    5,
		ThresholdLow:  0.3,
		ThresholdHigh: 0.7,
		CoolingOff:    3,
		MaxRounds:     50,
		Seed:          1,
	}
}

func run(t *testing.T, cfg Config) *Report {
	t.Helper()
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("building engine: %v", err)
	}
	report, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("running: %v", err)
	}
	return report
}

func TestNew_RejectsMalformedConfiguration(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero sample size", func(c *Config) { c.SampleSize = 0 }},
		{"zero cooling-off", func(c *Config) { c.CoolingOff = 0 }},
		{"empty node set", func(c *Config) { c.Nodes = 0 }},
		{"no honest node", func(c *Config) { c.MaliciousNodes = c.Nodes }},
		{"inverted threshold bounds", func(c *Config) { c.ThresholdLow = 0.8; c.ThresholdHigh = 0.2 }},
		{"zero max rounds", func(c *Config) { c.MaxRounds = 0 }},
		{"star with one transaction", func(c *Config) { c.Topology = graph.TopologyStar; c.Transactions = 1 }},
		{"concentrated k beyond nodes", func(c *Config) {
			c.Distribution = opinion.Spec{Kind: opinion.DistConcentrated, K: c.Nodes + 1}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := baseConfig()
			tc.mutate(&cfg)
			if _, err := New(cfg); !errors.Is(err, ErrInvalidConfiguration) {
				t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}

func TestNew_StrictSamplingInsufficientPeers(t *testing.T) {
	cfg := baseConfig()
	cfg.Nodes = 3
	cfg.SampleSize = 10
	cfg.StrictSampling = true
	if _, err := New(cfg); !errors.Is(err, ErrInsufficientPeers) {
		t.Fatalf("expected ErrInsufficientPeers, got %v", err)
	}
}

// A unanimous start with L=1 must converge after a single round: round 0
// already agrees, so one cooling-off increment finalizes every pair.
func TestRun_UnanimousStartConvergesInOneRound(t *testing.T) {
	cfg := baseConfig()
	cfg.Nodes = 3
	cfg.Transactions = 2
	cfg.Distribution = opinion.Spec{Kind: opinion.DistConcentrated, K: 3, Value: true}
	cfg.SampleSize = 2
	cfg.CoolingOff = 1

	report := run(t, cfg)
	if report.Outcome != OutcomeConverged {
		t.Fatalf("expected converged, got %v", report.Outcome)
	}
	if report.Rounds != 1 {
		t.Fatalf("expected convergence at round 1, got %d", report.Rounds)
	}
	for i, r := range report.NodeFinalRound {
		if r != 1 {
			t.Fatalf("node %d finalized at round %d, expected 1", i, r)
		}
	}
	for tx, op := range report.FinalOpinion {
		if !op {
			t.Fatalf("tx %d: expected final opinion 1", tx)
		}
		if report.AgreementRate[tx] != 1 {
			t.Fatalf("tx %d: expected full agreement, got %v", tx, report.AgreementRate[tx])
		}
	}
}

func TestRun_DeterministicHistory(t *testing.T) {
	cfg := baseConfig()
	cfg.Nodes = 12
	cfg.FaultyNodes = 2
	cfg.MaliciousNodes = 2
	cfg.OmissionRate = 0.5
	cfg.RecordHistory = true
	cfg.Seed = 99

	a := run(t, cfg)
	b := run(t, cfg)
	if a.Outcome != b.Outcome || a.Rounds != b.Rounds {
		t.Fatalf("same seed diverged: (%v, %d) vs (%v, %d)", a.Outcome, a.Rounds, b.Outcome, b.Rounds)
	}
	if !reflect.DeepEqual(a.History, b.History) {
		t.Fatal("same seed produced different round-by-round histories")
	}
	if !reflect.DeepEqual(a.NodeFinalRound, b.NodeFinalRound) {
		t.Fatal("same seed produced different finalization rounds")
	}
}

// With every peer silent, a node's opinion and counter never move and
// the run times out.
func TestRun_AllAbstainingPeersAreNeutral(t *testing.T) {
	cfg := baseConfig()
	cfg.Nodes = 3
	cfg.FaultyNodes = 2
	cfg.OmissionRate = 1
	cfg.Transactions = 1
	cfg.SampleSize = 2
	cfg.MaxRounds = 10
	cfg.RecordHistory = true

	report := run(t, cfg)
	if report.Outcome != OutcomeTimedOut {
		t.Fatalf("expected timed out, got %v", report.Outcome)
	}
	if report.NodeFinalRound[0] != -1 {
		t.Fatalf("honest node finalized at %d despite silent peers", report.NodeFinalRound[0])
	}
	first := report.History[0].Opinions[0][0]
	for _, rec := range report.History {
		if rec.Opinions[0][0] != first {
			t.Fatalf("round %d: honest opinion moved without any responses", rec.Round)
		}
	}
}

func TestRun_FinalizationIsTerminal(t *testing.T) {
	cfg := baseConfig()
	cfg.RecordHistory = true
	cfg.Seed = 7

	report := run(t, cfg)
	// After a node's finalization round, its opinions never change.
	checked := 0
	for node, final := range report.NodeFinalRound {
		if final == -1 {
			continue
		}
		checked++
		var frozen []bool
		for _, rec := range report.History {
			if rec.Round < final {
				continue
			}
			if frozen == nil {
				frozen = rec.Opinions[node]
				continue
			}
			if !reflect.DeepEqual(frozen, rec.Opinions[node]) {
				t.Fatalf("node %d: opinions changed after finalization round %d", node, final)
			}
		}
	}
	if checked == 0 {
		t.Fatal("no node finalized within the round budget")
	}
}

func TestRun_ContextCancellation(t *testing.T) {
	e, err := New(baseConfig())
	if err != nil {
		t.Fatalf("building engine: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

// The set-consistency sweep must leave every node's liked set
// independent: on a complete graph, at most one liked transaction.
func TestRun_SetConsistencyKeepsLikedSetsIndependent(t *testing.T) {
	cfg := baseConfig()
	cfg.Transactions = 3
	cfg.SetConsistency = true
	cfg.RecordHistory = true
	cfg.Seed = 5

	report := run(t, cfg)
	last := report.History[len(report.History)-1]
	for node, ops := range last.Opinions {
		liked := 0
		for _, op := range ops {
			if op {
				liked++
			}
		}
		if liked > 1 {
			t.Fatalf("node %d likes %d mutually conflicting transactions", node, liked)
		}
	}
}

// Statistical property: with no adversary, uniform start and the
// standard parameters, the overwhelming majority of seeds converge.
func TestRun_AllHonestConvergenceRate(t *testing.T) {
	if testing.Short() {
		t.Skip("statistical test")
	}
	const trials = 1000
	converged := 0
	for seed := int64(0); seed < trials; seed++ {
		cfg := baseConfig()
		cfg.Nodes = 20
		cfg.Seed = seed
		report := run(t, cfg)
		if report.Outcome == OutcomeConverged {
			converged++
		}
	}
	if converged < trials*95/100 {
		t.Fatalf("only %d of %d trials converged", converged, trials)
	}
}
