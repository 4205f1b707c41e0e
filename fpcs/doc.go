// Package fpcs implements a simulator for Fast Probabilistic Consensus on
// a Set (FPCS): a randomized, round-based protocol by which a network of
// nodes converges on one accepted transaction out of a set of mutually
// conflicting ones, despite faulty or adversarial participants. The
// simulation is synchronous and message-free; its output is meant for
// statistical analysis of finalization time and agreement correctness.
//
// # Core Components
//
// Engine: Runs the round loop. Each round every active node samples
// peers, queries their opinions, applies the randomized threshold rule
// and updates its cooling-off counters; a pair finalizes once its opinion
// has been stable for the configured number of rounds.
//
// ThresholdSource: The common coin. One threshold is drawn per round and
// shared by every honest node, so an adversary cannot exploit per-node
// threshold variance to split opinions.
//
// QuerySampler: Selects the peer set a node queries, without replacement
// and excluding the node itself.
//
// Behavior: Polymorphic response policy. Honest nodes answer with their
// current opinion, faulty nodes stay silent with a fixed probability, and
// malicious nodes run a pluggable Strategy with full vision of the
// previous round's frozen opinions.
//
// Tracker: Observes the run and produces the Report: global outcome
// (Converged, Disagreed or TimedOut), per-node finalization rounds, the
// final opinion per conflict set and an optional round-by-round history.
//
// # Determinism
//
// For a fixed Config and seed, two runs produce identical round-by-round
// histories. All randomness is derived from the seed: the common coin
// comes from a blake2 XOF and every node draws from its own derived
// substream, so per-node updates can run on parallel goroutines without
// affecting the result.
//
// # Errors
//
// Malformed configuration is rejected at construction and never mid-run.
// Abstentions and adversarial answers are protocol inputs, not errors: a
// constructed run always terminates with one of the three outcomes.
package fpcs
