// Package opinion holds the per-node opinion state of a fast probabilistic
// consensus run and the policies for seeding it.
//
// # Core Types
//
// Vector: A node's opinion on every transaction of a conflict graph,
// double buffered so that a round always reads the snapshot frozen at the
// end of the previous round while new opinions land in a private slot.
//
// Spec: The initial-opinion distribution (uniform, concentrated or
// balanced) that Initialize expands into one Vector per node.
//
// # Double Buffering
//
// During a round every peer reads Opinion, which serves the frozen
// previous-round value. The node records its new opinion with Adopt,
// which only touches the write buffer and the cooling-off counter.
// Commit swaps the buffers at the round barrier, after every node has
// finished the round.
package opinion
