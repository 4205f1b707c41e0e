// Package graph models the conflict relation between transactions that a
// fast probabilistic consensus run must resolve. A conflict graph owns a
// fixed set of transactions and answers which of them are mutually
// exclusive, so that at most one transaction per conflict set can end up
// accepted.
//
// # Core Types
//
// ConflictGraph: Immutable conflict relation over a fixed transaction set.
// Safe for concurrent reads once constructed.
//
// TxID: Identifier of a transaction within a graph.
//
// # Topologies
//
// Complete: every transaction conflicts with every other transaction,
// forming a single conflict set.
//
// Star: one designated center transaction conflicts with all others;
// the non-central transactions do not conflict with each other.
package graph
