// Package imex implements the interleaved-merge expression engine.
//
// A parsed pattern is a tree of quantified values. A value is either a
// reference to one input stream or a group of quantified sub-values. Every
// node implements Iterator: each call to Iterate pulls at most one item from
// the underlying streams and reports whether an item was produced.
//
// ARCHITECTURE:
//
// Blueprint and Instances:
// A Quantified node never iterates its own value. At the start of every cycle
// it clones the blueprint into a fresh instance and drives that instance until
// it reports exhaustion. Repetition is therefore re-cloning, not rewinding.
//
// Cycle Rule:
// A new cycle starts only when the quantifier grants one AND the previous
// cycle produced at least one item. The quantifier is consulted only at cycle
// boundaries, never mid-cycle. This is what makes an unbounded quantifier over
// a drained stream terminate.
//
// Item Type:
// Nodes are not generic. They pull through a Source, and the generic
// Streams collection holds the last pulled item. Merger binds the item type
// once at the root.
//
// Single-Threaded:
// Evaluation is synchronous and never blocks on its own. A tree and its
// Streams must not be driven from more than one goroutine at a time.
package imex
