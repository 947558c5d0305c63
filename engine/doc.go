// Package engine implements the state-transition fixpoint engine shared by
// every domain module in this repository.
//
// A Universe binds a state (a string-keyed map treated as a value) to an
// ordered set of named, prioritized rules and a set of observers. The
// Fixpoint and RecursiveDescentFixpoint drivers advance the universe one
// epoch at a time: each epoch applies every eligible rule in priority order,
// threading the state through the applications, then measures the distance
// between the epoch's start and end states with a caller-supplied Metric.
// The run stops when the distance drops to the configured epsilon or when
// the epoch budget is exhausted.
//
// Observers receive Step, Epoch and terminal events with an independent
// deep copy of the state, so instrumentation can never corrupt the engine
// or leak mutations between observers.
//
// The engine is single-threaded and synchronous. It performs no I/O, keeps
// no persistent state, and owns no randomness; given identical inputs two
// runs produce identical states and identical event streams.
package engine
