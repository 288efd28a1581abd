// Package sim provides the core turn-based simulation engine for a small
// production network of ramps, workers and storehouses.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - package.go, idpool.go: package identity and its recyclable identifier pool
//   - nodes.go: Ramp (source), Worker (queue + processing slot), Storehouse (sink)
//   - factory.go: node collections, links and the three-phase turn
//   - consistency.go: structural check that every ramp reaches a storehouse
//
// # Turn protocol
//
// One turn runs three phases, each over every node before the next starts:
//  1. deliveries: ramps dispatch or refill their sending buffer
//  2. passing: ramps, then workers, hand their buffered package to a receiver
//  3. work: workers pull from their queue and finish packages
//
// Passing precedes work, so a package a worker finishes in turn t is handed
// on no earlier than turn t+1.
//
// # Architecture
//
// Preference tables hold NodeRef handles, resolved through the Factory; they
// never hold pointers to nodes. Randomness is injected per sender through a
// GeneratorSource (PartitionedRNG or RNGStreams).
//
// Sub-packages:
//   - sim/topology/: text-format loader and serializer
//   - sim/report/: structure and per-turn reports
//   - sim/trace/: dispatch trace recording
package sim
