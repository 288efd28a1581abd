package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"

	"github.com/iti/rngstream"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two simulations with the same SimulationKey and identical topology
// MUST route every package identically.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// GeneratorSource hands out one ProbabilityGenerator per sender.
// Sender names are NodeRef strings ("ramp-1", "worker-4").
type GeneratorSource interface {
	ForSender(name string) ProbabilityGenerator
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated math/rand streams per sender.
//
// Derivation formula: masterSeed XOR fnv1a64(senderName).
// Drawing from one sender never shifts another sender's sequence, so adding a
// link elsewhere in the topology leaves existing routing decisions intact.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	key     SimulationKey
	senders map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:     key,
		senders: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named stream.
// The same name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.senders[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(int64(p.key) ^ fnv1a64(name)))
	p.senders[name] = rng
	return rng
}

// ForSender returns the Float64 method of the sender's stream.
func (p *PartitionedRNG) ForSender(name string) ProbabilityGenerator {
	return p.ForSubsystem(name).Float64
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

// === RNGStreams ===

// rngStreamSeedBound is the modulus of RngStream's second MRG component;
// every seed component must be below it and non-zero.
const rngStreamSeedBound = 4294944443

// RNGStreams gives every sender its own L'Ecuyer RngStream.
//
// Each stream is seeded from masterSeed XOR fnv1a64(senderName), the same
// derivation PartitionedRNG uses, so streams depend only on the key and the
// sender name: not on creation order or the rngstream package state.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type RNGStreams struct {
	key     SimulationKey
	streams map[string]*rngstream.RngStream
}

// NewRNGStreams creates an empty stream registry for key.
func NewRNGStreams(key SimulationKey) *RNGStreams {
	return &RNGStreams{key: key, streams: make(map[string]*rngstream.RngStream)}
}

// ForSender returns the RandU01 method of the sender's stream.
func (s *RNGStreams) ForSender(name string) ProbabilityGenerator {
	strm, ok := s.streams[name]
	if !ok {
		strm = rngstream.New(name)
		if !strm.SetSeed(streamSeed(s.key, name)) {
			panic(fmt.Sprintf("RNGStreams: invalid derived seed for %q", name))
		}
		s.streams[name] = strm
	}
	return strm.RandU01
}

// Key returns the SimulationKey used to create this RNGStreams.
func (s *RNGStreams) Key() SimulationKey {
	return s.key
}

// streamSeed expands the derived per-sender seed into the six components
// RngStream.SetSeed expects, each in [1, rngStreamSeedBound).
func streamSeed(key SimulationKey, name string) []uint64 {
	rng := rand.New(rand.NewSource(int64(key) ^ fnv1a64(name)))
	seed := make([]uint64, 6)
	for i := range seed {
		seed[i] = 1 + uint64(rng.Int63n(rngStreamSeedBound-1))
	}
	return seed
}
