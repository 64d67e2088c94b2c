// Package rng builds deterministic math/rand streams. A *rand.Rand is not
// safe for concurrent use, so every worker or batch slot gets its own stream.
package rng

import "math/rand"

// DefaultSeed is used when callers pass seed 0.
const DefaultSeed int64 = 1

// FromSeed returns a deterministic stream; seed 0 maps to DefaultSeed.
func FromSeed(seed int64) *rand.Rand {
	if seed == 0 {
		seed = DefaultSeed
	}
	return rand.New(rand.NewSource(seed))
}

// Derive returns an independent stream for (seed, stream). The same pair
// always yields the same sequence regardless of which goroutine asks for it.
func Derive(seed int64, stream uint64) *rand.Rand {
	if seed == 0 {
		seed = DefaultSeed
	}
	return rand.New(rand.NewSource(mix(seed, stream)))
}

// Split draws a child stream from base. It advances base.
func Split(base *rand.Rand, stream uint64) *rand.Rand {
	if base == nil {
		return Derive(DefaultSeed, stream)
	}
	return Derive(base.Int63(), stream)
}

// mix is a SplitMix64 finalizer over the parent seed and stream id.
func mix(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}
