package qssa

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand/v2"
)

// RandomSource yields uniform draws in [0, 1). A source is owned by exactly
// one trajectory and is never shared.
type RandomSource interface {
	Float64() float64
}

// NewRandomSource returns a deterministic PCG stream. Distinct stream values
// with the same seed give independent sequences.
func NewRandomSource(seed, stream uint64) *mrand.Rand {
	return mrand.New(mrand.NewPCG(seed, stream))
}

// NewSeed returns a fresh seed from the operating system's entropy source.
func NewSeed() uint64 {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return binary.LittleEndian.Uint64(b[:])
}

// openUnit draws from the open interval (0, 1) so that a zero draw can't
// collapse the waiting time to zero.
func openUnit(r RandomSource) float64 {
	for {
		if u := r.Float64(); u > 0 {
			return u
		}
	}
}
