package emu

import (
	"math/rand/v2"
	"time"
)

// RandomSource supplies the bytes consumed by RND (Cxkk).
type RandomSource interface {
	Byte() byte
}

type pcgSource struct {
	rng *rand.Rand
}

// NewRandomSource returns a deterministic source for the given seed.
func NewRandomSource(seed uint64) RandomSource {
	return &pcgSource{rng: rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))}
}

func (s *pcgSource) Byte() byte {
	return byte(s.rng.UintN(256))
}

// timeSeed is used when no seed or source is configured.
func timeSeed() uint64 {
	return uint64(time.Now().UnixNano())
}
