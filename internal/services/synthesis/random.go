package synthesis

import (
	"math/rand/v2"

	domsvc "LaunchCast/internal/domain/service"
)

const pcgStream = 0x9e3779b97f4a7c15

// NewSource returns a seeded PCG generator. Equal seeds give equal sequences.
func NewSource(seed int64) domsvc.RandomSource {
	s := uint64(seed)
	return rand.New(rand.NewPCG(s, s^pcgStream))
}

// Variance draws a multiplier with mean 1 from [1-amplitude, 1+amplitude).
// A nil source or zero amplitude yields exactly 1.
func Variance(src domsvc.RandomSource, amplitude float64) float64 {
	if src == nil || amplitude <= 0 {
		return 1
	}
	return 1 + amplitude*(2*src.Float64()-1)
}
