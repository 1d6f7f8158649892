package dataset

import "math/rand/v2"

// DefaultIconsPerImage is how many distinct icons go onto each sample.
const DefaultIconsPerImage = 10

// SampleIcons picks n distinct icons from pool uniformly at random.
//
// Selection is a partial Fisher-Yates shuffle over a copy of the pool
// indices; pool itself is not reordered.
func SampleIcons(rng *rand.Rand, pool []Icon, n int) ([]Icon, error) {
	if n > len(pool) {
		return nil, &InsufficientIconsError{Have: len(pool), Want: n}
	}

	idx := make([]int, len(pool))
	for i := range idx {
		idx[i] = i
	}

	out := make([]Icon, n)
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		out[i] = pool[idx[i]]
	}
	return out, nil
}
