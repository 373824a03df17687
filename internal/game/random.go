package game

import "math/rand/v2"

// Shuffler permutes n elements uniformly at random through swap.
// *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// NewShuffler returns a deterministic Shuffler for the given seed.
func NewShuffler(seed uint64) Shuffler {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type runtimeShuffler struct{}

func (runtimeShuffler) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

func shuffled[T any](s Shuffler, items []T) []T {
	out := append([]T(nil), items...)
	s.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
