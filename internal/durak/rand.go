package durak

import mrand "math/rand"

// randSource wraps a per-game PRNG instance. Keeping it as a named type
// (rather than a bare *rand.Rand field) leaves room to swap in a seeded,
// reproducible source for tests without touching callers.
type randSource struct {
	rand *mrand.Rand
}

func newRandSource() *randSource {
	return &randSource{rand: newDeckRNG()}
}

// newSeededRandSource builds a deterministic source for tests/replays.
func newSeededRandSource(seed int64) *randSource {
	return &randSource{rand: mrand.New(mrand.NewSource(seed))}
}
