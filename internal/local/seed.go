// Package local implements the deterministic offline fortune generator:
// seeded non-repeating selection from pre-authored template pools, with
// per-device daily limits and variable substitution.
//
// Determinism is load-bearing here: the shuffle order is derived from a
// stable hash of the device+category key, persisted, and replayed across
// processes, so the same device always walks the same permutation. The hash
// and PRNG below are fixed bit-for-bit; swapping them for a library RNG
// would silently reshuffle every device's persisted order.
package local

// djb2 is the DJB2 string hash, accumulated over bytes, truncated to 32 bits.
func djb2(s string) uint32 {
	h := uint32(5381)
	for i := 0; i < len(s); i++ {
		h = (h << 5) + h + uint32(s[i])
	}
	return h
}

// mulberry32 is a small, well-distributed, seedable 32-bit generator.
type mulberry32 struct {
	state uint32
}

// next returns the next value in [0, 1).
func (m *mulberry32) next() float64 {
	m.state += 0x6D2B79F5
	t := m.state
	t = (t ^ t>>15) * (t | 1)
	t ^= t + (t^t>>7)*(t|61)
	return float64(t^t>>14) / 4294967296.0
}

// seededOrder produces a permutation of [0, n) via a Fisher–Yates shuffle
// driven by a generator seeded from the DJB2 hash of seed. Same seed and n
// always yield the same permutation.
func seededOrder(n int, seed string) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	rnd := mulberry32{state: djb2(seed)}
	for i := n - 1; i > 0; i-- {
		j := int(rnd.next() * float64(i+1))
		order[i], order[j] = order[j], order[i]
	}
	return order
}
