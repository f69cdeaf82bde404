// Package luck provides the deterministic pseudo-random function that
// decides where caches spawn and how many coins they start with.
//
// The function is pure: the same key yields the same value across calls,
// restarts, and platforms. Absence of a cache is never stored anywhere;
// it is recomputed from the same function on demand, which is what makes
// the world procedurally infinite.
package luck

import "github.com/cespare/xxhash/v2"

// Func maps an arbitrary string key to a value in [0,1). Implementations
// must be stateless and stable across process restarts.
type Func func(key string) float64

// Hash is the default Func, built on xxhash. The top 53 bits of the
// 64-bit digest are scaled into [0,1) so the full float64 mantissa is
// used without rounding above 1.
func Hash(key string) float64 {
	const mantissaScale = 1 << 53
	return float64(xxhash.Sum64String(key)>>11) / mantissaScale
}
