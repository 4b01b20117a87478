package similarity

import (
	gocache "github.com/patrickmn/go-cache"
)

// memoized caches pair scores for the duration of one reconciliation run.
// The fuzzy loop scores every plan text against every alias candidate, so
// repeated plan names hit the cache. Purely a performance optimization;
// a fresh memoized scorer is created per run and never shared across runs.
type memoized struct {
	inner Scorer
	cache *gocache.Cache
}

// Memoized wraps a scorer with a per-run score cache.
func Memoized(inner Scorer) Scorer {
	return &memoized{
		inner: inner,
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// Score implements Scorer.
func (m *memoized) Score(a, b string) float64 {
	// Canonical key order keeps the cache symmetric.
	if b < a {
		a, b = b, a
	}
	key := a + "\x00" + b
	if v, ok := m.cache.Get(key); ok {
		return v.(float64)
	}
	score := m.inner.Score(a, b)
	m.cache.Set(key, score, gocache.NoExpiration)
	return score
}
