package delta

// ProxyPair is an unordered pair of proxies, stored with A.ID < B.ID.
type ProxyPair struct {
	A, B *BroadphaseProxy
}

// pairKey packs two proxy IDs (smaller first) into one map key.
type pairKey uint64

func makePairKey(a, b uint32) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey(uint64(a)<<32 | uint64(b))
}

// OverlappingPairCache is the set of candidate pairs for one simulation
// step. {a, b} and {b, a} are the same pair; each pair is stored once.
type OverlappingPairCache struct {
	pairs []ProxyPair
	index map[pairKey]int
}

// NewOverlappingPairCache returns an empty cache.
func NewOverlappingPairCache() *OverlappingPairCache {
	return &OverlappingPairCache{index: make(map[pairKey]int)}
}

// Add inserts the pair {a, b}. It returns false if a and b are the same
// proxy or the pair is already present.
func (c *OverlappingPairCache) Add(a, b *BroadphaseProxy) bool {
	if a == nil || b == nil || a.ID == b.ID {
		return false
	}
	key := makePairKey(a.ID, b.ID)
	if _, ok := c.index[key]; ok {
		return false
	}
	if a.ID > b.ID {
		a, b = b, a
	}
	c.index[key] = len(c.pairs)
	c.pairs = append(c.pairs, ProxyPair{A: a, B: b})
	return true
}

// Contains reports whether the pair {a, b} is present, in either order.
func (c *OverlappingPairCache) Contains(a, b *BroadphaseProxy) bool {
	if a == nil || b == nil {
		return false
	}
	_, ok := c.index[makePairKey(a.ID, b.ID)]
	return ok
}

// Len returns the number of pairs.
func (c *OverlappingPairCache) Len() int {
	return len(c.pairs)
}

// Pairs returns the pairs in insertion order. The returned slice MUST NOT be
// mutated and is only valid until the next rebuild.
func (c *OverlappingPairCache) Pairs() []ProxyPair {
	return c.pairs
}

// Clear empties the cache, keeping allocated capacity.
func (c *OverlappingPairCache) Clear() {
	for i := range c.pairs {
		c.pairs[i] = ProxyPair{}
	}
	c.pairs = c.pairs[:0]
	clear(c.index)
}

// removeProxy drops every pair that references p.
func (c *OverlappingPairCache) removeProxy(p *BroadphaseProxy) {
	kept := c.pairs[:0]
	for _, pair := range c.pairs {
		if pair.A == p || pair.B == p {
			delete(c.index, makePairKey(pair.A.ID, pair.B.ID))
			continue
		}
		c.index[makePairKey(pair.A.ID, pair.B.ID)] = len(kept)
		kept = append(kept, pair)
	}
	for i := len(kept); i < len(c.pairs); i++ {
		c.pairs[i] = ProxyPair{}
	}
	c.pairs = kept
}
