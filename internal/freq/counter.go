package freq

import "sort"

// counter counts keys and remembers the order in which they were first seen.
type counter[K comparable] struct {
	counts map[K]int
	order  []K
}

func newCounter[K comparable]() *counter[K] {
	return &counter[K]{counts: map[K]int{}}
}

func (c *counter[K]) inc(key K) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// byFrequency returns keys with a count of at least minCount, most frequent
// first. Equal counts keep first-occurrence order.
func (c *counter[K]) byFrequency(minCount int) []K {
	out := make([]K, 0, len(c.order))
	for _, key := range c.order {
		if c.counts[key] >= minCount {
			out = append(out, key)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return c.counts[out[i]] > c.counts[out[j]]
	})
	return out
}

func (c *counter[K]) snapshot() map[K]int {
	out := make(map[K]int, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}
