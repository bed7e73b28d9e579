package drift

import (
	"sync"
	"time"
)

// ResultCache memoizes the full alert computation for a bounded age. Only
// the all-alerts aggregate goes through it; per-patient queries always
// recompute. The mutex is held across the compute callback, so concurrent
// cold-cache requests collapse into a single oracle-backed computation.
type ResultCache struct {
	mu         sync.Mutex
	result     *AlertSet
	computedAt time.Time
	ttl        time.Duration
	now        func() time.Time
}

func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{ttl: ttl, now: time.Now}
}

// GetOrCompute returns the cached alert set when it is younger than the
// TTL, otherwise runs compute and stores its result. A compute error is
// returned without disturbing any previously cached value.
func (c *ResultCache) GetOrCompute(compute func() (*AlertSet, error)) (*AlertSet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.result != nil && c.now().Sub(c.computedAt) < c.ttl {
		return c.result, nil
	}

	result, err := compute()
	if err != nil {
		return nil, err
	}

	c.result = result
	c.computedAt = c.now()
	return result, nil
}

// Age reports how long ago the cached value was computed, and whether one
// exists at all.
func (c *ResultCache) Age() (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return 0, false
	}
	return c.now().Sub(c.computedAt), true
}
