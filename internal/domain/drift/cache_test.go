package drift

import (
	"errors"
	"testing"
	"time"
)

func TestResultCache_ServesCachedWithinTTL(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	cache := NewResultCache(300 * time.Second)
	cache.now = func() time.Time { return now }

	computes := 0
	compute := func() (*AlertSet, error) {
		computes++
		return &AlertSet{Alerts: []Alert{}, Count: 0}, nil
	}

	if _, err := cache.GetOrCompute(compute); err != nil {
		t.Fatalf("first compute error: %v", err)
	}
	now = now.Add(299 * time.Second)
	if _, err := cache.GetOrCompute(compute); err != nil {
		t.Fatalf("cached read error: %v", err)
	}

	if computes != 1 {
		t.Errorf("expected 1 compute within TTL, got %d", computes)
	}
}

func TestResultCache_RecomputesAfterTTL(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	cache := NewResultCache(300 * time.Second)
	cache.now = func() time.Time { return now }

	computes := 0
	compute := func() (*AlertSet, error) {
		computes++
		return &AlertSet{Count: computes}, nil
	}

	cache.GetOrCompute(compute)
	now = now.Add(301 * time.Second)
	set, err := cache.GetOrCompute(compute)
	if err != nil {
		t.Fatalf("recompute error: %v", err)
	}

	if computes != 2 {
		t.Errorf("expected recompute after TTL, got %d computes", computes)
	}
	if set.Count != 2 {
		t.Errorf("expected fresh result, got count %d", set.Count)
	}
}

func TestResultCache_ComputeErrorLeavesCacheIntact(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	cache := NewResultCache(300 * time.Second)
	cache.now = func() time.Time { return now }

	cache.GetOrCompute(func() (*AlertSet, error) {
		return &AlertSet{Count: 7}, nil
	})

	now = now.Add(301 * time.Second)
	if _, err := cache.GetOrCompute(func() (*AlertSet, error) {
		return nil, errors.New("oracle down")
	}); err == nil {
		t.Fatal("expected compute error to propagate")
	}

	// The stale value is still there for the next successful compute cycle.
	if _, ok := cache.Age(); !ok {
		t.Error("failed compute should not evict the previous result")
	}
}

func TestResultCache_Age(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	cache := NewResultCache(300 * time.Second)
	cache.now = func() time.Time { return now }

	if _, ok := cache.Age(); ok {
		t.Error("empty cache should report no age")
	}

	cache.GetOrCompute(func() (*AlertSet, error) {
		return &AlertSet{}, nil
	})
	now = now.Add(42 * time.Second)

	age, ok := cache.Age()
	if !ok {
		t.Fatal("expected an age after compute")
	}
	if age != 42*time.Second {
		t.Errorf("age = %v, want 42s", age)
	}
}
