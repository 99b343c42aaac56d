package eviction_test

import (
	"errors"
	"testing"

	"github.com/lucasew/lrudirs/internal/eviction"
	"github.com/lucasew/lrudirs/internal/eviction/lru"
	"github.com/lucasew/lrudirs/internal/eviction/policy"
	"github.com/lucasew/lrudirs/internal/eviction/policy/maxsize"
)

type failingPolicy struct{}

func (failingPolicy) UnitsToFree(int64) (int64, error) {
	return 0, errors.New("boom")
}

type fixedPolicy int64

func (f fixedPolicy) UnitsToFree(int64) (int64, error) {
	return int64(f), nil
}

func TestManager(t *testing.T) {
	mgr := eviction.NewManager([]policy.Policy{maxsize.New(50)}, lru.New())

	mgr.Add("file1", 20)
	mgr.Add("file2", 20)
	if v := mgr.Victims(); len(v) != 0 {
		t.Fatalf("expected no victims under capacity, got %v", v)
	}

	mgr.Add("file3", 20)
	if mgr.Current() != 60 {
		t.Fatalf("expected total 60, got %d", mgr.Current())
	}

	victims := mgr.Victims()
	if len(victims) != 1 || victims[0].Key != "file1" {
		t.Fatalf("expected file1 to be evicted, got %v", victims)
	}
	if mgr.Current() != 40 {
		t.Errorf("expected total 40 after eviction, got %d", mgr.Current())
	}
	if mgr.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", mgr.Len())
	}

	// Re-adding an existing key only accounts the difference.
	mgr.Add("file2", 25)
	if mgr.Current() != 45 {
		t.Errorf("expected total 45, got %d", mgr.Current())
	}
	if keys := mgr.Keys(); keys[len(keys)-1] != "file2" {
		t.Errorf("expected file2 to be newest, got %v", keys)
	}

	size, ok := mgr.Remove("file3")
	if !ok || size != 20 {
		t.Errorf("Remove(file3) = %d, %v", size, ok)
	}
	if mgr.Current() != 25 {
		t.Errorf("expected total 25, got %d", mgr.Current())
	}

	mgr.Reset()
	if mgr.Current() != 0 || mgr.Len() != 0 {
		t.Errorf("expected empty manager after Reset, got total=%d len=%d", mgr.Current(), mgr.Len())
	}
}

func TestManager_LargestPolicyWins(t *testing.T) {
	mgr := eviction.NewManager([]policy.Policy{failingPolicy{}, maxsize.New(3), fixedPolicy(2)}, lru.New())
	for _, k := range []string{"a", "b", "c", "d"} {
		mgr.Add(k, 1)
	}

	// maxsize wants 1, fixedPolicy wants 2, failing policy is skipped.
	victims := mgr.Victims()
	if len(victims) != 2 || victims[0].Key != "a" || victims[1].Key != "b" {
		t.Fatalf("expected a and b evicted, got %v", victims)
	}
}

func TestManager_KeepsNewest(t *testing.T) {
	mgr := eviction.NewManager([]policy.Policy{maxsize.New(10)}, lru.New())
	mgr.Add("small", 5)
	mgr.Add("huge", 100)

	victims := mgr.Victims()
	if len(victims) != 1 || victims[0].Key != "small" {
		t.Fatalf("expected only small to be evicted, got %v", victims)
	}
	if mgr.Current() != 100 {
		t.Errorf("expected newest entry to stay accounted, got %d", mgr.Current())
	}
}
