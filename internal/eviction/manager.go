package eviction

import (
	"sync/atomic"

	"github.com/lucasew/lrudirs/internal/errutil"
	"github.com/lucasew/lrudirs/internal/eviction/policy"
)

// Manager does the accounting half of eviction: it tracks the running total,
// asks the policies how much must go and pops victims off the strategy.
//
// Manager never touches the filesystem. Callers are expected to serialize
// mutations; the total can be read concurrently.
type Manager struct {
	policies []policy.Policy
	strategy Strategy
	current  atomic.Int64
}

// NewManager creates a new Manager.
func NewManager(policies []policy.Policy, strategy Strategy) *Manager {
	return &Manager{
		policies: policies,
		strategy: strategy,
	}
}

// Add inserts or re-inserts key as the newest entry and updates the total.
func (m *Manager) Add(key string, size int64) {
	diff := m.strategy.OnAdd(key, size)
	m.current.Add(diff)
}

// Touch promotes key to newest.
func (m *Manager) Touch(key string) {
	m.strategy.OnAccess(key)
}

// Remove forgets key and subtracts its size from the total.
func (m *Manager) Remove(key string) (int64, bool) {
	size, ok := m.strategy.Remove(key)
	if ok {
		m.current.Add(-size)
	}
	return size, ok
}

// Victims pops the entries that must be evicted to satisfy every policy,
// oldest first. The returned victims are already forgotten by the manager.
func (m *Manager) Victims() []Victim {
	current := m.current.Load()
	var maxToFree int64

	for _, p := range m.policies {
		toFree, err := p.UnitsToFree(current)
		if err != nil {
			errutil.ReportError(err, "Failed to check capacity policy")
			continue
		}
		if toFree > maxToFree {
			maxToFree = toFree
		}
	}

	if maxToFree <= 0 {
		return nil
	}

	targetSize := current - maxToFree
	if targetSize < 0 {
		targetSize = 0
	}

	victims := m.strategy.GetVictims(current, targetSize)
	for _, victim := range victims {
		m.Remove(victim.Key)
	}
	return victims
}

// Current returns the accounted total.
func (m *Manager) Current() int64 {
	return m.current.Load()
}

// Len returns the number of tracked entries.
func (m *Manager) Len() int {
	return m.strategy.Len()
}

// Keys returns the tracked keys from oldest to newest.
func (m *Manager) Keys() []string {
	return m.strategy.Keys()
}

// Reset forgets every entry and zeroes the total.
func (m *Manager) Reset() {
	m.strategy.Reset()
	m.current.Store(0)
}
