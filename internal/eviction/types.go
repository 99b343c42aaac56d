package eviction

// Victim represents an entry selected for eviction.
type Victim struct {
	Key  string
	Size int64
}

// Strategy defines the interface for eviction strategies.
//
// A Strategy is the ordered half of the cache: it remembers every key, the
// size it was accounted with and the order in which keys should be evicted.
type Strategy interface {
	// OnAdd is called when an entry is inserted or re-inserted. The key becomes the
	// newest one. It returns the change in total size (size for a new key, the
	// difference for an existing one).
	OnAdd(key string, size int64) int64

	// OnAccess promotes an existing key to newest without changing its size.
	OnAccess(key string)

	// GetVictims returns the keys to evict, oldest first, so that currentSize drops
	// to targetSize or below. The newest key is never returned.
	GetVictims(currentSize int64, targetSize int64) []Victim

	// Remove forgets a key and reports the size it was accounted with.
	Remove(key string) (int64, bool)

	// Keys returns every key from oldest to newest.
	Keys() []string

	// Len returns the number of tracked keys.
	Len() int

	// Reset forgets every key.
	Reset()
}
