package policy

// Policy decides whether the cache must shrink.
type Policy interface {
	// UnitsToFree returns how much accounted size should be evicted, in the unit the
	// cache accounts with (entries or bytes). Returns 0 if no eviction is needed.
	UnitsToFree(currentSize int64) (int64, error)
}
