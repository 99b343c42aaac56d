package maxsize

// Policy keeps the cache at or below a fixed capacity.
type Policy struct {
	Max int64
}

// New returns a Policy with max clamped to at least 1.
func New(max int64) *Policy {
	if max < 1 {
		max = 1
	}
	return &Policy{Max: max}
}

func (m *Policy) UnitsToFree(currentSize int64) (int64, error) {
	if currentSize > m.Max {
		return currentSize - m.Max, nil
	}
	return 0, nil
}
