package minfree

import (
	"fmt"
	"log/slog"
	"syscall"
)

// Policy triggers eviction when free space on the filesystem holding Path drops
// below MinFreeBytes. It is only meaningful when the cache accounts in bytes.
type Policy struct {
	Path         string
	MinFreeBytes int64
}

func (m *Policy) UnitsToFree(currentSize int64) (int64, error) {
	free, err := FreeBytes(m.Path)
	if err != nil {
		return 0, err
	}

	slog.Debug("Disk space check", "path", m.Path, "free_bytes", free, "min_required", m.MinFreeBytes)

	if free < m.MinFreeBytes {
		return m.MinFreeBytes - free, nil
	}
	return 0, nil
}

// FreeBytes reports the bytes available to unprivileged users on the filesystem holding path.
func FreeBytes(path string) (int64, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return 0, fmt.Errorf("failed to check disk space: %w", err)
	}
	return int64(stat.Bavail) * int64(stat.Bsize), nil
}
