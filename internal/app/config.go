package app

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/lucasew/lrudirs"
)

type Config struct {
	Root          string
	Capacity      int64
	ByteMode      bool
	IncludeHidden bool
	PromoteOnHit  bool
	Touch         bool
	MinFreeSpace  int64
	Strategy      string
}

// Options translates the configuration into cache options.
func (cfg Config) Options() lrudirs.Options {
	opts := lrudirs.Options{
		Capacity:     cfg.Capacity,
		ByteMode:     cfg.ByteMode,
		PromoteOnHit: cfg.PromoteOnHit,
		Touch:        cfg.Touch,
		MinFreeBytes: cfg.MinFreeSpace,
		Strategy:     cfg.Strategy,
	}
	if !cfg.IncludeHidden {
		opts.Filter = lrudirs.SkipHidden
	}
	return opts
}

// Open opens the cache described by cfg.
func Open(cfg Config) (*lrudirs.Cache, error) {
	if cfg.Root == "" {
		return nil, fmt.Errorf("cache root is required")
	}

	mode := "count"
	if cfg.ByteMode {
		mode = "bytes"
	}
	slog.Debug("Opening cache", "root", cfg.Root, "capacity", cfg.Capacity, "mode", mode, "strategy", cfg.Strategy)

	c, err := lrudirs.New(cfg.Root, cfg.Options())
	if err != nil {
		return nil, fmt.Errorf("failed to open cache at %s: %w", cfg.Root, err)
	}
	return c, nil
}

// ParseLogLevel maps debug, info, warn and error to slog levels.
func ParseLogLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return l, nil
}

// SetupLogging installs a text handler writing to w as the default slog logger.
func SetupLogging(level string, w io.Writer) error {
	l, err := ParseLogLevel(level)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})))
	return nil
}
