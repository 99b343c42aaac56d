// Package lrudirs keeps a bounded set of named subdirectories under a root
// path, deleting the least recently used ones from disk once a capacity
// budget (entry count or total bytes) is exceeded.
package lrudirs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"

	"github.com/lucasew/lrudirs/internal/errutil"
	"github.com/lucasew/lrudirs/internal/eviction"
	_ "github.com/lucasew/lrudirs/internal/eviction/lru"
	"github.com/lucasew/lrudirs/internal/eviction/policy"
	"github.com/lucasew/lrudirs/internal/eviction/policy/maxsize"
	"github.com/lucasew/lrudirs/internal/eviction/policy/minfree"
	"github.com/lucasew/lrudirs/internal/fsutil"
	"github.com/lucasew/lrudirs/internal/metrics"
)

// ErrInvalidName is returned for names that would alias the root or its parent.
var ErrInvalidName = errors.New("invalid directory name")

// DefaultNamespace prefixes the Prometheus metrics when Options.Namespace is empty.
const DefaultNamespace = "lrudirs"

// Dir is a directory registered in the cache.
type Dir struct {
	Name string
	Path string
	// Size is what the directory counts toward the capacity: 1 in count mode,
	// the recursive byte size measured at insertion in byte mode.
	Size int64
}

// Options configures a Cache.
type Options struct {
	// Capacity is the maximum number of entries, or bytes in ByteMode. Clamped to at least 1.
	Capacity int64

	// ByteMode accounts entries by their recursive on-disk size instead of counting them.
	ByteMode bool

	// Filter prunes the startup scan of the root. It is not applied to Add.
	Filter Filter

	// PromoteOnHit makes GetOrAdd move an already registered entry to the newest
	// position. When false a hit leaves the recency order untouched.
	PromoteOnHit bool

	// Touch bumps a directory's modification time whenever it becomes the newest
	// entry, so that a later process rebuilds the same order from the startup scan.
	Touch bool

	// MinFreeBytes, in ByteMode, keeps evicting until the filesystem holding the
	// root has at least this many free bytes.
	MinFreeBytes int64

	// Strategy names the eviction strategy. Defaults to "lru".
	Strategy string

	// Registerer receives the cache metrics. Nil disables registration.
	Registerer prometheus.Registerer

	// Namespace prefixes the metric names. Defaults to DefaultNamespace.
	Namespace string
}

// Cache is a directory LRU cache rooted at a single path.
//
// All mutations, including the deletion of evicted directories, happen under
// one lock and block the caller for the duration of the disk I/O.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Dir
	mgr     *eviction.Manager
	group   singleflight.Group

	fs       billy.Filesystem
	root     string
	chtimes  func(name string, t time.Time) error
	capacity int64
	byteMode bool
	promote  bool
	touch    bool
	metrics  *metrics.Metrics
}

// New opens the cache rooted at root, creating the directory if needed.
//
// Existing children that pass opts.Filter are registered from the oldest to the
// newest modification time. Entries that do not fit the capacity are evicted
// right away, which deletes them from disk.
func New(root string, opts Options) (*Cache, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache root %s: %w", root, err)
	}

	info, err := os.Stat(abs)
	scan := true
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(abs, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache root %s: %w", abs, err)
		}
		slog.Info("Created cache root", "root", abs)
		scan = false
	case err != nil:
		return nil, fmt.Errorf("failed to stat cache root %s: %w", abs, err)
	case !info.IsDir():
		return nil, fmt.Errorf("cache root %s is not a directory", abs)
	}

	chtimes := func(name string, t time.Time) error {
		return os.Chtimes(filepath.Join(abs, name), t, t)
	}
	return newCache(osfs.New(abs), abs, chtimes, opts, scan)
}

// NewWithFS opens a cache over fsys, whose root is the cache root.
// Touch is honoured only when fsys implements billy.Change. MinFreeBytes is
// ignored: free space is measured on the host filesystem, which fsys may not be.
func NewWithFS(fsys billy.Filesystem, opts Options) (*Cache, error) {
	if opts.MinFreeBytes > 0 {
		slog.Warn("Ignoring min free space on a non OS filesystem", "min_free", opts.MinFreeBytes)
		opts.MinFreeBytes = 0
	}

	var chtimes func(string, time.Time) error
	if ch, ok := fsys.(billy.Change); ok {
		chtimes = func(name string, t time.Time) error {
			return ch.Chtimes(name, t, t)
		}
	}
	return newCache(fsys, fsys.Root(), chtimes, opts, true)
}

func newCache(fsys billy.Filesystem, root string, chtimes func(string, time.Time) error, opts Options, scan bool) (*Cache, error) {
	strat, err := eviction.GetStrategy(opts.Strategy)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize eviction strategy: %w", err)
	}

	capacity := max(opts.Capacity, 1)
	policies := []policy.Policy{maxsize.New(capacity)}
	if opts.MinFreeBytes > 0 {
		if opts.ByteMode {
			policies = append(policies, &minfree.Policy{Path: root, MinFreeBytes: opts.MinFreeBytes})
		} else {
			slog.Warn("Ignoring min free space outside byte mode", "min_free", opts.MinFreeBytes)
		}
	}

	namespace := opts.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}
	m, err := metrics.New(namespace, opts.Registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	if opts.Touch && chtimes == nil {
		slog.Warn("Filesystem cannot change modification times, touch disabled", "root", root)
	}

	c := &Cache{
		entries:  make(map[string]Dir),
		mgr:      eviction.NewManager(policies, strat),
		fs:       fsys,
		root:     root,
		chtimes:  chtimes,
		capacity: capacity,
		byteMode: opts.ByteMode,
		promote:  opts.PromoteOnHit,
		touch:    opts.Touch && chtimes != nil,
		metrics:  m,
	}

	if scan {
		if err := c.load(opts.Filter); err != nil {
			return nil, err
		}
	}

	c.observe()
	return c, nil
}

// load registers the existing children of the root, oldest first.
func (c *Cache) load(filter Filter) error {
	infos, err := c.fs.ReadDir(".")
	if err := errutil.IgnoreNotExist(err); err != nil {
		return fmt.Errorf("failed to list cache root %s: %w", c.root, err)
	}

	children := make([]fs.FileInfo, 0, len(infos))
	for _, info := range infos {
		if filter != nil && !filter(c.fs.Join(c.root, info.Name()), info) {
			continue
		}
		children = append(children, info)
	}

	slices.SortStableFunc(children, func(a, b fs.FileInfo) int {
		if n := a.ModTime().Compare(b.ModTime()); n != 0 {
			return n
		}
		return strings.Compare(a.Name(), b.Name())
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, info := range children {
		c.insertLocked(info.Name())
		errutil.ReportError(c.evictLocked(), "Failed to evict while loading cache", "root", c.root)
	}

	slog.Info("Initial cache state loaded", "root", c.root, "count", c.mgr.Len(), "size", c.mgr.Current(), "capacity", c.capacity)
	return nil
}

// Add creates root/name if needed and registers it as the newest entry, then
// evicts the oldest entries until the cache fits its capacity again. Adding a
// registered name promotes it and re-measures its size.
//
// The entry stays registered when the returned error only reports evicted
// directories that could not be fully deleted.
func (c *Cache) Add(name string) (Dir, error) {
	if err := validName(name); err != nil {
		return Dir{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addLocked(name)
}

// Remove unregisters name without touching the disk.
func (c *Cache) Remove(name string) (Dir, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d, ok := c.entries[name]
	if !ok {
		return Dir{}, false
	}
	delete(c.entries, name)
	c.mgr.Remove(name)
	c.observe()

	slog.Debug("Removed directory", "name", name)
	return d, true
}

// Get looks name up without changing the recency order.
func (c *Cache) Get(name string) (Dir, bool) {
	c.mu.RLock()
	d, ok := c.entries[name]
	c.mu.RUnlock()

	c.metrics.Lookup(ok)
	return d, ok
}

// GetOrAdd returns the registered entry for name, or adds it.
//
// A hit never evicts anything. Misses are serialized with every other
// mutation and re-checked under the lock, so concurrent callers asking for the
// same new name create and account it once.
func (c *Cache) GetOrAdd(name string) (Dir, error) {
	if err := validName(name); err != nil {
		return Dir{}, err
	}

	if d, ok := c.hit(name); ok {
		return d, nil
	}

	v, err, _ := c.group.Do(name, func() (any, error) {
		c.mu.Lock()
		defer c.mu.Unlock()

		if d, ok := c.entries[name]; ok {
			return d, nil
		}
		return c.addLocked(name)
	})
	d, _ := v.(Dir)
	return d, err
}

func (c *Cache) hit(name string) (Dir, bool) {
	if !c.promote {
		return c.Get(name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	d, ok := c.entries[name]
	if ok {
		c.mgr.Touch(name)
		c.touchLocked(name)
	}
	c.metrics.Lookup(ok)
	return d, ok
}

// Clear deletes every child of the root, registered or not, and forgets all
// entries. The root itself is kept.
//
// Clear walks the whole tree synchronously; keep it off latency sensitive paths.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := fsutil.RemoveAll(c.fs, ".", false)
	c.entries = make(map[string]Dir)
	c.mgr.Reset()
	c.observe()

	if err != nil {
		return fmt.Errorf("failed to clear cache root %s: %w", c.root, err)
	}
	slog.Info("Cleared cache", "root", c.root)
	return nil
}

// Trim runs the eviction loop without inserting anything. The newest entry is
// never evicted.
func (c *Cache) Trim() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.evictLocked()
	c.observe()
	return err
}

// ErrInvalidInterval is returned by Run for a non-positive interval.
var ErrInvalidInterval = errors.New("trim interval must be positive")

// Run calls Trim every interval until ctx is done. It is only useful with
// policies that react to outside pressure, such as Options.MinFreeBytes.
func (c *Cache) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			errutil.ReportError(c.Trim(), "Failed to trim cache", "root", c.root)
		}
	}
}

// Contains reports whether name is registered without changing the recency order.
func (c *Cache) Contains(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[name]
	return ok
}

// Len returns the number of registered directories.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Size returns the accounted total of all entries.
func (c *Cache) Size() int64 {
	return c.mgr.Current()
}

// Capacity returns the clamped capacity.
func (c *Cache) Capacity() int64 {
	return c.capacity
}

// ByteMode reports whether entries are accounted in bytes.
func (c *Cache) ByteMode() bool {
	return c.byteMode
}

// Root returns the root path.
func (c *Cache) Root() string {
	return c.root
}

// Names returns the registered names from the oldest to the newest.
func (c *Cache) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mgr.Keys()
}

// Entries returns the registered directories from the oldest to the newest.
func (c *Cache) Entries() []Dir {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := c.mgr.Keys()
	dirs := make([]Dir, 0, len(keys))
	for _, k := range keys {
		dirs = append(dirs, c.entries[k])
	}
	return dirs
}

func (c *Cache) addLocked(name string) (Dir, error) {
	if err := c.fs.MkdirAll(name, 0o755); err != nil {
		return Dir{}, fmt.Errorf("failed to create %s: %w", name, err)
	}
	c.touchLocked(name)

	d := c.insertLocked(name)
	slog.Debug("Added directory", "name", name, "size", d.Size)

	err := c.evictLocked()
	c.observe()
	return d, err
}

func (c *Cache) insertLocked(name string) Dir {
	size := int64(1)
	if c.byteMode {
		size = fsutil.Size(c.fs, name)
	}

	d := Dir{
		Name: name,
		Path: c.fs.Join(c.root, name),
		Size: size,
	}
	c.entries[name] = d
	c.mgr.Add(name, size)
	c.metrics.Added()
	return d
}

// evictLocked pops the victims off the manager, then deletes their directories.
// Victims are unregistered even when their deletion fails.
func (c *Cache) evictLocked() error {
	victims := c.mgr.Victims()
	if len(victims) == 0 {
		return nil
	}

	slog.Info("Evicting directories", "count", len(victims), "size", c.mgr.Current(), "capacity", c.capacity)

	var errs []error
	for _, victim := range victims {
		delete(c.entries, victim.Key)

		err := fsutil.RemoveAll(c.fs, victim.Key, true)
		c.metrics.Evicted(victim.Size, err)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to delete evicted %s: %w", victim.Key, err))
			continue
		}
		slog.Debug("Evicted directory", "name", victim.Key, "size", victim.Size)
	}
	return errors.Join(errs...)
}

func (c *Cache) touchLocked(name string) {
	if !c.touch {
		return
	}
	errutil.LogMsg(c.chtimes(name, time.Now()), "Failed to touch directory", "name", name)
}

func (c *Cache) observe() {
	c.metrics.Observe(len(c.entries), c.mgr.Current(), c.capacity)
}

func validName(name string) error {
	switch name {
	case "", ".", "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
