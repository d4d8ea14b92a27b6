package annotype

import (
	"io"
	"log/slog"
	"sync"

	"github.com/roach88/annotype/internal/canon"
)

// Cache memoizes applied descriptors by (bare identity, canonical args).
//
// Entries are never evicted. Thread-safety: lookup-then-insert runs under
// one mutex, so concurrent construction of equal arguments yields a single
// entry.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey]*Descriptor
	logger  *slog.Logger
}

type cacheKey struct {
	bare *Descriptor
	args string
}

// NewCache creates an empty cache that logs nowhere.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[cacheKey]*Descriptor),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

var defaultCache = NewCache()

// DefaultCache returns the process-wide cache used when no WithCache
// option is given.
func DefaultCache() *Cache {
	return defaultCache
}

// SetLogger sets the logger of the default cache.
func SetLogger(l *slog.Logger) {
	defaultCache.SetLogger(l)
}

// SetLogger sets the logger used for construction events. Nil discards.
func (c *Cache) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = l
}

// Len returns the number of cached descriptors.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Lookup returns the cached descriptor for bare and canonical args key.
func (c *Cache) Lookup(bare *Descriptor, argsKey string) (*Descriptor, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.entries[cacheKey{bare: bare, args: argsKey}]
	return d, ok
}

// getOrCreate returns the cached descriptor for (from.bare, key), building
// and inserting it on a miss. args must already be canonical.
func (c *Cache) getOrCreate(from *Descriptor, args []any, key string) *Descriptor {
	bare := from.bare
	ck := cacheKey{bare: bare, args: key}

	c.mu.Lock()
	defer c.mu.Unlock()

	if d, ok := c.entries[ck]; ok {
		c.logger.Debug("descriptor cache hit", "bare", bare.name, "descriptor", d.String())
		return d
	}

	d := &Descriptor{
		name:    bare.name,
		id:      bare.id,
		kind:    bare.kind,
		bare:    bare,
		derived: from,
		args:    args,
		argsKey: key,
	}
	d.hash = canon.HashWithDomain(canon.DomainDescriptor, canon.MustMarshal(d.Canonical()))
	c.entries[ck] = d

	c.logger.Debug("descriptor constructed",
		"bare", bare.name,
		"descriptor", d.String(),
		"hash", d.hash,
		"cache_size", len(c.entries),
	)
	return d
}
