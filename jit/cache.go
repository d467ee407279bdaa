package jit

import (
	"encoding/hex"
	stderrors "errors"
	"sync"

	"github.com/zeebo/blake3"
	"go.uber.org/zap"

	"github.com/shaunstanislauslau/xls/ir"
)

// fingerprintKey separates function fingerprints from any other BLAKE3
// hash of the same text.
var fingerprintKey = func() []byte {
	var key [32]byte
	copy(key[:], "xls.jit.function.fingerprint.v1")
	return key[:]
}()

// Fingerprint returns the hex BLAKE3 keyed hash of the printed function.
// Structurally identical functions share a fingerprint.
func Fingerprint(fn *ir.Function) string {
	hasher, err := blake3.NewKeyed(fingerprintKey)
	if err != nil {
		panic("jit: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	_, _ = hasher.Write([]byte(fn.String()))
	return hex.EncodeToString(hasher.Sum(nil))
}

// Cache holds compiled functions keyed by fingerprint for the life of the
// process. Functions returned by Get are owned by the cache and must not be
// closed by the caller.
type Cache struct {
	cfg     *Config
	entries map[string]*cacheEntry
	mu      sync.Mutex
}

type cacheEntry struct {
	fn   *Function
	err  error
	once sync.Once
}

// NewCache creates a cache compiling with cfg. A nil cfg uses defaults.
func NewCache(cfg *Config) *Cache {
	return &Cache{
		cfg:     cfg,
		entries: make(map[string]*cacheEntry),
	}
}

// Get returns the compiled form of fn, compiling it on first use.
// Compilation failures are cached as well.
func (c *Cache) Get(fn *ir.Function) (*Function, error) {
	key := Fingerprint(fn)

	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &cacheEntry{}
		c.entries[key] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		e.fn, e.err = CompileWithConfig(fn, c.cfg)
		Logger().Debug("cache miss", zap.String("function", fn.Name()), zap.String("fingerprint", key[:16]))
	})
	return e.fn, e.err
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close closes every cached function and empties the cache.
func (c *Cache) Close() error {
	c.mu.Lock()
	entries := c.entries
	c.entries = make(map[string]*cacheEntry)
	c.mu.Unlock()

	var errs []error
	for _, e := range entries {
		e.once.Do(func() {})
		if e.fn != nil {
			errs = append(errs, e.fn.Close())
		}
	}
	return stderrors.Join(errs...)
}
