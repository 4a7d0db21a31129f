package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erraggy/jsctools/schema"
)

// schemaInput represents the three ways a schema document can be provided
// to a tool. Exactly one of File, URL, or Content must be set.
type schemaInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a JSON Schema file on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch a JSON Schema document from"`
	Content string `json:"content,omitempty" jsonschema:"Inline schema content (JSON or YAML)"`
}

// cacheEntry holds a cached schema tree with LRU ordering and TTL expiry.
type cacheEntry struct {
	tree      *schema.Tree
	insertAt  time.Time
	expiresAt time.Time
}

// treeCacheStore provides a session-scoped cache for parsed schema trees.
// File inputs are keyed by (absolutePath, modTime). Content inputs are keyed
// by a SHA-256 hash. URL inputs are keyed by URL string.
// Entries have per-type TTLs and a background sweeper removes expired entries.
type treeCacheStore struct {
	mu             sync.Mutex
	entries        map[string]*cacheEntry
	maxSize        int
	sweeperStarted atomic.Bool
}

var treeCache = &treeCacheStore{
	entries: make(map[string]*cacheEntry),
	maxSize: cfg.CacheMaxSize,
}

// get returns a cached tree or nil. Expired entries are lazily removed.
func (c *treeCacheStore) get(key string) *schema.Tree {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
			delete(c.entries, key)
			return nil
		}
		// Touch entry for LRU.
		e.insertAt = time.Now()
		return e.tree
	}
	return nil
}

// putWithTTL stores a tree with a specific TTL, evicting the oldest entry
// if at capacity.
func (c *treeCacheStore) putWithTTL(key string, tree *schema.Tree, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	entry := &cacheEntry{tree: tree, insertAt: now, expiresAt: now.Add(ttl)}

	if _, ok := c.entries[key]; ok {
		c.entries[key] = entry
		return
	}

	if len(c.entries) >= c.maxSize {
		var oldestKey string
		var oldestTime time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.insertAt.Before(oldestTime) {
				oldestKey = k
				oldestTime = e.insertAt
			}
		}
		if oldestKey != "" {
			delete(c.entries, oldestKey)
		}
	}

	c.entries[key] = entry
}

// sweep removes all expired entries from the cache.
func (c *treeCacheStore) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, e := range c.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// startSweeper launches a background goroutine that periodically removes
// expired entries. It is safe to call multiple times; only the first call
// spawns a sweeper. It stops when ctx is cancelled.
func (c *treeCacheStore) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	if !c.sweeperStarted.CompareAndSwap(false, true) {
		return
	}
	var sweeping atomic.Bool
	go func() {
		defer c.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !sweeping.CompareAndSwap(false, true) {
					continue
				}
				c.sweep()
				sweeping.Store(false)
			}
		}
	}()
}

// reset clears all cached entries. Used in tests.
func (c *treeCacheStore) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// size returns the number of cached entries.
func (c *treeCacheStore) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// makeCacheKey creates a cache key for the given schema input.
func makeCacheKey(s schemaInput) string {
	switch {
	case s.File != "":
		absPath, err := filepath.Abs(s.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return "" // Can't stat, don't cache.
		}
		return fmt.Sprintf("file:%s:%d", absPath, info.ModTime().UnixNano())
	case s.Content != "":
		h := sha256.Sum256([]byte(s.Content))
		return "content:" + hex.EncodeToString(h[:])
	case s.URL != "":
		return "url:" + s.URL
	default:
		return ""
	}
}

// resolve parses the schema from whichever input was provided, using the
// cache for file, URL, and content inputs.
func (s schemaInput) resolve(ctx context.Context) (*schema.Tree, error) {
	count := 0
	if s.File != "" {
		count++
	}
	if s.URL != "" {
		count++
	}
	if s.Content != "" {
		count++
	}
	if count != 1 {
		return nil, fmt.Errorf("exactly one of file, url, or content must be provided (got %d)", count)
	}

	if s.Content != "" && int64(len(s.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set JSCTOOLS_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}

	var key string
	var ttl time.Duration
	if cfg.CacheEnabled {
		key = makeCacheKey(s)
		switch {
		case s.File != "":
			ttl = cfg.CacheFileTTL
		case s.URL != "":
			ttl = cfg.CacheURLTTL
		default:
			ttl = cfg.CacheContentTTL
		}
	}
	if key != "" {
		if cached := treeCache.get(key); cached != nil {
			return cached, nil
		}
	}

	var tree *schema.Tree
	var err error
	switch {
	case s.File != "":
		tree, err = schema.ParseFile(s.File)
	case s.URL != "":
		tree, err = fetchSchema(ctx, s.URL)
	default:
		tree, err = schema.Parse([]byte(s.Content), "root")
	}
	if err != nil {
		return nil, err
	}

	if key != "" {
		treeCache.putWithTTL(key, tree, ttl)
	}
	return tree, nil
}

// fetchSchema retrieves a schema document over HTTP, guarding against
// requests to private address space unless explicitly allowed, and parses
// it. The root class name comes from the URL path base name.
func fetchSchema(ctx context.Context, rawURL string) (*schema.Tree, error) {
	client := newSafeHTTPClient()
	if cfg.AllowPrivateIPs {
		client = nil
	}
	data, err := fetchURL(ctx, client, rawURL)
	if err != nil {
		return nil, err
	}

	rootName := "root"
	if u, err := url.Parse(rawURL); err == nil {
		base := strings.TrimSuffix(path.Base(u.Path), path.Ext(u.Path))
		base = strings.TrimSuffix(base, ".schema")
		if base != "" && base != "." && base != "/" {
			rootName = base
		}
	}
	return schema.Parse(data, rootName)
}
