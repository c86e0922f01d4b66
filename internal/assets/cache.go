// Package assets keeps a generational on-disk copy of the static resources
// the app depends on, so a launch without network still has everything it
// needs. Each cache generation lives in its own directory; activating a new
// generation removes the old ones.
package assets

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/snapbasket/snapbasket/internal/domain"
	"github.com/snapbasket/snapbasket/internal/logger"
)

// Asset is one cached resource.
type Asset struct {
	URL         string
	ContentType string
	Data        []byte
}

// Cache is a thread-safe two-tier store (in-memory + filesystem) for static
// resources, keyed by sha256(url). Essential resources are served
// cache-first with a background refresh; everything else is network-first
// with the cache as fallback.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]*Asset // hash -> asset
	log        *logger.Logger
	baseDir    string
	generation string
	essentials []string
	client     *http.Client
	hits       int64
	misses     int64
}

// CacheOption configures the cache.
type CacheOption func(*Cache)

// WithHTTPClient replaces the default fetch client.
func WithHTTPClient(c *http.Client) CacheOption {
	return func(a *Cache) {
		a.client = c
	}
}

// NewCache creates an asset cache rooted at baseDir/generation.
//
//   - baseURL:    origin that relative essential entries resolve against.
//   - baseDir:    parent directory holding one subdirectory per generation.
//   - generation: the active generation name; bump it to invalidate
//     everything cached by previous builds.
//   - essentials: URLs that must survive offline and are fetched eagerly
//     by Install. Entries starting with "/" are joined onto baseURL;
//     absolute URLs (CDN assets) pass through untouched.
func NewCache(baseURL, baseDir, generation string, essentials []string, log *logger.Logger, opts ...CacheOption) *Cache {
	resolved := make([]string, 0, len(essentials))
	for _, e := range essentials {
		resolved = append(resolved, resolveURL(baseURL, e))
	}
	c := &Cache{
		entries:    make(map[string]*Asset),
		log:        log,
		baseDir:    baseDir,
		generation: generation,
		essentials: resolved,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := os.MkdirAll(c.dir(), 0o755); err != nil {
		log.Error("assets: failed to create cache dir %s: %v", c.dir(), err)
	}
	return c
}

// resolveURL joins a relative essential onto the backend origin. Absolute
// URLs are left alone so CDN entries work without a backend.
func resolveURL(base, entry string) string {
	if strings.HasPrefix(entry, "http://") || strings.HasPrefix(entry, "https://") {
		return entry
	}
	if !strings.HasPrefix(entry, "/") {
		entry = "/" + entry
	}
	return strings.TrimRight(base, "/") + entry
}

// Generation returns the active generation name.
func (c *Cache) Generation() string { return c.generation }

// Install eagerly fetches every essential resource into the cache. A
// resource that fails to download is logged and skipped; one bad CDN entry
// must not block the rest.
func (c *Cache) Install(ctx context.Context) {
	c.log.Info("assets: installing %d essentials into %s", len(c.essentials), c.generation)
	for _, url := range c.essentials {
		if c.has(url) {
			continue
		}
		if _, err := c.fetchAndStore(ctx, url); err != nil {
			c.log.Warn("assets: essential %s not cached: %v", url, err)
		}
	}
}

// Activate removes every sibling generation directory, leaving only the
// active one. Call it once the current generation is populated.
func (c *Cache) Activate() error {
	dirEntries, err := os.ReadDir(c.baseDir)
	if err != nil {
		return fmt.Errorf("assets: read %s: %w", c.baseDir, err)
	}
	for _, e := range dirEntries {
		if !e.IsDir() || e.Name() == c.generation {
			continue
		}
		old := filepath.Join(c.baseDir, e.Name())
		if err := os.RemoveAll(old); err != nil {
			c.log.Warn("assets: could not remove stale generation %s: %v", old, err)
			continue
		}
		c.log.Info("assets: removed stale generation %s", e.Name())
	}
	return nil
}

// Fetch returns the resource for url. Essential resources come from the
// cache when present, with a background refresh keeping them current; other
// resources go to the network first and fall back to the cache. A miss with
// no network yields ErrCacheMiss.
func (c *Cache) Fetch(ctx context.Context, url string) (*Asset, error) {
	if c.isEssential(url) {
		if asset, ok := c.get(url); ok {
			go c.revalidate(url)
			return asset, nil
		}
		return c.fetchAndStore(ctx, url)
	}

	asset, err := c.fetchAndStore(ctx, url)
	if err == nil {
		return asset, nil
	}
	if cached, ok := c.get(url); ok {
		c.log.Debug("assets: network failed for %s, serving cached copy", url)
		return cached, nil
	}
	return nil, fmt.Errorf("assets: %s unavailable: %w", url, domain.ErrCacheMiss)
}

// Refresh pulls every essential through Fetch, so cached copies are served
// immediately and anything stale is revalidated. Returns how many resolved
// and how many are unavailable from both network and cache.
func (c *Cache) Refresh(ctx context.Context) (ok, failed int) {
	for _, url := range c.essentials {
		if _, err := c.Fetch(ctx, url); err != nil {
			c.log.Warn("assets: refresh %s: %v", url, err)
			failed++
			continue
		}
		ok++
	}
	return ok, failed
}

// Stats returns hit and miss counts.
func (c *Cache) Stats() (hits, misses int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// isEssential matches exact URLs plus the bare origin ("/" covers the
// landing document however the origin is spelled).
func (c *Cache) isEssential(url string) bool {
	for _, e := range c.essentials {
		if url == e {
			return true
		}
		if e == "/" && strings.HasSuffix(url, "/") {
			return true
		}
		if strings.HasPrefix(e, "/") && e != "/" && strings.HasSuffix(url, e) {
			return true
		}
	}
	return false
}

// revalidate refreshes a cached essential in the background. Failures are
// invisible; the cached copy stays authoritative until a fetch succeeds.
func (c *Cache) revalidate(url string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.client.Timeout)
	defer cancel()
	if _, err := c.fetchAndStore(ctx, url); err != nil {
		c.log.Debug("assets: revalidate %s: %v", url, err)
	}
}

func (c *Cache) fetchAndStore(ctx context.Context, url string) (*Asset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("assets: build request for %s: %w", url, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("assets: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("assets: fetch %s: status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("assets: read %s: %w", url, err)
	}

	asset := &Asset{
		URL:         url,
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}
	c.put(asset)
	return asset, nil
}

// ── cache tiers ──────────────────────────────────────────────────

func (c *Cache) get(url string) (*Asset, bool) {
	key := hashKey(url)

	c.mu.RLock()
	asset, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return asset, true
	}

	if asset, ok := c.readDisk(url, key); ok {
		c.mu.Lock()
		c.entries[key] = asset
		c.hits++
		c.mu.Unlock()
		return asset, true
	}

	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
	return nil, false
}

func (c *Cache) has(url string) bool {
	key := hashKey(url)
	c.mu.RLock()
	_, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return true
	}
	_, err := os.Stat(c.diskPath(key))
	return err == nil
}

func (c *Cache) put(asset *Asset) {
	key := hashKey(asset.URL)

	c.mu.Lock()
	c.entries[key] = asset
	c.mu.Unlock()

	c.writeDisk(key, asset)
	c.log.Debug("assets: stored %s (%d bytes)", asset.URL, len(asset.Data))
}

// ── disk helpers ─────────────────────────────────────────────────

func (c *Cache) dir() string {
	return filepath.Join(c.baseDir, c.generation)
}

func (c *Cache) diskPath(key string) string {
	return filepath.Join(c.dir(), key)
}

// readDisk loads the asset body plus its content-type sidecar.
func (c *Cache) readDisk(url, key string) (*Asset, bool) {
	data, err := os.ReadFile(c.diskPath(key))
	if err != nil {
		return nil, false
	}
	asset := &Asset{URL: url, Data: data}
	if ctype, err := os.ReadFile(c.diskPath(key) + ".ctype"); err == nil {
		asset.ContentType = strings.TrimSpace(string(ctype))
	}
	return asset, true
}

func (c *Cache) writeDisk(key string, asset *Asset) {
	path := c.diskPath(key)
	if err := os.WriteFile(path, asset.Data, 0o644); err != nil {
		c.log.Error("assets: disk write failed for %s: %v", path, err)
		return
	}
	if asset.ContentType != "" {
		if err := os.WriteFile(path+".ctype", []byte(asset.ContentType), 0o644); err != nil {
			c.log.Error("assets: sidecar write failed for %s: %v", path, err)
		}
	}
}

// hashKey returns a hex-encoded SHA-256 of the URL.
func hashKey(url string) string {
	h := sha256.Sum256([]byte(url))
	return hex.EncodeToString(h[:])
}
