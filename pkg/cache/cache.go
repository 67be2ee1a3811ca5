// Package cache persists a mapping from relative file path to last-known
// content hash and token count, so unchanged files are not re-estimated on
// subsequent runs. The store is loaded once at pipeline start and flushed
// once at pipeline end via an atomic whole-file replace, so a crash mid-run
// can lose that run's updates but never corrupts prior entries.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Entry is the persisted record for a single file.
type Entry struct {
	Hash   string `json:"hash"`
	Tokens int    `json:"tokens"`
}

// store is the on-disk shape of the cache file.
type store struct {
	Fingerprint string           `json:"fingerprint"`
	Entries     map[string]Entry `json:"entries"`
}

// Cache is the in-memory cache service handed to pipeline workers.
// Distinct keys are owned by distinct workers, so the mutex only guards
// concurrent map access, never read-modify-write races on one key.
type Cache struct {
	mu          sync.Mutex
	path        string
	fingerprint string
	entries     map[string]Entry
	logger      *zap.Logger
}

// Load reads the cache file at path. A missing or unreadable file yields an
// empty cache; a fingerprint mismatch discards all prior entries so that a
// configuration change forces full reprocessing.
func Load(path, fingerprint string, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Cache{
		path:        path,
		fingerprint: fingerprint,
		entries:     make(map[string]Entry),
		logger:      logger,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Failed to read cache file, starting empty", zap.String("path", path), zap.Error(err))
		}
		return c
	}

	var st store
	if err := json.Unmarshal(data, &st); err != nil {
		logger.Warn("Cache file is corrupt, starting empty", zap.String("path", path), zap.Error(err))
		return c
	}

	if st.Fingerprint != fingerprint {
		logger.Info("Configuration fingerprint changed, discarding cache",
			zap.Int("discardedEntries", len(st.Entries)))
		return c
	}

	if st.Entries != nil {
		c.entries = st.Entries
	}
	logger.Debug("Loaded cache", zap.String("path", path), zap.Int("entries", len(c.entries)))
	return c
}

// ShouldProcess reports whether the file at relPath needs token estimation.
// True on first sight of a path or when the content hash differs.
func (c *Cache) ShouldProcess(relPath, hash string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[relPath]
	return !ok || entry.Hash != hash
}

// Tokens returns the cached token count for relPath, or 0 when absent.
func (c *Cache) Tokens(relPath string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[relPath].Tokens
}

// Record stores the hash and token count for relPath. Called only after a
// successful transcription of the corresponding file.
func (c *Cache) Record(relPath, hash string, tokens int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[relPath] = Entry{Hash: hash, Tokens: tokens}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Flush writes the cache to disk through a temporary file renamed into
// place, so readers never observe a partially written store.
func (c *Cache) Flush() error {
	c.mu.Lock()
	st := store{Fingerprint: c.fingerprint, Entries: c.entries}
	data, err := json.MarshalIndent(st, "", "  ")
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		return fmt.Errorf("failed to replace cache file: %w", err)
	}
	c.logger.Debug("Flushed cache", zap.String("path", c.path), zap.Int("entries", c.Len()))
	return nil
}

// HashBytes returns the hex SHA-256 digest of raw file bytes. The hash is
// content-addressed: it is computed before any decoding, so encoding
// substitutions never invalidate the cache and real byte changes always do.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Fingerprint hashes the active configuration (rules plus token-strategy
// identity) into a single key used to invalidate the whole cache when
// settings change.
func Fingerprint(parts []string) string {
	h := sha256.New()
	for _, part := range parts {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
