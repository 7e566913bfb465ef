package summarizer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/recapd/recapd/internal/models"
)

// Cache stores computed summaries keyed by the exact request that
// produced them. Entries are never evicted automatically; expiry, if
// wanted, belongs to an external store.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*models.Summary
}

// NewCache creates an empty summary cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]*models.Summary),
	}
}

// cacheKey derives the key for one summarization request. Two requests
// differing in conversation, range, strategy, level, or message content
// never collide: the content hash catches edited transcripts at
// unchanged indices.
func cacheKey(conversationID string, rng models.MessageRange, strategy models.Strategy, level models.CompressionLevel, messages []models.Message) string {
	h := sha256.New()
	for _, msg := range messages {
		h.Write([]byte(msg.ID))
		h.Write([]byte{0})
		h.Write([]byte(msg.Content))
		h.Write([]byte{0})
	}
	digest := hex.EncodeToString(h.Sum(nil))[:16]

	return fmt.Sprintf("%s|%d:%d|%s|%s|%s", conversationID, rng.Start, rng.End, strategy, level, digest)
}

// Get returns the cached summary for key, if any.
func (c *Cache) Get(key string) (*models.Summary, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.entries[key]
	return s, ok
}

// Set stores a summary under key, replacing any previous entry.
func (c *Cache) Set(key string, summary *models.Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = summary
}

// Invalidate drops every entry belonging to one conversation.
func (c *Cache) Invalidate(conversationID string) {
	prefix := conversationID + "|"

	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*models.Summary)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
