package audio

import "sync"

// Cache holds decoded clips keyed by question ID so replaying a
// question does not re-synthesize or re-decode.
type Cache struct {
	mu    sync.Mutex
	clips map[string]*Clip
}

// NewCache creates an empty clip cache.
func NewCache() *Cache {
	return &Cache{clips: make(map[string]*Clip)}
}

// Get returns the cached clip for the question, or nil.
func (c *Cache) Get(questionID string) *Clip {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clips[questionID]
}

// Put stores a decoded clip for the question.
func (c *Cache) Put(questionID string, clip *Clip) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clips[questionID] = clip
}

// Reset drops all cached clips. Called when a new exam starts.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clips = make(map[string]*Clip)
}
