package memory

import (
	"encoding/json"
	"fmt"
	"time"
)

// SalientItem is one short fact kept across turns without re-retrieval,
// such as a stated preference.
type SalientItem struct {
	Key          string    `json:"key"`
	Value        any       `json:"value"`
	LastAccessed time.Time `json:"last_accessed"`
}

// SalientCache is a mutable key-value store of salient facts scoped to one
// (user, persona) pair. Keys are unique and nothing is ever evicted
// implicitly; items live until explicitly overwritten.
//
// Iteration order is fixed to insertion order so that prompt rendering is
// reproducible. Overwriting an existing key keeps its original position.
type SalientCache struct {
	UserID    string
	PersonaID string

	items map[string]*SalientItem
	order []string
}

// NewSalientCache creates an empty cache scoped to an owner key.
func NewSalientCache(userID, personaID string) *SalientCache {
	return &SalientCache{
		UserID:    userID,
		PersonaID: personaID,
		items:     make(map[string]*SalientItem),
	}
}

// Set inserts or overwrites the item under key, resetting its
// last-accessed time to now. Set always succeeds.
func (c *SalientCache) Set(key string, value any) {
	if _, exists := c.items[key]; !exists {
		c.order = append(c.order, key)
	}
	c.items[key] = &SalientItem{
		Key:          key,
		Value:        value,
		LastAccessed: time.Now(),
	}
}

// Get returns the stored value and refreshes its last-accessed time. The
// second return value reports presence, so a stored nil is distinguishable
// from an absent key.
func (c *SalientCache) Get(key string) (any, bool) {
	item, ok := c.items[key]
	if !ok {
		return nil, false
	}
	item.LastAccessed = time.Now()
	return item.Value, true
}

// Snapshot returns copies of all items in insertion order for formatting.
// Unlike Get, it does not touch last-accessed times.
func (c *SalientCache) Snapshot() []SalientItem {
	out := make([]SalientItem, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, *c.items[key])
	}
	return out
}

// Len returns the number of items in the cache.
func (c *SalientCache) Len() int {
	return len(c.items)
}

// salientCacheJSON is the on-disk shape. Items are serialized as an
// ordered array so insertion order survives the round trip.
type salientCacheJSON struct {
	UserID    string        `json:"user_id"`
	PersonaID string        `json:"persona_id"`
	Items     []SalientItem `json:"items"`
}

// MarshalJSON implements json.Marshaler.
func (c *SalientCache) MarshalJSON() ([]byte, error) {
	return json.Marshal(salientCacheJSON{
		UserID:    c.UserID,
		PersonaID: c.PersonaID,
		Items:     c.Snapshot(),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *SalientCache) UnmarshalJSON(data []byte) error {
	var raw salientCacheJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.UserID = raw.UserID
	c.PersonaID = raw.PersonaID
	c.items = make(map[string]*SalientItem, len(raw.Items))
	c.order = c.order[:0]
	for i := range raw.Items {
		item := raw.Items[i]
		if _, exists := c.items[item.Key]; exists {
			return fmt.Errorf("salient cache: duplicate key %q", item.Key)
		}
		c.items[item.Key] = &item
		c.order = append(c.order, item.Key)
	}
	return nil
}
