package cache

import (
	"fmt"

	"github.com/ValentinKolb/dWire/lib/openwire/codec"
	"github.com/ValentinKolb/dWire/lib/openwire/commands"
)

// MaxSize is the largest table a two-byte slot index may address
const MaxSize = 16383

// DefaultSize is the table size proposed during negotiation when nothing else is configured
const DefaultSize = 1024

// clampSize maps a configured size into [1, MaxSize]
func clampSize(size int) int {
	switch {
	case size < 1:
		return 1
	case size > MaxSize:
		return MaxSize
	default:
		return size
	}
}

// --------------------------------------------------------------------------
// Encoder side
// --------------------------------------------------------------------------

// MarshalCache assigns slots to value keys in ring order
type MarshalCache struct {
	keys  []string       // key per slot, "" for a slot never used
	index map[string]int // key -> slot
	next  int            // slot the next Add will use
	evict uint64         // number of evictions so far
}

// NewMarshalCache creates an empty table with the given number of slots
func NewMarshalCache(size int) *MarshalCache {
	size = clampSize(size)
	return &MarshalCache{
		keys:  make([]string, size),
		index: make(map[string]int, size),
	}
}

// Lookup returns the slot currently holding key
func (c *MarshalCache) Lookup(key string) (int, bool) {
	idx, ok := c.index[key]
	return idx, ok
}

// Add stores key in the next slot and returns it. When the ring wraps, the key
// previously stored in that slot is evicted and evicted is true.
func (c *MarshalCache) Add(key string) (idx int, evicted bool) {
	idx = c.next
	if old := c.keys[idx]; old != "" {
		delete(c.index, old)
		evicted = true
		c.evict++
	}
	c.keys[idx] = key
	c.index[key] = idx
	c.next = (c.next + 1) % len(c.keys)
	return idx, evicted
}

// Intern returns the slot of key, adding it first when it is not cached yet.
// isNew reports whether the caller must encode the object in full.
func (c *MarshalCache) Intern(key string) (idx int, isNew bool) {
	if idx, ok := c.index[key]; ok {
		return idx, false
	}
	idx, _ = c.Add(key)
	return idx, true
}

// Size returns the number of slots
func (c *MarshalCache) Size() int {
	return len(c.keys)
}

// Len returns the number of occupied slots
func (c *MarshalCache) Len() int {
	return len(c.index)
}

// Evictions returns the number of keys pushed out by wrap-around
func (c *MarshalCache) Evictions() uint64 {
	return c.evict
}

// Clear empties the table and restarts slot assignment at zero
func (c *MarshalCache) Clear() {
	for i := range c.keys {
		c.keys[i] = ""
	}
	c.index = make(map[string]int, len(c.keys))
	c.next = 0
}

// --------------------------------------------------------------------------
// Decoder side
// --------------------------------------------------------------------------

// UnmarshalCache mirrors a peer's MarshalCache
type UnmarshalCache struct {
	slots []commands.DataStructure
	next  int
}

// NewUnmarshalCache creates an empty table with the given number of slots
func NewUnmarshalCache(size int) *UnmarshalCache {
	return &UnmarshalCache{slots: make([]commands.DataStructure, clampSize(size))}
}

// Next returns the slot the peer must announce for its next first occurrence
func (c *UnmarshalCache) Next() int {
	return c.next
}

// Put registers a fully decoded object. idx must be the slot the table expects next.
func (c *UnmarshalCache) Put(idx int, ds commands.DataStructure) error {
	if idx != c.next {
		return fmt.Errorf("%w: first occurrence announced slot %d, expected %d", codec.ErrCacheDesync, idx, c.next)
	}
	c.slots[idx] = ds
	c.next = (c.next + 1) % len(c.slots)
	return nil
}

// Get resolves a back-reference
func (c *UnmarshalCache) Get(idx int) (commands.DataStructure, error) {
	if idx < 0 || idx >= len(c.slots) {
		return nil, fmt.Errorf("%w: slot %d outside table of %d", codec.ErrCacheDesync, idx, len(c.slots))
	}
	ds := c.slots[idx]
	if ds == nil {
		return nil, fmt.Errorf("%w: slot %d was never filled", codec.ErrCacheDesync, idx)
	}
	return ds, nil
}

// Size returns the number of slots
func (c *UnmarshalCache) Size() int {
	return len(c.slots)
}

// Clear empties the table and restarts slot assignment at zero
func (c *UnmarshalCache) Clear() {
	for i := range c.slots {
		c.slots[i] = nil
	}
	c.next = 0
}
