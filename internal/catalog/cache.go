package catalog

import (
	"log/slog"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

var snapshotJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// FallbackCache is the local substitute collection used while the record
// store is unreachable. It starts from the built-in seed, is replaced by the
// persisted snapshot when one is usable, and writes every mutation back to
// its slot. A nil SlotStore keeps the cache purely in memory.
type FallbackCache struct {
	mu      sync.Mutex
	slots   SlotStore
	records []ServiceRecord
}

func NewFallbackCache(slots SlotStore) *FallbackCache {
	c := &FallbackCache{
		slots:   slots,
		records: SeedRecords(),
	}
	if snapshot, ok := c.loadSnapshot(); ok {
		c.records = snapshot
	}
	return c
}

// loadSnapshot reads the persisted slot. Unreadable, malformed and empty
// snapshots all count as absent.
func (c *FallbackCache) loadSnapshot() ([]ServiceRecord, bool) {
	if c.slots == nil {
		return nil, false
	}
	raw, err := c.slots.Load(ServicesSlot)
	if err != nil || len(raw) == 0 {
		return nil, false
	}
	var records []ServiceRecord
	if err := snapshotJSON.Unmarshal(raw, &records); err != nil {
		slog.Warn("ignoring malformed fallback snapshot", "slot", ServicesSlot, "error", err)
		return nil, false
	}
	if len(records) == 0 {
		return nil, false
	}
	for i := range records {
		records[i].Normalize()
	}
	return records, true
}

// persist must be called with mu held.
func (c *FallbackCache) persist() {
	if c.slots == nil {
		return
	}
	raw, err := snapshotJSON.Marshal(c.records)
	if err != nil {
		slog.Warn("failed to encode fallback snapshot", "error", err)
		return
	}
	if err := c.slots.Store(ServicesSlot, raw); err != nil {
		slog.Warn("failed to persist fallback snapshot", "slot", ServicesSlot, "error", err)
	}
}

// All returns the records in their natural order.
func (c *FallbackCache) All() []ServiceRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ServiceRecord, len(c.records))
	for i, r := range c.records {
		out[i] = r.Clone()
	}
	return out
}

func (c *FallbackCache) Find(id string) (ServiceRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		return c.records[i].Clone(), true
	}
	return ServiceRecord{}, false
}

// Prepend puts rec at the front so it is the first thing listed.
func (c *FallbackCache) Prepend(rec ServiceRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append([]ServiceRecord{rec.Clone()}, c.records...)
	c.persist()
}

// Update applies patch to the record with the given id. The bool is false
// when no such record exists.
func (c *FallbackCache) Update(id string, patch Patch, table UpdateTable) (ServiceRecord, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return ServiceRecord{}, false, nil
	}
	updated, err := Apply(c.records[i], patch, table)
	if err != nil {
		return ServiceRecord{}, true, err
	}
	c.records[i] = updated
	c.persist()
	return updated.Clone(), true, nil
}

func (c *FallbackCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

func (c *FallbackCache) indexOf(id string) int {
	for i := range c.records {
		if c.records[i].ID == id {
			return i
		}
	}
	return -1
}
