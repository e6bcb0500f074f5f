package catalog

import "sync/atomic"

// Cache holds the project list last returned by the service. The list is
// only ever replaced whole.
type Cache struct {
	records atomic.Pointer[[]ProjectRecord]
}

func NewCache() *Cache {
	return &Cache{}
}

// ReplaceAll swaps in a copy of records.
func (c *Cache) ReplaceAll(records []ProjectRecord) {
	stored := make([]ProjectRecord, len(records))
	copy(stored, records)
	c.records.Store(&stored)
}

// Get returns a copy of the cached list in service order.
func (c *Cache) Get() []ProjectRecord {
	current := c.records.Load()
	if current == nil {
		return nil
	}
	snapshot := make([]ProjectRecord, len(*current))
	copy(snapshot, *current)
	return snapshot
}

// Loaded reports whether the cache has been filled at least once.
func (c *Cache) Loaded() bool {
	return c.records.Load() != nil
}

// Find looks a record up by id.
func (c *Cache) Find(id string) (ProjectRecord, bool) {
	current := c.records.Load()
	if current == nil {
		return ProjectRecord{}, false
	}
	for _, record := range *current {
		if record.ID == id {
			return record, true
		}
	}
	return ProjectRecord{}, false
}
