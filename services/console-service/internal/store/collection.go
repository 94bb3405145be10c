package store

import (
	"sync"

	"github.com/md-rashed-zaman/apptdesk/services/console-service/internal/model"
)

// Collection holds the operator's working copy of the appointment list plus
// the set of ids with an in-flight delete. It is the only mutable state in
// the console; the fetch and delete coordinators are its sole writers.
type Collection struct {
	mu      sync.RWMutex
	records []model.Appointment
	pending map[string]struct{}
}

func NewCollection() *Collection {
	return &Collection{pending: make(map[string]struct{})}
}

// Replace swaps the whole collection for a fresh fetch result. Records with
// a duplicate id are dropped (first occurrence wins) so ids stay unique, and
// pending marks for ids no longer present are discarded.
func (c *Collection) Replace(records []model.Appointment) {
	next := make([]model.Appointment, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if _, dup := seen[rec.ID]; dup {
			continue
		}
		seen[rec.ID] = struct{}{}
		next = append(next, rec)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = next
	for id := range c.pending {
		if _, ok := seen[id]; !ok {
			delete(c.pending, id)
		}
	}
}

// RemoveByID deletes a single record, preserving the order of the rest.
// It reports whether the id was present.
func (c *Collection) RemoveByID(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, rec := range c.records {
		if rec.ID == id {
			c.records = append(c.records[:i], c.records[i+1:]...)
			return true
		}
	}
	return false
}

// MarkPending flags an id as having a delete in flight. Re-marking an
// already pending id is a no-op.
func (c *Collection) MarkPending(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending[id] = struct{}{}
}

func (c *Collection) ClearPending(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, id)
}

// Snapshot returns copies of the records and the pending id set. Callers
// may hold or mutate the result freely.
func (c *Collection) Snapshot() ([]model.Appointment, map[string]struct{}) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	records := make([]model.Appointment, len(c.records))
	copy(records, c.records)
	pending := make(map[string]struct{}, len(c.pending))
	for id := range c.pending {
		pending[id] = struct{}{}
	}
	return records, pending
}

func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}
