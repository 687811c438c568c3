// internal/store/collection.go
package store

import (
	"context"
	"encoding/json"
	"sync"

	"bizpilot-core/internal/common/logger"
	"bizpilot-core/internal/common/metrics"
)

// Fixed storage keys for the two named collections.
const (
	KeyIdeas        = "bizpilot:ideas"
	KeyDailyUpdates = "bizpilot:daily_updates"
)

// Record is anything a Collection can persist.
type Record interface {
	RecordID() string
}

// Collection is an ordered, id-addressed list of records stored wholesale
// as one JSON document under a fixed key. Durability is best-effort: an
// unavailable medium turns Save into a no-op and LoadAll into an empty
// result, and an unparsable document is treated as an empty collection.
type Collection[T Record] struct {
	key    string
	medium Medium
	logger logger.Logger

	mu sync.Mutex
}

// NewCollection creates a collection over medium. A nil medium is valid
// and behaves like an always-unavailable one.
func NewCollection[T Record](medium Medium, key string, log logger.Logger) *Collection[T] {
	return &Collection[T]{
		key:    key,
		medium: medium,
		logger: log.WithFields(map[string]interface{}{"collection": key}),
	}
}

// LoadAll returns every stored record in insertion order. It never fails:
// missing key, unavailable medium and corrupted data all yield an empty
// slice.
func (c *Collection[T]) LoadAll(ctx context.Context) []T {
	metrics.StoreOperationsTotal.WithLabelValues(c.key, "load").Inc()

	if c.medium == nil {
		return []T{}
	}
	raw, found, err := c.medium.Get(ctx, c.key)
	if err != nil {
		c.logger.Warn("persistence medium unavailable, returning empty collection", map[string]interface{}{
			"error": err.Error(),
		})
		return []T{}
	}
	if !found || raw == "" {
		return []T{}
	}

	var records []T
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		c.logger.Warn("stored data corrupted, treating as empty collection", map[string]interface{}{
			"error": err.Error(),
		})
		return []T{}
	}
	return records
}

// Save upserts rec by id: a new id is appended at the end, an existing id
// is replaced in place. When no medium is available the call is a silent
// no-op.
func (c *Collection[T]) Save(ctx context.Context, rec T) {
	metrics.StoreOperationsTotal.WithLabelValues(c.key, "save").Inc()

	if c.medium == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	records := c.LoadAll(ctx)
	replaced := false
	for i := range records {
		if records[i].RecordID() == rec.RecordID() {
			records[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, rec)
	}

	raw, err := json.Marshal(records)
	if err != nil {
		c.logger.Error("failed to encode collection", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := c.medium.Set(ctx, c.key, string(raw)); err != nil {
		c.logger.Warn("persistence medium unavailable, save dropped", map[string]interface{}{
			"id":    rec.RecordID(),
			"error": err.Error(),
		})
	}
}

// FindByID returns the record with the given id, or found=false.
func (c *Collection[T]) FindByID(ctx context.Context, id string) (T, bool) {
	for _, rec := range c.LoadAll(ctx) {
		if rec.RecordID() == id {
			return rec, true
		}
	}
	var zero T
	return zero, false
}
