// Package statuscache persists which periods of today have an acknowledged
// check-in.
package statuscache

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/julianstephens/moodcheck/internal/clock"
	"github.com/julianstephens/moodcheck/internal/constants"
	"github.com/julianstephens/moodcheck/internal/logger"
	"github.com/julianstephens/moodcheck/internal/models"
	"github.com/julianstephens/moodcheck/internal/storage"
)

// Cache is the process-wide status record. All mutations are serialized
// through mu, so concurrent UpdatePeriod calls never lose a write.
type Cache struct {
	store storage.Provider
	clock clock.Clock

	mu sync.Mutex
	// mem holds the last value written while the durable copy is behind.
	mem   *models.MoodStatus
	dirty bool
}

func New(store storage.Provider, c clock.Clock) *Cache {
	return &Cache{
		store: store,
		clock: c,
	}
}

// Get returns today's status. It never fails: a missing, unreadable or
// corrupt record reads as nothing answered.
func (c *Cache) Get() models.MoodStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current()
}

func (c *Cache) current() models.MoodStatus {
	today := clock.Today(c.clock)
	empty := models.MoodStatus{Date: today}

	var status models.MoodStatus
	if c.dirty && c.mem != nil {
		status = *c.mem
	} else {
		loaded, ok := c.load()
		if !ok {
			return empty
		}
		status = loaded
	}

	if status.Date != today {
		return empty
	}
	return status
}

func (c *Cache) load() (models.MoodStatus, bool) {
	data, err := c.store.Get(constants.KeyMoodStatus)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Failed to read mood status, treating as unanswered", "error", err)
		}
		return models.MoodStatus{}, false
	}

	var status models.MoodStatus
	if err := json.Unmarshal(data, &status); err != nil {
		logger.Warn("Corrupt mood status record, treating as unanswered", "error", err)
		return models.MoodStatus{}, false
	}
	return status, true
}

// Set replaces the stored status. An empty Date is stamped with today.
func (c *Cache) Set(status models.MoodStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if status.Date == "" {
		status.Date = clock.Today(c.clock)
	}
	c.write(status)
}

// UpdatePeriod sets a single period flag for today.
func (c *Cache) UpdatePeriod(period models.MoodPeriod, answered bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.write(c.current().With(period, answered))
}

// UpdatePeriodFor sets a period flag for date. It is a no-op unless date is
// today, so a late acknowledgement never marks the next day's period.
func (c *Cache) UpdatePeriodFor(date string, period models.MoodPeriod, answered bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if date != clock.Today(c.clock) {
		logger.Debug("Ignoring status update for another day", "date", date, "period", period)
		return false
	}
	c.write(c.current().With(period, answered))
	return true
}

// Clear forgets the stored status entirely.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.mem = nil
	c.dirty = false
	if err := c.store.Delete(constants.KeyMoodStatus); err != nil {
		logger.Error("Failed to clear mood status", "error", err)
		// Shadow the durable copy with an empty record for this session
		empty := models.MoodStatus{Date: clock.Today(c.clock)}
		c.mem = &empty
		c.dirty = true
	}
}

func (c *Cache) write(status models.MoodStatus) {
	c.mem = &status

	data, err := json.Marshal(status)
	if err == nil {
		err = c.store.Put(constants.KeyMoodStatus, data)
	}
	if err != nil {
		logger.Error("Failed to persist mood status, keeping it for this session only", "error", err)
		c.dirty = true
		return
	}
	c.dirty = false
}

// SessionOnly reports whether the last write failed to reach durable storage.
func (c *Cache) SessionOnly() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}
