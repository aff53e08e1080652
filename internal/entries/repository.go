// Package entries stores recorded check-ins keyed by (date, period).
package entries

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/julianstephens/moodcheck/internal/constants"
	"github.com/julianstephens/moodcheck/internal/logger"
	"github.com/julianstephens/moodcheck/internal/models"
	"github.com/julianstephens/moodcheck/internal/storage"
)

type Repository struct {
	store storage.Provider
	mu    sync.Mutex
}

func NewRepository(store storage.Provider) *Repository {
	return &Repository{store: store}
}

// Append inserts entry, replacing any earlier entry for the same date and
// period. A missing ID is derived from the date and period.
func (r *Repository) Append(entry models.MoodEntry) error {
	if entry.Date == "" || !entry.Period.Valid() {
		return fmt.Errorf("entry requires a date and a valid period")
	}
	if entry.ID == "" {
		entry.ID = models.EntryID(entry.Date, entry.Period)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.load()
	replaced := false
	for i, e := range all {
		if e.Date == entry.Date && e.Period == entry.Period {
			all[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		all = append(all, entry)
	}
	sortEntries(all)

	data, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("failed to encode entries: %w", err)
	}
	if err := r.store.Put(constants.KeyMoodEntries, data); err != nil {
		return fmt.Errorf("failed to save entry: %w", err)
	}
	return nil
}

// EntriesForDate returns the entries recorded on date in period order.
func (r *Repository) EntriesForDate(date string) []models.MoodEntry {
	var out []models.MoodEntry
	for _, e := range r.AllEntries() {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out
}

// Get returns the entry for date and period, if any.
func (r *Repository) Get(date string, period models.MoodPeriod) (models.MoodEntry, bool) {
	for _, e := range r.EntriesForDate(date) {
		if e.Period == period {
			return e, true
		}
	}
	return models.MoodEntry{}, false
}

// AllEntries returns every entry ordered by date, then period.
func (r *Repository) AllEntries() []models.MoodEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// load never fails; an unreadable store is treated as empty and is
// overwritten by the next Append.
func (r *Repository) load() []models.MoodEntry {
	data, err := r.store.Get(constants.KeyMoodEntries)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Failed to read mood entries, treating as empty", "error", err)
		}
		return nil
	}

	var all []models.MoodEntry
	if err := json.Unmarshal(data, &all); err != nil {
		logger.Warn("Corrupt mood entries, treating as empty", "error", err)
		return nil
	}
	sortEntries(all)
	return all
}

func sortEntries(all []models.MoodEntry) {
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Date != all[j].Date {
			return all[i].Date < all[j].Date
		}
		return all[i].Period.Index() < all[j].Period.Index()
	})
}
