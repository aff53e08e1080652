package statuscache

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/moodcheck/internal/clock"
	"github.com/julianstephens/moodcheck/internal/constants"
	"github.com/julianstephens/moodcheck/internal/models"
	"github.com/julianstephens/moodcheck/internal/storage"
)

// flakyStore wraps a MemoryStore and fails writes or reads on demand.
type flakyStore struct {
	*storage.MemoryStore
	failPut    bool
	failGet    bool
	failDelete bool
}

func (f *flakyStore) Get(key string) ([]byte, error) {
	if f.failGet {
		return nil, errors.New("disk on fire")
	}
	return f.MemoryStore.Get(key)
}

func (f *flakyStore) Put(key string, value []byte) error {
	if f.failPut {
		return errors.New("disk full")
	}
	return f.MemoryStore.Put(key, value)
}

func (f *flakyStore) Delete(key string) error {
	if f.failDelete {
		return errors.New("read-only")
	}
	return f.MemoryStore.Delete(key)
}

func fixedClock(value string) clock.Fixed {
	t, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		panic(err)
	}
	return clock.Fixed(t)
}

func TestGetFailsOpen(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *flakyStore)
	}{
		{"missing record", func(s *flakyStore) {}},
		{"unreadable store", func(s *flakyStore) { s.failGet = true }},
		{"corrupt record", func(s *flakyStore) {
			_ = s.MemoryStore.Put(constants.KeyMoodStatus, []byte("{not json"))
		}},
		{"yesterday's record", func(s *flakyStore) {
			_ = s.MemoryStore.Put(constants.KeyMoodStatus, []byte(`{"date":"2024-04-30","manha":true,"tarde":true,"noite":true}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &flakyStore{MemoryStore: storage.NewMemoryStore()}
			tt.setup(store)
			cache := New(store, fixedClock("2024-05-01 09:00"))

			got := cache.Get()
			want := models.MoodStatus{Date: "2024-05-01"}
			if got != want {
				t.Errorf("expected %+v, got %+v", want, got)
			}
		})
	}
}

func TestUpdatePeriodPersists(t *testing.T) {
	store := storage.NewMemoryStore()
	c := fixedClock("2024-05-01 13:00")

	New(store, c).UpdatePeriod(models.PeriodTarde, true)

	// A fresh cache over the same store sees the write
	got := New(store, c).Get()
	if !got.Tarde || got.Manha || got.Noite {
		t.Errorf("unexpected status %+v", got)
	}
}

func TestUpdatePeriodForIgnoresOtherDays(t *testing.T) {
	cache := New(storage.NewMemoryStore(), fixedClock("2024-05-02 00:00"))

	if cache.UpdatePeriodFor("2024-05-01", models.PeriodNoite, true) {
		t.Error("expected update for yesterday to be skipped")
	}
	if got := cache.Get(); got.Noite {
		t.Errorf("unexpected status %+v", got)
	}

	if !cache.UpdatePeriodFor("2024-05-02", models.PeriodManha, true) {
		t.Error("expected update for today to apply")
	}
	if got := cache.Get(); !got.Manha || got.Date != "2024-05-02" {
		t.Errorf("unexpected status %+v", got)
	}
}

func TestSetStampsToday(t *testing.T) {
	cache := New(storage.NewMemoryStore(), fixedClock("2024-05-01 20:00"))
	cache.Set(models.MoodStatus{Noite: true})

	got := cache.Get()
	if got.Date != "2024-05-01" || !got.Noite {
		t.Errorf("unexpected status %+v", got)
	}
}

func TestUpdatePeriodConcurrent(t *testing.T) {
	cache := New(storage.NewMemoryStore(), fixedClock("2024-05-01 09:00"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		for _, p := range models.MoodPeriods {
			wg.Add(1)
			go func(p models.MoodPeriod) {
				defer wg.Done()
				cache.UpdatePeriod(p, true)
			}(p)
		}
	}
	wg.Wait()

	if got := cache.Get(); !got.AllAnswered() {
		t.Errorf("lost an update: %+v", got)
	}
}

func TestPersistFailureKeepsSessionValue(t *testing.T) {
	store := &flakyStore{MemoryStore: storage.NewMemoryStore(), failPut: true}
	cache := New(store, fixedClock("2024-05-01 09:00"))

	cache.UpdatePeriod(models.PeriodManha, true)

	if !cache.Get().Manha {
		t.Error("in-memory update should survive a failed persist")
	}
	if !cache.SessionOnly() {
		t.Error("expected cache to report session-only mode")
	}

	store.failPut = false
	cache.UpdatePeriod(models.PeriodTarde, true)

	if cache.SessionOnly() {
		t.Error("successful persist should leave session-only mode")
	}
	got := New(store, fixedClock("2024-05-01 09:00")).Get()
	if !got.Manha || !got.Tarde {
		t.Errorf("durable copy should carry both flags, got %+v", got)
	}
}

func TestClear(t *testing.T) {
	store := storage.NewMemoryStore()
	cache := New(store, fixedClock("2024-05-01 09:00"))
	cache.UpdatePeriod(models.PeriodManha, true)

	cache.Clear()

	if cache.Get().Manha {
		t.Error("expected flags reset after Clear")
	}
	if _, err := store.Get(constants.KeyMoodStatus); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected record deleted, got %v", err)
	}
}

func TestClearDeleteFailure(t *testing.T) {
	store := &flakyStore{MemoryStore: storage.NewMemoryStore()}
	cache := New(store, fixedClock("2024-05-01 09:00"))
	cache.UpdatePeriod(models.PeriodManha, true)

	store.failDelete = true
	cache.Clear()

	if cache.Get().Manha {
		t.Error("Clear should reset the session view even if delete fails")
	}
}
