package stats

import (
	"testing"
	"time"

	"github.com/julianstephens/moodcheck/internal/clock"
	"github.com/julianstephens/moodcheck/internal/models"
)

type staticSource []models.MoodEntry

func (s staticSource) AllEntries() []models.MoodEntry {
	return s
}

var today = clock.Fixed(time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC))

func e(date string, period models.MoodPeriod, mood models.MoodLevel) models.MoodEntry {
	return models.MoodEntry{Date: date, Period: period, Mood: mood}
}

func TestComputeExample(t *testing.T) {
	agg := NewAggregator(staticSource{
		e("2024-05-08", models.PeriodManha, models.MoodBem),
		e("2024-05-09", models.PeriodTarde, models.MoodExcelente),
		e("2024-05-10", models.PeriodManha, models.MoodNeutro),
	}, today)

	got := agg.Compute(7)

	if got.AverageMood != 4.0 {
		t.Errorf("expected average 4.0, got %f", got.AverageMood)
	}
	if got.TotalEntries != 3 {
		t.Errorf("expected 3 entries, got %d", got.TotalEntries)
	}
	want := map[models.MoodLevel]int{
		models.MoodBem:       1,
		models.MoodExcelente: 1,
		models.MoodNeutro:    1,
		models.MoodMal:       0,
		models.MoodPessimo:   0,
	}
	if len(got.Distribution) != len(want) {
		t.Errorf("expected %d distribution buckets, got %d", len(want), len(got.Distribution))
	}
	for level, n := range want {
		if got.Distribution[level] != n {
			t.Errorf("distribution[%s]: expected %d, got %d", level, n, got.Distribution[level])
		}
	}
	if got.PeriodAverages[models.PeriodManha] != 3.5 {
		t.Errorf("expected manha average 3.5, got %f", got.PeriodAverages[models.PeriodManha])
	}
	if _, ok := got.PeriodAverages[models.PeriodNoite]; ok {
		t.Error("periods without entries should be omitted")
	}
	if got.Window != (Window{From: "2024-05-03", To: "2024-05-10"}) {
		t.Errorf("unexpected window %+v", got.Window)
	}
}

func TestComputeEmpty(t *testing.T) {
	got := NewAggregator(staticSource{}, today).Compute(7)

	if got.AverageMood != 0 || got.TotalEntries != 0 {
		t.Errorf("expected zero summary, got %+v", got)
	}
	for _, level := range models.MoodLevels {
		if n, ok := got.Distribution[level]; !ok || n != 0 {
			t.Errorf("distribution[%s]: expected explicit 0, got %d (present=%v)", level, n, ok)
		}
	}
}

func TestComputeWindowBounds(t *testing.T) {
	source := staticSource{
		e("2024-05-02", models.PeriodNoite, models.MoodPessimo), // 8 days ago
		e("2024-05-03", models.PeriodNoite, models.MoodMal),     // 7 days ago
		e("2024-05-10", models.PeriodNoite, models.MoodBem),     // today
		e("2024-05-11", models.PeriodManha, models.MoodBem),     // future
	}

	tests := []struct {
		lookback int
		want     int
	}{
		{7, 2},
		{8, 3},
		{0, 1},
		{-3, 1},
	}
	for _, tt := range tests {
		got := NewAggregator(source, today).Compute(tt.lookback)
		if got.TotalEntries != tt.want {
			t.Errorf("lookback %d: expected %d entries, got %d", tt.lookback, tt.want, got.TotalEntries)
		}
	}
}

func TestComputeSkipsUnknownMood(t *testing.T) {
	got := NewAggregator(staticSource{
		e("2024-05-10", models.PeriodManha, models.MoodLevel("otimo")),
		e("2024-05-10", models.PeriodTarde, models.MoodMal),
	}, today).Compute(7)

	if got.TotalEntries != 1 || got.AverageMood != 2 {
		t.Errorf("unexpected summary %+v", got)
	}
}
