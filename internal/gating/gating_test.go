package gating

import (
	"fmt"
	"testing"
	"time"

	"github.com/julianstephens/moodcheck/internal/models"
)

func at(h, m, s int) time.Time {
	return time.Date(2026, 10, 15, h, m, s, 0, time.UTC)
}

func TestCurrentPeriodBoundaries(t *testing.T) {
	tests := []struct {
		now  time.Time
		want models.MoodPeriod
	}{
		{at(0, 0, 0), models.PeriodNoite},
		{at(4, 59, 59), models.PeriodNoite},
		{at(5, 0, 0), models.PeriodManha},
		{at(11, 59, 59), models.PeriodManha},
		{at(12, 0, 0), models.PeriodTarde},
		{at(17, 59, 59), models.PeriodTarde},
		{at(18, 0, 0), models.PeriodNoite},
		{at(23, 59, 59), models.PeriodNoite},
	}

	for _, tt := range tests {
		t.Run(tt.now.Format("15:04:05"), func(t *testing.T) {
			if got := CurrentPeriod(tt.now); got != tt.want {
				t.Errorf("CurrentPeriod(%s) = %s, want %s", tt.now.Format("15:04:05"), got, tt.want)
			}
		})
	}
}

func TestShouldPromptAllCombinations(t *testing.T) {
	for mask := 0; mask < 8; mask++ {
		status := models.MoodStatus{
			Manha: mask&1 != 0,
			Tarde: mask&2 != 0,
			Noite: mask&4 != 0,
		}
		for _, period := range models.MoodPeriods {
			for _, inFlight := range []bool{false, true} {
				name := fmt.Sprintf("%03b/%s/inflight=%v", mask, period, inFlight)
				t.Run(name, func(t *testing.T) {
					want := !inFlight && !status.Answered(period)
					if got := ShouldPrompt(status, period, inFlight); got != want {
						t.Errorf("ShouldPrompt() = %v, want %v", got, want)
					}
				})
			}
		}
	}
}

func TestEvaluateIgnoresStaleDay(t *testing.T) {
	now := at(9, 0, 0)
	stale := models.MoodStatus{Date: "2026-10-14", Manha: true, Tarde: true, Noite: true}

	d := Evaluate(now, stale, false)
	if d.Period != models.PeriodManha {
		t.Errorf("Period = %s, want manha", d.Period)
	}
	if d.Date != "2026-10-15" {
		t.Errorf("Date = %s, want 2026-10-15", d.Date)
	}
	if !d.Prompt {
		t.Error("Prompt = false for status recorded yesterday")
	}

	today := models.MoodStatus{Date: "2026-10-15", Manha: true}
	if Evaluate(now, today, false).Prompt {
		t.Error("Prompt = true for answered period")
	}
	if Evaluate(at(13, 0, 0), today, false).Prompt != true {
		t.Error("Prompt = false for unanswered afternoon")
	}
	if Evaluate(at(13, 0, 0), today, true).Prompt {
		t.Error("Prompt = true while a submission is in flight")
	}
}

func TestNextBoundary(t *testing.T) {
	tests := []struct {
		now  time.Time
		want time.Time
	}{
		{at(2, 0, 0), at(5, 0, 0)},
		{at(5, 0, 0), at(12, 0, 0)},
		{at(11, 59, 59), at(12, 0, 0)},
		{at(12, 0, 0), at(18, 0, 0)},
		{at(18, 0, 0), time.Date(2026, 10, 16, 5, 0, 0, 0, time.UTC)},
		{at(23, 0, 0), time.Date(2026, 10, 16, 5, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got := NextBoundary(tt.now)
		if !got.Equal(tt.want) {
			t.Errorf("NextBoundary(%s) = %s, want %s", tt.now, got, tt.want)
		}
		if CurrentPeriod(got) == CurrentPeriod(got.Add(-time.Second)) {
			t.Errorf("NextBoundary(%s) = %s is not a period change", tt.now, got)
		}
	}
}

func TestNextBoundaryAcrossDSTChange(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	// Clocks jump from 02:00 to 03:00 on 2024-03-10
	now := time.Date(2024, 3, 10, 3, 30, 0, 0, loc)
	got := NextBoundary(now)
	want := time.Date(2024, 3, 10, 5, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("NextBoundary(%s) = %s, want %s", now, got, want)
	}
	if got.Hour() != 5 {
		t.Errorf("expected boundary at 05:00 local, got %s", got.Format("15:04"))
	}
}
