// Package stats summarizes recorded check-ins over a rolling window.
package stats

import (
	"github.com/julianstephens/moodcheck/internal/clock"
	"github.com/julianstephens/moodcheck/internal/models"
)

// Source provides the entries to summarize.
type Source interface {
	AllEntries() []models.MoodEntry
}

// Window is the inclusive date range a Summary covers.
type Window struct {
	From string
	To   string
}

type Summary struct {
	AverageMood  float64
	TotalEntries int
	// Distribution has a count for every mood level, including zeros.
	Distribution map[models.MoodLevel]int
	// PeriodAverages holds the average score per period; periods without
	// entries are omitted.
	PeriodAverages map[models.MoodPeriod]float64
	Window         Window
}

type Aggregator struct {
	source Source
	clock  clock.Clock
}

func NewAggregator(source Source, c clock.Clock) *Aggregator {
	return &Aggregator{source: source, clock: c}
}

// Compute summarizes entries dated within [today-lookbackDays, today].
// A negative lookback covers today only.
func (a *Aggregator) Compute(lookbackDays int) Summary {
	if lookbackDays < 0 {
		lookbackDays = 0
	}

	window := Window{
		From: clock.DaysAgo(a.clock, lookbackDays),
		To:   clock.Today(a.clock),
	}
	summary := Summary{
		Distribution:   make(map[models.MoodLevel]int, len(models.MoodLevels)),
		PeriodAverages: make(map[models.MoodPeriod]float64),
		Window:         window,
	}
	for _, level := range models.MoodLevels {
		summary.Distribution[level] = 0
	}

	total := 0
	periodTotals := make(map[models.MoodPeriod]int)
	periodCounts := make(map[models.MoodPeriod]int)

	for _, e := range a.source.AllEntries() {
		// YYYY-MM-DD strings compare in date order
		if e.Date < window.From || e.Date > window.To {
			continue
		}
		score := e.Mood.Score()
		if score == 0 {
			continue
		}
		summary.TotalEntries++
		summary.Distribution[e.Mood]++
		total += score
		periodTotals[e.Period] += score
		periodCounts[e.Period]++
	}

	if summary.TotalEntries > 0 {
		summary.AverageMood = float64(total) / float64(summary.TotalEntries)
	}
	for p, n := range periodCounts {
		summary.PeriodAverages[p] = float64(periodTotals[p]) / float64(n)
	}
	return summary
}
