// Package gating decides which check-in period is current and whether the
// check-in prompt should be offered for it.
package gating

import (
	"time"

	"github.com/julianstephens/moodcheck/internal/constants"
	"github.com/julianstephens/moodcheck/internal/models"
)

// CurrentPeriod maps a wall-clock instant to its period:
// [05:00,12:00) manha, [12:00,18:00) tarde, otherwise noite.
func CurrentPeriod(now time.Time) models.MoodPeriod {
	h := now.Hour()
	switch {
	case h >= constants.MorningStartHour && h < constants.AfternoonStartHour:
		return models.PeriodManha
	case h >= constants.AfternoonStartHour && h < constants.EveningStartHour:
		return models.PeriodTarde
	default:
		return models.PeriodNoite
	}
}

// ShouldPrompt reports whether the prompt for period should be visible.
func ShouldPrompt(status models.MoodStatus, period models.MoodPeriod, inFlight bool) bool {
	return !inFlight && !status.Answered(period)
}

// Decision is the evaluated gating state at one instant.
type Decision struct {
	Date   string
	Period models.MoodPeriod
	Prompt bool
}

// Evaluate resolves the period for now and applies ShouldPrompt. A status
// recorded for a different day counts as nothing answered.
func Evaluate(now time.Time, status models.MoodStatus, inFlight bool) Decision {
	date := now.Format(constants.DateFormat)
	if status.Date != date {
		status = models.MoodStatus{Date: date}
	}
	period := CurrentPeriod(now)
	return Decision{
		Date:   date,
		Period: period,
		Prompt: ShouldPrompt(status, period, inFlight),
	}
}

// NextBoundary returns the instant at which CurrentPeriod next changes.
func NextBoundary(now time.Time) time.Time {
	for _, h := range []int{constants.MorningStartHour, constants.AfternoonStartHour, constants.EveningStartHour} {
		b := time.Date(now.Year(), now.Month(), now.Day(), h, 0, 0, 0, now.Location())
		if b.After(now) {
			return b
		}
	}
	return time.Date(now.Year(), now.Month(), now.Day()+1, constants.MorningStartHour, 0, 0, 0, now.Location())
}
