package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MoodLevel is one of five ordinal moods, worst to best.
type MoodLevel string

const (
	MoodPessimo   MoodLevel = "pessimo"
	MoodMal       MoodLevel = "mal"
	MoodNeutro    MoodLevel = "neutro"
	MoodBem       MoodLevel = "bem"
	MoodExcelente MoodLevel = "excelente"
)

// MoodLevels lists every level ordered by score.
var MoodLevels = []MoodLevel{MoodPessimo, MoodMal, MoodNeutro, MoodBem, MoodExcelente}

// Score returns the 1-5 ordinal for the level, or 0 for an unknown value.
func (m MoodLevel) Score() int {
	for i, l := range MoodLevels {
		if l == m {
			return i + 1
		}
	}
	return 0
}

func (m MoodLevel) Valid() bool {
	return m.Score() > 0
}

func (m MoodLevel) String() string {
	return string(m)
}

// ParseMoodLevel accepts a level name (case-insensitive) or its score digit.
func ParseMoodLevel(s string) (MoodLevel, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= len(MoodLevels) {
			return MoodLevels[n-1], nil
		}
		return "", fmt.Errorf("invalid mood score: %d (expected 1-%d)", n, len(MoodLevels))
	}
	if l := MoodLevel(s); l.Valid() {
		return l, nil
	}
	return "", fmt.Errorf("invalid mood level: %q", s)
}

// MoodPeriod is one of the three daily check-in windows.
type MoodPeriod string

const (
	PeriodManha MoodPeriod = "manha"
	PeriodTarde MoodPeriod = "tarde"
	PeriodNoite MoodPeriod = "noite"
)

// MoodPeriods lists the periods in day order.
var MoodPeriods = []MoodPeriod{PeriodManha, PeriodTarde, PeriodNoite}

func (p MoodPeriod) Valid() bool {
	return p == PeriodManha || p == PeriodTarde || p == PeriodNoite
}

// Index returns the period's position within the day, or -1.
func (p MoodPeriod) Index() int {
	for i, q := range MoodPeriods {
		if q == p {
			return i
		}
	}
	return -1
}

func (p MoodPeriod) String() string {
	return string(p)
}

// MoodEntry is a single recorded check-in.
type MoodEntry struct {
	ID        string     `json:"id"`
	Mood      MoodLevel  `json:"mood"`
	Period    MoodPeriod `json:"period"`
	Date      string     `json:"date"` // YYYY-MM-DD format
	Timestamp time.Time  `json:"timestamp"`
	Notes     string     `json:"notes,omitempty"`
}

var entryNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://moodcheck.app/entries"))

// EntryID derives the stable id for a (date, period) pair so that a
// resubmission overwrites the earlier entry.
func EntryID(date string, period MoodPeriod) string {
	return uuid.NewSHA1(entryNamespace, []byte(date+"/"+string(period))).String()
}

// MoodStatus records which periods of Date have an acknowledged check-in.
type MoodStatus struct {
	Date  string `json:"date"`
	Manha bool   `json:"manha"`
	Tarde bool   `json:"tarde"`
	Noite bool   `json:"noite"`
}

// Answered reports the flag for p.
func (s MoodStatus) Answered(p MoodPeriod) bool {
	switch p {
	case PeriodManha:
		return s.Manha
	case PeriodTarde:
		return s.Tarde
	case PeriodNoite:
		return s.Noite
	}
	return false
}

// With returns a copy of s with the flag for p set to answered.
func (s MoodStatus) With(p MoodPeriod, answered bool) MoodStatus {
	switch p {
	case PeriodManha:
		s.Manha = answered
	case PeriodTarde:
		s.Tarde = answered
	case PeriodNoite:
		s.Noite = answered
	}
	return s
}

func (s MoodStatus) AllAnswered() bool {
	return s.Manha && s.Tarde && s.Noite
}
