package clock

import (
	"fmt"
	"time"

	"github.com/julianstephens/moodcheck/internal/constants"
)

// Clock is the single source of "now" for period resolution and date keys.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock in Location (time.Local when nil).
type System struct {
	Location *time.Location
}

func (s System) Now() time.Time {
	if s.Location == nil {
		return time.Now()
	}
	return time.Now().In(s.Location)
}

// Fixed always returns the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f)
}

// Func adapts a function to the Clock interface.
type Func func() time.Time

func (f Func) Now() time.Time {
	return f()
}

// NewSystem returns a System clock for an IANA timezone name.
func NewSystem(timezone string) (System, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return System{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return System{Location: loc}, nil
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// Today returns the clock's current date (YYYY-MM-DD).
func Today(c Clock) string {
	return c.Now().Format(constants.DateFormat)
}

// DaysAgo returns the date string n calendar days before today.
func DaysAgo(c Clock, n int) string {
	now := c.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return midnight.AddDate(0, 0, -n).Format(constants.DateFormat)
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}
