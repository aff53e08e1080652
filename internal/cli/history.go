package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/moodcheck/internal/clock"
	"github.com/julianstephens/moodcheck/internal/constants"
	"github.com/julianstephens/moodcheck/internal/models"
)

type HistoryCmd struct {
	Date string `help:"Day to show (YYYY-MM-DD). Defaults to today." default:""`
	All  bool   `help:"Show every recorded check-in."`
}

func (cmd *HistoryCmd) Run(ctx *Context) error {
	var list []models.MoodEntry
	if cmd.All {
		list = ctx.Entries.AllEntries()
	} else {
		date := cmd.Date
		if date == "" {
			date = clock.Today(ctx.Clock)
		}
		if _, err := time.Parse(constants.DateFormat, date); err != nil {
			return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
		}
		list = ctx.Entries.EntriesForDate(date)
	}

	if len(list) == 0 {
		ctx.println("No check-ins recorded.")
		return nil
	}

	day := ""
	for _, e := range list {
		if e.Date != day {
			day = e.Date
			ctx.printf("%s\n", day)
		}
		ctx.printf("  %-10s %-6s %s", periodLabels[e.Period], moodLabels[e.Mood], e.Timestamp.In(ctx.Clock.Now().Location()).Format(constants.TimeFormat))
		if e.Notes != "" {
			ctx.printf("  %s", e.Notes)
		}
		ctx.println()
	}
	return nil
}
