package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/moodcheck/internal/models"
)

type StatsCmd struct {
	Days int `help:"Number of past days to include." default:"7"`
}

func (cmd *StatsCmd) Run(ctx *Context) error {
	if cmd.Days < 0 {
		return fmt.Errorf("--days must not be negative")
	}

	summary := ctx.Stats.Compute(cmd.Days)
	ctx.printf("Check-ins from %s to %s\n\n", summary.Window.From, summary.Window.To)

	if summary.TotalEntries == 0 {
		ctx.println("No check-ins in this window.")
		return nil
	}

	ctx.printf("Average mood: %.1f / 5 over %d check-ins\n\n", summary.AverageMood, summary.TotalEntries)
	for i := len(models.MoodLevels) - 1; i >= 0; i-- {
		level := models.MoodLevels[i]
		n := summary.Distribution[level]
		ctx.printf("  %-6s %s %d\n", moodLabels[level], strings.Repeat("█", n), n)
	}

	ctx.println()
	for _, p := range models.MoodPeriods {
		if avg, ok := summary.PeriodAverages[p]; ok {
			ctx.printf("  %-10s %.1f\n", periodLabels[p], avg)
		}
	}
	return nil
}
