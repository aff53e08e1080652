package cli

import (
	"github.com/julianstephens/moodcheck/internal/constants"
	"github.com/julianstephens/moodcheck/internal/gating"
	"github.com/julianstephens/moodcheck/internal/models"
)

type StatusCmd struct{}

func (cmd *StatusCmd) Run(ctx *Context) error {
	decision := ctx.Pipeline.Decision()
	status := ctx.Cache.Get()

	ctx.printf("Date: %s\n", decision.Date)
	ctx.printf("Current period: %s\n\n", periodLabels[decision.Period])

	for _, p := range models.MoodPeriods {
		mark := "·"
		if status.Answered(p) {
			mark = "✓"
		}
		ctx.printf("  %s %s\n", mark, periodLabels[p])
	}
	ctx.println()

	if ctx.Cache.SessionOnly() {
		ctx.println("⚠ Status could not be saved to storage; it will reset on exit.")
	}

	if decision.Prompt {
		ctx.printf("Check-in due for the %s. Run '%s checkin'.\n", periodLabels[decision.Period], constants.AppName)
		return nil
	}

	next := gating.NextBoundary(ctx.Clock.Now())
	ctx.printf("All set. Next check-in opens at %s.\n", next.Format(constants.TimeFormat))
	return nil
}
