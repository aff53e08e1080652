package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/moodcheck/internal/checkin"
	"github.com/julianstephens/moodcheck/internal/models"
)

type CheckinCmd struct {
	Mood  string `arg:"" optional:"" help:"Mood name or score 1-5 (pessimo, mal, neutro, bem, excelente)."`
	Notes string `help:"Optional note stored with the entry." short:"n"`
	Force bool   `help:"Submit even if the current period is already answered."`
}

func (cmd *CheckinCmd) Run(ctx *Context) error {
	decision := ctx.Pipeline.Decision()
	if !decision.Prompt && !cmd.Force {
		ctx.printf("Already checked in for the %s.\n", periodLabels[decision.Period])
		return nil
	}

	mood, err := cmd.resolveMood()
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var opts []checkin.SubmitOption
	if cmd.Notes != "" {
		opts = append(opts, checkin.WithNotes(cmd.Notes))
	}

	_, err = ctx.Pipeline.Submit(sigCtx, mood, opts...)
	if err == nil {
		ctx.printf("✓ Saved %s for the %s.\n", moodLabels[mood], periodLabels[decision.Period])
		return nil
	}

	if ctx.Pipeline.Deferred(err) {
		ctx.printf("⚠ %s\n", err)
		ctx.printf("Saved %s locally for the %s.\n", moodLabels[mood], periodLabels[decision.Period])
		return nil
	}
	return err
}

func (cmd *CheckinCmd) resolveMood() (models.MoodLevel, error) {
	if cmd.Mood != "" {
		return models.ParseMoodLevel(cmd.Mood)
	}

	var choice models.MoodLevel
	options := make([]huh.Option[models.MoodLevel], 0, len(models.MoodLevels))
	for _, level := range models.MoodLevels {
		options = append(options, huh.NewOption(fmt.Sprintf("%d. %s", level.Score(), moodLabels[level]), level))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[models.MoodLevel]().
				Title("How are you feeling?").
				Options(options...).
				Value(&choice),
		),
	)
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("interactive form error: %w", err)
	}
	return choice, nil
}
