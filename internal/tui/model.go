// Package tui is the interactive check-in screen.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/moodcheck/internal/checkin"
	"github.com/julianstephens/moodcheck/internal/clock"
	"github.com/julianstephens/moodcheck/internal/constants"
	"github.com/julianstephens/moodcheck/internal/gating"
	"github.com/julianstephens/moodcheck/internal/models"
	"github.com/julianstephens/moodcheck/internal/remote"
	"github.com/julianstephens/moodcheck/internal/stats"
)

// Checkin is the part of the submission pipeline the screen drives.
type Checkin interface {
	Submit(ctx context.Context, mood models.MoodLevel, opts ...checkin.SubmitOption) (remote.Ack, error)
	Decision() gating.Decision
	Errors() checkin.ErrorState
	ClearErrors()
}

// Stats computes the summary shown on the stats tab.
type Stats interface {
	Compute(lookbackDays int) stats.Summary
}

type SessionState int

const (
	StateCheckin SessionState = iota
	StateStats
)

var tabTitles = []string{"Check-in", "Stats"}

// refreshMsg asks the model to re-evaluate the gating decision.
type refreshMsg time.Time

// submittedMsg carries the result of a submission.
type submittedMsg struct {
	mood models.MoodLevel
	err  error
}

type Model struct {
	checkin Checkin
	stats   Stats
	clock   clock.Clock

	state    SessionState
	keys     KeyMap
	help     help.Model
	spinner  spinner.Model
	cursor   int
	decision gating.Decision
	errs     checkin.ErrorState
	summary  stats.Summary

	submitting bool
	saved      models.MoodLevel
	quitting   bool
	width      int
	height     int
}

func NewModel(c Checkin, s Stats, clk clock.Clock) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		checkin: c,
		stats:   s,
		clock:   clk,
		state:   StateCheckin,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		cursor:  2,
	}
	m.refresh()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return scheduleRefresh(m.clock.Now())
}

func (m *Model) refresh() {
	m.decision = m.checkin.Decision()
	m.errs = m.checkin.Errors()
	m.summary = m.stats.Compute(constants.DefaultLookbackDays)
}

// canSelect reports whether mood selection is enabled: the gate is open, no
// error is waiting to be dismissed and nothing is being submitted.
func (m Model) canSelect() bool {
	return m.decision.Prompt && !m.errs.Any() && !m.submitting
}

func (m *Model) startSubmit(mood models.MoodLevel) tea.Cmd {
	m.submitting = true
	m.saved = ""
	return tea.Batch(m.spinner.Tick, submitCmd(m.checkin, mood))
}

func submitCmd(c Checkin, mood models.MoodLevel) tea.Cmd {
	return func() tea.Msg {
		_, err := c.Submit(context.Background(), mood)
		return submittedMsg{mood: mood, err: err}
	}
}

// nextRefresh is the delay until the next re-evaluation: the fixed cadence,
// or sooner when a period boundary comes first.
func nextRefresh(now time.Time) time.Duration {
	d := constants.GatingRefreshInterval
	if untilBoundary := gating.NextBoundary(now).Sub(now); untilBoundary > 0 && untilBoundary < d {
		d = untilBoundary
	}
	return d
}

func scheduleRefresh(now time.Time) tea.Cmd {
	return tea.Tick(nextRefresh(now), func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}
