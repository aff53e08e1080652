package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/moodcheck/internal/gating"
	"github.com/julianstephens/moodcheck/internal/models"
)

var periodNames = map[models.MoodPeriod]string{
	models.PeriodManha: "morning",
	models.PeriodTarde: "afternoon",
	models.PeriodNoite: "evening",
}

var moodLabels = map[models.MoodLevel]string{
	models.MoodPessimo:   "Awful",
	models.MoodMal:       "Bad",
	models.MoodNeutro:    "Okay",
	models.MoodBem:       "Good",
	models.MoodExcelente: "Great",
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateCheckin:
		content = m.viewCheckin()
	case StateStats:
		content = m.viewStats()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		docStyle.Render(content),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewCheckin() string {
	period := periodNames[m.decision.Period]
	var b strings.Builder
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%s · %s", m.decision.Date, period)))
	b.WriteString("\n\n")

	if _, msg := m.errs.Message(); msg != "" {
		b.WriteString(errorBoxStyle.Render(msg + "\n" + mutedStyle.Render("[x] dismiss")))
		return b.String()
	}

	if m.submitting {
		b.WriteString(m.spinner.View() + " Saving your check-in...")
		return b.String()
	}

	if !m.decision.Prompt {
		if m.saved != "" {
			b.WriteString(successStyle.Render(fmt.Sprintf("Saved: %s.", moodLabels[m.saved])))
			b.WriteString("\n")
		}
		next := gating.NextBoundary(m.clock.Now())
		b.WriteString(fmt.Sprintf("You're all set for this %s. Next check-in opens at %s.", period, next.Format("15:04")))
		return b.String()
	}

	b.WriteString(titleStyle.Render(fmt.Sprintf("How are you feeling this %s?", period)))
	b.WriteString("\n\n")
	for i, level := range models.MoodLevels {
		line := fmt.Sprintf("[%d] %s", level.Score(), moodLabels[level])
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewStats() string {
	s := m.summary
	var b strings.Builder
	b.WriteString(titleStyle.Render("Recent check-ins"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%s to %s", s.Window.From, s.Window.To)))
	b.WriteString("\n\n")

	if s.TotalEntries == 0 {
		b.WriteString("No check-ins yet.")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Average mood: %.1f / 5 over %d check-ins\n\n", s.AverageMood, s.TotalEntries))
	for i := len(models.MoodLevels) - 1; i >= 0; i-- {
		level := models.MoodLevels[i]
		n := s.Distribution[level]
		b.WriteString(fmt.Sprintf("%-6s %s %d\n", moodLabels[level], barStyle.Render(strings.Repeat("█", n)), n))
	}
	return b.String()
}
