package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/moodcheck/internal/logger"
	"github.com/julianstephens/moodcheck/internal/models"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case refreshMsg:
		m.refresh()
		return m, scheduleRefresh(m.clock.Now())

	case submittedMsg:
		m.submitting = false
		if msg.err == nil {
			m.saved = msg.mood
		} else {
			logger.Debug("Submission from TUI failed", "error", msg.err)
		}
		m.refresh()

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Tab):
		m.state = (m.state + 1) % SessionState(len(tabTitles))
	case key.Matches(msg, m.keys.ShiftTab):
		m.state = (m.state - 1 + SessionState(len(tabTitles))) % SessionState(len(tabTitles))
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Refresh):
		m.refresh()
	case key.Matches(msg, m.keys.Dismiss):
		if m.errs.Any() {
			// Dismissal never retries; the prompt simply comes back
			m.checkin.ClearErrors()
			m.refresh()
		}
	}

	if m.state != StateCheckin || !m.canSelect() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(models.MoodLevels)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Enter):
		cmd := m.startSubmit(models.MoodLevels[m.cursor])
		return m, cmd
	case key.Matches(msg, m.keys.Pick):
		mood, err := models.ParseMoodLevel(msg.String())
		if err != nil {
			return m, nil
		}
		m.cursor = mood.Score() - 1
		cmd := m.startSubmit(mood)
		return m, cmd
	}

	return m, nil
}
