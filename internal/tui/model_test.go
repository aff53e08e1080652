package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/moodcheck/internal/checkin"
	"github.com/julianstephens/moodcheck/internal/clock"
	"github.com/julianstephens/moodcheck/internal/gating"
	"github.com/julianstephens/moodcheck/internal/models"
	"github.com/julianstephens/moodcheck/internal/remote"
	"github.com/julianstephens/moodcheck/internal/stats"
)

type fakeCheckin struct {
	mu        sync.Mutex
	decision  gating.Decision
	errs      checkin.ErrorState
	submitted []models.MoodLevel
	cleared   int
	submitErr error
}

func (f *fakeCheckin) Submit(ctx context.Context, mood models.MoodLevel, opts ...checkin.SubmitOption) (remote.Ack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, mood)
	if f.submitErr != nil {
		f.errs = checkin.ErrorState{Network: f.submitErr.Error()}
		return remote.Ack{}, f.submitErr
	}
	f.decision.Prompt = false
	return remote.Ack{}, nil
}

func (f *fakeCheckin) Decision() gating.Decision {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.decision
}

func (f *fakeCheckin) Errors() checkin.ErrorState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs
}

func (f *fakeCheckin) ClearErrors() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
	f.errs = checkin.ErrorState{}
}

type fakeStats struct{}

func (fakeStats) Compute(int) stats.Summary {
	return stats.Summary{
		AverageMood:  4,
		TotalEntries: 2,
		Distribution: map[models.MoodLevel]int{models.MoodBem: 1, models.MoodExcelente: 1},
		Window:       stats.Window{From: "2024-04-24", To: "2024-05-01"},
	}
}

var morning = clock.Fixed(time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local))

func newTestModel(f *fakeCheckin) Model {
	return NewModel(f, fakeStats{}, morning)
}

func openGate() *fakeCheckin {
	return &fakeCheckin{decision: gating.Decision{Date: "2024-05-01", Period: models.PeriodManha, Prompt: true}}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestPromptVisibleWhenGateOpen(t *testing.T) {
	m := newTestModel(openGate())

	view := m.View()
	if !strings.Contains(view, "How are you feeling this morning?") {
		t.Errorf("expected prompt in view:\n%s", view)
	}
	if m.Init() == nil {
		t.Error("Init should schedule a refresh")
	}
}

func TestPromptHiddenWhenAnswered(t *testing.T) {
	f := openGate()
	f.decision.Prompt = false
	m := newTestModel(f)

	if strings.Contains(m.View(), "How are you feeling") {
		t.Error("prompt must not render when the period is answered")
	}
	if _, cmd := update(t, m, keyMsg("enter")); cmd != nil {
		t.Error("selection must be disabled when the gate is closed")
	}
}

func TestSubmitFlow(t *testing.T) {
	f := openGate()
	m := newTestModel(f)

	m, _ = update(t, m, keyMsg("down"))
	m, cmd := update(t, m, keyMsg("enter"))
	if !m.submitting {
		t.Fatal("expected submitting state after enter")
	}
	if cmd == nil {
		t.Fatal("expected submit command")
	}
	if !strings.Contains(m.View(), "Saving") {
		t.Error("expected saving indicator while in flight")
	}

	// Selection is disabled while in flight
	if _, again := update(t, m, keyMsg("enter")); again != nil {
		t.Error("second enter while submitting should be ignored")
	}

	msg := submitCmd(f, models.MoodBem)()
	m, _ = update(t, m, msg)

	if m.submitting {
		t.Error("submitting should end when the result arrives")
	}
	if len(f.submitted) != 1 || f.submitted[0] != models.MoodBem {
		t.Errorf("expected one bem submission, got %v", f.submitted)
	}
	view := m.View()
	if strings.Contains(view, "How are you feeling") {
		t.Error("prompt should be hidden after a successful submission")
	}
	if !strings.Contains(view, "Saved: Good.") {
		t.Errorf("expected confirmation in view:\n%s", view)
	}
}

func TestDigitPicksMood(t *testing.T) {
	m := newTestModel(openGate())

	m, cmd := update(t, m, keyMsg("5"))
	if cmd == nil || !m.submitting {
		t.Fatal("digit key should start a submission")
	}
	if models.MoodLevels[m.cursor] != models.MoodExcelente {
		t.Errorf("cursor should follow the picked mood, got %d", m.cursor)
	}
}

func TestErrorSuppressesPromptUntilDismissed(t *testing.T) {
	f := openGate()
	f.errs = checkin.ErrorState{Server: "The server had a problem. Try again later."}
	m := newTestModel(f)

	view := m.View()
	if !strings.Contains(view, "The server had a problem") {
		t.Errorf("expected error notice:\n%s", view)
	}
	if strings.Contains(view, "How are you feeling") {
		t.Error("prompt must be suppressed while an error is shown")
	}
	if _, cmd := update(t, m, keyMsg("enter")); cmd != nil {
		t.Error("selection must be disabled while an error is shown")
	}

	m, cmd := update(t, m, keyMsg("x"))
	if cmd != nil {
		t.Error("dismissal must not trigger a retry")
	}
	if f.cleared != 1 {
		t.Errorf("expected errors cleared once, got %d", f.cleared)
	}
	if len(f.submitted) != 0 {
		t.Error("dismissal must not submit")
	}
	if !strings.Contains(m.View(), "How are you feeling") {
		t.Error("prompt should return after dismissal")
	}
}

func TestFailedSubmissionShowsError(t *testing.T) {
	f := openGate()
	f.submitErr = &checkin.SubmissionError{Kind: checkin.KindNetworkUnavailable, Message: "No connection."}
	m := newTestModel(f)

	m, _ = update(t, m, keyMsg("enter"))
	m, _ = update(t, m, submitCmd(f, models.MoodNeutro)())

	if !strings.Contains(m.View(), "No connection.") {
		t.Errorf("expected network error in view:\n%s", m.View())
	}
}

func TestRefreshPicksUpNewPeriod(t *testing.T) {
	f := openGate()
	f.decision.Prompt = false
	m := newTestModel(f)

	f.decision = gating.Decision{Date: "2024-05-01", Period: models.PeriodTarde, Prompt: true}
	m, cmd := update(t, m, refreshMsg(time.Now()))

	if cmd == nil {
		t.Error("refresh should reschedule itself")
	}
	if !strings.Contains(m.View(), "How are you feeling this afternoon?") {
		t.Errorf("expected afternoon prompt after refresh:\n%s", m.View())
	}
}

func TestStatsTab(t *testing.T) {
	m := newTestModel(openGate())
	m, _ = update(t, m, keyMsg("tab"))

	view := m.View()
	if !strings.Contains(view, "Average mood: 4.0 / 5 over 2 check-ins") {
		t.Errorf("unexpected stats view:\n%s", view)
	}
	if _, cmd := update(t, m, keyMsg("enter")); cmd != nil {
		t.Error("enter on the stats tab should do nothing")
	}
}

func TestNextRefresh(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{"mid period", time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local), time.Minute},
		{"just before noon", time.Date(2024, 5, 1, 11, 59, 30, 0, time.Local), 30 * time.Second},
		{"just before evening", time.Date(2024, 5, 1, 17, 59, 50, 0, time.Local), 10 * time.Second},
	}
	for _, tt := range tests {
		if got := nextRefresh(tt.now); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(openGate())
	m, cmd := update(t, m, keyMsg("q"))
	if cmd == nil || !m.quitting {
		t.Error("q should quit")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}
